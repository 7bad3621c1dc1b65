package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
	"github.com/vldplcd/pnl-app/cmd"
)

func main() {
	// Shell completion; exits by itself when invoked by the shell.
	completion().Complete("pnlcalc")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	cmd.ConfigureLogging()
	os.Exit(int(commander.Execute(context.Background())))
}

func completion() *complete.Command {
	logFiles := predict.Files("*.csv")
	strategies := predict.Set{"fifo", "lifo"}
	jsonFiles := predict.Files("*.json")

	return &complete.Command{
		Sub: map[string]*complete.Command{
			"run": {
				Flags: map[string]complete.Predictor{
					"strategy":  strategies,
					"positions": jsonFiles,
					"o":         predict.Dirs("*"),
					"currency":  predict.Something,
				},
				Args: logFiles,
			},
			"fills": {Args: logFiles},
			"positions": {
				Flags: map[string]complete.Predictor{
					"strategy":  strategies,
					"positions": jsonFiles,
				},
				Args: logFiles,
			},
			"topic": {Args: predict.Set{"readme", "logformat", "strategies", "seeding"}},
		},
		Flags: map[string]complete.Predictor{
			"log-level": predict.Set{"debug", "info", "warn", "error"},
		},
	}
}
