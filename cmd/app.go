// Package cmd implements the CLI application to compute PnL from execution
// logs.
package cmd

import (
	"flag"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
	pnl "github.com/vldplcd/pnl-app"
)

// Commands lists the subcommands of the application.
// A main package registers them all and executes the user-selected one.
var Commands = []subcommands.Command{
	&runCmd{},
	&fillsCmd{},
	&positionsCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var logLevel = flag.String("log-level", "info", "Logging level (debug, info, warn, error)")

// ConfigureLogging applies the global logging flags. Must be called after
// flag.Parse.
func ConfigureLogging() {
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logrus.Warnf("unknown log level %q, using info", *logLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// printMarkdown renders a markdown document to the terminal, falling back to
// the raw text when the renderer cannot be built.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(110))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// loadFills runs the boundary pipeline: read the log, reconstruct and
// validate the orders, extract the normalized fills.
func loadFills(logPath string) ([]pnl.Fill, error) {
	rows, err := pnl.ReadOrderLogFile(logPath)
	if err != nil {
		return nil, err
	}
	logrus.Infof("read %d log rows from %s", len(rows), logPath)

	orders := pnl.ReconstructOrders(rows)
	logrus.Infof("reconstructed %d valid orders", len(orders))

	fills := pnl.OrdersToFills(orders)
	logrus.Infof("extracted %d fills", len(fills))
	return fills, nil
}
