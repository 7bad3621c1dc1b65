package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	pnl "github.com/vldplcd/pnl-app"
	"github.com/vldplcd/pnl-app/renderer"
)

// positionsCmd runs the pipeline and prints only the final open positions.
type positionsCmd struct {
	strategy  string
	positions string
	currency  string
	topN      int
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "show the final open positions after a log" }
func (*positionsCmd) Usage() string {
	return `pnlcalc positions [-strategy <fifo|lifo>] [-positions <seeds.json>] <log.csv>

  Processes the execution log and prints the final open-positions snapshot:
  per symbol net/long/short quantity, last price, average costs and realized
  total.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.strategy, "strategy", "fifo", "Lot selection strategy (fifo, lifo)")
	f.StringVar(&c.positions, "positions", "", "Path to a JSON file with initial positions")
	f.StringVar(&c.currency, "currency", "USD", "Currency used to format amounts")
	f.IntVar(&c.topN, "top", -1, "Keep only the top N symbols (-1 for all)")
}

func (c *positionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "positions expects exactly one execution log file")
		return subcommands.ExitUsageError
	}

	strategy, err := pnl.ParseStrategy(c.strategy)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	fills, err := loadFills(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	engine := pnl.NewEngine(strategy)
	if c.positions != "" {
		seeds, err := pnl.LoadInitialPositionsFile(c.positions, pnl.DefaultSeedPaths())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading initial positions %q: %v\n", c.positions, err)
			return subcommands.ExitFailure
		}
		for _, p := range seeds {
			engine.Seed(p)
		}
	}

	res := engine.ProcessFills(fills)
	printMarkdown(renderer.PositionsMarkdown(res, c.currency, c.topN))
	return subcommands.ExitSuccess
}
