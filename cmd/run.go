package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
	pnl "github.com/vldplcd/pnl-app"
	"github.com/vldplcd/pnl-app/renderer"
)

// runCmd holds the flags for the 'run' subcommand.
type runCmd struct {
	strategy  string
	positions string
	outDir    string
	currency  string
	topN      int
	qtyPath   string
	pricePath string
	tsPath    string
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "compute PnL from an execution log" }
func (*runCmd) Usage() string {
	return `pnlcalc run [-strategy <fifo|lifo>] [-positions <seeds.json>] [-o <dir>] <log.csv>

  Reads the execution log, reconstructs and validates orders, extracts fills,
  and computes realized/unrealized PnL with the chosen lot-consumption
  strategy. Prints the PnL report; with -o, also writes the per-fill time
  series (pnl_timeseries.csv) and the final position states (positions.json).
`
}

func (c *runCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.strategy, "strategy", "fifo", "Lot selection strategy (fifo, lifo)")
	f.StringVar(&c.positions, "positions", "", "Path to a JSON file with initial positions")
	f.StringVar(&c.outDir, "o", "", "Output directory for the time series CSV and states JSON")
	f.StringVar(&c.currency, "currency", "USD", "Currency used to format amounts in reports")
	f.IntVar(&c.topN, "top", -1, "Keep only the top N symbols in reports (-1 for all)")
	f.StringVar(&c.qtyPath, "qty-path", "$.qty", "JSONPath of the quantity field in the positions file")
	f.StringVar(&c.pricePath, "price-path", "$.avg_price", "JSONPath of the average price field in the positions file")
	f.StringVar(&c.tsPath, "ts-path", "$.timestamp", "JSONPath of the timestamp field in the positions file")
}

func (c *runCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "run expects exactly one execution log file")
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

	seeded := false
	if c.positions != "" {
		paths := pnl.SeedPaths{Qty: c.qtyPath, AvgPrice: c.pricePath, Timestamp: c.tsPath}
		seeds, err := pnl.LoadInitialPositionsFile(c.positions, paths)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading initial positions %q: %v\n", c.positions, err)
			return subcommands.ExitFailure
		}
		for _, p := range seeds {
			if p.Quantity.IsZero() {
				logrus.Warnf("symbol %s has qty=0, position will be empty", p.Symbol)
			}
			engine.Seed(p)
		}
		logrus.Infof("seeded %d initial positions from %s", len(seeds), c.positions)
		seeded = true
	}

	logrus.Infof("processing %d fills with %s strategy", len(fills), strategy.Name())
	res := engine.ProcessFills(fills)

	printMarkdown(renderer.ReportMarkdown(res, c.currency, c.topN))
	if seeded {
		printMarkdown(renderer.PositionsMarkdown(res, c.currency, c.topN))
	}

	if c.outDir != "" {
		if err := writeOutputs(res, c.outDir); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}

func writeOutputs(res *pnl.Result, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create output directory %q: %w", dir, err)
	}

	csvPath := filepath.Join(dir, "pnl_timeseries.csv")
	cf, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("cannot create %q: %w", csvPath, err)
	}
	defer cf.Close()
	if err := res.WriteCSV(cf); err != nil {
		return fmt.Errorf("cannot write %q: %w", csvPath, err)
	}
	logrus.Infof("saved time series to %s", csvPath)

	jsonPath := filepath.Join(dir, "positions.json")
	jf, err := os.Create(jsonPath)
	if err != nil {
		return fmt.Errorf("cannot create %q: %w", jsonPath, err)
	}
	defer jf.Close()
	if err := res.WriteStates(jf); err != nil {
		return fmt.Errorf("cannot write %q: %w", jsonPath, err)
	}
	logrus.Infof("saved position states to %s", jsonPath)
	return nil
}
