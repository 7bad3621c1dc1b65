package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"
)

// fillsCmd is an inspection aid: it shows the normalized fills a log yields
// after order validation, before any PnL is computed.
type fillsCmd struct {
	currency string
}

func (*fillsCmd) Name() string     { return "fills" }
func (*fillsCmd) Synopsis() string { return "list the normalized fills extracted from a log" }
func (*fillsCmd) Usage() string {
	return `pnlcalc fills <log.csv>

  Reconstructs and validates the orders of the execution log, then prints the
  normalized fills in processing order. Useful to inspect what the engine
  would actually consume.
`
}

func (c *fillsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "USD", "Currency used to format prices")
}

func (c *fillsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "fills expects exactly one execution log file")
		return subcommands.ExitUsageError
	}

	fills, err := loadFills(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var b strings.Builder
	fmt.Fprint(&b, "# Fills\n\n")
	fmt.Fprintln(&b, "| Time | Symbol | Side | Price | Quantity |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|")
	for _, fill := range fills {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			fill.Time.UTC().Format(time.RFC3339),
			fill.Product,
			fill.Side,
			fill.Price.In(c.currency),
			fill.Quantity,
		)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
