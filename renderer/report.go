// Package renderer turns pnl results into markdown documents for the
// command-line tool. It is a pure projection: it reads Result values and
// never touches engine state.
package renderer

import (
	"fmt"
	"math"
	"sort"
	"strings"

	pnl "github.com/vldplcd/pnl-app"
)

// ReportMarkdown renders the PnL report: total gross PnL, a per-symbol
// breakdown sorted by descending |gross|, and the realized-delta KPIs.
// Amounts are formatted in the given currency; topN < 0 keeps all symbols.
func ReportMarkdown(res *pnl.Result, currency string, topN int) string {
	var b strings.Builder

	fmt.Fprint(&b, "# PnL Report\n\n")
	fmt.Fprintf(&b, "Total Gross PnL: **%s**\n\n", res.GrossTotal().In(currency).SignedString())

	fmt.Fprint(&b, "## Breakdown by Symbol\n\n")
	fmt.Fprintln(&b, "| Symbol | Gross PnL |")
	fmt.Fprintln(&b, "|:---|---:|")

	type row struct {
		symbol string
		gross  pnl.Money
	}
	var rows []row
	for sym, gross := range res.GrossBySymbol() {
		rows = append(rows, row{symbol: sym, gross: gross})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, z := rows[i].gross.Abs(), rows[j].gross.Abs()
		if a.Equal(z) {
			return rows[i].symbol < rows[j].symbol
		}
		return a.GreaterThan(z)
	})
	if topN >= 0 && len(rows) > topN {
		rows = rows[:topN]
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %s |\n", r.symbol, r.gross.In(currency).SignedString())
	}

	fmt.Fprint(&b, "\n## Additional Metrics\n\n")
	fmt.Fprintln(&b, "| Metric | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Win rate | %.2f%% |\n", res.WinRate()*100)
	fmt.Fprintf(&b, "| Avg trade rPnL | %.2f |\n", res.AverageTradePnL())
	fmt.Fprintf(&b, "| Profit factor | %s |\n", formatFactor(res.ProfitFactor()))

	return b.String()
}

func formatFactor(f float64) string {
	if math.IsInf(f, 1) {
		return "∞"
	}
	return fmt.Sprintf("%.2f", f)
}
