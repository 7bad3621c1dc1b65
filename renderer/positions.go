package renderer

import (
	"fmt"
	"sort"
	"strings"

	pnl "github.com/vldplcd/pnl-app"
)

// PositionsMarkdown renders the open-positions snapshot: one row per symbol
// sorted by descending |net quantity|. topN < 0 keeps all symbols.
func PositionsMarkdown(res *pnl.Result, currency string, topN int) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Open Positions Snapshot\n\n")
	fmt.Fprintln(&b, "| Symbol | Net | Long | Short | Last Px | Avg Long | Avg Short | Realized |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|---:|")

	type row struct {
		symbol string
		state  pnl.SymbolSnapshot
	}
	var rows []row
	for sym, s := range res.States {
		rows = append(rows, row{symbol: sym, state: s})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, z := rows[i].state.NetQty.Abs(), rows[j].state.NetQty.Abs()
		if a.Equal(z) {
			return rows[i].symbol < rows[j].symbol
		}
		return a.GreaterThan(z)
	})
	if topN >= 0 && len(rows) > topN {
		rows = rows[:topN]
	}

	for _, r := range rows {
		s := r.state
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			r.symbol,
			s.NetQty,
			s.LongQty,
			s.ShortQty,
			optMoney(s.LastPrice, currency),
			optMoney(s.AvgCostLong, currency),
			optMoney(s.AvgPriceShort, currency),
			s.RealizedTotal.In(currency).SignedString(),
		)
	}

	return b.String()
}

func optMoney(m *pnl.Money, currency string) string {
	if m == nil {
		return "-"
	}
	return m.In(currency).String()
}
