package pnl

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"time"
)

// Record is one point of the per-fill time series: the outcome of applying
// the fill at Time to Symbol.
type Record struct {
	Time   time.Time
	Symbol string
	Outcome
}

// LotView is the reporting view of one open lot.
type LotView struct {
	Qty      Quantity  `json:"qty"`
	Price    Money     `json:"price"`
	OpenedAt time.Time `json:"ts_open"`
}

// SymbolSnapshot is the reporting view of one symbol's final state.
// Average costs are nil when the corresponding side is empty, the last price
// is nil when no trade price was ever observed.
type SymbolSnapshot struct {
	LastPrice     *Money    `json:"last_price"`
	RealizedTotal Money     `json:"realized_total"`
	LongLots      []LotView `json:"long_lots"`
	ShortLots     []LotView `json:"short_lots"`
	LongQty       Quantity  `json:"long_qty"`
	ShortQty      Quantity  `json:"short_qty"`
	NetQty        Quantity  `json:"net_qty"`
	AvgCostLong   *Money    `json:"avg_cost_long"`
	AvgPriceShort *Money    `json:"avg_price_short"`
}

func lotViews(lots Lots) []LotView {
	views := make([]LotView, 0, len(lots))
	for _, l := range lots {
		views = append(views, LotView{Qty: l.Quantity, Price: l.Price, OpenedAt: l.OpenedAt})
	}
	return views
}

func newSymbolSnapshot(st *SymbolState) SymbolSnapshot {
	snap := SymbolSnapshot{
		RealizedTotal: st.realized,
		LongLots:      lotViews(st.longLots),
		ShortLots:     lotViews(st.shortLots),
		LongQty:       st.LongQty(),
		ShortQty:      st.ShortQty(),
		NetQty:        st.Position(),
	}
	if last, ok := st.LastPrice(); ok {
		snap.LastPrice = &last
	}
	if avg, ok := st.longLots.AvgPrice(); ok {
		snap.AvgCostLong = &avg
	}
	if avg, ok := st.shortLots.AvgPrice(); ok {
		snap.AvgPriceShort = &avg
	}
	return snap
}

// Result carries the outputs of one processed batch: the per-fill time series
// and the final per-symbol snapshot. All accessors are read-only.
type Result struct {
	Series []Record
	States map[string]SymbolSnapshot
}

// RealizedTotal returns the portfolio realized PnL from the snapshot.
func (r *Result) RealizedTotal() Money {
	var total Money
	for _, s := range r.States {
		total = total.Add(s.RealizedTotal)
	}
	return total
}

func unrealizedOf(s SymbolSnapshot) Money {
	if s.LastPrice == nil {
		return Money{}
	}
	var up Money
	for _, l := range s.LongLots {
		up = up.Add(s.LastPrice.Sub(l.Price).Mul(l.Qty))
	}
	for _, l := range s.ShortLots {
		up = up.Add(l.Price.Sub(*s.LastPrice).Mul(l.Qty))
	}
	return up
}

// UnrealizedTotal returns the portfolio unrealized PnL from the snapshot.
func (r *Result) UnrealizedTotal() Money {
	var total Money
	for _, s := range r.States {
		total = total.Add(unrealizedOf(s))
	}
	return total
}

// GrossTotal returns realized plus unrealized portfolio PnL.
func (r *Result) GrossTotal() Money {
	return r.RealizedTotal().Add(r.UnrealizedTotal())
}

// GrossBySymbol returns realized plus unrealized PnL per symbol.
func (r *Result) GrossBySymbol() map[string]Money {
	out := make(map[string]Money, len(r.States))
	for sym, s := range r.States {
		out[sym] = s.RealizedTotal.Add(unrealizedOf(s))
	}
	return out
}

// realizedDeltas returns the non-zero per-fill realized deltas, the proxy for
// trade-level PnL behind the KPI accessors.
func (r *Result) realizedDeltas() []Money {
	var deltas []Money
	for _, rec := range r.Series {
		if !rec.Realized.IsZero() {
			deltas = append(deltas, rec.Realized)
		}
	}
	return deltas
}

// WinRate returns the fraction of positive realized deltas, 0 when there are
// none.
func (r *Result) WinRate() float64 {
	deltas := r.realizedDeltas()
	if len(deltas) == 0 {
		return 0
	}
	wins := 0
	for _, d := range deltas {
		if d.IsPositive() {
			wins++
		}
	}
	return float64(wins) / float64(len(deltas))
}

// AverageTradePnL returns the mean realized delta, 0 when there are none.
func (r *Result) AverageTradePnL() float64 {
	deltas := r.realizedDeltas()
	if len(deltas) == 0 {
		return 0
	}
	var sum Money
	for _, d := range deltas {
		sum = sum.Add(d)
	}
	return sum.InexactFloat64() / float64(len(deltas))
}

// ProfitFactor returns the sum of winning deltas over the absolute sum of
// losing ones. It is +Inf when there are wins and no losses, 0 when the
// series realized nothing.
func (r *Result) ProfitFactor() float64 {
	deltas := r.realizedDeltas()
	if len(deltas) == 0 {
		return 0
	}
	var wins, losses Money
	for _, d := range deltas {
		if d.IsPositive() {
			wins = wins.Add(d)
		} else {
			losses = losses.Add(d)
		}
	}
	w := wins.InexactFloat64()
	l := math.Abs(losses.InexactFloat64())
	if l == 0 {
		if w > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return w / l
}

// csvHeader is the column order of the exported time series.
var csvHeader = []string{
	"ts", "symbol",
	"realized_total", "unrealized_total", "gross_total",
	"realized_symbol", "unrealized_symbol", "gross_symbol",
	"realized_total_symbol", "gross_total_symbol",
}

// WriteCSV writes the per-fill time series as CSV.
func (r *Result) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, rec := range r.Series {
		row := []string{
			rec.Time.UTC().Format(time.RFC3339Nano),
			rec.Symbol,
			rec.RealizedTotal.Decimal().String(),
			rec.UnrealizedTotal.Decimal().String(),
			rec.GrossTotal.Decimal().String(),
			rec.Realized.Decimal().String(),
			rec.SymbolUnrealized.Decimal().String(),
			rec.Gross.Decimal().String(),
			rec.SymbolRealizedTotal.Decimal().String(),
			rec.SymbolGrossTotal.Decimal().String(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteStates writes the per-symbol snapshot as indented JSON.
func (r *Result) WriteStates(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.States)
}
