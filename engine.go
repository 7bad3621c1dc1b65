package pnl

import (
	"sort"
	"time"
)

// SymbolState is the per-instrument state owned by one Engine: the open lot
// queues for both sides, the cumulative realized PnL, the per-match realized
// deltas and per-fill unrealized marks, and the last traded price.
//
// Fills always offset existing opposite exposure before opening new lots, so
// the long and short queues are never both non-empty.
type SymbolState struct {
	longLots      Lots
	shortLots     Lots
	realized      Money
	realizedLog   []Money
	unrealizedLog []Money
	last          Money
	hasLast       bool
}

// LongQty returns the total open long quantity.
func (st *SymbolState) LongQty() Quantity { return st.longLots.Qty() }

// ShortQty returns the total open short quantity.
func (st *SymbolState) ShortQty() Quantity { return st.shortLots.Qty() }

// Position returns the net signed quantity (long minus short).
func (st *SymbolState) Position() Quantity { return st.longLots.Qty().Sub(st.shortLots.Qty()) }

// Realized returns the symbol's cumulative realized PnL.
func (st *SymbolState) Realized() Money { return st.realized }

// LastPrice returns the last observed trade price, and false before any
// price is known.
func (st *SymbolState) LastPrice() (Money, bool) { return st.last, st.hasLast }

// RealizedLog returns the per-match realized deltas in consumption order.
func (st *SymbolState) RealizedLog() []Money { return st.realizedLog }

// UnrealizedLog returns the mark-to-market value recorded after each fill.
func (st *SymbolState) UnrealizedLog() []Money { return st.unrealizedLog }

// Unrealized marks every open lot against the last observed price. A symbol
// with no known price contributes zero.
func (st *SymbolState) Unrealized() Money {
	if !st.hasLast {
		return Money{}
	}
	var up Money
	for _, l := range st.longLots {
		up = up.Add(st.last.Sub(l.Price).Mul(l.Quantity))
	}
	for _, s := range st.shortLots {
		up = up.Add(s.Price.Sub(st.last).Mul(s.Quantity))
	}
	return up
}

// InitialPosition seeds a pre-existing position for a symbol before any real
// fill is processed. A positive quantity opens a long lot, a negative one a
// short lot, zero leaves the symbol flat.
//
// A zero At timestamp marks the position as pending: the engine resolves it
// to one minute before the earliest fill of the next processed batch, so the
// seeded lot always predates every real fill.
type InitialPosition struct {
	Symbol   string
	Quantity Quantity // signed
	AvgPrice Money
	At       time.Time
}

// Pending reports whether the position still waits for timestamp resolution.
func (p InitialPosition) Pending() bool { return p.At.IsZero() }

// Outcome is the set of PnL values produced by applying a single fill.
type Outcome struct {
	// Realized is the fill's realized delta: the sum of the per-match
	// deltas of this fill. Zero when nothing was offset.
	Realized Money
	// RealizedTotal is the portfolio-wide cumulative realized PnL.
	RealizedTotal Money
	// SymbolRealizedTotal is the symbol's cumulative realized PnL.
	SymbolRealizedTotal Money
	// UnrealizedTotal marks all open lots of all symbols.
	UnrealizedTotal Money
	// SymbolUnrealized marks the symbol's open lots.
	SymbolUnrealized Money
	// GrossTotal is RealizedTotal + UnrealizedTotal.
	GrossTotal Money
	// SymbolGrossTotal is SymbolRealizedTotal + SymbolUnrealized.
	SymbolGrossTotal Money
	// Gross is Realized + SymbolUnrealized, the fill's instantaneous gross.
	Gross Money
}

// Engine computes realized and unrealized PnL from a stream of fills, one
// symbol state per instrument, consuming open lots through the configured
// strategy.
//
// An Engine exclusively owns its state and is not safe for concurrent use;
// fills of one symbol must be applied in ascending time order because the
// consumption order of lots is the PnL computation itself.
type Engine struct {
	strategy Strategy
	states   map[string]*SymbolState
	realized Money
	pending  []InitialPosition
}

// NewEngine creates an empty engine using the given lot-selection strategy.
func NewEngine(strategy Strategy) *Engine {
	return &Engine{
		strategy: strategy,
		states:   make(map[string]*SymbolState),
	}
}

// state returns the symbol's state, creating it on first reference.
func (e *Engine) state(symbol string) *SymbolState {
	st, ok := e.states[symbol]
	if !ok {
		st = &SymbolState{}
		e.states[symbol] = st
	}
	return st
}

// State returns the symbol's state, creating it on first reference.
func (e *Engine) State(symbol string) *SymbolState { return e.state(symbol) }

// RealizedTotal returns the portfolio-wide cumulative realized PnL.
func (e *Engine) RealizedTotal() Money { return e.realized }

// UnrealizedTotal marks all open lots of all symbols against their last
// observed prices.
func (e *Engine) UnrealizedTotal() Money {
	var up Money
	for _, st := range e.states {
		up = up.Add(st.Unrealized())
	}
	return up
}

// Seed installs an initial position, replacing any existing lots for the
// symbol on both sides. When the position's timestamp is pending, it is
// recorded and resolved at the next ProcessFills call.
//
// The last observed price is set to the average price when that price is
// positive, so mark-to-market works before any real fill arrives.
func (e *Engine) Seed(p InitialPosition) {
	if p.Pending() {
		e.pending = append(e.pending, p)
		return
	}
	st := e.state(p.Symbol)
	st.longLots = nil
	st.shortLots = nil
	switch {
	case p.Quantity.IsPositive():
		st.longLots = Lots{{Quantity: p.Quantity, Price: p.AvgPrice, OpenedAt: p.At}}
	case p.Quantity.IsNegative():
		st.shortLots = Lots{{Quantity: p.Quantity.Abs(), Price: p.AvgPrice, OpenedAt: p.At}}
	}
	if p.AvgPrice.IsPositive() {
		st.last = p.AvgPrice
		st.hasLast = true
	}
}

// ApplyFill applies one fill to the symbol it concerns.
//
// A sell consumes the long queue through the strategy, realizing
// (fill price − lot price) × taken per match; a buy symmetrically consumes
// the short queue, realizing (lot price − fill price) × taken. Whatever
// quantity the queue could not satisfy opens a new lot on the fill's own
// side at the fill's price and time.
func (e *Engine) ApplyFill(f Fill) Outcome {
	st := e.state(f.Product)
	st.last = f.Price
	st.hasLast = true

	var realized Money
	left := f.Quantity
	switch f.Side {
	case Sell:
		for take, lot := range e.strategy.Take(&st.longLots, f.Quantity) {
			delta := f.Price.Sub(lot.Price).Mul(take)
			e.realized = e.realized.Add(delta)
			st.realized = st.realized.Add(delta)
			st.realizedLog = append(st.realizedLog, delta)
			realized = realized.Add(delta)
			left = left.Sub(take)
		}
		if left.IsPositive() {
			st.shortLots = append(st.shortLots, &Lot{Quantity: left, Price: f.Price, OpenedAt: f.Time})
		}
	case Buy:
		for take, lot := range e.strategy.Take(&st.shortLots, f.Quantity) {
			delta := lot.Price.Sub(f.Price).Mul(take)
			e.realized = e.realized.Add(delta)
			st.realized = st.realized.Add(delta)
			st.realizedLog = append(st.realizedLog, delta)
			realized = realized.Add(delta)
			left = left.Sub(take)
		}
		if left.IsPositive() {
			st.longLots = append(st.longLots, &Lot{Quantity: left, Price: f.Price, OpenedAt: f.Time})
		}
	}

	upTotal := e.UnrealizedTotal()
	up := st.Unrealized()
	st.unrealizedLog = append(st.unrealizedLog, up)

	return Outcome{
		Realized:            realized,
		RealizedTotal:       e.realized,
		SymbolRealizedTotal: st.realized,
		UnrealizedTotal:     upTotal,
		SymbolUnrealized:    up,
		GrossTotal:          e.realized.Add(upTotal),
		SymbolGrossTotal:    st.realized.Add(up),
		Gross:               realized.Add(up),
	}
}

// ProcessFills applies a whole batch in ascending time order (stable: equal
// timestamps keep their input order) and returns the per-fill time series
// plus a final per-symbol snapshot.
//
// Pending initial positions are resolved first, to one minute before the
// batch's earliest fill, so every seeded lot predates every real fill. An
// empty batch leaves pending positions pending and yields an empty series.
func (e *Engine) ProcessFills(fills []Fill) *Result {
	if len(e.pending) > 0 && len(fills) > 0 {
		first := fills[0].Time
		for _, f := range fills[1:] {
			if f.Time.Before(first) {
				first = f.Time
			}
		}
		at := first.Add(-time.Minute)
		for _, p := range e.pending {
			p.At = at
			e.Seed(p)
		}
		e.pending = nil
	}

	sorted := make([]Fill, len(fills))
	copy(sorted, fills)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	series := make([]Record, 0, len(sorted))
	for _, f := range sorted {
		out := e.ApplyFill(f)
		series = append(series, Record{Time: f.Time, Symbol: f.Product, Outcome: out})
	}

	return &Result{Series: series, States: e.Snapshot()}
}

// Snapshot renders the engine state into the read-only per-symbol view.
func (e *Engine) Snapshot() map[string]SymbolSnapshot {
	snap := make(map[string]SymbolSnapshot, len(e.states))
	for sym, st := range e.states {
		snap[sym] = newSymbolSnapshot(st)
	}
	return snap
}
