package pnl

import "time"

// Lot is an open slice of exposure on one side of a position: a quantity
// acquired at a single price and time, waiting to be offset by later fills.
//
// A lot's quantity is strictly positive for its whole life; matching shrinks
// it and the owning queue drops it the moment it reaches zero.
type Lot struct {
	Quantity Quantity
	Price    Money
	OpenedAt time.Time
}

// Lots is an ordered queue of open lots, oldest first. It is owned by exactly
// one SymbolState side; strategies mutate it in place while matching.
type Lots []*Lot

// Qty returns the total open quantity in the queue.
func (l Lots) Qty() Quantity {
	var total Quantity
	for _, lot := range l {
		total = total.Add(lot.Quantity)
	}
	return total
}

// AvgPrice returns the quantity-weighted average price of the queue,
// and false when the queue is empty.
func (l Lots) AvgPrice() (Money, bool) {
	qty := l.Qty()
	if qty.IsZero() {
		return Money{}, false
	}
	var cost Money
	for _, lot := range l {
		cost = cost.Add(lot.Price.Mul(lot.Quantity))
	}
	return cost.Div(qty), true
}
