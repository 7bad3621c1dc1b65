package pnl

import (
	"fmt"
	"iter"
)

// Strategy decides which open lots are consumed to satisfy a required
// quantity.
//
// Take returns a lazy sequence of (taken quantity, lot) matches. Each match is
// yielded before the lot is decremented, so the consumer sees the lot's entry
// price intact. Lots are mutated in place and removed from the queue when
// exhausted. When the queue empties before the requirement is met, the
// sequence simply stops: the caller owns the unmet remainder.
type Strategy interface {
	Name() string
	Take(lots *Lots, need Quantity) iter.Seq2[Quantity, *Lot]
}

// FIFO consumes the oldest lot first.
type FIFO struct{}

func (FIFO) Name() string { return "fifo" }

func (FIFO) Take(lots *Lots, need Quantity) iter.Seq2[Quantity, *Lot] {
	return func(yield func(Quantity, *Lot) bool) {
		for need.IsPositive() && len(*lots) > 0 {
			lot := (*lots)[0]
			take := minQuantity(lot.Quantity, need)
			if !yield(take, lot) {
				return
			}
			lot.Quantity = lot.Quantity.Sub(take)
			need = need.Sub(take)
			if lot.Quantity.IsZero() {
				*lots = (*lots)[1:]
			}
		}
	}
}

// LIFO consumes the most recently opened lot first.
type LIFO struct{}

func (LIFO) Name() string { return "lifo" }

func (LIFO) Take(lots *Lots, need Quantity) iter.Seq2[Quantity, *Lot] {
	return func(yield func(Quantity, *Lot) bool) {
		for need.IsPositive() && len(*lots) > 0 {
			lot := (*lots)[len(*lots)-1]
			take := minQuantity(lot.Quantity, need)
			if !yield(take, lot) {
				return
			}
			lot.Quantity = lot.Quantity.Sub(take)
			need = need.Sub(take)
			if lot.Quantity.IsZero() {
				*lots = (*lots)[:len(*lots)-1]
			}
		}
	}
}

// ParseStrategy parses a strategy name into its implementation.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "fifo", "FIFO":
		return FIFO{}, nil
	case "lifo", "LIFO":
		return LIFO{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (available: fifo, lifo)", s)
	}
}
