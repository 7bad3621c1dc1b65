package pnl

import (
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Row is one raw record of the execution log, already normalized by the
// reading boundary: unknown numeric fields are nil, never an error.
type Row struct {
	Time       time.Time
	Action     Action
	OrderID    string
	Product    string
	Side       Side
	TradePrice *Money
	TradeQty   *Quantity
}

// ActionEvent is a single order state transition reconstructed from a Row.
type ActionEvent struct {
	Time       time.Time
	Action     Action
	TradePrice *Money
	TradeQty   *Quantity
}

// Order is a logical order reconstructed from its log rows. It is built once
// by ReconstructOrders and never modified afterwards.
type Order struct {
	ID      string
	Product string
	Side    Side
	Events  []ActionEvent
}

// IsFilled reports whether the order carries at least one filled event.
func (o *Order) IsFilled() bool {
	for _, ev := range o.Events {
		if ev.Action == Filled {
			return true
		}
	}
	return false
}

// ClosedAt returns the time of the order's last event.
func (o *Order) ClosedAt() time.Time {
	var last time.Time
	for _, ev := range o.Events {
		if ev.Time.After(last) {
			last = ev.Time
		}
	}
	return last
}

// validSequences whitelists the action-kind sequences of a well-formed order.
// Anything else (duplicates, truncations, reorderings) rejects the whole order.
var validSequences = [][]Action{
	{Sent, Placed, Filled},
	{Sent, Placed, Cancelling, Cancelled},
	{Placed, Filled},
	{Sent, Filled},
}

func sequenceIsValid(seq []Action) bool {
	for _, valid := range validSequences {
		if len(seq) != len(valid) {
			continue
		}
		match := true
		for i := range seq {
			if seq[i] != valid[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func sequenceString(seq []Action) string {
	parts := make([]string, len(seq))
	for i, a := range seq {
		parts[i] = a.String()
	}
	return strings.Join(parts, "|")
}

// ReconstructOrders groups the raw rows by order id, sorts each group by time
// (stable, ties keep the log order), and validates the resulting action
// sequence. Orders with an invalid sequence are dropped entirely, with a
// warning naming the order and the observed sequence; the rest of the batch
// is unaffected.
//
// Side and product are taken from the first row of each group. Groups are
// emitted in first-seen order.
func ReconstructOrders(rows []Row) []*Order {
	groups := make(map[string][]Row)
	var ids []string
	for _, r := range rows {
		if _, seen := groups[r.OrderID]; !seen {
			ids = append(ids, r.OrderID)
		}
		groups[r.OrderID] = append(groups[r.OrderID], r)
	}

	var orders []*Order
	for _, id := range ids {
		grp := groups[id]
		sort.SliceStable(grp, func(i, j int) bool { return grp[i].Time.Before(grp[j].Time) })

		seq := make([]Action, len(grp))
		events := make([]ActionEvent, len(grp))
		for i, r := range grp {
			seq[i] = r.Action
			events[i] = ActionEvent{
				Time:       r.Time,
				Action:     r.Action,
				TradePrice: r.TradePrice,
				TradeQty:   r.TradeQty,
			}
		}

		if !sequenceIsValid(seq) {
			logrus.Warnf("skipping order %s due to invalid action sequence: %s", id, sequenceString(seq))
			continue
		}

		orders = append(orders, &Order{
			ID:      id,
			Product: grp[0].Product,
			Side:    grp[0].Side,
			Events:  events,
		})
	}
	return orders
}
