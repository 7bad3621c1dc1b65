package pnl

import "testing"

func row(id string, action Action, minutes int) Row {
	return Row{Time: at(minutes), Action: action, OrderID: id, Product: "AA", Side: Buy}
}

func filledRow(id string, minutes int, price, qty float64) Row {
	p, q := M(price), Q(qty)
	r := row(id, Filled, minutes)
	r.TradePrice = &p
	r.TradeQty = &q
	return r
}

func TestReconstructOrders_ValidSequences(t *testing.T) {
	tests := []struct {
		name string
		rows []Row
	}{
		{"sent_placed_filled", []Row{row("1", Sent, 1), row("1", Placed, 2), filledRow("1", 3, 10, 5)}},
		{"sent_placed_cancelling_cancelled", []Row{row("1", Sent, 1), row("1", Placed, 2), row("1", Cancelling, 3), row("1", Cancelled, 4)}},
		{"placed_filled", []Row{row("1", Placed, 1), filledRow("1", 2, 10, 5)}},
		{"sent_filled", []Row{row("1", Sent, 1), filledRow("1", 2, 10, 5)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			orders := ReconstructOrders(tc.rows)
			if len(orders) != 1 {
				t.Fatalf("got %d orders, want 1", len(orders))
			}
			if got := len(orders[0].Events); got != len(tc.rows) {
				t.Errorf("order has %d events, want %d", got, len(tc.rows))
			}
		})
	}
}

func TestReconstructOrders_RejectsInvalidSequences(t *testing.T) {
	tests := []struct {
		name string
		rows []Row
	}{
		{"double_fill", []Row{row("1", Sent, 1), row("1", Placed, 2), filledRow("1", 3, 10, 5), filledRow("1", 4, 11, 5)}},
		{"truncated", []Row{row("1", Sent, 1), row("1", Placed, 2)}},
		{"out_of_order", []Row{row("1", Placed, 1), row("1", Sent, 2), filledRow("1", 3, 10, 5)}},
		{"lone_fill", []Row{filledRow("1", 1, 10, 5)}},
		{"cancel_after_fill", []Row{row("1", Sent, 1), filledRow("1", 2, 10, 5), row("1", Cancelled, 3)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if orders := ReconstructOrders(tc.rows); len(orders) != 0 {
				t.Errorf("got %d orders, want rejection of the whole order", len(orders))
			}
		})
	}
}

func TestReconstructOrders_RejectionContributesNoFills(t *testing.T) {
	// an order with sequence sent|placed|filled|filled is rejected entirely:
	// even its first, individually well-formed fill is discarded.
	rows := []Row{
		row("bad", Sent, 1), row("bad", Placed, 2),
		filledRow("bad", 3, 10, 5), filledRow("bad", 4, 11, 5),
		row("good", Sent, 1), row("good", Placed, 2), filledRow("good", 3, 20, 7),
	}

	orders := ReconstructOrders(rows)
	if len(orders) != 1 || orders[0].ID != "good" {
		t.Fatalf("orders = %v, want only \"good\" to survive", orders)
	}

	fills := OrdersToFills(orders)
	if len(fills) != 1 {
		t.Fatalf("got %d fills, want 1 (none from the rejected order)", len(fills))
	}
	if !fills[0].Price.Equal(M(20)) {
		t.Errorf("surviving fill price = %v, want 20", fills[0].Price)
	}
}

func TestReconstructOrders_SortsEventsByTime(t *testing.T) {
	// rows of one order arrive shuffled in the log
	rows := []Row{
		filledRow("1", 3, 10, 5),
		row("1", Sent, 1),
		row("1", Placed, 2),
	}
	orders := ReconstructOrders(rows)
	if len(orders) != 1 {
		t.Fatalf("got %d orders, want 1 after time sorting", len(orders))
	}
	evs := orders[0].Events
	if evs[0].Action != Sent || evs[1].Action != Placed || evs[2].Action != Filled {
		t.Errorf("events not sorted by time: %v %v %v", evs[0].Action, evs[1].Action, evs[2].Action)
	}
}

func TestReconstructOrders_SideAndProductFromFirstRow(t *testing.T) {
	rows := []Row{
		{Time: at(1), Action: Sent, OrderID: "1", Product: "ZZ", Side: Sell},
		{Time: at(2), Action: Placed, OrderID: "1", Product: "ZZ", Side: Sell},
		filledRow("1", 3, 10, 5),
	}
	orders := ReconstructOrders(rows)
	if len(orders) != 1 {
		t.Fatalf("got %d orders, want 1", len(orders))
	}
	if orders[0].Product != "ZZ" || orders[0].Side != Sell {
		t.Errorf("order header = %s/%s, want ZZ/sell from the first row", orders[0].Product, orders[0].Side)
	}
}

func TestReconstructOrders_KeepsFirstSeenGroupOrder(t *testing.T) {
	rows := []Row{
		row("b", Sent, 5), row("a", Sent, 1),
		row("b", Placed, 6), row("a", Placed, 2),
		filledRow("b", 7, 10, 1), filledRow("a", 3, 10, 1),
	}
	orders := ReconstructOrders(rows)
	if len(orders) != 2 {
		t.Fatalf("got %d orders, want 2", len(orders))
	}
	if orders[0].ID != "b" || orders[1].ID != "a" {
		t.Errorf("order ids = %s, %s; want first-seen order b, a", orders[0].ID, orders[1].ID)
	}
}
