package pnl

import "testing"

func TestOrdersToFills_SkipsEventsWithoutPriceOrQty(t *testing.T) {
	price := M(10)
	qty := Q(5)

	order := &Order{
		ID: "1", Product: "AA", Side: Buy,
		Events: []ActionEvent{
			{Time: at(1), Action: Sent},
			{Time: at(2), Action: Placed},
			{Time: at(3), Action: Filled, TradePrice: &price}, // no quantity
			{Time: at(4), Action: Filled, TradeQty: &qty},     // no price
			{Time: at(5), Action: Filled, TradePrice: &price, TradeQty: &qty},
		},
	}

	fills := OrdersToFills([]*Order{order})
	if len(fills) != 1 {
		t.Fatalf("got %d fills, want only the complete filled event", len(fills))
	}
	f := fills[0]
	if !f.Time.Equal(at(5)) || f.Product != "AA" || f.Side != Buy {
		t.Errorf("fill = %+v, want AA buy at t+5m", f)
	}
	if !f.Price.Equal(M(10)) || !f.Quantity.Equal(Q(5)) {
		t.Errorf("fill = %v@%v, want 5@10", f.Quantity, f.Price)
	}
}

func TestOrdersToFills_SortedByTimeAcrossOrders(t *testing.T) {
	p1, q1 := M(10), Q(1)
	p2, q2 := M(20), Q(2)

	orders := []*Order{
		{ID: "late", Product: "AA", Side: Buy, Events: []ActionEvent{
			{Time: at(9), Action: Filled, TradePrice: &p1, TradeQty: &q1},
		}},
		{ID: "early", Product: "BB", Side: Sell, Events: []ActionEvent{
			{Time: at(2), Action: Filled, TradePrice: &p2, TradeQty: &q2},
		}},
	}

	fills := OrdersToFills(orders)
	if len(fills) != 2 {
		t.Fatalf("got %d fills, want 2", len(fills))
	}
	if fills[0].Product != "BB" || fills[1].Product != "AA" {
		t.Errorf("fills not sorted by time: %s then %s", fills[0].Product, fills[1].Product)
	}
}

func TestOrdersToFills_StableOnEqualTimestamps(t *testing.T) {
	p, q := M(10), Q(1)
	orders := []*Order{
		{ID: "first", Product: "AA", Side: Buy, Events: []ActionEvent{
			{Time: at(1), Action: Filled, TradePrice: &p, TradeQty: &q},
		}},
		{ID: "second", Product: "BB", Side: Buy, Events: []ActionEvent{
			{Time: at(1), Action: Filled, TradePrice: &p, TradeQty: &q},
		}},
	}

	fills := OrdersToFills(orders)
	if fills[0].Product != "AA" || fills[1].Product != "BB" {
		t.Errorf("equal timestamps must keep prior order, got %s then %s", fills[0].Product, fills[1].Product)
	}
}

func TestOrdersToFills_MultipleFillsPerOrder(t *testing.T) {
	p1, q1 := M(10), Q(1)
	p2, q2 := M(11), Q(2)
	order := &Order{ID: "1", Product: "AA", Side: Sell, Events: []ActionEvent{
		{Time: at(1), Action: Placed},
		{Time: at(2), Action: Filled, TradePrice: &p1, TradeQty: &q1},
		{Time: at(3), Action: Filled, TradePrice: &p2, TradeQty: &q2},
	}}

	fills := OrdersToFills([]*Order{order})
	if len(fills) != 2 {
		t.Fatalf("got %d fills, want 2 from one order", len(fills))
	}
	for _, f := range fills {
		if f.Side != Sell {
			t.Errorf("fill side = %s, want the order's side (sell)", f.Side)
		}
	}
}
