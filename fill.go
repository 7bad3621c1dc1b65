package pnl

import (
	"sort"
	"time"
)

// Fill is a normalized execution: the quantity of a product traded at a price
// and time, on the side of the order it belongs to.
type Fill struct {
	Time     time.Time
	Product  string
	Side     Side
	Price    Money
	Quantity Quantity
}

// OrdersToFills projects validated orders into the fills the engine consumes.
//
// Every filled event carrying both a trade price and a trade quantity yields
// one Fill; an order may contribute zero, one or several. The result is
// stably sorted by ascending time, ties keeping their prior relative order.
func OrdersToFills(orders []*Order) []Fill {
	var fills []Fill
	for _, o := range orders {
		for _, ev := range o.Events {
			if ev.Action != Filled || ev.TradePrice == nil || ev.TradeQty == nil {
				continue
			}
			fills = append(fills, Fill{
				Time:     ev.Time,
				Product:  o.Product,
				Side:     o.Side,
				Price:    *ev.TradePrice,
				Quantity: *ev.TradeQty,
			})
		}
	}
	sort.SliceStable(fills, func(i, j int) bool { return fills[i].Time.Before(fills[j].Time) })
	return fills
}
