package pnl

import "time"

var t0 = time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)

// at is a helper for tests to build timestamps relative to t0.
func at(minutes int) time.Time { return t0.Add(time.Duration(minutes) * time.Minute) }

// buy and sell are helpers for tests to build fills from consts.
func buy(symbol string, qty, price float64, minutes int) Fill {
	return Fill{Time: at(minutes), Product: symbol, Side: Buy, Price: M(price), Quantity: Q(qty)}
}

func sell(symbol string, qty, price float64, minutes int) Fill {
	return Fill{Time: at(minutes), Product: symbol, Side: Sell, Price: M(price), Quantity: Q(qty)}
}
