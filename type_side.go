package pnl

import "fmt"

// Side is the direction of an order and of the fills it produces.
type Side int

const (
	// Buy increases long exposure (after offsetting any short lots).
	Buy Side = iota
	// Sell increases short exposure (after offsetting any long lots).
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// ParseSide parses a string into a Side.
func ParseSide(s string) (Side, error) {
	switch s {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	default:
		return 0, fmt.Errorf("unknown side: %q", s)
	}
}
