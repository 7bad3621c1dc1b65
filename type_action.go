package pnl

import "fmt"

// Action is one order state transition recorded in the execution log.
type Action int

const (
	Sent Action = iota
	Placed
	Filled
	Cancelling
	Cancelled
)

func (a Action) String() string {
	switch a {
	case Sent:
		return "sent"
	case Placed:
		return "placed"
	case Filled:
		return "filled"
	case Cancelling:
		return "cancelling"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ParseAction parses a string into an Action.
func ParseAction(s string) (Action, error) {
	switch s {
	case "sent":
		return Sent, nil
	case "placed":
		return Placed, nil
	case "filled":
		return Filled, nil
	case "cancelling":
		return Cancelling, nil
	case "cancelled":
		return Cancelled, nil
	default:
		return 0, fmt.Errorf("unknown action: %q", s)
	}
}
