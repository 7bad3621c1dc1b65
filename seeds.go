package pnl

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/PaesslerAG/jsonpath"
)

// SeedPaths selects where inside each symbol's JSON object the seed fields
// live. The defaults match the native format:
//
//	{"AAPL": {"qty": 100, "avg_price": 150.5, "timestamp": "2024-01-01T09:00:00Z"}}
//
// Overriding the paths lets position exports of other systems be ingested
// without reshaping them first.
type SeedPaths struct {
	Qty       string
	AvgPrice  string
	Timestamp string
}

// DefaultSeedPaths returns the paths of the native seed format.
func DefaultSeedPaths() SeedPaths {
	return SeedPaths{Qty: "$.qty", AvgPrice: "$.avg_price", Timestamp: "$.timestamp"}
}

// LoadInitialPositionsFile loads and validates a seed file.
func LoadInitialPositionsFile(path string, paths SeedPaths) ([]InitialPosition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read initial positions: %w", err)
	}
	return LoadInitialPositions(raw, paths)
}

// LoadInitialPositions parses a JSON object keyed by symbol into seeding
// instructions.
//
// The whole load fails on the first invalid entry: non-numeric quantity or
// price, non-positive price, or a malformed timestamp. A zero quantity is
// accepted (it seeds a flat symbol) but is worth a warning upstream. The
// timestamp is optional; a missing one defers resolution to the engine.
func LoadInitialPositions(raw []byte, paths SeedPaths) ([]InitialPosition, error) {
	var root map[string]any
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("initial positions must be a JSON object keyed by symbol: %w", err)
	}

	positions := make([]InitialPosition, 0, len(root))
	for symbol, data := range root {
		if symbol == "" {
			return nil, fmt.Errorf("initial positions contain an empty symbol")
		}

		qty, err := seedNumber(data, paths.Qty)
		if err != nil {
			return nil, fmt.Errorf("invalid qty for %s: %w", symbol, err)
		}
		price, err := seedNumber(data, paths.AvgPrice)
		if err != nil {
			return nil, fmt.Errorf("invalid avg_price for %s: %w", symbol, err)
		}
		if price <= 0 {
			return nil, fmt.Errorf("avg_price for %s must be positive, got %v", symbol, price)
		}

		p := InitialPosition{Symbol: symbol, Quantity: Q(qty), AvgPrice: M(price)}

		if v, err := jsonpath.Get(paths.Timestamp, data); err == nil && v != nil {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("timestamp for %s must be an RFC 3339 string, got %T", symbol, v)
			}
			at, err := time.Parse(time.RFC3339, s)
			if err != nil {
				return nil, fmt.Errorf("invalid timestamp for %s: %w", symbol, err)
			}
			p.At = at
		}

		positions = append(positions, p)
	}

	// map iteration order is random; seeds apply deterministically.
	sort.Slice(positions, func(i, j int) bool { return positions[i].Symbol < positions[j].Symbol })
	return positions, nil
}

// seedNumber extracts a required numeric field from a symbol's JSON object.
func seedNumber(data any, path string) (float64, error) {
	v, err := jsonpath.Get(path, data)
	if err != nil {
		return 0, fmt.Errorf("missing field at %s", path)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case json.Number:
		return n.Float64()
	default:
		return 0, fmt.Errorf("field at %s must be numeric, got %T", path, v)
	}
}
