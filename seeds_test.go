package pnl

import (
	"testing"
	"time"
)

func TestLoadInitialPositions(t *testing.T) {
	raw := []byte(`{
		"AAPL": {"qty": 100, "avg_price": 150.5, "timestamp": "2024-01-01T09:00:00Z"},
		"MSFT": {"qty": -50, "avg_price": 20}
	}`)

	positions, err := LoadInitialPositions(raw, DefaultSeedPaths())
	if err != nil {
		t.Fatalf("LoadInitialPositions() error = %v", err)
	}
	if len(positions) != 2 {
		t.Fatalf("got %d positions, want 2", len(positions))
	}

	// sorted by symbol regardless of map iteration order
	aapl, msft := positions[0], positions[1]
	if aapl.Symbol != "AAPL" || msft.Symbol != "MSFT" {
		t.Fatalf("positions not sorted by symbol: %q, %q", aapl.Symbol, msft.Symbol)
	}

	if !aapl.Quantity.Equal(Q(100)) || !aapl.AvgPrice.Equal(M(150.5)) {
		t.Errorf("AAPL = %+v, want qty 100 at 150.5", aapl)
	}
	if want := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC); !aapl.At.Equal(want) {
		t.Errorf("AAPL at = %v, want %v", aapl.At, want)
	}

	if !msft.Quantity.Equal(Q(-50)) {
		t.Errorf("MSFT qty = %v, want -50 (short)", msft.Quantity)
	}
	if !msft.Pending() {
		t.Error("MSFT has no timestamp, must stay pending")
	}
}

func TestLoadInitialPositions_CustomPaths(t *testing.T) {
	raw := []byte(`{"AAPL": {"position": {"size": 10, "cost": 99}}}`)
	paths := SeedPaths{
		Qty:       "$.position.size",
		AvgPrice:  "$.position.cost",
		Timestamp: "$.position.asof",
	}

	positions, err := LoadInitialPositions(raw, paths)
	if err != nil {
		t.Fatalf("LoadInitialPositions() error = %v", err)
	}
	if len(positions) != 1 || !positions[0].Quantity.Equal(Q(10)) || !positions[0].AvgPrice.Equal(M(99)) {
		t.Fatalf("got %+v, want AAPL 10 at 99", positions)
	}
}

func TestLoadInitialPositions_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not an object", `[1, 2]`},
		{"missing qty", `{"AAPL": {"avg_price": 10}}`},
		{"non-numeric qty", `{"AAPL": {"qty": "ten", "avg_price": 10}}`},
		{"missing price", `{"AAPL": {"qty": 10}}`},
		{"zero price", `{"AAPL": {"qty": 10, "avg_price": 0}}`},
		{"negative price", `{"AAPL": {"qty": 10, "avg_price": -5}}`},
		{"non-string timestamp", `{"AAPL": {"qty": 10, "avg_price": 5, "timestamp": 1700000000}}`},
		{"malformed timestamp", `{"AAPL": {"qty": 10, "avg_price": 5, "timestamp": "yesterday"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadInitialPositions([]byte(tt.raw), DefaultSeedPaths()); err == nil {
				t.Fatal("expected an error, got none")
			}
		})
	}
}

func TestLoadInitialPositions_OneBadEntryFailsWholeLoad(t *testing.T) {
	raw := []byte(`{
		"AAPL": {"qty": 100, "avg_price": 150},
		"MSFT": {"qty": 50, "avg_price": -1}
	}`)
	if _, err := LoadInitialPositions(raw, DefaultSeedPaths()); err == nil {
		t.Fatal("expected the valid entry to be rejected along with the bad one")
	}
}

func TestLoadInitialPositions_ZeroQuantityAccepted(t *testing.T) {
	raw := []byte(`{"AAPL": {"qty": 0, "avg_price": 10}}`)
	positions, err := LoadInitialPositions(raw, DefaultSeedPaths())
	if err != nil {
		t.Fatalf("LoadInitialPositions() error = %v", err)
	}
	if len(positions) != 1 || !positions[0].Quantity.IsZero() {
		t.Fatalf("got %+v, want one flat seed", positions)
	}
}
