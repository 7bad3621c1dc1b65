package pnl

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// The execution log is a semicolon-separated CSV with a header naming at
// least these columns. Column order is free.
const (
	colTime    = "currentTime"
	colAction  = "action"
	colOrderID = "orderId"
	colProduct = "orderProduct"
	colSide    = "orderSide"
	colPrice   = "tradePx"
	colAmount  = "tradeAmt"
)

// ReadOrderLogFile reads and normalizes the execution log at path.
func ReadOrderLogFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open order log: %w", err)
	}
	defer f.Close()
	return ReadOrderLog(f)
}

// ReadOrderLog reads the raw execution log and normalizes it into Rows.
//
// Actions and sides are lower-cased, products upper-cased. Malformed or empty
// price and quantity fields are absorbed as absent, never raised as errors.
// Rows whose timestamp, action or side cannot be interpreted at all are
// dropped with a warning, since no downstream stage could place them.
func ReadOrderLog(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read order log header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colTime, colAction, colOrderID, colProduct, colSide} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("order log is missing column %q", required)
		}
	}

	var rows []Row
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read order log line %d: %w", line+1, err)
		}
		line++

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		ts, err := parseLogTime(field(colTime))
		if err != nil {
			logrus.Warnf("dropping log line %d: %v", line, err)
			continue
		}
		action, err := ParseAction(strings.ToLower(field(colAction)))
		if err != nil {
			logrus.Warnf("dropping log line %d: %v", line, err)
			continue
		}
		side, err := ParseSide(strings.ToLower(field(colSide)))
		if err != nil {
			logrus.Warnf("dropping log line %d: %v", line, err)
			continue
		}

		rows = append(rows, Row{
			Time:       ts,
			Action:     action,
			OrderID:    field(colOrderID),
			Product:    strings.ToUpper(field(colProduct)),
			Side:       side,
			TradePrice: moneyOrNone(field(colPrice)),
			TradeQty:   quantityOrNone(field(colAmount)),
		})
	}
	return rows, nil
}

// parseLogTime accepts nanoseconds since epoch (the native log format) or an
// RFC 3339 timestamp.
func parseLogTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if ns, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(0, ns).UTC(), nil
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unreadable timestamp %q", s)
}

// moneyOrNone converts a raw numeric field to Money, absorbing anything
// unreadable as absent.
func moneyOrNone(s string) *Money {
	if s == "" || isNaN(s) {
		return nil
	}
	m, err := ParseMoney(s)
	if err != nil {
		return nil
	}
	return &m
}

// quantityOrNone converts a raw numeric field to Quantity, absorbing anything
// unreadable as absent.
func quantityOrNone(s string) *Quantity {
	if s == "" || isNaN(s) {
		return nil
	}
	q, err := ParseQuantity(s)
	if err != nil {
		return nil
	}
	return &q
}

func isNaN(s string) bool {
	switch s {
	case "nan", "NaN", "None", "null":
		return true
	}
	return false
}
