// Package pnl computes realized and unrealized profit and loss for a
// portfolio of traded instruments from a stream of trade executions.
//
// The core functionalities include:
//   - Order Reconstruction: grouping raw execution-log rows by order id,
//     ordering them in time and validating the action sequence, so only
//     well-formed orders reach the calculation.
//   - Fill Extraction: projecting validated orders' filled events into
//     normalized, time-sorted executions.
//   - PnL Engine: a stateful lot-matching calculator supporting simultaneous
//     long and short exposure per symbol, pluggable lot-consumption policies
//     (FIFO, LIFO) and pre-existing seeded positions.
//   - Result Projection: a read-only per-fill time series and per-symbol
//     snapshot, with KPI accessors and CSV/JSON exports.
//
// All amounts are exact decimals; the engine is synchronous and owns its
// state exclusively. This package is the foundational logic for the
// `pnlcalc` command-line tool.
package pnl
