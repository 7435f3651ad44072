// Package tracker implements the valuation core of a personal investment
// tracker: it replays an append-only log of transactions and liability
// payments into tax lots, holdings, liability balances, net worth and daily
// performance snapshots.
//
// The package is deliberately pure: replay and valuation functions take their
// inputs as values and return derived aggregates without touching storage.
// Orchestration (loading the logs, swapping the recomputed aggregates in
// atomically) lives in the Engine, which talks to storage through the
// LedgerStore, PriceOracle and SnapshotStore interfaces.
//
// All monetary and quantity arithmetic is performed on arbitrary-precision
// decimals (github.com/shopspring/decimal) wrapped in the Money and Quantity
// value types. Binary floating point is never used for money math.
package tracker
