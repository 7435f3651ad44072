package tracker

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by stores when a referenced record does not exist.
var ErrNotFound = errors.New("not found")

// Asset is a tradeable or ownable thing the ledger references by ID.
type Asset struct {
	ID       string `json:"id"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name,omitempty"`
	Currency string `json:"currency,omitempty"`
	// OwnershipPercent is the owned share of the position in (0,100].
	// Zero means sole ownership.
	OwnershipPercent decimal.Decimal `json:"ownershipPercentage,omitempty"`
}

// PricePoint is one closing price in an asset's history.
type PricePoint struct {
	Date  Date  `json:"date"`
	Close Money `json:"close"`
}

// LedgerStore is the append-only document store behind the engine. It owns
// the source-of-truth logs (transactions, liability payments) and the derived
// holdings the engine writes back.
//
// All list reads return records ordered by date ascending.
type LedgerStore interface {
	// Transactions returns every transaction of a portfolio.
	Transactions(portfolioID string) ([]Transaction, error)
	// AssetTransactions returns the transactions of one (portfolio, asset) pair.
	AssetTransactions(portfolioID, assetID string) ([]Transaction, error)
	// Append adds transactions to the log.
	Append(txs ...Transaction) error
	// Replace swaps the transaction with the same ID for the given one.
	Replace(tx Transaction) error
	// Delete removes a transaction from the log.
	Delete(txID string) error

	// Assets returns the assets referenced by a portfolio.
	Assets(portfolioID string) ([]Asset, error)

	// Liabilities returns the liabilities of a portfolio.
	Liabilities(portfolioID string) ([]Liability, error)
	// Payments returns the payment log of one liability.
	Payments(liabilityID string) ([]LiabilityPayment, error)
	// AppendPayment adds a payment to a liability's log.
	AppendPayment(p LiabilityPayment) error

	// Holdings returns the last committed holdings of a portfolio.
	Holdings(portfolioID string) ([]Holding, error)
	// ReplaceHoldings atomically swaps the whole holding set of a
	// portfolio. Either all holdings are replaced or none are.
	ReplaceHoldings(portfolioID string, holdings []Holding) error
}

// PriceOracle supplies prices. The engine never fetches prices itself; it
// consumes whatever the oracle has, including nothing at all (zero fallback).
type PriceOracle interface {
	// CurrentPrice returns the latest known price of an asset, or a zero
	// Money when the oracle has no data.
	CurrentPrice(assetID string) Money
	// PriceHistory returns the asset's price history sorted descending by
	// date, newest first. It may be empty.
	PriceHistory(assetID string) []PricePoint
}

// SnapshotStore persists performance snapshots keyed by (portfolio, date).
type SnapshotStore interface {
	// Upsert inserts or replaces the snapshot for its (portfolio, date).
	Upsert(s PerformanceSnapshot) error
	// Range returns snapshots of a portfolio inside the range, ascending
	// by date.
	Range(portfolioID string, r Range) ([]PerformanceSnapshot, error)
	// DeleteFrom removes every snapshot of the portfolio dated on or
	// after from. Used to invalidate downstream snapshots after an edit.
	DeleteFrom(portfolioID string, from Date) error
}
