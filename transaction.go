package tracker

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the closed set of event types the ledger understands.
//
// The set is closed on purpose: cash-impact and lot-replay logic switch
// exhaustively over it and report an error for anything else, so a silently
// ignored type cannot hide a bug.
type TransactionType string

const (
	TxBuy          TransactionType = "buy"
	TxSell         TransactionType = "sell"
	TxDividend     TransactionType = "dividend"
	TxInterest     TransactionType = "interest"
	TxSplit        TransactionType = "split"
	TxTransferIn   TransactionType = "transfer_in"
	TxTransferOut  TransactionType = "transfer_out"
	TxFee          TransactionType = "fee"
	TxTax          TransactionType = "tax"
	TxSpinoff      TransactionType = "spinoff"
	TxMerger       TransactionType = "merger"
	TxReinvestment TransactionType = "reinvestment"
	TxEsppPurchase TransactionType = "espp_purchase"
	TxRsuVest      TransactionType = "rsu_vest"
)

// ErrUnknownTransactionType flags a transaction type outside the closed set.
var ErrUnknownTransactionType = errors.New("unknown transaction type")

// transactionTypes is the authoritative list, used by ParseTransactionType.
var transactionTypes = map[TransactionType]struct{}{
	TxBuy: {}, TxSell: {}, TxDividend: {}, TxInterest: {}, TxSplit: {},
	TxTransferIn: {}, TxTransferOut: {}, TxFee: {}, TxTax: {}, TxSpinoff: {},
	TxMerger: {}, TxReinvestment: {}, TxEsppPurchase: {}, TxRsuVest: {},
}

// ParseTransactionType validates a string against the closed tag set.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(s)
	if _, ok := transactionTypes[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTransactionType, s)
	}
	return t, nil
}

// GrantDetails carries the equity-plan metadata attached to ESPP and RSU
// acquisitions, kept on the lot for tax reporting.
type GrantDetails struct {
	GrantDate       Date            `json:"grantDate"`
	VestDate        Date            `json:"vestDate,omitzero"`
	DiscountPercent decimal.Decimal `json:"discountPercent,omitempty"`
	WithheldShares  Quantity        `json:"withheldShares,omitempty"`
}

// Transaction is an immutable ledger event. Edits create a replacement with
// the same ID; the record itself is never mutated in place.
type Transaction struct {
	ID          string          `json:"id"`
	PortfolioID string          `json:"portfolioId"`
	AssetID     string          `json:"assetId,omitempty"`
	Type        TransactionType `json:"type"`
	Date        Date            `json:"date"`
	Quantity    Quantity        `json:"quantity,omitempty"`
	Price       Money           `json:"price,omitempty"`
	Fees        Money           `json:"fees,omitempty"`
	TotalAmount Money           `json:"totalAmount,omitempty"`
	Currency    string          `json:"currency,omitempty"`

	// LotID designates the lot consumed by a specific-lot disposal.
	LotID string `json:"lotId,omitempty"`
	// SplitNumerator/SplitDenominator describe a split ratio (2/1 for a
	// two-for-one split). Only meaningful when Type is TxSplit.
	SplitNumerator   int64 `json:"splitNumerator,omitempty"`
	SplitDenominator int64 `json:"splitDenominator,omitempty"`
	// Grant is present only on espp_purchase and rsu_vest events.
	Grant *GrantDetails `json:"grant,omitempty"`

	Note string `json:"note,omitempty"`
}

// NewTransaction builds a transaction with a fresh ID.
func NewTransaction(portfolioID, assetID string, t TransactionType, on Date) Transaction {
	return Transaction{
		ID:          uuid.NewString(),
		PortfolioID: portfolioID,
		AssetID:     assetID,
		Type:        t,
		Date:        on,
	}
}

// opensLot reports whether the transaction creates a new tax lot.
func (tx Transaction) opensLot() bool {
	switch tx.Type {
	case TxBuy, TxEsppPurchase, TxRsuVest, TxTransferIn, TxReinvestment:
		return true
	default:
		return false
	}
}

// consumesLots reports whether the transaction disposes of existing lots.
func (tx Transaction) consumesLots() bool {
	return tx.Type == TxSell || tx.Type == TxTransferOut
}

// CashImpact returns the signed cash effect of the transaction on the
// portfolio: negative for cash leaving, positive for cash received.
//
// Buys cost quantity x price plus fees; sells yield quantity x price minus
// fees. Transfers and corporate actions move shares, not cash. Reinvested
// dividends are modeled as net zero: the dividend received is immediately
// offset by an equal purchase.
func (tx Transaction) CashImpact() (Money, error) {
	gross := tx.Price.Mul(tx.Quantity)
	switch tx.Type {
	case TxBuy, TxEsppPurchase:
		return gross.Add(tx.Fees).Neg(), nil
	case TxSell:
		return gross.Sub(tx.Fees), nil
	case TxDividend, TxInterest:
		return tx.TotalAmount, nil
	case TxFee, TxTax:
		return tx.TotalAmount.Abs().Neg(), nil
	case TxTransferIn, TxTransferOut, TxSplit, TxSpinoff, TxMerger, TxRsuVest, TxReinvestment:
		return M(0, tx.Currency), nil
	default:
		return Money{}, fmt.Errorf("cash impact: %w: %q", ErrUnknownTransactionType, tx.Type)
	}
}

// Validate checks the transaction for structural integrity before it is
// appended to the ledger.
func (tx Transaction) Validate() error {
	if tx.ID == "" {
		return errors.New("transaction id is missing")
	}
	if tx.PortfolioID == "" {
		return errors.New("portfolio id is missing")
	}
	if _, ok := transactionTypes[tx.Type]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTransactionType, tx.Type)
	}
	if tx.Date.IsZero() {
		return errors.New("transaction date is missing")
	}
	switch {
	case tx.opensLot() || tx.consumesLots():
		if tx.AssetID == "" {
			return fmt.Errorf("%s transaction without asset", tx.Type)
		}
		if !tx.Quantity.IsPositive() {
			return fmt.Errorf("%s transaction with non-positive quantity %s", tx.Type, tx.Quantity)
		}
	case tx.Type == TxSplit:
		if tx.AssetID == "" {
			return errors.New("split transaction without asset")
		}
		if tx.SplitNumerator <= 0 || tx.SplitDenominator <= 0 {
			return fmt.Errorf("split ratio %d/%d is not positive", tx.SplitNumerator, tx.SplitDenominator)
		}
	}
	if tx.Quantity.IsNegative() {
		return fmt.Errorf("negative quantity %s", tx.Quantity)
	}
	return nil
}
