package tracker

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Holding is the derived aggregate for one (portfolio, asset) pair. It is a
// cacheable projection rebuilt wholesale from the transaction log, never a
// source of truth.
type Holding struct {
	PortfolioID       string          `json:"portfolioId"`
	AssetID           string          `json:"assetId"`
	Quantity          Quantity        `json:"quantity"`
	CostBasis         Money           `json:"costBasis"`
	AverageCost       Money           `json:"averageCost"`
	CurrentValue      Money           `json:"currentValue"`
	UnrealizedGain    Money           `json:"unrealizedGain"`
	UnrealizedGainPct Percent         `json:"unrealizedGainPercent"`
	OwnershipPercent  decimal.Decimal `json:"ownershipPercentage"`
	Lots              []TaxLot        `json:"lots"`
}

// HoldingOptions configures a ledger replay.
type HoldingOptions struct {
	// Method selects the default lot disposal discipline. A transaction
	// carrying a LotID always consumes that specific lot.
	Method DisposalMethod
	// OwnershipPercent is the owned share of the position in (0,100].
	// Zero means 100 (sole ownership).
	OwnershipPercent decimal.Decimal
	// CurrentPrice values the position. A zero price values it at zero.
	CurrentPrice Money
}

var hundred = decimal.NewFromInt(100)

// BuildHolding replays the full transaction history of one (portfolio, asset)
// pair into a Holding with a fully reconstructed lot list.
//
// The replay is pure: on any integrity violation (oversell, unknown type) it
// returns an error and no partial aggregate. Transactions for other assets or
// portfolios are rejected rather than skipped, since a mixed history is a
// caller bug.
func BuildHolding(txs []Transaction, opts HoldingOptions) (*Holding, error) {
	if len(txs) == 0 {
		return nil, fmt.Errorf("no transactions to replay")
	}
	portfolioID, assetID := txs[0].PortfolioID, txs[0].AssetID

	ordered := make([]Transaction, len(txs))
	copy(ordered, txs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	var book lotBook
	for _, tx := range ordered {
		if tx.PortfolioID != portfolioID || tx.AssetID != assetID {
			return nil, fmt.Errorf("transaction %s belongs to (%s,%s), replaying (%s,%s)",
				tx.ID, tx.PortfolioID, tx.AssetID, portfolioID, assetID)
		}
		if err := replay(&book, tx, opts.Method); err != nil {
			return nil, fmt.Errorf("replay %s on %s: %w", tx.Type, tx.Date, err)
		}
	}

	return newHolding(portfolioID, assetID, &book, opts), nil
}

// replay applies a single transaction to the lot book. A transaction naming
// a lot overrides the configured discipline with a specific-lot disposal.
func replay(book *lotBook, tx Transaction, method DisposalMethod) error {
	switch tx.Type {
	case TxBuy, TxTransferIn, TxReinvestment:
		book.acquire(openLot(tx))
	case TxEsppPurchase, TxRsuVest:
		l := openLot(tx)
		l.Grant = tx.Grant
		book.acquire(l)
	case TxSell, TxTransferOut:
		if tx.LotID != "" {
			method = SpecificLot
		}
		return book.dispose(tx.Quantity, method, tx.LotID)
	case TxSplit:
		book.split(tx.SplitNumerator, tx.SplitDenominator)
	case TxDividend, TxInterest, TxFee, TxTax, TxSpinoff, TxMerger:
		// Cash-only or corporate-action bookkeeping; no lot effect here.
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTransactionType, tx.Type)
	}
	return nil
}

// openLot creates the lot for a buy-like transaction.
func openLot(tx Transaction) TaxLot {
	return TaxLot{
		ID:                tx.ID,
		PurchaseDate:      tx.Date,
		PurchasePrice:     tx.Price,
		OriginalQuantity:  tx.Quantity,
		RemainingQuantity: tx.Quantity,
		Note:              tx.Note,
	}
}

// newHolding derives the aggregate figures from a replayed lot book.
func newHolding(portfolioID, assetID string, book *lotBook, opts HoldingOptions) *Holding {
	ownership := opts.OwnershipPercent
	if ownership.IsZero() {
		ownership = hundred
	}

	h := &Holding{
		PortfolioID:      portfolioID,
		AssetID:          assetID,
		Quantity:         book.quantity(),
		CostBasis:        book.costBasis(),
		OwnershipPercent: ownership,
		Lots:             book.live(),
	}

	if !h.Quantity.IsZero() {
		h.AverageCost = h.CostBasis.Div(h.Quantity)
	}
	h.CurrentValue = opts.CurrentPrice.Mul(h.Quantity).Scale(ownership.Div(hundred))
	h.UnrealizedGain = h.CurrentValue.Sub(h.CostBasis)
	h.UnrealizedGainPct = h.UnrealizedGain.PercentOf(h.CostBasis)
	return h
}
