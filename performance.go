package tracker

import (
	"fmt"
	"sort"
)

// PerformanceSnapshot is the persisted valuation of a portfolio at the close
// of one day. There is exactly one snapshot per (portfolio, date).
type PerformanceSnapshot struct {
	PortfolioID      string  `json:"portfolioId"`
	Date             Date    `json:"date"`
	TotalValue       Money   `json:"totalValue"`
	TotalCost        Money   `json:"totalCost"`
	DayChange        Money   `json:"dayChange"`
	DayChangePct     Percent `json:"dayChangePercent"`
	CumulativeReturn Money   `json:"cumulativeReturn"`
	TWRReturn        Percent `json:"twrReturn"`
	HoldingCount     int     `json:"holdingCount"`
	// HasInterpolatedPrices is set when at least one position was valued
	// with a price carried over from an earlier day instead of a close
	// dated on the snapshot day.
	HasInterpolatedPrices bool `json:"hasInterpolatedPrices"`
}

// ComputeSnapshots replays a portfolio's transaction history day by day over
// the range and produces one snapshot per day.
//
// The function is pure: it reads prices from the valuation's cached
// histories and touches no storage. prevValue and prevTWR seed the day-change
// and TWR chain when the range continues an existing snapshot series; pass
// zero values when computing from inception.
func ComputeSnapshots(v *Valuation, txs []Transaction, r Range, prev *PerformanceSnapshot) ([]PerformanceSnapshot, error) {
	ordered := make([]Transaction, len(txs))
	copy(ordered, txs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	books := make(map[string]*lotBook)
	next := 0

	// Replay everything before the range so the books open with the
	// correct positions.
	for next < len(ordered) && ordered[next].Date.Before(r.From) {
		if err := applyToBooks(books, ordered[next]); err != nil {
			return nil, err
		}
		next++
	}

	var snaps []PerformanceSnapshot
	var firstValue Money
	twrFactor := 1.0
	var prevValue Money
	if prev != nil {
		prevValue = prev.TotalValue
		twrFactor = 1 + float64(prev.TWRReturn)/100
		firstValue = prev.TotalValue.Sub(prev.CumulativeReturn) // value at inception
	}

	for day := range r.Days() {
		// Net contribution of the day, to be excluded from the TWR.
		flow := M(0, v.currency)
		for next < len(ordered) && !ordered[next].Date.After(day) {
			tx := ordered[next]
			if err := applyToBooks(books, tx); err != nil {
				return nil, err
			}
			flow = flow.Add(contribution(tx))
			next++
		}

		value := M(0, v.currency)
		cost := M(0, v.currency)
		holdingCount := 0
		interpolated := false
		for assetID, book := range books {
			qty := book.quantity()
			if qty.IsZero() {
				continue
			}
			holdingCount++
			price, approx := v.priceOn(assetID, day)
			interpolated = interpolated || approx
			own := v.ownership[assetID]
			if own.IsZero() {
				own = Q(1)
			}
			value = value.Add(price.Mul(qty).Mul(own))
			cost = cost.Add(book.costBasis())
		}

		s := PerformanceSnapshot{
			PortfolioID:           v.portfolioID,
			Date:                  day,
			TotalValue:            value,
			TotalCost:             cost,
			HoldingCount:          holdingCount,
			HasInterpolatedPrices: interpolated,
		}

		if len(snaps) == 0 && prev == nil {
			firstValue = value
		} else {
			s.DayChange = value.Sub(prevValue)
			s.DayChangePct = s.DayChange.PercentOf(prevValue)

			// Market-only daily return: strip the day's net
			// contribution before chaining.
			if !prevValue.IsZero() {
				market := value.Sub(prevValue).Sub(flow)
				twrFactor *= 1 + market.InexactFloat64()/prevValue.InexactFloat64()
			}
		}
		s.CumulativeReturn = value.Sub(firstValue)
		s.TWRReturn = Percent((twrFactor - 1) * 100)

		snaps = append(snaps, s)
		prevValue = value
	}
	return snaps, nil
}

// applyToBooks routes one transaction into its asset's lot book. Cash-only
// transactions have no book and are skipped; unknown types are an error.
func applyToBooks(books map[string]*lotBook, tx Transaction) error {
	if _, ok := transactionTypes[tx.Type]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTransactionType, tx.Type)
	}
	if !tx.opensLot() && !tx.consumesLots() && tx.Type != TxSplit {
		return nil
	}
	book := books[tx.AssetID]
	if book == nil {
		book = &lotBook{}
		books[tx.AssetID] = book
	}
	if err := replay(book, tx, FIFO); err != nil {
		return fmt.Errorf("replay %s on %s: %w", tx.Type, tx.Date, err)
	}
	return nil
}

// contribution is the external value a transaction moves into (+) or out of
// (-) the portfolio for TWR purposes. Reinvested dividends are net zero: the
// cash received offsets the purchase.
func contribution(tx Transaction) Money {
	switch tx.Type {
	case TxBuy, TxEsppPurchase, TxRsuVest, TxTransferIn:
		return tx.Price.Mul(tx.Quantity)
	case TxSell, TxTransferOut:
		return tx.Price.Mul(tx.Quantity).Neg()
	default:
		return Money{}
	}
}

// priceOn finds the price for a day, reporting whether it had to be carried
// over from an earlier close (or the current price) instead of being an
// exact close for that day.
func (v *Valuation) priceOn(assetID string, on Date) (price Money, interpolated bool) {
	for _, p := range v.histories[assetID] {
		if p.Date == on {
			return p.Close, false
		}
		if p.Date.Before(on) {
			return p.Close, true
		}
	}
	if cur := v.current[assetID]; !cur.IsZero() {
		return cur, true
	}
	return M(0, v.currency), true
}
