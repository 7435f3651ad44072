package tracker

import (
	"fmt"
)

// NetWorthPoint is assets minus liabilities evaluated at a specific date.
// It is computed on demand and never stored.
type NetWorthPoint struct {
	Date        Date  `json:"date"`
	Assets      Money `json:"assets"`
	Liabilities Money `json:"liabilities"`
	NetWorth    Money `json:"netWorth"`
	// Stale is set when at least one holding was valued with a fallback
	// price (current price or zero) instead of a price dated on or before
	// the requested date.
	Stale bool `json:"stale,omitempty"`
}

// Valuation is the read-only working set for a multi-date net-worth
// computation: every holding, liability, price history and payment log of one
// portfolio, loaded once. A Valuation is immutable once built; when new data
// arrives mid-pass the caller builds a fresh one instead of mutating it.
type Valuation struct {
	portfolioID string
	currency    string
	holdings    []Holding
	liabilities []Liability
	// ownership maps assetID to the owned fraction (1 means 100%).
	ownership map[string]Quantity
	// histories maps assetID to its descending price history.
	histories map[string][]PricePoint
	current   map[string]Money
	payments  map[string][]LiabilityPayment
}

// NewValuation loads everything a net-worth pass needs in one round of store
// reads. This keeps a monthly series at O(dates) instead of
// O(dates x assets) lookups.
func NewValuation(store LedgerStore, oracle PriceOracle, portfolioID, currency string) (*Valuation, error) {
	holdings, err := store.Holdings(portfolioID)
	if err != nil {
		return nil, fmt.Errorf("load holdings: %w", err)
	}
	liabilities, err := store.Liabilities(portfolioID)
	if err != nil {
		return nil, fmt.Errorf("load liabilities: %w", err)
	}

	v := &Valuation{
		portfolioID: portfolioID,
		currency:    currency,
		holdings:    holdings,
		liabilities: liabilities,
		ownership:   make(map[string]Quantity, len(holdings)),
		histories:   make(map[string][]PricePoint, len(holdings)),
		current:     make(map[string]Money, len(holdings)),
		payments:    make(map[string][]LiabilityPayment, len(liabilities)),
	}

	for _, h := range holdings {
		pct := h.OwnershipPercent
		if pct.IsZero() {
			pct = hundred
		}
		v.ownership[h.AssetID] = Q(pct.Div(hundred))
		v.histories[h.AssetID] = oracle.PriceHistory(h.AssetID)
		v.current[h.AssetID] = oracle.CurrentPrice(h.AssetID)
	}
	for _, l := range liabilities {
		ps, err := store.Payments(l.ID)
		if err != nil {
			return nil, fmt.Errorf("load payments for %s: %w", l.ID, err)
		}
		v.payments[l.ID] = ps
	}
	return v, nil
}

// priceAsOf finds the latest price on or before the date. Histories are
// sorted descending by date, so the first hit wins and the scan exits early.
// With no dated price it falls back to the current price, then to zero; the
// stale return reports that a fallback happened.
func (v *Valuation) priceAsOf(assetID string, on Date) (price Money, stale bool) {
	for _, p := range v.histories[assetID] {
		if !p.Date.After(on) {
			return p.Close, false
		}
	}
	if cur := v.current[assetID]; !cur.IsZero() {
		return cur, true
	}
	return M(0, v.currency), true
}

// NetWorthAt values the portfolio at a date: holdings priced as of the date,
// liability balances reconstructed from their payment logs.
func (v *Valuation) NetWorthAt(on Date) NetWorthPoint {
	assets := M(0, v.currency)
	var stale bool
	for _, h := range v.holdings {
		price, s := v.priceAsOf(h.AssetID, on)
		stale = stale || s
		value := price.Mul(h.Quantity).Mul(v.ownership[h.AssetID])
		assets = assets.Add(value)
	}

	liabilities := M(0, v.currency)
	for _, l := range v.liabilities {
		liabilities = liabilities.Add(BalanceAt(l, v.payments[l.ID], on))
	}

	return NetWorthPoint{
		Date:        on,
		Assets:      assets,
		Liabilities: liabilities,
		NetWorth:    assets.Sub(liabilities),
		Stale:       stale,
	}
}

// History produces one point per calendar month-end in the range, all from
// this valuation's cached data.
func (v *Valuation) History(r Range) []NetWorthPoint {
	var points []NetWorthPoint
	for d := range r.MonthEnds() {
		points = append(points, v.NetWorthAt(d))
	}
	return points
}
