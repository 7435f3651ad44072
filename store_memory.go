package tracker

import (
	"fmt"
	"sort"
)

// MemoryStore is a LedgerStore kept entirely in memory. It backs tests and
// the CLI's load-modify-save cycle around the JSONL files.
type MemoryStore struct {
	transactions []Transaction
	assets       []Asset
	liabilities  []Liability
	payments     map[string][]LiabilityPayment
	holdings     map[string][]Holding
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		payments: make(map[string][]LiabilityPayment),
		holdings: make(map[string][]Holding),
	}
}

func (m *MemoryStore) Transactions(portfolioID string) ([]Transaction, error) {
	var out []Transaction
	for _, tx := range m.transactions {
		if tx.PortfolioID == portfolioID {
			out = append(out, tx)
		}
	}
	sortTransactions(out)
	return out, nil
}

func (m *MemoryStore) AssetTransactions(portfolioID, assetID string) ([]Transaction, error) {
	var out []Transaction
	for _, tx := range m.transactions {
		if tx.PortfolioID == portfolioID && tx.AssetID == assetID {
			out = append(out, tx)
		}
	}
	sortTransactions(out)
	return out, nil
}

func (m *MemoryStore) Append(txs ...Transaction) error {
	m.transactions = append(m.transactions, txs...)
	return nil
}

func (m *MemoryStore) Replace(tx Transaction) error {
	for i, old := range m.transactions {
		if old.ID == tx.ID {
			m.transactions[i] = tx
			return nil
		}
	}
	return fmt.Errorf("transaction %q: %w", tx.ID, ErrNotFound)
}

func (m *MemoryStore) Delete(txID string) error {
	for i, old := range m.transactions {
		if old.ID == txID {
			m.transactions = append(m.transactions[:i], m.transactions[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("transaction %q: %w", txID, ErrNotFound)
}

// AddAsset registers an asset so holdings can pick up ownership metadata.
func (m *MemoryStore) AddAsset(a Asset) { m.assets = append(m.assets, a) }

func (m *MemoryStore) Assets(portfolioID string) ([]Asset, error) {
	out := make([]Asset, len(m.assets))
	copy(out, m.assets)
	return out, nil
}

// AddLiability registers a liability head.
func (m *MemoryStore) AddLiability(l Liability) { m.liabilities = append(m.liabilities, l) }

// UpsertLiability replaces the liability head with the same ID, or registers
// it when unseen.
func (m *MemoryStore) UpsertLiability(l Liability) {
	for i := range m.liabilities {
		if m.liabilities[i].ID == l.ID {
			m.liabilities[i] = l
			return
		}
	}
	m.liabilities = append(m.liabilities, l)
}

func (m *MemoryStore) Liabilities(portfolioID string) ([]Liability, error) {
	var out []Liability
	for _, l := range m.liabilities {
		if l.PortfolioID == portfolioID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *MemoryStore) Payments(liabilityID string) ([]LiabilityPayment, error) {
	ps := make([]LiabilityPayment, len(m.payments[liabilityID]))
	copy(ps, m.payments[liabilityID])
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].Date.Before(ps[j].Date) })
	return ps, nil
}

func (m *MemoryStore) AppendPayment(p LiabilityPayment) error {
	m.payments[p.LiabilityID] = append(m.payments[p.LiabilityID], p)
	return nil
}

func (m *MemoryStore) Holdings(portfolioID string) ([]Holding, error) {
	hs := make([]Holding, len(m.holdings[portfolioID]))
	copy(hs, m.holdings[portfolioID])
	return hs, nil
}

func (m *MemoryStore) ReplaceHoldings(portfolioID string, holdings []Holding) error {
	// Staged copy first so the swap below is all-or-nothing.
	hs := make([]Holding, len(holdings))
	copy(hs, holdings)
	m.holdings[portfolioID] = hs
	return nil
}

func sortTransactions(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.Before(txs[j].Date) })
}

var _ LedgerStore = (*MemoryStore)(nil)

// MemoryOracle is a PriceOracle backed by in-memory price maps.
type MemoryOracle struct {
	current   map[string]Money
	histories map[string][]PricePoint
}

// NewMemoryOracle creates an empty oracle. An asset with no data values at
// zero, which the consumers treat as a graceful degradation, not an error.
func NewMemoryOracle() *MemoryOracle {
	return &MemoryOracle{
		current:   make(map[string]Money),
		histories: make(map[string][]PricePoint),
	}
}

// SetCurrent sets the latest price of an asset.
func (o *MemoryOracle) SetCurrent(assetID string, price Money) {
	o.current[assetID] = price
}

// AddClose appends a dated close to the asset's history, keeping the history
// sorted descending by date.
func (o *MemoryOracle) AddClose(assetID string, on Date, close Money) {
	h := append(o.histories[assetID], PricePoint{Date: on, Close: close})
	sort.SliceStable(h, func(i, j int) bool { return h[i].Date.After(h[j].Date) })
	o.histories[assetID] = h
}

func (o *MemoryOracle) CurrentPrice(assetID string) Money {
	return o.current[assetID]
}

func (o *MemoryOracle) PriceHistory(assetID string) []PricePoint {
	return o.histories[assetID]
}

var _ PriceOracle = (*MemoryOracle)(nil)

// MemorySnapshots is a SnapshotStore keyed by (portfolio, date).
type MemorySnapshots struct {
	byPortfolio map[string][]PerformanceSnapshot
}

// NewMemorySnapshots creates an empty snapshot store.
func NewMemorySnapshots() *MemorySnapshots {
	return &MemorySnapshots{byPortfolio: make(map[string][]PerformanceSnapshot)}
}

func (m *MemorySnapshots) Upsert(s PerformanceSnapshot) error {
	snaps := m.byPortfolio[s.PortfolioID]
	for i, old := range snaps {
		if old.Date == s.Date {
			snaps[i] = s
			return nil
		}
	}
	snaps = append(snaps, s)
	sort.SliceStable(snaps, func(i, j int) bool { return snaps[i].Date.Before(snaps[j].Date) })
	m.byPortfolio[s.PortfolioID] = snaps
	return nil
}

func (m *MemorySnapshots) Range(portfolioID string, r Range) ([]PerformanceSnapshot, error) {
	var out []PerformanceSnapshot
	for _, s := range m.byPortfolio[portfolioID] {
		if r.Contains(s.Date) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MemorySnapshots) DeleteFrom(portfolioID string, from Date) error {
	snaps := m.byPortfolio[portfolioID][:0]
	for _, s := range m.byPortfolio[portfolioID] {
		if s.Date.Before(from) {
			snaps = append(snaps, s)
		}
	}
	m.byPortfolio[portfolioID] = snaps
	return nil
}

var _ SnapshotStore = (*MemorySnapshots)(nil)
