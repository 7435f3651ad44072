package tracker

import (
	"context"
	"fmt"
	"log"
)

// ProgressFunc reports recompute progress as days processed out of a total.
type ProgressFunc func(done, total int)

// Engine orchestrates the valuation core against storage. All recomputation
// triggered by a mutation completes before the mutation returns, so readers
// never observe a stale aggregate mixed with a fresh one. The engine assumes
// a single writer per portfolio.
type Engine struct {
	store    LedgerStore
	oracle   PriceOracle
	snaps    SnapshotStore
	currency string
	method   DisposalMethod
}

// NewEngine wires the engine to its collaborators. currency is the display
// currency every aggregate is reported in.
func NewEngine(store LedgerStore, oracle PriceOracle, snaps SnapshotStore, currency string, method DisposalMethod) *Engine {
	return &Engine{store: store, oracle: oracle, snaps: snaps, currency: currency, method: method}
}

// AddTransaction validates and appends a transaction, then re-derives the
// portfolio's holdings and invalidates snapshots from the transaction date.
func (e *Engine) AddTransaction(tx Transaction) error {
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("invalid %s transaction on %s: %w", tx.Type, tx.Date, err)
	}
	if err := e.store.Append(tx); err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}
	return e.afterMutation(tx.PortfolioID, tx.Date)
}

// ReplaceTransaction swaps the stored transaction carrying the same ID for
// the given one. Edits never mutate in place: the replacement is a new
// record under the old identity.
func (e *Engine) ReplaceTransaction(tx Transaction) error {
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("invalid %s transaction on %s: %w", tx.Type, tx.Date, err)
	}
	old, err := e.findTransaction(tx.PortfolioID, tx.ID)
	if err != nil {
		return err
	}
	if err := e.store.Replace(tx); err != nil {
		return fmt.Errorf("replace transaction: %w", err)
	}
	from := tx.Date
	if old.Date.Before(from) {
		from = old.Date
	}
	return e.afterMutation(tx.PortfolioID, from)
}

// DeleteTransaction removes a transaction from the log and re-derives the
// affected aggregates.
func (e *Engine) DeleteTransaction(portfolioID, txID string) error {
	tx, err := e.findTransaction(portfolioID, txID)
	if err != nil {
		return err
	}
	if err := e.store.Delete(txID); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return e.afterMutation(portfolioID, tx.Date)
}

// AddPayment appends a liability payment. Liability balances are derived on
// read, so only the net-worth view changes; no holdings recompute is needed.
func (e *Engine) AddPayment(p LiabilityPayment) error {
	if p.LiabilityID == "" {
		return fmt.Errorf("payment without liability id")
	}
	if err := e.store.AppendPayment(p); err != nil {
		return fmt.Errorf("append payment: %w", err)
	}
	return nil
}

func (e *Engine) findTransaction(portfolioID, txID string) (Transaction, error) {
	txs, err := e.store.Transactions(portfolioID)
	if err != nil {
		return Transaction{}, fmt.Errorf("load transactions: %w", err)
	}
	for _, tx := range txs {
		if tx.ID == txID {
			return tx, nil
		}
	}
	return Transaction{}, fmt.Errorf("transaction %q: %w", txID, ErrNotFound)
}

// afterMutation re-derives holdings synchronously and invalidates the
// snapshot series from the earliest affected date.
func (e *Engine) afterMutation(portfolioID string, from Date) error {
	if _, err := e.RecomputeHoldings(portfolioID); err != nil {
		return err
	}
	if err := e.snaps.DeleteFrom(portfolioID, from); err != nil {
		return fmt.Errorf("invalidate snapshots from %s: %w", from, err)
	}
	return nil
}

// RecomputeHoldings rebuilds every holding of the portfolio from its
// transaction log and replaces the stored set atomically. On any replay
// error nothing is persisted and the previously committed holdings remain.
func (e *Engine) RecomputeHoldings(portfolioID string) ([]Holding, error) {
	txs, err := e.store.Transactions(portfolioID)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	assets, err := e.store.Assets(portfolioID)
	if err != nil {
		return nil, fmt.Errorf("load assets: %w", err)
	}
	ownership := make(map[string]Asset, len(assets))
	for _, a := range assets {
		ownership[a.ID] = a
	}

	byAsset := make(map[string][]Transaction)
	var order []string
	for _, tx := range txs {
		if tx.AssetID == "" {
			continue
		}
		if _, seen := byAsset[tx.AssetID]; !seen {
			order = append(order, tx.AssetID)
		}
		byAsset[tx.AssetID] = append(byAsset[tx.AssetID], tx)
	}

	holdings := make([]Holding, 0, len(byAsset))
	for _, assetID := range order {
		opts := HoldingOptions{
			Method:           e.method,
			CurrentPrice:     e.oracle.CurrentPrice(assetID),
			OwnershipPercent: ownership[assetID].OwnershipPercent,
		}
		h, err := BuildHolding(byAsset[assetID], opts)
		if err != nil {
			return nil, fmt.Errorf("recompute holdings for %s/%s: %w", portfolioID, assetID, err)
		}
		holdings = append(holdings, *h)
	}

	if err := e.store.ReplaceHoldings(portfolioID, holdings); err != nil {
		return nil, fmt.Errorf("persist holdings: %w", err)
	}
	return holdings, nil
}

// NetWorthAt values the portfolio at a date.
func (e *Engine) NetWorthAt(portfolioID string, on Date) (NetWorthPoint, error) {
	v, err := NewValuation(e.store, e.oracle, portfolioID, e.currency)
	if err != nil {
		return NetWorthPoint{}, err
	}
	return v.NetWorthAt(on), nil
}

// NetWorthHistory produces one net-worth point per calendar month-end in the
// range, from a single cached valuation pass.
func (e *Engine) NetWorthHistory(portfolioID string, r Range) ([]NetWorthPoint, error) {
	v, err := NewValuation(e.store, e.oracle, portfolioID, e.currency)
	if err != nil {
		return nil, err
	}
	return v.History(r), nil
}

// Snapshots returns the committed snapshots of a portfolio inside the range.
func (e *Engine) Snapshots(portfolioID string, r Range) ([]PerformanceSnapshot, error) {
	return e.snaps.Range(portfolioID, r)
}

// RecomputeAll rebuilds the portfolio's whole snapshot series, from the
// first transaction to today.
func (e *Engine) RecomputeAll(ctx context.Context, portfolioID string, progress ProgressFunc) error {
	return e.RecomputeFrom(ctx, portfolioID, Date{}, progress)
}

// RecomputeFrom rebuilds the snapshot series from a date onward. A zero date
// means from the first transaction. The rebuild is staged entirely in memory
// and committed at the end, so a cancellation through ctx leaves the
// previously committed snapshot set intact.
func (e *Engine) RecomputeFrom(ctx context.Context, portfolioID string, from Date, progress ProgressFunc) error {
	txs, err := e.store.Transactions(portfolioID)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	if len(txs) == 0 {
		return nil
	}
	first := txs[0].Date
	for _, tx := range txs {
		if tx.Date.Before(first) {
			first = tx.Date
		}
	}
	if from.IsZero() || from.Before(first) {
		from = first
	}
	r := NewRange(from, Today())

	v, err := NewValuation(e.store, e.oracle, portfolioID, e.currency)
	if err != nil {
		return err
	}

	// Seed the day-change and TWR chain from the snapshot preceding the
	// range, if one survives.
	var prev *PerformanceSnapshot
	if from.After(first) {
		kept, err := e.snaps.Range(portfolioID, NewRange(first, from.Add(-1)))
		if err != nil {
			return fmt.Errorf("load preceding snapshots: %w", err)
		}
		if len(kept) > 0 {
			prev = &kept[len(kept)-1]
		}
	}

	total := from.DaysUntil(r.To) + 1
	done := 0
	var staged []PerformanceSnapshot

	// Compute in month chunks so a long multi-year rebuild stays
	// responsive to cancellation and can report progress.
	for chunkStart := r.From; !chunkStart.After(r.To); {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("recompute cancelled, committed snapshots untouched: %w", err)
		}
		chunkEnd := chunkStart.EndOf(Monthly)
		if chunkEnd.After(r.To) {
			chunkEnd = r.To
		}
		chunk, err := ComputeSnapshots(v, txs, NewRange(chunkStart, chunkEnd), prev)
		if err != nil {
			return fmt.Errorf("recompute snapshots for %s: %w", portfolioID, err)
		}
		staged = append(staged, chunk...)
		if len(chunk) > 0 {
			prev = &staged[len(staged)-1]
		}
		done += chunkStart.DaysUntil(chunkEnd) + 1
		if progress != nil {
			progress(done, total)
		}
		chunkStart = chunkEnd.Add(1)
	}

	if err := e.snaps.DeleteFrom(portfolioID, from); err != nil {
		return fmt.Errorf("clear stale snapshots: %w", err)
	}
	for _, s := range staged {
		if err := e.snaps.Upsert(s); err != nil {
			return fmt.Errorf("persist snapshot %s: %w", s.Date, err)
		}
	}
	log.Printf("%s: recomputed %d snapshots from %s", portfolioID, len(staged), from)
	return nil
}

// TaxExposure estimates the portfolio's unrealized tax position as of a date.
func (e *Engine) TaxExposure(portfolioID string, settings TaxSettings, asOf Date) (TaxExposure, error) {
	holdings, prices, err := e.holdingsAndPrices(portfolioID)
	if err != nil {
		return TaxExposure{}, err
	}
	return CalculateTaxExposure(holdings, prices, settings, asOf), nil
}

// AgingLots lists the short-term lots approaching long-term status.
func (e *Engine) AgingLots(portfolioID string, lookbackDays int, asOf Date) ([]AgingLot, error) {
	holdings, prices, err := e.holdingsAndPrices(portfolioID)
	if err != nil {
		return nil, err
	}
	return DetectAgingLots(holdings, prices, lookbackDays, asOf), nil
}

func (e *Engine) holdingsAndPrices(portfolioID string) ([]Holding, map[string]Money, error) {
	holdings, err := e.store.Holdings(portfolioID)
	if err != nil {
		return nil, nil, fmt.Errorf("load holdings: %w", err)
	}
	prices := make(map[string]Money, len(holdings))
	for _, h := range holdings {
		prices[h.AssetID] = e.oracle.CurrentPrice(h.AssetID)
	}
	return holdings, prices, nil
}
