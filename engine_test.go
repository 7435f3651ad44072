package tracker

import (
	"context"
	"errors"
	"testing"
)

func newTestEngine() (*Engine, *MemoryStore, *MemoryOracle, *MemorySnapshots) {
	store := NewMemoryStore()
	oracle := NewMemoryOracle()
	snaps := NewMemorySnapshots()
	return NewEngine(store, oracle, snaps, "USD", FIFO), store, oracle, snaps
}

func TestEngine_AddTransactionRebuildsHoldings(t *testing.T) {
	e, store, oracle, _ := newTestEngine()
	oracle.SetCurrent("AAPL", M(150, "USD"))

	if err := e.AddTransaction(tradeTx(TxBuy, "2024-01-10", 10, 100, 0)); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	holdings, err := store.Holdings("p1")
	if err != nil {
		t.Fatal(err)
	}
	if len(holdings) != 1 {
		t.Fatalf("got %d holdings, want 1", len(holdings))
	}
	h := holdings[0]
	if !h.Quantity.Equal(Q(10)) || !h.CurrentValue.Equal(M(1500, "USD")) {
		t.Errorf("holding = qty %s value %s, want 10 / $1,500", h.Quantity, h.CurrentValue)
	}
}

func TestEngine_OversellLeavesCommittedHoldings(t *testing.T) {
	e, store, _, _ := newTestEngine()
	if err := e.AddTransaction(tradeTx(TxBuy, "2024-01-10", 10, 100, 0)); err != nil {
		t.Fatal(err)
	}

	err := e.AddTransaction(tradeTx(TxSell, "2024-02-10", 50, 100, 0))
	if !errors.Is(err, ErrOversell) {
		t.Fatalf("got err %v, want ErrOversell", err)
	}

	// The failed recompute must not have replaced the committed holdings.
	holdings, err := store.Holdings("p1")
	if err != nil {
		t.Fatal(err)
	}
	if len(holdings) != 1 || !holdings[0].Quantity.Equal(Q(10)) {
		t.Errorf("holdings after failed recompute = %+v, want the original position", holdings)
	}
}

func TestEngine_MutationInvalidatesSnapshots(t *testing.T) {
	e, _, _, snaps := newTestEngine()
	for day := 10; day <= 14; day++ {
		snaps.Upsert(PerformanceSnapshot{PortfolioID: "p1", Date: NewDate(2024, 6, day)})
	}

	// A transaction on June 12 invalidates June 12 and everything after.
	if err := e.AddTransaction(tradeTx(TxBuy, "2024-06-12", 10, 100, 0)); err != nil {
		t.Fatal(err)
	}

	kept, err := snaps.Range("p1", NewRange(NewDate(2024, 6, 1), NewDate(2024, 6, 30)))
	if err != nil {
		t.Fatal(err)
	}
	if len(kept) != 2 {
		t.Fatalf("got %d surviving snapshots, want 2", len(kept))
	}
	if kept[1].Date != NewDate(2024, 6, 11) {
		t.Errorf("last survivor = %s, want 2024-06-11", kept[1].Date)
	}
}

func TestEngine_ReplaceInvalidatesFromEarlierDate(t *testing.T) {
	e, _, _, snaps := newTestEngine()
	tx := tradeTx(TxBuy, "2024-06-12", 10, 100, 0)
	if err := e.AddTransaction(tx); err != nil {
		t.Fatal(err)
	}
	for day := 1; day <= 14; day++ {
		snaps.Upsert(PerformanceSnapshot{PortfolioID: "p1", Date: NewDate(2024, 6, day)})
	}

	// Moving the transaction back to June 5 must invalidate from June 5,
	// not from the new position's old date.
	moved := tx
	moved.Date = NewDate(2024, 6, 5)
	if err := e.ReplaceTransaction(moved); err != nil {
		t.Fatal(err)
	}

	kept, err := snaps.Range("p1", NewRange(NewDate(2024, 6, 1), NewDate(2024, 6, 30)))
	if err != nil {
		t.Fatal(err)
	}
	if len(kept) != 4 {
		t.Fatalf("got %d surviving snapshots, want the 4 before June 5", len(kept))
	}
}

func TestEngine_DeleteUnknownTransaction(t *testing.T) {
	e, _, _, _ := newTestEngine()
	if err := e.DeleteTransaction("p1", "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got err %v, want ErrNotFound", err)
	}
}

func TestEngine_RecomputeAll(t *testing.T) {
	e, _, oracle, _ := newTestEngine()
	oracle.SetCurrent("AAPL", M(150, "USD"))

	start := Today().Add(-3)
	tx := tradeTx(TxBuy, start.String(), 10, 150, 0)
	if err := e.AddTransaction(tx); err != nil {
		t.Fatal(err)
	}

	var lastDone, lastTotal int
	progress := func(done, total int) { lastDone, lastTotal = done, total }
	if err := e.RecomputeAll(context.Background(), "p1", progress); err != nil {
		t.Fatalf("RecomputeAll: %v", err)
	}

	snaps, err := e.Snapshots("p1", NewRange(start, Today()))
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 4 {
		t.Fatalf("got %d snapshots, want one per day since the first transaction", len(snaps))
	}
	if !snaps[0].TotalValue.Equal(M(1500, "USD")) {
		t.Errorf("first snapshot value = %s, want $1,500", snaps[0].TotalValue)
	}
	// Constant prices mean a flat series.
	if !snaps[3].TWRReturn.Equal(0) || !snaps[3].CumulativeReturn.IsZero() {
		t.Errorf("flat series: TWR %s cumulative %s", snaps[3].TWRReturn, snaps[3].CumulativeReturn)
	}
	if lastDone != lastTotal || lastTotal != 4 {
		t.Errorf("progress = %d/%d, want 4/4", lastDone, lastTotal)
	}
}

func TestEngine_RecomputeCancelledKeepsCommittedSnapshots(t *testing.T) {
	e, _, oracle, snaps := newTestEngine()
	oracle.SetCurrent("AAPL", M(150, "USD"))
	if err := e.AddTransaction(tradeTx(TxBuy, Today().Add(-10).String(), 10, 150, 0)); err != nil {
		t.Fatal(err)
	}

	committed := PerformanceSnapshot{PortfolioID: "p1", Date: Today().Add(-10), TotalValue: M(1500, "USD")}
	snaps.Upsert(committed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e.RecomputeAll(ctx, "p1", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("got err %v, want context.Canceled", err)
	}

	kept, err := snaps.Range("p1", NewRange(Today().Add(-10), Today()))
	if err != nil {
		t.Fatal(err)
	}
	if len(kept) != 1 || !kept[0].TotalValue.Equal(committed.TotalValue) {
		t.Errorf("cancelled rebuild must leave the committed series intact, got %+v", kept)
	}
}

func TestEngine_TaxViews(t *testing.T) {
	e, _, oracle, _ := newTestEngine()
	oracle.SetCurrent("AAPL", M(150, "USD"))
	purchase := Today().Add(-360)
	if err := e.AddTransaction(tradeTx(TxBuy, purchase.String(), 10, 100, 0)); err != nil {
		t.Fatal(err)
	}

	exp, err := e.TaxExposure("p1", TaxSettings{ShortTermRate: rate(0.24), LongTermRate: rate(0.15)}, Today())
	if err != nil {
		t.Fatal(err)
	}
	if !exp.ShortTermGains.Equal(M(500, "USD")) {
		t.Errorf("short-term gains = %s, want $500", exp.ShortTermGains)
	}

	aging, err := e.AgingLots("p1", 0, Today())
	if err != nil {
		t.Fatal(err)
	}
	if len(aging) != 1 || aging[0].DaysToLongTerm != 5 {
		t.Errorf("aging = %+v, want the one lot 5 days from long-term", aging)
	}
}
