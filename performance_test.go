package tracker

import (
	"testing"
)

// growthFixture prices AAPL at +10% a day over four days starting 2024-06-03.
func growthFixture() (*MemoryStore, *MemoryOracle) {
	store := NewMemoryStore()
	store.ReplaceHoldings("p1", []Holding{
		{PortfolioID: "p1", AssetID: "AAPL", Quantity: Q(10)},
	})
	oracle := NewMemoryOracle()
	closes := []float64{100, 110, 121, 133.1}
	for i, c := range closes {
		oracle.AddClose("AAPL", NewDate(2024, 6, 3+i), M(c, "USD"))
	}
	return store, oracle
}

func TestComputeSnapshots_DailyChain(t *testing.T) {
	store, oracle := growthFixture()
	v, err := NewValuation(store, oracle, "p1", "USD")
	if err != nil {
		t.Fatal(err)
	}

	txs := []Transaction{tradeTx(TxBuy, "2024-06-03", 10, 100, 0)}
	r := NewRange(NewDate(2024, 6, 3), NewDate(2024, 6, 5))
	snaps, err := ComputeSnapshots(v, txs, r, nil)
	if err != nil {
		t.Fatalf("ComputeSnapshots: %v", err)
	}
	if len(snaps) != 3 {
		t.Fatalf("got %d snapshots, want 3", len(snaps))
	}

	first := snaps[0]
	if !first.TotalValue.Equal(M(1000, "USD")) {
		t.Errorf("day 1 value = %s, want $1,000", first.TotalValue)
	}
	if !first.DayChange.IsZero() || !first.CumulativeReturn.IsZero() {
		t.Errorf("day 1 must open the series flat, got change %s cumulative %s",
			first.DayChange, first.CumulativeReturn)
	}
	if first.HoldingCount != 1 {
		t.Errorf("holding count = %d", first.HoldingCount)
	}

	second := snaps[1]
	if !second.DayChange.Equal(M(100, "USD")) {
		t.Errorf("day 2 change = %s, want $100", second.DayChange)
	}
	if !second.DayChangePct.Equal(10) {
		t.Errorf("day 2 change = %s, want 10%%", second.DayChangePct)
	}

	last := snaps[2]
	if !last.CumulativeReturn.Equal(M(210, "USD")) {
		t.Errorf("cumulative return = %s, want $210", last.CumulativeReturn)
	}
	// Two +10% days chain geometrically.
	if !last.TWRReturn.Equal(21) {
		t.Errorf("TWR = %s, want 21%%", last.TWRReturn)
	}
}

func TestComputeSnapshots_ContributionExcludedFromTWR(t *testing.T) {
	store, oracle := growthFixture()
	v, err := NewValuation(store, oracle, "p1", "USD")
	if err != nil {
		t.Fatal(err)
	}

	// A second buy doubles the position mid-series. The day change includes
	// the new cash but the TWR must not.
	txs := []Transaction{
		tradeTx(TxBuy, "2024-06-03", 10, 100, 0),
		tradeTx(TxBuy, "2024-06-04", 10, 110, 0),
	}
	r := NewRange(NewDate(2024, 6, 3), NewDate(2024, 6, 5))
	snaps, err := ComputeSnapshots(v, txs, r, nil)
	if err != nil {
		t.Fatal(err)
	}

	second := snaps[1]
	if !second.TotalValue.Equal(M(2200, "USD")) {
		t.Errorf("day 2 value = %s, want $2,200", second.TotalValue)
	}
	if !second.DayChange.Equal(M(1200, "USD")) {
		t.Errorf("day 2 change = %s, want $1,200 including the contribution", second.DayChange)
	}
	if !second.TWRReturn.Equal(10) {
		t.Errorf("day 2 TWR = %s, want the market-only 10%%", second.TWRReturn)
	}
	if !snaps[2].TWRReturn.Equal(21) {
		t.Errorf("day 3 TWR = %s, want 21%%", snaps[2].TWRReturn)
	}
}

func TestComputeSnapshots_ResumeFromPrevious(t *testing.T) {
	store, oracle := growthFixture()
	v, err := NewValuation(store, oracle, "p1", "USD")
	if err != nil {
		t.Fatal(err)
	}
	txs := []Transaction{tradeTx(TxBuy, "2024-06-03", 10, 100, 0)}

	full, err := ComputeSnapshots(v, txs, NewRange(NewDate(2024, 6, 3), NewDate(2024, 6, 6)), nil)
	if err != nil {
		t.Fatal(err)
	}

	head, err := ComputeSnapshots(v, txs, NewRange(NewDate(2024, 6, 3), NewDate(2024, 6, 4)), nil)
	if err != nil {
		t.Fatal(err)
	}
	tail, err := ComputeSnapshots(v, txs, NewRange(NewDate(2024, 6, 5), NewDate(2024, 6, 6)), &head[len(head)-1])
	if err != nil {
		t.Fatal(err)
	}

	// Splitting the range must not change the series.
	for i, want := range full[2:] {
		got := tail[i]
		if !got.TotalValue.Equal(want.TotalValue) ||
			!got.CumulativeReturn.Equal(want.CumulativeReturn) ||
			!got.TWRReturn.Equal(want.TWRReturn) ||
			!got.DayChange.Equal(want.DayChange) {
			t.Errorf("resumed snapshot %s differs: got %+v want %+v", got.Date, got, want)
		}
	}
}

func TestComputeSnapshots_InterpolatedPrices(t *testing.T) {
	store := NewMemoryStore()
	store.ReplaceHoldings("p1", []Holding{
		{PortfolioID: "p1", AssetID: "AAPL", Quantity: Q(10)},
	})
	oracle := NewMemoryOracle()
	oracle.AddClose("AAPL", NewDate(2024, 6, 3), M(100, "USD"))
	// No close for June 4; the previous close carries over.
	v, err := NewValuation(store, oracle, "p1", "USD")
	if err != nil {
		t.Fatal(err)
	}

	txs := []Transaction{tradeTx(TxBuy, "2024-06-03", 10, 100, 0)}
	snaps, err := ComputeSnapshots(v, txs, NewRange(NewDate(2024, 6, 3), NewDate(2024, 6, 4)), nil)
	if err != nil {
		t.Fatal(err)
	}
	if snaps[0].HasInterpolatedPrices {
		t.Error("June 3 has an exact close, must not be flagged")
	}
	if !snaps[1].HasInterpolatedPrices {
		t.Error("June 4 carried the June 3 close, must be flagged")
	}
	if !snaps[1].TotalValue.Equal(M(1000, "USD")) {
		t.Errorf("carried-over value = %s, want $1,000", snaps[1].TotalValue)
	}
}

func TestComputeSnapshots_ReinvestmentIsNetZeroFlow(t *testing.T) {
	store, oracle := growthFixture()
	v, err := NewValuation(store, oracle, "p1", "USD")
	if err != nil {
		t.Fatal(err)
	}

	// Reinvesting a dividend adds shares without external cash, so it must
	// not depress the TWR the way a contribution would.
	txs := []Transaction{
		tradeTx(TxBuy, "2024-06-03", 10, 100, 0),
		tradeTx(TxReinvestment, "2024-06-04", 1, 110, 0),
	}
	snaps, err := ComputeSnapshots(v, txs, NewRange(NewDate(2024, 6, 3), NewDate(2024, 6, 4)), nil)
	if err != nil {
		t.Fatal(err)
	}
	// Value grew 1000 -> 1210 with zero recorded flow: 21% market return.
	if !snaps[1].TWRReturn.Equal(21) {
		t.Errorf("TWR = %s, want 21%%", snaps[1].TWRReturn)
	}
	if !snaps[1].TotalValue.Equal(M(1210, "USD")) {
		t.Errorf("value = %s, want $1,210", snaps[1].TotalValue)
	}
}

func TestComputeSnapshots_UnknownTypeFailsWholeRun(t *testing.T) {
	store, oracle := growthFixture()
	v, err := NewValuation(store, oracle, "p1", "USD")
	if err != nil {
		t.Fatal(err)
	}
	txs := []Transaction{
		tradeTx(TxBuy, "2024-06-03", 10, 100, 0),
		tradeTx(TransactionType("airdrop"), "2024-06-04", 1, 1, 0),
	}
	if _, err := ComputeSnapshots(v, txs, NewRange(NewDate(2024, 6, 3), NewDate(2024, 6, 5)), nil); err == nil {
		t.Fatal("an unknown type must fail the run, not be skipped")
	}
}
