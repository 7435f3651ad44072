package tracker

import (
	"testing"
)

// snap is a compact builder for report-window snapshots.
func snap(date string, value float64, changePct float64) PerformanceSnapshot {
	return PerformanceSnapshot{
		PortfolioID:  "p1",
		Date:         MustParseDate(date),
		TotalValue:   M(value, "USD"),
		DayChangePct: Percent(changePct),
	}
}

func TestNewPerformanceReport(t *testing.T) {
	snaps := []PerformanceSnapshot{
		snap("2024-06-03", 1000, 0),
		snap("2024-06-04", 1050, 5),
		snap("2024-06-05", 987, -6),
		snap("2024-06-06", 1100, 11.4489),
	}
	snaps[0].TWRReturn = 0
	snaps[3].TWRReturn = 10

	r := NewPerformanceReport(snaps)
	if !r.TotalChange.Equal(M(100, "USD")) {
		t.Errorf("total change = %s, want $100", r.TotalChange)
	}
	if !r.TotalPct.Equal(10) {
		t.Errorf("total pct = %s, want 10%%", r.TotalPct)
	}
	if !r.TWR.Equal(10) {
		t.Errorf("TWR = %s, want 10%%", r.TWR)
	}
	if r.BestDay.Date != MustParseDate("2024-06-06") {
		t.Errorf("best day = %s", r.BestDay.Date)
	}
	if r.WorstDay.Date != MustParseDate("2024-06-05") {
		t.Errorf("worst day = %s", r.WorstDay.Date)
	}
	if r.High.Date != MustParseDate("2024-06-06") || r.Low.Date != MustParseDate("2024-06-05") {
		t.Errorf("high = %s low = %s", r.High.Date, r.Low.Date)
	}
}

func TestNewPerformanceReport_TiesKeepFirstOccurrence(t *testing.T) {
	snaps := []PerformanceSnapshot{
		snap("2024-06-03", 1000, 0),
		snap("2024-06-04", 1100, 10),
		snap("2024-06-05", 1000, -9.0909),
		snap("2024-06-06", 1100, 10), // same value and same best change as June 4
	}
	r := NewPerformanceReport(snaps)
	if r.BestDay.Date != MustParseDate("2024-06-04") {
		t.Errorf("best day = %s, want the first of the tied days", r.BestDay.Date)
	}
	if r.High.Date != MustParseDate("2024-06-04") {
		t.Errorf("high = %s, want the first of the tied days", r.High.Date)
	}
	if r.Low.Date != MustParseDate("2024-06-03") {
		t.Errorf("low = %s, want the first of the tied days", r.Low.Date)
	}
}

func TestNewPerformanceReport_WindowTWR(t *testing.T) {
	// The window TWR is the ratio of the inception-anchored chains: a
	// window opening at +10% and closing at +21% gained 10% itself.
	first := snap("2024-06-04", 1100, 0)
	first.TWRReturn = 10
	last := snap("2024-06-05", 1210, 10)
	last.TWRReturn = 21
	r := NewPerformanceReport([]PerformanceSnapshot{first, last})
	if !r.TWR.Equal(10) {
		t.Errorf("window TWR = %s, want 10%%", r.TWR)
	}
}

func TestVolatility(t *testing.T) {
	testCases := []struct {
		name    string
		changes []float64
		want    Percent
	}{
		// Constant daily returns have zero dispersion.
		{name: "steady gain", changes: []float64{1, 1, 1}, want: 0},
		{name: "single point", changes: []float64{2}, want: 0},
		{name: "empty", changes: nil, want: 0},
		// Zero-change days (market closed) are excluded, leaving the
		// two equal returns.
		{name: "flat days excluded", changes: []float64{3, 0, 0, 3}, want: 0},
		// Sample stddev of {1,-1} is sqrt(2); annualized by sqrt(252).
		{name: "alternating", changes: []float64{1, -1}, want: Percent(22.44994432064365)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			snaps := make([]PerformanceSnapshot, len(tc.changes))
			for i, c := range tc.changes {
				snaps[i] = snap(NewDate(2024, 6, 3+i).String(), 1000, c)
			}
			if got := volatility(snaps); !got.Equal(tc.want) {
				t.Errorf("volatility = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestNewPerformanceReport_Empty(t *testing.T) {
	r := NewPerformanceReport(nil)
	if !r.TotalChange.IsZero() || r.Volatility != 0 {
		t.Errorf("empty window must report zeros, got %+v", r)
	}
}
