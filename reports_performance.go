package tracker

import (
	"math"
)

// tradingDaysPerYear annualizes daily volatility.
const tradingDaysPerYear = 252

// PerformanceReport aggregates a window of snapshots into the figures the
// analysis views show.
type PerformanceReport struct {
	PortfolioID string
	Window      Range
	StartValue  Money
	EndValue    Money
	TotalChange Money
	TotalPct    Percent
	TWR         Percent
	Volatility  Percent

	BestDay  PerformanceSnapshot
	WorstDay PerformanceSnapshot
	High     PerformanceSnapshot
	Low      PerformanceSnapshot

	Interpolated int // days valued with carried-over prices
}

// NewPerformanceReport summarizes a chronologically ordered window of
// snapshots. Ties for best/worst day and high/low resolve to the first
// occurrence scanning chronologically.
func NewPerformanceReport(snaps []PerformanceSnapshot) *PerformanceReport {
	if len(snaps) == 0 {
		return &PerformanceReport{}
	}
	first, last := snaps[0], snaps[len(snaps)-1]

	r := &PerformanceReport{
		PortfolioID: first.PortfolioID,
		Window:      Range{From: first.Date, To: last.Date},
		StartValue:  first.TotalValue,
		EndValue:    last.TotalValue,
		BestDay:     first,
		WorstDay:    first,
		High:        first,
		Low:         first,
	}
	r.TotalChange = r.EndValue.Sub(r.StartValue)
	r.TotalPct = r.TotalChange.PercentOf(r.StartValue)
	r.TWR = chainTWR(first, last)
	r.Volatility = volatility(snaps)

	for _, s := range snaps {
		if s.DayChangePct > r.BestDay.DayChangePct {
			r.BestDay = s
		}
		if s.DayChangePct < r.WorstDay.DayChangePct {
			r.WorstDay = s
		}
		if s.TotalValue.GreaterThan(r.High.TotalValue) {
			r.High = s
		}
		if r.Low.TotalValue.GreaterThan(s.TotalValue) {
			r.Low = s
		}
		if s.HasInterpolatedPrices {
			r.Interpolated++
		}
	}
	return r
}

// chainTWR derives the window TWR from the cumulative chains of its
// endpoints: the growth factor over the window is the ratio of the two
// inception-anchored factors.
func chainTWR(first, last PerformanceSnapshot) Percent {
	startFactor := 1 + float64(first.TWRReturn)/100
	endFactor := 1 + float64(last.TWRReturn)/100
	if startFactor == 0 {
		return 0
	}
	return Percent((endFactor/startFactor - 1) * 100)
}

// volatility is the sample standard deviation of the non-zero daily return
// percentages, annualized by sqrt(252). Fewer than two usable points mean no
// measurable volatility.
func volatility(snaps []PerformanceSnapshot) Percent {
	var returns []float64
	for _, s := range snaps {
		if pct := float64(s.DayChangePct); pct != 0 {
			returns = append(returns, pct)
		}
	}
	if len(returns) < 2 {
		return 0
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var sq float64
	for _, r := range returns {
		sq += (r - mean) * (r - mean)
	}
	variance := sq / float64(len(returns)-1)
	return Percent(math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear))
}
