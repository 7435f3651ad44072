package tracker

import (
	"sort"

	"github.com/shopspring/decimal"
)

// longTermDays is the holding period, in days, at which a lot turns
// long-term for tax purposes.
const longTermDays = 365

// DefaultAgingLookbackDays is the window within which a short-term lot
// counts as "aging" toward long-term status.
const DefaultAgingLookbackDays = 30

// TaxSettings holds the marginal rates used to estimate tax liability.
// Rates are fractions (0.24 for 24%).
type TaxSettings struct {
	ShortTermRate decimal.Decimal `json:"shortTermRate"`
	LongTermRate  decimal.Decimal `json:"longTermRate"`
	StateRate     decimal.Decimal `json:"stateRate,omitempty"`
}

// TaxExposure summarizes the unrealized tax position of a set of holdings.
type TaxExposure struct {
	AsOf            Date    `json:"asOf"`
	ShortTermGains  Money   `json:"shortTermGains"`
	ShortTermLosses Money   `json:"shortTermLosses"`
	LongTermGains   Money   `json:"longTermGains"`
	LongTermLosses  Money   `json:"longTermLosses"`
	EstimatedTax    Money   `json:"estimatedTax"`
	EffectiveRate   Percent `json:"effectiveRate"`
}

// AgingLot is a short-term lot approaching the long-term threshold.
type AgingLot struct {
	AssetID        string `json:"assetId"`
	Lot            TaxLot `json:"lot"`
	DaysHeld       int    `json:"daysHeld"`
	DaysToLongTerm int    `json:"daysToLongTerm"`
	UnrealizedGain Money  `json:"unrealizedGain"`
}

// lotGain is the unrealized gain of one lot at a price.
func lotGain(l TaxLot, price Money) Money {
	return price.Mul(l.RemainingQuantity).Sub(l.CostBasis())
}

// CalculateTaxExposure classifies every live lot short or long-term as of a
// date and estimates the tax due on the unrealized gains.
//
// A lot held exactly 365 days is long-term. Losses are bucketed for
// reporting but excluded from the tax estimate: only gains are taxed. The
// effective rate is estimated tax over total gains, zero when there are no
// gains.
func CalculateTaxExposure(holdings []Holding, prices map[string]Money, settings TaxSettings, asOf Date) TaxExposure {
	exp := TaxExposure{AsOf: asOf}
	for _, h := range holdings {
		price := prices[h.AssetID]
		for _, l := range h.Lots {
			if l.Depleted() {
				continue
			}
			gain := lotGain(l, price)
			longTerm := l.DaysHeld(asOf) >= longTermDays
			switch {
			case longTerm && gain.IsNegative():
				exp.LongTermLosses = exp.LongTermLosses.Add(gain)
			case longTerm:
				exp.LongTermGains = exp.LongTermGains.Add(gain)
			case gain.IsNegative():
				exp.ShortTermLosses = exp.ShortTermLosses.Add(gain)
			default:
				exp.ShortTermGains = exp.ShortTermGains.Add(gain)
			}
		}
	}

	shortTax := exp.ShortTermGains.Scale(settings.ShortTermRate.Add(settings.StateRate))
	longTax := exp.LongTermGains.Scale(settings.LongTermRate.Add(settings.StateRate))
	exp.EstimatedTax = shortTax.Add(longTax)

	totalGains := exp.ShortTermGains.Add(exp.LongTermGains)
	exp.EffectiveRate = exp.EstimatedTax.PercentOf(totalGains)
	return exp
}

// DetectAgingLots returns the short-term lots within lookbackDays of turning
// long-term, sorted ascending by days remaining. A non-positive lookback
// falls back to DefaultAgingLookbackDays.
func DetectAgingLots(holdings []Holding, prices map[string]Money, lookbackDays int, asOf Date) []AgingLot {
	if lookbackDays <= 0 {
		lookbackDays = DefaultAgingLookbackDays
	}

	var aging []AgingLot
	for _, h := range holdings {
		price := prices[h.AssetID]
		for _, l := range h.Lots {
			if l.Depleted() {
				continue
			}
			held := l.DaysHeld(asOf)
			remaining := longTermDays - held
			if remaining <= 0 || remaining > lookbackDays {
				continue
			}
			aging = append(aging, AgingLot{
				AssetID:        h.AssetID,
				Lot:            l,
				DaysHeld:       held,
				DaysToLongTerm: remaining,
				UnrealizedGain: lotGain(l, price),
			})
		}
	}
	sort.SliceStable(aging, func(i, j int) bool {
		return aging[i].DaysToLongTerm < aging[j].DaysToLongTerm
	})
	return aging
}
