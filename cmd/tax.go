package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	tracker "github.com/morgan8889/asset-portfolio-sub002"
	"github.com/morgan8889/asset-portfolio-sub002/renderer"
)

type taxCmd struct {
	date      string
	shortRate float64
	longRate  float64
	stateRate float64
	lookback  int
}

func (*taxCmd) Name() string     { return "tax" }
func (*taxCmd) Synopsis() string { return "estimate unrealized tax exposure and list aging lots" }
func (*taxCmd) Usage() string {
	return `tax [-d <date>] [-short <rate>] [-long <rate>] [-state <rate>] [-lookback <days>]

  Classifies every live lot short or long-term, estimates the tax due on
  unrealized gains, and lists the lots about to turn long-term.
`
}
func (p *taxCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.date, "d", "0d", "Valuation date.")
	f.Float64Var(&p.shortRate, "short", 0.24, "Short-term marginal rate.")
	f.Float64Var(&p.longRate, "long", 0.15, "Long-term marginal rate.")
	f.Float64Var(&p.stateRate, "state", 0, "State rate added to both.")
	f.IntVar(&p.lookback, "lookback", tracker.DefaultAgingLookbackDays, "Aging-lot window in days.")
}

func (p *taxCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asOf, err := tracker.ParseDate(p.date)
	if err != nil {
		return fail(err)
	}
	store, err := openStore()
	if err != nil {
		return fail(err)
	}
	engine, err := newEngine(store, refreshedOracle(store))
	if err != nil {
		return fail(err)
	}
	if _, err := engine.RecomputeHoldings(*portfolioID); err != nil {
		return fail(err)
	}

	settings := tracker.TaxSettings{
		ShortTermRate: decimal.NewFromFloat(p.shortRate),
		LongTermRate:  decimal.NewFromFloat(p.longRate),
		StateRate:     decimal.NewFromFloat(p.stateRate),
	}
	exposure, err := engine.TaxExposure(*portfolioID, settings, asOf)
	if err != nil {
		return fail(err)
	}
	aging, err := engine.AgingLots(*portfolioID, p.lookback, asOf)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.Tax(exposure, aging))
	return subcommands.ExitSuccess
}
