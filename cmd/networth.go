package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	tracker "github.com/morgan8889/asset-portfolio-sub002"
	"github.com/morgan8889/asset-portfolio-sub002/renderer"
)

type networthCmd struct {
	period string
	start  string
	date   string
}

func (*networthCmd) Name() string     { return "networth" }
func (*networthCmd) Synopsis() string { return "show net worth, assets minus liabilities" }
func (*networthCmd) Usage() string {
	return `networth [-p <period> | -s <start_date>] [-d <end_date>]

  Values the portfolio over the window, one point per calendar month-end.
  Liability balances are reconstructed from their payment logs; holdings
  are priced as of each date.
`
}
func (p *networthCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.period, "p", "year", "Predefined period (month, quarter, year).")
	f.StringVar(&p.start, "s", "", "Start date for a custom range. Overrides -p.")
	f.StringVar(&p.date, "d", "0d", "End date for the window.")
}

func (p *networthCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	r, all, err := parseWindow(p.period, p.start, p.date)
	if err != nil {
		return fail(err)
	}
	if all {
		r = tracker.Yearly.Range(tracker.Today())
	}

	points, err := engine.NetWorthHistory(*portfolioID, r)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.NetWorth(points))
	return subcommands.ExitSuccess
}
