package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/morgan8889/asset-portfolio-sub002/renderer"
)

type holdingCmd struct{}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "show current holdings rebuilt from the ledger" }
func (*holdingCmd) Usage() string {
	return `holding

  Replays the full transaction history into tax lots and shows every
  position with its cost basis and unrealized gain.
`
}
func (*holdingCmd) SetFlags(_ *flag.FlagSet) {}

func (p *holdingCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := openStore()
	if err != nil {
		return fail(err)
	}
	engine, err := newEngine(store, refreshedOracle(store))
	if err != nil {
		return fail(err)
	}
	holdings, err := engine.RecomputeHoldings(*portfolioID)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.Holdings(holdings))
	return subcommands.ExitSuccess
}
