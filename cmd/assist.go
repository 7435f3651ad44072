package cmd

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/google/subcommands"
	"google.golang.org/genai"

	tracker "github.com/morgan8889/asset-portfolio-sub002"
	"github.com/morgan8889/asset-portfolio-sub002/agent"
	"github.com/morgan8889/asset-portfolio-sub002/renderer"
)

type assistCmd struct{}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "ask the AI analyst about your portfolio" }
func (*assistCmd) Usage() string {
	return `assist [question]

  Starts an interactive session with the AI analyst, briefed with the
  portfolio's current reports. Requires GEMINI_API_KEY.
`
}
func (*assistCmd) SetFlags(_ *flag.FlagSet) {}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	points, err := engine.NetWorthHistory(*portfolioID, tracker.Yearly.Range(tracker.Today()))
	if err != nil {
		return fail(err)
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return fail(err)
	}

	analyst := agent.NewAnalyst(
		renderer.Holdings(holdings),
		renderer.NetWorth(points),
	)

	var prompts []string
	if f.NArg() > 0 {
		prompts = append(prompts, strings.Join(f.Args(), " "))
	}
	if err := agent.Run(ctx, client, analyst, os.Stdout, os.Stdin, prompts...); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
