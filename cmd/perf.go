package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	tracker "github.com/morgan8889/asset-portfolio-sub002"
	"github.com/morgan8889/asset-portfolio-sub002/renderer"
)

type perfCmd struct {
	period  string
	start   string
	date    string
	csvFile string
}

func (*perfCmd) Name() string     { return "perf" }
func (*perfCmd) Synopsis() string { return "show performance over a window of daily snapshots" }
func (*perfCmd) Usage() string {
	return `perf [-p <period> | -s <start_date>] [-d <end_date>] [-csv <file>]

  Rebuilds the daily snapshot series and summarizes the window: total and
  time-weighted return, annualized volatility, best and worst days. With
  -csv the daily series is also written as chart data.
`
}
func (p *perfCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.period, "p", "month", "Predefined period (day, month, quarter, year).")
	f.StringVar(&p.start, "s", "", "Start date for a custom range. Overrides -p.")
	f.StringVar(&p.date, "d", "0d", "End date for the window.")
	f.StringVar(&p.csvFile, "csv", "", "Write the daily series to this CSV file.")
}

func (p *perfCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	progress := func(done, total int) {
		fmt.Fprintf(os.Stderr, "\rvaluing %d/%d days", done, total)
		if done == total {
			fmt.Fprintln(os.Stderr)
		}
	}
	if err := engine.RecomputeAll(ctx, *portfolioID, progress); err != nil {
		return fail(err)
	}

	r, all, err := parseWindow(p.period, p.start, p.date)
	if err != nil {
		return fail(err)
	}
	if all {
		r = tracker.Monthly.Range(tracker.Today())
	}
	snaps, err := engine.Snapshots(*portfolioID, r)
	if err != nil {
		return fail(err)
	}
	if len(snaps) == 0 {
		return fail(fmt.Errorf("no snapshots in %s, is the ledger empty?", r))
	}

	if p.csvFile != "" {
		out, err := os.Create(p.csvFile)
		if err != nil {
			return fail(err)
		}
		defer out.Close()
		if err := tracker.WriteCSV(out, snaps); err != nil {
			return fail(err)
		}
		fmt.Fprintf(os.Stderr, "wrote %d rows to %s\n", len(snaps), p.csvFile)
	}

	printMarkdown(renderer.Performance(tracker.NewPerformanceReport(snaps)))
	return subcommands.ExitSuccess
}
