package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	tracker "github.com/morgan8889/asset-portfolio-sub002"
)

// tradeCmd carries the flags shared by buy and sell.
type tradeCmd struct {
	asset    string
	date     string
	quantity float64
	price    float64
	fees     float64
	lotID    string
	note     string
}

func (p *tradeCmd) setFlags(f *flag.FlagSet) {
	f.StringVar(&p.asset, "a", "", "Asset symbol (required).")
	f.StringVar(&p.date, "d", "0d", "Transaction date (defaults to today).")
	f.Float64Var(&p.quantity, "q", 0, "Quantity of shares.")
	f.Float64Var(&p.price, "price", 0, "Price per share.")
	f.Float64Var(&p.fees, "fees", 0, "Transaction fees.")
	f.StringVar(&p.note, "note", "", "Free-form note.")
}

// record validates and appends the trade, saving the ledger on success.
func (p *tradeCmd) record(typ tracker.TransactionType) subcommands.ExitStatus {
	on, err := tracker.ParseDate(p.date)
	if err != nil {
		return fail(err)
	}
	store, err := openStore()
	if err != nil {
		return fail(err)
	}
	engine, err := newEngine(store, newOracle())
	if err != nil {
		return fail(err)
	}

	tx := tracker.NewTransaction(*portfolioID, p.asset, typ, on)
	tx.Quantity = tracker.Q(p.quantity)
	tx.Price = tracker.M(p.price, *currency)
	tx.Fees = tracker.M(p.fees, *currency)
	tx.Currency = *currency
	tx.LotID = p.lotID
	tx.Note = p.note

	if err := engine.AddTransaction(tx); err != nil {
		return fail(err)
	}
	if err := saveStore(store); err != nil {
		return fail(err)
	}
	fmt.Printf("Recorded %s of %s x %s on %s\n", typ, tx.Quantity, tx.Price, tx.Date)
	return subcommands.ExitSuccess
}

type buyCmd struct{ tradeCmd }

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record a purchase, opening a new tax lot" }
func (*buyCmd) Usage() string {
	return `buy -a <asset> -q <quantity> -price <price> [-fees <fees>] [-d <date>]

  Appends a buy to the ledger and rebuilds the portfolio's holdings.
`
}
func (p *buyCmd) SetFlags(f *flag.FlagSet) { p.setFlags(f) }
func (p *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return p.record(tracker.TxBuy)
}

type sellCmd struct{ tradeCmd }

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a sale, consuming existing tax lots" }
func (*sellCmd) Usage() string {
	return `sell -a <asset> -q <quantity> -price <price> [-lot <lot-id>] [-d <date>]

  Appends a sell to the ledger. Selling more than the live lots hold is
  rejected. With -lot the designated lot is consumed regardless of the
  configured disposal method.
`
}
func (p *sellCmd) SetFlags(f *flag.FlagSet) {
	p.setFlags(f)
	f.StringVar(&p.lotID, "lot", "", "Consume this specific lot.")
}
func (p *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return p.record(tracker.TxSell)
}

type txCmd struct {
	period string
	start  string
	date   string
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list transactions with their cash impact" }
func (*txCmd) Usage() string {
	return `tx [-p <period> | -s <start_date>] [-d <end_date>]

  Lists the portfolio's transactions, most recent period by default.
`
}
func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.period, "p", "", "Predefined period (day, month, quarter, year).")
	f.StringVar(&p.start, "s", "", "Start date for a custom range. Overrides -p.")
	f.StringVar(&p.date, "d", "0d", "End date for the range.")
}

func (p *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := openStore()
	if err != nil {
		return fail(err)
	}
	txs, err := store.Transactions(*portfolioID)
	if err != nil {
		return fail(err)
	}

	r, all, err := parseWindow(p.period, p.start, p.date)
	if err != nil {
		return fail(err)
	}

	for _, tx := range txs {
		if !all && !r.Contains(tx.Date) {
			continue
		}
		impact, err := tx.CashImpact()
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning, %s on %s: %v\n", tx.Type, tx.Date, err)
			continue
		}
		fmt.Printf("%s  %-14s %-6s %10s @ %-12s %12s\n",
			tx.Date, tx.Type, tx.AssetID, tx.Quantity, tx.Price, impact.SignedString())
	}
	return subcommands.ExitSuccess
}

// parseWindow resolves the period/start/date flag triple shared by the
// report commands. With neither -p nor -s, all reports the full history.
func parseWindow(period, start, date string) (r tracker.Range, all bool, err error) {
	end, err := tracker.ParseDate(date)
	if err != nil {
		return r, false, err
	}
	if start != "" {
		s, err := tracker.ParseDate(start)
		if err != nil {
			return r, false, err
		}
		return tracker.NewRange(s, end), false, nil
	}
	if period != "" {
		p, err := tracker.ParsePeriod(period)
		if err != nil {
			return r, false, err
		}
		return p.Range(end), false, nil
	}
	return r, true, nil
}
