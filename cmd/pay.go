package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	tracker "github.com/morgan8889/asset-portfolio-sub002"
)

// liabilityCmd registers a liability head, or lists them when called bare.
type liabilityCmd struct {
	name    string
	balance float64
	rate    float64
	payment float64
}

func (*liabilityCmd) Name() string     { return "liability" }
func (*liabilityCmd) Synopsis() string { return "register a liability, or list them" }
func (*liabilityCmd) Usage() string {
	return `liability [-name <name> -balance <amount> [-rate <annual %>] [-payment <amount>]]

  With -name, registers a new liability with the given current balance.
  Without flags, lists the portfolio's liabilities and their balances.
`
}
func (p *liabilityCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.name, "name", "", "Liability name (e.g. mortgage).")
	f.Float64Var(&p.balance, "balance", 0, "Current outstanding balance.")
	f.Float64Var(&p.rate, "rate", 0, "Annual interest rate in percent.")
	f.Float64Var(&p.payment, "payment", 0, "Regular payment amount.")
}

func (p *liabilityCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := openStore()
	if err != nil {
		return fail(err)
	}
	if p.name == "" {
		ls, err := store.Liabilities(*portfolioID)
		if err != nil {
			return fail(err)
		}
		for _, l := range ls {
			fmt.Printf("%-36s %-16s %12s\n", l.ID, l.Name, l.Balance)
		}
		return subcommands.ExitSuccess
	}

	l := tracker.Liability{
		ID:          uuid.NewString(),
		PortfolioID: *portfolioID,
		Name:        p.name,
		Balance:     tracker.M(p.balance, *currency),
		Payment:     tracker.M(p.payment, *currency),
		StartDate:   tracker.Today(),
	}
	if p.rate != 0 {
		l.InterestRate = decimal.NewFromFloat(p.rate)
	}
	store.AddLiability(l)
	if err := saveStore(store); err != nil {
		return fail(err)
	}
	fmt.Printf("Registered liability %s (%s) at %s\n", l.Name, l.ID, l.Balance)
	return subcommands.ExitSuccess
}

// payCmd records a liability payment and moves the balance head.
type payCmd struct {
	liability string
	date      string
	principal float64
	interest  float64
}

func (*payCmd) Name() string     { return "pay" }
func (*payCmd) Synopsis() string { return "record a liability payment" }
func (*payCmd) Usage() string {
	return `pay -l <liability> -principal <amount> [-interest <amount>] [-d <date>]

  Appends a payment to the liability's log and reduces its current balance
  by the principal portion. -l accepts the liability's ID or its name.
`
}
func (p *payCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.liability, "l", "", "Liability ID or name (required).")
	f.StringVar(&p.date, "d", "0d", "Payment date (defaults to today).")
	f.Float64Var(&p.principal, "principal", 0, "Principal portion of the payment.")
	f.Float64Var(&p.interest, "interest", 0, "Interest portion of the payment.")
}

func (p *payCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := tracker.ParseDate(p.date)
	if err != nil {
		return fail(err)
	}
	store, err := openStore()
	if err != nil {
		return fail(err)
	}
	l, err := findLiability(store, p.liability)
	if err != nil {
		return fail(err)
	}
	engine, err := newEngine(store, newOracle())
	if err != nil {
		return fail(err)
	}

	l.Balance = l.Balance.Sub(tracker.M(p.principal, *currency))
	pay := tracker.LiabilityPayment{
		ID:               uuid.NewString(),
		LiabilityID:      l.ID,
		Date:             on,
		PrincipalPaid:    tracker.M(p.principal, *currency),
		InterestPaid:     tracker.M(p.interest, *currency),
		RemainingBalance: l.Balance,
	}
	if err := engine.AddPayment(pay); err != nil {
		return fail(err)
	}
	store.UpsertLiability(l)
	if err := saveStore(store); err != nil {
		return fail(err)
	}
	fmt.Printf("Recorded payment of %s on %s, %s now at %s\n",
		pay.PrincipalPaid, pay.Date, l.Name, l.Balance)
	return subcommands.ExitSuccess
}

// paymentsCmd lists a liability's payment log.
type paymentsCmd struct {
	liability string
}

func (*paymentsCmd) Name() string     { return "payments" }
func (*paymentsCmd) Synopsis() string { return "list a liability's payment history" }
func (*paymentsCmd) Usage() string {
	return `payments -l <liability>

  Lists the liability's payments in date order with the balance each left.
`
}
func (p *paymentsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.liability, "l", "", "Liability ID or name (required).")
}

func (p *paymentsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := openStore()
	if err != nil {
		return fail(err)
	}
	l, err := findLiability(store, p.liability)
	if err != nil {
		return fail(err)
	}
	ps, err := store.Payments(l.ID)
	if err != nil {
		return fail(err)
	}
	for _, pay := range ps {
		fmt.Printf("%s  principal %12s  interest %12s  balance %12s\n",
			pay.Date, pay.PrincipalPaid, pay.InterestPaid, pay.RemainingBalance)
	}
	return subcommands.ExitSuccess
}

// findLiability resolves -l by ID first, then by name.
func findLiability(store *tracker.MemoryStore, key string) (tracker.Liability, error) {
	if key == "" {
		return tracker.Liability{}, fmt.Errorf("missing -l flag")
	}
	ls, err := store.Liabilities(*portfolioID)
	if err != nil {
		return tracker.Liability{}, err
	}
	for _, l := range ls {
		if l.ID == key {
			return l, nil
		}
	}
	for _, l := range ls {
		if l.Name == key {
			return l, nil
		}
	}
	return tracker.Liability{}, fmt.Errorf("liability %q: %w", key, tracker.ErrNotFound)
}
