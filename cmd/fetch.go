package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/google/subcommands"

	tracker "github.com/morgan8889/asset-portfolio-sub002"
	"github.com/morgan8889/asset-portfolio-sub002/eodhd"
)

// refreshedOracle builds the EODHD provider and fetches the history of every
// asset the ledger mentions, from its first transaction to today. Fetch
// failures degrade to zero prices with a warning, the ledger itself is
// never blocked on the network.
func refreshedOracle(store tracker.LedgerStore) *eodhd.Provider {
	oracle := newOracle()
	txs, err := store.Transactions(*portfolioID)
	if err != nil {
		log.Printf("warning, cannot list transactions: %v", err)
		return oracle
	}

	assets, err := store.Assets(*portfolioID)
	if err == nil {
		for _, a := range assets {
			if a.Symbol != "" && a.Symbol != a.ID {
				oracle.MapTicker(a.ID, a.Symbol)
			}
		}
	}

	first := make(map[string]tracker.Date)
	for _, tx := range txs {
		if tx.AssetID == "" {
			continue
		}
		if d, ok := first[tx.AssetID]; !ok || tx.Date.Before(d) {
			first[tx.AssetID] = tx.Date
		}
	}
	for assetID, from := range first {
		if err := oracle.Refresh(assetID, tracker.NewRange(from, tracker.Today())); err != nil {
			log.Printf("warning, %v", err)
		}
	}
	return oracle
}

type fetchCmd struct {
	quote bool
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetch price histories for every asset in the ledger" }
func (*fetchCmd) Usage() string {
	return `fetch [-quote]

  Fetches end-of-day prices from EODHD for every asset the ledger mentions.
  With -quote, live intraday quotes replace the latest close.
`
}
func (p *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.quote, "quote", false, "Also fetch live intraday quotes.")
}

func (p *fetchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := openStore()
	if err != nil {
		return fail(err)
	}
	oracle := refreshedOracle(store)

	holdings, err := store.Holdings(*portfolioID)
	if err != nil {
		return fail(err)
	}
	for _, h := range holdings {
		price := oracle.CurrentPrice(h.AssetID)
		if p.quote {
			if live, err := oracle.Quote(h.AssetID); err == nil {
				price = live
			} else {
				log.Printf("warning, %v", err)
			}
		}
		fmt.Printf("%-8s %s\n", h.AssetID, price)
	}
	return subcommands.ExitSuccess
}

type searchCmd struct{}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "search EODHD for a security" }
func (*searchCmd) Usage() string {
	return `search <term>

  Looks a security up by name, symbol or ISIN and prints the matching
  tickers, ready for use as asset symbols.
`
}
func (*searchCmd) SetFlags(_ *flag.FlagSet) {}

func (p *searchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		return fail(fmt.Errorf("search needs a term"))
	}
	results, err := newOracle().Search(strings.Join(f.Args(), " "))
	if err != nil {
		return fail(err)
	}
	for _, r := range results {
		fmt.Printf("%-16s %-32s %-8s %s\n", r.Ticker(), r.Name, r.Currency, r.ISIN)
	}
	return subcommands.ExitSuccess
}
