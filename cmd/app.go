// Package cmd implements the CLI application around the valuation engine.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/google/subcommands"

	tracker "github.com/morgan8889/asset-portfolio-sub002"
	"github.com/morgan8889/asset-portfolio-sub002/eodhd"
)

// Register registers every subcommand on the commander.
func Register(c *subcommands.Commander) {
	c.Register(&buyCmd{}, "transactions")
	c.Register(&sellCmd{}, "transactions")
	c.Register(&txCmd{}, "transactions")

	c.Register(&liabilityCmd{}, "liabilities")
	c.Register(&payCmd{}, "liabilities")
	c.Register(&paymentsCmd{}, "liabilities")

	c.Register(&holdingCmd{}, "reports")
	c.Register(&networthCmd{}, "reports")
	c.Register(&perfCmd{}, "reports")
	c.Register(&taxCmd{}, "reports")

	c.Register(&fetchCmd{}, "prices")
	c.Register(&searchCmd{}, "prices")

	c.Register(&assistCmd{}, "assistant")
}

// As a short-lived CLI, app-wide settings live in global flags.
var (
	ledgerFile  = flag.String("ledger-file", "ledger.jsonl", "Path to the ledger file (JSONL format)")
	portfolioID = flag.String("portfolio", "main", "Portfolio to operate on")
	currency    = flag.String("currency", "USD", "Reporting currency")
	method      = flag.String("method", "fifo", "Lot disposal method (fifo, lifo, specific)")
)

// openStore loads the ledger file. A missing file yields an empty store so
// the very first transaction bootstraps the ledger.
func openStore() (*tracker.MemoryStore, error) {
	f, err := os.Open(*ledgerFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning, ledger %q does not exist, starting empty", *ledgerFile)
		return tracker.NewMemoryStore(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open ledger %q: %w", *ledgerFile, err)
	}
	defer f.Close()

	store, err := tracker.DecodeStore(f)
	if err != nil {
		return nil, fmt.Errorf("read ledger %q: %w", *ledgerFile, err)
	}
	return store, nil
}

// saveStore writes the ledger back atomically via a temp file rename.
func saveStore(store *tracker.MemoryStore) error {
	tmp := *ledgerFile + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("write ledger %q: %w", *ledgerFile, err)
	}
	if err := tracker.EncodeStore(f, store); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write ledger %q: %w", *ledgerFile, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, *ledgerFile)
}

// newOracle builds the EODHD provider from the environment. Without an API
// key prices simply stay at zero, which every view degrades to gracefully.
func newOracle() *eodhd.Provider {
	key := os.Getenv("EODHD_API_KEY")
	if key == "" {
		log.Println("warning, EODHD_API_KEY is not set, prices will be zero")
	}
	return eodhd.NewProvider(key, *currency)
}

// newEngine wires an engine on the loaded store. The snapshot series lives
// in memory for the process lifetime; reports recompute it on demand.
func newEngine(store tracker.LedgerStore, oracle tracker.PriceOracle) (*tracker.Engine, error) {
	m, err := tracker.ParseDisposalMethod(*method)
	if err != nil {
		return nil, err
	}
	return tracker.NewEngine(store, oracle, tracker.NewMemorySnapshots(), *currency, m), nil
}

// fail prints the error and maps it to an exit status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}
