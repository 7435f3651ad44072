// Command folio is the portfolio tracker CLI.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"

	"github.com/morgan8889/asset-portfolio-sub002/cmd"
)

func main() {
	// API keys (EODHD_API_KEY, GEMINI_API_KEY) usually live in a local
	// .env next to the ledger.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning, cannot read .env: %v", err)
	}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
