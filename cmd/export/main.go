// Command export writes one user's accumulated ledger data to an XLSX
// workbook, one sheet per document variant.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"tripdesk/internal/config"
	"tripdesk/internal/export"
	"tripdesk/internal/ledger/postgres"
	"tripdesk/internal/ledger/sheets"
	"tripdesk/internal/port"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	userID := flag.String("user", "", "LINE user ID to export")
	out := flag.String("out", "tripdesk-export.xlsx", "output file path")
	flag.Parse()

	if *userID == "" {
		return fmt.Errorf("-user is required")
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx := context.Background()

	var ledger port.Ledger
	switch cfg.Ledger.Backend {
	case "postgres":
		db, err := postgres.NewDB(&cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		ledger = postgres.NewLedgerRepo(db)
	default:
		ledger, err = sheets.New(ctx, &cfg.Sheets)
		if err != nil {
			return fmt.Errorf("failed to initialize sheets ledger: %w", err)
		}
	}

	snapshot, err := ledger.Snapshot(ctx, *userID)
	if err != nil {
		return fmt.Errorf("reading snapshot for %s: %w", *userID, err)
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", *out, err)
	}
	defer f.Close()

	if err := export.WriteXLSX(f, snapshot); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	log.Printf("exported ledger for %s to %s", *userID, *out)
	return nil
}
