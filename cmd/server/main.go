package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"tripdesk/internal/config"
	"tripdesk/internal/dedupe"
	"tripdesk/internal/handler"
	"tripdesk/internal/ledger/postgres"
	"tripdesk/internal/ledger/sheets"
	"tripdesk/internal/llm/azure"
	"tripdesk/internal/port"
	"tripdesk/internal/router"
	"tripdesk/internal/service"
	s3storage "tripdesk/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Local development convenience; the file is absent in deployment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx := context.Background()

	// Initialize the ledger backend
	var (
		ledger port.Ledger
		db     *sqlx.DB
	)
	switch cfg.Ledger.Backend {
	case "postgres":
		db, err = postgres.NewDB(&cfg.DB)
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

	// Initialize the optional image archive
	var archive port.ImageArchive
	if cfg.S3.Bucket != "" {
		archive, err = s3storage.NewImageArchive(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize image archive: %w", err)
		}
	}

	// Initialize the model client and services
	llmClient := azure.NewClient(&cfg.OpenAI)
	gate := dedupe.NewGate(ledger)
	ingestSvc := service.NewIngestService(llmClient, llmClient, gate, archive)
	chatSvc := service.NewChatService(ledger, llmClient)

	// Initialize the LINE messaging clients
	bot, err := messaging_api.NewMessagingApiAPI(cfg.Line.ChannelAccessToken)
	if err != nil {
		return fmt.Errorf("failed to create messaging client: %w", err)
	}
	blob, err := messaging_api.NewMessagingApiBlobAPI(cfg.Line.ChannelAccessToken)
	if err != nil {
		return fmt.Errorf("failed to create blob client: %w", err)
	}

	// Initialize handlers
	webhookH := handler.NewWebhookHandler(cfg.Line.ChannelSecret, bot, blob, ingestSvc, chatSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(webhookH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
