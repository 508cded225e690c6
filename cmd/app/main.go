package main

import (
	"context"
	"log"
	"os"

	"quotepro/internal/adapters/cli"
	"quotepro/internal/ai"
	"quotepro/internal/app"
	"quotepro/internal/core"
	"quotepro/internal/db"
	"quotepro/internal/pdf"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		log.Fatal("Usage: app <preview|quotes|approve|decline|convert|invoices|pdf|stats> [args]")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	accounts := core.NewAccountService(pool)
	settings := core.NewSettingsService(pool)
	numbering := core.NewNumberingService(pool)
	quotes := core.NewQuoteService(pool, numbering, settings)
	invoices := core.NewInvoiceService(pool, numbering, settings)
	analytics := core.NewAnalyticsService(pool)
	renderer := pdf.NewRenderer()

	var extractor ai.ExtractorService
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		extractor = ai.NewExtractor(apiKey)
	}

	svc := app.NewAppService(pool, accounts, quotes, invoices, settings, numbering, analytics, renderer, extractor)
	cli.Run(ctx, svc, os.Args[1:])
}
