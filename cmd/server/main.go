package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "quotepro/internal/adapters/web"
	"quotepro/internal/ai"
	"quotepro/internal/app"
	"quotepro/internal/core"
	"quotepro/internal/db"
	"quotepro/internal/pdf"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
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
	} else {
		log.Println("Warning: OPENAI_API_KEY is not set, document import disabled")
	}

	svc := app.NewAppService(pool, accounts, quotes, invoices, settings, numbering, analytics, renderer, extractor)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins, jwtSecret)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
