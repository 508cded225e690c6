package core_test

import (
	"context"
	"testing"

	"quotepro/internal/core"

	"github.com/shopspring/decimal"
)

func TestAnalyticsService_EmptyAccount(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	analytics := core.NewAnalyticsService(pool)

	a, err := analytics.GetQuoteAnalytics(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetQuoteAnalytics failed: %v", err)
	}
	if a.TotalQuotes != 0 {
		t.Errorf("total quotes: got %d, want 0", a.TotalQuotes)
	}
	if !a.ConversionRate.IsZero() {
		t.Errorf("conversion rate on empty account: got %s", a.ConversionRate)
	}
	if !a.QuotedValue.IsZero() || !a.OutstandingValue.IsZero() {
		t.Errorf("money sums on empty account: %+v", a)
	}
}

func TestAnalyticsService_PipelineCounts(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	quotes, invoices := newQuoteServices(pool)
	analytics := core.NewAnalyticsService(pool)
	ctx := context.Background()

	// Four quotes at 230 each: one stays pending, one declined, one approved,
	// one converted and paid.
	if _, err := quotes.CreateQuote(ctx, 1, testQuoteInput()); err != nil {
		t.Fatalf("CreateQuote failed: %v", err)
	}
	declined, _ := quotes.CreateQuote(ctx, 1, testQuoteInput())
	if _, err := quotes.DeclineQuote(ctx, 1, declined.ID); err != nil {
		t.Fatalf("DeclineQuote failed: %v", err)
	}
	approved, _ := quotes.CreateQuote(ctx, 1, testQuoteInput())
	if _, err := quotes.ApproveQuote(ctx, 1, approved.ID); err != nil {
		t.Fatalf("ApproveQuote failed: %v", err)
	}
	converted := createApprovedQuote(t, quotes)
	inv, err := invoices.ConvertQuote(ctx, 1, converted.ID)
	if err != nil {
		t.Fatalf("ConvertQuote failed: %v", err)
	}
	if _, err := invoices.MarkSent(ctx, 1, inv.ID); err != nil {
		t.Fatalf("MarkSent failed: %v", err)
	}
	if _, err := invoices.MarkPaid(ctx, 1, inv.ID); err != nil {
		t.Fatalf("MarkPaid failed: %v", err)
	}

	a, err := analytics.GetQuoteAnalytics(ctx, 1)
	if err != nil {
		t.Fatalf("GetQuoteAnalytics failed: %v", err)
	}

	if a.TotalQuotes != 4 {
		t.Errorf("total quotes: got %d, want 4", a.TotalQuotes)
	}
	if a.PendingCount != 1 || a.DeclinedCount != 1 || a.ApprovedCount != 1 || a.ConvertedCount != 1 {
		t.Errorf("status counts: %+v", a)
	}
	if !a.QuotedValue.Equal(decimal.NewFromInt(920)) {
		t.Errorf("quoted value: got %s, want 920", a.QuotedValue)
	}
	if !a.InvoicedValue.Equal(decimal.NewFromInt(230)) {
		t.Errorf("invoiced value: got %s, want 230", a.InvoicedValue)
	}
	if !a.PaidValue.Equal(decimal.NewFromInt(230)) {
		t.Errorf("paid value: got %s, want 230", a.PaidValue)
	}
	if !a.OutstandingValue.IsZero() {
		t.Errorf("outstanding value: got %s, want 0", a.OutstandingValue)
	}
	if !a.ConversionRate.Equal(decimal.NewFromFloat(0.25)) {
		t.Errorf("conversion rate: got %s, want 0.25", a.ConversionRate)
	}
}
