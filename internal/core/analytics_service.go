package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// QuoteAnalytics is the dashboard summary for one account: counts and value
// per quote status, plus the share of quotes that reached an invoice.
type QuoteAnalytics struct {
	TotalQuotes      int             `json:"total_quotes"`
	PendingCount     int             `json:"pending_count"`
	ApprovedCount    int             `json:"approved_count"`
	DeclinedCount    int             `json:"declined_count"`
	ConvertedCount   int             `json:"converted_count"`
	QuotedValue      decimal.Decimal `json:"quoted_value"`
	InvoicedValue    decimal.Decimal `json:"invoiced_value"`
	OutstandingValue decimal.Decimal `json:"outstanding_value"`
	PaidValue        decimal.Decimal `json:"paid_value"`
	ConversionRate   decimal.Decimal `json:"conversion_rate"`
}

type AnalyticsService interface {
	GetQuoteAnalytics(ctx context.Context, accountID int) (*QuoteAnalytics, error)
}

type analyticsService struct {
	pool *pgxpool.Pool
}

func NewAnalyticsService(pool *pgxpool.Pool) AnalyticsService {
	return &analyticsService{pool: pool}
}

func (s *analyticsService) GetQuoteAnalytics(ctx context.Context, accountID int) (*QuoteAnalytics, error) {
	a := &QuoteAnalytics{
		QuotedValue:      decimal.Zero,
		InvoicedValue:    decimal.Zero,
		OutstandingValue: decimal.Zero,
		PaidValue:        decimal.Zero,
		ConversionRate:   decimal.Zero,
	}

	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'pending'),
		       COUNT(*) FILTER (WHERE status = 'approved'),
		       COUNT(*) FILTER (WHERE status = 'declined'),
		       COUNT(*) FILTER (WHERE status = 'converted'),
		       COALESCE(SUM(total), 0)
		FROM quotes
		WHERE account_id = $1
	`, accountID).Scan(
		&a.TotalQuotes, &a.PendingCount, &a.ApprovedCount, &a.DeclinedCount, &a.ConvertedCount,
		&a.QuotedValue,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate quotes: %w", err)
	}

	err = s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0),
		       COALESCE(SUM(total) FILTER (WHERE status IN ('sent', 'overdue')), 0),
		       COALESCE(SUM(total) FILTER (WHERE status = 'paid'), 0)
		FROM invoices
		WHERE account_id = $1
	`, accountID).Scan(&a.InvoicedValue, &a.OutstandingValue, &a.PaidValue)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate invoices: %w", err)
	}

	if a.TotalQuotes > 0 {
		a.ConversionRate = decimal.NewFromInt(int64(a.ConvertedCount)).
			Div(decimal.NewFromInt(int64(a.TotalQuotes))).Round(4)
	}
	return a, nil
}
