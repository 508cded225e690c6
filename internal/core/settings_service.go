package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// SettingsInput carries the editable settings fields. Counters are not
// directly settable below their current value; issued numbers are history.
type SettingsInput struct {
	QuotePrefix       *string
	NextQuoteNumber   *int64
	InvoicePrefix     *string
	NextInvoiceNumber *int64
	TaxEnabled        *bool
	TaxRate           *decimal.Decimal
	PaymentTermsDays  *int
}

// SettingsService manages the per-account configuration row: numbering
// prefixes and counters, tax defaults, payment terms, and the company
// profile printed on documents.
type SettingsService interface {
	GetSettings(ctx context.Context, accountID int) (*Settings, error)
	// UpdateSettings applies the non-nil fields. Counter changes only affect
	// documents created afterwards, and a counter can never move backwards.
	UpdateSettings(ctx context.Context, accountID int, input SettingsInput) (*Settings, error)

	GetCompanyProfile(ctx context.Context, accountID int) (*CompanyProfile, error)
	UpdateCompanyProfile(ctx context.Context, accountID int, profile CompanyProfile) (*CompanyProfile, error)
}

type settingsService struct {
	pool *pgxpool.Pool
}

func NewSettingsService(pool *pgxpool.Pool) SettingsService {
	return &settingsService{pool: pool}
}

func (s *settingsService) GetSettings(ctx context.Context, accountID int) (*Settings, error) {
	var st Settings
	err := s.pool.QueryRow(ctx, `
		SELECT account_id, quote_prefix, next_quote_number, invoice_prefix, next_invoice_number,
		       tax_enabled, tax_rate, payment_terms_days, updated_at
		FROM app_settings
		WHERE account_id = $1
	`, accountID).Scan(
		&st.AccountID, &st.QuotePrefix, &st.NextQuoteNumber, &st.InvoicePrefix, &st.NextInvoiceNumber,
		&st.TaxEnabled, &st.TaxRate, &st.PaymentTermsDays, &st.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("settings for account %d: %w", accountID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch settings: %w", err)
	}
	return &st, nil
}

func (s *settingsService) UpdateSettings(ctx context.Context, accountID int, input SettingsInput) (*Settings, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var current Settings
	err = tx.QueryRow(ctx, `
		SELECT quote_prefix, next_quote_number, invoice_prefix, next_invoice_number,
		       tax_enabled, tax_rate, payment_terms_days
		FROM app_settings
		WHERE account_id = $1
		FOR UPDATE
	`, accountID).Scan(
		&current.QuotePrefix, &current.NextQuoteNumber, &current.InvoicePrefix, &current.NextInvoiceNumber,
		&current.TaxEnabled, &current.TaxRate, &current.PaymentTermsDays,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("settings for account %d: %w", accountID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock settings: %w", err)
	}

	if input.QuotePrefix != nil {
		current.QuotePrefix = *input.QuotePrefix
	}
	if input.NextQuoteNumber != nil {
		if *input.NextQuoteNumber < current.NextQuoteNumber {
			return nil, &ValidationError{Field: "next_quote_number", Message: "cannot move backwards"}
		}
		current.NextQuoteNumber = *input.NextQuoteNumber
	}
	if input.InvoicePrefix != nil {
		current.InvoicePrefix = *input.InvoicePrefix
	}
	if input.NextInvoiceNumber != nil {
		if *input.NextInvoiceNumber < current.NextInvoiceNumber {
			return nil, &ValidationError{Field: "next_invoice_number", Message: "cannot move backwards"}
		}
		current.NextInvoiceNumber = *input.NextInvoiceNumber
	}
	if input.TaxEnabled != nil {
		current.TaxEnabled = *input.TaxEnabled
	}
	if input.TaxRate != nil {
		if input.TaxRate.IsNegative() {
			return nil, &ValidationError{Field: "tax_rate", Message: "cannot be negative"}
		}
		current.TaxRate = *input.TaxRate
	}
	if input.PaymentTermsDays != nil {
		if *input.PaymentTermsDays <= 0 {
			return nil, &ValidationError{Field: "payment_terms_days", Message: "must be positive"}
		}
		current.PaymentTermsDays = *input.PaymentTermsDays
	}

	_, err = tx.Exec(ctx, `
		UPDATE app_settings
		SET quote_prefix = $1, next_quote_number = $2, invoice_prefix = $3, next_invoice_number = $4,
		    tax_enabled = $5, tax_rate = $6, payment_terms_days = $7, updated_at = NOW()
		WHERE account_id = $8
	`, current.QuotePrefix, current.NextQuoteNumber, current.InvoicePrefix, current.NextInvoiceNumber,
		current.TaxEnabled, current.TaxRate, current.PaymentTermsDays, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit settings update: %w", err)
	}

	return s.GetSettings(ctx, accountID)
}

func (s *settingsService) GetCompanyProfile(ctx context.Context, accountID int) (*CompanyProfile, error) {
	var p CompanyProfile
	err := s.pool.QueryRow(ctx, `
		SELECT account_id, name, address, email, phone, vat_number, currency
		FROM company_profiles
		WHERE account_id = $1
	`, accountID).Scan(&p.AccountID, &p.Name, &p.Address, &p.Email, &p.Phone, &p.VATNumber, &p.Currency)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("company profile for account %d: %w", accountID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch company profile: %w", err)
	}
	return &p, nil
}

func (s *settingsService) UpdateCompanyProfile(ctx context.Context, accountID int, profile CompanyProfile) (*CompanyProfile, error) {
	profile.Name = strings.TrimSpace(profile.Name)
	if profile.Name == "" {
		return nil, &ValidationError{Field: "name", Message: "is required"}
	}
	if profile.Currency == "" {
		profile.Currency = "ZAR"
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO company_profiles (account_id, name, address, email, phone, vat_number, currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (account_id)
		DO UPDATE SET name = $2, address = $3, email = $4, phone = $5, vat_number = $6, currency = $7
	`, accountID, profile.Name, profile.Address, profile.Email, profile.Phone, profile.VATNumber, profile.Currency)
	if err != nil {
		return nil, fmt.Errorf("failed to save company profile: %w", err)
	}
	return s.GetCompanyProfile(ctx, accountID)
}
