package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// AccountService manages account records and credential checks. Registration
// seeds the account's settings row and company profile in the same
// transaction so numbering is usable from the first quote.
type AccountService interface {
	Register(ctx context.Context, email, name, password string) (*Account, error)
	Authenticate(ctx context.Context, email, password string) (*Account, error)
	GetByID(ctx context.Context, accountID int) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
}

type accountService struct {
	pool *pgxpool.Pool
}

func NewAccountService(pool *pgxpool.Pool) AccountService {
	return &accountService{pool: pool}
}

func (s *accountService) Register(ctx context.Context, email, name, password string) (*Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, &ValidationError{Field: "email", Message: "is invalid"}
	}
	if len(password) < 8 {
		return nil, &ValidationError{Field: "password", Message: "must be at least 8 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var accountID int
	err = tx.QueryRow(ctx, `
		INSERT INTO accounts (email, name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id
	`, email, name, string(hash)).Scan(&accountID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &ValidationError{Field: "email", Message: "is already registered"}
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO app_settings (account_id, quote_prefix, next_quote_number, invoice_prefix, next_invoice_number, tax_enabled, tax_rate, payment_terms_days)
		VALUES ($1, 'QUO-', 1, 'INV-', 1, true, $2, $3)
	`, accountID, DefaultTaxRate, DefaultPaymentTermsDays)
	if err != nil {
		return nil, fmt.Errorf("failed to seed settings: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO company_profiles (account_id, name, address, email, phone, vat_number, currency)
		VALUES ($1, $2, '', $3, '', '', 'ZAR')
	`, accountID, name, email)
	if err != nil {
		return nil, fmt.Errorf("failed to seed company profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit registration: %w", err)
	}

	return s.GetByID(ctx, accountID)
}

func (s *accountService) Authenticate(ctx context.Context, email, password string) (*Account, error) {
	account, err := s.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials for %s: %w", email, ErrNotFound)
	}
	return account, nil
}

func (s *accountService) GetByID(ctx context.Context, accountID int) (*Account, error) {
	return s.getAccount(ctx, "id = $1", accountID)
}

func (s *accountService) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return s.getAccount(ctx, "email = $1", email)
}

func (s *accountService) getAccount(ctx context.Context, where string, arg any) (*Account, error) {
	a := &Account{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, name, password_hash, is_active, created_at
		FROM accounts
		WHERE `+where+` AND is_active = true
		LIMIT 1`, arg,
	).Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.IsActive, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch account: %w", err)
	}
	return a, nil
}
