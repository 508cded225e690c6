package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// maxDocumentNumber caps a counter. Practically unreachable, but the policy
// is to fail explicitly rather than wrap or reset.
const maxDocumentNumber int64 = 1<<31 - 1

// NumberingService issues human-readable sequential document numbers
// (prefix + zero-padded counter) from the per-account app_settings row.
//
// Peek reads the number a document would get without consuming it. Allocate
// consumes it via a single atomic increment-and-return, and must run inside
// the same transaction that persists the document: a rollback returns the
// number, so a failed save neither skips nor reuses one, and two concurrent
// creations can never see the same value.
type NumberingService interface {
	PeekQuoteNumber(ctx context.Context, accountID int) (string, error)
	PeekInvoiceNumber(ctx context.Context, accountID int) (string, error)
	AllocateQuoteNumberTx(ctx context.Context, tx pgx.Tx, accountID int) (string, error)
	AllocateInvoiceNumberTx(ctx context.Context, tx pgx.Tx, accountID int) (string, error)
}

type numberingService struct {
	pool *pgxpool.Pool
}

func NewNumberingService(pool *pgxpool.Pool) NumberingService {
	return &numberingService{pool: pool}
}

func (s *numberingService) PeekQuoteNumber(ctx context.Context, accountID int) (string, error) {
	return s.peek(ctx, accountID, "quote_prefix", "next_quote_number")
}

func (s *numberingService) PeekInvoiceNumber(ctx context.Context, accountID int) (string, error) {
	return s.peek(ctx, accountID, "invoice_prefix", "next_invoice_number")
}

func (s *numberingService) peek(ctx context.Context, accountID int, prefixCol, counterCol string) (string, error) {
	var prefix string
	var next int64
	query := fmt.Sprintf("SELECT %s, %s FROM app_settings WHERE account_id = $1", prefixCol, counterCol)
	err := s.pool.QueryRow(ctx, query, accountID).Scan(&prefix, &next)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("settings for account %d: %w", accountID, ErrNotFound)
		}
		return "", fmt.Errorf("failed to read numbering state: %w", err)
	}
	return FormatDocumentNumber(prefix, next), nil
}

func (s *numberingService) AllocateQuoteNumberTx(ctx context.Context, tx pgx.Tx, accountID int) (string, error) {
	return allocateNumber(ctx, tx, accountID, "quote_prefix", "next_quote_number")
}

func (s *numberingService) AllocateInvoiceNumberTx(ctx context.Context, tx pgx.Tx, accountID int) (string, error) {
	return allocateNumber(ctx, tx, accountID, "invoice_prefix", "next_invoice_number")
}

// allocateNumber advances the counter by exactly one and returns the value it
// held before the increment, formatted. The UPDATE takes a row lock, so a
// concurrent allocation for the same account serializes behind it.
func allocateNumber(ctx context.Context, tx pgx.Tx, accountID int, prefixCol, counterCol string) (string, error) {
	var prefix string
	var issued int64
	query := fmt.Sprintf(`
		UPDATE app_settings
		SET %[2]s = %[2]s + 1, updated_at = NOW()
		WHERE account_id = $1 AND %[2]s <= $2
		RETURNING %[1]s, %[2]s - 1
	`, prefixCol, counterCol)
	err := tx.QueryRow(ctx, query, accountID, maxDocumentNumber).Scan(&prefix, &issued)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the settings row is missing or the counter hit the cap.
			var exists bool
			if checkErr := tx.QueryRow(ctx,
				"SELECT EXISTS (SELECT 1 FROM app_settings WHERE account_id = $1)", accountID,
			).Scan(&exists); checkErr == nil && exists {
				return "", ErrNumberingExhausted
			}
			return "", fmt.Errorf("settings for account %d: %w", accountID, ErrNotFound)
		}
		return "", fmt.Errorf("failed to allocate document number: %w", err)
	}
	return FormatDocumentNumber(prefix, issued), nil
}

// FormatDocumentNumber renders a counter value as a human-facing identifier,
// e.g. ("QUO-", 7) → "QUO-0007".
func FormatDocumentNumber(prefix string, n int64) string {
	return fmt.Sprintf("%s%04d", prefix, n)
}
