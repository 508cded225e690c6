package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// failure (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// QuoteInput is the caller-supplied shape for creating or updating a quote.
// Tax settings left nil fall back to the account's defaults.
type QuoteInput struct {
	Profession string
	Client     ClientDetails
	Items      []LineItem
	TaxEnabled *bool
	TaxRate    *decimal.Decimal
	Notes      string
}

// QuoteService manages the quote lifecycle. Totals are recomputed from the
// line items before every save; a persisted quote is never internally
// inconsistent. Number allocation happens inside the creating transaction.
type QuoteService interface {
	CreateQuote(ctx context.Context, accountID int, input QuoteInput) (*Quote, error)
	// UpdateQuote replaces a pending quote's content. Quotes past pending are
	// frozen for editing.
	UpdateQuote(ctx context.Context, accountID, quoteID int, input QuoteInput) (*Quote, error)
	ApproveQuote(ctx context.Context, accountID, quoteID int) (*Quote, error)
	DeclineQuote(ctx context.Context, accountID, quoteID int) (*Quote, error)
	DeleteQuote(ctx context.Context, accountID, quoteID int) error

	GetQuote(ctx context.Context, accountID, quoteID int) (*Quote, error)
	GetQuoteByNumber(ctx context.Context, accountID int, quoteNumber string) (*Quote, error)
	ListQuotes(ctx context.Context, accountID int, status *QuoteStatus) ([]Quote, error)
}

type quoteService struct {
	pool      *pgxpool.Pool
	numbering NumberingService
	settings  SettingsService
}

func NewQuoteService(pool *pgxpool.Pool, numbering NumberingService, settings SettingsService) QuoteService {
	return &quoteService{pool: pool, numbering: numbering, settings: settings}
}

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, enabling shared
// query helpers.
type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (s *quoteService) CreateQuote(ctx context.Context, accountID int, input QuoteInput) (*Quote, error) {
	settings, err := s.settings.GetSettings(ctx, accountID)
	if err != nil {
		return nil, err
	}

	q := buildQuote(accountID, input, settings)
	q.Recalculate()
	if err := q.ValidateForCommit(); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	quoteNumber, err := s.numbering.AllocateQuoteNumberTx(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}

	var quoteID int
	err = tx.QueryRow(ctx, `
		INSERT INTO quotes (account_id, quote_number, profession, status,
		                    client_name, client_address, client_email, client_company, client_phone, client_comments,
		                    subtotal, vat, total, tax_enabled, tax_rate, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id
	`, accountID, quoteNumber, q.Profession, string(QuoteStatusPending),
		q.Client.Name, q.Client.Address, q.Client.Email, q.Client.Company, q.Client.Phone, q.Client.Comments,
		q.Totals.Subtotal, q.Totals.VAT, q.Totals.Total, q.TaxEnabled, q.TaxRate, q.Notes,
	).Scan(&quoteID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("quote number %s: %w", quoteNumber, ErrNumberingConflict)
		}
		return nil, fmt.Errorf("failed to insert quote: %w", err)
	}

	if err := insertQuoteItems(ctx, tx, quoteID, q.Items); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit quote creation: %w", err)
	}

	return s.GetQuote(ctx, accountID, quoteID)
}

func (s *quoteService) UpdateQuote(ctx context.Context, accountID, quoteID int, input QuoteInput) (*Quote, error) {
	settings, err := s.settings.GetSettings(ctx, accountID)
	if err != nil {
		return nil, err
	}

	q := buildQuote(accountID, input, settings)
	q.Recalculate()
	if err := q.ValidateForCommit(); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var status string
	err = tx.QueryRow(ctx,
		"SELECT status FROM quotes WHERE id = $1 AND account_id = $2 FOR UPDATE",
		quoteID, accountID,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("quote %d: %w", quoteID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch quote %d: %w", quoteID, err)
	}
	if QuoteStatus(status) != QuoteStatusPending {
		return nil, fmt.Errorf("quote %d cannot be edited in status %s: %w", quoteID, status, ErrPreconditionFailed)
	}

	_, err = tx.Exec(ctx, `
		UPDATE quotes
		SET profession = $1,
		    client_name = $2, client_address = $3, client_email = $4,
		    client_company = $5, client_phone = $6, client_comments = $7,
		    subtotal = $8, vat = $9, total = $10, tax_enabled = $11, tax_rate = $12,
		    notes = $13, updated_at = NOW()
		WHERE id = $14
	`, q.Profession,
		q.Client.Name, q.Client.Address, q.Client.Email,
		q.Client.Company, q.Client.Phone, q.Client.Comments,
		q.Totals.Subtotal, q.Totals.VAT, q.Totals.Total, q.TaxEnabled, q.TaxRate,
		q.Notes, quoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to update quote %d: %w", quoteID, err)
	}

	// Replace the line items wholesale; display order follows slice order.
	if _, err = tx.Exec(ctx, "DELETE FROM quote_line_items WHERE quote_id = $1", quoteID); err != nil {
		return nil, fmt.Errorf("failed to clear quote lines: %w", err)
	}
	if err := insertQuoteItems(ctx, tx, quoteID, q.Items); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit quote update: %w", err)
	}

	return s.GetQuote(ctx, accountID, quoteID)
}

func (s *quoteService) ApproveQuote(ctx context.Context, accountID, quoteID int) (*Quote, error) {
	return s.transition(ctx, accountID, quoteID, QuoteStatusApproved)
}

func (s *quoteService) DeclineQuote(ctx context.Context, accountID, quoteID int) (*Quote, error) {
	return s.transition(ctx, accountID, quoteID, QuoteStatusDeclined)
}

// transition moves a quote to the target status under a row lock. The state
// machine is checked before any write; an illegal edge mutates nothing.
func (s *quoteService) transition(ctx context.Context, accountID, quoteID int, to QuoteStatus) (*Quote, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var status string
	err = tx.QueryRow(ctx,
		"SELECT status FROM quotes WHERE id = $1 AND account_id = $2 FOR UPDATE",
		quoteID, accountID,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("quote %d: %w", quoteID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch quote %d: %w", quoteID, err)
	}

	if !QuoteStatus(status).CanTransition(to) {
		return nil, &TransitionError{From: status, To: string(to)}
	}

	_, err = tx.Exec(ctx,
		"UPDATE quotes SET status = $1, updated_at = NOW() WHERE id = $2",
		string(to), quoteID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to transition quote %d: %w", quoteID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit quote transition: %w", err)
	}

	return s.GetQuote(ctx, accountID, quoteID)
}

func (s *quoteService) DeleteQuote(ctx context.Context, accountID, quoteID int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var status string
	err = tx.QueryRow(ctx,
		"SELECT status FROM quotes WHERE id = $1 AND account_id = $2 FOR UPDATE",
		quoteID, accountID,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("quote %d: %w", quoteID, ErrNotFound)
		}
		return fmt.Errorf("failed to fetch quote %d: %w", quoteID, err)
	}
	if QuoteStatus(status) == QuoteStatusConverted {
		return fmt.Errorf("quote %d has been converted and cannot be deleted: %w", quoteID, ErrPreconditionFailed)
	}

	if _, err = tx.Exec(ctx, "DELETE FROM quote_line_items WHERE quote_id = $1", quoteID); err != nil {
		return fmt.Errorf("failed to delete quote lines: %w", err)
	}
	if _, err = tx.Exec(ctx, "DELETE FROM quotes WHERE id = $1", quoteID); err != nil {
		return fmt.Errorf("failed to delete quote %d: %w", quoteID, err)
	}

	return tx.Commit(ctx)
}

// ── Queries ──────────────────────────────────────────────────────────────────

const quoteColumns = `
	id, account_id, quote_number, profession, status,
	client_name, client_address, client_email, client_company, client_phone, client_comments,
	subtotal, vat, total, tax_enabled, tax_rate, notes, created_at, updated_at`

func (s *quoteService) GetQuote(ctx context.Context, accountID, quoteID int) (*Quote, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT"+quoteColumns+" FROM quotes WHERE id = $1 AND account_id = $2",
		quoteID, accountID,
	)
	q, err := scanQuote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("quote %d: %w", quoteID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch quote %d: %w", quoteID, err)
	}

	q.Items, err = fetchLineItems(ctx, s.pool, "quote_line_items", "quote_id", quoteID)
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (s *quoteService) GetQuoteByNumber(ctx context.Context, accountID int, quoteNumber string) (*Quote, error) {
	var quoteID int
	err := s.pool.QueryRow(ctx,
		"SELECT id FROM quotes WHERE account_id = $1 AND quote_number = $2",
		accountID, quoteNumber,
	).Scan(&quoteID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("quote %s: %w", quoteNumber, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to look up quote by number: %w", err)
	}
	return s.GetQuote(ctx, accountID, quoteID)
}

func (s *quoteService) ListQuotes(ctx context.Context, accountID int, status *QuoteStatus) ([]Quote, error) {
	query := "SELECT" + quoteColumns + " FROM quotes WHERE account_id = $1"
	args := []any{accountID}
	if status != nil {
		query += " AND status = $2"
		args = append(args, string(*status))
	}
	query += " ORDER BY id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotes: %w", err)
	}
	defer rows.Close()

	var quotes []Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		quotes = append(quotes, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read quotes: %w", err)
	}

	for i := range quotes {
		quotes[i].Items, err = fetchLineItems(ctx, s.pool, "quote_line_items", "quote_id", quotes[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return quotes, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// buildQuote assembles a Quote from caller input, applying account defaults
// for the tax policy and fresh ids for rows that arrive without one.
func buildQuote(accountID int, input QuoteInput, settings *Settings) *Quote {
	profession := input.Profession
	if profession == "" {
		profession = ProfessionGeneral
	}

	taxEnabled := settings.TaxEnabled
	if input.TaxEnabled != nil {
		taxEnabled = *input.TaxEnabled
	}
	taxRate := settings.TaxRate
	if input.TaxRate != nil {
		taxRate = *input.TaxRate
	}

	items := CloneItems(input.Items)
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
	}

	return &Quote{
		AccountID:  accountID,
		Profession: profession,
		Client:     input.Client,
		Items:      items,
		TaxEnabled: taxEnabled,
		TaxRate:    taxRate,
		Status:     QuoteStatusPending,
		Notes:      input.Notes,
	}
}

func insertQuoteItems(ctx context.Context, tx pgx.Tx, quoteID int, items []LineItem) error {
	for i, item := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO quote_line_items (quote_id, position, item_id, description, quantity, unit_price, line_total, attributes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, quoteID, i+1, item.ID, item.Description, item.Quantity, item.UnitPrice, item.LineTotal, item.Attributes)
		if err != nil {
			return fmt.Errorf("failed to insert quote line %d: %w", i+1, err)
		}
	}
	return nil
}

type pgxRowScanner interface {
	Scan(dest ...any) error
}

func scanQuote(row pgxRowScanner) (*Quote, error) {
	var q Quote
	var status string
	err := row.Scan(
		&q.ID, &q.AccountID, &q.QuoteNumber, &q.Profession, &status,
		&q.Client.Name, &q.Client.Address, &q.Client.Email, &q.Client.Company, &q.Client.Phone, &q.Client.Comments,
		&q.Totals.Subtotal, &q.Totals.VAT, &q.Totals.Total, &q.TaxEnabled, &q.TaxRate,
		&q.Notes, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	q.Status = QuoteStatus(status)
	return &q, nil
}

// fetchLineItems loads the ordered line items of a quote or invoice.
func fetchLineItems(ctx context.Context, q pgxQuerier, table, fkColumn string, documentID int) ([]LineItem, error) {
	rows, err := q.Query(ctx, fmt.Sprintf(`
		SELECT item_id, description, quantity, unit_price, line_total, attributes
		FROM %s
		WHERE %s = $1
		ORDER BY position
	`, table, fkColumn), documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query line items: %w", err)
	}
	defer rows.Close()

	var items []LineItem
	for rows.Next() {
		var item LineItem
		if err := rows.Scan(&item.ID, &item.Description, &item.Quantity, &item.UnitPrice, &item.LineTotal, &item.Attributes); err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read line items: %w", err)
	}
	return items, nil
}
