package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InvoiceService derives invoices from approved quotes and manages the
// invoice lifecycle. Conversion is atomic: the invoice insert, its frozen
// line copies, the number allocation, and the quote's move to converted all
// ride one transaction — if any step fails the quote stays approved.
type InvoiceService interface {
	ConvertQuote(ctx context.Context, accountID, quoteID int) (*Invoice, error)

	MarkSent(ctx context.Context, accountID, invoiceID int) (*Invoice, error)
	MarkPaid(ctx context.Context, accountID, invoiceID int) (*Invoice, error)
	MarkOverdue(ctx context.Context, accountID, invoiceID int) (*Invoice, error)

	GetInvoice(ctx context.Context, accountID, invoiceID int) (*Invoice, error)
	GetInvoiceByNumber(ctx context.Context, accountID int, invoiceNumber string) (*Invoice, error)
	ListInvoices(ctx context.Context, accountID int, status *InvoiceStatus) ([]Invoice, error)
}

type invoiceService struct {
	pool      *pgxpool.Pool
	numbering NumberingService
	settings  SettingsService
}

func NewInvoiceService(pool *pgxpool.Pool, numbering NumberingService, settings SettingsService) InvoiceService {
	return &invoiceService{pool: pool, numbering: numbering, settings: settings}
}

func (s *invoiceService) ConvertQuote(ctx context.Context, accountID, quoteID int) (*Invoice, error) {
	settings, err := s.settings.GetSettings(ctx, accountID)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the quote row for the duration of the conversion so a concurrent
	// transition or edit cannot interleave.
	row := tx.QueryRow(ctx,
		"SELECT"+quoteColumns+" FROM quotes WHERE id = $1 AND account_id = $2 FOR UPDATE",
		quoteID, accountID,
	)
	quote, err := scanQuote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("quote %d: %w", quoteID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch quote %d: %w", quoteID, err)
	}
	quote.Items, err = fetchLineItems(ctx, tx, "quote_line_items", "quote_id", quoteID)
	if err != nil {
		return nil, err
	}

	invoiceNumber, err := s.numbering.AllocateInvoiceNumberTx(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}

	issueDate := time.Now()
	invoice, err := DeriveInvoice(quote, invoiceNumber, issueDate, settings.PaymentTermsDays)
	if err != nil {
		return nil, fmt.Errorf("quote %s: %w", quote.QuoteNumber, err)
	}

	var invoiceID int
	err = tx.QueryRow(ctx, `
		INSERT INTO invoices (account_id, invoice_number, quote_id, quote_number, profession, status,
		                      client_name, client_address, client_email, client_company, client_phone, client_comments,
		                      subtotal, vat, total, tax_enabled, tax_rate, issue_date, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id
	`, accountID, invoice.InvoiceNumber, quote.ID, quote.QuoteNumber, invoice.Profession, string(InvoiceStatusDraft),
		invoice.Client.Name, invoice.Client.Address, invoice.Client.Email, invoice.Client.Company, invoice.Client.Phone, invoice.Client.Comments,
		invoice.Totals.Subtotal, invoice.Totals.VAT, invoice.Totals.Total, invoice.TaxEnabled, invoice.TaxRate,
		invoice.IssueDate, invoice.DueDate,
	).Scan(&invoiceID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("invoice number %s: %w", invoice.InvoiceNumber, ErrNumberingConflict)
		}
		return nil, fmt.Errorf("failed to insert invoice: %w", err)
	}

	for i, item := range invoice.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO invoice_line_items (invoice_id, position, item_id, description, quantity, unit_price, line_total, attributes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, invoiceID, i+1, item.ID, item.Description, item.Quantity, item.UnitPrice, item.LineTotal, item.Attributes)
		if err != nil {
			return nil, fmt.Errorf("failed to insert invoice line %d: %w", i+1, err)
		}
	}

	// Flip the quote only now that the invoice rows exist in this tx.
	if _, err = tx.Exec(ctx,
		"UPDATE quotes SET status = $1, updated_at = NOW() WHERE id = $2",
		string(QuoteStatusConverted), quoteID,
	); err != nil {
		return nil, fmt.Errorf("failed to mark quote %d converted: %w", quoteID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit quote conversion: %w", err)
	}

	return s.GetInvoice(ctx, accountID, invoiceID)
}

func (s *invoiceService) MarkSent(ctx context.Context, accountID, invoiceID int) (*Invoice, error) {
	return s.transition(ctx, accountID, invoiceID, InvoiceStatusSent)
}

func (s *invoiceService) MarkPaid(ctx context.Context, accountID, invoiceID int) (*Invoice, error) {
	return s.transition(ctx, accountID, invoiceID, InvoiceStatusPaid)
}

func (s *invoiceService) MarkOverdue(ctx context.Context, accountID, invoiceID int) (*Invoice, error) {
	return s.transition(ctx, accountID, invoiceID, InvoiceStatusOverdue)
}

func (s *invoiceService) transition(ctx context.Context, accountID, invoiceID int, to InvoiceStatus) (*Invoice, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var status string
	err = tx.QueryRow(ctx,
		"SELECT status FROM invoices WHERE id = $1 AND account_id = $2 FOR UPDATE",
		invoiceID, accountID,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("invoice %d: %w", invoiceID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch invoice %d: %w", invoiceID, err)
	}

	if !InvoiceStatus(status).CanTransition(to) {
		return nil, &TransitionError{From: status, To: string(to)}
	}

	if to == InvoiceStatusPaid {
		_, err = tx.Exec(ctx,
			"UPDATE invoices SET status = $1, paid_date = NOW(), updated_at = NOW() WHERE id = $2",
			string(to), invoiceID,
		)
	} else {
		_, err = tx.Exec(ctx,
			"UPDATE invoices SET status = $1, updated_at = NOW() WHERE id = $2",
			string(to), invoiceID,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to transition invoice %d: %w", invoiceID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit invoice transition: %w", err)
	}

	return s.GetInvoice(ctx, accountID, invoiceID)
}

// ── Queries ──────────────────────────────────────────────────────────────────

const invoiceColumns = `
	id, account_id, invoice_number, quote_id, quote_number, profession, status,
	client_name, client_address, client_email, client_company, client_phone, client_comments,
	subtotal, vat, total, tax_enabled, tax_rate, issue_date, due_date, paid_date, created_at, updated_at`

func (s *invoiceService) GetInvoice(ctx context.Context, accountID, invoiceID int) (*Invoice, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT"+invoiceColumns+" FROM invoices WHERE id = $1 AND account_id = $2",
		invoiceID, accountID,
	)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("invoice %d: %w", invoiceID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch invoice %d: %w", invoiceID, err)
	}

	inv.Items, err = fetchLineItems(ctx, s.pool, "invoice_line_items", "invoice_id", invoiceID)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *invoiceService) GetInvoiceByNumber(ctx context.Context, accountID int, invoiceNumber string) (*Invoice, error) {
	var invoiceID int
	err := s.pool.QueryRow(ctx,
		"SELECT id FROM invoices WHERE account_id = $1 AND invoice_number = $2",
		accountID, invoiceNumber,
	).Scan(&invoiceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("invoice %s: %w", invoiceNumber, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to look up invoice by number: %w", err)
	}
	return s.GetInvoice(ctx, accountID, invoiceID)
}

func (s *invoiceService) ListInvoices(ctx context.Context, accountID int, status *InvoiceStatus) ([]Invoice, error) {
	query := "SELECT" + invoiceColumns + " FROM invoices WHERE account_id = $1"
	args := []any{accountID}
	if status != nil {
		query += " AND status = $2"
		args = append(args, string(*status))
	}
	query += " ORDER BY id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read invoices: %w", err)
	}

	for i := range invoices {
		invoices[i].Items, err = fetchLineItems(ctx, s.pool, "invoice_line_items", "invoice_id", invoices[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return invoices, nil
}

func scanInvoice(row pgxRowScanner) (*Invoice, error) {
	var inv Invoice
	var status string
	err := row.Scan(
		&inv.ID, &inv.AccountID, &inv.InvoiceNumber, &inv.QuoteID, &inv.QuoteNumber, &inv.Profession, &status,
		&inv.Client.Name, &inv.Client.Address, &inv.Client.Email, &inv.Client.Company, &inv.Client.Phone, &inv.Client.Comments,
		&inv.Totals.Subtotal, &inv.Totals.VAT, &inv.Totals.Total, &inv.TaxEnabled, &inv.TaxRate,
		&inv.IssueDate, &inv.DueDate, &inv.PaidDate, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.Status = InvoiceStatus(status)
	return &inv, nil
}
