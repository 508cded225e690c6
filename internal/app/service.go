package app

import (
	"context"

	"quotepro/internal/core"
)

// ApplicationService is the single interface all UI adapters (CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// RegisterAccount creates an account with its default settings and
	// company profile.
	RegisterAccount(ctx context.Context, req RegisterRequest) (*core.Account, error)

	// AuthenticateAccount verifies credentials and returns the account.
	AuthenticateAccount(ctx context.Context, email, password string) (*core.Account, error)

	// PreviewTotals computes document totals for a set of line items without
	// persisting anything. Cost formula inputs in item attributes are applied
	// before summing.
	PreviewTotals(ctx context.Context, req PreviewRequest) (*PreviewResult, error)

	// ListProfessions returns every profession schema, general first.
	ListProfessions(ctx context.Context) []core.FieldSchema

	// CreateQuote persists a new pending quote, assigning the next quote
	// number.
	CreateQuote(ctx context.Context, accountID int, req QuoteRequest) (*core.Quote, error)

	// UpdateQuote replaces the client details and line items of a pending
	// quote. Approved, declined, and converted quotes cannot be edited.
	UpdateQuote(ctx context.Context, accountID, quoteID int, req QuoteRequest) (*core.Quote, error)

	// GetQuote returns a quote by numeric ID or quote number string.
	GetQuote(ctx context.Context, accountID int, ref string) (*core.Quote, error)

	// ListQuotes returns quotes for the account, optionally filtered by status.
	ListQuotes(ctx context.Context, accountID int, status string) (*QuoteListResult, error)

	// ApproveQuote transitions a pending quote to approved.
	ApproveQuote(ctx context.Context, accountID int, ref string) (*core.Quote, error)

	// DeclineQuote transitions a pending quote to declined.
	DeclineQuote(ctx context.Context, accountID int, ref string) (*core.Quote, error)

	// DeleteQuote removes a quote that has not been converted.
	DeleteQuote(ctx context.Context, accountID int, ref string) error

	// ConvertQuote derives an invoice from an approved quote, assigning the
	// next invoice number and marking the quote converted, atomically.
	ConvertQuote(ctx context.Context, accountID int, ref string) (*core.Invoice, error)

	// GetInvoice returns an invoice by numeric ID or invoice number string.
	GetInvoice(ctx context.Context, accountID int, ref string) (*core.Invoice, error)

	// ListInvoices returns invoices for the account, optionally filtered by status.
	ListInvoices(ctx context.Context, accountID int, status string) (*InvoiceListResult, error)

	// MarkInvoiceSent transitions a draft invoice to sent.
	MarkInvoiceSent(ctx context.Context, accountID int, ref string) (*core.Invoice, error)

	// MarkInvoicePaid transitions a sent or overdue invoice to paid and stamps
	// the payment date.
	MarkInvoicePaid(ctx context.Context, accountID int, ref string) (*core.Invoice, error)

	// MarkInvoiceOverdue transitions a sent invoice to overdue.
	MarkInvoiceOverdue(ctx context.Context, accountID int, ref string) (*core.Invoice, error)

	// GetSettings returns the account's numbering and tax settings.
	GetSettings(ctx context.Context, accountID int) (*core.Settings, error)

	// UpdateSettings applies a partial settings update. Counters only move
	// forward.
	UpdateSettings(ctx context.Context, accountID int, req SettingsRequest) (*core.Settings, error)

	// GetCompanyProfile returns the business identity used on documents.
	GetCompanyProfile(ctx context.Context, accountID int) (*core.CompanyProfile, error)

	// UpdateCompanyProfile upserts the business identity.
	UpdateCompanyProfile(ctx context.Context, accountID int, profile core.CompanyProfile) (*core.CompanyProfile, error)

	// GetAnalytics returns pipeline counts and money aggregates for the account.
	GetAnalytics(ctx context.Context, accountID int) (*core.QuoteAnalytics, error)

	// ImportDocument extracts line item candidates from pasted document text.
	// The result is a draft for review; nothing is persisted.
	ImportDocument(ctx context.Context, accountID int, req ImportRequest) (*ImportResult, error)

	// RenderQuotePDF renders a quote as a printable PDF.
	RenderQuotePDF(ctx context.Context, accountID int, ref string) (*PDFResult, error)

	// RenderInvoicePDF renders an invoice as a printable PDF.
	RenderInvoicePDF(ctx context.Context, accountID int, ref string) (*PDFResult, error)

	// LoadDefaultAccount loads the active account. Uses ACCOUNT_EMAIL env var
	// if set; otherwise expects exactly one account in the database.
	LoadDefaultAccount(ctx context.Context) (*core.Account, error)
}
