package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is an authenticated business owner. Every quote, invoice, and
// settings row is scoped to exactly one account.
type Account struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// CompanyProfile is the business identity printed on quote and invoice PDFs.
type CompanyProfile struct {
	AccountID int    `json:"account_id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	VATNumber string `json:"vat_number"`
	Currency  string `json:"currency"`
}

// ClientDetails identifies the recipient of a quote or invoice.
// Name, Address, and Email are required before a document can be committed.
type ClientDetails struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Email    string `json:"email"`
	Company  string `json:"company,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Comments string `json:"comments,omitempty"`
}

// LineItem is one billable row on a quote or invoice.
// LineTotal is always Quantity × UnitPrice; mutation goes through SetQuantity,
// SetUnitPrice, or Recalculate so the relation cannot drift. Attributes carries
// profession-specific fields (patient identifiers, case numbers, cost inputs)
// which never participate in the total directly — see DeriveUnitPrice.
type LineItem struct {
	ID          string            `json:"id"`
	Description string            `json:"description"`
	Quantity    decimal.Decimal   `json:"quantity"`
	UnitPrice   decimal.Decimal   `json:"unit_price"`
	LineTotal   decimal.Decimal   `json:"line_total"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// DocumentTotals is the derived money summary of a document.
// Invariant: Total = Subtotal + VAT, and VAT = 0 when tax is disabled.
type DocumentTotals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	VAT      decimal.Decimal `json:"vat"`
	Total    decimal.Decimal `json:"total"`
}

type QuoteStatus string

const (
	QuoteStatusPending   QuoteStatus = "pending"
	QuoteStatusApproved  QuoteStatus = "approved"
	QuoteStatusDeclined  QuoteStatus = "declined"
	QuoteStatusConverted QuoteStatus = "converted"
)

// Quote is a priced offer to a client.
// Status progresses through the state machine:
//
//	pending → approved | declined
//	approved → converted (only via invoice conversion)
//	declined and converted are terminal
type Quote struct {
	ID          int             `json:"id"`
	AccountID   int             `json:"account_id"`
	QuoteNumber string          `json:"quote_number"` // assigned at creation, immutable
	Profession  string          `json:"profession"`
	Client      ClientDetails   `json:"client"`
	Items       []LineItem      `json:"items"`
	Totals      DocumentTotals  `json:"totals"`
	TaxEnabled  bool            `json:"tax_enabled"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Status      QuoteStatus     `json:"status"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// Invoice is derived from an approved quote. Client, Items, and Totals are a
// frozen copy taken at conversion time; later edits to the source quote never
// reach an existing invoice. Its lifecycle is independent of the quote's:
//
//	draft → sent → paid
//	sent → overdue → paid
type Invoice struct {
	ID            int             `json:"id"`
	AccountID     int             `json:"account_id"`
	InvoiceNumber string          `json:"invoice_number"`
	QuoteID       int             `json:"quote_id"`
	QuoteNumber   string          `json:"quote_number"`
	Profession    string          `json:"profession"`
	Client        ClientDetails   `json:"client"`
	Items         []LineItem      `json:"items"`
	Totals        DocumentTotals  `json:"totals"`
	TaxEnabled    bool            `json:"tax_enabled"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Status        InvoiceStatus   `json:"status"`
	IssueDate     time.Time       `json:"issue_date"`
	DueDate       time.Time       `json:"due_date"`
	PaidDate      *time.Time      `json:"paid_date,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Settings holds the per-account numbering counters and tax defaults.
// The next_* counters only move forward; a number is consumed atomically in the
// same transaction that persists the document using it.
type Settings struct {
	AccountID         int             `json:"account_id"`
	QuotePrefix       string          `json:"quote_prefix"`
	NextQuoteNumber   int64           `json:"next_quote_number"`
	InvoicePrefix     string          `json:"invoice_prefix"`
	NextInvoiceNumber int64           `json:"next_invoice_number"`
	TaxEnabled        bool            `json:"tax_enabled"`
	TaxRate           decimal.Decimal `json:"tax_rate"`
	PaymentTermsDays  int             `json:"payment_terms_days"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
