package core

import "time"

// DefaultPaymentTermsDays is the invoice due-date term applied when an
// account has not configured its own.
const DefaultPaymentTermsDays = 30

// DeriveInvoice produces a new invoice from an approved quote. The client
// details, line items, and totals are copied by value — the invoice shares no
// mutable state with the source, so later edits to the quote cannot reach it.
//
// The invoice number comes from the caller (allocated by the numbering
// service inside the persisting transaction) and the initial status is always
// draft. The quote itself is not mutated here; the caller flips it to
// converted only once the invoice has actually been persisted.
func DeriveInvoice(q *Quote, invoiceNumber string, issueDate time.Time, termDays int) (*Invoice, error) {
	if q.Status != QuoteStatusApproved {
		return nil, ErrPreconditionFailed
	}
	if termDays <= 0 {
		termDays = DefaultPaymentTermsDays
	}

	return &Invoice{
		AccountID:     q.AccountID,
		InvoiceNumber: invoiceNumber,
		QuoteID:       q.ID,
		QuoteNumber:   q.QuoteNumber,
		Profession:    q.Profession,
		Client:        q.Client,
		Items:         CloneItems(q.Items),
		Totals:        q.Totals,
		TaxEnabled:    q.TaxEnabled,
		TaxRate:       q.TaxRate,
		Status:        InvoiceStatusDraft,
		IssueDate:     issueDate,
		DueDate:       issueDate.AddDate(0, 0, termDays),
	}, nil
}
