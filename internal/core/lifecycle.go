package core

import (
	"strings"
	"time"
)

// quoteTransitions enumerates the legal edges of the quote state machine.
// declined and converted have no outgoing edges — a declined quote must be
// re-created, never revived.
var quoteTransitions = map[QuoteStatus][]QuoteStatus{
	QuoteStatusPending:  {QuoteStatusApproved, QuoteStatusDeclined},
	QuoteStatusApproved: {QuoteStatusConverted},
}

// invoiceTransitions enumerates the legal edges of the invoice state machine.
// An overdue invoice can still be paid; paid is terminal.
var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft:   {InvoiceStatusSent},
	InvoiceStatusSent:    {InvoiceStatusPaid, InvoiceStatusOverdue},
	InvoiceStatusOverdue: {InvoiceStatusPaid},
}

// CanTransition reports whether to is a legal next status.
func (s QuoteStatus) CanTransition(to QuoteStatus) bool {
	for _, next := range quoteTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition moves the quote to the given status, advancing UpdatedAt.
// Illegal edges return a TransitionError and leave the quote untouched.
func (q *Quote) Transition(to QuoteStatus, now time.Time) error {
	if !q.Status.CanTransition(to) {
		return &TransitionError{From: string(q.Status), To: string(to)}
	}
	q.Status = to
	q.UpdatedAt = now
	return nil
}

// CanTransition reports whether to is a legal next status.
func (s InvoiceStatus) CanTransition(to InvoiceStatus) bool {
	for _, next := range invoiceTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition moves the invoice to the given status. Moving to paid stamps
// PaidDate; illegal edges return a TransitionError without mutating anything.
func (inv *Invoice) Transition(to InvoiceStatus, now time.Time) error {
	if !inv.Status.CanTransition(to) {
		return &TransitionError{From: string(inv.Status), To: string(to)}
	}
	inv.Status = to
	inv.UpdatedAt = now
	if to == InvoiceStatusPaid {
		paid := now
		inv.PaidDate = &paid
	}
	return nil
}

// ValidateForCommit checks that a quote is complete enough to persist:
// required client details present and profession-required attributes filled on
// every row that counts toward totals. Scaffold rows are ignored.
func (q *Quote) ValidateForCommit() error {
	if strings.TrimSpace(q.Client.Name) == "" {
		return &ValidationError{Field: "client.name", Message: "is required"}
	}
	if strings.TrimSpace(q.Client.Address) == "" {
		return &ValidationError{Field: "client.address", Message: "is required"}
	}
	if strings.TrimSpace(q.Client.Email) == "" {
		return &ValidationError{Field: "client.email", Message: "is required"}
	}

	schema := GetSchema(q.Profession)
	for _, item := range q.Items {
		if !item.HasContent() {
			continue
		}
		if err := schema.ValidateAttributes(item.Attributes); err != nil {
			return err
		}
	}
	return nil
}

// Recalculate applies the profession cost formula to every row and re-derives
// the document totals. Must run before any save so stale totals can never be
// persisted.
func (q *Quote) Recalculate() {
	for i := range q.Items {
		q.Items[i].ApplyCostFormula(q.Profession)
	}
	q.Totals = ComputeTotals(q.Items, q.TaxEnabled, q.TaxRate)
}
