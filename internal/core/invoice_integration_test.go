package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"quotepro/internal/core"

	"github.com/shopspring/decimal"
)

func createApprovedQuote(t *testing.T, quotes core.QuoteService) *core.Quote {
	t.Helper()
	ctx := context.Background()
	q, err := quotes.CreateQuote(ctx, 1, testQuoteInput())
	if err != nil {
		t.Fatalf("CreateQuote failed: %v", err)
	}
	q, err = quotes.ApproveQuote(ctx, 1, q.ID)
	if err != nil {
		t.Fatalf("ApproveQuote failed: %v", err)
	}
	return q
}

func TestInvoiceService_ConvertQuote(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	quotes, invoices := newQuoteServices(pool)
	ctx := context.Background()

	q := createApprovedQuote(t, quotes)

	inv, err := invoices.ConvertQuote(ctx, 1, q.ID)
	if err != nil {
		t.Fatalf("ConvertQuote failed: %v", err)
	}

	if inv.InvoiceNumber != "INV-0001" {
		t.Errorf("invoice number: got %s, want INV-0001", inv.InvoiceNumber)
	}
	if inv.Status != core.InvoiceStatusDraft {
		t.Errorf("status: got %s, want draft", inv.Status)
	}
	if inv.QuoteID != q.ID || inv.QuoteNumber != q.QuoteNumber {
		t.Errorf("quote back-reference: got (%d, %s), want (%d, %s)", inv.QuoteID, inv.QuoteNumber, q.ID, q.QuoteNumber)
	}
	if !inv.Totals.Total.Equal(q.Totals.Total) {
		t.Errorf("totals drifted during conversion: %s vs %s", inv.Totals.Total, q.Totals.Total)
	}
	wantDue := inv.IssueDate.AddDate(0, 0, 30)
	if !inv.DueDate.Equal(wantDue) {
		t.Errorf("due date: got %s, want %s", inv.DueDate, wantDue)
	}

	// Conversion marks the quote converted in the same transaction.
	q2, err := quotes.GetQuote(ctx, 1, q.ID)
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}
	if q2.Status != core.QuoteStatusConverted {
		t.Errorf("quote status after conversion: got %s, want converted", q2.Status)
	}
}

func TestInvoiceService_ConvertRequiresApproval(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	quotes, invoices := newQuoteServices(pool)
	ctx := context.Background()

	q, err := quotes.CreateQuote(ctx, 1, testQuoteInput())
	if err != nil {
		t.Fatalf("CreateQuote failed: %v", err)
	}

	_, err = invoices.ConvertQuote(ctx, 1, q.ID)
	if !errors.Is(err, core.ErrPreconditionFailed) {
		t.Fatalf("expected ErrPreconditionFailed converting pending quote, got %v", err)
	}

	// The failed conversion must not consume an invoice number.
	q2 := createApprovedQuote(t, quotes)
	inv, err := invoices.ConvertQuote(ctx, 1, q2.ID)
	if err != nil {
		t.Fatalf("ConvertQuote failed: %v", err)
	}
	if inv.InvoiceNumber != "INV-0001" {
		t.Errorf("number consumed by failed conversion: got %s", inv.InvoiceNumber)
	}
}

func TestInvoiceService_ConvertTwiceFails(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	quotes, invoices := newQuoteServices(pool)
	ctx := context.Background()

	q := createApprovedQuote(t, quotes)
	if _, err := invoices.ConvertQuote(ctx, 1, q.ID); err != nil {
		t.Fatalf("first ConvertQuote failed: %v", err)
	}

	_, err := invoices.ConvertQuote(ctx, 1, q.ID)
	if !errors.Is(err, core.ErrPreconditionFailed) {
		t.Fatalf("expected ErrPreconditionFailed on second conversion, got %v", err)
	}

	list, err := invoices.ListInvoices(ctx, 1, nil)
	if err != nil {
		t.Fatalf("ListInvoices failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected exactly one invoice, got %d", len(list))
	}
}

func TestInvoiceService_InvoiceFrozenFromQuote(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	quotes, invoices := newQuoteServices(pool)
	ctx := context.Background()

	q := createApprovedQuote(t, quotes)
	inv, err := invoices.ConvertQuote(ctx, 1, q.ID)
	if err != nil {
		t.Fatalf("ConvertQuote failed: %v", err)
	}

	// The quote is terminal now, but even a direct row edit must not reach the
	// invoice. Simulate one at the SQL level.
	_, err = pool.Exec(ctx, `UPDATE quotes SET client_name = 'Renamed Ltd', subtotal = 0, total = 0 WHERE id = $1`, q.ID)
	if err != nil {
		t.Fatalf("direct quote update failed: %v", err)
	}

	got, err := invoices.GetInvoice(ctx, 1, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice failed: %v", err)
	}
	if got.Client.Name != "Acme Ltd" {
		t.Errorf("invoice client mutated: got %s", got.Client.Name)
	}
	if !got.Totals.Total.Equal(decimal.NewFromInt(230)) {
		t.Errorf("invoice total mutated: got %s", got.Totals.Total)
	}
}

func TestInvoiceService_Lifecycle(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	quotes, invoices := newQuoteServices(pool)
	ctx := context.Background()

	q := createApprovedQuote(t, quotes)
	inv, err := invoices.ConvertQuote(ctx, 1, q.ID)
	if err != nil {
		t.Fatalf("ConvertQuote failed: %v", err)
	}

	// Cannot pay a draft.
	if _, err := invoices.MarkPaid(ctx, 1, inv.ID); !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition paying draft, got %v", err)
	}

	sent, err := invoices.MarkSent(ctx, 1, inv.ID)
	if err != nil {
		t.Fatalf("MarkSent failed: %v", err)
	}
	if sent.Status != core.InvoiceStatusSent {
		t.Errorf("status: got %s, want sent", sent.Status)
	}

	overdue, err := invoices.MarkOverdue(ctx, 1, inv.ID)
	if err != nil {
		t.Fatalf("MarkOverdue failed: %v", err)
	}
	if overdue.Status != core.InvoiceStatusOverdue {
		t.Errorf("status: got %s, want overdue", overdue.Status)
	}

	paid, err := invoices.MarkPaid(ctx, 1, inv.ID)
	if err != nil {
		t.Fatalf("MarkPaid failed: %v", err)
	}
	if paid.Status != core.InvoiceStatusPaid {
		t.Errorf("status: got %s, want paid", paid.Status)
	}
	if paid.PaidDate == nil {
		t.Fatal("paid invoice missing paid date")
	}
	if time.Since(*paid.PaidDate) > time.Minute {
		t.Errorf("paid date not set to now: %s", paid.PaidDate)
	}

	// paid is terminal.
	if _, err := invoices.MarkSent(ctx, 1, inv.ID); !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition leaving paid, got %v", err)
	}
}

func TestInvoiceService_DeleteConvertedQuoteBlocked(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	quotes, invoices := newQuoteServices(pool)
	ctx := context.Background()

	q := createApprovedQuote(t, quotes)
	if _, err := invoices.ConvertQuote(ctx, 1, q.ID); err != nil {
		t.Fatalf("ConvertQuote failed: %v", err)
	}

	err := quotes.DeleteQuote(ctx, 1, q.ID)
	if !errors.Is(err, core.ErrPreconditionFailed) {
		t.Fatalf("expected ErrPreconditionFailed deleting converted quote, got %v", err)
	}
}
