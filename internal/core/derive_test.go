package core_test

import (
	"errors"
	"testing"
	"time"

	"quotepro/internal/core"

	"github.com/shopspring/decimal"
)

func approvedQuote() *core.Quote {
	q := &core.Quote{
		ID:          42,
		AccountID:   1,
		QuoteNumber: "QUO-0042",
		Profession:  core.ProfessionGeneral,
		Client: core.ClientDetails{
			Name:    "Acme Ltd",
			Address: "12 Main Rd, Cape Town",
			Email:   "billing@acme.co.za",
		},
		Items:      []core.LineItem{item("Consulting", 2, 100)},
		TaxEnabled: true,
		TaxRate:    decimal.NewFromFloat(0.15),
		Status:     core.QuoteStatusApproved,
	}
	q.Recalculate()
	return q
}

func TestDeriveInvoice(t *testing.T) {
	q := approvedQuote()
	issue := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	inv, err := core.DeriveInvoice(q, "INV-0007", issue, 30)
	if err != nil {
		t.Fatalf("DeriveInvoice failed: %v", err)
	}

	if inv.InvoiceNumber != "INV-0007" {
		t.Errorf("invoice number: got %s", inv.InvoiceNumber)
	}
	if inv.QuoteID != q.ID || inv.QuoteNumber != q.QuoteNumber {
		t.Errorf("source reference lost: %d / %s", inv.QuoteID, inv.QuoteNumber)
	}
	if inv.Status != core.InvoiceStatusDraft {
		t.Errorf("initial status: got %s, want draft", inv.Status)
	}
	if want := issue.AddDate(0, 0, 30); !inv.DueDate.Equal(want) {
		t.Errorf("due date: got %v, want %v", inv.DueDate, want)
	}
	if !inv.Totals.Total.Equal(q.Totals.Total) {
		t.Errorf("totals not carried: got %s, want %s", inv.Totals.Total, q.Totals.Total)
	}
	if inv.PaidDate != nil {
		t.Error("fresh invoice has a paid date")
	}
}

func TestDeriveInvoice_PreconditionApproved(t *testing.T) {
	for _, status := range []core.QuoteStatus{
		core.QuoteStatusPending,
		core.QuoteStatusDeclined,
		core.QuoteStatusConverted,
	} {
		q := approvedQuote()
		q.Status = status
		_, err := core.DeriveInvoice(q, "INV-0001", time.Now(), 30)
		if !errors.Is(err, core.ErrPreconditionFailed) {
			t.Errorf("status %s: expected ErrPreconditionFailed, got %v", status, err)
		}
	}
}

func TestDeriveInvoice_FreezesLineItems(t *testing.T) {
	q := approvedQuote()
	inv, err := core.DeriveInvoice(q, "INV-0001", time.Now(), 30)
	if err != nil {
		t.Fatalf("DeriveInvoice failed: %v", err)
	}

	// Mutate the source quote after derivation.
	q.Items[0].Description = "Rewritten"
	q.Items[0].SetUnitPrice(decimal.NewFromInt(9999))
	q.Recalculate()

	if inv.Items[0].Description != "Consulting" {
		t.Errorf("invoice item mutated: %q", inv.Items[0].Description)
	}
	if !inv.Items[0].UnitPrice.Equal(decimal.NewFromInt(100)) {
		t.Errorf("invoice price mutated: %s", inv.Items[0].UnitPrice)
	}
	if !inv.Totals.Total.Equal(decimal.NewFromInt(230)) {
		t.Errorf("invoice totals mutated: %s", inv.Totals.Total)
	}
}

func TestDeriveInvoice_DefaultTerm(t *testing.T) {
	q := approvedQuote()
	issue := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	inv, err := core.DeriveInvoice(q, "INV-0001", issue, 0)
	if err != nil {
		t.Fatalf("DeriveInvoice failed: %v", err)
	}
	if want := issue.AddDate(0, 0, core.DefaultPaymentTermsDays); !inv.DueDate.Equal(want) {
		t.Errorf("due date with zero term: got %v, want %v", inv.DueDate, want)
	}
}
