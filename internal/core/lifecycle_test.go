package core_test

import (
	"errors"
	"testing"
	"time"

	"quotepro/internal/core"

	"github.com/shopspring/decimal"
)

func TestQuoteStateMachine(t *testing.T) {
	tests := []struct {
		from    core.QuoteStatus
		to      core.QuoteStatus
		allowed bool
	}{
		{core.QuoteStatusPending, core.QuoteStatusApproved, true},
		{core.QuoteStatusPending, core.QuoteStatusDeclined, true},
		{core.QuoteStatusPending, core.QuoteStatusConverted, false},
		{core.QuoteStatusApproved, core.QuoteStatusConverted, true},
		{core.QuoteStatusApproved, core.QuoteStatusDeclined, false},
		{core.QuoteStatusApproved, core.QuoteStatusPending, false},
		{core.QuoteStatusDeclined, core.QuoteStatusApproved, false},
		{core.QuoteStatusDeclined, core.QuoteStatusPending, false},
		{core.QuoteStatusConverted, core.QuoteStatusDeclined, false},
		{core.QuoteStatusConverted, core.QuoteStatusApproved, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.allowed {
			t.Errorf("%s → %s: got %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestQuoteTransition_IllegalEdgeMutatesNothing(t *testing.T) {
	q := &core.Quote{Status: core.QuoteStatusConverted}
	before := q.UpdatedAt

	err := q.Transition(core.QuoteStatusDeclined, time.Now())
	if !errors.Is(err, core.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if q.Status != core.QuoteStatusConverted {
		t.Errorf("status mutated to %s", q.Status)
	}
	if !q.UpdatedAt.Equal(before) {
		t.Error("updated_at advanced on a rejected transition")
	}
}

func TestQuoteTransition_AdvancesUpdatedAt(t *testing.T) {
	q := &core.Quote{Status: core.QuoteStatusPending}
	now := time.Now()
	if err := q.Transition(core.QuoteStatusApproved, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Status != core.QuoteStatusApproved || !q.UpdatedAt.Equal(now) {
		t.Errorf("got status %s, updated_at %v", q.Status, q.UpdatedAt)
	}
}

func TestInvoiceStateMachine(t *testing.T) {
	tests := []struct {
		from    core.InvoiceStatus
		to      core.InvoiceStatus
		allowed bool
	}{
		{core.InvoiceStatusDraft, core.InvoiceStatusSent, true},
		{core.InvoiceStatusDraft, core.InvoiceStatusPaid, false},
		{core.InvoiceStatusSent, core.InvoiceStatusPaid, true},
		{core.InvoiceStatusSent, core.InvoiceStatusOverdue, true},
		{core.InvoiceStatusOverdue, core.InvoiceStatusPaid, true},
		{core.InvoiceStatusPaid, core.InvoiceStatusSent, false},
		{core.InvoiceStatusPaid, core.InvoiceStatusOverdue, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.allowed {
			t.Errorf("%s → %s: got %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestInvoiceTransition_PaidStampsPaidDate(t *testing.T) {
	inv := &core.Invoice{Status: core.InvoiceStatusSent}
	now := time.Now()
	if err := inv.Transition(core.InvoiceStatusPaid, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.PaidDate == nil || !inv.PaidDate.Equal(now) {
		t.Errorf("paid date not stamped: %v", inv.PaidDate)
	}
}

func TestValidateForCommit(t *testing.T) {
	base := func() *core.Quote {
		return &core.Quote{
			Profession: core.ProfessionGeneral,
			Client: core.ClientDetails{
				Name:    "Acme Ltd",
				Address: "12 Main Rd, Cape Town",
				Email:   "billing@acme.co.za",
			},
			Items: []core.LineItem{item("Consulting", 1, 500)},
		}
	}

	t.Run("complete quote passes", func(t *testing.T) {
		if err := base().ValidateForCommit(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("missing client fields rejected", func(t *testing.T) {
		for _, field := range []string{"name", "address", "email"} {
			q := base()
			switch field {
			case "name":
				q.Client.Name = "  "
			case "address":
				q.Client.Address = ""
			case "email":
				q.Client.Email = ""
			}
			err := q.ValidateForCommit()
			if !errors.Is(err, core.ErrValidation) {
				t.Errorf("missing %s: expected ErrValidation, got %v", field, err)
			}
		}
	})

	t.Run("profession-required attribute enforced on real rows", func(t *testing.T) {
		q := base()
		q.Profession = core.ProfessionLegal
		err := q.ValidateForCommit()
		if !errors.Is(err, core.ErrValidation) {
			t.Errorf("expected ErrValidation for missing case_number, got %v", err)
		}

		q.Items[0].Attributes = map[string]string{"case_number": "2026/1234"}
		if err := q.ValidateForCommit(); err != nil {
			t.Errorf("unexpected error with case_number set: %v", err)
		}
	})

	t.Run("scaffold rows skip profession validation", func(t *testing.T) {
		q := base()
		q.Profession = core.ProfessionLegal
		q.Items = []core.LineItem{item("", 0, 0)}
		if err := q.ValidateForCommit(); err != nil {
			t.Errorf("scaffold row should not be validated: %v", err)
		}
	})
}

func TestQuoteRecalculate(t *testing.T) {
	q := &core.Quote{
		Profession: core.ProfessionGeneral,
		TaxEnabled: true,
		TaxRate:    decimal.NewFromFloat(0.15),
		Items:      []core.LineItem{item("Consulting", 2, 100)},
	}
	// Corrupt the stored totals; Recalculate must restore consistency.
	q.Totals = core.DocumentTotals{Total: decimal.NewFromInt(12345)}

	q.Recalculate()

	if !q.Totals.Subtotal.Equal(decimal.NewFromInt(200)) ||
		!q.Totals.VAT.Equal(decimal.NewFromInt(30)) ||
		!q.Totals.Total.Equal(decimal.NewFromInt(230)) {
		t.Errorf("got %+v, want 200/30/230", q.Totals)
	}
}
