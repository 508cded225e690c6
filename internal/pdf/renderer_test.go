package pdf_test

import (
	"bytes"
	"testing"
	"time"

	"quotepro/internal/core"
	"quotepro/internal/pdf"

	"github.com/shopspring/decimal"
)

func testCompany() *core.CompanyProfile {
	return &core.CompanyProfile{
		Name:      "Test Co (Pty) Ltd",
		Address:   "1 Test St, Cape Town",
		Email:     "accounts@testco.example",
		VATNumber: "4123456789",
		Currency:  "ZAR",
	}
}

func testQuote() *core.Quote {
	item := core.NewLineItem()
	item.Description = "Consulting"
	item.SetQuantity(decimal.NewFromInt(2))
	item.SetUnitPrice(decimal.NewFromInt(100))

	return &core.Quote{
		ID:          1,
		QuoteNumber: "QUO-0042",
		Profession:  core.ProfessionGeneral,
		Client: core.ClientDetails{
			Name:    "Acme Ltd",
			Address: "12 Main Rd",
			Email:   "billing@acme.example",
		},
		Items:      []core.LineItem{item},
		Totals:     core.ComputeTotals([]core.LineItem{item}, true, decimal.NewFromFloat(0.15)),
		TaxEnabled: true,
		TaxRate:    decimal.NewFromFloat(0.15),
		Status:     core.QuoteStatusApproved,
		Notes:      "Valid for 30 days.",
		CreatedAt:  time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestRenderQuote(t *testing.T) {
	out, err := pdf.NewRenderer().RenderQuote(testQuote(), testCompany())
	if err != nil {
		t.Fatalf("RenderQuote failed: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("output is not a PDF stream, starts with %q", out[:min(8, len(out))])
	}
	if len(out) < 1000 {
		t.Errorf("suspiciously small PDF: %d bytes", len(out))
	}
}

func TestRenderInvoice(t *testing.T) {
	q := testQuote()
	inv, err := core.DeriveInvoice(q, "INV-0007", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), 30)
	if err != nil {
		t.Fatalf("DeriveInvoice failed: %v", err)
	}

	out, err := pdf.NewRenderer().RenderInvoice(inv, testCompany())
	if err != nil {
		t.Fatalf("RenderInvoice failed: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Error("output is not a PDF stream")
	}
}

func TestRenderInvoice_PaidStamp(t *testing.T) {
	q := testQuote()
	inv, err := core.DeriveInvoice(q, "INV-0008", time.Now(), 30)
	if err != nil {
		t.Fatalf("DeriveInvoice failed: %v", err)
	}
	if err := inv.Transition(core.InvoiceStatusSent, time.Now()); err != nil {
		t.Fatalf("Transition failed: %v", err)
	}
	if err := inv.Transition(core.InvoiceStatusPaid, time.Now()); err != nil {
		t.Fatalf("Transition failed: %v", err)
	}

	out, err := pdf.NewRenderer().RenderInvoice(inv, testCompany())
	if err != nil {
		t.Fatalf("RenderInvoice failed: %v", err)
	}
	if len(out) == 0 {
		t.Error("empty PDF output")
	}
}
