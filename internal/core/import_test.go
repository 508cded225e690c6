package core_test

import (
	"testing"

	"quotepro/internal/core"

	"github.com/shopspring/decimal"
)

func TestExtractedDocument_Reconcile(t *testing.T) {
	doc := core.ExtractedDocument{
		ClientName: "  Acme Ltd  ",
		Items: []core.ExtractedLineItem{
			{Description: " Consulting ", Quantity: "2", UnitPrice: "R 1,500.00"},
			{Description: "Travel", Quantity: "", UnitPrice: "350"},
			{Description: "", Quantity: "null", UnitPrice: ""}, // noise row
		},
		Confidence: 0.62,
	}

	items, totals := doc.Reconcile(core.ProfessionGeneral)

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Description != "Consulting" {
		t.Errorf("description not trimmed: %q", items[0].Description)
	}
	if !items[0].UnitPrice.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("currency noise not stripped: %s", items[0].UnitPrice)
	}
	if !items[0].LineTotal.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("line total not recomputed: %s", items[0].LineTotal)
	}
	if !items[1].Quantity.Equal(decimal.NewFromInt(1)) {
		t.Errorf("missing quantity should default to 1, got %s", items[1].Quantity)
	}
	if !totals.Subtotal.Equal(decimal.NewFromInt(3350)) {
		t.Errorf("subtotal: got %s, want 3350", totals.Subtotal)
	}
}

func TestExtractedDocument_TotalsAlwaysRederived(t *testing.T) {
	// Whatever the source document claimed, the reconciled totals come only
	// from the rows. Low confidence never blocks the recomputation path.
	doc := core.ExtractedDocument{
		Items: []core.ExtractedLineItem{
			{Description: "Widget", Quantity: "3", UnitPrice: "100"},
		},
		Confidence: 0.05,
	}

	items, totals := doc.Reconcile(core.ProfessionGeneral)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if !totals.Subtotal.Equal(decimal.NewFromInt(300)) {
		t.Errorf("subtotal: got %s, want 300", totals.Subtotal)
	}
	if !totals.Total.Equal(totals.Subtotal) {
		t.Errorf("import totals carry no tax, got total %s", totals.Total)
	}
}

func TestExtractedDocument_MalformedNumbersReadAsZero(t *testing.T) {
	doc := core.ExtractedDocument{
		Items: []core.ExtractedLineItem{
			{Description: "Unreadable amount", Quantity: "2", UnitPrice: "N/A"},
		},
	}
	items, totals := doc.Reconcile(core.ProfessionGeneral)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if !items[0].UnitPrice.IsZero() || !totals.Subtotal.IsZero() {
		t.Errorf("malformed price should read as zero, got %s / %s", items[0].UnitPrice, totals.Subtotal)
	}
}
