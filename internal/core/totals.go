package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the South African VAT rate used when an account has not
// configured its own. It is a seed value, never baked into the arithmetic.
var DefaultTaxRate = decimal.NewFromFloat(0.15)

// ComputeTotals derives the document totals from a list of line items and a
// tax policy. It is pure: safe to call on every edit, before every save, and
// twice in a row with identical results.
//
// An item counts toward the subtotal when it has any real content — a
// non-empty trimmed description, a positive quantity, or a positive unit
// price. Blank scaffold rows contribute nothing. Negative values are not
// clamped; a credit-style item with a description flows through as given.
//
// Money is rounded to cents at the document level: each line total is rounded
// before summing and VAT is rounded after applying the rate, so total is
// always the exact sum of the subtotal and VAT as stored. Fractional
// quantities (hours, metres) would otherwise leave sub-cent residue that the
// columns cannot hold.
func ComputeTotals(items []LineItem, taxEnabled bool, taxRate decimal.Decimal) DocumentTotals {
	subtotal := decimal.Zero
	for _, item := range items {
		if !item.HasContent() {
			continue
		}
		subtotal = subtotal.Add(item.LineTotal.Round(2))
	}

	vat := decimal.Zero
	if taxEnabled {
		vat = subtotal.Mul(taxRate).Round(2)
	}

	return DocumentTotals{
		Subtotal: subtotal,
		VAT:      vat,
		Total:    subtotal.Add(vat),
	}
}

// HasContent reports whether the item carries any real data and therefore
// counts toward totals. An all-blank scaffold row does not.
func (li LineItem) HasContent() bool {
	return strings.TrimSpace(li.Description) != "" ||
		li.Quantity.IsPositive() ||
		li.UnitPrice.IsPositive()
}
