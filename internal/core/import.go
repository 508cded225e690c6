package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ExtractedLineItem is one candidate row produced by document extraction.
// Quantity and UnitPrice arrive as strings because extraction output is
// untrusted text; parsing failures read as zero rather than aborting the
// whole import.
type ExtractedLineItem struct {
	Description string `json:"description" jsonschema_description:"The billable item description exactly as it appears in the document"`
	Quantity    string `json:"quantity" jsonschema_description:"The quantity as a plain number string, e.g. '2' or '1.5'. Use '1' if not stated."`
	UnitPrice   string `json:"unit_price" jsonschema_description:"The per-unit price as a plain number string without currency symbols"`
}

// ExtractedDocument is the raw result of running extraction over pasted
// document text. Any totals present in the source document are deliberately
// absent here: extracted totals are never trusted, they are always re-derived
// from the rows.
type ExtractedDocument struct {
	ClientName    string              `json:"client_name" jsonschema_description:"The client or customer name, empty string if not found"`
	ClientEmail   string              `json:"client_email" jsonschema_description:"The client email address, empty string if not found"`
	ClientAddress string              `json:"client_address" jsonschema_description:"The client postal address, empty string if not found"`
	Items         []ExtractedLineItem `json:"items" jsonschema_description:"Every billable line found in the document"`
	Confidence    float64             `json:"confidence" jsonschema_description:"Extraction confidence between 0.0 and 1.0"`
	Notes         string              `json:"notes" jsonschema_description:"Anything ambiguous or skipped during extraction"`
}

// Normalize cleans up common extraction artifacts: surrounding whitespace,
// currency symbols and thousands separators in numbers, literal "null"s.
func (d *ExtractedDocument) Normalize() {
	d.ClientName = strings.TrimSpace(d.ClientName)
	d.ClientEmail = strings.TrimSpace(d.ClientEmail)
	d.ClientAddress = strings.TrimSpace(d.ClientAddress)

	for i := range d.Items {
		item := &d.Items[i]
		item.Description = strings.TrimSpace(item.Description)
		item.Quantity = cleanNumeric(item.Quantity)
		item.UnitPrice = cleanNumeric(item.UnitPrice)
		if item.Quantity == "" {
			item.Quantity = "1"
		}
	}
}

func cleanNumeric(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "null") {
		return ""
	}
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Reconcile converts an extracted document into trusted line items for the
// given profession. Each row gets a fresh id and its line total recomputed
// from quantity × price — whatever totals the source document claimed are
// discarded. The confidence score is a UI hint only; it never gates this
// path.
func (d *ExtractedDocument) Reconcile(profession string) ([]LineItem, DocumentTotals) {
	d.Normalize()

	var items []LineItem
	for _, raw := range d.Items {
		if raw.Description == "" && raw.UnitPrice == "" {
			continue
		}
		item := NewLineItem()
		item.Description = raw.Description
		if q, err := decimal.NewFromString(raw.Quantity); err == nil {
			item.Quantity = q
		}
		if p, err := decimal.NewFromString(raw.UnitPrice); err == nil {
			item.UnitPrice = p
		} else {
			item.UnitPrice = decimal.Zero
		}
		item.Recalculate()
		items = append(items, item)
	}

	for i := range items {
		items[i].ApplyCostFormula(profession)
	}
	totals := ComputeTotals(items, false, decimal.Zero)
	return items, totals
}
