package core

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NewLineItem returns a fresh default row: quantity 1, zero price, zero
// total, empty description, unique id.
func NewLineItem() LineItem {
	return LineItem{
		ID:        uuid.NewString(),
		Quantity:  decimal.NewFromInt(1),
		UnitPrice: decimal.Zero,
		LineTotal: decimal.Zero,
	}
}

// SetQuantity updates the quantity and recomputes the line total.
func (li *LineItem) SetQuantity(q decimal.Decimal) {
	li.Quantity = q
	li.Recalculate()
}

// SetUnitPrice updates the unit price and recomputes the line total.
func (li *LineItem) SetUnitPrice(p decimal.Decimal) {
	li.UnitPrice = p
	li.Recalculate()
}

// Recalculate restores the LineTotal = Quantity × UnitPrice invariant.
// Call this before trusting any externally supplied item, e.g. rows produced
// by document extraction.
func (li *LineItem) Recalculate() {
	li.LineTotal = li.Quantity.Mul(li.UnitPrice)
}

// ApplyCostFormula re-derives the unit price from the profession's cost
// inputs, then recomputes the line total. Items without cost inputs are left
// untouched apart from the standard recalculation.
func (li *LineItem) ApplyCostFormula(profession string) {
	if derived, ok := DeriveUnitPrice(profession, li.Attributes); ok {
		li.UnitPrice = derived
	}
	li.Recalculate()
}

// Clone returns a deep copy of the item. Used when freezing quote lines onto
// an invoice so the two documents share no mutable state.
func (li LineItem) Clone() LineItem {
	out := li
	if li.Attributes != nil {
		out.Attributes = make(map[string]string, len(li.Attributes))
		for k, v := range li.Attributes {
			out.Attributes[k] = v
		}
	}
	return out
}

// CloneItems deep-copies a slice of line items.
func CloneItems(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}
	out := make([]LineItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}

// DeriveUnitPrice computes the profession-specific unit price from an item's
// attribute map. It returns ok=false when the profession has no cost formula
// or none of the formula's inputs are present, in which case the caller keeps
// the entered price. Missing or malformed inputs read as zero, so a partially
// filled formula still yields a usable price.
func DeriveUnitPrice(profession string, attrs map[string]string) (decimal.Decimal, bool) {
	schema := GetSchema(profession)
	if len(schema.CostInputs) == 0 {
		return decimal.Zero, false
	}

	present := false
	read := func(name string) decimal.Decimal {
		raw, ok := attrs[name]
		if !ok || raw == "" {
			return decimal.Zero
		}
		present = true
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero
		}
		return d
	}

	var price decimal.Decimal
	switch schema.Profession {
	case ProfessionEngineering:
		labor := read("labor_hours").Mul(read("labor_rate"))
		price = labor.Add(read("material_cost")).Add(read("equipment_cost"))
	case ProfessionAccounting:
		price = read("hours").Mul(read("hourly_rate")).Add(read("disbursements"))
	default:
		return decimal.Zero, false
	}

	if !present {
		return decimal.Zero, false
	}
	return price, true
}
