package app

import (
	"github.com/shopspring/decimal"

	"quotepro/internal/core"
)

// RegisterRequest is the input for creating a new account.
type RegisterRequest struct {
	Email    string
	Name     string
	Password string
}

// LineItemInput is a single line within a quote or preview request.
type LineItemInput struct {
	ID          string            `json:"id,omitempty"`
	Description string            `json:"description"`
	Quantity    decimal.Decimal   `json:"quantity"`
	UnitPrice   decimal.Decimal   `json:"unit_price"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// PreviewRequest is the input for an unsaved totals calculation.
type PreviewRequest struct {
	Profession string           `json:"profession"`
	Items      []LineItemInput  `json:"items"`
	TaxEnabled *bool            `json:"tax_enabled,omitempty"` // nil means "use account default"
	TaxRate    *decimal.Decimal `json:"tax_rate,omitempty"`    // nil means "use account default"
	AccountID  int              `json:"-"`
}

// QuoteRequest is the input for creating or updating a quote.
type QuoteRequest struct {
	Profession string
	Client     core.ClientDetails
	Items      []LineItemInput
	TaxEnabled *bool
	TaxRate    *decimal.Decimal
	Notes      string
}

// SettingsRequest is a partial settings update; nil fields are left unchanged.
type SettingsRequest struct {
	QuotePrefix       *string
	NextQuoteNumber   *int64
	InvoicePrefix     *string
	NextInvoiceNumber *int64
	TaxEnabled        *bool
	TaxRate           *decimal.Decimal
	PaymentTermsDays  *int
}

// ImportRequest is the input for document extraction.
type ImportRequest struct {
	Text       string
	Profession string
}

func (in LineItemInput) toCore() core.LineItem {
	item := core.LineItem{
		ID:          in.ID,
		Description: in.Description,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		Attributes:  in.Attributes,
	}
	item.Recalculate()
	return item
}

func toCoreItems(inputs []LineItemInput) []core.LineItem {
	items := make([]core.LineItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, in.toCore())
	}
	return items
}
