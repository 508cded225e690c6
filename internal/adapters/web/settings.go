package web

import (
	"net/http"

	"quotepro/internal/app"
	"quotepro/internal/core"

	"github.com/shopspring/decimal"
)

// getSettings handles GET /api/settings.
func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.GetSettings(r.Context(), accountID(r))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, s)
}

// updateSettings handles PATCH /api/settings. Absent fields are left
// unchanged.
func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		QuotePrefix       *string          `json:"quote_prefix"`
		NextQuoteNumber   *int64           `json:"next_quote_number"`
		InvoicePrefix     *string          `json:"invoice_prefix"`
		NextInvoiceNumber *int64           `json:"next_invoice_number"`
		TaxEnabled        *bool            `json:"tax_enabled"`
		TaxRate           *decimal.Decimal `json:"tax_rate"`
		PaymentTermsDays  *int             `json:"payment_terms_days"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	s, err := h.svc.UpdateSettings(r.Context(), accountID(r), app.SettingsRequest{
		QuotePrefix:       req.QuotePrefix,
		NextQuoteNumber:   req.NextQuoteNumber,
		InvoicePrefix:     req.InvoicePrefix,
		NextInvoiceNumber: req.NextInvoiceNumber,
		TaxEnabled:        req.TaxEnabled,
		TaxRate:           req.TaxRate,
		PaymentTermsDays:  req.PaymentTermsDays,
	})
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, s)
}

// getCompanyProfile handles GET /api/company.
func (h *Handler) getCompanyProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetCompanyProfile(r.Context(), accountID(r))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, p)
}

// updateCompanyProfile handles PUT /api/company.
func (h *Handler) updateCompanyProfile(w http.ResponseWriter, r *http.Request) {
	var profile core.CompanyProfile
	if !decodeJSON(w, r, &profile) {
		return
	}

	updated, err := h.svc.UpdateCompanyProfile(r.Context(), accountID(r), profile)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, updated)
}

// getAnalytics handles GET /api/analytics.
func (h *Handler) getAnalytics(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.GetAnalytics(r.Context(), accountID(r))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, a)
}

// importDocument handles POST /api/import. The response is a draft for
// review; nothing is persisted until the caller creates a quote from it.
func (h *Handler) importDocument(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text       string `json:"text"`
		Profession string `json:"profession"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.ImportDocument(r.Context(), accountID(r), app.ImportRequest{
		Text:       req.Text,
		Profession: req.Profession,
	})
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, result)
}
