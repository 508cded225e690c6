package web

import (
	"net/http"

	"quotepro/internal/app"
	"quotepro/internal/core"

	"github.com/shopspring/decimal"
)

// lineItemPayload is the wire shape of a line item in quote and preview
// requests. Quantity and unit price accept JSON numbers or strings.
type lineItemPayload struct {
	ID          string            `json:"id,omitempty"`
	Description string            `json:"description"`
	Quantity    decimal.Decimal   `json:"quantity"`
	UnitPrice   decimal.Decimal   `json:"unit_price"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// quotePayload is the wire shape of a quote create or update request.
type quotePayload struct {
	Profession string             `json:"profession"`
	Client     core.ClientDetails `json:"client"`
	Items      []lineItemPayload  `json:"items"`
	TaxEnabled *bool              `json:"tax_enabled,omitempty"`
	TaxRate    *decimal.Decimal   `json:"tax_rate,omitempty"`
	Notes      string             `json:"notes,omitempty"`
}

func (p quotePayload) toRequest() app.QuoteRequest {
	return app.QuoteRequest{
		Profession: p.Profession,
		Client:     p.Client,
		Items:      toItemInputs(p.Items),
		TaxEnabled: p.TaxEnabled,
		TaxRate:    p.TaxRate,
		Notes:      p.Notes,
	}
}

func toItemInputs(payloads []lineItemPayload) []app.LineItemInput {
	items := make([]app.LineItemInput, 0, len(payloads))
	for _, p := range payloads {
		items = append(items, app.LineItemInput{
			ID:          p.ID,
			Description: p.Description,
			Quantity:    p.Quantity,
			UnitPrice:   p.UnitPrice,
			Attributes:  p.Attributes,
		})
	}
	return items
}

// listProfessions handles GET /api/professions.
func (h *Handler) listProfessions(w http.ResponseWriter, r *http.Request) {
	type fieldView struct {
		Name      string `json:"name"`
		Label     string `json:"label"`
		Type      string `json:"type"`
		Required  bool   `json:"required"`
		MinLength int    `json:"min_length,omitempty"`
		Pattern   string `json:"pattern,omitempty"`
		Min       string `json:"min,omitempty"`
		Max       string `json:"max,omitempty"`
	}
	type schemaView struct {
		Profession string      `json:"profession"`
		Fields     []fieldView `json:"fields"`
		CostInputs []string    `json:"cost_inputs,omitempty"`
	}

	schemas := h.svc.ListProfessions(r.Context())
	out := make([]schemaView, 0, len(schemas))
	for _, s := range schemas {
		fields := make([]fieldView, 0, len(s.Fields))
		for _, f := range s.Fields {
			fv := fieldView{
				Name:      f.Name,
				Label:     f.Label,
				Type:      string(f.Type),
				Required:  f.Required,
				MinLength: f.MinLength,
			}
			if f.Pattern != nil {
				fv.Pattern = f.Pattern.String()
			}
			if f.Min != nil {
				fv.Min = f.Min.String()
			}
			if f.Max != nil {
				fv.Max = f.Max.String()
			}
			fields = append(fields, fv)
		}
		out = append(out, schemaView{
			Profession: s.Profession,
			Fields:     fields,
			CostInputs: s.CostInputs,
		})
	}
	writeJSON(w, out)
}

// previewTotals handles POST /api/preview. It computes totals without
// persisting anything, so it works for anonymous calculator sessions too.
func (h *Handler) previewTotals(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Profession string            `json:"profession"`
		Items      []lineItemPayload `json:"items"`
		TaxEnabled *bool             `json:"tax_enabled,omitempty"`
		TaxRate    *decimal.Decimal  `json:"tax_rate,omitempty"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.PreviewTotals(r.Context(), app.PreviewRequest{
		Profession: req.Profession,
		Items:      toItemInputs(req.Items),
		TaxEnabled: req.TaxEnabled,
		TaxRate:    req.TaxRate,
		AccountID:  accountID(r),
	})
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// listQuotes handles GET /api/quotes?status=pending.
func (h *Handler) listQuotes(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListQuotes(r.Context(), accountID(r), r.URL.Query().Get("status"))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// createQuote handles POST /api/quotes.
func (h *Handler) createQuote(w http.ResponseWriter, r *http.Request) {
	var payload quotePayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	q, err := h.svc.CreateQuote(r.Context(), accountID(r), payload.toRequest())
	if err != nil {
		serviceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, q)
}

// getQuote handles GET /api/quotes/{ref}.
func (h *Handler) getQuote(w http.ResponseWriter, r *http.Request) {
	q, err := h.svc.GetQuote(r.Context(), accountID(r), documentRef(r))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, q)
}

// updateQuote handles PUT /api/quotes/{ref}.
func (h *Handler) updateQuote(w http.ResponseWriter, r *http.Request) {
	q, err := h.svc.GetQuote(r.Context(), accountID(r), documentRef(r))
	if err != nil {
		serviceError(w, r, err)
		return
	}

	var payload quotePayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	updated, err := h.svc.UpdateQuote(r.Context(), accountID(r), q.ID, payload.toRequest())
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, updated)
}

// deleteQuote handles DELETE /api/quotes/{ref}.
func (h *Handler) deleteQuote(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteQuote(r.Context(), accountID(r), documentRef(r)); err != nil {
		serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// approveQuote handles POST /api/quotes/{ref}/approve.
func (h *Handler) approveQuote(w http.ResponseWriter, r *http.Request) {
	q, err := h.svc.ApproveQuote(r.Context(), accountID(r), documentRef(r))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, q)
}

// declineQuote handles POST /api/quotes/{ref}/decline.
func (h *Handler) declineQuote(w http.ResponseWriter, r *http.Request) {
	q, err := h.svc.DeclineQuote(r.Context(), accountID(r), documentRef(r))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, q)
}

// convertQuote handles POST /api/quotes/{ref}/convert.
func (h *Handler) convertQuote(w http.ResponseWriter, r *http.Request) {
	inv, err := h.svc.ConvertQuote(r.Context(), accountID(r), documentRef(r))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, inv)
}

// quotePDF handles GET /api/quotes/{ref}/pdf.
func (h *Handler) quotePDF(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.RenderQuotePDF(r.Context(), accountID(r), documentRef(r))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writePDF(w, result)
}

func writePDF(w http.ResponseWriter, result *app.PDFResult) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	_, _ = w.Write(result.Content)
}
