package web

import "net/http"

// listInvoices handles GET /api/invoices?status=sent.
func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListInvoices(r.Context(), accountID(r), r.URL.Query().Get("status"))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// getInvoice handles GET /api/invoices/{ref}.
func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := h.svc.GetInvoice(r.Context(), accountID(r), documentRef(r))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, inv)
}

// sendInvoice handles POST /api/invoices/{ref}/send.
func (h *Handler) sendInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := h.svc.MarkInvoiceSent(r.Context(), accountID(r), documentRef(r))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, inv)
}

// payInvoice handles POST /api/invoices/{ref}/pay.
func (h *Handler) payInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := h.svc.MarkInvoicePaid(r.Context(), accountID(r), documentRef(r))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, inv)
}

// overdueInvoice handles POST /api/invoices/{ref}/overdue.
func (h *Handler) overdueInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := h.svc.MarkInvoiceOverdue(r.Context(), accountID(r), documentRef(r))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, inv)
}

// invoicePDF handles GET /api/invoices/{ref}/pdf.
func (h *Handler) invoicePDF(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.RenderInvoicePDF(r.Context(), accountID(r), documentRef(r))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writePDF(w, result)
}
