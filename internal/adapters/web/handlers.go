package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"quotepro/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	router    chi.Router
	jwtSecret string
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins, jwtSecret string) http.Handler {
	h := &Handler{
		svc:       svc,
		jwtSecret: jwtSecret,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	// Public routes.
	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Get("/api/health", h.health)
		r.Get("/api/professions", h.listProfessions)
		r.Post("/api/preview", h.previewTotals)

		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/logout", h.logout)
	})

	// Protected API routes, 401 JSON if unauthenticated.
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Get("/api/auth/me", h.me)

		r.Get("/api/quotes", h.listQuotes)
		r.Post("/api/quotes", h.createQuote)
		r.Get("/api/quotes/{ref}", h.getQuote)
		r.Put("/api/quotes/{ref}", h.updateQuote)
		r.Delete("/api/quotes/{ref}", h.deleteQuote)
		r.Post("/api/quotes/{ref}/approve", h.approveQuote)
		r.Post("/api/quotes/{ref}/decline", h.declineQuote)
		r.Post("/api/quotes/{ref}/convert", h.convertQuote)
		r.Get("/api/quotes/{ref}/pdf", h.quotePDF)

		r.Get("/api/invoices", h.listInvoices)
		r.Get("/api/invoices/{ref}", h.getInvoice)
		r.Post("/api/invoices/{ref}/send", h.sendInvoice)
		r.Post("/api/invoices/{ref}/pay", h.payInvoice)
		r.Post("/api/invoices/{ref}/overdue", h.overdueInvoice)
		r.Get("/api/invoices/{ref}/pdf", h.invoicePDF)

		r.Get("/api/settings", h.getSettings)
		r.Patch("/api/settings", h.updateSettings)
		r.Get("/api/company", h.getCompanyProfile)
		r.Put("/api/company", h.updateCompanyProfile)
		r.Get("/api/analytics", h.getAnalytics)

		r.Post("/api/import", h.importDocument)
	})

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// documentRef extracts the {ref} URL parameter, a numeric ID or a document
// number like QUO-0042.
func documentRef(r *http.Request) string {
	return chi.URLParam(r, "ref")
}

// accountID extracts the authenticated account from the request context.
// RequireAuth guarantees it is present on protected routes.
func accountID(r *http.Request) int {
	if claims := authFromContext(r.Context()); claims != nil {
		return claims.AccountID
	}
	return 0
}

// decodeJSON decodes the request body into v and returns false + writes an
// appropriate error response on failure. Returns HTTP 413 when the body
// exceeds the size limit set by RequestBodyLimit middleware; HTTP 400 for all
// other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
