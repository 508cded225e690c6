package app

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"quotepro/internal/ai"
	"quotepro/internal/core"
	"quotepro/internal/pdf"

	"github.com/jackc/pgx/v5/pgxpool"
)

type appService struct {
	pool      *pgxpool.Pool
	accounts  core.AccountService
	quotes    core.QuoteService
	invoices  core.InvoiceService
	settings  core.SettingsService
	numbering core.NumberingService
	analytics core.AnalyticsService
	renderer  pdf.Renderer
	extractor ai.ExtractorService // nil when no API key is configured
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	pool *pgxpool.Pool,
	accounts core.AccountService,
	quotes core.QuoteService,
	invoices core.InvoiceService,
	settings core.SettingsService,
	numbering core.NumberingService,
	analytics core.AnalyticsService,
	renderer pdf.Renderer,
	extractor ai.ExtractorService,
) ApplicationService {
	return &appService{
		pool:      pool,
		accounts:  accounts,
		quotes:    quotes,
		invoices:  invoices,
		settings:  settings,
		numbering: numbering,
		analytics: analytics,
		renderer:  renderer,
		extractor: extractor,
	}
}

func (s *appService) RegisterAccount(ctx context.Context, req RegisterRequest) (*core.Account, error) {
	return s.accounts.Register(ctx, req.Email, req.Name, req.Password)
}

func (s *appService) AuthenticateAccount(ctx context.Context, email, password string) (*core.Account, error) {
	return s.accounts.Authenticate(ctx, email, password)
}

func (s *appService) PreviewTotals(ctx context.Context, req PreviewRequest) (*PreviewResult, error) {
	taxEnabled := true
	taxRate := core.DefaultTaxRate
	if req.AccountID != 0 {
		settings, err := s.settings.GetSettings(ctx, req.AccountID)
		if err != nil {
			return nil, err
		}
		taxEnabled = settings.TaxEnabled
		taxRate = settings.TaxRate
	}
	if req.TaxEnabled != nil {
		taxEnabled = *req.TaxEnabled
	}
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}

	items := toCoreItems(req.Items)
	for i := range items {
		items[i].ApplyCostFormula(req.Profession)
	}
	totals := core.ComputeTotals(items, taxEnabled, taxRate)

	return &PreviewResult{
		Items:      items,
		Totals:     totals,
		TaxEnabled: taxEnabled,
		TaxRate:    taxRate.String(),
	}, nil
}

func (s *appService) ListProfessions(ctx context.Context) []core.FieldSchema {
	names := core.Professions()
	schemas := make([]core.FieldSchema, 0, len(names))
	for _, name := range names {
		schemas = append(schemas, core.GetSchema(name))
	}
	return schemas
}

func (s *appService) CreateQuote(ctx context.Context, accountID int, req QuoteRequest) (*core.Quote, error) {
	return s.quotes.CreateQuote(ctx, accountID, quoteInput(req))
}

func (s *appService) UpdateQuote(ctx context.Context, accountID, quoteID int, req QuoteRequest) (*core.Quote, error) {
	return s.quotes.UpdateQuote(ctx, accountID, quoteID, quoteInput(req))
}

func (s *appService) GetQuote(ctx context.Context, accountID int, ref string) (*core.Quote, error) {
	if id, err := strconv.Atoi(ref); err == nil {
		return s.quotes.GetQuote(ctx, accountID, id)
	}
	return s.quotes.GetQuoteByNumber(ctx, accountID, ref)
}

func (s *appService) ListQuotes(ctx context.Context, accountID int, status string) (*QuoteListResult, error) {
	filter, err := quoteStatusFilter(status)
	if err != nil {
		return nil, err
	}
	quotes, err := s.quotes.ListQuotes(ctx, accountID, filter)
	if err != nil {
		return nil, err
	}
	next, err := s.numbering.PeekQuoteNumber(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &QuoteListResult{Quotes: quotes, NextQuote: next}, nil
}

func (s *appService) ApproveQuote(ctx context.Context, accountID int, ref string) (*core.Quote, error) {
	q, err := s.GetQuote(ctx, accountID, ref)
	if err != nil {
		return nil, err
	}
	return s.quotes.ApproveQuote(ctx, accountID, q.ID)
}

func (s *appService) DeclineQuote(ctx context.Context, accountID int, ref string) (*core.Quote, error) {
	q, err := s.GetQuote(ctx, accountID, ref)
	if err != nil {
		return nil, err
	}
	return s.quotes.DeclineQuote(ctx, accountID, q.ID)
}

func (s *appService) DeleteQuote(ctx context.Context, accountID int, ref string) error {
	q, err := s.GetQuote(ctx, accountID, ref)
	if err != nil {
		return err
	}
	return s.quotes.DeleteQuote(ctx, accountID, q.ID)
}

func (s *appService) ConvertQuote(ctx context.Context, accountID int, ref string) (*core.Invoice, error) {
	q, err := s.GetQuote(ctx, accountID, ref)
	if err != nil {
		return nil, err
	}
	return s.invoices.ConvertQuote(ctx, accountID, q.ID)
}

func (s *appService) GetInvoice(ctx context.Context, accountID int, ref string) (*core.Invoice, error) {
	if id, err := strconv.Atoi(ref); err == nil {
		return s.invoices.GetInvoice(ctx, accountID, id)
	}
	return s.invoices.GetInvoiceByNumber(ctx, accountID, ref)
}

func (s *appService) ListInvoices(ctx context.Context, accountID int, status string) (*InvoiceListResult, error) {
	filter, err := invoiceStatusFilter(status)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoices.ListInvoices(ctx, accountID, filter)
	if err != nil {
		return nil, err
	}
	next, err := s.numbering.PeekInvoiceNumber(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &InvoiceListResult{Invoices: invoices, NextInvoice: next}, nil
}

func (s *appService) MarkInvoiceSent(ctx context.Context, accountID int, ref string) (*core.Invoice, error) {
	inv, err := s.GetInvoice(ctx, accountID, ref)
	if err != nil {
		return nil, err
	}
	return s.invoices.MarkSent(ctx, accountID, inv.ID)
}

func (s *appService) MarkInvoicePaid(ctx context.Context, accountID int, ref string) (*core.Invoice, error) {
	inv, err := s.GetInvoice(ctx, accountID, ref)
	if err != nil {
		return nil, err
	}
	return s.invoices.MarkPaid(ctx, accountID, inv.ID)
}

func (s *appService) MarkInvoiceOverdue(ctx context.Context, accountID int, ref string) (*core.Invoice, error) {
	inv, err := s.GetInvoice(ctx, accountID, ref)
	if err != nil {
		return nil, err
	}
	return s.invoices.MarkOverdue(ctx, accountID, inv.ID)
}

func (s *appService) GetSettings(ctx context.Context, accountID int) (*core.Settings, error) {
	return s.settings.GetSettings(ctx, accountID)
}

func (s *appService) UpdateSettings(ctx context.Context, accountID int, req SettingsRequest) (*core.Settings, error) {
	return s.settings.UpdateSettings(ctx, accountID, core.SettingsInput{
		QuotePrefix:       req.QuotePrefix,
		NextQuoteNumber:   req.NextQuoteNumber,
		InvoicePrefix:     req.InvoicePrefix,
		NextInvoiceNumber: req.NextInvoiceNumber,
		TaxEnabled:        req.TaxEnabled,
		TaxRate:           req.TaxRate,
		PaymentTermsDays:  req.PaymentTermsDays,
	})
}

func (s *appService) GetCompanyProfile(ctx context.Context, accountID int) (*core.CompanyProfile, error) {
	return s.settings.GetCompanyProfile(ctx, accountID)
}

func (s *appService) UpdateCompanyProfile(ctx context.Context, accountID int, profile core.CompanyProfile) (*core.CompanyProfile, error) {
	return s.settings.UpdateCompanyProfile(ctx, accountID, profile)
}

func (s *appService) GetAnalytics(ctx context.Context, accountID int) (*core.QuoteAnalytics, error) {
	return s.analytics.GetQuoteAnalytics(ctx, accountID)
}

func (s *appService) ImportDocument(ctx context.Context, accountID int, req ImportRequest) (*ImportResult, error) {
	if s.extractor == nil {
		return nil, fmt.Errorf("document import requires OPENAI_API_KEY to be configured")
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, &core.ValidationError{Field: "text", Message: "is required"}
	}

	doc, err := s.extractor.ExtractDocument(ctx, text, req.Profession)
	if err != nil {
		return nil, fmt.Errorf("document extraction failed: %w", err)
	}

	items, totals := doc.Reconcile(req.Profession)
	return &ImportResult{
		Client: core.ClientDetails{
			Name:    doc.ClientName,
			Email:   doc.ClientEmail,
			Address: doc.ClientAddress,
		},
		Items:     items,
		Totals:    totals,
		Extracted: doc,
	}, nil
}

func (s *appService) RenderQuotePDF(ctx context.Context, accountID int, ref string) (*PDFResult, error) {
	q, err := s.GetQuote(ctx, accountID, ref)
	if err != nil {
		return nil, err
	}
	company, err := s.settings.GetCompanyProfile(ctx, accountID)
	if err != nil {
		return nil, err
	}
	content, err := s.renderer.RenderQuote(q, company)
	if err != nil {
		return nil, err
	}
	return &PDFResult{Filename: q.QuoteNumber + ".pdf", Content: content}, nil
}

func (s *appService) RenderInvoicePDF(ctx context.Context, accountID int, ref string) (*PDFResult, error) {
	inv, err := s.GetInvoice(ctx, accountID, ref)
	if err != nil {
		return nil, err
	}
	company, err := s.settings.GetCompanyProfile(ctx, accountID)
	if err != nil {
		return nil, err
	}
	content, err := s.renderer.RenderInvoice(inv, company)
	if err != nil {
		return nil, err
	}
	return &PDFResult{Filename: inv.InvoiceNumber + ".pdf", Content: content}, nil
}

// LoadDefaultAccount loads the account the CLI operates as. ACCOUNT_EMAIL
// selects one explicitly; otherwise the database must contain exactly one
// active account.
func (s *appService) LoadDefaultAccount(ctx context.Context) (*core.Account, error) {
	if email := os.Getenv("ACCOUNT_EMAIL"); email != "" {
		return s.accounts.GetByEmail(ctx, email)
	}

	rows, err := s.pool.Query(ctx, "SELECT id FROM accounts WHERE is_active = true ORDER BY id LIMIT 2")
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	switch len(ids) {
	case 0:
		return nil, fmt.Errorf("no accounts found, register one first")
	case 1:
		return s.accounts.GetByID(ctx, ids[0])
	default:
		return nil, fmt.Errorf("multiple accounts found, set ACCOUNT_EMAIL to choose one")
	}
}

func quoteInput(req QuoteRequest) core.QuoteInput {
	return core.QuoteInput{
		Profession: req.Profession,
		Client:     req.Client,
		Items:      toCoreItems(req.Items),
		TaxEnabled: req.TaxEnabled,
		TaxRate:    req.TaxRate,
		Notes:      req.Notes,
	}
}

func quoteStatusFilter(status string) (*core.QuoteStatus, error) {
	if status == "" {
		return nil, nil
	}
	s := core.QuoteStatus(strings.ToLower(status))
	switch s {
	case core.QuoteStatusPending, core.QuoteStatusApproved, core.QuoteStatusDeclined, core.QuoteStatusConverted:
		return &s, nil
	}
	return nil, &core.ValidationError{Field: "status", Message: fmt.Sprintf("%q is not a quote status", status)}
}

func invoiceStatusFilter(status string) (*core.InvoiceStatus, error) {
	if status == "" {
		return nil, nil
	}
	s := core.InvoiceStatus(strings.ToLower(status))
	switch s {
	case core.InvoiceStatusDraft, core.InvoiceStatusSent, core.InvoiceStatusPaid, core.InvoiceStatusOverdue:
		return &s, nil
	}
	return nil, &core.ValidationError{Field: "status", Message: fmt.Sprintf("%q is not an invoice status", status)}
}
