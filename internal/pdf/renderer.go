package pdf

import (
	"bytes"
	"fmt"

	"quotepro/internal/core"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// Renderer produces printable PDF documents for quotes and invoices.
// Output is a complete PDF byte stream ready to be written to a response or a
// file.
type Renderer interface {
	RenderQuote(q *core.Quote, company *core.CompanyProfile) ([]byte, error)
	RenderInvoice(inv *core.Invoice, company *core.CompanyProfile) ([]byte, error)
}

type renderer struct{}

func NewRenderer() Renderer {
	return &renderer{}
}

func (r *renderer) RenderQuote(q *core.Quote, company *core.CompanyProfile) ([]byte, error) {
	doc := newDocument("QUOTATION", company)
	doc.metaRow("Quote Number", q.QuoteNumber)
	doc.metaRow("Date", q.CreatedAt.Format("2 January 2006"))
	doc.metaRow("Status", string(q.Status))
	doc.clientBlock(q.Client)
	doc.itemTable(q.Items, company.Currency)
	doc.totalsBlock(q.Totals, q.TaxEnabled, q.TaxRate, company.Currency)
	if q.Notes != "" {
		doc.notesBlock(q.Notes)
	}
	return doc.bytes()
}

func (r *renderer) RenderInvoice(inv *core.Invoice, company *core.CompanyProfile) ([]byte, error) {
	doc := newDocument("TAX INVOICE", company)
	doc.metaRow("Invoice Number", inv.InvoiceNumber)
	doc.metaRow("Quote Reference", inv.QuoteNumber)
	doc.metaRow("Issue Date", inv.IssueDate.Format("2 January 2006"))
	doc.metaRow("Due Date", inv.DueDate.Format("2 January 2006"))
	if inv.Status == core.InvoiceStatusPaid && inv.PaidDate != nil {
		doc.metaRow("Paid", inv.PaidDate.Format("2 January 2006"))
	} else {
		doc.metaRow("Status", string(inv.Status))
	}
	doc.clientBlock(inv.Client)
	doc.itemTable(inv.Items, company.Currency)
	doc.totalsBlock(inv.Totals, inv.TaxEnabled, inv.TaxRate, company.Currency)
	return doc.bytes()
}

// document wraps a gofpdf page with the layout helpers shared by both
// renderings.
type document struct {
	pdf *gofpdf.Fpdf
}

func newDocument(title string, company *core.CompanyProfile) *document {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(110, 10, title)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 10, company.Name, "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	for _, line := range []string{company.Address, company.Email, company.Phone} {
		if line != "" {
			pdf.CellFormat(0, 4.5, line, "", 1, "R", false, 0, "")
		}
	}
	if company.VATNumber != "" {
		pdf.CellFormat(0, 4.5, "VAT No: "+company.VATNumber, "", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	return &document{pdf: pdf}
}

func (d *document) metaRow(label, value string) {
	d.pdf.SetFont("Arial", "B", 9)
	d.pdf.Cell(35, 5.5, label)
	d.pdf.SetFont("Arial", "", 9)
	d.pdf.CellFormat(0, 5.5, value, "", 1, "L", false, 0, "")
}

func (d *document) clientBlock(client core.ClientDetails) {
	d.pdf.Ln(4)
	d.pdf.SetFont("Arial", "B", 10)
	d.pdf.CellFormat(0, 6, "Bill To", "", 1, "L", false, 0, "")
	d.pdf.SetFont("Arial", "", 9)
	lines := []string{client.Name, client.Company, client.Address, client.Email, client.Phone}
	for _, line := range lines {
		if line != "" {
			d.pdf.CellFormat(0, 4.5, line, "", 1, "L", false, 0, "")
		}
	}
	d.pdf.Ln(4)
}

func (d *document) itemTable(items []core.LineItem, currency string) {
	d.pdf.SetFont("Arial", "B", 9)
	d.pdf.SetFillColor(235, 235, 235)
	d.pdf.CellFormat(95, 7, "Description", "1", 0, "L", true, 0, "")
	d.pdf.CellFormat(20, 7, "Qty", "1", 0, "R", true, 0, "")
	d.pdf.CellFormat(35, 7, "Unit Price", "1", 0, "R", true, 0, "")
	d.pdf.CellFormat(35, 7, "Amount", "1", 1, "R", true, 0, "")

	d.pdf.SetFont("Arial", "", 9)
	for _, item := range items {
		d.pdf.CellFormat(95, 6.5, item.Description, "1", 0, "L", false, 0, "")
		d.pdf.CellFormat(20, 6.5, item.Quantity.String(), "1", 0, "R", false, 0, "")
		d.pdf.CellFormat(35, 6.5, money(currency, item.UnitPrice), "1", 0, "R", false, 0, "")
		d.pdf.CellFormat(35, 6.5, money(currency, item.LineTotal), "1", 1, "R", false, 0, "")
	}
}

func (d *document) totalsBlock(totals core.DocumentTotals, taxEnabled bool, taxRate decimal.Decimal, currency string) {
	d.pdf.Ln(2)
	d.totalsRow("Subtotal", money(currency, totals.Subtotal), false)
	if taxEnabled {
		label := fmt.Sprintf("VAT (%s%%)", taxRate.Mul(decimal.NewFromInt(100)).String())
		d.totalsRow(label, money(currency, totals.VAT), false)
	}
	d.totalsRow("Total", money(currency, totals.Total), true)
}

func (d *document) totalsRow(label, value string, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	d.pdf.SetFont("Arial", style, 10)
	d.pdf.Cell(115, 6.5, "")
	d.pdf.CellFormat(35, 6.5, label, "", 0, "R", false, 0, "")
	d.pdf.CellFormat(35, 6.5, value, "", 1, "R", false, 0, "")
}

func (d *document) notesBlock(notes string) {
	d.pdf.Ln(6)
	d.pdf.SetFont("Arial", "B", 9)
	d.pdf.CellFormat(0, 5, "Notes", "", 1, "L", false, 0, "")
	d.pdf.SetFont("Arial", "", 9)
	d.pdf.MultiCell(0, 4.5, notes, "", "L", false)
}

func (d *document) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func money(currency string, amount decimal.Decimal) string {
	symbol := currencySymbol(currency)
	return symbol + " " + amount.StringFixed(2)
}

func currencySymbol(currency string) string {
	switch currency {
	case "ZAR":
		return "R"
	case "USD":
		return "$"
	case "EUR":
		return "€"
	case "GBP":
		return "£"
	default:
		return currency
	}
}
