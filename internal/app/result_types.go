package app

import "quotepro/internal/core"

// PreviewResult is returned by PreviewTotals.
type PreviewResult struct {
	Items      []core.LineItem
	Totals     core.DocumentTotals
	TaxEnabled bool
	TaxRate    string
}

// QuoteListResult is returned by ListQuotes.
type QuoteListResult struct {
	Quotes    []core.Quote
	NextQuote string // the number the next created quote will receive
}

// InvoiceListResult is returned by ListInvoices.
type InvoiceListResult struct {
	Invoices    []core.Invoice
	NextInvoice string
}

// ImportResult is returned by ImportDocument. Items and Totals are the
// reconciled draft; Extracted keeps the raw extraction for display of
// confidence and notes.
type ImportResult struct {
	Client    core.ClientDetails
	Items     []core.LineItem
	Totals    core.DocumentTotals
	Extracted *core.ExtractedDocument
}

// PDFResult is a rendered document ready to stream to the caller.
type PDFResult struct {
	Filename string
	Content  []byte
}
