package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"quotepro/internal/app"
	"quotepro/internal/core"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Run executes a one-shot CLI command and exits.
// args is os.Args[1:], the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string) {
	account, err := svc.LoadDefaultAccount(ctx)
	if err != nil {
		log.Fatalf("Failed to load account: %v", err)
	}

	switch args[0] {
	case "preview", "calc":
		var req app.PreviewRequest
		if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
			log.Fatalf("Invalid JSON: %v", err)
		}
		req.AccountID = account.ID
		result, err := svc.PreviewTotals(ctx, req)
		if err != nil {
			log.Fatalf("Preview failed: %v", err)
		}
		printTotals(result)

	case "quotes", "q":
		status := ""
		if len(args) > 1 {
			status = args[1]
		}
		result, err := svc.ListQuotes(ctx, account.ID, status)
		if err != nil {
			log.Fatalf("Failed to list quotes: %v", err)
		}
		printQuotes(result)

	case "approve":
		requireRef(args, "approve")
		q, err := svc.ApproveQuote(ctx, account.ID, args[1])
		if err != nil {
			log.Fatalf("Approve failed: %v", err)
		}
		fmt.Printf("Quote %s approved.\n", q.QuoteNumber)

	case "decline":
		requireRef(args, "decline")
		q, err := svc.DeclineQuote(ctx, account.ID, args[1])
		if err != nil {
			log.Fatalf("Decline failed: %v", err)
		}
		fmt.Printf("Quote %s declined.\n", q.QuoteNumber)

	case "convert":
		requireRef(args, "convert")
		inv, err := svc.ConvertQuote(ctx, account.ID, args[1])
		if err != nil {
			log.Fatalf("Convert failed: %v", err)
		}
		fmt.Printf("Invoice %s created from quote %s, due %s.\n",
			inv.InvoiceNumber, inv.QuoteNumber, inv.DueDate.Format("2006-01-02"))

	case "invoices", "inv":
		status := ""
		if len(args) > 1 {
			status = args[1]
		}
		result, err := svc.ListInvoices(ctx, account.ID, status)
		if err != nil {
			log.Fatalf("Failed to list invoices: %v", err)
		}
		printInvoices(result)

	case "pdf":
		if len(args) < 2 {
			log.Fatal("Usage: app pdf <QUO-... | INV-...>")
		}
		result, err := renderByPrefix(ctx, svc, account.ID, args[1])
		if err != nil {
			log.Fatalf("PDF render failed: %v", err)
		}
		if err := os.WriteFile(result.Filename, result.Content, 0o644); err != nil {
			log.Fatalf("Failed to write %s: %v", result.Filename, err)
		}
		fmt.Printf("Wrote %s (%d bytes).\n", result.Filename, len(result.Content))

	case "stats", "analytics":
		a, err := svc.GetAnalytics(ctx, account.ID)
		if err != nil {
			log.Fatalf("Failed to get analytics: %v", err)
		}
		printAnalytics(a)

	default:
		log.Fatalf("Unknown command: %s\nAvailable: preview, quotes, approve, decline, convert, invoices, pdf, stats", args[0])
	}
}

func requireRef(args []string, cmd string) {
	if len(args) < 2 {
		log.Fatalf("Usage: app %s <id | number>", cmd)
	}
}

func renderByPrefix(ctx context.Context, svc app.ApplicationService, accountID int, ref string) (*app.PDFResult, error) {
	if strings.HasPrefix(strings.ToUpper(ref), "INV") {
		return svc.RenderInvoicePDF(ctx, accountID, ref)
	}
	return svc.RenderQuotePDF(ctx, accountID, ref)
}

func printTotals(result *app.PreviewResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 72))
	fmt.Printf("  %-40s %10s %8s %10s\n", "DESCRIPTION", "QTY", "PRICE", "TOTAL")
	fmt.Println(strings.Repeat("-", 72))
	for _, item := range result.Items {
		fmt.Printf("  %-40s %10s %8s %10s\n",
			truncate(item.Description, 40), item.Quantity.String(),
			item.UnitPrice.StringFixed(2), item.LineTotal.StringFixed(2))
	}
	fmt.Println(strings.Repeat("-", 72))
	fmt.Printf("  %-60s %10s\n", "Subtotal", result.Totals.Subtotal.StringFixed(2))
	if result.TaxEnabled {
		fmt.Printf("  %-60s %10s\n", "VAT", result.Totals.VAT.StringFixed(2))
	}
	fmt.Printf("  %-60s %10s\n", "TOTAL", result.Totals.Total.StringFixed(2))
	fmt.Println(strings.Repeat("=", 72))
}

func printQuotes(result *app.QuoteListResult) {
	fmt.Println()
	fmt.Printf("  %-10s %-24s %-10s %12s\n", "NUMBER", "CLIENT", "STATUS", "TOTAL")
	fmt.Println(strings.Repeat("-", 62))
	for _, q := range result.Quotes {
		fmt.Printf("  %-10s %-24s %-10s %12s\n",
			q.QuoteNumber, truncate(q.Client.Name, 24), q.Status, q.Totals.Total.StringFixed(2))
	}
	fmt.Println(strings.Repeat("-", 62))
	fmt.Printf("  Next quote number: %s\n", result.NextQuote)
}

func printInvoices(result *app.InvoiceListResult) {
	fmt.Println()
	fmt.Printf("  %-10s %-24s %-8s %-12s %12s\n", "NUMBER", "CLIENT", "STATUS", "DUE", "TOTAL")
	fmt.Println(strings.Repeat("-", 72))
	for _, inv := range result.Invoices {
		fmt.Printf("  %-10s %-24s %-8s %-12s %12s\n",
			inv.InvoiceNumber, truncate(inv.Client.Name, 24), inv.Status,
			inv.DueDate.Format("2006-01-02"), inv.Totals.Total.StringFixed(2))
	}
	fmt.Println(strings.Repeat("-", 72))
	fmt.Printf("  Next invoice number: %s\n", result.NextInvoice)
}

func printAnalytics(a *core.QuoteAnalytics) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 46))
	fmt.Printf("  %-30s %12d\n", "Total quotes", a.TotalQuotes)
	fmt.Printf("  %-30s %12d\n", "Pending", a.PendingCount)
	fmt.Printf("  %-30s %12d\n", "Approved", a.ApprovedCount)
	fmt.Printf("  %-30s %12d\n", "Declined", a.DeclinedCount)
	fmt.Printf("  %-30s %12d\n", "Converted", a.ConvertedCount)
	fmt.Println(strings.Repeat("-", 46))
	fmt.Printf("  %-30s %12s\n", "Quoted value", a.QuotedValue.StringFixed(2))
	fmt.Printf("  %-30s %12s\n", "Invoiced value", a.InvoicedValue.StringFixed(2))
	fmt.Printf("  %-30s %12s\n", "Outstanding", a.OutstandingValue.StringFixed(2))
	fmt.Printf("  %-30s %12s\n", "Paid", a.PaidValue.StringFixed(2))
	fmt.Printf("  %-30s %11s%%\n", "Conversion rate", a.ConversionRate.Mul(hundred).StringFixed(1))
	fmt.Println(strings.Repeat("=", 46))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
