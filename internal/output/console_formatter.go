package output

import (
	"bytes"
	"fmt"

	"github.com/freelancetax/taxdesk/internal/domain"
	"github.com/freelancetax/taxdesk/pkg/dateutil"
)

// ConsoleFormatter prints the report as aligned plain text.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string      { return "console" }
func (c ConsoleFormatter) Extension() string { return "txt" }

func (c ConsoleFormatter) Format(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "FREELANCER TAX REPORT")
	fmt.Fprintln(&buf, "================================")
	if r.UserID != "" {
		fmt.Fprintf(&buf, "User: %s\n", r.UserID)
	}

	if s := r.Summary; s != nil {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "TAX SUMMARY (FY %s, %d records)\n", s.FiscalYear, s.RecordCount)
		line(&buf, "Total Income", FormatRupees(s.TotalIncome))
		line(&buf, "GST-applicable Income", FormatRupees(s.GSTIncome))
		line(&buf, "Income Tax", FormatRupees(s.IncomeTax))
		line(&buf, "Effective Rate", FormatPercentage(s.EffectiveRate))
		line(&buf, "TDS Collected", FormatRupees(s.TDSCollected))
		line(&buf, "Final Tax Payable", FormatRupees(s.FinalTaxPayable))
		line(&buf, "Advance Tax Due Now", FormatRupees(s.AdvanceTaxDue))
		line(&buf, "Next Due Date", s.NextAdvanceTaxDue)
		if s.GSTRequired {
			fmt.Fprintln(&buf, "  GST registration required: income is above the 20 lakh threshold.")
		}
	}

	if p := r.Deductions; p != nil {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "SUGGESTED DEDUCTIONS")
		for _, d := range p.Deductions {
			fmt.Fprintf(&buf, "  %-12s %-52s %16s\n", d.Section, d.Description, FormatRupees(d.Amount))
		}
		line(&buf, "Total Deductions", FormatRupees(p.TotalDeductions))
		line(&buf, "Taxable Income", FormatRupees(p.TaxableIncome))
		line(&buf, "Possible Savings", FormatRupees(p.PossibleSavings))
	}

	if g := r.Regimes; g != nil {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "REGIME COMPARISON (old regime is an approximation)")
		line(&buf, "New Regime Tax", FormatRupees(g.NewRegimeTax))
		line(&buf, "Old Regime Tax", FormatRupees(g.OldRegimeTax))
		fmt.Fprintf(&buf, "  Recommended: %s (saves %s)\n", g.Recommended, FormatRupees(g.Savings))
	}

	if a := r.AdvanceTax; a != nil {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "ADVANCE TAX")
		line(&buf, "Cumulative Share Due", FormatPercentage(a.PercentageDue))
		line(&buf, "Amount Due", FormatRupees(a.AmountDue))
		line(&buf, "Next Due Date", a.NextDueDate)
	}

	if len(r.Installments) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "ADVANCE TAX CALENDAR")
		for _, in := range r.Installments {
			line(&buf, dateutil.FormatDueDate(in.DueDate), FormatPercentage(in.CumulativePercentage)+" cumulative")
		}
	}
	return buf.Bytes(), nil
}

func line(buf *bytes.Buffer, label, value string) {
	fmt.Fprintf(buf, "  %-24s %s\n", label+":", value)
}

// ConsoleInvoiceFormatter prints an invoice preview as plain text.
type ConsoleInvoiceFormatter struct{}

func (c ConsoleInvoiceFormatter) Name() string      { return "console" }
func (c ConsoleInvoiceFormatter) Extension() string { return "txt" }

func (c ConsoleInvoiceFormatter) Format(doc *domain.InvoiceDocument) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "INVOICE")
	fmt.Fprintln(&buf, "================================")
	line(&buf, "Invoice Number", doc.InvoiceNumber)
	line(&buf, "Date", doc.Date.Format("02 Jan 2006"))
	line(&buf, "Bill To", doc.ClientName)
	fmt.Fprintln(&buf)
	line(&buf, "Basic Amount", FormatRupees(doc.BasicAmount))
	if doc.TDSAmount != nil {
		line(&buf, "Less TDS (10%)", FormatRupees(*doc.TDSAmount))
		line(&buf, "Net after TDS", FormatRupees(doc.NetAfterTDS()))
	}
	if doc.GSTAmount != nil {
		line(&buf, "Add GST (18%)", FormatRupees(*doc.GSTAmount))
		line(&buf, "Total with GST", FormatRupees(doc.TotalWithGST()))
	}
	line(&buf, "Total Amount", FormatRupees(doc.TotalAmount))
	fmt.Fprintln(&buf)
	line(&buf, "Account Number", orNA(doc.BankDetails.AccountNumber))
	line(&buf, "IFSC Code", orNA(doc.BankDetails.IFSCCode))
	line(&buf, "Bank Name", orNA(doc.BankDetails.BankName))
	line(&buf, "UPI ID", orNA(doc.BankDetails.UPIID))
	return buf.Bytes(), nil
}
