package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/freelancetax/taxdesk/internal/domain"
	"github.com/phpdave11/gofpdf"
)

// PDFInvoiceFormatter renders an invoice as a single-column A4 document.
type PDFInvoiceFormatter struct {
	// Issuer is printed under the title when set.
	Issuer string
}

func (p PDFInvoiceFormatter) Name() string      { return "pdf" }
func (p PDFInvoiceFormatter) Extension() string { return "pdf" }

const (
	labelWidth = 70.0
	rowHeight  = 7.0
)

// Format draws the invoice. Any drawing or output failure yields ErrRendering
// and no bytes.
func (p PDFInvoiceFormatter) Format(doc *domain.InvoiceDocument) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil invoice", domain.ErrRendering)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetTitle("Invoice "+doc.InvoiceNumber, true)
	pdf.AliasNbPages("")
	// Core fonts are cp1252; client and bank text arrives as UTF-8.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(20, 20, 20)
	pdf.CellFormat(0, 12, "INVOICE", "", 1, "C", false, 0, "")
	if p.Issuer != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, tr(p.Issuer), "", 1, "C", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 11)
	row(pdf, "Invoice Number:", tr(doc.InvoiceNumber))
	row(pdf, "Date:", doc.Date.Format("02 Jan 2006"))
	pdf.Ln(4)

	section(pdf, "Bill To")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, rowHeight, tr(doc.ClientName), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	section(pdf, "Services")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetFillColor(245, 245, 245)
	pdf.CellFormat(124, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(50, 8, "Amount", "1", 1, "R", true, 0, "")
	pdf.CellFormat(124, 8, "Professional services", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, FormatRupees(doc.BasicAmount), "1", 1, "R", false, 0, "")
	pdf.Ln(4)

	section(pdf, "Amount Details")
	pdf.SetFont("Helvetica", "", 11)
	amountRow(pdf, "Basic Amount:", FormatRupees(doc.BasicAmount))
	if doc.TDSAmount != nil {
		amountRow(pdf, "Less TDS (10%):", "- "+FormatRupees(*doc.TDSAmount))
		amountRow(pdf, "Net after TDS:", FormatRupees(doc.NetAfterTDS()))
	}
	if doc.GSTAmount != nil {
		amountRow(pdf, "Add GST (18%):", "+ "+FormatRupees(*doc.GSTAmount))
		amountRow(pdf, "Total with GST:", FormatRupees(doc.TotalWithGST()))
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(124, 9, "Total Amount:", "T", 0, "R", false, 0, "")
	pdf.CellFormat(50, 9, FormatRupees(doc.TotalAmount), "T", 1, "R", false, 0, "")
	pdf.Ln(6)

	section(pdf, "Bank Details")
	pdf.SetFont("Helvetica", "", 11)
	bank := doc.BankDetails
	row(pdf, "Account Number:", tr(orNA(bank.AccountNumber)))
	row(pdf, "IFSC Code:", tr(orNA(bank.IFSCCode)))
	row(pdf, "Bank Name:", tr(orNA(bank.BankName)))
	row(pdf, "UPI ID:", tr(orNA(bank.UPIID)))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(90, 90, 90)
	for _, note := range footerNotes(doc) {
		pdf.MultiCell(0, 5, note, "", "L", false)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRendering, err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRendering, err)
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(20, 20, 20)
	pdf.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func row(pdf *gofpdf.Fpdf, label, value string) {
	pdf.CellFormat(labelWidth, rowHeight, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, rowHeight, value, "", 1, "L", false, 0, "")
}

func amountRow(pdf *gofpdf.Fpdf, label, value string) {
	pdf.CellFormat(124, rowHeight, label, "", 0, "R", false, 0, "")
	pdf.CellFormat(50, rowHeight, value, "", 1, "R", false, 0, "")
}

// footerNotes explains the withholding and tax lines that appear on the invoice.
func footerNotes(doc *domain.InvoiceDocument) []string {
	notes := []string{"Payment is due within 30 days of the invoice date."}
	if doc.TDSAmount != nil {
		notes = append(notes, "TDS at 10% has been deducted under Section 194J. Please issue Form 16A for the amount withheld.")
	}
	if doc.GSTAmount != nil {
		notes = append(notes, "GST at 18% is charged on the basic amount.")
	}
	notes = append(notes, "Thank you for your business.")
	return notes
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
