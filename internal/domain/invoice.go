package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceInput is what a caller supplies to preview or render an invoice.
type InvoiceInput struct {
	ClientName    string          `yaml:"client_name" json:"client_name" validate:"required,min=2,max=100"`
	Amount        decimal.Decimal `yaml:"amount" json:"amount" validate:"gt=0"`
	GSTApplicable bool            `yaml:"gst_applicable" json:"gst_applicable"`
	TDS           bool            `yaml:"tds" json:"tds"`
	BankDetails   BankDetails     `yaml:"bank_details" json:"bank_details"`
}

// InvoiceInputFromIncome builds an invoice request for a persisted income record.
func InvoiceInputFromIncome(rec IncomeRecord, bank BankDetails) InvoiceInput {
	return InvoiceInput{
		ClientName:    rec.ClientName,
		Amount:        rec.Amount,
		GSTApplicable: rec.GSTApplicable,
		TDS:           rec.TDSDeducted,
		BankDetails:   bank,
	}
}

// InvoiceDocument is the computed invoice. TDSAmount and GSTAmount are nil
// when the corresponding flag was not set.
type InvoiceDocument struct {
	InvoiceNumber string           `yaml:"invoice_number" json:"invoice_number"`
	Date          time.Time        `yaml:"date" json:"date"`
	ClientName    string           `yaml:"client_name" json:"client_name"`
	BasicAmount   decimal.Decimal  `yaml:"basic_amount" json:"basic_amount"`
	TDSAmount     *decimal.Decimal `yaml:"tds_amount,omitempty" json:"tds_amount,omitempty"`
	GSTAmount     *decimal.Decimal `yaml:"gst_amount,omitempty" json:"gst_amount,omitempty"`
	TotalAmount   decimal.Decimal  `yaml:"total_amount" json:"total_amount"`
	BankDetails   BankDetails      `yaml:"bank_details" json:"bank_details"`
}

// NetAfterTDS is the basic amount less TDS.
func (d InvoiceDocument) NetAfterTDS() decimal.Decimal {
	if d.TDSAmount == nil {
		return d.BasicAmount
	}
	return d.BasicAmount.Sub(*d.TDSAmount)
}

// TotalWithGST is the basic amount plus GST.
func (d InvoiceDocument) TotalWithGST() decimal.Decimal {
	if d.GSTAmount == nil {
		return d.BasicAmount
	}
	return d.BasicAmount.Add(*d.GSTAmount)
}
