package output

import (
	"encoding/json"

	"github.com/freelancetax/taxdesk/internal/domain"
)

// JSONFormatter serializes the tax report as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string      { return "json" }
func (j JSONFormatter) Extension() string { return "json" }

func (j JSONFormatter) Format(report *Report) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// JSONInvoiceFormatter is the invoice preview payload.
type JSONInvoiceFormatter struct{}

func (j JSONInvoiceFormatter) Name() string      { return "json" }
func (j JSONInvoiceFormatter) Extension() string { return "json" }

func (j JSONInvoiceFormatter) Format(doc *domain.InvoiceDocument) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}
