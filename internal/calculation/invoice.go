package calculation

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/freelancetax/taxdesk/internal/domain"
	"github.com/google/uuid"
)

// BuildInvoice computes the invoice figures. GST is added before TDS is
// subtracted; preview and PDF both go through here so totals always agree.
func (c *IncomeTaxCalculator) BuildInvoice(in domain.InvoiceInput, number string, date time.Time) domain.InvoiceDocument {
	doc := domain.InvoiceDocument{
		InvoiceNumber: number,
		Date:          date,
		ClientName:    strings.TrimSpace(in.ClientName),
		BasicAmount:   in.Amount,
		BankDetails:   in.BankDetails,
	}

	total := in.Amount
	if in.GSTApplicable {
		gst := c.CalculateGST(in.Amount)
		doc.GSTAmount = &gst
		total = total.Add(gst)
	}
	if in.TDS {
		tds := c.ApplyTDS(in.Amount)
		doc.TDSAmount = &tds
		total = total.Sub(tds)
	}
	doc.TotalAmount = total
	return doc
}

// InvoiceNumberer issues invoice numbers of the form INV-<unix millis>-<node><seq>.
// The node tag is random per numberer and seq is an atomic counter, so numbers
// issued in the same millisecond by one process never collide.
type InvoiceNumberer struct {
	node string
	seq  atomic.Uint64
}

// NewInvoiceNumberer creates a numberer with a fresh node tag
func NewInvoiceNumberer() *InvoiceNumberer {
	return &InvoiceNumberer{node: strings.ToUpper(uuid.NewString()[:4])}
}

// Next returns the invoice number for the given instant
func (n *InvoiceNumberer) Next(now time.Time) string {
	seq := n.seq.Add(1) % 10000
	return fmt.Sprintf("INV-%d-%s%04d", now.UnixMilli(), n.node, seq)
}
