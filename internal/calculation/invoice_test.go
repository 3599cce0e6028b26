package calculation

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/freelancetax/taxdesk/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildInvoice(t *testing.T) {
	calculator := NewIncomeTaxCalculator()
	date := time.Date(2026, time.October, 18, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		gst           bool
		tds           bool
		expectedTDS   *int64
		expectedGST   *int64
		expectedTotal int64
	}{
		{"Both flags", true, true, ptr(5000), ptr(9000), 54000},
		{"GST only", true, false, nil, ptr(9000), 59000},
		{"TDS only", false, true, ptr(5000), nil, 45000},
		{"Neither", false, false, nil, nil, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := domain.InvoiceInput{
				ClientName:    "  Acme Studios ",
				Amount:        decimal.NewFromInt(50000),
				GSTApplicable: tt.gst,
				TDS:           tt.tds,
			}
			doc := calculator.BuildInvoice(in, "INV-1", date)

			assert.Equal(t, "Acme Studios", doc.ClientName)
			assert.Equal(t, "INV-1", doc.InvoiceNumber)
			assert.Equal(t, date, doc.Date)
			assertOptional(t, tt.expectedTDS, doc.TDSAmount)
			assertOptional(t, tt.expectedGST, doc.GSTAmount)
			assert.True(t, decimal.NewFromInt(tt.expectedTotal).Equal(doc.TotalAmount), "total %s", doc.TotalAmount)
		})
	}
}

func ptr(v int64) *int64 { return &v }

func assertOptional(t *testing.T, expected *int64, got *decimal.Decimal) {
	t.Helper()
	if expected == nil {
		assert.Nil(t, got)
		return
	}
	require.NotNil(t, got)
	assert.True(t, decimal.NewFromInt(*expected).Equal(*got), "got %s", got.String())
}

func TestInvoiceNumbererFormat(t *testing.T) {
	n := NewInvoiceNumberer()
	now := time.UnixMilli(1760781600000)

	first := n.Next(now)
	second := n.Next(now)

	pattern := regexp.MustCompile(`^INV-1760781600000-[0-9A-F]{4}\d{4}$`)
	assert.Regexp(t, pattern, first)
	assert.Regexp(t, pattern, second)
	assert.NotEqual(t, first, second, "same millisecond must still yield distinct numbers")
}

func TestInvoiceNumbererConcurrent(t *testing.T) {
	n := NewInvoiceNumberer()
	now := time.Now()

	const workers = 8
	const perWorker = 200
	results := make(chan string, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				results <- n.Next(now)
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	for num := range results {
		assert.False(t, seen[num], "duplicate invoice number %s", num)
		seen[num] = true
	}
	assert.Len(t, seen, workers*perWorker)
}
