package calculation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/freelancetax/taxdesk/internal/domain"
	"github.com/freelancetax/taxdesk/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.July, 20, 11, 30, 0, 0, time.UTC)

// captureRenderer records the document it was asked to render.
type captureRenderer struct {
	doc *domain.InvoiceDocument
	err error
}

func (c *captureRenderer) Format(doc *domain.InvoiceDocument) ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	copied := *doc
	c.doc = &copied
	return []byte("%PDF-1.3 " + doc.InvoiceNumber), nil
}

// failingStore reports every call as an infrastructure failure.
type failingStore struct{ cause error }

func (f failingStore) GetUser(context.Context, string) (*domain.User, error) { return nil, f.cause }
func (f failingStore) CreateUser(context.Context, *domain.User) error        { return f.cause }
func (f failingStore) ListIncome(context.Context, string) ([]domain.IncomeRecord, error) {
	return nil, f.cause
}
func (f failingStore) GetIncome(context.Context, string, string) (*domain.IncomeRecord, error) {
	return nil, f.cause
}
func (f failingStore) InsertIncome(context.Context, *domain.IncomeRecord) error { return f.cause }
func (f failingStore) UpdateIncome(context.Context, *domain.IncomeRecord) error { return f.cause }
func (f failingStore) DeleteIncome(context.Context, string, string) error       { return f.cause }

func newTestEngine(t *testing.T) (*CalculationEngine, *store.MemoryStore, *captureRenderer) {
	t.Helper()
	s := store.NewMemoryStore()
	r := &captureRenderer{}
	ce := NewCalculationEngineWithStore(s, r)
	ce.Now = func() time.Time { return fixedNow }

	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, &domain.User{
		ID:    "u1",
		Name:  "Priya Sharma",
		Email: "priya@example.com",
		BankDetails: domain.BankDetails{
			AccountNumber: "50100123456789",
			IFSCCode:      "HDFC0001234",
			BankName:      "HDFC Bank",
		},
		Expenses: []domain.Expense{
			{Category: "laptop", Amount: decimal.NewFromInt(40000)},
			{Category: "internet", Amount: decimal.NewFromInt(6000)},
			{Category: "internet", Amount: decimal.NewFromInt(6000)},
		},
	}))
	return ce, s, r
}

func record(id string, amount int64, date time.Time, tds, gst bool) domain.IncomeRecord {
	return domain.IncomeRecord{
		ID:            id,
		UserID:        "u1",
		ClientName:    "Acme Studios",
		Amount:        decimal.NewFromInt(amount),
		Date:          date,
		TDSDeducted:   tds,
		GSTApplicable: gst,
	}
}

func TestComputeTaxSummary(t *testing.T) {
	ce, _, _ := newTestEngine(t)
	user := domain.User{ID: "u1"}

	tests := []struct {
		name            string
		records         []domain.IncomeRecord
		expectedIncome  int64
		expectedTDS     int64
		expectedTax     int64
		expectedPayable int64
		expectedAdvance int64
		expectedGST     bool
	}{
		{
			name:    "TDS offsets tax",
			records: []domain.IncomeRecord{record("a", 600000, fixedNow, true, false), record("b", 400000, fixedNow, false, true)},
			// tax(1000000)=75000, tds=60000
			expectedIncome:  1000000,
			expectedTDS:     60000,
			expectedTax:     75000,
			expectedPayable: 15000,
			expectedAdvance: 2250,
		},
		{
			name:            "TDS above tax floors at zero",
			records:         []domain.IncomeRecord{record("a", 400000, fixedNow, true, false)},
			expectedIncome:  400000,
			expectedTDS:     40000,
			expectedTax:     7500,
			expectedPayable: 0,
			expectedAdvance: 0,
		},
		{
			name:            "Above GST threshold",
			records:         []domain.IncomeRecord{record("a", 2500000, fixedNow, false, false)},
			expectedIncome:  2500000,
			expectedTax:     487500,
			expectedPayable: 487500,
			expectedAdvance: 73125,
			expectedGST:     true,
		},
		{
			name:    "No records",
			records: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ce.ComputeTaxSummary(user, tt.records, fixedNow)
			require.NoError(t, err)
			assert.True(t, decimal.NewFromInt(tt.expectedIncome).Equal(got.TotalIncome), "income %s", got.TotalIncome)
			assert.True(t, decimal.NewFromInt(tt.expectedTDS).Equal(got.TDSCollected), "tds %s", got.TDSCollected)
			assert.True(t, decimal.NewFromInt(tt.expectedTax).Equal(got.IncomeTax), "tax %s", got.IncomeTax)
			assert.True(t, decimal.NewFromInt(tt.expectedPayable).Equal(got.FinalTaxPayable), "payable %s", got.FinalTaxPayable)
			assert.True(t, decimal.NewFromInt(tt.expectedAdvance).Equal(got.AdvanceTaxDue), "advance %s", got.AdvanceTaxDue)
			assert.Equal(t, tt.expectedGST, got.GSTRequired)
			assert.Equal(t, "September 15, 2026", got.NextAdvanceTaxDue)
			assert.Equal(t, "2026-27", got.FiscalYear)
			assert.Equal(t, len(tt.records), got.RecordCount)
		})
	}
}

func TestComputeTaxSummaryExtras(t *testing.T) {
	ce, _, _ := newTestEngine(t)
	records := []domain.IncomeRecord{
		record("a", 600000, fixedNow, false, true),
		record("b", 400000, fixedNow, false, false),
	}
	got, err := ce.ComputeTaxSummary(domain.User{ID: "u1"}, records, fixedNow)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(600000).Equal(got.GSTIncome))
	assert.True(t, decimal.RequireFromString("0.075").Equal(got.EffectiveRate), "rate %s", got.EffectiveRate)
}

func TestComputeTaxSummaryRejectsInvalidRecords(t *testing.T) {
	ce, _, _ := newTestEngine(t)

	tests := []struct {
		name   string
		mutate func(r *domain.IncomeRecord)
		field  string
	}{
		{"Zero amount", func(r *domain.IncomeRecord) { r.Amount = decimal.Zero }, "amount"},
		{"Negative amount", func(r *domain.IncomeRecord) { r.Amount = decimal.NewFromInt(-5) }, "amount"},
		{"Short client name", func(r *domain.IncomeRecord) { r.ClientName = "A" }, "client_name"},
		{"Long client name", func(r *domain.IncomeRecord) { r.ClientName = strings.Repeat("x", 101) }, "client_name"},
		{"Foreign record", func(r *domain.IncomeRecord) { r.UserID = "u2" }, "user_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := record("bad", 1000, fixedNow, false, false)
			tt.mutate(&bad)
			records := []domain.IncomeRecord{record("ok", 1000, fixedNow, false, false), bad}

			_, err := ce.ComputeTaxSummary(domain.User{ID: "u1"}, records, fixedNow)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestEngineRejectsNegativeIncome(t *testing.T) {
	ce, _, _ := newTestEngine(t)
	negative := decimal.NewFromInt(-1)

	_, err := ce.ComputeDeductionPlan(negative, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = ce.CompareRegimes(negative)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = ce.ComputeAdvanceTaxDue(fixedNow, negative)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEngineAdvanceTaxAndLabel(t *testing.T) {
	ce, _, _ := newTestEngine(t)
	due, err := ce.ComputeAdvanceTaxDue(fixedNow, decimal.NewFromInt(10000))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1500).Equal(due.AmountDue))
	assert.Equal(t, "September 15, 2026", due.NextDueDate)
	assert.Equal(t, "September 15, 2026", ce.NextDueDateLabel(fixedNow))
}

func TestPreviewAndRenderAgree(t *testing.T) {
	ce, _, renderer := newTestEngine(t)
	in := domain.InvoiceInput{
		ClientName:    "Acme Studios",
		Amount:        decimal.NewFromInt(50000),
		GSTApplicable: true,
		TDS:           true,
	}

	preview, err := ce.PreviewInvoice(in)
	require.NoError(t, err)
	data, err := ce.RenderInvoicePDF(in)
	require.NoError(t, err)
	require.NotNil(t, renderer.doc)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	rendered := *renderer.doc
	assert.True(t, decimal.NewFromInt(54000).Equal(preview.TotalAmount))
	assert.True(t, preview.TotalAmount.Equal(rendered.TotalAmount))
	assert.True(t, preview.TDSAmount.Equal(*rendered.TDSAmount))
	assert.True(t, preview.GSTAmount.Equal(*rendered.GSTAmount))
	assert.NotEqual(t, preview.InvoiceNumber, rendered.InvoiceNumber)
	assert.Equal(t, fixedNow, rendered.Date)
}

func TestInvoiceValidation(t *testing.T) {
	ce, _, renderer := newTestEngine(t)

	tests := []struct {
		name string
		in   domain.InvoiceInput
	}{
		{"Zero amount", domain.InvoiceInput{ClientName: "Acme Studios", Amount: decimal.Zero}},
		{"Negative amount", domain.InvoiceInput{ClientName: "Acme Studios", Amount: decimal.NewFromInt(-10)}},
		{"Missing client", domain.InvoiceInput{Amount: decimal.NewFromInt(100)}},
		{"Client too long", domain.InvoiceInput{ClientName: strings.Repeat("a", 101), Amount: decimal.NewFromInt(100)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ce.PreviewInvoice(tt.in)
			assert.ErrorIs(t, err, domain.ErrValidation)
			data, err := ce.RenderInvoicePDF(tt.in)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Nil(t, data)
		})
	}
	assert.Nil(t, renderer.doc, "renderer never reached")
}

func TestRenderFailureReturnsNoBytes(t *testing.T) {
	ce, _, renderer := newTestEngine(t)
	renderer.err = fmt.Errorf("%w: out of memory", domain.ErrRendering)
	in := domain.InvoiceInput{ClientName: "Acme Studios", Amount: decimal.NewFromInt(100)}

	data, err := ce.RenderInvoicePDF(in)
	assert.ErrorIs(t, err, domain.ErrRendering)
	assert.Nil(t, data)

	ce.Renderer = nil
	data, err = ce.RenderInvoicePDF(in)
	assert.ErrorIs(t, err, domain.ErrRendering)
	assert.Nil(t, data)
}

func TestTaxSummaryForUser(t *testing.T) {
	ce, s, _ := newTestEngine(t)
	ctx := context.Background()

	inYear := record("", 600000, time.Date(2026, time.May, 2, 0, 0, 0, 0, time.UTC), true, false)
	lastYear := record("", 900000, time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC), false, false)
	require.NoError(t, s.InsertIncome(ctx, &inYear))
	require.NoError(t, s.InsertIncome(ctx, &lastYear))

	got, err := ce.TaxSummaryForUser(ctx, "u1", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 1, got.RecordCount, "previous fiscal year excluded")
	assert.True(t, decimal.NewFromInt(600000).Equal(got.TotalIncome))
	assert.True(t, decimal.NewFromInt(60000).Equal(got.TDSCollected))
	assert.True(t, got.FinalTaxPayable.IsZero())

	_, err = ce.TaxSummaryForUser(ctx, "missing", fixedNow)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeductionPlanForUser(t *testing.T) {
	ce, s, _ := newTestEngine(t)
	ctx := context.Background()
	rec := record("", 450000, fixedNow, false, false)
	require.NoError(t, s.InsertIncome(ctx, &rec))

	plan, err := ce.DeductionPlanForUser(ctx, "u1", fixedNow)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(450000).Equal(plan.Income))
	require.Len(t, plan.Deductions, 5)
	assert.Equal(t, "Business expense: internet", plan.Deductions[3].Description)
	assert.True(t, decimal.NewFromInt(12000).Equal(plan.Deductions[3].Amount), "itemised expenses aggregate by category")
}

func TestInvoiceForIncome(t *testing.T) {
	ce, s, _ := newTestEngine(t)
	ctx := context.Background()
	rec := record("", 50000, fixedNow, true, true)
	require.NoError(t, s.InsertIncome(ctx, &rec))

	in, err := ce.InvoiceForIncome(ctx, "u1", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Studios", in.ClientName)
	assert.True(t, in.TDS)
	assert.True(t, in.GSTApplicable)
	assert.Equal(t, "HDFC Bank", in.BankDetails.BankName)

	_, err = ce.InvoiceForIncome(ctx, "u1", "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStoreFailuresPassThrough(t *testing.T) {
	cause := fmt.Errorf("%w: connection reset", domain.ErrDependencyUnavailable)
	ce := NewCalculationEngineWithStore(failingStore{cause: cause}, nil)
	ctx := context.Background()

	_, err := ce.TaxSummaryForUser(ctx, "u1", fixedNow)
	assert.Same(t, cause, err)

	_, err = ce.InvoiceForIncome(ctx, "u1", "i1")
	assert.Same(t, cause, err)

	bare := NewCalculationEngine()
	_, err = bare.TaxSummaryForUser(ctx, "u1", fixedNow)
	assert.ErrorIs(t, err, domain.ErrDependencyUnavailable)
}

func TestStdLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewStdLogger(log.New(&buf, "", 0), false)
	l.Debugf("hidden %d", 1)
	l.Infof("shown %d", 2)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "INFO shown 2")

	l.Verbose = true
	l.Debugf("visible")
	assert.Contains(t, buf.String(), "DEBUG visible")

	ce := NewCalculationEngine()
	ce.SetLogger(nil)
	assert.IsType(t, NopLogger{}, ce.Logger)
}
