package calculation

import (
	"context"
	"fmt"
	"time"

	"github.com/freelancetax/taxdesk/internal/domain"
	"github.com/freelancetax/taxdesk/internal/store"
	"github.com/shopspring/decimal"
)

// InvoiceRenderer turns a computed invoice into a binary document.
type InvoiceRenderer interface {
	Format(doc *domain.InvoiceDocument) ([]byte, error)
}

// CalculationEngine orchestrates the tax, deduction, scheduling and invoice calculations
type CalculationEngine struct {
	TaxCalc    *IncomeTaxCalculator
	Comparator *RegimeComparator
	Planner    *DeductionPlanner
	Scheduler  *DueDateScheduler
	Numberer   *InvoiceNumberer
	Users      store.UserStore
	Incomes    store.IncomeStore
	Renderer   InvoiceRenderer
	Now        func() time.Time
	Logger     Logger
}

// NewCalculationEngine creates an engine with no record store and no renderer.
// The pure operations work immediately; store-backed ones need Users and Incomes.
func NewCalculationEngine() *CalculationEngine {
	taxCalc := NewIncomeTaxCalculator()
	return &CalculationEngine{
		TaxCalc:    taxCalc,
		Comparator: &RegimeComparator{NewRegime: taxCalc, OldRegime: NewOldRegimeCalculator()},
		Planner:    NewDeductionPlanner(taxCalc),
		Scheduler:  NewDueDateScheduler(),
		Numberer:   NewInvoiceNumberer(),
		Now:        time.Now,
		Logger:     NopLogger{},
	}
}

// NewCalculationEngineWithStore creates an engine reading users and income from s
func NewCalculationEngineWithStore(s store.Store, renderer InvoiceRenderer) *CalculationEngine {
	ce := NewCalculationEngine()
	ce.Users = s
	ce.Incomes = s
	ce.Renderer = renderer
	return ce
}

// SetLogger sets the logger for the calculation engine. If nil is provided, a no-op logger is used.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// ComputeDeductionPlan suggests deductions for income and the caller's expense totals
func (ce *CalculationEngine) ComputeDeductionPlan(income decimal.Decimal, expenses domain.ExpenseMap) (domain.DeductionPlan, error) {
	if err := domain.ValidateIncome("income", income); err != nil {
		return domain.DeductionPlan{}, err
	}
	plan := ce.Planner.Plan(income, expenses)
	ce.Logger.Debugf("deduction plan: income=%s lines=%d total=%s taxable=%s",
		income.String(), len(plan.Deductions), plan.TotalDeductions.String(), plan.TaxableIncome.String())
	return plan, nil
}

// ComputeAdvanceTaxDue returns the installment due by the next checkpoint
func (ce *CalculationEngine) ComputeAdvanceTaxDue(today time.Time, estimatedTax decimal.Decimal) (domain.AdvanceTaxDue, error) {
	if err := domain.ValidateIncome("estimated_tax", estimatedTax); err != nil {
		return domain.AdvanceTaxDue{}, err
	}
	return ce.Scheduler.AdvanceTaxDue(today, estimatedTax), nil
}

// NextDueDateLabel returns the next advance-tax due date as display text
func (ce *CalculationEngine) NextDueDateLabel(today time.Time) string {
	return ce.Scheduler.NextDueDateLabel(today)
}

// CompareRegimes compares the new-regime slab tax with the old-regime approximation
func (ce *CalculationEngine) CompareRegimes(income decimal.Decimal) (domain.RegimeComparison, error) {
	if err := domain.ValidateIncome("income", income); err != nil {
		return domain.RegimeComparison{}, err
	}
	cmp := ce.Comparator.Compare(income)
	ce.Logger.Debugf("regimes at %s: new=%s old=%s recommended=%s",
		income.String(), cmp.NewRegimeTax.String(), cmp.OldRegimeTax.String(), cmp.Recommended)
	return cmp, nil
}

// PreviewInvoice computes an invoice without rendering it
func (ce *CalculationEngine) PreviewInvoice(in domain.InvoiceInput) (domain.InvoiceDocument, error) {
	if err := in.Validate(); err != nil {
		return domain.InvoiceDocument{}, err
	}
	now := ce.Now()
	doc := ce.TaxCalc.BuildInvoice(in, ce.Numberer.Next(now), now)
	ce.Logger.Infof("invoice %s for %s: total %s", doc.InvoiceNumber, doc.ClientName, doc.TotalAmount.String())
	return doc, nil
}

// RenderInvoice computes an invoice and renders it. On failure no bytes are returned.
func (ce *CalculationEngine) RenderInvoice(in domain.InvoiceInput) (domain.InvoiceDocument, []byte, error) {
	doc, err := ce.PreviewInvoice(in)
	if err != nil {
		return domain.InvoiceDocument{}, nil, err
	}
	if ce.Renderer == nil {
		return domain.InvoiceDocument{}, nil, fmt.Errorf("%w: no renderer configured", domain.ErrRendering)
	}
	data, err := ce.Renderer.Format(&doc)
	if err != nil {
		ce.Logger.Errorf("invoice %s: %v", doc.InvoiceNumber, err)
		return domain.InvoiceDocument{}, nil, err
	}
	return doc, data, nil
}

// RenderInvoicePDF renders the invoice document for in
func (ce *CalculationEngine) RenderInvoicePDF(in domain.InvoiceInput) ([]byte, error) {
	_, data, err := ce.RenderInvoice(in)
	return data, err
}

// TaxSummaryForUser summarises the user's income recorded in the fiscal year containing today.
// Store errors are returned as the store reported them.
func (ce *CalculationEngine) TaxSummaryForUser(ctx context.Context, userID string, today time.Time) (domain.TaxSummary, error) {
	user, records, err := ce.loadUserIncome(ctx, userID, today)
	if err != nil {
		return domain.TaxSummary{}, err
	}
	return ce.ComputeTaxSummary(*user, records, today)
}

// DeductionPlanForUser plans deductions against the user's fiscal-year income and profile expenses
func (ce *CalculationEngine) DeductionPlanForUser(ctx context.Context, userID string, today time.Time) (domain.DeductionPlan, error) {
	user, records, err := ce.loadUserIncome(ctx, userID, today)
	if err != nil {
		return domain.DeductionPlan{}, err
	}
	income := decimal.Zero
	for _, rec := range records {
		income = income.Add(rec.Amount)
	}
	return ce.ComputeDeductionPlan(income, domain.ExpenseMapFromExpenses(user.Expenses))
}

// InvoiceForIncome builds the invoice input for a stored income record, billed
// to the record's client and paid into the user's bank account.
func (ce *CalculationEngine) InvoiceForIncome(ctx context.Context, userID, incomeID string) (domain.InvoiceInput, error) {
	if ce.Users == nil || ce.Incomes == nil {
		return domain.InvoiceInput{}, fmt.Errorf("%w: no record store configured", domain.ErrDependencyUnavailable)
	}
	user, err := ce.Users.GetUser(ctx, userID)
	if err != nil {
		return domain.InvoiceInput{}, err
	}
	rec, err := ce.Incomes.GetIncome(ctx, userID, incomeID)
	if err != nil {
		return domain.InvoiceInput{}, err
	}
	return domain.InvoiceInputFromIncome(*rec, user.BankDetails), nil
}

func (ce *CalculationEngine) loadUserIncome(ctx context.Context, userID string, today time.Time) (*domain.User, []domain.IncomeRecord, error) {
	if ce.Users == nil || ce.Incomes == nil {
		return nil, nil, fmt.Errorf("%w: no record store configured", domain.ErrDependencyUnavailable)
	}
	user, err := ce.Users.GetUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	records, err := ce.Incomes.ListIncome(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	inYear := fiscalYearRecords(records, today)
	ce.Logger.Debugf("user %s: %d of %d records in fiscal year", userID, len(inYear), len(records))
	return user, inYear, nil
}
