package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxSummary is the derived tax position of a user for the current fiscal context.
type TaxSummary struct {
	UserID            string          `yaml:"user_id" json:"user_id"`
	FiscalYear        string          `yaml:"fiscal_year" json:"fiscal_year"`
	RecordCount       int             `yaml:"record_count" json:"record_count"`
	TotalIncome       decimal.Decimal `yaml:"total_income" json:"total_income"`
	GSTIncome         decimal.Decimal `yaml:"gst_income" json:"gst_income"`
	TDSCollected      decimal.Decimal `yaml:"tds_collected" json:"tds_collected"`
	IncomeTax         decimal.Decimal `yaml:"income_tax" json:"income_tax"`
	EffectiveRate     decimal.Decimal `yaml:"effective_rate" json:"effective_rate"`
	FinalTaxPayable   decimal.Decimal `yaml:"final_tax_payable" json:"final_tax_payable"`
	GSTRequired       bool            `yaml:"gst_required" json:"gst_required"`
	AdvanceTaxDue     decimal.Decimal `yaml:"advance_tax_due" json:"advance_tax_due"`
	NextAdvanceTaxDue string          `yaml:"next_advance_tax_due" json:"next_advance_tax_due"`
}

// Deduction line sections.
const (
	SectionRetirementSavings = "80C-PPF"
	SectionMarketLinked      = "80C-ELSS"
	SectionInsurancePremium  = "80C-LIC"
	SectionBusinessExpense   = "BUSINESS"
	SectionHomeOffice        = "HOME-OFFICE"
)

// DeductionLine is one suggested deduction.
type DeductionLine struct {
	Section     string          `yaml:"section" json:"section"`
	Amount      decimal.Decimal `yaml:"amount" json:"amount"`
	Description string          `yaml:"description" json:"description"`
}

// DeductionPlan lists suggested deductions in display order.
type DeductionPlan struct {
	Income          decimal.Decimal `yaml:"income" json:"income"`
	Deductions      []DeductionLine `yaml:"deductions" json:"deductions"`
	TotalDeductions decimal.Decimal `yaml:"total_deductions" json:"total_deductions"`
	TaxableIncome   decimal.Decimal `yaml:"taxable_income" json:"taxable_income"`
	PossibleSavings decimal.Decimal `yaml:"possible_savings" json:"possible_savings"`
}

// AdvanceTaxDue is the amount due by the next advance-tax checkpoint.
type AdvanceTaxDue struct {
	AmountDue     decimal.Decimal `yaml:"amount_due" json:"amount_due"`
	NextDueDate   string          `yaml:"next_due_date" json:"next_due_date"`
	PercentageDue decimal.Decimal `yaml:"percentage_due" json:"percentage_due"`
}

// Installment is one statutory advance-tax checkpoint.
type Installment struct {
	DueDate              time.Time       `yaml:"due_date" json:"due_date"`
	CumulativePercentage decimal.Decimal `yaml:"cumulative_percentage" json:"cumulative_percentage"`
}

// Regime labels.
const (
	NewRegime = "New Regime"
	OldRegime = "Old Regime"
)

// RegimeComparison compares the new-regime slab tax with the old-regime approximation.
type RegimeComparison struct {
	Income       decimal.Decimal `yaml:"income" json:"income"`
	NewRegimeTax decimal.Decimal `yaml:"new_regime_tax" json:"new_regime_tax"`
	OldRegimeTax decimal.Decimal `yaml:"old_regime_tax" json:"old_regime_tax"`
	Recommended  string          `yaml:"recommended" json:"recommended"`
	Savings      decimal.Decimal `yaml:"savings" json:"savings"`
}
