package calculation

import (
	"github.com/freelancetax/taxdesk/internal/domain"
	money "github.com/freelancetax/taxdesk/pkg/decimal"
	"github.com/shopspring/decimal"
)

// OldRegimeCalculator is a simplified reference for the old tax regime: a flat
// standard deduction, three taxed bands and a cess multiplier. It approximates
// the old regime for comparison only and is not the statutory table.
type OldRegimeCalculator struct {
	StandardDeduction decimal.Decimal
	Slabs             []TaxSlab
	CessRate          decimal.Decimal
}

// NewOldRegimeCalculator creates the reference old-regime calculator
func NewOldRegimeCalculator() *OldRegimeCalculator {
	return &OldRegimeCalculator{
		StandardDeduction: decimal.NewFromInt(50000),
		Slabs: []TaxSlab{
			{decimal.Zero, decimal.NewFromInt(250000), decimal.Zero},
			{decimal.NewFromInt(250000), decimal.NewFromInt(500000), decimal.NewFromFloat(0.05)},
			{decimal.NewFromInt(500000), decimal.NewFromInt(1000000), decimal.NewFromFloat(0.20)},
			{decimal.NewFromInt(1000000), decimal.Zero, decimal.NewFromFloat(0.30)},
		},
		CessRate: decimal.NewFromFloat(0.04),
	}
}

// TaxableIncome returns income less the standard deduction, floored at zero
func (o *OldRegimeCalculator) TaxableIncome(income decimal.Decimal) decimal.Decimal {
	return money.ClampZero(income.Sub(o.StandardDeduction))
}

// CalculateTax returns round(slab tax * (1 + cess)) on the taxable income
func (o *OldRegimeCalculator) CalculateTax(income decimal.Decimal) decimal.Decimal {
	tax := progressiveTax(o.TaxableIncome(income), o.Slabs)
	return money.RoundRupees(tax.Mul(decimal.NewFromInt(1).Add(o.CessRate)))
}

// RegimeComparator compares the slab tax against the old-regime approximation
type RegimeComparator struct {
	NewRegime *IncomeTaxCalculator
	OldRegime *OldRegimeCalculator
}

// Compare recommends the cheaper regime. Ties go to the new regime.
func (rc *RegimeComparator) Compare(income decimal.Decimal) domain.RegimeComparison {
	newTax := rc.NewRegime.CalculateIncomeTax(income)
	oldTax := rc.OldRegime.CalculateTax(income)

	recommended := domain.NewRegime
	if oldTax.LessThan(newTax) {
		recommended = domain.OldRegime
	}
	return domain.RegimeComparison{
		Income:       income,
		NewRegimeTax: newTax,
		OldRegimeTax: oldTax,
		Recommended:  recommended,
		Savings:      oldTax.Sub(newTax).Abs(),
	}
}
