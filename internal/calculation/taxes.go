package calculation

import (
	money "github.com/freelancetax/taxdesk/pkg/decimal"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Income tax slabs: one fixed table of seven slabs (0% to 30%), no surcharge,
//    no rebate, no cess. The same table applies to every fiscal year.
//
// 2. TDS: a flat 10% withheld by the payer on every TDS-flagged payment.
//
// 3. GST: 18% on GST-applicable invoices. Registration is suggested once
//    aggregate income exceeds 20 lakh.
//
// 4. Negative income is outside the contract of these calculators. It is
//    clamped to zero rather than rejected; the engine rejects it earlier.

// TaxSlab represents an income band taxed at a marginal rate. A zero Max marks the open top slab.
type TaxSlab struct {
	Min  decimal.Decimal
	Max  decimal.Decimal
	Rate decimal.Decimal
}

// IncomeTaxCalculator handles slab tax, TDS and GST arithmetic
type IncomeTaxCalculator struct {
	Slabs        []TaxSlab
	TDSRate      decimal.Decimal
	GSTRate      decimal.Decimal
	GSTThreshold decimal.Decimal
}

// NewIncomeTaxCalculator creates a calculator carrying the statutory slab table
func NewIncomeTaxCalculator() *IncomeTaxCalculator {
	return &IncomeTaxCalculator{
		Slabs: []TaxSlab{
			{decimal.Zero, decimal.NewFromInt(250000), decimal.Zero},
			{decimal.NewFromInt(250000), decimal.NewFromInt(500000), decimal.NewFromFloat(0.05)},
			{decimal.NewFromInt(500000), decimal.NewFromInt(750000), decimal.NewFromFloat(0.10)},
			{decimal.NewFromInt(750000), decimal.NewFromInt(1000000), decimal.NewFromFloat(0.15)},
			{decimal.NewFromInt(1000000), decimal.NewFromInt(1250000), decimal.NewFromFloat(0.20)},
			{decimal.NewFromInt(1250000), decimal.NewFromInt(1500000), decimal.NewFromFloat(0.25)},
			{decimal.NewFromInt(1500000), decimal.Zero, decimal.NewFromFloat(0.30)},
		},
		TDSRate:      decimal.NewFromFloat(0.10),
		GSTRate:      decimal.NewFromFloat(0.18),
		GSTThreshold: decimal.NewFromInt(2000000),
	}
}

// CalculateIncomeTax calculates slab tax on totalIncome, rounded to whole rupees
func (c *IncomeTaxCalculator) CalculateIncomeTax(totalIncome decimal.Decimal) decimal.Decimal {
	return money.RoundRupees(progressiveTax(money.ClampZero(totalIncome), c.Slabs))
}

// ApplyTDS returns the tax withheld at source on amount
func (c *IncomeTaxCalculator) ApplyTDS(amount decimal.Decimal) decimal.Decimal {
	return money.PercentOf(amount, c.TDSRate)
}

// CalculateGST returns GST charged on amount
func (c *IncomeTaxCalculator) CalculateGST(amount decimal.Decimal) decimal.Decimal {
	return money.PercentOf(amount, c.GSTRate)
}

// CheckGSTThreshold reports whether totalIncome is strictly above the GST registration threshold
func (c *IncomeTaxCalculator) CheckGSTThreshold(totalIncome decimal.Decimal) bool {
	return totalIncome.GreaterThan(c.GSTThreshold)
}

// progressiveTax applies each slab's rate to the part of income inside the slab. Unrounded.
func progressiveTax(income decimal.Decimal, slabs []TaxSlab) decimal.Decimal {
	var tax decimal.Decimal
	for _, slab := range slabs {
		if income.LessThanOrEqual(slab.Min) {
			break
		}
		upper := income
		if !slab.Max.IsZero() {
			upper = decimal.Min(income, slab.Max)
		}
		inSlab := upper.Sub(slab.Min)
		if inSlab.GreaterThan(decimal.Zero) {
			tax = tax.Add(inSlab.Mul(slab.Rate))
		}
	}
	return tax
}
