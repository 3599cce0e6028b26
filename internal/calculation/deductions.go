package calculation

import (
	"fmt"

	"github.com/freelancetax/taxdesk/internal/domain"
	money "github.com/freelancetax/taxdesk/pkg/decimal"
	"github.com/shopspring/decimal"
)

// BucketRule suggests a contribution toward the capped 80C-equivalent bucket
// once income is strictly above Threshold.
type BucketRule struct {
	Threshold   decimal.Decimal
	Limit       decimal.Decimal
	Section     string
	Description string
}

// DeductionPlanner suggests deductions for a gross income and its business expenses
type DeductionPlanner struct {
	TaxCalc        *IncomeTaxCalculator
	BucketCap      decimal.Decimal
	BucketRules    []BucketRule
	HomeOfficeRate decimal.Decimal
}

// NewDeductionPlanner creates a planner with the fixed 80C-equivalent rules
func NewDeductionPlanner(taxCalc *IncomeTaxCalculator) *DeductionPlanner {
	return &DeductionPlanner{
		TaxCalc:   taxCalc,
		BucketCap: decimal.NewFromInt(150000),
		BucketRules: []BucketRule{
			{
				Threshold:   decimal.NewFromInt(300000),
				Limit:       decimal.NewFromInt(50000),
				Section:     domain.SectionRetirementSavings,
				Description: "Retirement-savings deduction (PPF/EPF contribution)",
			},
			{
				Threshold:   decimal.NewFromInt(400000),
				Limit:       decimal.NewFromInt(60000),
				Section:     domain.SectionMarketLinked,
				Description: "Market-linked savings deduction (ELSS mutual funds)",
			},
			{
				Threshold:   decimal.NewFromInt(500000),
				Limit:       decimal.NewFromInt(40000),
				Section:     domain.SectionInsurancePremium,
				Description: "Insurance-premium deduction (life insurance)",
			},
		},
		HomeOfficeRate: decimal.NewFromFloat(0.25),
	}
}

// Plan builds the deduction plan. Line order is: bucket lines in rule order,
// business expenses in the caller's order, then the home-office allowance.
func (p *DeductionPlanner) Plan(income decimal.Decimal, expenses domain.ExpenseMap) domain.DeductionPlan {
	income = money.ClampZero(income)
	lines := make([]domain.DeductionLine, 0, len(p.BucketRules)+len(expenses)+1)

	remaining := p.BucketCap
	for _, rule := range p.BucketRules {
		if !income.GreaterThan(rule.Threshold) || !remaining.IsPositive() {
			continue
		}
		amount := decimal.Min(rule.Limit, remaining)
		remaining = remaining.Sub(amount)
		lines = append(lines, domain.DeductionLine{Section: rule.Section, Amount: amount, Description: rule.Description})
	}

	for _, e := range expenses {
		if !e.Amount.IsPositive() {
			continue
		}
		lines = append(lines, domain.DeductionLine{
			Section:     domain.SectionBusinessExpense,
			Amount:      e.Amount,
			Description: "Business expense: " + e.Category,
		})
	}

	lines = append(lines, domain.DeductionLine{
		Section:     domain.SectionHomeOffice,
		Amount:      money.PercentOf(income, p.HomeOfficeRate),
		Description: fmt.Sprintf("Home office allowance (%s%% of income)", p.HomeOfficeRate.Shift(2).String()),
	})

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	taxable := money.ClampZero(income.Sub(total))

	return domain.DeductionPlan{
		Income:          income,
		Deductions:      lines,
		TotalDeductions: total,
		TaxableIncome:   taxable,
		PossibleSavings: p.TaxCalc.CalculateIncomeTax(income).Sub(p.TaxCalc.CalculateIncomeTax(taxable)),
	}
}
