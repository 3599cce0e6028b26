package output

import (
	money "github.com/freelancetax/taxdesk/pkg/decimal"
	"github.com/shopspring/decimal"
)

// FormatRupees formats an amount with Indian digit grouping, e.g. "Rs. 1,12,500".
// Kept here so it can be reused by multiple formatters and unit tested in isolation.
func FormatRupees(amount decimal.Decimal) string { return money.NewMoneyFromDecimal(amount).Format() }

// FormatPercentage formats a fraction as a percentage with 2 decimals, e.g. 0.075 as "7.50%".
func FormatPercentage(fraction decimal.Decimal) string { return fraction.Shift(2).StringFixed(2) + "%" }
