package decimal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a rupee amount with proper financial precision
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// NewMoneyFromString creates a new Money instance from a string
func NewMoneyFromString(value string) (Money, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(value), ",", ""))
	if err != nil {
		return Money{}, err
	}
	return Money{d}, nil
}

// RoundRupees rounds to the nearest whole rupee, halves away from zero.
func RoundRupees(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

// PercentOf returns round(amount * rate) in whole rupees.
func PercentOf(amount, rate decimal.Decimal) decimal.Decimal {
	return RoundRupees(amount.Mul(rate))
}

// ClampZero returns d, or zero when d is negative.
func ClampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Format formats whole rupees with Indian digit grouping, e.g. "Rs. 12,34,567".
// Paise are shown only when non-zero.
func (m Money) Format() string {
	d := m.Decimal.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	whole := d.Truncate(0)
	out := "Rs. " + sign + GroupIndian(whole.String())
	if frac := d.Sub(whole); !frac.IsZero() {
		out += frac.StringFixed(2)[1:]
	}
	return out
}

// GroupIndian inserts lakh/crore separators into a string of digits:
// the last three digits form one group, then groups of two.
func GroupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(append(groups, tail), ",")
}
