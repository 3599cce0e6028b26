package calculation

import (
	"time"

	"github.com/freelancetax/taxdesk/internal/domain"
	money "github.com/freelancetax/taxdesk/pkg/decimal"
	"github.com/freelancetax/taxdesk/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// checkpoint is the advance-tax state for a range of calendar months.
type checkpoint struct {
	lastMonth  time.Month // inclusive
	percentage decimal.Decimal
	dueMonth   time.Month
	yearOffset int
}

// DueDateScheduler maps the current month to the next advance-tax installment.
// It is a pure function of the date; no schedule state is kept.
type DueDateScheduler struct {
	checkpoints []checkpoint
}

// NewDueDateScheduler creates the scheduler for the four yearly checkpoints
func NewDueDateScheduler() *DueDateScheduler {
	return &DueDateScheduler{
		checkpoints: []checkpoint{
			{lastMonth: time.May, percentage: decimal.Zero, dueMonth: time.June},
			{lastMonth: time.August, percentage: decimal.NewFromFloat(0.15), dueMonth: time.September},
			{lastMonth: time.November, percentage: decimal.NewFromFloat(0.45), dueMonth: time.December},
			{lastMonth: time.December, percentage: decimal.NewFromFloat(0.75), dueMonth: time.March, yearOffset: 1},
		},
	}
}

func (s *DueDateScheduler) current(today time.Time) (checkpoint, time.Time) {
	cp := s.checkpoints[len(s.checkpoints)-1]
	for _, c := range s.checkpoints {
		if today.Month() <= c.lastMonth {
			cp = c
			break
		}
	}
	due := time.Date(today.Year()+cp.yearOffset, cp.dueMonth, 15, 0, 0, 0, 0, today.Location())
	return cp, due
}

// AdvanceTaxDue returns the share of estimatedTax due by now and the next due date
func (s *DueDateScheduler) AdvanceTaxDue(today time.Time, estimatedTax decimal.Decimal) domain.AdvanceTaxDue {
	cp, due := s.current(today)
	return domain.AdvanceTaxDue{
		AmountDue:     money.PercentOf(estimatedTax, cp.percentage),
		NextDueDate:   dateutil.FormatDueDate(due),
		PercentageDue: cp.percentage,
	}
}

// NextDueDateLabel returns only the upcoming due date, e.g. "September 15, 2026"
func (s *DueDateScheduler) NextDueDateLabel(today time.Time) string {
	_, due := s.current(today)
	return dateutil.FormatDueDate(due)
}

// Installments lists the statutory checkpoints of the fiscal year starting in fyStart
// with the cumulative share of annual tax due by each.
func (s *DueDateScheduler) Installments(fyStart int, loc *time.Location) []domain.Installment {
	shares := []decimal.Decimal{
		decimal.NewFromFloat(0.15),
		decimal.NewFromFloat(0.45),
		decimal.NewFromFloat(0.75),
		decimal.NewFromInt(1),
	}
	dates := dateutil.AdvanceTaxDates(fyStart, loc)
	out := make([]domain.Installment, len(dates))
	for i, d := range dates {
		out[i] = domain.Installment{DueDate: d, CumulativePercentage: shares[i]}
	}
	return out
}
