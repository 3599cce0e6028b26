package dateutil

import (
	"fmt"
	"time"
)

// FiscalYearStartMonth is the first month of the Indian fiscal year.
const FiscalYearStartMonth = time.April

// DueDateLayout renders dates as "June 15, 2026".
const DueDateLayout = "January 2, 2006"

// FiscalYearStart returns the calendar year in which the fiscal year containing date began
func FiscalYearStart(date time.Time) int {
	if date.Month() < FiscalYearStartMonth {
		return date.Year() - 1
	}
	return date.Year()
}

// FiscalYearLabel returns the conventional "2026-27" label for the fiscal year containing date
func FiscalYearLabel(date time.Time) string {
	start := FiscalYearStart(date)
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}

// FiscalYearRange returns the first and last instant of the fiscal year containing date
func FiscalYearRange(date time.Time) (time.Time, time.Time) {
	start := time.Date(FiscalYearStart(date), FiscalYearStartMonth, 1, 0, 0, 0, 0, date.Location())
	end := start.AddDate(1, 0, 0).Add(-time.Nanosecond)
	return start, end
}

// InFiscalYear checks whether date falls in the same fiscal year as ref
func InFiscalYear(date, ref time.Time) bool {
	start, end := FiscalYearRange(ref)
	d := date.In(ref.Location())
	return !d.Before(start) && !d.After(end)
}

// AdvanceTaxDates returns the four advance-tax checkpoints of the fiscal year starting in fyStart
func AdvanceTaxDates(fyStart int, loc *time.Location) []time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return []time.Time{
		time.Date(fyStart, time.June, 15, 0, 0, 0, 0, loc),
		time.Date(fyStart, time.September, 15, 0, 0, 0, 0, loc),
		time.Date(fyStart, time.December, 15, 0, 0, 0, 0, loc),
		time.Date(fyStart+1, time.March, 15, 0, 0, 0, 0, loc),
	}
}

// FormatDueDate formats a checkpoint as "September 15, 2026"
func FormatDueDate(date time.Time) string {
	return date.Format(DueDateLayout)
}
