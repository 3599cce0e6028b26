package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestFiscalYear tests fiscal year start and label derivation around the April boundary
func TestFiscalYear(t *testing.T) {
	tests := []struct {
		name          string
		date          time.Time
		expectedStart int
		expectedLabel string
		description   string
	}{
		{
			name:          "Last day of March",
			date:          time.Date(2026, 3, 31, 23, 59, 0, 0, time.UTC),
			expectedStart: 2025,
			expectedLabel: "2025-26",
			description:   "March belongs to the fiscal year that began the previous April",
		},
		{
			name:          "First day of April",
			date:          time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			expectedStart: 2026,
			expectedLabel: "2026-27",
			description:   "April starts a new fiscal year",
		},
		{
			name:          "January",
			date:          time.Date(2027, 1, 10, 0, 0, 0, 0, time.UTC),
			expectedStart: 2026,
			expectedLabel: "2026-27",
			description:   "January is in the final quarter",
		},
		{
			name:          "Century rollover label",
			date:          time.Date(2099, 6, 1, 0, 0, 0, 0, time.UTC),
			expectedStart: 2099,
			expectedLabel: "2099-00",
			description:   "Two-digit suffix wraps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedStart, FiscalYearStart(tt.date), tt.description)
			assert.Equal(t, tt.expectedLabel, FiscalYearLabel(tt.date), tt.description)
		})
	}
}

func TestFiscalYearRange(t *testing.T) {
	start, end := FiscalYearRange(time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2027, 3, 31, 23, 59, 59, 999999999, time.UTC), end)
}

func TestInFiscalYear(t *testing.T) {
	ref := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"Start boundary", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), true},
		{"Day before start", time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), false},
		{"End boundary", time.Date(2027, 3, 31, 18, 0, 0, 0, time.UTC), true},
		{"After end", time.Date(2027, 4, 1, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InFiscalYear(tt.date, ref))
		})
	}
}

func TestAdvanceTaxDates(t *testing.T) {
	dates := AdvanceTaxDates(2026, nil)
	assert.Len(t, dates, 4)
	assert.Equal(t, "June 15, 2026", FormatDueDate(dates[0]))
	assert.Equal(t, "September 15, 2026", FormatDueDate(dates[1]))
	assert.Equal(t, "December 15, 2026", FormatDueDate(dates[2]))
	assert.Equal(t, "March 15, 2027", FormatDueDate(dates[3]))
}
