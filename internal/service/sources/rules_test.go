package sources

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShiftWeekend(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2025-03-14", "2025-03-14"}, // Friday
		{"2025-03-15", "2025-03-17"}, // Saturday
		{"2025-03-16", "2025-03-17"}, // Sunday
		{"2025-03-17", "2025-03-17"},
	}
	for _, tt := range tests {
		got := ShiftWeekend(parseCivil(tt.in)).Format("2006-01-02")
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestWeekdayRules(t *testing.T) {
	assert.Equal(t, "2025-03-07", FirstWeekday(2025, time.March, time.Friday).Format("2006-01-02"))
	assert.Equal(t, "2025-03-18", NthWeekday(2025, time.March, time.Tuesday, 3).Format("2006-01-02"))
	assert.Equal(t, "2025-08-01", FirstWeekday(2025, time.August, time.Friday).Format("2006-01-02"))
	assert.Equal(t, "2025-03-31", LastWeekday(2025, time.March, time.Monday).Format("2006-01-02"))
	assert.Equal(t, "2025-04-30", LastWeekday(2025, time.April, time.Wednesday).Format("2006-01-02"))
	assert.Equal(t, "2025-12-29", LastWeekday(2025, time.December, time.Monday).Format("2006-01-02"))
}

func TestNthBusinessDay(t *testing.T) {
	// March 2025 starts on a Saturday.
	assert.Equal(t, "2025-03-03", NthBusinessDay(2025, time.March, 1).Format("2006-01-02"))
	assert.Equal(t, "2025-03-05", NthBusinessDay(2025, time.March, 3).Format("2006-01-02"))
	assert.Equal(t, "2025-03-18", NthBusinessDay(2025, time.March, 12).Format("2006-01-02"))
	assert.Equal(t, "2025-10-01", NthBusinessDay(2025, time.October, 1).Format("2006-01-02"))
}

func TestDayOfMonthShifted(t *testing.T) {
	// 2025-06-15 is a Sunday, 2025-11-15 a Saturday.
	assert.Equal(t, "2025-06-16", DayOfMonthShifted(2025, time.June, 15).Format("2006-01-02"))
	assert.Equal(t, "2025-11-17", DayOfMonthShifted(2025, time.November, 15).Format("2006-01-02"))
	assert.Equal(t, "2025-05-13", DayOfMonthShifted(2025, time.May, 13).Format("2006-01-02"))
}

func TestWindowContains(t *testing.T) {
	ref := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

	assert.True(t, shortRuleWindow.Contains(ref, ref.AddDate(0, 0, -7)))
	assert.False(t, shortRuleWindow.Contains(ref, ref.AddDate(0, 0, -8)))
	assert.True(t, shortRuleWindow.Contains(ref, ref.AddDate(0, 3, 0)))
	assert.False(t, shortRuleWindow.Contains(ref, ref.AddDate(0, 3, 1)))

	assert.True(t, meetingWindow.Contains(ref, ref.AddDate(5, 0, 0)))
	assert.False(t, meetingWindow.Contains(ref, ref.AddDate(0, 0, -8)))
}

func TestMonthTableLookup(t *testing.T) {
	d, ok := nfpDates.lookup(2025, time.July)
	assert.True(t, ok)
	assert.Equal(t, "2025-07-03", d.Format("2006-01-02"))

	_, ok = nfpDates.lookup(2027, time.July)
	assert.False(t, ok)
	assert.Equal(t, "2026-02", nfpDates.lastMonth())
}
