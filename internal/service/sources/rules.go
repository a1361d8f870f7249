package sources

import (
	"time"
)

// Dates produced by the rule helpers are civil dates: midnight UTC carrying only
// year, month and day. Clock times and zones are attached by the emitter.

func civil(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func parseCivil(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic("sources: bad table date " + s)
	}
	return t
}

func isWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// ShiftWeekend moves Saturday forward two days and Sunday forward one.
// Public holidays are not considered.
func ShiftWeekend(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, 2)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	}
	return d
}

// NthWeekday returns the n-th (1-based) given weekday of the month.
func NthWeekday(year int, month time.Month, wd time.Weekday, n int) time.Time {
	first := civil(year, month, 1)
	offset := (int(wd) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, offset+(n-1)*7)
}

// FirstWeekday returns the first given weekday of the month.
func FirstWeekday(year int, month time.Month, wd time.Weekday) time.Time {
	return NthWeekday(year, month, wd, 1)
}

// LastWeekday returns the last given weekday of the month.
func LastWeekday(year int, month time.Month, wd time.Weekday) time.Time {
	last := civil(year, month+1, 0)
	offset := (int(last.Weekday()) - int(wd) + 7) % 7
	return last.AddDate(0, 0, -offset)
}

// NthBusinessDay returns the n-th Monday-to-Friday day of the month.
func NthBusinessDay(year int, month time.Month, n int) time.Time {
	d := civil(year, month, 1)
	count := 0
	for {
		if !isWeekend(d) {
			count++
			if count == n {
				return d
			}
		}
		d = d.AddDate(0, 0, 1)
	}
}

// DayOfMonthShifted returns the given day of the month moved forward over a weekend.
func DayOfMonthShifted(year int, month time.Month, day int) time.Time {
	return ShiftWeekend(civil(year, month, day))
}

// monthKey formats the table key of a month.
func monthKey(year int, month time.Month) string {
	return civil(year, month, 1).Format("2006-01")
}

// monthTable maps "YYYY-MM" to the exact published release date of that month.
type monthTable map[string]string

func (t monthTable) lookup(year int, month time.Month) (time.Time, bool) {
	s, ok := t[monthKey(year, month)]
	if !ok {
		return time.Time{}, false
	}
	return parseCivil(s), true
}

// lastMonth returns the latest month covered by the table.
func (t monthTable) lastMonth() string {
	var last string
	for k := range t {
		if k > last {
			last = k
		}
	}
	return last
}

// dateTable is an ordered list of explicit release dates.
type dateTable []string

func (t dateTable) dates() []time.Time {
	out := make([]time.Time, 0, len(t))
	for _, s := range t {
		out = append(out, parseCivil(s))
	}
	return out
}

func (t dateTable) last() time.Time {
	if len(t) == 0 {
		return time.Time{}
	}
	return parseCivil(t[len(t)-1])
}

// Span is a calendar distance used by windows.
type Span struct {
	Months int
	Days   int
}

func (s Span) isZero() bool { return s.Months == 0 && s.Days == 0 }

// Window bounds a generator's output relative to the reference instant.
// A zero Ahead span means no upper bound.
type Window struct {
	Back  Span
	Ahead Span
}

// From returns the earliest instant in the window.
func (w Window) From(ref time.Time) time.Time {
	return ref.AddDate(0, -w.Back.Months, -w.Back.Days)
}

// To returns the latest instant in the window and whether the window is bounded.
func (w Window) To(ref time.Time) (time.Time, bool) {
	if w.Ahead.isZero() {
		return time.Time{}, false
	}
	return ref.AddDate(0, w.Ahead.Months, w.Ahead.Days), true
}

// Contains reports whether instant t lies inside the window around ref.
func (w Window) Contains(ref, t time.Time) bool {
	if t.Before(w.From(ref)) {
		return false
	}
	if to, ok := w.To(ref); ok && t.After(to) {
		return false
	}
	return true
}

// months lists the (year, month) pairs a bounded window can touch, with one
// month of slack on each side for zone conversion.
func (w Window) months(ref time.Time) []time.Time {
	from := w.From(ref)
	to, ok := w.To(ref)
	if !ok {
		to = ref.AddDate(1, 0, 0)
	}
	start := civil(from.Year(), from.Month()-1, 1)
	end := civil(to.Year(), to.Month()+1, 1)

	var out []time.Time
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		out = append(out, m)
	}
	return out
}

var (
	oneWeekBack      = Span{Days: 7}
	threeMonths      = Span{Months: 3}
	fourMonths       = Span{Months: 4}
	sixMonths        = Span{Months: 6}
	meetingWindow    = Window{Back: oneWeekBack}
	shortRuleWindow  = Window{Back: oneWeekBack, Ahead: threeMonths}
	longRuleWindow   = Window{Back: oneWeekBack, Ahead: sixMonths}
	quarterRoundTrip = Window{Back: threeMonths, Ahead: threeMonths}
)
