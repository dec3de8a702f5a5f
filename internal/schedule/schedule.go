// Package schedule provides the calendar arithmetic shared by the
// recurrence-based event providers: nth-weekday rules, weekend
// observance shifts and the Gregorian Easter computus. All functions
// operate on UTC dates at midnight.
package schedule

import "time"

// NthWeekday returns the nth occurrence of the given weekday in the
// month, counting forward from the 1st. n is 1-based; callers are
// expected to request occurrences that exist (n between 1 and 4 is
// always safe).
func NthWeekday(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, offset+(n-1)*7)
}

// LastWeekday returns the final occurrence of the given weekday in the
// month, counting backward from the month's last day.
func LastWeekday(year int, month time.Month, weekday time.Weekday) time.Time {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	offset := (int(last.Weekday()) - int(weekday) + 7) % 7
	return last.AddDate(0, 0, -offset)
}

// EasterSunday returns Easter Sunday for the year in the Gregorian
// calendar, using the Meeus/Jones/Butcher algorithm.
func EasterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// GoodFriday returns the Friday before Easter Sunday.
func GoodFriday(year int) time.Time {
	return EasterSunday(year).AddDate(0, 0, -2)
}

// Observed shifts a fixed-date holiday onto the nearest business day:
// Saturday observes on the preceding Friday, Sunday on the following
// Monday. Weekday dates pass through unchanged.
func Observed(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, -1)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	}
	return d
}

// RollForwardWeekend moves weekend dates forward to the next Monday.
// Used by fixtures that always publish on or after a fixed day of the
// month, never before.
func RollForwardWeekend(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, 2)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	}
	return d
}

// NextWeekdayOnOrAfter returns the first date with the given weekday
// that is on or after d.
func NextWeekdayOnOrAfter(d time.Time, weekday time.Weekday) time.Time {
	offset := (int(weekday) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, offset)
}

// EachWeekday returns every date with the given weekday in [from, to],
// inclusive on both ends, in ascending order.
func EachWeekday(from, to time.Time, weekday time.Weekday) []time.Time {
	var out []time.Time
	for d := NextWeekdayOnOrAfter(from, weekday); !d.After(to); d = d.AddDate(0, 0, 7) {
		out = append(out, d)
	}
	return out
}

// Window expands an anchor date into the calendar window the collection
// run covers: the first day of the month monthsBack months before the
// anchor through the last day of the month monthsAhead months after it.
func Window(anchor time.Time, monthsBack, monthsAhead int) (time.Time, time.Time) {
	year, month, _ := anchor.UTC().Date()
	start := time.Date(year, month-time.Month(monthsBack), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, month+time.Month(monthsAhead)+1, 0, 0, 0, 0, 0, time.UTC)
	return start, end
}
