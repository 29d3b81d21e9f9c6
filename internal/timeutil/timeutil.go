// Package timeutil provides the display formatting used by profile and
// feed view-models: a relative "time since" string for posts and the
// fixed date layouts for profile pages.
package timeutil

import (
	"fmt"
	"time"
)

// Display layouts for profile dates.
const (
	LayoutMonthYear = "January 2006"    // "March 2023"
	LayoutLongDate  = "January 2, 2006" // "July 4, 1990"
	LayoutISODate   = "2006-01-02"      // "1990-07-04"
)

// Calendar approximations used for the coarse units. Matches the usual
// time-ago convention: 30-day months, 365-day years.
const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day
	year  = 365 * day
)

// Relative formats the duration from t to now as the largest whole unit
// that is at least 1, e.g. "3 hours" or "2 days". No "ago" suffix. A
// duration under one second yields "0 seconds".
func Relative(t, now time.Time) string {
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}

	switch {
	case d >= year:
		return plural(int(d/year), "year")
	case d >= month:
		return plural(int(d/month), "month")
	case d >= week:
		return plural(int(d/week), "week")
	case d >= day:
		return plural(int(d/day), "day")
	case d >= time.Hour:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute:
		return plural(int(d/time.Minute), "minute")
	default:
		return plural(int(d/time.Second), "second")
	}
}

// MonthYear formats t as "March 2023".
func MonthYear(t time.Time) string {
	return t.Format(LayoutMonthYear)
}

// LongDate formats t as "July 4, 1990".
func LongDate(t time.Time) string {
	return t.Format(LayoutLongDate)
}

// ISODate formats t as "1990-07-04".
func ISODate(t time.Time) string {
	return t.Format(LayoutISODate)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
