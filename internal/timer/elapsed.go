// Package timer reports how long the shared clock has been running, with a
// calendar-aware breakdown rather than a flat division by 365 days.
package timer

import "time"

// Elapsed is the broken-down duration since the start instant.
type Elapsed struct {
	Years   int `json:"years"`
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// addYears shifts a timestamp by whole calendar years. A February 29 start
// lands on February 28 in non-leap years instead of rolling into March.
func addYears(value time.Time, years int) time.Time {
	year := value.Year() + years
	month, day := value.Month(), value.Day()
	if month == time.February && day == 29 && !isLeapYear(year) {
		day = 28
	}
	return time.Date(year, month, day,
		value.Hour(), value.Minute(), value.Second(), value.Nanosecond(), value.Location())
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// calculateElapsed counts full calendar years first, then splits the
// remainder into days/hours/minutes/seconds. totalSeconds is the plain
// wall-clock difference.
func calculateElapsed(start, now time.Time) (Elapsed, int64) {
	years := 0
	for !addYears(start, years+1).After(now) {
		years++
	}

	anchor := addYears(start, years)
	remainder := int64(now.Sub(anchor) / time.Second)
	secondsOfDay := remainder % 86400

	elapsed := Elapsed{
		Years:   years,
		Days:    int(remainder / 86400),
		Hours:   int(secondsOfDay / 3600),
		Minutes: int(secondsOfDay % 3600 / 60),
		Seconds: int(secondsOfDay % 60),
	}

	return elapsed, int64(now.Sub(start) / time.Second)
}
