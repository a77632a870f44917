package game

import (
	"time"
	_ "time/tzdata"
)

// Eastern is the league's scheduling timezone. Game dates are ET calendar
// dates regardless of where the provider stamped them.
var Eastern = mustLoadLocation("America/New_York")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// ETDate truncates t to midnight of its ET calendar date.
func ETDate(t time.Time) time.Time {
	et := t.In(Eastern)
	return time.Date(et.Year(), et.Month(), et.Day(), 0, 0, 0, 0, Eastern)
}

// DateOnly builds midnight ET for a calendar date.
func DateOnly(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, Eastern)
}

// ParseDate accepts YYYY-MM-DD and RFC3339 forms and returns midnight ET.
func ParseDate(raw string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", raw, Eastern); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return ETDate(t), nil
}

// IsMidnightPlaceholder reports whether t sits exactly on ET midnight, which
// providers use when they do not know the tip-off time.
func IsMidnightPlaceholder(t time.Time) bool {
	return isMidnight(t.In(Eastern))
}

// IsUTCMidnightPlaceholder reports whether t is 00:00Z on the game's own
// calendar date. A real 7pm EST or 8pm EDT tip-off also lands on 00:00Z, but
// on the following UTC day, so it is not mistaken for a placeholder.
func IsUTCMidnightPlaceholder(t, date time.Time) bool {
	u := t.UTC()
	if !isMidnight(u) || date.IsZero() {
		return false
	}
	y, m, d := date.In(Eastern).Date()
	uy, um, ud := u.Date()
	return y == uy && m == um && d == ud
}

func isMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}
