// Package calendar compares upstream date strings with a reference day.
package calendar

import (
	"errors"
	"strings"
	"time"
)

var ErrBadDate = errors.New("unrecognised date")

var separators = strings.NewReplacer("-", ".", "/", ".")

// Normalize keeps the date part of a "2006-01-02 15:04:05" style value and rewrites
// '-' and '/' separators to '.'.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " T"); i >= 0 {
		s = s[:i]
	}
	return separators.Replace(s)
}

// Parse returns the civil date of s as midnight UTC.
func Parse(s string) (time.Time, error) {
	norm := Normalize(s)
	for _, layout := range []string{"2006.01.02", "2006.1.2"} {
		if t, err := time.Parse(layout, norm); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrBadDate
}

// Day returns the civil date of t in its own location as midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}
