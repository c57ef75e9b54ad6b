package reservation

import (
	"fmt"
	"time"
)

// DateLayout is the only accepted wire format for reservation dates.
const DateLayout = "2006-01-02"

// Clock supplies the current instant. It is the only time-dependent input of the
// package, so tests pin it with FixedClock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock, optionally in a fixed location so that "today"
// follows the shop's calendar rather than the server's.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	now := time.Now()
	if c.Location != nil {
		return now.In(c.Location)
	}
	return now
}

// FixedClock always returns the same instant.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time {
	return c.Instant
}

// Normalize drops the time of day, keeping the calendar fields of t as they are.
// The result is midnight UTC of that calendar date.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Format renders the calendar date of t as zero padded YYYY-MM-DD.
func Format(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// Parse reads a YYYY-MM-DD date. Malformed input, empty input and dates that do not
// exist on the calendar all report ok=false.
func Parse(s string) (time.Time, bool) {
	if len(s) != len(DateLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return Normalize(t), true
}

// Today returns the normalized current date of c.
func Today(c Clock) time.Time {
	return Normalize(c.Now())
}
