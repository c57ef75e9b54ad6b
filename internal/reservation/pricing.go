package reservation

import (
	"math"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// DayCount returns the inclusive number of calendar days between start and end:
// floor((end - start) / 1 day) + 1. A same-day reservation is one billable day.
// The result is not clamped; end before start yields zero or a negative count.
func DayCount(start, end time.Time) int {
	secs := end.Unix() - start.Unix()
	if end.Nanosecond() < start.Nanosecond() {
		secs--
	}
	return int(floorDiv(secs, secondsPerDay)) + 1
}

// TotalPrice returns days * unitPrice rounded to cents. Non-positive day counts cost nothing.
func TotalPrice(days int, unitPrice float64) float64 {
	if days <= 0 {
		return 0
	}
	return round2(float64(days) * unitPrice)
}

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
