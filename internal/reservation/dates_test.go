package reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestNormalize(t *testing.T) {
	in := time.Date(2025, 6, 10, 23, 59, 59, 999, time.FixedZone("CET", 3600))
	got := Normalize(in)

	assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, "2025-06-10", Format(in))
}

func TestFormat_ZeroPads(t *testing.T) {
	assert.Equal(t, "0987-01-05", Format(time.Date(987, 1, 5, 0, 0, 0, 0, time.UTC)))
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		ok   bool
		want time.Time
	}{
		{"2025-06-10", true, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)},
		{"2024-02-29", true, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"", false, time.Time{}},
		{"not-a-date", false, time.Time{}},
		{"2025-6-10", false, time.Time{}},
		{"2025-02-30", false, time.Time{}},
		{"2025-13-01", false, time.Time{}},
		{"2025-06-10T00:00:00Z", false, time.Time{}},
		{"10/06/2025", false, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Parse(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToday_UsesClockCalendarDate(t *testing.T) {
	madrid := time.FixedZone("CEST", 2*3600)
	// 23:30 UTC on the 9th is already the 10th in Madrid.
	instant := time.Date(2025, 6, 9, 23, 30, 0, 0, time.UTC).In(madrid)

	assert.Equal(t, "2025-06-10", Format(Today(FixedClock{Instant: instant})))
	assert.Equal(t, "2025-06-09", Format(Today(FixedClock{Instant: instant.UTC()})))
}

func genDate(t *rapid.T) time.Time {
	return time.Date(
		rapid.IntRange(1, 9999).Draw(t, "year"),
		time.Month(rapid.IntRange(1, 12).Draw(t, "month")),
		rapid.IntRange(1, 31).Draw(t, "day"),
		rapid.IntRange(0, 23).Draw(t, "hour"),
		rapid.IntRange(0, 59).Draw(t, "min"),
		rapid.IntRange(0, 59).Draw(t, "sec"),
		rapid.IntRange(0, 999999999).Draw(t, "nsec"),
		time.UTC,
	)
}

func TestProperty_NormalizeIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := genDate(t)
		if Normalize(Normalize(d)) != Normalize(d) {
			t.Fatalf("normalize not idempotent for %v", d)
		}
	})
}

func TestProperty_FormatParseRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := Normalize(genDate(t))
		got, ok := Parse(Format(d))
		if !ok || !got.Equal(d) {
			t.Fatalf("round trip of %v gave %v (ok=%v)", d, got, ok)
		}
	})
}
