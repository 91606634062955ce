package timeslot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) TimeOfDay {
	t.Helper()
	tod, err := ParseTimeOfDay(s)
	require.NoError(t, err)
	return tod
}

func interval(t *testing.T, date time.Time, start, end string) Interval {
	t.Helper()
	return Interval{Date: date, Start: mustParse(t, start), End: mustParse(t, end)}
}

func TestOverlaps(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	nextDay := day.AddDate(0, 0, 1)

	tests := []struct {
		name     string
		a, b     Interval
		expected bool
	}{
		{
			name:     "fully contained",
			a:        interval(t, day, "08:00", "12:00"),
			b:        interval(t, day, "09:00", "10:00"),
			expected: true,
		},
		{
			name:     "partial overlap",
			a:        interval(t, day, "08:00", "12:00"),
			b:        interval(t, day, "11:30", "13:00"),
			expected: true,
		},
		{
			name:     "identical",
			a:        interval(t, day, "08:00", "12:00"),
			b:        interval(t, day, "08:00", "12:00"),
			expected: true,
		},
		{
			name:     "adjacent is not overlap",
			a:        interval(t, day, "09:00", "12:00"),
			b:        interval(t, day, "12:00", "13:00"),
			expected: false,
		},
		{
			name:     "disjoint",
			a:        interval(t, day, "08:00", "10:00"),
			b:        interval(t, day, "14:00", "18:00"),
			expected: false,
		},
		{
			name:     "same times different date",
			a:        interval(t, day, "08:00", "12:00"),
			b:        interval(t, nextDay, "08:00", "12:00"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Overlaps(tt.b))
			// overlap is symmetric
			assert.Equal(t, tt.expected, tt.b.Overlaps(tt.a))
		})
	}
}

func TestOverlapsSelf(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	iv := interval(t, day, "08:00", "12:00")
	assert.True(t, iv.Overlaps(iv))
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expectedStart string
		expectedEnd   string
		ok            bool
	}{
		{name: "plain", input: "08:00-12:00", expectedStart: "08:00", expectedEnd: "12:00", ok: true},
		{name: "whitespace around separator", input: "08:00 - 12:00", expectedStart: "08:00", expectedEnd: "12:00", ok: true},
		{name: "multi segment keeps first", input: "08:00-12:00,14:00-18:00", expectedStart: "08:00", expectedEnd: "12:00", ok: true},
		{name: "no separator", input: "08:00", ok: false},
		{name: "bad start", input: "8h-12:00", ok: false},
		{name: "bad end", input: "08:00-noon", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := ParseRange(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expectedStart, start.String())
				assert.Equal(t, tt.expectedEnd, end.String())
			}
		})
	}
}

func TestRangeFormat(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	iv := interval(t, day, "08:00", "12:30")
	assert.Equal(t, "08:00-12:30", iv.Range())
}

func TestSameDate(t *testing.T) {
	morning := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 3, 15, 22, 0, 0, 0, time.UTC)
	next := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDate(morning, evening))
	assert.False(t, SameDate(morning, next))
}
