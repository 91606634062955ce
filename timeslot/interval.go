package timeslot

import (
	"strings"
	"time"
)

// Source records which representation an interval was normalized from.
type Source int

const (
	// SourceStructured means the interval came from dedicated start/end columns.
	SourceStructured Source = iota
	// SourceLegacy means the interval was recovered from a free-text
	// "HH:MM-HH:MM" range kept for records predating the structured columns.
	SourceLegacy
)

// Interval is a half-open [Start, End) time range on a calendar date.
// It is a comparison value, never persisted.
type Interval struct {
	Date   time.Time
	Start  TimeOfDay
	End    TimeOfDay
	Source Source
}

// Overlaps reports whether the two intervals share a positive-length stretch
// of the same day. Touching endpoints (a.End == b.Start) do not overlap, so
// back-to-back entries are always allowed. Intervals on different dates never
// overlap.
func (iv Interval) Overlaps(other Interval) bool {
	if !SameDate(iv.Date, other.Date) {
		return false
	}
	return iv.Start < other.End && other.Start < iv.End
}

// Range formats the interval as "HH:MM-HH:MM" for diagnostics.
func (iv Interval) Range() string {
	return iv.Start.String() + "-" + iv.End.String()
}

// ParseRange recovers a [start, end) pair from a legacy free-text range.
// Only the first comma-separated token is authoritative; whitespace around
// the "-" separator is tolerated. Malformed input yields ok == false, never
// an error: unparseable historical rows are skipped during comparison rather
// than blocking a worker's future writes.
func ParseRange(text string) (start, end TimeOfDay, ok bool) {
	first := text
	if i := strings.IndexByte(first, ','); i >= 0 {
		first = first[:i]
	}
	parts := strings.SplitN(first, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	start, err := ParseTimeOfDay(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	end, err = ParseTimeOfDay(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return start, end, true
}

// SameDate reports whether two timestamps fall on the same calendar day.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
