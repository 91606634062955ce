// Package timeslot models clock times and half-open daily intervals used to
// validate worked-hours records.
package timeslot

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimeOfDay is a clock time expressed as minutes since midnight.
// Valid values are in [0, 1440); entries never span midnight.
type TimeOfDay int

const minutesPerDay = 24 * 60

// ParseTimeOfDay parses a 24-hour "HH:MM" string. Seconds are tolerated and
// ignored ("HH:MM:SS"), as postgres time columns round-trip that way.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	if len(s) > 5 && s[5] == ':' {
		s = s[:5]
	}
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	var h, m int
	if _, err := fmt.Sscanf(s, "%02d:%02d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return TimeOfDay(h*60 + m), nil
}

// String formats the time as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// IsValid reports whether the value lies within a single day.
func (t TimeOfDay) IsValid() bool {
	return t >= 0 && t < minutesPerDay
}

// MarshalJSON encodes the time as an "HH:MM" JSON string.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes an "HH:MM" (or "HH:MM:SS") JSON string.
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value implements driver.Valuer so the type maps onto a postgres time column.
func (t TimeOfDay) Value() (driver.Value, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("time of day %d out of range", int(t))
	}
	return t.String() + ":00", nil
}

// Scan implements sql.Scanner. Drivers hand back time columns as time.Time,
// string, or []byte depending on configuration.
func (t *TimeOfDay) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return fmt.Errorf("cannot scan NULL into TimeOfDay; use *TimeOfDay")
	case time.Time:
		*t = TimeOfDay(v.Hour()*60 + v.Minute())
		return nil
	case string:
		parsed, err := ParseTimeOfDay(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case []byte:
		parsed, err := ParseTimeOfDay(string(v))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", src)
	}
}
