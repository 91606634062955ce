package timeslot

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    TimeOfDay
		expectError bool
	}{
		{name: "midnight", input: "00:00", expected: 0},
		{name: "morning", input: "08:30", expected: 8*60 + 30},
		{name: "end of day", input: "23:59", expected: 23*60 + 59},
		{name: "with seconds", input: "14:15:00", expected: 14*60 + 15},
		{name: "surrounding whitespace", input: " 09:00 ", expected: 9 * 60},
		{name: "hour out of range", input: "24:00", expectError: true},
		{name: "minute out of range", input: "10:60", expectError: true},
		{name: "missing separator", input: "0800", expectError: true},
		{name: "garbage", input: "morning", expectError: true},
		{name: "empty", input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTimeOfDayString(t *testing.T) {
	assert.Equal(t, "00:00", TimeOfDay(0).String())
	assert.Equal(t, "08:05", TimeOfDay(8*60+5).String())
	assert.Equal(t, "23:59", TimeOfDay(23*60+59).String())
}

func TestTimeOfDayJSON(t *testing.T) {
	payload, err := json.Marshal(TimeOfDay(7*60 + 45))
	require.NoError(t, err)
	assert.Equal(t, `"07:45"`, string(payload))

	var decoded TimeOfDay
	require.NoError(t, json.Unmarshal([]byte(`"16:30"`), &decoded))
	assert.Equal(t, TimeOfDay(16*60+30), decoded)

	assert.Error(t, json.Unmarshal([]byte(`"25:00"`), &decoded))
	assert.Error(t, json.Unmarshal([]byte(`42`), &decoded))
}

func TestTimeOfDayScan(t *testing.T) {
	var tod TimeOfDay

	require.NoError(t, tod.Scan("12:30:00"))
	assert.Equal(t, TimeOfDay(12*60+30), tod)

	require.NoError(t, tod.Scan([]byte("06:15")))
	assert.Equal(t, TimeOfDay(6*60+15), tod)

	require.NoError(t, tod.Scan(time.Date(0, 1, 1, 18, 45, 0, 0, time.UTC)))
	assert.Equal(t, TimeOfDay(18*60+45), tod)

	assert.Error(t, tod.Scan(nil))
	assert.Error(t, tod.Scan(123))
}

func TestTimeOfDayValue(t *testing.T) {
	v, err := TimeOfDay(9 * 60).Value()
	require.NoError(t, err)
	assert.Equal(t, "09:00:00", v)

	_, err = TimeOfDay(-1).Value()
	assert.Error(t, err)
}
