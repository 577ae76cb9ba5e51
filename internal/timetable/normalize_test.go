package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olsss/timetable-api/internal/models"
)

func TestParseDays(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []models.Weekday
	}{
		{"compound tuesday thursday", "TTh", []models.Weekday{models.Tuesday, models.Thursday}},
		{"compound monday wednesday", "MW", []models.Weekday{models.Monday, models.Wednesday}},
		{"compound wednesday friday", "WF", []models.Weekday{models.Wednesday, models.Friday}},
		{"thursday not t plus h", "Th", []models.Weekday{models.Thursday}},
		{"sunday not saturday", "Su", []models.Weekday{models.Sunday}},
		{"single letters", "MTF", []models.Weekday{models.Monday, models.Tuesday, models.Friday}},
		{"saturday", "S", []models.Weekday{models.Saturday}},
		{"duplicates collapse", "MM", []models.Weekday{models.Monday}},
		{"unknown runes skipped", "M-W", []models.Weekday{models.Monday, models.Wednesday}},
		{"whitespace trimmed", "  TTh ", []models.Weekday{models.Tuesday, models.Thursday}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDays(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseDaysRejectsUnrecognized(t *testing.T) {
	_, err := ParseDays("XYZ")
	require.Error(t, err)

	_, err = ParseDays("")
	require.Error(t, err)
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  models.MinuteOfDay
	}{
		{"afternoon", "2:30 PM", 870},
		{"midnight", "12:00 AM", 0},
		{"noon", "12:00 PM", 720},
		{"no space before meridiem", "9:15am", 555},
		{"hour only with meridiem", "3PM", 900},
		{"24 hour", "14:30", 870},
		{"24 hour midnight", "00:00", 0},
		{"lowercase", "11:45 pm", 1425},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseClock(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseClockRejectsMalformed(t *testing.T) {
	for _, input := range []string{"", "25:00", "12:60", "13 PM", "0 AM", "noon", "7"} {
		_, err := ParseClock(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestMinuteOfDayClock12RoundTrip(t *testing.T) {
	got, err := ParseClock(models.MinuteOfDay(870).Clock12())
	require.NoError(t, err)
	assert.Equal(t, models.MinuteOfDay(870), got)
}
