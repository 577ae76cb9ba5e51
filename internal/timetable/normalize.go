package timetable

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/olsss/timetable-api/internal/models"
)

// dayTokens are matched greedily in order, so two-letter tokens shadow
// their single-letter prefixes ("Th" before "T", "Su" before "S").
var dayTokens = []struct {
	token string
	days  []models.Weekday
}{
	{"TTh", []models.Weekday{models.Tuesday, models.Thursday}},
	{"MW", []models.Weekday{models.Monday, models.Wednesday}},
	{"WF", []models.Weekday{models.Wednesday, models.Friday}},
	{"Th", []models.Weekday{models.Thursday}},
	{"Su", []models.Weekday{models.Sunday}},
	{"M", []models.Weekday{models.Monday}},
	{"T", []models.Weekday{models.Tuesday}},
	{"W", []models.Weekday{models.Wednesday}},
	{"F", []models.Weekday{models.Friday}},
	{"S", []models.Weekday{models.Saturday}},
}

// ParseDays normalizes a free-text day code such as "MW" or "TTh" into a
// deduplicated weekday set in Monday-first order. Characters that start no
// known token are skipped; a result with no recognized day is an error.
func ParseDays(raw string) ([]models.Weekday, error) {
	input := strings.TrimSpace(raw)
	seen := make(map[models.Weekday]struct{})

	for i := 0; i < len(input); {
		matched := false
		for _, candidate := range dayTokens {
			if strings.HasPrefix(input[i:], candidate.token) {
				for _, day := range candidate.days {
					seen[day] = struct{}{}
				}
				i += len(candidate.token)
				matched = true
				break
			}
		}
		if !matched {
			i++
		}
	}

	if len(seen) == 0 {
		return nil, fmt.Errorf("no recognizable day tokens in %q", raw)
	}

	days := make([]models.Weekday, 0, len(seen))
	for day := range seen {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days, nil
}

// ParseClock normalizes a time string into minutes since midnight. Accepted
// forms: "H:MM AM", "h:mmpm" (case-insensitive, optional space, optional
// minutes) and 24-hour "HH:MM".
func ParseClock(raw string) (models.MinuteOfDay, error) {
	input := strings.ToUpper(strings.TrimSpace(raw))
	if input == "" {
		return 0, fmt.Errorf("empty time string")
	}

	isPM := false
	hasMeridiem := false
	switch {
	case strings.HasSuffix(input, "PM"):
		isPM = true
		hasMeridiem = true
		input = strings.TrimSpace(strings.TrimSuffix(input, "PM"))
	case strings.HasSuffix(input, "AM"):
		hasMeridiem = true
		input = strings.TrimSpace(strings.TrimSuffix(input, "AM"))
	}

	hourPart := input
	minutePart := "0"
	if idx := strings.IndexByte(input, ':'); idx >= 0 {
		hourPart = input[:idx]
		minutePart = input[idx+1:]
	} else if !hasMeridiem {
		// A bare number without AM/PM is ambiguous; reject it.
		return 0, fmt.Errorf("unrecognized time format %q", raw)
	}

	hour, err := strconv.Atoi(strings.TrimSpace(hourPart))
	if err != nil {
		return 0, fmt.Errorf("unrecognized time format %q", raw)
	}
	minute, err := strconv.Atoi(strings.TrimSpace(minutePart))
	if err != nil {
		return 0, fmt.Errorf("unrecognized time format %q", raw)
	}
	if minute < 0 || minute > 59 {
		return 0, fmt.Errorf("minute out of range in %q", raw)
	}

	if hasMeridiem {
		if hour < 1 || hour > 12 {
			return 0, fmt.Errorf("hour out of range in %q", raw)
		}
		if isPM && hour != 12 {
			hour += 12
		} else if !isPM && hour == 12 {
			hour = 0
		}
	} else if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("hour out of range in %q", raw)
	}

	return models.MinuteOfDay(hour*60 + minute), nil
}
