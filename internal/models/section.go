package models

import (
	"encoding/json"
	"fmt"
)

// Weekday enumerates the days a meeting row can recur on, Monday first.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// AllWeekdays lists the weekdays in display order.
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// MarshalJSON renders the weekday as its English name.
func (d Weekday) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts the English weekday name.
func (d *Weekday) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, candidate := range weekdayNames {
		if candidate == name {
			*d = Weekday(i)
			return nil
		}
	}
	return fmt.Errorf("unknown weekday %q", name)
}

// MinuteOfDay is a clock time expressed as minutes since midnight.
type MinuteOfDay int

// String renders the time in 24-hour HH:MM form.
func (m MinuteOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// Clock12 renders the time in 12-hour form for display, e.g. "2:30 PM".
func (m MinuteOfDay) Clock12() string {
	hour := int(m) / 60
	minute := int(m) % 60
	suffix := "AM"
	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		suffix = "PM"
	case hour > 12:
		hour -= 12
		suffix = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", hour, minute, suffix)
}

// RawRow is one record of an uploaded catalog file before normalization.
type RawRow struct {
	Line       int
	CourseCode string
	Section    string
	Title      string
	Day        string
	Start      string
	End        string
	Room       string
	Instructor string
}

// Section is one normalized weekly meeting row of a course section.
type Section struct {
	CourseCode string      `json:"courseCode"`
	SectionID  string      `json:"sectionId"`
	Title      string      `json:"title"`
	Weekdays   []Weekday   `json:"weekdays"`
	Start      MinuteOfDay `json:"start"`
	End        MinuteOfDay `json:"end"`
	Room       string      `json:"room"`
	Instructor string      `json:"instructor"`
}

// SectionGroup bundles every meeting row sharing one (course, section)
// identity. Conflict checking always operates on the whole group.
type SectionGroup struct {
	CourseCode string    `json:"courseCode"`
	SectionID  string    `json:"sectionId"`
	Title      string    `json:"title"`
	Instructor string    `json:"instructor"`
	Rows       []Section `json:"rows"`
}

// RowError reports a catalog row that was excluded during load, with enough
// context for the caller to surface it.
type RowError struct {
	Line       int    `json:"line"`
	CourseCode string `json:"courseCode"`
	SectionID  string `json:"sectionId"`
	Field      string `json:"field"`
	Reason     string `json:"reason"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d (%s %s): %s: %s", e.Line, e.CourseCode, e.SectionID, e.Field, e.Reason)
}
