package models

// Combination is one candidate timetable: exactly one section group per
// course dimension, flattened. Immutable once produced.
type Combination struct {
	Groups []SectionGroup `json:"groups"`
}

// CourseSummary identifies one chosen section for display.
type CourseSummary struct {
	CourseCode string `json:"courseCode"`
	SectionID  string `json:"sectionId"`
	Title      string `json:"title"`
	Instructor string `json:"instructor"`
}

// MeetingEntry is one meeting of a combination projected onto a weekday.
type MeetingEntry struct {
	CourseCode string      `json:"courseCode"`
	SectionID  string      `json:"sectionId"`
	Title      string      `json:"title"`
	Start      MinuteOfDay `json:"start"`
	End        MinuteOfDay `json:"end"`
	TimeRange  string      `json:"timeRange"`
	Room       string      `json:"room"`
	Instructor string      `json:"instructor"`
}

// DaySchedule lists one weekday's meetings ordered by start time.
type DaySchedule struct {
	Day      Weekday        `json:"day"`
	Meetings []MeetingEntry `json:"meetings"`
}

// WeekScheduleView is the display projection of an accepted combination.
type WeekScheduleView struct {
	Courses []CourseSummary `json:"courses"`
	Days    []DaySchedule   `json:"days"`
}
