package timetable

import (
	"fmt"
	"sort"

	"github.com/olsss/timetable-api/internal/models"
)

// FormatCombination projects an accepted combination into the per-weekday
// schedule view, meetings sorted by start time within each day. Pure
// projection: the input is assumed to have passed validation already.
func FormatCombination(combo models.Combination) models.WeekScheduleView {
	byDay := make(map[models.Weekday][]models.MeetingEntry)
	view := models.WeekScheduleView{}

	for _, group := range combo.Groups {
		view.Courses = append(view.Courses, models.CourseSummary{
			CourseCode: group.CourseCode,
			SectionID:  group.SectionID,
			Title:      group.Title,
			Instructor: group.Instructor,
		})
		for _, row := range group.Rows {
			entry := models.MeetingEntry{
				CourseCode: row.CourseCode,
				SectionID:  row.SectionID,
				Title:      row.Title,
				Start:      row.Start,
				End:        row.End,
				TimeRange:  fmt.Sprintf("%s-%s", row.Start.Clock12(), row.End.Clock12()),
				Room:       row.Room,
				Instructor: row.Instructor,
			}
			for _, day := range row.Weekdays {
				byDay[day] = append(byDay[day], entry)
			}
		}
	}

	sort.Slice(view.Courses, func(i, j int) bool {
		if view.Courses[i].CourseCode == view.Courses[j].CourseCode {
			return view.Courses[i].SectionID < view.Courses[j].SectionID
		}
		return view.Courses[i].CourseCode < view.Courses[j].CourseCode
	})

	for _, day := range models.AllWeekdays {
		meetings, ok := byDay[day]
		if !ok {
			continue
		}
		sort.SliceStable(meetings, func(i, j int) bool {
			return meetings[i].Start < meetings[j].Start
		})
		view.Days = append(view.Days, models.DaySchedule{Day: day, Meetings: meetings})
	}

	return view
}
