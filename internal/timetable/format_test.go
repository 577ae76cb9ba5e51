package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olsss/timetable-api/internal/models"
)

func TestFormatCombination(t *testing.T) {
	catalog := fixtureCatalog(t,
		row(1, "CS 101", "L1", "MW", "10:00 AM", "11:00 AM"),
		row(2, "MATH 201", "L1", "MF", "9:00 AM", "9:50 AM"),
	)
	cs, _ := catalog.Group("CS 101", "L1")
	math, _ := catalog.Group("MATH 201", "L1")

	view := FormatCombination(models.Combination{Groups: []models.SectionGroup{cs, math}})

	require.Len(t, view.Courses, 2)
	assert.Equal(t, "CS 101", view.Courses[0].CourseCode)

	require.Len(t, view.Days, 3)
	assert.Equal(t, models.Monday, view.Days[0].Day)
	assert.Equal(t, models.Wednesday, view.Days[1].Day)
	assert.Equal(t, models.Friday, view.Days[2].Day)

	// Monday holds both meetings, earliest start first.
	monday := view.Days[0]
	require.Len(t, monday.Meetings, 2)
	assert.Equal(t, "MATH 201", monday.Meetings[0].CourseCode)
	assert.Equal(t, "9:00 AM-9:50 AM", monday.Meetings[0].TimeRange)
	assert.Equal(t, "CS 101", monday.Meetings[1].CourseCode)
}

func TestFormatCombinationSkipsEmptyDays(t *testing.T) {
	catalog := fixtureCatalog(t,
		row(1, "CS 101", "L1", "Su", "10:00 AM", "11:00 AM"),
	)
	cs, _ := catalog.Group("CS 101", "L1")

	view := FormatCombination(models.Combination{Groups: []models.SectionGroup{cs}})

	require.Len(t, view.Days, 1)
	assert.Equal(t, models.Sunday, view.Days[0].Day)
}

func TestFormatCombinationEmpty(t *testing.T) {
	view := FormatCombination(models.Combination{})
	assert.Empty(t, view.Courses)
	assert.Empty(t, view.Days)
}
