package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olsss/timetable-api/internal/models"
)

func meeting(course, section string, days []models.Weekday, start, end models.MinuteOfDay) models.SectionGroup {
	return models.SectionGroup{
		CourseCode: course,
		SectionID:  section,
		Rows: []models.Section{{
			CourseCode: course,
			SectionID:  section,
			Weekdays:   days,
			Start:      start,
			End:        end,
		}},
	}
}

func TestGroupsConflict(t *testing.T) {
	mw := []models.Weekday{models.Monday, models.Wednesday}
	tth := []models.Weekday{models.Tuesday, models.Thursday}

	a := meeting("A", "1", mw, 540, 615)

	assert.True(t, GroupsConflict(a, meeting("B", "1", mw, 600, 675)), "overlapping interval on shared day")
	assert.False(t, GroupsConflict(a, meeting("B", "1", tth, 540, 615)), "no shared weekday")
	assert.False(t, GroupsConflict(a, meeting("B", "1", mw, 615, 675)), "back-to-back is no conflict")
	assert.False(t, GroupsConflict(a, meeting("B", "1", mw, 465, 540)), "ends exactly at start")
	assert.True(t, GroupsConflict(a, meeting("B", "1", []models.Weekday{models.Wednesday}, 500, 700)), "one shared day is enough")
}

func TestValidatorRejectsDuplicateCourse(t *testing.T) {
	v := NewValidator(NewPairingMap(), NewCorrectPairings())
	combo := models.Combination{Groups: []models.SectionGroup{
		meeting("CS 101", "L1", []models.Weekday{models.Monday}, 540, 600),
		meeting("CS 101", "L2", []models.Weekday{models.Tuesday}, 540, 600),
	}}
	assert.False(t, v.Valid(combo))
}

func TestValidatorPairingConsistency(t *testing.T) {
	pairs := NewPairingMap()
	require.NoError(t, pairs.Pair("CS 101", "CS 101L"))
	table := NewCorrectPairings()
	table.Allow("CS 101", "L1", "CS 101L", "T1")
	table.Allow("CS 101", "L2", "CS 101L", "T2")
	v := NewValidator(pairs, table)

	good := models.Combination{Groups: []models.SectionGroup{
		meeting("CS 101", "L1", []models.Weekday{models.Monday}, 540, 600),
		meeting("CS 101L", "T1", []models.Weekday{models.Friday}, 780, 900),
	}}
	assert.True(t, v.Valid(good))

	crossed := models.Combination{Groups: []models.SectionGroup{
		meeting("CS 101", "L1", []models.Weekday{models.Monday}, 540, 600),
		meeting("CS 101L", "T2", []models.Weekday{models.Friday}, 780, 900),
	}}
	assert.False(t, v.Valid(crossed))
}

func TestValidatorFailsOpenWithoutTable(t *testing.T) {
	pairs := NewPairingMap()
	require.NoError(t, pairs.Pair("CS 101", "CS 101L"))
	v := NewValidator(pairs, NewCorrectPairings())

	combo := models.Combination{Groups: []models.SectionGroup{
		meeting("CS 101", "L1", []models.Weekday{models.Monday}, 540, 600),
		meeting("CS 101L", "T7", []models.Weekday{models.Friday}, 780, 900),
	}}
	assert.True(t, v.Valid(combo))
}

// Two sections of course A, one of which collides with the only section of
// course B: exactly one combination survives.
func TestOverlapScenarioLeavesOneCombination(t *testing.T) {
	catalog := fixtureCatalog(t,
		row(1, "A", "A1", "M", "9:00 AM", "10:00 AM"),
		row(2, "A", "A2", "M", "10:00 AM", "11:00 AM"),
		row(3, "B", "B1", "M", "9:00 AM", "10:00 AM"),
	)
	selections := map[string][]string{
		"A": {"A1", "A2"},
		"B": {"B1"},
	}
	pairs := NewPairingMap()
	table := NewCorrectPairings()
	options := BuildOptions(catalog, selections, pairs, table)
	v := NewValidator(pairs, table)

	var accepted []models.Combination
	Enumerate(options, func(combo models.Combination) bool {
		if v.Valid(combo) {
			accepted = append(accepted, combo)
		}
		return true
	})

	require.Len(t, accepted, 1)
	assert.Equal(t, "A2", accepted[0].Groups[0].SectionID)
	assert.Equal(t, "B1", accepted[0].Groups[1].SectionID)
}

// Lecture with two sections paired to a lab with two sections under a
// correct-pairings table: only the two matched combinations remain.
func TestLectureLabScenarioProducesMatchedPairsOnly(t *testing.T) {
	catalog := fixtureCatalog(t,
		row(1, "CS 101", "L1", "MW", "9:00 AM", "10:00 AM"),
		row(2, "CS 101", "L2", "MW", "10:00 AM", "11:00 AM"),
		row(3, "CS 101L", "T1", "F", "9:00 AM", "12:00 PM"),
		row(4, "CS 101L", "T2", "F", "1:00 PM", "4:00 PM"),
	)
	pairs := NewPairingMap()
	require.NoError(t, pairs.Pair("CS 101", "CS 101L"))
	table := NewCorrectPairings()
	table.Allow("CS 101", "L1", "CS 101L", "T1")
	table.Allow("CS 101", "L2", "CS 101L", "T2")

	selections := map[string][]string{
		"CS 101":  {"L1", "L2"},
		"CS 101L": {"T1", "T2"},
	}
	options := BuildOptions(catalog, selections, pairs, table)
	v := NewValidator(pairs, table)

	var accepted [][2]string
	Enumerate(options, func(combo models.Combination) bool {
		if v.Valid(combo) {
			accepted = append(accepted, [2]string{combo.Groups[0].SectionID, combo.Groups[1].SectionID})
		}
		return true
	})

	assert.Equal(t, [][2]string{{"L1", "T1"}, {"L2", "T2"}}, accepted)
}
