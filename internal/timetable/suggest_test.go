package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestCoursePairsLectureLab(t *testing.T) {
	catalog := fixtureCatalog(t,
		row(1, "CS 101", "L1", "MW", "9:00 AM", "10:00 AM"),
		row(2, "CS 101L", "T1", "F", "1:00 PM", "3:00 PM"),
		row(3, "HIST 110", "L1", "TTh", "9:00 AM", "10:00 AM"),
	)

	suggestions := SuggestCoursePairs(catalog)

	require.Len(t, suggestions, 1)
	assert.Equal(t, "CS 101", suggestions[0].CourseA)
	assert.Equal(t, "CS 101L", suggestions[0].CourseB)
	assert.Equal(t, RuleLectureLab, suggestions[0].Rule)
}

func TestSuggestCoursePairsBaseSuffix(t *testing.T) {
	catalog := fixtureCatalog(t,
		row(1, "MATH 101L", "L1", "MW", "9:00 AM", "10:00 AM"),
		row(2, "MATH 101R", "R1", "F", "1:00 PM", "3:00 PM"),
	)

	suggestions := SuggestCoursePairs(catalog)

	require.Len(t, suggestions, 1)
	assert.Equal(t, RuleBaseSuffix, suggestions[0].Rule)
	assert.Equal(t, "MATH 101L", suggestions[0].CourseA)
	assert.Equal(t, "MATH 101R", suggestions[0].CourseB)
}

func TestSuggestCoursePairsPipeCourse(t *testing.T) {
	catalog := fixtureCatalog(t,
		row(1, "CS|CE 232", "L1", "MW", "9:00 AM", "10:00 AM"),
		row(2, "CS|CE 232L", "T1", "F", "1:00 PM", "3:00 PM"),
	)

	suggestions := SuggestCoursePairs(catalog)

	// The exact lecture-lab rule already covers appended-L pipe codes.
	require.Len(t, suggestions, 1)
	assert.Equal(t, "CS|CE 232", suggestions[0].CourseA)
	assert.Equal(t, "CS|CE 232L", suggestions[0].CourseB)
}

func TestSuggestCoursePairsEachCourseAtMostOnce(t *testing.T) {
	catalog := fixtureCatalog(t,
		row(1, "CS 101", "L1", "MW", "9:00 AM", "10:00 AM"),
		row(2, "CS 101L", "T1", "F", "1:00 PM", "3:00 PM"),
		row(3, "CS 101R", "R1", "F", "3:00 PM", "5:00 PM"),
	)

	suggestions := SuggestCoursePairs(catalog)

	seen := make(map[string]int)
	for _, s := range suggestions {
		seen[s.CourseA]++
		seen[s.CourseB]++
	}
	for course, count := range seen {
		assert.Equal(t, 1, count, "course %s suggested more than once", course)
	}
}

func TestPredictSectionPairingsOneToMany(t *testing.T) {
	catalog := fixtureCatalog(t,
		row(1, "CS 101", "L1", "MW", "9:00 AM", "10:00 AM"),
		row(2, "CS 101L", "T1", "F", "1:00 PM", "2:00 PM"),
		row(3, "CS 101L", "T2", "F", "2:00 PM", "3:00 PM"),
		row(4, "CS 101L", "T3", "F", "3:00 PM", "4:00 PM"),
	)
	pairs := []SuggestedPair{{CourseA: "CS 101", CourseB: "CS 101L"}}

	table := PredictSectionPairings(catalog, pairs)

	assert.Equal(t, []string{"T1", "T2", "T3"}, table.AllowedSections("CS 101", "L1", "CS 101L"))
}

func TestPredictSectionPairingsSequential(t *testing.T) {
	catalog := fixtureCatalog(t,
		row(1, "CS 101", "L1", "MW", "9:00 AM", "10:00 AM"),
		row(2, "CS 101", "L2", "MW", "10:00 AM", "11:00 AM"),
		row(3, "CS 101L", "T1", "F", "1:00 PM", "2:00 PM"),
		row(4, "CS 101L", "T2", "F", "2:00 PM", "3:00 PM"),
	)
	pairs := []SuggestedPair{{CourseA: "CS 101", CourseB: "CS 101L"}}

	table := PredictSectionPairings(catalog, pairs)

	assert.Equal(t, []string{"T1"}, table.AllowedSections("CS 101", "L1", "CS 101L"))
	assert.Equal(t, []string{"T2"}, table.AllowedSections("CS 101", "L2", "CS 101L"))
}

func TestPredictSectionPairingsUnequalCountsFailOpen(t *testing.T) {
	catalog := fixtureCatalog(t,
		row(1, "CS 101", "L1", "MW", "9:00 AM", "10:00 AM"),
		row(2, "CS 101", "L2", "MW", "10:00 AM", "11:00 AM"),
		row(3, "CS 101L", "T1", "F", "1:00 PM", "2:00 PM"),
		row(4, "CS 101L", "T2", "F", "2:00 PM", "3:00 PM"),
		row(5, "CS 101L", "T3", "F", "3:00 PM", "4:00 PM"),
	)
	pairs := []SuggestedPair{{CourseA: "CS 101", CourseB: "CS 101L"}}

	table := PredictSectionPairings(catalog, pairs)

	assert.False(t, table.HasTable("CS 101", "CS 101L"))
	assert.True(t, table.Allowed("CS 101", "L1", "CS 101L", "T3"))
}

func TestCompatibleSectionsUsesTable(t *testing.T) {
	catalog := fixtureCatalog(t,
		row(1, "CS 101", "L1", "MW", "9:00 AM", "10:00 AM"),
		row(2, "CS 101", "L2", "MW", "10:00 AM", "11:00 AM"),
		row(3, "CS 101L", "T1", "F", "1:00 PM", "2:00 PM"),
		row(4, "CS 101L", "T2", "F", "2:00 PM", "3:00 PM"),
	)
	table := NewCorrectPairings()
	table.Allow("CS 101", "L1", "CS 101L", "T1")
	table.Allow("CS 101", "L2", "CS 101L", "T2")

	got := CompatibleSections(catalog, table, "CS 101", []string{"L1"}, "CS 101L", true)
	assert.Equal(t, []string{"T1"}, got)

	got = CompatibleSections(catalog, table, "CS 101", []string{"L1", "L2"}, "CS 101L", true)
	assert.Equal(t, []string{"T1", "T2"}, got)
}

func TestCompatibleSectionsBlocksOneToMany(t *testing.T) {
	catalog := fixtureCatalog(t,
		row(1, "CS 101", "L1", "MW", "9:00 AM", "10:00 AM"),
		row(2, "CS 101L", "T1", "F", "1:00 PM", "2:00 PM"),
		row(3, "CS 101L", "T2", "F", "2:00 PM", "3:00 PM"),
	)

	blocked := CompatibleSections(catalog, NewCorrectPairings(), "CS 101", []string{"L1"}, "CS 101L", true)
	assert.Empty(t, blocked)

	allowed := CompatibleSections(catalog, NewCorrectPairings(), "CS 101L", []string{"T1"}, "CS 101", true)
	assert.Equal(t, []string{"L1"}, allowed)
}

func TestCompatibleSectionsSequentialFallback(t *testing.T) {
	catalog := fixtureCatalog(t,
		row(1, "CS 101", "L1", "MW", "9:00 AM", "10:00 AM"),
		row(2, "CS 101", "L2", "MW", "10:00 AM", "11:00 AM"),
		row(3, "CS 101L", "T1", "F", "1:00 PM", "2:00 PM"),
		row(4, "CS 101L", "T2", "F", "2:00 PM", "3:00 PM"),
	)

	got := CompatibleSections(catalog, NewCorrectPairings(), "CS 101", []string{"L2"}, "CS 101L", true)
	assert.Equal(t, []string{"T2"}, got)
}
