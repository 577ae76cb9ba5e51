package timetable

import (
	"sort"
	"strings"
)

// Detection heuristics for lecture-lab style course pairs and the section
// combinations that go with them. Suggestions feed the pairing map, they
// never mutate it.

// SuggestedPair is one detected course pair with the rule that produced it.
type SuggestedPair struct {
	CourseA string `json:"courseA"`
	CourseB string `json:"courseB"`
	Rule    string `json:"rule"`
}

// Pair detection rules, applied in order; each rule only sees courses left
// unpaired by the rules before it.
const (
	RuleLectureLab = "lecture-lab"
	RuleBaseSuffix = "base-suffix"
	RulePipeCourse = "pipe-course"
)

// baseSuffixLetters are the section-type letters that mark a splittable
// course variant (lecture, recitation, tutorial, seminar, clinic).
var baseSuffixLetters = "LRTSC"

// SuggestCoursePairs scans the catalog's course list for pairs that look
// like lecture-lab companions. Each course ends up in at most one
// suggestion; earlier rules win.
func SuggestCoursePairs(catalog *Catalog) []SuggestedPair {
	remaining := catalog.Courses()
	var out []SuggestedPair

	for _, rule := range []struct {
		name  string
		match func(a, b string) bool
	}{
		{RuleLectureLab, lectureLabMatch},
		{RuleBaseSuffix, baseSuffixMatch},
		{RulePipeCourse, pipeCourseMatch},
	} {
		taken := make(map[string]bool)
		for i := 0; i < len(remaining); i++ {
			for j := i + 1; j < len(remaining); j++ {
				a, b := remaining[i], remaining[j]
				if taken[a] || taken[b] || !rule.match(a, b) {
					continue
				}
				out = append(out, SuggestedPair{CourseA: a, CourseB: b, Rule: rule.name})
				taken[a] = true
				taken[b] = true
			}
		}
		var next []string
		for _, course := range remaining {
			if !taken[course] {
				next = append(next, course)
			}
		}
		remaining = next
	}

	return out
}

// lectureLabMatch reports the exact companion pattern: one code is the other
// plus a trailing L (CS 101 and CS 101L).
func lectureLabMatch(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	return la+"l" == lb || lb+"l" == la
}

// baseSuffixMatch reports two variants of the same base course that differ
// only in their section-type letter (MATH 101L and MATH 101R).
func baseSuffixMatch(a, b string) bool {
	partsA := strings.Fields(a)
	partsB := strings.Fields(b)
	if len(partsA) < 2 || len(partsB) < 2 {
		return false
	}
	lastA, lastB := partsA[len(partsA)-1], partsB[len(partsB)-1]
	if len(lastA) < 2 || len(lastB) < 2 {
		return false
	}
	sufA := lastA[len(lastA)-1]
	sufB := lastB[len(lastB)-1]
	if sufA == sufB || !strings.ContainsRune(baseSuffixLetters, rune(sufA)) || !strings.ContainsRune(baseSuffixLetters, rune(sufB)) {
		return false
	}
	baseA := strings.Join(partsA[:len(partsA)-1], " ") + " " + lastA[:len(lastA)-1]
	baseB := strings.Join(partsB[:len(partsB)-1], " ") + " " + lastB[:len(lastB)-1]
	return baseA == baseB
}

// pipeCourseMatch handles cross-listed codes like "CS|CE 232": the prefixes
// must agree and the parts after the last pipe must form a lecture-lab pair.
func pipeCourseMatch(a, b string) bool {
	if !strings.Contains(a, "|") && !strings.Contains(b, "|") {
		return false
	}
	base := func(code string) (prefix, rest string) {
		idx := strings.LastIndex(code, "|")
		if idx < 0 {
			return "", code
		}
		return strings.TrimSpace(code[:idx]), strings.TrimSpace(code[idx+1:])
	}
	prefixA, restA := base(a)
	prefixB, restB := base(b)
	return prefixA == prefixB && lectureLabMatch(restA, restB)
}

// PredictSectionPairings fills a correct-pairings table for the given course
// pairs using two rules: a lone section pairs with every partner section
// (one-to-many), and equal-count section lists pair positionally
// (sequential). Unequal multi-section lists produce no predictions, leaving
// the pair fail-open for the validator.
func PredictSectionPairings(catalog *Catalog, pairs []SuggestedPair) *CorrectPairings {
	table := NewCorrectPairings()
	for _, pair := range pairs {
		sectionsA := catalog.SectionIDs(pair.CourseA)
		sectionsB := catalog.SectionIDs(pair.CourseB)
		if len(sectionsA) == 0 || len(sectionsB) == 0 {
			continue
		}
		switch {
		case len(sectionsA) == 1:
			for _, sectionB := range sectionsB {
				table.Allow(pair.CourseA, sectionsA[0], pair.CourseB, sectionB)
			}
		case len(sectionsB) == 1:
			for _, sectionA := range sectionsA {
				table.Allow(pair.CourseA, sectionA, pair.CourseB, sectionsB[0])
			}
		case len(sectionsA) == len(sectionsB):
			for i := range sectionsA {
				table.Allow(pair.CourseA, sectionsA[i], pair.CourseB, sectionsB[i])
			}
		}
	}
	return table
}

// CompatibleSections resolves which target-course sections should be
// auto-selected alongside the given source sections. blockOneToMany skips
// the noisy case of a single source section fanning out to many targets.
func CompatibleSections(catalog *Catalog, correct *CorrectPairings, sourceCourse string, sourceSections []string, targetCourse string, blockOneToMany bool) []string {
	if len(sourceSections) == 0 {
		return nil
	}
	allSource := catalog.SectionIDs(sourceCourse)
	allTarget := catalog.SectionIDs(targetCourse)

	if blockOneToMany && len(allSource) == 1 && len(allTarget) > 1 {
		return nil
	}

	seen := make(map[string]struct{})
	var out []string
	add := func(section string) {
		if _, dup := seen[section]; dup {
			return
		}
		seen[section] = struct{}{}
		out = append(out, section)
	}

	if correct != nil && correct.HasTable(sourceCourse, targetCourse) {
		for _, sourceSection := range sourceSections {
			for _, targetSection := range correct.AllowedSections(sourceCourse, sourceSection, targetCourse) {
				add(targetSection)
			}
		}
		sort.Strings(out)
		return out
	}

	// No learned table: fall back to the prediction rules directly.
	switch {
	case len(allTarget) == 1:
		add(allTarget[0])
	case len(allSource) == len(allTarget):
		for _, sourceSection := range sourceSections {
			for i, candidate := range allSource {
				if candidate == sourceSection {
					add(allTarget[i])
				}
			}
		}
	}
	sort.Strings(out)
	return out
}
