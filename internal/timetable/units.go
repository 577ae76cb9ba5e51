package timetable

import (
	"sort"

	"github.com/olsss/timetable-api/internal/models"
)

// AtomicUnit is an indivisible bundle of section picks that must appear in a
// combination together or not at all: a singleton for an unpaired section,
// or one pick per member course of a pairing group.
type AtomicUnit struct {
	Picks []models.SectionGroup
}

// BuildOptions turns the user's per-course selections into one option list
// per independent course dimension. Paired courses collapse into the units
// of the first member encountered (sorted course order) and contribute no
// separate option set of their own.
//
// A unit whose pairing partner has no usable selected section is dropped,
// never force-included. A course whose units are all dropped keeps an empty
// option list, which makes the downstream product empty.
func BuildOptions(catalog *Catalog, selections map[string][]string, pairs *PairingMap, correct *CorrectPairings) [][]AtomicUnit {
	courses := make([]string, 0, len(selections))
	for course, sections := range selections {
		if len(sections) > 0 && catalog.HasCourse(course) {
			courses = append(courses, course)
		}
	}
	sort.Strings(courses)

	selected := func(course string) []string {
		var out []string
		for _, section := range selections[course] {
			if _, ok := catalog.Group(course, section); ok {
				out = append(out, section)
			}
		}
		return out
	}

	consumed := make(map[string]bool)
	var options [][]AtomicUnit

	for _, course := range courses {
		if consumed[course] {
			continue
		}

		partners := partnersWithSelection(course, pairs, selections)
		var units []AtomicUnit

		if len(partners) == 0 {
			if pairs.IsPaired(course) {
				// Paired, but no partner has anything selected: every
				// candidate unit is missing its counterpart.
				options = append(options, nil)
				continue
			}
			for _, section := range selected(course) {
				group, _ := catalog.Group(course, section)
				units = append(units, AtomicUnit{Picks: []models.SectionGroup{group}})
			}
			options = append(options, units)
			continue
		}

		for _, section := range selected(course) {
			units = append(units, expandPairedUnits(catalog, selections, correct, course, section, partners)...)
		}
		for _, partner := range partners {
			consumed[partner] = true
		}
		options = append(options, units)
	}

	return options
}

// partnersWithSelection returns the pairing partners of a course that have
// at least one selected section, in sorted order.
func partnersWithSelection(course string, pairs *PairingMap, selections map[string][]string) []string {
	var out []string
	for _, partner := range pairs.PartnersOf(course) {
		if len(selections[partner]) > 0 {
			out = append(out, partner)
		}
	}
	return out
}

// expandPairedUnits builds every unit anchored on (course, section) by
// crossing the partner courses' candidate sections. Candidates narrow to
// the correct-pairings table when one exists for the pair; otherwise every
// selected partner section is a candidate.
func expandPairedUnits(catalog *Catalog, selections map[string][]string, correct *CorrectPairings, course, section string, partners []string) []AtomicUnit {
	anchor, ok := catalog.Group(course, section)
	if !ok {
		return nil
	}

	units := []AtomicUnit{{Picks: []models.SectionGroup{anchor}}}
	for _, partner := range partners {
		candidates := candidateSections(catalog, selections, correct, course, section, partner)
		if len(candidates) == 0 {
			return nil
		}
		var grown []AtomicUnit
		for _, unit := range units {
			for _, partnerSection := range candidates {
				group, ok := catalog.Group(partner, partnerSection)
				if !ok {
					continue
				}
				if !pairingConsistent(correct, unit.Picks, group) {
					continue
				}
				picks := make([]models.SectionGroup, len(unit.Picks), len(unit.Picks)+1)
				copy(picks, unit.Picks)
				grown = append(grown, AtomicUnit{Picks: append(picks, group)})
			}
		}
		if len(grown) == 0 {
			return nil
		}
		units = grown
	}
	return units
}

func candidateSections(catalog *Catalog, selections map[string][]string, correct *CorrectPairings, course, section, partner string) []string {
	allowed := correct.AllowedSections(course, section, partner)
	var out []string
	for _, partnerSection := range selections[partner] {
		if _, ok := catalog.Group(partner, partnerSection); !ok {
			continue
		}
		if correct.HasTable(course, partner) && !contains(allowed, partnerSection) {
			continue
		}
		out = append(out, partnerSection)
	}
	return out
}

// pairingConsistent rejects partner sections that violate the table against
// any pick already in the unit, keeping multi-member groups coherent.
func pairingConsistent(correct *CorrectPairings, picks []models.SectionGroup, next models.SectionGroup) bool {
	for _, pick := range picks {
		if !correct.Allowed(pick.CourseCode, pick.SectionID, next.CourseCode, next.SectionID) {
			return false
		}
	}
	return true
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
