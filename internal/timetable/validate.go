package timetable

import "github.com/olsss/timetable-api/internal/models"

// Validator is a pure predicate over candidate combinations. Checks run in
// a fixed order for early exit: duplicate course, time overlap, pairing
// consistency.
type Validator struct {
	Pairs   *PairingMap
	Correct *CorrectPairings
}

// NewValidator wires the validator against the session's pairing state.
func NewValidator(pairs *PairingMap, correct *CorrectPairings) *Validator {
	return &Validator{Pairs: pairs, Correct: correct}
}

// Valid reports whether the combination is conflict-free. Rejected
// combinations are discarded, never repaired.
func (v *Validator) Valid(combo models.Combination) bool {
	seen := make(map[string]struct{}, len(combo.Groups))
	for _, group := range combo.Groups {
		if _, dup := seen[group.CourseCode]; dup {
			return false
		}
		seen[group.CourseCode] = struct{}{}
	}

	for i := 0; i < len(combo.Groups); i++ {
		for j := i + 1; j < len(combo.Groups); j++ {
			if GroupsConflict(combo.Groups[i], combo.Groups[j]) {
				return false
			}
		}
	}

	for i := 0; i < len(combo.Groups); i++ {
		for j := i + 1; j < len(combo.Groups); j++ {
			a, b := combo.Groups[i], combo.Groups[j]
			if v.Pairs != nil && v.Pairs.Linked(a.CourseCode, b.CourseCode) {
				if v.Correct != nil && !v.Correct.Allowed(a.CourseCode, a.SectionID, b.CourseCode, b.SectionID) {
					return false
				}
			}
		}
	}

	return true
}

// GroupsConflict reports whether any meeting rows of the two section groups
// overlap on a shared weekday. Intervals are half-open: [s1,e1) and [s2,e2)
// conflict iff s1 < e2 && s2 < e1, so back-to-back meetings do not clash.
func GroupsConflict(a, b models.SectionGroup) bool {
	for _, rowA := range a.Rows {
		for _, rowB := range b.Rows {
			if !sharesWeekday(rowA.Weekdays, rowB.Weekdays) {
				continue
			}
			if rowA.Start < rowB.End && rowB.Start < rowA.End {
				return true
			}
		}
	}
	return false
}

func sharesWeekday(a, b []models.Weekday) bool {
	for _, dayA := range a {
		for _, dayB := range b {
			if dayA == dayB {
				return true
			}
		}
	}
	return false
}
