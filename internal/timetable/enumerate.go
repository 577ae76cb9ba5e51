package timetable

import "github.com/olsss/timetable-api/internal/models"

// Enumerate walks the cartesian product of the option sets, one atomic unit
// per course dimension, flattening each tuple into a candidate combination.
// The walk is deterministic for fixed inputs, so repeating it reproduces the
// same sequence. visit returning false stops the walk before the next
// candidate; validation of the current candidate is never interrupted.
func Enumerate(options [][]AtomicUnit, visit func(models.Combination) bool) {
	if len(options) == 0 {
		return
	}
	for _, set := range options {
		if len(set) == 0 {
			// A dimension with no surviving units (for example a pairing
			// whose target has no compatible section) empties the product.
			return
		}
	}

	indices := make([]int, len(options))
	for {
		var groups []models.SectionGroup
		for dim, idx := range indices {
			groups = append(groups, options[dim][idx].Picks...)
		}
		if !visit(models.Combination{Groups: groups}) {
			return
		}

		// Odometer increment, last dimension fastest.
		dim := len(indices) - 1
		for dim >= 0 {
			indices[dim]++
			if indices[dim] < len(options[dim]) {
				break
			}
			indices[dim] = 0
			dim--
		}
		if dim < 0 {
			return
		}
	}
}

// CountProduct reports the size of the full product without walking it.
func CountProduct(options [][]AtomicUnit) int {
	if len(options) == 0 {
		return 0
	}
	total := 1
	for _, set := range options {
		total *= len(set)
		if total == 0 {
			return 0
		}
	}
	return total
}
