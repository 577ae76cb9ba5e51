package timetable

import (
	"sort"

	appErrors "github.com/olsss/timetable-api/pkg/errors"
)

// PairingMap is a symmetric course-level relation: every member of a group
// must be scheduled together. A course belongs to at most one group.
type PairingMap struct {
	groupOf map[string]int
	members map[int][]string
	nextID  int
}

// NewPairingMap builds an empty pairing map.
func NewPairingMap() *PairingMap {
	return &PairingMap{
		groupOf: make(map[string]int),
		members: make(map[int][]string),
	}
}

// Pair links two courses bidirectionally. It fails with ErrAlreadyPaired
// when either course already belongs to a pairing group, leaving existing
// state untouched.
func (p *PairingMap) Pair(courseA, courseB string) error {
	if courseA == courseB {
		return appErrors.Clone(appErrors.ErrValidation, "cannot pair a course with itself")
	}
	if _, ok := p.groupOf[courseA]; ok {
		return appErrors.Clone(appErrors.ErrAlreadyPaired, "course "+courseA+" already belongs to a pairing group")
	}
	if _, ok := p.groupOf[courseB]; ok {
		return appErrors.Clone(appErrors.ErrAlreadyPaired, "course "+courseB+" already belongs to a pairing group")
	}

	id := p.nextID
	p.nextID++
	p.groupOf[courseA] = id
	p.groupOf[courseB] = id
	p.members[id] = []string{courseA, courseB}
	sort.Strings(p.members[id])
	return nil
}

// PairGroup links an arbitrary bundle of courses as one group, used when
// importing a serialized pairing map. Same occupancy rule as Pair.
func (p *PairingMap) PairGroup(courses []string) error {
	if len(courses) < 2 {
		return appErrors.Clone(appErrors.ErrValidation, "a pairing group needs at least two courses")
	}
	seen := make(map[string]struct{}, len(courses))
	for _, course := range courses {
		if _, dup := seen[course]; dup {
			return appErrors.Clone(appErrors.ErrValidation, "duplicate course "+course+" in pairing group")
		}
		seen[course] = struct{}{}
		if _, ok := p.groupOf[course]; ok {
			return appErrors.Clone(appErrors.ErrAlreadyPaired, "course "+course+" already belongs to a pairing group")
		}
	}

	id := p.nextID
	p.nextID++
	group := make([]string, len(courses))
	copy(group, courses)
	sort.Strings(group)
	p.members[id] = group
	for _, course := range group {
		p.groupOf[course] = id
	}
	return nil
}

// Unpair removes the course and all its partners from whatever group the
// course belongs to. Unknown courses are a no-op.
func (p *PairingMap) Unpair(course string) {
	id, ok := p.groupOf[course]
	if !ok {
		return
	}
	for _, member := range p.members[id] {
		delete(p.groupOf, member)
	}
	delete(p.members, id)
}

// PartnersOf returns the sorted partner courses, excluding the course
// itself. Empty for unpaired courses.
func (p *PairingMap) PartnersOf(course string) []string {
	id, ok := p.groupOf[course]
	if !ok {
		return nil
	}
	partners := make([]string, 0, len(p.members[id])-1)
	for _, member := range p.members[id] {
		if member != course {
			partners = append(partners, member)
		}
	}
	return partners
}

// IsPaired reports whether the course belongs to any group.
func (p *PairingMap) IsPaired(course string) bool {
	_, ok := p.groupOf[course]
	return ok
}

// Linked reports whether two courses belong to the same group.
func (p *PairingMap) Linked(courseA, courseB string) bool {
	idA, okA := p.groupOf[courseA]
	idB, okB := p.groupOf[courseB]
	return okA && okB && idA == idB
}

// Groups returns every pairing group, each sorted, in deterministic order.
func (p *PairingMap) Groups() [][]string {
	out := make([][]string, 0, len(p.members))
	for _, group := range p.members {
		copied := make([]string, len(group))
		copy(copied, group)
		out = append(out, copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// Serialize renders the map as the symmetric course -> partners form used
// for JSON export.
func (p *PairingMap) Serialize() map[string][]string {
	out := make(map[string][]string, len(p.groupOf))
	for course := range p.groupOf {
		out[course] = p.PartnersOf(course)
	}
	return out
}

// coursePair is an order-independent key for a pair of courses.
type coursePair struct {
	A, B string
}

func makeCoursePair(courseA, courseB string) coursePair {
	if courseA > courseB {
		courseA, courseB = courseB, courseA
	}
	return coursePair{A: courseA, B: courseB}
}

// sectionPair keys one allowed section combination within a course pair,
// sections stored in the same order as the normalized coursePair.
type sectionPair struct {
	A, B string
}

// CorrectPairings records, per course pair, which section combinations are
// valid ("L1 goes with T1"). Pairs without a table fail open: any section
// combination is accepted for them.
type CorrectPairings struct {
	allowed map[coursePair]map[sectionPair]struct{}
}

// NewCorrectPairings builds an empty table.
func NewCorrectPairings() *CorrectPairings {
	return &CorrectPairings{allowed: make(map[coursePair]map[sectionPair]struct{})}
}

// Allow marks the section combination as valid for the course pair.
func (t *CorrectPairings) Allow(courseA, sectionA, courseB, sectionB string) {
	key := makeCoursePair(courseA, courseB)
	if courseA > courseB {
		sectionA, sectionB = sectionB, sectionA
	}
	if t.allowed[key] == nil {
		t.allowed[key] = make(map[sectionPair]struct{})
	}
	t.allowed[key][sectionPair{A: sectionA, B: sectionB}] = struct{}{}
}

// HasTable reports whether any reference data exists for the course pair.
func (t *CorrectPairings) HasTable(courseA, courseB string) bool {
	_, ok := t.allowed[makeCoursePair(courseA, courseB)]
	return ok
}

// Allowed reports whether the section combination is acceptable. When no
// table exists for the course pair the answer is always true.
func (t *CorrectPairings) Allowed(courseA, sectionA, courseB, sectionB string) bool {
	key := makeCoursePair(courseA, courseB)
	table, ok := t.allowed[key]
	if !ok {
		return true
	}
	if courseA > courseB {
		sectionA, sectionB = sectionB, sectionA
	}
	_, ok = table[sectionPair{A: sectionA, B: sectionB}]
	return ok
}

// AllowedSections returns, for one section of a source course, the target
// course sections listed as valid. Nil when no table exists for the pair.
func (t *CorrectPairings) AllowedSections(sourceCourse, sourceSection, targetCourse string) []string {
	key := makeCoursePair(sourceCourse, targetCourse)
	table, ok := t.allowed[key]
	if !ok {
		return nil
	}
	var out []string
	for pair := range table {
		srcSec, dstSec := pair.A, pair.B
		if sourceCourse > targetCourse {
			srcSec, dstSec = pair.B, pair.A
		}
		if srcSec == sourceSection {
			out = append(out, dstSec)
		}
	}
	sort.Strings(out)
	return out
}
