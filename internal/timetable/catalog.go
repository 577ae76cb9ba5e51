package timetable

import (
	"sort"
	"strings"

	"github.com/olsss/timetable-api/internal/models"
)

type groupKey struct {
	Course  string
	Section string
}

// Catalog is the in-memory table of normalized section rows for one loaded
// file, grouped by (course, section). It is scoped to a single session and
// never mutated after load.
type Catalog struct {
	groups   map[groupKey]*models.SectionGroup
	byCourse map[string][]string
	courses  []string
}

// BuildCatalog normalizes raw rows into a catalog. Rows missing a required
// field or failing day/time parsing are excluded and reported; the catalog
// stays usable with the remaining valid rows.
func BuildCatalog(rows []models.RawRow) (*Catalog, []models.RowError) {
	c := &Catalog{
		groups:   make(map[groupKey]*models.SectionGroup),
		byCourse: make(map[string][]string),
	}
	var rowErrors []models.RowError

	report := func(row models.RawRow, field, reason string) {
		rowErrors = append(rowErrors, models.RowError{
			Line:       row.Line,
			CourseCode: row.CourseCode,
			SectionID:  row.Section,
			Field:      field,
			Reason:     reason,
		})
	}

	for _, row := range rows {
		course := strings.TrimSpace(row.CourseCode)
		section := strings.TrimSpace(row.Section)
		if course == "" {
			report(row, "Course Code", "missing required field")
			continue
		}
		if section == "" {
			report(row, "Section", "missing required field")
			continue
		}

		days, err := ParseDays(row.Day)
		if err != nil {
			report(row, "Day", err.Error())
			continue
		}
		start, err := ParseClock(row.Start)
		if err != nil {
			report(row, "Start", err.Error())
			continue
		}
		end, err := ParseClock(row.End)
		if err != nil {
			report(row, "End", err.Error())
			continue
		}
		if start >= end {
			report(row, "Start", "start time is not before end time")
			continue
		}

		room := strings.TrimSpace(row.Room)
		if room == "" {
			room = "TBA"
		}
		instructor := strings.TrimSpace(row.Instructor)
		if instructor == "" {
			instructor = "TBA"
		}

		normalized := models.Section{
			CourseCode: course,
			SectionID:  section,
			Title:      strings.TrimSpace(row.Title),
			Weekdays:   days,
			Start:      start,
			End:        end,
			Room:       room,
			Instructor: instructor,
		}

		key := groupKey{Course: course, Section: section}
		group, ok := c.groups[key]
		if !ok {
			group = &models.SectionGroup{
				CourseCode: course,
				SectionID:  section,
				Title:      normalized.Title,
				Instructor: normalized.Instructor,
			}
			c.groups[key] = group
			c.byCourse[course] = append(c.byCourse[course], section)
		}
		group.Rows = append(group.Rows, normalized)
	}

	for course, sections := range c.byCourse {
		sort.Strings(sections)
		c.courses = append(c.courses, course)
	}
	sort.Strings(c.courses)

	return c, rowErrors
}

// Courses returns all distinct course codes in sorted order.
func (c *Catalog) Courses() []string {
	out := make([]string, len(c.courses))
	copy(out, c.courses)
	return out
}

// HasCourse reports whether the catalog knows the course code.
func (c *Catalog) HasCourse(course string) bool {
	_, ok := c.byCourse[course]
	return ok
}

// SectionsFor returns every section group of a course, ordered by section ID.
func (c *Catalog) SectionsFor(course string) []models.SectionGroup {
	sections := c.byCourse[course]
	out := make([]models.SectionGroup, 0, len(sections))
	for _, section := range sections {
		if group, ok := c.groups[groupKey{Course: course, Section: section}]; ok {
			out = append(out, *group)
		}
	}
	return out
}

// SectionIDs returns the sorted section IDs of a course.
func (c *Catalog) SectionIDs(course string) []string {
	sections := c.byCourse[course]
	out := make([]string, len(sections))
	copy(out, sections)
	return out
}

// Group looks up one section group by its (course, section) identity.
func (c *Catalog) Group(course, section string) (models.SectionGroup, bool) {
	group, ok := c.groups[groupKey{Course: course, Section: section}]
	if !ok {
		return models.SectionGroup{}, false
	}
	return *group, true
}

// Title returns the display title of a course, taken from its first group.
func (c *Catalog) Title(course string) string {
	for _, section := range c.byCourse[course] {
		if group, ok := c.groups[groupKey{Course: course, Section: section}]; ok && group.Title != "" {
			return group.Title
		}
	}
	return ""
}

// Len reports the number of section groups in the catalog.
func (c *Catalog) Len() int {
	return len(c.groups)
}
