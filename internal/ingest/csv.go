package ingest

import (
	"encoding/csv"
	"io"
	"sort"
	"strings"

	"github.com/olsss/timetable-api/internal/models"
	appErrors "github.com/olsss/timetable-api/pkg/errors"
)

// Canonical column order of an uploaded catalog file.
var canonicalHeaders = []string{
	"Course Code", "Section", "Title", "Day", "Start", "End", "Room", "Instructor / Sponsor",
}

// Result carries the repaired rows plus what the repair pass did, for the
// upload response message.
type Result struct {
	Rows          []models.RawRow
	HeaderImposed bool
	SplitCourses  map[string][]string
}

// ReadCatalog decodes an uploaded CSV, repairing common export defects:
// a missing or wrong header row (the first row is then kept as data and the
// canonical headers imposed), slashes in course codes (replaced with pipes),
// blank and placeholder rows (skipped), and courses that mix section types
// (split into one course code per type, e.g. CS 232 into CS 232L and
// CS 232R, so each type schedules independently).
func ReadCatalog(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnreadableFile.Code, appErrors.ErrUnreadableFile.Status, "could not parse CSV file")
	}
	if len(records) == 0 {
		return nil, appErrors.Clone(appErrors.ErrUnreadableFile, "file contains no rows")
	}

	result := &Result{SplitCourses: make(map[string][]string)}

	dataStart := 1
	if !isHeaderRow(records[0]) {
		// First row is data from a headerless export; keep it.
		result.HeaderImposed = true
		dataStart = 0
	}

	var rows []models.RawRow
	for i := dataStart; i < len(records); i++ {
		row := rawRow(records[i], i+1)
		if row.CourseCode == "" || strings.EqualFold(row.CourseCode, "course code") {
			continue
		}
		row.CourseCode = strings.ReplaceAll(row.CourseCode, "/", "|")
		rows = append(rows, row)
	}

	splitSectionTypes(rows, result)
	result.Rows = rows
	return result, nil
}

// isHeaderRow checks whether the record looks like the canonical header row.
// Only the first two columns are compared: exports vary the trailing labels.
func isHeaderRow(record []string) bool {
	if len(record) < 2 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(record[0]), canonicalHeaders[0]) &&
		strings.EqualFold(strings.TrimSpace(record[1]), canonicalHeaders[1])
}

func rawRow(record []string, line int) models.RawRow {
	field := func(idx int) string {
		if idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}
	return models.RawRow{
		Line:       line,
		CourseCode: field(0),
		Section:    field(1),
		Title:      field(2),
		Day:        field(3),
		Start:      field(4),
		End:        field(5),
		Room:       field(6),
		Instructor: field(7),
	}
}

// sectionType extracts the leading letter run of a section ID: L1 -> L,
// S18 -> S. Empty when the ID does not start with a letter.
func sectionType(section string) string {
	section = strings.TrimSpace(section)
	end := 0
	for end < len(section) {
		c := section[end]
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			break
		}
		end++
	}
	return section[:end]
}

// splitSectionTypes rewrites the course code of rows belonging to courses
// that carry more than one section type, appending the type letter so each
// type becomes its own course dimension.
func splitSectionTypes(rows []models.RawRow, result *Result) {
	types := make(map[string]map[string]struct{})
	for _, row := range rows {
		t := sectionType(row.Section)
		if t == "" {
			continue
		}
		if types[row.CourseCode] == nil {
			types[row.CourseCode] = make(map[string]struct{})
		}
		types[row.CourseCode][t] = struct{}{}
	}

	for i := range rows {
		courseTypes := types[rows[i].CourseCode]
		if len(courseTypes) < 2 {
			continue
		}
		t := sectionType(rows[i].Section)
		if t == "" {
			continue
		}
		original := rows[i].CourseCode
		rows[i].CourseCode = original + t
		if !containsString(result.SplitCourses[original], rows[i].CourseCode) {
			result.SplitCourses[original] = append(result.SplitCourses[original], rows[i].CourseCode)
			sort.Strings(result.SplitCourses[original])
		}
	}
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
