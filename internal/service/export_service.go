package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/olsss/timetable-api/internal/models"
	"github.com/olsss/timetable-api/internal/timetable"
	appErrors "github.com/olsss/timetable-api/pkg/errors"
	"github.com/olsss/timetable-api/pkg/export"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(title string, sections []export.PDFSection) ([]byte, error)
}

// ExportService renders session state into downloadable files.
type ExportService struct {
	sessions sessionResolver
	csv      csvRenderer
	pdf      pdfRenderer
	logger   *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(sessions sessionResolver, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{sessions: sessions, csv: csv, pdf: pdf, logger: logger}
}

var selectionCSVHeaders = []string{"Course Code", "Section", "Title", "Day", "Start", "End", "Room", "Instructor"}

// SelectionsCSV renders every currently selected section row as CSV, one
// line per weekly meeting, courses in sorted order.
func (s *ExportService) SelectionsCSV(ctx context.Context, sessionID string) ([]byte, error) {
	session, err := s.sessions.Resolve(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.RLock()
	defer session.mu.RUnlock()
	if session.Catalog == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no catalog loaded")
	}

	courses := make([]string, 0, len(session.Selections))
	for course := range session.Selections {
		courses = append(courses, course)
	}
	sort.Strings(courses)

	dataset := export.Dataset{Headers: selectionCSVHeaders}
	for _, course := range courses {
		for _, sectionID := range session.Selections[course] {
			group, ok := session.Catalog.Group(course, sectionID)
			if !ok {
				continue
			}
			for _, row := range group.Rows {
				dataset.AddRow(map[string]string{
					"Course Code": row.CourseCode,
					"Section":     row.SectionID,
					"Title":       row.Title,
					"Day":         dayInitials(row.Weekdays),
					"Start":       row.Start.Clock12(),
					"End":         row.End.Clock12(),
					"Room":        row.Room,
					"Instructor":  row.Instructor,
				})
			}
		}
	}

	return s.csv.Render(dataset)
}

var timetablePDFHeaders = []string{"Time", "Course", "Section", "Title", "Room", "Instructor"}

// CombinationPDF renders one combination of the last generation run as a
// weekly timetable, one table per day with meetings.
func (s *ExportService) CombinationPDF(ctx context.Context, sessionID string, index int) ([]byte, error) {
	session, err := s.sessions.Resolve(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.RLock()
	if index < 0 || index >= len(session.LastRun) {
		session.mu.RUnlock()
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no combination at index %d; run generation first", index))
	}
	combo := session.LastRun[index]
	runSize := len(session.LastRun)
	session.mu.RUnlock()

	view := timetable.FormatCombination(combo)

	sections := make([]export.PDFSection, 0, len(view.Days))
	for _, day := range view.Days {
		data := export.Dataset{Headers: timetablePDFHeaders}
		for _, meeting := range day.Meetings {
			data.AddRow(map[string]string{
				"Time":       meeting.TimeRange,
				"Course":     meeting.CourseCode,
				"Section":    meeting.SectionID,
				"Title":      meeting.Title,
				"Room":       meeting.Room,
				"Instructor": meeting.Instructor,
			})
		}
		sections = append(sections, export.PDFSection{Title: day.Day.String(), Data: data})
	}
	if len(sections) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "combination has no meetings to render")
	}

	title := fmt.Sprintf("Timetable %d of %d", index+1, runSize)
	return s.pdf.Render(title, sections)
}

// dayInitials renders weekdays back into the compact catalog notation.
func dayInitials(days []models.Weekday) string {
	var out string
	for _, day := range days {
		switch day {
		case models.Thursday:
			out += "Th"
		case models.Sunday:
			out += "Su"
		default:
			out += day.String()[:1]
		}
	}
	return out
}
