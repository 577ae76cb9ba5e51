package dto

import (
	"time"

	"github.com/olsss/timetable-api/internal/models"
)

// SessionResponse identifies a newly created or resolved session.
type SessionResponse struct {
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CourseInfo summarises one course of the loaded catalog.
type CourseInfo struct {
	Code         string `json:"code"`
	Title        string `json:"title"`
	SectionCount int    `json:"sectionCount"`
}

// LoadCatalogResponse reports the outcome of a catalog upload.
type LoadCatalogResponse struct {
	SessionID     string              `json:"sessionId"`
	Message       string              `json:"message"`
	Courses       []CourseInfo        `json:"courses"`
	RowErrors     []models.RowError   `json:"rowErrors,omitempty"`
	HeaderImposed bool                `json:"headerImposed,omitempty"`
	SplitCourses  map[string][]string `json:"splitCourses,omitempty"`
}

// SessionStatusResponse is the status summary of one session.
type SessionStatusResponse struct {
	SessionID      string               `json:"sessionId"`
	CatalogLoaded  bool                 `json:"catalogLoaded"`
	CourseCount    int                  `json:"courseCount"`
	SectionCount   int                  `json:"sectionCount"`
	SelectionCount int                  `json:"selectionCount"`
	PairCount      int                  `json:"pairCount"`
	RowErrorCount  int                  `json:"rowErrorCount"`
	CreatedAt      time.Time            `json:"createdAt"`
	ExpiresAt      time.Time            `json:"expiresAt"`
	Metrics        models.SystemMetrics `json:"metrics"`
}

// SectionListResponse carries the section groups of one course.
type SectionListResponse struct {
	CourseCode string                `json:"courseCode"`
	Sections   []models.SectionGroup `json:"sections"`
}

// SetSelectionRequest replaces the selected sections of one course. An empty
// list clears the course.
type SetSelectionRequest struct {
	SectionIDs []string `json:"sectionIds" validate:"omitempty,dive,required"`
}

// SelectionResponse mirrors the session's selection state after a change.
// AutoPaired lists the partner-course selections applied alongside.
type SelectionResponse struct {
	Selections map[string][]string `json:"selections"`
	AutoPaired map[string][]string `json:"autoPaired,omitempty"`
}
