package dto

import "github.com/olsss/timetable-api/internal/models"

// GenerateRequest overrides the configured search bounds for one run. Zero
// values fall back to config; overrides are clamped to the configured caps.
type GenerateRequest struct {
	MaxCombinations int `json:"maxCombinations" validate:"omitempty,min=1"`
	TimeoutMs       int `json:"timeoutMs" validate:"omitempty,min=1"`
}

// GenerateResponse returns every valid timetable found, already projected
// for display. Truncated marks a run stopped by the cap or the timeout;
// the combinations returned are still valid.
type GenerateResponse struct {
	Count        int                       `json:"count"`
	Considered   int                       `json:"considered"`
	Rejected     int                       `json:"rejected"`
	Truncated    bool                      `json:"truncated"`
	Status       string                    `json:"status"`
	Combinations []models.WeekScheduleView `json:"combinations"`
}

// ExportCombinationRequest picks one combination of the last generation run
// for PDF rendering.
type ExportCombinationRequest struct {
	Index int `json:"index" validate:"min=0"`
}
