package dto

import "github.com/olsss/timetable-api/internal/timetable"

// PairRequest links two courses into one pairing group.
type PairRequest struct {
	CourseA string `json:"courseA" validate:"required"`
	CourseB string `json:"courseB" validate:"required,nefield=CourseA"`
}

// PairsResponse lists explicit pairing groups plus current suggestions.
type PairsResponse struct {
	Groups      [][]string                `json:"groups"`
	Suggestions []timetable.SuggestedPair `json:"suggestions,omitempty"`
}

// PairingsDocument is the portable JSON form of the pairing map: every
// course mapped to its partners, symmetric by construction.
type PairingsDocument struct {
	Pairings map[string][]string `json:"pairings" validate:"required"`
}
