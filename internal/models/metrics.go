package models

import "time"

// SystemMetrics is a lightweight aggregate snapshot for the status endpoint.
type SystemMetrics struct {
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	GenerationsTotal         uint64    `json:"generationsTotal"`
	CombinationsGenerated    uint64    `json:"combinationsGenerated"`
	CombinationsRejected     uint64    `json:"combinationsRejected"`
	CatalogRowsSkipped       uint64    `json:"catalogRowsSkipped"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}
