package models

import "time"

// SystemMetrics is a point-in-time summary of service activity.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cacheHitRatio"`
	CacheHits                uint64    `json:"cacheHits"`
	CacheMisses              uint64    `json:"cacheMisses"`
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	SearchesTotal            uint64    `json:"searchesTotal"`
	AverageSearchDurationMs  float64   `json:"averageSearchDurationMs"`
	ActiveSessions           int       `json:"activeSessions"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}
