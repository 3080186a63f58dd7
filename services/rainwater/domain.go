// Package rainwater provides the HTTP service exposing the trapped rain
// water calculator.
package rainwater

import (
	"time"

	"github.com/R3E-Network/rainwater/pkg/rainwater"
)

// =============================================================================
// Request/Response Types
// =============================================================================

// TrapRequest asks for the trapped water of one profile.
type TrapRequest struct {
	Heights []int  `json:"heights"`
	Method  string `json:"method,omitempty"`
}

// TrapResponse is the result of a trap computation.
type TrapResponse struct {
	Water  int    `json:"water"`
	Method string `json:"method"`
	Length int    `json:"length"`
}

// ProfileRequest asks for the full breakdown of one profile.
type ProfileRequest struct {
	Heights []int `json:"heights"`
}

// ProfileResponse carries the derived profiles and basins.
type ProfileResponse struct {
	rainwater.Profile
	Basins []rainwater.Basin `json:"basins"`
}

// BatchRequest asks for the trapped water of several profiles.
type BatchRequest struct {
	Profiles [][]int `json:"profiles"`
	Method   string  `json:"method,omitempty"`
}

// BatchResponse lists per-profile water in request order plus a summary.
type BatchResponse struct {
	Method  string       `json:"method"`
	Results []int        `json:"results"`
	Summary BatchSummary `json:"summary"`
}

// BatchSummary describes the distribution of water across a batch.
type BatchSummary struct {
	Count  int     `json:"count"`
	Total  int     `json:"total"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Max    int     `json:"max"`
	Dry    int     `json:"dry"`
}

// =============================================================================
// Service Info
// =============================================================================

// HealthResponse is the response for /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// InfoResponse is the response for /info.
type InfoResponse struct {
	Status     string   `json:"status"`
	Service    string   `json:"service"`
	Version    string   `json:"version"`
	Method     string   `json:"default_method"`
	Methods    []string `json:"methods"`
	Timestamp  string   `json:"timestamp"`
	Statistics Stats    `json:"statistics"`
}

// Stats are the running counters of a service instance.
type Stats struct {
	Requests     int64     `json:"requests"`
	Computations int64     `json:"computations"`
	Rejections   int64     `json:"rejections"`
	WaterTotal   int64     `json:"water_total"`
	StartedAt    time.Time `json:"started_at"`
	Uptime       string    `json:"uptime"`
}
