// Package types contains the JSON shapes shared by the API and its clients
package types

import (
	"time"

	"github.com/okian/roster/internal/domain/model"
)

// CreateRequest is the body of POST /servers
type CreateRequest struct {
	Name             string  `json:"name"`
	Role             string  `json:"role"`
	Compensation     float64 `json:"compensation"`
	City             string  `json:"city"`
	Education        string  `json:"education"`
	Specialty        string  `json:"specialty"`
	AbsenteeismRate  float64 `json:"absenteeism_rate"`
	PerformanceScore float64 `json:"performance_score"`
}

// Fields converts the request into domain input.
func (r CreateRequest) Fields() model.Fields {
	return model.Fields{
		Name:             r.Name,
		Role:             r.Role,
		Compensation:     r.Compensation,
		City:             r.City,
		Education:        r.Education,
		Specialty:        r.Specialty,
		AbsenteeismRate:  r.AbsenteeismRate,
		PerformanceScore: r.PerformanceScore,
	}
}

// Server is the full view of a record
type Server struct {
	Name             string  `json:"name"`
	Role             string  `json:"role"`
	Compensation     float64 `json:"compensation"`
	City             string  `json:"city"`
	Education        string  `json:"education"`
	Specialty        string  `json:"specialty"`
	AbsenteeismRate  float64 `json:"absenteeism_rate"`
	PerformanceScore float64 `json:"performance_score"`
	StartTimestamp   string  `json:"start_timestamp"`
	ElapsedDays      int     `json:"elapsed_days"`
}

// NewServer renders r with elapsed days computed at now.
func NewServer(r model.Record, now time.Time) Server {
	return Server{
		Name:             r.Name,
		Role:             r.Role,
		Compensation:     r.Compensation,
		City:             r.City,
		Education:        r.Education,
		Specialty:        r.Specialty,
		AbsenteeismRate:  r.AbsenteeismRate,
		PerformanceScore: r.PerformanceScore,
		StartTimestamp:   r.Start.Format(model.TimestampLayout),
		ElapsedDays:      r.ElapsedDays(now),
	}
}

// NameEntry is a row of the alphabetical report
type NameEntry struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
}

// ServiceTimeEntry is a row of the service-time report
type ServiceTimeEntry struct {
	Position     int     `json:"position"`
	Name         string  `json:"name"`
	ElapsedDays  int     `json:"elapsed_days"`
	Compensation float64 `json:"compensation"`
}

// CompensationEntry is a row of the compensation report
type CompensationEntry struct {
	Name         string  `json:"name"`
	Role         string  `json:"role"`
	Compensation float64 `json:"compensation"`
}

// NeighborEntry is one result of a similarity query
type NeighborEntry struct {
	Rank             int     `json:"rank"`
	Name             string  `json:"name"`
	Distance         float64 `json:"distance"`
	PerformanceScore float64 `json:"performance_score"`
	AbsenteeismRate  float64 `json:"absenteeism_rate"`
	Compensation     float64 `json:"compensation"`
}

// SimilarResponse is the body of GET /servers/{name}/similar
type SimilarResponse struct {
	Target    string          `json:"target"`
	K         int             `json:"k"`
	Neighbors []NeighborEntry `json:"neighbors"`
}
