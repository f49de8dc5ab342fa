// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// TimestampLayout is the textual form of a start timestamp in the roster file
// (YYYY-MM-DD HH:MM:SS.ffffff).
const TimestampLayout = "2006-01-02 15:04:05.000000"

// Bounds for the percentage attributes.
const (
	minPercent = 0
	maxPercent = 100
	hoursInDay = 24
)

// ErrValidation marks input that cannot become a Record.
var ErrValidation = errors.New("validation failed")

// Fields carries the user-supplied attributes of a new record.
type Fields struct {
	Name             string
	Role             string
	Compensation     float64
	City             string
	Education        string
	Specialty        string
	AbsenteeismRate  float64
	PerformanceScore float64
}

// Record is one staff entry. Name is the registry key.
type Record struct {
	Name             string
	Role             string
	Compensation     float64
	City             string
	Education        string
	Specialty        string
	AbsenteeismRate  float64
	PerformanceScore float64
	Start            time.Time
}

// NewRecord normalizes and validates f and stamps the record with start.
func NewRecord(f Fields, start time.Time) (Record, error) {
	r := Record{
		Name:             NormalizeName(f.Name),
		Role:             normalize(f.Role),
		Compensation:     f.Compensation,
		City:             normalize(f.City),
		Education:        normalize(f.Education),
		Specialty:        normalize(f.Specialty),
		AbsenteeismRate:  f.AbsenteeismRate,
		PerformanceScore: f.PerformanceScore,
		Start:            start.UTC().Truncate(time.Microsecond),
	}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}

// NormalizeName returns the key form of a name.
func NormalizeName(name string) string {
	return normalize(name)
}

func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Validate checks the record invariants.
func (r Record) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !finite(r.Compensation) || r.Compensation < 0 {
		return fmt.Errorf("%w: compensation must be a non-negative number", ErrValidation)
	}
	if !inPercentRange(r.AbsenteeismRate) {
		return fmt.Errorf("%w: absenteeism rate must be within [0, 100]", ErrValidation)
	}
	if !inPercentRange(r.PerformanceScore) {
		return fmt.Errorf("%w: performance score must be within [0, 100]", ErrValidation)
	}
	return nil
}

// ElapsedDays returns the whole days between Start and now. A start in the
// future yields a negative count.
func (r Record) ElapsedDays(now time.Time) int {
	return int(math.Floor(now.Sub(r.Start).Hours() / hoursInDay))
}

func inPercentRange(v float64) bool {
	return finite(v) && v >= minPercent && v <= maxPercent
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
