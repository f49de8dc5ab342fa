// Package repository defines the roster store interface and errors.
package repository

import (
	"context"

	"github.com/okian/roster/internal/domain/model"
)

// Store provides keyed access to the roster and owns its persistence.
type Store interface {
	// Load replaces the in-memory roster with the persisted one.
	// A missing backing file yields an empty roster.
	// Returns ErrDecode if the persisted data is malformed.
	Load(ctx context.Context) error

	// Insert builds a record from f, stamps it with the current time and
	// stores it under its upper-cased name, replacing any previous record
	// with that name. The whole roster is persisted before returning.
	Insert(ctx context.Context, f model.Fields) (model.Record, error)

	// Get returns the record stored under name (case-insensitive).
	// Returns ErrNotFound if the name is unknown.
	Get(ctx context.Context, name string) (model.Record, error)

	// All returns a snapshot of every record in insertion order.
	All(ctx context.Context) []model.Record

	// Count returns the number of records.
	Count(ctx context.Context) int
}
