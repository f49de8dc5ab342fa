// Package repository defines the roster store interface and errors.
package repository

import (
	"os"
	"time"

	"github.com/okian/roster/pkg/logger"
)

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithClock sets the time source used to stamp new records.
func WithClock(clock func() time.Time) Option {
	return func(s *FileStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger sets the logger used for load and save events.
func WithLogger(l logger.Logger) Option {
	return func(s *FileStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFileMode sets the permission bits of the roster file.
func WithFileMode(mode os.FileMode) Option {
	return func(s *FileStore) {
		if mode != 0 {
			s.fileMode = mode
		}
	}
}
