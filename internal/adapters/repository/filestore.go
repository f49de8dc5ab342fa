// Package repository defines the roster store interface and errors.
package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/okian/roster/internal/domain/model"
	"github.com/okian/roster/pkg/logger"
	"github.com/okian/roster/pkg/metrics"
)

// File-backed, in-memory Store implementation.
//
// The whole roster lives in a map guarded by mu; every insert rewrites the
// backing file through a temp file and rename. Iteration order is the order
// in which names were first inserted (or their order in the file after Load).

const (
	defaultFileMode       = 0o600
	defaultDirMode        = 0o750
	millisecondsPerSecond = 1000
)

// FileStore keeps the roster in memory and mirrors it to a JSON file.
type FileStore struct {
	mu      sync.RWMutex
	path    string
	records map[string]model.Record
	order   []string

	clock    func() time.Time
	logger   logger.Logger
	fileMode os.FileMode
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates an empty store backed by path. Call Load to read the
// persisted roster. An empty path keeps the roster in memory only.
func NewFileStore(_ context.Context, path string, opts ...Option) *FileStore {
	s := &FileStore{
		path:     path,
		records:  make(map[string]model.Record),
		clock:    time.Now,
		logger:   logger.Nop(),
		fileMode: defaultFileMode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Load replaces the in-memory roster with the contents of the backing file.
func (s *FileStore) Load(ctx context.Context) error {
	if s.path == "" {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info(ctx, "roster file absent; starting empty", logger.String("path", s.path))
		s.replace(nil, make(map[string]model.Record))
		metrics.RecordStoreLoad("absent")
		return nil
	}
	if err != nil {
		metrics.RecordErrorByComponent("repository", "load")
		return fmt.Errorf("read roster %s: %w", s.path, err)
	}

	order, records, err := decodeRoster(data)
	if err != nil {
		metrics.RecordErrorByComponent("repository", "decode")
		metrics.RecordStoreLoad("failed")
		return err
	}

	s.replace(order, records)
	metrics.RecordStoreLoad("ok")
	metrics.UpdateRecordsTotal(len(order))
	s.logger.Info(ctx, "roster loaded", logger.String("path", s.path), logger.Int("records", len(order)))
	return nil
}

func (s *FileStore) replace(order []string, records map[string]model.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = order
	s.records = records
}

// Insert stores a new record and persists the roster. On a persistence
// failure the previous in-memory state is restored.
func (s *FileStore) Insert(ctx context.Context, f model.Fields) (model.Record, error) {
	rec, err := model.NewRecord(f, s.clock())
	if err != nil {
		metrics.RecordErrorByComponent("repository", "validation")
		return model.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.records[rec.Name]
	s.records[rec.Name] = rec
	if !existed {
		s.order = append(s.order, rec.Name)
	}

	if err := s.saveLocked(); err != nil {
		if existed {
			s.records[rec.Name] = prev
		} else {
			delete(s.records, rec.Name)
			s.order = s.order[:len(s.order)-1]
		}
		metrics.RecordErrorByComponent("repository", "persist")
		s.logger.Error(ctx, "persist roster failed", logger.String("name", rec.Name), logger.Error(err))
		return model.Record{}, fmt.Errorf("%w: %w", ErrPersist, err)
	}

	metrics.RecordInsert(existed)
	metrics.UpdateRecordsTotal(len(s.order))
	s.logger.Debug(ctx, "record stored",
		logger.String("name", rec.Name),
		logger.Bool("overwrite", existed),
		logger.Int("records", len(s.order)),
	)
	return rec, nil
}

// Get returns the record stored under name.
func (s *FileStore) Get(_ context.Context, name string) (model.Record, error) {
	key := model.NormalizeName(name)
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key]
	if !ok {
		return model.Record{}, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return rec, nil
}

// All returns a copy of the roster in insertion order.
func (s *FileStore) All(_ context.Context) []model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Record, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.records[name])
	}
	return out
}

// Count returns the number of records.
func (s *FileStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// saveLocked rewrites the backing file. Caller holds mu.
func (s *FileStore) saveLocked() error {
	if s.path == "" {
		return nil
	}
	start := time.Now()

	data, err := encodeRoster(s.order, s.records)
	if err != nil {
		return fmt.Errorf("encode roster: %w", err)
	}
	if err := writeFileAtomic(s.path, data, s.fileMode); err != nil {
		return err
	}

	metrics.RecordStoreSaveLatency(float64(time.Since(start).Microseconds()) / millisecondsPerSecond)
	return nil
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place.
func writeFileAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, defaultDirMode); err != nil {
		return fmt.Errorf("create roster dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename roster file: %w", err)
	}
	return nil
}
