// Package service provides the roster use cases shared by the HTTP API
// and the command line client.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	repository "github.com/okian/roster/internal/adapters/repository"
	"github.com/okian/roster/internal/domain/model"
	"github.com/okian/roster/internal/domain/ranking"
	"github.com/okian/roster/internal/domain/similarity"
	"github.com/okian/roster/internal/domain/types"
	"github.com/okian/roster/pkg/logger"
	"github.com/okian/roster/pkg/metrics"
)

// ErrNotStarted is returned by use cases called before Start.
var ErrNotStarted = errors.New("service not started")

// Service implements the roster use cases over a Store.
type Service struct {
	mu sync.RWMutex

	store repository.Store

	// Configuration
	dataFile         string
	defaultNeighbors int
	maxNeighbors     int
	clock            func() time.Time

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDataFile sets the roster file. An empty path keeps the roster in memory.
func WithDataFile(path string) Option {
	return func(s *Service) {
		s.dataFile = path
	}
}

// WithClock sets the time source for timestamps and elapsed days.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithDefaultNeighbors sets k for similarity queries that pass k == 0.
func WithDefaultNeighbors(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.defaultNeighbors = k
		}
	}
}

// WithMaxNeighbors caps k for similarity queries.
func WithMaxNeighbors(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.maxNeighbors = k
		}
	}
}

// WithStore replaces the file store built at Start.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// New constructs a Service. Call Start before using it.
func New(opts ...Option) *Service {
	s := &Service{
		dataFile:         "servers.json",
		defaultNeighbors: 3,
		maxNeighbors:     100,
		clock:            time.Now,
		logger:           logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.defaultNeighbors > s.maxNeighbors {
		s.defaultNeighbors = s.maxNeighbors
	}
	return s
}

// Start builds the store and loads the persisted roster.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.store == nil {
		s.store = repository.NewFileStore(ctx, s.dataFile,
			repository.WithClock(s.clock),
			repository.WithLogger(s.logger.Named("store")),
		)
	}
	if err := s.store.Load(ctx); err != nil {
		s.logger.Error(ctx, "failed to load roster",
			logger.String("path", s.dataFile),
			logger.Error(err),
		)
		return fmt.Errorf("load roster: %w", err)
	}

	s.started = true
	s.logger.Info(ctx, "roster service started",
		logger.String("dataFile", s.dataFile),
		logger.Int("records", s.store.Count(ctx)),
	)
	return nil
}

// Stop marks the service as stopped. Every insert is already on disk.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "roster service stopped")
}

func (s *Service) ready() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// Add inserts or replaces a record and returns its stored view.
func (s *Service) Add(ctx context.Context, req types.CreateRequest) (types.Server, error) {
	store, err := s.ready()
	if err != nil {
		return types.Server{}, err
	}
	rec, err := store.Insert(ctx, req.Fields())
	if err != nil {
		return types.Server{}, err
	}
	s.logger.Debug(ctx, "server stored", logger.String("name", rec.Name))
	return types.NewServer(rec, s.clock()), nil
}

// Get returns the record stored under name.
func (s *Service) Get(ctx context.Context, name string) (types.Server, error) {
	store, err := s.ready()
	if err != nil {
		return types.Server{}, err
	}
	rec, err := store.Get(ctx, name)
	if err != nil {
		return types.Server{}, err
	}
	return types.NewServer(rec, s.clock()), nil
}

// Alphabetical lists every name in case-insensitive order.
func (s *Service) Alphabetical(ctx context.Context) ([]types.NameEntry, error) {
	store, err := s.ready()
	if err != nil {
		return nil, err
	}
	sorted := ranking.Alphabetical(store.All(ctx))
	out := make([]types.NameEntry, len(sorted))
	for i, r := range sorted {
		out[i] = types.NameEntry{Position: i + 1, Name: r.Name}
	}
	metrics.RecordReport("alphabetical")
	return out, nil
}

// ServiceTime lists records by elapsed days, longest first.
func (s *Service) ServiceTime(ctx context.Context) ([]types.ServiceTimeEntry, error) {
	store, err := s.ready()
	if err != nil {
		return nil, err
	}
	now := s.clock()
	sorted := ranking.ByServiceTime(store.All(ctx), now)
	out := make([]types.ServiceTimeEntry, len(sorted))
	for i, r := range sorted {
		out[i] = types.ServiceTimeEntry{
			Position:     i + 1,
			Name:         r.Name,
			ElapsedDays:  r.ElapsedDays(now),
			Compensation: r.Compensation,
		}
	}
	metrics.RecordReport("service_time")
	return out, nil
}

// Compensation lists name, role and compensation in store order.
func (s *Service) Compensation(ctx context.Context) ([]types.CompensationEntry, error) {
	store, err := s.ready()
	if err != nil {
		return nil, err
	}
	rows := ranking.Compensation(store.All(ctx))
	out := make([]types.CompensationEntry, len(rows))
	for i, r := range rows {
		out[i] = types.CompensationEntry{Name: r.Name, Role: r.Role, Compensation: r.Compensation}
	}
	metrics.RecordReport("compensation")
	return out, nil
}

// Similar returns the k records closest to name. k == 0 selects the
// configured default.
func (s *Service) Similar(ctx context.Context, name string, k int) (types.SimilarResponse, error) {
	store, err := s.ready()
	if err != nil {
		return types.SimilarResponse{}, err
	}
	if k == 0 {
		k = s.defaultNeighbors
	}
	if k < 1 || k > s.maxNeighbors {
		return types.SimilarResponse{}, fmt.Errorf("%w: k must be within [1, %d]", model.ErrValidation, s.maxNeighbors)
	}

	start := time.Now()
	target, err := store.Get(ctx, name)
	if err != nil {
		return types.SimilarResponse{}, err
	}
	neighbors := similarity.Nearest(target, store.All(ctx), k)

	resp := types.SimilarResponse{
		Target:    target.Name,
		K:         k,
		Neighbors: make([]types.NeighborEntry, len(neighbors)),
	}
	for i, n := range neighbors {
		resp.Neighbors[i] = types.NeighborEntry{
			Rank:             i + 1,
			Name:             n.Record.Name,
			Distance:         n.Distance,
			PerformanceScore: n.Record.PerformanceScore,
			AbsenteeismRate:  n.Record.AbsenteeismRate,
			Compensation:     n.Record.Compensation,
		}
	}
	metrics.RecordSimilarSearch(float64(time.Since(start).Microseconds())/1000.0, len(neighbors))
	return resp, nil
}

// DefaultNeighbors returns k used when a caller does not pick one.
func (s *Service) DefaultNeighbors() int { return s.defaultNeighbors }

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":          s.started,
		"dataFile":         s.dataFile,
		"defaultNeighbors": s.defaultNeighbors,
		"maxNeighbors":     s.maxNeighbors,
	}
	if s.started {
		total := s.store.Count(context.Background())
		stats["totalServers"] = total
		metrics.UpdateRecordsTotal(total)
	}
	return stats
}
