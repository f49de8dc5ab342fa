// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/okian/roster/pkg/logger"
)

// maxBodyBytes bounds POST bodies.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ServerDependencies
	ReportDependencies
}

// Server wires HTTP routes for the roster API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	serversHandler *ServersHandler
	reportsHandler *ReportsHandler
	logger         logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets the logger used for request and failure logs.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{logger: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.serversHandler = NewServersHandler(deps, s.logger)
	s.reportsHandler = NewReportsHandler(deps, s.logger)
	return s
}

// Register attaches the middleware stack and all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Use(RequestID)
	r.Use(RequestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(Metrics)

	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Get("/stats", s.statsHandler.HandleStats)

	r.Route("/servers", func(r chi.Router) {
		r.Post("/", s.serversHandler.HandleCreate)
		r.Get("/{name}", s.serversHandler.HandleGet)
		r.Get("/{name}/similar", s.serversHandler.HandleSimilar)
	})
	r.Route("/reports", func(r chi.Router) {
		r.Get("/alphabetical", s.reportsHandler.HandleAlphabetical)
		r.Get("/service-time", s.reportsHandler.HandleServiceTime)
		r.Get("/compensation", s.reportsHandler.HandleCompensation)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		fail(r.Context(), w, s.logger, "api.route", NewKind("api.route", ErrNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		fail(r.Context(), w, s.logger, "api.route", NewKind("api.route", ErrMethodNotAllowed))
	})
}

// listResponse wraps report rows so every report is a JSON object.
type listResponse[T any] struct {
	Count int `json:"count"`
	Items []T `json:"items"`
}

func newList[T any](items []T) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Count: len(items), Items: items}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// fail writes err with the status its kind maps to. Internal causes are
// logged and hidden from the client.
func fail(ctx context.Context, w http.ResponseWriter, log logger.Logger, op string, err error) {
	err = Wrap(op, err)
	status, code := statusOf(err)
	if status == http.StatusInternalServerError {
		log.Error(ctx, "request failed",
			logger.String("op", op),
			logger.String("requestID", RequestIDFrom(ctx)),
			logger.Error(err),
		)
		writeError(w, status, code, nil)
		return
	}
	writeError(w, status, code, err)
}
