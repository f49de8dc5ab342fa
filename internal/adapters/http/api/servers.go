package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/okian/roster/internal/domain/types"
	"github.com/okian/roster/pkg/logger"
)

// ServerDependencies defines the record operations used by ServersHandler.
type ServerDependencies interface {
	Add(ctx context.Context, req types.CreateRequest) (types.Server, error)
	Get(ctx context.Context, name string) (types.Server, error)
	Similar(ctx context.Context, name string, k int) (types.SimilarResponse, error)
}

// ServersHandler handles record and similarity requests.
type ServersHandler struct {
	deps   ServerDependencies
	logger logger.Logger
}

// NewServersHandler creates a new servers handler.
func NewServersHandler(deps ServerDependencies, l logger.Logger) *ServersHandler {
	return &ServersHandler{deps: deps, logger: l}
}

// HandleCreate handles POST /servers requests.
func (h *ServersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_server"
	var req types.CreateRequest
	if err := decodeBody(w, r, &req); err != nil {
		fail(r.Context(), w, h.logger, op, WrapKind(op, ErrBadRequest, err))
		return
	}
	srv, err := h.deps.Add(r.Context(), req)
	if err != nil {
		fail(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, srv)
}

// HandleGet handles GET /servers/{name} requests.
func (h *ServersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_server"
	name, err := nameParam(r)
	if err != nil {
		fail(r.Context(), w, h.logger, op, WrapKind(op, ErrBadRequest, err))
		return
	}
	srv, err := h.deps.Get(r.Context(), name)
	if err != nil {
		fail(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, srv)
}

// HandleSimilar handles GET /servers/{name}/similar?k=N requests. Without
// k the service default applies.
func (h *ServersHandler) HandleSimilar(w http.ResponseWriter, r *http.Request) {
	const op = "api.similar_servers"
	name, err := nameParam(r)
	if err != nil {
		fail(r.Context(), w, h.logger, op, WrapKind(op, ErrBadRequest, err))
		return
	}
	k := 0
	if raw := r.URL.Query().Get("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			fail(r.Context(), w, h.logger, op, WrapKind(op, ErrBadRequest, fmt.Errorf("k must be a positive integer, got %q", raw)))
			return
		}
		k = n
	}
	resp, err := h.deps.Similar(r.Context(), name, k)
	if err != nil {
		fail(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// nameParam returns the decoded {name} segment. chi routes on RawPath when
// it is set (an encoded slash, for one), leaving the segment escaped.
func nameParam(r *http.Request) (string, error) {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name, nil
	}
	name, err := url.PathUnescape(name)
	if err != nil {
		return "", fmt.Errorf("invalid name in path: %w", err)
	}
	return name, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return errors.New("body must hold a single JSON object")
	}
	return nil
}
