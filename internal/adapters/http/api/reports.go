package api

import (
	"context"
	"net/http"

	"github.com/okian/roster/internal/domain/types"
	"github.com/okian/roster/pkg/logger"
)

// ReportDependencies defines the report operations used by ReportsHandler.
type ReportDependencies interface {
	Alphabetical(ctx context.Context) ([]types.NameEntry, error)
	ServiceTime(ctx context.Context) ([]types.ServiceTimeEntry, error)
	Compensation(ctx context.Context) ([]types.CompensationEntry, error)
}

// ReportsHandler handles the three roster listings.
type ReportsHandler struct {
	deps   ReportDependencies
	logger logger.Logger
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(deps ReportDependencies, l logger.Logger) *ReportsHandler {
	return &ReportsHandler{deps: deps, logger: l}
}

// HandleAlphabetical handles GET /reports/alphabetical requests.
func (h *ReportsHandler) HandleAlphabetical(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, h.logger, "api.report_alphabetical", h.deps.Alphabetical)
}

// HandleServiceTime handles GET /reports/service-time requests.
func (h *ReportsHandler) HandleServiceTime(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, h.logger, "api.report_service_time", h.deps.ServiceTime)
}

// HandleCompensation handles GET /reports/compensation requests.
func (h *ReportsHandler) HandleCompensation(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, h.logger, "api.report_compensation", h.deps.Compensation)
}

func serveReport[T any](w http.ResponseWriter, r *http.Request, log logger.Logger, op string, list func(context.Context) ([]T, error)) {
	rows, err := list(r.Context())
	if err != nil {
		fail(r.Context(), w, log, op, err)
		return
	}
	writeJSON(w, http.StatusOK, newList(rows))
}
