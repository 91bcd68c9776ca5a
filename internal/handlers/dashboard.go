// internal/handlers/dashboard.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ammerola/voucher-ledger/internal/core/domain"
	"github.com/ammerola/voucher-ledger/internal/core/ports"
	"github.com/ammerola/voucher-ledger/internal/report"
)

// recentActivityLimit caps the audit entries shown under the tiles.
const recentActivityLimit = 5

// DashboardResponse is the landing page payload.
type DashboardResponse struct {
	report.Dashboard
	RecentActivity []domain.ActivityEntry `json:"recentActivity"`
}

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	responder
	service ports.InventoryService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service ports.InventoryService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		responder: responder{logger: logger.With(slog.String("handler", "dashboard"))},
		service:   service,
	}
}

// GetDashboard handles GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	recent := h.service.Activity(ctx)
	if len(recent) > recentActivityLimit {
		recent = recent[:recentActivityLimit]
	}
	if recent == nil {
		recent = []domain.ActivityEntry{}
	}

	w.Header().Set("Cache-Control", "no-store")
	h.respondJSON(w, http.StatusOK, DashboardResponse{
		Dashboard:      report.BuildDashboard(h.service.Snapshot(ctx)),
		RecentActivity: recent,
	})
}
