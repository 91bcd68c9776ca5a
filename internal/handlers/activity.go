// internal/handlers/activity.go
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ammerola/voucher-ledger/internal/core/domain"
	"github.com/ammerola/voucher-ledger/internal/core/ports"
)

// ActivityHandler serves the audit trail
type ActivityHandler struct {
	responder
	service ports.InventoryService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(service ports.InventoryService, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{
		responder: responder{logger: logger.With(slog.String("handler", "activity"))},
		service:   service,
	}
}

// ListActivity handles GET /api/v1/activity. Entries are newest first.
// Optional query parameters: type (an activity kind) and limit.
func (h *ActivityHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var kind domain.ActivityKind
	if raw := query.Get("type"); raw != "" {
		kind = domain.ActivityKind(strings.ToUpper(raw))
		if !kind.IsValid() {
			h.respondError(w, http.StatusBadRequest, "Unknown activity type")
			return
		}
	}

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.respondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	entries := h.service.Activity(r.Context())
	out := make([]domain.ActivityEntry, 0, len(entries))
	for _, e := range entries {
		if kind != "" && e.Kind != kind {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}

	h.respondJSON(w, http.StatusOK, out)
}
