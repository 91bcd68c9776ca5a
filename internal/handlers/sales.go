// internal/handlers/sales.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ammerola/voucher-ledger/internal/core/domain"
	"github.com/ammerola/voucher-ledger/internal/core/ports"
)

// maxCartLines bounds a single sale request.
const maxCartLines = 500

// SaleHandler handles the checkout endpoint
type SaleHandler struct {
	responder
	service ports.InventoryService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(service ports.InventoryService, logger *slog.Logger) *SaleHandler {
	return &SaleHandler{
		responder: responder{logger: logger.With(slog.String("handler", "sales"))},
		service:   service,
	}
}

// CompleteSaleRequest is the body of POST /sales. Lines are applied in the
// order given.
type CompleteSaleRequest struct {
	Lines []domain.CartLine `json:"lines"`
}

// CompleteSale handles POST /api/v1/sales. Lines that cannot be sold are
// reported in the result. When none can be sold the response is 422 and the
// ledger is unchanged.
func (h *SaleHandler) CompleteSale(w http.ResponseWriter, r *http.Request) {
	var req CompleteSaleRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	switch {
	case len(req.Lines) == 0:
		h.respondError(w, http.StatusBadRequest, "Cart is empty")
		return
	case len(req.Lines) > maxCartLines:
		h.respondError(w, http.StatusBadRequest, "Too many cart lines")
		return
	}

	result, err := h.service.CompleteSale(r.Context(), req.Lines)
	if err != nil {
		h.respondServiceError(w, r, err, result)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}
