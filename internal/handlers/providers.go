// internal/handlers/providers.go
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ammerola/voucher-ledger/internal/core/domain"
	"github.com/ammerola/voucher-ledger/internal/core/ports"
)

// ProviderHandler handles provider endpoints
type ProviderHandler struct {
	responder
	service ports.InventoryService
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(service ports.InventoryService, logger *slog.Logger) *ProviderHandler {
	return &ProviderHandler{
		responder: responder{logger: logger.With(slog.String("handler", "providers"))},
		service:   service,
	}
}

// CreateProviderRequest is the body of POST /providers.
type CreateProviderRequest struct {
	Name    string `json:"name"`
	LogoURL string `json:"logoUrl,omitempty"`
}

// ProviderResponse wraps a provider with the outcome of the call.
type ProviderResponse struct {
	Provider domain.Provider `json:"provider"`
	Outcome  domain.Outcome  `json:"outcome"`
}

// ListProviders handles GET /api/v1/providers
func (h *ProviderHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.service.Providers(r.Context()))
}

// CreateProvider handles POST /api/v1/providers
func (h *ProviderHandler) CreateProvider(w http.ResponseWriter, r *http.Request) {
	var req CreateProviderRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, out, err := h.service.AddProvider(r.Context(), req.Name, req.LogoURL)
	if err != nil {
		h.respondServiceError(w, r, err, out)
		return
	}

	h.respondJSON(w, http.StatusCreated, ProviderResponse{Provider: p, Outcome: out})
}

// DeleteProvider handles DELETE /api/v1/providers/{id}. Every voucher of
// the provider goes with it.
func (h *ProviderHandler) DeleteProvider(w http.ResponseWriter, r *http.Request) {
	id, ok := h.providerID(w, r)
	if !ok {
		return
	}

	out, err := h.service.DeleteProvider(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, out)
		return
	}

	h.respondJSON(w, http.StatusOK, out)
}

// ListProviderVouchers handles GET /api/v1/providers/{id}/vouchers
func (h *ProviderHandler) ListProviderVouchers(w http.ResponseWriter, r *http.Request) {
	id, ok := h.providerID(w, r)
	if !ok {
		return
	}

	vouchers, err := h.service.VouchersByProvider(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, nil)
		return
	}

	h.respondJSON(w, http.StatusOK, vouchers)
}

func (h *ProviderHandler) providerID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid provider ID")
		return 0, false
	}
	return id, true
}
