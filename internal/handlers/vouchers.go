// internal/handlers/vouchers.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ammerola/voucher-ledger/internal/core/domain"
	"github.com/ammerola/voucher-ledger/internal/core/ports"
	"github.com/ammerola/voucher-ledger/internal/core/services"
)

// VoucherHandler handles voucher endpoints
type VoucherHandler struct {
	responder
	service ports.InventoryService
}

// NewVoucherHandler creates a new voucher handler
func NewVoucherHandler(service ports.InventoryService, logger *slog.Logger) *VoucherHandler {
	return &VoucherHandler{
		responder: responder{logger: logger.With(slog.String("handler", "vouchers"))},
		service:   service,
	}
}

// VoucherResponse wraps a voucher with the outcome of the call.
type VoucherResponse struct {
	Voucher domain.Voucher `json:"voucher"`
	Outcome domain.Outcome `json:"outcome"`
}

// AddStockRequest is the body of POST /vouchers/{key}/stock. Quantity may be
// sent as a number or as the string typed by the operator.
type AddStockRequest struct {
	Quantity json.Number `json:"quantity"`
}

// ListVouchers handles GET /api/v1/vouchers. An optional provider query
// parameter narrows the list.
func (h *VoucherHandler) ListVouchers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	raw := r.URL.Query().Get("provider")
	if raw == "" {
		h.respondJSON(w, http.StatusOK, h.service.Vouchers(ctx))
		return
	}

	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid provider ID")
		return
	}
	vouchers, err := h.service.VouchersByProvider(ctx, id)
	if err != nil {
		h.respondServiceError(w, r, err, nil)
		return
	}
	h.respondJSON(w, http.StatusOK, vouchers)
}

// GetVoucher handles GET /api/v1/vouchers/{key}
func (h *VoucherHandler) GetVoucher(w http.ResponseWriter, r *http.Request) {
	key, ok := h.voucherKey(w, r)
	if !ok {
		return
	}

	v, err := h.service.Voucher(r.Context(), key)
	if err != nil {
		h.respondServiceError(w, r, err, nil)
		return
	}

	h.respondJSON(w, http.StatusOK, v)
}

// SaveVoucher handles PUT /api/v1/vouchers. The body is the voucher form;
// the key is taken from providerId and name.
func (h *VoucherHandler) SaveVoucher(w http.ResponseWriter, r *http.Request) {
	var form domain.Voucher
	if err := decodeJSON(r, &form); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	v, out, err := h.service.SaveVoucher(r.Context(), form)
	if err != nil {
		h.respondServiceError(w, r, err, out)
		return
	}

	status := http.StatusOK
	if out.Reason == "created" {
		status = http.StatusCreated
	}
	h.respondJSON(w, status, VoucherResponse{Voucher: v, Outcome: out})
}

// DeleteVoucher handles DELETE /api/v1/vouchers/{key}
func (h *VoucherHandler) DeleteVoucher(w http.ResponseWriter, r *http.Request) {
	key, ok := h.voucherKey(w, r)
	if !ok {
		return
	}

	out, err := h.service.DeleteVoucher(r.Context(), key)
	if err != nil {
		h.respondServiceError(w, r, err, out)
		return
	}

	h.respondJSON(w, http.StatusOK, out)
}

// AddStock handles POST /api/v1/vouchers/{key}/stock
func (h *VoucherHandler) AddStock(w http.ResponseWriter, r *http.Request) {
	key, ok := h.voucherKey(w, r)
	if !ok {
		return
	}

	var req AddStockRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	quantity, err := services.ParseQuantity(req.Quantity.String())
	if err != nil {
		h.respondServiceError(w, r, err, nil)
		return
	}

	v, out, err := h.service.AddStock(r.Context(), key, quantity)
	if err != nil {
		h.respondServiceError(w, r, err, out)
		return
	}

	h.respondJSON(w, http.StatusOK, VoucherResponse{Voucher: v, Outcome: out})
}

func (h *VoucherHandler) voucherKey(w http.ResponseWriter, r *http.Request) (domain.VoucherKey, bool) {
	key, err := domain.ParseVoucherKey(r.PathValue("key"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid voucher key")
		return domain.VoucherKey{}, false
	}
	return key, true
}
