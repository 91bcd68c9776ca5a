// internal/handlers/sales_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/voucher-ledger/internal/core/domain"
	"github.com/ammerola/voucher-ledger/internal/handlers"
	"github.com/ammerola/voucher-ledger/test/helpers"
	"github.com/ammerola/voucher-ledger/test/mocks"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil_error", err: nil, expected: http.StatusOK},
		{name: "voucher_not_found", err: fmt.Errorf("%w: 1-X", domain.ErrVoucherNotFound), expected: http.StatusNotFound},
		{name: "provider_not_found", err: domain.ErrProviderNotFound, expected: http.StatusNotFound},
		{name: "provider_exists", err: domain.ErrProviderExists, expected: http.StatusConflict},
		{name: "invalid_voucher", err: domain.ErrInvalidVoucher, expected: http.StatusBadRequest},
		{name: "invalid_provider", err: domain.ErrInvalidProvider, expected: http.StatusBadRequest},
		{name: "invalid_key", err: domain.ErrInvalidKey, expected: http.StatusBadRequest},
		{name: "invalid_quantity", err: domain.ErrInvalidQuantity, expected: http.StatusBadRequest},
		{name: "sale_rejected", err: domain.ErrSaleRejected, expected: http.StatusUnprocessableEntity},
		{name: "import_failed", err: domain.ErrImportFailed, expected: http.StatusUnprocessableEntity},
		{name: "unknown_error", err: fmt.Errorf("failed to save ledger: %w", assert.AnError), expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, handlers.StatusFor(tt.err))
		})
	}
}

func TestSaleHandler_CompleteSale(t *testing.T) {
	key := domain.NewVoucherKey(1, "Voucher 1GB")
	applied := &domain.SaleResult{
		Lines: []domain.SaleLine{{
			Key: key, Name: "Voucher 1GB", Quantity: 2, UnitPrice: 6500, Subtotal: 13000,
			Outcome: domain.Applied(""),
		}},
		Applied: 1,
		Total:   13000,
	}
	rejected := &domain.SaleResult{
		Lines: []domain.SaleLine{{
			Key: key, Quantity: 99,
			Outcome: domain.Rejected("insufficient stock"),
		}},
	}

	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mocks.MockInventoryService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name: "sale_applied",
			body: `{"lines":[{"key":"1-Voucher 1GB","quantity":2}]}`,
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().
					CompleteSale(gomock.Any(), []domain.CartLine{{Key: key, Quantity: 2}}).
					Return(applied, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var got domain.SaleResult
				require.NoError(t, json.Unmarshal(body, &got))
				assert.Equal(t, 1, got.Applied)
				assert.Equal(t, int64(13000), got.Total)
				assert.Equal(t, key, got.Lines[0].Key)
			},
		},
		{
			name: "every_line_rejected",
			body: `{"lines":[{"key":"1-Voucher 1GB","quantity":99}]}`,
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().
					CompleteSale(gomock.Any(), gomock.Any()).
					Return(rejected, domain.ErrSaleRejected)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			validateBody: func(t *testing.T, body []byte) {
				assert.Contains(t, string(body), domain.ErrSaleRejected.Error())
				assert.Contains(t, string(body), `"reason":"insufficient stock"`)
			},
		},
		{
			name:           "empty_cart",
			body:           `{"lines":[]}`,
			setupMocks:     func(m *mocks.MockInventoryService) {},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body []byte) {
				assert.Equal(t, "Cart is empty", decodeError(t, body).Error)
			},
		},
		{
			name:           "malformed_key",
			body:           `{"lines":[{"key":"abc","quantity":1}]}`,
			setupMocks:     func(m *mocks.MockInventoryService) {},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body []byte) {
				assert.Equal(t, "Invalid request body", decodeError(t, body).Error)
			},
		},
		{
			name:           "unknown_field",
			body:           `{"lines":[{"key":"1-A","quantity":1}],"discount":5}`,
			setupMocks:     func(m *mocks.MockInventoryService) {},
			expectedStatus: http.StatusBadRequest,
			validateBody:   func(t *testing.T, body []byte) {},
		},
		{
			name: "too_many_lines",
			body: func() string {
				lines := make([]string, 501)
				for i := range lines {
					lines[i] = fmt.Sprintf(`{"key":"1-V%d","quantity":1}`, i)
				}
				return `{"lines":[` + strings.Join(lines, ",") + `]}`
			}(),
			setupMocks:     func(m *mocks.MockInventoryService) {},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body []byte) {
				assert.Equal(t, "Too many cart lines", decodeError(t, body).Error)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockInventoryService(ctrl)
			tt.setupMocks(svc)

			h := handlers.NewSaleHandler(svc, helpers.TestLogger())
			w := httptest.NewRecorder()
			h.CompleteSale(w, httptest.NewRequest(http.MethodPost, "/api/v1/sales", bytes.NewBufferString(tt.body)))

			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.validateBody(t, w.Body.Bytes())
		})
	}
}

func TestProviderHandler(t *testing.T) {
	t.Run("create_provider", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockInventoryService(ctrl)
		svc.EXPECT().
			AddProvider(gomock.Any(), "By.U", "https://example.com/byu.png").
			Return(domain.Provider{ID: 6, Name: "By.U", LogoURL: "https://example.com/byu.png"}, domain.Applied("created"), nil)

		h := handlers.NewProviderHandler(svc, helpers.TestLogger())
		w := httptest.NewRecorder()
		body := `{"name":"By.U","logoUrl":"https://example.com/byu.png"}`
		h.CreateProvider(w, httptest.NewRequest(http.MethodPost, "/api/v1/providers", strings.NewReader(body)))

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp handlers.ProviderResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 6, resp.Provider.ID)
	})

	t.Run("duplicate_provider", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockInventoryService(ctrl)
		svc.EXPECT().
			AddProvider(gomock.Any(), "Telkomsel", "").
			Return(domain.Provider{}, domain.Rejected("duplicate name"), fmt.Errorf("%w: Telkomsel", domain.ErrProviderExists))

		h := handlers.NewProviderHandler(svc, helpers.TestLogger())
		w := httptest.NewRecorder()
		h.CreateProvider(w, httptest.NewRequest(http.MethodPost, "/api/v1/providers", strings.NewReader(`{"name":"Telkomsel"}`)))

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("delete_provider", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockInventoryService(ctrl)
		svc.EXPECT().DeleteProvider(gomock.Any(), 2).Return(domain.Applied("deleted"), nil)

		h := handlers.NewProviderHandler(svc, helpers.TestLogger())
		w := serve("DELETE /api/v1/providers/{id}", h.DeleteProvider,
			httptest.NewRequest(http.MethodDelete, "/api/v1/providers/2", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("invalid_provider_id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockInventoryService(ctrl)

		h := handlers.NewProviderHandler(svc, helpers.TestLogger())
		w := serve("DELETE /api/v1/providers/{id}", h.DeleteProvider,
			httptest.NewRequest(http.MethodDelete, "/api/v1/providers/zero", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid provider ID", decodeError(t, w.Body.Bytes()).Error)
	})

	t.Run("provider_vouchers", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockInventoryService(ctrl)
		svc.EXPECT().VouchersByProvider(gomock.Any(), 1).Return(helpers.CreateTestVouchers(1), nil)

		h := handlers.NewProviderHandler(svc, helpers.TestLogger())
		w := serve("GET /api/v1/providers/{id}/vouchers", h.ListProviderVouchers,
			httptest.NewRequest(http.MethodGet, "/api/v1/providers/1/vouchers", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"Voucher 1GB"`)
	})
}

func TestActivityHandler_ListActivity(t *testing.T) {
	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	entries := []domain.ActivityEntry{
		{ID: 4, Timestamp: base.Add(3 * time.Minute), Kind: domain.ActivitySale, Message: "Penjualan 2 item"},
		{ID: 3, Timestamp: base.Add(2 * time.Minute), Kind: domain.ActivityAddStock, Message: "Tambah stok"},
		{ID: 2, Timestamp: base.Add(time.Minute), Kind: domain.ActivitySale, Message: "Penjualan 1 item"},
		{ID: 1, Timestamp: base, Kind: domain.ActivityImport, Message: "Import Excel"},
	}

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedIDs    []int64
	}{
		{name: "all_entries", expectedStatus: http.StatusOK, expectedIDs: []int64{4, 3, 2, 1}},
		{name: "filter_by_type", query: "?type=sale", expectedStatus: http.StatusOK, expectedIDs: []int64{4, 2}},
		{name: "limit", query: "?limit=2", expectedStatus: http.StatusOK, expectedIDs: []int64{4, 3}},
		{name: "filter_and_limit", query: "?type=SALE&limit=1", expectedStatus: http.StatusOK, expectedIDs: []int64{4}},
		{name: "unknown_type", query: "?type=REFUND", expectedStatus: http.StatusBadRequest},
		{name: "bad_limit", query: "?limit=-3", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockInventoryService(ctrl)
			svc.EXPECT().Activity(gomock.Any()).Return(entries).AnyTimes()

			h := handlers.NewActivityHandler(svc, helpers.TestLogger())
			w := httptest.NewRecorder()
			h.ListActivity(w, httptest.NewRequest(http.MethodGet, "/api/v1/activity"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var got []domain.ActivityEntry
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			ids := make([]int64, len(got))
			for i, e := range got {
				ids[i] = e.ID
			}
			assert.Equal(t, tt.expectedIDs, ids)
		})
	}
}
