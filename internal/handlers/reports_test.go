// internal/handlers/reports_test.go
package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/voucher-ledger/internal/core/domain"
	"github.com/ammerola/voucher-ledger/internal/core/ports"
	"github.com/ammerola/voucher-ledger/internal/handlers"
	"github.com/ammerola/voucher-ledger/internal/importer"
	"github.com/ammerola/voucher-ledger/internal/pkg/logger"
	"github.com/ammerola/voucher-ledger/internal/report"
	"github.com/ammerola/voucher-ledger/internal/workers"
	"github.com/ammerola/voucher-ledger/test/helpers"
	"github.com/ammerola/voucher-ledger/test/mocks"
)

var printedAt = time.Date(2025, 3, 14, 16, 45, 0, 0, time.UTC)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) Enqueue(task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type(), Queue: workers.QueueDefault}, nil
}

func reportSnapshot() domain.Snapshot {
	return domain.Snapshot{
		Providers: []domain.Provider{{ID: 1, Name: "Telkomsel"}, {ID: 2, Name: "Indosat"}},
		Vouchers: []domain.Voucher{
			{ProviderID: 1, Name: "Voucher 1GB", TotalStock: 10, RemainingStock: 4, CostPrice: 5000, SellPrice: 6500},
			{ProviderID: 2, Name: "Freedom 3GB", TotalStock: 5, RemainingStock: 5, CostPrice: 12000, SellPrice: 15000},
		},
	}
}

func newReportHandler(t *testing.T, enqueuer handlers.TaskEnqueuer) (*handlers.ReportHandler, *mocks.MockInventoryService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockInventoryService(ctrl)
	svc.EXPECT().Snapshot(gomock.Any()).Return(reportSnapshot()).AnyTimes()

	h := handlers.NewReportHandler(svc, enqueuer, report.DefaultOptions(), helpers.TestLogger()).
		WithClock(helpers.FixedClock(printedAt))
	return h, svc
}

func TestReportHandler_GetReport(t *testing.T) {
	tests := []struct {
		name           string
		kind           string
		expectedStatus int
		contains       []string
	}{
		{
			name:           "full_report",
			kind:           "full",
			expectedStatus: http.StatusOK,
			contains:       []string{"LAPORAN LENGKAP VOUCHER INTERNET UNI BRILINK", "Voucher 1GB", "Freedom 3GB"},
		},
		{
			name:           "short_report",
			kind:           "short",
			expectedStatus: http.StatusOK,
			contains:       []string{"Dilaporkan Oleh : Sangkot Halomoan"},
		},
		{
			name:           "unknown_kind",
			kind:           "weekly",
			expectedStatus: http.StatusNotFound,
			contains:       []string{"Unknown report kind"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newReportHandler(t, nil)
			w := serve("GET /api/v1/reports/{kind}", h.GetReport,
				httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+tt.kind, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			for _, s := range tt.contains {
				assert.Contains(t, w.Body.String(), s)
			}
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
			}
		})
	}
}

func TestReportHandler_GetReceipt(t *testing.T) {
	h, _ := newReportHandler(t, nil)

	for _, kind := range []string{"full", "short"} {
		w := serve("GET /api/v1/reports/{kind}/receipt", h.GetReceipt,
			httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+kind+"/receipt", nil))

		assert.Equal(t, http.StatusOK, w.Code, kind)
		assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), "<html")
	}

	w := serve("GET /api/v1/reports/{kind}/receipt", h.GetReceipt,
		httptest.NewRequest(http.MethodGet, "/api/v1/reports/monthly/receipt", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportHandler_ExportExcel(t *testing.T) {
	h, _ := newReportHandler(t, nil)

	w := httptest.NewRecorder()
	h.ExportExcel(w, httptest.NewRequest(http.MethodGet, "/api/v1/export/excel", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="stok_voucher_20250314_164500.xlsx"`, w.Header().Get("Content-Disposition"))

	rows, err := importer.NewXLSXReader(helpers.TestLogger()).ReadRows(context.Background(), w.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Voucher 1GB", rows[0].Cell(domain.ColName))
}

func TestReportHandler_ExportJSON(t *testing.T) {
	h, svc := newReportHandler(t, nil)
	svc.EXPECT().Activity(gomock.Any()).Return([]domain.ActivityEntry{
		{ID: 1, Timestamp: printedAt, Kind: domain.ActivitySale, Message: "Penjualan"},
	})

	w := httptest.NewRecorder()
	h.ExportJSON(w, httptest.NewRequest(http.MethodGet, "/api/v1/export/json", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="voucher_ledger_20250314_164500.json"`, w.Header().Get("Content-Disposition"))

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, ports.KeyProviders)
	assert.Contains(t, body, ports.KeyVouchers)
	assert.Contains(t, body, ports.KeyActivity)

	var vouchers []domain.Voucher
	require.NoError(t, json.Unmarshal(body[ports.KeyVouchers], &vouchers))
	assert.Equal(t, reportSnapshot().Vouchers, vouchers)
}

func TestReportHandler_Enqueue(t *testing.T) {
	tests := []struct {
		name           string
		enqueuer       *fakeEnqueuer
		call           func(*handlers.ReportHandler) http.HandlerFunc
		expectedStatus int
		expectedType   string
	}{
		{
			name:           "archive_queued",
			enqueuer:       &fakeEnqueuer{},
			call:           func(h *handlers.ReportHandler) http.HandlerFunc { return h.ArchiveReports },
			expectedStatus: http.StatusAccepted,
			expectedType:   workers.TypeReportArchive,
		},
		{
			name:           "backup_queued",
			enqueuer:       &fakeEnqueuer{},
			call:           func(h *handlers.ReportHandler) http.HandlerFunc { return h.BackupLedger },
			expectedStatus: http.StatusAccepted,
			expectedType:   workers.TypeLedgerBackup,
		},
		{
			name:           "queue_unavailable",
			enqueuer:       &fakeEnqueuer{err: errors.New("dial tcp: connection refused")},
			call:           func(h *handlers.ReportHandler) http.HandlerFunc { return h.ArchiveReports },
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "jobs_not_configured",
			call:           func(h *handlers.ReportHandler) http.HandlerFunc { return h.BackupLedger },
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var enqueuer handlers.TaskEnqueuer
			if tt.enqueuer != nil {
				enqueuer = tt.enqueuer
			}
			h, _ := newReportHandler(t, enqueuer)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/archive", nil)
			req = req.WithContext(logger.WithRequestID(req.Context(), "req-42"))
			w := httptest.NewRecorder()
			tt.call(h)(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusAccepted {
				return
			}

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "task-1", body["task_id"])
			assert.Equal(t, "queued", body["status"])
			assert.Equal(t, tt.expectedType, body["type"])

			require.Len(t, tt.enqueuer.tasks, 1)
			if tt.expectedType == workers.TypeReportArchive {
				var payload workers.ArchivePayload
				require.NoError(t, json.Unmarshal(tt.enqueuer.tasks[0].Payload(), &payload))
				assert.Equal(t, "req-42", payload.RequestID)
			}
		})
	}
}

func TestDashboardHandler_GetDashboard(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockInventoryService(ctrl)
	svc.EXPECT().Snapshot(gomock.Any()).Return(reportSnapshot())

	entries := make([]domain.ActivityEntry, 8)
	for i := range entries {
		entries[i] = domain.ActivityEntry{ID: int64(100 - i), Kind: domain.ActivitySale}
	}
	svc.EXPECT().Activity(gomock.Any()).Return(entries)

	h := handlers.NewDashboardHandler(svc, helpers.TestLogger())
	w := httptest.NewRecorder()
	h.GetDashboard(w, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var got handlers.DashboardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Providers, 2)
	assert.Equal(t, int64(6), got.Providers[0].SoldStock)
	require.Len(t, got.RecentActivity, 5)
	assert.Equal(t, int64(100), got.RecentActivity[0].ID)
}
