//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/voucher-ledger/internal/adapters/db"
	"github.com/ammerola/voucher-ledger/internal/core/domain"
	"github.com/ammerola/voucher-ledger/internal/core/services"
	"github.com/ammerola/voucher-ledger/internal/handlers"
	"github.com/ammerola/voucher-ledger/internal/handlers/middleware"
	"github.com/ammerola/voucher-ledger/internal/importer"
	"github.com/ammerola/voucher-ledger/internal/pkg/config"
	"github.com/ammerola/voucher-ledger/internal/report"
	"github.com/ammerola/voucher-ledger/test/helpers"
)

type LedgerE2ESuite struct {
	suite.Suite
	server    *httptest.Server
	client    *http.Client
	baseURL   string
	testDB    *helpers.TestDB
	testRedis *helpers.TestRedis
}

func (s *LedgerE2ESuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	s.testRedis = helpers.SetupTestRedis(s.T())
	s.client = &http.Client{Timeout: 10 * time.Second}
}

func (s *LedgerE2ESuite) SetupTest() {
	helpers.TruncateBlobs(s.T(), s.testDB.PgxPool)
	s.server = s.startTestServer()
	s.baseURL = s.server.URL + handlers.APIPrefix
}

func (s *LedgerE2ESuite) TearDownTest() {
	s.server.Close()
}

func (s *LedgerE2ESuite) TestSaleWorkflow() {
	// 1. Stock a voucher
	resp := s.makeRequest(http.MethodPut, "/vouchers", map[string]any{
		"providerId":     1,
		"name":           "Voucher 2GB",
		"totalStock":     10,
		"remainingStock": 10,
		"costPrice":      9000,
	})
	s.Equal(http.StatusCreated, resp.StatusCode)

	var saved handlers.VoucherResponse
	s.decodeResponse(resp, &saved)
	s.Equal(int64(12000), saved.Voucher.SellPrice)

	key := "/vouchers/" + url.PathEscape(saved.Voucher.Key().String())

	// 2. Restock
	resp = s.makeRequest(http.MethodPost, key+"/stock", map[string]any{"quantity": 2})
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// 3. Sell
	resp = s.makeRequest(http.MethodPost, "/sales", map[string]any{
		"lines": []map[string]any{{"key": "1-Voucher 2GB", "quantity": 3}},
	})
	s.Equal(http.StatusOK, resp.StatusCode)

	var sale domain.SaleResult
	s.decodeResponse(resp, &sale)
	s.Equal(int64(36000), sale.Total)

	// 4. The sale survives a restart against the same database
	s.server.Close()
	s.server = s.startTestServer()
	s.baseURL = s.server.URL + handlers.APIPrefix

	resp = s.makeRequest(http.MethodGet, key, nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var v domain.Voucher
	s.decodeResponse(resp, &v)
	s.Equal(int64(12), v.TotalStock)
	s.Equal(int64(9), v.RemainingStock)

	resp = s.makeRequest(http.MethodGet, "/activity", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var entries []domain.ActivityEntry
	s.decodeResponse(resp, &entries)
	s.Require().Len(entries, 3)
	s.Equal(domain.ActivitySale, entries[0].Kind)

	// 5. Reports
	resp = s.makeRequest(http.MethodGet, "/reports/full", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	s.Contains(string(body), "Voucher 2GB")

	resp = s.makeRequest(http.MethodGet, "/export/excel", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		resp.Header.Get("Content-Type"))
	resp.Body.Close()

	// 6. Delete
	resp = s.makeRequest(http.MethodDelete, key, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.makeRequest(http.MethodGet, key, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func (s *LedgerE2ESuite) TestExcelImportWorkflow() {
	content := s.createWorkbook([][]string{
		{"ID Provider", "Nama Voucher", "Total Stok", "Sisa Stok", "Harga Modal", "Harga Jual", "Rencana Stok"},
		{"2", "Freedom 3GB", "8", "", "12000", "", "2"},
		{"15", "Paket Malam", "4", "4", "3000", "5000", "0"},
		{"abc", "Rusak"},
	})

	resp := s.upload("/import/excel", "stok.xlsx", content)
	s.Equal(http.StatusOK, resp.StatusCode)

	var result domain.ImportResult
	s.decodeResponse(resp, &result)
	s.Equal(2, result.Applied)
	s.Require().Len(result.Errors, 1)
	s.Equal(4, result.Errors[0].Line)
	s.Require().Len(result.CreatedProviders, 1)
	s.Equal("Provider 15", result.CreatedProviders[0].Name)

	resp = s.makeRequest(http.MethodGet, "/providers/2/vouchers", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var vouchers []domain.Voucher
	s.decodeResponse(resp, &vouchers)
	s.Require().Len(vouchers, 1)
	s.Equal(int64(8), vouchers[0].RemainingStock)
	s.Equal(int64(15000), vouchers[0].SellPrice)

	resp = s.makeRequest(http.MethodDelete, "/providers/15", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.makeRequest(http.MethodGet, "/vouchers", nil)
	s.decodeResponse(resp, &vouchers)
	s.Len(vouchers, 1)
}

func (s *LedgerE2ESuite) TestConcurrentSales() {
	resp := s.makeRequest(http.MethodPut, "/vouchers", map[string]any{
		"providerId":     3,
		"name":           "Happy 1GB",
		"totalStock":     10,
		"remainingStock": 10,
		"costPrice":      5000,
	})
	s.Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		statuses = map[int]int{}
	)
	for i := 0; i < 15; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := s.makeRequest(http.MethodPost, "/sales", map[string]any{
				"lines": []map[string]any{{"key": "3-Happy 1GB", "quantity": 1}},
			})
			resp.Body.Close()

			mu.Lock()
			statuses[resp.StatusCode]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	s.Equal(10, statuses[http.StatusOK])
	s.Equal(5, statuses[http.StatusUnprocessableEntity])

	resp = s.makeRequest(http.MethodGet, "/vouchers/"+url.PathEscape("3-Happy 1GB"), nil)
	var v domain.Voucher
	s.decodeResponse(resp, &v)
	s.Equal(int64(0), v.RemainingStock)
}

func (s *LedgerE2ESuite) TestHealthCheck() {
	resp, err := s.client.Get(s.server.URL + "/health")
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)

	var health handlers.HealthStatus
	s.decodeResponse(resp, &health)
	s.Equal("healthy", health.Status)
	s.Contains(health.Services, "database")
	s.Contains(health.Services, "redis")
	s.Equal(7, health.Ledger.Providers)
}

// Helper methods

func (s *LedgerE2ESuite) startTestServer() *httptest.Server {
	logger := helpers.TestLogger()
	cfg := helpers.LoadTestConfig()
	cfg.Store.Backend = config.BackendPostgres

	store := db.NewBlobStore(s.testDB.Database.SQL(), logger)
	svc := services.NewInventoryService(store, logger)
	s.Require().NoError(svc.Load(s.T().Context()))

	routes := &handlers.Routes{
		Providers: handlers.NewProviderHandler(svc, logger),
		Vouchers:  handlers.NewVoucherHandler(svc, logger),
		Sales:     handlers.NewSaleHandler(svc, logger),
		Import: handlers.NewImportHandler(svc,
			importer.NewXLSXReader(logger), importer.NewPDFReader(logger),
			cfg.Import.MaxUploadBytes(), s.T().TempDir(), logger),
		Reports:   handlers.NewReportHandler(svc, nil, report.DefaultOptions(), logger),
		Activity:  handlers.NewActivityHandler(svc, logger),
		Dashboard: handlers.NewDashboardHandler(svc, logger),
		Health: handlers.NewHealthHandler(svc, s.testDB.Database, s.testRedis.Client, nil, cfg, logger),
	}

	mux := http.NewServeMux()
	routes.Register(mux)

	return httptest.NewServer(middleware.Chain(mux,
		middleware.RequestID(cfg.Security.RequestIDHeader),
		middleware.Logger(logger),
		middleware.Recovery(logger),
	))
}

func (s *LedgerE2ESuite) makeRequest(method, path string, body any) *http.Response {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		s.NoError(err)
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, s.baseURL+path, reqBody)
	s.NoError(err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	s.Require().NoError(err)

	return resp
}

func (s *LedgerE2ESuite) upload(path, filename string, content []byte) *http.Response {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	s.Require().NoError(err)
	_, err = part.Write(content)
	s.Require().NoError(err)
	s.Require().NoError(writer.Close())

	req, err := http.NewRequest(http.MethodPost, s.baseURL+path, body)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *LedgerE2ESuite) decodeResponse(resp *http.Response, v any) {
	defer resp.Body.Close()
	err := json.NewDecoder(resp.Body).Decode(v)
	s.NoError(err)
}

func (s *LedgerE2ESuite) createWorkbook(rows [][]string) []byte {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Stok")
	s.Require().NoError(err)
	for _, values := range rows {
		row := sheet.AddRow()
		for _, v := range values {
			row.AddCell().SetString(v)
		}
	}

	var buf bytes.Buffer
	s.Require().NoError(file.Write(&buf))
	return buf.Bytes()
}

func TestLedgerE2ESuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E tests in short mode")
	}
	suite.Run(t, new(LedgerE2ESuite))
}
