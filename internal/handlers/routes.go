// internal/handlers/routes.go
package handlers

import (
	"net/http"
)

// APIPrefix is the base path of every ledger endpoint.
const APIPrefix = "/api/v1"

// Routes groups the handlers served by the API.
type Routes struct {
	Providers *ProviderHandler
	Vouchers  *VoucherHandler
	Sales     *SaleHandler
	Import    *ImportHandler
	Reports   *ReportHandler
	Activity  *ActivityHandler
	Dashboard *DashboardHandler
	Health    *HealthHandler
}

// Register mounts the routes on mux using method patterns. Nil handlers
// are skipped.
func (rt *Routes) Register(mux *http.ServeMux) {
	api := APIPrefix

	if h := rt.Health; h != nil {
		mux.HandleFunc("GET /health", h.Health)
		mux.HandleFunc("GET /ready", h.Readiness)
		mux.HandleFunc("GET "+api+"/health", h.Health)
	}

	if h := rt.Providers; h != nil {
		mux.HandleFunc("GET "+api+"/providers", h.ListProviders)
		mux.HandleFunc("POST "+api+"/providers", h.CreateProvider)
		mux.HandleFunc("DELETE "+api+"/providers/{id}", h.DeleteProvider)
		mux.HandleFunc("GET "+api+"/providers/{id}/vouchers", h.ListProviderVouchers)
	}

	if h := rt.Vouchers; h != nil {
		mux.HandleFunc("GET "+api+"/vouchers", h.ListVouchers)
		mux.HandleFunc("PUT "+api+"/vouchers", h.SaveVoucher)
		mux.HandleFunc("GET "+api+"/vouchers/{key}", h.GetVoucher)
		mux.HandleFunc("DELETE "+api+"/vouchers/{key}", h.DeleteVoucher)
		mux.HandleFunc("POST "+api+"/vouchers/{key}/stock", h.AddStock)
	}

	if h := rt.Sales; h != nil {
		mux.HandleFunc("POST "+api+"/sales", h.CompleteSale)
	}

	if h := rt.Import; h != nil {
		mux.HandleFunc("POST "+api+"/import/excel", h.ImportExcel)
		mux.HandleFunc("POST "+api+"/import/pdf", h.ImportPDF)
	}

	if h := rt.Reports; h != nil {
		mux.HandleFunc("GET "+api+"/reports/{kind}", h.GetReport)
		mux.HandleFunc("GET "+api+"/reports/{kind}/receipt", h.GetReceipt)
		mux.HandleFunc("POST "+api+"/reports/archive", h.ArchiveReports)
		mux.HandleFunc("POST "+api+"/backups", h.BackupLedger)
		mux.HandleFunc("GET "+api+"/export/excel", h.ExportExcel)
		mux.HandleFunc("GET "+api+"/export/json", h.ExportJSON)
	}

	if h := rt.Activity; h != nil {
		mux.HandleFunc("GET "+api+"/activity", h.ListActivity)
	}

	if h := rt.Dashboard; h != nil {
		mux.HandleFunc("GET "+api+"/dashboard", h.GetDashboard)
	}
}
