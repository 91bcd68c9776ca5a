// internal/handlers/health.go
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/voucher-ledger/internal/core/ports"
	"github.com/ammerola/voucher-ledger/internal/pkg/config"
)

// HealthHandler serves /health and /ready. Every dependency is optional;
// only the ones the configured store backend uses are wired.
type HealthHandler struct {
	service   ports.InventoryService
	db        ports.Database
	redis     *redis.Client
	asynq     *asynq.Inspector
	config    *config.Config
	logger    *slog.Logger
	startTime time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(
	service ports.InventoryService,
	database ports.Database,
	redisClient *redis.Client,
	asynqInspector *asynq.Inspector,
	cfg *config.Config,
	logger *slog.Logger,
) *HealthHandler {
	return &HealthHandler{
		service:   service,
		db:        database,
		redis:     redisClient,
		asynq:     asynqInspector,
		config:    cfg,
		logger:    logger.With(slog.String("handler", "health")),
		startTime: time.Now(),
	}
}

// HealthStatus is the /health response body.
type HealthStatus struct {
	Status      string                 `json:"status"`
	Version     string                 `json:"version"`
	Environment string                 `json:"environment"`
	Store       string                 `json:"store"`
	Uptime      string                 `json:"uptime"`
	Timestamp   time.Time              `json:"timestamp"`
	Ledger      LedgerInfo             `json:"ledger"`
	Services    map[string]ServiceInfo `json:"services"`
	System      SystemInfo             `json:"system"`
}

// LedgerInfo counts what the session currently holds.
type LedgerInfo struct {
	Providers       int `json:"providers"`
	Vouchers        int `json:"vouchers"`
	ActivityEntries int `json:"activity_entries"`
}

// ServiceInfo is the result of probing one dependency.
type ServiceInfo struct {
	Status       string                 `json:"status"`
	Message      string                 `json:"message,omitempty"`
	ResponseTime string                 `json:"response_time,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// SystemInfo is a small runtime snapshot of the process.
type SystemInfo struct {
	GoVersion  string `json:"go_version"`
	Goroutines int    `json:"goroutines"`
	HeapMB     uint64 `json:"heap_mb"`
	NumGC      uint32 `json:"num_gc"`
}

// probe is one dependency of the configured backend. ping decides
// readiness; inspect adds details to /health once ping succeeded.
type probe struct {
	name    string
	gates   bool
	ping    func(context.Context) error
	inspect func(context.Context, *ServiceInfo)
}

func (h *HealthHandler) probes() []probe {
	var probes []probe
	if h.db != nil {
		probes = append(probes, probe{name: "database", gates: true, ping: h.db.Ping, inspect: h.inspectDatabase})
	}
	if h.redis != nil {
		probes = append(probes, probe{
			name:    "redis",
			gates:   true,
			ping:    func(ctx context.Context) error { return h.redis.Ping(ctx).Err() },
			inspect: h.inspectRedis,
		})
	}
	if h.asynq != nil {
		probes = append(probes, probe{
			name: "asynq",
			ping: func(context.Context) error {
				_, err := h.asynq.Queues()
				return err
			},
			inspect: h.inspectAsynq,
		})
	}
	return probes
}

// Health handles the /health endpoint. Any failing dependency degrades the
// status to 503.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := HealthStatus{
		Status:      "healthy",
		Version:     h.config.App.Version,
		Environment: h.config.App.Environment,
		Store:       h.config.Store.Backend,
		Uptime:      time.Since(h.startTime).Round(time.Second).String(),
		Timestamp:   time.Now(),
		Ledger:      h.ledgerInfo(ctx),
		Services:    make(map[string]ServiceInfo),
		System:      systemInfo(),
	}

	for _, p := range h.probes() {
		info := h.run(ctx, p)
		health.Services[p.name] = info
		if info.Status != "healthy" {
			health.Status = "degraded"
		}
	}

	statusCode := http.StatusOK
	if health.Status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}
	h.write(ctx, w, statusCode, health)
}

// Readiness handles the /ready endpoint. Only the store dependencies gate
// readiness; the job queue does not.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ready := true
	details := make(map[string]string)
	for _, p := range h.probes() {
		if !p.gates {
			continue
		}
		if err := p.ping(ctx); err != nil {
			ready = false
			details[p.name] = "not ready"
			continue
		}
		details[p.name] = "ready"
	}

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}
	h.write(ctx, w, statusCode, map[string]interface{}{
		"ready":   ready,
		"details": details,
	})
}

func (h *HealthHandler) run(ctx context.Context, p probe) ServiceInfo {
	start := time.Now()
	info := ServiceInfo{Status: "healthy", Details: make(map[string]interface{})}

	if err := p.ping(ctx); err != nil {
		info.Status = "unhealthy"
		info.Message = err.Error()
		h.logger.ErrorContext(ctx, "health probe failed",
			slog.String("dependency", p.name),
			slog.String("error", err.Error()))
		return info
	}
	p.inspect(ctx, &info)

	info.ResponseTime = time.Since(start).String()
	return info
}

func (h *HealthHandler) write(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.ErrorContext(ctx, "failed to encode health response",
			slog.String("error", err.Error()))
	}
}

func (h *HealthHandler) ledgerInfo(ctx context.Context) LedgerInfo {
	if h.service == nil {
		return LedgerInfo{}
	}
	snap := h.service.Snapshot(ctx)
	return LedgerInfo{
		Providers:       len(snap.Providers),
		Vouchers:        len(snap.Vouchers),
		ActivityEntries: len(h.service.Activity(ctx)),
	}
}

// inspectDatabase copies the ledger table figures. A failed stats query
// marks the database unhealthy even though ping succeeded.
func (h *HealthHandler) inspectDatabase(ctx context.Context, info *ServiceInfo) {
	for k, v := range h.db.Health(ctx) {
		info.Details[k] = v
	}
	if info.Details["status"] == "unhealthy" {
		info.Status = "unhealthy"
		info.Message, _ = info.Details["error"].(string)
	}
	delete(info.Details, "status")
}

func (h *HealthHandler) inspectRedis(ctx context.Context, info *ServiceInfo) {
	info.Details["ping"] = "PONG"
	stats := h.redis.PoolStats()
	info.Details["total_conns"] = stats.TotalConns
	info.Details["idle_conns"] = stats.IdleConns
	info.Details["timeouts"] = stats.Timeouts
}

// inspectAsynq sums the task counts the backup and archive jobs leave behind.
func (h *HealthHandler) inspectAsynq(ctx context.Context, info *ServiceInfo) {
	queues, _ := h.asynq.Queues()
	var pending, active, retry, archived int
	for _, name := range queues {
		q, err := h.asynq.GetQueueInfo(name)
		if err != nil {
			continue
		}
		pending += q.Pending
		active += q.Active
		retry += q.Retry
		archived += q.Archived
	}
	info.Details["queues"] = len(queues)
	info.Details["pending"] = pending
	info.Details["active"] = active
	info.Details["retry"] = retry
	info.Details["archived"] = archived

	if servers, err := h.asynq.Servers(); err == nil {
		info.Details["workers"] = len(servers)
	}
}

func systemInfo() SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return SystemInfo{
		GoVersion:  runtime.Version(),
		Goroutines: runtime.NumGoroutine(),
		HeapMB:     m.HeapAlloc / 1024 / 1024,
		NumGC:      m.NumGC,
	}
}
