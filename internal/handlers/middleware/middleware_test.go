package middleware_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/voucher-ledger/internal/handlers/middleware"
	"github.com/ammerola/voucher-ledger/internal/pkg/logger"
	"github.com/ammerola/voucher-ledger/test/helpers"
)

func okHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	}
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		incoming string
		check    func(t *testing.T, got, ctxID string)
	}{
		{
			name:   "default_header_generates_uuid",
			header: "",
			check: func(t *testing.T, got, ctxID string) {
				assert.Len(t, got, 36)
				assert.Equal(t, got, ctxID)
			},
		},
		{
			name:     "proxy_id_is_kept",
			header:   "",
			incoming: "kasir-7f3a",
			check: func(t *testing.T, got, ctxID string) {
				assert.Equal(t, "kasir-7f3a", got)
				assert.Equal(t, "kasir-7f3a", ctxID)
			},
		},
		{
			name:     "custom_header",
			header:   "X-Toko-Trace",
			incoming: "trace-42",
			check: func(t *testing.T, got, ctxID string) {
				assert.Equal(t, "trace-42", got)
				assert.Equal(t, "trace-42", ctxID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := tt.header
			if header == "" {
				header = middleware.DefaultRequestIDHeader
			}

			var ctxID string
			wrapped := middleware.RequestID(tt.header)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctxID = logger.RequestIDFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", nil)
			if tt.incoming != "" {
				req.Header.Set(header, tt.incoming)
			}
			w := httptest.NewRecorder()
			wrapped.ServeHTTP(w, req)

			tt.check(t, w.Header().Get(header), ctxID)
		})
	}
}

func TestLogger_LevelByStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"sale_ok_is_info", http.StatusOK, "INFO"},
		{"unknown_voucher_is_warn", http.StatusNotFound, "WARN"},
		{"rejected_sale_is_warn", http.StatusUnprocessableEntity, "WARN"},
		{"store_failure_is_error", http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := slog.New(slog.NewTextHandler(&buf, nil))

			wrapped := middleware.Logger(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{}`))
			}))

			w := httptest.NewRecorder()
			wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/sales", nil))

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, buf.String(), "level="+tt.wantLevel)
			assert.Contains(t, buf.String(), "response.bytes=2")
		})
	}
}

func TestRecovery(t *testing.T) {
	t.Run("panic_becomes_500_with_request_id", func(t *testing.T) {
		wrapped := middleware.Recovery(helpers.TestLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("ledger index out of range")
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
		req = req.WithContext(logger.WithRequestID(req.Context(), "req-55"))
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)

		require.Equal(t, http.StatusInternalServerError, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "req-55", body["request_id"])
	})

	t.Run("normal_response_untouched", func(t *testing.T) {
		wrapped := middleware.Recovery(helpers.TestLogger())(okHandler("Rp 12.000"))

		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/vouchers", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Rp 12.000", w.Body.String())
	})

	t.Run("abort_handler_is_repanicked", func(t *testing.T) {
		wrapped := middleware.Recovery(helpers.TestLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(http.ErrAbortHandler)
		}))

		assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
			wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		})
	})
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := middleware.NewRateLimiter(3, time.Minute)

	for i := range 3 {
		assert.True(t, rl.Allow("10.1.1.1"), "request %d within burst", i+1)
	}
	assert.False(t, rl.Allow("10.1.1.1"))
	assert.True(t, rl.Allow("10.1.1.2"), "other clients keep their own bucket")

	zero := middleware.NewRateLimiter(0, time.Minute)
	assert.True(t, zero.Allow("x"), "non-positive budget still admits one request")
	assert.False(t, zero.Allow("x"))
}

func TestRateLimit_Middleware(t *testing.T) {
	wrapped := middleware.RateLimit(1, time.Minute)(okHandler("ok"))

	send := func(remote, forwarded string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/import/excel", nil)
		req.RemoteAddr = remote
		if forwarded != "" {
			req.Header.Set("X-Forwarded-For", forwarded)
		}
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send("127.0.0.1:4000", "").Code)

	limited := send("127.0.0.1:4001", "")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "60", limited.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, send("127.0.0.1:4002", "10.0.0.9, 127.0.0.1").Code,
		"forwarded client gets its own bucket")
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		origin     string
		method     string
		wantStatus int
		wantOrigin string
	}{
		{"wildcard_echoes_origin", []string{"*"}, "http://kasir.local", http.MethodGet, http.StatusOK, "http://kasir.local"},
		{"listed_origin", []string{"http://kasir.local", "http://admin.local"}, "http://admin.local", http.MethodGet, http.StatusOK, "http://admin.local"},
		{"unlisted_origin_gets_no_headers", []string{"http://kasir.local"}, "http://evil.example", http.MethodGet, http.StatusOK, ""},
		{"preflight_short_circuits", []string{"*"}, "http://kasir.local", http.MethodOptions, http.StatusNoContent, "http://kasir.local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := middleware.CORS(tt.allowed, "X-Toko-Trace")(okHandler("ok"))

			req := httptest.NewRequest(tt.method, "/api/v1/export/excel", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			wrapped.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			if tt.wantOrigin != "" {
				exposed := w.Header().Get("Access-Control-Expose-Headers")
				assert.Contains(t, exposed, "X-Toko-Trace")
				assert.Contains(t, exposed, "Content-Disposition", "export downloads need the file name")
				assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Toko-Trace")
			}
		})
	}
}

func TestSecureHeaders(t *testing.T) {
	wrapped := middleware.SecureHeaders(okHandler(""))

	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reports/short/receipt", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "'unsafe-inline'")
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"), "plain HTTP gets no HSTS")
}

func TestTimeout(t *testing.T) {
	slow := func(delay time.Duration) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(delay):
				_, _ = w.Write([]byte("report ready"))
			case <-r.Context().Done():
			}
		}
	}

	tests := []struct {
		name       string
		timeout    time.Duration
		delay      time.Duration
		wantStatus int
		wantBody   string
	}{
		{"fast_report", time.Second, 5 * time.Millisecond, http.StatusOK, "report ready"},
		{"slow_report_is_503", 30 * time.Millisecond, time.Second, http.StatusServiceUnavailable, "request timeout"},
		{"disabled", 0, 5 * time.Millisecond, http.StatusOK, "report ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := middleware.Timeout(tt.timeout)(slow(tt.delay))

			w := httptest.NewRecorder()
			wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reports/full", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) middleware.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := middleware.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mark("request_id"), mark("logger"), mark("recovery"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"request_id", "logger", "recovery", "handler"}, order)
}
