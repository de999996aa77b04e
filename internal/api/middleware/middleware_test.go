package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/m04kA/BarberBookingService/pkg/logger"
	"github.com/m04kA/BarberBookingService/pkg/metrics"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestIDGeneratesAndPropagates(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestAdminAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	h := AdminAuth("admin", string(hash), logger.NewNop())(okHandler())

	tests := []struct {
		name       string
		user       string
		password   string
		noAuth     bool
		wantStatus int
	}{
		{name: "valid credentials", user: "admin", password: "s3cret", wantStatus: http.StatusOK},
		{name: "wrong password", user: "admin", password: "nope", wantStatus: http.StatusUnauthorized},
		{name: "wrong user", user: "root", password: "s3cret", wantStatus: http.StatusUnauthorized},
		{name: "no header", noAuth: true, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/appointments", nil)
			if !tt.noAuth {
				req.SetBasicAuth(tt.user, tt.password)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic")
				assert.Contains(t, rec.Body.String(), `"error":"unauthorized"`)
			}
		})
	}
}

func TestRedisLimiterFixedWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	limiter := NewRedisLimiter(rdb, 2, time.Minute, "test")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)

	// другой клиент считается отдельно
	ok, err = limiter.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.True(t, mr.Exists("test:10.0.0.1"))

	mr.FastForward(time.Minute + time.Second)

	ok, err = limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocalLimiter(t *testing.T) {
	limiter := NewLocalLimiter(3, time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, _ := limiter.Allow(ctx, "a")
		assert.True(t, ok)
	}
	ok, _ := limiter.Allow(ctx, "a")
	assert.False(t, ok)

	ok, _ = limiter.Allow(ctx, "b")
	assert.True(t, ok)
}

func TestLocalLimiterEvictsIdleVisitors(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	limiter := NewLocalLimiter(1, time.Minute)
	limiter.now = func() time.Time { return now }
	limiter.lastSweep = now
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		_, _ = limiter.Allow(ctx, fmt.Sprintf("10.0.0.%d", i))
	}
	assert.Len(t, limiter.visitors, 50)

	now = now.Add(30 * time.Second)
	ok, _ := limiter.Allow(ctx, "10.0.0.1")
	assert.False(t, ok)

	now = now.Add(time.Minute)
	ok, _ = limiter.Allow(ctx, "10.0.0.2")
	assert.True(t, ok)

	// остался только ключ, обратившийся после очистки
	assert.Len(t, limiter.visitors, 1)
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, assert.AnError
}

func newResolver(t *testing.T, trusted ...string) *ClientIPResolver {
	t.Helper()
	r, err := NewClientIPResolver(trusted)
	require.NoError(t, err)
	return r
}

func TestRateLimitMiddleware(t *testing.T) {
	h := RateLimit(NewLocalLimiter(1, time.Hour), newResolver(t, "172.16.0.0/12"), logger.NewNop())(okHandler())

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", nil)
		req.RemoteAddr = "172.16.0.1:40000"
		req.Header.Set("X-Forwarded-For", ip)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send("1.1.1.1").Code)

	rec := send("1.1.1.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"rate_limited"`)

	assert.Equal(t, http.StatusOK, send("2.2.2.2").Code)
}

func TestRateLimitIgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	h := RateLimit(NewLocalLimiter(1, time.Minute), newResolver(t), logger.NewNop())(okHandler())

	allowed := 0
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", nil)
		req.RemoteAddr = "203.0.113.7:51000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code == http.StatusOK {
			allowed++
			continue
		}
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	}

	assert.Equal(t, 1, allowed)
}

func TestRateLimitFailsOpen(t *testing.T) {
	h := RateLimit(failingLimiter{}, newResolver(t), logger.NewNop())(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/appointments", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClientIP(t *testing.T) {
	resolver := newResolver(t, "10.0.0.0/8", "192.168.1.10")

	tests := []struct {
		name   string
		remote string
		xff    string
		want   string
	}{
		{name: "no proxy", remote: "203.0.113.7:1234", want: "203.0.113.7"},
		{name: "untrusted peer with header", remote: "203.0.113.7:1234", xff: "8.8.8.8", want: "203.0.113.7"},
		{name: "trusted proxy", remote: "192.168.1.10:1234", xff: "8.8.8.8", want: "8.8.8.8"},
		{name: "spoofed left hop is skipped", remote: "10.1.2.3:1234", xff: "1.2.3.4, 8.8.8.8, 10.0.0.5", want: "8.8.8.8"},
		{name: "trusted proxy without header", remote: "10.1.2.3:1234", want: "10.1.2.3"},
		{name: "garbage hop", remote: "10.1.2.3:1234", xff: "not-an-ip", want: "10.1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			assert.Equal(t, tt.want, resolver.ClientIP(req))
		})
	}
}

func TestNewClientIPResolverRejectsInvalid(t *testing.T) {
	_, err := NewClientIPResolver([]string{"10.0.0.0/33"})
	assert.Error(t, err)

	_, err = NewClientIPResolver([]string{"proxy.local"})
	assert.Error(t, err)
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	m := metrics.NewWithRegistry("test_service", prometheus.NewRegistry())

	r := mux.NewRouter()
	r.Use(Metrics(m))
	r.HandleFunc("/api/v1/admin/appointments/{appointmentId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/appointments/42", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	count := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(
		"test_service", http.MethodGet, "/api/v1/admin/appointments/{appointmentId}", "404"))
	assert.Equal(t, float64(1), count)
}
