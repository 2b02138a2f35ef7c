package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/noah-isme/college-admin-api/internal/models"
	"github.com/noah-isme/college-admin-api/internal/service"
	"github.com/noah-isme/college-admin-api/pkg/config"
)

func TestModuleGraphIsComplete(t *testing.T) {
	require.NoError(t, fx.ValidateApp(Module))
}

func TestHostelConfigOverlaysDefaults(t *testing.T) {
	cfg := hostelConfig(config.HostelConfig{
		Capacity:    map[string]int{"Single": 40, "Double": 0},
		MonthlyRent: map[string]int64{"Triple": 5500},
	})
	assert.Equal(t, 40, cfg.Capacity[models.RoomSingle])
	assert.Equal(t, 100, cfg.Capacity[models.RoomDouble])
	assert.Equal(t, int64(5500), cfg.MonthlyRent[models.RoomTriple])
	assert.Equal(t, "Main", cfg.DefaultBlock)
	assert.Equal(t, "₹", cfg.CurrencySymbol)
}

func TestRouterServesOpsRoutes(t *testing.T) {
	cfg := &config.Config{Env: config.EnvProduction, APIPrefix: "/api", BodyLimitBytes: 1024}
	h := newHandlers(handlerParams{
		Logger:  zap.NewNop(),
		Metrics: service.NewMetricsService(),
		Audit:   service.NewAuditService(nil, nil),
	})
	r := newRouter(cfg, zap.NewNop(), service.NewMetricsService(), h)

	for _, path := range []string{"/health", "/api/health"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Route not found")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/index.html", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	registered := map[string]bool{}
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}
	for _, want := range []string{
		"POST /api/admission/submit",
		"PUT /api/admission/applications/:id/status",
		"POST /api/hostel/allocate",
		"POST /api/students/hostel/apply",
		"GET /api/students/hostel/:email",
		"POST /api/fees/pay",
		"GET /api/fees/:id/payments/export",
		"GET /api/dashboard/stats",
		"POST /api/notifications/retry",
		"GET /api/audit-logs",
	} {
		assert.True(t, registered[want], want)
	}
}
