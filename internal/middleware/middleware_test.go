package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-admin-api/internal/models"
	"github.com/noah-isme/college-admin-api/internal/service"
	"github.com/noah-isme/college-admin-api/pkg/middleware/requestid"
)

type recorderStub struct {
	entries []models.AuditLog
}

func (r *recorderStub) Enabled() bool { return true }

func (r *recorderStub) Record(_ context.Context, entry *models.AuditLog) {
	r.entries = append(r.entries, *entry)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuditRecordsSuccessfulMutations(t *testing.T) {
	rec := &recorderStub{}
	r := gin.New()
	r.Use(requestid.Middleware())
	r.PUT("/fees/:id/status", Audit(rec, models.AuditFeeStatus, "fees", "id"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.POST("/hostel/allocate", Audit(rec, models.AuditHostelAllocate, "hostel", ""), func(c *gin.Context) {
		c.Set(AuditResourceIDKey, "student-1")
		c.Status(http.StatusBadRequest)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/fees/abc/status", nil)
	req.Header.Set("X-Request-ID", "req-000001")
	r.ServeHTTP(w, req)

	require.Len(t, rec.entries, 1)
	entry := rec.entries[0]
	assert.Equal(t, models.AuditFeeStatus, entry.Action)
	require.NotNil(t, entry.ResourceID)
	assert.Equal(t, "abc", *entry.ResourceID)
	assert.Equal(t, "req-000001", entry.RequestID)
	assert.Contains(t, string(entry.NewValues), `"status":200`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/hostel/allocate", nil))
	assert.Len(t, rec.entries, 1)
}

func TestBodyLimitRejectsLargeBodies(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(8))
	r.POST("/echo", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("0123456789")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("short")))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsObservesRequests(t *testing.T) {
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/ping", "/health", "/wp-admin", "/.env"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	families, err := metrics.Registry().Gather()
	require.NoError(t, err)
	routes := map[string]float64{}
	for _, f := range families {
		if !strings.Contains(f.GetName(), "http_requests_total") {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "path" {
					routes[l.GetValue()] += m.GetCounter().GetValue()
				}
			}
		}
	}
	assert.Equal(t, float64(1), routes["/ping"])
	assert.Equal(t, float64(2), routes[unmatchedRoute])
	assert.NotContains(t, routes, "/health")
}
