package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serve(header string) (echoed, seen string) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/", func(c *gin.Context) {
		seen = Value(c)
		c.Status(http.StatusNoContent)
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(headerKey, header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Header().Get(headerKey), seen
}

func TestMiddlewareKeepsWellFormedID(t *testing.T) {
	echoed, seen := serve("gateway-7f3a9c21")
	assert.Equal(t, "gateway-7f3a9c21", echoed)
	assert.Equal(t, echoed, seen)
}

func TestMiddlewareReplacesMissingOrHostileID(t *testing.T) {
	for _, header := range []string{"", "short", "bad id\nwith newline"} {
		echoed, seen := serve(header)
		assert.NotEqual(t, header, echoed)
		assert.Len(t, echoed, 36)
		assert.Equal(t, echoed, seen)
	}
}
