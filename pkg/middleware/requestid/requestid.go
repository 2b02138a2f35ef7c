// Package requestid tags every request with an id that is echoed back to the
// client and attached to logs and audit entries.
package requestid

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	headerKey  = "X-Request-ID"
	contextKey = "request_id"
)

// Inbound ids are kept only when they look like an id; anything else is
// replaced so it cannot pollute logs.
var acceptedID = regexp.MustCompile(`^[A-Za-z0-9._:-]{8,64}$`)

// Middleware assigns the request id.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerKey)
		if !acceptedID.MatchString(id) {
			id = uuid.NewString()
		}
		c.Set(contextKey, id)
		c.Header(headerKey, id)
		c.Next()
	}
}

// Value returns the id assigned by Middleware, or "".
func Value(c *gin.Context) string {
	return c.GetString(contextKey)
}
