package middleware

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-admin-api/internal/models"
	"github.com/noah-isme/college-admin-api/pkg/middleware/requestid"
)

// AuditResourceIDKey lets a handler name the record it touched when the
// route has no id parameter.
const AuditResourceIDKey = "audit_resource_id"

type auditRecorder interface {
	Enabled() bool
	Record(ctx context.Context, entry *models.AuditLog)
}

// Audit creates a middleware that records audit logs after successful requests.
// idParam names the route parameter holding the resource id, if any.
func Audit(recorder auditRecorder, action, resource, idParam string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if recorder == nil || !recorder.Enabled() {
			c.Next()
			return
		}
		start := time.Now().UTC()
		c.Next()

		if c.Writer.Status() >= 400 {
			return
		}

		var resourceID *string
		if idParam != "" {
			if v := c.Param(idParam); v != "" {
				resourceID = &v
			}
		}
		if v := c.GetString(AuditResourceIDKey); v != "" {
			resourceID = &v
		}

		body, _ := json.Marshal(map[string]interface{}{
			"path":    c.FullPath(),
			"method":  c.Request.Method,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).Milliseconds(),
		})

		recorder.Record(context.WithoutCancel(c.Request.Context()), &models.AuditLog{
			Action:     action,
			Resource:   resource,
			ResourceID: resourceID,
			NewValues:  body,
			IPAddress:  c.ClientIP(),
			UserAgent:  c.GetHeader("User-Agent"),
			RequestID:  requestid.Value(c),
			CreatedAt:  start,
		})
	}
}
