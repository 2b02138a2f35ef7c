package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-admin-api/internal/middleware"
	"github.com/noah-isme/college-admin-api/internal/models"
	appErrors "github.com/noah-isme/college-admin-api/pkg/errors"
)

var errPayloadTooLarge = appErrors.New("PAYLOAD_TOO_LARGE", http.StatusRequestEntityTooLarge, "Request body too large")

// bindError maps a body binding failure to an envelope error.
func bindError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errPayloadTooLarge
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload")
}

func pageFromQuery(c *gin.Context) models.PageRequest {
	var page models.PageRequest
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		page.Page = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(models.DefaultPageSize))); err == nil {
		page.Limit = v
	}
	return page.Normalize()
}

// auditTarget names the record a route without an id parameter touched.
func auditTarget(c *gin.Context, id string) {
	if id = strings.TrimSpace(id); id != "" {
		c.Set(middleware.AuditResourceIDKey, id)
	}
}
