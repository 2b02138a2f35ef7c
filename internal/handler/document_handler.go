package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-admin-api/internal/service"
	appErrors "github.com/noah-isme/college-admin-api/pkg/errors"
	"github.com/noah-isme/college-admin-api/pkg/response"
)

type documentDownloader interface {
	Download(ctx context.Context, token string) (*service.DocumentDownload, error)
}

// DocumentHandler streams stored admission documents.
type DocumentHandler struct {
	documents documentDownloader
}

// NewDocumentHandler constructs DocumentHandler.
func NewDocumentHandler(documents documentDownloader) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// Download godoc
// @Summary Download a stored document through a signed token
// @Tags Documents
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /documents/download [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	file, err := h.documents.Download(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.File.Close()

	c.Header("Cache-Control", "private, no-store")
	c.DataFromReader(http.StatusOK, file.SizeBytes, file.MimeType, file.File, map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", file.Filename),
	})
}
