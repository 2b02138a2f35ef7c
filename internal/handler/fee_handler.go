package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-admin-api/internal/models"
	"github.com/noah-isme/college-admin-api/internal/service"
	"github.com/noah-isme/college-admin-api/pkg/response"
)

type feeService interface {
	Create(ctx context.Context, req service.CreateFeeRequest) (*models.FeeNotice, error)
	List(ctx context.Context, filter models.FeeFilter) ([]models.FeeNotice, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.FeeNotice, error)
	ForStudent(ctx context.Context, email string) (*service.StudentFeeView, error)
	RecordPayment(ctx context.Context, req service.RecordPaymentRequest) (*service.PaymentRecord, error)
	Stats(ctx context.Context, semester, course string) (*models.FeeStats, error)
	UpdateStatus(ctx context.Context, id string, req service.UpdateFeeStatusRequest) (*models.FeeNotice, error)
}

type feeExporter interface {
	Receipt(ctx context.Context, feeID, receiptNumber string) (*service.ExportFile, error)
	Ledger(ctx context.Context, feeID, format string) (*service.ExportFile, error)
}

// FeeHandler exposes fee notices, payments and their exports.
type FeeHandler struct {
	fees    feeService
	exports feeExporter
}

// NewFeeHandler constructs FeeHandler.
func NewFeeHandler(fees feeService, exports feeExporter) *FeeHandler {
	return &FeeHandler{fees: fees, exports: exports}
}

// Create godoc
// @Summary Publish a fee notice
// @Tags Fees
// @Accept json
// @Produce json
// @Param payload body service.CreateFeeRequest true "Fee notice"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /fees/create [post]
func (h *FeeHandler) Create(c *gin.Context) {
	var req service.CreateFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	fee, err := h.fees.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	auditTarget(c, fee.ID.Hex())
	response.Created(c, "Fee notice created successfully", fee)
}

// List godoc
// @Summary List fee notices
// @Tags Fees
// @Produce json
// @Param semester query string false "Semester"
// @Param course query string false "Course (substring match)"
// @Param status query string false "Active, Inactive or Cancelled"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /fees/list [get]
func (h *FeeHandler) List(c *gin.Context) {
	filter := models.FeeFilter{
		Semester:    strings.TrimSpace(c.Query("semester")),
		Course:      strings.TrimSpace(c.Query("course")),
		Status:      models.FeeStatus(strings.TrimSpace(c.Query("status"))),
		PageRequest: pageFromQuery(c),
	}
	fees, pagination, err := h.fees.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "", fees, pagination)
}

// Get godoc
// @Summary Get a fee notice
// @Tags Fees
// @Produce json
// @Param id path string true "Fee ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /fees/{id} [get]
func (h *FeeHandler) Get(c *gin.Context) {
	fee, err := h.fees.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", fee)
}

// ForStudent godoc
// @Summary Fee notices addressed to a student
// @Tags Fees
// @Produce json
// @Param email path string true "Student email"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /fees/student/{email} [get]
func (h *FeeHandler) ForStudent(c *gin.Context) {
	view, err := h.fees.ForStudent(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", view)
}

// Pay godoc
// @Summary Record a manual payment
// @Tags Fees
// @Accept json
// @Produce json
// @Param payload body service.RecordPaymentRequest true "Payment"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /fees/pay [post]
func (h *FeeHandler) Pay(c *gin.Context) {
	var req service.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	record, err := h.fees.RecordPayment(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	auditTarget(c, req.FeeID)
	response.OK(c, "Payment recorded successfully", record)
}

// Stats godoc
// @Summary Fee collection statistics
// @Tags Fees
// @Produce json
// @Param semester query string false "Semester"
// @Param course query string false "Course (substring match)"
// @Success 200 {object} response.Envelope
// @Router /fees/stats [get]
func (h *FeeHandler) Stats(c *gin.Context) {
	stats, err := h.fees.Stats(c.Request.Context(), strings.TrimSpace(c.Query("semester")), strings.TrimSpace(c.Query("course")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", stats)
}

// UpdateStatus godoc
// @Summary Change a fee notice status
// @Tags Fees
// @Accept json
// @Produce json
// @Param id path string true "Fee ID"
// @Param payload body service.UpdateFeeStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /fees/{id}/status [put]
func (h *FeeHandler) UpdateStatus(c *gin.Context) {
	var req service.UpdateFeeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	fee, err := h.fees.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Fee status updated successfully", fee)
}

// Receipt godoc
// @Summary Download a payment receipt
// @Tags Fees
// @Produce application/pdf
// @Param id path string true "Fee ID"
// @Param receiptNumber path string true "Receipt number"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /fees/{id}/receipts/{receiptNumber} [get]
func (h *FeeHandler) Receipt(c *gin.Context) {
	file, err := h.exports.Receipt(c.Request.Context(), c.Param("id"), c.Param("receiptNumber"))
	if err != nil {
		response.Error(c, err)
		return
	}
	sendFile(c, file)
}

// Ledger godoc
// @Summary Export the payment ledger of a notice
// @Tags Fees
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Fee ID"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /fees/{id}/payments/export [get]
func (h *FeeHandler) Ledger(c *gin.Context) {
	file, err := h.exports.Ledger(c.Request.Context(), c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	sendFile(c, file)
}

func sendFile(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
