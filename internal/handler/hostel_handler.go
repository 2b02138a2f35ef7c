package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-admin-api/internal/models"
	"github.com/noah-isme/college-admin-api/internal/service"
	"github.com/noah-isme/college-admin-api/pkg/response"
)

type hostelService interface {
	Stats(ctx context.Context) ([]models.RoomOccupancy, error)
	ListApplications(ctx context.Context) ([]service.HostelApplicationView, error)
	Allocate(ctx context.Context, req service.AllocateRoomRequest) (*models.HostelAllocation, error)
	Vacate(ctx context.Context, req service.VacateRoomRequest) (*models.HostelAllocation, error)
	Apply(ctx context.Context, req service.ApplyHostelRequest) (*service.ApplyResult, error)
	Info(ctx context.Context, email string) (*service.HostelInfo, error)
}

// HostelHandler exposes hostel application and allocation endpoints.
type HostelHandler struct {
	hostel hostelService
}

// NewHostelHandler constructs HostelHandler.
func NewHostelHandler(hostel hostelService) *HostelHandler {
	return &HostelHandler{hostel: hostel}
}

// Stats godoc
// @Summary Room occupancy per room type
// @Tags Hostel
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /hostel/stats [get]
func (h *HostelHandler) Stats(c *gin.Context) {
	stats, err := h.hostel.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", stats)
}

// Applications godoc
// @Summary List hostel applications
// @Tags Hostel
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /hostel/applications [get]
func (h *HostelHandler) Applications(c *gin.Context) {
	applications, err := h.hostel.ListApplications(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", applications)
}

// Allocate godoc
// @Summary Allocate a room
// @Tags Hostel
// @Accept json
// @Produce json
// @Param payload body service.AllocateRoomRequest true "Allocation payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hostel/allocate [post]
func (h *HostelHandler) Allocate(c *gin.Context) {
	var req service.AllocateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	allocation, err := h.hostel.Allocate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	auditTarget(c, req.Email)
	response.OK(c, "Room allocated", allocation)
}

// Vacate godoc
// @Summary End an active allocation
// @Tags Hostel
// @Accept json
// @Produce json
// @Param payload body service.VacateRoomRequest true "Vacate payload"
// @Success 200 {object} response.Envelope
// @Router /hostel/vacate [post]
func (h *HostelHandler) Vacate(c *gin.Context) {
	var req service.VacateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	allocation, err := h.hostel.Vacate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	auditTarget(c, req.Email)
	response.OK(c, "Room vacated", allocation)
}

// Apply godoc
// @Summary Apply for hostel accommodation
// @Tags Hostel
// @Accept json
// @Produce json
// @Param payload body service.ApplyHostelRequest true "Application payload"
// @Success 200 {object} response.Envelope
// @Router /students/hostel/apply [post]
func (h *HostelHandler) Apply(c *gin.Context) {
	var req service.ApplyHostelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	result, err := h.hostel.Apply(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	message := "Hostel application submitted"
	if result.AlreadyApplied {
		message = "Already applied"
	}
	response.OK(c, message, result.Hostel)
}

// Info godoc
// @Summary A student's hostel record and roommates
// @Tags Hostel
// @Produce json
// @Param email path string true "Student email"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/hostel/{email} [get]
func (h *HostelHandler) Info(c *gin.Context) {
	info, err := h.hostel.Info(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", info)
}
