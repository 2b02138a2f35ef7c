package handler

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/noah-isme/college-admin-api/internal/models"
	"github.com/noah-isme/college-admin-api/internal/service"
	"github.com/noah-isme/college-admin-api/pkg/response"
)

type admissionService interface {
	Submit(ctx context.Context, req service.SubmitAdmissionRequest, uploads map[string][]service.UploadedFile) (*service.AdmissionSubmission, error)
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Student, error)
	Screening(ctx context.Context, id string) (*service.ScreeningView, error)
	UpdateStatus(ctx context.Context, id string, req service.UpdateAdmissionStatusRequest) (*service.AdmissionDecision, error)
	Approve(ctx context.Context, id string, req service.ApproveAdmissionRequest) (*service.AdmissionDecision, error)
	StatusByEmail(ctx context.Context, email string) (*models.AdmissionStatusView, error)
	Delete(ctx context.Context, id string) error
}

// AdmissionHandler exposes the intake form and the staff review workflow.
type AdmissionHandler struct {
	admissions admissionService
}

// NewAdmissionHandler constructs AdmissionHandler.
func NewAdmissionHandler(admissions admissionService) *AdmissionHandler {
	return &AdmissionHandler{admissions: admissions}
}

// Submit godoc
// @Summary Submit an admission application
// @Tags Admission
// @Accept multipart/form-data
// @Produce json
// @Param firstName formData string true "First name"
// @Param lastName formData string true "Last name"
// @Param email formData string true "Email"
// @Param phone formData string true "Phone"
// @Param dateOfBirth formData string true "Date of birth (YYYY-MM-DD)"
// @Param gender formData string true "Male, Female or Other"
// @Param nationality formData string true "Nationality"
// @Param address formData string true "Address JSON"
// @Param academicInfo formData string true "Academic info JSON"
// @Param emergencyContact formData string true "Emergency contact JSON"
// @Param profilePhoto formData file false "Profile photo"
// @Param idProof formData file false "ID proof"
// @Param addressProof formData file false "Address proof"
// @Param academicCertificates formData file false "Academic certificates (up to 5)"
// @Param otherDocuments formData file false "Other documents (up to 3)"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admission/submit [post]
func (h *AdmissionHandler) Submit(c *gin.Context) {
	var req service.SubmitAdmissionRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	uploads, err := formUploads(c)
	if err != nil {
		response.Error(c, bindError(err))
		return
	}
	result, err := h.admissions.Submit(c.Request.Context(), req, uploads)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Admission form submitted successfully", result)
}

// formUploads collects the document slots of a multipart request. Other
// content types carry no files.
func formUploads(c *gin.Context) (map[string][]service.UploadedFile, error) {
	uploads := map[string][]service.UploadedFile{}
	if c.ContentType() != binding.MIMEMultipartPOSTForm {
		return uploads, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	for _, slot := range service.DocumentSlots() {
		for _, fh := range form.File[slot] {
			uploads[slot] = append(uploads[slot], uploadedFile(fh))
		}
	}
	return uploads, nil
}

func uploadedFile(fh *multipart.FileHeader) service.UploadedFile {
	return service.UploadedFile{
		Filename: fh.Filename,
		Size:     fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// List godoc
// @Summary List admission applications
// @Tags Admission
// @Produce json
// @Param status query string false "Pending, Under Review, Approved or Rejected"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admission/applications [get]
func (h *AdmissionHandler) List(c *gin.Context) {
	filter := models.StudentFilter{
		Status:      models.AdmissionStatus(strings.TrimSpace(c.Query("status"))),
		PageRequest: pageFromQuery(c),
	}
	applications, pagination, err := h.admissions.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "", applications, pagination)
}

// Get godoc
// @Summary Get an application
// @Tags Admission
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admission/applications/{id} [get]
func (h *AdmissionHandler) Get(c *gin.Context) {
	application, err := h.admissions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", application)
}

// Screening godoc
// @Summary Get an application with signed document links
// @Tags Admission
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Router /admission/applications/{id}/screening [get]
func (h *AdmissionHandler) Screening(c *gin.Context) {
	view, err := h.admissions.Screening(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", view)
}

// UpdateStatus godoc
// @Summary Change the admission status
// @Tags Admission
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param payload body service.UpdateAdmissionStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admission/applications/{id}/status [put]
func (h *AdmissionHandler) UpdateStatus(c *gin.Context) {
	var req service.UpdateAdmissionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	decision, err := h.admissions.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Admission status updated to "+string(decision.AdmissionStatus), decision)
}

// Approve godoc
// @Summary Approve an application and issue portal credentials
// @Tags Admission
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param payload body service.ApproveAdmissionRequest false "Optional temporary password"
// @Success 200 {object} response.Envelope
// @Router /admission/applications/{id}/approve [post]
func (h *AdmissionHandler) Approve(c *gin.Context) {
	var req service.ApproveAdmissionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, bindError(err))
			return
		}
	}
	decision, err := h.admissions.Approve(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Admission approved", decision)
}

// StatusByEmail godoc
// @Summary Check an application status by email
// @Tags Admission
// @Produce json
// @Param email path string true "Applicant email"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admission/status/{email} [get]
func (h *AdmissionHandler) StatusByEmail(c *gin.Context) {
	view, err := h.admissions.StatusByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", view)
}

// Delete godoc
// @Summary Delete an application and its documents
// @Tags Admission
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Router /admission/applications/{id} [delete]
func (h *AdmissionHandler) Delete(c *gin.Context) {
	if err := h.admissions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Application deleted successfully", nil)
}
