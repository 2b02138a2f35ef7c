package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/noah-isme/college-admin-api/internal/middleware"
	"github.com/noah-isme/college-admin-api/internal/models"
	"github.com/noah-isme/college-admin-api/pkg/config"
	"github.com/noah-isme/college-admin-api/pkg/response"
)

const (
	resourceAdmission     = "admission"
	resourceStudents      = "students"
	resourceHostel        = "hostel"
	resourceFees          = "fees"
	resourceNotifications = "notifications"
)

func registerRoutes(r *gin.Engine, cfg *config.Config, h *handlers) {
	audit := func(action, resource, idParam string) gin.HandlerFunc {
		return middleware.Audit(h.auditRecorder, action, resource, idParam)
	}

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	r.GET("/metrics", h.metrics.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/health", h.metrics.Health)

	admission := api.Group("/admission")
	admission.POST("/submit", h.admission.Submit)
	admission.GET("/status/:email", h.admission.StatusByEmail)
	admission.GET("/applications", h.admission.List)
	admission.GET("/applications/:id", h.admission.Get)
	admission.GET("/applications/:id/screening", h.admission.Screening)
	admission.PUT("/applications/:id/status", audit(models.AuditAdmissionStatus, resourceAdmission, "id"), h.admission.UpdateStatus)
	admission.POST("/applications/:id/approve", audit(models.AuditAdmissionApprove, resourceAdmission, "id"), h.admission.Approve)
	admission.DELETE("/applications/:id", audit(models.AuditStudentDelete, resourceAdmission, "id"), h.admission.Delete)

	hostel := api.Group("/hostel")
	hostel.GET("/stats", h.hostel.Stats)
	hostel.GET("/applications", h.hostel.Applications)
	hostel.POST("/allocate", audit(models.AuditHostelAllocate, resourceHostel, ""), h.hostel.Allocate)
	hostel.POST("/vacate", audit(models.AuditHostelVacate, resourceHostel, ""), h.hostel.Vacate)

	students := api.Group("/students")
	students.POST("/hostel/apply", h.hostel.Apply)
	students.GET("/hostel/:email", h.hostel.Info)
	students.GET("/by-email/:email", h.student.ByEmail)
	students.GET("/all", h.student.List)
	students.GET("/:id", h.student.Get)
	students.PUT("/:id", audit(models.AuditStudentUpdate, resourceStudents, "id"), h.student.Update)
	students.DELETE("/:id", audit(models.AuditStudentDelete, resourceStudents, "id"), h.student.Delete)

	fees := api.Group("/fees")
	fees.POST("/create", audit(models.AuditFeeCreate, resourceFees, ""), h.fee.Create)
	fees.GET("/list", h.fee.List)
	fees.GET("/stats", h.fee.Stats)
	fees.GET("/student/:email", h.fee.ForStudent)
	fees.POST("/pay", audit(models.AuditFeePayment, resourceFees, ""), h.fee.Pay)
	fees.GET("/:id", h.fee.Get)
	fees.PUT("/:id/status", audit(models.AuditFeeStatus, resourceFees, "id"), h.fee.UpdateStatus)
	fees.GET("/:id/receipts/:receiptNumber", h.fee.Receipt)
	fees.GET("/:id/payments/export", h.fee.Ledger)

	api.GET("/dashboard/stats", h.dashboard.Stats)
	api.GET("/documents/download", h.document.Download)
	api.POST("/notifications/retry", audit(models.AuditEmailRetry, resourceNotifications, ""), h.notification.Retry)
	api.GET("/audit-logs", h.audit.List)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response.Envelope{Success: false, Message: "Route not found"})
	})
}
