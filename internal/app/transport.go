package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/noah-isme/college-admin-api/internal/handler"
	"github.com/noah-isme/college-admin-api/internal/middleware"
	"github.com/noah-isme/college-admin-api/internal/repository"
	"github.com/noah-isme/college-admin-api/internal/service"
	"github.com/noah-isme/college-admin-api/pkg/config"
	"github.com/noah-isme/college-admin-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/college-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/college-admin-api/pkg/middleware/requestid"
)

var transport = fx.Options(
	fx.Provide(newHandlers, newRouter),
	fx.Invoke(runServer),
)

type handlerParams struct {
	fx.In

	Logger        *zap.Logger
	Metrics       *service.MetricsService
	Students      *repository.StudentRepository
	Admissions    *service.AdmissionService
	Hostel        *service.HostelService
	Fees          *service.FeeService
	StudentSvc    *service.StudentService
	Dashboard     *service.DashboardService
	Exports       *service.ExportService
	Documents     *service.DocumentService
	Notifications *service.NotificationService
	Audit         *service.AuditService
}

// handlers groups every HTTP handler for route registration.
type handlers struct {
	admission     *handler.AdmissionHandler
	hostel        *handler.HostelHandler
	fee           *handler.FeeHandler
	student       *handler.StudentHandler
	dashboard     *handler.DashboardHandler
	document      *handler.DocumentHandler
	notification  *handler.NotificationHandler
	audit         *handler.AuditHandler
	metrics       *handler.MetricsHandler
	auditRecorder *service.AuditService
}

func newHandlers(p handlerParams) *handlers {
	return &handlers{
		admission:     handler.NewAdmissionHandler(p.Admissions),
		hostel:        handler.NewHostelHandler(p.Hostel),
		fee:           handler.NewFeeHandler(p.Fees, p.Exports),
		student:       handler.NewStudentHandler(p.StudentSvc),
		dashboard:     handler.NewDashboardHandler(p.Dashboard),
		document:      handler.NewDocumentHandler(p.Documents),
		notification:  handler.NewNotificationHandler(p.Notifications),
		audit:         handler.NewAuditHandler(p.Audit),
		metrics:       handler.NewMetricsHandler(p.Metrics, p.Students, p.Logger),
		auditRecorder: p.Audit,
	}
}

func newRouter(cfg *config.Config, log *zap.Logger, metrics *service.MetricsService, h *handlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.BodyLimit(cfg.BodyLimitBytes))

	registerRoutes(r, cfg, h)
	return r
}

func runServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down the server")
			return srv.Shutdown(ctx)
		},
	})
}
