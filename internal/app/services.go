package app

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/noah-isme/college-admin-api/internal/models"
	"github.com/noah-isme/college-admin-api/internal/repository"
	"github.com/noah-isme/college-admin-api/internal/service"
	"github.com/noah-isme/college-admin-api/pkg/config"
	"github.com/noah-isme/college-admin-api/pkg/jobs"
	"github.com/noah-isme/college-admin-api/pkg/mailer"
	"github.com/noah-isme/college-admin-api/pkg/storage"
)

const emailQueueBuffer = 256

var services = fx.Options(
	fx.Provide(
		newNotificationService,
		newDocumentService,
		newAdmissionService,
		newHostelService,
		newFeeService,
		newStudentService,
		newDashboardService,
		newExportService,
	),
	fx.Invoke(scheduleEmailRetry),
)

// newNotificationService builds the email queue around the delivery worker
// and ties the queue to the app lifecycle.
func newNotificationService(lc fx.Lifecycle, cfg *config.Config, students *repository.StudentRepository, metrics *service.MetricsService, logger *zap.Logger) (*service.NotificationService, error) {
	sender, err := mailer.New(cfg.Email, logger)
	if err != nil {
		return nil, err
	}
	worker := service.NewEmailWorker(students, sender, service.EmailWorkerConfig{
		PortalURL:  cfg.Email.PortalURL,
		MaxRetries: cfg.Email.MaxRetries,
	}, metrics, logger)

	queue := jobs.NewQueue("email", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Email.Workers,
		BufferSize: emailQueueBuffer,
		MaxRetries: cfg.Email.MaxRetries,
		RetryDelay: cfg.Email.RetryDelay,
		OnGiveUp:   worker.GiveUp,
		Logger:     logger,
	})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			queue.Start(context.Background())
			return nil
		},
		OnStop: func(ctx context.Context) error {
			queue.Stop(ctx)
			return nil
		},
	})
	return service.NewNotificationService(queue, students, cfg.Email.MaxAttempts, logger), nil
}

func newDocumentService(cfg *config.Config, store *storage.LocalStorage, signer *storage.SignedURLSigner, students *repository.StudentRepository, logger *zap.Logger) *service.DocumentService {
	return service.NewDocumentService(store, signer, students, logger, service.DocumentServiceConfig{
		MaxFileSize:    cfg.Uploads.MaxFileSizeBytes,
		AllowedMIMEs:   cfg.Uploads.AllowedMIMEs,
		ThumbnailMaxPx: cfg.Uploads.ThumbnailMaxPx,
		APIPrefix:      cfg.APIPrefix,
	})
}

func newAdmissionService(students *repository.StudentRepository, documents *service.DocumentService, notifications *service.NotificationService, cache *service.CacheService, metrics *service.MetricsService, validate *validator.Validate, logger *zap.Logger) *service.AdmissionService {
	return service.NewAdmissionService(students, documents, notifications, cache, metrics, validate, logger)
}

func newHostelService(cfg *config.Config, students *repository.StudentRepository, notifications *service.NotificationService, cache *service.CacheService, metrics *service.MetricsService, validate *validator.Validate, logger *zap.Logger) *service.HostelService {
	return service.NewHostelService(students, notifications, cache, metrics, hostelConfig(cfg.Hostel), validate, logger)
}

// hostelConfig overlays configured capacity and rent onto the defaults.
func hostelConfig(cfg config.HostelConfig) service.HostelServiceConfig {
	out := service.DefaultHostelConfig()
	for name, capacity := range cfg.Capacity {
		if capacity > 0 {
			out.Capacity[models.RoomType(name)] = capacity
		}
	}
	for name, rent := range cfg.MonthlyRent {
		if rent > 0 {
			out.MonthlyRent[models.RoomType(name)] = rent
		}
	}
	if cfg.CurrencySymbol != "" {
		out.CurrencySymbol = cfg.CurrencySymbol
	}
	if cfg.DefaultBlock != "" {
		out.DefaultBlock = cfg.DefaultBlock
	}
	return out
}

func newFeeService(fees *repository.FeeRepository, students *repository.StudentRepository, cache *service.CacheService, metrics *service.MetricsService, validate *validator.Validate, logger *zap.Logger) *service.FeeService {
	return service.NewFeeService(fees, students, cache, metrics, validate, logger)
}

func newStudentService(students *repository.StudentRepository, documents *service.DocumentService, cache *service.CacheService, validate *validator.Validate, logger *zap.Logger) *service.StudentService {
	return service.NewStudentService(students, documents, cache, validate, logger)
}

func newDashboardService(cfg *config.Config, students *repository.StudentRepository, fees *repository.FeeRepository, cache *service.CacheService, logger *zap.Logger) *service.DashboardService {
	return service.NewDashboardService(service.DashboardServiceParams{
		Students: students,
		Fees:     fees,
		Cache:    cache,
		Logger:   logger,
		Config: service.DashboardServiceConfig{
			CacheTTL:       cfg.Stats.CacheTTL,
			TotalBeds:      cfg.Hostel.TotalBeds,
			CurrencySymbol: cfg.Hostel.CurrencySymbol,
		},
	})
}

func newExportService(cfg *config.Config, fees *repository.FeeRepository, students *repository.StudentRepository, logger *zap.Logger) *service.ExportService {
	// Core PDF fonts have no rupee glyph; the export falls back to "Rs.".
	return service.NewExportService(fees, students, service.ExportConfig{Institution: cfg.Institution}, logger)
}
