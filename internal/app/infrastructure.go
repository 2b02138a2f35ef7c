package app

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/noah-isme/college-admin-api/internal/repository"
	"github.com/noah-isme/college-admin-api/internal/service"
	"github.com/noah-isme/college-admin-api/pkg/cache"
	"github.com/noah-isme/college-admin-api/pkg/config"
	"github.com/noah-isme/college-admin-api/pkg/database"
	"github.com/noah-isme/college-admin-api/pkg/storage"
)

var infrastructure = fx.Options(
	fx.Provide(
		newMongo,
		newRedis,
		newLocalStorage,
		newSigner,
		repository.NewStudentRepository,
		repository.NewFeeRepository,
		newCacheService,
		newAuditService,
	),
	fx.Invoke(ensureIndexes),
)

func newMongo(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*mongo.Database, error) {
	client, db, err := database.NewMongo(context.Background(), cfg.Mongo)
	if err != nil {
		return nil, err
	}
	logger.Info("mongo connected", zap.String("database", cfg.Mongo.Database))
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	})
	return db, nil
}

// newRedis returns nil when the stats cache is disabled.
func newRedis(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*redis.Client, error) {
	client, err := cache.NewRedis(context.Background(), cfg.Redis)
	if err != nil {
		return nil, err
	}
	if client == nil {
		logger.Info("stats cache disabled")
		return nil, nil
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}

func newLocalStorage(cfg *config.Config) (*storage.LocalStorage, error) {
	return storage.NewLocalStorage(cfg.Uploads.Dir)
}

func newSigner(cfg *config.Config) *storage.SignedURLSigner {
	return storage.NewSignedURLSigner(cfg.Uploads.SigningSecret, cfg.Uploads.LinkTTL)
}

func newCacheService(client *redis.Client, metrics *service.MetricsService, cfg *config.Config, logger *zap.Logger) *service.CacheService {
	var repo service.CacheRepository
	if client != nil {
		repo = repository.NewCacheRepository(client, cfg.Redis.Namespace)
	}
	return service.NewCacheService(repo, metrics, cfg.Stats.CacheTTL, logger, client != nil)
}

// newAuditService opens the PostgreSQL audit store when the trail is enabled.
func newAuditService(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*service.AuditService, error) {
	if !cfg.Audit.Enabled {
		logger.Info("audit trail disabled")
		return service.NewAuditService(nil, logger), nil
	}
	db, err := database.NewPostgres(context.Background(), cfg.Audit.Database)
	if err != nil {
		return nil, err
	}
	repo := repository.NewAuditRepository(db)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return repo.EnsureSchema(ctx)
		},
		OnStop: func(context.Context) error {
			return db.Close()
		},
	})
	return service.NewAuditService(repo, logger), nil
}

func ensureIndexes(lc fx.Lifecycle, students *repository.StudentRepository, fees *repository.FeeRepository) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := students.EnsureIndexes(ctx); err != nil {
				return err
			}
			return fees.EnsureIndexes(ctx)
		},
	})
}
