package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/noah-isme/college-admin-api/internal/service"
	"github.com/noah-isme/college-admin-api/pkg/config"
)

const (
	defaultRetrySchedule = "@every 5m"
	retrySweepTimeout    = 2 * time.Minute
)

// cronLogger routes cron's own logging through zap.
type cronLogger struct {
	sugar *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}

// scheduleEmailRetry runs the failed-email sweep on the configured schedule.
func scheduleEmailRetry(lc fx.Lifecycle, cfg *config.Config, notifications *service.NotificationService, logger *zap.Logger) error {
	schedule := cfg.Email.RetrySchedule
	if schedule == "" {
		schedule = defaultRetrySchedule
	}
	clog := cronLogger{sugar: logger.Named("cron").Sugar()}
	c := cron.New(cron.WithLogger(clog), cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)))

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), retrySweepTimeout)
		defer cancel()
		summary, err := notifications.RetryFailed(ctx)
		if err != nil {
			logger.Error("email retry sweep failed", zap.Error(err))
			return
		}
		if summary.Found > 0 {
			logger.Info("email retry sweep",
				zap.Int("found", summary.Found),
				zap.Int("queued", summary.Queued),
				zap.Int("failed", summary.Failed))
		}
	})
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			c.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			select {
			case <-c.Stop().Done():
			case <-ctx.Done():
			}
			return nil
		},
	})
	return nil
}
