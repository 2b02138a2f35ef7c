package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	_ "github.com/noah-isme/college-admin-api/api/swagger"
	"github.com/noah-isme/college-admin-api/internal/app"
)

// @title College Admin API
// @version 1.0.0
// @description Admission intake, hostel allocation and fee tracking for a college administration office.
// @BasePath /api
// @schemes http

func main() {
	fx.New(
		app.Module,
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
	).Run()
}
