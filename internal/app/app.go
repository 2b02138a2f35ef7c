// Package app assembles the service with fx: configuration, stores, the
// email pipeline, services, handlers and the HTTP server.
package app

import (
	"go.uber.org/fx"

	"github.com/noah-isme/college-admin-api/internal/service"
	"github.com/noah-isme/college-admin-api/pkg/config"
	"github.com/noah-isme/college-admin-api/pkg/logger"
	"github.com/noah-isme/college-admin-api/pkg/validation"
)

// Module is the complete application graph.
var Module = fx.Options(
	fx.Provide(
		config.Load,
		logger.New,
		validation.New,
		service.NewMetricsService,
	),
	infrastructure,
	services,
	transport,
)
