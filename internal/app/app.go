// Package app contains application bootstrap
package app

import (
	"go.uber.org/fx"

	"github.com/Conte777/tubedrop/config"
	"github.com/Conte777/tubedrop/internal/domain"
	"github.com/Conte777/tubedrop/internal/infrastructure"
)

// CreateApp creates fx application with all modules
func CreateApp() fx.Option {
	return fx.Options(
		// Configuration
		fx.Provide(config.Out),

		// Infrastructure (logger, metrics, telegram bot, yt-dlp, http)
		infrastructure.Module,

		// Domain (media download business logic)
		domain.Module,
	)
}
