// Package infrastructure contains infrastructure layer components
package infrastructure

import (
	"go.uber.org/fx"

	"github.com/Conte777/tubedrop/internal/infrastructure/http"
	"github.com/Conte777/tubedrop/internal/infrastructure/logger"
	"github.com/Conte777/tubedrop/internal/infrastructure/metrics"
	"github.com/Conte777/tubedrop/internal/infrastructure/telegram"
	"github.com/Conte777/tubedrop/internal/infrastructure/ytdlp"
)

// Module provides all infrastructure components for fx dependency injection
var Module = fx.Module("infrastructure",
	logger.Module,
	metrics.Module,
	telegram.Module,
	ytdlp.Module,
	http.Module,
)
