// Package domain contains all domain modules
package domain

import (
	"go.uber.org/fx"

	"github.com/Conte777/tubedrop/internal/domain/media"
)

// Module provides all domain modules for fx dependency injection
var Module = fx.Module("domain",
	media.Module,
)
