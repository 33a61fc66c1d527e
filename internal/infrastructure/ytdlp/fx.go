package ytdlp

import (
	"context"

	"github.com/lrstanley/go-ytdlp"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/tubedrop/config"
	"github.com/Conte777/tubedrop/internal/infrastructure/metrics"
)

// Module provides the yt-dlp client for fx dependency injection
var Module = fx.Module("ytdlp",
	fx.Provide(provideClient),
	fx.Invoke(registerInstall),
)

func provideClient(cfg *config.YtDlpConfig, m *metrics.Metrics, logger zerolog.Logger) *Client {
	return NewClient(cfg, m, logger)
}

// registerInstall fetches the yt-dlp binary on start when auto install is on
func registerInstall(lc fx.Lifecycle, cfg *config.YtDlpConfig, logger zerolog.Logger) {
	if !cfg.AutoInstall || cfg.Path != "" {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return Install(ctx, logger)
		},
	})
}

// Install downloads yt-dlp into the library cache unless it is already there
func Install(ctx context.Context, logger zerolog.Logger) error {
	resolved, err := ytdlp.Install(ctx, nil)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to install yt-dlp")
		return err
	}

	logger.Info().
		Str("executable", resolved.Executable).
		Str("version", resolved.Version).
		Msg("yt-dlp is ready")

	return nil
}
