// Package media contains the media download domain module
package media

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/tubedrop/config"
	telegramDelivery "github.com/Conte777/tubedrop/internal/domain/media/delivery/telegram"
	"github.com/Conte777/tubedrop/internal/domain/media/deps"
	kafkaRepo "github.com/Conte777/tubedrop/internal/domain/media/repository/kafka"
	"github.com/Conte777/tubedrop/internal/domain/media/repository/memory"
	"github.com/Conte777/tubedrop/internal/domain/media/usecase/business"
	"github.com/Conte777/tubedrop/internal/infrastructure/http/server"
	"github.com/Conte777/tubedrop/internal/infrastructure/metrics"
	"github.com/Conte777/tubedrop/internal/infrastructure/telegram"
	"github.com/Conte777/tubedrop/internal/infrastructure/ytdlp"
)

// Module provides media domain components for fx dependency injection
var Module = fx.Module("media",
	// Repository
	fx.Provide(memory.NewSessionRepository),
	fx.Provide(provideJobEventPublisher),

	// Adapters
	fx.Provide(provideExtractor),
	fx.Provide(provideMetrics),
	fx.Provide(provideHealthChecker),

	// UseCase
	fx.Provide(business.NewUseCase),

	// Delivery - Telegram (needs raw bot from infrastructure)
	fx.Provide(provideTelegramHandlers),
	fx.Provide(telegramDelivery.NewRouter),

	// Wire cyclic dependency and register routes
	fx.Invoke(wireAndRegister),
)

// provideJobEventPublisher creates the Kafka producer, or a no-op one when Kafka is off
func provideJobEventPublisher(lc fx.Lifecycle, cfg *config.KafkaConfig, m *metrics.Metrics, logger zerolog.Logger) (deps.JobEventPublisher, error) {
	if !cfg.Enabled {
		logger.Info().Msg("Kafka disabled, job events are not published")
		return kafkaRepo.NewNoopPublisher(), nil
	}

	publisher, err := kafkaRepo.NewProducer(cfg, m, logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return publisher.Close()
		},
	})

	return publisher, nil
}

func provideExtractor(client *ytdlp.Client) deps.Extractor {
	return client
}

func provideMetrics(m *metrics.Metrics) deps.Metrics {
	return m
}

func provideHealthChecker(publisher deps.JobEventPublisher) server.HealthChecker {
	return publisher
}

// provideTelegramHandlers creates Telegram handlers with raw bot
func provideTelegramHandlers(uc *business.UseCase, bot *telegram.Bot, logger zerolog.Logger) *telegramDelivery.Handlers {
	return telegramDelivery.NewHandlers(uc, bot.Raw(), logger)
}

// wireAndRegister resolves cyclic dependency and registers routes
func wireAndRegister(
	uc *business.UseCase,
	handlers *telegramDelivery.Handlers,
	router *telegramDelivery.Router,
	bot *telegram.Bot,
) {
	// Handlers implements deps.ChatSender interface
	// This resolves the cyclic dependency: UseCase -> ChatSender <- Handlers -> UseCase
	uc.SetSender(handlers)

	router.RegisterRoutes(bot.Raw())
}
