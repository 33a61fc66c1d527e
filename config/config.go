package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds all configuration for the bot
type Config struct {
	Telegram TelegramConfig
	Media    MediaConfig
	YtDlp    YtDlpConfig
	Kafka    KafkaConfig
	Logging  LoggingConfig
	Service  ServiceConfig
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken string
	Workers  int
}

// MediaConfig holds download and transcoding options
type MediaConfig struct {
	DownloadDir      string
	VideoContainer   string
	AutoMaxHeight    int
	AudioCodec       string
	AudioQuality     string
	ProgressInterval time.Duration
}

// YtDlpConfig holds yt-dlp executable options
type YtDlpConfig struct {
	Path        string
	AutoInstall bool
}

// KafkaConfig holds Kafka configuration for job events
type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Name string
	Port string
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config   *Config
	Telegram *TelegramConfig
	Media    *MediaConfig
	YtDlp    *YtDlpConfig
	Kafka    *KafkaConfig
	Logging  *LoggingConfig
	Service  *ServiceConfig
}

// Out loads and validates configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	return Result{
		Config:   cfg,
		Telegram: &cfg.Telegram,
		Media:    &cfg.Media,
		YtDlp:    &cfg.YtDlp,
		Kafka:    &cfg.Kafka,
		Logging:  &cfg.Logging,
		Service:  &cfg.Service,
	}, nil
}

// Load loads configuration from environment variables.
// It does not validate: commands that never talk to Telegram can run without a token.
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	maxHeight, err := strconv.Atoi(getEnv("AUTO_MAX_HEIGHT", "480"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTO_MAX_HEIGHT: %w", err)
	}

	workers, err := strconv.Atoi(getEnv("TELEGRAM_WORKERS", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_WORKERS: %w", err)
	}

	progressInterval, err := time.ParseDuration(getEnv("PROGRESS_INTERVAL", "2s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PROGRESS_INTERVAL: %w", err)
	}

	autoInstall, err := strconv.ParseBool(getEnv("YTDLP_AUTO_INSTALL", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid YTDLP_AUTO_INSTALL: %w", err)
	}

	kafkaEnabled, err := strconv.ParseBool(getEnv("KAFKA_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid KAFKA_ENABLED: %w", err)
	}

	cfg := &Config{
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			Workers:  workers,
		},
		Media: MediaConfig{
			DownloadDir:      getEnv("DOWNLOAD_DIR", "downloads"),
			VideoContainer:   strings.ToLower(getEnv("VIDEO_CONTAINER", "mp4")),
			AutoMaxHeight:    maxHeight,
			AudioCodec:       strings.ToLower(getEnv("AUDIO_CODEC", "mp3")),
			AudioQuality:     getEnv("AUDIO_QUALITY", "192"),
			ProgressInterval: progressInterval,
		},
		YtDlp: YtDlpConfig{
			Path:        getEnv("YTDLP_PATH", ""),
			AutoInstall: autoInstall,
		},
		Kafka: KafkaConfig{
			Enabled: kafkaEnabled,
			Brokers: splitList(getEnv("KAFKA_BROKERS", "localhost:9093")),
			Topic:   getEnv("KAFKA_TOPIC", "media.jobs"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Service: ServiceConfig{
			Name: getEnv("SERVICE_NAME", "tubedrop"),
			Port: getEnv("SERVICE_PORT", "8081"),
		},
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	if c.Telegram.Workers <= 0 {
		return fmt.Errorf("TELEGRAM_WORKERS must be positive, got %d", c.Telegram.Workers)
	}

	if c.Media.DownloadDir == "" {
		return fmt.Errorf("DOWNLOAD_DIR must not be empty")
	}

	if c.Media.AutoMaxHeight <= 0 {
		return fmt.Errorf("AUTO_MAX_HEIGHT must be positive, got %d", c.Media.AutoMaxHeight)
	}

	if c.Media.AudioCodec == "" {
		return fmt.Errorf("AUDIO_CODEC must not be empty")
	}

	if c.Media.ProgressInterval <= 0 {
		return fmt.Errorf("PROGRESS_INTERVAL must be positive")
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}

	return nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
