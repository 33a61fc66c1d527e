// Package kafka contains Kafka repository implementations
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/Conte777/tubedrop/config"
	"github.com/Conte777/tubedrop/internal/domain/media/deps"
	"github.com/Conte777/tubedrop/internal/domain/media/dto"
)

// ProduceRecorder records Kafka produce outcomes
type ProduceRecorder interface {
	RecordKafkaMessage(duration float64)
	RecordKafkaError(errorType string)
}

// Producer implements deps.JobEventPublisher
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	metrics  ProduceRecorder
	healthy  atomic.Bool
	logger   zerolog.Logger
}

// NewProducer creates a new Kafka producer that implements deps.JobEventPublisher
func NewProducer(cfg *config.KafkaConfig, metrics ProduceRecorder, logger zerolog.Logger) (deps.JobEventPublisher, error) {
	brokers := cfg.Brokers
	if len(brokers) == 0 {
		brokers = []string{"localhost:9093"}
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Info().Strs("brokers", brokers).Str("topic", cfg.Topic).Msg("Kafka producer initialized successfully")

	return newProducer(producer, cfg.Topic, metrics, logger), nil
}

func newProducer(producer sarama.SyncProducer, topic string, metrics ProduceRecorder, logger zerolog.Logger) *Producer {
	p := &Producer{
		producer: producer,
		topic:    topic,
		metrics:  metrics,
		logger:   logger.With().Str("component", "job_events").Logger(),
	}
	p.healthy.Store(true)
	return p
}

// Publish sends a job event keyed by job id so one job stays on one partition
func (p *Producer) Publish(ctx context.Context, event *dto.JobEvent) error {
	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event to JSON: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.JobID),
		Value: sarama.ByteEncoder(jsonData),
		Headers: []sarama.RecordHeader{
			{Key: []byte("state"), Value: []byte(event.State)},
			{Key: []byte("chat_id"), Value: []byte(strconv.FormatInt(event.ChatID, 10))},
		},
	}

	start := time.Now()
	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		p.healthy.Store(false)
		p.metrics.RecordKafkaError("send_failed")
		p.logger.Error().Err(err).Str("topic", p.topic).Str("job_id", event.JobID).Msg("Failed to send Kafka message")
		return err
	}

	p.healthy.Store(true)
	p.metrics.RecordKafkaMessage(time.Since(start).Seconds())

	p.logger.Debug().
		Str("topic", p.topic).
		Str("job_id", event.JobID).
		Str("state", event.State).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Kafka message sent successfully")

	return nil
}

// IsHealthy reports whether the last send succeeded
func (p *Producer) IsHealthy() bool {
	return p.healthy.Load()
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	if p.producer == nil {
		return nil
	}
	if err := p.producer.Close(); err != nil {
		p.logger.Error().Err(err).Msg("Failed to close Kafka producer")
		return err
	}
	p.logger.Info().Msg("Kafka producer closed successfully")
	return nil
}

// NoopPublisher drops job events; used when Kafka is disabled
type NoopPublisher struct{}

// NewNoopPublisher creates a publisher that does nothing
func NewNoopPublisher() deps.JobEventPublisher {
	return NoopPublisher{}
}

func (NoopPublisher) Publish(context.Context, *dto.JobEvent) error { return nil }

func (NoopPublisher) IsHealthy() bool { return true }

func (NoopPublisher) Close() error { return nil }
