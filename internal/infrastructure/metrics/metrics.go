// Package metrics contains Prometheus metrics of the bot
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the bot
type Metrics struct {
	// Download metrics
	DownloadsTotal   *prometheus.CounterVec
	DownloadDuration *prometheus.HistogramVec
	UploadedBytes    *prometheus.CounterVec

	// Interaction metrics
	FormatListings   *prometheus.CounterVec
	UnknownCallbacks prometheus.Counter
	Sessions         prometheus.Gauge
	DroppedProgress  prometheus.Counter

	// Kafka metrics
	KafkaMessagesProduced prometheus.Counter
	KafkaProduceErrors    *prometheus.CounterVec
	KafkaProduceDuration  prometheus.Histogram
}

var (
	// DefaultMetrics is the default metrics instance
	DefaultMetrics *Metrics
	once           sync.Once
)

// GetDefaultMetrics returns the singleton metrics instance
func GetDefaultMetrics() *Metrics {
	once.Do(func() {
		DefaultMetrics = NewMetrics()
	})
	return DefaultMetrics
}

func init() {
	GetDefaultMetrics()
}

// NewMetrics creates a new Metrics instance registered with the default registry.
// Use GetDefaultMetrics; a second call panics on duplicate registration.
func NewMetrics() *Metrics {
	return &Metrics{
		DownloadsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tubedrop_downloads_total",
				Help: "Total number of download jobs by kind and result",
			},
			[]string{"kind", "result"},
		),
		DownloadDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tubedrop_download_duration_seconds",
				Help:    "Duration of successful download and upload cycles in seconds",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1200},
			},
			[]string{"kind"},
		),
		UploadedBytes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tubedrop_uploaded_bytes_total",
				Help: "Total number of bytes uploaded to chats",
			},
			[]string{"kind"},
		),

		FormatListings: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tubedrop_format_listings_total",
				Help: "Total number of quality listings by outcome",
			},
			[]string{"result"},
		),
		UnknownCallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tubedrop_unknown_callbacks_total",
			Help: "Total number of button presses with an unrecognised payload",
		}),
		Sessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "tubedrop_sessions",
			Help: "Current number of conversations with state",
		}),
		DroppedProgress: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tubedrop_progress_events_dropped_total",
			Help: "Total number of progress events dropped on a full channel",
		}),

		KafkaMessagesProduced: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tubedrop_kafka_messages_produced_total",
			Help: "Total number of job events produced to Kafka",
		}),
		KafkaProduceErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tubedrop_kafka_produce_errors_total",
				Help: "Total number of Kafka produce errors",
			},
			[]string{"error_type"},
		),
		KafkaProduceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tubedrop_kafka_produce_duration_seconds",
			Help:    "Duration of Kafka produce operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// RecordDownload records a completed job
func (m *Metrics) RecordDownload(kind string, durationSeconds float64, bytes int64) {
	m.DownloadsTotal.WithLabelValues(kind, "ok").Inc()
	m.DownloadDuration.WithLabelValues(kind).Observe(durationSeconds)
	// Only add positive values to prevent counter from going backwards
	if bytes > 0 {
		m.UploadedBytes.WithLabelValues(kind).Add(float64(bytes))
	}
}

// RecordDownloadError records a failed job with error type
func (m *Metrics) RecordDownloadError(kind, errorType string) {
	if errorType == "" {
		errorType = "unknown"
	}
	m.DownloadsTotal.WithLabelValues(kind, errorType).Inc()
}

// RecordFormatListing records a quality listing outcome
func (m *Metrics) RecordFormatListing(result string) {
	m.FormatListings.WithLabelValues(result).Inc()
}

// RecordUnknownCallback records an unrecognised button payload
func (m *Metrics) RecordUnknownCallback() {
	m.UnknownCallbacks.Inc()
}

// SetSessions updates the sessions gauge
func (m *Metrics) SetSessions(count int) {
	m.Sessions.Set(float64(count))
}

// RecordDroppedProgressEvent records a progress event that did not fit the channel
func (m *Metrics) RecordDroppedProgressEvent() {
	m.DroppedProgress.Inc()
}

// RecordKafkaMessage records a Kafka message production with duration
func (m *Metrics) RecordKafkaMessage(duration float64) {
	m.KafkaMessagesProduced.Inc()
	m.KafkaProduceDuration.Observe(duration)
}

// RecordKafkaError records a Kafka production error with error type
func (m *Metrics) RecordKafkaError(errorType string) {
	if errorType == "" {
		errorType = "unknown"
	}
	m.KafkaProduceErrors.WithLabelValues(errorType).Inc()
}
