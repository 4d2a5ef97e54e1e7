// Package observability provides structured logging and Prometheus metrics
// for PostureBoard.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// NewLogger builds a zap logger from config.
func NewLogger(cfg LoggingConfig) (*zap.Logger, error) {
	var config zap.Config

	if cfg.Format == "console" {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	switch cfg.Level {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	config.InitialFields = map[string]interface{}{
		"service": "postureboard",
	}

	return config.Build()
}

// Metrics holds Prometheus metrics for the ingest pipeline and HTTP API.
type Metrics struct {
	// Pipeline metrics
	DocumentsParsed    prometheus.Counter
	DocumentsFailed    prometheus.Counter
	FindingsExtracted  *prometheus.CounterVec
	TableBuildDuration prometheus.Histogram

	// API metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics registers the metric set on the given registerer. Tests pass a
// fresh registry to avoid duplicate registration panics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	namespace := "postureboard"
	factory := promauto.With(reg)

	return &Metrics{
		DocumentsParsed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_parsed_total",
			Help:      "Total export documents parsed successfully",
		}),
		DocumentsFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_failed_total",
			Help:      "Total export documents that failed to parse",
		}),
		FindingsExtracted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "findings_extracted_total",
			Help:      "Total findings extracted by source service",
		}, []string{"service"}),
		TableBuildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "table_build_duration_seconds",
			Help:      "Normalized table build duration",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by path and status",
		}, []string{"path", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by path",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"path"}),
	}
}
