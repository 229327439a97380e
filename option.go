package careflow

import (
	"embed"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/careflow/metrics"
	"github.com/viant/careflow/service/dsl"
	"github.com/viant/careflow/tracing"
	"go.uber.org/zap"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises the service
type Option func(s *Service)

// WithConfig sets the configuration
func WithConfig(config *Config) Option {
	return func(s *Service) {
		if config != nil {
			s.config = config
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock sets the time source of definition metadata
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLoader sets the document loader
func WithLoader(loader *dsl.Loader) Option {
	return func(s *Service) {
		s.loader = loader
	}
}

// WithEmbedFS serves embed:// document locations from fs
func WithEmbedFS(fs *embed.FS) Option {
	return func(s *Service) {
		s.loaderOptions = append(s.loaderOptions, dsl.WithEmbedFS(fs))
	}
}

// WithMetrics registers compilation metrics with registerer
func WithMetrics(registerer prometheus.Registerer) Option {
	return func(s *Service) {
		s.registerer = registerer
	}
}

// WithCollector sets a pre-built metrics collector
func WithCollector(collector *metrics.Collector) Option {
	return func(s *Service) {
		s.metrics = collector
	}
}

// WithTracing configures OpenTelemetry tracing with the stdout exporter; when
// outputFile is empty traces go to os.Stdout. Only the first initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing with a custom exporter
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
