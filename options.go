package tskit

import (
	"log/slog"

	"github.com/hupe1980/tskit/codec"
	"github.com/hupe1980/tskit/resource"
)

type options struct {
	codec            codec.Codec
	metricsCollector MetricsCollector
	logger           *Logger
	resources        *resource.Controller
}

// Option configures table collections and tree sequences. Options given to
// New or a Load function are inherited by everything derived from the
// result (copies, tree sequences, simplified outputs).
type Option func(*options)

// WithCodec configures the codec used to encode provenance records.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &tskit.BasicMetricsCollector{}
//	tables, _ := tskit.New(1e6, tskit.WithMetricsCollector(metrics))
//	defer tables.Close()
//	// ... build, dump ...
//	stats := metrics.GetStats()
//	fmt.Printf("Dumps: %d, open handles: %d\n", stats.DumpCount, stats.OpenHandles())
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := tskit.NewJSONLogger(slog.LevelInfo)
//	tables, _ := tskit.New(1e6, tskit.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithResourceController charges the bytes held by the tables against the
// controller's memory limit and paces dump and load streams by its IO
// limit. Row additions that exceed the limit fail with KindOutOfMemory.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:            codec.Default,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
