package globals

import (
	"github.com/goliatone/go-globals/pkg/activity"
	"github.com/goliatone/go-globals/pkg/codec"
	"github.com/goliatone/go-globals/pkg/state"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/goliatone/go-globals"

// Option configures a Syncer.
type Option func(*syncerConfig)

type syncerConfig struct {
	codec           codec.Codec
	key             string
	backend         string
	logger          Logger
	registerer      prometheus.Registerer
	tracer          trace.Tracer
	activityHooks   activity.Hooks
	activityChannel string
	actorID         string
}

func applyOptions(opts []Option) syncerConfig {
	cfg := syncerConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.codec == nil {
		cfg.codec = codec.Deflate()
	}
	if cfg.key == "" {
		cfg.key = state.FileBaseName + state.VariantMZ.Extension()
	}
	if cfg.logger == nil {
		cfg.logger = noopLogger{}
	}
	if cfg.tracer == nil {
		cfg.tracer = otel.Tracer(instrumentationName)
	}
	return cfg
}

// WithCodec sets the codec snapshots are written with. Defaults to the MZ
// deflate codec.
func WithCodec(c codec.Codec) Option {
	return func(cfg *syncerConfig) {
		cfg.codec = c
	}
}

// WithKey sets the store key the snapshot lives under.
func WithKey(key string) Option {
	return func(cfg *syncerConfig) {
		cfg.key = key
	}
}

// WithLocation takes the key and backend label from a resolved location.
func WithLocation(location state.Location) Option {
	return func(cfg *syncerConfig) {
		cfg.key = location.Key
		cfg.backend = string(location.Runtime)
	}
}

// WithLogger attaches a sync logger. Nil restores the noop logger.
func WithLogger(logger Logger) Option {
	return func(cfg *syncerConfig) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}

// WithMetrics registers sync counters and histograms on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(cfg *syncerConfig) {
		cfg.registerer = reg
	}
}

// WithTracer replaces the tracer obtained from the global provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(cfg *syncerConfig) {
		cfg.tracer = tracer
	}
}

// WithActor stamps emitted activity events with actorID.
func WithActor(actorID string) Option {
	return func(cfg *syncerConfig) {
		cfg.actorID = actorID
	}
}
