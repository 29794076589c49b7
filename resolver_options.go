package lexicon

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// DefaultMaxDepth bounds how deep provider materialization may nest.
const DefaultMaxDepth = 32

const tracerName = "github.com/goliatone/go-lexicon"

// ResolverOption configures a Resolver.
type ResolverOption func(*resolverConfig)

type resolverConfig struct {
	logger   ResolutionLogger
	tracer   trace.Tracer
	maxDepth int
}

func applyResolverOptions(opts []ResolverOption) resolverConfig {
	cfg := resolverConfig{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = noopResolutionLogger{}
	}
	if cfg.tracer == nil {
		cfg.tracer = otel.Tracer(tracerName)
	}
	return cfg
}

// WithResolutionLogger attaches a logger to the Resolver.
func WithResolutionLogger(logger ResolutionLogger) ResolverOption {
	return func(cfg *resolverConfig) {
		cfg.logger = logger
	}
}

// WithTracer replaces the OpenTelemetry tracer used for resolution spans.
func WithTracer(tracer trace.Tracer) ResolverOption {
	return func(cfg *resolverConfig) {
		cfg.tracer = tracer
	}
}

// WithMaxDepth sets how many nested compositions and provider hops a
// traversal may take before failing with ErrMaxDepth.
func WithMaxDepth(depth int) ResolverOption {
	return func(cfg *resolverConfig) {
		if depth > 0 {
			cfg.maxDepth = depth
		}
	}
}
