package lexicon

import (
	"errors"
	"time"
)

// ErrJSUnavailable is returned by the JS evaluator when the binary was built
// without the js_eval tag.
var ErrJSUnavailable = errors.New("lexicon: js evaluator requires the js_eval build tag")

type jsOptions struct {
	cache    ProgramCache
	registry *FunctionRegistry
	timeout  time.Duration
}

// JSEvaluatorOption configures NewJSEvaluator.
type JSEvaluatorOption func(*jsOptions)

// JSWithProgramCache shares compiled scripts through cache.
func JSWithProgramCache(cache ProgramCache) JSEvaluatorOption {
	return func(o *jsOptions) { o.cache = cache }
}

// JSWithFunctionRegistry exposes a snapshot of registry to scripts.
func JSWithFunctionRegistry(registry *FunctionRegistry) JSEvaluatorOption {
	return func(o *jsOptions) {
		if registry != nil {
			o.registry = registry.Clone()
		}
	}
}

// JSWithTimeout interrupts scripts that run longer than d. Zero disables
// the limit.
func JSWithTimeout(d time.Duration) JSEvaluatorOption {
	return func(o *jsOptions) {
		if d >= 0 {
			o.timeout = d
		}
	}
}

func newJSOptions(opts []JSEvaluatorOption) jsOptions {
	o := jsOptions{timeout: 100 * time.Millisecond}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
