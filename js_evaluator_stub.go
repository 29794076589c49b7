//go:build !js_eval

package lexicon

// jsUnavailable stands in for the goja evaluator so rules configured with it
// fail to compile instead of panicking on a nil Evaluator.
type jsUnavailable struct{}

// NewJSEvaluator returns an evaluator whose every call fails with
// ErrJSUnavailable. Build with -tags js_eval to link the goja runtime.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	_ = newJSOptions(opts)
	return jsUnavailable{}
}

func (jsUnavailable) Evaluate(RuleContext, string) (any, error) {
	return nil, wrapEvaluatorError("js", ErrJSUnavailable)
}

func (jsUnavailable) Compile(string) (CompiledRule, error) {
	return nil, wrapEvaluatorError("js", ErrJSUnavailable)
}
