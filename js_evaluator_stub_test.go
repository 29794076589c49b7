//go:build !js_eval

package lexicon

import (
	"errors"
	"testing"
)

func TestJSEvaluatorRequiresBuildTag(t *testing.T) {
	_, err := NewExpressionRule(`value == "x"`, WithRuleEvaluator(NewJSEvaluator(JSWithTimeout(0))))
	if !errors.Is(err, ErrJSUnavailable) {
		t.Fatalf("expected ErrJSUnavailable, got %v", err)
	}
}
