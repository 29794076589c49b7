package lexicon

import (
	"fmt"
	"time"
)

// ExpressionRule is a Qualifier whose parameter predicate is an expression.
// Expressions see name, value, mode, occurrence, present and args. A line
// qualifies when every parameter that affects its identity does. Evaluation
// failures and non-bool results reject and are reported to the logger.
type ExpressionRule struct {
	expression string
	engine     string
	rule       CompiledRule
	args       map[string]any
	logger     EvaluatorLogger
}

// ExpressionRuleOption configures an ExpressionRule.
type ExpressionRuleOption func(*expressionRuleConfig)

type expressionRuleConfig struct {
	evaluator Evaluator
	cache     ProgramCache
	functions *FunctionRegistry
	args      map[string]any
	logger    EvaluatorLogger
}

// WithRuleEvaluator selects the engine. The default is NewExprEvaluator.
func WithRuleEvaluator(e Evaluator) ExpressionRuleOption {
	return func(cfg *expressionRuleConfig) {
		cfg.evaluator = e
	}
}

// WithRuleProgramCache shares compiled programs with the default evaluator.
func WithRuleProgramCache(cache ProgramCache) ExpressionRuleOption {
	return func(cfg *expressionRuleConfig) {
		cfg.cache = cache
	}
}

// WithRuleFunctions exposes registry to the default evaluator.
func WithRuleFunctions(registry *FunctionRegistry) ExpressionRuleOption {
	return func(cfg *expressionRuleConfig) {
		cfg.functions = registry
	}
}

// WithCustomFunction registers a single helper for the default evaluator.
func WithCustomFunction(name string, fn Function) ExpressionRuleOption {
	return func(cfg *expressionRuleConfig) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		} else {
			cfg.functions = cfg.functions.Clone()
		}
		_ = cfg.functions.Register(name, fn)
	}
}

// WithRuleArgs binds args as the args variable.
func WithRuleArgs(args map[string]any) ExpressionRuleOption {
	return func(cfg *expressionRuleConfig) {
		cfg.args = cloneArgs(args)
	}
}

// WithEvaluatorLogger reports every evaluation to logger.
func WithEvaluatorLogger(logger EvaluatorLogger) ExpressionRuleOption {
	return func(cfg *expressionRuleConfig) {
		cfg.logger = logger
	}
}

// NewExpressionRule compiles expression. Compilation errors are returned
// here so that a constructed rule never fails at qualification time.
func NewExpressionRule(expression string, opts ...ExpressionRuleOption) (*ExpressionRule, error) {
	cfg := expressionRuleConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	evaluator := cfg.evaluator
	if evaluator == nil {
		var exprOpts []ExprEvaluatorOption
		if cfg.cache != nil {
			exprOpts = append(exprOpts, ExprWithProgramCache(cfg.cache))
		}
		if cfg.functions != nil {
			exprOpts = append(exprOpts, ExprWithFunctionRegistry(cfg.functions))
		}
		evaluator = NewExprEvaluator(exprOpts...)
	}
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}
	engine := evaluatorEngineName(evaluator)
	rule, err := evaluator.Compile(expression)
	if err != nil {
		return nil, wrapEvaluationError(engine, expression, "", err)
	}
	if cfg.logger == nil {
		cfg.logger = noopEvaluatorLogger{}
	}
	return &ExpressionRule{
		expression: expression,
		engine:     engine,
		rule:       rule,
		args:       cfg.args,
		logger:     cfg.logger,
	}, nil
}

// MustExpressionRule is NewExpressionRule that panics on error.
func MustExpressionRule(expression string, opts ...ExpressionRuleOption) *ExpressionRule {
	rule, err := NewExpressionRule(expression, opts...)
	if err != nil {
		panic(err)
	}
	return rule
}

// Expression returns the source expression.
func (r *ExpressionRule) Expression() string {
	return r.expression
}

// Engine names the evaluator: expr, cel, js or custom.
func (r *ExpressionRule) Engine() string {
	return r.engine
}

// Qualify evaluates the expression for every identity-affecting parameter.
func (r *ExpressionRule) Qualify(line Line) bool {
	return qualifyOccurrences(line, r.QualifyParameter)
}

// QualifyParameter evaluates the expression for one occurrence. Failures
// and non-bool results reject and are reported to the logger.
func (r *ExpressionRule) QualifyParameter(p *Parameter, occurrence int) bool {
	ctx := RuleContext{Parameter: p, Occurrence: occurrence, Args: r.args}
	started := time.Now()
	result, err := r.evaluate(ctx)
	accepted := false
	if err == nil {
		b, ok := result.(bool)
		if !ok {
			err = wrapEvaluationError(r.engine, r.expression, ctx.label(), fmt.Errorf("result %T is not a bool", result))
		}
		accepted = ok && b
	}
	r.logger.LogEvaluation(EvaluatorLogEvent{
		Engine:   r.engine,
		Expr:     r.expression,
		Target:   ctx.label(),
		Result:   accepted,
		Duration: time.Since(started),
		Err:      err,
	})
	return accepted
}

func (r *ExpressionRule) evaluate(ctx RuleContext) (result any, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = wrapEvaluationError(r.engine, r.expression, ctx.label(), fmt.Errorf("panic: %v", recovered))
		}
	}()
	return r.rule.Evaluate(ctx)
}

// NeedsOccurrenceIndex is true: expressions may read occurrence.
func (*ExpressionRule) NeedsOccurrenceIndex() bool { return true }
