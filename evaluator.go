package lexicon

import (
	"errors"
	"fmt"
	"maps"
	"sync"
)

// ErrNoEvaluator is returned when an expression rule has no evaluator.
var ErrNoEvaluator = errors.New("lexicon: evaluator not configured")

// RuleContext carries the parameter occurrence an expression judges. A nil
// Parameter means the parameter is not present on the line.
type RuleContext struct {
	Parameter  *Parameter
	Occurrence int
	Args       map[string]any
}

// bindings returns the variables exposed to expressions: name, value, mode,
// occurrence, present and args.
func (ctx RuleContext) bindings() map[string]any {
	b := map[string]any{
		"name":       "",
		"value":      "",
		"mode":       "",
		"occurrence": ctx.Occurrence,
		"present":    false,
		"args":       ctx.argsOrEmpty(),
	}
	if p := ctx.Parameter; p != nil {
		b["name"] = p.Name
		b["value"] = p.Value
		b["mode"] = p.Mode.String()
		b["present"] = !p.Absent
	}
	return b
}

func (ctx RuleContext) argsOrEmpty() map[string]any {
	if ctx.Args == nil {
		return map[string]any{}
	}
	return ctx.Args
}

func (ctx RuleContext) label() string {
	if ctx.Parameter == nil || ctx.Parameter.Name == "" {
		return "<missing>"
	}
	return fmt.Sprintf("%s#%d", ctx.Parameter.Name, ctx.Occurrence)
}

// Evaluator executes expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule is a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// ProgramCache stores compiled programs keyed by expression.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// MapProgramCache is an unbounded, concurrency safe ProgramCache.
type MapProgramCache struct {
	mu       sync.RWMutex
	programs map[string]any
}

// NewProgramCache returns an empty MapProgramCache.
func NewProgramCache() *MapProgramCache {
	return &MapProgramCache{programs: map[string]any{}}
}

// Get returns the program stored under key.
func (c *MapProgramCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.programs[key]
	return v, ok
}

// Set stores value under key.
func (c *MapProgramCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.programs == nil {
		c.programs = map[string]any{}
	}
	c.programs[key] = value
}

// Len returns the number of cached programs.
func (c *MapProgramCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.programs)
}

func cloneArgs(args map[string]any) map[string]any {
	return maps.Clone(args)
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*lexicon.exprEvaluator":
		return "expr"
	case "*lexicon.celEvaluator":
		return "cel"
	case "*lexicon.jsEvaluator", "lexicon.jsUnavailable":
		return "js"
	default:
		return "custom"
	}
}
