package lexicon

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Function is a helper callable from rule expressions.
type Function func(args ...any) (any, error)

var (
	// ErrFunctionExists is returned when registering a name twice.
	ErrFunctionExists = errors.New("lexicon: function already registered")
	// ErrFunctionNotFound is returned when calling an unknown function.
	ErrFunctionNotFound = errors.New("lexicon: function not registered")
)

// FunctionRegistry holds helpers exposed to expression rules. Names are
// exposed verbatim and through call(name, args...).
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

// NewFunctionRegistry returns an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{functions: map[string]Function{}}
}

// Register stores fn under name.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	if name == "" {
		return fmt.Errorf("lexicon: function name must not be empty")
	}
	if fn == nil {
		return fmt.Errorf("lexicon: function %q is nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = map[string]Function{}
	}
	if _, exists := r.functions[name]; exists {
		return fmt.Errorf("%w: %s", ErrFunctionExists, name)
	}
	r.functions[name] = fn
	return nil
}

// Clone returns an independent copy.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &FunctionRegistry{functions: maps.Clone(r.functions)}
}

// Call runs the function registered under name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: %s", ErrFunctionNotFound, name)
	}
	r.mu.RLock()
	fn := r.functions[name]
	r.mu.RUnlock()
	if fn == nil {
		return nil, fmt.Errorf("%w: %s", ErrFunctionNotFound, name)
	}
	return fn(args...)
}

// Names returns the registered names sorted.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.functions))
}

func (r *FunctionRegistry) bind(name string) func(...any) (any, error) {
	return func(args ...any) (any, error) {
		return r.Call(name, args...)
	}
}
