package lexicon

import (
	"errors"
	"fmt"
	"maps"
	"sort"
)

// Scope names a precedence bucket of content (application, library,
// fallback, tenant overrides...). Higher priorities win.
type Scope struct {
	Name     string
	Label    string
	Priority int
	Metadata map[string]any
}

// ScopeOption configures a Scope.
type ScopeOption func(*Scope)

// WithScopeLabel sets a display label.
func WithScopeLabel(label string) ScopeOption {
	return func(s *Scope) {
		s.Label = label
	}
}

// WithScopeMetadata attaches a copy of metadata.
func WithScopeMetadata(metadata map[string]any) ScopeOption {
	return func(s *Scope) {
		s.Metadata = maps.Clone(metadata)
	}
}

// NewScope builds a Scope. Validation happens in NewStack.
func NewScope(name string, priority int, opts ...ScopeOption) Scope {
	s := Scope{Name: name, Priority: priority}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}

func (s Scope) clone() Scope {
	s.Metadata = maps.Clone(s.Metadata)
	return s
}

// Layer pairs a scope with the asset holding its content.
type Layer struct {
	Scope Scope
	Asset Asset
}

// NewLayer builds a Layer.
func NewLayer(scope Scope, asset Asset) Layer {
	return Layer{Scope: scope.clone(), Asset: asset}
}

var (
	// ErrScopeNameRequired indicates a layer without a scope name.
	ErrScopeNameRequired = errors.New("lexicon: scope name must be provided")
	// ErrDuplicateScopeName indicates two layers share a scope name.
	ErrDuplicateScopeName = errors.New("lexicon: scope names must be unique")
	// ErrPriorityOrder indicates two layers share a priority.
	ErrPriorityOrder = errors.New("lexicon: scope priorities must be strictly ordered")
)

// Stack is an immutable set of layers ordered strongest first.
type Stack struct {
	layers []Layer
}

// NewStack validates layers and sorts them by descending priority.
func NewStack(layers ...Layer) (*Stack, error) {
	seen := make(map[string]struct{}, len(layers))
	copied := make([]Layer, len(layers))
	for i, layer := range layers {
		if layer.Scope.Name == "" {
			return nil, ErrScopeNameRequired
		}
		if layer.Asset == nil {
			return nil, fmt.Errorf("%w: scope %s", ErrNilAsset, layer.Scope.Name)
		}
		if _, ok := seen[layer.Scope.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateScopeName, layer.Scope.Name)
		}
		seen[layer.Scope.Name] = struct{}{}
		copied[i] = Layer{Scope: layer.Scope.clone(), Asset: layer.Asset}
	}

	sort.SliceStable(copied, func(i, j int) bool {
		return copied[i].Scope.Priority > copied[j].Scope.Priority
	})
	for i := 1; i < len(copied); i++ {
		if copied[i-1].Scope.Priority == copied[i].Scope.Priority {
			return nil, fmt.Errorf("%w: %d", ErrPriorityOrder, copied[i].Scope.Priority)
		}
	}
	return &Stack{layers: copied}, nil
}

// Layers returns a copy of the layers, strongest first.
func (s *Stack) Layers() []Layer {
	if s == nil || len(s.layers) == 0 {
		return nil
	}
	out := make([]Layer, len(s.layers))
	for i, layer := range s.layers {
		out[i] = Layer{Scope: layer.Scope.clone(), Asset: layer.Asset}
	}
	return out
}

// Len returns the number of layers.
func (s *Stack) Len() int {
	if s == nil {
		return 0
	}
	return len(s.layers)
}

// Scope returns the layer registered under name.
func (s *Stack) Scope(name string) (Layer, bool) {
	if s == nil {
		return Layer{}, false
	}
	for _, layer := range s.layers {
		if layer.Scope.Name == name {
			return Layer{Scope: layer.Scope.clone(), Asset: layer.Asset}, true
		}
	}
	return Layer{}, false
}

// Composition returns a new Composition of the layer assets, strongest
// first, so single value lookups prefer higher priorities.
func (s *Stack) Composition() *Composition {
	c := NewComposition()
	if s == nil {
		return c
	}
	for _, layer := range s.layers {
		c.items = append(c.items, layer.Asset)
	}
	return c
}
