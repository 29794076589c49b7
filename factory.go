package lexicon

import (
	"errors"
	"fmt"
)

// ArgumentKind tags the payload carried by an Argument. Factories dispatch on
// the kind through an explicit registry.
type ArgumentKind string

const (
	// KindParameter arguments carry a Parameter. Every factory supports them.
	KindParameter ArgumentKind = "parameter"
	// KindAsset arguments attach an Asset to the line.
	KindAsset ArgumentKind = "asset"
	// KindInlines arguments attach culture specific inline values.
	KindInlines ArgumentKind = "inlines"
)

// Argument is one constructible unit of a Part.
type Argument struct {
	Kind      ArgumentKind
	Parameter Parameter
	Value     any
}

// ParameterArgument wraps p.
func ParameterArgument(p Parameter) Argument {
	return Argument{Kind: KindParameter, Parameter: p}
}

// AssetArgument wraps an asset reference.
func AssetArgument(asset Asset) Argument {
	return Argument{Kind: KindAsset, Value: asset}
}

// InlinesArgument wraps a culture → text map.
func InlinesArgument(inlines Inlines) Argument {
	return Argument{Kind: KindInlines, Value: inlines}
}

func (a Argument) String() string {
	if a.Kind == KindParameter {
		return a.Parameter.String()
	}
	return fmt.Sprintf("%s(%T)", a.Kind, a.Value)
}

// Inlines maps a culture name ("" for invariant) to an inline value.
type Inlines map[string]string

func (in Inlines) clone() Inlines {
	if len(in) == 0 {
		return nil
	}
	out := make(Inlines, len(in))
	for culture, text := range in {
		out[culture] = text
	}
	return out
}

// Constructor validates or normalizes an argument before it is stored in a
// new Part. Returning an error aborts the append.
type Constructor func(previous Line, arg Argument) (Argument, error)

// ErrUnsupportedArgument is wrapped by ConstructionError when a factory has no
// constructor for an argument kind.
var ErrUnsupportedArgument = errors.New("lexicon: unsupported argument kind")

// ConstructionError reports a factory that could not build a Part.
type ConstructionError struct {
	Line     Line
	Argument Argument
	Err      error
}

func (e *ConstructionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("lexicon: construct %s after %q: %v", e.Argument, e.Line.String(), e.Err)
}

func (e *ConstructionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Factory appends Parts to lines. It is immutable once built and safe for
// concurrent use.
type Factory struct {
	constructors map[ArgumentKind]Constructor
	infos        ParameterInfos
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithConstructor registers c for kind, replacing any previous constructor.
// KindParameter cannot be overridden.
func WithConstructor(kind ArgumentKind, c Constructor) FactoryOption {
	return func(f *Factory) {
		if kind == KindParameter || kind == "" || c == nil {
			return
		}
		f.constructors[kind] = c
	}
}

// WithoutConstructor removes the constructor registered for kind.
func WithoutConstructor(kind ArgumentKind) FactoryOption {
	return func(f *Factory) {
		delete(f.constructors, kind)
	}
}

// WithParameterInfos sets the name → mode table used by Line.Parameter and
// ParseLine.
func WithParameterInfos(infos ParameterInfos) FactoryOption {
	return func(f *Factory) {
		if infos == nil {
			return
		}
		f.infos = infos.Clone()
	}
}

// NewFactory builds a factory supporting parameters, assets and inlines plus
// whatever opts register.
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{
		constructors: map[ArgumentKind]Constructor{
			KindAsset:   constructAsset,
			KindInlines: constructInlines,
		},
		infos: DefaultParameterInfos(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

var defaultFactory = NewFactory()

// DefaultFactory returns the factory used by zero value lines.
func DefaultFactory() *Factory {
	return defaultFactory
}

// Infos returns a copy of the factory's parameter table.
func (f *Factory) Infos() ParameterInfos {
	return f.parameterInfos().Clone()
}

func (f *Factory) parameterInfos() ParameterInfos {
	if f == nil || f.infos == nil {
		return defaultFactory.infos
	}
	return f.infos
}

// Supports reports whether f can construct arguments of kind.
func (f *Factory) Supports(kind ArgumentKind) bool {
	if kind == KindParameter {
		return true
	}
	if f == nil {
		return false
	}
	_, ok := f.constructors[kind]
	return ok
}

// Line returns an empty line bound to f.
func (f *Factory) Line() Line {
	return Line{factory: f}
}

// Create appends one Part bundling args after previous. With no args the
// Part is an empty placeholder.
func (f *Factory) Create(previous Line, args ...Argument) (Line, error) {
	built := make([]Argument, 0, len(args))
	for _, arg := range args {
		if arg.Kind == "" || arg.Kind == KindParameter {
			arg.Kind = KindParameter
			built = append(built, arg)
			continue
		}
		c := f.constructor(arg.Kind)
		if c == nil {
			return Line{}, &ConstructionError{Line: previous, Argument: arg, Err: ErrUnsupportedArgument}
		}
		out, err := c(previous, arg)
		if err != nil {
			return Line{}, &ConstructionError{Line: previous, Argument: arg, Err: err}
		}
		out.Kind = arg.Kind
		built = append(built, out)
	}
	return Line{
		tail:    &Part{prev: previous.tail, args: built},
		factory: f,
	}, nil
}

func (f *Factory) constructor(kind ArgumentKind) Constructor {
	if f == nil {
		return nil
	}
	return f.constructors[kind]
}

func constructAsset(_ Line, arg Argument) (Argument, error) {
	if arg.Value == nil {
		return arg, ErrNilAsset
	}
	return arg, nil
}

func constructInlines(_ Line, arg Argument) (Argument, error) {
	inlines, ok := arg.Value.(Inlines)
	if !ok {
		return arg, fmt.Errorf("inlines argument carries %T", arg.Value)
	}
	arg.Value = inlines.clone()
	return arg, nil
}
