package lexicon

import (
	"errors"
	"fmt"
	"strings"
)

// Line is an immutable localization key: a reference to the tail Part of a
// backward linked chain. The zero value is the empty line and uses the
// DefaultFactory.
type Line struct {
	tail    *Part
	factory *Factory
}

// NewLine returns an empty line that appends through f.
func NewLine(f *Factory) Line {
	return Line{factory: f}
}

// Tail returns the last Part, nil for the empty line.
func (l Line) Tail() *Part {
	return l.tail
}

// IsEmpty reports whether the line has no Parts.
func (l Line) IsEmpty() bool {
	return l.tail == nil
}

// Factory returns the factory the line appends through.
func (l Line) Factory() *Factory {
	if l.factory == nil {
		return defaultFactory
	}
	return l.factory
}

// WithFactory rebinds the line to f without copying any Part. Later appends
// and Prune go through f.
func (l Line) WithFactory(f *Factory) Line {
	return Line{tail: l.tail, factory: f}
}

// Previous drops the tail Part.
func (l Line) Previous() Line {
	return Line{tail: l.tail.Previous(), factory: l.factory}
}

// Len returns the number of Parts.
func (l Line) Len() int {
	n := 0
	for p := l.tail; p != nil; p = p.prev {
		n++
	}
	return n
}

// Parts returns the chain ordered root to tail.
func (l Line) Parts() []*Part {
	n := l.Len()
	if n == 0 {
		return nil
	}
	out := make([]*Part, n)
	for p := l.tail; p != nil; p = p.prev {
		n--
		out[n] = p
	}
	return out
}

// Parameters returns every parameter ordered root to tail, hints and absent
// values included.
func (l Line) Parameters() []Parameter {
	var out []Parameter
	for _, part := range l.Parts() {
		out = append(out, part.Parameters()...)
	}
	return out
}

// Append adds one Part bundling args.
func (l Line) Append(args ...Argument) (Line, error) {
	return l.Factory().Create(l, args...)
}

func (l Line) appendParameter(p Parameter) Line {
	return Line{
		tail:    &Part{prev: l.tail, args: []Argument{ParameterArgument(p)}},
		factory: l.factory,
	}
}

// Parameter appends name=value with the mode registered in the factory's
// ParameterInfos.
func (l Line) Parameter(name, value string) Line {
	return l.appendParameter(Parameter{
		Name:  name,
		Value: value,
		Mode:  l.Factory().parameterInfos().ModeOf(name),
	})
}

// Canonical appends a canonical parameter.
func (l Line) Canonical(name, value string) Line {
	return l.appendParameter(NewCanonical(name, value))
}

// NonCanonical appends a non-canonical parameter.
func (l Line) NonCanonical(name, value string) Line {
	return l.appendParameter(NewNonCanonical(name, value))
}

// Hint appends a hint parameter.
func (l Line) Hint(name, value string) Line {
	return l.appendParameter(NewHint(name, value))
}

// With appends an arbitrary parameter.
func (l Line) With(p Parameter) Line {
	return l.appendParameter(p)
}

func (l Line) Key(value string) Line      { return l.Parameter(ParameterKey, value) }
func (l Line) Section(value string) Line  { return l.Parameter(ParameterSection, value) }
func (l Line) Culture(value string) Line  { return l.Parameter(ParameterCulture, value) }
func (l Line) Type(value string) Line     { return l.Parameter(ParameterType, value) }
func (l Line) Resource(value string) Line { return l.Parameter(ParameterResource, value) }
func (l Line) Location(value string) Line { return l.Parameter(ParameterLocation, value) }
func (l Line) Assembly(value string) Line { return l.Parameter(ParameterAssembly, value) }
func (l Line) BaseName(value string) Line { return l.Parameter(ParameterBaseName, value) }

// Asset attaches an asset reference to the line.
func (l Line) Asset(asset Asset) (Line, error) {
	return l.Append(AssetArgument(asset))
}

// Inline attaches text for culture ("" for the invariant default).
func (l Line) Inline(culture, text string) (Line, error) {
	return l.Append(InlinesArgument(Inlines{culture: text}))
}

// Get returns the effective value for name. Non-canonical parameters use
// their root-closest value, canonical ones their last occurrence.
func (l Line) Get(name string) (string, bool) {
	value, found := "", false
	for _, ep := range EffectiveParameters(l) {
		if ep.Name != name {
			continue
		}
		value, found = ep.Value, true
	}
	return value, found
}

// EffectiveCulture returns the Culture value or "" when the line has none.
func (l Line) EffectiveCulture() string {
	culture, _ := l.Get(ParameterCulture)
	return culture
}

// Assets returns attached assets ordered tail to root.
func (l Line) Assets() []Asset {
	var out []Asset
	for p := l.tail; p != nil; p = p.prev {
		for i := len(p.args) - 1; i >= 0; i-- {
			if p.args[i].Kind == KindAsset && p.args[i].Value != nil {
				out = append(out, p.args[i].Value)
			}
		}
	}
	return out
}

// Inlines merges every inline argument; values closer to the tail win.
func (l Line) Inlines() Inlines {
	var out Inlines
	for p := l.tail; p != nil; p = p.prev {
		for i := len(p.args) - 1; i >= 0; i-- {
			inlines, ok := p.args[i].Value.(Inlines)
			if p.args[i].Kind != KindInlines || !ok {
				continue
			}
			for culture, text := range inlines {
				if out == nil {
					out = Inlines{}
				}
				if _, seen := out[culture]; !seen {
					out[culture] = text
				}
			}
		}
	}
	return out
}

// String renders the parameters as Name:Value pairs separated by ':'.
// Backslashes and colons inside names or values are escaped.
func (l Line) String() string {
	var b strings.Builder
	for _, p := range l.Parameters() {
		if p.Absent {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(':')
		}
		b.WriteString(escapeToken(p.Name))
		b.WriteByte(':')
		b.WriteString(escapeToken(p.Value))
	}
	return b.String()
}

// ErrMalformedLine reports a string that cannot be parsed into a line.
var ErrMalformedLine = errors.New("lexicon: malformed line")

// ParseLine parses the String form using the DefaultFactory.
func ParseLine(s string) (Line, error) {
	return defaultFactory.Parse(s)
}

// Parse parses the String form, assigning modes from the factory's
// ParameterInfos.
func (f *Factory) Parse(s string) (Line, error) {
	line := f.Line()
	if s == "" {
		return line, nil
	}
	tokens, err := splitTokens(s)
	if err != nil {
		return Line{}, err
	}
	if len(tokens)%2 != 0 {
		return Line{}, fmt.Errorf("%w: %q has an odd number of tokens", ErrMalformedLine, s)
	}
	for i := 0; i < len(tokens); i += 2 {
		if tokens[i] == "" {
			return Line{}, fmt.Errorf("%w: empty parameter name in %q", ErrMalformedLine, s)
		}
		line = line.Parameter(tokens[i], tokens[i+1])
	}
	return line, nil
}

func escapeToken(s string) string {
	if !strings.ContainsAny(s, `\:`) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if r == '\\' || r == ':' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func splitTokens(s string) ([]string, error) {
	var (
		tokens  []string
		current strings.Builder
		escaped bool
	)
	for _, r := range s {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ':':
			tokens = append(tokens, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	if escaped {
		return nil, fmt.Errorf("%w: dangling escape in %q", ErrMalformedLine, s)
	}
	return append(tokens, current.String()), nil
}
