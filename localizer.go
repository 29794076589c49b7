package lexicon

import (
	"context"

	"golang.org/x/text/language"
)

// Localizer resolves lines against a root asset, honouring the inline
// values and asset references a line carries. For each culture it tries, in
// order: the line's inline text for that culture, the assets attached to the
// line, then the root. The line's invariant inline text ("" culture) is the
// last resort.
type Localizer struct {
	root     Asset
	resolver *Resolver
	fallback bool
}

// LocalizerOption configures a Localizer.
type LocalizerOption func(*Localizer)

// WithLocalizerResolver replaces the DefaultResolver.
func WithLocalizerResolver(r *Resolver) LocalizerOption {
	return func(l *Localizer) {
		if r != nil {
			l.resolver = r
		}
	}
}

// WithCultureFallback makes lookups retry parent cultures ("en-US", "en",
// then the invariant culture) when the requested culture has no value.
func WithCultureFallback(enabled bool) LocalizerOption {
	return func(l *Localizer) {
		l.fallback = enabled
	}
}

// NewLocalizer builds a Localizer over root. root may be nil when every
// line carries its own assets.
func NewLocalizer(root Asset, opts ...LocalizerOption) *Localizer {
	l := &Localizer{root: root, resolver: defaultResolver}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// String resolves key to a string.
func (l *Localizer) String(ctx context.Context, key Line) (string, bool, error) {
	inlines := key.Inlines()
	attached := NewComposition(key.Assets()...)
	for _, culture := range l.cultureChain(key.EffectiveCulture()) {
		if culture != "" {
			if text, ok := inlines[culture]; ok {
				return text, true, nil
			}
		}
		lookupKey := withCulture(key, culture)
		if attached.Len() > 0 {
			value, found, err := l.resolver.GetString(ctx, attached, lookupKey)
			if err != nil || found {
				return value, found, err
			}
		}
		if l.root != nil {
			value, found, err := l.resolver.GetString(ctx, l.root, lookupKey)
			if err != nil || found {
				return value, found, err
			}
		}
	}
	if text, ok := inlines[""]; ok {
		return text, true, nil
	}
	return "", false, nil
}

// Resource resolves key to resource bytes, consulting attached assets
// before the root.
func (l *Localizer) Resource(ctx context.Context, key Line) ([]byte, bool, error) {
	attached := NewComposition(key.Assets()...)
	for _, culture := range l.cultureChain(key.EffectiveCulture()) {
		lookupKey := withCulture(key, culture)
		for _, root := range []Asset{attached, l.root} {
			if root == nil {
				continue
			}
			data, found, err := l.resolver.GetResourceBytes(ctx, root, lookupKey)
			if err != nil || found {
				return data, found, err
			}
		}
	}
	return nil, false, nil
}

// Cultures lists the cultures the root has content for, best effort.
func (l *Localizer) Cultures(ctx context.Context) (Result[string], error) {
	return l.resolver.GetCultures(ctx, l.root)
}

// Keys lists the keys matching filter, best effort.
func (l *Localizer) Keys(ctx context.Context, filter Line) (Result[Line], error) {
	return l.resolver.GetKeys(ctx, l.root, filter)
}

func (l *Localizer) cultureChain(culture string) []string {
	if !l.fallback || culture == "" {
		return []string{culture}
	}
	return CultureFallback(culture)
}

// CultureFallback returns culture followed by its parents and the invariant
// culture "". Names that do not parse as BCP 47 tags fall back straight to
// the invariant culture.
func CultureFallback(culture string) []string {
	chain := []string{culture}
	if culture == "" {
		return chain
	}
	tag, err := language.Parse(culture)
	if err != nil {
		return append(chain, "")
	}
	for parent := tag.Parent(); parent != language.Und; parent = parent.Parent() {
		name := parent.String()
		if name != chain[len(chain)-1] {
			chain = append(chain, name)
		}
	}
	return append(chain, "")
}

// withCulture rebuilds key with culture as its root-most Culture value, or
// without any Culture when culture is "". Attached assets and inlines are
// not carried over.
func withCulture(key Line, culture string) Line {
	if key.EffectiveCulture() == culture {
		return key
	}
	out := NewLine(key.factory)
	if culture != "" {
		out = out.Culture(culture)
	}
	for _, p := range key.Parameters() {
		if p.Name == ParameterCulture && p.Mode == ModeNonCanonical {
			continue
		}
		out = out.With(p)
	}
	return out
}
