package lexicon

const (
	// Recommended priorities for common layering patterns. Higher numbers win.
	ScopePriorityFallback    = 100
	ScopePriorityLibrary     = 200
	ScopePriorityApplication = 300
	ScopePriorityOverride    = 400
)

// OverrideApplicationLibraryFallback assembles the usual four layer stack
// (override → application → library → fallback) and returns it as a
// Composition. Nil assets are left out.
func OverrideApplicationLibraryFallback(override, application, library, fallback Asset) (*Composition, error) {
	candidates := []Layer{
		NewLayer(NewScope("override", ScopePriorityOverride, WithScopeLabel("Overrides")), override),
		NewLayer(NewScope("application", ScopePriorityApplication, WithScopeLabel("Application")), application),
		NewLayer(NewScope("library", ScopePriorityLibrary, WithScopeLabel("Library")), library),
		NewLayer(NewScope("fallback", ScopePriorityFallback, WithScopeLabel("Fallback")), fallback),
	}
	layers := candidates[:0]
	for _, layer := range candidates {
		if layer.Asset != nil {
			layers = append(layers, layer)
		}
	}
	stack, err := NewStack(layers...)
	if err != nil {
		return nil, err
	}
	return stack.Composition(), nil
}
