package lexicon

// Part is one immutable link of a line. It references, but never owns, the
// previous Part; lines built from a common prefix share those Parts.
type Part struct {
	prev *Part
	args []Argument
}

// Previous returns the root-ward Part, nil at the root.
func (p *Part) Previous() *Part {
	if p == nil {
		return nil
	}
	return p.prev
}

// Arguments returns a copy of the arguments bundled in the Part.
func (p *Part) Arguments() []Argument {
	if p == nil || len(p.args) == 0 {
		return nil
	}
	out := make([]Argument, len(p.args))
	copy(out, p.args)
	return out
}

// Parameters returns the parameters carried by the Part in argument order.
func (p *Part) Parameters() []Parameter {
	if p == nil {
		return nil
	}
	var out []Parameter
	for _, arg := range p.args {
		if arg.Kind == KindParameter {
			out = append(out, arg.Parameter)
		}
	}
	return out
}

// IsKey reports whether the Part carries a canonical or non-canonical
// parameter.
func (p *Part) IsKey() bool {
	return p.hasParameter(func(param Parameter) bool { return param.Mode != ModeHint })
}

// IsHint reports whether the Part carries a hint parameter.
func (p *Part) IsHint() bool {
	return p.hasParameter(func(param Parameter) bool { return param.Mode == ModeHint })
}

// HasAsset reports whether the Part references an asset.
func (p *Part) HasAsset() bool {
	return p.hasKind(KindAsset)
}

// HasInlines reports whether the Part carries inline values.
func (p *Part) HasInlines() bool {
	return p.hasKind(KindInlines)
}

// IsPlaceholder reports whether the Part carries no arguments at all.
func (p *Part) IsPlaceholder() bool {
	return p != nil && len(p.args) == 0
}

func (p *Part) hasParameter(match func(Parameter) bool) bool {
	if p == nil {
		return false
	}
	for _, arg := range p.args {
		if arg.Kind == KindParameter && match(arg.Parameter) {
			return true
		}
	}
	return false
}

func (p *Part) hasKind(kind ArgumentKind) bool {
	if p == nil {
		return false
	}
	for _, arg := range p.args {
		if arg.Kind == kind {
			return true
		}
	}
	return false
}
