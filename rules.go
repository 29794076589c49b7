package lexicon

import (
	"regexp"
	"slices"
)

// ParameterValues accepts parameters named Name whose value is one of
// Values. "" stands for a missing or absent parameter. Other names pass.
type ParameterValues struct {
	Name   string
	Values []string
}

// NewParameterValues builds a ParameterValues rule.
func NewParameterValues(name string, values ...string) ParameterValues {
	return ParameterValues{Name: name, Values: append([]string(nil), values...)}
}

// Qualify judges every occurrence of Name, or a missing one as "".
func (r ParameterValues) Qualify(line Line) bool {
	return qualifyNamed(line, r.Name, r.QualifyParameter)
}

// QualifyParameter accepts other names and listed values of Name.
func (r ParameterValues) QualifyParameter(p *Parameter, _ int) bool {
	if p == nil || p.Absent {
		return slices.Contains(r.Values, "")
	}
	if p.Name != r.Name {
		return true
	}
	return slices.Contains(r.Values, p.Value)
}

// NeedsOccurrenceIndex is false: values do not depend on position.
func (ParameterValues) NeedsOccurrenceIndex() bool { return false }

// ParameterPattern accepts parameters named Name whose value matches
// Pattern. A missing parameter is matched as "".
type ParameterPattern struct {
	Name    string
	Pattern *regexp.Regexp
}

// NewParameterPattern compiles expr into a ParameterPattern.
func NewParameterPattern(name, expr string) (ParameterPattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return ParameterPattern{}, err
	}
	return ParameterPattern{Name: name, Pattern: re}, nil
}

// Qualify matches every occurrence of Name, or "" when it is missing.
func (r ParameterPattern) Qualify(line Line) bool {
	return qualifyNamed(line, r.Name, r.QualifyParameter)
}

// QualifyParameter accepts other names and matching values of Name. A nil
// Pattern accepts everything.
func (r ParameterPattern) QualifyParameter(p *Parameter, _ int) bool {
	if r.Pattern == nil {
		return true
	}
	if p == nil || p.Absent {
		return r.Pattern.MatchString("")
	}
	if p.Name != r.Name {
		return true
	}
	return r.Pattern.MatchString(p.Value)
}

// NeedsOccurrenceIndex is false.
func (ParameterPattern) NeedsOccurrenceIndex() bool { return false }

// ExcludeHints rejects hint parameters.
type ExcludeHints struct{}

// Qualify rejects lines carrying any hint.
func (r ExcludeHints) Qualify(line Line) bool {
	for _, p := range line.Parameters() {
		if !r.QualifyParameter(&p, 0) {
			return false
		}
	}
	return true
}

// QualifyParameter rejects hints.
func (ExcludeHints) QualifyParameter(p *Parameter, _ int) bool {
	return p == nil || p.Mode != ModeHint
}

// NeedsOccurrenceIndex is false.
func (ExcludeHints) NeedsOccurrenceIndex() bool { return false }

// ExcludeKinds rejects non-parameter arguments of the listed kinds.
type ExcludeKinds []ArgumentKind

// Qualify rejects lines carrying an argument of a listed kind.
func (r ExcludeKinds) Qualify(line Line) bool {
	for _, part := range line.Parts() {
		for _, arg := range part.args {
			if !r.QualifyArgument(arg, 0) {
				return false
			}
		}
	}
	return true
}

// QualifyParameter accepts every parameter.
func (ExcludeKinds) QualifyParameter(*Parameter, int) bool { return true }

// QualifyArgument rejects arguments of a listed kind.
func (r ExcludeKinds) QualifyArgument(arg Argument, _ int) bool {
	return !slices.Contains(r, arg.Kind)
}

// NeedsOccurrenceIndex is false.
func (ExcludeKinds) NeedsOccurrenceIndex() bool { return false }

// MaxOccurrence rejects occurrences of Name at index Max or later. An empty
// Name applies to every parameter.
type MaxOccurrence struct {
	Name string
	Max  int
}

// Qualify rejects lines repeating Name Max times or more.
func (r MaxOccurrence) Qualify(line Line) bool {
	return qualifyOccurrences(line, r.QualifyParameter)
}

// QualifyParameter rejects occurrence indices at or past Max.
func (r MaxOccurrence) QualifyParameter(p *Parameter, occurrence int) bool {
	if p == nil || (r.Name != "" && p.Name != r.Name) {
		return true
	}
	return occurrence < r.Max
}

// NeedsOccurrenceIndex is true.
func (MaxOccurrence) NeedsOccurrenceIndex() bool { return true }

// LineFunc adapts a whole-line predicate. It accepts every individual
// parameter.
type LineFunc func(Line) bool

// Qualify calls f; a nil LineFunc accepts everything.
func (f LineFunc) Qualify(line Line) bool {
	if f == nil {
		return true
	}
	return f(line)
}

// QualifyParameter accepts every parameter.
func (LineFunc) QualifyParameter(*Parameter, int) bool { return true }

// NeedsOccurrenceIndex is false.
func (LineFunc) NeedsOccurrenceIndex() bool { return false }

// ParameterFunc adapts a parameter predicate. A line qualifies when every
// parameter that affects its identity qualifies.
type ParameterFunc func(p *Parameter, occurrence int) bool

// Qualify calls f for each identity-affecting parameter of line.
func (f ParameterFunc) Qualify(line Line) bool {
	return qualifyOccurrences(line, f.QualifyParameter)
}

// QualifyParameter calls f; a nil ParameterFunc accepts everything.
func (f ParameterFunc) QualifyParameter(p *Parameter, occurrence int) bool {
	if f == nil {
		return true
	}
	return f(p, occurrence)
}

// NeedsOccurrenceIndex is true since f may inspect the index.
func (ParameterFunc) NeedsOccurrenceIndex() bool { return true }
