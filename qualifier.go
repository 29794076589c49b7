package lexicon

import (
	"errors"
	"fmt"
)

// Qualifier accepts or rejects lines and individual parameter occurrences.
// Implementations must not panic; a nil parameter means "not present".
type Qualifier interface {
	Qualify(line Line) bool
	QualifyParameter(p *Parameter, occurrence int) bool
	// NeedsOccurrenceIndex tells callers whether occurrence must be computed
	// or whether 0 may be passed instead.
	NeedsOccurrenceIndex() bool
}

// ArgumentQualifier is implemented by qualifiers that also judge
// non-parameter arguments (assets, inlines, custom kinds). Arguments are
// accepted when a qualifier does not implement it.
type ArgumentQualifier interface {
	QualifyArgument(arg Argument, occurrence int) bool
}

var (
	// ErrReadOnly is returned when adding to a locked Rules set.
	ErrReadOnly = errors.New("lexicon: qualifier is read-only")
	// ErrNilRules is returned when adding to a nil Rules set.
	ErrNilRules = errors.New("lexicon: rules set is nil")
)

// Rules is an ordered set of qualifiers combined with logical AND. A nil
// *Rules accepts everything.
type Rules struct {
	members []Qualifier
	locked  bool
}

// NewRules builds a mutable rule set.
func NewRules(members ...Qualifier) *Rules {
	r := &Rules{}
	for _, m := range members {
		if m != nil {
			r.members = append(r.members, m)
		}
	}
	return r
}

// Add appends q. It fails once the set is locked.
func (r *Rules) Add(q Qualifier) error {
	if r == nil {
		return ErrNilRules
	}
	if r.locked {
		return ErrReadOnly
	}
	if q == nil {
		return fmt.Errorf("lexicon: qualifier must not be nil")
	}
	r.members = append(r.members, q)
	return nil
}

// Lock makes the set read-only and returns it.
func (r *Rules) Lock() *Rules {
	if r == nil {
		return nil
	}
	r.locked = true
	return r
}

// ReadOnly reports whether Lock was called.
func (r *Rules) ReadOnly() bool {
	return r != nil && r.locked
}

// Members returns a copy of the member list.
func (r *Rules) Members() []Qualifier {
	if r == nil {
		return nil
	}
	out := make([]Qualifier, len(r.members))
	copy(out, r.members)
	return out
}

// Qualify reports whether every member accepts line.
func (r *Rules) Qualify(line Line) bool {
	if r == nil {
		return true
	}
	for _, m := range r.members {
		if !m.Qualify(line) {
			return false
		}
	}
	return true
}

// QualifyParameter reports whether every member accepts the occurrence.
func (r *Rules) QualifyParameter(p *Parameter, occurrence int) bool {
	if r == nil {
		return true
	}
	for _, m := range r.members {
		if !m.QualifyParameter(p, occurrence) {
			return false
		}
	}
	return true
}

// QualifyArgument reports whether every member accepts arg. Members that
// only judge parameters accept other kinds.
func (r *Rules) QualifyArgument(arg Argument, occurrence int) bool {
	if r == nil {
		return true
	}
	for _, m := range r.members {
		if !qualifyArgument(m, arg, occurrence) {
			return false
		}
	}
	return true
}

// NeedsOccurrenceIndex reports whether any member needs indices.
func (r *Rules) NeedsOccurrenceIndex() bool {
	if r == nil {
		return false
	}
	for _, m := range r.members {
		if m.NeedsOccurrenceIndex() {
			return true
		}
	}
	return false
}

// AnyOf aggregates qualifiers with logical OR. An empty AnyOf rejects
// everything.
type AnyOf []Qualifier

// Qualify reports whether any member accepts line.
func (a AnyOf) Qualify(line Line) bool {
	for _, q := range a {
		if q != nil && q.Qualify(line) {
			return true
		}
	}
	return false
}

// QualifyParameter reports whether any member accepts the occurrence.
func (a AnyOf) QualifyParameter(p *Parameter, occurrence int) bool {
	for _, q := range a {
		if q != nil && q.QualifyParameter(p, occurrence) {
			return true
		}
	}
	return false
}

// QualifyArgument reports whether any member accepts arg.
func (a AnyOf) QualifyArgument(arg Argument, occurrence int) bool {
	for _, q := range a {
		if q != nil && qualifyArgument(q, arg, occurrence) {
			return true
		}
	}
	return false
}

// NeedsOccurrenceIndex reports whether any member needs indices.
func (a AnyOf) NeedsOccurrenceIndex() bool {
	for _, q := range a {
		if q != nil && q.NeedsOccurrenceIndex() {
			return true
		}
	}
	return false
}

// qualifyArgument prefers QualifyArgument when q implements it; otherwise
// parameters go to QualifyParameter and other kinds are accepted.
func qualifyArgument(q Qualifier, arg Argument, occurrence int) bool {
	if aq, ok := q.(ArgumentQualifier); ok {
		return aq.QualifyArgument(arg, occurrence)
	}
	if arg.Kind == KindParameter {
		return q.QualifyParameter(&arg.Parameter, occurrence)
	}
	return true
}

// occurrence pairs a parameter with its index counted from the root among
// parameters of the same name and mode.
type occurrence struct {
	part  *Part
	arg   int
	param Parameter
	index int
}

// occurrences lists every parameter of line root to tail. Absent parameters
// are listed with the index they would take but do not advance the count.
func occurrences(line Line) []occurrence {
	type counterKey struct {
		name string
		mode Mode
	}
	counts := map[counterKey]int{}
	var out []occurrence
	for _, part := range line.Parts() {
		for i, arg := range part.args {
			if arg.Kind != KindParameter {
				continue
			}
			key := counterKey{name: arg.Parameter.Name, mode: arg.Parameter.Mode}
			out = append(out, occurrence{part: part, arg: i, param: arg.Parameter, index: counts[key]})
			if !arg.Parameter.Absent {
				counts[key]++
			}
		}
	}
	return out
}

// qualifyOccurrences applies fn to every parameter of line that can affect
// its identity: shadowed non-canonical duplicates are skipped.
func qualifyOccurrences(line Line, fn func(p *Parameter, occurrence int) bool) bool {
	for _, occ := range occurrences(line) {
		if occ.param.Mode == ModeNonCanonical && occ.index > 0 {
			continue
		}
		p := occ.param
		if !fn(&p, occ.index) {
			return false
		}
	}
	return true
}

// qualifyNamed applies fn to the occurrences of name, or to nil when the
// line has none.
func qualifyNamed(line Line, name string, fn func(p *Parameter, occurrence int) bool) bool {
	seen := false
	ok := qualifyOccurrences(line, func(p *Parameter, occ int) bool {
		if p.Name != name || p.Absent {
			return true
		}
		seen = true
		return fn(p, occ)
	})
	if !ok {
		return false
	}
	if !seen {
		return fn(nil, 0)
	}
	return true
}
