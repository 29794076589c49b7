package lexicon

import (
	"hash/fnv"
	"sort"
	"strings"
)

// EffectiveParameter is one parameter that matters for comparison.
type EffectiveParameter struct {
	Name       string
	Occurrence int
	Value      string
	Mode       Mode
}

// EffectiveParameters lists the parameters of line that take part in
// comparison, ordered root to tail.
//
// Parts are scanned from the tail toward the root. A non-canonical value
// overwrites the entry collected so far, which leaves the root-closest value
// in place. Canonical entries are appended as found and get their occurrence
// index once the scan is done, counted from the root outward.
func EffectiveParameters(line Line) []EffectiveParameter {
	var out []EffectiveParameter
	for part := line.tail; part != nil; part = part.prev {
		for i := len(part.args) - 1; i >= 0; i-- {
			arg := part.args[i]
			if arg.Kind != KindParameter || !arg.Parameter.Comparable() {
				continue
			}
			p := arg.Parameter
			switch p.Mode {
			case ModeNonCanonical:
				if idx := indexNonCanonical(out, p.Name); idx >= 0 {
					out[idx].Value = p.Value
					continue
				}
				out = append(out, EffectiveParameter{Name: p.Name, Value: p.Value, Mode: ModeNonCanonical})
			case ModeCanonical:
				out = append(out, EffectiveParameter{Name: p.Name, Occurrence: -1, Value: p.Value, Mode: ModeCanonical})
			}
		}
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	for i := range out {
		if out[i].Mode != ModeCanonical {
			continue
		}
		out[i].Occurrence = 0
		for j := i - 1; j >= 0; j-- {
			if out[j].Mode == ModeCanonical && out[j].Name == out[i].Name {
				out[i].Occurrence = out[j].Occurrence + 1
				break
			}
		}
	}
	return out
}

func indexNonCanonical(list []EffectiveParameter, name string) int {
	for i := range list {
		if list[i].Mode == ModeNonCanonical && list[i].Name == name {
			return i
		}
	}
	return -1
}

// Equal compares lines by their effective parameters: non-canonical entries
// as a set, canonical entries as a sequence.
func Equal(a, b Line) bool {
	if a.tail == b.tail {
		return true
	}
	canonA, nonA := splitEffective(EffectiveParameters(a))
	canonB, nonB := splitEffective(EffectiveParameters(b))
	if len(canonA) != len(canonB) || len(nonA) != len(nonB) {
		return false
	}
	for i := range canonA {
		if canonA[i] != canonB[i] {
			return false
		}
	}
	for name, value := range nonA {
		if other, ok := nonB[name]; !ok || other != value {
			return false
		}
	}
	return true
}

func splitEffective(list []EffectiveParameter) ([]EffectiveParameter, map[string]string) {
	var canonical []EffectiveParameter
	nonCanonical := map[string]string{}
	for _, ep := range list {
		if ep.Mode == ModeCanonical {
			canonical = append(canonical, ep)
			continue
		}
		nonCanonical[ep.Name] = ep.Value
	}
	return canonical, nonCanonical
}

// CompareKey renders a string that is identical for lines that are Equal.
// Canonical parameters keep their order; non-canonical ones are sorted by
// name after a '|' separator.
func CompareKey(line Line) string {
	canonical, nonCanonical := splitEffective(EffectiveParameters(line))
	var b strings.Builder
	for i, ep := range canonical {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(escapeToken(ep.Name))
		b.WriteByte(':')
		b.WriteString(escapeToken(ep.Value))
	}
	if len(nonCanonical) == 0 {
		return b.String()
	}
	names := make([]string, 0, len(nonCanonical))
	for name := range nonCanonical {
		names = append(names, name)
	}
	sort.Strings(names)
	b.WriteByte('|')
	for i, name := range names {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(escapeToken(name))
		b.WriteByte(':')
		b.WriteString(escapeToken(nonCanonical[name]))
	}
	return b.String()
}

// Hash returns a 64-bit hash consistent with Equal.
func Hash(line Line) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(CompareKey(line)))
	return h.Sum64()
}
