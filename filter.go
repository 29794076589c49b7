package lexicon

// FilterKeys keeps the keys that match every effective parameter of
// criteria. For each criteria parameter the key is searched from its tail
// toward the root for the first parameter of the same name; a match must
// carry the same value, and a key without one is kept only when the criteria
// value is empty. Empty criteria keep every key.
func FilterKeys(keys []Line, criteria Line) []Line {
	wanted := EffectiveParameters(criteria)
	if len(wanted) == 0 {
		out := make([]Line, len(keys))
		copy(out, keys)
		return out
	}
	out := make([]Line, 0, len(keys))
	for _, key := range keys {
		if matchesCriteria(key, wanted) {
			out = append(out, key)
		}
	}
	return out
}

// Matches reports whether key passes FilterKeys for criteria.
func Matches(key, criteria Line) bool {
	return matchesCriteria(key, EffectiveParameters(criteria))
}

func matchesCriteria(key Line, wanted []EffectiveParameter) bool {
	for _, ep := range wanted {
		value, found := lookupFromTail(key, ep.Name)
		if found {
			if value != ep.Value {
				return false
			}
			continue
		}
		if ep.Value != "" {
			return false
		}
	}
	return true
}

func lookupFromTail(line Line, name string) (string, bool) {
	for part := line.tail; part != nil; part = part.prev {
		for i := len(part.args) - 1; i >= 0; i-- {
			arg := part.args[i]
			if arg.Kind != KindParameter || arg.Parameter.Absent || arg.Parameter.Name != name {
				continue
			}
			return arg.Parameter.Value, true
		}
	}
	return "", false
}
