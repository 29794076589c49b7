package lexicon

// Prune rebuilds line keeping only the arguments q accepts. The longest
// root-ward run of Parts whose arguments all qualify is reused as is; the
// surviving arguments after it are re-appended through the line's Factory in
// root to tail order, one Part per original Part. When nothing survives the
// result is a single placeholder Part.
//
// Occurrence indices are computed only when q.NeedsOccurrenceIndex reports
// true; otherwise 0 is passed. A non-canonical parameter's index counts the
// same-name non-canonical parameters already accepted tail-ward of it, so a
// rejected occurrence does not shift the ones root-ward. Canonical indices
// count from the root, as in EffectiveParameters.
func Prune(line Line, q Qualifier) (Line, error) {
	if q == nil || line.IsEmpty() {
		return line, nil
	}

	needsIndex := q.NeedsOccurrenceIndex()
	var (
		index    map[*Part][]int
		accepted map[string]int
	)
	if needsIndex {
		accepted = map[string]int{}
		index = map[*Part][]int{}
		for _, occ := range occurrences(line) {
			slots, ok := index[occ.part]
			if !ok {
				slots = make([]int, len(occ.part.args))
				index[occ.part] = slots
			}
			slots[occ.arg] = occ.index
		}
	}

	var (
		reappend  [][]Argument
		buffered  [][]Argument
		startTail = line.tail
	)
	for part := line.tail; part != nil; part = part.prev {
		kept := make([]Argument, 0, len(part.args))
		all := true
		for i, arg := range part.args {
			occ := 0
			nonCanonical := needsIndex && arg.Kind == KindParameter && arg.Parameter.Mode == ModeNonCanonical
			switch {
			case nonCanonical:
				occ = accepted[arg.Parameter.Name]
			case needsIndex && arg.Kind == KindParameter:
				occ = index[part][i]
			}
			if qualifyArgument(q, arg, occ) {
				kept = append(kept, arg)
				if nonCanonical && !arg.Parameter.Absent {
					accepted[arg.Parameter.Name]++
				}
				continue
			}
			all = false
		}
		if all {
			buffered = append(buffered, kept)
			continue
		}
		reappend = append(reappend, buffered...)
		buffered = nil
		if len(kept) > 0 {
			reappend = append(reappend, kept)
		}
		startTail = part.prev
	}

	if startTail == line.tail {
		return line, nil
	}

	factory := line.Factory()
	result := Line{tail: startTail, factory: line.factory}
	if startTail == nil && len(reappend) == 0 {
		return factory.Create(result)
	}
	for i := len(reappend) - 1; i >= 0; i-- {
		next, err := factory.Create(result, reappend[i]...)
		if err != nil {
			return Line{}, err
		}
		result = next
	}
	return result, nil
}
