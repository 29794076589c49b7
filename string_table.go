package lexicon

import (
	"fmt"
	"sort"
	"sync"
)

// StringEntry is one key/value pair of a StringTable.
type StringEntry struct {
	Key   Line
	Value string
}

// StringTable is an in-memory string asset. Keys match by Equal, so hints
// and parameter order of non-canonical values do not matter. It is safe for
// concurrent use; enumerations return snapshots.
type StringTable struct {
	mu      sync.RWMutex
	name    string
	entries map[string]StringEntry
	order   []string
	loader  func() ([]StringEntry, error)
}

// StringTableOption configures a StringTable.
type StringTableOption func(*StringTable)

// WithTableName labels the table for diagnostics.
func WithTableName(name string) StringTableOption {
	return func(t *StringTable) {
		t.name = name
	}
}

// WithTableEntries seeds the table.
func WithTableEntries(entries ...StringEntry) StringTableOption {
	return func(t *StringTable) {
		for _, e := range entries {
			t.setLocked(e.Key, e.Value)
		}
	}
}

// WithTableLoader sets the function Reload uses to replace the contents.
// The loader also seeds the table when it is built.
func WithTableLoader(loader func() ([]StringEntry, error)) StringTableOption {
	return func(t *StringTable) {
		t.loader = loader
	}
}

// NewStringTable builds a table. When a loader is configured its first
// result is loaded immediately.
func NewStringTable(opts ...StringTableOption) (*StringTable, error) {
	t := &StringTable{entries: map[string]StringEntry{}}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	if t.loader != nil {
		if err := t.Reload(); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// StringTableFromMap builds a table from String form keys (see ParseLine)
// scoped to culture. Keys that do not parse as lines become a single Key
// parameter.
func StringTableFromMap(culture string, values map[string]string, opts ...StringTableOption) (*StringTable, error) {
	entries, err := EntriesFromMap(culture, values)
	if err != nil {
		return nil, err
	}
	return NewStringTable(append([]StringTableOption{WithTableEntries(entries...)}, opts...)...)
}

// EntriesFromMap converts String form keys to entries scoped to culture.
// A key that already names a Culture keeps it. Entries are sorted by their
// String form.
func EntriesFromMap(culture string, values map[string]string) ([]StringEntry, error) {
	raws := make([]string, 0, len(values))
	for raw := range values {
		raws = append(raws, raw)
	}
	sort.Strings(raws)

	entries := make([]StringEntry, 0, len(values))
	for _, raw := range raws {
		parsed, err := ParseLine(raw)
		if err != nil {
			parsed = Line{}.Key(raw)
		}
		key := Line{}
		if _, ok := parsed.Get(ParameterCulture); !ok && culture != "" {
			key = key.Culture(culture)
		}
		for _, p := range parsed.Parameters() {
			key = key.With(p)
		}
		entries = append(entries, StringEntry{Key: key, Value: values[raw]})
	}
	return entries, nil
}

// Name returns the diagnostic label.
func (t *StringTable) Name() string {
	return t.name
}

// Set stores value under key, replacing an Equal key.
func (t *StringTable) Set(key Line, value string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.setLocked(key, value)
}

func (t *StringTable) setLocked(key Line, value string) {
	if t.entries == nil {
		t.entries = map[string]StringEntry{}
	}
	id := CompareKey(key)
	if _, exists := t.entries[id]; !exists {
		t.order = append(t.order, id)
	}
	t.entries[id] = StringEntry{Key: key, Value: value}
}

// Delete removes the entry Equal to key.
func (t *StringTable) Delete(key Line) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := CompareKey(key)
	if _, ok := t.entries[id]; !ok {
		return false
	}
	delete(t.entries, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of entries.
func (t *StringTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Entries returns a snapshot in insertion order.
func (t *StringTable) Entries() []StringEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]StringEntry, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.entries[id])
	}
	return out
}

// GetString implements StringAsset.
func (t *StringTable) GetString(key Line) (string, bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	entry, ok := t.entries[CompareKey(key)]
	if !ok {
		return "", false, nil
	}
	return entry.Value, true, nil
}

// Keys implements KeyEnumerator. The table always answers completely.
func (t *StringTable) Keys(filter Line) (Result[Line], error) {
	entries := t.Entries()
	keys := make([]Line, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return Complete(FilterKeys(keys, filter)...), nil
}

// Cultures implements CultureEnumerator.
func (t *StringTable) Cultures() (Result[string], error) {
	var cultures []string
	for _, e := range t.Entries() {
		cultures = append(cultures, e.Key.EffectiveCulture())
	}
	return Complete(distinct(cultures)...), nil
}

// Reload implements Reloadable. Without a loader it is a no-op.
func (t *StringTable) Reload() error {
	if t.loader == nil {
		return nil
	}
	entries, err := t.loader()
	if err != nil {
		return fmt.Errorf("lexicon: reload table %q: %w", t.name, err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make(map[string]StringEntry, len(entries))
	t.order = nil
	for _, e := range entries {
		t.setLocked(e.Key, e.Value)
	}
	return nil
}
