package lexicon

import (
	"bytes"
	"io"
	"sync"
)

// ResourceTable is an in-memory binary resource asset. Resources are keyed
// by line (matched by Equal); Names reports each key's Resource value, or
// its String form when it has none.
type ResourceTable struct {
	mu      sync.RWMutex
	entries map[string]resourceEntry
	order   []string
}

type resourceEntry struct {
	key  Line
	data []byte
}

// NewResourceTable returns an empty table.
func NewResourceTable() *ResourceTable {
	return &ResourceTable{entries: map[string]resourceEntry{}}
}

// Set stores a copy of data under key.
func (t *ResourceTable) Set(key Line, data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.entries == nil {
		t.entries = map[string]resourceEntry{}
	}
	id := CompareKey(key)
	if _, exists := t.entries[id]; !exists {
		t.order = append(t.order, id)
	}
	t.entries[id] = resourceEntry{key: key, data: bytes.Clone(data)}
}

// Len returns the number of resources.
func (t *ResourceTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

func (t *ResourceTable) get(key Line) ([]byte, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	entry, ok := t.entries[CompareKey(key)]
	return entry.data, ok
}

// GetResourceBytes implements ResourceAsset. The returned slice is a copy.
func (t *ResourceTable) GetResourceBytes(key Line) ([]byte, bool, error) {
	data, ok := t.get(key)
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(data), true, nil
}

// OpenStream implements StreamAsset.
func (t *ResourceTable) OpenStream(key Line) (io.ReadCloser, bool, error) {
	data, ok := t.get(key)
	if !ok {
		return nil, false, nil
	}
	return io.NopCloser(bytes.NewReader(data)), true, nil
}

func (t *ResourceTable) keys() []Line {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Line, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.entries[id].key)
	}
	return out
}

// Names implements NameEnumerator.
func (t *ResourceTable) Names(filter Line) (Result[string], error) {
	var names []string
	for _, key := range FilterKeys(t.keys(), filter) {
		name, ok := key.Get(ParameterResource)
		if !ok {
			name = key.String()
		}
		names = append(names, name)
	}
	return Complete(names...), nil
}

// Cultures implements CultureEnumerator.
func (t *ResourceTable) Cultures() (Result[string], error) {
	var cultures []string
	for _, key := range t.keys() {
		cultures = append(cultures, key.EffectiveCulture())
	}
	return Complete(distinct(cultures)...), nil
}
