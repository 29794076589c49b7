// Package cache decorates a lexicon.Provider so that materialized assets are
// reused between resolutions.
//
// Entries are keyed by the filter line with hints, attached assets and inline
// values pruned away, so two filters that differ only in those share one
// materialization. Concurrent misses for the same key are collapsed with
// singleflight. Entries expire after a TTL and the least recently used entry
// is evicted once MaxEntries is reached.
//
//	p := cache.New(fsProvider, cache.WithTTL(time.Minute))
//	defer p.Close()
//	root := lexicon.NewComposition(p)
//
// Reload flushes every entry, so lexicon.Resolver.Reload picks up fresh
// content on the next lookup.
package cache
