package cache

import (
	"container/list"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	lexicon "github.com/goliatone/go-lexicon"
	"golang.org/x/sync/singleflight"
)

// ErrClosed is returned by Materialize after Close.
var ErrClosed = errors.New("cache: provider is closed")

type entry struct {
	key       string
	assets    []lexicon.Asset
	expiresAt time.Time // zero value = never expires
}

// Stats reports cache counters.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

// Provider caches the assets materialized by an inner provider. It
// implements lexicon.Provider and lexicon.Reloadable.
type Provider struct {
	inner lexicon.Provider
	opts  *options
	group singleflight.Group

	mu       sync.Mutex
	items    map[string]*list.Element
	eviction *list.List
	hits     uint64
	misses   uint64
	// generation changes on every flush so in-flight loads started before
	// a flush do not store stale assets.
	generation uint64
	done       chan struct{}
	closed     bool
}

// New wraps inner.
func New(inner lexicon.Provider, opts ...Option) *Provider {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	p := &Provider{
		inner:    inner,
		opts:     o,
		items:    make(map[string]*list.Element),
		eviction: list.New(),
		done:     make(chan struct{}),
	}
	if o.cleanupInterval > 0 {
		go p.janitor()
	}
	return p
}

// Key returns the cache key for filter.
func (p *Provider) Key(filter lexicon.Line) (string, error) {
	pruned, err := lexicon.Prune(filter, p.opts.keyRules)
	if err != nil {
		return "", fmt.Errorf("cache: key: %w", err)
	}
	return lexicon.CompareKey(pruned), nil
}

// Materialize returns the cached assets for filter, calling the inner
// provider on a miss. Errors are not cached.
func (p *Provider) Materialize(ctx context.Context, filter lexicon.Line) ([]lexicon.Asset, error) {
	if p.inner == nil {
		return nil, nil
	}
	key, err := p.Key(filter)
	if err != nil {
		return nil, err
	}
	assets, ok, err := p.get(key)
	if err != nil || ok {
		return assets, err
	}

	generation := p.currentGeneration()
	v, err, _ := p.group.Do(key, func() (any, error) {
		assets, err := p.inner.Materialize(ctx, filter)
		if err != nil {
			return nil, err
		}
		p.set(key, generation, assets)
		return assets, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]lexicon.Asset)), nil
}

func (p *Provider) get(key string) ([]lexicon.Asset, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, false, ErrClosed
	}
	elem, ok := p.items[key]
	if !ok {
		p.misses++
		return nil, false, nil
	}
	e := elem.Value.(*entry)
	if p.expired(e, p.opts.now()) {
		p.removeElement(elem)
		p.misses++
		return nil, false, nil
	}
	p.eviction.MoveToFront(elem)
	p.hits++
	return slices.Clone(e.assets), true, nil
}

func (p *Provider) currentGeneration() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.generation
}

func (p *Provider) set(key string, generation uint64, assets []lexicon.Asset) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || generation != p.generation {
		return
	}
	var expiresAt time.Time
	if p.opts.ttl > 0 {
		expiresAt = p.opts.now().Add(p.opts.ttl)
	}
	if elem, ok := p.items[key]; ok {
		e := elem.Value.(*entry)
		e.assets = slices.Clone(assets)
		e.expiresAt = expiresAt
		p.eviction.MoveToFront(elem)
		return
	}
	if p.opts.maxEntries > 0 && p.eviction.Len() >= p.opts.maxEntries {
		if back := p.eviction.Back(); back != nil {
			p.removeElement(back)
		}
	}
	p.items[key] = p.eviction.PushFront(&entry{
		key:       key,
		assets:    slices.Clone(assets),
		expiresAt: expiresAt,
	})
}

func (p *Provider) expired(e *entry, now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

func (p *Provider) removeElement(elem *list.Element) {
	e := p.eviction.Remove(elem).(*entry)
	delete(p.items, e.key)
}

// Reload drops every cached entry and reloads the inner provider when it is
// itself reloadable.
func (p *Provider) Reload() error {
	p.Flush()
	if r, ok := p.inner.(lexicon.Reloadable); ok {
		if err := r.Reload(); err != nil {
			return fmt.Errorf("cache: reload: %w", err)
		}
	}
	return nil
}

// Cultures forwards to the inner provider when it can list cultures.
func (p *Provider) Cultures() (lexicon.Result[string], error) {
	if ce, ok := p.inner.(lexicon.CultureEnumerator); ok {
		return ce.Cultures()
	}
	return lexicon.NotSupported[string](), nil
}

// Flush drops every cached entry.
func (p *Provider) Flush() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = make(map[string]*list.Element)
	p.eviction.Init()
	p.generation++
}

// Stats returns the current counters.
func (p *Provider) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{Hits: p.hits, Misses: p.misses, Entries: p.eviction.Len()}
}

// Close stops the janitor and drops every entry. It is safe to call more
// than once.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	close(p.done)
	p.items = make(map[string]*list.Element)
	p.eviction.Init()
	return nil
}

func (p *Provider) janitor() {
	ticker := time.NewTicker(p.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			p.deleteExpired()
		}
	}
}

func (p *Provider) deleteExpired() {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.opts.now()
	for elem := p.eviction.Back(); elem != nil; {
		prev := elem.Prev()
		if p.expired(elem.Value.(*entry), now) {
			p.removeElement(elem)
		}
		elem = prev
	}
}
