package cache

import (
	"time"

	lexicon "github.com/goliatone/go-lexicon"
)

// Option configures a Provider.
type Option func(*options)

type options struct {
	ttl             time.Duration
	cleanupInterval time.Duration
	maxEntries      int
	keyRules        lexicon.Qualifier
	now             func() time.Time
}

func defaultOptions() *options {
	return &options{
		ttl:        5 * time.Minute,
		maxEntries: 1024,
		keyRules: lexicon.NewRules(
			lexicon.ExcludeHints{},
			lexicon.ExcludeKinds{lexicon.KindAsset, lexicon.KindInlines},
		).Lock(),
		now: time.Now,
	}
}

// WithTTL sets how long a materialization is reused. A negative value keeps
// entries until they are evicted or flushed.
func WithTTL(d time.Duration) Option {
	return func(o *options) {
		if d != 0 {
			o.ttl = d
		}
	}
}

// WithMaxEntries bounds the number of cached filters. Zero means unlimited.
func WithMaxEntries(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxEntries = n
		}
	}
}

// WithCleanupInterval starts a janitor goroutine that drops expired entries
// every d. Close stops it.
func WithCleanupInterval(d time.Duration) Option {
	return func(o *options) {
		o.cleanupInterval = d
	}
}

// WithKeyRules replaces the qualifier used to prune filter lines into cache
// keys.
func WithKeyRules(q lexicon.Qualifier) Option {
	return func(o *options) {
		if q != nil {
			o.keyRules = q
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
