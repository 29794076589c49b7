package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	lexicon "github.com/goliatone/go-lexicon"
	"github.com/goliatone/go-lexicon/pkg/cache"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type countingProvider struct {
	calls   atomic.Int32
	reloads atomic.Int32
	err     error
	gate    chan struct{}
}

func (p *countingProvider) Materialize(ctx context.Context, filter lexicon.Line) ([]lexicon.Asset, error) {
	p.calls.Add(1)
	if p.gate != nil {
		<-p.gate
	}
	if p.err != nil {
		return nil, p.err
	}
	table, err := lexicon.StringTableFromMap(filter.EffectiveCulture(), map[string]string{
		"Key:Greeting": "hello " + filter.EffectiveCulture(),
	})
	if err != nil {
		return nil, err
	}
	return []lexicon.Asset{table}, nil
}

func (p *countingProvider) Reload() error {
	p.reloads.Add(1)
	return nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestProvider_ReusesMaterialization(t *testing.T) {
	t.Parallel()

	inner := &countingProvider{}
	p := cache.New(inner)
	defer p.Close()

	ctx := context.Background()
	filter := lexicon.Line{}.Culture("en").Key("Greeting")

	first, err := p.Materialize(ctx, filter)
	require.NoError(t, err)
	second, err := p.Materialize(ctx, filter)
	require.NoError(t, err)

	assert.Equal(t, int32(1), inner.calls.Load())
	require.Len(t, second, 1)
	assert.Same(t, first[0], second[0])

	stats := p.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
}

func TestProvider_KeyIgnoresHintsAndAttachments(t *testing.T) {
	t.Parallel()

	p := cache.New(&countingProvider{})
	defer p.Close()

	plain := lexicon.Line{}.Culture("en").Key("Greeting")
	hinted := lexicon.Line{}.Culture("en").Hint("Origin", "test").Key("Greeting")
	inlined, err := plain.Inline("", "hi")
	require.NoError(t, err)

	want, err := p.Key(plain)
	require.NoError(t, err)
	for _, line := range []lexicon.Line{hinted, inlined} {
		got, err := p.Key(line)
		require.NoError(t, err)
		assert.Equal(t, want, got, line.String())
	}

	other, err := p.Key(lexicon.Line{}.Culture("fr").Key("Greeting"))
	require.NoError(t, err)
	assert.NotEqual(t, want, other)
}

func TestProvider_TTLExpiry(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	inner := &countingProvider{}
	p := cache.New(inner, cache.WithTTL(time.Minute), cache.WithClock(clock.Now))
	defer p.Close()

	ctx := context.Background()
	filter := lexicon.Line{}.Culture("en")

	_, err := p.Materialize(ctx, filter)
	require.NoError(t, err)
	clock.Advance(30 * time.Second)
	_, err = p.Materialize(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int32(1), inner.calls.Load())

	clock.Advance(time.Minute)
	_, err = p.Materialize(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestProvider_MaxEntriesEvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	inner := &countingProvider{}
	p := cache.New(inner, cache.WithMaxEntries(2))
	defer p.Close()

	ctx := context.Background()
	en := lexicon.Line{}.Culture("en")
	fr := lexicon.Line{}.Culture("fr")
	de := lexicon.Line{}.Culture("de")

	for _, filter := range []lexicon.Line{en, fr, en, de} {
		_, err := p.Materialize(ctx, filter)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), inner.calls.Load())
	assert.Equal(t, 2, p.Stats().Entries)

	// fr was least recently used when de arrived.
	_, err := p.Materialize(ctx, en)
	require.NoError(t, err)
	assert.Equal(t, int32(3), inner.calls.Load())
	_, err = p.Materialize(ctx, fr)
	require.NoError(t, err)
	assert.Equal(t, int32(4), inner.calls.Load())
}

func TestProvider_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	inner := &countingProvider{err: boom}
	p := cache.New(inner)
	defer p.Close()

	ctx := context.Background()
	_, err := p.Materialize(ctx, lexicon.Line{})
	require.ErrorIs(t, err, boom)
	_, err = p.Materialize(ctx, lexicon.Line{})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, int32(2), inner.calls.Load())
	assert.Zero(t, p.Stats().Entries)
}

func TestProvider_CollapsesConcurrentMisses(t *testing.T) {
	t.Parallel()

	inner := &countingProvider{gate: make(chan struct{})}
	p := cache.New(inner)
	defer p.Close()

	const callers = 8
	var (
		wg      sync.WaitGroup
		started sync.WaitGroup
	)
	started.Add(callers)
	wg.Add(callers)
	for range callers {
		go func() {
			defer wg.Done()
			started.Done()
			_, err := p.Materialize(context.Background(), lexicon.Line{}.Culture("en"))
			assert.NoError(t, err)
		}()
	}
	started.Wait()
	require.Eventually(t, func() bool { return inner.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	close(inner.gate)
	wg.Wait()

	assert.LessOrEqual(t, inner.calls.Load(), int32(callers))
	assert.Equal(t, 1, p.Stats().Entries)
}

func TestProvider_ReloadFlushesAndForwards(t *testing.T) {
	t.Parallel()

	inner := &countingProvider{}
	p := cache.New(inner)
	defer p.Close()

	root := lexicon.NewComposition(p)
	ctx := context.Background()
	key := lexicon.Line{}.Culture("en").Key("Greeting")

	value, found, err := lexicon.GetString(ctx, root, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "hello en", value)

	require.NoError(t, lexicon.DefaultResolver().Reload(ctx, root))
	assert.Equal(t, int32(1), inner.reloads.Load())
	assert.Zero(t, p.Stats().Entries)

	_, _, err = lexicon.GetString(ctx, root, key)
	require.NoError(t, err)
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestProvider_JanitorStopsOnClose(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Now()}
	p := cache.New(&countingProvider{},
		cache.WithTTL(time.Second),
		cache.WithCleanupInterval(5*time.Millisecond),
		cache.WithClock(clock.Now),
	)

	_, err := p.Materialize(context.Background(), lexicon.Line{}.Culture("en"))
	require.NoError(t, err)
	clock.Advance(time.Minute)
	require.Eventually(t, func() bool { return p.Stats().Entries == 0 }, time.Second, 5*time.Millisecond)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	_, err = p.Materialize(context.Background(), lexicon.Line{}.Culture("en"))
	assert.ErrorIs(t, err, cache.ErrClosed)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("LEXICON_CACHE_TTL", "30s")
	t.Setenv("LEXICON_CACHE_MAX_ENTRIES", "10")

	cfg, err := cache.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.TTL)
	assert.Equal(t, 10, cfg.MaxEntries)
	assert.Equal(t, time.Minute, cfg.CleanupInterval)

	p := cache.New(&countingProvider{}, cfg.Options()...)
	require.NoError(t, p.Close())
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("LEXICON_CACHE_TTL", "soon")

	_, err := cache.LoadConfig()
	assert.Error(t, err)
}

type cultureProvider struct{ countingProvider }

func (*cultureProvider) Cultures() (lexicon.Result[string], error) {
	return lexicon.Complete("en", "fr"), nil
}

func TestProvider_ForwardsCultures(t *testing.T) {
	t.Parallel()

	wrapped := cache.New(&cultureProvider{})
	defer wrapped.Close()
	res, err := wrapped.Cultures()
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "fr"}, res.Items)

	plain := cache.New(&countingProvider{})
	defer plain.Close()
	res, err = plain.Cultures()
	require.NoError(t, err)
	assert.False(t, res.Supported())
}
