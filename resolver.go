package lexicon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrMaxDepth is returned when a traversal nests deeper than the configured
// limit, usually because a provider materializes itself.
var ErrMaxDepth = errors.New("lexicon: maximum traversal depth exceeded")

// ProviderError wraps a failure raised while materializing assets.
type ProviderError struct {
	Path     string
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("lexicon: provider %s at %s: %v", e.Provider, displayPath(e.Path), e.Err)
}

func (e *ProviderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// AssetError wraps a failure raised by an asset capability.
type AssetError struct {
	Path      string
	Asset     string
	Operation string
	Err       error
}

func (e *AssetError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("lexicon: %s on %s at %s: %v", e.Operation, e.Asset, displayPath(e.Path), e.Err)
}

func (e *AssetError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Resolver walks an asset tree and answers lookups with a fixed fallback
// order:
//
//  1. the asset itself, when it has the capability;
//  2. for a Composite, each child in order, recursing into nested
//     composites;
//  3. still within the Composite, each child Provider, whose materialized
//     assets are walked in turn;
//  4. for a non composite Provider, its materialized assets.
//
// Single value lookups stop at the first hit. Enumerations concatenate in
// traversal order. A Resolver is safe for concurrent use.
type Resolver struct {
	cfg resolverConfig
}

// NewResolver builds a Resolver.
func NewResolver(opts ...ResolverOption) *Resolver {
	return &Resolver{cfg: applyResolverOptions(opts)}
}

var defaultResolver = NewResolver()

// DefaultResolver returns the Resolver used by the package level helpers.
func DefaultResolver() *Resolver {
	return defaultResolver
}

// visitFunc is called for every asset reached. Returning stop ends the walk.
type visitFunc func(path string, a Asset) (stop bool, err error)

func (r *Resolver) walk(ctx context.Context, a Asset, filter Line, path string, depth int, visit visitFunc) (bool, error) {
	if a == nil {
		return false, nil
	}
	if depth > r.cfg.maxDepth {
		return false, fmt.Errorf("%w at %s", ErrMaxDepth, displayPath(path))
	}

	if stop, err := visit(path, a); stop || err != nil {
		return stop, err
	}

	composite, ok := a.(Composite)
	if !ok {
		if provider, ok := a.(Provider); ok {
			return r.materialize(ctx, provider, filter, path, depth+1, visit)
		}
		return false, nil
	}

	children := composite.Children()
	for i, child := range children {
		if child == nil {
			continue
		}
		childPath := joinPath(path, strconv.Itoa(i))
		if _, nested := child.(Composite); nested {
			if stop, err := r.walk(ctx, child, filter, childPath, depth+1, visit); stop || err != nil {
				return stop, err
			}
			continue
		}
		if stop, err := visit(childPath, child); stop || err != nil {
			return stop, err
		}
	}

	for i, child := range children {
		if _, nested := child.(Composite); nested {
			continue
		}
		provider, ok := child.(Provider)
		if !ok {
			continue
		}
		childPath := joinPath(path, strconv.Itoa(i))
		if stop, err := r.materialize(ctx, provider, filter, childPath, depth+1, visit); stop || err != nil {
			return stop, err
		}
	}
	return false, nil
}

func (r *Resolver) materialize(ctx context.Context, provider Provider, filter Line, path string, depth int, visit visitFunc) (bool, error) {
	if depth > r.cfg.maxDepth {
		return false, fmt.Errorf("%w at %s", ErrMaxDepth, displayPath(path))
	}
	assets, err := provider.Materialize(ctx, filter)
	if err != nil {
		var providerErr *ProviderError
		if errors.As(err, &providerErr) || errors.Is(err, ErrMaxDepth) {
			return false, err
		}
		return false, &ProviderError{Path: path, Provider: typeName(provider), Err: err}
	}
	for i, asset := range assets {
		if stop, err := r.walk(ctx, asset, filter, joinPath(path, "p"+strconv.Itoa(i)), depth, visit); stop || err != nil {
			return stop, err
		}
	}
	return false, nil
}

func lookup[T any](ctx context.Context, r *Resolver, op string, root Asset, key Line, call func(a Asset) (value T, implements, found bool, err error)) (T, bool, error) {
	ctx, span := r.start(ctx, op, key)
	started := time.Now()
	var (
		value   T
		found   bool
		visited int
	)
	_, err := r.walk(ctx, root, key, "", 0, func(path string, a Asset) (bool, error) {
		v, implements, ok, err := call(a)
		if !implements {
			return false, nil
		}
		visited++
		if err != nil {
			return false, &AssetError{Path: path, Asset: typeName(a), Operation: op, Err: err}
		}
		if ok {
			value, found = v, true
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		var zero T
		value, found = zero, false
	}
	r.finish(span, ResolutionLogEvent{
		Operation: op,
		Key:       key.String(),
		Found:     found,
		Status:    lookupStatus(visited),
		Visited:   visited,
		Duration:  time.Since(started),
		Err:       err,
	})
	return value, found, err
}

func lookupStatus(visited int) Status {
	if visited == 0 {
		return StatusNotSupported
	}
	return StatusComplete
}

func enumerate[T any](ctx context.Context, r *Resolver, op string, root Asset, filter Line, all bool, call func(a Asset) (res Result[T], implements bool, err error)) (Result[T], error) {
	ctx, span := r.start(ctx, op, filter)
	started := time.Now()
	var (
		items      []T
		supported  bool
		incomplete bool
		visited    int
	)
	_, err := r.walk(ctx, root, filter, "", 0, func(path string, a Asset) (bool, error) {
		res, implements, err := call(a)
		if !implements {
			return false, nil
		}
		visited++
		if err != nil {
			return false, &AssetError{Path: path, Asset: typeName(a), Operation: op, Err: err}
		}
		switch res.Status {
		case StatusNotSupported:
			return false, nil
		case StatusIncomplete:
			supported, incomplete = true, true
			if all {
				return true, nil
			}
		default:
			supported = true
		}
		items = append(items, res.Items...)
		return false, nil
	})

	var result Result[T]
	switch {
	case err != nil:
	case !supported:
		result = NotSupported[T]()
	case incomplete && all:
		result = Incomplete[T]()
	case incomplete:
		result = Incomplete(items...)
	default:
		result = Complete(items...)
	}
	r.finish(span, ResolutionLogEvent{
		Operation: op,
		Key:       filter.String(),
		Found:     len(result.Items) > 0,
		Status:    result.Status,
		Visited:   visited,
		Duration:  time.Since(started),
		Err:       err,
	})
	return result, err
}

// GetString returns the first string found for key.
func (r *Resolver) GetString(ctx context.Context, root Asset, key Line) (string, bool, error) {
	return lookup(ctx, r, "GetString", root, key, func(a Asset) (string, bool, bool, error) {
		sa, ok := a.(StringAsset)
		if !ok {
			return "", false, false, nil
		}
		value, found, err := sa.GetString(key)
		return value, true, found, err
	})
}

// GetResourceBytes returns the first resource found for key.
func (r *Resolver) GetResourceBytes(ctx context.Context, root Asset, key Line) ([]byte, bool, error) {
	return lookup(ctx, r, "GetResourceBytes", root, key, func(a Asset) ([]byte, bool, bool, error) {
		ra, ok := a.(ResourceAsset)
		if !ok {
			return nil, false, false, nil
		}
		data, found, err := ra.GetResourceBytes(key)
		return data, true, found, err
	})
}

// OpenStream opens the first resource stream found for key. The caller
// closes it.
func (r *Resolver) OpenStream(ctx context.Context, root Asset, key Line) (io.ReadCloser, bool, error) {
	return lookup(ctx, r, "OpenStream", root, key, func(a Asset) (io.ReadCloser, bool, bool, error) {
		sa, ok := a.(StreamAsset)
		if !ok {
			return nil, false, false, nil
		}
		stream, found, err := sa.OpenStream(key)
		if stream != nil && (err != nil || !found) {
			_ = stream.Close()
			stream = nil
		}
		if stream == nil {
			found = false
		}
		return stream, true, found, err
	})
}

func keysOf(filter Line) func(a Asset) (Result[Line], bool, error) {
	return func(a Asset) (Result[Line], bool, error) {
		ke, ok := a.(KeyEnumerator)
		if !ok {
			return Result[Line]{}, false, nil
		}
		res, err := ke.Keys(filter)
		return res, true, err
	}
}

func namesOf(filter Line) func(a Asset) (Result[string], bool, error) {
	return func(a Asset) (Result[string], bool, error) {
		ne, ok := a.(NameEnumerator)
		if !ok {
			return Result[string]{}, false, nil
		}
		res, err := ne.Names(filter)
		return res, true, err
	}
}

func culturesOf(a Asset) (Result[string], bool, error) {
	ce, ok := a.(CultureEnumerator)
	if !ok {
		return Result[string]{}, false, nil
	}
	res, err := ce.Cultures()
	return res, true, err
}

// GetKeys lists every key any asset reports for filter. The status is
// StatusIncomplete when some asset answered partially.
func (r *Resolver) GetKeys(ctx context.Context, root Asset, filter Line) (Result[Line], error) {
	return enumerate(ctx, r, "GetKeys", root, filter, false, keysOf(filter))
}

// GetAllKeys lists keys only when every answering asset is exhaustive;
// otherwise it returns an empty incomplete result.
func (r *Resolver) GetAllKeys(ctx context.Context, root Asset, filter Line) (Result[Line], error) {
	return enumerate(ctx, r, "GetAllKeys", root, filter, true, keysOf(filter))
}

// GetNames lists resource names, best effort.
func (r *Resolver) GetNames(ctx context.Context, root Asset, filter Line) (Result[string], error) {
	return enumerate(ctx, r, "GetNames", root, filter, false, namesOf(filter))
}

// GetAllNames lists resource names or reports incompleteness.
func (r *Resolver) GetAllNames(ctx context.Context, root Asset, filter Line) (Result[string], error) {
	return enumerate(ctx, r, "GetAllNames", root, filter, true, namesOf(filter))
}

// GetCultures lists distinct cultures, best effort.
func (r *Resolver) GetCultures(ctx context.Context, root Asset) (Result[string], error) {
	res, err := enumerate(ctx, r, "GetCultures", root, Line{}, false, culturesOf)
	res.Items = distinct(res.Items)
	return res, err
}

// GetAllCultures lists distinct cultures or reports incompleteness.
func (r *Resolver) GetAllCultures(ctx context.Context, root Asset) (Result[string], error) {
	res, err := enumerate(ctx, r, "GetAllCultures", root, Line{}, true, culturesOf)
	res.Items = distinct(res.Items)
	return res, err
}

// Reload calls Reload on every Reloadable reachable through composites.
// Providers are not materialized. All failures are joined.
func (r *Resolver) Reload(ctx context.Context, root Asset) error {
	_, span := r.start(ctx, "Reload", Line{})
	started := time.Now()
	visited := 0
	err := errors.Join(r.reload(root, "", 0, &visited)...)
	r.finish(span, ResolutionLogEvent{
		Operation: "Reload",
		Visited:   visited,
		Duration:  time.Since(started),
		Err:       err,
	})
	return err
}

func (r *Resolver) reload(a Asset, path string, depth int, visited *int) []error {
	if a == nil {
		return nil
	}
	if depth > r.cfg.maxDepth {
		return []error{fmt.Errorf("%w at %s", ErrMaxDepth, displayPath(path))}
	}
	var errs []error
	if rl, ok := a.(Reloadable); ok {
		*visited++
		if err := rl.Reload(); err != nil {
			errs = append(errs, &AssetError{Path: path, Asset: typeName(a), Operation: "Reload", Err: err})
		}
	}
	if composite, ok := a.(Composite); ok {
		for i, child := range composite.Children() {
			errs = append(errs, r.reload(child, joinPath(path, strconv.Itoa(i)), depth+1, visited)...)
		}
	}
	return errs
}

func (r *Resolver) start(ctx context.Context, op string, key Line) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	return r.cfg.tracer.Start(ctx, "lexicon.Resolver."+op,
		trace.WithAttributes(attribute.String("lexicon.key", key.String())),
	)
}

func (r *Resolver) finish(span trace.Span, event ResolutionLogEvent) {
	span.SetAttributes(
		attribute.Bool("lexicon.found", event.Found),
		attribute.String("lexicon.status", event.Status.String()),
		attribute.Int("lexicon.visited", event.Visited),
	)
	if event.Err != nil {
		span.RecordError(event.Err)
		span.SetStatus(codes.Error, event.Err.Error())
	}
	span.End()
	r.cfg.logger.LogResolution(event)
}

// GetString resolves key with the DefaultResolver.
func GetString(ctx context.Context, root Asset, key Line) (string, bool, error) {
	return defaultResolver.GetString(ctx, root, key)
}

// GetAllKeys enumerates keys with the DefaultResolver.
func GetAllKeys(ctx context.Context, root Asset, filter Line) (Result[Line], error) {
	return defaultResolver.GetAllKeys(ctx, root, filter)
}

func distinct(items []string) []string {
	if len(items) == 0 {
		return items
	}
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "/" + segment
}

func displayPath(path string) string {
	if path == "" {
		return "root"
	}
	return path
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
