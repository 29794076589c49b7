package lexicon

import (
	"context"
	"errors"
	"io"
)

// Asset is a content source. What it can do is discovered by type assertion
// against the capability interfaces below, the same way io discovers
// optional methods.
type Asset interface{}

// StringAsset looks up a string for an exact key.
type StringAsset interface {
	GetString(key Line) (value string, found bool, err error)
}

// ResourceAsset looks up a binary resource.
type ResourceAsset interface {
	GetResourceBytes(key Line) (data []byte, found bool, err error)
}

// StreamAsset opens a binary resource as a stream. Callers close it.
type StreamAsset interface {
	OpenStream(key Line) (stream io.ReadCloser, found bool, err error)
}

// KeyEnumerator lists the string keys matching filter.
type KeyEnumerator interface {
	Keys(filter Line) (Result[Line], error)
}

// NameEnumerator lists the resource names matching filter.
type NameEnumerator interface {
	Names(filter Line) (Result[string], error)
}

// CultureEnumerator lists the cultures an asset has content for. The
// invariant culture is "".
type CultureEnumerator interface {
	Cultures() (Result[string], error)
}

// Reloadable drops cached content so the next lookup sees fresh data.
type Reloadable interface {
	Reload() error
}

// Composite is an asset made of ordered children.
type Composite interface {
	Children() []Asset
}

// Provider materializes assets for a filter line on demand. It is called on
// every resolution; caching belongs to decorators such as pkg/cache.
type Provider interface {
	Materialize(ctx context.Context, filter Line) ([]Asset, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, filter Line) ([]Asset, error)

// Materialize implements Provider.
func (f ProviderFunc) Materialize(ctx context.Context, filter Line) ([]Asset, error) {
	if f == nil {
		return nil, nil
	}
	return f(ctx, filter)
}

// ErrNilAsset reports a nil asset where one is required.
var ErrNilAsset = errors.New("lexicon: asset must not be nil")

// Status describes how an enumeration answered.
type Status int

const (
	// StatusNotSupported means no consulted component could enumerate.
	StatusNotSupported Status = iota
	// StatusComplete means Items is the full answer.
	StatusComplete
	// StatusIncomplete means at least one component could not enumerate
	// exhaustively.
	StatusIncomplete
)

func (s Status) String() string {
	switch s {
	case StatusComplete:
		return "complete"
	case StatusIncomplete:
		return "incomplete"
	default:
		return "not-supported"
	}
}

// Result is the three-way answer of an enumeration.
type Result[T any] struct {
	Status Status
	Items  []T
}

// Complete returns a complete result holding items.
func Complete[T any](items ...T) Result[T] {
	return Result[T]{Status: StatusComplete, Items: items}
}

// Incomplete returns a result flagged as partial. Items may still hold what
// was found.
func Incomplete[T any](items ...T) Result[T] {
	return Result[T]{Status: StatusIncomplete, Items: items}
}

// NotSupported returns the "capability absent" result.
func NotSupported[T any]() Result[T] {
	return Result[T]{Status: StatusNotSupported}
}

// Supported reports whether some component answered.
func (r Result[T]) Supported() bool {
	return r.Status != StatusNotSupported
}

// IsComplete reports whether Items is exhaustive.
func (r Result[T]) IsComplete() bool {
	return r.Status == StatusComplete
}
