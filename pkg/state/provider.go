package state

import (
	"context"
	"errors"

	lexicon "github.com/goliatone/go-lexicon"
)

// Provider materializes the stored tables of Domain for the culture named by
// the filter line. It implements lexicon.Provider.
type Provider struct {
	Resolver Resolver
	Domain   string
	// Scopes are merged per lookup; higher priorities win.
	Scopes []lexicon.Scope
	// Defaults, when set, is the weakest layer.
	Defaults Table
}

// Materialize returns one StringTable, or nothing when no scope stores
// content for the culture.
func (p Provider) Materialize(ctx context.Context, filter lexicon.Line) ([]lexicon.Asset, error) {
	culture := filter.EffectiveCulture()
	var (
		resolved Resolved
		err      error
	)
	if p.Defaults != nil {
		resolved, err = p.Resolver.ResolveWithDefaults(ctx, p.Domain, culture, p.Defaults, p.Scopes...)
	} else {
		resolved, err = p.Resolver.Resolve(ctx, p.Domain, culture, p.Scopes...)
	}
	if errors.Is(err, ErrNoLayers) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	table, err := resolved.StringTable()
	if err != nil {
		return nil, err
	}
	return []lexicon.Asset{table}, nil
}
