package state

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	lexicon "github.com/goliatone/go-lexicon"
)

var (
	// ErrETagMismatch is returned when a mutation expected another version.
	ErrETagMismatch = errors.New("state: etag mismatch")
	// ErrNoLayers is returned when none of the requested scopes has a table.
	ErrNoLayers = errors.New("state: no layers found")
)

// Table maps String form keys to localized values.
type Table map[string]string

// Clone returns an independent copy.
func (t Table) Clone() Table {
	if t == nil {
		return Table{}
	}
	return maps.Clone(t)
}

// InvariantCulture is the culture segment used in identifiers for "".
const InvariantCulture = "invariant"

// Ref identifies one stored table.
type Ref struct {
	Domain  string
	Culture string
	Scope   lexicon.Scope
}

// Meta is storage owned metadata for audit and concurrency control.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Store loads, saves and deletes one table for one Ref.
type Store interface {
	Load(ctx context.Context, ref Ref) (table Table, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, table Table, meta Meta) (Meta, error)
	Delete(ctx context.Context, ref Ref) (bool, error)
}

// Mutator edits a table in place.
type Mutator func(Table) error

// Scope names with an identifier in their metadata ("tenant_id", "user_id").
var identifiedScopes = map[string]bool{"tenant": true, "org": true, "team": true, "user": true}

// Identifier returns the deterministic storage key for r, for example
// "system/errors/en" or "tenant/acme/errors/invariant".
func (r Ref) Identifier() (string, error) {
	if r.Domain == "" {
		return "", fmt.Errorf("state: domain is required")
	}
	culture := r.Culture
	if culture == "" {
		culture = InvariantCulture
	}
	name := r.Scope.Name
	switch {
	case name == "":
		return "", lexicon.ErrScopeNameRequired
	case identifiedScopes[name]:
		metadataKey := name + "_id"
		id, _ := r.Scope.Metadata[metadataKey].(string)
		if id == "" {
			return "", fmt.Errorf("state: missing metadata key %q for scope %q", metadataKey, name)
		}
		return fmt.Sprintf("%s/%s/%s/%s", name, id, r.Domain, culture), nil
	default:
		return fmt.Sprintf("%s/%s/%s", name, r.Domain, culture), nil
	}
}

const (
	ScopePrioritySystem = 100
	ScopePriorityTenant = 200
	ScopePriorityUser   = 300
)

// SystemScope is the shared base scope.
func SystemScope() lexicon.Scope {
	return lexicon.NewScope("system", ScopePrioritySystem, lexicon.WithScopeLabel("System"))
}

// TenantScope overrides system content for one tenant.
func TenantScope(id string) lexicon.Scope {
	return lexicon.NewScope("tenant", ScopePriorityTenant,
		lexicon.WithScopeLabel("Tenant"),
		lexicon.WithScopeMetadata(map[string]any{"tenant_id": id}),
	)
}

// UserScope overrides content for one user.
func UserScope(id string) lexicon.Scope {
	return lexicon.NewScope("user", ScopePriorityUser,
		lexicon.WithScopeLabel("User"),
		lexicon.WithScopeMetadata(map[string]any{"user_id": id}),
	)
}

func cloneMeta(meta Meta) Meta {
	out := meta
	out.Extra = maps.Clone(meta.Extra)
	return out
}
