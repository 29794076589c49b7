package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	lexicon "github.com/goliatone/go-lexicon"
	"github.com/goliatone/go-lexicon/layering"
	"github.com/goliatone/go-lexicon/pkg/activity"
	"github.com/google/uuid"
)

// Resolver loads scoped tables from a Store and merges them.
type Resolver struct {
	Store Store
	// Emitter receives table lifecycle events from Mutate and Delete.
	Emitter *activity.Emitter
	// Actor identifies who performs mutations in emitted events.
	Actor string
	// Now overrides the clock, mostly for tests.
	Now func() time.Time
}

// Resolved is the outcome of Resolve.
type Resolved struct {
	Domain  string
	Culture string
	Values  Table
	// Origin maps each key to the scope name that supplied it.
	Origin map[string]string
	// Layers lists the contributing scopes, strongest first.
	Layers []LayerInfo
}

// LayerInfo records one table that took part in a merge.
type LayerInfo struct {
	Scope      lexicon.Scope
	SnapshotID string
}

// StringTable builds a lexicon asset holding the merged values.
func (r Resolved) StringTable() (*lexicon.StringTable, error) {
	return lexicon.StringTableFromMap(r.Culture, r.Values,
		lexicon.WithTableName(r.Domain+"/"+cultureSegment(r.Culture)),
	)
}

func cultureSegment(culture string) string {
	if culture == "" {
		return InvariantCulture
	}
	return culture
}

// Resolve merges the tables stored for domain and culture under scopes.
// Higher priorities win. ErrNoLayers is returned when no scope has a table.
func (r Resolver) Resolve(ctx context.Context, domain, culture string, scopes ...lexicon.Scope) (Resolved, error) {
	if r.Store == nil {
		return Resolved{}, fmt.Errorf("state: store is required")
	}
	if domain == "" {
		return Resolved{}, fmt.Errorf("state: domain is required")
	}
	if len(scopes) == 0 {
		return Resolved{}, fmt.Errorf("state: at least one scope is required")
	}
	return r.resolve(ctx, domain, culture, nil, scopes)
}

// ResolveWithDefaults is Resolve with defaults as the weakest layer, so it
// never fails with ErrNoLayers.
func (r Resolver) ResolveWithDefaults(ctx context.Context, domain, culture string, defaults Table, scopes ...lexicon.Scope) (Resolved, error) {
	if r.Store == nil {
		return Resolved{}, fmt.Errorf("state: store is required")
	}
	if domain == "" {
		return Resolved{}, fmt.Errorf("state: domain is required")
	}
	for _, scope := range scopes {
		if scope.Name == "defaults" {
			return Resolved{}, fmt.Errorf("state: scope name %q is reserved", "defaults")
		}
	}
	if defaults == nil {
		defaults = Table{}
	}
	return r.resolve(ctx, domain, culture, defaults, scopes)
}

func (r Resolver) resolve(ctx context.Context, domain, culture string, defaults Table, scopes []lexicon.Scope) (Resolved, error) {
	tables := map[string]Table{}
	snapshots := map[string]string{}
	var stackLayers []lexicon.Layer
	for _, scope := range scopes {
		table, meta, ok, err := r.Store.Load(ctx, Ref{Domain: domain, Culture: culture, Scope: scope})
		if err != nil {
			return Resolved{}, fmt.Errorf("state: load %q for scope %q: %w", domain, scope.Name, err)
		}
		if !ok {
			continue
		}
		tables[scope.Name] = table
		snapshots[scope.Name] = meta.SnapshotID
		stackLayers = append(stackLayers, lexicon.NewLayer(scope, table))
	}
	if defaults != nil {
		tables["defaults"] = defaults
		stackLayers = append(stackLayers, lexicon.NewLayer(
			lexicon.NewScope("defaults", weakestPriority(scopes), lexicon.WithScopeLabel("Defaults")),
			defaults,
		))
	}
	if len(stackLayers) == 0 {
		return Resolved{}, fmt.Errorf("%w: domain %q culture %q", ErrNoLayers, domain, culture)
	}

	stack, err := lexicon.NewStack(stackLayers...)
	if err != nil {
		return Resolved{}, fmt.Errorf("state: stack: %w", err)
	}

	ordered := stack.Layers()
	merge := make([]layering.Layer, len(ordered))
	infos := make([]LayerInfo, len(ordered))
	for i, layer := range ordered {
		merge[i] = layering.Layer{Name: layer.Scope.Name, Table: tables[layer.Scope.Name]}
		infos[i] = LayerInfo{Scope: layer.Scope, SnapshotID: snapshots[layer.Scope.Name]}
	}
	values, origin := layering.Merge(merge...)
	return Resolved{
		Domain:  domain,
		Culture: culture,
		Values:  values,
		Origin:  origin,
		Layers:  infos,
	}, nil
}

func weakestPriority(scopes []lexicon.Scope) int {
	if len(scopes) == 0 {
		return 0
	}
	taken := map[int]bool{}
	lowest := scopes[0].Priority
	for _, scope := range scopes {
		taken[scope.Priority] = true
		lowest = min(lowest, scope.Priority)
	}
	priority := lowest - 1
	for taken[priority] {
		priority--
	}
	return priority
}

// Mutate loads the table for ref, applies fn, validates every key as a
// line and saves the result with a fresh SnapshotID and ETag. When
// meta.ETag is set it must match the stored version. A created or updated
// event is emitted after a successful save.
func (r Resolver) Mutate(ctx context.Context, ref Ref, meta Meta, fn Mutator) (Table, Meta, error) {
	if r.Store == nil {
		return nil, Meta{}, fmt.Errorf("state: store is required")
	}
	if ref.Domain == "" {
		return nil, Meta{}, fmt.Errorf("state: domain is required")
	}
	if ref.Scope.Name == "" {
		return nil, Meta{}, fmt.Errorf("state: scope name is required")
	}
	if fn == nil {
		return nil, Meta{}, fmt.Errorf("state: mutator is required")
	}

	before, loadedMeta, exists, err := r.Store.Load(ctx, ref)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("state: load %q for scope %q: %w", ref.Domain, ref.Scope.Name, err)
	}
	if !exists {
		before, loadedMeta = Table{}, Meta{}
	}
	if meta.ETag != "" && loadedMeta.ETag != "" && meta.ETag != loadedMeta.ETag {
		return nil, loadedMeta, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, meta.ETag, loadedMeta.ETag)
	}

	after := before.Clone()
	if err := fn(after); err != nil {
		return nil, loadedMeta, err
	}
	if err := ValidateTable(after); err != nil {
		return nil, loadedMeta, err
	}

	saveMeta := cloneMeta(loadedMeta)
	saveMeta.SnapshotID = uuid.NewString()
	saveMeta.ETag = uuid.NewString()
	saveMeta.UpdatedAt = r.now()
	if meta.Extra != nil {
		saveMeta.Extra = meta.Extra
	}
	saved, err := r.Store.Save(ctx, ref, after, saveMeta)
	if err != nil {
		return nil, loadedMeta, fmt.Errorf("state: save %q for scope %q: %w", ref.Domain, ref.Scope.Name, err)
	}

	input := r.eventInput(ref, saved)
	input.Changes = activity.DiffTables(before, after)
	event := activity.BuildTableUpdatedEvent(input)
	if !exists {
		event = activity.BuildTableCreatedEvent(input)
	}
	if err := r.Emitter.Emit(ctx, event); err != nil {
		return after, saved, fmt.Errorf("state: emit %s: %w", event.Verb, err)
	}
	return after, saved, nil
}

// Delete removes the table for ref and emits a deleted event when one was
// stored.
func (r Resolver) Delete(ctx context.Context, ref Ref) (bool, error) {
	if r.Store == nil {
		return false, fmt.Errorf("state: store is required")
	}
	table, meta, ok, err := r.Store.Load(ctx, ref)
	if err != nil || !ok {
		return false, err
	}
	deleted, err := r.Store.Delete(ctx, ref)
	if err != nil || !deleted {
		return deleted, err
	}
	input := r.eventInput(ref, meta)
	input.Changes = activity.DiffTables(table, nil)
	if err := r.Emitter.Emit(ctx, activity.BuildTableDeletedEvent(input)); err != nil {
		return true, fmt.Errorf("state: emit %s: %w", activity.VerbTableDeleted, err)
	}
	return true, nil
}

// ValidateTable checks that every key parses as a line.
func ValidateTable(table Table) error {
	var errs []error
	for key := range table {
		if _, err := lexicon.ParseLine(key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r Resolver) eventInput(ref Ref, meta Meta) activity.TableEventInput {
	id, _ := ref.Identifier()
	input := activity.TableEventInput{
		ActorID:    r.Actor,
		TableID:    id,
		Domain:     ref.Domain,
		Culture:    ref.Culture,
		SnapshotID: meta.SnapshotID,
		Scope: activity.ScopeContext{
			Name:     ref.Scope.Name,
			Label:    ref.Scope.Label,
			Priority: ref.Scope.Priority,
			Metadata: ref.Scope.Metadata,
		},
		OccurredAt: r.now(),
	}
	switch ref.Scope.Name {
	case "tenant":
		input.TenantID, _ = ref.Scope.Metadata["tenant_id"].(string)
	case "user":
		input.UserID, _ = ref.Scope.Metadata["user_id"].(string)
	}
	return input
}

func (r Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}
