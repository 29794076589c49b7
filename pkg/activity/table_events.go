package activity

import (
	"maps"
	"slices"
	"strings"
	"time"
)

const (
	// ObjectTypeTable is the ObjectType of string table events.
	ObjectTypeTable = "lexicon.table"

	VerbTableCreated = "lexicon.table.created"
	VerbTableUpdated = "lexicon.table.updated"
	VerbTableDeleted = "lexicon.table.deleted"
)

// ScopeContext describes the scope a table belongs to.
type ScopeContext struct {
	Name     string
	Label    string
	Priority int
	Metadata map[string]any
}

// TableEventInput holds the fields shared by table lifecycle events.
type TableEventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	TableID    string
	Domain     string
	Culture    string
	SnapshotID string
	Channel    string
	Scope      ScopeContext
	Changes    TableChanges
	Metadata   map[string]any
	OccurredAt time.Time
}

// TableChanges lists the keys a mutation touched.
type TableChanges struct {
	Added   []string
	Updated []string
	Removed []string
}

// Empty reports whether nothing changed.
func (c TableChanges) Empty() bool {
	return len(c.Added) == 0 && len(c.Updated) == 0 && len(c.Removed) == 0
}

// DiffTables compares two key/value tables. Key lists are sorted.
func DiffTables(before, after map[string]string) TableChanges {
	var changes TableChanges
	for key, value := range after {
		old, ok := before[key]
		switch {
		case !ok:
			changes.Added = append(changes.Added, key)
		case old != value:
			changes.Updated = append(changes.Updated, key)
		}
	}
	for key := range before {
		if _, ok := after[key]; !ok {
			changes.Removed = append(changes.Removed, key)
		}
	}
	slices.Sort(changes.Added)
	slices.Sort(changes.Updated)
	slices.Sort(changes.Removed)
	return changes
}

// BuildTableCreatedEvent builds the event for a table saved for the first
// time.
func BuildTableCreatedEvent(input TableEventInput) Event {
	return buildTableEvent(VerbTableCreated, input)
}

// BuildTableUpdatedEvent builds the event for an edited table.
func BuildTableUpdatedEvent(input TableEventInput) Event {
	return buildTableEvent(VerbTableUpdated, input)
}

// BuildTableDeletedEvent builds the event for a removed table.
func BuildTableDeletedEvent(input TableEventInput) Event {
	return buildTableEvent(VerbTableDeleted, input)
}

func buildTableEvent(verb string, input TableEventInput) Event {
	metadata := maps.Clone(input.Metadata)
	if metadata == nil {
		metadata = map[string]any{}
	}
	set := func(key string, value any) {
		if s, ok := value.(string); ok && s == "" {
			return
		}
		metadata[key] = value
	}
	set("domain", input.Domain)
	set("culture", input.Culture)
	set("snapshot_id", input.SnapshotID)
	if input.Scope.Name != "" {
		set("scope_name", input.Scope.Name)
		set("scope_label", input.Scope.Label)
		metadata["scope_priority"] = input.Scope.Priority
		if len(input.Scope.Metadata) > 0 {
			metadata["scope_metadata"] = maps.Clone(input.Scope.Metadata)
		}
	}
	if len(input.Changes.Added) > 0 {
		metadata["keys_added"] = slices.Clone(input.Changes.Added)
	}
	if len(input.Changes.Updated) > 0 {
		metadata["keys_updated"] = slices.Clone(input.Changes.Updated)
	}
	if len(input.Changes.Removed) > 0 {
		metadata["keys_removed"] = slices.Clone(input.Changes.Removed)
	}
	if len(metadata) == 0 {
		metadata = nil
	}

	objectID := strings.TrimSpace(input.TableID)
	if objectID == "" {
		objectID = strings.TrimSpace(input.Domain)
	}
	if objectID == "" {
		objectID = ObjectTypeTable
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: ObjectTypeTable,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}
