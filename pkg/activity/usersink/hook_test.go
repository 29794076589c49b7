package usersink_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-lexicon/pkg/activity"
	"github.com/goliatone/go-lexicon/pkg/activity/usersink"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	records []usertypes.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookNotifyMapsTableEvent(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	actorID := uuid.New()
	tenantID := uuid.New()

	event := activity.BuildTableUpdatedEvent(activity.TableEventInput{
		ActorID:    actorID.String(),
		TenantID:   tenantID.String(),
		TableID:    "tenant/acme/errors/en",
		Domain:     "errors",
		Culture:    "en",
		Channel:    "lexicon",
		Changes:    activity.TableChanges{Updated: []string{"Key:NotFound"}},
		OccurredAt: now,
	})

	require.NoError(t, hook.Notify(context.Background(), event))
	require.Len(t, sink.records, 1)

	record := sink.records[0]
	assert.Equal(t, actorID, record.ActorID)
	assert.Equal(t, uuid.Nil, record.UserID)
	assert.Equal(t, tenantID, record.TenantID)
	assert.Equal(t, activity.VerbTableUpdated, record.Verb)
	assert.Equal(t, activity.ObjectTypeTable, record.ObjectType)
	assert.Equal(t, "tenant/acme/errors/en", record.ObjectID)
	assert.Equal(t, "lexicon", record.Channel)
	assert.Equal(t, now, record.OccurredAt)
	assert.Equal(t, "errors", record.Data["domain"])
	assert.Equal(t, []string{"Key:NotFound"}, record.Data["keys_updated"])
}

func TestHookNotifyKeepsNonUUIDIdentifiers(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	err := hook.Notify(context.Background(), activity.Event{
		Verb:       activity.VerbTableCreated,
		ActorID:    "translator-7",
		ObjectType: activity.ObjectTypeTable,
		ObjectID:   "system/errors/en",
	})
	require.NoError(t, err)
	require.Len(t, sink.records, 1)
	assert.Equal(t, uuid.Nil, sink.records[0].ActorID)
	assert.Equal(t, "translator-7", sink.records[0].Data["actor_id"])
	assert.False(t, sink.records[0].OccurredAt.IsZero())
}

func TestHookNotifySkipsInvalidEvents(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	require.NoError(t, hook.Notify(context.Background(), activity.Event{}))
	assert.Empty(t, sink.records)

	require.NoError(t, usersink.Hook{}.Notify(context.Background(), activity.Event{Verb: "x", ObjectType: "y", ObjectID: "z"}))
}

func TestHookNotifyReturnsSinkError(t *testing.T) {
	boom := errors.New("sink down")
	hook := usersink.Hook{Sink: &recordingSink{err: boom}}

	err := hook.Notify(context.Background(), activity.Event{
		Verb:       activity.VerbTableDeleted,
		ObjectType: activity.ObjectTypeTable,
		ObjectID:   "system/errors/en",
	})
	assert.ErrorIs(t, err, boom)
}
