package store_test

import (
	"context"
	"testing"
	"time"

	"backend/internal/store"
	"backend/internal/store/storetest"

	"github.com/stretchr/testify/require"
)

type widget struct {
	ID        string   `dynamodbav:"widget_id"`
	Label     string   `dynamodbav:"label"`
	Tags      []string `dynamodbav:"tags"`
	StampedAt string   `dynamodbav:"stamped_at"`
	UpdatedAt string   `dynamodbav:"updated_at,omitempty"`
}

func newStore(t *testing.T) (*store.Store[widget], *storetest.Client) {
	t.Helper()
	client := storetest.New("widget_id")
	s := store.New[widget](client, "widgets", "widget_id")
	s.Now = func() time.Time {
		return time.Date(2025, 3, 21, 15, 0, 0, 0, time.UTC)
	}
	return s, client
}

func TestGetNotFound(t *testing.T) {
	s, _ := newStore(t)
	_, err := s.Get(context.Background(), "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateAndGet(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	in := widget{ID: "w1", Label: "first", Tags: []string{"a", "b"}}
	require.NoError(t, s.Create(ctx, in, true))

	got, err := s.Get(ctx, "w1")
	require.NoError(t, err)
	require.Equal(t, in, got)
}

func TestCreateUniqueConflict(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, widget{ID: "w1", Label: "original"}, true))

	before, err := s.Get(ctx, "w1")
	require.NoError(t, err)

	err = s.Create(ctx, widget{ID: "w1", Label: "usurper"}, true)
	require.ErrorIs(t, err, store.ErrConflict)

	// The failed create must not have touched the stored record.
	after, err := s.Get(ctx, "w1")
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestCreateOverwrite(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, widget{ID: "w1", Label: "original"}, false))
	require.NoError(t, s.Create(ctx, widget{ID: "w1", Label: "replacement"}, false))

	got, err := s.Get(ctx, "w1")
	require.NoError(t, err)
	require.Equal(t, "replacement", got.Label)
}

func TestUpdateNotFound(t *testing.T) {
	s, client := newStore(t)

	patch := store.NewPatch([]string{"label"}, map[string]any{"label": "new"})
	_, err := s.Update(context.Background(), "missing", patch)
	require.ErrorIs(t, err, store.ErrNotFound)
	require.Empty(t, client.Items)
}

func TestUpdateMergesTruthyFields(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, widget{ID: "w1", Label: "original", Tags: []string{"keep"}}, true))

	patch := store.NewPatch([]string{"label", "tags"}, map[string]any{
		"label": "renamed",
		"tags":  []any{},
	})
	got, err := s.Update(ctx, "w1", patch)
	require.NoError(t, err)
	require.Equal(t, "renamed", got.Label)
	require.Equal(t, []string{"keep"}, got.Tags, "empty list is falsy and must not clear the field")
	require.Equal(t, "2025-03-21T15:00:00.000Z", got.UpdatedAt)
}

func TestUpdateEmptyPatchStampsUpdatedAt(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, widget{ID: "w1", Label: "original"}, true))

	got, err := s.Update(ctx, "w1", store.NewPatch([]string{"label"}, map[string]any{}))
	require.NoError(t, err)
	require.Equal(t, "original", got.Label)
	require.Equal(t, "2025-03-21T15:00:00.000Z", got.UpdatedAt)
}

func TestDeleteIsIdempotent(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, widget{ID: "w1"}, true))

	require.NoError(t, s.Delete(ctx, "w1"))
	require.NoError(t, s.Delete(ctx, "w1"))
	require.NoError(t, s.Delete(ctx, "never-existed"))
}

func TestListUnfiltered(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, widget{ID: "w1", Label: "a"}, true))
	require.NoError(t, s.Create(ctx, widget{ID: "w2", Label: "b"}, true))

	got, err := s.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestListFilters(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, widget{ID: "w1", Label: "red", StampedAt: "2025-03-20T10:00:00.000Z"}, true))
	require.NoError(t, s.Create(ctx, widget{ID: "w2", Label: "blue", StampedAt: "2025-03-21T10:00:00.000Z"}, true))
	require.NoError(t, s.Create(ctx, widget{ID: "w3", Label: "red", StampedAt: "2025-03-22T10:00:00.000Z"}, true))

	byLabel, err := s.List(ctx, store.FieldEquals("label", "red"))
	require.NoError(t, err)
	require.Len(t, byLabel, 2)

	byRange, err := s.List(ctx, store.Between("stamped_at", "2025-03-21T00:00:00.000Z", "2025-03-21T23:59:59.000Z"))
	require.NoError(t, err)
	require.Len(t, byRange, 1)
	require.Equal(t, "w2", byRange[0].ID)

	byPrefix, err := s.List(ctx, store.BeginsWith("stamped_at", "2025-03-22"))
	require.NoError(t, err)
	require.Len(t, byPrefix, 1)
	require.Equal(t, "w3", byPrefix[0].ID)
}
