package editor

import (
	"context"
	"eventdesk/internal/kv"
	"eventdesk/internal/models"
	"eventdesk/internal/store"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)), kv.NewMemoryStore())
	require.NoError(t, err)
	return s
}

func TestSubmit_WithoutSessionAdds(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	sess := NewSession(st)

	ev, err := sess.Submit(ctx, models.Draft{Title: "Meetup", Date: "2026-05-05"})
	require.NoError(t, err)
	assert.Equal(t, 1, st.Len())
	assert.NotEmpty(t, ev.ID)

	_, active := sess.Editing()
	assert.False(t, active)
}

func TestBeginPopulatesAndSubmitUpdates(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	orig, err := st.Add(ctx, models.Draft{Title: "Workshop", Date: "2026-06-20", Category: models.CategoryWorkshop, Description: "hands-on"})
	require.NoError(t, err)

	sess := NewSession(st)
	form, err := sess.Begin(orig.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Draft{Title: "Workshop", Date: "2026-06-20", Category: models.CategoryWorkshop, Description: "hands-on"}, form)

	id, active := sess.Editing()
	assert.True(t, active)
	assert.Equal(t, orig.ID, id)

	form.Title = "Go Workshop"
	ev, err := sess.Submit(ctx, form)
	require.NoError(t, err)
	assert.Equal(t, orig.ID, ev.ID)
	assert.Equal(t, 1, st.Len())

	_, active = sess.Editing()
	assert.False(t, active, "save clears the session")
}

func TestSubmit_ValidationKeepsSession(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	orig, err := st.Add(ctx, models.Draft{Title: "Workshop", Date: "2026-06-20"})
	require.NoError(t, err)

	sess := NewSession(st)
	_, err = sess.Begin(orig.ID)
	require.NoError(t, err)

	_, err = sess.Submit(ctx, models.Draft{Title: "", Date: "2026-06-20"})
	require.ErrorIs(t, err, store.ErrValidation)
	id, active := sess.Editing()
	assert.True(t, active)
	assert.Equal(t, orig.ID, id)
}

func TestBegin_UnknownID(t *testing.T) {
	sess := NewSession(newStore(t))
	_, err := sess.Begin("missing")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, active := sess.Editing()
	assert.False(t, active)
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	orig, err := st.Add(ctx, models.Draft{Title: "Workshop", Date: "2026-06-20"})
	require.NoError(t, err)

	sess := NewSession(st)
	_, err = sess.Begin(orig.ID)
	require.NoError(t, err)
	sess.Cancel()

	_, err = sess.Submit(ctx, models.Draft{Title: "Another", Date: "2026-07-01"})
	require.NoError(t, err)
	assert.Equal(t, 2, st.Len(), "after cancel the form adds instead of updating")
	got, _ := st.Get(orig.ID)
	assert.Equal(t, "Workshop", got.Title)
}
