package brain

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ananyateklu/second-brain-sub004/devmode"
	"github.com/ananyateklu/second-brain-sub004/internal/api"
	"github.com/ananyateklu/second-brain-sub004/internal/auth"
	"github.com/ananyateklu/second-brain-sub004/internal/config"
	"github.com/ananyateklu/second-brain-sub004/internal/service"
	"github.com/ananyateklu/second-brain-sub004/internal/store/sqlite"
	"github.com/ananyateklu/second-brain-sub004/model"
)

func openWorkspace(t *testing.T) *Workspace {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	st, err := sqlite.Open(ctx, filepath.Join(dir, "service.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	svc := service.NewItems(st, 30*24*time.Hour)
	srv := httptest.NewServer(api.NewRouter(svc, auth.NewKeyAuthorizer(devmode.APIKey), nil))
	t.Cleanup(srv.Close)

	cfg := &config.Client{
		ServiceURL:         srv.URL,
		APIKey:             devmode.APIKey,
		HTTPTimeout:        5 * time.Second,
		TrashRetentionDays: 30,
		PrefsPath:          filepath.Join(dir, "prefs.db"),
		Breaker:            true,
	}
	w, err := Open(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	require.NoError(t, w.Load(ctx))
	return w
}

func TestWorkspace_Lifecycle(t *testing.T) {
	w := openWorkspace(t)
	ctx := context.Background()

	note, err := w.Items.Create(ctx, model.Draft{Title: "note"})
	require.NoError(t, err)
	idea, err := w.Items.Create(ctx, model.Draft{Title: "idea", IsIdea: true})
	require.NoError(t, err)

	_, err = w.Items.AddLink(ctx, note.ID, idea.ID)
	require.NoError(t, err)
	linked, err := w.Items.LinkedItems(note.ID)
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, idea.ID, linked[0].ID)

	require.NoError(t, w.Items.Delete(ctx, idea.ID))
	assert.True(t, w.Trash.Contains(idea.ID))
	linked, err = w.Items.LinkedItems(note.ID)
	require.NoError(t, err)
	assert.Empty(t, linked, "trashed items are filtered from link reads")

	restored, err := w.Trash.Restore(ctx, idea.ID)
	require.NoError(t, err)
	assert.True(t, restored.IsIdea)
	assert.False(t, w.Trash.Contains(idea.ID))
	_, state, ok := w.Items.Get(idea.ID)
	require.True(t, ok)
	assert.Equal(t, model.StateActive, state)

	// Reloading from the service gives the same picture.
	require.NoError(t, w.Load(ctx))
	assert.Len(t, w.Items.Active(), 2)
	assert.Empty(t, w.Trash.Items())
}

func TestWorkspace_BulkRestoreRecordsActivity(t *testing.T) {
	w := openWorkspace(t)
	ctx := context.Background()

	var ids []string
	for _, title := range []string{"a", "b"} {
		it, err := w.Items.Create(ctx, model.Draft{Title: title})
		require.NoError(t, err)
		_, err = w.Items.Archive(ctx, it.ID)
		require.NoError(t, err)
		ids = append(ids, it.ID)
	}
	require.Len(t, w.Items.Archived(), 2)

	res := w.Items.RestoreMultiple(ctx, append(ids, "missing"))
	assert.Len(t, res.Restored, 2)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "missing", res.Failed[0].ID)
	assert.Empty(t, w.Items.Archived())

	// Close drains every shard.
	require.NoError(t, w.Activity.Close())
	entries, err := w.client.ListActivities(ctx, "", 50)
	require.NoError(t, err)
	var actions []model.ActionType
	for _, e := range entries {
		actions = append(actions, e.ActionType)
	}
	assert.Contains(t, actions, model.ActionRestoreMultiple)
	assert.Contains(t, actions, model.ActionArchive)
}

func TestWorkspace_Preferences(t *testing.T) {
	w := openWorkspace(t)
	ctx := context.Background()

	_, ok, err := w.Prefs.Get(ctx, "theme")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, w.Prefs.Set(ctx, "theme", "dark"))
	v, ok, err := w.Prefs.Get(ctx, "theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", v)
}
