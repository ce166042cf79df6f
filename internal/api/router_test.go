package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ananyateklu/second-brain-sub004/client"
	"github.com/ananyateklu/second-brain-sub004/internal/auth"
	"github.com/ananyateklu/second-brain-sub004/internal/service"
	"github.com/ananyateklu/second-brain-sub004/internal/store/sqlite"
	"github.com/ananyateklu/second-brain-sub004/model"
)

const testKey = "test-key"

func newTestServer(t *testing.T, healthy HealthFunc) *httptest.Server {
	t.Helper()
	st, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	svc := service.NewItems(st, 30*24*time.Hour)
	srv := httptest.NewServer(NewRouter(svc, auth.NewKeyAuthorizer(testKey), healthy))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+testKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestHealth_Open(t *testing.T) {
	srv := newTestServer(t, func() bool { return true })
	resp, err := srv.Client().Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	down := newTestServer(t, func() bool { return false })
	resp2, err := down.Client().Get(down.URL + "/api/health")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp2.StatusCode)
}

func TestItems_RequireAuth(t *testing.T) {
	srv := newTestServer(t, nil)
	resp, err := srv.Client().Get(srv.URL + "/api/items")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateItem_Validation(t *testing.T) {
	srv := newTestServer(t, nil)
	resp := do(t, srv, http.MethodPost, "/api/items", map[string]any{"title": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/api/items", map[string]any{"title": "hello", "tags": []string{"x"}})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var it model.Item
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&it))
	assert.NotEmpty(t, it.ID)
	assert.Equal(t, []string{"x"}, it.Tags)
}

func TestStatusMapping(t *testing.T) {
	srv := newTestServer(t, nil)
	resp := do(t, srv, http.MethodGet, "/api/items/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/api/items", map[string]any{"title": "n"})
	var it model.Item
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&it))

	resp = do(t, srv, http.MethodPost, "/api/items/"+it.ID+"/unarchive", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/api/items/"+it.ID+"/links/"+it.ID, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/items?archived=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/activities?limit=0", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRecordActivity_RejectsUnknownAction(t *testing.T) {
	srv := newTestServer(t, nil)
	resp := do(t, srv, http.MethodPost, "/api/activities", map[string]any{"actionType": "explode"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/api/activities", map[string]any{"actionType": "create", "itemId": "a", "itemType": "note"})
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}

// The typed client round-trips every endpoint against the real router.
func TestClientRoundTrip(t *testing.T) {
	srv := newTestServer(t, nil)
	ctx := context.Background()
	c, err := client.New(srv.URL, testKey)
	require.NoError(t, err)
	defer c.Close()

	a, err := c.CreateItem(ctx, model.Draft{Title: "a"})
	require.NoError(t, err)
	b, err := c.CreateItem(ctx, model.Draft{Title: "b", IsIdea: true})
	require.NoError(t, err)

	res, err := c.AddLink(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Contains(t, res.Source.LinkedItemIDs, b.ID)
	assert.Contains(t, res.Target.LinkedItemIDs, a.ID)

	title := "a2"
	up, err := c.UpdateItem(ctx, a.ID, model.Patch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "a2", up.Title)

	arch, err := c.ArchiveItem(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, arch.IsArchived)
	archived, err := c.ListItems(ctx, true)
	require.NoError(t, err)
	require.Len(t, archived, 1)

	gone, err := c.DeleteItem(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, gone.DeletedAt)
	trashed, err := c.ListTrash(ctx)
	require.NoError(t, err)
	require.Len(t, trashed, 1)
	assert.Equal(t, model.TypeIdea, trashed[0].Type)
	assert.Equal(t, 30, c.RetentionDays())

	restored, err := c.RestoreItem(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted)
	assert.False(t, restored.IsArchived)

	_, err = c.RestoreItem(ctx, b.ID)
	assert.ErrorIs(t, err, client.ErrNotFound)

	_, err = c.RemoveLink(ctx, a.ID, b.ID)
	require.NoError(t, err)

	require.NoError(t, c.RecordActivity(ctx, model.ActivityEntry{ActionType: model.ActionCreate, ItemID: a.ID, ItemType: model.TypeNote}))
	entries, err := c.ListActivities(ctx, a.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotEmpty(t, entries[0].ID)
}

func TestPreferences(t *testing.T) {
	srv := newTestServer(t, nil)
	resp := do(t, srv, http.MethodGet, "/api/preferences/theme", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, srv, http.MethodPut, "/api/preferences/theme", map[string]string{"value": "dark"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/preferences/theme", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var p model.Preference
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	assert.Equal(t, "dark", p.Value)
}
