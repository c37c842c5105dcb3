package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suzudai/my-chat-app/core"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	sess := core.NewSession("s1", core.CategoryResearch)
	sess.Title = "Quantum computing"
	sess.AddMessage(core.NewMessage(core.RoleUser, "What is quantum computing?"))
	assistant := core.NewMessage(core.RoleAssistant, "Working on it.")
	assistant.ToolCalls = []core.ToolCall{{ID: "call_1", Name: "deep_web_search", Arguments: `{"query":"quantum"}`}}
	sess.AddMessage(assistant)
	sess.AddMessage(core.NewToolMessage("call_1", "search results"))
	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, core.CategoryResearch, loaded.Category)
	assert.Equal(t, "Quantum computing", loaded.Title)

	history := loaded.History()
	require.Len(t, history, 3)
	assert.Equal(t, core.RoleUser, history[0].Role)
	require.Len(t, history[1].ToolCalls, 1)
	assert.Equal(t, "deep_web_search", history[1].ToolCalls[0].Name)
	assert.Equal(t, "call_1", history[2].ToolCallID)
}

func TestSQLiteStore_LoadUnknown(t *testing.T) {
	store := newTestSQLiteStore(t)

	_, err := store.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestSQLiteStore_SaveIsUpsert(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	sess := core.NewSession("s1", core.CategoryVoting)
	sess.AddMessage(core.NewMessage(core.RoleUser, "first"))
	require.NoError(t, store.Save(ctx, sess))

	sess.AddMessage(core.NewMessage(core.RoleAssistant, "second"))
	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, loaded.History(), 2)

	infos, err := store.List(ctx, core.CategoryVoting)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, 2, infos[0].MessageCount)
}

func TestSQLiteStore_DeleteRemovesSessionAndIndex(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	sess := core.NewSession("s1", core.CategoryResearch)
	sess.Title = "doomed"
	sess.AddMessage(core.NewMessage(core.RoleUser, "bye"))
	require.NoError(t, store.Save(ctx, sess))

	require.NoError(t, store.Delete(ctx, "s1"))

	_, err := store.Load(ctx, "s1")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)

	infos, err := store.List(ctx, core.CategoryResearch)
	require.NoError(t, err)
	assert.Empty(t, infos)

	assert.NoError(t, store.Delete(ctx, "s1"))
}

func TestSQLiteStore_ListOrdersByActivity(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	older := core.NewSession("old", core.CategoryChat)
	older.Updated = time.Now().Add(-2 * time.Hour)
	newer := core.NewSession("new", core.CategoryChat)
	newer.Updated = time.Now()
	other := core.NewSession("other", core.CategoryResearch)

	require.NoError(t, store.Save(ctx, older))
	require.NoError(t, store.Save(ctx, newer))
	require.NoError(t, store.Save(ctx, other))

	infos, err := store.List(ctx, core.CategoryChat)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "new", infos[0].ID)
	assert.Equal(t, "old", infos[1].ID)
}

func TestSQLiteStore_UpdateTitle(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	sess := core.NewSession("s1", core.CategoryChat)
	require.NoError(t, store.Save(ctx, sess))

	require.NoError(t, store.UpdateTitle(ctx, "s1", "Renamed"))

	infos, err := store.List(ctx, core.CategoryChat)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "Renamed", infos[0].Title)

	assert.ErrorIs(t, store.UpdateTitle(ctx, "missing", "x"), core.ErrSessionNotFound)
}

func TestSQLiteStore_TitleSurvivesResave(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	sess := core.NewSession("s1", core.CategoryVoting)
	sess.Title = "Original title"
	require.NoError(t, store.Save(ctx, sess))

	// A later save carrying no title keeps the stored one.
	reloaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	reloaded.Title = ""
	reloaded.AddMessage(core.NewMessage(core.RoleUser, "more"))
	require.NoError(t, store.Save(ctx, reloaded))

	infos, err := store.List(ctx, core.CategoryVoting)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "Original title", infos[0].Title)
}
