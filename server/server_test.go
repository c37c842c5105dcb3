package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suzudai/my-chat-app/model"
	"github.com/suzudai/my-chat-app/session"
)

type testEnv struct {
	handler *Handler
	router  chi.Router
	store   *session.InMemoryStore
	mock    *model.MockModel
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mock := model.NewMockModel("mock-model", "mock")
	registry := model.NewRegistry()
	registry.Register("mock-model", "Mock Model", mock)

	store := session.NewInMemoryStore()
	h := NewHandler(store, registry, func(o *Options) { o.MaxIterations = 1 })
	return &testEnv{handler: h, router: h.Router(), store: store, mock: mock}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListModels(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/models", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	models := decodeBody[[]model.Detail](t, rec)
	require.Len(t, models, 1)
	assert.Equal(t, "mock-model", models[0].ID)
	assert.Equal(t, "Mock Model", models[0].DisplayName)
}

func TestResearchChat_NewSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/deep-research-chat",
		chatRequest{Message: "What is Go?", Model: "mock-model"})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[chatResponse](t, rec)
	assert.NotEmpty(t, resp.ThreadID)
	assert.Contains(t, resp.Reply, "Deep Research Report")
	assert.NotEmpty(t, resp.UpdatedTitle)

	// The finished exchange is visible in the session history.
	msgRec := env.do(t, http.MethodGet, "/api/deep-research-sessions/"+resp.ThreadID+"/messages", nil)
	require.Equal(t, http.StatusOK, msgRec.Code)
	messages := decodeBody[[]messageResponse](t, msgRec)
	require.Len(t, messages, 2)
	assert.Equal(t, "user", messages[0].Role)
	assert.Equal(t, "What is Go?", messages[0].Content)
	assert.Equal(t, "assistant", messages[1].Role)

	// And the session shows up in the research listing.
	listRec := env.do(t, http.MethodGet, "/api/deep-research-sessions", nil)
	require.Equal(t, http.StatusOK, listRec.Code)
	sessions := decodeBody[[]sessionResponse](t, listRec)
	require.Len(t, sessions, 1)
	assert.Equal(t, resp.ThreadID, sessions[0].ThreadID)
	assert.Equal(t, 2, sessions[0].MessageCount)
}

func TestResearchChat_DefaultModel(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/deep-research-chat", chatRequest{Message: "hi"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResearchChat_UnknownModel(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/deep-research-chat",
		chatRequest{Message: "hi", Model: "no-such-model"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResearchChat_EmptyMessage(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/deep-research-chat", chatRequest{Model: "mock-model"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContinueResearchChat(t *testing.T) {
	env := newTestEnv(t)

	createRec := env.do(t, http.MethodPost, "/api/deep-research-sessions", nil)
	require.Equal(t, http.StatusOK, createRec.Code)
	created := decodeBody[createSessionResponse](t, createRec)
	assert.Equal(t, researchInitialTitle, created.Title)

	first := env.do(t, http.MethodPost, "/api/deep-research-sessions/"+created.ThreadID+"/chat",
		chatRequest{Message: "first question"})
	require.Equal(t, http.StatusOK, first.Code)
	firstResp := decodeBody[chatResponse](t, first)
	assert.NotEmpty(t, firstResp.UpdatedTitle)

	// A follow-up in the same session does not regenerate the title.
	second := env.do(t, http.MethodPost, "/api/deep-research-sessions/"+created.ThreadID+"/chat",
		chatRequest{Message: "follow up"})
	require.Equal(t, http.StatusOK, second.Code)
	secondResp := decodeBody[chatResponse](t, second)
	assert.Empty(t, secondResp.UpdatedTitle)

	msgRec := env.do(t, http.MethodGet, "/api/deep-research-sessions/"+created.ThreadID+"/messages", nil)
	messages := decodeBody[[]messageResponse](t, msgRec)
	assert.Len(t, messages, 4)
}

func TestContinueResearchChat_UnknownSession(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/deep-research-sessions/no-such-id/chat",
		chatRequest{Message: "hi"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionMessages_UnknownSessionIsEmptyList(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/deep-research-sessions/no-such-id/messages", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	messages := decodeBody[[]messageResponse](t, rec)
	assert.Empty(t, messages)
}

func TestDeleteSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/deep-research-chat",
		chatRequest{Message: "to be deleted"})
	resp := decodeBody[chatResponse](t, rec)

	delRec := env.do(t, http.MethodDelete, "/api/deep-research-sessions/"+resp.ThreadID, nil)
	assert.Equal(t, http.StatusOK, delRec.Code)

	// History reads as empty after deletion.
	msgRec := env.do(t, http.MethodGet, "/api/deep-research-sessions/"+resp.ThreadID+"/messages", nil)
	require.Equal(t, http.StatusOK, msgRec.Code)
	assert.Empty(t, decodeBody[[]messageResponse](t, msgRec))

	listRec := env.do(t, http.MethodGet, "/api/deep-research-sessions", nil)
	assert.Empty(t, decodeBody[[]sessionResponse](t, listRec))
}

func TestUpdateSessionTitle(t *testing.T) {
	env := newTestEnv(t)

	createRec := env.do(t, http.MethodPost, "/api/deep-research-sessions", nil)
	created := decodeBody[createSessionResponse](t, createRec)

	rec := env.do(t, http.MethodPut, "/api/deep-research-sessions/"+created.ThreadID+"/title",
		map[string]string{"title": "Renamed session"})
	assert.Equal(t, http.StatusOK, rec.Code)

	listRec := env.do(t, http.MethodGet, "/api/deep-research-sessions", nil)
	sessions := decodeBody[[]sessionResponse](t, listRec)
	require.Len(t, sessions, 1)
	assert.Equal(t, "Renamed session", sessions[0].Title)
}

func TestUpdateSessionTitle_Validation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/api/deep-research-sessions/no-such-id/title",
		map[string]string{"title": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	createRec := env.do(t, http.MethodPost, "/api/deep-research-sessions", nil)
	created := decodeBody[createSessionResponse](t, createRec)

	rec = env.do(t, http.MethodPut, "/api/deep-research-sessions/"+created.ThreadID+"/title",
		map[string]string{"title": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Overlong titles are truncated before storage.
	rec = env.do(t, http.MethodPut, "/api/deep-research-sessions/"+created.ThreadID+"/title",
		map[string]string{"title": strings.Repeat("a", 50)})
	require.Equal(t, http.StatusOK, rec.Code)
	listRec := env.do(t, http.MethodGet, "/api/deep-research-sessions", nil)
	sessions := decodeBody[[]sessionResponse](t, listRec)
	require.Len(t, sessions, 1)
	assert.Equal(t, strings.Repeat("a", 27)+"...", sessions[0].Title)
}

func TestSessionListsAreSeparatedByCategory(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/api/deep-research-sessions", nil)
	env.do(t, http.MethodPost, "/api/voting-graph-sessions", nil)

	research := decodeBody[[]sessionResponse](t, env.do(t, http.MethodGet, "/api/deep-research-sessions", nil))
	votingSessions := decodeBody[[]sessionResponse](t, env.do(t, http.MethodGet, "/api/voting-graph-sessions", nil))
	assert.Len(t, research, 1)
	assert.Len(t, votingSessions, 1)
	assert.NotEqual(t, research[0].ThreadID, votingSessions[0].ThreadID)
}
