package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suzudai/my-chat-app/core"
)

func TestMockModel_CannedResponse(t *testing.T) {
	m := NewMockModel("mock", "mock")
	m.AddResponse("hello", "hi there")

	resp, err := m.Generate(context.Background(), Request{Messages: []core.Message{core.NewMessage(core.RoleUser, "hello")}})
	require.NoError(t, err)
	assert.Equal(t, "hi there", resp.Text)
	assert.Equal(t, "stop", resp.FinishReason)
}

func TestMockModel_QueueTakesPrecedence(t *testing.T) {
	m := NewMockModel("mock", "mock")
	m.AddResponse("hello", "canned")
	m.Enqueue("first", "second")

	ctx := context.Background()
	req := Request{Messages: []core.Message{core.NewMessage(core.RoleUser, "hello")}}

	resp, err := m.Generate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "first", resp.Text)

	resp, err = m.Generate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "second", resp.Text)

	resp, err = m.Generate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "canned", resp.Text)
}

func TestMockModel_FailWith(t *testing.T) {
	m := NewMockModel("mock", "mock")
	boom := errors.New("boom")
	m.FailWith(boom)

	_, err := m.Generate(context.Background(), Request{Messages: []core.Message{core.NewMessage(core.RoleUser, "x")}})
	assert.ErrorIs(t, err, boom)

	m.FailWith(nil)
	_, err = m.Generate(context.Background(), Request{Messages: []core.Message{core.NewMessage(core.RoleUser, "x")}})
	assert.NoError(t, err)
}

func TestMockModel_RecordsRequests(t *testing.T) {
	m := NewMockModel("mock", "mock")
	_, err := m.Generate(context.Background(), Request{Instructions: "be brief", Messages: []core.Message{core.NewMessage(core.RoleUser, "q")}})
	require.NoError(t, err)

	reqs := m.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "be brief", reqs[0].Instructions)
}

func TestRegistry_GetAndDefault(t *testing.T) {
	r := NewRegistry()
	gpt := NewMockModel("gpt-4o-mini", "openai")
	claude := NewMockModel("claude-3-5-sonnet", "anthropic")
	r.Register("gpt-4o-mini", "GPT-4o mini", gpt)
	r.Register("claude-3-5-sonnet", "Claude 3.5 Sonnet", claude)

	got, err := r.Get("claude-3-5-sonnet")
	require.NoError(t, err)
	assert.Equal(t, "anthropic", got.Info().Provider)

	// Empty id resolves to the first registered model.
	got, err = r.Get("")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", got.Info().Name)

	require.NoError(t, r.SetDefault("claude-3-5-sonnet"))
	got, err = r.Get("")
	require.NoError(t, err)
	assert.Equal(t, "claude-3-5-sonnet", got.Info().Name)
}

func TestRegistry_UnknownModel(t *testing.T) {
	r := NewRegistry()
	r.Register("gpt-4o-mini", "GPT-4o mini", NewMockModel("gpt-4o-mini", "openai"))

	_, err := r.Get("does-not-exist")
	assert.ErrorIs(t, err, ErrUnknownModel)

	err = r.SetDefault("does-not-exist")
	assert.ErrorIs(t, err, ErrUnknownModel)
}

func TestRegistry_ListSorted(t *testing.T) {
	r := NewRegistry()
	r.Register("zeta", "Zeta", NewMockModel("zeta", "mock"))
	r.Register("alpha", "Alpha", NewMockModel("alpha", "mock"))

	details := r.List()
	require.Len(t, details, 2)
	assert.Equal(t, "alpha", details[0].ID)
	assert.Equal(t, "zeta", details[1].ID)
}
