package voting

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suzudai/my-chat-app/core"
	"github.com/suzudai/my-chat-app/model"
	"github.com/suzudai/my-chat-app/session"
)

func newVotingSession(t *testing.T, store core.SessionStore, id string) {
	t.Helper()
	require.NoError(t, store.Save(context.Background(), core.NewSession(id, core.CategoryVoting)))
}

// scenarioModel scripts three persona answers followed by three ballots that
// total logical 16, empathetic 12, concise 11.
func scenarioModel() *model.MockModel {
	mock := model.NewMockModel("mock", "mock")
	mock.Enqueue(
		"the logical answer",
		"the empathetic answer",
		"the concise answer",
		`{"logical_agent": {"score": 0, "reason": "mine"}, "empathetic_agent": {"score": 6, "reason": "kind"}, "concise_agent": {"score": 5, "reason": "compact"}}`,
		`{"logical_agent": {"score": 8, "reason": "rigorous"}, "empathetic_agent": {"score": 0, "reason": "mine"}, "concise_agent": {"score": 6, "reason": "clear"}}`,
		`{"logical_agent": {"score": 8, "reason": "well grounded"}, "empathetic_agent": {"score": 6, "reason": "warm"}, "concise_agent": {"score": 0, "reason": "mine"}}`,
	)
	return mock
}

func TestRun_WinnerByTotals(t *testing.T) {
	ctx := context.Background()
	store := session.NewInMemoryStore()
	newVotingSession(t, store, "v1")

	orch := New(store, scenarioModel())

	result, err := orch.Run(ctx, "v1", "What should I do?")
	require.NoError(t, err)

	assert.Equal(t, KeyLogical, result.Winner)
	assert.Equal(t, "Logical Thinker", result.Name)
	assert.Equal(t, 16, result.Totals[KeyLogical])
	assert.Equal(t, 12, result.Totals[KeyEmpathetic])
	assert.Equal(t, 11, result.Totals[KeyConcise])
	assert.Contains(t, result.Response, "the logical answer")
}

func TestRun_PersistsQuestionAndSummary(t *testing.T) {
	ctx := context.Background()
	store := session.NewInMemoryStore()
	newVotingSession(t, store, "v1")

	orch := New(store, scenarioModel())

	result, err := orch.Run(ctx, "v1", "What should I do?")
	require.NoError(t, err)

	loaded, err := store.Load(ctx, "v1")
	require.NoError(t, err)
	history := loaded.History()
	require.Len(t, history, 2)
	assert.Equal(t, "What should I do?", history[0].Text)
	assert.Equal(t, result.Response, history[1].Text)
}

func TestRun_PersonaTemperatures(t *testing.T) {
	ctx := context.Background()
	store := session.NewInMemoryStore()
	newVotingSession(t, store, "v1")

	mock := scenarioModel()
	orch := New(store, mock)

	_, err := orch.Run(ctx, "v1", "q")
	require.NoError(t, err)

	reqs := mock.Requests()
	require.Len(t, reqs, 6)
	assert.InDelta(t, 0.1, *reqs[0].Temperature, 1e-9)
	assert.InDelta(t, 0.7, *reqs[1].Temperature, 1e-9)
	assert.InDelta(t, 0.3, *reqs[2].Temperature, 1e-9)
	// Ballot calls all use the deterministic voting temperature.
	for _, req := range reqs[3:] {
		assert.InDelta(t, votingTemperature, *req.Temperature, 1e-9)
	}
}

func TestRun_AllBallotsUnparsable(t *testing.T) {
	ctx := context.Background()
	store := session.NewInMemoryStore()
	newVotingSession(t, store, "v1")

	mock := model.NewMockModel("mock", "mock")
	mock.Enqueue("a", "b", "c", "not json", "still not json", "nope")
	orch := New(store, mock)

	result, err := orch.Run(ctx, "v1", "q")
	require.NoError(t, err)

	// Uniform fives with zero self votes give every candidate 10 points and
	// the roster-order tie-break selects the logical agent.
	assert.Equal(t, 10, result.Totals[KeyLogical])
	assert.Equal(t, 10, result.Totals[KeyEmpathetic])
	assert.Equal(t, 10, result.Totals[KeyConcise])
	assert.Equal(t, KeyLogical, result.Winner)
}

func TestRun_ModelFailureStillDecides(t *testing.T) {
	ctx := context.Background()
	store := session.NewInMemoryStore()
	newVotingSession(t, store, "v1")

	mock := model.NewMockModel("mock", "mock")
	mock.FailWith(errors.New("provider down"))
	orch := New(store, mock)

	result, err := orch.Run(ctx, "v1", "q")
	require.NoError(t, err)

	assert.Equal(t, KeyLogical, result.Winner)
	assert.Contains(t, result.Responses[KeyLogical], "could not produce an answer")
	assert.NotEmpty(t, result.Response)
}

func TestRun_UnknownSession(t *testing.T) {
	store := session.NewInMemoryStore()
	orch := New(store, model.NewMockModel("mock", "mock"))

	_, err := orch.Run(context.Background(), "missing", "q")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestRunStream_EventOrderAndSameOutcome(t *testing.T) {
	ctx := context.Background()

	plainStore := session.NewInMemoryStore()
	newVotingSession(t, plainStore, "v1")
	plain, err := New(plainStore, scenarioModel()).Run(ctx, "v1", "q")
	require.NoError(t, err)

	streamStore := session.NewInMemoryStore()
	newVotingSession(t, streamStore, "v1")
	var events []Event
	streamed, err := New(streamStore, scenarioModel()).RunStream(ctx, "v1", "q", func(ev Event) {
		events = append(events, ev)
	})
	require.NoError(t, err)

	// Streaming must not change the outcome.
	assert.Equal(t, plain.Winner, streamed.Winner)
	assert.Equal(t, plain.Totals, streamed.Totals)
	assert.Equal(t, plain.Response, streamed.Response)

	types := make([]EventType, 0, len(events))
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	assert.Equal(t, []EventType{
		EventStart,
		EventPhaseStart,
		EventAgentResponse,
		EventAgentResponse,
		EventAgentResponse,
		EventPhaseStart,
		EventVotingResults,
		EventPhaseStart,
		EventFinalResponse,
	}, types)

	assert.Equal(t, "v1", events[0].ThreadID)
	assert.Equal(t, KeyLogical, events[2].Agent)
	assert.Equal(t, "the logical answer", events[2].Response)
	assert.Equal(t, streamed.Response, events[len(events)-1].Response)
}
