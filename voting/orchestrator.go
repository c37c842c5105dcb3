package voting

import (
	"context"
	"fmt"
	"time"

	"github.com/suzudai/my-chat-app/core"
	"github.com/suzudai/my-chat-app/logging"
	"github.com/suzudai/my-chat-app/model"
)

// votingTemperature keeps ballot generation deterministic regardless of the
// persona's own answer temperature.
const votingTemperature = 0.1

// Options configure the voting orchestrator.
type Options struct {
	Roster []AgentSpec
	Logger logging.Logger
}

// Orchestrator runs voting sessions: every roster persona answers the query,
// then scores the other answers, and the top scored answer is returned.
type Orchestrator struct {
	store  core.SessionStore
	model  model.Model
	roster []AgentSpec
	logger logging.Logger
}

// Result summarizes a completed voting run.
type Result struct {
	Response  string            `json:"response"`
	Winner    string            `json:"winner"`
	Name      string            `json:"winner_name"`
	Totals    map[string]int    `json:"totals"`
	Responses map[string]string `json:"responses"`
	Ballots   map[string]Ballot `json:"ballots"`
}

// New creates a voting orchestrator with the default roster unless overridden.
func New(store core.SessionStore, m model.Model, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{Roster: DefaultRoster(), Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Orchestrator{store: store, model: m, roster: opts.Roster, logger: opts.Logger}
}

// Run executes a full voting pass and persists the user turn plus the
// decision summary.
func (o *Orchestrator) Run(ctx context.Context, sessionID, query string) (*Result, error) {
	return o.run(ctx, sessionID, query, nil)
}

// RunStream is Run with progress events. The emit callback receives events in
// order: start, phase_start/agent_response per persona, voting_results, the
// final response. Emission never alters the outcome; Run and RunStream share
// one code path.
func (o *Orchestrator) RunStream(ctx context.Context, sessionID, query string, emit func(Event)) (*Result, error) {
	return o.run(ctx, sessionID, query, emit)
}

func (o *Orchestrator) run(ctx context.Context, sessionID, query string, emit func(Event)) (*Result, error) {
	send := func(ev Event) {
		if emit != nil {
			emit(ev)
		}
	}

	session, err := o.store.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	session.AddMessage(core.NewMessage(core.RoleUser, query))

	start := time.Now()
	send(Event{Type: EventStart, ThreadID: sessionID, Message: "Starting collaborative voting chat..."})
	send(Event{Type: EventPhaseStart, Phase: "agents", Message: "Agents are generating answers..."})

	responses := o.collectAnswers(ctx, query, send)

	send(Event{Type: EventPhaseStart, Phase: "voting", Message: "Agents are voting on the answers..."})
	ballots := o.collectBallots(ctx, query, responses)
	send(Event{Type: EventVotingResults, VotingResults: ballots, Message: "Voting finished"})

	send(Event{Type: EventPhaseStart, Phase: "decision", Message: "Selecting the best answer..."})
	totals := tally(o.roster, ballots)
	winner := selectWinner(o.roster, totals)
	summary := resultSummary(o.roster, winner, totals, responses, ballots)

	send(Event{Type: EventFinalResponse, Response: summary, Message: "Collaborative voting chat finished"})

	session.AddMessage(core.NewMessage(core.RoleAssistant, summary))
	if err := o.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	o.logger.Info("voting.run.complete",
		"session_id", sessionID,
		"winner", winner.Key,
		"winner_score", totals[winner.Key],
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Result{
		Response:  summary,
		Winner:    winner.Key,
		Name:      winner.Name,
		Totals:    totals,
		Responses: responses,
		Ballots:   ballots,
	}, nil
}

// collectAnswers asks every persona the query sequentially in roster order.
// A failed model call substitutes a diagnostic answer for that persona only.
func (o *Orchestrator) collectAnswers(ctx context.Context, query string, send func(Event)) map[string]string {
	responses := make(map[string]string, len(o.roster))
	for _, spec := range o.roster {
		resp, err := o.model.Generate(ctx, model.Request{
			Instructions: spec.Instruction,
			Messages:     []core.Message{core.NewMessage(core.RoleUser, query)},
			Temperature:  model.Float(spec.Temperature),
		})
		text := ""
		if err != nil {
			o.logger.Warn("voting.answer.substituted", "agent", spec.Key, "error", err.Error())
			text = fmt.Sprintf("%s could not produce an answer (%v).", spec.Name, err)
		} else {
			text = resp.Text
		}
		responses[spec.Key] = text
		send(Event{
			Type:      EventAgentResponse,
			Agent:     spec.Key,
			AgentName: spec.Name,
			Response:  text,
			Message:   fmt.Sprintf("%s finished answering", spec.Name),
		})
	}
	return responses
}

// collectBallots has every persona score the collected answers. Parse
// failures and model failures both degrade to the uniform fallback ballot.
func (o *Orchestrator) collectBallots(ctx context.Context, query string, responses map[string]string) map[string]Ballot {
	ballots := make(map[string]Ballot, len(o.roster))
	for _, voter := range o.roster {
		if _, ok := responses[voter.Key]; !ok {
			continue
		}
		resp, err := o.model.Generate(ctx, model.Request{
			Instructions: voter.Instruction + voterAddendum,
			Messages:     []core.Message{core.NewMessage(core.RoleUser, ballotPrompt(query, o.roster, voter, responses))},
			Temperature:  model.Float(votingTemperature),
		})
		if err != nil {
			o.logger.Warn("voting.ballot.substituted", "agent", voter.Key, "error", err.Error())
			ballots[voter.Key] = fallbackBallot(o.roster, voter.Key, fmt.Sprintf("ballot unavailable: %v", err))
			continue
		}
		ballots[voter.Key] = parseBallot(resp.Text, o.roster, voter.Key)
	}
	return ballots
}
