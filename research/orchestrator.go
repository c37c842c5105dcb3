// Package research implements the deep research orchestrator: an eight-phase
// state machine that plans, gathers, verifies and synthesizes findings before
// composing a final report. Transitions are driven by the pure NextPhase table
// so the control flow can be tested exhaustively without models or tools.
package research

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/suzudai/my-chat-app/core"
	"github.com/suzudai/my-chat-app/logging"
	"github.com/suzudai/my-chat-app/model"
	"github.com/suzudai/my-chat-app/tool"
)

// DefaultMaxIterations bounds research loop-backs when not configured.
const DefaultMaxIterations = 3

// researchTemperature keeps gathering and analysis phases deterministic.
const researchTemperature = 0.1

// Options configure the research orchestrator.
type Options struct {
	MaxIterations int
	Logger        logging.Logger
	Now           func() time.Time
}

// Orchestrator runs research sessions against a model, a tool set and a
// session store. Runtime failures of the model or tools degrade the answer,
// never the run; only store failures surface as errors.
type Orchestrator struct {
	store         core.SessionStore
	model         model.Model
	tools         []tool.Tool
	defs          []model.ToolDefinition
	runner        *tool.Runner
	logger        logging.Logger
	maxIterations int
	now           func() time.Time
}

// Result summarizes a completed research run.
type Result struct {
	Answer     string   `json:"answer"`
	Confidence float64  `json:"confidence"`
	Iterations int      `json:"iterations"`
	Steps      int      `json:"steps"`
	Subtopics  []string `json:"subtopics"`
	Phase      Phase    `json:"phase"`
}

// New creates a research orchestrator.
func New(store core.SessionStore, m model.Model, tools []tool.Tool, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{MaxIterations: DefaultMaxIterations, Logger: logging.NoOpLogger{}, Now: time.Now}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxIterations < 1 {
		opts.MaxIterations = 1
	}
	return &Orchestrator{
		store:         store,
		model:         m,
		tools:         tools,
		defs:          tool.Definitions(tools),
		runner:        tool.NewRunner(tools, func(o *tool.RunnerOptions) { o.Logger = opts.Logger }),
		logger:        opts.Logger,
		maxIterations: opts.MaxIterations,
		now:           opts.Now,
	}
}

// runState is the per-run working state of the phase machine.
type runState struct {
	query      string
	messages   []core.Message
	pending    []core.ToolCall
	iterations int
	confidence float64
	subtopics  []string
	gaps       []string
	experts    []string
	verified   []string
}

func (s *runState) route(maxIterations int) RouteState {
	return RouteState{
		Iterations:       s.iterations,
		MaxIterations:    maxIterations,
		Confidence:       s.confidence,
		PendingToolCalls: len(s.pending) > 0,
	}
}

// Run executes a full research pass for the query within the given session.
// The user turn and the final report are persisted; intermediate phase output
// stays within the run.
func (o *Orchestrator) Run(ctx context.Context, sessionID, query string) (*Result, error) {
	session, err := o.store.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	session.AddMessage(core.NewMessage(core.RoleUser, query))

	st := &runState{query: query, confidence: 0.0}
	st.messages = append(st.messages, core.NewMessage(core.RoleUser, query))

	guard := core.NewTransitionBudget(maxTransitions(o.maxIterations))
	answer := ""
	start := o.now()

	phase := PhasePlanning
	for phase != PhaseDone {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		switch phase {
		case PhasePlanning:
			o.stepPlanning(ctx, st)
		case PhaseMultiAngleResearch:
			o.stepMultiAngle(ctx, st)
		case PhaseToolExecution:
			o.stepToolExecution(ctx, st)
		case PhaseExpertPerspective:
			o.stepExpert(ctx, st)
		case PhaseGapAnalysis:
			o.stepGapAnalysis(ctx, st)
		case PhaseDeepVerification:
			o.stepVerification(ctx, st)
		case PhaseSynthesis:
			o.stepSynthesis(ctx, st)
		case PhaseFinalAnswer:
			answer = o.stepFinalAnswer(ctx, st)
		}

		next := NextPhase(phase, st.route(o.maxIterations))
		if !guard.Spend() {
			// Safety net only; the confidence gates and the iteration
			// ceiling end every legitimate run well inside the guard.
			o.logger.Error("research.transition_guard", "session_id", sessionID, "phase", string(phase))
			if phase != PhaseFinalAnswer {
				next = PhaseFinalAnswer
			} else {
				next = PhaseDone
			}
		}

		o.logger.Info("research.phase.complete",
			"session_id", sessionID,
			"phase", string(phase),
			"next", string(next),
			"iteration", st.iterations,
			"confidence", st.confidence,
			"step", guard.Used(),
		)
		phase = next
	}

	session.AddMessage(core.NewMessage(core.RoleAssistant, answer))
	if err := o.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	o.logger.Info("research.run.complete",
		"session_id", sessionID,
		"steps", guard.Used(),
		"iterations", st.iterations,
		"confidence", st.confidence,
		"duration_ms", o.now().Sub(start).Milliseconds(),
	)

	return &Result{
		Answer:     answer,
		Confidence: st.confidence,
		Iterations: st.iterations,
		Steps:      guard.Used(),
		Subtopics:  st.subtopics,
		Phase:      PhaseFinalAnswer,
	}, nil
}

// generate performs one model call for a phase. The returned error marks a
// substituted response; the text is always usable as phase output.
func (o *Orchestrator) generate(ctx context.Context, phase Phase, instructions string, msgs []core.Message, withTools bool) (*model.Response, error) {
	req := model.Request{
		Instructions: instructions,
		Messages:     msgs,
		Temperature:  model.Float(researchTemperature),
	}
	if withTools {
		req.Tools = o.defs
	}

	resp, err := o.model.Generate(ctx, req)
	if err != nil {
		o.logger.Warn("research.model.substituted", "phase", string(phase), "error", err.Error())
		return &model.Response{
			Text: fmt.Sprintf("The %s phase could not reach the model (%v). Continuing with the findings gathered so far.", phase, err),
		}, err
	}
	return resp, nil
}

func (o *Orchestrator) stepPlanning(ctx context.Context, st *runState) {
	prompt := fmt.Sprintf("Question: %s\n\nCreate an efficient research plan for the question above.", st.query)
	resp, _ := o.generate(ctx, PhasePlanning, planningPrompt, []core.Message{core.NewMessage(core.RoleUser, prompt)}, false)

	st.subtopics = extractSubtopics(resp.Text)
	st.confidence = planningConfidence
	st.messages = append(st.messages, core.NewMessage(core.RoleAssistant, resp.Text))
}

func (o *Orchestrator) stepMultiAngle(ctx context.Context, st *runState) {
	st.iterations++

	prompt := fmt.Sprintf("Research target: %s\nSubtopics: %s\n\nStart comprehensive information gathering with the tools above, beginning with deep_web_search.",
		st.query, strings.Join(st.subtopics, ", "))
	msgs := append([]core.Message{core.NewMessage(core.RoleUser, prompt)}, contextWindow(st.messages, 3)...)

	resp, _ := o.generate(ctx, PhaseMultiAngleResearch, multiAnglePrompt, msgs, true)

	st.pending = resp.ToolCalls
	m := core.NewMessage(core.RoleAssistant, resp.Text)
	m.ToolCalls = resp.ToolCalls
	st.messages = append(st.messages, m)
}

func (o *Orchestrator) stepToolExecution(ctx context.Context, st *runState) {
	results := o.runner.Execute(ctx, st.pending)
	st.messages = append(st.messages, results...)
	st.pending = nil
}

func (o *Orchestrator) stepExpert(ctx context.Context, st *runState) {
	prompt := fmt.Sprintf("Research theme: %s\n\nUse the tools to gather expert viewpoints.", st.query)
	msgs := append([]core.Message{core.NewMessage(core.RoleUser, prompt)}, contextWindow(st.messages, 2)...)

	resp, _ := o.generate(ctx, PhaseExpertPerspective, expertPrompt, msgs, true)

	st.experts = []string{"academia", "industry", "policy", "technology", "economy", "society"}
	st.messages = append(st.messages, core.NewMessage(core.RoleAssistant, resp.Text))
	// Tool calls requested here run inline; tool_execution is only entered
	// from multi_angle_research.
	if len(resp.ToolCalls) > 0 {
		st.messages = append(st.messages, o.runner.Execute(ctx, resp.ToolCalls)...)
	}
}

func (o *Orchestrator) stepGapAnalysis(ctx context.Context, st *runState) {
	prompt := fmt.Sprintf("Research theme: %s", st.query)
	msgs := append([]core.Message{core.NewMessage(core.RoleUser, prompt)}, contextWindow(st.messages, 5)...)

	resp, _ := o.generate(ctx, PhaseGapAnalysis, gapAnalysisPrompt, msgs, false)

	st.gaps = []string{"reliability check", "latest developments", "concrete examples"}
	st.confidence = gapConfidence(st.iterations)
	st.messages = append(st.messages, core.NewMessage(core.RoleAssistant, resp.Text))
}

func (o *Orchestrator) stepVerification(ctx context.Context, st *runState) {
	prompt := fmt.Sprintf("Verification target: findings collected on %s\n\nRun a detailed verification with the tools.", st.query)
	msgs := append([]core.Message{core.NewMessage(core.RoleUser, prompt)}, contextWindow(st.messages, 4)...)

	resp, _ := o.generate(ctx, PhaseDeepVerification, verificationPrompt, msgs, true)

	st.verified = []string{"high-confidence findings", "medium-confidence findings", "needs further confirmation"}
	st.messages = append(st.messages, core.NewMessage(core.RoleAssistant, resp.Text))
	if len(resp.ToolCalls) > 0 {
		st.messages = append(st.messages, o.runner.Execute(ctx, resp.ToolCalls)...)
	}
}

func (o *Orchestrator) stepSynthesis(ctx context.Context, st *runState) {
	win := contextWindow(st.messages, 10)
	prompt := fmt.Sprintf("Original question: %s\n\nNumber of research results to consolidate: %d", st.query, len(win))
	msgs := append([]core.Message{core.NewMessage(core.RoleUser, prompt)}, win...)

	resp, _ := o.generate(ctx, PhaseSynthesis, synthesisPrompt, msgs, false)

	st.confidence = synthesisConfidence(st.confidence)
	st.messages = append(st.messages, core.NewMessage(core.RoleAssistant, resp.Text))
}

func (o *Orchestrator) stepFinalAnswer(ctx context.Context, st *runState) string {
	// Recent findings only, with planning artifacts excluded from the
	// user-facing context.
	recent := st.messages
	if len(recent) > 15 {
		recent = recent[len(recent)-15:]
	}
	research := core.ExcludePlanningArtifacts(contextWindow(recent, 0))
	if len(research) > 5 {
		research = research[len(research)-5:]
	}

	prompt := fmt.Sprintf(`User question: %s

Confidence score: %.0f%%

Compose the final answer in the markdown structure above, based on the research results below. Focus on content the user can read directly; skip planning JSON and internal details. If the collected material contains error messages, still use whatever substitute information is available.`,
		st.query, st.confidence*100)
	msgs := append([]core.Message{core.NewMessage(core.RoleUser, prompt)}, research...)

	if len(research) == 0 {
		msgs = append(msgs, core.NewMessage(core.RoleUser, fmt.Sprintf(
			"Research data is limited, so answer the question about %s from general knowledge, focusing on recent trends and a comprehensive analysis.", st.query)))
	}

	resp, err := o.generate(ctx, PhaseFinalAnswer, finalAnswerPrompt, msgs, false)
	if err != nil || strings.TrimSpace(resp.Text) == "" {
		return fallbackAnswer(st.query, st.confidence, o.now())
	}
	return wrapReport(st.query, resp.Text, st.confidence, o.now())
}

// contextWindow sanitizes the working transcript into provider-safe context:
// whitespace-only turns are dropped, tool results become assistant text and
// tool call markers are stripped. A n of zero or less keeps all messages.
func contextWindow(msgs []core.Message, n int) []core.Message {
	valid := core.FilterValid(msgs, 0)
	out := make([]core.Message, 0, len(valid))
	for _, m := range valid {
		switch m.Role {
		case core.RoleTool:
			nm := m
			nm.Role = core.RoleAssistant
			nm.ToolCallID = ""
			out = append(out, nm)
		case core.RoleAssistant:
			if strings.TrimSpace(m.Text) == "" {
				continue
			}
			nm := m
			nm.ToolCalls = nil
			out = append(out, nm)
		default:
			out = append(out, m)
		}
	}
	if n > 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}
