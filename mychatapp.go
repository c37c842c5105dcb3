// Package mychatapp provides a high-level façade over the research and voting
// orchestrators and their shared services (sessions, models, tools, logging).
// Most applications interact with this package by:
//  1. Creating an App via New() (optionally overriding the default in-memory store)
//  2. Registering one or more models
//  3. Running plain, research or voting chats against a session
//
// The façade delegates orchestration to the research and voting packages while
// keeping setup ergonomics concise. All defaults are safe for local
// development and testing; production deployments supply the SQLite store and
// a structured logger.
package mychatapp

import (
	"context"
	"fmt"

	"github.com/suzudai/my-chat-app/chat"
	"github.com/suzudai/my-chat-app/core"
	"github.com/suzudai/my-chat-app/logging"
	"github.com/suzudai/my-chat-app/model"
	"github.com/suzudai/my-chat-app/research"
	"github.com/suzudai/my-chat-app/search"
	"github.com/suzudai/my-chat-app/session"
	"github.com/suzudai/my-chat-app/tool"
	"github.com/suzudai/my-chat-app/voting"
)

// Options configures the App instance.
type Options struct {
	// SessionStore defaults to an in-memory implementation.
	SessionStore core.SessionStore

	// Tools are offered to the research orchestrator. Defaults to the search
	// tool set over a fixture client.
	Tools []tool.Tool

	// MaxIterations bounds research loop-backs.
	MaxIterations int

	// Logger defaults to the NoOp logger.
	Logger logging.Logger
}

// App aggregates the orchestrators and their shared services.
type App struct {
	opts     Options
	registry *model.Registry
}

// New creates a new App with optional overrides. Any unset service is
// initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *App {
	opts := Options{
		SessionStore:  session.NewInMemoryStore(),
		Tools:         search.Tools(search.NewStaticClient()),
		MaxIterations: research.DefaultMaxIterations,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &App{opts: opts, registry: model.NewRegistry()}
}

// RegisterModel adds a model under a public identifier. The first registered
// model becomes the default.
func (a *App) RegisterModel(id, displayName string, m model.Model) {
	a.registry.Register(id, displayName, m)
}

// Registry exposes the model registry for server wiring.
func (a *App) Registry() *model.Registry { return a.registry }

// Store exposes the session store for server wiring.
func (a *App) Store() core.SessionStore { return a.opts.SessionStore }

// NewSession creates and persists an empty session in the given category.
func (a *App) NewSession(ctx context.Context, category core.Category) (*core.Session, error) {
	s := core.NewSession(core.NewID(), category)
	if err := a.opts.SessionStore.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return s, nil
}

// Research runs a deep research pass for the query within the session,
// using the model registered under modelID (empty for the default).
func (a *App) Research(ctx context.Context, sessionID, modelID, query string) (*research.Result, error) {
	m, err := a.registry.Get(modelID)
	if err != nil {
		return nil, err
	}
	orch := research.New(a.opts.SessionStore, m, a.opts.Tools, func(o *research.Options) {
		o.MaxIterations = a.opts.MaxIterations
		o.Logger = a.opts.Logger
	})
	return orch.Run(ctx, sessionID, query)
}

// Chat answers a plain chat message within the session, with no tools or
// multi-phase orchestration.
func (a *App) Chat(ctx context.Context, sessionID, modelID, message string) (string, error) {
	m, err := a.registry.Get(modelID)
	if err != nil {
		return "", err
	}
	assistant := chat.New(a.opts.SessionStore, m, func(o *chat.Options) {
		o.Logger = a.opts.Logger
	})
	return assistant.Run(ctx, sessionID, message)
}

// Vote runs a voting pass for the query within the session.
func (a *App) Vote(ctx context.Context, sessionID, modelID, query string) (*voting.Result, error) {
	return a.vote(ctx, sessionID, modelID, query, nil)
}

// VoteStream is Vote with progress events delivered to emit.
func (a *App) VoteStream(ctx context.Context, sessionID, modelID, query string, emit func(voting.Event)) (*voting.Result, error) {
	return a.vote(ctx, sessionID, modelID, query, emit)
}

func (a *App) vote(ctx context.Context, sessionID, modelID, query string, emit func(voting.Event)) (*voting.Result, error) {
	m, err := a.registry.Get(modelID)
	if err != nil {
		return nil, err
	}
	orch := voting.New(a.opts.SessionStore, m, func(o *voting.Options) {
		o.Logger = a.opts.Logger
	})
	if emit == nil {
		return orch.Run(ctx, sessionID, query)
	}
	return orch.RunStream(ctx, sessionID, query, emit)
}
