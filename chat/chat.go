// Package chat implements the plain single-model chat flow: one assistant
// persona answers with recent session history as context, no tools and no
// multi-phase orchestration.
package chat

import (
	"context"
	"fmt"

	"github.com/suzudai/my-chat-app/core"
	"github.com/suzudai/my-chat-app/logging"
	"github.com/suzudai/my-chat-app/model"
)

// historyWindow bounds how many prior turns feed each reply.
const historyWindow = 10

const assistantInstructions = `You are a friendly, professional chat assistant.
- Answer accurately and concisely in plain language
- Capture the intent behind the question; ask back politely when it is unclear
- Use markdown (headings, lists, code blocks) where it aids readability`

// Options configure the assistant.
type Options struct {
	Logger logging.Logger
}

// Assistant answers plain chat messages within a durable session.
type Assistant struct {
	store  core.SessionStore
	model  model.Model
	logger logging.Logger
}

// New creates a plain chat assistant.
func New(store core.SessionStore, m model.Model, optFns ...func(o *Options)) *Assistant {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Assistant{store: store, model: m, logger: opts.Logger}
}

// Run answers the message within the session and persists both turns. Unlike
// the orchestrators, a model failure here surfaces as an error and nothing is
// persisted.
func (a *Assistant) Run(ctx context.Context, sessionID, message string) (string, error) {
	session, err := a.store.Load(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}

	msgs := core.FilterValid(session.History(), historyWindow)
	msgs = append(msgs, core.NewMessage(core.RoleUser, message))

	resp, err := a.model.Generate(ctx, model.Request{
		Instructions: assistantInstructions,
		Messages:     msgs,
	})
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}

	session.AddMessage(core.NewMessage(core.RoleUser, message))
	session.AddMessage(core.NewMessage(core.RoleAssistant, resp.Text))
	if err := a.store.Save(ctx, session); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}

	a.logger.Info("chat.run.complete", "session_id", sessionID, "history_len", len(msgs))
	return resp.Text, nil
}
