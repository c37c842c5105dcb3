// Package title generates short session titles from the first user message.
package title

import (
	"context"
	"fmt"
	"strings"

	"github.com/suzudai/my-chat-app/core"
	"github.com/suzudai/my-chat-app/logging"
	"github.com/suzudai/my-chat-app/model"
)

const (
	// maxTitleRunes is the display limit; longer titles are truncated.
	maxTitleRunes = 30
	// DefaultFallback is used when the model cannot produce a title.
	DefaultFallback = "New chat session"

	titleTemperature = 0.3
)

const titlePrompt = `Generate a short, clear title from the message below.
The title must be at most 20 characters and capture the content precisely.

Message: %s

Return only the title. No extra explanation.`

// Options configure a Generator.
type Options struct {
	Fallback string
	Logger   logging.Logger
}

// Generator produces session titles with a model, degrading to a fixed
// fallback when the model is unavailable.
type Generator struct {
	model    model.Model
	fallback string
	logger   logging.Logger
}

// NewGenerator creates a title generator.
func NewGenerator(m model.Model, optFns ...func(o *Options)) *Generator {
	opts := Options{Fallback: DefaultFallback, Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Generator{model: m, fallback: opts.Fallback, logger: opts.Logger}
}

// Generate returns a title for the first user message of a session. Model
// failures and empty completions yield the fallback title, never an error.
func (g *Generator) Generate(ctx context.Context, firstUserMessage string) string {
	resp, err := g.model.Generate(ctx, model.Request{
		Messages:    []core.Message{core.NewMessage(core.RoleUser, fmt.Sprintf(titlePrompt, firstUserMessage))},
		Temperature: model.Float(titleTemperature),
	})
	if err != nil {
		g.logger.Warn("title.generate.failed", "error", err.Error())
		return g.fallback
	}

	title := strings.TrimSpace(resp.Text)
	if title == "" {
		return g.fallback
	}
	return Truncate(title)
}

// Truncate bounds a title to the display limit, appending an ellipsis marker
// when it had to cut. Counting is rune-based so multibyte titles keep their
// characters intact.
func Truncate(title string) string {
	runes := []rune(title)
	if len(runes) <= maxTitleRunes {
		return title
	}
	return string(runes[:maxTitleRunes-3]) + "..."
}
