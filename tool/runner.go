package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/suzudai/my-chat-app/core"
	"github.com/suzudai/my-chat-app/logging"
)

// Runner executes batches of model-requested tool calls. It never fails the
// surrounding run:
//   - panics are recovered and converted to substitute results
//   - unknown tools, malformed arguments and execution errors all yield a
//     diagnostic (or tool-provided fallback) result message
//   - exactly one tool result message is produced per incoming call, in the
//     order the calls were received.
type Runner struct {
	tools  map[string]Tool
	logger logging.Logger
}

// RunnerOptions configure a Runner.
type RunnerOptions struct {
	Logger logging.Logger
}

// NewRunner constructs a Runner over the given tools.
func NewRunner(tools []Tool, optFns ...func(o *RunnerOptions)) *Runner {
	opts := RunnerOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	registry := make(map[string]Tool, len(tools))
	for _, t := range tools {
		registry[t.Name()] = t
	}
	return &Runner{tools: registry, logger: opts.Logger}
}

// Execute runs all calls sequentially and returns one tool result message per
// call. Context cancellation stops execution early; already produced results
// are returned.
func (r *Runner) Execute(ctx context.Context, calls []core.ToolCall) []core.Message {
	results := make([]core.Message, 0, len(calls))
	for _, call := range calls {
		if ctx.Err() != nil {
			break
		}
		results = append(results, r.executeSingle(ctx, call))
	}
	return results
}

func (r *Runner) executeSingle(ctx context.Context, call core.ToolCall) core.Message {
	start := time.Now()

	r.logger.Debug("tool.call.start", "tool", call.Name, "call_id", call.ID)

	var (
		result any
		err    error
	)
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("panic recovered: %v", rec)
				r.logger.Error("tool.call.panic", "tool", call.Name, "recover", rec)
			}
		}()
		result, err = r.executeTool(ctx, call)
	}()

	if err != nil {
		r.logger.Warn("tool.call.substituted",
			"tool", call.Name,
			"call_id", call.ID,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err.Error(),
		)
		return core.NewToolMessage(call.ID, r.substituteText(call.Name, err))
	}

	r.logger.Info("tool.call.success",
		"tool", call.Name,
		"call_id", call.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return core.NewToolMessage(call.ID, stringify(result))
}

// executeTool centralizes tool lookup, argument decoding and execution.
func (r *Runner) executeTool(ctx context.Context, call core.ToolCall) (any, error) {
	impl, ok := r.tools[call.Name]
	if !ok {
		return nil, fmt.Errorf("tool %s not found", call.Name)
	}

	var argMap map[string]any
	if call.Arguments == "" {
		argMap = map[string]any{}
	} else if err := json.Unmarshal([]byte(call.Arguments), &argMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal args: %w", err)
	}

	return impl.Call(ctx, argMap)
}

// substituteText picks the tool's canned fallback when available, otherwise a
// generic diagnostic the model can reason over.
func (r *Runner) substituteText(name string, err error) string {
	if t, ok := r.tools[name]; ok {
		if fb, ok := t.(Fallback); ok && fb.FallbackText() != "" {
			return fb.FallbackText()
		}
	}
	return fmt.Sprintf("The %s tool could not complete (%v). Continue with the findings gathered so far.", name, err)
}

func stringify(result any) string {
	switch v := result.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
		return fmt.Sprintf("%v", v)
	}
}
