package core

import "strings"

// FilterValid drops messages whose text is empty or whitespace-only, then
// keeps at most max of the remaining messages counted from the end. A max of
// zero or less means no window is applied. The returned slice is a copy;
// applying FilterValid to its own output yields the same result.
func FilterValid(msgs []Message, max int) []Message {
	valid := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if strings.TrimSpace(m.Text) == "" && len(m.ToolCalls) == 0 {
			continue
		}
		valid = append(valid, m)
	}
	if max > 0 && len(valid) > max {
		valid = valid[len(valid)-max:]
	}
	out := make([]Message, len(valid))
	copy(out, valid)
	return out
}

// IsPlanningArtifact reports whether an assistant message looks like a
// structured planning payload rather than prose. Such messages are excluded
// from the context used to compose user-facing answers.
func IsPlanningArtifact(m Message) bool {
	if m.Role != RoleAssistant {
		return false
	}
	head := strings.ToLower(m.Text)
	if len(head) > 100 {
		head = head[:100]
	}
	return strings.Contains(head, "json") || strings.HasPrefix(strings.TrimSpace(head), "{")
}

// ExcludePlanningArtifacts filters out structured planning payloads. Like
// FilterValid it returns a copy and is idempotent.
func ExcludePlanningArtifacts(msgs []Message) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if IsPlanningArtifact(m) {
			continue
		}
		out = append(out, m)
	}
	return out
}
