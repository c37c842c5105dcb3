// Package structured extracts machine-readable payloads from model output.
// Models are asked for plain JSON but routinely wrap it in markdown code
// fences or surrounding prose; this package normalizes those variants before
// decoding so every caller shares one extraction and one fallback path.
package structured

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StripFences removes a leading markdown code fence (with or without a
// language tag) and its closing fence, returning the trimmed inner text.
// Text without fences is returned trimmed.
func StripFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop a language tag such as "json" on the fence line.
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		first := strings.TrimSpace(s[:idx])
		if first == "" || isLanguageTag(first) {
			s = s[idx+1:]
		}
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

func isLanguageTag(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return len(s) <= 16
}

// Decode unmarshals the first JSON object found in text into v. It tries the
// fence-stripped text as-is, then falls back to the outermost braced region.
// A single error is returned for every malformed variant so callers have one
// fallback path.
func Decode(text string, v any) error {
	s := StripFences(text)
	if err := json.Unmarshal([]byte(s), v); err == nil {
		return nil
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(s[start:end+1]), v); err == nil {
			return nil
		}
	}
	return fmt.Errorf("no decodable JSON object in model output")
}
