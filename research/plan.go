package research

import (
	"regexp"
	"strings"
)

const maxSubtopics = 5

var (
	dottedListPattern = regexp.MustCompile(`[1-9]\.\s*(.+)`)
	parenListPattern  = regexp.MustCompile(`[1-9]\)\s*(.+)`)
)

// defaultSubtopics is used when no numbered list can be extracted from the
// planning response.
var defaultSubtopics = []string{
	"Core concepts",
	"Current state",
	"Latest developments",
	"Challenges and solutions",
	"Future outlook",
}

// extractSubtopics pulls up to maxSubtopics entries from a numbered list in
// the planning response, falling back to the default set when none is found.
func extractSubtopics(content string) []string {
	topics := dottedListPattern.FindAllStringSubmatch(content, -1)
	if len(topics) == 0 {
		topics = parenListPattern.FindAllStringSubmatch(content, -1)
	}

	subtopics := make([]string, 0, maxSubtopics)
	for _, m := range topics {
		if len(subtopics) == maxSubtopics {
			break
		}
		topic := strings.TrimSpace(m[1])
		if topic != "" {
			subtopics = append(subtopics, topic)
		}
	}

	if len(subtopics) == 0 {
		out := make([]string, len(defaultSubtopics))
		copy(out, defaultSubtopics)
		return out
	}
	return subtopics
}
