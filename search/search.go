// Package search defines the web search collaborator used by the research
// tools, plus the tool set itself. The Client interface keeps the orchestrator
// decoupled from any concrete search provider; TavilyClient talks to the
// Tavily API and StaticClient offers a deterministic in-memory backend for
// tests and offline development.
package search

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Result is a single retrieved document.
type Result struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Content     string `json:"content"`
	PublishedAt string `json:"published_at,omitempty"`
}

// Client performs a search and returns up to the backend's configured number
// of results. Implementations must be safe for concurrent use.
type Client interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// StaticClient is an in-memory Client resolving queries against registered
// fixtures. Substring matching keeps fixtures forgiving for composed queries.
type StaticClient struct {
	mu       sync.RWMutex
	fixtures map[string][]Result
	fallback []Result
	err      error
}

var _ Client = (*StaticClient)(nil)

// NewStaticClient creates an empty static client.
func NewStaticClient() *StaticClient {
	return &StaticClient{fixtures: make(map[string][]Result)}
}

// Add registers results returned for queries containing the given fragment.
func (c *StaticClient) Add(fragment string, results ...Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fixtures[strings.ToLower(fragment)] = results
}

// SetFallback registers results returned when no fragment matches.
func (c *StaticClient) SetFallback(results ...Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fallback = results
}

// FailWith makes every subsequent Search return err. Pass nil to clear.
func (c *StaticClient) FailWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// Search implements Client.
func (c *StaticClient) Search(ctx context.Context, query string) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.err != nil {
		return nil, c.err
	}
	q := strings.ToLower(query)
	for fragment, results := range c.fixtures {
		if strings.Contains(q, fragment) {
			return results, nil
		}
	}
	if c.fallback != nil {
		return c.fallback, nil
	}
	return nil, fmt.Errorf("no results for query %q", query)
}

// FormatResults renders results into the text block handed to models.
func FormatResults(label string, results []Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d results):\n", label, len(results))
	blocks := make([]string, len(results))
	for i, r := range results {
		var rb strings.Builder
		fmt.Fprintf(&rb, "Title: %s\nURL: %s\nContent: %s\n", orNA(r.Title), orNA(r.URL), orNA(r.Content))
		if r.PublishedAt != "" {
			fmt.Fprintf(&rb, "Published: %s\n", r.PublishedAt)
		}
		blocks[i] = rb.String()
	}
	b.WriteString(strings.Join(blocks, "\n---\n"))
	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
