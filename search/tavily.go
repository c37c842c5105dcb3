package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	defaultTavilyBaseURL = "https://api.tavily.com"
	defaultMaxResults    = 5
)

// TavilyOptions configure the Tavily client.
type TavilyOptions struct {
	BaseURL    string
	MaxResults int
	HTTPClient *http.Client
}

// TavilyClient is a Client backed by the Tavily search API.
type TavilyClient struct {
	apiKey     string
	baseURL    string
	maxResults int
	httpClient *http.Client
}

var _ Client = (*TavilyClient)(nil)

// NewTavilyClient creates a Tavily-backed search client.
func NewTavilyClient(apiKey string, optFns ...func(o *TavilyOptions)) *TavilyClient {
	opts := TavilyOptions{
		BaseURL:    defaultTavilyBaseURL,
		MaxResults: defaultMaxResults,
		HTTPClient: http.DefaultClient,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &TavilyClient{
		apiKey:     apiKey,
		baseURL:    opts.BaseURL,
		maxResults: opts.MaxResults,
		httpClient: opts.HTTPClient,
	}
}

type tavilyRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type tavilyResult struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Content       string  `json:"content"`
	PublishedDate string  `json:"published_date"`
	Score         float64 `json:"score"`
}

type tavilyResponse struct {
	Results []tavilyResult `json:"results"`
}

// Search implements Client.
func (c *TavilyClient) Search(ctx context.Context, query string) ([]Result, error) {
	body, err := json.Marshal(tavilyRequest{
		APIKey:      c.apiKey,
		Query:       query,
		SearchDepth: "advanced",
		MaxResults:  c.maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search request: unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}

	var parsed tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	results := make([]Result, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		results = append(results, Result{
			Title:       r.Title,
			URL:         r.URL,
			Content:     r.Content,
			PublishedAt: r.PublishedDate,
		})
	}
	return results, nil
}
