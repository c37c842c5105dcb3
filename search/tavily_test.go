package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTavilyClient_Search(t *testing.T) {
	var got tavilyRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(tavilyResponse{Results: []tavilyResult{
			{Title: "Go generics proposal", URL: "https://example.com/generics", Content: "Type parameters landed in Go 1.18.", PublishedDate: "2022-03-15", Score: 0.92},
			{Title: "Generics in practice", URL: "https://example.com/practice", Content: "Constraints describe type sets."},
		}})
	}))
	defer srv.Close()

	client := NewTavilyClient("test-key", func(o *TavilyOptions) {
		o.BaseURL = srv.URL
		o.MaxResults = 3
	})

	results, err := client.Search(context.Background(), "go generics")
	require.NoError(t, err)

	assert.Equal(t, "test-key", got.APIKey)
	assert.Equal(t, "go generics", got.Query)
	assert.Equal(t, "advanced", got.SearchDepth)
	assert.Equal(t, 3, got.MaxResults)

	require.Len(t, results, 2)
	assert.Equal(t, "Go generics proposal", results[0].Title)
	assert.Equal(t, "https://example.com/generics", results[0].URL)
	assert.Equal(t, "2022-03-15", results[0].PublishedAt)
	assert.Empty(t, results[1].PublishedAt)
}

func TestTavilyClient_SearchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewTavilyClient("bad-key", func(o *TavilyOptions) { o.BaseURL = srv.URL })

	_, err := client.Search(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestTavilyClient_SearchCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(tavilyResponse{})
	}))
	defer srv.Close()

	client := NewTavilyClient("test-key", func(o *TavilyOptions) { o.BaseURL = srv.URL })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Search(ctx, "anything")
	assert.Error(t, err)
}
