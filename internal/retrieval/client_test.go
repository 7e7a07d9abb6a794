package retrieval

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryDecodesMatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/query", r.URL.Path)

		var req queryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpu memory", req.Query)
		assert.Equal(t, 0.5, req.Cutoff)

		resp := queryResponse{Results: []queryResult{
			{QuestionID: 1, Title: "CUDA OOM", Similarity: 0.92},
			{QuestionID: 2, Title: "VRAM sizing", Similarity: 0.61},
		}}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	matches, err := client.Query(context.Background(), "gpu memory", 0.5)
	require.NoError(t, err)

	require.Len(t, matches, 2)
	assert.Equal(t, int64(1), matches[0].QuestionID)
	assert.Equal(t, "CUDA OOM", matches[0].Title)
	assert.Equal(t, 0.92, matches[0].Relevance)
}

func TestQueryFiltersBelowCutoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := queryResponse{Results: []queryResult{
			{QuestionID: 1, Similarity: 0.9},
			{QuestionID: 2, Similarity: 0.3},
		}}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	matches, err := client.Query(context.Background(), "q", 0.5)
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, int64(1), matches[0].QuestionID)
}

func TestQueryClampsSimilarity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := queryResponse{Results: []queryResult{{QuestionID: 1, Similarity: 1.2}}}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	matches, err := client.Query(context.Background(), "q", 0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 1.0, matches[0].Relevance)
}

func TestQueryNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Query(context.Background(), "q", 0.5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestQueryHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(srv.URL)
	_, err := client.Query(ctx, "q", 0.5)
	require.Error(t, err)
}
