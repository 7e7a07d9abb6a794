// Package retrieval provides the client for the topic model service.
//
// The topic model runs out-of-band (it owns the similarity index built from
// the corpus); this client only speaks its query API and maps results onto
// domain.QuestionMatch.
package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/EfraimFeinstein/find-the-expert/internal/domain"
	"github.com/EfraimFeinstein/find-the-expert/internal/metrics"
)

const defaultTimeout = 10 * time.Second

// Client implements domain.Retriever over the topic model's HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a retrieval client for the topic model at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

type queryRequest struct {
	Query  string  `json:"query"`
	Cutoff float64 `json:"cutoff"`
}

type queryResult struct {
	QuestionID int64   `json:"question_id"`
	Title      string  `json:"title"`
	Similarity float64 `json:"similarity"`
}

type queryResponse struct {
	Results []queryResult `json:"results"`
}

// Query returns the questions relevant to text, sorted by similarity
// descending, excluding hits below cutoff. The service already excludes
// closed questions from its index.
func (c *Client) Query(ctx context.Context, text string, cutoff float64) ([]domain.QuestionMatch, error) {
	start := time.Now()
	defer func() {
		metrics.RetrievalDuration.Observe(time.Since(start).Seconds())
	}()

	body, err := json.Marshal(queryRequest{Query: text, Cutoff: cutoff})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal retrieval request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/query", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build retrieval request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("retrieval request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("retrieval service returned status %d", resp.StatusCode)
	}

	var decoded queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode retrieval response: %w", err)
	}

	matches := make([]domain.QuestionMatch, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		if r.Similarity < cutoff {
			continue
		}
		matches = append(matches, domain.QuestionMatch{
			QuestionID: r.QuestionID,
			Title:      r.Title,
			Relevance:  clampUnit(r.Similarity),
		})
	}
	return matches, nil
}

// clampUnit forces similarity into [0, 1] against a misbehaving model.
func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
