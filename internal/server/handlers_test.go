package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EfraimFeinstein/find-the-expert/internal/config"
	"github.com/EfraimFeinstein/find-the-expert/internal/domain"
	"github.com/EfraimFeinstein/find-the-expert/internal/logging"
)

func TestMain(m *testing.M) {
	logging.InitLogger("error", "text")
	os.Exit(m.Run())
}

// --- Mock implementations ---

type mockAppService struct {
	queryExpertsFn func(ctx context.Context, query string) (*domain.Ranking, error)
}

func (m *mockAppService) QueryExperts(ctx context.Context, query string) (*domain.Ranking, error) {
	if m.queryExpertsFn != nil {
		return m.queryExpertsFn(ctx, query)
	}
	return nil, fmt.Errorf("not implemented")
}

type mockPinger struct {
	pingFn func(ctx context.Context) error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Port:               "8080",
		RateLimitPerSecond: 100,
		RateLimitBurst:     100,
	}
}

func newTestServer(t *testing.T, app *mockAppService) *Server {
	t.Helper()
	return NewServer(testConfig(), app, &mockPinger{}, nil)
}

func doRequest(srv *Server, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

func sampleRanking() *domain.Ranking {
	return &domain.Ranking{
		Experts: []domain.UserAggregate{
			{
				UserID:         7,
				DisplayName:    "ada",
				TotalScore:     7.15,
				MeanRelevance:  0.9,
				AnswerIDs:      []int64{101, 103},
				PercentileRank: 50,
				Stars:          3,
			},
		},
		Questions: []domain.QuestionMatch{
			{QuestionID: 100, Title: "How do goroutines work?", Relevance: 0.92},
		},
	}
}

// --- handleQueryExperts tests ---

func TestHandleQueryExperts_Success(t *testing.T) {
	app := &mockAppService{
		queryExpertsFn: func(_ context.Context, query string) (*domain.Ranking, error) {
			assert.Equal(t, "goroutines", query)
			return sampleRanking(), nil
		},
	}
	srv := newTestServer(t, app)

	rec := doRequest(srv, http.MethodGet, "/api/experts?q=goroutines")
	require.Equal(t, 200, rec.Code)

	var resp rankingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Len(t, resp.Experts, 1)
	assert.Equal(t, int64(7), resp.Experts[0].UserID)
	assert.Equal(t, "ada", resp.Experts[0].DisplayName)
	assert.Equal(t, 7.15, resp.Experts[0].Score)
	assert.Equal(t, 3, resp.Experts[0].Stars)
	assert.Equal(t, []int64{101, 103}, resp.Experts[0].AnswerIDs)

	require.Len(t, resp.Questions, 1)
	assert.Equal(t, "How do goroutines work?", resp.Questions[0].Title)
	assert.False(t, resp.Degraded)
}

func TestHandleQueryExperts_MissingQuery(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})

	rec := doRequest(srv, http.MethodGet, "/api/experts")
	assert.Equal(t, 400, rec.Code)

	rec = doRequest(srv, http.MethodGet, "/api/experts?q=%20%20")
	assert.Equal(t, 400, rec.Code)
}

func TestHandleQueryExperts_QueryTooLong(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})

	rec := doRequest(srv, http.MethodGet, "/api/experts?q="+strings.Repeat("a", maxQueryLength+1))
	assert.Equal(t, 400, rec.Code)
}

func TestHandleQueryExperts_EmptyRanking(t *testing.T) {
	app := &mockAppService{
		queryExpertsFn: func(context.Context, string) (*domain.Ranking, error) {
			return &domain.Ranking{}, nil
		},
	}
	srv := newTestServer(t, app)

	rec := doRequest(srv, http.MethodGet, "/api/experts?q=obscure")
	require.Equal(t, 200, rec.Code)

	var resp rankingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Experts)
	assert.Empty(t, resp.Questions)
	// Empty lists serialize as [], not null.
	assert.Contains(t, rec.Body.String(), `"experts":[]`)
}

func TestHandleQueryExperts_DegradedOnDataUnavailable(t *testing.T) {
	app := &mockAppService{
		queryExpertsFn: func(context.Context, string) (*domain.Ranking, error) {
			return nil, domain.DataUnavailable("answer metrics", errors.New("pool closed"))
		},
	}
	srv := newTestServer(t, app)

	rec := doRequest(srv, http.MethodGet, "/api/experts?q=goroutines")
	require.Equal(t, 200, rec.Code)

	var resp rankingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Degraded)
	assert.NotEmpty(t, resp.Error)
	assert.Empty(t, resp.Experts)
}

func TestHandleQueryExperts_InternalError(t *testing.T) {
	app := &mockAppService{
		queryExpertsFn: func(context.Context, string) (*domain.Ranking, error) {
			return nil, errors.New("boom")
		},
	}
	srv := newTestServer(t, app)

	rec := doRequest(srv, http.MethodGet, "/api/experts?q=goroutines")
	assert.Equal(t, 500, rec.Code)
}

func TestHandleQueryExperts_RateLimited(t *testing.T) {
	app := &mockAppService{
		queryExpertsFn: func(context.Context, string) (*domain.Ranking, error) {
			return &domain.Ranking{}, nil
		},
	}
	cfg := testConfig()
	cfg.RateLimitPerSecond = 1
	cfg.RateLimitBurst = 2
	srv := NewServer(cfg, app, &mockPinger{}, nil)

	assert.Equal(t, 200, doRequest(srv, http.MethodGet, "/api/experts?q=a").Code)
	assert.Equal(t, 200, doRequest(srv, http.MethodGet, "/api/experts?q=a").Code)
	assert.Equal(t, 429, doRequest(srv, http.MethodGet, "/api/experts?q=a").Code)
}
