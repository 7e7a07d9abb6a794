package app

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/EfraimFeinstein/find-the-expert/internal/domain"
	"github.com/EfraimFeinstein/find-the-expert/internal/logging"
	"github.com/EfraimFeinstein/find-the-expert/internal/metrics"
	"github.com/EfraimFeinstein/find-the-expert/internal/redis"
)

// ExpertScorer runs the scoring pipeline for one query's retrieval matches.
type ExpertScorer interface {
	ScoreExperts(ctx context.Context, matches []domain.QuestionMatch) ([]domain.UserAggregate, error)
}

// RankingCache caches finished rankings by query text. Implementations must
// treat failures as misses; Set is best-effort.
type RankingCache interface {
	Get(ctx context.Context, query string) (*domain.Ranking, bool)
	Set(ctx context.Context, query string, ranking *domain.Ranking)
}

// Service is the application layer. It orchestrates retrieval, cache lookup,
// scoring, and cache population for expert queries.
type Service struct {
	retriever domain.Retriever
	scorer    ExpertScorer
	cache     RankingCache
	cutoff    float64
	group     singleflight.Group
	clock     clockwork.Clock
}

// NewService creates the application layer service.
// cache may be nil when Redis is not configured; every query then scores directly.
func NewService(retriever domain.Retriever, scorer ExpertScorer, cache RankingCache, retrievalCutoff float64, clock clockwork.Clock) *Service {
	return &Service{
		retriever: retriever,
		scorer:    scorer,
		cache:     cache,
		cutoff:    retrievalCutoff,
		clock:     clock,
	}
}

// QueryExperts resolves a free-text query into a ranked expert list.
// Concurrent queries with equivalent text collapse into a single scoring run
// via singleflight; later callers receive the first caller's result.
func (s *Service) QueryExperts(ctx context.Context, query string) (*domain.Ranking, error) {
	queryID := uuid.NewString()
	log := logging.WithQuery(queryID, query)

	start := s.clock.Now()
	defer func() {
		metrics.ScoringDuration.Observe(s.clock.Since(start).Seconds())
	}()

	result, err, shared := s.group.Do(redis.NormalizeQuery(query), func() (any, error) {
		return s.rankExperts(ctx, log, query)
	})
	if err != nil {
		metrics.QueriesTotal.WithLabelValues("error").Inc()
		log.Error("Expert query failed", "error", err)
		return nil, err
	}

	ranking := result.(*domain.Ranking)
	if len(ranking.Experts) == 0 {
		metrics.QueriesTotal.WithLabelValues("empty").Inc()
	} else {
		metrics.QueriesTotal.WithLabelValues("ok").Inc()
	}

	log.Info("Expert query finished",
		"experts", len(ranking.Experts),
		"questions", len(ranking.Questions),
		"shared", shared,
		"duration_ms", s.clock.Since(start).Milliseconds(),
	)
	return ranking, nil
}

func (s *Service) rankExperts(ctx context.Context, log *slog.Logger, query string) (*domain.Ranking, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, query); ok {
			log.Debug("Ranking served from cache")
			return cached, nil
		}
	}

	matches, err := s.retriever.Query(ctx, query, s.cutoff)
	if err != nil {
		return nil, domain.DataUnavailable("topic retrieval", err)
	}

	experts, err := s.scorer.ScoreExperts(ctx, matches)
	if err != nil {
		return nil, err
	}

	ranking := &domain.Ranking{Experts: experts, Questions: matches}
	if s.cache != nil {
		s.cache.Set(ctx, query, ranking)
	}
	return ranking, nil
}
