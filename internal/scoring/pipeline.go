package scoring

import (
	"context"

	"github.com/EfraimFeinstein/find-the-expert/internal/domain"
	appmetrics "github.com/EfraimFeinstein/find-the-expert/internal/metrics"
)

// Pipeline wires the scoring stages against the storage collaborators. One
// invocation of ScoreExperts handles one query; invocations share no mutable
// state, so a single Pipeline is safe for concurrent use.
type Pipeline struct {
	answers    domain.AnswerSource
	signals    domain.SignalStore
	users      domain.UserDirectory
	scorer     *Scorer
	translator *Translator
}

// NewPipeline builds the scoring pipeline with explicit configuration.
func NewPipeline(answers domain.AnswerSource, signals domain.SignalStore, users domain.UserDirectory, cfg Config) *Pipeline {
	return &Pipeline{
		answers:    answers,
		signals:    signals,
		users:      users,
		scorer:     NewScorer(cfg),
		translator: NewTranslator(cfg),
	}
}

// ScoreExperts runs the full two-pass pipeline for one query's retrieval
// matches and returns the filtered, star-rated expert list, best first.
//
// An empty candidate batch (no matches, or no creditable answers) yields an
// empty list without error. A failed read against any backing store aborts
// scoring and surfaces a DataUnavailableError; no partial or zeroed results
// are ever returned. Cancellation is honored between stages as a best-effort
// abandon before issuing further reads.
func (p *Pipeline) ScoreExperts(ctx context.Context, matches []domain.QuestionMatch) ([]domain.UserAggregate, error) {
	if len(matches) == 0 {
		return nil, nil
	}

	questionIDs := make([]int64, len(matches))
	for i, m := range matches {
		questionIDs[i] = m.QuestionID
	}

	rows, err := p.answers.AnswersForQuestions(ctx, questionIDs)
	if err != nil {
		return nil, domain.DataUnavailable("answer lookup", err)
	}

	records := ResolveCandidates(matches, rows)
	if len(records) == 0 {
		return nil, nil
	}
	appmetrics.AnswersScored.Observe(float64(len(records)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	answerIDs := make([]int64, len(records))
	for i, rec := range records {
		answerIDs[i] = rec.AnswerID
	}

	metrics, err := p.signals.FetchAnswerMetrics(ctx, answerIDs)
	if err != nil {
		return nil, domain.DataUnavailable("answer metrics", err)
	}
	sentiment, err := p.signals.FetchSentiment(ctx, answerIDs)
	if err != nil {
		return nil, domain.DataUnavailable("comment sentiment", err)
	}

	for i := range records {
		records[i].Metrics = metrics[records[i].AnswerID]
		records[i].Sentiment = sentiment[records[i].AnswerID]
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scores := p.scorer.ScoreBatch(records)
	ranked := p.translator.Finalize(Aggregate(records, scores))
	if len(ranked) == 0 {
		return nil, nil
	}

	userIDs := make([]int64, len(ranked))
	for i, agg := range ranked {
		userIDs[i] = agg.UserID
	}
	names, err := p.users.DisplayNames(ctx, userIDs)
	if err != nil {
		return nil, domain.DataUnavailable("display names", err)
	}
	for i := range ranked {
		ranked[i].DisplayName = names[ranked[i].UserID]
	}

	return ranked, nil
}
