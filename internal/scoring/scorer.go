package scoring

import (
	"sort"

	"github.com/EfraimFeinstein/find-the-expert/internal/domain"
)

// Scorer combines the heterogeneous per-answer signals into one scalar score
// and rolls scores up per user.
type Scorer struct {
	cfg Config
}

// NewScorer creates a Scorer with the given constants.
func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// effectiveScore folds sentiment and a small accepted bump into the raw vote
// score before percentile normalization. An accepted answer with zero votes
// gets one synthetic vote so acceptance is never invisible to the rank.
func (s *Scorer) effectiveScore(rec domain.AnswerRecord) float64 {
	eff := rec.Metrics.RawScore
	if rec.Metrics.Accepted && rec.Metrics.RawScore == 0 {
		eff++
	}
	return eff + float64(rec.Sentiment)*s.cfg.SentimentFactor
}

// ScoreBatch computes the composite score for every record, batch-relative.
// The returned slice is aligned with records.
//
// composite = relevance * (1+pctEff) * (1+pctFav) * (1+pctViews) * (1+bonus*accepted)
//
// Each engagement factor is bounded in [1, 2], so the score is dominated by
// relevance: zero relevance means zero score regardless of engagement.
func (s *Scorer) ScoreBatch(records []domain.AnswerRecord) []float64 {
	if len(records) == 0 {
		return nil
	}

	effective := make([]float64, len(records))
	favorites := make([]float64, len(records))
	views := make([]float64, len(records))
	for i, rec := range records {
		effective[i] = s.effectiveScore(rec)
		favorites[i] = rec.Metrics.Favorites
		views[i] = rec.Metrics.Views
	}

	ranked := rankMetrics(effective, favorites, views)
	pctEff, pctFav, pctViews := ranked[0], ranked[1], ranked[2]

	scores := make([]float64, len(records))
	for i, rec := range records {
		relevance := rec.QuestionRelevance * rec.AnswerRelevance
		score := relevance * (1 + pctEff[i]) * (1 + pctFav[i]) * (1 + pctViews[i])
		if rec.Metrics.Accepted {
			score *= 1 + s.cfg.AcceptedBonus
		}
		scores[i] = score
	}
	return scores
}

// Aggregate groups scored records by credited user. scores must be aligned
// with records (as returned by ScoreBatch). One UserAggregate is produced per
// distinct user; a user with a single qualifying answer gets a valid
// aggregate with meanRelevance equal to that answer's relevance. Output is
// ordered by first appearance in the batch.
func Aggregate(records []domain.AnswerRecord, scores []float64) []domain.UserAggregate {
	byUser := make(map[int64]*domain.UserAggregate, len(records))
	order := make([]int64, 0, len(records))

	for i, rec := range records {
		agg, ok := byUser[rec.OwnerID]
		if !ok {
			agg = &domain.UserAggregate{UserID: rec.OwnerID}
			byUser[rec.OwnerID] = agg
			order = append(order, rec.OwnerID)
		}
		agg.TotalScore += scores[i]
		agg.MeanRelevance += rec.QuestionRelevance
		agg.AnswerIDs = append(agg.AnswerIDs, rec.AnswerID)
	}

	out := make([]domain.UserAggregate, 0, len(order))
	for _, userID := range order {
		agg := byUser[userID]
		agg.MeanRelevance /= float64(len(agg.AnswerIDs))
		out = append(out, *agg)
	}
	return out
}

// sortRanked orders survivors descending by total score, breaking ties by
// ascending user id so equal scores always render in the same order.
func sortRanked(aggs []domain.UserAggregate) {
	sort.Slice(aggs, func(i, j int) bool {
		if aggs[i].TotalScore != aggs[j].TotalScore {
			return aggs[i].TotalScore > aggs[j].TotalScore
		}
		return aggs[i].UserID < aggs[j].UserID
	})
}
