package scoring

import (
	"github.com/EfraimFeinstein/find-the-expert/internal/domain"
)

// answerRelevance is the relevance of an answer to its own question. The
// similarity model only scores questions, so every answer inherits its parent
// question's relevance at full weight. Computing a real answer-level
// similarity is a possible refinement; until then the constant keeps the
// composite score proportional to the question match alone.
const answerRelevance = 1.0

// ResolveCandidates turns retrieval matches and their answer rows into one
// AnswerRecord per creditable answer. An answer whose owner and last editor
// are both absent cannot be credited to anyone and is skipped. Rows whose
// parent question is not among the matches are ignored. Output order follows
// the input row order; it is not sorted by any score.
func ResolveCandidates(matches []domain.QuestionMatch, rows []domain.AnswerRow) []domain.AnswerRecord {
	relevanceByQuestion := make(map[int64]float64, len(matches))
	for _, m := range matches {
		relevanceByQuestion[m.QuestionID] = m.Relevance
	}

	records := make([]domain.AnswerRecord, 0, len(rows))
	for _, row := range rows {
		relevance, ok := relevanceByQuestion[row.QuestionID]
		if !ok {
			continue
		}
		userID, ok := row.CreditedUser()
		if !ok {
			continue
		}
		records = append(records, domain.AnswerRecord{
			AnswerID:          row.AnswerID,
			QuestionID:        row.QuestionID,
			OwnerID:           userID,
			QuestionRelevance: relevance,
			AnswerRelevance:   answerRelevance,
		})
	}
	return records
}
