package server

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/EfraimFeinstein/find-the-expert/internal/domain"
	apperrors "github.com/EfraimFeinstein/find-the-expert/internal/errors"
)

const maxQueryLength = 500

type expertResponse struct {
	UserID        int64   `json:"user_id"`
	DisplayName   string  `json:"display_name"`
	Score         float64 `json:"score"`
	MeanRelevance float64 `json:"mean_relevance"`
	Percentile    float64 `json:"percentile"`
	Stars         int     `json:"stars"`
	AnswerIDs     []int64 `json:"answer_ids"`
}

type questionResponse struct {
	QuestionID int64   `json:"question_id"`
	Title      string  `json:"title"`
	Relevance  float64 `json:"relevance"`
}

type rankingResponse struct {
	Experts   []expertResponse   `json:"experts"`
	Questions []questionResponse `json:"questions"`
	Degraded  bool               `json:"degraded,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// handleQueryExperts resolves ?q= into a ranked expert list. When a backing
// store is unavailable the response carries empty lists and a degraded flag
// rather than an error status, so callers can render an empty result page.
func (s *Server) handleQueryExperts(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return apperrors.ValidationError("query parameter q is required")
	}
	if len(query) > maxQueryLength {
		return apperrors.ValidationError("query too long").WithField("max_length", maxQueryLength)
	}

	ranking, err := s.app.QueryExperts(c.Request().Context(), query)
	if err != nil {
		if domain.IsDataUnavailable(err) {
			return writeJSON(c, 200, rankingResponse{
				Experts:   []expertResponse{},
				Questions: []questionResponse{},
				Degraded:  true,
				Error:     "expert data temporarily unavailable",
			})
		}
		return err
	}

	return writeJSON(c, 200, toRankingResponse(ranking))
}

func toRankingResponse(ranking *domain.Ranking) rankingResponse {
	resp := rankingResponse{
		Experts:   make([]expertResponse, 0, len(ranking.Experts)),
		Questions: make([]questionResponse, 0, len(ranking.Questions)),
	}
	for _, e := range ranking.Experts {
		resp.Experts = append(resp.Experts, expertResponse{
			UserID:        e.UserID,
			DisplayName:   e.DisplayName,
			Score:         e.TotalScore,
			MeanRelevance: e.MeanRelevance,
			Percentile:    e.PercentileRank,
			Stars:         e.Stars,
			AnswerIDs:     e.AnswerIDs,
		})
	}
	for _, q := range ranking.Questions {
		resp.Questions = append(resp.Questions, questionResponse{
			QuestionID: q.QuestionID,
			Title:      q.Title,
			Relevance:  q.Relevance,
		})
	}
	return resp
}

func writeJSON(c echo.Context, status int, body any) error {
	if err := c.JSON(status, body); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
