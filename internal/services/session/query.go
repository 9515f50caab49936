package session

import (
	"context"
	"strings"

	"github.com/ternarybob/scribe/internal/models"
)

// Query runs the semantic query flow. On success the result list is replaced
// wholesale and the trimmed query text is recorded as the last query. On
// failure results are cleared and the error is shown, with the credential
// rewrite applied.
func (s *Service) Query(ctx context.Context, text string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || s.state.QueryLoading() {
		return
	}

	if !s.hasCredential(ctx) {
		s.state.SetQueryError(msgQueryCredentialRequired)
		s.state.SetQueryResults(nil)
		return
	}

	s.state.SetQueryLoading(true)
	s.state.SetQueryError("")
	defer s.state.SetQueryLoading(false)

	// Defaults travel to the service verbatim, no client-side clamping
	limit := s.queryDefaults.Limit
	threshold := s.queryDefaults.ScoreThreshold
	req := &models.QueryRequest{
		Query:          trimmed,
		Limit:          &limit,
		ScoreThreshold: &threshold,
	}

	resp, err := s.gateway.QueryDocuments(ctx, req)
	if err != nil {
		s.state.SetQueryError(rewriteCredentialError(err.Error()))
		s.state.SetQueryResults(nil)
		return
	}

	s.state.SetQueryResults(resp.Results)
	s.state.SetLastQuery(trimmed)
	s.state.SetQueryError("")

	s.logger.Info().
		Str("session", s.sessionID).
		Str("query", trimmed).
		Int("results", len(resp.Results)).
		Msg("Query flow completed")
}
