package session

import (
	"context"
	"io"
	"strings"

	"github.com/ternarybob/scribe/internal/models"
)

// Chat runs one streaming chat turn: Composing -> Sent -> Streaming ->
// Completed or Failed.
//
// A missing credential appends a fixed assistant message and makes no network
// call: unlike upload and query, the turn is still recorded in the transcript
// rather than surfaced as a transient error. Otherwise the user message and
// an empty assistant placeholder are appended atomically before the request,
// and every streamed chunk is appended to that placeholder in place, so the
// transcript grows by exactly one user and assistant pair per turn.
func (s *Service) Chat(ctx context.Context, input string) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || s.state.ChatLoading() {
		return
	}

	if !s.hasCredential(ctx) {
		s.state.AppendChatMessages(models.ChatMessage{
			Role:    models.ChatRoleAssistant,
			Content: msgChatCredentialRequired,
		})
		return
	}

	s.state.AppendChatMessages(
		models.ChatMessage{Role: models.ChatRoleUser, Content: trimmed},
		models.ChatMessage{Role: models.ChatRoleAssistant},
	)
	s.state.SetChatLoading(true)
	defer s.state.SetChatLoading(false)

	stream, err := s.gateway.SendChatMessage(ctx, &models.ChatRequest{
		DeveloperMessage: s.chatDefaults.DeveloperMessage,
		UserMessage:      trimmed,
		Model:            s.chatDefaults.Model,
	})
	if err != nil {
		// Pre-stream failure: the placeholder carries the rewritten error
		s.state.SetLastChatMessageContent(rewriteCredentialError(err.Error()))
		return
	}
	defer stream.Close()

	// Drain strictly sequentially, chunk by chunk, in arrival order
	buf := make([]byte, 4096)
	for {
		n, err := stream.Read(buf)
		if n > 0 {
			s.state.AppendToLastChatMessage(string(buf[:n]))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			// Transport dropped mid-stream
			s.logger.Warn().Str("session", s.sessionID).Err(err).Msg("Chat stream interrupted")
			s.state.SetLastChatMessageContent(msgChatStreamFailed)
			return
		}
	}

	s.logger.Debug().
		Str("session", s.sessionID).
		Int("turns", len(s.state.ChatMessages())/2).
		Msg("Chat turn completed")
}
