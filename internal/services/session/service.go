// -----------------------------------------------------------------------
// Session flows - upload, query, chat and delete orchestration against
// the document service, writing outcomes into shared state
// -----------------------------------------------------------------------

package session

import (
	"context"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scribe/internal/common"
	"github.com/ternarybob/scribe/internal/interfaces"
	"github.com/ternarybob/scribe/internal/services/state"
)

// Fixed user-facing messages. Credential rejections are detected by substring
// match on "API key" in service error text, a heuristic the service contract
// does not replace with a structured code.
const (
	msgUploadCredentialRequired = "Please set your API key with the 'key' command before uploading files."
	msgQueryCredentialRequired  = "Please set your API key with the 'key' command to use the query feature."
	msgChatCredentialRequired   = "Please set your API key with the 'key' command to use the chat feature."
	msgInvalidCredential        = "Invalid API key. Please check your API key and try again."
	msgDeleteCredentialMissing  = "API key not found. Please ensure it is set."
	msgDeleteNoDocument         = "No document is currently registered as uploaded."
	msgDeleteSuccess            = "Document and associated data deleted successfully."
	msgChatStreamFailed         = "Sorry, an unexpected error occurred. Please try again."
)

// Service owns the four user-initiated flows. Each flow recovers locally:
// outcomes land in shared state as display-ready strings, no fault propagates
// to the rendering layer. Flows are independent and do not coordinate with
// one another.
type Service struct {
	gateway     interfaces.Gateway
	credentials interfaces.CredentialStore
	validator   interfaces.DocumentValidator
	state       *state.State
	logger      arbor.ILogger

	sessionID     string
	chatDefaults  common.ChatConfig
	queryDefaults common.QueryConfig
}

// NewService creates the session flow service
func NewService(
	gateway interfaces.Gateway,
	credentials interfaces.CredentialStore,
	validator interfaces.DocumentValidator,
	appState *state.State,
	config *common.Config,
	logger arbor.ILogger,
) *Service {
	s := &Service{
		gateway:     gateway,
		credentials: credentials,
		validator:   validator,
		state:       appState,
		logger:      logger,
		sessionID:   common.NewSessionID(),
	}
	if config != nil {
		s.chatDefaults = config.Chat
		s.queryDefaults = config.Query
	}
	return s
}

// State returns the shared state container the flows write into
func (s *Service) State() *state.State {
	return s.state
}

// hasCredential reports whether an API key is currently stored. Flows use
// this as their precondition guard: absence means no network call is made.
func (s *Service) hasCredential(ctx context.Context) bool {
	key, err := s.credentials.Get(ctx)
	return err == nil && key != ""
}

// rewriteCredentialError replaces service errors that mention "API key" with
// the fixed invalid-credential message. Anything else passes through
// verbatim, including "HTTP error <status>: <detail>" strings.
func rewriteCredentialError(message string) string {
	if strings.Contains(message, "API key") {
		return msgInvalidCredential
	}
	return message
}

// CheckHealth reports whether the service is reachable and healthy. It never
// fails: an unreachable service is simply unhealthy.
func (s *Service) CheckHealth(ctx context.Context) bool {
	resp, err := s.gateway.CheckHealth(ctx)
	if err != nil {
		s.logger.Warn().Str("session", s.sessionID).Err(err).Msg("Health check failed")
		return false
	}
	return resp.Status == "ok"
}
