// -----------------------------------------------------------------------
// Shared Application State - single source of truth for the session
// -----------------------------------------------------------------------

package state

import (
	"context"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scribe/internal/interfaces"
	"github.com/ternarybob/scribe/internal/models"
)

// State is the shared application state container. It is constructed once per
// session and passed to the flows and the console explicitly, there is no
// package-level instance.
//
// Empty strings stand for absent values. The container enforces nothing
// beyond memory-safe access: conventions such as upload error and success
// message being mutually exclusive are caller discipline. Flows do not
// coordinate with one another beyond reading and writing these fields, a
// deletion completing while a chat stream is still appending is possible.
//
// Every mutation ends with a synchronous publish on the event service so
// subscribed views re-render in mutation order.
type State struct {
	mu sync.RWMutex

	uploadedFileName     string
	uploading            bool
	uploadError          string
	uploadSuccessMessage string

	lastQuery    string
	queryResults []models.QueryResult
	queryLoading bool
	queryError   string

	chatMessages []models.ChatMessage
	chatLoading  bool

	deleting    bool
	deleteError string

	events interfaces.EventService
	logger arbor.ILogger
}

// New creates the session state container
func New(eventService interfaces.EventService, logger arbor.ILogger) *State {
	return &State{
		events: eventService,
		logger: logger,
	}
}

// publish notifies subscribers that a state section changed. Called after the
// lock is released so handlers can read state freely.
func (s *State) publish(change interfaces.StateChange) {
	if s.events == nil {
		return
	}
	s.events.PublishSync(context.Background(), interfaces.Event{
		Type:    interfaces.EventStateChanged,
		Payload: change,
	})
}

// --- Upload state ---

func (s *State) UploadedFileName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.uploadedFileName
}

func (s *State) SetUploadedFileName(name string) {
	s.mu.Lock()
	s.uploadedFileName = name
	s.mu.Unlock()
	s.publish(interfaces.StateChange{Section: "upload"})
}

func (s *State) Uploading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.uploading
}

func (s *State) SetUploading(uploading bool) {
	s.mu.Lock()
	s.uploading = uploading
	s.mu.Unlock()
	s.publish(interfaces.StateChange{Section: "upload"})
}

func (s *State) UploadError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.uploadError
}

func (s *State) SetUploadError(message string) {
	s.mu.Lock()
	s.uploadError = message
	s.mu.Unlock()
	s.publish(interfaces.StateChange{Section: "upload"})
}

func (s *State) UploadSuccessMessage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.uploadSuccessMessage
}

func (s *State) SetUploadSuccessMessage(message string) {
	s.mu.Lock()
	s.uploadSuccessMessage = message
	s.mu.Unlock()
	s.publish(interfaces.StateChange{Section: "upload"})
}

// --- Query state ---

func (s *State) LastQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastQuery
}

func (s *State) SetLastQuery(query string) {
	s.mu.Lock()
	s.lastQuery = query
	s.mu.Unlock()
	s.publish(interfaces.StateChange{Section: "query"})
}

// QueryResults returns a copy of the current result list
func (s *State) QueryResults() []models.QueryResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]models.QueryResult, len(s.queryResults))
	copy(results, s.queryResults)
	return results
}

// SetQueryResults replaces the result list wholesale
func (s *State) SetQueryResults(results []models.QueryResult) {
	s.mu.Lock()
	s.queryResults = results
	s.mu.Unlock()
	s.publish(interfaces.StateChange{Section: "query"})
}

func (s *State) QueryLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryLoading
}

func (s *State) SetQueryLoading(loading bool) {
	s.mu.Lock()
	s.queryLoading = loading
	s.mu.Unlock()
	s.publish(interfaces.StateChange{Section: "query"})
}

func (s *State) QueryError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryError
}

func (s *State) SetQueryError(message string) {
	s.mu.Lock()
	s.queryError = message
	s.mu.Unlock()
	s.publish(interfaces.StateChange{Section: "query"})
}

// --- Chat state ---

// ChatMessages returns a copy of the transcript
func (s *State) ChatMessages() []models.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	messages := make([]models.ChatMessage, len(s.chatMessages))
	copy(messages, s.chatMessages)
	return messages
}

// AppendChatMessages appends one or more messages to the transcript in a
// single step. The chat flow uses this to add the user message and the empty
// assistant placeholder atomically before the network call begins.
func (s *State) AppendChatMessages(messages ...models.ChatMessage) {
	s.mu.Lock()
	s.chatMessages = append(s.chatMessages, messages...)
	s.mu.Unlock()
	s.publish(interfaces.StateChange{Section: "chat"})
}

// AppendToLastChatMessage appends streamed text to the content of the most
// recent transcript entry in place. No new entry is created.
func (s *State) AppendToLastChatMessage(chunk string) {
	s.mu.Lock()
	if len(s.chatMessages) == 0 {
		s.mu.Unlock()
		return
	}
	s.chatMessages[len(s.chatMessages)-1].Content += chunk
	s.mu.Unlock()
	s.publish(interfaces.StateChange{Section: "chat", Delta: chunk})
}

// SetLastChatMessageContent overwrites the content of the most recent
// transcript entry wholesale. Used when a turn fails after the placeholder
// was appended.
func (s *State) SetLastChatMessageContent(content string) {
	s.mu.Lock()
	if len(s.chatMessages) == 0 {
		s.mu.Unlock()
		return
	}
	s.chatMessages[len(s.chatMessages)-1].Content = content
	s.mu.Unlock()
	s.publish(interfaces.StateChange{Section: "chat", Replace: true})
}

func (s *State) ChatLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chatLoading
}

func (s *State) SetChatLoading(loading bool) {
	s.mu.Lock()
	s.chatLoading = loading
	s.mu.Unlock()
	s.publish(interfaces.StateChange{Section: "chat"})
}

// --- Delete state ---

func (s *State) Deleting() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deleting
}

func (s *State) SetDeleting(deleting bool) {
	s.mu.Lock()
	s.deleting = deleting
	s.mu.Unlock()
	s.publish(interfaces.StateChange{Section: "delete"})
}

func (s *State) DeleteError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deleteError
}

func (s *State) SetDeleteError(message string) {
	s.mu.Lock()
	s.deleteError = message
	s.mu.Unlock()
	s.publish(interfaces.StateChange{Section: "delete"})
}

// --- Cross-cutting reset ---

// ResetDocumentSession clears document name, upload error, last query, query
// results, query error and chat transcript in one step and records the
// deletion success message. Deletion is the single cross-cutting reset point
// for the whole session's state.
func (s *State) ResetDocumentSession(successMessage string) {
	s.mu.Lock()
	s.uploadedFileName = ""
	s.uploadError = ""
	s.uploadSuccessMessage = successMessage
	s.lastQuery = ""
	s.queryResults = nil
	s.queryError = ""
	s.chatMessages = nil
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info().Msg("Session state reset after deletion")
	}

	s.publish(interfaces.StateChange{Section: "upload"})
	s.publish(interfaces.StateChange{Section: "query"})
	s.publish(interfaces.StateChange{Section: "chat"})
}
