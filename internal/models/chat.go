package models

// ChatRole identifies the author of a chat message
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
	ChatRoleSystem    ChatRole = "system"
)

// ChatMessage is one entry in the conversation transcript.
// Content is mutable only for the most recent assistant message while a
// response is streaming.
type ChatMessage struct {
	Role    ChatRole `json:"role" yaml:"role"`
	Content string   `json:"content" yaml:"content"`
}

// ChatRequest is the wire format for POST /api/chat
type ChatRequest struct {
	DeveloperMessage string `json:"developer_message"`
	UserMessage      string `json:"user_message"`
	Model            string `json:"model,omitempty"`
}
