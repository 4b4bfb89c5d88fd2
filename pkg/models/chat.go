package models

// Chat roles accepted from callers.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage one conversation turn
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatReply proxy success body. Metadata is always an empty object.
type ChatReply struct {
	Message  string                 `json:"message"`
	Metadata map[string]interface{} `json:"metadata"`
}

// ErrorResponse error body returned by the HTTP layer
type ErrorResponse struct {
	Error string `json:"error"`
}
