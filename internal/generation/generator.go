package generation

import "context"

// Role identifies the author of a chat turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one message in a conversation history.
type Turn struct {
	Role Role   `json:"role" validate:"required,oneof=user model"`
	Text string `json:"text" validate:"required"`
}

// Request is a single-shot completion.
type Request struct {
	// SystemInstruction sets the persona. Optional.
	SystemInstruction string
	Prompt            string
	// Schema requests structured JSON output conforming to it. Optional.
	Schema *Schema
	// SearchGrounding lets the model consult web search.
	SearchGrounding bool
}

// ChatRequest continues a conversation with a new user message.
type ChatRequest struct {
	SystemInstruction string
	History           []Turn
	Message           string
	SearchGrounding   bool
}

// Completer defines the interface for generating text from a language model.
// Implementations report upstream failures as *gateway.RequestError so that
// callers can decide whether to retry; they never retry on their own.
type Completer interface {
	// Complete returns the model's text for req. When req.Schema is set the
	// text is the JSON document, with any Markdown code fences removed.
	Complete(ctx context.Context, req Request) (string, error)

	// Chat returns the model's reply to req.Message given req.History.
	Chat(ctx context.Context, req ChatRequest) (string, error)
}
