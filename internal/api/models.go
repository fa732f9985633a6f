package api

import "github.com/phrazzld/skillpath-api/internal/domain"

// CareerRecommendRequest is the body of POST /api/careers/recommend.
type CareerRecommendRequest struct {
	Skills   []string `json:"skills"   validate:"required,min=1,dive,required"`
	Language string   `json:"language" validate:"required"`
}

// SageChatRequest is the body of POST /api/chat/sage.
type SageChatRequest struct {
	History  []domain.ChatMessage `json:"history"  validate:"dive"`
	Message  string               `json:"message"  validate:"required"`
	Language string               `json:"language" validate:"required"`
}

// InterviewRequest is the body of POST /api/chat/interview.
type InterviewRequest struct {
	History []domain.ChatMessage `json:"history" validate:"dive"`
	Message string               `json:"message" validate:"required"`
}

// SandboxRunRequest is the body of POST /api/sandbox/run.
type SandboxRunRequest struct {
	Code     string `json:"code"     validate:"required,max=20000"`
	Language string `json:"language" validate:"required"`
}

// TerminalRequest is the body of POST /api/sandbox/terminal.
type TerminalRequest struct {
	Command string               `json:"command" validate:"required,max=1000"`
	Files   []domain.SandboxFile `json:"files"   validate:"max=50,dive"`
}

// TextResponse wraps a free-text answer from the model.
type TextResponse struct {
	Text string `json:"text"`
}

// GatewayStats reports the AI gateway's admission queue.
type GatewayStats struct {
	Active   int `json:"active"`
	Waiting  int `json:"waiting"`
	Capacity int `json:"capacity"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string       `json:"status"`
	Gateway GatewayStats `json:"gateway"`
}
