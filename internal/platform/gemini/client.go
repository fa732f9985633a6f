package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/skillpath-api/internal/config"
	"github.com/phrazzld/skillpath-api/internal/generation"
	"google.golang.org/genai"
)

// Client implements generation.Completer using the Gemini API.
type Client struct {
	logger *slog.Logger
	client *genai.Client
	model  string
}

var _ generation.Completer = (*Client)(nil)

// NewClient creates a Gemini-backed completer.
func NewClient(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &Client{
		logger: logger.With("component", "gemini", "model", cfg.ModelName),
		client: client,
		model:  cfg.ModelName,
	}, nil
}

// Complete implements generation.Completer.
func (c *Client) Complete(ctx context.Context, req generation.Request) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", generation.ErrEmptyPrompt
	}

	c.logger.DebugContext(ctx, "Making Gemini API call",
		"prompt_length", len(req.Prompt),
		"structured", req.Schema != nil,
		"search_grounding", req.SearchGrounding)

	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		genai.Text(req.Prompt),
		c.generateConfig(req.SystemInstruction, req.Schema, req.SearchGrounding))
	if err != nil {
		return "", mapError(err)
	}

	text, err := responseText(resp)
	if err != nil {
		return "", err
	}
	if req.Schema != nil {
		text = generation.StripCodeFences(text)
	}
	return text, nil
}

// Chat implements generation.Completer.
func (c *Client) Chat(ctx context.Context, req generation.ChatRequest) (string, error) {
	if strings.TrimSpace(req.Message) == "" {
		return "", generation.ErrEmptyPrompt
	}

	history := make([]*genai.Content, 0, len(req.History))
	for _, turn := range req.History {
		role := genai.RoleUser
		if turn.Role == generation.RoleModel {
			role = genai.RoleModel
		}
		history = append(history, genai.NewContentFromText(turn.Text, genai.Role(role)))
	}

	c.logger.DebugContext(ctx, "Sending Gemini chat message",
		"history_turns", len(history),
		"message_length", len(req.Message))

	chat, err := c.client.Chats.Create(ctx, c.model,
		c.generateConfig(req.SystemInstruction, nil, req.SearchGrounding), history)
	if err != nil {
		return "", mapError(err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: req.Message})
	if err != nil {
		return "", mapError(err)
	}
	return responseText(resp)
}

func (c *Client) generateConfig(system string, schema *generation.Schema, search bool) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ThinkingConfig: &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)},
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = toGenaiSchema(schema)
	}
	if search {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}
	return cfg
}

// responseText extracts the first candidate's text, mapping empty and
// blocked responses to generation errors.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked, fb.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("%w: empty text in response", generation.ErrInvalidResponse)
	}
	return text, nil
}
