package guidance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/skillpath-api/internal/domain"
	"github.com/phrazzld/skillpath-api/internal/gateway"
	"github.com/phrazzld/skillpath-api/internal/generation"
	"github.com/phrazzld/skillpath-api/internal/platform/logger"
)

// Service answers career-guidance queries with a generative model.
type Service struct {
	completer generation.Completer
	executor  *gateway.Executor
	cache     gateway.Cache
	logger    *slog.Logger
}

// NewService creates a Service. A nil cache disables response caching.
func NewService(
	completer generation.Completer,
	executor *gateway.Executor,
	cache gateway.Cache,
	logger *slog.Logger,
) (*Service, error) {
	if completer == nil {
		return nil, errors.New("completer cannot be nil")
	}
	if executor == nil {
		return nil, errors.New("executor cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &Service{
		completer: completer,
		executor:  executor,
		cache:     cache,
		logger:    logger.With("component", "guidance"),
	}, nil
}

// withOperation returns ctx carrying a logger tagged with the operation name.
func (s *Service) withOperation(ctx context.Context, op string) context.Context {
	return logger.WithLogger(ctx, logger.FromContextOrDefault(ctx, s.logger).With("operation", op))
}

// complete runs a single-shot completion through the gateway.
func (s *Service) complete(ctx context.Context, req generation.Request) (string, error) {
	return gateway.Execute(ctx, s.executor, func(ctx context.Context) (string, error) {
		return s.completer.Complete(ctx, req)
	})
}

// chat runs a conversational completion through the gateway.
func (s *Service) chat(ctx context.Context, req generation.ChatRequest) (string, error) {
	return gateway.Execute(ctx, s.executor, func(ctx context.Context) (string, error) {
		return s.completer.Chat(ctx, req)
	})
}

// completeJSON requests structured output and decodes it into T. Decoding
// happens inside the attempt, so a malformed document fails the call without
// being cached.
func completeJSON[T any](ctx context.Context, s *Service, req generation.Request) (T, error) {
	return gateway.Execute(ctx, s.executor, func(ctx context.Context) (T, error) {
		text, err := s.completer.Complete(ctx, req)
		if err != nil {
			var zero T
			return zero, err
		}
		return generation.DecodeJSON[T](text)
	})
}

// cachedText is complete behind the response cache.
func (s *Service) cachedText(ctx context.Context, key string, ttl time.Duration, req generation.Request) (string, error) {
	return gateway.Cached(ctx, s.cache, key, ttl, func(ctx context.Context) (string, error) {
		return s.complete(ctx, req)
	})
}

// cachedJSON is completeJSON behind the response cache.
func cachedJSON[T any](ctx context.Context, s *Service, key string, ttl time.Duration, req generation.Request) (T, error) {
	return gateway.Cached(ctx, s.cache, key, ttl, func(ctx context.Context) (T, error) {
		return completeJSON[T](ctx, s, req)
	})
}

// required reports a validation error naming the first blank field.
func required(fields ...string) error {
	for i := 0; i+1 < len(fields); i += 2 {
		if strings.TrimSpace(fields[i+1]) == "" {
			return fmt.Errorf("%w: %s is required", domain.ErrValidation, fields[i])
		}
	}
	return nil
}

// toTurns validates client-supplied history and converts it for the completer.
func toTurns(history []domain.ChatMessage) ([]generation.Turn, error) {
	turns := make([]generation.Turn, 0, len(history))
	for i, m := range history {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("%w: history[%d]: %v", domain.ErrValidation, i, err)
		}
		turns = append(turns, generation.Turn{Role: generation.Role(m.Role), Text: m.Text})
	}
	return turns, nil
}
