package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/skillpath-api/internal/platform/logger"
	"github.com/phrazzld/skillpath-api/internal/redact"
	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"
)

// DefaultMaxRetries is the number of attempts a call gets when neither the
// executor nor the call overrides it.
const DefaultMaxRetries = 5

// Task is one outbound call. It must honour ctx.
type Task[T any] func(ctx context.Context) (T, error)

// Executor runs tasks through a Queue and retries transient failures.
// It is safe for concurrent use.
type Executor struct {
	queue          *Queue
	classifier     Classifier
	backoff        Backoff
	maxRetries     int
	attemptTimeout time.Duration
	limiter        *rate.Limiter
	logger         *slog.Logger
	jitter         func() float64
}

// Option configures an Executor.
type Option func(*Executor)

// WithClassifier sets the retryable status codes.
func WithClassifier(c Classifier) Option {
	return func(e *Executor) {
		e.classifier = c
	}
}

// WithBackoff sets the wait schedule between attempts.
func WithBackoff(b Backoff) Option {
	return func(e *Executor) {
		e.backoff = b
	}
}

// WithDefaultMaxRetries sets the attempt budget for calls that do not pass
// WithMaxRetries.
func WithDefaultMaxRetries(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.maxRetries = n
		}
	}
}

// WithAttemptTimeout bounds each attempt. An attempt that runs past d is
// abandoned, its slot released, and the call fails with ErrAttemptTimeout.
func WithAttemptTimeout(d time.Duration) Option {
	return func(e *Executor) {
		e.attemptTimeout = d
	}
}

// WithRateLimit throttles attempts before they enter the queue.
func WithRateLimit(l *rate.Limiter) Option {
	return func(e *Executor) {
		e.limiter = l
	}
}

// WithLogger sets the fallback logger used when ctx carries none.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExecutor creates an Executor submitting attempts to queue.
func NewExecutor(queue *Queue, opts ...Option) *Executor {
	e := &Executor{
		queue:      queue,
		classifier: NewClassifier(),
		backoff:    DefaultBackoff(),
		maxRetries: DefaultMaxRetries,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.queue == nil {
		e.queue = NewQueue(2)
	}
	return e
}

// Queue returns the admission queue shared by every call.
func (e *Executor) Queue() *Queue {
	return e.queue
}

type callOptions struct {
	maxRetries int
	operation  string
}

// CallOption configures a single Execute call.
type CallOption func(*callOptions)

// WithMaxRetries overrides the total number of attempts for one call.
// Values below 1 are treated as 1.
func WithMaxRetries(n int) CallOption {
	return func(o *callOptions) {
		o.maxRetries = n
	}
}

// WithOperation names the call in log records.
func WithOperation(name string) CallOption {
	return func(o *callOptions) {
		o.operation = name
	}
}

// Execute runs task through e's queue, making up to maxRetries attempts.
//
// A failure classified as retryable is followed by a backoff wait and another
// attempt while attempts remain; the wait never holds a queue slot. Any other
// failure returns a *FatalRequestError at once. When every attempt failed
// with a retryable error the result is a *RetriesExhaustedError wrapping the
// last one. If ctx ends first, the context's error is returned.
func Execute[T any](ctx context.Context, e *Executor, task Task[T], opts ...CallOption) (T, error) {
	var zero T

	co := callOptions{maxRetries: e.maxRetries}
	for _, opt := range opts {
		opt(&co)
	}
	if co.maxRetries < 1 {
		co.maxRetries = 1
	}

	log := logger.FromContextOrDefault(ctx, e.logger).With("call_id", uuid.NewString())
	if co.operation != "" {
		log = log.With("operation", co.operation)
	}

	var (
		attempts  int
		lastErr   error
		retryable bool
	)
	start := time.Now()

	bounded := retry.WithMaxRetries(uint64(co.maxRetries-1), e.backoff.sequence(e.jitter))
	schedule := retry.BackoffFunc(func() (time.Duration, bool) {
		delay, stop := bounded.Next()
		if stop {
			return 0, true
		}
		log.WarnContext(ctx, "AI request failed with retryable error, backing off",
			"attempt", attempts,
			"max_attempts", co.maxRetries,
			"delay_ms", delay.Milliseconds(),
			"status_code", StatusCode(lastErr),
			"error", redact.Error(lastErr))
		return delay, false
	})

	result, err := retry.DoValue(ctx, schedule, func(ctx context.Context) (T, error) {
		attempts++
		v, err := runAttempt(ctx, e, task)
		if err == nil {
			return v, nil
		}
		lastErr = err
		retryable = ctx.Err() == nil && e.classifier.Classify(err) == ClassRetryable
		if retryable {
			return zero, retry.RetryableError(err)
		}
		return zero, err
	})
	if err == nil {
		if attempts > 1 {
			log.InfoContext(ctx, "AI request succeeded after retries",
				"attempts", attempts,
				"elapsed_ms", time.Since(start).Milliseconds())
		}
		return result, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		log.DebugContext(ctx, "AI request abandoned",
			"attempts", attempts,
			"error", ctxErr)
		return zero, ctxErr
	}

	if retryable {
		log.ErrorContext(ctx, "AI request retries exhausted",
			"attempts", attempts,
			"elapsed_ms", time.Since(start).Milliseconds(),
			"status_code", StatusCode(lastErr),
			"error", redact.Error(lastErr))
		return zero, &RetriesExhaustedError{Attempts: attempts, Err: lastErr}
	}

	log.WarnContext(ctx, "AI request failed with fatal error",
		"attempt", attempts,
		"status_code", StatusCode(err),
		"error", redact.Error(err))
	return zero, &FatalRequestError{Err: err}
}

type attemptResult[T any] struct {
	value T
	err   error
}

// runAttempt makes a single attempt: rate limiter, queue slot, then task,
// raced against the attempt timeout when one is set.
func runAttempt[T any](ctx context.Context, e *Executor, task Task[T]) (T, error) {
	var zero T

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return zero, fmt.Errorf("rate limiter: %w", err)
		}
	}

	return Run(ctx, e.queue, func(ctx context.Context) (T, error) {
		if e.attemptTimeout <= 0 {
			return task(ctx)
		}

		attemptCtx, cancel := context.WithTimeout(ctx, e.attemptTimeout)
		defer cancel()

		done := make(chan attemptResult[T], 1)
		go func() {
			v, err := task(attemptCtx)
			done <- attemptResult[T]{value: v, err: err}
		}()

		select {
		case r := <-done:
			if r.err != nil && ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
				return zero, fmt.Errorf("%w after %s: %v", ErrAttemptTimeout, e.attemptTimeout, r.err)
			}
			return r.value, r.err
		case <-attemptCtx.Done():
			if err := ctx.Err(); err != nil {
				return zero, err
			}
			return zero, fmt.Errorf("%w after %s", ErrAttemptTimeout, e.attemptTimeout)
		}
	})
}
