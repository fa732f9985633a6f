package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
)

// Common error types returned by the gateway.
var (
	// ErrFatalRequest is matched by every *FatalRequestError.
	ErrFatalRequest = errors.New("fatal request error")

	// ErrRetriesExhausted is matched by every *RetriesExhaustedError.
	ErrRetriesExhausted = errors.New("retries exhausted")

	// ErrAttemptTimeout indicates a single attempt ran past the executor's
	// per-attempt timeout.
	ErrAttemptTimeout = errors.New("attempt timed out")
)

// DefaultRetryableStatusCodes are the transient upstream statuses: rate
// limiting and transient server failures.
var DefaultRetryableStatusCodes = []int{
	http.StatusTooManyRequests,
	http.StatusInternalServerError,
	http.StatusServiceUnavailable,
}

// RequestError is the structured failure a transport returns for an upstream
// call. The executor classifies on StatusCode alone.
type RequestError struct {
	StatusCode int
	// Status is the provider's symbolic status, e.g. RESOURCE_EXHAUSTED.
	Status  string
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != "" {
		return fmt.Sprintf("upstream returned status %d (%s): %s", e.StatusCode, e.Status, msg)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, msg)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// StatusCode returns the status carried by the first *RequestError in err's
// chain, or 0 when there is none.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}

// Class is the failure class the executor switches on.
type Class int

const (
	// ClassFatal failures are surfaced immediately.
	ClassFatal Class = iota
	// ClassRetryable failures are retried after a backoff wait.
	ClassRetryable
)

func (c Class) String() string {
	switch c {
	case ClassRetryable:
		return "retryable"
	default:
		return "fatal"
	}
}

// Classifier decides whether a failed attempt is worth repeating.
type Classifier struct {
	retryable map[int]struct{}
}

// NewClassifier returns a Classifier treating codes as retryable. With no
// codes it uses DefaultRetryableStatusCodes.
func NewClassifier(codes ...int) Classifier {
	if len(codes) == 0 {
		codes = DefaultRetryableStatusCodes
	}
	set := make(map[int]struct{}, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return Classifier{retryable: set}
}

// Classify returns ClassRetryable only for errors carrying a retryable status
// code. Untagged errors are fatal.
func (c Classifier) Classify(err error) Class {
	if err == nil {
		return ClassFatal
	}
	retryable := c.retryable
	if retryable == nil {
		retryable = NewClassifier().retryable
	}
	if _, ok := retryable[StatusCode(err)]; ok {
		return ClassRetryable
	}
	return ClassFatal
}

// RetryableCodes returns the retryable status codes in ascending order.
func (c Classifier) RetryableCodes() []int {
	if c.retryable == nil {
		return slices.Sorted(slices.Values(DefaultRetryableStatusCodes))
	}
	codes := make([]int, 0, len(c.retryable))
	for code := range c.retryable {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// FatalRequestError reports a failure that was not retried.
type FatalRequestError struct {
	Err error
}

func (e *FatalRequestError) Error() string {
	return fmt.Sprintf("%s: %v", ErrFatalRequest, e.Err)
}

func (e *FatalRequestError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrFatalRequest.
func (e *FatalRequestError) Is(target error) bool {
	return target == ErrFatalRequest
}

// RetriesExhaustedError reports that every permitted attempt failed with a
// retryable error. Err is the last of them.
type RetriesExhaustedError struct {
	Attempts int
	Err      error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("%s after %d attempts: %v", ErrRetriesExhausted, e.Attempts, e.Err)
}

func (e *RetriesExhaustedError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrRetriesExhausted.
func (e *RetriesExhaustedError) Is(target error) bool {
	return target == ErrRetriesExhausted
}
