package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/skillpath-api/internal/api/shared"
	"github.com/phrazzld/skillpath-api/internal/domain"
	"github.com/phrazzld/skillpath-api/internal/gateway"
	"github.com/phrazzld/skillpath-api/internal/generation"
	"github.com/phrazzld/skillpath-api/internal/service/auth"
)

// RetryAfter is advertised to clients when the AI service is cooling down.
const RetryAfter = 30 * time.Second

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	case err == nil:
		return http.StatusOK

	// Caller input
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, shared.ErrEmptyBody),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest

	// Authentication
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// The caller went away or ran out of time
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout

	// Upstream outcomes, most specific first
	case errors.Is(err, gateway.ErrRetriesExhausted):
		return http.StatusServiceUnavailable
	case errors.Is(err, generation.ErrContentBlocked):
		return http.StatusUnprocessableEntity
	case errors.Is(err, gateway.ErrAttemptTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, gateway.ErrFatalRequest):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-friendly message for err that does not
// expose internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		return SanitizeValidationError(validationErrs)
	case errors.Is(err, domain.ErrValidation):
		// Domain validation messages only name the offending field.
		return err.Error()
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return "Request timed out"

	case errors.Is(err, gateway.ErrRetriesExhausted):
		return "AI service is cooling down, try again shortly"
	case errors.Is(err, generation.ErrContentBlocked):
		return "The AI service declined to answer this request"
	case errors.Is(err, gateway.ErrAttemptTimeout):
		return "AI service took too long to respond"
	case errors.Is(err, generation.ErrInvalidResponse):
		return "AI service returned an unusable response"
	case errors.Is(err, gateway.ErrFatalRequest):
		return "AI service rejected the request"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator errors into a short message naming
// the first failing field.
func SanitizeValidationError(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return "Validation error"
	}
	fe := errs[0]
	return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), getValidationTagMessage(fe.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "gte", "lte":
		return "out of range"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the error response for err. A cooling-down AI
// service also gets a Retry-After header.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", strconv.Itoa(int(RetryAfter.Seconds())))
	}
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
}
