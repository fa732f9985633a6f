package gemini

import (
	"errors"
	"fmt"

	"github.com/phrazzld/skillpath-api/internal/gateway"
	"google.golang.org/genai"
)

// mapError converts a genai failure into a *gateway.RequestError when the
// upstream returned an HTTP status. Other errors (transport, context) are
// returned unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return toRequestError(apiErr, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return toRequestError(*apiErrPtr, err)
	}

	return fmt.Errorf("gemini request failed: %w", err)
}

func toRequestError(apiErr genai.APIError, cause error) *gateway.RequestError {
	return &gateway.RequestError{
		StatusCode: apiErr.Code,
		Status:     apiErr.Status,
		Message:    apiErr.Message,
		Err:        cause,
	}
}
