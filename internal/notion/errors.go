package notion

import (
	"errors"
	"fmt"

	"github.com/imroc/req/v3"
)

var (
	ErrNoToken    = errors.New("notion: api token missing")
	ErrNoDatabase = errors.New("notion: database id missing")
)

const (
	// Error codes returned by the API in the error envelope.
	CodeUnauthorized       = "unauthorized"
	CodeObjectNotFound     = "object_not_found"
	CodeValidationError    = "validation_error"
	CodeRateLimited        = "rate_limited"
	CodeConflictError      = "conflict_error"
	CodeInternalServerErr  = "internal_server_error"
	CodeServiceUnavailable = "service_unavailable"
)

// APIError is the API's error envelope: {"object":"error","status":...,"code":...,"message":...}
type APIError struct {
	Object  string `json:"object"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion api error: %s - %s", e.Code, e.Message)
}

func (e *APIError) ErrorCode() string    { return e.Code }
func (e *APIError) ErrorMessage() string { return e.Message }

// handleAPIError is a helper function that handles the common error pattern
func handleAPIError(resp *req.Response, requestErr error, operation string) error {
	if requestErr != nil {
		return fmt.Errorf("http request error: %s %w", operation, requestErr)
	}

	// got a response, but api returned an error
	if resp.IsErrorState() {
		if err, ok := resp.ErrorResult().(*APIError); ok {
			return fmt.Errorf("%s %w", operation, err)
		}

		return fmt.Errorf("api error: %s %s", operation, resp.String())
	}

	return nil
}
