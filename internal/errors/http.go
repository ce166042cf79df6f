package errors

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ananyateklu/second-brain-sub004/model"
)

// ClassifyHTTPError determines whether an HTTP error should be retried:
// 4xx client errors except 408 and 429 are irrecoverable; 5xx and network
// errors are recoverable.
func ClassifyHTTPError(statusCode int, body string, underlyingErr error) *ClassifiedError {
	return &ClassifiedError{
		Category:   getHTTPErrorCategory(statusCode),
		StatusCode: statusCode,
		Body:       body,
		Underlying: underlyingErr,
	}
}

func getHTTPErrorCategory(statusCode int) ErrorCategory {
	switch {
	case statusCode >= 400 && statusCode < 500:
		switch statusCode {
		case http.StatusRequestTimeout, http.StatusTooManyRequests:
			return Recoverable
		default:
			return Irrecoverable
		}
	case statusCode >= 500 && statusCode < 600:
		return Recoverable
	default:
		// Unexpected status codes: be conservative and retry
		return Recoverable
	}
}

// NewHTTPError creates a classified error for a non-success response. The
// underlying error carries the domain meaning of the status so callers can
// use model.IsNotFoundError and friends without knowing about HTTP.
func NewHTTPError(statusCode int, body string, operation string) *ClassifiedError {
	msg := strings.TrimSpace(body)
	if msg == "" {
		msg = http.StatusText(statusCode)
	}
	var underlying error
	switch statusCode {
	case http.StatusNotFound:
		underlying = fmt.Errorf("%s: %w", operation, model.NewNotFoundError("item", msg))
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		underlying = fmt.Errorf("%s: %w", operation, model.NewValidationError("request", msg))
	case http.StatusConflict:
		underlying = fmt.Errorf("%s: %w", operation, model.NewConflictError("state", msg))
	default:
		underlying = fmt.Errorf("%s failed: HTTP %d", operation, statusCode)
	}
	return ClassifyHTTPError(statusCode, body, underlying)
}

// NewNetworkError creates a classified error for network-level failures.
// Network errors are always recoverable as they may be transient.
func NewNetworkError(operation string, err error) *ClassifiedError {
	return &ClassifiedError{
		Category:   Recoverable,
		Underlying: fmt.Errorf("%s network error: %w", operation, err),
	}
}
