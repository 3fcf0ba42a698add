package ghprobe

import (
	"fmt"
	"net/http"

	"github.com/jmgilman/go/errors"
)

// CodeForStatus maps a GitHub HTTP status code to an error code.
func CodeForStatus(statusCode int) errors.ErrorCode {
	switch statusCode {
	case http.StatusNotFound:
		return errors.CodeNotFound
	case http.StatusUnauthorized:
		return errors.CodeUnauthorized
	case http.StatusForbidden:
		return errors.CodeForbidden
	case http.StatusConflict:
		return errors.CodeConflict
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		return errors.CodeInvalidInput
	case http.StatusTooManyRequests:
		return errors.CodeRateLimit
	}

	if statusCode >= 500 {
		return errors.CodeNetwork
	}
	return errors.CodeInternal
}

// WrapHTTPError wraps an error with the code for the given HTTP status.
// Returns nil if err is nil.
func WrapHTTPError(err error, statusCode int, message string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, CodeForStatus(statusCode), message)
}

// wrapTransportError wraps a failed round trip with the request that caused it.
func wrapTransportError(err error, req *Request) error {
	wrapped := errors.Wrap(err, errors.CodeNetwork, fmt.Sprintf("%s %s failed", req.Method, req.URL))
	wrapped = errors.WithContext(wrapped, "method", req.Method)
	return errors.WithContext(wrapped, "url", req.URL)
}

// newDecodeError creates a decode error carrying the response status.
func newDecodeError(err error, statusCode int) error {
	wrapped := errors.Wrap(err, errors.CodeInvalidInput, "failed to decode response")
	return errors.WithContext(wrapped, "status_code", statusCode)
}

// newInvalidInputError creates an invalid input error with context.
func newInvalidInputError(field, reason string) error {
	err := errors.New(
		errors.CodeInvalidInput,
		fmt.Sprintf("invalid %s: %s", field, reason),
	)
	err = errors.WithContext(err, "field", field)
	return errors.WithContext(err, "reason", reason)
}
