package api

import (
	"errors"
	"fmt"
)

// NetworkError reports a transport failure: no connectivity, timeout or a
// cancelled request.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError reports a non-success HTTP status from the search endpoint.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("search API failed (%d): %s", e.Status, e.Message)
}

// DecodeError reports a response body that is not a search result page.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode search response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func IsNetworkError(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}

func IsAPIError(err error) bool {
	var target *APIError
	return errors.As(err, &target)
}

func IsDecodeError(err error) bool {
	var target *DecodeError
	return errors.As(err, &target)
}

// Kind names the error class for logs.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsNetworkError(err):
		return "network"
	case IsAPIError(err):
		return "api"
	case IsDecodeError(err):
		return "decode"
	default:
		return "unknown"
	}
}
