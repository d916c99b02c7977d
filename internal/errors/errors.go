// Package errors provides custom error types for the Assistants API client.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrAuthFailed       = errors.New("authentication failed")
	ErrNoAPIKey         = errors.New("no API key configured")
	ErrNoThread         = errors.New("no conversation thread")
	ErrInvalidResponse  = errors.New("invalid response format")
	ErrNoContent        = errors.New("no content in response")
	ErrResponseTooLarge = errors.New("response too large")
)

// AuthError represents an authentication failure (HTTP 401/403)
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication failed: API key may be invalid"
	}
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *AuthError) Is(target error) bool {
	if target == ErrAuthFailed {
		return true
	}
	_, ok := target.(*AuthError)
	return ok
}

// NewAuthError creates a new AuthError
func NewAuthError(message string) *AuthError {
	return &AuthError{Message: message}
}

// APIError represents a non-2xx response from the assistant service
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// WithBody attaches a (truncated) response body for display
func (e *APIError) WithBody(body string) *APIError {
	const maxBody = 4096
	if len(body) > maxBody {
		body = body[:maxBody]
	}
	e.Body = body
	return e
}

// TimeoutError represents a request timeout
type TimeoutError struct {
	Message string
}

func (e *TimeoutError) Error() string {
	if e.Message == "" {
		return "request timed out"
	}
	return fmt.Sprintf("request timed out: %s", e.Message)
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(message string) *TimeoutError {
	return &TimeoutError{Message: message}
}

// UsageLimitError represents a rate limit or quota error (HTTP 429)
type UsageLimitError struct {
	Message string
}

func (e *UsageLimitError) Error() string {
	if e.Message == "" {
		return "usage limit exceeded"
	}
	return fmt.Sprintf("usage limit exceeded: %s", e.Message)
}

// NewUsageLimitError creates a new UsageLimitError
func NewUsageLimitError(message string) *UsageLimitError {
	return &UsageLimitError{Message: message}
}

// NetworkError wraps a transport failure
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error at %s: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(endpoint string, err error) *NetworkError {
	return &NetworkError{Endpoint: endpoint, Err: err}
}

// ParseError represents a response parsing error
type ParseError struct {
	Message string
	Path    string
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parse error: %s (at %s)", e.Message, e.Path)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

// NewParseError creates a new ParseError
func NewParseError(message, path string) *ParseError {
	return &ParseError{Message: message, Path: path}
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// ResponseTooLargeError reports a body that exceeded the read limit
type ResponseTooLargeError struct {
	Endpoint string
	Limit    int
}

func (e *ResponseTooLargeError) Error() string {
	return fmt.Sprintf("response from %s exceeds %d bytes", e.Endpoint, e.Limit)
}

// Is allows comparison with sentinel errors
func (e *ResponseTooLargeError) Is(target error) bool {
	return target == ErrResponseTooLarge
}

// NewResponseTooLargeError creates a new ResponseTooLargeError
func NewResponseTooLargeError(endpoint string, limit int) *ResponseTooLargeError {
	return &ResponseTooLargeError{Endpoint: endpoint, Limit: limit}
}

// FromStatus maps an HTTP status code to the most specific error type.
// Returns nil for 2xx codes.
func FromStatus(statusCode int, endpoint, body string) error {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == 401 || statusCode == 403:
		return &APIStatusError{
			Cause: NewAuthError(fmt.Sprintf("status %d", statusCode)),
			API:   NewAPIError(statusCode, endpoint, "unauthorized").WithBody(body),
		}
	case statusCode == 429:
		return &APIStatusError{
			Cause: NewUsageLimitError("rate limited"),
			API:   NewAPIError(statusCode, endpoint, "too many requests").WithBody(body),
		}
	case statusCode == 408 || statusCode == 504:
		return &APIStatusError{
			Cause: NewTimeoutError(fmt.Sprintf("status %d", statusCode)),
			API:   NewAPIError(statusCode, endpoint, "timeout").WithBody(body),
		}
	default:
		return NewAPIError(statusCode, endpoint, "unexpected status").WithBody(body)
	}
}

// APIStatusError pairs a classified cause with the raw APIError details
type APIStatusError struct {
	Cause error
	API   *APIError
}

func (e *APIStatusError) Error() string {
	return fmt.Sprintf("%v: %v", e.Cause, e.API)
}

// Unwrap exposes both the cause and the API details to errors.Is/As
func (e *APIStatusError) Unwrap() []error {
	return []error{e.Cause, e.API}
}

// IsAuthError reports whether err is an authentication failure
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuthFailed)
}

// IsRateLimitError reports whether err is a usage limit error
func IsRateLimitError(err error) bool {
	var target *UsageLimitError
	return errors.As(err, &target)
}

// IsNetworkError reports whether err is a transport failure
func IsNetworkError(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}

// IsTimeoutError reports whether err is a timeout
func IsTimeoutError(err error) bool {
	var target *TimeoutError
	return errors.As(err, &target)
}

// GetHTTPStatus returns the HTTP status carried by err, or 0
func GetHTTPStatus(err error) int {
	var target *APIError
	if errors.As(err, &target) {
		return target.StatusCode
	}
	return 0
}

// GetEndpoint returns the endpoint carried by err, or ""
func GetEndpoint(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Endpoint
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Endpoint
	}
	return ""
}

// GetResponseBody returns the response body carried by err, or ""
func GetResponseBody(err error) string {
	var target *APIError
	if errors.As(err, &target) {
		return target.Body
	}
	return ""
}
