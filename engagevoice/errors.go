package engagevoice

import (
	"errors"
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid engage voice configuration")
	// ErrNoRefreshToken indicates Refresh was called without a stored refresh token
	ErrNoRefreshToken = errors.New("no refresh token available")
	// ErrLegacyRefresh indicates Refresh was called on a legacy server
	ErrLegacyRefresh = errors.New("legacy servers do not support token refresh")
	// ErrMissingCredentials indicates Authorize was called without usable credentials
	ErrMissingCredentials = errors.New("username and password are required")
	// ErrEmptyBundle indicates a token exchange answered without an access token
	ErrEmptyBundle = errors.New("token exchange returned no access token")
)

// ResponseCarrier is implemented by transport failures that received a response.
type ResponseCarrier interface {
	FailedResponse() *Response
}

// TransportError is a classified failure: the server answered, but the
// transport rejected the response.
type TransportError struct {
	Status     int
	StatusText string
	Body       []byte
	Request    *Request
	Err        error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	method, target := "", ""
	if e.Request != nil {
		method, target = e.Request.Method, e.Request.URL
	}
	if len(e.Body) > 0 {
		return fmt.Sprintf("engage voice API error: %s %s: status %d %s: %s", method, target, e.Status, e.StatusText, truncate(string(e.Body), 256))
	}
	return fmt.Sprintf("engage voice API error: %s %s: status %d %s", method, target, e.Status, e.StatusText)
}

// Unwrap returns the original transport failure
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Decode unmarshals the JSON error body into v
func (e *TransportError) Decode(v any) error {
	return json.Unmarshal(e.Body, v)
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *TransportError) IsUnauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// IsNotFound checks if the error indicates a not found response
func (e *TransportError) IsNotFound() bool {
	return e.Status == http.StatusNotFound
}

// Classify turns a transport failure that carries a response into a
// *TransportError. Any other error is returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	// Already classified further down the call chain
	var terr *TransportError
	if errors.As(err, &terr) {
		return err
	}

	var carrier ResponseCarrier
	if !errors.As(err, &carrier) {
		return err
	}
	resp := carrier.FailedResponse()
	if resp == nil {
		return err
	}

	return &TransportError{
		Status:     resp.Status,
		StatusText: resp.StatusText,
		Body:       resp.Body,
		Request:    resp.Request,
		Err:        err,
	}
}

// StatusError is returned by HTTPTransport for non-2xx responses
type StatusError struct {
	Response *Response
}

// Error implements the error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d", e.Response.Status)
}

// FailedResponse implements ResponseCarrier
func (e *StatusError) FailedResponse() *Response {
	return e.Response
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
