package engagevoice

import (
	"fmt"
	"maps"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/s0up4200/engagevoice/identity"
)

// Credentials are the login arguments passed to Authorize.
// Legacy servers use Username and Password; modern servers hand the whole
// value to the identity platform.
type Credentials = identity.Credentials

// Bundle is the credential bundle returned by the login and token endpoints.
// Only the fields needed for auth headers and refresh are interpreted.
type Bundle map[string]any

// Bundle keys read by the client
const (
	KeyAccessToken      = "accessToken"
	KeyAccessTokenSnake = "access_token"
	KeyRefreshToken     = "refreshToken"
	KeyAuthToken        = "authToken"
	KeyAPIToken         = "apiToken"
	KeyTokenType        = "rcTokenType"
)

// AccessToken returns the modern bearer token, or "" if absent
func (b Bundle) AccessToken() string {
	if v := b.str(KeyAccessToken); v != "" {
		return v
	}
	return b.str(KeyAccessTokenSnake)
}

// RefreshToken returns the modern refresh token, or "" if absent
func (b Bundle) RefreshToken() string {
	return b.str(KeyRefreshToken)
}

// AuthToken returns the legacy login token, or "" if absent
func (b Bundle) AuthToken() string {
	return b.str(KeyAuthToken)
}

// APIToken returns the legacy API token, or "" if absent
func (b Bundle) APIToken() string {
	return b.str(KeyAPIToken)
}

// Clone returns a shallow copy of the bundle
func (b Bundle) Clone() Bundle {
	if b == nil {
		return nil
	}
	return maps.Clone(b)
}

func (b Bundle) str(key string) string {
	v, ok := b[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Request describes a single call issued through Dispatch.
// URL may be absolute or relative to the configured server and API prefix.
type Request struct {
	Method string
	URL    string
	Data   any
	Header http.Header
}

// Response is a response received from the transport
type Response struct {
	Status     int
	StatusText string
	Header     http.Header
	Body       []byte
	Request    *Request
}

// IsSuccess returns true if the response status code is 2xx
func (r *Response) IsSuccess() bool {
	return r.Status >= 200 && r.Status < 300
}

// Decode unmarshals the JSON response body into v
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// String returns the response body as a string
func (r *Response) String() string {
	return string(r.Body)
}

// RequestOption customizes a request built by the verb helpers
type RequestOption func(*Request)

// WithHeader sets a single request header, overriding injected headers
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Header == nil {
			r.Header = make(http.Header)
		}
		r.Header.Set(key, value)
	}
}

// WithHeaders sets every header in h, overriding injected headers
func WithHeaders(h http.Header) RequestOption {
	return func(r *Request) {
		if r.Header == nil {
			r.Header = make(http.Header)
		}
		for key, values := range h {
			r.Header[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
		}
	}
}
