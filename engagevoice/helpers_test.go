package engagevoice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// fakeIdentity is an IdentityPlatform that records logins
type fakeIdentity struct {
	mu       sync.Mutex
	token    string
	loginErr error
	logins   []Credentials
}

func (f *fakeIdentity) Login(_ context.Context, creds Credentials) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins = append(f.logins, creds)
	return f.loginErr
}

func (f *fakeIdentity) AccessToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

// recordedRequest is a request seen by a test server
type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Form   url.Values
}

// recorder collects requests received by a test server
type recorder struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (r *recorder) record(req *http.Request) {
	_ = req.ParseForm()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, recordedRequest{
		Method: req.Method,
		Path:   req.URL.Path,
		Query:  req.URL.Query(),
		Header: req.Header.Clone(),
		Form:   req.PostForm,
	})
}

func (r *recorder) all() []recordedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedRequest(nil), r.requests...)
}

// rewriteTransport sends every request to target, whatever host it names
type rewriteTransport struct {
	target *url.URL
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = rt.target.Scheme
	req.URL.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

// newLegacyTestClient returns a client configured for the legacy portal whose
// traffic is served by handler
func newLegacyTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	target, err := url.Parse(server.URL)
	require.NoError(t, err)

	client, err := New(Config{Server: LegacyServer},
		WithHTTPClient(&http.Client{Transport: rewriteTransport{target: target}}),
		WithLogger(zerolog.Nop()),
	)
	require.NoError(t, err)
	require.Equal(t, ServerModeLegacy, client.Mode())
	return client
}

// newModernTestClient returns a modern client talking to a test server
func newModernTestClient(t *testing.T, handler http.Handler, platform IdentityPlatform, opts ...Option) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{WithIdentityPlatform(platform)}, opts...)
	client, err := New(Config{Server: server.URL}, opts...)
	require.NoError(t, err)
	require.Equal(t, ServerModeModern, client.Mode())
	return client
}
