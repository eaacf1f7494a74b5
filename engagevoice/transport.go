package engagevoice

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// DefaultTimeout is the timeout of the HTTP client built by New
const DefaultTimeout = 30 * time.Second

// Transport performs a single HTTP exchange.
//
// Failures that received a response must implement ResponseCarrier so the
// Client can classify them; any other error is returned to the caller as is.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// TransportFunc adapts a function to the Transport interface
type TransportFunc func(ctx context.Context, req *Request) (*Response, error)

// Do implements Transport
func (f TransportFunc) Do(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// HTTPTransport is the default Transport backed by net/http.
// Non-2xx responses are returned as *StatusError.
type HTTPTransport struct {
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewHTTPTransport creates a transport using httpClient, or a client with
// DefaultTimeout if httpClient is nil
func NewHTTPTransport(httpClient *http.Client, logger zerolog.Logger) *HTTPTransport {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &HTTPTransport{
		httpClient: httpClient,
		logger:     logger,
	}
}

// Do implements Transport
func (t *HTTPTransport) Do(ctx context.Context, r *Request) (*Response, error) {
	body, contentType, err := encodeBody(r.Data)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, values := range r.Header {
		req.Header[key] = append([]string(nil), values...)
	}
	if contentType != "" && req.Header.Get(HeaderContentType) == "" {
		req.Header.Set(HeaderContentType, contentType)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", contentTypeJSON)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	out := &Response{
		Status:     resp.StatusCode,
		StatusText: statusText(resp),
		Header:     resp.Header,
		Body:       data,
		Request:    r,
	}

	t.logger.Trace().
		Str("method", r.Method).
		Str("url", r.URL).
		Int("status", resp.StatusCode).
		Int("bytes", len(data)).
		Msg("Engage Voice response received")

	if !out.IsSuccess() {
		return nil, &StatusError{Response: out}
	}
	return out, nil
}

// encodeBody encodes request data and returns the default content type for it
func encodeBody(data any) (io.Reader, string, error) {
	switch v := data.(type) {
	case nil:
		return nil, "", nil
	case url.Values:
		return strings.NewReader(v.Encode()), contentTypeForm, nil
	case string:
		return strings.NewReader(v), "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case io.Reader:
		return v, "", nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode request body: %w", err)
		}
		return bytes.NewReader(b), contentTypeJSON, nil
	}
}

// statusText returns the reason phrase of resp, e.g. "Unauthorized"
func statusText(resp *http.Response) string {
	prefix := fmt.Sprintf("%d ", resp.StatusCode)
	if text, ok := strings.CutPrefix(resp.Status, prefix); ok && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
