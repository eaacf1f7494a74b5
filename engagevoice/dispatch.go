package engagevoice

import (
	"context"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Dispatch resolves the request URL, injects auth and user agent headers,
// sends the request through the transport and classifies any failure.
// Credentials are read once, when Dispatch is called.
func (c *Client) Dispatch(ctx context.Context, req *Request) (*Response, error) {
	composed := &Request{
		Method: req.Method,
		URL:    ResolveURL(c.config.Server, c.config.APIPrefix, req.URL),
		Data:   req.Data,
		Header: buildHeaders(c.mode, c.tokens.Get(), req.Header),
	}

	ctx, span := c.tracer.Start(ctx, "EngageVoice "+composed.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", composed.Method),
			attribute.String("url.full", composed.URL),
			attribute.String("engagevoice.server_mode", c.mode.String()),
		),
	)
	defer span.End()

	c.logger.Debug().
		Str("method", composed.Method).
		Str("url", composed.URL).
		Msg("Dispatching Engage Voice request")

	resp, err := c.transport.Do(ctx, composed)
	if err != nil {
		err = Classify(err)

		var terr *TransportError
		if errors.As(err, &terr) {
			span.SetAttributes(attribute.Int("http.response.status_code", terr.Status))
			c.logger.Warn().
				Str("method", composed.Method).
				Str("url", composed.URL).
				Int("status", terr.Status).
				Msg("Engage Voice request rejected")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.Status))
	return resp, nil
}

// Get issues a GET request
func (c *Client) Get(ctx context.Context, url string, opts ...RequestOption) (*Response, error) {
	return c.Dispatch(ctx, newRequest(http.MethodGet, url, nil, opts))
}

// Post issues a POST request with data as body
func (c *Client) Post(ctx context.Context, url string, data any, opts ...RequestOption) (*Response, error) {
	return c.Dispatch(ctx, newRequest(http.MethodPost, url, data, opts))
}

// Put issues a PUT request with data as body
func (c *Client) Put(ctx context.Context, url string, data any, opts ...RequestOption) (*Response, error) {
	return c.Dispatch(ctx, newRequest(http.MethodPut, url, data, opts))
}

// Patch issues a PATCH request with data as body
func (c *Client) Patch(ctx context.Context, url string, data any, opts ...RequestOption) (*Response, error) {
	return c.Dispatch(ctx, newRequest(http.MethodPatch, url, data, opts))
}

// Delete issues a DELETE request
func (c *Client) Delete(ctx context.Context, url string, opts ...RequestOption) (*Response, error) {
	return c.Dispatch(ctx, newRequest(http.MethodDelete, url, nil, opts))
}

func newRequest(method, url string, data any, opts []RequestOption) *Request {
	req := &Request{Method: method, URL: url, Data: data}
	for _, opt := range opts {
		opt(req)
	}
	return req
}
