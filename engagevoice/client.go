package engagevoice

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/s0up4200/engagevoice/identity"
)

const tracerName = "github.com/s0up4200/engagevoice"

// IdentityPlatform is the OAuth platform that performs modern logins.
type IdentityPlatform interface {
	// Login authenticates against the platform and keeps the session
	Login(ctx context.Context, creds Credentials) error
	// AccessToken returns the current platform access token, or ""
	AccessToken() string
}

// Config holds the client configuration. Zero values take the defaults.
type Config struct {
	ClientID       string
	ClientSecret   string
	Server         string
	IdentityServer string
	APIPrefix      string
}

// withDefaults returns c with empty fields replaced by defaults
func (c Config) withDefaults() Config {
	if c.Server == "" {
		c.Server = DefaultServer
	}
	if c.IdentityServer == "" {
		c.IdentityServer = DefaultIdentityServer
	}
	if c.APIPrefix == "" {
		c.APIPrefix = DefaultAPIPrefix
	}
	c.Server = strings.TrimRight(c.Server, "/")
	c.IdentityServer = strings.TrimRight(c.IdentityServer, "/")
	return c
}

// Client is an Engage Voice API client. It is safe for concurrent use.
type Client struct {
	config    Config
	mode      ServerMode
	tokens    *tokenStore
	transport Transport
	identity  IdentityPlatform
	tracer    trace.Tracer
	refresh   singleflight.Group
	logger    zerolog.Logger
}

// New creates a new Engage Voice client
func New(cfg Config, opts ...Option) (*Client, error) {
	o := clientOptions{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	cfg = cfg.withDefaults()
	if err := validateServer("server", cfg.Server); err != nil {
		return nil, err
	}

	mode := DetectServerMode(cfg.Server)
	logger := o.logger.With().Str("component", "engagevoice").Str("mode", mode.String()).Logger()

	if o.identity == nil && !mode.IsLegacy() {
		if cfg.ClientID == "" || cfg.ClientSecret == "" {
			return nil, fmt.Errorf("%w: client id and client secret are required for %s", ErrInvalidConfig, cfg.Server)
		}
		if err := validateServer("identity server", cfg.IdentityServer); err != nil {
			return nil, err
		}
		o.identity = identity.New(cfg.IdentityServer, cfg.ClientID, cfg.ClientSecret,
			identity.WithHTTPClient(o.httpClient),
			identity.WithLogger(o.logger),
		)
	}

	if o.transport == nil {
		o.transport = NewHTTPTransport(o.httpClient, logger)
	}
	if o.tracerProvider == nil {
		o.tracerProvider = otel.GetTracerProvider()
	}

	return &Client{
		config:    cfg,
		mode:      mode,
		tokens:    newTokenStore(logger),
		transport: o.transport,
		identity:  o.identity,
		tracer:    o.tracerProvider.Tracer(tracerName, trace.WithInstrumentationVersion(Version)),
		logger:    logger,
	}, nil
}

func validateServer(name, server string) error {
	u, err := url.Parse(server)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %s must be an absolute URL, got %q", ErrInvalidConfig, name, server)
	}
	return nil
}

// Mode returns the server mode detected at construction
func (c *Client) Mode() ServerMode {
	return c.mode
}

// Config returns the effective configuration, defaults applied
func (c *Client) Config() Config {
	return c.config
}

// Token returns a copy of the current credential bundle, or nil
func (c *Client) Token() Bundle {
	return c.tokens.Get()
}

// SetToken replaces the current credential bundle. Subscribers are notified
// only if the bundle differs from the stored one.
func (c *Client) SetToken(bundle Bundle) {
	c.tokens.Set(bundle)
}

// OnTokenChanged registers fn to be called synchronously with the new bundle
// each time it changes. The returned function unsubscribes fn.
func (c *Client) OnTokenChanged(fn TokenListener) (unsubscribe func()) {
	return c.tokens.Subscribe(fn)
}

// endpoint returns an absolute URL on the configured server, bypassing the API prefix
func (c *Client) endpoint(path string) string {
	return joinURL(c.config.Server, path)
}
