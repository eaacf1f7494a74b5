package identity

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// OAuth endpoints of the identity platform, relative to its server URL
const (
	authorizePath = "/restapi/oauth/authorize"
	tokenPath     = "/restapi/oauth/token"
)

// Credentials are the login arguments of the identity platform.
// Code takes precedence over Username/Password.
type Credentials struct {
	Username    string
	Password    string
	Code        string
	RedirectURI string
}

// Platform is an OAuth client for the identity platform. It holds one session.
type Platform struct {
	oauth      oauth2.Config
	httpClient *http.Client
	logger     zerolog.Logger

	mu    sync.RWMutex
	token *oauth2.Token
}

// Option configures a Platform.
type Option func(*Platform)

// WithHTTPClient sets the HTTP client used for token requests. Nil is ignored.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Platform) {
		if c != nil {
			p.httpClient = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Platform) {
		p.logger = logger
	}
}

// WithScopes sets the OAuth scopes requested at login.
func WithScopes(scopes ...string) Option {
	return func(p *Platform) {
		p.oauth.Scopes = scopes
	}
}

// New creates a Platform for the identity server at server
func New(server, clientID, clientSecret string, opts ...Option) *Platform {
	server = strings.TrimRight(server, "/")

	p := &Platform{
		oauth: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:   server + authorizePath,
				TokenURL:  server + tokenPath,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With().Str("component", "identity").Logger()

	return p
}

// AuthCodeURL returns the URL a user visits to start the authorization code flow
func (p *Platform) AuthCodeURL(state, redirectURI string) string {
	cfg := p.oauth
	cfg.RedirectURL = redirectURI
	return cfg.AuthCodeURL(state)
}

// Login authenticates with creds and replaces the session token
func (p *Platform) Login(ctx context.Context, creds Credentials) error {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	var (
		token *oauth2.Token
		err   error
	)
	switch {
	case creds.Code != "":
		cfg := p.oauth
		cfg.RedirectURL = creds.RedirectURI
		token, err = cfg.Exchange(ctx, creds.Code)
	case creds.Username != "":
		token, err = p.oauth.PasswordCredentialsToken(ctx, creds.Username, creds.Password)
	default:
		return ErrMissingCredentials
	}
	if err != nil {
		return fmt.Errorf("failed to obtain platform token: %w", err)
	}

	p.SetToken(token)
	p.logger.Info().
		Time("expiry", token.Expiry).
		Msg("Logged in to identity platform")
	return nil
}

// Token returns the current session token, or nil
func (p *Platform) Token() *oauth2.Token {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.token
}

// SetToken replaces the session token, e.g. to restore a saved session
func (p *Platform) SetToken(token *oauth2.Token) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = token
}

// AccessToken returns the current access token, or "" without a session
func (p *Platform) AccessToken() string {
	token := p.Token()
	if token == nil {
		return ""
	}
	return token.AccessToken
}
