package engagevoice

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"
)

// Engage Voice authentication endpoints, relative to the configured server
const (
	legacyLoginPath  = "/api/v1/auth/login"
	legacyTokenPath  = "/api/v1/admin/token"
	accessTokenPath  = "/api/auth/login/rc/accesstoken?includeRefresh=true"
	bearerTokenType  = "Bearer"
	refreshFlightKey = "refresh"
)

// Authorize logs in and stores the resulting credential bundle.
// Legacy servers take Username and Password; modern servers delegate the
// login to the identity platform and exchange its access token.
func (c *Client) Authorize(ctx context.Context, creds Credentials) error {
	if c.mode.IsLegacy() {
		return c.legacyAuthorize(ctx, creds)
	}

	if err := c.identity.Login(ctx, creds); err != nil {
		return fmt.Errorf("identity platform login failed: %w", err)
	}
	if _, err := c.ExchangeToken(ctx, ""); err != nil {
		return err
	}

	c.logger.Info().Msg("Authorized with Engage Voice")
	return nil
}

// legacyAuthorize logs in with username/password, then trades the auth token
// for an API token. The stored bundle is the login bundle plus apiToken.
func (c *Client) legacyAuthorize(ctx context.Context, creds Credentials) error {
	if creds.Username == "" || creds.Password == "" {
		return ErrMissingCredentials
	}

	form := url.Values{
		"username": {creds.Username},
		"password": {creds.Password},
	}
	resp, err := c.Post(ctx, c.endpoint(legacyLoginPath), form)
	if err != nil {
		return fmt.Errorf("legacy login failed: %w", err)
	}

	var bundle Bundle
	if err := resp.Decode(&bundle); err != nil {
		return fmt.Errorf("legacy login failed: %w", err)
	}
	if bundle == nil {
		bundle = make(Bundle)
	}

	resp, err = c.Post(ctx, c.endpoint(legacyTokenPath), nil, WithHeader(HeaderAuthToken, bundle.AuthToken()))
	if err != nil {
		return fmt.Errorf("legacy token exchange failed: %w", err)
	}
	bundle[KeyAPIToken] = decodeLoose(resp.Body)

	c.SetToken(bundle)
	c.logger.Info().Str("username", creds.Username).Msg("Authorized with legacy Engage Voice")
	return nil
}

// ExchangeToken trades a platform credential for an Engage Voice bundle and
// stores it. With an empty refreshToken the identity platform's current access
// token is exchanged; otherwise refreshToken is.
func (c *Client) ExchangeToken(ctx context.Context, refreshToken string) (Bundle, error) {
	form := url.Values{"rcTokenType": {bearerTokenType}}
	if refreshToken != "" {
		form.Set("refreshToken", refreshToken)
	} else {
		accessToken := ""
		if c.identity != nil {
			accessToken = c.identity.AccessToken()
		}
		form.Set("rcAccessToken", accessToken)
	}

	resp, err := c.Post(ctx, c.endpoint(accessTokenPath), form)
	if err != nil {
		return nil, fmt.Errorf("access token exchange failed: %w", err)
	}

	var bundle Bundle
	if err := resp.Decode(&bundle); err != nil {
		return nil, fmt.Errorf("access token exchange failed: %w", err)
	}
	if bundle.AccessToken() == "" {
		return nil, fmt.Errorf("access token exchange failed: %w", ErrEmptyBundle)
	}

	c.SetToken(bundle)
	return bundle.Clone(), nil
}

// Refresh exchanges the stored refresh token for a new bundle.
// Concurrent calls share a single exchange, which is not cancelled when one
// of the callers gives up; each caller still returns when its own ctx is done.
func (c *Client) Refresh(ctx context.Context) error {
	if c.mode.IsLegacy() {
		return ErrLegacyRefresh
	}

	refreshToken := c.tokens.Get().RefreshToken()
	if refreshToken == "" {
		return ErrNoRefreshToken
	}

	ch := c.refresh.DoChan(refreshFlightKey, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultTimeout)
		defer cancel()
		return c.ExchangeToken(ctx, refreshToken)
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return res.Err
		}
		c.logger.Info().Bool("shared", res.Shared).Msg("Refreshed Engage Voice token")
		return nil
	}
}

// RevokeLegacyToken deletes the stored legacy API token on the server.
// It does nothing when no bundle is stored.
func (c *Client) RevokeLegacyToken(ctx context.Context) error {
	bundle := c.tokens.Get()
	if bundle == nil {
		return nil
	}

	path := legacyTokenPath + "/" + url.PathEscape(bundle.APIToken())
	if _, err := c.Delete(ctx, c.endpoint(path)); err != nil {
		return fmt.Errorf("legacy token revoke failed: %w", err)
	}

	c.logger.Info().Msg("Revoked legacy Engage Voice token")
	return nil
}

// decodeLoose decodes a JSON body, falling back to the trimmed text
func decodeLoose(body []byte) any {
	var v any
	if err := json.Unmarshal(body, &v); err == nil {
		return v
	}
	return strings.TrimSpace(string(body))
}
