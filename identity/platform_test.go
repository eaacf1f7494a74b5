package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTokenServer(t *testing.T, check func(r *http.Request)) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, tokenPath, r.URL.Path)
		assert.NoError(t, r.ParseForm())
		check(r)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "rc-access",
			"refresh_token": "rc-refresh",
			"token_type":    "bearer",
			"expires_in":    3600,
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestLoginPasswordGrant(t *testing.T) {
	server := newTokenServer(t, func(r *http.Request) {
		assert.Equal(t, "password", r.PostForm.Get("grant_type"))
		assert.Equal(t, "user", r.PostForm.Get("username"))
		assert.Equal(t, "secret", r.PostForm.Get("password"))

		id, secret, ok := r.BasicAuth()
		assert.True(t, ok, "client credentials sent in header")
		assert.Equal(t, "client-id", id)
		assert.Equal(t, "client-secret", secret)
	})

	platform := New(server.URL, "client-id", "client-secret", WithLogger(zerolog.Nop()))
	assert.Empty(t, platform.AccessToken())

	err := platform.Login(context.Background(), Credentials{Username: "user", Password: "secret"})
	require.NoError(t, err)

	assert.Equal(t, "rc-access", platform.AccessToken())
	assert.Equal(t, "rc-refresh", platform.Token().RefreshToken)
	assert.False(t, platform.Token().Expiry.IsZero())
}

func TestLoginAuthorizationCodeGrant(t *testing.T) {
	server := newTokenServer(t, func(r *http.Request) {
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "the-code", r.PostForm.Get("code"))
		assert.Equal(t, "http://localhost:8080/callback", r.PostForm.Get("redirect_uri"))
	})

	platform := New(server.URL+"/", "client-id", "client-secret", WithHTTPClient(server.Client()))

	err := platform.Login(context.Background(), Credentials{
		Code:        "the-code",
		RedirectURI: "http://localhost:8080/callback",
		Username:    "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, "rc-access", platform.AccessToken())
}

func TestLoginRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant","error_description":"bad password"}`))
	}))
	t.Cleanup(server.Close)

	platform := New(server.URL, "client-id", "client-secret")
	platform.SetToken(&oauth2.Token{AccessToken: "previous"})

	err := platform.Login(context.Background(), Credentials{Username: "user", Password: "wrong"})
	require.Error(t, err)

	var retrieveErr *oauth2.RetrieveError
	require.ErrorAs(t, err, &retrieveErr)
	assert.Equal(t, "invalid_grant", retrieveErr.ErrorCode)
	assert.Equal(t, "previous", platform.AccessToken(), "session kept on failure")
}

func TestLoginMissingCredentials(t *testing.T) {
	platform := New("https://platform.example.com", "client-id", "client-secret")
	err := platform.Login(context.Background(), Credentials{})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestAuthCodeURL(t *testing.T) {
	platform := New("https://platform.example.com/", "client-id", "client-secret", WithScopes("ReadAccounts"))

	raw := platform.AuthCodeURL("state-1", "http://localhost:8080/callback")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "platform.example.com", u.Host)
	assert.Equal(t, authorizePath, u.Path)
	q := u.Query()
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "state-1", q.Get("state"))
	assert.Equal(t, "http://localhost:8080/callback", q.Get("redirect_uri"))
	assert.Equal(t, "ReadAccounts", q.Get("scope"))
}
