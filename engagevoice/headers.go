package engagevoice

import (
	"net/http"
)

// Header names used for authentication and identification
const (
	HeaderAuthToken     = "X-Auth-Token"
	HeaderAuthorization = "Authorization"
	HeaderUserAgent     = "User-Agent"
	HeaderXUserAgent    = "X-User-Agent"
	HeaderContentType   = "Content-Type"

	contentTypeForm = "application/x-www-form-urlencoded"
	contentTypeJSON = "application/json"
)

// Version is the library version reported in the user agent headers.
var Version = "dev"

// UserAgent returns the user agent string sent with every request
func UserAgent() string {
	return "engagevoice-go/" + Version
}

// AuthHeaders returns the auth header for mode built from bundle.
// A nil bundle yields a header with empty credentials.
func AuthHeaders(mode ServerMode, bundle Bundle) http.Header {
	h := make(http.Header, 1)
	if mode.IsLegacy() {
		h.Set(HeaderAuthToken, bundle.APIToken())
		return h
	}
	h.Set(HeaderAuthorization, "Bearer "+bundle.AccessToken())
	return h
}

// buildHeaders merges auth headers, user agent headers and caller headers,
// later groups replacing earlier ones key by key.
func buildHeaders(mode ServerMode, bundle Bundle, caller http.Header) http.Header {
	h := AuthHeaders(mode, bundle)
	ua := UserAgent()
	h.Set(HeaderUserAgent, ua)
	h.Set(HeaderXUserAgent, ua)
	for key, values := range caller {
		h[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
	}
	return h
}
