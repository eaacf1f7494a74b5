package engagevoice

import (
	"net/url"
	"strings"
)

const (
	// DefaultServer is the modern Engage Voice host.
	DefaultServer = "https://engage.ringcentral.com"
	// DefaultIdentityServer is the RingCentral platform host that issues OAuth tokens.
	DefaultIdentityServer = "https://platform.ringcentral.com"
	// DefaultAPIPrefix is prepended to relative request paths.
	DefaultAPIPrefix = "voice"

	// LegacyServer is the primary legacy portal.
	LegacyServer = "https://portal.vacd.biz"
	// LegacyServerAlt is the secondary legacy portal.
	LegacyServerAlt = "https://portal.virtualacd.biz"
)

// LegacyHosts lists the hostnames served by the legacy platform.
var LegacyHosts = []string{
	"portal.vacd.biz",
	"portal.virtualacd.biz",
}

// ServerMode selects the authentication regime of a Client
type ServerMode int

const (
	// ServerModeModern authenticates with bearer tokens from the identity platform
	ServerModeModern ServerMode = iota
	// ServerModeLegacy authenticates with username/password and X-Auth-Token
	ServerModeLegacy
)

// String returns the string representation of a ServerMode
func (m ServerMode) String() string {
	switch m {
	case ServerModeLegacy:
		return "legacy"
	case ServerModeModern:
		return "modern"
	default:
		return "unknown"
	}
}

// IsLegacy reports whether m is the legacy regime
func (m ServerMode) IsLegacy() bool {
	return m == ServerModeLegacy
}

// DetectServerMode derives the ServerMode from a configured server URL.
func DetectServerMode(server string) ServerMode {
	u, err := url.Parse(server)
	if err != nil {
		return ServerModeModern
	}

	host := strings.ToLower(u.Hostname())
	for _, legacy := range LegacyHosts {
		if host == legacy {
			return ServerModeLegacy
		}
	}
	return ServerModeModern
}
