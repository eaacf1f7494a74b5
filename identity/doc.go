// Package identity provides a client for the RingCentral identity platform.
//
// It wraps golang.org/x/oauth2 to log in with either the password grant or the
// authorization code grant, and keeps the resulting token as the session
// whose access token the Engage Voice client exchanges for its own bundle.
//
// # Usage
//
//	platform := identity.New("https://platform.ringcentral.com", clientID, clientSecret,
//		identity.WithLogger(logger),
//	)
//	if err := platform.Login(ctx, identity.Credentials{Username: "user", Password: "secret"}); err != nil {
//		log.Fatal(err)
//	}
//	accessToken := platform.AccessToken()
package identity
