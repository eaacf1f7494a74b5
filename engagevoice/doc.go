// Package engagevoice provides a client for the RingCentral Engage Voice API.
//
// Engage Voice is served from two kinds of hosts. Legacy hosts (the vacd.biz
// portals) authenticate with a username and password and expect an
// X-Auth-Token header on every call. Modern hosts accept a bearer token that is
// obtained by exchanging an access token issued by the RingCentral identity
// platform. The Client detects which kind of host it talks to once, at
// construction, and picks the matching login flow and auth header from then on.
//
// # Usage
//
//	client, err := engagevoice.New(engagevoice.Config{
//		ClientID:     "client-id",
//		ClientSecret: "client-secret",
//	}, engagevoice.WithLogger(logger))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	if err := client.Authorize(ctx, engagevoice.Credentials{
//		Username: "user",
//		Password: "secret",
//	}); err != nil {
//		log.Fatal(err)
//	}
//
//	// Relative paths are resolved against Server + APIPrefix.
//	resp, err := client.Get(ctx, "/api/v1/admin/accounts")
//
// # Tokens
//
// The current credential bundle is available through Token and can be replaced
// with SetToken, for example to restore a session saved on disk. Subscribe with
// OnTokenChanged to be notified whenever the bundle changes. Tokens are never
// refreshed automatically: when a call fails with a 401, call Refresh and retry.
//
// # Error Handling
//
// Failures that carry an HTTP response are returned as *TransportError:
//
//	var terr *engagevoice.TransportError
//	if errors.As(err, &terr) && terr.IsUnauthorized() {
//		if err := client.Refresh(ctx); err != nil {
//			return err
//		}
//		// retry the call
//	}
//
// Network level failures (DNS, connection refused, timeouts, cancellation) are
// returned exactly as the transport produced them.
package engagevoice
