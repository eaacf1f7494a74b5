package cmd

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/s0up4200/engagevoice/engagevoice"
)

var (
	// Login flags
	loginUsername string
	loginPassword string
	loginCode     string
	redirectURI   string
	authURLState  string
	printAuthURL  bool

	// Revoke flags
	keepLocal bool

	// Token flags
	tokenField string
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and save the token bundle",
	Long: `Authenticate against the configured server and save the token bundle.

Legacy portals use username and password. Modern servers log in to the
RingCentral platform with a password grant, or with an authorization code
obtained from the URL printed by --auth-url.`,
	RunE: runLogin,
}

// refreshCmd represents the refresh command
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Exchange the saved refresh token for a new bundle",
	RunE:  runRefresh,
}

// revokeCmd represents the revoke command
var revokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Revoke the saved legacy API token and forget the bundle",
	Long: `Revoke the saved API token on a legacy portal and remove the local bundle.
On modern servers only the local bundle is removed.`,
	RunE: runRevoke,
}

// tokenCmd represents the token command
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print the saved token bundle",
	RunE:  runToken,
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "username (default from config)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password (default from config)")
	loginCmd.Flags().StringVar(&loginCode, "code", "", "authorization code from the platform redirect")
	loginCmd.Flags().StringVar(&redirectURI, "redirect-uri", "", "redirect URI registered for the application")
	loginCmd.Flags().StringVar(&authURLState, "state", "", "state to include in the authorization URL")
	loginCmd.Flags().BoolVar(&printAuthURL, "auth-url", false, "print the platform authorization URL and exit")

	revokeCmd.Flags().BoolVar(&keepLocal, "keep-local", false, "keep the local bundle after revoking")

	tokenCmd.Flags().StringVarP(&tokenField, "field", "f", "", "print a single field (e.g. accessToken, refreshToken, apiToken)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(revokeCmd)
	rootCmd.AddCommand(tokenCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	if printAuthURL {
		if platform == nil {
			return fmt.Errorf("--auth-url is only available for modern servers")
		}
		if redirectURI == "" {
			return fmt.Errorf("--auth-url requires --redirect-uri")
		}
		fmt.Fprintln(cmd.OutOrStdout(), platform.AuthCodeURL(authURLState, redirectURI))
		return nil
	}

	creds := engagevoice.Credentials{
		Username:    firstNonEmpty(loginUsername, cfg.Username),
		Password:    firstNonEmpty(loginPassword, cfg.Password),
		Code:        loginCode,
		RedirectURI: redirectURI,
	}

	logger.Info().
		Str("server", cfg.Server).
		Str("mode", client.Mode().String()).
		Msg("Logging in")

	if err := client.Authorize(cmd.Context(), creds); err != nil {
		return explain(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s (%s); token saved to %s\n", cfg.Server, client.Mode(), cfg.TokenFile)
	return nil
}

func runRefresh(cmd *cobra.Command, args []string) error {
	if err := client.Refresh(cmd.Context()); err != nil {
		if errors.Is(err, engagevoice.ErrNoRefreshToken) {
			return fmt.Errorf("%w; run 'engagevoice login' first", err)
		}
		return explain(err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Token refreshed")
	return nil
}

func runRevoke(cmd *cobra.Command, args []string) error {
	if client.Token() == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No saved token")
		return nil
	}

	if client.Mode().IsLegacy() {
		if err := client.RevokeLegacyToken(cmd.Context()); err != nil {
			return explain(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "API token revoked")
	}

	if !keepLocal {
		client.SetToken(nil)
		fmt.Fprintln(cmd.OutOrStdout(), "Local token removed")
	}
	return nil
}

func runToken(cmd *cobra.Command, args []string) error {
	bundle := client.Token()
	if bundle == nil {
		return fmt.Errorf("no saved token; run 'engagevoice login' first")
	}

	if tokenField != "" {
		v, ok := bundle[tokenField]
		if !ok {
			return fmt.Errorf("token bundle has no field %q", tokenField)
		}
		if s, ok := v.(string); ok {
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		}
		return printJSON(cmd, v)
	}

	return printJSON(cmd, bundle)
}

// explain suggests logging in again when the server rejected the credentials
func explain(err error) error {
	var te *engagevoice.TransportError
	if errors.As(err, &te) && te.IsUnauthorized() {
		return fmt.Errorf("%w (credentials rejected, try 'engagevoice login')", err)
	}
	return err
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
