package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/engagevoice/config"
	"github.com/s0up4200/engagevoice/engagevoice"
	"github.com/s0up4200/engagevoice/identity"
)

var (
	cfgFile  string
	cfg      *config.Config
	logger   zerolog.Logger
	client   *engagevoice.Client
	platform *identity.Platform
	tokens   *tokenFile

	// Version information
	appVersion = "dev"
	buildTime  = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "engagevoice",
	Short: "A command line client for the RingCentral Engage Voice API",
	Long: `engagevoice authenticates against Engage Voice (legacy portals or the modern
RingCentral platform), keeps the resulting token bundle on disk and sends
authenticated API requests.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// SetVersion sets the version reported by the CLI and sent in the User-Agent
func SetVersion(version, built string) {
	appVersion = version
	buildTime = built
	engagevoice.Version = version
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

// initializeApp loads configuration, creates the client and restores the saved token bundle
func initializeApp(cmd *cobra.Command, args []string) error {
	if cmd.Annotations["skipInit"] == "true" {
		return nil
	}

	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	opts := []engagevoice.Option{engagevoice.WithLogger(logger)}
	if !engagevoice.DetectServerMode(cfg.Server).IsLegacy() {
		platform = identity.New(cfg.IdentityServer, cfg.ClientID, cfg.ClientSecret, identity.WithLogger(logger))
		opts = append(opts, engagevoice.WithIdentityPlatform(platform))
	}

	client, err = engagevoice.New(engagevoice.Config{
		ClientID:       cfg.ClientID,
		ClientSecret:   cfg.ClientSecret,
		Server:         cfg.Server,
		IdentityServer: cfg.IdentityServer,
		APIPrefix:      cfg.APIPrefix,
	}, opts...)
	if err != nil {
		return fmt.Errorf("failed to create Engage Voice client: %w", err)
	}

	// Restore the saved bundle, then keep the file in sync with the client
	tokens = newTokenFile(cfg.TokenFile)
	bundle, err := tokens.Load()
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.TokenFile).Msg("Failed to read token file, starting without credentials")
	} else if bundle != nil {
		client.SetToken(bundle)
	}

	client.OnTokenChanged(func(b engagevoice.Bundle) {
		if err := tokens.Save(b); err != nil {
			logger.Error().Err(err).Str("path", cfg.TokenFile).Msg("Failed to save token file")
			return
		}
		logger.Debug().Str("path", cfg.TokenFile).Msg("Token file updated")
	})

	logger.Debug().
		Str("server", cfg.Server).
		Str("mode", client.Mode().String()).
		Msg("Client initialized")

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format, without color when stderr is not a terminal
	color := cfg.Color && (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()))
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !color,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
