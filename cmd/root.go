package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/s0up4200/tonplace/auth"
	"github.com/s0up4200/tonplace/config"
	"github.com/s0up4200/tonplace/session"
	"github.com/s0up4200/tonplace/tonplace"
)

var (
	cfgFile  string
	cfg      *config.Config
	logger   zerolog.Logger
	registry *prometheus.Registry

	// appFs backs session files and uploads; tests swap in a MemMapFs.
	appFs afero.Fs = afero.NewOsFs()

	// closers run after the command, in reverse order.
	closers []func() error

	// Command flags
	phoneFlag  string
	filterExpr string

	version   = "dev"
	buildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tonplace",
	Short: "A command-line client for the TonPlace social network",
	Long: `tonplace logs in to TonPlace through Telegram and calls the TonPlace API:
profiles, feed, posts, comments, follows, wallet and media uploads.

Results are printed as JSON. List results can be narrowed with --filter,
e.g. --filter 'likes > 10 and has(text, "ton")'.`,
	SilenceUsage:       true,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: finalizeApp,
}

// SetVersion sets the version reported by --version.
func SetVersion(v, built string) {
	version = v
	buildTime = built
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// run executes the command line. finalizeApp only runs after a successful
// command, so a failure pushes metrics and releases resources here.
func run(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		pushMetrics()
		runClosers()
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&phoneFlag, "phone", "", "account phone number (overrides account.phone)")
}

// initializeApp loads the configuration and sets up logging. Clients are
// created lazily by the commands that need them.
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if phoneFlag != "" {
		cfg.Account.Phone = phoneFlag
	}

	logger = setupLogger(cfg.Logging, os.Stderr)

	registry = nil
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
	}

	return nil
}

// finalizeApp pushes metrics and releases the command's resources.
func finalizeApp(cmd *cobra.Command, args []string) error {
	defer runClosers()
	pushMetrics()
	return nil
}

// pushMetrics sends the command's metrics to the Pushgateway when enabled.
// A failed push is logged, never returned.
func pushMetrics() {
	if registry == nil || cfg == nil {
		return
	}
	defer func() { registry = nil }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := push.New(cfg.Metrics.PushgatewayURL, cfg.Metrics.Job).
		Gatherer(registry).
		PushContext(ctx)
	if err != nil {
		logger.Warn().Err(err).Str("url", cfg.Metrics.PushgatewayURL).Msg("Failed to push metrics")
	}
}

func runClosers() {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			logger.Debug().Err(err).Msg("Cleanup failed")
		}
	}
	closers = nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
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
		return zerolog.New(out).With().Timestamp().Logger()
	}

	// Console format, colour only on a terminal
	noColor := !cfg.Color
	if f, ok := out.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		noColor = true
	}

	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    noColor,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// newStore opens the configured session backend.
func newStore(ctx context.Context) (session.Store, error) {
	switch cfg.Session.Backend {
	case config.BackendMemory:
		return session.NewMemoryStore(), nil
	case config.BackendRedis:
		store, err := session.DialRedis(ctx, cfg.Session.RedisURL, cfg.Session.RedisPrefix, cfg.Session.RedisTTL)
		if err != nil {
			return nil, err
		}
		closers = append(closers, store.Close)
		return store, nil
	default:
		return session.NewFileStore(appFs, cfg.Session.Dir), nil
	}
}

func newAcquirer(ctx context.Context) (*auth.Acquirer, error) {
	store, err := newStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	return auth.NewAcquirer(logger,
		auth.WithStore(store),
		auth.WithRetryPolicy(cfg.RetryPolicy()),
		auth.WithPollInterval(cfg.Auth.PollInterval),
	), nil
}

func tokenRequest() auth.TokenRequest {
	return auth.TokenRequest{
		Phone:       cfg.Account.Phone,
		SaveSession: cfg.Account.SaveSession,
		Proxy:       cfg.Proxy,
		Timeout:     cfg.Auth.Timeout,
	}
}

// token returns the configured token or logs in with the configured phone.
func token(ctx context.Context) (string, error) {
	if cfg.Account.Token != "" {
		return cfg.Account.Token, nil
	}
	if cfg.Account.Phone == "" {
		return "", errors.New("account.phone or account.token must be set")
	}

	acquirer, err := newAcquirer(ctx)
	if err != nil {
		return "", err
	}
	return acquirer.GetToken(ctx, tokenRequest())
}

// newClient builds an API client for the current command.
func newClient(ctx context.Context) (*tonplace.Client, error) {
	tok, err := token(ctx)
	if err != nil {
		return nil, err
	}

	opts := []tonplace.Option{
		tonplace.WithBaseURL(cfg.API.BaseURL),
		tonplace.WithUploadURL(cfg.API.UploadURL),
		tonplace.WithTimeout(cfg.API.Timeout),
		tonplace.WithReturnErrors(cfg.Account.ReturnErrors),
		tonplace.WithRetryPolicy(cfg.RetryPolicy()),
	}
	if cfg.Proxy != "" {
		opts = append(opts, tonplace.WithProxy(cfg.Proxy))
	}
	if cfg.RateLimit.RequestsPerMinute > 0 {
		opts = append(opts, tonplace.WithRateLimit(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst))
	}
	if registry != nil {
		opts = append(opts, tonplace.WithMetrics(registry))
	}

	client, err := tonplace.NewClient(tok, logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create TonPlace client: %w", err)
	}
	closers = append(closers, client.Close)
	return client, nil
}

// apiCall is the body of a command that makes one API call.
type apiCall func(ctx context.Context, api tonplace.API, args []string) (*tonplace.Result, error)

// runAPI adapts an apiCall into a cobra RunE that prints the result.
func runAPI(call apiCall) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, err := newClient(ctx)
		if err != nil {
			return err
		}

		result, err := call(ctx, client, args)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), result, filterExpr)
	}
}
