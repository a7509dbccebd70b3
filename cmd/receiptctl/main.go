// Command receiptctl drives the receipt API from a terminal. It can also run
// against the built-in mock backend, which needs no server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sangkips/receiptflow/internal/client"
	"github.com/sangkips/receiptflow/internal/config"
	"github.com/sangkips/receiptflow/internal/mockdata"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app is the state shared by every command of one invocation
type app struct {
	apiURL    string
	token     string
	mock      bool
	noLatency bool
	timeout   time.Duration
	verbose   bool

	logger *zap.Logger
	source client.Dashboard
	api    *client.Client // nil when running against the mock backend
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "receiptctl",
		Short: "Issue, browse and manage receipts",
		Long: `receiptctl talks to the receipt API.

Storefront commands (generate, list, get) use the public endpoints.
The admin commands need a token from "receiptctl admin login".
Use --mock to work against an in-memory sample dataset instead.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.apiURL, "api-url", "", "receipt API base URL (default from RECEIPT_API_URL)")
	flags.StringVar(&a.token, "token", os.Getenv("RECEIPTCTL_TOKEN"), "admin access token")
	flags.BoolVar(&a.mock, "mock", false, "use the in-memory mock backend")
	flags.BoolVar(&a.noLatency, "no-latency", false, "disable the mock backend's simulated latency")
	flags.DurationVar(&a.timeout, "timeout", 0, "request timeout (default from RECEIPT_API_TIMEOUT_SECONDS)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newGenerateCmd(a),
		newListCmd(a),
		newGetCmd(a),
		newAdminCmd(a),
	)
	return rootCmd
}

// setup picks the backend. A source injected beforehand is kept as is.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.logger == nil {
		logger, err := newLogger(a.verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		a.logger = logger
	}
	if a.source != nil {
		return nil
	}

	cfg := config.Load()
	if !cmd.Flags().Changed("api-url") {
		a.apiURL = cfg.Client.BaseURL
	}
	if !cmd.Flags().Changed("timeout") {
		a.timeout = cfg.Client.Timeout
	}
	if cfg.Client.Mock {
		a.mock = true
	}
	if !cfg.Client.Latency {
		a.noLatency = true
	}

	if a.mock {
		var opts []mockdata.Option
		if a.noLatency {
			opts = append(opts, mockdata.WithoutLatency())
		}
		a.source = mockdata.New(opts...)
		a.logger.Debug("Using mock backend", zap.Bool("latency", !a.noLatency))
		return nil
	}

	a.api = client.New(a.apiURL,
		client.WithTimeout(a.timeout),
		client.WithLogger(a.logger),
		client.WithToken(a.token),
	)
	a.source = a.api
	a.logger.Debug("Using receipt API", zap.String("url", a.api.BaseURL()))
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	cfg.Encoding = "console"
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// callContext bounds one backend call by the configured timeout
func (a *app) callContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	if a.timeout > 0 {
		return context.WithTimeout(cmd.Context(), a.timeout)
	}
	return context.WithCancel(cmd.Context())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
