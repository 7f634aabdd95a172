package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/radin-system/sarvcrm-go/config"
	"github.com/radin-system/sarvcrm-go/sarvcrm"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *sarvcrm.Client
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sarvctl",
	Short: "A CLI for querying and managing SarvCRM records",
	Long: `sarvctl talks to a SarvCRM deployment through its web service API:
list, read, create, update and delete records of any module, inspect module
schemas, and search records by phone number.

Credentials come from a config file (./config.yaml, ~/.sarvctl/ or
/etc/sarvctl/) or SARVCRM_* environment variables. Every command runs inside
a managed session: login before the work, logout after it, including on
failures.`,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// SetVersion records build metadata on the root command.
func SetVersion(version, buildTime string) {
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(testCmd)
}

// initializeApp initializes the configuration and the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	client, err = sarvcrm.New(sarvcrm.Config{
		BaseURL:       cfg.Sarv.URL,
		FrontendURL:   cfg.Sarv.FrontendURL,
		UType:         cfg.Sarv.UType,
		Username:      cfg.Sarv.Username,
		Password:      cfg.Sarv.Password,
		PasswordIsMD5: cfg.Sarv.PasswordIsMD5,
		LoginType:     cfg.Sarv.LoginType,
		Language:      cfg.Sarv.Language,
	}, logger,
		sarvcrm.WithTimeout(time.Duration(cfg.Sarv.TimeoutSeconds)*time.Second),
		sarvcrm.WithPageSize(cfg.Sarv.PageSize),
	)
	if err != nil {
		return fmt.Errorf("failed to create SarvCRM client: %w", err)
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
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
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format; color only on a real terminal
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// moduleArg resolves a module name argument against the client registry.
func moduleArg(name string) (*sarvcrm.Module, error) {
	mod, err := client.Module(name)
	if err != nil {
		return nil, fmt.Errorf("%w (module names are case-sensitive, e.g. Accounts, AosInvoices)", err)
	}
	return mod, nil
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection and credentials",
	Long:  `Log in to the configured SarvCRM deployment, fetch one page of Accounts, and log out.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Printf("Testing connection to SarvCRM (utype %s)...\n", cfg.Sarv.UType)

	return client.WithSession(context.Background(), func(ctx context.Context) error {
		fmt.Println("✓ Login successful!")

		accounts, err := client.Accounts.List(ctx, sarvcrm.ListOptions{Limit: 1})
		if err != nil {
			return fmt.Errorf("failed to read Accounts: %w", err)
		}

		fmt.Println("✓ Read access confirmed!")
		fmt.Printf("\n- Known modules: %d\n", len(client.Modules()))
		if len(accounts) > 0 {
			fmt.Printf("- Sample account: %s\n", accounts[0].String("name"))
		}
		return nil
	})
}
