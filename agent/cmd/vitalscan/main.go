package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vitalscan/vitalscan/agent/internal/config"
)

// options holds the persistent flags shared by every command.
type options struct {
	configPath  string
	envFile     string
	logLevel    string
	metricsFile string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd().ExecuteContext(ctx)
	cancel()
	if err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "vitalscan",
		Short:         "Collect patient records and flag risk, fever and data-quality issues",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (defaults only when empty)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading the config")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log_level: debug|info|warn|error")
	root.PersistentFlags().StringVar(&opts.metricsFile, "metrics-file", "", "override metrics_file")

	root.AddCommand(runCmd(opts))
	root.AddCommand(watchCmd(opts))
	root.AddCommand(checkCmd(opts))
	return root
}

// setup loads the environment and config, applies flag overrides and installs
// the JSON logger on stderr. stdout is reserved for reports.
func setup(opts *options) (*config.Config, *slog.Logger, error) {
	base := newLogger(slog.LevelInfo)
	slog.SetDefault(base)

	if err := config.LoadDotenv(opts.envFile); err != nil {
		slog.Error("failed to load env file", "path", opts.envFile, "err", err)
		return nil, nil, err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		slog.Error("failed to load config", "path", opts.configPath, "err", err)
		return nil, nil, err
	}
	if err := applyOverrides(cfg, opts); err != nil {
		slog.Error("invalid flags", "err", err)
		return nil, nil, err
	}

	base = newLogger(cfg.SlogLevel())
	slog.SetDefault(base)

	slog.Info("config loaded",
		"base_url", cfg.API.BaseURL,
		"page_size", cfg.Fetch.PageSize,
		"max_attempts", cfg.Fetch.MaxAttempts,
		"validation_attempts", cfg.Fetch.ValidationAttempts,
	)
	if cfg.API.Auth.Key() == "" {
		slog.Warn("no API key in environment, requests will be unauthenticated",
			"env", cfg.API.Auth.KeyEnv)
	}
	return cfg, base, nil
}

// applyOverrides copies non-empty flags onto cfg and re-validates it.
func applyOverrides(cfg *config.Config, opts *options) error {
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.metricsFile != "" {
		cfg.MetricsFile = opts.metricsFile
	}
	return cfg.Validate()
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newRunID returns a fresh correlation id and makes it part of every log line.
func newRunID(base *slog.Logger) string {
	id := uuid.NewString()
	slog.SetDefault(base.With("run_id", id))
	return id
}

// fail logs err as the reason the command exits non-zero.
func fail(err error) error {
	slog.Error("vitalscan: run failed", "err", err)
	return err
}

// errAcquisition marks a run that produced no report.
type errAcquisition struct{ err error }

func (e *errAcquisition) Error() string { return fmt.Sprintf("acquisition failed: %v", e.err) }
func (e *errAcquisition) Unwrap() error { return e.err }
