// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/naka-gawa/wakabox/internal/config"
	"github.com/naka-gawa/wakabox/internal/domain"
	"github.com/naka-gawa/wakabox/internal/gateway"
	"github.com/naka-gawa/wakabox/internal/usecase"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	exitOK      = 0
	exitFailure = 1
)

var rootCmd = &cobra.Command{
	Use:   "wakabox",
	Short: "Publishes WakaTime weekly stats to a GitHub Gist.",
	Long: `wakabox fetches your WakaTime coding stats for the last 7 days and
writes a fixed-width summary (total time and the top 5 languages as bar
charts) into the first file of a GitHub Gist.

Required environment: GH_TOKEN, WAKATIME_API_KEY, GIST_ID.
A .env file in the working directory is loaded if present.

Failures while fetching, formatting or publishing are logged and the
process still exits 0, so a scheduled job never fails on a single bad
run. Use --strict to exit 1 instead.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		strict, _ := cmd.Flags().GetBool("strict")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		logger := newLogger(verbose)
		loadDotEnv(logger)

		opts := runOptions{strict: strict, timeout: timeout}
		os.Exit(runUpdate(context.Background(), opts, os.LookupEnv, defaultDependencies(), logger))
	},
}

// runOptions carries the command-line overrides for the environment settings.
type runOptions struct {
	strict  bool
	timeout time.Duration
}

// dependencies builds the gateways; tests swap them for mocks.
type dependencies struct {
	newFetcher   func(cfg *config.Config, logger *logrus.Logger) gateway.StatsFetcher
	newPublisher func(cfg *config.Config, logger *logrus.Logger) (gateway.Publisher, error)
}

func defaultDependencies() dependencies {
	return dependencies{
		newFetcher: func(cfg *config.Config, logger *logrus.Logger) gateway.StatsFetcher {
			return gateway.NewWakaTimeGateway(cfg.StatsURL(), cfg.WakaTimeAPIKey, cfg.HTTPTimeout, logger)
		},
		newPublisher: func(cfg *config.Config, logger *logrus.Logger) (gateway.Publisher, error) {
			return gateway.NewGistGateway(cfg.GitHubToken, cfg.HTTPTimeout, logger)
		},
	}
}

// loadConfig reads the environment and applies the command-line overrides.
func loadConfig(opts runOptions, lookup config.LookupFunc) (*config.Config, error) {
	cfg, err := config.LoadFrom(lookup)
	if err != nil {
		return nil, err
	}
	if opts.timeout > 0 {
		cfg.HTTPTimeout = opts.timeout
	}
	cfg.Strict = cfg.Strict || opts.strict
	return cfg, nil
}

// runUpdate performs one fetch-format-publish cycle and returns the process exit code.
func runUpdate(ctx context.Context, opts runOptions, lookup config.LookupFunc, deps dependencies, logger *logrus.Logger) int {
	cfg, err := loadConfig(opts, lookup)
	if err != nil {
		logger.WithError(err).Error("Invalid configuration")
		return exitFailure
	}

	fetcher := deps.newFetcher(cfg, logger)
	publisher := &lazyPublisher{build: func() (gateway.Publisher, error) {
		return deps.newPublisher(cfg, logger)
	}}

	if err := usecase.NewUpdater(fetcher, publisher, logger).Run(ctx, cfg.GistID); err != nil {
		return handledExitCode(cfg.Strict)
	}
	return exitOK
}

// lazyPublisher builds the GitHub gateway on first use, so a construction
// failure surfaces as a publish failure after fetch and format have run.
type lazyPublisher struct {
	build func() (gateway.Publisher, error)
}

func (p *lazyPublisher) UpdateGist(ctx context.Context, gistID, content string) (string, error) {
	publisher, err := p.build()
	if err != nil {
		return "", fmt.Errorf("%w: failed to create GitHub gateway: %w", domain.ErrPublish, err)
	}
	return publisher.UpdateGist(ctx, gistID, content)
}

// handledExitCode is the exit code for a failure that has already been logged.
func handledExitCode(strict bool) int {
	if strict {
		return exitFailure
	}
	return exitOK
}

// loadDotEnv loads ./.env without overriding variables already set.
func loadDotEnv(logger *logrus.Logger) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.WithError(err).Warn("Failed to load .env file")
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().Duration("timeout", 0, "HTTP timeout for each request (overrides WAKABOX_HTTP_TIMEOUT, default 30s)")
	rootCmd.Flags().Bool("strict", false, "Exit with status 1 when fetching, formatting or publishing fails (also WAKABOX_STRICT)")
}
