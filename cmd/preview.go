package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/naka-gawa/wakabox/internal/config"
	"github.com/naka-gawa/wakabox/internal/usecase"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Prints the report to stdout without updating the Gist",
	Long:  `Fetches the WakaTime stats and prints the formatted report exactly as it would be written to the Gist. Nothing is published.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		timeout, _ := cmd.InheritedFlags().GetDuration("timeout")

		logger := newLogger(verbose)
		loadDotEnv(logger)

		opts := runOptions{timeout: timeout}
		os.Exit(runPreview(context.Background(), opts, os.LookupEnv, defaultDependencies(), logger, cmd.OutOrStdout()))
	},
}

// runPreview fetches and formats the report and writes it to out.
// Unlike the root command, any failure exits 1: preview is run by hand.
func runPreview(ctx context.Context, opts runOptions, lookup config.LookupFunc, deps dependencies, logger *logrus.Logger, out io.Writer) int {
	cfg, err := loadConfig(opts, lookup)
	if err != nil {
		logger.WithError(err).Error("Invalid configuration")
		return exitFailure
	}

	report, err := usecase.NewUpdater(deps.newFetcher(cfg, logger), nil, logger).Preview(ctx)
	if err != nil {
		return exitFailure
	}
	fmt.Fprintln(out, report)
	return exitOK
}

func init() {
	rootCmd.AddCommand(previewCmd)
}
