// Package main provides the jobscout command line: job posting acquisition,
// structured parsing and candidate match scoring.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/jobscout/internal/observability"
)

var rootCmd = &cobra.Command{
	Use:   "jobscout",
	Short: "Acquire job postings and score candidates against them",
	Long: "jobscout turns job posting URLs into clean text through an escalating chain of extractors " +
		"(static HTML, embedded SPA state, headless browser, site recipes), parses postings and resumes " +
		"into structured records, and ranks jobs for a candidate.",
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

var (
	cfgFile  string
	verbose  bool
	jsonLogs bool

	logger = zap.NewNop()
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (JSON, YAML or TOML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging and formatted summaries")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "log in JSON format")
}

func setupLogging(_ *cobra.Command, _ []string) error {
	l, err := observability.NewLogger(jsonLogs, verbose)
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	logger = l
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
