package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/jobscout/internal/extract"
	"github.com/jonathan/jobscout/internal/ingestion"
	"github.com/jonathan/jobscout/internal/observability"
	"github.com/jonathan/jobscout/internal/pipeline"
)

var extractCmd = &cobra.Command{
	Use:   "extract [url]",
	Short: "Extract the clean text of a job posting",
	Long: "Extract the text of a job posting from a URL, escalating through static, SPA, render and site " +
		"strategies until one yields enough content, or clean a pasted posting from --text-file. " +
		"When every strategy fails the command prints a diagnosis with manual steps.",
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

var (
	extractTextFile string
	extractOutDir   string
	extractJSON     bool
)

func init() {
	extractCmd.Flags().StringVarP(&extractTextFile, "text-file", "t", "", "Path to a pasted job posting to clean instead of fetching")
	extractCmd.Flags().StringVarP(&extractOutDir, "out", "o", "", "Output directory for cleaned text and metadata, or the diagnostic screenshot on failure")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "Print the result as JSON")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if extractTextFile == "" && len(args) == 0 {
		return fmt.Errorf("either a URL argument or --text-file must be provided")
	}
	if extractTextFile != "" && len(args) > 0 {
		return fmt.Errorf("a URL argument and --text-file are mutually exclusive; provide only one")
	}

	var content *pipeline.Content
	if extractTextFile != "" {
		raw, err := os.ReadFile(extractTextFile)
		if err != nil {
			return fmt.Errorf("failed to read text file: %w", err)
		}
		content = &pipeline.Content{Text: ingestion.CleanText(string(raw)), Strategy: "paste"}
	} else {
		svc, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		if verbose {
			svc.OnAttempt(func(_ string, a pipeline.Attempt) {
				logger.Info("attempt",
					zap.String("strategy", a.Strategy),
					zap.Int("visible_chars", a.VisibleTextLength),
					zap.Bool("sufficient", a.Sufficient),
					zap.String("detail", a.Detail))
			})
		}

		content, err = svc.ExtractJobContent(cmd.Context(), args[0])
		if err != nil {
			if ex, ok := pipeline.IsExhausted(err); ok {
				observability.NewPrinter(cmd.ErrOrStderr()).PrintDiagnosis(ex.Diagnosis)
				saveScreenshot(cmd, ex)
			}
			return err
		}
	}

	if extractOutDir != "" {
		meta := ingestion.NewMetadata(content.Text, content.URL, time.Now())
		meta.Strategy = content.Strategy
		meta.FromCache = content.FromCache
		if content.URL != "" {
			meta.Platform = string(extract.DetectPlatform(content.URL))
		}
		if err := ingestion.WriteOutput(extractOutDir, content.Text, meta); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Extracted job posting via %s\n", content.Strategy)
		fmt.Fprintf(out, "Cleaned text: %s/%s\n", extractOutDir, ingestion.CleanedTextFile)
		fmt.Fprintf(out, "Metadata: %s/%s\n", extractOutDir, ingestion.MetadataFile)
		return nil
	}

	if extractJSON {
		return writeJSON(cmd.OutOrStdout(), "", content)
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), content.Text)
	return err
}

// saveScreenshot writes the render capture of a failed extraction to --out.
func saveScreenshot(cmd *cobra.Command, ex *pipeline.ExhaustedError) {
	shot := ex.Screenshot()
	if shot == nil || extractOutDir == "" {
		return
	}
	path, err := ingestion.WriteScreenshot(extractOutDir, shot)
	if err != nil {
		logger.Warn("failed to save diagnostic screenshot", zap.Error(err))
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Screenshot: %s\n", path)
}
