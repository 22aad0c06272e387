package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobscout/internal/ingestion"
	"github.com/jonathan/jobscout/internal/observability"
	"github.com/jonathan/jobscout/internal/types"
)

var parseJobCmd = &cobra.Command{
	Use:   "parse-job",
	Short: "Parse a job posting into a structured record",
	Long: "Parse a job posting from a cleaned text file or a URL into structured JSON. " +
		"A failed parse still produces a record, flagged parse_error, carrying the raw text.",
	RunE: runParseJob,
}

var parseResumeCmd = &cobra.Command{
	Use:   "parse-resume",
	Short: "Parse a resume (.txt, .md, .docx, .pdf) into a candidate profile",
	RunE:  runParseResume,
}

var (
	parseJobIn  string
	parseJobURL string
	parseJobOut string
	parseResIn  string
	parseResOut string
	parseStrict bool
)

func init() {
	parseJobCmd.Flags().StringVarP(&parseJobIn, "in", "i", "", "Path to cleaned job posting text")
	parseJobCmd.Flags().StringVarP(&parseJobURL, "url", "u", "", "URL to extract and parse")
	parseJobCmd.Flags().StringVarP(&parseJobOut, "out", "o", "", "Path to output JSON file (default stdout)")
	parseJobCmd.Flags().BoolVar(&parseStrict, "strict", false, "Exit non-zero when the record is degraded")

	parseResumeCmd.Flags().StringVarP(&parseResIn, "in", "i", "", "Path to resume document (required)")
	parseResumeCmd.Flags().StringVarP(&parseResOut, "out", "o", "", "Path to output JSON file (default stdout)")
	parseResumeCmd.Flags().BoolVar(&parseStrict, "strict", false, "Exit non-zero when the record is degraded")
	_ = parseResumeCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(parseJobCmd, parseResumeCmd)
}

func runParseJob(cmd *cobra.Command, _ []string) error {
	if parseJobIn == "" && parseJobURL == "" {
		return fmt.Errorf("either --in or --url must be provided")
	}
	if parseJobIn != "" && parseJobURL != "" {
		return fmt.Errorf("--in and --url are mutually exclusive; provide only one")
	}

	svc, err := openService(cmd.Context())
	if err != nil {
		return err
	}
	defer svc.Close()

	var job *types.ParsedJobDescription
	if parseJobURL != "" {
		job, _, err = svc.ParseJobURL(cmd.Context(), parseJobURL)
		if err != nil {
			return err
		}
	} else {
		raw, err := os.ReadFile(parseJobIn)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		job = svc.ParseJob(cmd.Context(), ingestion.CleanText(string(raw)), parseJobIn)
	}

	if verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintJobDescription(job)
	}
	if err := writeJSON(cmd.OutOrStdout(), parseJobOut, job); err != nil {
		return err
	}
	if parseStrict && job.ParseError {
		return fmt.Errorf("job parse degraded: %s", job.ParseErrorReason)
	}
	return nil
}

func runParseResume(cmd *cobra.Command, _ []string) error {
	svc, err := openService(cmd.Context())
	if err != nil {
		return err
	}
	defer svc.Close()

	resume, err := svc.ParseResumeFile(cmd.Context(), parseResIn)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	if verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintResume(resume)
	}
	if err := writeJSON(cmd.OutOrStdout(), parseResOut, resume); err != nil {
		return err
	}
	if parseStrict && resume.ParseError {
		return fmt.Errorf("resume parse degraded: %s", resume.ParseErrorReason)
	}
	return nil
}
