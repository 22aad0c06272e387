package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobscout/internal/observability"
	"github.com/jonathan/jobscout/internal/types"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank jobs for a candidate",
	Long: "Score a candidate profile against a batch of parsed jobs. Only jobs scoring 60 or higher are " +
		"returned, best first. Uses the LLM matcher when an API key is configured and the deterministic " +
		"scorer otherwise.",
	RunE: runMatch,
}

var (
	matchResume   string
	matchJobs     string
	matchCriteria string
	matchOut      string
	matchTable    bool
)

func init() {
	matchCmd.Flags().StringVarP(&matchResume, "resume", "r", "", "Path to a parsed resume JSON file (required)")
	matchCmd.Flags().StringVarP(&matchJobs, "jobs", "j", "", "Path to a JSON array of parsed jobs (required)")
	matchCmd.Flags().StringVarP(&matchCriteria, "criteria", "c", "", "Path to matching criteria JSON (derived from the resume when omitted)")
	matchCmd.Flags().StringVarP(&matchOut, "out", "o", "", "Path to output JSON file (default stdout)")
	matchCmd.Flags().BoolVar(&matchTable, "table", false, "Print a summary table instead of JSON")
	_ = matchCmd.MarkFlagRequired("resume")
	_ = matchCmd.MarkFlagRequired("jobs")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	var profile types.ParsedResume
	if err := readJSON(matchResume, &profile); err != nil {
		return err
	}
	var jobs []*types.ParsedJobDescription
	if err := readJSON(matchJobs, &jobs); err != nil {
		return err
	}
	var criteria *types.JobMatchingCriteria
	if matchCriteria != "" {
		criteria = &types.JobMatchingCriteria{}
		if err := readJSON(matchCriteria, criteria); err != nil {
			return err
		}
	}

	svc, err := openService(cmd.Context())
	if err != nil {
		return err
	}
	defer svc.Close()

	matches, err := svc.ScoreCandidateAgainstJobs(cmd.Context(), &profile, jobs, criteria)
	if err != nil {
		return fmt.Errorf("failed to score jobs: %w", err)
	}

	if matchTable {
		observability.NewPrinter(cmd.OutOrStdout()).PrintMatches(matches)
		return nil
	}
	return writeJSON(cmd.OutOrStdout(), matchOut, matches)
}
