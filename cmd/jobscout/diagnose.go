package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/jobscout/internal/observability"
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose <url>",
	Short: "Explain why a job page resists automated extraction",
	Args:  cobra.ExactArgs(1),
	RunE:  runDiagnose,
}

var diagnoseJSON bool

func init() {
	diagnoseCmd.Flags().BoolVar(&diagnoseJSON, "json", false, "Print the diagnosis as JSON")

	rootCmd.AddCommand(diagnoseCmd)
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	svc, err := openService(cmd.Context())
	if err != nil {
		return err
	}
	defer svc.Close()

	d, err := svc.Diagnose(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if diagnoseJSON {
		return writeJSON(cmd.OutOrStdout(), "", d)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintDiagnosis(d)
	return nil
}
