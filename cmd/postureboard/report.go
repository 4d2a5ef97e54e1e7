package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tmnguyen/postureboard/internal/export"
	"github.com/tmnguyen/postureboard/internal/ingestion"
	"github.com/tmnguyen/postureboard/internal/observability"
	"github.com/tmnguyen/postureboard/internal/report"
)

var (
	reportInput      string
	reportOutput     string
	reportServices   []string
	reportSeverities []string
	reportTeams      []string
	reportDebug      bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build the posture report once and export it to xlsx",
	RunE: func(cmd *cobra.Command, args []string) error {
		level := "info"
		if reportDebug {
			level = "debug"
		}
		logger, err := observability.NewLogger(observability.LoggingConfig{
			Level:  level,
			Format: "console",
		})
		if err != nil {
			return err
		}
		defer logger.Sync()

		loader := ingestion.NewLoader(reportInput, logger, nil)
		table, err := loader.Load(cmd.Context())
		if err != nil {
			if errors.Is(err, ingestion.ErrNoFindings) {
				logger.Warn("No findings detected in this directory", zap.String("dir", reportInput))
			}
			return err
		}

		selection := report.Selection{
			Services:   reportServices,
			Severities: reportSeverities,
			Teams:      reportTeams,
		}
		view := selection.Apply(table)

		summary := report.Summarize(view)
		fmt.Printf("Total Findings: %d\n", summary.Total)
		fmt.Printf("Critical:       %d\n", summary.Critical)
		fmt.Printf("High:           %d\n", summary.High)
		fmt.Printf("Medium/Low:     %d\n", summary.MediumLow)

		fmt.Println("\nBy severity:")
		for _, b := range report.CountBySeverity(view) {
			fmt.Printf("  %-15s %d\n", b.Label, b.Count)
		}
		fmt.Println("\nBy team:")
		for _, b := range report.CountByTeam(view) {
			fmt.Printf("  %-25s %d\n", b.Label, b.Count)
		}

		if err := export.WriteFile(reportOutput, view); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		logger.Info("Report exported",
			zap.String("file", reportOutput),
			zap.Int("rows", len(view)))
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportInput, "input", "i", "exports", "Directory of JSON export files")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", export.FileName, "Output xlsx path")
	reportCmd.Flags().StringSliceVar(&reportServices, "service", nil, "Filter by service (repeatable)")
	reportCmd.Flags().StringSliceVar(&reportSeverities, "severity", nil, "Filter by severity (repeatable)")
	reportCmd.Flags().StringSliceVar(&reportTeams, "team", nil, "Filter by team (repeatable)")
	reportCmd.Flags().BoolVar(&reportDebug, "debug", false, "Enable debug logging")
	rootCmd.AddCommand(reportCmd)
}
