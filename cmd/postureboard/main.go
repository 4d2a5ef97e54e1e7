// Package main provides the PostureBoard entry point: a security posture
// report server and one-shot report CLI over cloud scanner JSON exports.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (injected at build time via ldflags)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "postureboard",
	Short: "PostureBoard - aggregated security posture reporting",
	Long: "PostureBoard normalizes JSON security-finding exports from cloud " +
		"scanners into one table, derives remediation metadata, and serves " +
		"a filterable report with metrics, charts, and spreadsheet export.",
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("PostureBoard %s (commit: %s, built: %s)\n", Version, GitCommit, BuildTime)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
