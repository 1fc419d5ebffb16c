// Package main provides the jti CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "jti",
		Short: "Just Transition Index pipeline for UK local authorities",
		Long: `jti composes independently-sourced emissions, fuel, population, and
deprivation tables into one LAD-year base table, scores it, and reports
ranked transition-pressure snapshots.`,
		Version: version,
	}

	rootCmd.AddCommand(
		newComposeCmd(),
		newScoreCmd(),
		newRankCmd(),
		newRunsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
