// Package main provides the entry point for the career pathway API server and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree. Commands are constructed fresh so that
// flag state never leaks between invocations.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pathway_agent",
		Short:         "Career Pathway HTTP API Server",
		Long:          "Career Pathway suggests careers from a quiz, generates education pathways toward a career, and links pathway steps to the college's program catalog.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", "", "Path to a JSON config file")

	rootCmd.AddCommand(
		newServeCmd(),
		newResolveProgramCmd(),
		newPathwayCmd(),
		newSyncCatalogCmd(),
		newEstimateCostCmd(),
	)
	return rootCmd
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
