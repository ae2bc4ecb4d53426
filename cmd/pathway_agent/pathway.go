package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/career-pathway/internal/observability"
	"github.com/jonathan/career-pathway/internal/pathwayclient"
	"github.com/jonathan/career-pathway/internal/types"
	"github.com/spf13/cobra"
)

func newPathwayCmd() *cobra.Command {
	var (
		serverURL string
		attempts  int
		baseDelay time.Duration
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "pathway <career>",
		Short: "Generate an education pathway toward a career",
		Long: `Generate an education pathway toward a career. With --server the request goes
to a running API server and is retried with backoff; otherwise the model is called directly.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			career := strings.TrimSpace(strings.Join(args, " "))
			if career == "" {
				return fmt.Errorf("career is required")
			}

			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			var pathway *types.Pathway
			if serverURL != "" {
				client, err := pathwayclient.New(pathwayclient.Options{
					BaseURL:     serverURL,
					MaxAttempts: attempts,
					BaseDelay:   baseDelay,
					Logger:      a.logger,
				})
				if err != nil {
					return err
				}
				pathway, err = client.Generate(cmd.Context(), career)
				if err != nil {
					return err
				}
			} else {
				if err := a.connect(cmd.Context()); err != nil {
					return err
				}
				pathway, err = a.advisor().GeneratePathway(cmd.Context(), career)
				if err != nil {
					return fmt.Errorf("failed to generate pathway: %w", err)
				}
			}

			if asJSON {
				return writeJSON(cmd, pathway)
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintPathway(pathway)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "Base URL of a running API server, e.g. http://localhost:8080")
	cmd.Flags().IntVar(&attempts, "attempts", pathwayclient.DefaultMaxAttempts, "Maximum request attempts against --server")
	cmd.Flags().DurationVar(&baseDelay, "retry-delay", pathwayclient.DefaultBaseDelay, "Delay before the first retry; doubles each attempt")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the pathway as JSON")
	return cmd
}
