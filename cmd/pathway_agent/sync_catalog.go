package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jonathan/career-pathway/internal/fetch"
	"github.com/jonathan/career-pathway/internal/observability"
	"github.com/jonathan/career-pathway/internal/programs"
	"github.com/spf13/cobra"
)

func newSyncCatalogCmd() *cobra.Command {
	var (
		outFile string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "sync-catalog",
		Short: "Rebuild the program catalog from the college website",
		Long: `Fetch each catalog tier's listing page, extract program titles and slugs, and
write the rebuilt catalog as JSON. Point CATALOG_PATH at the output to serve it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			opts := fetch.DefaultOptions()
			opts.Timeout = timeout

			a.logger.Info("syncing catalog", "college", a.catalog.College, "tiers", len(a.catalog.Tiers))
			synced, err := programs.SyncCatalog(cmd.Context(), a.catalog, opts)
			if err != nil {
				return fmt.Errorf("failed to sync catalog: %w", err)
			}
			if err := synced.Validate(); err != nil {
				return fmt.Errorf("synced catalog is invalid: %w", err)
			}

			data, err := json.MarshalIndent(synced, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal catalog: %w", err)
			}
			if err := os.WriteFile(outFile, append(data, '\n'), 0644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}

			counts := make(map[string]int, len(synced.Tiers))
			order := make([]string, 0, len(synced.Tiers))
			for _, tier := range synced.Tiers {
				counts[tier.Name] = len(tier.Entries)
				order = append(order, tier.Name)
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintCatalogSummary(synced.College, counts, order)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Output: %s\n", outFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Path to output catalog JSON file")
	cmd.Flags().DurationVar(&timeout, "timeout", fetch.DefaultTimeout, "Per-page fetch timeout")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
