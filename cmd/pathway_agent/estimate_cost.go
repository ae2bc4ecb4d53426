package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/career-pathway/internal/finance"
	"github.com/jonathan/career-pathway/internal/observability"
	"github.com/jonathan/career-pathway/internal/types"
	"github.com/spf13/cobra"
)

func newEstimateCostCmd() *cobra.Command {
	var (
		inFile string
		career string
		efc    float64
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "estimate-cost",
		Short: "Estimate the cost and return of a pathway",
		Long:  "Price each step of a pathway JSON file, apply financial aid for the given expected family contribution and project the ten-year return.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(inFile)
			if err != nil {
				return fmt.Errorf("failed to read input file: %w", err)
			}
			var pathway types.Pathway
			if err := json.Unmarshal(data, &pathway); err != nil {
				return fmt.Errorf("failed to parse pathway JSON: %w", err)
			}

			if career == "" {
				career = pathway.Title
			}
			req := types.CostEstimateRequest{Career: career, Steps: pathway.Steps, EFC: &efc}
			if err := req.Validate(); err != nil {
				return fmt.Errorf("invalid %s", types.FirstFieldError(err))
			}

			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			est := a.estimator.Estimate(req.Career, req.Steps, *req.EFC)
			if asJSON {
				return writeJSON(cmd, est)
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintCostEstimate(&est)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inFile, "in", "i", "", "Path to a pathway JSON file")
	cmd.Flags().StringVar(&career, "career", "", "Career used for the salary projection (defaults to the pathway title)")
	cmd.Flags().Float64Var(&efc, "efc", finance.DefaultEFC, "Expected family contribution")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the estimate as JSON")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
