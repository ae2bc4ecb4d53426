package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/career-pathway/internal/observability"
	"github.com/jonathan/career-pathway/internal/types"
	"github.com/spf13/cobra"
)

func newResolveProgramCmd() *cobra.Command {
	var (
		stepType string
		level    string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "resolve-program <name>",
		Short: "Resolve a program name to its catalog URL",
		Long:  "Resolve a program name to the college catalog URL it links to, reporting which catalog table matched.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := types.ResolveProgramRequest{
				Name:  strings.Join(args, " "),
				Type:  types.StepType(stepType),
				Level: level,
			}
			if err := req.Validate(); err != nil {
				return fmt.Errorf("invalid %s", types.FirstFieldError(err))
			}

			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			resp := a.resolver.Describe(req.Step())
			if asJSON {
				return writeJSON(cmd, resp)
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintResolution(req.Name, resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&stepType, "type", string(types.StepDegree), "Pathway step type (degree, transfer, internship, exam)")
	cmd.Flags().StringVar(&level, "level", "", "Pathway step level, e.g. \"A.S. (MDC)\"")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the response as JSON")
	return cmd
}

// writeJSON prints v as indented JSON on the command's output.
func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
