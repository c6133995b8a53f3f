package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func NewRunCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scheduler once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load(cmd)
			if err != nil {
				return err
			}
			runner, err := newRunner(cfg, log)
			if err != nil {
				return err
			}

			report := runner.Run(cmd.Context())
			logReport(log, report)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(report.Results()); err != nil {
					return err
				}
			}
			return report.Err()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the run report as JSON")

	return cmd
}
