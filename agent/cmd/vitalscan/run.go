package main

import (
	"github.com/spf13/cobra"

	"github.com/vitalscan/vitalscan/agent/internal/metrics"
)

func runCmd(opts *options) *cobra.Command {
	var (
		doSubmit bool
		explain  bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Collect all patients once and print the assessment as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, base, err := setup(opts)
			if err != nil {
				return err
			}
			runID := newRunID(base)

			p := newPipeline(cfg, runID, metrics.New(), nil)
			report, err := p.evaluate(cmd.Context(), explain)
			if err != nil {
				return fail(err)
			}
			if err := writeReport(cmd.OutOrStdout(), report); err != nil {
				return fail(err)
			}
			if doSubmit {
				if err := p.submit(cmd.Context(), report); err != nil {
					return fail(err)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&doSubmit, "submit", false, "post the report to submit.path after printing it")
	cmd.Flags().BoolVar(&explain, "explain", false, "log the per-patient risk breakdown")
	return cmd
}
