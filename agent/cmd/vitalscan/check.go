package main

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vitalscan/vitalscan/agent/internal/preflight"
)

func checkCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the API certificate and that the credential is set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := setup(opts)
			if err != nil {
				return err
			}

			r := preflight.Run(cmd.Context(), cfg.API, nil)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(r); err != nil {
				return err
			}

			slog.Info("preflight complete",
				"certificate", r.Certificate.Status,
				"days_left", r.Certificate.DaysLeft,
				"key_present", r.KeyPresent,
			)
			if !r.OK() {
				return fail(errors.New("preflight failed"))
			}
			return nil
		},
	}
}
