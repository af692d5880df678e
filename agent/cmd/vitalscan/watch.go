package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/vitalscan/vitalscan/agent/internal/assess"
	"github.com/vitalscan/vitalscan/agent/internal/config"
	"github.com/vitalscan/vitalscan/agent/internal/metrics"
	"github.com/vitalscan/vitalscan/agent/internal/notify"
)

func watchCmd(opts *options) *cobra.Command {
	var explain bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-assess every watch.interval and log patients that change category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, base, err := setup(opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			reloads := make(chan *config.Config, 1)
			if opts.configPath != "" {
				go func() {
					if err := config.Watch(ctx, opts.configPath, func(updated *config.Config) {
						offer(reloads, updated)
					}); err != nil {
						slog.Error("config watcher stopped", "err", err)
					}
				}()
			}

			m := metrics.New()
			engine := assess.NewEngine()
			notifier := notify.New(cfg.Watch.Webhooks)
			w := cmd.OutOrStdout()

			cycle := func() {
				runID := newRunID(base)
				p := newPipeline(cfg, runID, m, nil)
				report, err := p.evaluate(ctx, explain)
				if err != nil {
					// A failed cycle keeps the previous baseline.
					slog.Error("watch: cycle failed", "err", err)
					return
				}
				res := engine.Process(report, time.Now())
				if err := writeReport(w, report); err != nil {
					slog.Error("watch: cannot print report", "err", err)
				}
				slog.Info("watch: cycle complete", "run", res.Run, "changes", len(res.Changes))
				if err := notifier.Notify(ctx, res); err != nil {
					slog.Warn("watch: some notifications failed", "err", err)
				}
			}

			slog.Info("vitalscan watch starting", "interval", cfg.Watch.Interval)
			ticker := time.NewTicker(cfg.Watch.Interval)
			defer ticker.Stop()

			cycle()
			for {
				select {
				case <-ctx.Done():
					slog.Info("vitalscan watch shutting down")
					return nil

				case <-ticker.C:
					cycle()

				case updated := <-reloads:
					if err := applyOverrides(updated, opts); err != nil {
						slog.Error("watch: reloaded config rejected", "err", err)
						continue
					}
					if updated.API.BaseURL != cfg.API.BaseURL {
						engine.Reset()
					}
					if updated.Watch.Interval != cfg.Watch.Interval {
						ticker.Reset(updated.Watch.Interval)
					}
					cfg = updated
					notifier = notify.New(cfg.Watch.Webhooks)
					base = newLogger(cfg.SlogLevel())
					slog.SetDefault(base)
					slog.Info("watch: config applied", "interval", cfg.Watch.Interval, "base_url", cfg.API.BaseURL)
				}
			}
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "log the per-patient risk breakdown on every cycle")
	return cmd
}

// offer replaces any pending config in ch with cfg.
func offer(ch chan *config.Config, cfg *config.Config) {
	for {
		select {
		case ch <- cfg:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
