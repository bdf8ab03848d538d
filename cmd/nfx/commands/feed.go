package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/IAM-Haris-K/NFX/internal/app/config"
	"github.com/IAM-Haris-K/NFX/pkg/nfx"
)

func newFeedCmd() *cobra.Command {
	var (
		watch bool
		every time.Duration
		addr  string
	)
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Run the live sample feed with its metrics endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Metrics.Addr = addr
			}
			logger, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			feed, err := nfx.NewFeed(cfg, nfx.WithLogger(logger))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := feed.Start(); err != nil {
				return err
			}
			logger.Info("metrics_listening", "addr", feed.MetricsAddr())

			if watch && cfgFile != "" {
				go func() {
					err := config.Watch(ctx, cfgFile,
						func(next *config.Config) {
							if err := feed.Reconfigure(next); err != nil {
								logger.Warn("config_reload_rejected", "error", err)
							}
						},
						func(err error) { logger.Warn("config_reload_rejected", "error", err) })
					if err != nil {
						logger.Error("config_watch_failed", "error", err)
					}
				}()
			}

			ticker := time.NewTicker(every)
			defer ticker.Stop()
			w := cmd.OutOrStdout()
			for {
				select {
				case <-ctx.Done():
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					return feed.Shutdown(shutdownCtx)
				case <-ticker.C:
					snap := feed.Snapshot()
					if snap.Len() == 0 {
						muted.Fprintln(w, "  window empty")
						continue
					}
					totals := snap.Totals()
					st := totals.Stats()
					fmt.Fprintf(w, "  [%s] %s samples, last %s, peak %s\n",
						time.Now().Format(time.RFC3339),
						humanize.Comma(int64(snap.Len())),
						nfx.PacketCount(totals.At(totals.Len()-1).Value),
						nfx.PacketCount(st.Max))
				}
			}
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "reload cadence, protocols and retention when --config changes")
	cmd.Flags().DurationVar(&every, "every", 5*time.Second, "snapshot print interval")
	cmd.Flags().StringVar(&addr, "addr", "", "metrics listen address override")
	return cmd
}
