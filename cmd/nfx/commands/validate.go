package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate a config file without starting anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if _, err := newLogger(cfg, cmd.ErrOrStderr()); err != nil {
				return err
			}

			name := cfgFile
			if name == "" {
				name = "(defaults)"
			}
			w := cmd.OutOrStdout()
			good.Fprintf(w, "  config %s looks good\n", name)
			fmt.Fprintf(w, "  Window:    %s .. %s every %s, %d steps\n",
				cfg.Window.StartOffset, cfg.Window.EndOffset, cfg.Window.Cadence, cfg.Window.Steps())
			fmt.Fprintf(w, "  Viewport:  %.0fx%.0f\n", cfg.Viewport.Width, cfg.Viewport.Height)
			fmt.Fprintf(w, "  Feed:      cadence %s, retention %s, on full %s\n",
				cfg.Feed.Cadence, cfg.Feed.Retention, cfg.Feed.OnQueueFull)
			fmt.Fprintf(w, "  Metrics:   %s\n", cfg.Metrics.Addr)
			return nil
		},
	}
}
