package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLocateCmd() *cobra.Command {
	var (
		flags  dashboardFlags
		x      float64
		width  float64
		height float64
		ticks  int
	)
	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Resolve the tooltip under a pointer x on the synthesized chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if width > 0 {
				cfg.Viewport.Width = width
			}
			if height > 0 {
				cfg.Viewport.Height = height
			}
			dash, spec, view, err := flags.build(cfg)
			if err != nil {
				return err
			}

			seq, err := dash.GenerateWindow(spec)
			if err != nil {
				return err
			}
			frame, err := dash.Frame(seq, view)
			if err != nil {
				return err
			}
			tip, err := dash.Tooltip(frame, x)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			heading.Fprintln(w, "  "+tip.Title)
			good.Fprintln(w, "  "+tip.Body)
			muted.Fprintf(w, "  anchor left=%.1f top=%.1f\n", tip.Left, tip.Top)

			if ticks > 1 {
				fmt.Fprintln(w)
				for _, t := range frame.XTicks(ticks) {
					fmt.Fprintf(w, "  x %7.1f  %s\n", t.Pixel, t.Label)
				}
				for _, t := range frame.YTicks(ticks) {
					fmt.Fprintf(w, "  y %7.1f  %s\n", t.Pixel, t.Label)
				}
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().Float64Var(&x, "x", 0, "pointer x in viewport pixels, margins included")
	cmd.Flags().Float64Var(&width, "width", 0, "viewport width override")
	cmd.Flags().Float64Var(&height, "height", 0, "viewport height override")
	cmd.Flags().IntVar(&ticks, "ticks", 0, "also print about this many axis ticks")
	_ = cmd.MarkFlagRequired("x")
	return cmd
}
