package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/IAM-Haris-K/NFX/pkg/nfx"
)

func newGenerateCmd() *cobra.Command {
	var flags dashboardFlags
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Synthesize a traffic window and print the charted series",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			dash, spec, view, err := flags.build(cfg)
			if err != nil {
				return err
			}

			seq, err := dash.GenerateWindow(spec)
			if err != nil {
				return err
			}
			series := view.Select(seq)
			if series.Len() == 0 {
				return fmt.Errorf("no %s samples in the window", view)
			}

			w := cmd.OutOrStdout()
			heading.Fprintf(w, "  %s traffic, %d samples every %s\n", view, series.Len(), spec.Cadence)
			fmt.Fprintln(w, "  ────────────────────────────────────────")
			peak := series.Stats().Max
			for _, s := range series.View() {
				line := fmt.Sprintf("  %s  %s", s.Timestamp.Format(nfx.TooltipLayout), nfx.PacketCount(s.Value))
				if s.Value == peak {
					warn.Fprintln(w, line+"  peak")
					continue
				}
				fmt.Fprintln(w, line)
			}

			printStats(cmd, series.Stats())
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func printStats(cmd *cobra.Command, st nfx.Stats) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w)
	muted.Fprintf(w, "  from %s to %s\n", st.From.Format(nfx.TooltipLayout), st.To.Format(nfx.TooltipLayout))
	fmt.Fprintf(w, "  Total:  %s\n", humanize.Comma(int64(st.Total+0.5)))
	fmt.Fprintf(w, "  Mean:   %s\n", humanize.CommafWithDigits(st.Mean, 1))
	fmt.Fprintf(w, "  Min:    %s\n", humanize.Comma(int64(st.Min+0.5)))
	fmt.Fprintf(w, "  Max:    %s\n", humanize.Comma(int64(st.Max+0.5)))
	fmt.Fprintf(w, "  P95:    %s\n", humanize.CommafWithDigits(st.P95, 1))
}
