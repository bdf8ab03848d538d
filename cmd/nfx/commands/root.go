package commands

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/IAM-Haris-K/NFX/pkg/nfx"
)

var (
	cfgFile  string
	logLevel string
	noColor  bool
)

var (
	heading = color.New(color.Bold)
	good    = color.New(color.FgGreen)
	warn    = color.New(color.FgYellow)
	bad     = color.New(color.FgRed, color.Bold)
	muted   = color.New(color.Faint)
)

func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:   "nfx",
		Short: "Network traffic visualization core",
		Long:  "NFX synthesizes network traffic windows, composes chart frames, resolves tooltips and runs a live sample feed with Prometheus metrics.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if noColor || os.Getenv("NO_COLOR") != "" {
				color.NoColor = true
			}
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (defaults apply when empty)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newGenerateCmd(),
		newLocateCmd(),
		newPacketsCmd(),
		newValidateCmd(),
		newFeedCmd(),
		newStatsCmd(),
	)

	return root
}

func loadConfig() (*nfx.Config, error) {
	if cfgFile == "" {
		return nfx.DefaultConfig(), nil
	}
	cfg, err := nfx.LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *nfx.Config, w io.Writer) (*slog.Logger, error) {
	lc := cfg.Log
	if logLevel != "" {
		lc.Level = logLevel
	}
	lvl, err := lc.SlogLevel()
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// sourceFor returns a seeded stream, or nil for the ambient one when seed is 0.
func sourceFor(seed int64) nfx.Source {
	if seed == 0 {
		return nil
	}
	return rand.New(rand.NewSource(seed))
}

// clockFor pins the clock to an RFC 3339 instant; empty means time.Now.
func clockFor(at string) (func() time.Time, error) {
	if at == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return nil, fmt.Errorf("--at: %w", err)
	}
	return func() time.Time { return t }, nil
}

func parseView(protocol string) (nfx.View, error) {
	if protocol == "" || protocol == "all" || protocol == "All" {
		return nfx.View{}, nil
	}
	p, err := nfx.ParseProtocol(protocol)
	if err != nil {
		return nfx.View{}, err
	}
	return nfx.View{}.WithProtocol(p), nil
}

// dashboardFlags are shared by the commands that synthesize a window.
type dashboardFlags struct {
	seed     int64
	at       string
	window   string
	protocol string
}

func (f *dashboardFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "seed for reproducible output (0 = random)")
	cmd.Flags().StringVar(&f.at, "at", "", "anchor instant as RFC 3339 (default now)")
	cmd.Flags().StringVar(&f.window, "window", "", "window preset: 24h or week (default from config)")
	cmd.Flags().StringVar(&f.protocol, "protocol", "all", "protocol to chart, or all for totals")
}

func (f *dashboardFlags) build(cfg *nfx.Config) (*nfx.Dashboard, nfx.WindowSpec, nfx.View, error) {
	clock, err := clockFor(f.at)
	if err != nil {
		return nil, nfx.WindowSpec{}, nfx.View{}, err
	}
	view, err := parseView(f.protocol)
	if err != nil {
		return nil, nfx.WindowSpec{}, nfx.View{}, err
	}

	dash, err := nfx.NewDashboard(cfg,
		nfx.WithSource(sourceFor(f.seed)),
		nfx.WithClock(clock),
		nfx.WithDashboardLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		return nil, nfx.WindowSpec{}, nfx.View{}, err
	}

	spec := dash.Window()
	switch f.window {
	case "":
	case "24h":
		spec = nfx.Last24Hours()
	case "week":
		spec = nfx.LastWeek()
	default:
		return nil, nfx.WindowSpec{}, nfx.View{}, fmt.Errorf("--window: unknown preset %q", f.window)
	}
	return dash, spec, view, nil
}
