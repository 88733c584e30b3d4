package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Zachdehooge/painel-ambiental/internal/config"
	"github.com/Zachdehooge/painel-ambiental/internal/dashboard"
	"github.com/Zachdehooge/painel-ambiental/internal/dataset"
	"github.com/Zachdehooge/painel-ambiental/internal/generator"
	"github.com/Zachdehooge/painel-ambiental/internal/logging"
	"github.com/Zachdehooge/painel-ambiental/internal/server"
	"github.com/Zachdehooge/painel-ambiental/internal/tui"
)

var (
	configPath string
	outputFile string
	chartDir   string
	verbose    bool
	interval   int
	watchMode  bool
	listen     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "painel",
		Short: "Generate the environmental monitoring dashboard",
		Long: `Painel Ambiental builds the environmental monitoring dashboard:
temperature, NDVI and precipitation charts, the drone survey map and
animated counters, as a static HTML page, a live web server or a
terminal view.`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, log := setup(cmd)

			board := dashboard.New(cfg, logging.Component(log, "board"))
			if err := runRoot(cmd, cfg, board, log); err != nil {
				cmd.PrintErrln(err)
				os.Exit(1)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output HTML file path (default dashboard.html)")
	rootCmd.Flags().StringVar(&chartDir, "charts", "", "Also write PNG charts to this directory")
	rootCmd.Flags().IntVarP(&interval, "interval", "i", 30, "Snapshot update interval in seconds (minimum 5)")
	rootCmd.Flags().BoolVar(&watchMode, "watch", false, "Keep the dashboard snapshot updated")

	addListCmd(rootCmd)
	addChartCmd(rootCmd)
	addLiveCmd(rootCmd)
	addServeCmd(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the config and builds the logger. Flags win over the file.
func setup(cmd *cobra.Command) (*config.Config, zerolog.Logger) {
	cfg, err := config.Load(configPath)
	if err != nil {
		cmd.PrintErrln(fmt.Errorf("failed to load config: %w", err))
		os.Exit(1)
	}
	if outputFile != "" {
		cfg.Output = outputFile
	}
	if chartDir != "" {
		cfg.ChartDir = chartDir
	}
	if listen != "" {
		cfg.Listen = listen
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	return cfg, logging.New(cfg.LogLevel, os.Stderr)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// runRoot generates the dashboard and, in watch mode, keeps it updated.
// board is closed before it returns.
func runRoot(cmd *cobra.Command, cfg *config.Config, board *dashboard.Board, log zerolog.Logger) error {
	defer board.Close()

	if err := generateDashboard(cmd, cfg, board); err != nil {
		return fmt.Errorf("failed to generate dashboard: %w", err)
	}
	if watchMode {
		return runWatchMode(cmd, cfg, board, log)
	}
	return nil
}

// generateDashboard writes the static page, its snapshot and, when asked,
// the chart images.
func generateDashboard(cmd *cobra.Command, cfg *config.Config, board *dashboard.Board) error {
	if verbose {
		cmd.Println(fmt.Sprintf("Generating HTML to %s...", cfg.Output))
	}

	snap := board.Snapshot()
	if err := generator.GenerateDashboardHTML(snap, cfg.Output, refreshInterval()); err != nil {
		return fmt.Errorf("failed to generate HTML: %w", err)
	}
	if err := generator.WriteSnapshot(cfg.Snapshot, snap); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	if cfg.ChartDir != "" {
		paths, err := generator.WriteChartImages(cfg.ChartDir, snap.Charts)
		if err != nil {
			return fmt.Errorf("failed to write charts: %w", err)
		}
		for _, p := range paths {
			cmd.Println(fmt.Sprintf("Chart saved to %s", p))
		}
	}

	cmd.Println(fmt.Sprintf("Dashboard saved to %s", cfg.Output))
	return nil
}

func refreshInterval() time.Duration {
	if interval < 5 {
		interval = 5
	}
	return time.Duration(interval) * time.Second
}

// runWatchMode animates the board and keeps the snapshot file the page polls
// up to date until interrupted.
func runWatchMode(cmd *cobra.Command, cfg *config.Config, board *dashboard.Board, log zerolog.Logger) error {
	ctx, stop := signalContext()
	defer stop()

	if err := board.Start(ctx); err != nil {
		return fmt.Errorf("failed to start dashboard: %w", err)
	}
	// The static page has no viewport to report, so every counter runs.
	for _, e := range board.Snapshot().Elements {
		board.ReportVisibility(e.ID, 1)
	}

	cmd.Println(fmt.Sprintf("Watch mode activated. Updating %s every %s. Press Ctrl+C to stop.", cfg.Snapshot, refreshInterval()))
	if err := generator.RunSnapshotWriter(ctx, board, cfg.Snapshot, refreshInterval(), logging.Component(log, "snapshot")); err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}

// addListCmd adds a 'list' subcommand to show surveys and stations without generating HTML
func addListCmd(rootCmd *cobra.Command) {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List drone surveys and weather stations",
		Run: func(cmd *cobra.Command, args []string) {
			surveys := dataset.Surveys()
			cmd.Println("Drone Surveys:")
			for _, s := range surveys {
				cmd.Println("---")
				cmd.Println(fmt.Sprintf("Name: %s", s.Name))
				cmd.Println(fmt.Sprintf("Area: %.0f ha", s.AreaHa))
				cmd.Println(fmt.Sprintf("Resolution: %.0f cm/px", s.Resolution))
				cmd.Println(fmt.Sprintf("Date: %s", s.Date))
				cmd.Println(fmt.Sprintf("NDVI: %.2f", s.NDVI))
				cmd.Println(fmt.Sprintf("Coverage: %s", s.Coverage))
			}
			cmd.Println(fmt.Sprintf("Total surveyed: %.0f ha", dataset.TotalSurveyedArea(surveys)))

			stations := dataset.Stations()
			cmd.Println()
			cmd.Println(fmt.Sprintf("Weather Stations (%d of %d online):", dataset.OnlineStations(stations), len(stations)))
			for _, st := range stations {
				cmd.Println(fmt.Sprintf("  %-16s %s", st.Name, dataset.StatusLabel(st.Status)))
			}
		},
	}

	rootCmd.AddCommand(listCmd)
}

var chartNames = map[string]int{"temperature": 0, "ndvi": 1, "precipitation": 2}

// addChartCmd adds a 'chart' subcommand that plots one chart in the terminal
func addChartCmd(rootCmd *cobra.Command) {
	var days int
	var region string

	chartCmd := &cobra.Command{
		Use:       "chart [temperature|ndvi|precipitation]",
		Short:     "Plot a dashboard chart in the terminal",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"temperature", "ndvi", "precipitation"},
		Run: func(cmd *cobra.Command, args []string) {
			cfg, _ := setup(cmd)
			if days > 0 {
				cfg.View.TemperatureDays = days
			}
			if region != "" {
				cfg.View.NDVIRegion = region
			}
			if err := cfg.Validate(); err != nil {
				cmd.PrintErrln(err)
				os.Exit(1)
			}

			board := dashboard.New(cfg, zerolog.Nop())
			c := board.Snapshot().Charts[chartNames[args[0]]]
			board.Close()

			out, err := generator.RenderASCII(c, 70, 12)
			if err != nil {
				cmd.PrintErrln(fmt.Errorf("failed to plot %s: %w", args[0], err))
				os.Exit(1)
			}
			cmd.Println(c.Title)
			cmd.Println(out)
		},
	}
	chartCmd.Flags().IntVarP(&days, "days", "d", 0, "Temperature period in days")
	chartCmd.Flags().StringVarP(&region, "region", "r", "", "NDVI region (all, north, south, center)")

	rootCmd.AddCommand(chartCmd)
}

// addLiveCmd adds a 'live' subcommand with the terminal dashboard
func addLiveCmd(rootCmd *cobra.Command) {
	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "Show the animated dashboard in the terminal",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, _ := setup(cmd)
			ctx, stop := signalContext()
			defer stop()

			// The alt screen owns the terminal; log lines would tear it.
			log := logging.New(cfg.LogLevel, io.Discard)
			if err := tui.Run(ctx, dashboard.New(cfg, log)); err != nil {
				cmd.PrintErrln(err)
				os.Exit(1)
			}
		},
	}

	rootCmd.AddCommand(liveCmd)
}

// addServeCmd adds a 'serve' subcommand with the live web dashboard
func addServeCmd(rootCmd *cobra.Command) {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the live dashboard over HTTP",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, log := setup(cmd)
			ctx, stop := signalContext()
			defer stop()

			cmd.Println(fmt.Sprintf("Open at http://localhost%s/", cfg.Listen))
			if err := server.New(cfg, logging.Component(log, "server")).Run(ctx); err != nil {
				cmd.PrintErrln(fmt.Errorf("server failed: %w", err))
				os.Exit(1)
			}
		},
	}
	serveCmd.Flags().StringVarP(&listen, "listen", "l", "", "Listen address (default :8080)")

	rootCmd.AddCommand(serveCmd)
}
