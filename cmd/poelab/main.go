package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"text/tabwriter"

	"github.com/san-kum/poelab/internal/catalog"
	"github.com/san-kum/poelab/internal/config"
	"github.com/san-kum/poelab/internal/viz"
	"github.com/spf13/cobra"
)

var (
	configFile string
	preset     string
	catalogDir string
	logLevel   string
	logFile    string

	dt        float64
	duration  float64
	fps       int
	speed     float64
	pushes    []string
	sets      []string
	csvPath   string
	jsonPath  string
	svgPath   string
	plot      bool
	realtime  bool
	watchFile bool
	theme     string
	workers   int
	outDir    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "poelab",
		Short:        "predict, observe, explain physics lab",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         runPicker,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&catalogDir, "catalog", config.DefaultCatalog, "scenario catalog directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to a file")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario headless and report the final state",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep in seconds")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	runCmd.Flags().Float64Var(&speed, "speed", config.DefaultSpeed, "playback speed with --realtime")
	runCmd.Flags().StringArrayVar(&pushes, "push", nil, "apply a force: id:fx,fy[@t]")
	runCmd.Flags().StringArrayVar(&sets, "set", nil, "set a property: id.property=value[@t]")
	runCmd.Flags().StringVar(&csvPath, "csv", "", "write per-tick body states to a CSV file")
	runCmd.Flags().StringVar(&jsonPath, "json", "", "write the run trace and metrics to a JSON file")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "draw the final scene and body paths to an SVG file")
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot the speed of every dynamic body")
	runCmd.Flags().BoolVar(&realtime, "realtime", false, "tick on the wall clock instead of as fast as possible")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run a scenario with the live terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep in seconds")
	liveCmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	liveCmd.Flags().Float64Var(&speed, "speed", config.DefaultSpeed, "playback speed")
	liveCmd.Flags().BoolVar(&watchFile, "watch", false, "reload the scenario file when it changes")
	liveCmd.Flags().StringVar(&theme, "theme", "", "colour theme")

	validateCmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "check a scenario document",
		Args:  cobra.ExactArgs(1),
		RunE:  validateScenario,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list built-in and saved scenarios",
		RunE:  listScenarios,
	}

	addCmd := &cobra.Command{
		Use:   "add [file] [slug]",
		Short: "validate a scenario and save it to the catalog",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  addScenario,
	}

	batchCmd := &cobra.Command{
		Use:   "batch [plan.yaml]",
		Short: "run a plan of headless runs and sweeps in parallel",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "parallel simulations")
	batchCmd.Flags().StringVar(&outDir, "out", "", "write one JSON trace per run to this directory")

	tutorCmd := &cobra.Command{
		Use:   "tutor [scenario]",
		Short: "chat with the tutor of a scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTutor,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSCENARIO\tDT\tDURATION\tFPS\tSPEED")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%.4fs\t%.0fs\t%d\t%.2fx\n", name, orDash(p.Scenario), p.Dt, p.Duration, p.FPS, p.Speed)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, batchCmd, validateCmd, listCmd, addCmd, tutorCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers the config file (or the defaults), the preset and the
// flags the user set explicitly, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.Apply(p)
	}

	flags := cmd.Flags()
	if flags.Changed("catalog") {
		cfg.CatalogDir = catalogDir
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = logFile
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("speed") {
		cfg.Speed = speed
	}
	return cfg, cfg.Validate()
}

// newLogger builds the slog logger for cfg. The terminal views own the
// screen, so without a log file they log nowhere.
func newLogger(cfg *config.Config, tui bool) (*slog.Logger, func(), error) {
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	var out io.Writer = os.Stderr
	closer := func() {}
	switch {
	case cfg.Log.File != "":
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		closer = func() { _ = f.Close() }
	case tui:
		out = io.Discard
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})), closer, nil
}

// resolve finds the scenario named by args, or the configured default.
func resolve(cfg *config.Config, args []string) (catalog.Source, error) {
	ref := cfg.Scenario
	if len(args) > 0 {
		ref = args[0]
	}
	if ref == "" {
		return catalog.Source{}, fmt.Errorf("no scenario given (try: poelab list)")
	}
	return catalog.Resolve(ref, catalog.New(cfg.CatalogDir))
}

func runPicker(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, closeLog, err := newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer closeLog()

	entries := catalog.Builtins()
	saved, err := catalog.New(cfg.CatalogDir).List()
	if err != nil {
		log.Warn("failed to list catalog", "dir", cfg.CatalogDir, "error", err)
	}
	entries = append(entries, saved...)

	return viz.RunPicker(entries, func(e catalog.Entry) (viz.Model, error) {
		ref := e.Slug
		if !e.Builtin() {
			ref = e.Path
		}
		src, err := catalog.Resolve(ref, nil)
		if err != nil {
			return viz.Model{}, err
		}
		return newLiveModel(cfg, src, nil, log)
	})
}

func listScenarios(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	saved, err := catalog.New(cfg.CatalogDir).List()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SLUG\tSOURCE\tTITLE\tCONCEPT")
	for _, e := range append(catalog.Builtins(), saved...) {
		source := "builtin"
		if !e.Builtin() {
			source = e.Path
		}
		fmt.Fprintf(w, "%s %s\t%s\t%s\t%s\n", e.Emoji, e.Slug, source, e.Title, e.Description)
	}
	return w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
