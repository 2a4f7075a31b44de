package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/san-kum/quanta/internal/automation"
	"github.com/san-kum/quanta/internal/config"
	"github.com/san-kum/quanta/internal/metrics"
	"github.com/san-kum/quanta/internal/sim"
	"github.com/san-kum/quanta/internal/viz"
	"github.com/san-kum/quanta/internal/window"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       uint64
	minQuanta  int
	initial    int
	logLevel   string
	// headless runs
	frames  int
	spawn   []string
	save    bool
	svgPath string
	// bench
	benchFrames int
	// sweep and trials
	sweepParam string
	sweepFrom  float64
	sweepTo    float64
	sweepSteps int
	trialCount int
	// window size
	winWidth  int32
	winHeight int32
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "quanta",
		Short:        "2d particle sandbox",
		SilenceUsage: true,
		RunE:         runTUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".quanta", "data directory for saved runs")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "preset applied on top of the config")
	pf.Uint64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	pf.IntVar(&minQuanta, "min", 0, "population floor")
	pf.IntVar(&initial, "initial", 0, "initial population")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run the sandbox in the terminal",
		RunE:  runTUI,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and print a summary",
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&frames, "frames", 600, "frames to simulate (0 runs until interrupted)")
	runCmd.Flags().StringSliceVar(&spawn, "spawn", nil, "commands queued before the first frame (triplet, batch, hex, reset or an n-gon size)")
	runCmd.Flags().BoolVar(&save, "save", false, "save the run to the data directory")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write the final frame as svg")

	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "run the sandbox in a window",
		RunE:  runWindow,
	}
	windowCmd.Flags().Int32Var(&winWidth, "width", int32(config.DefaultWidth), "window width")
	windowCmd.Flags().Int32Var(&winHeight, "height", int32(config.DefaultHeight)+36, "window height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, p := range config.ListPresets() {
				fmt.Fprintf(out, "  %s\n", p)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "inspect or write settings",
	}
	configCmd.AddCommand(
		&cobra.Command{
			Use:   "init [path]",
			Short: "write the resolved settings to a yaml file",
			Args:  cobra.ExactArgs(1),
			RunE:  initConfig,
		},
		&cobra.Command{
			Use:   "show",
			Short: "print the resolved settings",
			RunE:  showConfig,
		},
	)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure frames per second at several populations",
		RunE:  benchSim,
	}
	benchCmd.Flags().IntVar(&benchFrames, "frames", 300, "frames per population")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&save, "save", false, "save the run to the data directory")
	scenarioCmd.Flags().StringVar(&svgPath, "svg", "", "write the final frame as svg")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run one simulation per value of a parameter",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "gravity", fmt.Sprintf("parameter to sweep %v", automation.SweepParams()))
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", -100, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 100, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&frames, "frames", 600, "frames per run")

	trialsCmd := &cobra.Command{
		Use:   "trials",
		Short: "repeat a run with fresh seeds and count escapes",
		RunE:  runTrials,
	}
	trialsCmd.Flags().IntVar(&trialCount, "trials", 10, "number of trials")
	trialsCmd.Flags().IntVar(&frames, "frames", 600, "frames per trial")

	rootCmd.AddCommand(tuiCmd, runCmd, windowCmd, presetsCmd, configCmd, listCmd, plotCmd, exportCmd, benchCmd,
		scenarioCmd, sweepCmd, trialsCmd)
	return rootCmd
}

func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// loadSettings layers the config file, the preset and then any explicitly
// set flags over the defaults.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	s := config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		s = loaded
	}
	if preset != "" {
		apply, ok := config.Presets[preset]
		if !ok {
			return nil, fmt.Errorf("%w: %q (available: %v)", config.ErrUnknownPreset, preset, config.ListPresets())
		}
		apply(s)
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		s.Seed = seed
	}
	if flags.Changed("min") {
		s.Population.Min = minQuanta
	}
	if flags.Changed("initial") {
		s.Population.Initial = initial
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Logs would tear the alternate screen.
	quiet, err := newLogger(logLevel, io.Discard)
	if err != nil {
		return err
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if preset == "" {
		return viz.RunInteractive(s, sim.WithLogger(quiet))
	}
	simulation, err := sim.New(s, sim.WithLogger(quiet))
	if err != nil {
		return err
	}
	return viz.Run(simulation, metrics.DefaultRecorder(600))
}

func runWindow(cmd *cobra.Command, args []string) error {
	log, err := newLogger(logLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	simulation, err := sim.New(s, sim.WithLogger(log))
	if err != nil {
		return err
	}
	return window.Run(simulation, metrics.DefaultRecorder(600), winWidth, winHeight, log)
}

func initConfig(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], s); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
	return nil
}

func showConfig(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	out, err := config.Marshal(s)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
