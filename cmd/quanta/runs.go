package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/quanta/internal/analysis"
	"github.com/san-kum/quanta/internal/automation"
	"github.com/san-kum/quanta/internal/config"
	"github.com/san-kum/quanta/internal/export"
	"github.com/san-kum/quanta/internal/metrics"
	"github.com/san-kum/quanta/internal/sim"
	"github.com/san-kum/quanta/internal/storage"
	"github.com/spf13/cobra"
)

const frameDt = automation.FrameDt

func runHeadless(cmd *cobra.Command, args []string) error {
	log, err := newLogger(logLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	queue := &sim.CommandQueue{}
	for _, v := range spawn {
		c, err := sim.ParseCommand(v)
		if err != nil {
			return err
		}
		queue.Push(c)
	}

	run, err := newHeadless(s, frames, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "running %d frames (seed %d)...\n", frames, run.sim.Seed())
	start := time.Now()
	if err := run.sim.Run(ctx, frames, frameDt, queue, nil); err != nil && ctx.Err() == nil {
		return err
	}
	return run.finish(cmd, preset, s, time.Since(start))
}

func runScenario(cmd *cobra.Command, args []string) error {
	log, err := newLogger(logLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	base, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	s, err := sc.Settings(base)
	if err != nil {
		return err
	}

	run, err := newHeadless(s, sc.Frames, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "scenario %s: %d frames, %d steps (seed %d)\n", sc.Name, sc.Frames, len(sc.Steps), run.sim.Seed())
	start := time.Now()
	if err := automation.RunScenario(ctx, run.sim, sc, log); err != nil && ctx.Err() == nil {
		return err
	}
	return run.finish(cmd, sc.Name, s, time.Since(start))
}

// headless bundles a simulation with the observers a batch run reports from.
type headless struct {
	sim *sim.Simulation
	rec *metrics.Recorder
	log storage.Log
}

func newHeadless(s *config.Settings, frames int, log *slog.Logger) (*headless, error) {
	h := &headless{rec: metrics.DefaultRecorder(max(frames, 600))}
	opts := []sim.Option{sim.WithLogger(log), sim.WithObserver(h.rec)}
	if save {
		opts = append(opts, sim.WithObserver(&h.log))
	}
	simulation, err := sim.New(s, opts...)
	if err != nil {
		return nil, err
	}
	h.sim = simulation
	return h, nil
}

// finish prints the summary and writes the optional svg and saved run.
func (h *headless) finish(cmd *cobra.Command, name string, s *config.Settings, elapsed time.Duration) error {
	out := cmd.OutOrStdout()
	printSummary(cmd, h.rec, elapsed)

	if svgPath != "" {
		lo, hi := h.sim.World().Bounds()
		svg := export.NewSVG(lo, hi, 1)
		h.sim.Draw(svg)
		if err := os.WriteFile(svgPath, []byte(svg.String()), 0644); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
		fmt.Fprintf(out, "wrote %s (%d shapes)\n", svgPath, svg.Elements())
	}

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(name, s, h.sim.Seed(), h.log.Frames, h.rec.Values())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "run id: %s\n", runID)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	log, err := newLogger(logLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	base, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	sweep := automation.ParameterSweep{
		Param:  sweepParam,
		Min:    sweepFrom,
		Max:    sweepTo,
		Steps:  sweepSteps,
		Frames: frames,
	}
	results, err := automation.RunSweep(cmd.Context(), base, sweep, log)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tPOPULATION\tJOINTS\tMEAN ENERGY\tMAX ENERGY\tCONTACTS\tCULLED\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%.3f\t%d\t%d\t%.2f\t%.2f\t%d\t%d\n",
			r.Value, r.Final.Population, r.Final.Joints, r.MeanEnergy, r.MaxEnergy, r.Contacts, r.Culled)
	}
	return w.Flush()
}

func runTrials(cmd *cobra.Command, args []string) error {
	log, err := newLogger(logLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	base, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	cfg := automation.MonteCarloConfig{Trials: trialCount, Frames: frames, Seed: base.Seed}
	results, err := automation.RunMonteCarlo(cmd.Context(), base, cfg, log)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tSEED\tPOPULATION\tMEAN ENERGY\tCULLED")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%d\t%.2f\t%d\n", r.Trial, r.Seed, r.Final.Population, r.MeanEnergy, r.Culled)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	contained, escaped := automation.MonteCarloStats(results)
	fmt.Fprintf(out, "\ncontained: %d  escaped: %d\n", contained, escaped)
	return nil
}

func printSummary(cmd *cobra.Command, rec *metrics.Recorder, elapsed time.Duration) {
	out := cmd.OutOrStdout()
	last := rec.Last()
	fmt.Fprintf(out, "completed %d frames in %v\n", rec.Frames(), elapsed)
	fmt.Fprintf(out, "population: %d  joints: %d  energy: %.2f\n\n", last.Population, last.Joints, last.KineticEnergy)

	for _, series := range []string{metrics.SeriesPopulation, metrics.SeriesEnergy} {
		data := rec.Series(series)
		if len(data) < 2 {
			continue
		}
		fmt.Fprintln(out, asciigraph.Plot(data,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption(series),
		))
		fmt.Fprintln(out)
	}

	printSpectrum(out, rec.Series(metrics.SeriesEnergy), frameDt)

	values := rec.Values()
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(out, "metrics:")
	for _, name := range names {
		fmt.Fprintf(out, "  %s: %.6f\n", name, values[name])
	}
}

// printSpectrum reports the spread of the kinetic energy series and its
// strongest oscillation.
func printSpectrum(out io.Writer, energy []float64, dt time.Duration) {
	sum := analysis.Summarize(energy)
	fmt.Fprintf(out, "energy: mean %.2f  stddev %.2f  range [%.2f, %.2f]\n", sum.Mean, sum.StdDev, sum.Min, sum.Max)
	if period, power, ok := analysis.DominantPeriod(energy, dt); ok {
		fmt.Fprintf(out, "energy period: %v (power %.2f)\n", period.Round(time.Millisecond), power)
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tFRAMES\tDURATION\tSEED")
	for _, run := range runs {
		name := run.Preset
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2fs\t%d\n",
			run.ID,
			name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Duration,
			run.Seed,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) < 2 {
		return fmt.Errorf("no data to plot")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "frames: %d\n\n", len(frames))

	plots := []struct {
		caption string
		value   func(metrics.FrameStats) float64
	}{
		{"population", func(f metrics.FrameStats) float64 { return float64(f.Population) }},
		{"joints", func(f metrics.FrameStats) float64 { return float64(f.Joints) }},
		{"contacts", func(f metrics.FrameStats) float64 { return float64(f.Contacts) }},
		{"kinetic energy", func(f metrics.FrameStats) float64 { return f.KineticEnergy }},
	}
	for _, p := range plots {
		data := make([]float64, len(frames))
		for i, f := range frames {
			data[i] = p.value(f)
		}
		fmt.Fprintln(out, asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
		))
		fmt.Fprintln(out)
	}

	energy := make([]float64, len(frames))
	for i, f := range frames {
		energy[i] = f.KineticEnergy
	}
	dt := frames[1].Time - frames[0].Time
	if dt <= 0 {
		dt = frameDt
	}
	printSpectrum(out, energy, dt)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func benchSim(cmd *cobra.Command, args []string) error {
	base, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	quiet, err := newLogger("error", cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "QUANTA\tFRAMES\tTIME\tFRAMES/SEC")
	for _, n := range []int{128, 512, 1024, 2048} {
		s := base.Clone()
		s.Population.Initial = n
		s.Population.Min = n
		simulation, err := sim.New(s, sim.WithLogger(quiet))
		if err != nil {
			return err
		}

		start := time.Now()
		if err := simulation.Run(cmd.Context(), benchFrames, frameDt, nil, nil); err != nil {
			return err
		}
		elapsed := time.Since(start)
		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\n", n, benchFrames, elapsed, float64(benchFrames)/elapsed.Seconds())
	}
	return w.Flush()
}
