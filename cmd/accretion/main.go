package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/accretion/internal/config"
	"github.com/san-kum/accretion/internal/metrics"
	"github.com/san-kum/accretion/internal/optim"
	"github.com/san-kum/accretion/internal/sim"
	"github.com/san-kum/accretion/internal/storage"
	"github.com/san-kum/accretion/internal/viz"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
)

var (
	dataDir    string
	logLevel   string
	logJSON    bool
	preset     string
	configFile string
	seed       int64
	steps      int
	dt         float64
	integrator string
	noSave     bool
	jsonOut    bool
	numRuns    int
	outFile    string
	svgWidth   int
	svgHeight  int
	canvasSVG  bool
	theme      string
	gridParams []string
	metricName string
	maximize   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "accretion",
		Short: "particles orbiting a black hole",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(os.Stderr)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".accretion", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and save it",
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "print the run summary as JSON")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation with live terminal visualization",
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", viz.ThemeAccretion.Name, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the frame counters of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run one configuration over consecutive seeds in parallel",
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&numRuns, "runs", 8, "number of seeds")

	svgCmd := &cobra.Command{
		Use:   "svg",
		Short: "render the final frame of a simulation as SVG",
		RunE:  renderSVG,
	}
	addSimFlags(svgCmd)
	svgCmd.Flags().StringVarP(&outFile, "out", "o", "accretion.svg", "output file (- for stdout)")
	svgCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	svgCmd.Flags().IntVar(&svgHeight, "height", 800, "image height")
	svgCmd.Flags().BoolVar(&canvasSVG, "braille", false, "render the terminal canvas instead of vectors")
	svgCmd.Flags().StringVar(&theme, "theme", viz.ThemeAccretion.Name, "color theme")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the resolved configuration as YAML",
		RunE:  dumpConfig,
	}
	addSimFlags(configCmd)

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search configuration parameters against a metric",
		RunE:  runTune,
	}
	addSimFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&gridParams, "param", nil, "parameter grid as name=v1,v2,... (repeatable; one of "+strings.Join(optim.ParamNames(), ", ")+")")
	tuneCmd.Flags().StringVar(&metricName, "metric", "active_fraction", "metric to optimize")
	tuneCmd.Flags().BoolVar(&maximize, "maximize", true, "maximize the metric instead of minimizing it")

	rootCmd.AddCommand(runCmd, liveCmd, presetsCmd, listCmd, plotCmd, sweepCmd, svgCmd, configCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&preset, "preset", "p", "default", "preset configuration")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml), overrides the preset")
	cmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	cmd.Flags().IntVar(&steps, "steps", 0, "number of frames (0 uses the configured value)")
	cmd.Flags().Float64Var(&dt, "dt", 0, "time step (0 uses the configured value)")
	cmd.Flags().StringVar(&integrator, "integrator", "", "integrator (symplectic, leapfrog, rk4)")
}

func setupLogging(w io.Writer) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if logJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

// loadConfig resolves the preset, then the config file, then flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if steps > 0 {
		cfg.Steps = steps
	}
	if dt > 0 {
		cfg.Dt = dt
	}
	if integrator != "" {
		cfg.Integrator = integrator
	}
	if cfg.Steps == 0 {
		cfg.Steps = config.DefaultSteps
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	s, err := sim.New(cfg, sim.WithLogger(slog.Default()))
	if err != nil {
		return err
	}

	runner := sim.NewRunner(s)
	for _, m := range metrics.Standard(cfg.Force, cfg.MaxSpeed) {
		runner.AddMetric(m)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("run_start", "preset", cfg.Name, "particles", cfg.Population(), "steps", cfg.Steps, "seed", cfg.Seed)
	result, err := runner.Run(ctx, cfg.Steps)
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		slog.Warn("run_interrupted", "steps_taken", result.StepsTaken, "err", err)
	}
	slog.Info("run_done", "totals", result.Totals())

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg, result)
		if err != nil {
			return err
		}
		slog.Info("run_saved", "id", runID, "dir", dataDir)
	}

	if jsonOut {
		return storage.ExportJSON(os.Stdout, cfg, result)
	}
	return printSummary(os.Stdout, cfg, result)
}

func printSummary(w io.Writer, cfg *config.Config, result *sim.Result) error {
	totals := result.Totals()
	fmt.Fprintf(w, "preset: %s  seed: %d  frames: %d  time: %.2f\n\n", cfg.Name, cfg.Seed, result.StepsTaken, totals.Time)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ACTIVE\tINACTIVE\tCAPTURED\tRESPAWNED\tCLAMPED\tRECOVERED")
	fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%d\n",
		totals.Active, totals.Inactive, totals.Captured, totals.Respawned, totals.Clamped, totals.Recovered)
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, name := range metricNames(result.Metrics) {
		fmt.Fprintf(tw, "%s\t%.4f\n", name, result.Metrics[name])
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(result.Frames) > 1 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, asciigraph.Plot(activeSeries(result.Frames),
			asciigraph.Height(8),
			asciigraph.Width(70),
			asciigraph.Caption("active particles"),
		))
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// the terminal belongs to the UI; warnings would tear the frame
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := sim.New(cfg, sim.WithLogger(quiet))
	if err != nil {
		return err
	}

	viz.SetTheme(theme)
	m := viz.NewModel(s, viz.NewScene(cfg), cfg.Dt, cfg.Name)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDIM\tDISK\tORBITAL\tK\tEXP\tR\tDT")

	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%dD\t%d\t%d\t%g\t%g\t%g\t%g\n",
			name, cfg.Dimensions, cfg.Disk.Count, cfg.Orbital.Count,
			cfg.Force.K, cfg.Force.Exponent, cfg.Force.CaptureRadius, cfg.Dt)
	}

	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tSTEPS\tDT\tSEED\tCAPTURED\tRESPAWNED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4f\t%d\t%d\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Dt,
			run.Seed,
			run.Totals.Captured,
			run.Totals.Respawned,
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

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("frames: %d\n\n", len(frames))

	captured := make([]float64, len(frames))
	respawned := make([]float64, len(frames))
	for i, f := range frames {
		captured[i] = float64(f.Captured)
		respawned[i] = float64(f.Respawned)
	}

	series := []struct {
		data    []float64
		caption string
	}{
		{activeSeries(frames), "active particles"},
		{captured, "captures per frame"},
		{respawned, "respawns per frame"},
	}

	for _, s := range series {
		graph := asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	particles, err := st.LoadParticles(runID)
	if err != nil {
		return err
	}
	if hist := radiusHistogram(particles, histogramBins); hist != nil {
		fmt.Println(asciigraph.Plot(hist,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("final radius distribution (%d bins, 0 to %.1f)", histogramBins, maxDistance(particles))),
		))
	}

	return nil
}

const histogramBins = 40

// radiusHistogram counts active particles by distance from the hole.
func radiusHistogram(rows []*storage.ParticleRow, bins int) []float64 {
	limit := maxDistance(rows)
	if bins <= 0 || limit <= 0 {
		return nil
	}
	hist := make([]float64, bins)
	for _, r := range rows {
		if !r.Alive {
			continue
		}
		b := int(r.Distance / limit * float64(bins))
		hist[min(b, bins-1)]++
	}
	return hist
}

func maxDistance(rows []*storage.ParticleRow) float64 {
	var limit float64
	for _, r := range rows {
		if r.Alive {
			limit = max(limit, r.Distance)
		}
	}
	return limit
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if numRuns <= 0 {
		return fmt.Errorf("runs must be positive, got %d", numRuns)
	}

	newMetrics := func() []sim.Metric { return metrics.Standard(cfg.Force, cfg.MaxSpeed) }
	ens := sim.NewEnsemble(cfg, numRuns, cfg.Seed, newMetrics, sim.WithLogger(slog.Default()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("sweep_start", "preset", cfg.Name, "runs", numRuns, "steps", cfg.Steps)
	results, err := ens.Run(ctx, cfg.Steps)
	if err != nil {
		return err
	}

	names := metricNames(results[0].Metrics)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\t"+strings.ToUpper(strings.Join(names, "\t")))

	columns := make([][]float64, len(names))
	for i, r := range results {
		row := []string{fmt.Sprintf("%d", cfg.Seed+int64(i))}
		for j, name := range names {
			v := r.Metrics[name]
			columns[j] = append(columns[j], v)
			row = append(row, fmt.Sprintf("%.4f", v))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	mean := []string{"mean"}
	std := []string{"stddev"}
	for _, col := range columns {
		m, sd := stat.MeanStdDev(col, nil)
		mean = append(mean, fmt.Sprintf("%.4f", m))
		std = append(std, fmt.Sprintf("%.4f", sd))
	}
	fmt.Fprintln(w, strings.Join(mean, "\t"))
	fmt.Fprintln(w, strings.Join(std, "\t"))

	return w.Flush()
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(gridParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}

	names := make([]string, 0, len(gridParams))
	ranges := make([][]float64, 0, len(gridParams))
	for _, spec := range gridParams {
		name, values, err := parseGridParam(spec)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}
	g.Maximize = maximize

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("tune_start", "preset", cfg.Name, "points", len(g.Points()), "metric", metricName)
	best, trials, err := g.Search(ctx, cfg, cfg.Steps, metricName)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(metricName))
	for _, t := range trials {
		row := make([]string, 0, len(names)+1)
		for _, name := range names {
			row = append(row, strconv.FormatFloat(t.Params[name], 'g', -1, 64))
		}
		if t.Err != nil {
			slog.Debug("tune_point_failed", "params", t.Params, "err", t.Err)
			row = append(row, "invalid")
		} else {
			row = append(row, fmt.Sprintf("%.4f", t.Value))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest: %v  %s=%.4f\n", best.Params, metricName, best.Value)
	return nil
}

func parseGridParam(spec string) (string, []float64, error) {
	name, list, ok := strings.Cut(spec, "=")
	if !ok || name == "" || list == "" {
		return "", nil, fmt.Errorf("invalid --param %q, want name=v1,v2,...", spec)
	}
	fields := strings.Split(list, ",")
	values := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return "", nil, fmt.Errorf("invalid value %q for %s: %w", f, name, err)
		}
		values = append(values, v)
	}
	return name, values, nil
}

func renderSVG(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	s, err := sim.New(cfg, sim.WithLogger(slog.Default()))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := sim.NewRunner(s).Run(ctx, cfg.Steps)
	if err != nil && result == nil {
		return err
	}

	var out io.Writer = os.Stdout
	if outFile != "-" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	viz.SetTheme(theme)
	scene := viz.NewScene(cfg)
	if canvasSVG {
		canvas := viz.NewCanvas(svgWidth/8, svgHeight/16)
		scene.Draw(canvas, &result.Final)
		err = viz.CanvasToSVG(out, canvas, 4)
	} else {
		err = viz.SnapshotSVG(out, scene, &result.Final, svgWidth, svgHeight)
	}
	if err != nil {
		return err
	}

	if outFile != "-" {
		slog.Info("svg_written", "file", outFile, "frame", result.Final.Frame)
	}
	return nil
}

func dumpConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return config.Encode(os.Stdout, cfg)
}

func activeSeries(frames []sim.FrameStats) []float64 {
	data := make([]float64, len(frames))
	for i, f := range frames {
		data[i] = float64(f.Active)
	}
	return data
}

func metricNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
