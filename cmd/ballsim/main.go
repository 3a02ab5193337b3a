package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/engine"
	"github.com/san-kum/ballsim/internal/export"
	"github.com/san-kum/ballsim/internal/metrics"
	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
	"github.com/san-kum/ballsim/internal/storage"
	"github.com/san-kum/ballsim/internal/tui"
	"github.com/san-kum/ballsim/internal/viz"
	"github.com/san-kum/ballsim/internal/vmath"
)

const defaultPreset = "drop"

var (
	dataDir    string
	configFile string
	verbose    bool

	steps    int
	runTime  float64
	watch    bool
	every    int
	seed     int64
	fps      int
	sphere   int
	output   string
	topView  bool
	sceneSVG bool
	svgSize  int
	initFrom string
	selectAt string

	runs       int
	workers    int
	metricName string
	maximize   bool
	sweepArgs  []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "ballsim",
		Short:        "bouncing ball physics sandbox",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(cmd, []string{defaultPreset})
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "dir", ".ballsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml), overrides the preset")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log engine events to stderr")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a headless simulation and record it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().IntVar(&steps, "steps", 0, "fixed number of ticks (deterministic)")
	runCmd.Flags().Float64Var(&runTime, "time", 0, "run the real-time loop for this many seconds")
	runCmd.Flags().BoolVar(&watch, "watch", false, "print a plain side view while running")
	runCmd.Flags().IntVar(&every, "every", 1, "record every Nth tick")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed for generated balls")
	runCmd.Flags().IntVar(&fps, "fps", 0, "physics ticks per second")
	runCmd.Flags().StringVar(&selectAt, "select", "", "select the ball containing the point x,y,z")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "interactive terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&fps, "fps", 0, "physics ticks per second")
	liveCmd.Flags().Int64Var(&seed, "seed", 0, "random seed for generated balls")
	liveCmd.Flags().StringVar(&selectAt, "select", "", "select the ball containing the point x,y,z")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a sphere's height over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&sphere, "sphere", 0, "sphere index")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and samples as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render a sphere's path, or the final scene, as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().IntVar(&sphere, "sphere", 0, "sphere index")
	svgCmd.Flags().BoolVar(&topView, "top", false, "use the top (x-z) projection")
	svgCmd.Flags().BoolVar(&sceneSVG, "scene", false, "draw the final scene instead of a path")
	svgCmd.Flags().IntVar(&svgSize, "size", 640, "image width in pixels")
	svgCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [preset]",
		Short: "run a preset under consecutive seeds in parallel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnsemble,
	}
	ensembleCmd.Flags().IntVar(&runs, "runs", 8, "number of seeds")
	ensembleCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (default: number of CPUs)")
	ensembleCmd.Flags().IntVar(&steps, "steps", 0, "ticks per run")
	ensembleCmd.Flags().Int64Var(&seed, "seed", 1, "first seed")

	sweepCmd := &cobra.Command{
		Use:     "sweep [preset]",
		Short:   "grid search physics tuning against a metric",
		Example: "  ballsim sweep drop --param gravity=0.5,0.981,2 --param fps=30,60 --metric peak_speed",
		Args:    cobra.MaximumNArgs(1),
		RunE:    runSweep,
	}
	sweepCmd.Flags().StringArrayVar(&sweepArgs, "param", nil, "name=v1,v2,... (one of "+strings.Join(sim.Params, ", ")+")")
	sweepCmd.Flags().StringVar(&metricName, "metric", "energy_drift", "metric to optimize")
	sweepCmd.Flags().BoolVar(&maximize, "max", false, "keep the highest value instead of the lowest")
	sweepCmd.Flags().IntVar(&steps, "steps", 0, "ticks per run")
	sweepCmd.Flags().Int64Var(&seed, "seed", 1, "seed for generated balls")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "configuration helpers",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a preset as a config file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	configInitCmd.Flags().StringVar(&initFrom, "preset", defaultPreset, "preset to write")
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, exportJSONCmd, svgCmd, ensembleCmd, sweepCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "ballsim: ", log.LstdFlags|log.Lmicroseconds)
}

func presetName(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return defaultPreset
}

// loadConfig resolves the preset, then applies the config file and flags on
// top of it.
func loadConfig(cmd *cobra.Command, name string) (*config.Config, error) {
	var cfg *config.Config
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	} else {
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %s)", name, strings.Join(config.ListPresets(), ", "))
		}
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("time") {
		cfg.Duration = runTime
		cfg.Steps = 0
	}
	if flags.Changed("select") {
		p, err := parsePoint(selectAt)
		if err != nil {
			return nil, err
		}
		cfg.Scene.Select = &p
	}
	return cfg, cfg.Validate()
}

func newEngine(cfg *config.Config) (*engine.Engine, error) {
	scene, err := cfg.BuildScene(nil)
	if err != nil {
		return nil, err
	}
	lc := cfg.LoopConfig()
	lc.Logger = newLogger()
	return engine.New(scene, lc), nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	name := presetName(args)
	cfg, err := loadConfig(cmd, name)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer eng.Close()

	rec := storage.NewRecorder(every)
	rec.Record(eng.Snapshot(), 0)
	set := metrics.Standard(sim.ContainmentBound)
	eng.AddObserver(rec)
	eng.AddObserver(set)

	if watch {
		lr := tui.NewLiveRenderer(os.Stdout, name, cfg.RenderFPS)
		lr.Start()
		defer lr.Stop()
		eng.AddObserver(lr)
	}

	realtime := cmd.Flags().Changed("time")
	start := time.Now()
	if realtime {
		fmt.Printf("running %s for %.1fs of wall time...\n", name, cfg.Duration)
		if err := runRealtime(cmd.Context(), eng, cfg.Duration); err != nil {
			return err
		}
	} else {
		n := cfg.TotalSteps()
		fmt.Printf("running %s for %d ticks...\n", name, n)
		if err := eng.Advance(n); err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	snap := eng.Snapshot()
	meta := storage.RunMetadata{
		Preset:    name,
		Seed:      cfg.Seed,
		FPS:       eng.FPS(),
		Dt:        1 / float64(eng.FPS()),
		Duration:  eng.SimTime(),
		Ticks:     eng.Ticks(),
		Spheres:   snap.Len(),
		Gravity:   cfg.Physics.Gravity,
		Dampening: cfg.Physics.Dampening,
		Metrics:   set.Values(),
	}
	runID, err := st.Save(meta, rec.Trace())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed.Round(time.Millisecond))
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d  samples: %d  spheres: %d\n", meta.Ticks, rec.Trace().Len(), meta.Spheres)
	fmt.Println("\nmetrics:")
	for _, n := range set.Names() {
		fmt.Printf("  %s: %.6f\n", n, meta.Metrics[n])
	}
	return nil
}

// runRealtime lets the loop run for d, or until interrupted, then stops it.
func runRealtime(ctx context.Context, eng *engine.Engine, d float64) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	eng.Flip()
	select {
	case <-time.After(time.Duration(d * float64(time.Second))):
	case <-ctx.Done():
	}

	if !eng.Stop() && !eng.Stop() {
		return errors.New("engine did not acknowledge stop")
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	name := presetName(args)
	cfg, err := loadConfig(cmd, name)
	if err != nil {
		return err
	}

	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer eng.Close()

	eng.Flip()
	return tui.Run(eng, cfg, name)
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tSIM TIME\tTICKS\tFPS\tSPHERES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%d\t%d\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Ticks,
			run.FPS,
			run.Spheres,
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
	trace, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	heights, err := trace.Column(sphere, 1)
	if err != nil {
		return err
	}
	if len(heights) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(heights))

	graph := asciigraph.Plot(heights,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("sphere %d height", sphere)),
	)
	fmt.Println(graph)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if output == "" {
		return storage.ExportJSONTo(os.Stdout, *meta, trace)
	}
	if err := storage.ExportJSON(output, *meta, trace); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", output)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	width, height := svgSize, svgSize/2
	var svg string
	if sceneSVG {
		scene, err := finalScene(meta, trace)
		if err != nil {
			return err
		}
		proj := viz.Side
		if topView {
			proj = viz.Top
			height = svgSize
		}
		svg = export.SceneToSVG(scene, width, height, proj)
	} else {
		points, err := trace.Path(sphere, topView)
		if err != nil {
			return err
		}
		svg = export.TrajectoryToSVG(points, width, height, "#00ccff")
	}
	if svg == "" {
		return fmt.Errorf("nothing to draw for %s", runID)
	}

	if output == "" {
		fmt.Println(svg)
		return nil
	}
	if err := os.WriteFile(output, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", output)
	return nil
}

// finalScene rebuilds the run's scene and moves its spheres to the last
// recorded sample. Spheres the preset does not know about get the default
// size.
func finalScene(meta *storage.RunMetadata, trace *storage.Trace) (*physics.Scene, error) {
	if trace.Len() == 0 {
		return nil, storage.ErrEmptyTrace
	}
	cfg := config.GetPreset(meta.Preset)
	if cfg == nil {
		cfg = config.DefaultConfig()
		cfg.Scene.Spheres = nil
	}
	cfg.Seed = meta.Seed
	scene, err := cfg.BuildScene(nil)
	if err != nil {
		return nil, err
	}

	live := scene.Spheres[:0]
	for _, s := range scene.Spheres {
		if s != nil {
			live = append(live, s)
		}
	}

	last := trace.States[len(trace.States)-1]
	n := len(last) / 3
	for i := 0; i < n; i++ {
		pos := vmath.New(last[i*3], last[i*3+1], last[i*3+2])
		if i < len(live) {
			live[i].Position = pos
			continue
		}
		s, err := physics.NewSphere(pos, config.DefaultRadius, config.DefaultMass)
		if err != nil {
			return nil, err
		}
		live = append(live, s)
	}
	if len(live) > n {
		live = live[:n]
	}
	scene.Spheres = live
	return scene, nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	name := presetName(args)
	cfg, err := loadConfig(cmd, name)
	if err != nil {
		return err
	}

	fmt.Printf("running %d seeds of %s (%d ticks each)...\n", runs, name, cfg.TotalSteps())
	start := time.Now()
	results, err := sim.NewEnsemble(sim.New(cfg), runs, seed).
		WithWorkers(workers).
		Run(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start).Round(time.Millisecond))

	stats := sim.Summarize(results)
	names := make([]string, 0, len(stats))
	for n := range stats {
		names = append(names, n)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tMIN\tMAX")
	for _, n := range names {
		st := stats[n]
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%.6f\n", n, st.Mean, st.Min, st.Max)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	if len(sweepArgs) == 0 {
		return fmt.Errorf("at least one --param is required")
	}
	name := presetName(args)
	cfg, err := loadConfig(cmd, name)
	if err != nil {
		return err
	}

	params := make([]string, 0, len(sweepArgs))
	ranges := make([][]float64, 0, len(sweepArgs))
	for _, arg := range sweepArgs {
		p, values, err := parseParam(arg)
		if err != nil {
			return err
		}
		params = append(params, p)
		ranges = append(ranges, values)
	}

	search := sim.NewGridSearch(params, ranges)
	if maximize {
		search.Maximize()
	}
	results, err := search.Search(cmd.Context(), cfg, cfg.Seed, metricName)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(params, "\t")), strings.ToUpper(metricName))
	for _, r := range results {
		for _, p := range params {
			fmt.Fprintf(w, "%g\t", r.Params[p])
		}
		fmt.Fprintf(w, "%.6f\n", r.Metrics[metricName])
	}
	return w.Flush()
}

// parseParam splits "name=v1,v2" into its name and values.
func parseParam(arg string) (string, []float64, error) {
	name, list, ok := strings.Cut(arg, "=")
	if !ok || name == "" || list == "" {
		return "", nil, fmt.Errorf("bad --param %q, want name=v1,v2,...", arg)
	}
	var values []float64
	for _, f := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return "", nil, fmt.Errorf("bad value in --param %q: %w", arg, err)
		}
		values = append(values, v)
	}
	return name, values, nil
}

// parsePoint reads "x,y,z".
func parsePoint(arg string) (config.Vec, error) {
	var p config.Vec
	parts := strings.Split(arg, ",")
	if len(parts) != 3 {
		return p, fmt.Errorf("bad --select %q, want x,y,z", arg)
	}
	for i, f := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return p, fmt.Errorf("bad --select %q: %w", arg, err)
		}
		p[i] = v
	}
	return p, nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSPHERES\tFLOOR\tWALLS\tGENERATED")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%v\t%v\t%v\n",
			name, len(p.Scene.Spheres), p.Scene.Floor, p.Scene.Walls, p.Scene.Generate)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "ballsim.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	cfg := config.GetPreset(initFrom)
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %s)", initFrom, strings.Join(config.ListPresets(), ", "))
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s (preset %s)\n", path, initFrom)
	return nil
}
