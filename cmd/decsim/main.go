package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/decsim/decsim/internal/analysis"
	"github.com/decsim/decsim/internal/config"
	"github.com/decsim/decsim/internal/floatref"
	"github.com/decsim/decsim/internal/metrics"
	"github.com/decsim/decsim/internal/phys"
	"github.com/decsim/decsim/internal/runner"
	"github.com/decsim/decsim/internal/storage"
	"github.com/decsim/decsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	timeStep   string
	steps      int
	precision  int
	// Live view pacing
	frameRate     int
	stepsPerFrame int
	// Precision sweep list, comma separated
	precisionList string
	// Perturbation study knobs
	trials     int
	nudge      float64
	randSeed   int64
	driftLimit float64
	// Time-step tuning
	tuneList  string
	tuneLimit float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "decsim",
		Short: "arbitrary-precision gravitational n-body lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand drops into the scenario picker.
			p := tea.NewProgram(viz.NewPicker(30, 10))
			_, err := p.Run()
			return err
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", storage.DefaultDir, "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy and drift for a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and history as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run states as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export run trajectories as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "estimate orbital periods from a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	batchCmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "run a yaml batch of scenarios",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	perturbCmd := &cobra.Command{
		Use:   "perturb [scenario]",
		Short: "stability study with nudged initial conditions",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPerturbation,
	}
	addScenarioFlags(perturbCmd)
	perturbCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	perturbCmd.Flags().Float64Var(&nudge, "nudge", 1e-6, "nudge size relative to the system scale")
	perturbCmd.Flags().Int64Var(&randSeed, "seed", 0, "random seed (0 = clock)")
	perturbCmd.Flags().Float64Var(&driftLimit, "drift-limit", 1e-3, "drift above this marks a trial unstable")

	tuneCmd := &cobra.Command{
		Use:   "tune [scenario]",
		Short: "find the largest time step that holds energy drift",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tuneTimeStep,
	}
	addScenarioFlags(tuneCmd)
	tuneCmd.Flags().StringVar(&tuneList, "dts", "0.1,0.05,0.01,0.005,0.001", "comma separated candidate time steps")
	tuneCmd.Flags().Float64Var(&tuneLimit, "limit", 1e-9, "acceptable relative energy drift")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "watch a scenario orbit in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	liveCmd.Flags().IntVar(&stepsPerFrame, "steps-per-frame", 10, "integration steps per frame")

	compareCmd := &cobra.Command{
		Use:   "compare [scenario]",
		Short: "run decimal and float64 engines side by side",
		Args:  cobra.MaximumNArgs(1),
		RunE:  compareEngines,
	}
	addScenarioFlags(compareCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "run one scenario across several precisions",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepPrecisions,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&precisionList, "precisions", "20,50,100", "comma separated precision list")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		RunE:  listScenarioPresets,
	}

	constantsCmd := &cobra.Command{
		Use:   "constants",
		Short: "print the physical constants in use",
		RunE:  printConstants,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportCmd, exportJSONCmd,
		exportCSVCmd, exportSVGCmd, liveCmd, compareCmd, sweepCmd, batchCmd, perturbCmd,
		tuneCmd, presetsCmd, constantsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file path (yaml)")
	cmd.Flags().StringVar(&timeStep, "dt", config.DefaultTimeStep, "time step in seconds")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().IntVar(&precision, "precision", 0, "significant digits (0 = scenario default)")
}

// resolveScenario builds the effective scenario: a named preset or a
// config file as the base, with explicitly set flags layered on top.
func resolveScenario(cmd *cobra.Command, args []string) (*config.Scenario, error) {
	var scn config.Scenario

	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load scenario: %w", err)
		}
		scn = *loaded
	case len(args) > 0:
		p := config.GetPreset(args[0])
		if p == nil {
			return nil, fmt.Errorf("unknown scenario: %s (available: %s)",
				args[0], strings.Join(config.ListPresets(), ", "))
		}
		scn = *p
	default:
		return nil, fmt.Errorf("need a scenario name or --config file")
	}

	if cmd.Flags().Changed("dt") {
		scn.TimeStep = timeStep
	}
	if cmd.Flags().Changed("steps") {
		scn.Steps = steps
	}
	if cmd.Flags().Changed("precision") {
		scn.Precision = precision
	}

	return &scn, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scn, err := resolveScenario(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %s: %d bodies, %d steps at precision %d...\n",
		scn.Name, len(scn.Bodies), scn.Steps, scn.Precision)

	result, err := runner.Run(context.Background(), scn)
	if err != nil {
		return err
	}

	runID, err := st.Save(result.Metadata(), result.History)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", result.Elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("initial energy: %.9g J\n", result.InitialEnergy)
	fmt.Printf("final energy: %.9g J\n", result.FinalEnergy)
	fmt.Printf("energy drift: %.3e\n", result.EnergyDrift)

	return nil
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tPREC\tDT\tSTEPS\tBODIES\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%d\t%d\t%.2e\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Precision,
			run.TimeStep,
			run.Steps,
			len(run.Bodies),
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	history, err := st.LoadHistory(args[0])
	if err != nil {
		return err
	}
	if len(history) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(history))

	fmt.Println(viz.EnergyChart(history, 80, 10))
	fmt.Println()
	fmt.Println(viz.DriftChart(history, 80, 10))

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	history, err := st.LoadHistory(args[0])
	if err != nil {
		return err
	}
	if len(history) < 4 {
		return fmt.Errorf("run too short to analyze")
	}
	if len(meta.Bodies) == 0 {
		return fmt.Errorf("run has no bodies")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scenario: %s, %d samples at dt=%s\n\n", meta.Scenario, len(history), meta.TimeStep)

	series := make([]float64, len(history))
	for i, snap := range history {
		series[i] = snap.Objects[meta.Bodies[0]].Position.X
	}
	ps := analysis.Spectrum(series)

	// The low-frequency quarter is where orbital peaks live.
	plotData := ps
	if len(ps) >= 8 {
		plotData = ps[:len(ps)/4]
	}
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (%s x)", meta.Bodies[0])),
	)
	fmt.Println(graph)
	fmt.Println()

	periods := analysis.BodyPeriods(history, meta.Bodies)
	if len(periods) == 0 {
		fmt.Println("no clear orbital period for any body")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tORBITAL PERIOD")
	for _, name := range meta.Bodies {
		if p, ok := periods[name]; ok {
			fmt.Fprintf(w, "%s\t%.6g s\n", name, p)
		} else {
			fmt.Fprintf(w, "%s\t-\n", name)
		}
	}
	return w.Flush()
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
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	history, err := st.LoadHistory(args[0])
	if err != nil {
		return err
	}

	return storage.WriteJSON(os.Stdout, meta, history)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	history, err := st.LoadHistory(args[0])
	if err != nil {
		return err
	}
	if len(history) == 0 {
		return fmt.Errorf("no data to export")
	}

	return storage.WriteCSV(os.Stdout, meta.Bodies, history)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	history, err := st.LoadHistory(args[0])
	if err != nil {
		return err
	}

	svg := viz.TrajectorySVG(history, meta.Bodies, 800, 600)
	if svg == "" {
		return fmt.Errorf("not enough data to draw")
	}
	fmt.Println(svg)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	scn, err := resolveScenario(cmd, args)
	if err != nil {
		return err
	}

	m, err := viz.NewModel(scn, frameRate, stepsPerFrame)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func compareEngines(cmd *cobra.Command, args []string) error {
	scn, err := resolveScenario(cmd, args)
	if err != nil {
		return err
	}

	dsim, err := runner.Build(scn)
	if err != nil {
		return err
	}
	fsim, err := floatref.FromScenario(scn)
	if err != nil {
		return err
	}

	de0, err := dsim.TotalEnergy()
	if err != nil {
		return err
	}
	fe0 := fsim.TotalEnergy()
	dp0 := dsim.Momentum()
	fp0 := fsim.Momentum()

	fmt.Printf("comparing decimal (precision %d) against float64: %s, %d steps, dt=%s\n\n",
		scn.Precision, scn.Name, scn.Steps, scn.TimeStep)

	dstart := time.Now()
	if _, err := dsim.Run(context.Background(), scn.Steps); err != nil {
		return err
	}
	delapsed := time.Since(dstart)

	fstart := time.Now()
	for i := 0; i < scn.Steps; i++ {
		if err := fsim.Step(); err != nil {
			return err
		}
	}
	felapsed := time.Since(fstart)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tPOSITION DELTA\tVELOCITY DELTA")
	for _, fb := range fsim.Bodies() {
		db, ok := dsim.Body(fb.Name)
		if !ok {
			continue
		}
		px, py, pz := db.Position.Float64s()
		vx, vy, vz := db.Velocity.Float64s()
		pd := floatref.Vec3{X: px, Y: py, Z: pz}.Sub(fb.Position).Norm()
		vd := floatref.Vec3{X: vx, Y: vy, Z: vz}.Sub(fb.Velocity).Norm()
		fmt.Fprintf(w, "%s\t%.3e\t%.3e\n", fb.Name, pd, vd)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	dfinal, err := dsim.TotalEnergy()
	if err != nil {
		return err
	}
	ddrift := metrics.RelativeDrift(de0.InexactFloat64(), dfinal.InexactFloat64())
	fdrift := metrics.RelativeDrift(fe0, fsim.TotalEnergy())
	dpdrift := dsim.Momentum().Sub(dp0).Magnitude().InexactFloat64()
	fpdrift := fsim.Momentum().Sub(fp0).Norm()

	fmt.Printf("\nenergy drift: decimal %.3e, float64 %.3e\n", ddrift, fdrift)
	fmt.Printf("momentum drift: decimal %.3e, float64 %.3e\n", dpdrift, fpdrift)
	fmt.Printf("elapsed: decimal %v, float64 %v\n", delapsed, felapsed)

	return nil
}

func sweepPrecisions(cmd *cobra.Command, args []string) error {
	scn, err := resolveScenario(cmd, args)
	if err != nil {
		return err
	}

	parts := strings.Split(precisionList, ",")
	precisions := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return fmt.Errorf("bad precision %q: %w", p, err)
		}
		precisions = append(precisions, v)
	}

	fmt.Printf("sweeping %s over precisions %v (%d steps, dt=%s)\n\n",
		scn.Name, precisions, scn.Steps, scn.TimeStep)

	results, err := runner.Sweep(context.Background(), scn, precisions)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PREC\tFINAL ENERGY\tDRIFT\tVS HIGHEST\tELAPSED")

	// The highest precision run anchors the cross-precision deltas.
	ref := results[0]
	for _, r := range results {
		if r.Precision > ref.Precision {
			ref = r
		}
	}

	for _, r := range results {
		delta := math.Abs(r.FinalEnergy - ref.FinalEnergy)
		fmt.Fprintf(w, "%d\t%.12g\t%.2e\t%.2e\t%v\n",
			r.Precision, r.FinalEnergy, r.EnergyDrift, delta, r.Elapsed)
	}

	return w.Flush()
}

func runBatch(cmd *cobra.Command, args []string) error {
	batch, err := runner.LoadBatch(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("batch %s: %d runs\n", batch.Name, len(batch.Runs))

	start := time.Now()
	results, err := runner.RunBatch(context.Background(), batch, st)
	if err != nil {
		return err
	}

	fmt.Printf("completed %d runs in %v\n", len(results), time.Since(start))
	return nil
}

func runPerturbation(cmd *cobra.Command, args []string) error {
	scn, err := resolveScenario(cmd, args)
	if err != nil {
		return err
	}

	fmt.Printf("perturbing %s: %d trials, relative nudge %.1e\n\n", scn.Name, trials, nudge)

	results, err := runner.RunPerturbed(context.Background(), scn, runner.PerturbationConfig{
		Trials:     trials,
		Relative:   nudge,
		Seed:       randSeed,
		DriftLimit: driftLimit,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tDRIFT\tFINAL ENERGY\tSTABLE")
	for _, r := range results {
		stable := "yes"
		if !r.Stable {
			stable = "no"
		}
		fmt.Fprintf(w, "%d\t%.2e\t%.9g\t%s\n", r.Trial+1, r.EnergyDrift, r.FinalEnergy, stable)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	stable, unstable := runner.PerturbationStats(results)
	fmt.Printf("\n%d stable, %d unstable of %d trials\n", stable, unstable, len(results))
	return nil
}

func tuneTimeStep(cmd *cobra.Command, args []string) error {
	scn, err := resolveScenario(cmd, args)
	if err != nil {
		return err
	}

	candidates := strings.Split(tuneList, ",")
	for i := range candidates {
		candidates[i] = strings.TrimSpace(candidates[i])
	}

	fmt.Printf("tuning %s: drift limit %.1e over a %s x %d span\n\n",
		scn.Name, tuneLimit, scn.TimeStep, scn.Steps)

	best, results, err := runner.TuneTimeStep(context.Background(), scn, candidates, tuneLimit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tSTEPS\tDRIFT\tELAPSED\tOK")
	for _, r := range results {
		ok := "yes"
		if !r.OK {
			ok = "no"
		}
		fmt.Fprintf(w, "%s\t%d\t%.2e\t%v\t%s\n", r.TimeStep, r.Steps, r.Drift, r.Elapsed, ok)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best == "" {
		fmt.Println("\nno candidate held the limit")
	} else {
		fmt.Printf("\nlargest stable time step: %s\n", best)
	}
	return nil
}

func listScenarioPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tSTEPS\tDT\tDESCRIPTION")

	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n",
			name, len(p.Bodies), p.Steps, p.TimeStep, p.Description)
	}

	return w.Flush()
}

func printConstants(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tNAME\tVALUE\tUNIT")

	for _, c := range phys.Table() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Symbol, c.Name, c.Value, c.Unit)
	}

	return w.Flush()
}
