package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/diffdrive/internal/config"
	"github.com/san-kum/diffdrive/internal/experiment"
	"github.com/san-kum/diffdrive/internal/plan"
	"github.com/san-kum/diffdrive/internal/sim"
	"github.com/san-kum/diffdrive/internal/storage"
	"github.com/san-kum/diffdrive/internal/viz"
)

// resolveConfig layers defaults, a preset, a config file and explicit flags,
// in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, errors.Errorf("unknown preset %q (see 'diffdrive presets')", preset)
		}
		cfg = p
	}
	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, err
		}
	}

	f := cmd.Flags()
	if f.Changed("program") {
		steps, err := plan.Parse(program)
		if err != nil {
			return nil, err
		}
		cfg.Program = cfg.Program[:0]
		for _, s := range steps {
			cfg.Program = append(cfg.Program, s.String())
		}
	}
	if f.Changed("radius") {
		cfg.Robot.Radius = radius
	}
	if f.Changed("separation") {
		cfg.Robot.Separation = separation
	}
	if f.Changed("height") {
		cfg.Robot.Height = height
	}
	if f.Changed("dt") {
		cfg.Dt = dt
	}
	if f.Changed("x") {
		cfg.InitPose.X = initX
	}
	if f.Changed("y") {
		cfg.InitPose.Y = initY
	}
	if f.Changed("theta") {
		cfg.InitPose.Theta = initTheta
	}
	if f.Changed("name") {
		cfg.Name = runName
	}

	if cfg.Name == "" {
		cfg.Name = "run"
		if preset != "" {
			cfg.Name = preset
		}
	}
	if len(cfg.Program) == 0 {
		return nil, errors.New("no program given: use --program, --preset or --config")
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	metrics, err := experiment.NewRegistry().Metrics(metricNames...)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, logger)
	if err := exp.Setup(metrics); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s: %s\n", cfg.Name, plan.Format(exp.Steps()))
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	final := result.Final()
	fmt.Printf("\nsamples:   %d\n", result.Steps)
	fmt.Printf("duration:  %.4f s\n", result.Duration())
	fmt.Printf("final:     x=%.4f m  y=%.4f m  theta=%.4f rad (%.2f°)\n",
		final.X, final.Y, final.Theta, final.Theta*180/math.Pi)
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %-16s %.6f\n", name, result.Metrics[name])
	}

	if noSave {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	model := exp.Model()
	id, err := st.Save(storage.RunMetadata{
		Name:       cfg.Name,
		Program:    plan.Format(exp.Steps()),
		Radius:     model.Radius(),
		Separation: model.Separation(),
		Height:     model.Height(),
		Dt:         model.Dt(),
	}, result)
	if err != nil {
		return err
	}
	logger.Debug("run saved", zap.String("id", id), zap.String("dir", dataDir))
	fmt.Printf("\nsaved: %s\n", id)
	return nil
}

func printSignals(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	model, err := cfg.NewModel()
	if err != nil {
		return err
	}
	steps, err := cfg.Steps()
	if err != nil {
		return err
	}
	pairs, err := plan.Segments(model, steps)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSTEP\tSAMPLES\tPHI_L\tPHI_R")
	total := 0
	for i, p := range pairs {
		total += p.Len()
		fmt.Fprintf(w, "%d\t%s\t%d\t%.6f\t%.6f\n", i+1, steps[i], p.Len(), p.Left[0], p.Right[0])
	}
	fmt.Fprintf(w, "\t\t%d\t\t\n", total)
	return w.Flush()
}

// sweepTimeSteps replays the program once per dt and reports how far each
// final pose lands from the one at the finest step.
func sweepTimeSteps(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if len(sweepDts) == 0 {
		return errors.New("no time steps to sweep")
	}

	jobs := make([]sim.Job, 0, len(sweepDts))
	for _, step := range sweepDts {
		c := cfg.Clone()
		c.Dt = step
		if err := c.Validate(); err != nil {
			return err
		}
		model, err := c.NewModel()
		if err != nil {
			return err
		}
		steps, err := c.Steps()
		if err != nil {
			return err
		}
		traj, err := plan.Build(model, steps)
		if err != nil {
			return errors.Wrapf(err, "dt=%g", step)
		}
		jobs = append(jobs, sim.Job{
			Name:       fmt.Sprintf("dt=%g", step),
			Model:      model,
			Trajectory: traj,
		})
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("sweep", zap.Int("runs", len(jobs)), zap.Int("workers", workers))
	results, err := sim.Batch(ctx, jobs, workers, sim.WithLogger(logger))
	if err != nil {
		return err
	}

	ref := 0
	for i := range sweepDts {
		if sweepDts[i] < sweepDts[ref] {
			ref = i
		}
	}
	refFinal := results[ref].Final()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tSAMPLES\tX\tY\tTHETA\tPOS_ERR\tTHETA_ERR")
	for i, res := range results {
		x := res.Final()
		fmt.Fprintf(w, "%g\t%d\t%.5f\t%.5f\t%.5f\t%.2e\t%.2e\n",
			sweepDts[i], res.Steps, x.X, x.Y, x.Theta,
			x.Distance(refFinal), math.Abs(x.Theta-refFinal.Theta))
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		st := storage.New(dataDir)
		meta, err := st.Load(args[0])
		if err != nil {
			return err
		}
		states, controls, times, err := st.LoadStates(args[0])
		if err != nil {
			return err
		}
		return viz.NewPlayback(meta.Name+" · "+meta.Program, states, controls, times).Run()
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	exp := experiment.New(cfg, logger)
	if err := exp.Setup(nil); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	title := cfg.Name + " · " + plan.Format(exp.Steps())
	return viz.NewPlayback(title, result.States, result.Controls, result.Times).Run()
}
