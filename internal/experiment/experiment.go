package experiment

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/san-kum/diffdrive/internal/config"
	"github.com/san-kum/diffdrive/internal/drive"
	"github.com/san-kum/diffdrive/internal/plan"
	"github.com/san-kum/diffdrive/internal/sim"
)

// Experiment is one configured run: a model, a program and the metrics to
// collect while replaying it.
type Experiment struct {
	cfg       *config.Config
	logger    *zap.Logger
	model     *drive.Model
	steps     []plan.Step
	traj      drive.Trajectory
	simulator *sim.Simulator
}

func New(cfg *config.Config, logger *zap.Logger) *Experiment {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Experiment{cfg: cfg, logger: logger}
}

// Setup validates the configuration, builds the model and generates the
// trajectory for the program.
func (e *Experiment) Setup(metrics []sim.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid config")
	}

	model, err := e.cfg.NewModel()
	if err != nil {
		return err
	}
	steps, err := e.cfg.Steps()
	if err != nil {
		return err
	}
	traj, err := plan.Build(model, steps)
	if err != nil {
		return err
	}

	e.model, e.steps, e.traj = model, steps, traj
	e.simulator = sim.New(model, sim.WithLogger(e.logger))
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}

	e.logger.Info("experiment ready",
		zap.String("name", e.cfg.Name),
		zap.String("program", plan.Format(steps)),
		zap.Int("samples", traj.Len()),
		zap.Float64("dt", model.Dt()))
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, errors.New("experiment not setup")
	}
	return e.simulator.Run(ctx, e.traj)
}

func (e *Experiment) Model() *drive.Model { return e.model }
func (e *Experiment) Steps() []plan.Step  { return e.steps }
