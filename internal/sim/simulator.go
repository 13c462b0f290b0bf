package sim

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/san-kum/diffdrive/internal/drive"
)

// ctxCheckInterval is how many samples run between context checks.
const ctxCheckInterval = 1024

// Simulator replays wheel trajectories through a drive model.
type Simulator struct {
	model     *drive.Model
	metrics   []Metric
	observers []Observer
	logger    *zap.Logger
}

// Option configures a Simulator.
type Option func(*Simulator)

func WithLogger(l *zap.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns a simulator that steps model. It logs nowhere unless
// WithLogger is given.
func New(model *drive.Model, opts ...Option) *Simulator {
	s := &Simulator{
		model:     model,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Model() *drive.Model { return s.model }

func (s *Simulator) state() State {
	x, y, theta := s.model.Pose()
	return State{X: x, Y: y, Theta: theta}
}

// Run feeds every sample of traj to the model, one Step per sample. The
// result holds the initial pose followed by the pose after each sample.
func (s *Simulator) Run(ctx context.Context, traj drive.Trajectory) (*Result, error) {
	if err := validate(traj); err != nil {
		return nil, err
	}

	n := traj.Len()
	dt := s.model.Dt()
	result := &Result{
		States:   make([]State, 0, n+1),
		Controls: make([]Control, 0, n),
		Times:    make([]float64, 0, n+1),
		Metrics:  make(map[string]float64),
	}

	x := s.state()
	for _, m := range s.metrics {
		m.Reset(x)
	}

	result.States = append(result.States, x)
	result.Times = append(result.Times, 0)

	s.logger.Debug("replaying trajectory",
		zap.Int("samples", n),
		zap.Float64("dt", dt),
		zap.Float64("duration", traj.Duration()))

	for i := 0; i < n; i++ {
		if i%ctxCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			default:
			}
		}

		// Integration time, not traj.Time: the linspace vector is
		// spaced slightly wider than dt.
		t := float64(i) * dt
		u := Control{Left: traj.Left[i], Right: traj.Right[i]}

		for _, obs := range s.observers {
			obs.OnStep(x, u, t)
		}

		s.model.Step(u.Left, u.Right)
		x = s.state()

		if !x.IsValid() {
			err := StepError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"}
			s.logger.Warn("run stopped", zap.Error(err))
			return result, err
		}

		for _, m := range s.metrics {
			m.Observe(x, u, t+dt)
		}

		result.Steps++
		result.States = append(result.States, x)
		result.Controls = append(result.Controls, u)
		result.Times = append(result.Times, t+dt)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Debug("replay done",
		zap.Int("steps", result.Steps),
		zap.Float64("x", x.X),
		zap.Float64("y", x.Y),
		zap.Float64("theta", x.Theta))

	return result, nil
}

// RunWithCallback replays traj and calls fn before each sample. Returning
// false from fn stops the replay without error.
func (s *Simulator) RunWithCallback(ctx context.Context, traj drive.Trajectory, fn func(State, Control, float64) bool) error {
	if err := validate(traj); err != nil {
		return err
	}

	dt := s.model.Dt()
	for i := 0; i < traj.Len(); i++ {
		if i%ctxCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		u := Control{Left: traj.Left[i], Right: traj.Right[i]}
		if !fn(s.state(), u, float64(i)*dt) {
			return nil
		}
		s.model.Step(u.Left, u.Right)
	}
	return nil
}

func validate(traj drive.Trajectory) error {
	if traj.Len() == 0 {
		return errors.New("trajectory is empty")
	}
	if len(traj.Left) != traj.Len() || len(traj.Right) != traj.Len() {
		return errors.Errorf("trajectory has %d left, %d right and %d time samples",
			len(traj.Left), len(traj.Right), traj.Len())
	}
	return nil
}
