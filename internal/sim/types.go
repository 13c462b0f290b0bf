package sim

import (
	"fmt"
	"math"
)

// State is the planar pose of the robot.
type State struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Theta float64 `json:"theta"`
}

func (s State) IsValid() bool {
	for _, v := range [...]float64{s.X, s.Y, s.Theta} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Distance returns the planar distance between two poses.
func (s State) Distance(o State) float64 {
	return math.Hypot(o.X-s.X, o.Y-s.Y)
}

// Control is one pair of wheel angular velocities in rad/s.
type Control struct {
	Left, Right float64
}

// Metric accumulates a figure over a run. Reset receives the initial
// pose; Observe receives each control sample with the pose it produced.
type Metric interface {
	Name() string
	Observe(x State, u Control, t float64)
	Value() float64
	Reset(x0 State)
}

// Observer sees each control sample with the pose it is applied to.
type Observer interface {
	OnStep(x State, u Control, t float64)
}

// Result holds one pose and time per sample plus the initial pose, and one
// control fewer.
type Result struct {
	States   []State
	Controls []Control
	Times    []float64
	Metrics  map[string]float64
	Steps    int
}

// Final returns the last recorded state.
func (r *Result) Final() State {
	if len(r.States) == 0 {
		return State{}
	}
	return r.States[len(r.States)-1]
}

// Duration is the simulated time span.
func (r *Result) Duration() float64 {
	if len(r.Times) == 0 {
		return 0
	}
	return r.Times[len(r.Times)-1]
}

// StepError reports the sample at which a run produced an invalid pose.
type StepError struct {
	Time    float64
	Step    int
	Message string
}

func (e StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
