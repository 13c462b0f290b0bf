package drive

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// DefaultDt is the integration step used when WithDt is not given.
const DefaultDt = 1e-4

// Model is a differential-drive robot: fixed geometry plus a planar pose
// that only Step changes. A Model is not safe for concurrent use.
type Model struct {
	r, s, h float64
	dt      float64

	x, y, theta float64
}

// Option configures a Model in New.
type Option func(*Model)

// WithHeight sets the fixed height of the robot above the ground plane.
func WithHeight(h float64) Option {
	return func(m *Model) { m.h = h }
}

// WithDt sets the integration time step.
func WithDt(dt float64) Option {
	return func(m *Model) { m.dt = dt }
}

// WithPose sets the initial pose in the inertial frame.
func WithPose(x, y, theta float64) Option {
	return func(m *Model) { m.x, m.y, m.theta = x, y, theta }
}

// New returns a model with wheel radius r and wheel separation s, resting
// at the origin and aligned with the inertial frame unless options say
// otherwise.
func New(r, s float64, opts ...Option) (*Model, error) {
	m := &Model{r: r, s: s, dt: DefaultDt}
	for _, opt := range opts {
		opt(m)
	}

	if !positive(r) {
		return nil, errors.Wrapf(ErrInvalidGeometry, "wheel radius must be positive, got %g", r)
	}
	if !positive(s) {
		return nil, errors.Wrapf(ErrInvalidGeometry, "wheel separation must be positive, got %g", s)
	}
	if !positive(m.dt) {
		return nil, errors.Wrapf(ErrInvalidGeometry, "dt must be positive, got %g", m.dt)
	}
	if !finite(m.h) || !finite(m.x) || !finite(m.y) || !finite(m.theta) {
		return nil, errors.Wrap(ErrInvalidGeometry, "height and initial pose must be finite")
	}
	return m, nil
}

func (m *Model) Radius() float64     { return m.r }
func (m *Model) Separation() float64 { return m.s }
func (m *Model) Height() float64     { return m.h }
func (m *Model) Dt() float64         { return m.dt }

// Rates maps wheel angular velocities to the inertial-frame pose
// derivatives at the current heading.
func (m *Model) Rates(phiDotL, phiDotR float64) (xDot, yDot, thetaDot float64) {
	v := m.r * (phiDotL + phiDotR) / 2
	xDot = v * math.Cos(m.theta)
	yDot = v * math.Sin(m.theta)
	thetaDot = m.r * (phiDotR - phiDotL) / m.s
	return xDot, yDot, thetaDot
}

// Step integrates the pose over one time step with forward Euler.
func (m *Model) Step(phiDotL, phiDotR float64) {
	xDot, yDot, thetaDot := m.Rates(phiDotL, phiDotR)
	m.x += xDot * m.dt
	m.y += yDot * m.dt
	m.theta += thetaDot * m.dt
}

// Pose returns the planar pose as plain values.
func (m *Model) Pose() (x, y, theta float64) {
	return m.x, m.y, m.theta
}

// Output returns (x, y, theta) as a column vector.
func (m *Model) Output() *mat.VecDense {
	return mat.NewVecDense(3, []float64{m.x, m.y, m.theta})
}

// Position returns (x, y, h) as a column vector.
func (m *Model) Position() *mat.VecDense {
	return mat.NewVecDense(3, []float64{m.x, m.y, m.h})
}

// Orientation returns the rotation about the vertical axis by theta.
func (m *Model) Orientation() *mat.Dense {
	sin, cos := math.Sincos(m.theta)
	return mat.NewDense(3, 3, []float64{
		cos, -sin, 0,
		sin, cos, 0,
		0, 0, 1,
	})
}

// HomogeneousPose returns the 4x4 rigid-body transform with Orientation as
// the rotation block and Position as the translation column.
func (m *Model) HomogeneousPose() *mat.Dense {
	pose := mat.NewDense(4, 4, nil)

	rot := pose.Slice(0, 3, 0, 3).(*mat.Dense)
	rot.Copy(m.Orientation())

	pose.SetCol(3, append(mat.Col(nil, 0, m.Position()), 1))
	return pose
}

func positive(v float64) bool {
	return v > 0 && finite(v)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
