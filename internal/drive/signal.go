package drive

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Signal is a sequence of wheel angular velocities in rad/s, one sample per
// time step.
type Signal []float64

func constant(n int, v float64) Signal {
	s := make(Signal, n)
	for i := range s {
		s[i] = v
	}
	return s
}

// Pair holds the left and right wheel signals of one command segment.
type Pair struct {
	Left, Right Signal
}

func (p Pair) Len() int { return len(p.Left) }

// Trajectory is a sequence of segments joined end to end, with one
// timestamp per sample.
type Trajectory struct {
	Left, Right Signal
	Time        []float64
}

func (t Trajectory) Len() int { return len(t.Time) }

// Duration returns the nominal duration covered by the trajectory.
func (t Trajectory) Duration() float64 {
	if len(t.Time) == 0 {
		return 0
	}
	return t.Time[len(t.Time)-1]
}

// samples returns floor(t/dt) for a usable duration t.
func (m *Model) samples(t float64) (int, error) {
	if math.IsNaN(t) || t <= 0 {
		return 0, errors.Wrapf(ErrInvalidDuration, "duration must be positive, got %g", t)
	}
	if math.IsInf(t, 0) {
		return 0, errors.Wrap(ErrInvalidDuration, "duration must be finite")
	}
	n := math.Floor(t / m.dt)
	if n < 1 {
		return 0, errors.Wrapf(ErrInvalidDuration, "duration %g is shorter than dt %g", t, m.dt)
	}
	if n > math.MaxInt32 {
		return 0, errors.Wrapf(ErrInvalidDuration, "duration %g yields too many samples at dt %g", t, m.dt)
	}
	return int(n), nil
}

// DriveSignal returns the profile that drives distance d in a straight line
// over duration t. Both wheels turn at d/(t*r).
func (m *Model) DriveSignal(d, t float64) (Pair, error) {
	if !finite(d) {
		return Pair{}, errors.Wrapf(ErrInvalidArgument, "distance must be finite, got %g", d)
	}
	n, err := m.samples(t)
	if err != nil {
		return Pair{}, err
	}

	v := d / t
	phiDot := v / m.r
	if !finite(phiDot) {
		return Pair{}, errors.Wrapf(ErrInvalidArgument, "wheel speed overflows for d=%g, t=%g", d, t)
	}
	return Pair{Left: constant(n, phiDot), Right: constant(n, phiDot)}, nil
}

// TurnSignal returns the profile that turns in place by a degrees over
// duration t. Positive angles turn counter-clockwise: the right wheel runs
// forward and the left wheel backward.
func (m *Model) TurnSignal(a, t float64) (Pair, error) {
	if !finite(a) {
		return Pair{}, errors.Wrapf(ErrInvalidArgument, "angle must be finite, got %g", a)
	}
	n, err := m.samples(t)
	if err != nil {
		return Pair{}, err
	}

	thetaDot := radians(a) / t
	phiDot := thetaDot * m.s / (2 * m.r)
	if !finite(phiDot) {
		return Pair{}, errors.Wrapf(ErrInvalidArgument, "wheel speed overflows for a=%g, t=%g", a, t)
	}
	return Pair{Left: constant(n, -phiDot), Right: constant(n, phiDot)}, nil
}

// ArcSignal returns the profile that sweeps a degrees along an arc of
// radius rArc over duration t. The sign of rArc selects the turn side: a
// positive radius with a positive angle turns left. A zero radius yields
// a standing profile.
func (m *Model) ArcSignal(rArc, a, t float64) (Pair, error) {
	if !finite(rArc) {
		return Pair{}, errors.Wrapf(ErrInvalidArgument, "arc radius must be finite, got %g", rArc)
	}
	if !finite(a) {
		return Pair{}, errors.Wrapf(ErrInvalidArgument, "angle must be finite, got %g", a)
	}
	n, err := m.samples(t)
	if err != nil {
		return Pair{}, err
	}
	den := 2 * t * m.r
	if den == 0 {
		return Pair{}, errors.Wrapf(ErrDivisionByZero, "t*r is zero (t=%g, r=%g)", t, m.r)
	}

	side := sign(rArc)
	rArc = math.Abs(rArc)
	a = radians(a)

	phiDotL := (2*a*rArc - side*a*m.s) / den
	phiDotR := (2*a*rArc + side*a*m.s) / den
	if !finite(phiDotL) || !finite(phiDotR) {
		return Pair{}, errors.Wrapf(ErrInvalidArgument, "wheel speed overflows for r=%g, t=%g", rArc, t)
	}
	return Pair{Left: constant(n, phiDotL), Right: constant(n, phiDotR)}, nil
}

// Concatenate joins the segments in order and builds a time vector of
// len(samples) points evenly spaced over [0, len(samples)*dt].
func (m *Model) Concatenate(pairs ...Pair) (Trajectory, error) {
	return Concatenate(m.dt, pairs...)
}

// Concatenate joins the segments in order. The time vector has one point
// per sample, evenly spaced from 0 to total*dt inclusive.
func Concatenate(dt float64, pairs ...Pair) (Trajectory, error) {
	if !positive(dt) {
		return Trajectory{}, errors.Wrapf(ErrInvalidArgument, "dt must be positive, got %g", dt)
	}

	total := 0
	for i, p := range pairs {
		if len(p.Left) != len(p.Right) {
			return Trajectory{}, errors.Wrapf(ErrInvalidArgument,
				"segment %d has %d left and %d right samples", i, len(p.Left), len(p.Right))
		}
		total += len(p.Left)
	}

	traj := Trajectory{
		Left:  make(Signal, 0, total),
		Right: make(Signal, 0, total),
		Time:  make([]float64, total),
	}
	for _, p := range pairs {
		traj.Left = append(traj.Left, p.Left...)
		traj.Right = append(traj.Right, p.Right...)
	}

	switch {
	case total == 1:
		traj.Time[0] = 0
	case total > 1:
		floats.Span(traj.Time, 0, float64(total)*dt)
	}
	return traj, nil
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
