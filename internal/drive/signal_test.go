package drive

import (
	"errors"
	"math"
	"testing"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	m, err := New(0.05, 0.2, WithDt(1e-3))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return m
}

func TestGeneratorsRejectBadDuration(t *testing.T) {
	m := newTestModel(t)

	gens := map[string]func(t float64) (Pair, error){
		"drive": func(d float64) (Pair, error) { return m.DriveSignal(1, d) },
		"turn":  func(d float64) (Pair, error) { return m.TurnSignal(90, d) },
		"arc":   func(d float64) (Pair, error) { return m.ArcSignal(0.5, 90, d) },
	}
	durations := []float64{0, -1, math.NaN(), math.Inf(1), 1e-4}

	for name, gen := range gens {
		for _, d := range durations {
			p, err := gen(d)
			if !errors.Is(err, ErrInvalidDuration) {
				t.Errorf("%s(t=%g): expected ErrInvalidDuration, got %v", name, d, err)
			}
			if p.Left != nil || p.Right != nil {
				t.Errorf("%s(t=%g): returned partial signal", name, d)
			}
		}
	}
}

func TestGeneratorsRejectNonFiniteArgs(t *testing.T) {
	m := newTestModel(t)

	if _, err := m.DriveSignal(math.NaN(), 1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("drive NaN distance: got %v", err)
	}
	if _, err := m.TurnSignal(math.Inf(-1), 1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("turn -Inf angle: got %v", err)
	}
	if _, err := m.ArcSignal(math.Inf(1), 90, 1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("arc Inf radius: got %v", err)
	}
}

func TestGeneratorsRejectOverflow(t *testing.T) {
	m := newTestModel(t)

	if p, err := m.DriveSignal(1e308, 1e-3); !errors.Is(err, ErrInvalidArgument) || p.Left != nil {
		t.Errorf("drive 1e308 m: expected ErrInvalidArgument, got %v", err)
	}
	if p, err := m.TurnSignal(1e308, 1e-3); !errors.Is(err, ErrInvalidArgument) || p.Left != nil {
		t.Errorf("turn 1e308 deg: expected ErrInvalidArgument, got %v", err)
	}
	if p, err := m.ArcSignal(1e308, 1e308, 1e-3); !errors.Is(err, ErrInvalidArgument) || p.Left != nil {
		t.Errorf("arc 1e308 m: expected ErrInvalidArgument, got %v", err)
	}
}

func TestDriveSignal(t *testing.T) {
	m := newTestModel(t)

	p, err := m.DriveSignal(1.0, 10.0)
	if err != nil {
		t.Fatal(err)
	}

	wantLen := int(math.Floor(10.0 / m.Dt()))
	if p.Len() != wantLen || len(p.Right) != wantLen {
		t.Fatalf("expected %d samples, got %d/%d", wantLen, len(p.Left), len(p.Right))
	}
	for i := range p.Left {
		if math.Abs(p.Left[i]-2.0) > 1e-12 || p.Right[i] != p.Left[i] {
			t.Fatalf("sample %d = (%g, %g), want 2", i, p.Left[i], p.Right[i])
		}
	}
}

func TestTurnSignal(t *testing.T) {
	m := newTestModel(t)

	tests := []struct {
		angle, duration float64
	}{
		{90, 1},
		{-45, 0.5},
		{360, 4},
	}

	for _, tt := range tests {
		p, err := m.TurnSignal(tt.angle, tt.duration)
		if err != nil {
			t.Fatal(err)
		}
		want := tt.angle * math.Pi / 180 * m.Separation() / (2 * m.Radius() * tt.duration)
		for i := range p.Left {
			if p.Left[i] != -p.Right[i] {
				t.Fatalf("turn(%g): sample %d left %g != -right %g", tt.angle, i, p.Left[i], p.Right[i])
			}
			if math.Abs(p.Right[i]-want) > 1e-12 {
				t.Fatalf("turn(%g): sample %d = %g, want %g", tt.angle, i, p.Right[i], want)
			}
		}
	}
}

func TestTurnSignalQuarter(t *testing.T) {
	m := newTestModel(t)
	p, err := m.TurnSignal(90, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(p.Left[0]+math.Pi) > 1e-12 || math.Abs(p.Right[0]-math.Pi) > 1e-12 {
		t.Errorf("got (%g, %g), want (-pi, pi)", p.Left[0], p.Right[0])
	}
}

func TestArcSignal(t *testing.T) {
	m := newTestModel(t)
	r, s := m.Radius(), m.Separation()

	tests := []struct {
		name            string
		radius, angle   float64
		duration        float64
		wantLeftSlower  bool
		wantRightSlower bool
	}{
		{"left turn", 0.5, 90, 2, true, false},
		{"right turn", -0.5, 90, 2, false, true},
		{"straight through zero radius", 0, 90, 2, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := m.ArcSignal(tt.radius, tt.angle, tt.duration)
			if err != nil {
				t.Fatal(err)
			}
			a := tt.angle * math.Pi / 180
			side := 0.0
			if tt.radius > 0 {
				side = 1
			} else if tt.radius < 0 {
				side = -1
			}
			ra := math.Abs(tt.radius)
			wantL := (2*a*ra - side*a*s) / (2 * tt.duration * r)
			wantR := (2*a*ra + side*a*s) / (2 * tt.duration * r)

			if math.Abs(p.Left[0]-wantL) > 1e-12 || math.Abs(p.Right[0]-wantR) > 1e-12 {
				t.Errorf("got (%g, %g), want (%g, %g)", p.Left[0], p.Right[0], wantL, wantR)
			}
			if tt.wantLeftSlower && !(p.Left[0] < p.Right[0]) {
				t.Errorf("expected left wheel slower for a left turn")
			}
			if tt.wantRightSlower && !(p.Right[0] < p.Left[0]) {
				t.Errorf("expected right wheel slower for a right turn")
			}
			if n := int(math.Floor(tt.duration / m.Dt())); p.Len() != n {
				t.Errorf("expected %d samples, got %d", n, p.Len())
			}
		})
	}
}

func TestGeneratorsDoNotMutate(t *testing.T) {
	m := newTestModel(t)
	m.Step(1, 2)
	x0, y0, th0 := m.Pose()

	if _, err := m.DriveSignal(1, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := m.TurnSignal(90, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := m.ArcSignal(1, 90, 1); err != nil {
		t.Fatal(err)
	}

	x, y, th := m.Pose()
	if x != x0 || y != y0 || th != th0 {
		t.Error("signal generation mutated the pose")
	}
}

func TestConcatenate(t *testing.T) {
	m := newTestModel(t)

	a := Pair{Left: Signal{1, 2}, Right: Signal{3, 4}}
	b := Pair{Left: Signal{5, 6, 7}, Right: Signal{8, 9, 10}}

	traj, err := m.Concatenate(a, b)
	if err != nil {
		t.Fatal(err)
	}

	wantL := Signal{1, 2, 5, 6, 7}
	wantR := Signal{3, 4, 8, 9, 10}
	if traj.Len() != 5 || len(traj.Left) != 5 || len(traj.Right) != 5 {
		t.Fatalf("expected 5 samples, got %d/%d/%d", len(traj.Left), len(traj.Right), len(traj.Time))
	}
	for i := range wantL {
		if traj.Left[i] != wantL[i] || traj.Right[i] != wantR[i] {
			t.Errorf("sample %d = (%g, %g), want (%g, %g)", i, traj.Left[i], traj.Right[i], wantL[i], wantR[i])
		}
	}

	if traj.Time[0] != 0 {
		t.Errorf("time starts at %g, want 0", traj.Time[0])
	}
	if last := traj.Time[4]; math.Abs(last-5*m.Dt()) > 1e-15 {
		t.Errorf("time ends at %g, want %g", last, 5*m.Dt())
	}
	for i := 1; i < len(traj.Time); i++ {
		if traj.Time[i] < traj.Time[i-1] {
			t.Fatalf("time vector decreases at %d", i)
		}
	}
}

func TestConcatenateEdgeCases(t *testing.T) {
	m := newTestModel(t)

	empty, err := m.Concatenate()
	if err != nil {
		t.Fatal(err)
	}
	if empty.Len() != 0 || empty.Duration() != 0 {
		t.Errorf("expected empty trajectory, got %d samples", empty.Len())
	}

	single, err := m.Concatenate(Pair{Left: Signal{1}, Right: Signal{2}})
	if err != nil {
		t.Fatal(err)
	}
	if single.Len() != 1 || single.Time[0] != 0 {
		t.Errorf("single sample: time = %v", single.Time)
	}

	_, err = m.Concatenate(Pair{Left: Signal{1, 2}, Right: Signal{1}})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("mismatched pair: expected ErrInvalidArgument, got %v", err)
	}

	if _, err := Concatenate(0, Pair{}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("zero dt: expected ErrInvalidArgument, got %v", err)
	}
}
