package experiment

import (
	"context"
	"math"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/san-kum/diffdrive/internal/config"
)

func TestExperimentRun(t *testing.T) {
	cfg := config.GetPreset("square")
	if cfg == nil {
		t.Fatal("missing square preset")
	}

	reg := NewRegistry()
	metrics, err := reg.Metrics()
	if err != nil {
		t.Fatal(err)
	}

	exp := New(cfg, zaptest.NewLogger(t))
	if err := exp.Setup(metrics); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if len(exp.Steps()) != 8 {
		t.Errorf("expected 8 steps, got %d", len(exp.Steps()))
	}

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	final := result.Final()
	if math.Hypot(final.X, final.Y) > 1e-6 {
		t.Errorf("square should close, ended at (%g, %g)", final.X, final.Y)
	}
	if math.Abs(final.Theta-2*math.Pi) > 1e-6 {
		t.Errorf("expected heading 2pi, got %g", final.Theta)
	}
	if got := result.Metrics["path_length"]; math.Abs(got-4) > 1e-6 {
		t.Errorf("path_length = %g, want 4", got)
	}
	if len(result.Metrics) != 4 {
		t.Errorf("expected 4 metrics, got %d", len(result.Metrics))
	}
}

func TestExperimentInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Robot.Radius = 0
	cfg.Program = []string{"D 1 1"}

	if err := New(cfg, nil).Setup(nil); err == nil {
		t.Error("expected setup error for zero radius")
	}

	cfg = config.DefaultConfig()
	if err := New(cfg, nil).Setup(nil); err == nil {
		t.Error("expected setup error for empty program")
	}
}

func TestExperimentNotSetup(t *testing.T) {
	if _, err := New(config.DefaultConfig(), nil).Run(context.Background()); err == nil {
		t.Error("expected error when running before setup")
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	names := reg.ListMetrics()
	if len(names) != 4 || names[0] != "control_effort" {
		t.Errorf("unexpected metric list %v", names)
	}

	m, err := reg.Metrics("heading_change", "path_length")
	if err != nil {
		t.Fatal(err)
	}
	if m[0].Name() != "heading_change" || m[1].Name() != "path_length" {
		t.Errorf("metrics out of order: %s, %s", m[0].Name(), m[1].Name())
	}

	if _, err := reg.GetMetric("energy"); err == nil {
		t.Error("expected error for unknown metric")
	}
}
