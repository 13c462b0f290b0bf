package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/diffdrive/internal/metrics"
	"github.com/san-kum/diffdrive/internal/sim"
)

type Registry struct {
	metrics map[string]func() sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func() sim.Metric),
	}

	r.metrics["path_length"] = func() sim.Metric { return metrics.NewPathLength() }
	r.metrics["displacement"] = func() sim.Metric { return metrics.NewDisplacement() }
	r.metrics["heading_change"] = func() sim.Metric { return metrics.NewHeadingChange() }
	r.metrics["control_effort"] = func() sim.Metric { return metrics.NewControlEffort() }

	return r
}

func (r *Registry) GetMetric(name string) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

// Metrics resolves names in order; no names selects every metric.
func (r *Registry) Metrics(names ...string) ([]sim.Metric, error) {
	if len(names) == 0 {
		names = r.ListMetrics()
	}
	out := make([]sim.Metric, 0, len(names))
	for _, name := range names {
		m, err := r.GetMetric(name)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
