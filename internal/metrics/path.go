package metrics

import (
	"math"

	"github.com/san-kum/diffdrive/internal/sim"
)

// PathLength sums the planar distance covered between successive poses.
type PathLength struct {
	prev   sim.State
	length float64
}

func NewPathLength() *PathLength { return &PathLength{} }

func (p *PathLength) Name() string { return "path_length" }

func (p *PathLength) Observe(x sim.State, u sim.Control, t float64) {
	p.length += p.prev.Distance(x)
	p.prev = x
}

func (p *PathLength) Value() float64 { return p.length }

func (p *PathLength) Reset(x0 sim.State) {
	p.prev = x0
	p.length = 0
}

// Displacement is the straight-line distance from the initial pose to the
// latest one.
type Displacement struct {
	start, last sim.State
}

func NewDisplacement() *Displacement { return &Displacement{} }

func (d *Displacement) Name() string { return "displacement" }

func (d *Displacement) Observe(x sim.State, u sim.Control, t float64) { d.last = x }

func (d *Displacement) Value() float64 { return d.start.Distance(d.last) }

func (d *Displacement) Reset(x0 sim.State) {
	d.start, d.last = x0, x0
}

// HeadingChange sums the absolute change of heading, so a full turn left
// followed by a full turn right counts 4*pi.
type HeadingChange struct {
	prev  float64
	total float64
}

func NewHeadingChange() *HeadingChange { return &HeadingChange{} }

func (h *HeadingChange) Name() string { return "heading_change" }

func (h *HeadingChange) Observe(x sim.State, u sim.Control, t float64) {
	h.total += math.Abs(x.Theta - h.prev)
	h.prev = x.Theta
}

func (h *HeadingChange) Value() float64 { return h.total }

func (h *HeadingChange) Reset(x0 sim.State) {
	h.prev = x0.Theta
	h.total = 0
}

// Defaults returns a fresh set of the standard metrics.
func Defaults() []sim.Metric {
	return []sim.Metric{
		NewPathLength(),
		NewDisplacement(),
		NewHeadingChange(),
		NewControlEffort(),
	}
}
