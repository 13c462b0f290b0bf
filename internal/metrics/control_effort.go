package metrics

import (
	"math"

	"github.com/san-kum/diffdrive/internal/sim"
)

// ControlEffort is the mean of |left| + |right| wheel speed over a run.
type ControlEffort struct {
	name    string
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(x sim.State, u sim.Control, t float64) {
	c.sum += math.Abs(u.Left) + math.Abs(u.Right)
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset(x0 sim.State) {
	c.sum = 0
	c.samples = 0
}
