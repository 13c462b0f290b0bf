// Package plan parses command programs and turns them into wheel
// trajectories.
//
// A program is a list of statements separated by newlines or semicolons.
// Each statement is a command symbol followed by its numeric arguments:
//
//	D 1.0 10     # drive 1 m in 10 s
//	T 90 1       # turn 90 degrees in 1 s
//	C -0.5 90 3  # right-hand arc of radius 0.5 m through 90 degrees in 3 s
package plan

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/san-kum/diffdrive/internal/drive"
)

// Step is one program statement: a command and its arguments.
type Step struct {
	Command drive.Command
	Args    []float64
}

func (s Step) String() string {
	parts := make([]string, 0, len(s.Args)+1)
	parts = append(parts, s.Command.String())
	for _, a := range s.Args {
		parts = append(parts, strconv.FormatFloat(a, 'g', -1, 64))
	}
	return strings.Join(parts, " ")
}

// Duration is the commanded duration, always the last argument.
func (s Step) Duration() float64 {
	if len(s.Args) == 0 {
		return 0
	}
	return s.Args[len(s.Args)-1]
}

// Parse reads a whole program.
func Parse(src string) ([]Step, error) {
	var steps []Step
	n := 0
	for _, line := range strings.Split(src, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		for _, stmt := range strings.Split(line, ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			n++
			step, err := ParseStep(stmt)
			if err != nil {
				return nil, errors.Wrapf(err, "statement %d", n)
			}
			steps = append(steps, step)
		}
	}
	return steps, nil
}

// ParseStep reads a single statement such as "T 90 1".
func ParseStep(stmt string) (Step, error) {
	fields := strings.Fields(stmt)
	if len(fields) == 0 {
		return Step{}, errors.Wrap(drive.ErrInvalidArgument, "empty statement")
	}

	cmd, err := drive.ParseCommand(fields[0])
	if err != nil {
		return Step{}, err
	}
	if len(fields)-1 != cmd.Arity() {
		return Step{}, errors.Wrapf(drive.ErrInvalidArgument,
			"%q: expected %s", strings.TrimSpace(stmt), cmd.Usage())
	}

	args := make([]float64, 0, cmd.Arity())
	for _, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Step{}, errors.Wrapf(drive.ErrInvalidArgument, "bad number %q", f)
		}
		args = append(args, v)
	}
	return Step{Command: cmd, Args: args}, nil
}

// ParseAll parses each entry of a statement list, as found in config files.
func ParseAll(stmts []string) ([]Step, error) {
	return Parse(strings.Join(stmts, "\n"))
}

// Segments generates one signal pair per step.
func Segments(m *drive.Model, steps []Step) ([]drive.Pair, error) {
	if len(steps) == 0 {
		return nil, errors.New("empty program")
	}
	pairs := make([]drive.Pair, 0, len(steps))
	for i, s := range steps {
		p, err := m.Signal(s.Command, s.Args...)
		if err != nil {
			return nil, errors.Wrapf(err, "step %d (%s)", i+1, s)
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

// Build generates every step and joins the segments into one trajectory.
func Build(m *drive.Model, steps []Step) (drive.Trajectory, error) {
	pairs, err := Segments(m, steps)
	if err != nil {
		return drive.Trajectory{}, err
	}
	return m.Concatenate(pairs...)
}

// Duration sums the commanded durations of all steps.
func Duration(steps []Step) float64 {
	total := 0.0
	for _, s := range steps {
		total += s.Duration()
	}
	return total
}

// Format renders steps back into a single-line program.
func Format(steps []Step) string {
	parts := make([]string, len(steps))
	for i, s := range steps {
		parts[i] = s.String()
	}
	return strings.Join(parts, "; ")
}
