package drive

import (
	"strings"

	"github.com/pkg/errors"
)

// Command selects one of the signal generators.
type Command int

const (
	CommandDrive Command = iota
	CommandTurn
	CommandArc
)

var commandNames = [...]string{
	CommandDrive: "D",
	CommandTurn:  "T",
	CommandArc:   "C",
}

// Commands lists every command in declaration order.
func Commands() []Command {
	return []Command{CommandDrive, CommandTurn, CommandArc}
}

func (c Command) String() string {
	if c < 0 || int(c) >= len(commandNames) {
		return "?"
	}
	return commandNames[c]
}

// Arity is the number of arguments the generator takes.
func (c Command) Arity() int {
	switch c {
	case CommandDrive, CommandTurn:
		return 2
	case CommandArc:
		return 3
	}
	return 0
}

// Usage describes the arguments of the command.
func (c Command) Usage() string {
	switch c {
	case CommandDrive:
		return "D <distance> <duration>"
	case CommandTurn:
		return "T <angle_deg> <duration>"
	case CommandArc:
		return "C <radius> <angle_deg> <duration>"
	}
	return ""
}

// ParseCommand accepts the single-letter symbols D, T and C as well as the
// names drive, turn and arc, in any case.
func ParseCommand(s string) (Command, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "d", "drive":
		return CommandDrive, nil
	case "t", "turn":
		return CommandTurn, nil
	case "c", "arc", "circle":
		return CommandArc, nil
	}
	return 0, errors.Wrapf(ErrInvalidArgument, "unknown command %q", s)
}

// Signal runs the generator selected by c.
func (m *Model) Signal(c Command, args ...float64) (Pair, error) {
	if c.Arity() == 0 {
		return Pair{}, errors.Wrapf(ErrInvalidArgument, "unknown command %d", int(c))
	}
	if len(args) != c.Arity() {
		return Pair{}, errors.Wrapf(ErrInvalidArgument,
			"%s takes %d arguments, got %d", c, c.Arity(), len(args))
	}

	switch c {
	case CommandDrive:
		return m.DriveSignal(args[0], args[1])
	case CommandTurn:
		return m.TurnSignal(args[0], args[1])
	default:
		return m.ArcSignal(args[0], args[1], args[2])
	}
}
