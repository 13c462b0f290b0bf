package drive

import "github.com/pkg/errors"

var (
	// ErrInvalidGeometry is returned by New when the wheel radius, wheel
	// separation or time step is not a positive finite number.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrInvalidDuration is returned by the signal generators when the
	// command duration does not produce at least one sample.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrDivisionByZero guards the t*r denominator of the arc generator.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrInvalidArgument covers non-finite command arguments, wrong
	// arity and mismatched signal pairs.
	ErrInvalidArgument = errors.New("invalid argument")
)
