package geom

import (
	"errors"
	"fmt"

	"github.com/chazu/vspwrap/pkg/kernel"
)

var (
	// ErrUnknownParameter is returned for a name missing from the current
	// parameter table.
	ErrUnknownParameter = errors.New("geom: unknown parameter")

	// ErrNotConverged is returned when a planform fit exhausts its
	// iteration bound or cannot start.
	ErrNotConverged = errors.New("geom: planform fit did not converge")

	// ErrCrossSectionOverflow is returned when a surface still reports
	// sections at the last probed index.
	ErrCrossSectionOverflow = errors.New("geom: cross section surface exceeds probe limit")

	ErrIndexOutOfRange    = errors.New("geom: cross section index out of range")
	ErrFixedTopology      = errors.New("geom: cross section layout is fixed")
	ErrUnexpectedTopology = errors.New("geom: unexpected cross section layout")
	ErrInvalidDimensions  = errors.New("geom: dimensions must be positive")
	ErrAlreadyOwned       = errors.New("geom: component belongs to another parent")
)

// ParameterError reports a read or write of a name that the owner's
// current parameter table does not contain.
type ParameterError struct {
	Owner kernel.Handle
	Name  string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("geom: unknown parameter %q on %s", e.Name, e.Owner)
}

func (e *ParameterError) Unwrap() error { return ErrUnknownParameter }

// ConvergenceError describes a failed planform fit.
type ConvergenceError struct {
	Area        float64 // requested area
	AspectRatio float64 // requested aspect ratio
	Iterations  int     // iterations run; zero when the inputs were rejected
	Achieved    float64 // aspect ratio after the last iteration
}

func (e *ConvergenceError) Error() string {
	if e.Iterations == 0 {
		return fmt.Sprintf("geom: planform area=%g aspect ratio=%g is degenerate: %v",
			e.Area, e.AspectRatio, ErrNotConverged)
	}
	return fmt.Sprintf("geom: planform area=%g aspect ratio=%g reached %g after %d iterations: %v",
		e.Area, e.AspectRatio, e.Achieved, e.Iterations, ErrNotConverged)
}

func (e *ConvergenceError) Unwrap() error { return ErrNotConverged }
