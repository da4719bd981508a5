package geom

import (
	"fmt"
	"math"

	"github.com/chazu/vspwrap/pkg/kernel"
)

// Wing is a lifting surface with planform fitting and taper control.
type Wing struct {
	*Node
}

// NewWing creates a wing under parent, which may be nil.
func NewWing(env *Env, parent Component) (*Wing, error) {
	n, err := addGeometry(env, kernel.Wing, parent)
	if err != nil {
		return nil, err
	}
	w := &Wing{Node: n}
	if err := attach(w); err != nil {
		return nil, err
	}
	return w, nil
}

// SetPlanForm fits the wing to area and aspectRatio. Span, area and aspect
// ratio are coupled in the kernel, so the target span and area are written
// repeatedly until the resulting aspect ratio is within tolerance. A fit
// that cannot start or exhausts the iteration bound returns a
// *ConvergenceError.
func (w *Wing) SetPlanForm(area, aspectRatio float64) error {
	if !finitePositive(area) || !finitePositive(aspectRatio) {
		return &ConvergenceError{Area: area, AspectRatio: aspectRatio}
	}
	pf := w.env.planForm()
	log := w.env.Log.WithValues("wing", w.handle)
	span := math.Sqrt(aspectRatio * area)

	var got float64
	for i := 1; i <= pf.MaxIterations; i++ {
		if err := w.Set(kernel.ParmTotalSpan, span); err != nil {
			return err
		}
		if err := w.Set(kernel.ParmTotalArea, area); err != nil {
			return err
		}
		var err error
		if got, err = w.Get(kernel.ParmTotalAR); err != nil {
			return err
		}
		log.V(1).Info("planform iteration", "iteration", i, "aspectRatio", got)
		if math.Abs(got-aspectRatio) < pf.Tolerance*aspectRatio {
			w.env.Metrics.ObservePlanForm(i)
			return nil
		}
	}
	w.env.Metrics.ObservePlanForm(pf.MaxIterations)
	return &ConvergenceError{
		Area:        area,
		AspectRatio: aspectRatio,
		Iterations:  pf.MaxIterations,
		Achieved:    got,
	}
}

// ChangeTaper redistributes the root and tip chords so that tip/root
// equals taper while their sum is unchanged.
func (w *Wing) ChangeTaper(taper float64) error {
	if !finitePositive(taper) {
		return fmt.Errorf("%w: taper ratio %g", ErrInvalidDimensions, taper)
	}
	root, err := w.Get(kernel.ParmRootChord)
	if err != nil {
		return err
	}
	tip, err := w.Get(kernel.ParmTipChord)
	if err != nil {
		return err
	}
	newRoot := (root + tip) / (1 + taper)
	var wr writes
	wr.set(w, kernel.ParmRootChord, newRoot)
	wr.set(w, kernel.ParmTipChord, taper*newRoot)
	return wr.err
}

// SetSweep writes the leading edge sweep in degrees.
func (w *Wing) SetSweep(degrees float64) error {
	return w.Set(kernel.ParmSweep, degrees)
}

// SetDihedral writes the dihedral in degrees.
func (w *Wing) SetDihedral(degrees float64) error {
	return w.Set(kernel.ParmDihedral, degrees)
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
