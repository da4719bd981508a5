package geom

import (
	"fmt"

	"github.com/chazu/vspwrap/pkg/kernel"
)

// Nacelle construction defaults.
const (
	NacelleThickChord = 0.15
	NacelleCamberLoc  = 0.3
	NacelleCamber     = 0.55
	NacelleDiameter   = 1.25
	NacelleAngle      = 3.0 // incidence, degrees
)

// Nacelle is a body of revolution with a four series airfoil profile.
type Nacelle struct {
	*Node
}

// NewNacelle creates a nacelle under parent, which may be nil.
func NewNacelle(env *Env, parent Component) (*Nacelle, error) {
	n, err := addGeometry(env, kernel.BodyOfRevolution, parent)
	if err != nil {
		return nil, err
	}
	nac := &Nacelle{Node: n}
	if err := attach(nac); err != nil {
		return nil, err
	}
	if err := env.Kernel.ChangeBodyOfRevolutionShape(n.handle, kernel.ShapeFourSeries); err != nil {
		detach(nac)
		return nil, fmt.Errorf("geom: nacelle profile: %w", err)
	}
	if err := nac.Update(); err != nil {
		detach(nac)
		return nil, err
	}

	var w writes
	w.set(nac, kernel.ParmThickChord, NacelleThickChord)
	w.set(nac, kernel.ParmCamberLoc, NacelleCamberLoc)
	w.set(nac, kernel.ParmCamber, NacelleCamber)
	w.set(nac, kernel.ParmDiameter, NacelleDiameter)
	w.set(nac, kernel.ParmAngle, NacelleAngle)
	if w.err != nil {
		detach(nac)
		return nil, fmt.Errorf("geom: nacelle defaults: %w", w.err)
	}
	return nac, nil
}

// SetDiameter writes the nacelle diameter.
func (n *Nacelle) SetDiameter(d float64) error {
	return n.Set(kernel.ParmDiameter, d)
}

// SetChord writes the profile chord, which is the nacelle length.
func (n *Nacelle) SetChord(c float64) error {
	return n.Set(kernel.ParmChord, c)
}

// SetMirror reflects the nacelle across plane. SymNone removes the
// reflection.
func (n *Nacelle) SetMirror(plane kernel.SymmetryPlane) error {
	return n.Set(kernel.ParmSymPlanar, float64(plane))
}
