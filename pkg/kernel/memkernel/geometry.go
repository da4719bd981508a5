package memkernel

import (
	"math"

	"github.com/chazu/vspwrap/pkg/kernel"
)

type geometry struct {
	k        *Kernel
	id       kernel.Handle
	typ      kernel.GeomType
	parent   *geometry
	children []*geometry
	parms    parmSet
	surface  *surface // nil for bodies of revolution
	profile  *shape   // revolved profile, bodies of revolution only
}

func (g *geometry) recompute(changed *parm) {
	if g.typ == kernel.Wing {
		g.recomputeWing(changed)
	}
}

// recomputeWing keeps span, area, aspect ratio and the two chords
// consistent after one of them is written. Area is span times mean chord.
func (g *geometry) recomputeWing(changed *parm) {
	span := g.parms.val(kernel.ParmTotalSpan)
	root := g.parms.val(kernel.ParmRootChord)
	tip := g.parms.val(kernel.ParmTipChord)

	switch changed.name {
	case kernel.ParmTotalArea:
		target := changed.value
		current := span * (root + tip) / 2
		if current > 0 {
			r := target / current
			a := g.k.coupling
			span *= math.Pow(r, a/2)
			chordScale := math.Pow(r, 1-a/2)
			root *= chordScale
			tip *= chordScale
		}
	case kernel.ParmTotalAR:
		area := g.parms.val(kernel.ParmTotalArea)
		span = math.Sqrt(changed.value * area)
		if mean := (root + tip) / 2; mean > 0 && span > 0 {
			chordScale := area / span / mean
			root *= chordScale
			tip *= chordScale
		}
	case kernel.ParmTotalSpan, kernel.ParmRootChord, kernel.ParmTipChord:
		// Planform inputs; derived values follow below.
	default:
		return
	}

	g.parms.put(kernel.ParmTotalSpan, span)
	g.parms.put(kernel.ParmRootChord, root)
	g.parms.put(kernel.ParmTipChord, tip)

	span = g.parms.val(kernel.ParmTotalSpan)
	area := span * (g.parms.val(kernel.ParmRootChord) + g.parms.val(kernel.ParmTipChord)) / 2
	g.parms.put(kernel.ParmTotalArea, area)
	if area > 0 {
		g.parms.put(kernel.ParmTotalAR, span*span/area)
	}
	g.syncAirfoilChords()
}

// syncAirfoilChords mirrors the planform chords onto the root and tip
// airfoil sections.
func (g *geometry) syncAirfoilChords() {
	if g.surface == nil || len(g.surface.sections) == 0 {
		return
	}
	secs := g.surface.sections
	secs[0].shape.parms.put(kernel.ParmChord, g.parms.val(kernel.ParmRootChord))
	secs[len(secs)-1].shape.parms.put(kernel.ParmChord, g.parms.val(kernel.ParmTipChord))
}
