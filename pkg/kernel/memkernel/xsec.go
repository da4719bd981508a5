package memkernel

import "github.com/chazu/vspwrap/pkg/kernel"

// surface is an ordered list of cross sections. Skinned surfaces belong to
// lofted bodies and carry station and skinning parameters per section.
type surface struct {
	id       kernel.Handle
	geom     *geometry
	skinned  bool
	sections []*section
}

type section struct {
	id        kernel.Handle
	surf      *surface
	placement parmSet
	shape     *shape
}

// shape is one shape family instance and its parameters.
type shape struct {
	kind  kernel.ShapeKind
	parms parmSet
}

func (k *Kernel) newSurface(g *geometry, skinned bool) *surface {
	s := &surface{id: k.handle(), geom: g, skinned: skinned}
	k.surfaces[s.id] = s
	return s
}

// newSection appends a section of the given kind to surf.
func (k *Kernel) newSection(surf *surface, kind kernel.ShapeKind) *section {
	s := &section{id: k.handle(), surf: surf}
	if surf.skinned {
		k.newParms(&s.placement, s, sectionPlacementDefs)
		k.newParms(&s.placement, s, skinningDefs())
	}
	s.shape = k.newShape(s, kind)
	surf.sections = append(surf.sections, s)
	k.sections[s.id] = s
	return s
}

func (k *Kernel) newShape(o owner, kind kernel.ShapeKind) *shape {
	sh := &shape{kind: kind}
	k.newParms(&sh.parms, o, shapeDefs[kind])
	return sh
}

// midStation is the XLocPercent halfway between the neighbours of index.
func (s *surface) midStation(index int) float64 {
	n := len(s.sections)
	switch {
	case n <= 1:
		return 0
	case index == 0:
		return s.sections[1].placement.val(kernel.ParmXLocPercent)
	case index == n-1:
		return s.sections[n-2].placement.val(kernel.ParmXLocPercent)
	}
	prev := s.sections[index-1].placement.val(kernel.ParmXLocPercent)
	next := s.sections[index+1].placement.val(kernel.ParmXLocPercent)
	return (prev + next) / 2
}

// recompute applies the skinning rules: with TBSym set the bottom side
// copies the top side, and a side whose RAngleSet is off uses its LAngle
// on both sides of the section.
func (s *section) recompute(*parm) {
	p := &s.placement
	if p.get(kernel.ParmTBSym) == nil {
		return
	}
	if p.val(kernel.ParmTBSym) >= 0.5 {
		p.put(kernel.Bottom.LAngle(), p.val(kernel.Top.LAngle()))
		p.put(kernel.Bottom.RAngle(), p.val(kernel.Top.RAngle()))
		p.put(kernel.Bottom.RAngleSet(), p.val(kernel.Top.RAngleSet()))
	}
	for _, side := range kernel.Sides {
		if p.val(side.RAngleSet()) < 0.5 {
			p.put(side.RAngle(), p.val(side.LAngle()))
		}
	}
}

// width and height of the shape's bounding rectangle.
func (sh *shape) extent() (width, height float64) {
	switch sh.kind {
	case kernel.ShapeCircle:
		d := sh.parms.val(kernel.ParmCircleDiameter)
		return d, d
	case kernel.ShapeEllipse:
		return sh.parms.val(kernel.ParmEllipseWidth), sh.parms.val(kernel.ParmEllipseHeight)
	case kernel.ShapeSuperEllipse:
		return sh.parms.val(kernel.ParmSuperWidth), sh.parms.val(kernel.ParmSuperHeight)
	case kernel.ShapeRoundedRectangle:
		return sh.parms.val(kernel.ParmRoundRectWidth), sh.parms.val(kernel.ParmRoundRectHeight)
	case kernel.ShapeFourSeries:
		c := sh.parms.val(kernel.ParmChord)
		return c, c * sh.parms.val(kernel.ParmThickChord)
	}
	return 0, 0
}
