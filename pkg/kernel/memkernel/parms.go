package memkernel

import (
	"math"

	"github.com/chazu/vspwrap/pkg/kernel"
)

// owner is anything whose derived state depends on its parameters.
type owner interface {
	recompute(changed *parm)
}

type parm struct {
	id       kernel.ParmID
	name     string
	value    float64
	min, max float64
	valid    bool
	owner    owner
}

// set stores v clamped to the parameter's limits.
func (p *parm) set(v float64) {
	p.value = math.Min(math.Max(v, p.min), p.max)
}

// parmDef declares a parameter: default value and limits.
type parmDef struct {
	name     string
	value    float64
	min, max float64
}

// parmSet is an ordered, name-indexed group of parameters.
type parmSet struct {
	list   []*parm
	byName map[string]*parm
}

func (s *parmSet) add(p *parm) {
	if s.byName == nil {
		s.byName = make(map[string]*parm)
	}
	s.list = append(s.list, p)
	s.byName[p.name] = p
}

func (s *parmSet) get(name string) *parm {
	return s.byName[name]
}

// val returns the named value, or 0 if the set has no such parameter.
func (s *parmSet) val(name string) float64 {
	if p := s.byName[name]; p != nil {
		return p.value
	}
	return 0
}

// put assigns the named value through the limits without triggering a
// recompute. Unknown names are ignored.
func (s *parmSet) put(name string, v float64) {
	if p := s.byName[name]; p != nil {
		p.set(v)
	}
}

func (s *parmSet) ids() []kernel.ParmID {
	out := make([]kernel.ParmID, 0, len(s.list))
	for _, p := range s.list {
		out = append(out, p.id)
	}
	return out
}

const (
	big      = 1e6
	tiny     = 1e-6
	maxAngle = 180.0

	// planform values keep any strictly positive value so tiny wings
	// still fit exactly.
	minPlanform = math.SmallestNonzeroFloat64
)

// placementDefs are attached to every geometry.
var placementDefs = []parmDef{
	{kernel.ParmXRelLocation, 0, -big, big},
	{kernel.ParmYRelLocation, 0, -big, big},
	{kernel.ParmZRelLocation, 0, -big, big},
	{kernel.ParmXRelRotation, 0, -maxAngle, maxAngle},
	{kernel.ParmYRelRotation, 0, -maxAngle, maxAngle},
	{kernel.ParmZRelRotation, 0, -maxAngle, maxAngle},
	{kernel.ParmSymPlanar, 0, 0, 7},
}

var fuselageDefs = []parmDef{
	{kernel.ParmLength, 30, tiny, big},
	{kernel.ParmCapUMin, float64(kernel.NoEndCap), 0, float64(kernel.SharpEndCap)},
	{kernel.ParmCapUMax, float64(kernel.NoEndCap), 0, float64(kernel.SharpEndCap)},
}

var wingDefs = []parmDef{
	{kernel.ParmTotalSpan, 10, minPlanform, big},
	{kernel.ParmTotalArea, 15, minPlanform, 1e8},
	{kernel.ParmTotalAR, 10.0 / 1.5, minPlanform, 1e4},
	{kernel.ParmRootChord, 2, minPlanform, big},
	{kernel.ParmTipChord, 1, minPlanform, big},
	{kernel.ParmSweep, 0, -85, 85},
	{kernel.ParmDihedral, 0, -maxAngle, maxAngle},
}

var revolutionDefs = []parmDef{
	{kernel.ParmDiameter, 2, tiny, big},
	{kernel.ParmAngle, 0, -maxAngle, maxAngle},
}

// sectionPlacementDefs are attached to every cross section of a skinned
// (lofted body) surface, followed by skinningDefs.
var sectionPlacementDefs = []parmDef{
	{kernel.ParmXLocPercent, 0, 0, 1},
	{kernel.ParmYLocPercent, 0, -1, 1},
	{kernel.ParmZLocPercent, 0, -1, 1},
	{kernel.ParmTBSym, 1, 0, 1},
}

func skinningDefs() []parmDef {
	var defs []parmDef
	for _, side := range kernel.Sides {
		defs = append(defs,
			parmDef{side.LAngle(), 0, -maxAngle, maxAngle},
			parmDef{side.RAngle(), 0, -maxAngle, maxAngle},
			parmDef{side.RAngleSet(), 1, 0, 1},
		)
	}
	return defs
}

// shapeDefs lists the parameters each shape family exposes.
var shapeDefs = map[kernel.ShapeKind][]parmDef{
	kernel.ShapePoint:  nil,
	kernel.ShapeCircle: {{kernel.ParmCircleDiameter, 1, 0, big}},
	kernel.ShapeEllipse: {
		{kernel.ParmEllipseHeight, 1, 0, big},
		{kernel.ParmEllipseWidth, 1, 0, big},
	},
	kernel.ShapeSuperEllipse: {
		{kernel.ParmSuperHeight, 1, 0, big},
		{kernel.ParmSuperWidth, 1, 0, big},
		{kernel.ParmSuperM, 2, 0.2, 5},
		{kernel.ParmSuperN, 2, 0.2, 5},
	},
	kernel.ShapeRoundedRectangle: {
		{kernel.ParmRoundRectHeight, 1, 0, big},
		{kernel.ParmRoundRectWidth, 1, 0, big},
		{kernel.ParmRoundRectRadius, 0.2, 0, big},
	},
	kernel.ShapeFourSeries: {
		{kernel.ParmChord, 1, minPlanform, big},
		{kernel.ParmThickChord, 0.1, 0, 1},
		{kernel.ParmCamber, 0, 0, 1},
		{kernel.ParmCamberLoc, 0.2, 0, 1},
		{kernel.ParmInvert, 0, 0, 1},
	},
}
