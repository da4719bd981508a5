// Package memkernel is an in-process parametric geometry kernel. It keeps
// the whole model in memory, addresses everything through string handles
// and recomputes derived parameters synchronously on every write, which is
// the behavior the binding layer expects from an external CAD kernel.
package memkernel

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/chazu/vspwrap/pkg/kernel"
	"github.com/chazu/vspwrap/pkg/kernel/sdfx"
)

var (
	ErrUnknownHandle     = errors.New("memkernel: unknown handle")
	ErrUnknownParameter  = errors.New("memkernel: unknown or retired parameter")
	ErrUnknownType       = errors.New("memkernel: unknown geometry type")
	ErrNoSurface         = errors.New("memkernel: geometry has no cross section surface")
	ErrIndexOutOfRange   = errors.New("memkernel: cross section index out of range")
	ErrInvalidValue      = errors.New("memkernel: parameter value is not a finite number")
	ErrUnsupportedFormat = errors.New("memkernel: unsupported export format")
)

// DefaultCoupling is the planform coupling exponent used by New.
const DefaultCoupling = 0.5

// Kernel is the in-memory model. It is not safe for concurrent use; share
// it through a kernel.Session.
type Kernel struct {
	coupling float64
	modeler  kernel.Modeler
	newID    func() string

	geoms    map[kernel.Handle]*geometry
	order    []*geometry
	surfaces map[kernel.Handle]*surface
	sections map[kernel.Handle]*section
	parms    map[kernel.ParmID]*parm
}

// compile-time interface check
var _ kernel.Kernel = (*Kernel)(nil)

// Option configures a Kernel.
type Option func(*Kernel)

// WithCoupling sets the exponent a that splits an area change between
// span (r^(a/2)) and chords (r^(1-a/2)). Zero keeps span fixed; values
// near 2 put the whole change into span.
func WithCoupling(a float64) Option {
	return func(k *Kernel) { k.coupling = a }
}

// WithModeler replaces the solid modeler used by ExportFile.
func WithModeler(m kernel.Modeler) Option {
	return func(k *Kernel) { k.modeler = m }
}

// WithIDs replaces the handle generator. Intended for tests that need
// deterministic handles.
func WithIDs(gen func() string) Option {
	return func(k *Kernel) { k.newID = gen }
}

// New returns an empty model.
func New(opts ...Option) *Kernel {
	k := &Kernel{
		coupling: DefaultCoupling,
		newID:    uuid.NewString,
		geoms:    make(map[kernel.Handle]*geometry),
		surfaces: make(map[kernel.Handle]*surface),
		sections: make(map[kernel.Handle]*section),
		parms:    make(map[kernel.ParmID]*parm),
	}
	for _, opt := range opts {
		opt(k)
	}
	if k.modeler == nil {
		k.modeler = sdfx.New()
	}
	return k
}

func (k *Kernel) handle() kernel.Handle {
	return kernel.Handle(k.newID())
}

// newParms instantiates defs for o and registers them.
func (k *Kernel) newParms(into *parmSet, o owner, defs []parmDef) {
	for _, d := range defs {
		p := &parm{
			id:    kernel.ParmID(k.newID()),
			name:  d.name,
			value: d.value,
			min:   d.min,
			max:   d.max,
			valid: true,
			owner: o,
		}
		into.add(p)
		k.parms[p.id] = p
	}
}

// retire invalidates every parameter in s. Retired ids stay resolvable by
// ValidParameter so callers holding stale ids get a clean false.
func (k *Kernel) retire(s *parmSet) {
	for _, p := range s.list {
		p.valid = false
	}
}

// AddGeometry instantiates typ under parent.
func (k *Kernel) AddGeometry(typ kernel.GeomType, parent kernel.Handle) (kernel.Handle, error) {
	var up *geometry
	if !parent.IsZero() {
		up = k.geoms[parent]
		if up == nil {
			return "", fmt.Errorf("%w: parent %q", ErrUnknownHandle, parent)
		}
	}

	g := &geometry{k: k, id: k.handle(), typ: typ, parent: up}
	k.newParms(&g.parms, g, placementDefs)
	switch typ {
	case kernel.Fuselage:
		k.newParms(&g.parms, g, fuselageDefs)
		g.surface = k.newSurface(g, true)
		for i, kind := range fuselageShapes {
			s := k.newSection(g.surface, kind)
			s.placement.put(kernel.ParmXLocPercent, float64(i)/float64(len(fuselageShapes)-1))
		}
	case kernel.Wing:
		k.newParms(&g.parms, g, wingDefs)
		g.surface = k.newSurface(g, false)
		k.newSection(g.surface, kernel.ShapeFourSeries)
		k.newSection(g.surface, kernel.ShapeFourSeries)
		g.syncAirfoilChords()
	case kernel.BodyOfRevolution:
		k.newParms(&g.parms, g, revolutionDefs)
		g.profile = k.newShape(g, kernel.ShapeCircle)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}

	k.geoms[g.id] = g
	k.order = append(k.order, g)
	if up != nil {
		up.children = append(up.children, g)
	}
	return g.id, nil
}

// fuselageShapes is the default fuselage section layout: nose point,
// three ellipses, tail point.
var fuselageShapes = []kernel.ShapeKind{
	kernel.ShapePoint,
	kernel.ShapeEllipse,
	kernel.ShapeEllipse,
	kernel.ShapeEllipse,
	kernel.ShapePoint,
}

// ParameterIDs lists the live parameters owned by a geometry or cross
// section, in declaration order.
func (k *Kernel) ParameterIDs(owner kernel.Handle) []kernel.ParmID {
	if g := k.geoms[owner]; g != nil {
		ids := g.parms.ids()
		if g.profile != nil {
			ids = append(ids, g.profile.parms.ids()...)
		}
		return ids
	}
	if s := k.sections[owner]; s != nil {
		return append(s.placement.ids(), s.shape.parms.ids()...)
	}
	return nil
}

func (k *Kernel) ValidParameter(id kernel.ParmID) bool {
	p := k.parms[id]
	return p != nil && p.valid
}

func (k *Kernel) ParameterName(id kernel.ParmID) string {
	if p := k.parms[id]; p != nil {
		return p.name
	}
	return ""
}

func (k *Kernel) ParameterValue(id kernel.ParmID) float64 {
	if p := k.parms[id]; p != nil && p.valid {
		return p.value
	}
	return 0
}

// SetParameterValue writes v (clamped to the parameter's limits) and
// recomputes the owner before returning.
func (k *Kernel) SetParameterValue(id kernel.ParmID, v float64) error {
	p := k.parms[id]
	if p == nil || !p.valid {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, id)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s = %v", ErrInvalidValue, p.name, v)
	}
	p.set(v)
	p.owner.recompute(p)
	return nil
}

// CrossSectionSurface returns the surface of geom, or the zero handle.
func (k *Kernel) CrossSectionSurface(geom kernel.Handle) kernel.Handle {
	if g := k.geoms[geom]; g != nil && g.surface != nil {
		return g.surface.id
	}
	return ""
}

// CrossSection returns the section at index, or the zero handle.
func (k *Kernel) CrossSection(surf kernel.Handle, index int) kernel.Handle {
	s := k.surfaces[surf]
	if s == nil || index < 0 || index >= len(s.sections) {
		return ""
	}
	return s.sections[index].id
}

// ChangeCrossSectionShape swaps the shape family of one section. The
// section handle survives; its shape parameter ids are replaced.
func (k *Kernel) ChangeCrossSectionShape(surf kernel.Handle, index int, kind kernel.ShapeKind) error {
	s := k.surfaces[surf]
	if s == nil {
		return fmt.Errorf("%w: surface %q", ErrUnknownHandle, surf)
	}
	if index < 0 || index >= len(s.sections) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(s.sections))
	}
	return k.reshape(s.sections[index], &s.sections[index].shape, kind)
}

// InsertCrossSection adds a section at index, pushing later sections back.
// Skinned surfaces place it halfway between its neighbours.
func (k *Kernel) InsertCrossSection(geom kernel.Handle, index int, kind kernel.ShapeKind) error {
	g := k.geoms[geom]
	if g == nil {
		return fmt.Errorf("%w: geometry %q", ErrUnknownHandle, geom)
	}
	if g.surface == nil {
		return fmt.Errorf("%w: %s", ErrNoSurface, g.typ)
	}
	if _, ok := shapeDefs[kind]; !ok {
		return fmt.Errorf("memkernel: unknown shape %v", kind)
	}
	surf := g.surface
	if index < 0 || index > len(surf.sections) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(surf.sections))
	}
	s := k.newSection(surf, kind)
	// newSection appended; move it into place.
	copy(surf.sections[index+1:], surf.sections[index:len(surf.sections)-1])
	surf.sections[index] = s
	if surf.skinned {
		s.placement.put(kernel.ParmXLocPercent, surf.midStation(index))
	}
	return nil
}

// ChangeBodyOfRevolutionShape swaps the revolved profile's shape family.
func (k *Kernel) ChangeBodyOfRevolutionShape(geom kernel.Handle, kind kernel.ShapeKind) error {
	g := k.geoms[geom]
	if g == nil {
		return fmt.Errorf("%w: geometry %q", ErrUnknownHandle, geom)
	}
	if g.typ != kernel.BodyOfRevolution {
		return fmt.Errorf("memkernel: %s is not a body of revolution", g.typ)
	}
	return k.reshape(g, &g.profile, kind)
}

// reshape replaces *sh with a new shape of kind owned by o. A change to
// the current kind leaves ids untouched.
func (k *Kernel) reshape(o owner, sh **shape, kind kernel.ShapeKind) error {
	if _, ok := shapeDefs[kind]; !ok {
		return fmt.Errorf("memkernel: unknown shape %v", kind)
	}
	if (*sh).kind == kind {
		return nil
	}
	k.retire(&(*sh).parms)
	*sh = k.newShape(o, kind)
	return nil
}
