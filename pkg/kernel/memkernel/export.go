package memkernel

import (
	"fmt"
	"strings"

	"github.com/chazu/vspwrap/pkg/kernel"
	"github.com/chazu/vspwrap/pkg/tessellate"
)

// defaultThickChord is used for wings whose root section is not an airfoil.
const defaultThickChord = 0.12

// ExportFile writes the current model. Each root geometry and its
// descendants become one body tree.
func (k *Kernel) ExportFile(path string, opts kernel.ExportOptions, format kernel.ExportFormat) error {
	if format != kernel.ExportSTL && format != kernel.ExportMeshJSON {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
	if opts.Resolution <= 0 {
		opts.Resolution = kernel.DefaultResolution
	}
	return tessellate.Export(path, k.Bodies(), k.modeler, opts, format)
}

// Bodies snapshots the model as body trees, one per root geometry, in
// creation order.
func (k *Kernel) Bodies() []*tessellate.Body {
	var roots []*tessellate.Body
	for _, g := range k.order {
		if g.parent == nil {
			roots = append(roots, g.body())
		}
	}
	return roots
}

func (g *geometry) body() *tessellate.Body {
	p := &g.parms
	b := &tessellate.Body{
		Name: bodyName(g),
		Translation: tessellate.Vec3{
			X: p.val(kernel.ParmXRelLocation),
			Y: p.val(kernel.ParmYRelLocation),
			Z: p.val(kernel.ParmZRelLocation),
		},
		Rotation: tessellate.Vec3{
			X: p.val(kernel.ParmXRelRotation),
			Y: p.val(kernel.ParmYRelRotation),
			Z: p.val(kernel.ParmZRelRotation),
		},
		Symmetry: kernel.SymmetryPlane(int(p.val(kernel.ParmSymPlanar))),
	}

	switch g.typ {
	case kernel.Fuselage:
		b.Kind = tessellate.BodyLofted
		length := p.val(kernel.ParmLength)
		for _, s := range g.surface.sections {
			w, h := s.shape.extent()
			b.Profiles = append(b.Profiles, kernel.Profile{
				Station: s.placement.val(kernel.ParmXLocPercent) * length,
				Width:   w,
				Height:  h,
				ZOffset: s.placement.val(kernel.ParmZLocPercent) * length,
			})
		}
	case kernel.Wing:
		b.Kind = tessellate.BodyWing
		b.Span = p.val(kernel.ParmTotalSpan)
		b.RootChord = p.val(kernel.ParmRootChord)
		b.TipChord = p.val(kernel.ParmTipChord)
		b.ThickChord = defaultThickChord
		if secs := g.surface.sections; len(secs) > 0 && secs[0].shape.kind == kernel.ShapeFourSeries {
			b.ThickChord = secs[0].shape.parms.val(kernel.ParmThickChord)
		}
	case kernel.BodyOfRevolution:
		b.Kind = tessellate.BodyRevolved
		b.Diameter = p.val(kernel.ParmDiameter)
		b.Length, _ = g.profile.extent()
		b.Rotation.Y += p.val(kernel.ParmAngle)
	}

	for _, c := range g.children {
		b.Children = append(b.Children, c.body())
	}
	return b
}

// bodyName is the geometry type followed by a short handle prefix.
func bodyName(g *geometry) string {
	id := string(g.id)
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToLower(string(g.typ)) + "-" + id
}
