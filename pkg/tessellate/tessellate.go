// Package tessellate walks a tree of evaluated bodies and produces solids,
// triangle meshes and export files using a kernel.Modeler. One mesh is
// produced per body. Child placements are relative to their parent.
package tessellate

import (
	"fmt"

	"github.com/chazu/vspwrap/pkg/kernel"
)

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// IsZero reports whether all components are zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// BodyKind selects the primitive a body is built from.
type BodyKind int

const (
	BodyLofted   BodyKind = iota // fuselage-style loft through profiles
	BodyWing                     // tapered wing, both halves
	BodyRevolved                 // body of revolution
)

func (k BodyKind) String() string {
	switch k {
	case BodyLofted:
		return "lofted"
	case BodyWing:
		return "wing"
	case BodyRevolved:
		return "revolved"
	default:
		return "unknown"
	}
}

// Body is a snapshot of one evaluated geometry.
type Body struct {
	Name        string
	Kind        BodyKind
	Translation Vec3 // relative to the parent body
	Rotation    Vec3 // degrees, relative to the parent body
	Symmetry    kernel.SymmetryPlane

	Profiles []kernel.Profile // BodyLofted

	Span, RootChord, TipChord, ThickChord float64 // BodyWing

	Length, Diameter float64 // BodyRevolved

	Children []*Body
}

// transformStack accumulates spatial transforms during tree traversal.
type transformStack struct {
	translations []Vec3
	rotations    []Vec3
}

func newTransformStack() *transformStack {
	return &transformStack{}
}

func (ts *transformStack) push(translation, rotation Vec3) {
	ts.translations = append(ts.translations, translation)
	ts.rotations = append(ts.rotations, rotation)
}

func (ts *transformStack) pop() {
	if len(ts.translations) > 0 {
		ts.translations = ts.translations[:len(ts.translations)-1]
	}
	if len(ts.rotations) > 0 {
		ts.rotations = ts.rotations[:len(ts.rotations)-1]
	}
}

// accumulatedTranslation returns the sum of all translations on the stack.
func (ts *transformStack) accumulatedTranslation() Vec3 {
	var sum Vec3
	for _, t := range ts.translations {
		sum = sum.Add(t)
	}
	return sum
}

// accumulatedRotation returns the sum of all rotations on the stack.
func (ts *transformStack) accumulatedRotation() Vec3 {
	var sum Vec3
	for _, r := range ts.rotations {
		sum = sum.Add(r)
	}
	return sum
}

// Part is one placed solid with the name of the body it came from.
type Part struct {
	Name  string
	Solid kernel.Solid
}

// Solids walks the body trees and returns one placed solid per body,
// including symmetric copies. The walk is read-only.
func Solids(roots []*Body, m kernel.Modeler) ([]Part, error) {
	var parts []Part
	ts := newTransformStack()
	for _, root := range roots {
		if root == nil {
			continue
		}
		collected, err := walkBody(m, root, ts)
		if err != nil {
			return nil, fmt.Errorf("tessellate: error walking %s: %w", root.Name, err)
		}
		parts = append(parts, collected...)
	}
	return parts, nil
}

// Tessellate walks the body trees and produces one triangle mesh per body.
func Tessellate(roots []*Body, m kernel.Modeler, cells int) ([]*kernel.Mesh, error) {
	parts, err := Solids(roots, m)
	if err != nil {
		return nil, err
	}
	meshes := make([]*kernel.Mesh, 0, len(parts))
	for _, p := range parts {
		mesh, err := m.ToMesh(p.Solid, cells)
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for %s: %w", p.Name, err)
		}
		mesh.Component = p.Name
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// walkBody builds b, then recurses into its children with b's transform
// pushed.
func walkBody(m kernel.Modeler, b *Body, ts *transformStack) ([]Part, error) {
	ts.push(b.Translation, b.Rotation)
	defer ts.pop()

	solid, err := buildBody(m, b)
	if err != nil {
		return nil, err
	}

	rot := ts.accumulatedRotation()
	if !rot.IsZero() {
		solid = m.Rotate(solid, rot.X, rot.Y, rot.Z)
	}
	trans := ts.accumulatedTranslation()
	if !trans.IsZero() {
		solid = m.Translate(solid, trans.X, trans.Y, trans.Z)
	}
	if b.Symmetry != kernel.SymNone {
		solid = m.Union(solid, m.Reflect(solid, b.Symmetry))
	}

	parts := []Part{{Name: b.Name, Solid: solid}}
	for _, child := range b.Children {
		collected, err := walkBody(m, child, ts)
		if err != nil {
			return nil, err
		}
		parts = append(parts, collected...)
	}
	return parts, nil
}

// buildBody creates the untransformed solid for a body.
func buildBody(m kernel.Modeler, b *Body) (kernel.Solid, error) {
	switch b.Kind {
	case BodyLofted:
		return m.Loft(b.Profiles)
	case BodyWing:
		return m.Wing(b.Span, b.RootChord, b.TipChord, b.ThickChord)
	case BodyRevolved:
		return m.Revolve(b.Length, b.Diameter)
	default:
		return nil, fmt.Errorf("body %s has unknown kind %v", b.Name, b.Kind)
	}
}
