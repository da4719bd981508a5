// Package sdfx implements the kernel.Modeler interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/vspwrap/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Modeler = (*Modeler)(nil)

// minExtent keeps degenerate (point) profiles from producing a singular
// scale matrix.
const minExtent = 1e-3

// minSegment is the shortest loft segment worth building.
const minSegment = 1e-6

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// Modeler implements kernel.Modeler using sdfx.
type Modeler struct{}

// New returns a new Modeler.
func New() *Modeler {
	return &Modeler{}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// ellipse returns a 2D ellipse with the given full extents, centred at
// (cx, cy).
func ellipse(a, b, cx, cy float64) (sdf.SDF2, error) {
	c, err := sdf.Circle2D(1)
	if err != nil {
		return nil, err
	}
	m := sdf.Translate2d(v2.Vec{X: cx, Y: cy}).Mul(sdf.Scale2d(v2.Vec{
		X: math.Max(a/2, minExtent),
		Y: math.Max(b/2, minExtent),
	}))
	return sdf.Transform2D(c, m), nil
}

// Loft builds a lofted body through elliptical profiles ordered by station.
// sdf.Loft3D extrudes along Z, so each segment is built on Z and rotated
// onto X: the profile's 2D X axis becomes -Z (height) and 2D Y becomes Y
// (width).
func (k *Modeler) Loft(profiles []kernel.Profile) (kernel.Solid, error) {
	if len(profiles) < 2 {
		return nil, errors.New("sdfx: loft needs at least two profiles")
	}
	onX := sdf.RotateY(math.Pi / 2)

	var body sdf.SDF3
	for i := 0; i+1 < len(profiles); i++ {
		p0, p1 := profiles[i], profiles[i+1]
		dx := p1.Station - p0.Station
		if dx < minSegment {
			continue
		}
		e0, err := ellipse(p0.Height, p0.Width, -p0.ZOffset, 0)
		if err != nil {
			return nil, fmt.Errorf("sdfx: loft profile %d: %w", i, err)
		}
		e1, err := ellipse(p1.Height, p1.Width, -p1.ZOffset, 0)
		if err != nil {
			return nil, fmt.Errorf("sdfx: loft profile %d: %w", i+1, err)
		}
		seg, err := sdf.Loft3D(e0, e1, dx, 0)
		if err != nil {
			return nil, fmt.Errorf("sdfx: loft segment %d: %w", i, err)
		}
		m := sdf.Translate3d(v3.Vec{X: p0.Station + dx/2}).Mul(onX)
		seg = sdf.Transform3D(seg, m)
		if body == nil {
			body = seg
		} else {
			body = sdf.Union3D(body, seg)
		}
	}
	if body == nil {
		return nil, errors.New("sdfx: loft has zero length")
	}
	return wrap(body), nil
}

// Wing builds one wing half from root (y=0) to tip (y=span/2), mirrored
// across XZ. Airfoils are approximated by flattened ellipses with the
// leading edge of the root at x=0.
func (k *Modeler) Wing(span, rootChord, tipChord, thickChord float64) (kernel.Solid, error) {
	half := span / 2
	if half < minSegment {
		return nil, fmt.Errorf("sdfx: wing span %g too small", span)
	}
	root, err := ellipse(rootChord, rootChord*thickChord, 0, 0)
	if err != nil {
		return nil, err
	}
	tip, err := ellipse(tipChord, tipChord*thickChord, 0, 0)
	if err != nil {
		return nil, err
	}
	panel, err := sdf.Loft3D(root, tip, half, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: wing loft: %w", err)
	}
	// Loft axis Z onto +Y, root at y=0.
	m := sdf.Translate3d(v3.Vec{X: rootChord / 2, Y: half / 2}).Mul(sdf.RotateX(-math.Pi / 2))
	panel = sdf.Transform3D(panel, m)
	mirrored := sdf.Transform3D(panel, sdf.MirrorXZ())
	return wrap(sdf.Union3D(panel, mirrored)), nil
}

// Revolve builds a body of revolution of the given length and diameter
// along +X.
func (k *Modeler) Revolve(length, diameter float64) (kernel.Solid, error) {
	s, err := sdf.Cylinder3D(length, diameter/2, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: revolve: %w", err)
	}
	m := sdf.Translate3d(v3.Vec{X: length / 2}).Mul(sdf.RotateY(math.Pi / 2))
	return wrap(sdf.Transform3D(s, m)), nil
}

// Union returns the union of two solids.
func (k *Modeler) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *Modeler) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *Modeler) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Reflect returns the mirror image of s across every plane set in plane.
// It does not include s itself.
func (k *Modeler) Reflect(s kernel.Solid, plane kernel.SymmetryPlane) kernel.Solid {
	out := unwrap(s)
	if plane&kernel.SymXY != 0 {
		out = sdf.Transform3D(out, sdf.MirrorXY())
	}
	if plane&kernel.SymXZ != 0 {
		out = sdf.Transform3D(out, sdf.MirrorXZ())
	}
	if plane&kernel.SymYZ != 0 {
		out = sdf.Transform3D(out, sdf.MirrorYZ())
	}
	return wrap(out)
}

func cellsOrDefault(cells int) int {
	if cells <= 0 {
		return kernel.DefaultResolution
	}
	return cells
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *Modeler) ToMesh(s kernel.Solid, cells int) (*kernel.Mesh, error) {
	renderer := render.NewMarchingCubesUniform(cellsOrDefault(cells))
	triangles := render.ToTriangles(unwrap(s), renderer)

	numVerts := len(triangles) * 3
	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}

// WriteSTL renders s with marching cubes and writes a binary STL file.
func (k *Modeler) WriteSTL(path string, s kernel.Solid, cells int) error {
	renderer := render.NewMarchingCubesUniform(cellsOrDefault(cells))
	triangles := render.ToTriangles(unwrap(s), renderer)
	if len(triangles) == 0 {
		return errors.New("sdfx: solid rendered no triangles")
	}
	if err := render.SaveSTL(path, triangles); err != nil {
		return fmt.Errorf("sdfx: write %s: %w", path, err)
	}
	return nil
}
