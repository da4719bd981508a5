package kernel

// Solid is an opaque handle to a solid produced by a Modeler.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Profile is one elliptical station of a lofted body. Station is the
// absolute position along the body's X axis; ZOffset shifts the profile
// centre vertically.
type Profile struct {
	Station float64
	Width   float64
	Height  float64
	ZOffset float64
}

// Modeler turns evaluated parameter values into solids and meshes. It is
// the export half of a kernel; memkernel delegates to one so that the
// parametric model stays independent of the solid representation.
type Modeler interface {
	// Primitives. Lofts run along +X from the first profile; wings extend
	// along +Y from the root; revolved bodies run along +X from the origin.
	Loft(profiles []Profile) (Solid, error)
	Wing(span, rootChord, tipChord, thickChord float64) (Solid, error)
	Revolve(length, diameter float64) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees
	Reflect(s Solid, plane SymmetryPlane) Solid

	// Output
	ToMesh(s Solid, cells int) (*Mesh, error)
	WriteSTL(path string, s Solid, cells int) error
}
