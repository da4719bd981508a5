// Package kernel defines the contract between vspwrap and a parametric
// geometry kernel. The kernel owns the authoritative model; callers address
// geometry, cross sections and parameters only through opaque string handles.
// Implementations (memkernel, or a binding to an external CAD process) live
// behind this interface so the rest of the system never inspects kernel
// internals.
package kernel

import "fmt"

// Handle is an opaque kernel identifier for a geometry instance, a cross
// section surface or a single cross section. The empty handle means absent.
type Handle string

// IsZero reports whether the handle is the absent sentinel.
func (h Handle) IsZero() bool { return h == "" }

// ParmID is an opaque kernel identifier for one scalar editable property.
// The empty ParmID means absent.
type ParmID string

// IsZero reports whether the id is the absent sentinel.
func (p ParmID) IsZero() bool { return p == "" }

// GeomType names a kind of geometry the kernel can instantiate.
type GeomType string

const (
	Fuselage         GeomType = "FUSELAGE"
	Wing             GeomType = "WING"
	BodyOfRevolution GeomType = "BODYOFREVOLUTION"
)

// ShapeKind enumerates cross section shape families. Changing a section's
// family changes which parameters the section exposes.
type ShapeKind int

const (
	ShapePoint ShapeKind = iota
	ShapeCircle
	ShapeEllipse
	ShapeSuperEllipse
	ShapeRoundedRectangle
	ShapeFourSeries // NACA four-digit airfoil
)

func (s ShapeKind) String() string {
	switch s {
	case ShapePoint:
		return "point"
	case ShapeCircle:
		return "circle"
	case ShapeEllipse:
		return "ellipse"
	case ShapeSuperEllipse:
		return "super-ellipse"
	case ShapeRoundedRectangle:
		return "rounded-rectangle"
	case ShapeFourSeries:
		return "four-series"
	default:
		return fmt.Sprintf("ShapeKind(%d)", int(s))
	}
}

// EndCap is the value written to a body's CapUMinOption/CapUMaxOption.
type EndCap int

const (
	NoEndCap EndCap = iota
	FlatEndCap
	RoundEndCap
	EdgeEndCap
	SharpEndCap
)

// SymmetryPlane is a bit set written to Sym_Planar_Flag. Each set bit
// reflects the geometry across the named plane.
type SymmetryPlane int

const (
	SymNone SymmetryPlane = 0
	SymXY   SymmetryPlane = 1 << 0
	SymXZ   SymmetryPlane = 1 << 1
	SymYZ   SymmetryPlane = 1 << 2
)

// ExportFormat selects the file format written by ExportFile.
type ExportFormat int

const (
	ExportSTL      ExportFormat = iota // binary STL of the whole model
	ExportMeshJSON                     // one JSON mesh per component
)

func (f ExportFormat) String() string {
	switch f {
	case ExportSTL:
		return "stl"
	case ExportMeshJSON:
		return "json"
	default:
		return fmt.Sprintf("ExportFormat(%d)", int(f))
	}
}

// ParseExportFormat maps a user-facing format name to an ExportFormat.
func ParseExportFormat(name string) (ExportFormat, error) {
	switch name {
	case "stl", "STL":
		return ExportSTL, nil
	case "json", "JSON":
		return ExportMeshJSON, nil
	}
	return 0, fmt.Errorf("kernel: unknown export format %q, expected stl or json", name)
}

// DefaultResolution is the marching cubes cell count used when
// ExportOptions.Resolution is zero.
const DefaultResolution = 200

// ExportOptions tunes ExportFile.
type ExportOptions struct {
	Resolution int // marching cubes cells along the longest axis
}

// Kernel is the capability contract consumed by the geometry binding layer.
// Every call is a synchronous round trip: a successful SetParameterValue has
// already recomputed the model when it returns. Implementations need not be
// safe for concurrent use; wrap them in a Session to share one model.
type Kernel interface {
	// AddGeometry instantiates typ, parented to parent when it is not zero.
	AddGeometry(typ GeomType, parent Handle) (Handle, error)

	// Parameters. Lookups on unknown handles return zero values.
	ParameterIDs(owner Handle) []ParmID
	ValidParameter(id ParmID) bool
	ParameterName(id ParmID) string
	ParameterValue(id ParmID) float64
	SetParameterValue(id ParmID, value float64) error

	// Cross sections. Absent surfaces and sections are reported as zero handles.
	CrossSectionSurface(geom Handle) Handle
	CrossSection(surface Handle, index int) Handle
	ChangeCrossSectionShape(surface Handle, index int, shape ShapeKind) error
	InsertCrossSection(geom Handle, index int, shape ShapeKind) error
	ChangeBodyOfRevolutionShape(geom Handle, shape ShapeKind) error

	// Output
	ExportFile(path string, opts ExportOptions, format ExportFormat) error
}
