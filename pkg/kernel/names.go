package kernel

// Parameter names published by the kernel. The binding layer discovers
// parameters dynamically; these constants are the names its algorithms rely on.
const (
	// Every geometry.
	ParmXRelLocation = "X_Rel_Location"
	ParmYRelLocation = "Y_Rel_Location"
	ParmZRelLocation = "Z_Rel_Location"
	ParmXRelRotation = "X_Rel_Rotation"
	ParmYRelRotation = "Y_Rel_Rotation"
	ParmZRelRotation = "Z_Rel_Rotation"
	ParmSymPlanar    = "Sym_Planar_Flag"

	// Lofted bodies.
	ParmLength  = "Length"
	ParmCapUMin = "CapUMinOption"
	ParmCapUMax = "CapUMaxOption"

	// Wings.
	ParmTotalSpan = "TotalSpan"
	ParmTotalArea = "TotalArea"
	ParmTotalAR   = "TotalAR"
	ParmRootChord = "Root_Chord"
	ParmTipChord  = "Tip_Chord"
	ParmSweep     = "Sweep"
	ParmDihedral  = "Dihedral"

	// Bodies of revolution.
	ParmDiameter = "Diameter"
	ParmAngle    = "Angle"

	// Cross section placement and skinning.
	ParmXLocPercent = "XLocPercent"
	ParmYLocPercent = "YLocPercent"
	ParmZLocPercent = "ZLocPercent"
	ParmTBSym       = "TBSym"

	// Shape families.
	ParmCircleDiameter  = "Circle_Diameter"
	ParmEllipseHeight   = "Ellipse_Height"
	ParmEllipseWidth    = "Ellipse_Width"
	ParmSuperHeight     = "Super_Height"
	ParmSuperWidth      = "Super_Width"
	ParmSuperM          = "Super_M"
	ParmSuperN          = "Super_N"
	ParmRoundRectHeight = "RoundedRect_Height"
	ParmRoundRectWidth  = "RoundedRect_Width"
	ParmRoundRectRadius = "RoundRectXSec_Radius"
	ParmChord           = "Chord"
	ParmThickChord      = "ThickChord"
	ParmCamber          = "Camber"
	ParmCamberLoc       = "CamberLoc"
	ParmInvert          = "Invert"
)

// Side names a skinning edge of a cross section.
type Side string

const (
	Top    Side = "Top"
	Bottom Side = "Bottom"
	Left   Side = "Left"
	Right  Side = "Right"
)

// Sides lists the skinning edges in kernel order.
var Sides = []Side{Top, Bottom, Left, Right}

// LAngle is the name of the side's left (upstream) skinning angle.
func (s Side) LAngle() string { return string(s) + "LAngle" }

// RAngle is the name of the side's right (downstream) skinning angle.
func (s Side) RAngle() string { return string(s) + "RAngle" }

// RAngleSet is the name of the flag that decouples RAngle from LAngle.
// Writing 0 frees the right angle so it follows the left one.
func (s Side) RAngleSet() string { return string(s) + "RAngleSet" }
