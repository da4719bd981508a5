package geom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/vspwrap/pkg/kernel"
)

func sectionSize(t *testing.T, f *Fuselage, i int) (h, w float64) {
	t.Helper()
	x, err := f.Surface().At(i)
	require.NoError(t, err)
	h, err = x.Get(kernel.ParmEllipseHeight)
	require.NoError(t, err)
	w, err = x.Get(kernel.ParmEllipseWidth)
	require.NoError(t, err)
	return h, w
}

func sectionValue(t *testing.T, f *Fuselage, i int, name string) float64 {
	t.Helper()
	x, err := f.Surface().At(i)
	require.NoError(t, err)
	v, err := x.Get(name)
	require.NoError(t, err)
	return v
}

func TestDefaultFuselage(t *testing.T) {
	f, err := NewFuselage(newMemEnv(), nil)
	require.NoError(t, err)

	require.NotNil(t, f.Surface())
	assert.Equal(t, FuselageSections, f.Surface().Len())
	l, b, h := f.Dimensions()
	assert.Equal(t, [3]float64{30, 2.5, 3}, [3]float64{l, b, h})
	nose, tail := f.Ratios()
	assert.Equal(t, 1.5, nose)
	assert.Equal(t, 3.0, tail)

	length, err := f.Get(kernel.ParmLength)
	require.NoError(t, err)
	assert.Equal(t, 30.0, length)
	capMin, _ := f.Get(kernel.ParmCapUMin)
	capMax, _ := f.Get(kernel.ParmCapUMax)
	assert.Equal(t, float64(kernel.RoundEndCap), capMin)
	assert.Equal(t, float64(kernel.RoundEndCap), capMax)
}

func TestSetLBHSectionSizes(t *testing.T) {
	f, err := NewFuselage(newMemEnv(), nil)
	require.NoError(t, err)
	require.NoError(t, f.SetLBH(30, 2.5, 3.0))

	tests := []struct {
		index  int
		height float64
		width  float64
	}{
		{0, 1.0, 2.5 / 3},
		{1, 3.0, 2.5},
		{2, 3.0, 2.5},
		{3, 3.0, 2.5},
		{4, 1.0, 2.5 / 6},
	}
	for _, tt := range tests {
		h, w := sectionSize(t, f, tt.index)
		assert.InDelta(t, tt.height, h, 1e-12, "section %d height", tt.index)
		assert.InDelta(t, tt.width, w, 1e-12, "section %d width", tt.index)
	}
}

func TestNoseAndTailShaping(t *testing.T) {
	f, err := NewFuselage(newMemEnv(), nil)
	require.NoError(t, err)
	require.NoError(t, f.SetLBH(30, 2.5, 3.0))
	require.NoError(t, f.SetNoseRatio(1.5))

	assert.InDelta(t, 0.15, sectionValue(t, f, 1, kernel.ParmXLocPercent), 1e-12)
	assert.InDelta(t, 0.7, sectionValue(t, f, 3, kernel.ParmXLocPercent), 1e-12)

	require.NoError(t, f.SetTailRatio(2))
	assert.InDelta(t, 0.8, sectionValue(t, f, 3, kernel.ParmXLocPercent), 1e-12)

	// Nose: dropped below the axis, asymmetric, chamfered bottom and sides.
	assert.InDelta(t, -3.0/180, sectionValue(t, f, 0, kernel.ParmZLocPercent), 1e-12)
	assert.Equal(t, 0.0, sectionValue(t, f, 0, kernel.ParmTBSym))
	assert.Equal(t, 30.0, sectionValue(t, f, 0, kernel.Bottom.LAngle()))
	assert.Equal(t, 30.0, sectionValue(t, f, 0, kernel.Bottom.RAngle()))
	assert.Equal(t, 45.0, sectionValue(t, f, 0, kernel.Right.LAngle()))

	// Tail: raised above the axis.
	assert.InDelta(t, 3.0/90, sectionValue(t, f, 4, kernel.ParmZLocPercent), 1e-12)
	assert.Equal(t, 0.0, sectionValue(t, f, 4, kernel.Top.LAngle()))
	assert.Equal(t, -30.0, sectionValue(t, f, 4, kernel.Bottom.LAngle()))
	assert.Equal(t, -10.0, sectionValue(t, f, 4, kernel.Right.LAngle()))
}

// tables captures every accessor table and section handle of a node.
type tables struct {
	Node     map[string]kernel.ParmID
	Handles  []kernel.Handle
	Sections []map[string]kernel.ParmID
}

func captureTables(n *Node) tables {
	tb := tables{Node: n.Params().IDs()}
	if s := n.Surface(); s != nil {
		tb.Handles = s.Handles()
		for _, x := range s.Sections() {
			tb.Sections = append(tb.Sections, x.Params().IDs())
		}
	}
	return tb
}

func TestUpdateIdempotent(t *testing.T) {
	env := newMemEnv()
	f, err := NewFuselage(env, nil)
	require.NoError(t, err)
	w, err := f.AddWing()
	require.NoError(t, err)
	nac, err := w.AddNacelle()
	require.NoError(t, err)

	for _, n := range []*Node{f.Node, w.Node, nac.Node} {
		require.NoError(t, n.Update())
		first := captureTables(n)
		firstValues := Snapshot(n)
		require.NoError(t, n.Update())
		if diff := cmp.Diff(first, captureTables(n)); diff != "" {
			t.Errorf("%s tables changed across Update (-first +second):\n%s", n.Type(), diff)
		}
		if diff := cmp.Diff(firstValues, Snapshot(n)); diff != "" {
			t.Errorf("%s values changed across Update (-first +second):\n%s", n.Type(), diff)
		}
	}

	// Fuselage idempotence holds through its own Update too.
	before := captureTables(f.Node)
	require.NoError(t, f.Update())
	assert.Equal(t, before, captureTables(f.Node))
}

func TestSetLBHRejectsNonPositive(t *testing.T) {
	f, err := NewFuselage(newMemEnv(), nil)
	require.NoError(t, err)

	tests := []struct {
		name    string
		l, b, h float64
	}{
		{"zero length", 0, 2.5, 3},
		{"negative width", 30, -1, 3},
		{"zero height", 30, 2.5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, f.SetLBH(tt.l, tt.b, tt.h), ErrInvalidDimensions)
			l, b, h := f.Dimensions()
			assert.Equal(t, [3]float64{30, 2.5, 3}, [3]float64{l, b, h})
		})
	}
}

func TestFuselageFixedTopology(t *testing.T) {
	f, err := NewFuselage(newMemEnv(), nil)
	require.NoError(t, err)
	assert.ErrorIs(t, f.InsertCrossSection(2, kernel.ShapeEllipse), ErrFixedTopology)
	assert.Equal(t, FuselageSections, f.Surface().Len())
}

func TestFuselageUnexpectedTopology(t *testing.T) {
	k := newFakeKernel()
	k.onAdd = func(h kernel.Handle, _ kernel.GeomType) { k.addSurface(h, 3) }
	_, err := NewFuselage(NewEnv(k), nil)
	assert.ErrorIs(t, err, ErrUnexpectedTopology)

	k = newFakeKernel()
	_, err = NewFuselage(NewEnv(k), nil)
	assert.ErrorIs(t, err, ErrUnexpectedTopology, "no surface at all")
}

func TestFuselageShapeChanges(t *testing.T) {
	k := newFakeKernel()
	k.onAdd = func(h kernel.Handle, typ kernel.GeomType) {
		if typ != kernel.Fuselage {
			return
		}
		for _, name := range []string{kernel.ParmLength, kernel.ParmCapUMin, kernel.ParmCapUMax} {
			k.addParm(h, name, 0)
		}
		for _, x := range k.addSurface(h, 5) {
			for _, name := range []string{
				kernel.ParmXLocPercent, kernel.ParmZLocPercent, kernel.ParmTBSym,
				kernel.ParmEllipseHeight, kernel.ParmEllipseWidth,
			} {
				k.addParm(x, name, 0)
			}
			for _, side := range kernel.Sides {
				k.addParm(x, side.LAngle(), 0)
				k.addParm(x, side.RAngleSet(), 1)
			}
		}
	}
	f, err := NewFuselage(NewEnv(k), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"0:ellipse", "4:ellipse"}, k.shapes)
	require.GreaterOrEqual(t, len(k.writes), 3)
	assert.Equal(t, []string{"Length=30", "CapUMinOption=2", "CapUMaxOption=2"}, k.writes[:3])
	assert.Equal(t, 0.15, sectionValue(t, f, 1, kernel.ParmXLocPercent))
}
