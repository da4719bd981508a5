package geom

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/vspwrap/pkg/kernel"
	"github.com/chazu/vspwrap/pkg/kernel/memkernel"
)

func newMemEnv(opts ...memkernel.Option) *Env {
	return NewEnv(memkernel.New(opts...))
}

func TestSetPlanFormConverges(t *testing.T) {
	areas := []float64{1e-9, 5e-7, 0.5, 1, 15, 90, 1000, 10000}
	ratios := []float64{0.2, 1, 5, 10, 25, 50}

	for _, s := range areas {
		for _, ar := range ratios {
			t.Run(fmt.Sprintf("S=%g/AR=%g", s, ar), func(t *testing.T) {
				w, err := NewWing(newMemEnv(), nil)
				require.NoError(t, err)
				require.NoError(t, w.SetPlanForm(s, ar))

				gotAR, err := w.Get(kernel.ParmTotalAR)
				require.NoError(t, err)
				gotS, err := w.Get(kernel.ParmTotalArea)
				require.NoError(t, err)
				if math.Abs(gotAR-ar) >= 1e-6*ar {
					t.Errorf("aspect ratio = %.9g, want %g", gotAR, ar)
				}
				if math.Abs(gotS-s) >= 1e-6*s {
					t.Errorf("area = %.9g, want %g", gotS, s)
				}
			})
		}
	}
}

func TestSetPlanFormDegenerateInputs(t *testing.T) {
	tests := []struct {
		name     string
		area, ar float64
	}{
		{"zero area", 0, 10},
		{"negative area", -5, 10},
		{"zero aspect ratio", 90, 0},
		{"negative aspect ratio", 90, -1},
		{"NaN area", math.NaN(), 10},
		{"infinite aspect ratio", 90, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := newFakeKernel()
			w, err := NewWing(NewEnv(k), nil)
			require.NoError(t, err)

			err = w.SetPlanForm(tt.area, tt.ar)
			require.ErrorIs(t, err, ErrNotConverged)
			var ce *ConvergenceError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, 0, ce.Iterations)
			assert.Empty(t, k.writes, "degenerate input must not touch the kernel")
		})
	}
}

func TestSetPlanFormIterationBound(t *testing.T) {
	// A kernel whose aspect ratio never moves cannot converge.
	k := newFakeKernel()
	k.onAdd = func(h kernel.Handle, _ kernel.GeomType) {
		k.addParm(h, kernel.ParmTotalSpan, 10)
		k.addParm(h, kernel.ParmTotalArea, 15)
		k.addParm(h, kernel.ParmTotalAR, 3)
	}
	env := NewEnv(k)
	env.PlanForm.MaxIterations = 7
	w, err := NewWing(env, nil)
	require.NoError(t, err)

	err = w.SetPlanForm(100, 4)
	var ce *ConvergenceError
	require.True(t, errors.As(err, &ce), "got %v", err)
	assert.Equal(t, 7, ce.Iterations)
	assert.Equal(t, 3.0, ce.Achieved)
	require.Len(t, k.writes, 14)
	assert.Equal(t, "TotalSpan=20", k.writes[0])
	assert.Equal(t, "TotalArea=100", k.writes[1])
}

func TestSetPlanFormDivergentKernel(t *testing.T) {
	// With coupling 2 an area write goes entirely into span, so the aspect
	// ratio never settles.
	w, err := NewWing(newMemEnv(memkernel.WithCoupling(2)), nil)
	require.NoError(t, err)
	err = w.SetPlanForm(90, 10)
	assert.ErrorIs(t, err, ErrNotConverged)
}

func TestSetPlanFormRecordsIterations(t *testing.T) {
	reg := prometheus.NewRegistry()
	env := newMemEnv()
	env.Metrics = kernel.NewMetrics(reg)
	w, err := NewWing(env, nil)
	require.NoError(t, err)
	require.NoError(t, w.SetPlanForm(90, 10))
	require.NoError(t, w.SetPlanForm(45, 8))

	families, err := reg.Gather()
	require.NoError(t, err)
	var count uint64
	for _, mf := range families {
		if mf.GetName() == "vspwrap_planform_iterations" {
			count = mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	assert.Equal(t, uint64(2), count)
}

func TestChangeTaper(t *testing.T) {
	for _, taper := range []float64{0.05, 0.3, 0.4, 0.5, 0.99} {
		t.Run(fmt.Sprintf("t=%g", taper), func(t *testing.T) {
			w, err := NewWing(newMemEnv(), nil)
			require.NoError(t, err)
			require.NoError(t, w.SetPlanForm(30, 6))

			rc, _ := w.Get(kernel.ParmRootChord)
			tc, _ := w.Get(kernel.ParmTipChord)
			require.NoError(t, w.ChangeTaper(taper))
			newRoot, _ := w.Get(kernel.ParmRootChord)
			newTip, _ := w.Get(kernel.ParmTipChord)

			assert.InDelta(t, rc+tc, newRoot+newTip, 1e-9)
			assert.InDelta(t, taper, newTip/newRoot, 1e-9)
		})
	}
}

func TestChangeTaperWriteOrder(t *testing.T) {
	k := newFakeKernel()
	k.onAdd = func(h kernel.Handle, _ kernel.GeomType) {
		k.addParm(h, kernel.ParmRootChord, 3)
		k.addParm(h, kernel.ParmTipChord, 1)
	}
	w, err := NewWing(NewEnv(k), nil)
	require.NoError(t, err)

	require.NoError(t, w.ChangeTaper(1))
	assert.Equal(t, []string{"Root_Chord=2", "Tip_Chord=2"}, k.writes)

	assert.ErrorIs(t, w.ChangeTaper(0), ErrInvalidDimensions)
	assert.ErrorIs(t, w.ChangeTaper(-1), ErrInvalidDimensions)
}

func TestWingSweepAndDihedral(t *testing.T) {
	w, err := NewWing(newMemEnv(), nil)
	require.NoError(t, err)
	require.NoError(t, w.SetSweep(32))
	require.NoError(t, w.SetDihedral(4))

	sweep, _ := w.Get(kernel.ParmSweep)
	dihedral, _ := w.Get(kernel.ParmDihedral)
	assert.Equal(t, 32.0, sweep)
	assert.Equal(t, 4.0, dihedral)
	require.NotNil(t, w.Surface())
	assert.Equal(t, 2, w.Surface().Len())
}
