package geom

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/chazu/vspwrap/pkg/kernel"
)

// buildVehicle creates a fuselage with a wing carrying one nacelle.
func buildVehicle(t *testing.T) (*Fuselage, *Wing, *Nacelle) {
	t.Helper()
	f, err := NewFuselage(newMemEnv(), nil)
	require.NoError(t, err)
	w, err := f.AddWing()
	require.NoError(t, err)
	require.NoError(t, w.SetPlanForm(90, 10))
	n, err := w.AddNacelle()
	require.NoError(t, err)
	return f, w, n
}

// hasError reports whether errs contains an error whose message contains substr.
func hasError(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if e.Severity == SeverityError && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestValidateCleanVehicle(t *testing.T) {
	f, _, _ := buildVehicle(t)
	r := Validate(f)
	assert.True(t, r.OK(), "unexpected errors: %v", r.Errors)
	assert.Empty(t, r.Warnings)
}

func TestValidateBrokenBackLink(t *testing.T) {
	f, w, _ := buildVehicle(t)
	w.parent = nil
	r := Validate(f)
	assert.True(t, hasError(r.Errors, "back-link"), "errors: %v", r.Errors)
}

func TestValidateDuplicateHandle(t *testing.T) {
	f, w, _ := buildVehicle(t)
	f.children = append(f.children, w)
	r := Validate(f)
	assert.True(t, hasError(r.Errors, "more than once"), "errors: %v", r.Errors)
}

func TestValidateSectionOrder(t *testing.T) {
	f, _, _ := buildVehicle(t)
	// Nose station 8*3/30 lands behind the tail station 1-3*3/30.
	require.NoError(t, f.SetNoseRatio(8))
	r := Validate(f)
	assert.True(t, hasError(r.Errors, "not ahead"), "errors: %v", r.Errors)
}

func TestValidateWarnings(t *testing.T) {
	f, w, _ := buildVehicle(t)
	require.NoError(t, f.SetLBH(5, 2.5, 3))
	require.NoError(t, f.SetNoseRatio(0.2))
	require.NoError(t, f.SetTailRatio(0.2))
	require.NoError(t, w.SetPlanForm(10, 80))

	r := Validate(f)
	assert.True(t, r.OK(), "unexpected errors: %v", r.Errors)
	require.Len(t, r.Warnings, 2)
	assert.Contains(t, r.Warnings[0].Message, "fineness")
	assert.Contains(t, r.Warnings[1].Message, "aspect ratio")
	assert.Equal(t, "[warning] node "+string(f.Handle())+": "+r.Warnings[0].Message, r.Warnings[0].Error())
	assert.Equal(t, "[warning] loose", ValidationWarning{Message: "loose"}.Error())
}

func TestValidateNacelleDiameter(t *testing.T) {
	k := newFakeKernel()
	k.onAdd = func(h kernel.Handle, _ kernel.GeomType) {
		for _, name := range []string{
			kernel.ParmThickChord, kernel.ParmCamberLoc, kernel.ParmCamber,
			kernel.ParmDiameter, kernel.ParmAngle,
		} {
			k.addParm(h, name, 0)
		}
	}
	n, err := NewNacelle(NewEnv(k), nil)
	require.NoError(t, err)
	require.NoError(t, n.SetDiameter(0))

	r := Validate(n)
	assert.True(t, hasError(r.Errors, "Diameter"), "errors: %v", r.Errors)
	assert.Equal(t, "error", r.Errors[0].Severity.String())
	assert.Contains(t, r.Errors[0].Error(), string(n.Handle()))
}

func TestSnapshot(t *testing.T) {
	f, _, _ := buildVehicle(t)
	s := Snapshot(f)

	assert.Equal(t, "FUSELAGE", s.Type)
	assert.Equal(t, string(f.Handle()), s.Handle)
	assert.Equal(t, 30.0, s.Parameters[kernel.ParmLength])
	require.Len(t, s.CrossSections, FuselageSections)
	assert.InDelta(t, 0.15, s.CrossSections[1].Parameters[kernel.ParmXLocPercent], 1e-12)
	require.Len(t, s.Children, 1)
	assert.Equal(t, "WING", s.Children[0].Type)
	require.Len(t, s.Children[0].Children, 1)
	assert.Equal(t, "BODYOFREVOLUTION", s.Children[0].Children[0].Type)
	assert.Empty(t, s.Children[0].Children[0].CrossSections)

	data, err := yaml.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), "cross_sections:")

	data, err = json.Marshal(s)
	require.NoError(t, err)
	var back NodeSnapshot
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, s.Handle, back.Handle)
}
