package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/vspwrap/pkg/config"
	"github.com/chazu/vspwrap/pkg/geom"
	"github.com/chazu/vspwrap/pkg/kernel"
	"github.com/chazu/vspwrap/pkg/sample"
)

func newTestApp() *App {
	cfg := config.Default()
	cfg.Kernel.Resolution = 24
	return NewApp(cfg, logr.Discard())
}

// TestE2ESampleScript exercises the full pipeline: script -> engine -> geom
// -> kernel, and checks the script builds exactly what the Go builder does.
func TestE2ESampleScript(t *testing.T) {
	app := newTestApp()

	source, err := os.ReadFile("../../examples/sample_vehicle.lisp")
	require.NoError(t, err)

	m, result := app.Evaluate(string(source))
	require.True(t, result.OK(), "errors: %v", result.Errors)
	require.NotNil(t, m)
	assert.Empty(t, result.Warnings)
	require.Len(t, result.Components, 1)

	_, built, err := app.Sample(sample.DefaultParams())
	require.NoError(t, err)
	require.Len(t, built.Components, 1)

	opts := cmp.Options{
		cmpopts.IgnoreFields(geom.NodeSnapshot{}, "Handle"),
		cmpopts.IgnoreFields(geom.CrossSectionSnapshot{}, "Handle"),
		cmpopts.EquateApprox(0, 1e-9),
	}
	if diff := cmp.Diff(built.Components[0], result.Components[0], opts); diff != "" {
		t.Errorf("script and builder disagree (-builder +script):\n%s", diff)
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	app := newTestApp()
	m, result := app.Evaluate("")

	require.NotNil(t, m)
	assert.Empty(t, m.Roots)
	// Slices are non-nil so they serialize as [] rather than null.
	assert.NotNil(t, result.Components)
	assert.NotNil(t, result.Errors)
	assert.NotNil(t, result.Warnings)
	assert.True(t, result.OK())
}

// TestE2ESyntaxError ensures eval errors are reported, not fatal errors.
func TestE2ESyntaxError(t *testing.T) {
	app := newTestApp()
	m, result := app.Evaluate("(+ 1 2)\n(fuselage :length 30")

	assert.Nil(t, m)
	require.NotEmpty(t, result.Errors)
	assert.NotEmpty(t, result.Errors[0].Message)
	assert.Empty(t, result.Components)
}

func TestE2EBuilderError(t *testing.T) {
	app := newTestApp()
	m, result := app.Evaluate(`(def w (wing)) (plan-form w :area 0 :aspect-ratio 4)`)

	assert.Nil(t, m)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0].Message, "plan-form")
}

func TestE2EValidation(t *testing.T) {
	app := newTestApp()
	m, result := app.Evaluate(`(fuselage :nose-ratio 8)`)

	require.NotNil(t, m, "a model that builds is returned even when it fails validation")
	require.Len(t, result.Components, 1)
	require.False(t, result.OK())
	assert.Contains(t, result.Errors[0].Message, "not ahead")

	_, result = app.Evaluate(`(fuselage :length 5 :nose-ratio 0.2 :tail-ratio 0.2)`)
	assert.True(t, result.OK())
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Message, "fineness")
	assert.True(t, strings.HasPrefix(result.Warnings[0].Message, "[warning] node "), result.Warnings[0].Message)
}

func TestExport(t *testing.T) {
	app := newTestApp()
	m, result := app.Evaluate(`(fuselage)`)
	require.True(t, result.OK())

	path := filepath.Join(t.TempDir(), "fuselage.json")
	require.NoError(t, app.Export(m, path, kernel.ExportMeshJSON))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var meshes []kernel.Mesh
	require.NoError(t, json.Unmarshal(data, &meshes))
	require.Len(t, meshes, 1)
	assert.False(t, meshes[0].IsEmpty())
}

func TestDump(t *testing.T) {
	app := newTestApp()
	_, result := app.Evaluate(`(def f (fuselage)) (wing f)`)
	require.True(t, result.OK())

	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, result, "yaml"))
	assert.Contains(t, buf.String(), "type: FUSELAGE")
	assert.Contains(t, buf.String(), "cross_sections:")

	buf.Reset()
	require.NoError(t, Dump(&buf, result, "json"))
	var back EvalResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	require.Len(t, back.Components, 1)
	assert.Equal(t, "WING", back.Components[0].Children[0].Type)

	assert.Error(t, Dump(&buf, result, "toml"))
}

func TestWriteMetrics(t *testing.T) {
	app := newTestApp()
	_, result := app.Evaluate(`(wing :area 90 :aspect-ratio 10)`)
	require.True(t, result.OK())

	var buf bytes.Buffer
	require.NoError(t, app.WriteMetrics(&buf))
	out := buf.String()
	assert.Contains(t, out, `vspwrap_kernel_calls_total{op="set_parameter"}`)
	assert.Contains(t, out, "vspwrap_planform_iterations count=1")
}

func TestCommands(t *testing.T) {
	t.Chdir(t.TempDir())
	script := filepath.Join(t.TempDir(), "v.lisp")
	require.NoError(t, os.WriteFile(script, []byte(`(def f (fuselage)) (wing f :area 60 :aspect-ratio 8)`), 0o644))

	exec := func(args ...string) (string, string, error) {
		cmd := newRootCmd()
		var out, errOut bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&errOut)
		cmd.SetArgs(args)
		err := cmd.Execute()
		return out.String(), errOut.String(), err
	}

	out, _, err := exec("validate", script)
	require.NoError(t, err)
	assert.Equal(t, "ok: 1 components, 0 warnings\n", out)

	out, _, err = exec("dump", "--format", "json", script)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "{"), "json output: %q", out)

	out, _, err = exec("run", "--metrics", script)
	require.NoError(t, err)
	assert.Contains(t, out, "vspwrap_planform_iterations")

	bad := filepath.Join(t.TempDir(), "bad.lisp")
	require.NoError(t, os.WriteFile(bad, []byte(`(fuselage :nose-ratio 8)`), 0o644))
	_, errOut, err := exec("validate", bad)
	assert.ErrorIs(t, err, errFailed)
	assert.Contains(t, errOut, "not ahead")

	_, _, err = exec("run", "--out", "x.obj", "--format", "obj", script)
	assert.ErrorContains(t, err, "unknown export format")
}
