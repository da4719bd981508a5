package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0.5, cfg.Kernel.Coupling)
	assert.Equal(t, 200, cfg.Kernel.Resolution)
	assert.Equal(t, 100, cfg.PlanForm.MaxIterations)
	assert.Equal(t, 5*time.Second, cfg.Eval.Timeout)
}

func TestLoadWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	body := `
kernel:
  coupling: 0.25
planform:
  max_iterations: 40
eval:
  timeout: 2s
log:
  level: debug
  development: true
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.25, cfg.Kernel.Coupling)
	assert.Equal(t, 200, cfg.Kernel.Resolution, "unset keys keep defaults")
	assert.Equal(t, 40, cfg.PlanForm.MaxIterations)
	assert.Equal(t, 2*time.Second, cfg.Eval.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
}

func TestLoadFromWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	data, err := yaml.Marshal(map[string]any{"kernel": map[string]any{"resolution": 64}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vspwrap.yaml"), data, 0o644))
	t.Chdir(dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Kernel.Resolution)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("VSPWRAP_KERNEL_COUPLING", "1.5")
	t.Setenv("VSPWRAP_EVAL_TIMEOUT", "750ms")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 1.5, cfg.Kernel.Coupling)
	assert.Equal(t, 750*time.Millisecond, cfg.Eval.Timeout)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"negative coupling", func(c *Config) { c.Kernel.Coupling = -0.1 }, "kernel.coupling"},
		{"coupling too large", func(c *Config) { c.Kernel.Coupling = 2.5 }, "kernel.coupling"},
		{"coupling at span-only limit", func(c *Config) { c.Kernel.Coupling = 2 }, "kernel.coupling"},
		{"negative resolution", func(c *Config) { c.Kernel.Resolution = -1 }, "kernel.resolution"},
		{"zero iterations", func(c *Config) { c.PlanForm.MaxIterations = 0 }, "planform.max_iterations"},
		{"zero tolerance", func(c *Config) { c.PlanForm.Tolerance = 0 }, "planform.tolerance"},
		{"zero timeout", func(c *Config) { c.Eval.Timeout = 0 }, "eval.timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("VSPWRAP_PLANFORM_TOLERANCE", "-1")
	_, err := Load("")
	assert.ErrorContains(t, err, "planform.tolerance")
}

func TestPlanFormSettings(t *testing.T) {
	cfg := Default()
	cfg.PlanForm.MaxIterations = 7
	pf := cfg.PlanFormSettings()
	assert.Equal(t, 7, pf.MaxIterations)
	assert.Equal(t, 1e-6, pf.Tolerance)
}
