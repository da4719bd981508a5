// Package config loads runtime settings from defaults, an optional YAML
// file and VSPWRAP_ environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/chazu/vspwrap/pkg/geom"
	"github.com/chazu/vspwrap/pkg/kernel"
	"github.com/chazu/vspwrap/pkg/kernel/memkernel"
)

// EnvPrefix is prepended to environment variable names, e.g.
// VSPWRAP_KERNEL_COUPLING.
const EnvPrefix = "VSPWRAP"

// Config is the full runtime configuration.
type Config struct {
	Kernel   KernelConfig   `mapstructure:"kernel" yaml:"kernel"`
	PlanForm PlanFormConfig `mapstructure:"planform" yaml:"planform"`
	Eval     EvalConfig     `mapstructure:"eval" yaml:"eval"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// KernelConfig configures the in-process kernel and export.
type KernelConfig struct {
	// Coupling is the span exponent applied when TotalArea is written.
	Coupling float64 `mapstructure:"coupling" yaml:"coupling"`
	// Resolution is the marching cubes cell count used for export.
	Resolution int `mapstructure:"resolution" yaml:"resolution"`
}

// PlanFormConfig bounds the wing planform fit.
type PlanFormConfig struct {
	MaxIterations int     `mapstructure:"max_iterations" yaml:"max_iterations"`
	Tolerance     float64 `mapstructure:"tolerance" yaml:"tolerance"`
}

// EvalConfig configures script evaluation.
type EvalConfig struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	// Level is a zap level name or a negative number for logr verbosity,
	// e.g. "info", "debug" or "-2".
	Level       string `mapstructure:"level" yaml:"level"`
	Development bool   `mapstructure:"development" yaml:"development"`
}

// Default returns the built-in configuration.
func Default() Config {
	pf := geom.DefaultPlanForm()
	return Config{
		Kernel:   KernelConfig{Coupling: memkernel.DefaultCoupling, Resolution: kernel.DefaultResolution},
		PlanForm: PlanFormConfig{MaxIterations: pf.MaxIterations, Tolerance: pf.Tolerance},
		Eval:     EvalConfig{Timeout: 5 * time.Second},
		Log:      LogConfig{Level: "info"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("kernel.coupling", d.Kernel.Coupling)
	v.SetDefault("kernel.resolution", d.Kernel.Resolution)
	v.SetDefault("planform.max_iterations", d.PlanForm.MaxIterations)
	v.SetDefault("planform.tolerance", d.PlanForm.Tolerance)
	v.SetDefault("eval.timeout", d.Eval.Timeout)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.development", d.Log.Development)
}

// Load reads the configuration. An empty path searches the working
// directory for vspwrap.yaml and is not an error when none exists; an
// explicit path must exist.
func Load(path string) (Config, error) {
	var cfg Config
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("vspwrap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks for invalid configuration values.
func (c *Config) Validate() error {
	if c.Kernel.Coupling < 0 || c.Kernel.Coupling >= 2 {
		return fmt.Errorf("config: kernel.coupling must be in [0, 2), got %g", c.Kernel.Coupling)
	}
	if c.Kernel.Resolution < 0 {
		return fmt.Errorf("config: kernel.resolution must be >= 0, got %d", c.Kernel.Resolution)
	}
	if c.PlanForm.MaxIterations <= 0 {
		return fmt.Errorf("config: planform.max_iterations must be > 0, got %d", c.PlanForm.MaxIterations)
	}
	if c.PlanForm.Tolerance <= 0 {
		return fmt.Errorf("config: planform.tolerance must be > 0, got %g", c.PlanForm.Tolerance)
	}
	if c.Eval.Timeout <= 0 {
		return fmt.Errorf("config: eval.timeout must be > 0, got %s", c.Eval.Timeout)
	}
	return nil
}

// PlanFormSettings converts the planform section for geom.Env.
func (c *Config) PlanFormSettings() geom.PlanFormSettings {
	return geom.PlanFormSettings{MaxIterations: c.PlanForm.MaxIterations, Tolerance: c.PlanForm.Tolerance}
}
