package geom

import (
	"github.com/go-logr/logr"

	"github.com/chazu/vspwrap/pkg/kernel"
)

// PlanFormSettings bounds the wing planform fixed-point loop.
type PlanFormSettings struct {
	MaxIterations int
	Tolerance     float64 // relative aspect ratio tolerance
}

// DefaultPlanForm returns the default loop bound and tolerance.
func DefaultPlanForm() PlanFormSettings {
	return PlanFormSettings{MaxIterations: 100, Tolerance: 1e-6}
}

// Env is the context threaded through every node: the kernel holding the
// live model plus logging and metrics. One Env addresses one model.
type Env struct {
	Kernel   kernel.Kernel
	Log      logr.Logger
	PlanForm PlanFormSettings
	Metrics  *kernel.Metrics // may be nil
}

// NewEnv returns an Env over k with a discarding logger and the default
// planform settings.
func NewEnv(k kernel.Kernel) *Env {
	return &Env{Kernel: k, Log: logr.Discard(), PlanForm: DefaultPlanForm()}
}

func (e *Env) planForm() PlanFormSettings {
	pf := e.PlanForm
	def := DefaultPlanForm()
	if pf.MaxIterations <= 0 {
		pf.MaxIterations = def.MaxIterations
	}
	if pf.Tolerance <= 0 {
		pf.Tolerance = def.Tolerance
	}
	return pf
}
