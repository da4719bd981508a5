package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"

	"github.com/chazu/vspwrap/pkg/config"
	"github.com/chazu/vspwrap/pkg/engine"
	"github.com/chazu/vspwrap/pkg/geom"
	"github.com/chazu/vspwrap/pkg/kernel"
	"github.com/chazu/vspwrap/pkg/kernel/memkernel"
	"github.com/chazu/vspwrap/pkg/kernel/sdfx"
	"github.com/chazu/vspwrap/pkg/sample"
)

// App wires configuration, logging, metrics, the kernel and the script
// engine together. Every evaluation builds into its own kernel model.
type App struct {
	cfg      config.Config
	log      logr.Logger
	registry *prometheus.Registry
	metrics  *kernel.Metrics
	modeler  kernel.Modeler
	engine   *engine.Engine
}

// Model is one built vehicle.
type Model struct {
	Env   *geom.Env
	Roots []geom.Component
}

// EvalErrorData is a serializable script, build or validation error.
type EvalErrorData struct {
	Line    int    `json:"line" yaml:"line"`
	Col     int    `json:"col" yaml:"col"`
	Message string `json:"message" yaml:"message"`
}

// EvalResult is the full result of evaluating a script.
type EvalResult struct {
	Components []geom.NodeSnapshot `json:"components" yaml:"components"`
	Errors     []EvalErrorData     `json:"errors" yaml:"errors"`
	Warnings   []EvalErrorData     `json:"warnings" yaml:"warnings"`
}

// OK reports whether the result carries no errors.
func (r EvalResult) OK() bool { return len(r.Errors) == 0 }

// NewApp creates an App with a private metrics registry and the sdfx modeler.
func NewApp(cfg config.Config, log logr.Logger) *App {
	reg := prometheus.NewRegistry()
	a := &App{
		cfg:      cfg,
		log:      log,
		registry: reg,
		metrics:  kernel.NewMetrics(reg),
		modeler:  sdfx.New(),
	}
	a.engine = engine.NewEngine(a.newEnv,
		engine.WithTimeout(cfg.Eval.Timeout),
		engine.WithLogger(log.WithName("engine")))
	return a
}

// newEnv creates a fresh kernel model behind a session.
func (a *App) newEnv() (*geom.Env, error) {
	mem := memkernel.New(
		memkernel.WithCoupling(a.cfg.Kernel.Coupling),
		memkernel.WithModeler(a.modeler),
	)
	session := kernel.NewSession(mem,
		kernel.WithLogger(a.log.WithName("kernel")),
		kernel.WithMetrics(a.metrics))
	env := geom.NewEnv(session)
	env.Log = a.log.WithName("geom")
	env.PlanForm = a.cfg.PlanFormSettings()
	env.Metrics = a.metrics
	return env, nil
}

// Evaluate runs a vehicle script, validates what it built and returns the
// model with a serializable summary. The model is nil when the script or
// its build failed.
func (a *App) Evaluate(source string) (*Model, EvalResult) {
	result := EvalResult{
		Components: []geom.NodeSnapshot{},
		Errors:     []EvalErrorData{},
		Warnings:   []EvalErrorData{},
	}

	// Step 1: Evaluate the script into a live geometry tree.
	res, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		a.log.Error(err, "evaluation failed")
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return nil, result
	}

	// Step 2: Convert eval errors to the output format.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return nil, result
	}

	m := &Model{Env: res.Env, Roots: res.Roots}
	a.summarize(m, &result)
	return m, result
}

// Sample builds the reference vehicle with p.
func (a *App) Sample(p sample.Params) (*Model, EvalResult, error) {
	env, err := a.newEnv()
	if err != nil {
		return nil, EvalResult{}, err
	}
	v, err := sample.Build(env, p)
	if err != nil {
		return nil, EvalResult{}, err
	}
	m := &Model{Env: env, Roots: []geom.Component{v.Fuselage}}
	result := EvalResult{Errors: []EvalErrorData{}, Warnings: []EvalErrorData{}}
	a.summarize(m, &result)
	return m, result, nil
}

// summarize validates m and snapshots its roots into result.
func (a *App) summarize(m *Model, result *EvalResult) {
	for _, r := range m.Roots {
		result.Components = append(result.Components, geom.Snapshot(r))
	}
	v := geom.Validate(m.Roots...)
	for _, e := range v.Errors {
		result.Errors = append(result.Errors, EvalErrorData{Message: e.Error()})
	}
	for _, w := range v.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.Error()})
	}
}

// Export writes m through the kernel's exporter.
func (a *App) Export(m *Model, path string, format kernel.ExportFormat) error {
	opts := kernel.ExportOptions{Resolution: a.cfg.Kernel.Resolution}
	if err := m.Env.Kernel.ExportFile(path, opts, format); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	a.log.Info("exported model", "path", path, "format", format.String())
	return nil
}

// Dump writes result as yaml or json.
func Dump(w io.Writer, result EvalResult, format string) error {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return fmt.Errorf("unknown dump format %q, expected yaml or json", format)
}

// WriteMetrics prints the app's counters and histograms as plain text.
func (a *App) WriteMetrics(w io.Writer) error {
	families, err := a.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
			}
			sort.Strings(labels)
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			if h := m.GetHistogram(); h != nil {
				fmt.Fprintf(w, "%s count=%d sum=%g\n", name, h.GetSampleCount(), h.GetSampleSum())
				continue
			}
			fmt.Fprintf(w, "%s %g\n", name, m.GetCounter().GetValue())
		}
	}
	return nil
}
