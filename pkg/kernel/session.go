package kernel

import (
	"sync"

	"github.com/go-logr/logr"
)

// Compile-time interface check.
var _ Kernel = (*Session)(nil)

// Session serializes all access to one kernel model. The kernel holds a
// single mutable model shared by every geometry built on it, so every call
// takes the session lock for its full duration. Calls are forwarded in
// program order; nothing is batched or reordered.
type Session struct {
	mu      sync.Mutex
	k       Kernel
	log     logr.Logger
	metrics *Metrics
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the logger used for kernel call tracing.
func WithLogger(log logr.Logger) SessionOption {
	return func(s *Session) { s.log = log }
}

// WithMetrics records every call on m.
func WithMetrics(m *Metrics) SessionOption {
	return func(s *Session) { s.metrics = m }
}

// NewSession wraps k. The session is safe for concurrent use.
func NewSession(k Kernel, opts ...SessionOption) *Session {
	s := &Session{k: k, log: logr.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Metrics returns the session's metrics, or nil.
func (s *Session) Metrics() *Metrics { return s.metrics }

func (s *Session) enter(op string) func() {
	s.mu.Lock()
	s.metrics.call(op)
	return s.mu.Unlock
}

// AddGeometry forwards to the wrapped kernel.
func (s *Session) AddGeometry(typ GeomType, parent Handle) (Handle, error) {
	defer s.enter("add_geometry")()
	h, err := s.k.AddGeometry(typ, parent)
	if err != nil {
		return "", s.metrics.fail("add_geometry", err)
	}
	s.log.V(2).Info("added geometry", "type", typ, "handle", h, "parent", parent)
	return h, nil
}

// ParameterIDs forwards to the wrapped kernel.
func (s *Session) ParameterIDs(owner Handle) []ParmID {
	defer s.enter("parameter_ids")()
	return s.k.ParameterIDs(owner)
}

// ValidParameter forwards to the wrapped kernel.
func (s *Session) ValidParameter(id ParmID) bool {
	defer s.enter("valid_parameter")()
	return s.k.ValidParameter(id)
}

// ParameterName forwards to the wrapped kernel.
func (s *Session) ParameterName(id ParmID) string {
	defer s.enter("parameter_name")()
	return s.k.ParameterName(id)
}

// ParameterValue forwards to the wrapped kernel.
func (s *Session) ParameterValue(id ParmID) float64 {
	defer s.enter("parameter_value")()
	return s.k.ParameterValue(id)
}

// SetParameterValue forwards to the wrapped kernel.
func (s *Session) SetParameterValue(id ParmID, value float64) error {
	defer s.enter("set_parameter")()
	s.log.V(3).Info("set parameter", "id", id, "value", value)
	return s.metrics.fail("set_parameter", s.k.SetParameterValue(id, value))
}

// CrossSectionSurface forwards to the wrapped kernel.
func (s *Session) CrossSectionSurface(geom Handle) Handle {
	defer s.enter("cross_section_surface")()
	return s.k.CrossSectionSurface(geom)
}

// CrossSection forwards to the wrapped kernel.
func (s *Session) CrossSection(surface Handle, index int) Handle {
	defer s.enter("cross_section")()
	return s.k.CrossSection(surface, index)
}

// ChangeCrossSectionShape forwards to the wrapped kernel.
func (s *Session) ChangeCrossSectionShape(surface Handle, index int, shape ShapeKind) error {
	defer s.enter("change_cross_section_shape")()
	return s.metrics.fail("change_cross_section_shape", s.k.ChangeCrossSectionShape(surface, index, shape))
}

// InsertCrossSection forwards to the wrapped kernel.
func (s *Session) InsertCrossSection(geom Handle, index int, shape ShapeKind) error {
	defer s.enter("insert_cross_section")()
	return s.metrics.fail("insert_cross_section", s.k.InsertCrossSection(geom, index, shape))
}

// ChangeBodyOfRevolutionShape forwards to the wrapped kernel.
func (s *Session) ChangeBodyOfRevolutionShape(geom Handle, shape ShapeKind) error {
	defer s.enter("change_bor_shape")()
	return s.metrics.fail("change_bor_shape", s.k.ChangeBodyOfRevolutionShape(geom, shape))
}

// ExportFile forwards to the wrapped kernel.
func (s *Session) ExportFile(path string, opts ExportOptions, format ExportFormat) error {
	defer s.enter("export_file")()
	s.log.Info("exporting model", "path", path, "format", format, "resolution", opts.Resolution)
	return s.metrics.fail("export_file", s.k.ExportFile(path, opts, format))
}
