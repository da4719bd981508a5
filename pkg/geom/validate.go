package geom

import (
	"fmt"

	"github.com/chazu/vspwrap/pkg/kernel"
)

// ValidationSeverity indicates whether a finding blocks export or is
// merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks export
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Handle   kernel.Handle // node with the problem (zero if tree-level)
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.Handle.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.Handle, e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	Handle  kernel.Handle
	Message string
}

func (w ValidationWarning) Error() string {
	if w.Handle.IsZero() {
		return fmt.Sprintf("[%s] %s", SeverityWarning, w.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", SeverityWarning, w.Handle, w.Message)
}

// ValidationResult bundles errors (blocking) and warnings (advisory).
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether there are no blocking errors.
func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

func (r *ValidationResult) fail(h kernel.Handle, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{
		Handle:   h,
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityError,
	})
}

func (r *ValidationResult) warn(h kernel.Handle, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationWarning{Handle: h, Message: fmt.Sprintf(format, args...)})
}

// Validate checks the trees rooted at roots: structure first (back-links,
// duplicate handles), then geometry of each specialization. It reads the
// kernel but never writes.
func Validate(roots ...Component) ValidationResult {
	var r ValidationResult
	seen := make(map[kernel.Handle]bool)
	for _, root := range roots {
		if root.Base().parent != nil {
			r.warn(root.Base().handle, "root has a parent link")
		}
		_ = Walk(root, func(c Component) error {
			n := c.Base()
			if seen[n.handle] {
				r.fail(n.handle, "handle appears more than once in the tree")
			}
			seen[n.handle] = true
			for _, child := range n.children {
				if child.Base().parent != n {
					r.fail(child.Base().handle, "child back-link does not point at its owner %s", n.handle)
				}
			}
			validateGeometry(&r, c)
			return nil
		})
	}
	return r
}

func validateGeometry(r *ValidationResult, c Component) {
	switch v := c.(type) {
	case *Fuselage:
		validateFuselage(r, v)
	case *Wing:
		validateWing(r, v)
	case *Nacelle:
		validateNacelle(r, v)
	}
}

func validateFuselage(r *ValidationResult, f *Fuselage) {
	if f.surface == nil || f.surface.Len() != FuselageSections {
		n := 0
		if f.surface != nil {
			n = f.surface.Len()
		}
		r.fail(f.handle, "fuselage has %d cross sections, want %d", n, FuselageSections)
		return
	}
	front, err1 := f.surface.sections[1].Get(kernel.ParmXLocPercent)
	back, err2 := f.surface.sections[3].Get(kernel.ParmXLocPercent)
	if err1 == nil && err2 == nil && front >= back {
		r.fail(f.handle, "nose section at %.4f is not ahead of tail section at %.4f", front, back)
	}
	if l, b, h := f.Dimensions(); l < 2*max(b, h) {
		r.warn(f.handle, "fineness ratio %.2f is below 2", l/max(b, h))
	}
}

func validateWing(r *ValidationResult, w *Wing) {
	for _, name := range []string{kernel.ParmTotalArea, kernel.ParmTotalSpan} {
		v, err := w.Get(name)
		if err != nil {
			r.fail(w.handle, "%v", err)
			continue
		}
		if v <= 0 {
			r.fail(w.handle, "%s is %.4f, must be positive", name, v)
		}
	}
	if ar, err := w.Get(kernel.ParmTotalAR); err == nil && (ar <= 0.1 || ar > 50) {
		r.warn(w.handle, "aspect ratio %.2f is outside (0.1, 50]", ar)
	}
}

func validateNacelle(r *ValidationResult, n *Nacelle) {
	d, err := n.Get(kernel.ParmDiameter)
	if err != nil {
		r.fail(n.handle, "%v", err)
		return
	}
	if d <= 0 {
		r.fail(n.handle, "%s is %.4f, must be positive", kernel.ParmDiameter, d)
	}
}
