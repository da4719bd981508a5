package geom

import (
	"fmt"

	"github.com/chazu/vspwrap/pkg/kernel"
)

// MaxCrossSections is the number of indices probed when discovering a
// surface.
const MaxCrossSections = 100

// CrossSection is one profile slice and its parameter table.
type CrossSection struct {
	handle kernel.Handle
	params *Parameters
}

func discoverCrossSection(k kernel.Kernel, h kernel.Handle) *CrossSection {
	return &CrossSection{handle: h, params: Discover(k, h)}
}

func (x *CrossSection) Handle() kernel.Handle { return x.handle }
func (x *CrossSection) Params() *Parameters { return x.params }
func (x *CrossSection) Get(name string) (float64, error) { return x.params.Get(name) }
func (x *CrossSection) Set(name string, v float64) error { return x.params.Set(name, v) }

// CrossSectionSurface is the ordered list of cross sections of a lofted
// geometry.
type CrossSectionSurface struct {
	k        kernel.Kernel
	handle   kernel.Handle
	sections []*CrossSection
}

// discoverSurface probes indices from 0 until the kernel reports an absent
// section or MaxCrossSections indices have been probed. Hitting the limit
// returns the sections found together with ErrCrossSectionOverflow.
func discoverSurface(k kernel.Kernel, h kernel.Handle) (*CrossSectionSurface, error) {
	s := &CrossSectionSurface{k: k, handle: h}
	for i := 0; i < MaxCrossSections; i++ {
		xh := k.CrossSection(h, i)
		if xh.IsZero() {
			return s, nil
		}
		s.sections = append(s.sections, discoverCrossSection(k, xh))
	}
	return s, fmt.Errorf("%w: surface %s has at least %d sections", ErrCrossSectionOverflow, h, MaxCrossSections)
}

func (s *CrossSectionSurface) Handle() kernel.Handle { return s.handle }

// Len returns the number of sections.
func (s *CrossSectionSurface) Len() int { return len(s.sections) }

// At returns the section at index.
func (s *CrossSectionSurface) At(index int) (*CrossSection, error) {
	if index < 0 || index >= len(s.sections) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(s.sections))
	}
	return s.sections[index], nil
}

// Sections returns the sections in order.
func (s *CrossSectionSurface) Sections() []*CrossSection {
	return append([]*CrossSection(nil), s.sections...)
}

// Handles returns the section handles in order.
func (s *CrossSectionSurface) Handles() []kernel.Handle {
	out := make([]kernel.Handle, len(s.sections))
	for i, x := range s.sections {
		out[i] = x.handle
	}
	return out
}

// ChangeShape switches the section at index to another shape family and
// rediscovers that section only.
func (s *CrossSectionSurface) ChangeShape(index int, shape kernel.ShapeKind) error {
	if index < 0 || index >= len(s.sections) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(s.sections))
	}
	if err := s.k.ChangeCrossSectionShape(s.handle, index, shape); err != nil {
		return fmt.Errorf("geom: change section %d to %v: %w", index, shape, err)
	}
	s.sections[index] = discoverCrossSection(s.k, s.k.CrossSection(s.handle, index))
	return nil
}
