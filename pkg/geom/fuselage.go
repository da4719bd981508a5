package geom

import (
	"fmt"

	"github.com/chazu/vspwrap/pkg/kernel"
)

// Fuselage defaults.
const (
	DefaultLength    = 30.0
	DefaultWidth     = 2.5
	DefaultHeight    = 3.0
	DefaultNoseRatio = 1.5
	DefaultTailRatio = 3.0
)

// FuselageSections is the number of cross sections a fuselage is shaped
// from: nose, three body stations and tail.
const FuselageSections = 5

// Fuselage is a lofted body whose five cross sections are derived from
// length, width, height and the nose and tail ratios. Every Update
// reapplies the derivation.
type Fuselage struct {
	*Node
	l, b, h    float64
	nose, tail float64
}

// NewFuselage creates a fuselage with the default dimensions under parent,
// which may be nil.
func NewFuselage(env *Env, parent Component) (*Fuselage, error) {
	n, err := addGeometry(env, kernel.Fuselage, parent)
	if err != nil {
		return nil, err
	}
	f := &Fuselage{
		Node: n,
		l:    DefaultLength,
		b:    DefaultWidth,
		h:    DefaultHeight,
		nose: DefaultNoseRatio,
		tail: DefaultTailRatio,
	}
	n.reshape = f.reshape
	n.fixed = true
	if err := attach(f); err != nil {
		return nil, err
	}
	return f, nil
}

// SetLBH stores length, width and height and updates the shape.
func (f *Fuselage) SetLBH(l, b, h float64) error {
	if !finitePositive(l) || !finitePositive(b) || !finitePositive(h) {
		return fmt.Errorf("%w: l=%g b=%g h=%g", ErrInvalidDimensions, l, b, h)
	}
	f.l, f.b, f.h = l, b, h
	return f.Update()
}

// SetNoseRatio stores the nose length as a multiple of height.
func (f *Fuselage) SetNoseRatio(r float64) error {
	f.nose = r
	return f.Update()
}

// SetTailRatio stores the tail length as a multiple of height.
func (f *Fuselage) SetTailRatio(r float64) error {
	f.tail = r
	return f.Update()
}

// Dimensions returns length, width and height.
func (f *Fuselage) Dimensions() (l, b, h float64) { return f.l, f.b, f.h }

// Ratios returns the nose and tail ratios.
func (f *Fuselage) Ratios() (nose, tail float64) { return f.nose, f.tail }

// reshape derives the kernel shape from the stored scalars.
func (f *Fuselage) reshape() error {
	surf := f.surface
	if surf == nil || surf.Len() < FuselageSections {
		n := 0
		if surf != nil {
			n = surf.Len()
		}
		return fmt.Errorf("%w: fuselage has %d cross sections, want %d", ErrUnexpectedTopology, n, FuselageSections)
	}
	l, b, h := f.l, f.b, f.h

	var w writes
	w.set(f, kernel.ParmLength, l)
	w.set(f, kernel.ParmCapUMin, float64(kernel.RoundEndCap))
	w.set(f, kernel.ParmCapUMax, float64(kernel.RoundEndCap))
	if w.err != nil {
		return w.err
	}

	for _, i := range []int{0, FuselageSections - 1} {
		if err := surf.ChangeShape(i, kernel.ShapeEllipse); err != nil {
			return err
		}
	}

	for _, x := range surf.sections {
		w.set(x, kernel.ParmEllipseHeight, h)
		w.set(x, kernel.ParmEllipseWidth, b)
	}

	nose := surf.sections[0]
	w.set(nose, kernel.ParmEllipseHeight, h/3)
	w.set(nose, kernel.ParmEllipseWidth, b/3)
	w.set(nose, kernel.ParmZLocPercent, -h/(6*l))
	w.set(nose, kernel.ParmTBSym, 0)
	w.set(nose, kernel.Bottom.RAngleSet(), 0)
	w.set(nose, kernel.Bottom.LAngle(), 30)
	w.set(nose, kernel.Right.RAngleSet(), 0)
	w.set(nose, kernel.Right.LAngle(), 45)

	tail := surf.sections[FuselageSections-1]
	w.set(tail, kernel.ParmEllipseHeight, h/3)
	w.set(tail, kernel.ParmEllipseWidth, b/6)
	w.set(tail, kernel.ParmZLocPercent, h/(3*l))
	w.set(tail, kernel.ParmTBSym, 0)
	w.set(tail, kernel.Top.RAngleSet(), 0)
	w.set(tail, kernel.Top.LAngle(), 0)
	w.set(tail, kernel.Bottom.RAngleSet(), 0)
	w.set(tail, kernel.Bottom.LAngle(), -30)
	w.set(tail, kernel.Right.RAngleSet(), 0)
	w.set(tail, kernel.Right.LAngle(), -10)

	w.set(surf.sections[1], kernel.ParmXLocPercent, f.nose*h/l)
	w.set(surf.sections[3], kernel.ParmXLocPercent, 1-f.tail*h/l)

	if w.err == nil {
		f.env.Log.V(1).Info("fuselage reshaped", "handle", f.handle,
			"length", l, "width", b, "height", h, "nose", f.nose, "tail", f.tail)
	}
	return w.err
}
