// Package sample builds the reference vehicle: a fuselage carrying a main
// wing with a mirrored nacelle, a horizontal stabilizer and a vertical
// stabilizer. All placement is relative to the fuselage dimensions.
package sample

import (
	"fmt"

	"github.com/chazu/vspwrap/pkg/geom"
	"github.com/chazu/vspwrap/pkg/kernel"
)

// Params sizes the vehicle.
type Params struct {
	Height      float64 `json:"height" yaml:"height"`
	Width       float64 `json:"width" yaml:"width"`
	Length      float64 `json:"length" yaml:"length"`
	AspectRatio float64 `json:"aspect_ratio" yaml:"aspect_ratio"`
	Area        float64 `json:"area" yaml:"area"`
}

// DefaultParams returns the reference sizing.
func DefaultParams() Params {
	return Params{Height: 3, Width: 2.5, Length: 30, AspectRatio: 10, Area: 90}
}

// Vehicle is the built sample with direct access to its parts.
type Vehicle struct {
	Fuselage   *geom.Fuselage
	MainWing   *geom.Wing
	Nacelle    *geom.Nacelle
	Horizontal *geom.Wing
	Vertical   *geom.Wing
}

// Build creates the sample vehicle in env.
func Build(env *geom.Env, p Params) (*Vehicle, error) {
	h, b, l := p.Height, p.Width, p.Length
	s, ar := p.Area, p.AspectRatio

	fus, err := geom.NewFuselage(env, nil)
	if err != nil {
		return nil, fmt.Errorf("sample: fuselage: %w", err)
	}
	if err := fus.SetLBH(l, b, h); err != nil {
		return nil, fmt.Errorf("sample: fuselage: %w", err)
	}
	v := &Vehicle{Fuselage: fus}

	if v.MainWing, err = fus.AddWing(); err != nil {
		return nil, fmt.Errorf("sample: main wing: %w", err)
	}
	if err := v.MainWing.SetLocation(0.3*l, 0, -0.36*h); err != nil {
		return nil, fmt.Errorf("sample: main wing: %w", err)
	}
	if err := v.MainWing.SetPlanForm(s, ar); err != nil {
		return nil, fmt.Errorf("sample: main wing: %w", err)
	}

	if v.Horizontal, err = stabilizer(fus, stab{
		x: 0.86 * l, z: 0.36 * h,
		area: s / 3, ar: ar / 2, taper: 0.3, sweep: 32,
	}); err != nil {
		return nil, fmt.Errorf("sample: horizontal stabilizer: %w", err)
	}
	if v.Vertical, err = stabilizer(fus, stab{
		x: 0.83 * l, z: 0.36 * h,
		area: s / 2.5, ar: ar / 3, taper: 0.4, sweep: 36, roll: 90,
	}); err != nil {
		return nil, fmt.Errorf("sample: vertical stabilizer: %w", err)
	}

	if v.Nacelle, err = v.MainWing.AddNacelle(); err != nil {
		return nil, fmt.Errorf("sample: nacelle: %w", err)
	}
	if err := v.Nacelle.SetMirror(kernel.SymXZ); err != nil {
		return nil, fmt.Errorf("sample: nacelle: %w", err)
	}
	if err := v.Nacelle.SetLocation(0.38*l, 0.25*l, -0.5*h); err != nil {
		return nil, fmt.Errorf("sample: nacelle: %w", err)
	}
	if err := v.Nacelle.SetChord(2); err != nil {
		return nil, fmt.Errorf("sample: nacelle: %w", err)
	}

	env.Log.Info("sample vehicle built", "fuselage", fus.Handle())
	return v, nil
}

type stab struct {
	x, z        float64
	area, ar    float64
	taper       float64
	sweep, roll float64
}

func stabilizer(fus *geom.Fuselage, st stab) (*geom.Wing, error) {
	w, err := fus.AddWing()
	if err != nil {
		return nil, err
	}
	if err := w.SetLocation(st.x, 0, st.z); err != nil {
		return nil, err
	}
	if st.roll != 0 {
		if err := w.SetRotation(st.roll, 0, 0); err != nil {
			return nil, err
		}
	}
	if err := w.SetPlanForm(st.area, st.ar); err != nil {
		return nil, err
	}
	if err := w.ChangeTaper(st.taper); err != nil {
		return nil, err
	}
	if err := w.SetSweep(st.sweep); err != nil {
		return nil, err
	}
	return w, nil
}
