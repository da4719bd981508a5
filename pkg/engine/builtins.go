package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/vspwrap/pkg/geom"
	"github.com/chazu/vspwrap/pkg/kernel"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms vehicle script source before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: plan-form -> plan_form
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpNodeRef wraps a geometry component so it can be passed between builtins.
type sexpNodeRef struct {
	comp geom.Component
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	b := n.comp.Base()
	h := string(b.Handle())
	if len(h) > 8 {
		h = h[:8]
	}
	return fmt.Sprintf("(%s %q)", strings.ToLower(string(b.Type())), h)
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

func number(v float64) zygo.Sexp { return &zygo.SexpFloat{Val: v} }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// float returns the numeric value of keyword key, if present.
func (a kwArgs) float(key string) (float64, bool, error) {
	v, ok := a.kw[key]
	if !ok {
		return 0, false, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, true, fmt.Errorf("%s: %w", key, err)
	}
	return f, true, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toFloats extracts exactly n numbers.
func toFloats(args []zygo.Sexp, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("expected %d numbers, got %d arguments", n, len(args))
	}
	out := make([]float64, n)
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out[i] = f
	}
	return out, nil
}

// toInt extracts an integer index from a Sexp.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_xz) and plain strings ("xz").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toShape converts a keyword such as :ellipse or :four-series to a ShapeKind.
func toShape(s zygo.Sexp) (kernel.ShapeKind, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected shape keyword: %w", err)
	}
	for k := kernel.ShapePoint; k <= kernel.ShapeFourSeries; k++ {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("invalid shape %q, expected point, circle, ellipse, super-ellipse, rounded-rectangle or four-series", name)
}

// toPlanes ORs symmetry plane keywords (:xy, :xz, :yz, :none) together.
func toPlanes(args []zygo.Sexp) (kernel.SymmetryPlane, error) {
	var planes kernel.SymmetryPlane
	for _, a := range args {
		name, err := toKeywordString(a)
		if err != nil {
			return 0, fmt.Errorf("expected plane keyword: %w", err)
		}
		switch name {
		case "none":
		case "xy":
			planes |= kernel.SymXY
		case "xz":
			planes |= kernel.SymXZ
		case "yz":
			planes |= kernel.SymYZ
		default:
			return 0, fmt.Errorf("invalid plane %q, expected xy, xz, yz or none", name)
		}
	}
	return planes, nil
}

// toComponent extracts the component from a sexpNodeRef.
func toComponent(s zygo.Sexp) (geom.Component, error) {
	if ref, ok := s.(*sexpNodeRef); ok {
		return ref.comp, nil
	}
	return nil, fmt.Errorf("expected geometry reference, got %T (%s)", s, s.SexpString(nil))
}

func toWing(s zygo.Sexp) (*geom.Wing, error) {
	c, err := toComponent(s)
	if err != nil {
		return nil, err
	}
	if w, ok := c.(*geom.Wing); ok {
		return w, nil
	}
	return nil, fmt.Errorf("expected wing, got %s", c.Base().Type())
}

func toFuselage(s zygo.Sexp) (*geom.Fuselage, error) {
	c, err := toComponent(s)
	if err != nil {
		return nil, err
	}
	if f, ok := c.(*geom.Fuselage); ok {
		return f, nil
	}
	return nil, fmt.Errorf("expected fuselage, got %s", c.Base().Type())
}

func toNacelle(s zygo.Sexp) (*geom.Nacelle, error) {
	c, err := toComponent(s)
	if err != nil {
		return nil, err
	}
	if n, ok := c.(*geom.Nacelle); ok {
		return n, nil
	}
	return nil, fmt.Errorf("expected nacelle, got %s", c.Base().Type())
}

// optionalParent returns the component in the first positional argument,
// or nil when there is none.
func optionalParent(pa kwArgs) (geom.Component, error) {
	if len(pa.positional) == 0 {
		return nil, nil
	}
	return toComponent(pa.positional[0])
}

// crossSection resolves (node index) to a cross section.
func crossSection(args []zygo.Sexp) (*geom.CrossSection, error) {
	c, err := toComponent(args[0])
	if err != nil {
		return nil, err
	}
	i, err := toInt(args[1])
	if err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}
	s := c.Base().Surface()
	if s == nil {
		return nil, fmt.Errorf("%s has no cross sections", c.Base().Type())
	}
	return s.At(i)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// builder collects what a script creates.
type builder struct {
	env   *geom.Env
	roots []geom.Component
}

func (b *builder) result() *Result {
	return &Result{Env: b.env, Roots: b.roots}
}

func (b *builder) created(c geom.Component, parent geom.Component) zygo.Sexp {
	if parent == nil {
		b.roots = append(b.roots, c)
	}
	return &sexpNodeRef{comp: c}
}

type builtin func(args []zygo.Sexp) (zygo.Sexp, error)

// registerBuiltins installs the vehicle DSL builtins into a zygomys
// environment. Each builtin calls straight into the geom builder API on
// b's model; kernel state changes as the script runs.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals and
// kebab-case names match the underscore names registered here.
func registerBuiltins(env *zygo.Zlisp, b *builder) {
	add := func(name string, fn builtin) {
		display := strings.ReplaceAll(name, "_", "-")
		env.AddFunction(name, func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
			out, err := fn(args)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", display, err)
			}
			return out, nil
		})
	}

	// -----------------------------------------------------------------------
	// (fuselage :length 30 :width 2.5 :height 3 :nose-ratio 1.5 :tail-ratio 3)
	// -----------------------------------------------------------------------
	add("fuselage", func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		parent, err := optionalParent(pa)
		if err != nil {
			return nil, err
		}
		f, err := geom.NewFuselage(b.env, parent)
		if err != nil {
			return nil, err
		}

		l, b0, h := f.Dimensions()
		dims := false
		for _, d := range []struct {
			key string
			dst *float64
		}{{"length", &l}, {"width", &b0}, {"height", &h}} {
			v, ok, err := pa.float(d.key)
			if err != nil {
				return nil, err
			}
			if ok {
				*d.dst, dims = v, true
			}
		}
		if dims {
			if err := f.SetLBH(l, b0, h); err != nil {
				return nil, err
			}
		}
		if v, ok, err := pa.float("nose-ratio"); err != nil {
			return nil, err
		} else if ok {
			if err := f.SetNoseRatio(v); err != nil {
				return nil, err
			}
		}
		if v, ok, err := pa.float("tail-ratio"); err != nil {
			return nil, err
		} else if ok {
			if err := f.SetTailRatio(v); err != nil {
				return nil, err
			}
		}
		return b.created(f, parent), nil
	})

	// -----------------------------------------------------------------------
	// (wing parent :area 90 :aspect-ratio 10 :taper 0.3 :sweep 32 :dihedral 5)
	// -----------------------------------------------------------------------
	add("wing", func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		parent, err := optionalParent(pa)
		if err != nil {
			return nil, err
		}
		w, err := geom.NewWing(b.env, parent)
		if err != nil {
			return nil, err
		}
		if err := planForm(w, pa); err != nil {
			return nil, err
		}
		for _, op := range []struct {
			key string
			fn  func(float64) error
		}{{"taper", w.ChangeTaper}, {"sweep", w.SetSweep}, {"dihedral", w.SetDihedral}} {
			v, ok, err := pa.float(op.key)
			if err != nil {
				return nil, err
			}
			if ok {
				if err := op.fn(v); err != nil {
					return nil, err
				}
			}
		}
		return b.created(w, parent), nil
	})

	// -----------------------------------------------------------------------
	// (nacelle parent :diameter 1.25 :chord 2 :mirror :xz)
	// -----------------------------------------------------------------------
	add("nacelle", func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		parent, err := optionalParent(pa)
		if err != nil {
			return nil, err
		}
		n, err := geom.NewNacelle(b.env, parent)
		if err != nil {
			return nil, err
		}
		if v, ok, err := pa.float("diameter"); err != nil {
			return nil, err
		} else if ok {
			if err := n.SetDiameter(v); err != nil {
				return nil, err
			}
		}
		if v, ok, err := pa.float("chord"); err != nil {
			return nil, err
		} else if ok {
			if err := n.SetChord(v); err != nil {
				return nil, err
			}
		}
		if v, ok := pa.kw["mirror"]; ok {
			plane, err := toPlanes([]zygo.Sexp{v})
			if err != nil {
				return nil, fmt.Errorf("mirror: %w", err)
			}
			if err := n.SetMirror(plane); err != nil {
				return nil, err
			}
		}
		return b.created(n, parent), nil
	})

	// (set-parm node "Name" value) returns the value the kernel kept.
	add("set_parm", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return nil, fmt.Errorf("requires a node, a parameter name and a value")
		}
		c, err := toComponent(args[0])
		if err != nil {
			return nil, err
		}
		name, err := toString(args[1])
		if err != nil {
			return nil, fmt.Errorf("name: %w", err)
		}
		v, err := toFloat64(args[2])
		if err != nil {
			return nil, fmt.Errorf("value: %w", err)
		}
		if err := c.Base().Set(name, v); err != nil {
			return nil, err
		}
		got, err := c.Base().Get(name)
		if err != nil {
			return nil, err
		}
		return number(got), nil
	})

	// (get-parm node "Name")
	add("get_parm", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("requires a node and a parameter name")
		}
		c, err := toComponent(args[0])
		if err != nil {
			return nil, err
		}
		name, err := toString(args[1])
		if err != nil {
			return nil, fmt.Errorf("name: %w", err)
		}
		v, err := c.Base().Get(name)
		if err != nil {
			return nil, err
		}
		return number(v), nil
	})

	// (set-section-parm node index "Name" value)
	add("set_section_parm", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 4 {
			return nil, fmt.Errorf("requires a node, an index, a parameter name and a value")
		}
		x, err := crossSection(args)
		if err != nil {
			return nil, err
		}
		name, err := toString(args[2])
		if err != nil {
			return nil, fmt.Errorf("name: %w", err)
		}
		v, err := toFloat64(args[3])
		if err != nil {
			return nil, fmt.Errorf("value: %w", err)
		}
		if err := x.Set(name, v); err != nil {
			return nil, err
		}
		got, err := x.Get(name)
		if err != nil {
			return nil, err
		}
		return number(got), nil
	})

	// (get-section-parm node index "Name")
	add("get_section_parm", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return nil, fmt.Errorf("requires a node, an index and a parameter name")
		}
		x, err := crossSection(args)
		if err != nil {
			return nil, err
		}
		name, err := toString(args[2])
		if err != nil {
			return nil, fmt.Errorf("name: %w", err)
		}
		v, err := x.Get(name)
		if err != nil {
			return nil, err
		}
		return number(v), nil
	})

	// (insert-section node index :ellipse)
	add("insert_section", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return nil, fmt.Errorf("requires a node, an index and a shape")
		}
		c, err := toComponent(args[0])
		if err != nil {
			return nil, err
		}
		i, err := toInt(args[1])
		if err != nil {
			return nil, fmt.Errorf("index: %w", err)
		}
		shape, err := toShape(args[2])
		if err != nil {
			return nil, err
		}
		if err := c.Base().InsertCrossSection(i, shape); err != nil {
			return nil, err
		}
		return args[0], nil
	})

	// (change-shape node index :super-ellipse)
	add("change_shape", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return nil, fmt.Errorf("requires a node, an index and a shape")
		}
		c, err := toComponent(args[0])
		if err != nil {
			return nil, err
		}
		i, err := toInt(args[1])
		if err != nil {
			return nil, fmt.Errorf("index: %w", err)
		}
		shape, err := toShape(args[2])
		if err != nil {
			return nil, err
		}
		s := c.Base().Surface()
		if s == nil {
			return nil, fmt.Errorf("%s has no cross sections", c.Base().Type())
		}
		if err := s.ChangeShape(i, shape); err != nil {
			return nil, err
		}
		return args[0], nil
	})

	// (update node)
	add("update", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("requires a node")
		}
		c, err := toComponent(args[0])
		if err != nil {
			return nil, err
		}
		if err := c.Base().Update(); err != nil {
			return nil, err
		}
		return args[0], nil
	})

	// (locate node x y z) and (rotate node x y z)
	for name, fn := range map[string]func(*geom.Node, float64, float64, float64) error{
		"locate": (*geom.Node).SetLocation,
		"rotate": (*geom.Node).SetRotation,
	} {
		add(name, func(args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 4 {
				return nil, fmt.Errorf("requires a node and three numbers")
			}
			c, err := toComponent(args[0])
			if err != nil {
				return nil, err
			}
			v, err := toFloats(args[1:], 3)
			if err != nil {
				return nil, err
			}
			if err := fn(c.Base(), v[0], v[1], v[2]); err != nil {
				return nil, err
			}
			return args[0], nil
		})
	}

	// (plan-form wing :area 90 :aspect-ratio 10)
	add("plan_form", func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return nil, fmt.Errorf("requires a wing")
		}
		w, err := toWing(pa.positional[0])
		if err != nil {
			return nil, err
		}
		if err := planForm(w, pa); err != nil {
			return nil, err
		}
		return pa.positional[0], nil
	})

	// (taper wing 0.3), (sweep wing 32), (dihedral wing 5)
	for name, fn := range map[string]func(*geom.Wing, float64) error{
		"taper":    (*geom.Wing).ChangeTaper,
		"sweep":    (*geom.Wing).SetSweep,
		"dihedral": (*geom.Wing).SetDihedral,
	} {
		add(name, scalar(toWing, fn))
	}

	// (diameter nacelle 1.25), (chord nacelle 2)
	add("diameter", scalar(toNacelle, (*geom.Nacelle).SetDiameter))
	add("chord", scalar(toNacelle, (*geom.Nacelle).SetChord))

	// (mirror nacelle :xz)
	add("mirror", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return nil, fmt.Errorf("requires a nacelle")
		}
		n, err := toNacelle(args[0])
		if err != nil {
			return nil, err
		}
		plane, err := toPlanes(args[1:])
		if err != nil {
			return nil, err
		}
		if err := n.SetMirror(plane); err != nil {
			return nil, err
		}
		return args[0], nil
	})

	// (lbh fuselage 30 2.5 3)
	add("lbh", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 4 {
			return nil, fmt.Errorf("requires a fuselage and three numbers")
		}
		f, err := toFuselage(args[0])
		if err != nil {
			return nil, err
		}
		v, err := toFloats(args[1:], 3)
		if err != nil {
			return nil, err
		}
		if err := f.SetLBH(v[0], v[1], v[2]); err != nil {
			return nil, err
		}
		return args[0], nil
	})

	// (nose-ratio fuselage 1.5), (tail-ratio fuselage 3)
	add("nose_ratio", scalar(toFuselage, (*geom.Fuselage).SetNoseRatio))
	add("tail_ratio", scalar(toFuselage, (*geom.Fuselage).SetTailRatio))
}

// scalar adapts a one-number setter on a node of type T to a builtin of
// the form (op node value). It returns the node.
func scalar[T any](conv func(zygo.Sexp) (T, error), set func(T, float64) error) builtin {
	return func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("requires a node and a number")
		}
		node, err := conv(args[0])
		if err != nil {
			return nil, err
		}
		v, err := toFloat64(args[1])
		if err != nil {
			return nil, err
		}
		if err := set(node, v); err != nil {
			return nil, err
		}
		return args[0], nil
	}
}

// planForm applies :area and :aspect-ratio. A missing value keeps the
// wing's current one; with neither present the wing is left alone.
func planForm(w *geom.Wing, pa kwArgs) error {
	area, hasArea, err := pa.float("area")
	if err != nil {
		return err
	}
	ar, hasAR, err := pa.float("aspect-ratio")
	if err != nil {
		return err
	}
	if !hasArea && !hasAR {
		return nil
	}
	if !hasArea {
		if area, err = w.Get(kernel.ParmTotalArea); err != nil {
			return err
		}
	}
	if !hasAR {
		if ar, err = w.Get(kernel.ParmTotalAR); err != nil {
			return err
		}
	}
	return w.SetPlanForm(area, ar)
}
