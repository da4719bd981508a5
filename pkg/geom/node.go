package geom

import (
	"fmt"

	"github.com/chazu/vspwrap/pkg/kernel"
)

// Component is any node in the geometry tree. Specializations embed *Node
// and are stored in their parent's children as themselves.
type Component interface {
	Base() *Node
}

// compile-time interface checks
var (
	_ Component = (*Node)(nil)
	_ Component = (*Wing)(nil)
	_ Component = (*Nacelle)(nil)
	_ Component = (*Fuselage)(nil)
)

// Node is one geometry instance in the kernel.
type Node struct {
	env      *Env
	handle   kernel.Handle
	typ      kernel.GeomType
	parent   *Node // lookup only; the parent owns this node through children
	children []Component
	params   *Parameters
	surface  *CrossSectionSurface // nil when the kernel reports none

	// reshape runs at the end of Update for specializations that derive
	// kernel state from their own fields.
	reshape func() error
	// fixed refuses InsertCrossSection.
	fixed bool
}

// addGeometry creates the kernel geometry without registering or updating
// the node.
func addGeometry(env *Env, typ kernel.GeomType, parent Component) (*Node, error) {
	var up *Node
	var parentHandle kernel.Handle
	if parent != nil {
		up = parent.Base()
		parentHandle = up.handle
	}
	h, err := env.Kernel.AddGeometry(typ, parentHandle)
	if err != nil {
		return nil, fmt.Errorf("geom: add %s: %w", typ, err)
	}
	env.Log.V(1).Info("geometry added", "type", typ, "handle", h)
	return &Node{env: env, handle: h, typ: typ, parent: up, params: &Parameters{owner: h}}, nil
}

// attach registers c with its parent and runs the first Update. A failed
// Update unregisters c again.
func attach(c Component) error {
	n := c.Base()
	if n.parent != nil {
		if _, err := n.parent.AddChild(c); err != nil {
			return err
		}
	}
	if err := n.Update(); err != nil {
		detach(c)
		return err
	}
	return nil
}

// detach removes c from its parent's children.
func detach(c Component) {
	n := c.Base()
	if n.parent == nil {
		return
	}
	kids := n.parent.children
	for i, existing := range kids {
		if existing.Base() == n {
			n.parent.children = append(kids[:i:i], kids[i+1:]...)
			return
		}
	}
}

// NewGeometry creates a plain geometry of typ under parent, which may be
// nil for a root.
func NewGeometry(env *Env, typ kernel.GeomType, parent Component) (*Node, error) {
	n, err := addGeometry(env, typ, parent)
	if err != nil {
		return nil, err
	}
	if err := attach(n); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Node) Base() *Node { return n }
func (n *Node) Env() *Env { return n.env }
func (n *Node) Handle() kernel.Handle { return n.handle }
func (n *Node) Type() kernel.GeomType { return n.typ }
func (n *Node) Parent() *Node { return n.parent }
func (n *Node) Params() *Parameters { return n.params }

// Surface returns the cross section surface, or nil if the geometry has
// none.
func (n *Node) Surface() *CrossSectionSurface { return n.surface }

// Children returns the owned children in insertion order.
func (n *Node) Children() []Component {
	return append([]Component(nil), n.children...)
}

// Update rediscovers the parameter table and the cross section surface
// from the kernel, then reapplies any derived shaping.
func (n *Node) Update() error {
	k := n.env.Kernel
	n.params = Discover(k, n.handle)
	n.surface = nil
	if sh := k.CrossSectionSurface(n.handle); !sh.IsZero() {
		surf, err := discoverSurface(k, sh)
		n.surface = surf
		if err != nil {
			return fmt.Errorf("geom: update %s: %w", n.handle, err)
		}
	}
	if n.reshape != nil {
		if err := n.reshape(); err != nil {
			return fmt.Errorf("geom: update %s: %w", n.handle, err)
		}
	}
	return nil
}

// AddChild appends c to the owned children and returns it. Adding the
// same child twice has no effect. A child without a parent link is linked
// to n; a child owned by another node is refused with ErrAlreadyOwned.
func (n *Node) AddChild(c Component) (Component, error) {
	cn := c.Base()
	if cn.parent != nil && cn.parent != n {
		return nil, fmt.Errorf("%w: %s under %s", ErrAlreadyOwned, cn.handle, cn.parent.handle)
	}
	for _, existing := range n.children {
		if existing.Base() == cn {
			return c, nil
		}
	}
	cn.parent = n
	n.children = append(n.children, c)
	return c, nil
}

// AddChildGeometry creates a plain child geometry of typ.
func (n *Node) AddChildGeometry(typ kernel.GeomType) (*Node, error) {
	return NewGeometry(n.env, typ, n)
}

// AddWing creates a wing child.
func (n *Node) AddWing() (*Wing, error) {
	return NewWing(n.env, n)
}

// AddNacelle creates a nacelle child.
func (n *Node) AddNacelle() (*Nacelle, error) {
	return NewNacelle(n.env, n)
}

// InsertCrossSection inserts a section of shape at index and resyncs the
// node. Geometries without a surface ignore the call.
func (n *Node) InsertCrossSection(index int, shape kernel.ShapeKind) error {
	if n.fixed {
		return fmt.Errorf("%w: %s", ErrFixedTopology, n.typ)
	}
	if n.surface == nil {
		return nil
	}
	if err := n.env.Kernel.InsertCrossSection(n.handle, index, shape); err != nil {
		return fmt.Errorf("geom: insert section %d: %w", index, err)
	}
	return n.Update()
}

// Get reads a parameter by name.
func (n *Node) Get(name string) (float64, error) { return n.params.Get(name) }

// Set writes a parameter by name.
func (n *Node) Set(name string, v float64) error { return n.params.Set(name, v) }

// SetLocation writes the location relative to the parent.
func (n *Node) SetLocation(x, y, z float64) error {
	var w writes
	w.set(n, kernel.ParmXRelLocation, x)
	w.set(n, kernel.ParmYRelLocation, y)
	w.set(n, kernel.ParmZRelLocation, z)
	return w.err
}

// SetRotation writes the rotation in degrees relative to the parent.
func (n *Node) SetRotation(x, y, z float64) error {
	var w writes
	w.set(n, kernel.ParmXRelRotation, x)
	w.set(n, kernel.ParmYRelRotation, y)
	w.set(n, kernel.ParmZRelRotation, z)
	return w.err
}

type setter interface {
	Set(name string, v float64) error
}

// writes applies parameter writes in order and keeps the first error.
// Writes after a failure are skipped.
type writes struct {
	err error
}

func (w *writes) set(s setter, name string, v float64) {
	if w.err == nil {
		w.err = s.Set(name, v)
	}
}

// Walk calls fn for c and every descendant, depth first in child order.
func Walk(c Component, fn func(Component) error) error {
	if err := fn(c); err != nil {
		return err
	}
	for _, child := range c.Base().children {
		if err := Walk(child, fn); err != nil {
			return err
		}
	}
	return nil
}
