package geom

import (
	"sort"

	"github.com/chazu/vspwrap/pkg/kernel"
)

// Parameter is one entry of a parameter table: a name bound to a kernel
// parameter id.
type Parameter struct {
	Name string
	ID   kernel.ParmID
	k    kernel.Kernel
}

// Read returns the parameter's current value from the kernel.
func (p Parameter) Read() float64 {
	return p.k.ParameterValue(p.ID)
}

// Write stores v in the kernel. The kernel has recomputed the model when
// Write returns.
func (p Parameter) Write(v float64) error {
	return p.k.SetParameterValue(p.ID, v)
}

// Parameters is the accessor table of one kernel owner (a geometry or a
// cross section), keyed by parameter name.
type Parameters struct {
	owner  kernel.Handle
	byName map[string]Parameter
}

// Discover builds the accessor table for owner from the kernel's valid
// parameters. An unknown or parameter-less owner yields an empty table.
// When two valid parameters share a name the later one in kernel order
// wins.
func Discover(k kernel.Kernel, owner kernel.Handle) *Parameters {
	ps := &Parameters{owner: owner, byName: make(map[string]Parameter)}
	if owner.IsZero() {
		return ps
	}
	for _, id := range k.ParameterIDs(owner) {
		if !k.ValidParameter(id) {
			continue
		}
		name := k.ParameterName(id)
		ps.byName[name] = Parameter{Name: name, ID: id, k: k}
	}
	return ps
}

// Owner returns the handle the table was discovered from.
func (ps *Parameters) Owner() kernel.Handle { return ps.owner }

// Lookup returns the accessor for name.
func (ps *Parameters) Lookup(name string) (Parameter, bool) {
	p, ok := ps.byName[name]
	return p, ok
}

func (ps *Parameters) lookup(name string) (Parameter, error) {
	p, ok := ps.byName[name]
	if !ok {
		return Parameter{}, &ParameterError{Owner: ps.owner, Name: name}
	}
	return p, nil
}

// Get reads name from the kernel.
func (ps *Parameters) Get(name string) (float64, error) {
	p, err := ps.lookup(name)
	if err != nil {
		return 0, err
	}
	return p.Read(), nil
}

// Set writes name through to the kernel.
func (ps *Parameters) Set(name string, v float64) error {
	p, err := ps.lookup(name)
	if err != nil {
		return err
	}
	return p.Write(v)
}

// Has reports whether name is in the table.
func (ps *Parameters) Has(name string) bool {
	_, ok := ps.byName[name]
	return ok
}

// Len returns the number of parameters.
func (ps *Parameters) Len() int { return len(ps.byName) }

// Names returns the parameter names in sorted order.
func (ps *Parameters) Names() []string {
	names := make([]string, 0, len(ps.byName))
	for name := range ps.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IDs returns the name to id mapping.
func (ps *Parameters) IDs() map[string]kernel.ParmID {
	out := make(map[string]kernel.ParmID, len(ps.byName))
	for name, p := range ps.byName {
		out[name] = p.ID
	}
	return out
}

// Values reads every parameter from the kernel.
func (ps *Parameters) Values() map[string]float64 {
	out := make(map[string]float64, len(ps.byName))
	for name, p := range ps.byName {
		out[name] = p.Read()
	}
	return out
}
