package geom

import (
	"fmt"

	"github.com/chazu/vspwrap/pkg/kernel"
)

// fakeKernel is a scripted kernel: tests declare parameters and sections
// explicitly and inspect the calls made against it.
type fakeKernel struct {
	seq      int
	owned    map[kernel.Handle][]kernel.ParmID
	names    map[kernel.ParmID]string
	values   map[kernel.ParmID]float64
	invalid  map[kernel.ParmID]bool
	surfaces map[kernel.Handle]kernel.Handle
	sections map[kernel.Handle][]kernel.Handle

	probes    int      // CrossSection calls
	writes    []string // "name=value" in call order
	shapes    []string // ChangeCrossSectionShape calls
	inserted  []int
	addErr    error
	onAdd     func(h kernel.Handle, typ kernel.GeomType)
	borShapes []kernel.ShapeKind
}

var _ kernel.Kernel = (*fakeKernel)(nil)

func newFakeKernel() *fakeKernel {
	return &fakeKernel{
		owned:    make(map[kernel.Handle][]kernel.ParmID),
		names:    make(map[kernel.ParmID]string),
		values:   make(map[kernel.ParmID]float64),
		invalid:  make(map[kernel.ParmID]bool),
		surfaces: make(map[kernel.Handle]kernel.Handle),
		sections: make(map[kernel.Handle][]kernel.Handle),
	}
}

func (f *fakeKernel) next(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s%d", prefix, f.seq)
}

// addParm attaches a parameter to owner and returns its id.
func (f *fakeKernel) addParm(owner kernel.Handle, name string, v float64) kernel.ParmID {
	id := kernel.ParmID(f.next("p"))
	f.owned[owner] = append(f.owned[owner], id)
	f.names[id] = name
	f.values[id] = v
	return id
}

// addSurface gives geom a surface with n sections.
func (f *fakeKernel) addSurface(geom kernel.Handle, n int) []kernel.Handle {
	s := kernel.Handle(f.next("s"))
	f.surfaces[geom] = s
	for i := 0; i < n; i++ {
		f.sections[s] = append(f.sections[s], kernel.Handle(f.next("x")))
	}
	return f.sections[s]
}

func (f *fakeKernel) AddGeometry(typ kernel.GeomType, parent kernel.Handle) (kernel.Handle, error) {
	if f.addErr != nil {
		return "", f.addErr
	}
	h := kernel.Handle(f.next("g"))
	if f.onAdd != nil {
		f.onAdd(h, typ)
	}
	return h, nil
}

func (f *fakeKernel) ParameterIDs(owner kernel.Handle) []kernel.ParmID {
	return append([]kernel.ParmID(nil), f.owned[owner]...)
}

func (f *fakeKernel) ValidParameter(id kernel.ParmID) bool {
	_, ok := f.names[id]
	return ok && !f.invalid[id]
}

func (f *fakeKernel) ParameterName(id kernel.ParmID) string { return f.names[id] }
func (f *fakeKernel) ParameterValue(id kernel.ParmID) float64 { return f.values[id] }

func (f *fakeKernel) SetParameterValue(id kernel.ParmID, v float64) error {
	if _, ok := f.names[id]; !ok {
		return fmt.Errorf("fake: no parameter %s", id)
	}
	f.values[id] = v
	f.writes = append(f.writes, fmt.Sprintf("%s=%g", f.names[id], v))
	return nil
}

func (f *fakeKernel) CrossSectionSurface(geom kernel.Handle) kernel.Handle {
	return f.surfaces[geom]
}

func (f *fakeKernel) CrossSection(surface kernel.Handle, index int) kernel.Handle {
	f.probes++
	secs := f.sections[surface]
	if index < 0 || index >= len(secs) {
		return ""
	}
	return secs[index]
}

func (f *fakeKernel) ChangeCrossSectionShape(surface kernel.Handle, index int, shape kernel.ShapeKind) error {
	f.shapes = append(f.shapes, fmt.Sprintf("%d:%v", index, shape))
	return nil
}

func (f *fakeKernel) InsertCrossSection(geom kernel.Handle, index int, shape kernel.ShapeKind) error {
	s := f.surfaces[geom]
	secs := f.sections[s]
	h := kernel.Handle(f.next("x"))
	secs = append(secs[:index], append([]kernel.Handle{h}, secs[index:]...)...)
	f.sections[s] = secs
	f.inserted = append(f.inserted, index)
	return nil
}

func (f *fakeKernel) ChangeBodyOfRevolutionShape(geom kernel.Handle, shape kernel.ShapeKind) error {
	f.borShapes = append(f.borShapes, shape)
	return nil
}

func (f *fakeKernel) ExportFile(path string, opts kernel.ExportOptions, format kernel.ExportFormat) error {
	return nil
}
