package geom

// NodeSnapshot is a read-only dump of a node, its cross sections and its
// descendants with current parameter values.
type NodeSnapshot struct {
	Type          string                 `json:"type" yaml:"type"`
	Handle        string                 `json:"handle" yaml:"handle"`
	Parameters    map[string]float64     `json:"parameters" yaml:"parameters"`
	CrossSections []CrossSectionSnapshot `json:"cross_sections,omitempty" yaml:"cross_sections,omitempty"`
	Children      []NodeSnapshot         `json:"children,omitempty" yaml:"children,omitempty"`
}

// CrossSectionSnapshot is one cross section in a NodeSnapshot.
type CrossSectionSnapshot struct {
	Index      int                `json:"index" yaml:"index"`
	Handle     string             `json:"handle" yaml:"handle"`
	Parameters map[string]float64 `json:"parameters" yaml:"parameters"`
}

// Snapshot reads c and its subtree from the kernel.
func Snapshot(c Component) NodeSnapshot {
	n := c.Base()
	s := NodeSnapshot{
		Type:       string(n.typ),
		Handle:     string(n.handle),
		Parameters: n.params.Values(),
	}
	if n.surface != nil {
		for i, x := range n.surface.sections {
			s.CrossSections = append(s.CrossSections, CrossSectionSnapshot{
				Index:      i,
				Handle:     string(x.handle),
				Parameters: x.params.Values(),
			})
		}
	}
	for _, child := range n.children {
		s.Children = append(s.Children, Snapshot(child))
	}
	return s
}
