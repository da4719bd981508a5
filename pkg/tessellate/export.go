package tessellate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/chazu/vspwrap/pkg/kernel"
)

// ErrEmptyModel is returned when there is nothing to export.
var ErrEmptyModel = errors.New("tessellate: model has no bodies")

// Export writes the body trees to path in the requested format.
func Export(path string, roots []*Body, m kernel.Modeler, opts kernel.ExportOptions, format kernel.ExportFormat) error {
	switch format {
	case kernel.ExportSTL:
		return exportSTL(path, roots, m, opts)
	case kernel.ExportMeshJSON:
		return exportJSON(path, roots, m, opts)
	default:
		return fmt.Errorf("tessellate: unsupported export format %v", format)
	}
}

func exportSTL(path string, roots []*Body, m kernel.Modeler, opts kernel.ExportOptions) error {
	parts, err := Solids(roots, m)
	if err != nil {
		return err
	}
	if len(parts) == 0 {
		return ErrEmptyModel
	}
	whole := parts[0].Solid
	for _, p := range parts[1:] {
		whole = m.Union(whole, p.Solid)
	}
	return m.WriteSTL(path, whole, opts.Resolution)
}

func exportJSON(path string, roots []*Body, m kernel.Modeler, opts kernel.ExportOptions) error {
	meshes, err := Tessellate(roots, m, opts.Resolution)
	if err != nil {
		return err
	}
	if len(meshes) == 0 {
		return ErrEmptyModel
	}
	data, err := json.Marshal(meshes)
	if err != nil {
		return fmt.Errorf("tessellate: encode meshes: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("tessellate: write %s: %w", path, err)
	}
	return nil
}
