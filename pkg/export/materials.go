package export

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/usdexport/internal/logger"
	"github.com/Faultbox/usdexport/pkg/mesh"
	"github.com/Faultbox/usdexport/pkg/stage"
)

// assignMaterials binds materials to the mesh prim and emits geometry
// subsets from the face groups.
//
// The first slot holding a valid material is always bound to the whole
// mesh: common viewers do not resolve subset bindings, so the whole-mesh
// bind guarantees a sane fallback appearance. Double-sidedness derives from
// that material's backface-culling flag. Subsets are written only when a
// whole-mesh material was bound and at least two face groups exist.
func (w *Writer) assignMaterials(m *mesh.Mesh, prim stage.GeomMesh, faceGroups map[int][]int) error {
	if m.SlotCount() == 0 {
		return nil
	}

	meshBound := false
	for slot := 0; slot < m.SlotCount(); slot++ {
		material := m.SlotMaterial(slot)
		if material == nil {
			continue
		}

		id, err := w.session.registry.EnsureMaterial(material)
		if err != nil {
			return fmt.Errorf("registering material %q: %w", material.Name, err)
		}
		if err := prim.BindMaterial(id); err != nil {
			return fmt.Errorf("binding material %q to %s: %w", material.Name, prim.Path(), err)
		}

		// The target supports neither per-material nor per-face-group
		// double-sidedness, so the first non-empty slot decides for the
		// whole mesh.
		if err := prim.SetDoubleSided(!material.BackfaceCulling); err != nil {
			return fmt.Errorf("setting double-sided on %s: %w", prim.Path(), err)
		}

		meshBound = true
		break
	}

	if !meshBound {
		// The source representation defaults to double-sided but the target
		// to single-sided, so the flag must be written explicitly.
		if err := prim.SetDoubleSided(true); err != nil {
			return fmt.Errorf("setting double-sided on %s: %w", prim.Path(), err)
		}
	}

	if !meshBound || len(faceGroups) < 2 {
		// Either all material slots were empty or only one material is in
		// effective use; the whole-mesh bind already covers it.
		return nil
	}

	slots := make([]int, 0, len(faceGroups))
	for slot := range faceGroups {
		slots = append(slots, slot)
	}
	sort.Ints(slots)

	for _, slot := range slots {
		material := m.SlotMaterial(slot)
		if material == nil {
			// The slot was emptied between extraction and binding; skip it.
			logger.Debug("skipping subset for empty material slot",
				zap.Int("slot", slot),
				zap.String("prim", prim.Path()))
			continue
		}

		id, err := w.session.registry.EnsureMaterial(material)
		if err != nil {
			return fmt.Errorf("registering material %q: %w", material.Name, err)
		}

		subset, err := prim.CreateMaterialBindSubset(id.Name(), faceGroups[slot])
		if err != nil {
			return fmt.Errorf("creating subset %q on %s: %w", id.Name(), prim.Path(), err)
		}
		if err := subset.BindMaterial(id); err != nil {
			return fmt.Errorf("binding material %q to subset %q: %w", material.Name, id.Name(), err)
		}
	}

	return nil
}
