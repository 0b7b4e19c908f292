// Package mesh defines the polygonal mesh tables consumed by the exporter:
// vertices, face-corner loops, polygons, edges with quantized crease values,
// and the material slot table.
package mesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh validation errors.
var (
	ErrLoopVertexRange   = errors.New("loop references vertex out of range")
	ErrPolygonLoopRange  = errors.New("polygon references loops out of range")
	ErrEdgeVertexRange   = errors.New("edge references vertex out of range")
	ErrMaterialSlotRange = errors.New("polygon references material slot out of range")
)

// Loop is one face corner, referencing a single vertex. Loops encode the
// corner order of a polygon, distinct from raw vertex adjacency.
type Loop struct {
	Vertex int `yaml:"vertex"` // Index into Mesh.Vertices
}

// Polygon is an ordered run of loops plus the material slot it uses.
type Polygon struct {
	LoopStart     int `yaml:"loop_start"`     // Index of the first loop
	LoopTotal     int `yaml:"loop_total"`     // Number of corners
	MaterialIndex int `yaml:"material_index"` // Index into Mesh.Materials
}

// Edge connects two vertices and carries a quantized subdivision crease:
// 0 means no crease, 255 means infinitely sharp.
type Edge struct {
	V1     int   `yaml:"v1"`
	V2     int   `yaml:"v2"`
	Crease uint8 `yaml:"crease"`
}

// Material is a material handle as seen by the exporter. Only the identity
// and the backface-culling flag matter here; shading parameters live in the
// target scene.
type Material struct {
	Name            string `yaml:"name"`
	BackfaceCulling bool   `yaml:"backface_culling"`
}

// Mesh is an evaluated mesh snapshot. Vertex index equals array position;
// every later reference (loops, edges, crease runs) is built on that.
type Mesh struct {
	Name      string       `yaml:"name"`
	Vertices  []mgl32.Vec3 `yaml:"vertices"`
	Loops     []Loop       `yaml:"loops"`
	Polygons  []Polygon    `yaml:"polygons"`
	Edges     []Edge       `yaml:"edges"`
	Materials []*Material  `yaml:"materials"` // Slot table; entries may be nil
}

// SlotCount returns the number of material slots, including empty ones.
func (m *Mesh) SlotCount() int {
	return len(m.Materials)
}

// SlotMaterial returns the material in the given slot, or nil when the slot
// is empty or out of range.
func (m *Mesh) SlotMaterial(slot int) *Material {
	if slot < 0 || slot >= len(m.Materials) {
		return nil
	}
	return m.Materials[slot]
}

// TotalLoops returns the summed corner count over all polygons.
func (m *Mesh) TotalLoops() int {
	total := 0
	for _, p := range m.Polygons {
		total += p.LoopTotal
	}
	return total
}

// Validate checks all cross-table index references. A mesh with zero
// vertices and polygons is valid.
func (m *Mesh) Validate() error {
	for i, l := range m.Loops {
		if l.Vertex < 0 || l.Vertex >= len(m.Vertices) {
			return fmt.Errorf("loop %d: %w", i, ErrLoopVertexRange)
		}
	}
	for i, p := range m.Polygons {
		if p.LoopStart < 0 || p.LoopTotal < 0 || p.LoopStart+p.LoopTotal > len(m.Loops) {
			return fmt.Errorf("polygon %d: %w", i, ErrPolygonLoopRange)
		}
		if len(m.Materials) > 0 && (p.MaterialIndex < 0 || p.MaterialIndex >= len(m.Materials)) {
			return fmt.Errorf("polygon %d: %w", i, ErrMaterialSlotRange)
		}
	}
	for i, e := range m.Edges {
		if e.V1 < 0 || e.V1 >= len(m.Vertices) || e.V2 < 0 || e.V2 >= len(m.Vertices) {
			return fmt.Errorf("edge %d: %w", i, ErrEdgeVertexRange)
		}
	}
	return nil
}
