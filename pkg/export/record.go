// Package export flattens mesh tables into timecoded attribute commits on a
// target scene graph, encodes subdivision crease runs, and binds materials
// to meshes and geometry subsets.
package export

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/usdexport/pkg/mesh"
	"github.com/Faultbox/usdexport/pkg/stage"
)

// record holds the flattened geometry of one mesh. It lives only for the
// duration of a single WriteMesh call.
type record struct {
	points           []mgl32.Vec3
	faceVertexCounts []int
	faceIndices      []int

	// Polygon indices grouped by material slot. Only populated when the
	// mesh has more than one slot.
	faceGroups map[int][]int

	// Parallel crease-run arrays. Each creased edge is one run of length 2;
	// adjacent creased edges are never merged into longer runs.
	creaseLengths       []int
	creaseVertexIndices []int
	creaseSharpness     []float32
}

// extractGeometry fills a record from the mesh tables.
func extractGeometry(m *mesh.Mesh) *record {
	r := &record{}
	r.extractVertices(m)
	r.extractPolygons(m)
	r.extractCreases(m)
	return r
}

func (r *record) extractVertices(m *mesh.Mesh) {
	// Vertex index equals array position; all later references rely on it.
	r.points = make([]mgl32.Vec3, len(m.Vertices))
	copy(r.points, m.Vertices)
}

func (r *record) extractPolygons(m *mesh.Mesh) {
	// Face groups exist only for material assignment; with a single slot
	// subsets are meaningless, so skip the bookkeeping.
	buildGroups := m.SlotCount() > 1
	if buildGroups {
		r.faceGroups = make(map[int][]int)
	}

	r.faceVertexCounts = make([]int, 0, len(m.Polygons))
	r.faceIndices = make([]int, 0, m.TotalLoops())

	for i, p := range m.Polygons {
		r.faceVertexCounts = append(r.faceVertexCounts, p.LoopTotal)
		for _, l := range m.Loops[p.LoopStart : p.LoopStart+p.LoopTotal] {
			r.faceIndices = append(r.faceIndices, l.Vertex)
		}

		if buildGroups {
			r.faceGroups[p.MaterialIndex] = append(r.faceGroups[p.MaterialIndex], i)
		}
	}
}

func (r *record) extractCreases(m *mesh.Mesh) {
	const factor = 1.0 / 255.0

	for _, e := range m.Edges {
		if e.Crease == 0 {
			continue
		}

		var sharpness float32
		if e.Crease == 255 {
			sharpness = stage.SharpnessInfinite
		} else {
			sharpness = float32(e.Crease) * factor
		}

		r.creaseVertexIndices = append(r.creaseVertexIndices, e.V1, e.V2)
		r.creaseLengths = append(r.creaseLengths, 2)
		r.creaseSharpness = append(r.creaseSharpness, sharpness)
	}
}
