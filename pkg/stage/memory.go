package stage

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/usdexport/pkg/mesh"
)

// Stage is an in-memory scene graph. It records every commit keyed by
// timecode so callers can inspect what an export produced.
type Stage struct {
	prims map[string]*MeshPrim
	order []string
}

// NewStage returns an empty in-memory stage.
func NewStage() *Stage {
	return &Stage{prims: make(map[string]*MeshPrim)}
}

// DefineMesh defines (or returns the existing) mesh prim at the given path.
func (s *Stage) DefineMesh(path string) *MeshPrim {
	if p, ok := s.prims[path]; ok {
		return p
	}
	p := &MeshPrim{
		path:            path,
		points:          make(map[TimeCode][]mgl32.Vec3),
		counts:          make(map[TimeCode][]int),
		indices:         make(map[TimeCode][]int),
		creaseLengths:   make(map[TimeCode][]int),
		creaseIndices:   make(map[TimeCode][]int),
		creaseSharpness: make(map[TimeCode][]float32),
	}
	s.prims[path] = p
	s.order = append(s.order, path)
	return p
}

// Meshes returns all defined mesh prims in definition order.
func (s *Stage) Meshes() []*MeshPrim {
	out := make([]*MeshPrim, 0, len(s.order))
	for _, path := range s.order {
		out = append(out, s.prims[path])
	}
	return out
}

// MeshPrim is the in-memory GeomMesh implementation.
type MeshPrim struct {
	path string

	points          map[TimeCode][]mgl32.Vec3
	counts          map[TimeCode][]int
	indices         map[TimeCode][]int
	creaseLengths   map[TimeCode][]int
	creaseIndices   map[TimeCode][]int
	creaseSharpness map[TimeCode][]float32

	doubleSided *bool
	bound       []Material
	subsets     []*MeshSubset
}

var _ GeomMesh = (*MeshPrim)(nil)

// Path returns the prim path.
func (p *MeshPrim) Path() string { return p.path }

// SetPoints commits vertex positions at tc.
func (p *MeshPrim) SetPoints(points []mgl32.Vec3, tc TimeCode) error {
	p.points[tc] = append([]mgl32.Vec3(nil), points...)
	return nil
}

// SetFaceVertexCounts commits per-polygon corner counts at tc.
func (p *MeshPrim) SetFaceVertexCounts(counts []int, tc TimeCode) error {
	p.counts[tc] = append([]int(nil), counts...)
	return nil
}

// SetFaceVertexIndices commits the flattened vertex index array at tc.
func (p *MeshPrim) SetFaceVertexIndices(indices []int, tc TimeCode) error {
	p.indices[tc] = append([]int(nil), indices...)
	return nil
}

// SetCreases commits the crease-run arrays at tc.
func (p *MeshPrim) SetCreases(lengths, indices []int, sharpness []float32, tc TimeCode) error {
	p.creaseLengths[tc] = append([]int(nil), lengths...)
	p.creaseIndices[tc] = append([]int(nil), indices...)
	p.creaseSharpness[tc] = append([]float32(nil), sharpness...)
	return nil
}

// SetDoubleSided sets the unvarying double-sided flag.
func (p *MeshPrim) SetDoubleSided(doubleSided bool) error {
	p.doubleSided = &doubleSided
	return nil
}

// BindMaterial binds a material to the whole mesh.
func (p *MeshPrim) BindMaterial(mat Material) error {
	p.bound = append(p.bound, mat)
	return nil
}

// CreateMaterialBindSubset creates a named subset over the given polygons.
func (p *MeshPrim) CreateMaterialBindSubset(name string, faceIndices []int) (GeomSubset, error) {
	for _, sub := range p.subsets {
		if sub.name == name {
			return nil, fmt.Errorf("subset %q already exists on %s", name, p.path)
		}
	}
	sub := &MeshSubset{
		name:    name,
		indices: append([]int(nil), faceIndices...),
	}
	p.subsets = append(p.subsets, sub)
	return sub, nil
}

// PointsAt returns the points committed at tc, or nil.
func (p *MeshPrim) PointsAt(tc TimeCode) []mgl32.Vec3 { return p.points[tc] }

// FaceVertexCountsAt returns the counts committed at tc, or nil.
func (p *MeshPrim) FaceVertexCountsAt(tc TimeCode) []int { return p.counts[tc] }

// FaceVertexIndicesAt returns the indices committed at tc, or nil.
func (p *MeshPrim) FaceVertexIndicesAt(tc TimeCode) []int { return p.indices[tc] }

// HasCreasesAt reports whether crease arrays were committed at tc.
func (p *MeshPrim) HasCreasesAt(tc TimeCode) bool {
	_, ok := p.creaseLengths[tc]
	return ok
}

// CreasesAt returns the crease-run arrays committed at tc.
func (p *MeshPrim) CreasesAt(tc TimeCode) (lengths, indices []int, sharpness []float32) {
	return p.creaseLengths[tc], p.creaseIndices[tc], p.creaseSharpness[tc]
}

// NumPointSamples returns the number of distinct timecodes points were
// committed at.
func (p *MeshPrim) NumPointSamples() int { return len(p.points) }

// DoubleSided returns the flag and whether it was ever set.
func (p *MeshPrim) DoubleSided() (value, set bool) {
	if p.doubleSided == nil {
		return false, false
	}
	return *p.doubleSided, true
}

// BoundMaterials returns all whole-mesh binds in bind order.
func (p *MeshPrim) BoundMaterials() []Material { return p.bound }

// Subsets returns all subsets in creation order.
func (p *MeshPrim) Subsets() []*MeshSubset { return p.subsets }

// MeshSubset is the in-memory GeomSubset implementation.
type MeshSubset struct {
	name    string
	indices []int
	bound   []Material
}

var _ GeomSubset = (*MeshSubset)(nil)

// Name returns the subset name.
func (s *MeshSubset) Name() string { return s.name }

// Indices returns the subset's polygon indices.
func (s *MeshSubset) Indices() []int { return s.indices }

// BindMaterial binds a material to the subset.
func (s *MeshSubset) BindMaterial(mat Material) error {
	s.bound = append(s.bound, mat)
	return nil
}

// BoundMaterials returns all subset binds in bind order.
func (s *MeshSubset) BoundMaterials() []Material { return s.bound }

// Registry is an in-memory MaterialRegistry that scopes material prims
// under a fixed path.
type Registry struct {
	scope  string
	byName map[string]Material
	order  []string
}

var _ MaterialRegistry = (*Registry)(nil)

// NewRegistry returns a registry scoped under /Materials.
func NewRegistry() *Registry {
	return &Registry{
		scope:  "/Materials",
		byName: make(map[string]Material),
	}
}

// EnsureMaterial resolves a material handle to a stable identity, creating
// it on first use.
func (r *Registry) EnsureMaterial(m *mesh.Material) (Material, error) {
	if m == nil {
		return Material{}, ErrNilMaterial
	}
	name := SanitizeName(m.Name)
	if id, ok := r.byName[name]; ok {
		return id, nil
	}
	id := Material{Path: r.scope + "/" + name}
	r.byName[name] = id
	r.order = append(r.order, name)
	return id, nil
}

// Materials returns all registered identities in registration order.
func (r *Registry) Materials() []Material {
	out := make([]Material, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// SanitizeName converts an arbitrary material or object name into a valid
// prim name: ASCII letters, digits and underscores, not starting with a
// digit.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if b.Len() == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}
