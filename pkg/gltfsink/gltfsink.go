// Package gltfsink materializes exported geometry into a glTF document.
//
// It implements the stage.GeomMesh and stage.MaterialRegistry contracts on
// top of github.com/qmuntal/gltf. glTF geometry is static and
// triangle-based, so the sink keeps only the first time sample, dropping
// later ones, fan-triangulates polygons, and ignores subdivision creases
// (glTF has no equivalent). Subset binds become one primitive per material.
package gltfsink

import (
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/usdexport/internal/logger"
	"github.com/Faultbox/usdexport/pkg/mesh"
	"github.com/Faultbox/usdexport/pkg/stage"
)

// ErrAlreadyEncoded is returned when geometry is committed after Encode.
var ErrAlreadyEncoded = errors.New("glTF document already encoded")

// Stage accumulates mesh prims and materials and encodes them as glTF.
type Stage struct {
	doc       *gltf.Document
	materials map[string]int // sanitized material name -> doc.Materials index
	prims     []*Prim
	built     bool
}

var _ stage.MaterialRegistry = (*Stage)(nil)

// NewStage returns an empty glTF stage.
func NewStage() *Stage {
	return &Stage{
		doc:       gltf.NewDocument(),
		materials: make(map[string]int),
	}
}

// EnsureMaterial registers a material handle as a glTF material. The glTF
// double-sided flag is derived from the handle's backface-culling flag.
func (s *Stage) EnsureMaterial(m *mesh.Material) (stage.Material, error) {
	if m == nil {
		return stage.Material{}, stage.ErrNilMaterial
	}

	name := stage.SanitizeName(m.Name)
	if _, ok := s.materials[name]; !ok {
		s.doc.Materials = append(s.doc.Materials, &gltf.Material{
			Name:                 name,
			DoubleSided:          !m.BackfaceCulling,
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{},
		})
		s.materials[name] = len(s.doc.Materials) - 1
	}
	return stage.Material{Path: "/Materials/" + name}, nil
}

// DefineMesh defines a mesh prim at the given path.
func (s *Stage) DefineMesh(primPath string) *Prim {
	p := &Prim{sink: s, path: primPath}
	s.prims = append(s.prims, p)
	return p
}

// Document builds and returns the glTF document.
func (s *Stage) Document() (*gltf.Document, error) {
	if err := s.build(); err != nil {
		return nil, err
	}
	return s.doc, nil
}

// Encode builds the document and writes it to w, as GLB when binary is set.
func (s *Stage) Encode(w io.Writer, binary bool) error {
	if err := s.build(); err != nil {
		return err
	}
	enc := gltf.NewEncoder(w)
	enc.AsBinary = binary
	if err := enc.Encode(s.doc); err != nil {
		return fmt.Errorf("encoding glTF: %w", err)
	}
	return nil
}

func (s *Stage) build() error {
	if s.built {
		return nil
	}
	s.built = true

	for _, p := range s.prims {
		if err := p.build(); err != nil {
			return fmt.Errorf("building %s: %w", p.path, err)
		}
	}
	return nil
}

func (s *Stage) materialIndex(id stage.Material) (int, bool) {
	idx, ok := s.materials[id.Name()]
	return idx, ok
}

// defaultMaterial returns a shared untextured material carrying the given
// double-sided flag, for meshes that were never bound to a material.
func (s *Stage) defaultMaterial(doubleSided bool) int {
	name := "default_single_sided"
	if doubleSided {
		name = "default_double_sided"
	}
	if idx, ok := s.materials[name]; ok {
		return idx
	}
	s.doc.Materials = append(s.doc.Materials, &gltf.Material{
		Name:                 name,
		DoubleSided:          doubleSided,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{},
	})
	idx := len(s.doc.Materials) - 1
	s.materials[name] = idx
	return idx
}

// Prim is the glTF GeomMesh implementation.
type Prim struct {
	sink *Stage
	path string

	points  []mgl32.Vec3
	counts  []int
	indices []int

	doubleSided *bool
	material    *stage.Material
	subsets     []*Subset
}

var _ stage.GeomMesh = (*Prim)(nil)

// Path returns the prim path.
func (p *Prim) Path() string { return p.path }

// SetPoints commits vertex positions. Samples after the first are dropped.
func (p *Prim) SetPoints(points []mgl32.Vec3, tc stage.TimeCode) error {
	if p.sink.built {
		return ErrAlreadyEncoded
	}
	if p.points != nil {
		p.dropSample("points", tc)
		return nil
	}
	p.points = append([]mgl32.Vec3(nil), points...)
	return nil
}

// SetFaceVertexCounts commits per-polygon corner counts.
func (p *Prim) SetFaceVertexCounts(counts []int, tc stage.TimeCode) error {
	if p.sink.built {
		return ErrAlreadyEncoded
	}
	if p.counts != nil {
		p.dropSample("face vertex counts", tc)
		return nil
	}
	p.counts = append([]int(nil), counts...)
	return nil
}

// SetFaceVertexIndices commits the flattened vertex index array.
func (p *Prim) SetFaceVertexIndices(indices []int, tc stage.TimeCode) error {
	if p.sink.built {
		return ErrAlreadyEncoded
	}
	if p.indices != nil {
		p.dropSample("face vertex indices", tc)
		return nil
	}
	p.indices = append([]int(nil), indices...)
	return nil
}

// SetCreases drops the crease arrays; glTF has no subdivision crease
// support.
func (p *Prim) SetCreases(lengths, indices []int, sharpness []float32, tc stage.TimeCode) error {
	logger.Debug("glTF has no crease support, dropping crease runs",
		zap.String("prim", p.path),
		zap.Int("runs", len(lengths)))
	return nil
}

// SetDoubleSided records the double-sided flag. It only affects the shared
// default material; bound materials already carry the flag from their
// backface-culling state.
func (p *Prim) SetDoubleSided(doubleSided bool) error {
	p.doubleSided = &doubleSided
	return nil
}

// BindMaterial binds a material to the whole mesh.
func (p *Prim) BindMaterial(mat stage.Material) error {
	p.material = &mat
	return nil
}

// CreateMaterialBindSubset records a polygon grouping that becomes its own
// glTF primitive.
func (p *Prim) CreateMaterialBindSubset(name string, faceIndices []int) (stage.GeomSubset, error) {
	for _, sub := range p.subsets {
		if sub.name == name {
			return nil, fmt.Errorf("subset %q already exists on %s", name, p.path)
		}
	}
	sub := &Subset{name: name, faces: append([]int(nil), faceIndices...)}
	p.subsets = append(p.subsets, sub)
	return sub, nil
}

func (p *Prim) dropSample(attr string, tc stage.TimeCode) {
	logger.Debug("glTF geometry is static, dropping extra time sample",
		zap.String("prim", p.path),
		zap.String("attr", attr),
		zap.String("timecode", tc.String()))
}

// build materializes the prim into a glTF mesh and scene node.
func (p *Prim) build() error {
	tris := p.triangulate()
	if len(tris) == 0 {
		logger.Debug("no triangles, skipping glTF node", zap.String("prim", p.path))
		return nil
	}

	positions := make([][3]float32, len(p.points))
	for i, pt := range p.points {
		positions[i] = pt
	}
	posAcc := modeler.WritePosition(p.sink.doc, positions)

	var prims []*gltf.Primitive
	covered := make(map[int]bool)
	for _, sub := range p.subsets {
		var indices []uint32
		for _, face := range sub.faces {
			if face < 0 || face >= len(tris) {
				continue
			}
			covered[face] = true
			indices = append(indices, tris[face]...)
		}
		if len(indices) == 0 {
			continue
		}
		prims = append(prims, p.primitive(posAcc, indices, sub.material))
	}

	// Polygons outside every subset fall back to the whole-mesh material.
	var rest []uint32
	for face := range p.counts {
		if !covered[face] {
			rest = append(rest, tris[face]...)
		}
	}
	if len(rest) > 0 {
		prims = append(prims, p.primitive(posAcc, rest, p.material))
	}

	doc := p.sink.doc
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name:       path.Base(p.path),
		Primitives: prims,
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{
		Name: path.Base(p.path),
		Mesh: gltf.Index(len(doc.Meshes) - 1),
	})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	return nil
}

// triangulate fans every polygon and returns triangle indices per polygon.
func (p *Prim) triangulate() [][]uint32 {
	tris := make([][]uint32, len(p.counts))
	offset := 0
	for i, count := range p.counts {
		corners := p.indices[offset : offset+count]
		for k := 1; k+1 < count; k++ {
			tris[i] = append(tris[i],
				uint32(corners[0]), uint32(corners[k]), uint32(corners[k+1]))
		}
		offset += count
	}
	return tris
}

func (p *Prim) primitive(posAcc int, indices []uint32, mat *stage.Material) *gltf.Primitive {
	prim := &gltf.Primitive{
		Attributes: map[string]int{gltf.POSITION: posAcc},
		Indices:    gltf.Index(modeler.WriteIndices(p.sink.doc, indices)),
		Mode:       gltf.PrimitiveTriangles,
	}

	if mat != nil {
		if idx, ok := p.sink.materialIndex(*mat); ok {
			prim.Material = gltf.Index(idx)
			return prim
		}
		logger.Warn("material identity not registered on this stage",
			zap.String("prim", p.path),
			zap.String("material", mat.Path))
	}
	if p.doubleSided != nil {
		prim.Material = gltf.Index(p.sink.defaultMaterial(*p.doubleSided))
	}
	return prim
}

// Subset is the glTF GeomSubset implementation.
type Subset struct {
	name     string
	faces    []int
	material *stage.Material
}

var _ stage.GeomSubset = (*Subset)(nil)

// Name returns the subset name.
func (s *Subset) Name() string { return s.name }

// BindMaterial binds a material to the subset's primitive.
func (s *Subset) BindMaterial(mat stage.Material) error {
	s.material = &mat
	return nil
}
