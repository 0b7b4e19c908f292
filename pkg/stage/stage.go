// Package stage abstracts the target scene graph that receives exported
// geometry: timecoded attribute commits, material identities, and geometry
// subsets. The package also ships an in-memory implementation used by tests
// and as a reference for real backends.
package stage

import (
	"errors"
	"fmt"
	"path"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/usdexport/pkg/mesh"
)

// SharpnessInfinite is the crease sharpness committed for an infinitely
// sharp edge (quantized crease 255). OpenSubdiv treats 10 as infinite.
const SharpnessInfinite float32 = 10

// TimeCode identifies the time sample an attribute commit belongs to. The
// zero value is time 0; Default is the unvarying default sample.
type TimeCode struct {
	value float64
	def   bool
}

// At returns the TimeCode for the given frame time.
func At(t float64) TimeCode {
	return TimeCode{value: t}
}

// Default returns the unvarying default-sample TimeCode.
func Default() TimeCode {
	return TimeCode{def: true}
}

// IsDefault reports whether t is the default sample.
func (t TimeCode) IsDefault() bool {
	return t.def
}

// Value returns the frame time. Meaningless when IsDefault is true.
func (t TimeCode) Value() float64 {
	return t.value
}

// String returns "default" or the frame time.
func (t TimeCode) String() string {
	if t.def {
		return "default"
	}
	return fmt.Sprintf("%g", t.value)
}

// Material is the stable identity of a material registered in the target
// scene.
type Material struct {
	Path string
}

// Name returns the final path component, used to name bind subsets.
func (m Material) Name() string {
	return path.Base(m.Path)
}

// IsZero reports whether m is the zero identity.
func (m Material) IsZero() bool {
	return m.Path == ""
}

// GeomMesh is a mesh prim in the target scene graph. Point, topology and
// crease commits are keyed by TimeCode; bindings and the double-sided flag
// are unvarying.
type GeomMesh interface {
	// Path returns the prim path, used for diagnostics.
	Path() string

	SetPoints(points []mgl32.Vec3, tc TimeCode) error
	SetFaceVertexCounts(counts []int, tc TimeCode) error
	SetFaceVertexIndices(indices []int, tc TimeCode) error

	// SetCreases commits the three parallel crease-run arrays. Callers must
	// not commit empty arrays; absence of the attribute signals "no creases".
	SetCreases(lengths, indices []int, sharpness []float32, tc TimeCode) error

	SetDoubleSided(doubleSided bool) error

	// BindMaterial binds a material to the whole mesh.
	BindMaterial(mat Material) error

	// CreateMaterialBindSubset creates a named geometry subset holding the
	// given polygon indices. The subset bind is additive to any whole-mesh
	// bind.
	CreateMaterialBindSubset(name string, faceIndices []int) (GeomSubset, error)
}

// GeomSubset is a named polygon grouping scoped to one mesh prim.
type GeomSubset interface {
	Name() string
	BindMaterial(mat Material) error
}

// ErrNilMaterial is returned when a nil material handle is registered.
var ErrNilMaterial = errors.New("nil material handle")

// MaterialRegistry resolves material handles into target-scene identities.
// EnsureMaterial is idempotent: registering the same handle twice returns an
// equivalent identity.
type MaterialRegistry interface {
	EnsureMaterial(m *mesh.Material) (Material, error)
}
