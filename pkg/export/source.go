package export

import "github.com/Faultbox/usdexport/pkg/mesh"

// MeshSource yields the evaluated mesh snapshot for an object being
// exported. ExportMesh returns nil when the object has no exportable
// geometry; the writer logs and skips it.
type MeshSource interface {
	ExportMesh() *mesh.Mesh
}

// OwnedMeshSource is a MeshSource whose snapshots are temporary evaluation
// results. The writer calls FreeExportMesh exactly once per snapshot, on
// every exit path.
type OwnedMeshSource interface {
	MeshSource
	FreeExportMesh(m *mesh.Mesh)
}

// StaticSource serves an already evaluated mesh without transferring
// ownership.
type StaticSource struct {
	Mesh *mesh.Mesh
}

// ExportMesh returns the wrapped mesh.
func (s StaticSource) ExportMesh() *mesh.Mesh {
	return s.Mesh
}
