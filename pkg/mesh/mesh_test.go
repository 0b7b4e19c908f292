package mesh

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func quadMesh() *Mesh {
	return &Mesh{
		Name: "quad",
		Vertices: []mgl32.Vec3{
			{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		},
		Loops: []Loop{
			{Vertex: 0}, {Vertex: 1}, {Vertex: 2}, {Vertex: 3},
		},
		Polygons: []Polygon{
			{LoopStart: 0, LoopTotal: 4, MaterialIndex: 0},
		},
		Edges: []Edge{
			{V1: 0, V2: 1}, {V1: 1, V2: 2}, {V1: 2, V2: 3}, {V1: 3, V2: 0},
		},
		Materials: []*Material{
			{Name: "paint"},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Mesh)
		wantErr error
	}{
		{
			name:   "valid quad",
			mutate: func(m *Mesh) {},
		},
		{
			name:   "empty mesh is valid",
			mutate: func(m *Mesh) { *m = Mesh{Name: "empty"} },
		},
		{
			name:    "loop vertex out of range",
			mutate:  func(m *Mesh) { m.Loops[2].Vertex = 99 },
			wantErr: ErrLoopVertexRange,
		},
		{
			name:    "negative loop vertex",
			mutate:  func(m *Mesh) { m.Loops[0].Vertex = -1 },
			wantErr: ErrLoopVertexRange,
		},
		{
			name:    "polygon loop range",
			mutate:  func(m *Mesh) { m.Polygons[0].LoopTotal = 5 },
			wantErr: ErrPolygonLoopRange,
		},
		{
			name:    "polygon material slot out of range",
			mutate:  func(m *Mesh) { m.Polygons[0].MaterialIndex = 3 },
			wantErr: ErrMaterialSlotRange,
		},
		{
			name: "material slot ignored without slot table",
			mutate: func(m *Mesh) {
				m.Materials = nil
				m.Polygons[0].MaterialIndex = 3
			},
		},
		{
			name:    "edge vertex out of range",
			mutate:  func(m *Mesh) { m.Edges[1].V2 = 42 },
			wantErr: ErrEdgeVertexRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := quadMesh()
			tt.mutate(m)
			err := m.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSlotMaterial(t *testing.T) {
	m := &Mesh{
		Materials: []*Material{
			{Name: "first"},
			nil,
			{Name: "third"},
		},
	}

	tests := []struct {
		slot int
		want string // "" means nil
	}{
		{0, "first"},
		{1, ""},
		{2, "third"},
		{-1, ""},
		{3, ""},
	}

	for _, tt := range tests {
		got := m.SlotMaterial(tt.slot)
		if tt.want == "" {
			if got != nil {
				t.Errorf("SlotMaterial(%d) = %v, want nil", tt.slot, got)
			}
			continue
		}
		if got == nil || got.Name != tt.want {
			t.Errorf("SlotMaterial(%d) = %v, want %q", tt.slot, got, tt.want)
		}
	}
}

func TestTotalLoops(t *testing.T) {
	m := &Mesh{
		Polygons: []Polygon{
			{LoopTotal: 4},
			{LoopTotal: 3},
			{LoopTotal: 5},
		},
	}
	if got := m.TotalLoops(); got != 12 {
		t.Errorf("TotalLoops() = %d, want 12", got)
	}
}
