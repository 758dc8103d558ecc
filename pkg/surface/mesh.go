// Package surface receives tube buffers and turns them into renderable meshes.
// A Sink stands in for the host's mesh upload: every UpdateMesh call replaces
// the previous geometry wholesale.
package surface

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Name     string    `json:"name"`     // actor that produced the mesh
	Seed     uint64    `json:"seed"`     // random seed the tube was built from

	// Placement of the actor; vertices are local to it.
	Position [3]float64 `json:"position"`
	Material string     `json:"material,omitempty"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Bounds returns the axis-aligned bounding box of the vertices.
// An empty mesh has zero bounds.
func (m *Mesh) Bounds() (min, max [3]float64) {
	if m.IsEmpty() {
		return min, max
	}
	for k := 0; k < 3; k++ {
		min[k] = float64(m.Vertices[k])
		max[k] = float64(m.Vertices[k])
	}
	for i := 3; i+2 < len(m.Vertices); i += 3 {
		for k := 0; k < 3; k++ {
			v := float64(m.Vertices[i+k])
			if v < min[k] {
				min[k] = v
			}
			if v > max[k] {
				max[k] = v
			}
		}
	}
	return min, max
}

// FromBuffers converts a vertex buffer and a triangle index list into a Mesh
// with one flat normal per triangle, copied to each of its vertices.
// Indexed vertices are expanded so that no vertex is shared.
func FromBuffers(name string, vertices []v3.Vec, indices []int) (*Mesh, error) {
	tris, err := triangles(vertices, indices)
	if err != nil {
		return nil, fmt.Errorf("surface: %s: %w", name, err)
	}

	numVerts := len(tris) * 3
	m := &Mesh{
		Vertices: make([]float32, 0, numVerts*3),
		Normals:  make([]float32, 0, numVerts*3),
		Indices:  make([]uint32, 0, numVerts),
		Name:     name,
	}
	for i, tri := range tris {
		n := tri.Normal()
		nx, ny, nz := float32(n.X), float32(n.Y), float32(n.Z)
		for j := 0; j < 3; j++ {
			v := tri[j]
			m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			m.Normals = append(m.Normals, nx, ny, nz)
			m.Indices = append(m.Indices, uint32(i*3+j))
		}
	}
	return m, nil
}

// triangles resolves an index list against its vertex buffer.
func triangles(vertices []v3.Vec, indices []int) ([]*sdf.Triangle3, error) {
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("index count %d is not a multiple of 3", len(indices))
	}
	tris := make([]*sdf.Triangle3, 0, len(indices)/3)
	for i := 0; i < len(indices); i += 3 {
		var t sdf.Triangle3
		for j := 0; j < 3; j++ {
			k := indices[i+j]
			if k < 0 || k >= len(vertices) {
				return nil, fmt.Errorf("index %d at position %d out of range [0,%d)", k, i+j, len(vertices))
			}
			t[j] = vertices[k]
		}
		tris = append(tris, &t)
	}
	return tris, nil
}
