package surface

import (
	"fmt"
	"sync"

	"github.com/deadsy/sdfx/render"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/rs/zerolog"
)

// Sink accepts a flat vertex buffer and triangle index list for display.
type Sink interface {
	UpdateMesh(vertices []v3.Vec, indices []int) error
}

// Compile-time interface checks.
var (
	_ Sink = (*Memory)(nil)
	_ Sink = (*STL)(nil)
)

// Memory keeps the most recently uploaded mesh. It is safe for concurrent use
// so a UI thread can read while an activation writes.
type Memory struct {
	name string

	mu   sync.Mutex
	mesh *Mesh
	gen  uint64
}

// NewMemory returns an empty in-memory surface for the named actor.
func NewMemory(name string) *Memory {
	return &Memory{name: name}
}

// UpdateMesh implements Sink. The previous mesh is dropped even when the new
// buffers are rejected.
func (s *Memory) UpdateMesh(vertices []v3.Vec, indices []int) error {
	m, err := FromBuffers(s.name, vertices, indices)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.mesh = m
	return err
}

// Mesh returns the current mesh, or nil if nothing valid has been uploaded.
func (s *Memory) Mesh() *Mesh {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mesh
}

// Generation counts UpdateMesh calls.
func (s *Memory) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// STL writes every uploaded mesh to an STL file, overwriting it.
type STL struct {
	Path string
	Log  zerolog.Logger
}

// NewSTL returns a sink writing to path.
func NewSTL(path string, log zerolog.Logger) *STL {
	return &STL{Path: path, Log: log}
}

// UpdateMesh implements Sink.
func (s *STL) UpdateMesh(vertices []v3.Vec, indices []int) error {
	tris, err := triangles(vertices, indices)
	if err != nil {
		return fmt.Errorf("surface: stl %s: %w", s.Path, err)
	}
	if err := render.SaveSTL(s.Path, tris); err != nil {
		return fmt.Errorf("surface: stl %s: %w", s.Path, err)
	}
	s.Log.Debug().Str("path", s.Path).Int("triangles", len(tris)).Msg("wrote stl")
	return nil
}
