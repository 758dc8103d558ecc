// Package tessellate activates the scripts of a scene and collects the
// resulting meshes. One mesh is produced per tube script.
package tessellate

import (
	"fmt"

	"github.com/chazu/tubeline/pkg/scene"
	"github.com/chazu/tubeline/pkg/surface"
	"github.com/rs/zerolog"
)

// Tessellate walks the scene in spawn order and activates every script.
// Each script gets its own surface; scripts that upload nothing contribute
// no mesh. Tube scripts record the seed they used.
func Tessellate(sc *scene.Scene, log zerolog.Logger) ([]*surface.Mesh, error) {
	if sc == nil {
		return nil, nil
	}

	var meshes []*surface.Mesh
	for _, a := range sc.Actors() {
		collected, err := activateActor(a, log)
		if err != nil {
			return nil, fmt.Errorf("tessellate: actor %q: %w", a.Name, err)
		}
		meshes = append(meshes, collected...)
	}
	return meshes, nil
}

func activateActor(a *scene.Actor, log zerolog.Logger) ([]*surface.Mesh, error) {
	var meshes []*surface.Mesh
	for i, sc := range a.Scripts {
		name := a.Name
		if i > 0 {
			name = fmt.Sprintf("%s/%d", a.Name, i)
		}
		sink := surface.NewMemory(name)
		if err := sc.Activate(scene.Activation{Actor: a, Sink: sink, Log: log}); err != nil {
			return nil, err
		}

		m := sink.Mesh()
		if m == nil {
			// Script produced no geometry.
			continue
		}
		m.Position = [3]float64{a.Position.X, a.Position.Y, a.Position.Z}
		if ts, ok := sc.(*scene.TubeScript); ok {
			m.Seed = ts.LastSeed()
			m.Material = ts.Material
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}
