package scene

import (
	"fmt"
	"math/rand/v2"

	"github.com/chazu/tubeline/pkg/surface"
	"github.com/chazu/tubeline/pkg/tube"
	"github.com/rs/zerolog"
)

// Script is behaviour attached to an actor. Activate is called when the
// actor is enabled and may be called again to regenerate.
type Script interface {
	Name() string
	Activate(a Activation) error
}

// Activation is what a script receives when its actor is enabled.
type Activation struct {
	Actor *Actor
	Sink  surface.Sink
	Log   zerolog.Logger
}

// TubeScriptName is the toolbox name of the tube script.
const TubeScriptName = "DemoScript"

// TubeScript generates a random tube and uploads it to the actor's surface.
type TubeScript struct {
	Config   tube.Config
	Seed     *uint64 // nil draws a fresh seed on every activation
	Material string  // material name handed to the renderer

	lastSeed uint64
}

// Compile-time interface check.
var _ Script = (*TubeScript)(nil)

// NewTubeScript returns a tube script with the given configuration and no fixed seed.
func NewTubeScript(cfg tube.Config) *TubeScript {
	return &TubeScript{Config: cfg}
}

// Name implements Script.
func (s *TubeScript) Name() string {
	return TubeScriptName
}

// LastSeed returns the seed used by the most recent successful activation.
func (s *TubeScript) LastSeed() uint64 {
	return s.lastSeed
}

// Activate implements Script. The mesh is built in actor-local space.
func (s *TubeScript) Activate(a Activation) error {
	if a.Sink == nil {
		return fmt.Errorf("scene: %s: no surface to upload to", a.Actor.Name)
	}

	seed := rand.Uint64()
	if s.Seed != nil {
		seed = *s.Seed
	}

	verts, idx, err := tube.Build(s.Config, tube.NewRandSource(seed))
	if err != nil {
		return fmt.Errorf("scene: %s: %w", a.Actor.Name, err)
	}
	if err := a.Sink.UpdateMesh(verts, idx); err != nil {
		return fmt.Errorf("scene: %s: upload: %w", a.Actor.Name, err)
	}
	s.lastSeed = seed

	a.Log.Debug().
		Str("actor", a.Actor.Name).
		Uint64("seed", seed).
		Int("segments", s.Config.Segments).
		Int("vertices", len(verts)).
		Msg("tube regenerated")
	return nil
}

// Activate runs every script of the actor against sink, stopping at the
// first failure.
func Activate(a *Actor, sink surface.Sink, log zerolog.Logger) error {
	for _, sc := range a.Scripts {
		if err := sc.Activate(Activation{Actor: a, Sink: sink, Log: log}); err != nil {
			return err
		}
	}
	return nil
}
