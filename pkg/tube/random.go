package tube

import (
	"math/rand/v2"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Source supplies the direction drawn for each segment.
type Source interface {
	NextVector3() v3.Vec
}

// RandSource draws vectors whose components are uniform in [-1, 1).
// It is not safe for concurrent use.
type RandSource struct {
	seed uint64
	rng  *rand.Rand
}

// pcgStream is the fixed PCG increment; only the seed varies between sources.
const pcgStream = 0x9e3779b97f4a7c15

// NewRandSource returns a source that yields the same sequence for the same seed.
func NewRandSource(seed uint64) *RandSource {
	return &RandSource{
		seed: seed,
		rng:  rand.New(rand.NewPCG(seed, pcgStream)),
	}
}

// Seed returns the seed the source was created with.
func (s *RandSource) Seed() uint64 {
	return s.seed
}

// NextVector3 implements Source.
func (s *RandSource) NextVector3() v3.Vec {
	return v3.Vec{
		X: s.rng.Float64()*2 - 1,
		Y: s.rng.Float64()*2 - 1,
		Z: s.rng.Float64()*2 - 1,
	}
}

// SequenceSource replays a fixed list of directions, wrapping around.
type SequenceSource struct {
	dirs []v3.Vec
	next int
}

// NewSequenceSource returns a source cycling through dirs. With no
// directions it yields the zero vector.
func NewSequenceSource(dirs ...v3.Vec) *SequenceSource {
	return &SequenceSource{dirs: dirs}
}

// NextVector3 implements Source.
func (s *SequenceSource) NextVector3() v3.Vec {
	if len(s.dirs) == 0 {
		return v3.Vec{}
	}
	d := s.dirs[s.next%len(s.dirs)]
	s.next++
	return d
}
