package tube

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// VerticesPerSegment is 4 quads * 2 triangles * 3 vertices.
const VerticesPerSegment = 24

// Frame selects how a segment's cross-section is oriented.
type Frame int

const (
	// FrameRigid derives each segment's offsets from the up axis alone.
	// Neighbouring segments are not reconciled, so long chains that change
	// direction show seams and twist.
	FrameRigid Frame = iota
	// FrameParallelTransport carries the previous segment's offset forward,
	// projected onto the new segment's normal plane.
	FrameParallelTransport
)

func (f Frame) String() string {
	switch f {
	case FrameRigid:
		return "rigid"
	case FrameParallelTransport:
		return "parallel"
	default:
		return "unknown"
	}
}

// ParseFrame converts a frame name ("rigid", "parallel") to a Frame.
func ParseFrame(name string) (Frame, error) {
	switch name {
	case "", "rigid":
		return FrameRigid, nil
	case "parallel", "parallel-transport":
		return FrameParallelTransport, nil
	}
	return 0, fmt.Errorf("tube: unknown frame %q, expected rigid or parallel", name)
}

// Config holds the parameters of a single build.
type Config struct {
	Segments int     // number of segments, one random draw each
	Radius   float64 // cross-section scale
	Step     float64 // scale applied to every random draw
	Up       v3.Vec  // reference axis for the cross-section
	Fallback v3.Vec  // reference axis used when a segment is parallel to Up
	Frame    Frame
}

// DefaultConfig returns the settings of the demo script: twelve segments of
// step 10 with a unit radius around the world up axis.
func DefaultConfig() Config {
	return Config{
		Segments: 12,
		Radius:   1,
		Step:     10,
		Up:       v3.Vec{X: 0, Y: 1, Z: 0},
		Fallback: v3.Vec{X: 1, Y: 0, Z: 0},
		Frame:    FrameRigid,
	}
}

// Validate reports the first invalid field as an *InvalidConfigurationError.
func (c Config) Validate() error {
	if c.Segments <= 0 {
		return &InvalidConfigurationError{Field: "segments", Value: c.Segments, Reason: "must be positive"}
	}
	if !finite(c.Step) || c.Step <= 0 {
		return &InvalidConfigurationError{Field: "step", Value: c.Step, Reason: "must be a positive number"}
	}
	return c.validateProfile()
}

// validateProfile checks everything except the random walk parameters.
func (c Config) validateProfile() error {
	if !finite(c.Radius) || c.Radius <= 0 {
		return &InvalidConfigurationError{Field: "radius", Value: c.Radius, Reason: "must be a positive number"}
	}
	if !finiteVec(c.Up) || c.Up.Length() == 0 {
		return &InvalidConfigurationError{Field: "up", Value: c.Up, Reason: "must be a non-zero vector"}
	}
	if !finiteVec(c.Fallback) || c.Fallback.Length() == 0 {
		return &InvalidConfigurationError{Field: "fallback", Value: c.Fallback, Reason: "must be a non-zero vector"}
	}
	if c.Frame != FrameRigid && c.Frame != FrameParallelTransport {
		return &InvalidConfigurationError{Field: "frame", Value: int(c.Frame), Reason: "unknown frame"}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func finiteVec(v v3.Vec) bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}
