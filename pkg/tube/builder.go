package tube

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

const (
	// minSegmentLength is the shortest segment that can still be normalized.
	minSegmentLength = 1e-9
	// parallelTolerance is the sine of the smallest accepted angle between a
	// segment and its reference axis.
	parallelTolerance = 1e-6
)

// Offsets are the two half-diagonals of a segment's square cross-section.
type Offsets struct {
	A, B v3.Vec
}

// Build draws cfg.Segments directions from src, walks them from the origin
// and returns the tube surface along the walk.
func Build(cfg Config, src Source) ([]v3.Vec, []int, error) {
	points, err := Walk(cfg, src)
	if err != nil {
		return nil, nil, err
	}
	return BuildPath(cfg, points)
}

// Walk returns cfg.Segments+1 waypoints starting at the origin. Each waypoint
// is the previous one plus a draw from src scaled by cfg.Step.
func Walk(cfg Config, src Source) ([]v3.Vec, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, &InvalidConfigurationError{Field: "source", Value: nil, Reason: "must not be nil"}
	}

	points := make([]v3.Vec, 0, cfg.Segments+1)
	last := v3.Vec{}
	points = append(points, last)
	for i := 0; i < cfg.Segments; i++ {
		p := last.Add(src.NextVector3().MulScalar(cfg.Step))
		points = append(points, p)
		last = p
	}
	return points, nil
}

// BuildPath tessellates a tube through the given waypoints. cfg.Segments and
// cfg.Step are ignored; the segment count is len(waypoints)-1.
func BuildPath(cfg Config, waypoints []v3.Vec) ([]v3.Vec, []int, error) {
	frames, err := Frames(cfg, waypoints)
	if err != nil {
		return nil, nil, err
	}

	n := len(frames) * VerticesPerSegment
	vertices := make([]v3.Vec, 0, n)
	indices := make([]int, 0, n)
	for i, off := range frames {
		from, to := waypoints[i], waypoints[i+1]
		vertices, indices = appendSegment(vertices, indices, CrossSection(to, off), CrossSection(from, off))
	}
	return vertices, indices, nil
}

// Frames returns the cross-section offsets of every segment of the path.
func Frames(cfg Config, waypoints []v3.Vec) ([]Offsets, error) {
	if err := cfg.validateProfile(); err != nil {
		return nil, err
	}
	if len(waypoints) < 2 {
		return nil, &InvalidConfigurationError{Field: "waypoints", Value: len(waypoints), Reason: "need at least two"}
	}

	frames := make([]Offsets, 0, len(waypoints)-1)
	var prev *Offsets
	for i := 1; i < len(waypoints); i++ {
		off, err := segmentOffsets(cfg, i-1, waypoints[i-1], waypoints[i], prev)
		if err != nil {
			return nil, err
		}
		frames = append(frames, off)
		prev = &frames[len(frames)-1]
	}
	return frames, nil
}

// CrossSection returns the four corners of the square profile around center,
// in the order +A, +B, -A, -B.
func CrossSection(center v3.Vec, off Offsets) [4]v3.Vec {
	return [4]v3.Vec{
		center.Add(off.A),
		center.Add(off.B),
		center.Sub(off.A),
		center.Sub(off.B),
	}
}

func segmentOffsets(cfg Config, index int, from, to v3.Vec, prev *Offsets) (Offsets, error) {
	d := to.Sub(from)
	l := d.Length()
	if l < minSegmentLength {
		return Offsets{}, &DegenerateSegmentError{Index: index, From: from, To: to, Reason: "zero-length direction"}
	}
	line := d.MulScalar(1 / l)

	if cfg.Frame == FrameParallelTransport && prev != nil {
		// Remove the component of the previous offset along the new direction.
		t := prev.A.Sub(line.MulScalar(prev.A.Dot(line)))
		if tl := t.Length(); tl > parallelTolerance*cfg.Radius {
			a := t.MulScalar(cfg.Radius / tl)
			return Offsets{A: a, B: line.Cross(a)}, nil
		}
	}

	a, ok := perpendicular(line, cfg.Up)
	if !ok {
		a, ok = perpendicular(line, cfg.Fallback)
	}
	if !ok {
		return Offsets{}, &DegenerateSegmentError{Index: index, From: from, To: to, Reason: "parallel to both up and fallback axes"}
	}

	if cfg.Frame == FrameParallelTransport {
		a = a.MulScalar(cfg.Radius / a.Length())
		return Offsets{A: a, B: line.Cross(a)}, nil
	}
	a = a.MulScalar(cfg.Radius)
	return Offsets{A: a, B: line.Cross(a).MulScalar(cfg.Radius)}, nil
}

// perpendicular returns line x ref, or false when the two are parallel.
func perpendicular(line, ref v3.Vec) (v3.Vec, bool) {
	c := line.Cross(ref)
	if c.Length() < parallelTolerance*ref.Length() {
		return v3.Vec{}, false
	}
	return c, true
}

// appendSegment emits two triangles per side between the far (start) and near
// (end) cross-sections. Every vertex is a fresh copy with its own index.
func appendSegment(vertices []v3.Vec, indices []int, start, end [4]v3.Vec) ([]v3.Vec, []int) {
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		vertices = append(vertices,
			start[i], end[j], start[j],
			start[i], end[i], end[j],
		)
	}
	for len(indices) < len(vertices) {
		indices = append(indices, len(indices))
	}
	return vertices, indices
}

// Triangles groups a flat vertex buffer into triangles. Trailing vertices
// that do not complete a triangle are dropped.
func Triangles(vertices []v3.Vec) []*sdf.Triangle3 {
	tris := make([]*sdf.Triangle3, 0, len(vertices)/3)
	for i := 0; i+2 < len(vertices); i += 3 {
		tris = append(tris, &sdf.Triangle3{vertices[i], vertices[i+1], vertices[i+2]})
	}
	return tris
}

// Area returns the area of a triangle.
func Area(t *sdf.Triangle3) float64 {
	return t[1].Sub(t[0]).Cross(t[2].Sub(t[0])).Length() / 2
}
