package tube

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// InvalidConfigurationError is returned before any geometry is produced when
// a Config field is out of range.
type InvalidConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("tube: invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// DegenerateSegmentError is returned when a segment has no usable direction:
// its endpoints coincide, or it is parallel to both reference axes.
// The whole build fails; no partial buffers are returned.
type DegenerateSegmentError struct {
	Index    int
	From, To v3.Vec
	Reason   string
}

func (e *DegenerateSegmentError) Error() string {
	return fmt.Sprintf("tube: segment %d (%.4g,%.4g,%.4g)->(%.4g,%.4g,%.4g) is degenerate: %s",
		e.Index, e.From.X, e.From.Y, e.From.Z, e.To.X, e.To.Y, e.To.Z, e.Reason)
}
