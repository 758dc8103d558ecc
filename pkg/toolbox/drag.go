package toolbox

import (
	"math"
	"strings"

	"github.com/chazu/tubeline/pkg/scene"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// DragPrefix marks a text payload as a list of script names.
const DragPrefix = "SCRIPT!?"

// EncodeDragData builds a drag payload for the given script names.
func EncodeDragData(names ...string) string {
	return DragPrefix + strings.Join(names, "\n")
}

// DecodeDragData returns the script names carried by a payload. Text without
// DragPrefix yields nil. Empty lines are dropped.
func DecodeDragData(text string) []string {
	rest, ok := strings.CutPrefix(text, DragPrefix)
	if !ok {
		return nil
	}
	return lo.Compact(strings.Split(rest, "\n"))
}

// Placement controls grid snapping of dropped actors.
type Placement struct {
	Snap      bool
	SnapValue float64
}

// SpawnLocation pulls hit back along viewDir by half the box diagonal so the
// spawned actor sits in front of the surface. With snapping on, each
// component is truncated toward zero to a multiple of SnapValue.
func SpawnLocation(hit, viewDir, boxSize v3.Vec, p Placement) v3.Vec {
	loc := hit.Sub(viewDir.MulScalar(boxSize.Length() * 0.5))
	if !p.Snap || p.SnapValue <= 0 {
		return loc
	}
	snap := func(x float64) float64 {
		return math.Trunc(x/p.SnapValue) * p.SnapValue
	}
	return v3.Vec{X: snap(loc.X), Y: snap(loc.Y), Z: snap(loc.Z)}
}

// Handler spawns actors for scripts dropped into a scene.
type Handler struct {
	Catalog   *Catalog
	Placement Placement
	// BoxSize is the editor bounding box of a freshly spawned actor.
	BoxSize v3.Vec
	Log     zerolog.Logger
}

// NewHandler returns a handler with a unit actor box and no snapping.
func NewHandler(c *Catalog) *Handler {
	return &Handler{
		Catalog: c,
		BoxSize: v3.Vec{X: 1, Y: 1, Z: 1},
		Log:     zerolog.Nop(),
	}
}

// Drop decodes payload and spawns one actor per known script into sc, named
// after the script and placed at SpawnLocation. Unknown names are logged
// and skipped. It returns the spawned actors in payload order.
func (h *Handler) Drop(sc *scene.Scene, payload string, hit, viewDir v3.Vec) []*scene.Actor {
	names := DecodeDragData(payload)
	if len(names) == 0 {
		h.Log.Debug().Msg("drop: payload carries no scripts")
		return nil
	}

	loc := SpawnLocation(hit, viewDir, h.BoxSize, h.Placement)
	var spawned []*scene.Actor
	for _, name := range names {
		f, ok := h.Catalog.Lookup(name)
		if !ok {
			h.Log.Warn().Str("script", name).Msg("invalid script type")
			continue
		}
		a := sc.Spawn(name, loc, f())
		spawned = append(spawned, a)
		h.Log.Debug().
			Str("actor", a.Name).
			Str("id", a.ID.String()).
			Floats64("position", []float64{loc.X, loc.Y, loc.Z}).
			Msg("spawned")
	}
	return spawned
}
