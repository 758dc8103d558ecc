package toolbox

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/chazu/tubeline/pkg/scene"
	"github.com/chazu/tubeline/pkg/tube"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/rs/zerolog"
)

func TestDefaultCatalog(t *testing.T) {
	c := NewDefaultCatalog(tube.DefaultConfig())
	if got := c.Names(); !reflect.DeepEqual(got, []string{"DemoScript"}) {
		t.Fatalf("Names() = %v, want [DemoScript]", got)
	}
	f, ok := c.Lookup("DemoScript")
	if !ok {
		t.Fatal("DemoScript not registered")
	}
	a, b := f(), f()
	if a == b {
		t.Error("factory should return a fresh script per call")
	}
	ts, ok := a.(*scene.TubeScript)
	if !ok {
		t.Fatalf("factory returned %T, want *scene.TubeScript", a)
	}
	if ts.Config != tube.DefaultConfig() {
		t.Errorf("Config = %+v, want defaults", ts.Config)
	}
}

func TestCatalogNamesSorted(t *testing.T) {
	c := NewCatalog()
	for _, n := range []string{"Zeta", "Alpha", "Mid"} {
		c.Register(n, func() scene.Script { return nil })
	}
	want := []string{"Alpha", "Mid", "Zeta"}
	if got := c.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if _, ok := c.Lookup("Missing"); ok {
		t.Error("Lookup of unregistered name should fail")
	}
}

func TestCatalogRegisterDuplicate(t *testing.T) {
	c := NewCatalog()
	c.Register("Dup", func() scene.Script { return nil })
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	c.Register("Dup", func() scene.Script { return nil })
}

func TestDragData(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"single", EncodeDragData("DemoScript"), []string{"DemoScript"}},
		{"several", EncodeDragData("A", "B", "C"), []string{"A", "B", "C"}},
		{"empty lines dropped", DragPrefix + "A\n\nB\n", []string{"A", "B"}},
		{"no prefix", "DemoScript", nil},
		{"other prefix", "ASSET!?DemoScript", nil},
		{"prefix only", DragPrefix, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeDragData(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("DecodeDragData(%q) = %v, want %v", tt.text, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("name %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSpawnLocation(t *testing.T) {
	hit := v3.Vec{X: 10, Y: 0, Z: 0}
	view := v3.Vec{X: 1, Y: 0, Z: 0}
	box := v3.Vec{X: 2, Y: 0, Z: 0} // diagonal length 2

	tests := []struct {
		name string
		hit  v3.Vec
		p    Placement
		want v3.Vec
	}{
		{"no snap", hit, Placement{}, v3.Vec{X: 9}},
		{"snap", v3.Vec{X: 27, Y: 14, Z: -14}, Placement{Snap: true, SnapValue: 10}, v3.Vec{X: 20, Y: 10, Z: -10}},
		{"snap disabled ignores value", v3.Vec{X: 27}, Placement{SnapValue: 10}, v3.Vec{X: 26}},
		{"zero snap value", v3.Vec{X: 27}, Placement{Snap: true}, v3.Vec{X: 26}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SpawnLocation(tt.hit, view, box, tt.p)
			if got != tt.want {
				t.Errorf("SpawnLocation = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDropSpawnsActors(t *testing.T) {
	h := NewHandler(NewDefaultCatalog(tube.DefaultConfig()))
	h.BoxSize = v3.Vec{}
	h.Placement = Placement{Snap: true, SnapValue: 5}
	sc := scene.New()

	payload := EncodeDragData("DemoScript", "DemoScript")
	got := h.Drop(sc, payload, v3.Vec{X: 12, Y: 3, Z: -7}, v3.Vec{Z: -1})

	if len(got) != 2 || sc.Len() != 2 {
		t.Fatalf("spawned %d actors, scene holds %d; want 2", len(got), sc.Len())
	}
	for _, a := range got {
		if a.Name != "DemoScript" {
			t.Errorf("actor name = %q, want DemoScript", a.Name)
		}
		if a.Position != (v3.Vec{X: 10, Y: 0, Z: -5}) {
			t.Errorf("position = %v, want (10, 0, -5)", a.Position)
		}
		if len(a.Scripts) != 1 || a.Scripts[0].Name() != "DemoScript" {
			t.Errorf("scripts = %v", a.Scripts)
		}
	}
	if got[0].Scripts[0] == got[1].Scripts[0] {
		t.Error("actors must not share a script instance")
	}
}

func TestDropUnknownScriptWarns(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(NewDefaultCatalog(tube.DefaultConfig()))
	h.Log = zerolog.New(&buf)
	sc := scene.New()

	got := h.Drop(sc, EncodeDragData("Ghost", "DemoScript", "Phantom"), v3.Vec{}, v3.Vec{Z: 1})

	if len(got) != 1 || got[0].Name != "DemoScript" {
		t.Fatalf("expected only DemoScript to spawn, got %v", got)
	}
	out := buf.String()
	if n := strings.Count(out, `"level":"warn"`); n != 2 {
		t.Errorf("expected 2 warnings, got %d: %s", n, out)
	}
	for _, name := range []string{"Ghost", "Phantom"} {
		if !strings.Contains(out, name) {
			t.Errorf("warning for %s missing: %s", name, out)
		}
	}
}

func TestDropForeignPayload(t *testing.T) {
	h := NewHandler(NewDefaultCatalog(tube.DefaultConfig()))
	sc := scene.New()
	if got := h.Drop(sc, "plain text", v3.Vec{}, v3.Vec{}); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
	if sc.Len() != 0 {
		t.Errorf("scene should stay empty, has %d actors", sc.Len())
	}
}
