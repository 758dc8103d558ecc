// Package toolbox is the drag-and-drop glue between the script catalog and a
// scene: payload encoding, spawn placement and the drop handler.
package toolbox

import (
	"fmt"
	"sort"

	"github.com/chazu/tubeline/pkg/scene"
	"github.com/chazu/tubeline/pkg/tube"
	"github.com/samber/lo"
)

// Factory creates a fresh script instance.
type Factory func() scene.Script

// Catalog maps script names to factories.
type Catalog struct {
	entries map[string]Factory
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]Factory)}
}

// NewDefaultCatalog returns a catalog holding the tube script under
// scene.TubeScriptName, built from cfg.
func NewDefaultCatalog(cfg tube.Config) *Catalog {
	c := NewCatalog()
	c.Register(scene.TubeScriptName, func() scene.Script {
		return scene.NewTubeScript(cfg)
	})
	return c
}

// Register adds a named factory. Registering a name twice panics.
func (c *Catalog) Register(name string, f Factory) {
	if _, exists := c.entries[name]; exists {
		panic(fmt.Sprintf("script %q already registered", name))
	}
	c.entries[name] = f
}

// Lookup returns the factory for name.
func (c *Catalog) Lookup(name string) (Factory, bool) {
	f, ok := c.entries[name]
	return f, ok
}

// Names returns the registered names, sorted.
func (c *Catalog) Names() []string {
	names := lo.Keys(c.entries)
	sort.Strings(names)
	return names
}
