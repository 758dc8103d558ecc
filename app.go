package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/chazu/tubeline/pkg/config"
	"github.com/chazu/tubeline/pkg/engine"
	"github.com/chazu/tubeline/pkg/scene"
	"github.com/chazu/tubeline/pkg/surface"
	"github.com/chazu/tubeline/pkg/tessellate"
	"github.com/chazu/tubeline/pkg/toolbox"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/rs/zerolog"
)

// colorPalette is a default palette used to assign distinct colors to meshes.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx   context.Context
	log   zerolog.Logger
	prefs config.Prefs

	engine  *engine.Engine
	catalog *toolbox.Catalog
	handler *toolbox.Handler

	mu    sync.Mutex
	scene *scene.Scene // target of toolbox drops
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
// Vertices are actor-local; the frontend translates them by Position.
type MeshData struct {
	Vertices  []float32  `json:"vertices"`
	Normals   []float32  `json:"normals"`
	Indices   []uint32   `json:"indices"`
	ActorName string     `json:"actorName"`
	Position  [3]float64 `json:"position"`
	Seed      uint64     `json:"seed"`
	Material  string     `json:"material,omitempty"`
	Color     string     `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

func newResult() EvalResult {
	return EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}
}

func (r *EvalResult) fail(msg string) {
	r.Errors = append(r.Errors, EvalErrorData{Message: msg})
}

// NewApp creates an App from the preferences file in the working directory.
// A broken preferences file is reported and replaced by defaults.
func NewApp() *App {
	prefs, err := config.Load(config.DefaultPath)
	log := newLogger(prefs.Level())
	if err != nil {
		log.Warn().Err(err).Msg("using default preferences")
	}
	return NewAppWithPrefs(prefs, log)
}

// NewAppWithPrefs creates an App from explicit preferences.
func NewAppWithPrefs(prefs config.Prefs, log zerolog.Logger) *App {
	a := &App{
		log:    log,
		engine: engine.NewEngine(),
		scene:  scene.New(),
	}
	a.engine.Log = log.With().Str("component", "engine").Logger()
	a.applyPrefs(prefs)
	return a
}

func newLogger(level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().
		Logger()
}

// applyPrefs rebuilds everything that depends on preferences. prefs must
// already be valid.
func (a *App) applyPrefs(prefs config.Prefs) {
	cfg, err := prefs.TubeConfig()
	if err != nil {
		a.log.Warn().Err(err).Msg("invalid tube preferences, using defaults")
		prefs = config.Default()
		cfg, _ = prefs.TubeConfig()
	}
	a.prefs = prefs
	a.engine.SetDefaults(cfg)
	a.catalog = toolbox.NewDefaultCatalog(cfg)
	a.handler = toolbox.NewHandler(a.catalog)
	a.handler.Placement = toolbox.Placement{
		Snap:      prefs.Placement.Snap,
		SnapValue: prefs.Placement.SnapValue,
	}
	a.handler.Log = a.log.With().Str("component", "toolbox").Logger()
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.log.Info().Strs("toolbox", a.catalog.Names()).Msg("tubeline started")
}

// Evaluate takes Lisp source and returns mesh data + errors.
// The evaluated scene becomes the target of later drops.
func (a *App) Evaluate(source string) EvalResult {
	result := newResult()

	// Step 1: Evaluate the Lisp source into a scene.
	sc, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		result.fail(err.Error())
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	// Step 2: Validate before generating anything.
	vr := scene.Validate(sc)
	for _, w := range vr.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.Error()})
	}
	if !vr.OK() {
		for _, e := range vr.Errors {
			result.Errors = append(result.Errors, EvalErrorData{Message: e.Error()})
		}
		return result
	}

	// Step 3: Activate every script and collect the meshes.
	if !a.render(sc, &result) {
		return result
	}

	a.mu.Lock()
	a.scene = sc
	a.mu.Unlock()
	return result
}

// render tessellates sc into result. It reports whether it succeeded.
func (a *App) render(sc *scene.Scene, result *EvalResult) bool {
	meshes, err := tessellate.Tessellate(sc, a.log)
	if err != nil {
		a.log.Error().Err(err).Msg("tessellation failed")
		result.fail("tessellation failed: " + err.Error())
		return false
	}
	for i, m := range meshes {
		result.Meshes = append(result.Meshes, toMeshData(m, colorPalette[i%len(colorPalette)]))
	}
	return true
}

func toMeshData(m *surface.Mesh, color string) MeshData {
	return MeshData{
		Vertices:  m.Vertices,
		Normals:   m.Normals,
		Indices:   m.Indices,
		ActorName: m.Name,
		Position:  m.Position,
		Seed:      m.Seed,
		Material:  m.Material,
		Color:     color,
	}
}

// Toolbox returns the names of the scripts that can be dragged into the scene.
func (a *App) Toolbox() []string {
	return a.catalog.Names()
}

// DragData returns the drag payload for the given toolbox entries.
func (a *App) DragData(names []string) string {
	return toolbox.EncodeDragData(names...)
}

// Drop spawns the scripts named by payload into the current scene and
// returns the meshes of the new actors only.
func (a *App) Drop(payload string, hit, viewDir [3]float64) EvalResult {
	result := newResult()

	a.mu.Lock()
	spawned := a.handler.Drop(a.scene, payload, vec(hit), vec(viewDir))
	a.mu.Unlock()
	if len(spawned) == 0 {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: "nothing to spawn"})
		return result
	}

	tmp := scene.New()
	for _, actor := range spawned {
		tmp.Add(actor)
	}
	a.render(tmp, &result)
	return result
}

// SceneActors returns the actors of the current scene.
func (a *App) SceneActors() []*scene.Actor {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scene.Actors()
}

// ExportSTL evaluates source and writes one STL file per tube script into
// dir, or into the configured export directory when dir is empty. It
// returns the written paths.
func (a *App) ExportSTL(source, dir string) ([]string, error) {
	if dir == "" {
		dir = a.prefs.ExportDir
	}
	sc, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		return nil, err
	}
	if len(evalErrs) > 0 {
		return nil, fmt.Errorf("export: %w", evalErrs[0])
	}
	if vr := scene.Validate(sc); !vr.OK() {
		return nil, fmt.Errorf("export: %w", vr.Errors[0])
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	var paths []string
	for i, actor := range sc.Actors() {
		for j, s := range actor.Scripts {
			path := filepath.Join(dir, stlName(actor.Name, i, j))
			sink := surface.NewSTL(path, a.log)
			if err := s.Activate(scene.Activation{Actor: actor, Sink: sink, Log: a.log}); err != nil {
				return paths, fmt.Errorf("export: actor %q: %w", actor.Name, err)
			}
			paths = append(paths, path)
		}
	}
	a.log.Info().Int("files", len(paths)).Str("dir", dir).Msg("exported STL")
	return paths, nil
}

// stlName builds a file name unique within one export.
func stlName(actor string, i, j int) string {
	base := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, actor)
	if base == "" {
		base = "actor"
	}
	return fmt.Sprintf("%03d_%s_%d.stl", i, base, j)
}

// Preferences returns the active preferences.
func (a *App) Preferences() config.Prefs {
	return a.prefs
}

// SavePreferences validates prefs, writes them to the preferences file and
// applies them. The current scene is kept.
func (a *App) SavePreferences(prefs config.Prefs) error {
	if err := prefs.Validate(); err != nil {
		return err
	}
	if err := config.Save(config.DefaultPath, prefs); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.applyPrefs(prefs)
	a.log = a.log.Level(prefs.Level())
	return nil
}

func vec(c [3]float64) v3.Vec {
	return v3.Vec{X: c[0], Y: c[1], Z: c[2]}
}
