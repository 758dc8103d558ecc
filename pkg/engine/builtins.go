package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/tubeline/pkg/scene"
	"github.com/chazu/tubeline/pkg/tube"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a vector built by (vec3 ...).
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpTube wraps a tube script returned from (tube ...) and consumed by (actor ...).
type sexpTube struct {
	script *scene.TubeScript
}

func (t *sexpTube) SexpString(ps *zygo.PrintState) string {
	c := t.script.Config
	return fmt.Sprintf("(tube :segments %d :radius %g :step %g :frame %s)", c.Segments, c.Radius, c.Step, c.Frame)
}
func (t *sexpTube) Type() *zygo.RegisteredType { return nil }

// sexpActorRef names an actor spawned by (actor ...).
type sexpActorRef struct {
	actor *scene.Actor
}

func (a *sexpActorRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(actor %q)", a.actor.Name)
}
func (a *sexpActorRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// A trailing keyword with no value maps to SexpNull.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an integer. Floats are accepted when they are whole.
func toInt(s zygo.Sexp) (int64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return v.Val, nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) {
			return int64(v.Val), nil
		}
		return 0, fmt.Errorf("expected integer, got %g", v.Val)
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_rigid) and plain strings ("rigid").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, err := toString(s)
	if err != nil {
		return "", fmt.Errorf("expected keyword or string: %w", err)
	}
	return strings.TrimPrefix(str, kwPrefix), nil
}

// toVec3 extracts a vector from a sexpVec3.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toScript extracts a script value. Each actor gets its own copy, so a tube
// bound with def can be shared between actors.
func toScript(s zygo.Sexp) (scene.Script, error) {
	if t, ok := s.(*sexpTube); ok {
		c := *t.script
		return &c, nil
	}
	return nil, fmt.Errorf("expected script, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the document builtins into a zygomys environment.
// (actor ...) populates sc; (tube ...) starts from defaults.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, sc *scene.Scene, defaults tube.Config) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var c [3]float64
		for i, axis := range []string{"x", "y", "z"} {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %s: %w", axis, err)
			}
			c[i] = f
		}
		return &sexpVec3{vec: v3.Vec{X: c[0], Y: c[1], Z: c[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (tube :segments 12 :radius 1 :step 10 :seed 7 :up (vec3 0 1 0)
	//       :fallback (vec3 1 0 0) :frame :parallel :material "steel")
	// -----------------------------------------------------------------------
	env.AddFunction("tube", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("tube takes keyword arguments only, got %s", pa.positional[0].SexpString(nil))
		}
		ts := scene.NewTubeScript(defaults)

		if v, ok := pa.kw["segments"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("tube: segments: %w", err)
			}
			ts.Config.Segments = int(n)
		}
		if v, ok := pa.kw["radius"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("tube: radius: %w", err)
			}
			ts.Config.Radius = f
		}
		if v, ok := pa.kw["step"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("tube: step: %w", err)
			}
			ts.Config.Step = f
		}
		if v, ok := pa.kw["seed"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("tube: seed: %w", err)
			}
			if n < 0 {
				return zygo.SexpNull, fmt.Errorf("tube: seed must not be negative, got %d", n)
			}
			seed := uint64(n)
			ts.Seed = &seed
		}
		if v, ok := pa.kw["up"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("tube: up: %w", err)
			}
			ts.Config.Up = vec
		}
		if v, ok := pa.kw["fallback"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("tube: fallback: %w", err)
			}
			ts.Config.Fallback = vec
		}
		if v, ok := pa.kw["frame"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("tube: frame: %w", err)
			}
			f, err := tube.ParseFrame(s)
			if err != nil {
				return zygo.SexpNull, err
			}
			ts.Config.Frame = f
		}
		if v, ok := pa.kw["material"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("tube: material: %w", err)
			}
			ts.Material = s
		}

		return &sexpTube{script: ts}, nil
	})

	// -----------------------------------------------------------------------
	// (actor "name" :at (vec3 0 0 0) (tube ...) ...)
	// -----------------------------------------------------------------------
	env.AddFunction("actor", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("actor requires a name argument")
		}

		actorName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("actor: name: %w", err)
		}

		var pos v3.Vec
		if v, ok := pa.kw["at"]; ok {
			pos, err = toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("actor: at: %w", err)
			}
		}

		scripts := make([]scene.Script, 0, len(pa.positional)-1)
		for i, arg := range pa.positional[1:] {
			s, err := toScript(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("actor: script %d: %w", i+1, err)
			}
			scripts = append(scripts, s)
		}

		a := sc.Spawn(actorName, pos, scripts...)
		return &sexpActorRef{actor: a}, nil
	})
}
