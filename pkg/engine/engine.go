// Package engine evaluates tube scene documents. It wraps zygomys in a
// sandboxed environment and produces a scene.Scene from user source code.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/chazu/tubeline/pkg/scene"
	"github.com/chazu/tubeline/pkg/tube"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/rs/zerolog"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	Log zerolog.Logger

	mu         sync.Mutex
	generation uint64
	defaults   tube.Config
}

// NewEngine creates an Engine whose (tube ...) form starts from
// tube.DefaultConfig.
func NewEngine() *Engine {
	return &Engine{
		Log:      zerolog.Nop(),
		defaults: tube.DefaultConfig(),
	}
}

// SetDefaults replaces the configuration that (tube ...) fields override.
func (e *Engine) SetDefaults(cfg tube.Config) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.defaults = cfg
}

// Evaluate takes Lisp source code and produces a new Scene.
//
// Return semantics:
//   - On success: returns scene + nil errors + nil error
//   - On parse/eval failure: returns nil scene + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*scene.Scene, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	defaults := e.defaults
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		sc, evalErrs, err := e.evaluate(source, defaults)
		ch <- evalResult{scene: sc, errors: evalErrs, err: err}
	}()

	sc, evalErrs, err := waitWithTimeout(ch, gen, &e.mu, &e.generation)
	switch {
	case err != nil:
		e.Log.Error().Err(err).Uint64("generation", gen).Msg("evaluation failed")
	case len(evalErrs) > 0:
		e.Log.Debug().Int("errors", len(evalErrs)).Uint64("generation", gen).Msg("evaluation reported errors")
	default:
		e.Log.Debug().Int("actors", sc.Len()).Uint64("generation", gen).Msg("evaluation finished")
	}
	return sc, evalErrs, err
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string, defaults tube.Config) (*scene.Scene, []EvalError, error) {
	// Empty source is a valid document that produces an empty scene.
	if strings.TrimSpace(source) == "" {
		return scene.New(), nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	sc := scene.New()
	registerBuiltins(env, sc, defaults)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return sc, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
