package scene

import (
	"fmt"

	"github.com/chazu/tubeline/pkg/tube"
	"github.com/google/uuid"
)

// ValidationSeverity indicates whether a validation finding blocks activation
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks activation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	ActorID  uuid.UUID
	Actor    string // actor name, for messages
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.ActorID == uuid.Nil {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] actor %q: %s", e.Severity, e.Actor, e.Message)
}

// ValidationResult separates blocking errors from advisory warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether there are no blocking errors.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate checks every actor and its scripts. It never mutates the scene.
func Validate(s *Scene) ValidationResult {
	var findings []ValidationError
	findings = append(findings, validateNames(s)...)
	findings = append(findings, validateScripts(s)...)

	var result ValidationResult
	for _, f := range findings {
		if f.Severity == SeverityError {
			result.Errors = append(result.Errors, f)
		} else {
			result.Warnings = append(result.Warnings, f)
		}
	}
	return result
}

// validateNames warns about unnamed actors and names used more than once.
// Dropping the same toolbox entry twice legitimately produces duplicates.
func validateNames(s *Scene) []ValidationError {
	var out []ValidationError
	seen := make(map[string]bool)
	for _, a := range s.Actors() {
		if a.Name == "" {
			out = append(out, ValidationError{
				ActorID: a.ID, Message: "actor has no name", Severity: SeverityWarning,
			})
			continue
		}
		if seen[a.Name] {
			out = append(out, ValidationError{
				ActorID: a.ID, Actor: a.Name,
				Message:  "name is shared with an earlier actor",
				Severity: SeverityWarning,
			})
		}
		seen[a.Name] = true
	}
	return out
}

func validateScripts(s *Scene) []ValidationError {
	var out []ValidationError
	for _, a := range s.Actors() {
		if len(a.Scripts) == 0 {
			out = append(out, ValidationError{
				ActorID: a.ID, Actor: a.Name,
				Message:  "actor has no scripts and produces no geometry",
				Severity: SeverityWarning,
			})
		}
		for _, sc := range a.Scripts {
			ts, ok := sc.(*TubeScript)
			if !ok {
				continue
			}
			out = append(out, validateTube(a, ts.Config)...)
		}
	}
	return out
}

func validateTube(a *Actor, cfg tube.Config) []ValidationError {
	if err := cfg.Validate(); err != nil {
		return []ValidationError{{
			ActorID: a.ID, Actor: a.Name, Message: err.Error(), Severity: SeverityError,
		}}
	}
	// A fallback parallel to up cannot rescue a segment parallel to up.
	if cfg.Up.Cross(cfg.Fallback).Length() < 1e-6*cfg.Up.Length()*cfg.Fallback.Length() {
		return []ValidationError{{
			ActorID: a.ID, Actor: a.Name,
			Message:  "fallback axis is parallel to up; vertical segments will fail",
			Severity: SeverityWarning,
		}}
	}
	return nil
}
