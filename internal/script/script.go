// Package script parses declarative script files into a format-agnostic
// model consumed by the orchestrator. TOML, JSON and HCL frontends all feed
// the same decoder, so a script means the same thing in every serialization.
package script

import (
	"github.com/axel-lord/spel-katalog-script/internal/command"
	"github.com/axel-lord/spel-katalog-script/internal/dependency"
	"github.com/axel-lord/spel-katalog-script/internal/environ"
)

// Script is the header section of a script file: the identifier plus an
// optional primary executable run before any post-steps.
type Script struct {
	ID   string
	Exec command.Spec
}

// VisitStrings exposes the primary executable's strings and the id to fn.
func (s *Script) VisitStrings(fn func(*string) error) error {
	if s.Exec != nil {
		if err := s.Exec.VisitStrings(fn); err != nil {
			return err
		}
	}
	return fn(&s.ID)
}

// File is one parsed script file. It is constructed by Parse or Load and
// consumed read-only by the orchestrator; the only later mutation is string
// interpolation through VisitStrings.
type File struct {
	// Require are checked once, before any script in the batch executes.
	Require []dependency.Dependency

	// Assert are checked immediately before this script's own execution.
	// Their ScriptRef subset is additionally pre-validated during the
	// require stage, since those are cheap pure lookups.
	Assert []dependency.Dependency

	// Synced are post-steps run one after another after the primary
	// executable.
	Synced []command.Spec

	// Parallel are post-steps run together.
	Parallel []command.Spec

	// Script is the header section.
	Script Script

	// Env is applied to every executable belonging to this file.
	Env *environ.Set

	// Path is where the file was loaded from, for diagnostics only.
	Path string
}

// ID is a shorthand for the script identifier.
func (f *File) ID() string { return f.Script.ID }

// VisitStrings exposes every parsed string field to fn, enabling variable
// interpolation to be applied post-parse by an external collaborator.
// Environment variable names are deliberately excluded.
func (f *File) VisitStrings(fn func(*string) error) error {
	for _, dep := range f.Assert {
		if err := dep.VisitStrings(fn); err != nil {
			return err
		}
	}
	for _, dep := range f.Require {
		if err := dep.VisitStrings(fn); err != nil {
			return err
		}
	}
	for _, spec := range f.Synced {
		if err := spec.VisitStrings(fn); err != nil {
			return err
		}
	}
	for _, spec := range f.Parallel {
		if err := spec.VisitStrings(fn); err != nil {
			return err
		}
	}
	if err := f.Env.VisitStrings(fn); err != nil {
		return err
	}
	return f.Script.VisitStrings(fn)
}
