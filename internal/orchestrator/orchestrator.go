// Package orchestrator drives an ordered batch of script files through
// two-phase pre-run validation and sequential execution. Concurrency is
// bounded to one script's dependency list or one script's parallel
// post-steps; scripts themselves never overlap, so the outcome table needs
// no locking.
package orchestrator

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/axel-lord/spel-katalog-script/internal/command"
	"github.com/axel-lord/spel-katalog-script/internal/ctxlog"
	"github.com/axel-lord/spel-katalog-script/internal/dependency"
	"github.com/axel-lord/spel-katalog-script/internal/script"
)

// Table records the last computed outcome per script id. It implements
// dependency.Resolver for ScriptRef checks.
type Table map[string]dependency.Outcome

// OutcomeOf implements dependency.Resolver.
func (t Table) OutcomeOf(id string) (dependency.Outcome, bool) {
	outcome, ok := t[id]
	return outcome, ok
}

// Orchestrator runs ordered batches of script files. The caller-supplied
// list order is trusted as the dependency order; no graph is built.
type Orchestrator struct {
	opts command.Options
}

// New creates an orchestrator spawning processes with the given options.
func New(opts command.Options) *Orchestrator {
	return &Orchestrator{opts: opts}
}

// PreRunCheck validates the batch before anything runs. Every script's
// require list is evaluated in batch order, then the cheap ScriptRef subset
// of every assert list. A HardFailure anywhere aborts the whole batch; soft
// failures are recorded and the script stays in the returned eligible set,
// to be skipped at execution time. When two files share an id the first one
// wins; later duplicates are dropped with a warning.
func (o *Orchestrator) PreRunCheck(ctx context.Context, files []*script.File) (Table, []*script.File, error) {
	logger := ctxlog.FromContext(ctx)
	table := Table{}

	survivors := make([]*script.File, 0, len(files))
	for _, f := range files {
		id := f.ID()
		if _, seen := table[id]; seen {
			logger.Warn("duplicate script id, keeping earlier file", "script", id, "path", f.Path)
			continue
		}

		outcome, err := dependency.CheckAll(ctxlog.With(ctx, "script", id), f.Require, f.Env, o.opts, table)
		if err != nil {
			return nil, nil, fmt.Errorf("script %q: %w", id, err)
		}
		if outcome == dependency.HardFailure {
			return nil, nil, &DepCheckError{ID: id}
		}
		table[id] = outcome
		survivors = append(survivors, f)
	}

	for _, f := range survivors {
		id := f.ID()
		refs := scriptRefs(f.Assert)
		if len(refs) == 0 {
			continue
		}

		outcome, err := dependency.CheckAll(ctxlog.With(ctx, "script", id), refs, f.Env, o.opts, table)
		if err != nil {
			return nil, nil, fmt.Errorf("script %q: %w", id, err)
		}
		if outcome == dependency.HardFailure {
			return nil, nil, &DepCheckError{ID: id}
		}
	}

	return table, survivors, nil
}

// scriptRefs filters a dependency list down to its ScriptRef entries, the
// only kind cheap and side-effect free enough to pre-validate.
func scriptRefs(deps []dependency.Dependency) []dependency.Dependency {
	var refs []dependency.Dependency
	for _, dep := range deps {
		if _, ok := dep.Kind.(*dependency.ScriptRef); ok {
			refs = append(refs, dep)
		}
	}
	return refs
}

// Run executes a single script file. The complete assert list is evaluated
// now, combined with the pre-run outcome recorded in the table. SoftFailure
// skips the script and is a normal return value; HardFailure and exec
// failures abort with an error naming the script.
func (o *Orchestrator) Run(ctx context.Context, f *script.File, table Table) (dependency.Outcome, error) {
	id := f.ID()
	ctx = ctxlog.With(ctx, "script", id)
	logger := ctxlog.FromContext(ctx)

	prior, ok := table[id]
	if !ok {
		// The file never went through PreRunCheck; this is a bug in the
		// caller, not in the script set.
		return dependency.HardFailure, &MissingOutcomeError{ID: id}
	}

	outcome, err := dependency.CheckAll(ctx, f.Assert, f.Env, o.opts, table)
	if err != nil {
		return dependency.HardFailure, fmt.Errorf("script %q: %w", id, err)
	}

	switch combined := dependency.Combine(prior, outcome); combined {
	case dependency.HardFailure:
		return combined, &DepCheckError{ID: id}
	case dependency.SoftFailure:
		logger.Info("skipping script, a soft dependency failed")
		return combined, nil
	}

	var steps []command.Spec
	if f.Script.Exec != nil {
		steps = append(steps, f.Script.Exec)
	}
	steps = append(steps, f.Synced...)

	for _, spec := range steps {
		status, err := command.Run(ctx, spec, f.Env, o.opts)
		if err != nil {
			return dependency.HardFailure, fmt.Errorf("script %q: %w", id, err)
		}
		if !status.Success() {
			return dependency.HardFailure, &ExitStatusError{ID: id, Status: status}
		}
	}

	if len(f.Parallel) > 0 {
		// The first non-zero exit cancels the group context, which kills
		// the sibling processes still in flight.
		g, gctx := errgroup.WithContext(ctx)
		for _, spec := range f.Parallel {
			spec := spec
			g.Go(func() error {
				status, err := command.Run(gctx, spec, f.Env, o.opts)
				if err != nil {
					return fmt.Errorf("script %q: %w", id, err)
				}
				if !status.Success() {
					return &ExitStatusError{ID: id, Status: status}
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return dependency.HardFailure, err
		}
	}

	logger.Debug("script finished")
	return dependency.Success, nil
}

// RunAll performs pre-run validation once, then executes the surviving
// scripts sequentially in their original order. Each completed outcome is
// recorded before the next script starts, so later ScriptRef dependencies
// observe true run-time results rather than pre-run eligibility. The first
// fatal error stops the batch; earlier scripts are not rolled back.
func (o *Orchestrator) RunAll(ctx context.Context, files []*script.File) (Table, error) {
	table, survivors, err := o.PreRunCheck(ctx, files)
	if err != nil {
		return nil, err
	}

	for _, f := range survivors {
		outcome, err := o.Run(ctx, f, table)
		if err != nil {
			return table, err
		}
		table[f.ID()] = outcome
	}

	return table, nil
}
