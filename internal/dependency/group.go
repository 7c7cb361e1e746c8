package dependency

import (
	"context"

	"github.com/axel-lord/spel-katalog-script/internal/command"
	"github.com/axel-lord/spel-katalog-script/internal/environ"
)

// CheckAll evaluates every dependency in the list concurrently and combines
// the results by severity. There is no ordering guarantee within the list,
// but the first HardFailure or fatal error observed stops the wait and
// cancels the checks still in flight, killing any processes they spawned.
func CheckAll(ctx context.Context, deps []Dependency, env *environ.Set, opts command.Options, prior Resolver) (Outcome, error) {
	if len(deps) == 0 {
		return Success, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		outcome Outcome
		err     error
	}
	// Buffered so stragglers can finish after an early return.
	results := make(chan result, len(deps))

	for _, dep := range deps {
		go func(dep Dependency) {
			outcome, err := dep.Check(ctx, env, opts, prior)
			results <- result{outcome: outcome, err: err}
		}(dep)
	}

	combined := Success
	for range deps {
		res := <-results
		if res.err != nil {
			return HardFailure, res.err
		}
		combined = Combine(combined, res.outcome)
		if combined == HardFailure {
			return HardFailure, nil
		}
	}
	return combined, nil
}
