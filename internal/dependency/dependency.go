package dependency

import (
	"context"
	"fmt"
	"regexp"
	"slices"

	"github.com/axel-lord/spel-katalog-script/internal/command"
	"github.com/axel-lord/spel-katalog-script/internal/ctxlog"
	"github.com/axel-lord/spel-katalog-script/internal/environ"
)

// Resolver looks up the recorded outcome of a previously processed script.
// The orchestrator's outcome table implements it.
type Resolver interface {
	OutcomeOf(id string) (Outcome, bool)
}

// Kind is one condition of the closed set a dependency can express. A kind
// is a pure function of its fields plus external state: prior outcomes for
// ScriptRef, process execution for ExecCheck.
type Kind interface {
	// eval reports whether the condition holds. reason describes a failed
	// condition for logging. A non-nil error means the check could not be
	// performed at all and the batch is malformed.
	eval(ctx context.Context, env *environ.Set, opts command.Options, prior Resolver) (ok bool, reason string, err error)

	// VisitStrings exposes every parsed string value to fn.
	VisitStrings(fn func(*string) error) error
}

// Dependency pairs a condition with its severity policy. A failed condition
// downgrades to SoftFailure when Try is set, and escalates to HardFailure
// otherwise.
type Dependency struct {
	Kind Kind
	Try  bool
}

// Check evaluates the dependency. A failed condition is a legitimate
// Outcome; an error means the condition could not be evaluated and the
// whole batch is malformed.
func (d Dependency) Check(ctx context.Context, env *environ.Set, opts command.Options, prior Resolver) (Outcome, error) {
	ok, reason, err := d.Kind.eval(ctx, env, opts, prior)
	if err != nil {
		return HardFailure, err
	}
	if ok {
		return Success, nil
	}

	logger := ctxlog.FromContext(ctx)
	if d.Try {
		logger.Info(reason)
		return SoftFailure, nil
	}
	logger.Error(reason)
	return HardFailure, nil
}

// VisitStrings exposes every parsed string value to fn.
func (d Dependency) VisitStrings(fn func(*string) error) error {
	return d.Kind.VisitStrings(fn)
}

// ScriptRef depends on another script's recorded outcome.
type ScriptRef struct {
	ID string
}

func (k *ScriptRef) eval(ctx context.Context, env *environ.Set, opts command.Options, prior Resolver) (bool, string, error) {
	outcome, ok := prior.OutcomeOf(k.ID)
	if !ok {
		return false, "", &MissingDependencyError{ID: k.ID}
	}
	if outcome == Success {
		return true, "", nil
	}
	return false, fmt.Sprintf("script dependency %q did not succeed", k.ID), nil
}

// VisitStrings exposes the referenced id to fn.
func (k *ScriptRef) VisitStrings(fn func(*string) error) error {
	return fn(&k.ID)
}

// ExecCheck depends on an executable exiting with status zero.
type ExecCheck struct {
	Spec command.Spec
}

func (k *ExecCheck) eval(ctx context.Context, env *environ.Set, opts command.Options, prior Resolver) (bool, string, error) {
	status, err := command.Run(ctx, k.Spec, env, opts)
	if err != nil {
		return false, "", fmt.Errorf("dependency exec: %w", err)
	}
	if status.Success() {
		return true, "", nil
	}
	return false, fmt.Sprintf("dependency exec failed: %s", status), nil
}

// VisitStrings exposes the executable's strings to fn.
func (k *ExecCheck) VisitStrings(fn func(*string) error) error {
	return k.Spec.VisitStrings(fn)
}

// Equals depends on every value in a list being identical. An empty list
// holds trivially.
type Equals struct {
	Values []string
}

func (k *Equals) eval(ctx context.Context, env *environ.Set, opts command.Options, prior Resolver) (bool, string, error) {
	if allEqual(k.Values) {
		return true, "", nil
	}
	return false, fmt.Sprintf("equality check failed, values: %q", k.Values), nil
}

// VisitStrings exposes every value to fn.
func (k *Equals) VisitStrings(fn func(*string) error) error {
	return visitSlice(k.Values, fn)
}

// NotEquals is the exact inverse of Equals: it holds when the values are
// not all identical. Empty and single-element lists fail it.
type NotEquals struct {
	Values []string
}

func (k *NotEquals) eval(ctx context.Context, env *environ.Set, opts command.Options, prior Resolver) (bool, string, error) {
	if !allEqual(k.Values) {
		return true, "", nil
	}
	return false, fmt.Sprintf("inequality check failed, values: %q", k.Values), nil
}

// VisitStrings exposes every value to fn.
func (k *NotEquals) VisitStrings(fn func(*string) error) error {
	return visitSlice(k.Values, fn)
}

// In depends on every value being a member of the collection.
type In struct {
	Values     []string
	Collection []string
}

func (k *In) eval(ctx context.Context, env *environ.Set, opts command.Options, prior Resolver) (bool, string, error) {
	collection := dedupSorted(k.Collection)
	for _, value := range dedupSorted(k.Values) {
		if _, found := slices.BinarySearch(collection, value); !found {
			return false, fmt.Sprintf("value %q not in collection %q", value, collection), nil
		}
	}
	return true, "", nil
}

// VisitStrings exposes every value and collection entry to fn.
func (k *In) VisitStrings(fn func(*string) error) error {
	if err := visitSlice(k.Values, fn); err != nil {
		return err
	}
	return visitSlice(k.Collection, fn)
}

// Match depends on every value matching a regular expression. A pattern
// that does not compile is a fatal error, not a failed check.
type Match struct {
	Values      []string
	Pattern     string
	Insensitive bool
}

func (k *Match) eval(ctx context.Context, env *environ.Set, opts command.Options, prior Resolver) (bool, string, error) {
	pattern := k.Pattern
	if k.Insensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, "", fmt.Errorf("dependency pattern: %w", err)
	}
	for _, value := range k.Values {
		if !re.MatchString(value) {
			return false, fmt.Sprintf("pattern /%s/ did not match %q", k.Pattern, value), nil
		}
	}
	return true, "", nil
}

// VisitStrings exposes the pattern and every value to fn.
func (k *Match) VisitStrings(fn func(*string) error) error {
	if err := fn(&k.Pattern); err != nil {
		return err
	}
	return visitSlice(k.Values, fn)
}

func allEqual(values []string) bool {
	for _, v := range values {
		if v != values[0] {
			return false
		}
	}
	return true
}

func dedupSorted(values []string) []string {
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}

func visitSlice(values []string, fn func(*string) error) error {
	for i := range values {
		if err := fn(&values[i]); err != nil {
			return err
		}
	}
	return nil
}
