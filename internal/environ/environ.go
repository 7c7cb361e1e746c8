// Package environ describes environment-variable overlays applied to
// processes spawned for a script file.
package environ

import (
	"fmt"
	"slices"
	"strings"
)

// KeyError reports an environment variable name that cannot be represented
// in a key=value environment list.
type KeyError struct {
	Key string
}

// Error implements the error interface for KeyError.
func (e *KeyError) Error() string {
	return fmt.Sprintf("environment key %q may not contain '='", e.Key)
}

// ValidateKey rejects variable names containing '='. Validation happens at
// construction time; Apply never fails.
func ValidateKey(key string) error {
	if strings.Contains(key, "=") {
		return &KeyError{Key: key}
	}
	return nil
}

// Set describes how the inherited environment should be changed before a
// process is spawned. The zero value (and a nil pointer) changes nothing.
type Set struct {
	// Vars are set last, overwriting inherited values.
	Vars map[string]string

	// Unset names variables removed from the inherited environment. When
	// UnsetAll is set these entries are redundant but harmless.
	Unset []string

	// UnsetAll discards the whole inherited environment.
	UnsetAll bool
}

// SetVar records a variable after validating its name.
func (s *Set) SetVar(key, value string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if s.Vars == nil {
		s.Vars = make(map[string]string)
	}
	s.Vars[key] = value
	return nil
}

// UnsetVar records a variable for removal after validating its name.
func (s *Set) UnsetVar(key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	s.Unset = append(s.Unset, key)
	return nil
}

// Apply builds the environment for a spawned process from the inherited
// key=value list. Removals happen before the overlay's own variables are
// set, and the overlay entries are appended in sorted order so the result
// is deterministic.
func (s *Set) Apply(base []string) []string {
	if s == nil {
		return slices.Clone(base)
	}

	dropped := make(map[string]bool, len(s.Unset)+len(s.Vars))
	for _, key := range s.Unset {
		dropped[key] = true
	}
	// Inherited copies of overlaid variables are dropped too; the overlay
	// value is appended below.
	for key := range s.Vars {
		dropped[key] = true
	}

	var env []string
	if !s.UnsetAll {
		env = make([]string, 0, len(base)+len(s.Vars))
		for _, entry := range base {
			name, _, _ := strings.Cut(entry, "=")
			if dropped[name] {
				continue
			}
			env = append(env, entry)
		}
	} else {
		env = make([]string, 0, len(s.Vars))
	}

	keys := make([]string, 0, len(s.Vars))
	for key := range s.Vars {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		env = append(env, key+"="+s.Vars[key])
	}

	return env
}

// VisitStrings exposes every parsed string value to fn. Variable names are
// deliberately not visited; only their values are.
func (s *Set) VisitStrings(fn func(*string) error) error {
	if s == nil {
		return nil
	}
	for key, value := range s.Vars {
		if err := fn(&value); err != nil {
			return err
		}
		s.Vars[key] = value
	}
	return nil
}
