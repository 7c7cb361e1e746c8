package dependency

import "fmt"

// MissingDependencyError reports a ScriptRef naming a script with no
// recorded outcome. It means the batch itself is malformed (the reference
// points forward or nowhere), not that a check legitimately failed.
type MissingDependencyError struct {
	ID string
}

// Error implements the error interface for MissingDependencyError.
func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("no outcome recorded for script %q", e.ID)
}
