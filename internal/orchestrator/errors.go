package orchestrator

import (
	"fmt"

	"github.com/axel-lord/spel-katalog-script/internal/command"
)

// DepCheckError reports a script whose dependency checks ended in
// HardFailure, aborting the whole batch.
type DepCheckError struct {
	ID string
}

// Error implements the error interface for DepCheckError.
func (e *DepCheckError) Error() string {
	return fmt.Sprintf("dependency check failed for script %q", e.ID)
}

// ExitStatusError reports a script's own executable or post-step exiting
// non-zero, aborting the whole batch.
type ExitStatusError struct {
	ID     string
	Status command.Status
}

// Error implements the error interface for ExitStatusError.
func (e *ExitStatusError) Error() string {
	return fmt.Sprintf("script %q failed with %s", e.ID, e.Status)
}

// MissingOutcomeError reports a script reaching execution without a
// recorded pre-run outcome. It indicates an orchestration bug, not a
// malformed script set.
type MissingOutcomeError struct {
	ID string
}

// Error implements the error interface for MissingOutcomeError.
func (e *MissingOutcomeError) Error() string {
	return fmt.Sprintf("no pre-run outcome recorded for script %q", e.ID)
}
