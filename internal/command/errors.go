package command

import (
	"fmt"
	"time"
)

// SpawnError reports that a process could not be started at all.
type SpawnError struct {
	Err error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("process could not be spawned: %v", e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// WaitError reports a failure while waiting for a running process.
type WaitError struct {
	Err error
}

func (e *WaitError) Error() string {
	return fmt.Sprintf("process could not be waited on: %v", e.Err)
}

func (e *WaitError) Unwrap() error { return e.Err }

// KillError reports that a process which had to be terminated could not be
// killed.
type KillError struct {
	Err error
}

func (e *KillError) Error() string {
	return fmt.Sprintf("process could not be killed: %v", e.Err)
}

func (e *KillError) Unwrap() error { return e.Err }

// TimeoutError reports a process exceeding its wall-clock timeout. The
// process has already been killed when this error is returned.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("process did not finish within %s", e.Timeout)
}
