package command

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/axel-lord/spel-katalog-script/internal/environ"
)

// DefaultTimeout is the wall-clock limit applied to a spawned process when
// the caller does not configure one.
const DefaultTimeout = 30 * time.Second

// Stdio names the standard streams handed to a spawned process. A nil field
// inherits the corresponding parent stream, so the zero value inherits
// everything. The surrounding application swaps these to capture output;
// this core never captures anything itself.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

func (s Stdio) in() io.Reader {
	if s.In != nil {
		return s.In
	}
	return os.Stdin
}

func (s Stdio) out() io.Writer {
	if s.Out != nil {
		return s.Out
	}
	return os.Stdout
}

func (s Stdio) err() io.Writer {
	if s.Err != nil {
		return s.Err
	}
	return os.Stderr
}

// Options configure how a Spec is spawned.
type Options struct {
	// Timeout limits the wall-clock runtime of the process. Zero means
	// DefaultTimeout.
	Timeout time.Duration

	// Stdio are the standard streams for the process.
	Stdio Stdio
}

func (o Options) timeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	return DefaultTimeout
}

// Status is the exit status of a finished process.
type Status struct {
	Code int
}

// Success reports whether the process exited with status zero.
func (s Status) Success() bool { return s.Code == 0 }

// String implements fmt.Stringer.
func (s Status) String() string {
	return "exit status " + strconv.Itoa(s.Code)
}

// Run spawns the process described by spec under the given environment
// overlay and waits for it to finish. On timeout or context cancellation the
// child is killed before Run returns; no process outlives the call.
func Run(ctx context.Context, spec Spec, env *environ.Set, opts Options) (Status, error) {
	path, args := spec.argv()

	cmd := exec.Command(path, args...)
	cmd.Env = env.Apply(os.Environ())
	cmd.Stdin = opts.Stdio.in()
	cmd.Stdout = opts.Stdio.out()
	cmd.Stderr = opts.Stdio.err()

	if err := cmd.Start(); err != nil {
		return Status{}, &SpawnError{Err: err}
	}

	timeout := opts.timeout()
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	select {
	case err := <-waitCh:
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				return Status{Code: exitErr.ExitCode()}, nil
			}
			return Status{}, &WaitError{Err: err}
		}
		return Status{}, nil

	case <-timer.C:
		if err := cmd.Process.Kill(); err != nil {
			return Status{}, &KillError{Err: err}
		}
		<-waitCh // reap
		return Status{}, &TimeoutError{Timeout: timeout}

	case <-ctx.Done():
		if err := cmd.Process.Kill(); err != nil {
			return Status{}, &KillError{Err: err}
		}
		<-waitCh // reap
		return Status{}, ctx.Err()
	}
}
