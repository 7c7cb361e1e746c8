// Package command models the executables a script file can reference and
// runs them as real processes with an environment overlay, a wall-clock
// timeout and swappable standard streams.
package command

import (
	"errors"
	"fmt"

	"github.com/kballard/go-shellquote"
)

// ErrEmptyCommand is returned when a shell line splits into zero words.
var ErrEmptyCommand = errors.New("a command needs at least one word")

// Spec is one external command a script file can name: either a shell-style
// command line or an explicit program plus argument list. The set of
// implementations is closed.
type Spec interface {
	// argv resolves the binary and its arguments.
	argv() (path string, args []string)

	// VisitStrings exposes every parsed string value to fn.
	VisitStrings(fn func(*string) error) error
}

// Cmd is a command line split into words using POSIX shell-word rules.
type Cmd struct {
	Words []string
}

// ParseCmd splits a shell-style command line. An empty result is a
// construction error, not a runtime one.
func ParseCmd(line string) (*Cmd, error) {
	words, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("split command line: %w", err)
	}
	if len(words) == 0 {
		return nil, ErrEmptyCommand
	}
	return &Cmd{Words: words}, nil
}

// String joins the words back into a shell line. Parsing the result yields
// the same words again.
func (c *Cmd) String() string {
	return shellquote.Join(c.Words...)
}

func (c *Cmd) argv() (string, []string) {
	return c.Words[0], c.Words[1:]
}

// VisitStrings exposes every word to fn.
func (c *Cmd) VisitStrings(fn func(*string) error) error {
	for i := range c.Words {
		if err := fn(&c.Words[i]); err != nil {
			return err
		}
	}
	return nil
}

// Program is an explicit binary plus argument list, spawned without any
// shell-word splitting.
type Program struct {
	Exec string
	Args []string
}

func (p *Program) argv() (string, []string) {
	return p.Exec, p.Args
}

// VisitStrings exposes the binary path and every argument to fn.
func (p *Program) VisitStrings(fn func(*string) error) error {
	if err := fn(&p.Exec); err != nil {
		return err
	}
	for i := range p.Args {
		if err := fn(&p.Args[i]); err != nil {
			return err
		}
	}
	return nil
}
