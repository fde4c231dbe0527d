// Package systemtest provides a recording system.Runner for tests.
package systemtest

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"sync"

	"github.com/syrm/srvmaint/system"
)

// Runner records every command and answers from Handler, if set.
type Runner struct {
	Handler func(cmd system.Command) (string, error)
	// Paths lists the binaries LookPath finds.
	Paths map[string]string

	mu       sync.Mutex
	commands []system.Command
}

func (r *Runner) Run(_ context.Context, cmd system.Command) (string, error) {
	r.mu.Lock()
	r.commands = append(r.commands, cmd)
	r.mu.Unlock()

	if r.Handler == nil {
		return "", nil
	}

	return r.Handler(cmd)
}

func (r *Runner) LookPath(name string) (string, error) {
	if path, ok := r.Paths[name]; ok {
		return path, nil
	}

	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

func (r *Runner) Commands() []system.Command {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]system.Command(nil), r.commands...)
}

// Lines returns the recorded commands as "dir$ name args" strings.
func (r *Runner) Lines() []string {
	var lines []string
	for _, cmd := range r.Commands() {
		line := cmd.String()
		if cmd.Dir != "" {
			line = cmd.Dir + "$ " + line
		}
		lines = append(lines, line)
	}

	return lines
}

// Fail builds a CommandError the way ExecRunner would.
func Fail(cmd system.Command, output string) error {
	return &system.CommandError{
		Command:  cmd.String(),
		ExitCode: 1,
		Output:   output,
		Err:      errors.New("exit status 1"),
	}
}

// Matches reports whether cmd's command line contains every fragment.
func Matches(cmd system.Command, fragments ...string) bool {
	line := cmd.String()
	for _, f := range fragments {
		if !strings.Contains(line, f) {
			return false
		}
	}

	return true
}
