package system

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/mgutz/str"
)

// Command is one external program invocation.
type Command struct {
	Name  string
	Args  []string
	Dir   string
	Env   []string
	Stdin io.Reader
	// Sensitive hides the arguments from logs and errors.
	Sensitive bool
}

func NewCommand(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// ParseCommand splits a command template such as "docker compose" into argv.
func ParseCommand(s string, extra ...string) Command {
	argv := str.ToArgv(s)
	if len(argv) == 0 {
		return Command{Args: extra}
	}

	return Command{Name: argv[0], Args: append(argv[1:], extra...)}
}

func (c Command) InDir(dir string) Command {
	c.Dir = dir
	return c
}

func (c Command) WithEnv(env ...string) Command {
	c.Env = append(append([]string{}, c.Env...), env...)
	return c
}

func (c Command) String() string {
	if c.Sensitive {
		return c.Name + " [redacted]"
	}

	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner runs commands and returns their combined output.
type Runner interface {
	Run(ctx context.Context, cmd Command) (string, error)
	LookPath(name string) (string, error)
}

type CommandError struct {
	Command  string
	ExitCode int
	Output   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Command, e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + lastLines(out, 5)
	}

	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

func lastLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}

	return strings.Join(lines, "\n")
}

// ExecRunner runs commands on the local host. When Output is set the command
// output is streamed to it as well as captured.
type ExecRunner struct {
	Output io.Writer
	logger *slog.Logger
}

func NewExecRunner(output io.Writer, logger *slog.Logger) *ExecRunner {
	return &ExecRunner{Output: output, logger: logger}
}

func (r *ExecRunner) Run(ctx context.Context, cmd Command) (string, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdin = cmd.Stdin
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	var buf bytes.Buffer
	var w io.Writer = &buf
	if r.Output != nil {
		w = io.MultiWriter(&buf, r.Output)
	}
	c.Stdout = w
	c.Stderr = w

	r.logger.DebugContext(ctx, "running command", slog.String("command", cmd.String()), slog.String("dir", cmd.Dir))

	err := c.Run()
	output := buf.String()
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}

		r.logger.ErrorContext(ctx, "command failed",
			slog.String("command", cmd.String()),
			slog.Int("exit_code", exitCode),
			slog.Any("error", err),
		)

		return output, &CommandError{Command: cmd.String(), ExitCode: exitCode, Output: output, Err: err}
	}

	return output, nil
}

func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// DryRunRunner prints commands instead of running them.
type DryRunRunner struct {
	out    io.Writer
	logger *slog.Logger
}

func NewDryRunRunner(out io.Writer, logger *slog.Logger) *DryRunRunner {
	return &DryRunRunner{out: out, logger: logger}
}

func (r *DryRunRunner) Run(ctx context.Context, cmd Command) (string, error) {
	line := cmd.String()
	if cmd.Dir != "" {
		line = "(cd " + cmd.Dir + " && " + line + ")"
	}

	r.logger.InfoContext(ctx, "dry-run command", slog.String("command", cmd.String()), slog.String("dir", cmd.Dir))
	_, err := fmt.Fprintf(r.out, "[dry-run] %s\n", line)

	return "", err
}

func (r *DryRunRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
