// Package tui is the operator-facing side of srvmaint: coloured status lines,
// line prompts, the project selectors and the main menu.
package tui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

// ErrCancelled is returned when the operator declines or aborts a prompt.
var ErrCancelled = errors.New("cancelled by operator")

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	successColor = color.New(color.FgGreen, color.Bold)
	warnColor    = color.New(color.FgYellow)
	failureColor = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
)

type Tui struct {
	in     *bufio.Reader
	out    io.Writer
	logger *slog.Logger
}

func NewTui(in io.Reader, out io.Writer, logger *slog.Logger) *Tui {
	return &Tui{
		in:     bufio.NewReader(in),
		out:    out,
		logger: logger,
	}
}

func (t *Tui) Out() io.Writer {
	return t.out
}

func (t *Tui) Header(title string) {
	fmt.Fprintf(t.out, "\n%s\n", titleStyle.Render(title))
}

func (t *Tui) Subtle(format string, args ...any) {
	fmt.Fprintln(t.out, subtleStyle.Render(fmt.Sprintf(format, args...)))
}

func (t *Tui) Info(format string, args ...any) {
	fmt.Fprintln(t.out, infoColor.Sprintf(format, args...))
}

func (t *Tui) Success(format string, args ...any) {
	fmt.Fprintln(t.out, successColor.Sprint("✔ ")+fmt.Sprintf(format, args...))
}

func (t *Tui) Warn(format string, args ...any) {
	fmt.Fprintln(t.out, warnColor.Sprint("! ")+fmt.Sprintf(format, args...))
}

func (t *Tui) Failure(format string, args ...any) {
	fmt.Fprintln(t.out, failureColor.Sprint("✘ ")+fmt.Sprintf(format, args...))
}
