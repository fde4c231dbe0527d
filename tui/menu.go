package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

type MenuItem struct {
	Label  string
	Action func(ctx context.Context) error
}

// Menu is the main loop: show the actions, run the chosen one, repeat until
// exit or end of input.
type Menu struct {
	tui    *Tui
	title  string
	items  []MenuItem
	logger *slog.Logger
}

func NewMenu(t *Tui, title string, items []MenuItem, logger *slog.Logger) *Menu {
	return &Menu{
		tui:    t,
		title:  title,
		items:  items,
		logger: logger,
	}
}

func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.render()

		answer, err := m.tui.Ask("Choose an action")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch strings.ToLower(answer) {
		case "0", "q", "quit", "exit":
			return nil
		}

		n, err := strconv.Atoi(answer)
		if err != nil || n < 1 || n > len(m.items) {
			m.tui.Warn("invalid choice %q", answer)
			continue
		}

		m.dispatch(ctx, m.items[n-1])
	}
}

func (m *Menu) render() {
	m.tui.Header(m.title)

	width := len(strconv.Itoa(len(m.items)))
	for i, item := range m.items {
		fmt.Fprintf(m.tui.out, "  %*d) %s\n", width, i+1, item.Label)
	}
	fmt.Fprintf(m.tui.out, "  %*d) Exit\n", width, 0)
}

func (m *Menu) dispatch(ctx context.Context, item MenuItem) {
	m.logger.InfoContext(ctx, "menu action", slog.String("action", item.Label))

	err := item.Action(ctx)
	switch {
	case err == nil:
		m.tui.Success("%s: done", item.Label)
	case errors.Is(err, ErrCancelled), errors.Is(err, io.EOF):
		m.tui.Warn("%s: cancelled", item.Label)
	default:
		m.logger.ErrorContext(ctx, "menu action failed", slog.String("action", item.Label), slog.Any("error", err))
		m.tui.Failure("%s: %v", item.Label, err)
	}
}
