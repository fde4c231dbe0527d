package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/syrm/srvmaint/dto"
	"github.com/syrm/srvmaint/fleet"
)

// ProjectSelector asks for a plan on a numbered list, re-prompting until the
// answer is valid. End of input cancels.
type ProjectSelector struct {
	tui *Tui
}

func NewProjectSelector(t *Tui) *ProjectSelector {
	return &ProjectSelector{tui: t}
}

func (s *ProjectSelector) Select(ctx context.Context, projects []dto.ManagedProject) (dto.UpdatePlan, error) {
	s.render(projects)

	for {
		if err := ctx.Err(); err != nil {
			return dto.Cancelled(), err
		}

		answer, err := s.tui.Ask("Select a project, a for all, c to cancel")
		if errors.Is(err, io.EOF) {
			return dto.Cancelled(), nil
		}
		if err != nil {
			return dto.Cancelled(), err
		}

		plan, err := parseSelection(answer, projects)
		if err != nil {
			s.tui.Warn("%v", err)
			continue
		}

		return plan, nil
	}
}

func (s *ProjectSelector) render(projects []dto.ManagedProject) {
	s.tui.Header("Running compose projects")

	width := len(strconv.Itoa(len(projects)))
	for i, p := range projects {
		fmt.Fprintf(s.tui.out, "  %*d) %-20s %s\n", width, i+1, p.Name, s.describe(p))
	}
	fmt.Fprintf(s.tui.out, "  %*s) update all\n", width, "a")
	fmt.Fprintf(s.tui.out, "  %*s) cancel\n", width, "c")
}

func (s *ProjectSelector) describe(p dto.ManagedProject) string {
	return subtleStyle.Render(fmt.Sprintf("%s (%d running)", p.WorkingDirectory, p.ContainersRunning))
}

func parseSelection(answer string, projects []dto.ManagedProject) (dto.UpdatePlan, error) {
	answer = strings.TrimSpace(answer)

	switch strings.ToLower(answer) {
	case "":
		return dto.Cancelled(), errors.New("no selection")
	case "a", "all":
		return dto.AllProjects(), nil
	case "c", "cancel", "q", "quit":
		return dto.Cancelled(), nil
	}

	if n, err := strconv.Atoi(answer); err == nil {
		if n < 1 || n > len(projects) {
			return dto.Cancelled(), fmt.Errorf("%d is out of range, pick 1-%d", n, len(projects))
		}
		return dto.SingleProject(projects[n-1]), nil
	}

	project, err := fleet.FindProject(projects, answer)
	if err != nil {
		return dto.Cancelled(), err
	}

	return dto.SingleProject(project), nil
}
