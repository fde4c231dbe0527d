package tui

import (
	"errors"
	"strings"

	"github.com/syrm/srvmaint/docker"
	"github.com/syrm/srvmaint/dto"
)

// ConsoleReporter prints fleet progress for the operator.
type ConsoleReporter struct {
	tui *Tui
}

func NewConsoleReporter(t *Tui) *ConsoleReporter {
	return &ConsoleReporter{tui: t}
}

func (r *ConsoleReporter) NothingToUpdate() {
	r.tui.Warn("No running compose projects found, nothing to update.")
}

func (r *ConsoleReporter) Updating(project dto.ManagedProject, index, total int) {
	r.tui.Info("[%d/%d] Updating %s (%s)", index, total, project.Name, project.WorkingDirectory)
}

func (r *ConsoleReporter) Finished(outcome dto.UpdateOutcome) {
	if outcome.Succeeded() {
		r.tui.Success("%s updated", outcome.Project.Name)
		return
	}

	r.tui.Failure("%s failed at %s: %v", outcome.Project.Name, outcome.Step, outcome.Err)

	var stepErr *docker.StepError
	if errors.As(outcome.Err, &stepErr) && strings.TrimSpace(stepErr.Output) != "" {
		for _, line := range strings.Split(strings.TrimSpace(stepErr.Output), "\n") {
			r.tui.Subtle("    %s", line)
		}
	}
}

func (r *ConsoleReporter) Summary(report dto.UpdateReport) {
	if report.Failed() == 0 {
		r.tui.Success("%d of %d projects updated", report.Succeeded(), len(report.Outcomes))
		return
	}

	r.tui.Failure("%d of %d projects updated, %d failed", report.Succeeded(), len(report.Outcomes), report.Failed())
}
