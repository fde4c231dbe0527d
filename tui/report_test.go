package tui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syrm/srvmaint/docker"
	"github.com/syrm/srvmaint/dto"
)

func TestConsoleReporter(t *testing.T) {
	tui, out := newTestTui("")
	r := NewConsoleReporter(tui)
	projects := testProjects()

	failure := &docker.StepError{
		Step:   dto.StepRecreate,
		Dir:    "/opt/stacks/app1",
		Output: "Error response from daemon:\nport is already allocated",
		Err:    errors.New("exit status 1"),
	}

	report := dto.UpdateReport{State: dto.StateDone, Outcomes: []dto.UpdateOutcome{
		dto.Failed(projects[0], dto.StepRecreate, failure),
		dto.Succeeded(projects[1]),
	}}

	r.Updating(projects[0], 1, 2)
	r.Finished(report.Outcomes[0])
	r.Updating(projects[1], 2, 2)
	r.Finished(report.Outcomes[1])
	r.Summary(report)

	rendered := out.String()
	assert.Contains(t, rendered, "[1/2] Updating app1 (/opt/stacks/app1)")
	assert.Contains(t, rendered, "app1 failed at recreate")
	assert.Contains(t, rendered, "    port is already allocated")
	assert.Contains(t, rendered, "app2 updated")
	assert.Contains(t, rendered, "1 of 2 projects updated, 1 failed")
}

func TestConsoleReporterNothingToUpdate(t *testing.T) {
	tui, out := newTestTui("")
	NewConsoleReporter(tui).NothingToUpdate()
	assert.Contains(t, out.String(), "nothing to update")
}
