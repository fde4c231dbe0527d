// Package fleet updates the compose projects running on the host: it discovers
// them, asks which ones to update and re-applies each one in turn.
package fleet

import (
	"context"
	"errors"
	"log/slog"

	"github.com/syrm/srvmaint/docker"
	"github.com/syrm/srvmaint/dto"
)

type Discoverer interface {
	DiscoverProjects(ctx context.Context) ([]dto.ManagedProject, error)
}

// Composer applies a project's declared state.
type Composer interface {
	Locate(ctx context.Context, project dto.ManagedProject) error
	Pull(ctx context.Context, project dto.ManagedProject) error
	Recreate(ctx context.Context, project dto.ManagedProject) error
}

// Selector turns a non-empty project list into a plan.
type Selector interface {
	Select(ctx context.Context, projects []dto.ManagedProject) (dto.UpdatePlan, error)
}

// Reporter is told about progress as it happens.
type Reporter interface {
	NothingToUpdate()
	Updating(project dto.ManagedProject, index, total int)
	Finished(outcome dto.UpdateOutcome)
	Summary(report dto.UpdateReport)
}

type Updater struct {
	discoverer Discoverer
	composer   Composer
	reporter   Reporter
	state      dto.RunState
	logger     *slog.Logger
}

func NewUpdater(discoverer Discoverer, composer Composer, reporter Reporter, logger *slog.Logger) *Updater {
	if reporter == nil {
		reporter = NopReporter{}
	}

	return &Updater{
		discoverer: discoverer,
		composer:   composer,
		reporter:   reporter,
		state:      dto.StateIdle,
		logger:     logger,
	}
}

func (u *Updater) State() dto.RunState {
	return u.state
}

func (u *Updater) transition(ctx context.Context, next dto.RunState) {
	u.logger.DebugContext(ctx, "fleet state", slog.String("from", string(u.state)), slog.String("to", string(next)))
	u.state = next
}

func (u *Updater) DiscoverProjects(ctx context.Context) ([]dto.ManagedProject, error) {
	return u.discoverer.DiscoverProjects(ctx)
}

// PresentSelection asks selector for a plan. On error the plan is Cancelled.
func (u *Updater) PresentSelection(ctx context.Context, selector Selector, projects []dto.ManagedProject) (dto.UpdatePlan, error) {
	plan, err := selector.Select(ctx, projects)
	if err != nil {
		u.logger.WarnContext(ctx, "selection aborted", slog.Any("error", err))
		return dto.Cancelled(), err
	}

	u.logger.InfoContext(ctx, "plan selected", slog.String("plan", plan.Kind.String()), slog.String("project", plan.Project.Name))

	return plan, nil
}

// ApplyUpdate locates, pulls and recreates one project, in that order.
func (u *Updater) ApplyUpdate(ctx context.Context, project dto.ManagedProject) dto.UpdateOutcome {
	steps := []struct {
		step dto.Step
		fn   func(context.Context, dto.ManagedProject) error
	}{
		{dto.StepLocate, u.composer.Locate},
		{dto.StepPull, u.composer.Pull},
		{dto.StepRecreate, u.composer.Recreate},
	}

	for _, s := range steps {
		if err := s.fn(ctx, project); err != nil {
			u.logger.ErrorContext(ctx, "project update failed",
				slog.String("working_dir", project.WorkingDirectory),
				slog.String("step", string(s.step)),
				slog.Any("error", err),
			)

			return dto.Failed(project, stepOf(err, s.step), err)
		}
	}

	u.logger.InfoContext(ctx, "project updated", slog.String("working_dir", project.WorkingDirectory))

	return dto.Succeeded(project)
}

func stepOf(err error, fallback dto.Step) dto.Step {
	var stepErr *docker.StepError
	if errors.As(err, &stepErr) {
		return stepErr.Step
	}

	return fallback
}

// Run discovers, selects and applies. Runtime and selection failures are
// returned before any project is touched; per-project failures are in the
// report.
func (u *Updater) Run(ctx context.Context, selector Selector) (dto.UpdateReport, error) {
	u.transition(ctx, dto.StateDiscovering)

	projects, err := u.DiscoverProjects(ctx)
	if err != nil {
		u.transition(ctx, dto.StateIdle)
		return dto.UpdateReport{}, err
	}

	report := dto.UpdateReport{Outcomes: []dto.UpdateOutcome{}}

	if len(projects) == 0 {
		u.transition(ctx, dto.StateEmpty)
		u.reporter.NothingToUpdate()
		report.State = u.state
		return report, nil
	}

	u.transition(ctx, dto.StateSelecting)
	plan, err := u.PresentSelection(ctx, selector, projects)
	report.Plan = plan.Kind.String()

	if plan.Kind == dto.PlanCancelled {
		u.transition(ctx, dto.StateCancelled)
		report.State = u.state
		return report, err
	}

	u.transition(ctx, dto.StateApplying)

	targets := plan.Targets(projects)
	for i, project := range targets {
		u.reporter.Updating(project, i+1, len(targets))

		outcome := u.ApplyUpdate(ctx, project)
		u.reporter.Finished(outcome)
		report.Outcomes = append(report.Outcomes, outcome)
	}

	u.transition(ctx, dto.StateDone)
	report.State = u.state
	u.reporter.Summary(report)

	return report, nil
}

type NopReporter struct{}

func (NopReporter) NothingToUpdate() {}

func (NopReporter) Updating(dto.ManagedProject, int, int) {}

func (NopReporter) Finished(dto.UpdateOutcome) {}

func (NopReporter) Summary(dto.UpdateReport) {}
