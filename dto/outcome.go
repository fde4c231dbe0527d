package dto

import "encoding/json"

// Step is the part of a project update that failed.
type Step string

const (
	StepNone     Step = ""
	StepLocate   Step = "locate"
	StepPull     Step = "pull"
	StepRecreate Step = "recreate"
)

type UpdateOutcome struct {
	Project ManagedProject
	Step    Step
	Err     error
}

func Succeeded(project ManagedProject) UpdateOutcome {
	return UpdateOutcome{Project: project}
}

func Failed(project ManagedProject, step Step, err error) UpdateOutcome {
	return UpdateOutcome{Project: project, Step: step, Err: err}
}

func (o UpdateOutcome) Succeeded() bool {
	return o.Err == nil
}

func (o UpdateOutcome) MarshalJSON() ([]byte, error) {
	out := struct {
		Project ManagedProject `json:"project"`
		Status  string         `json:"status"`
		Step    Step           `json:"step,omitempty"`
		Error   string         `json:"error,omitempty"`
	}{
		Project: o.Project,
		Status:  "succeeded",
	}

	if !o.Succeeded() {
		out.Status = "failed"
		out.Step = o.Step
		out.Error = o.Err.Error()
	}

	return json.Marshal(out)
}
