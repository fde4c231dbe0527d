package dto

// RunState tracks one fleet update invocation.
type RunState string

const (
	StateIdle        RunState = "idle"
	StateDiscovering RunState = "discovering"
	StateEmpty       RunState = "empty"
	StateSelecting   RunState = "selecting"
	StateCancelled   RunState = "cancelled"
	StateApplying    RunState = "applying"
	StateDone        RunState = "done"
)

func (s RunState) Terminal() bool {
	return s == StateEmpty || s == StateCancelled || s == StateDone
}

type UpdateReport struct {
	State    RunState        `json:"state"`
	Plan     string          `json:"plan,omitempty"`
	Outcomes []UpdateOutcome `json:"outcomes"`
}

func (r UpdateReport) Succeeded() int {
	count := 0
	for _, o := range r.Outcomes {
		if o.Succeeded() {
			count++
		}
	}

	return count
}

func (r UpdateReport) Failed() int {
	return len(r.Outcomes) - r.Succeeded()
}
