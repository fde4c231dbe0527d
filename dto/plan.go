package dto

type PlanKind int

const (
	PlanCancelled PlanKind = iota
	PlanAll
	PlanSingle
)

func (k PlanKind) String() string {
	switch k {
	case PlanAll:
		return "all"
	case PlanSingle:
		return "single"
	default:
		return "cancelled"
	}
}

// UpdatePlan is the operator's selection. Project is only set for PlanSingle.
type UpdatePlan struct {
	Kind    PlanKind
	Project ManagedProject
}

func AllProjects() UpdatePlan {
	return UpdatePlan{Kind: PlanAll}
}

func SingleProject(project ManagedProject) UpdatePlan {
	return UpdatePlan{Kind: PlanSingle, Project: project}
}

func Cancelled() UpdatePlan {
	return UpdatePlan{Kind: PlanCancelled}
}

// Targets returns the projects the plan applies to, in discovery order.
func (p UpdatePlan) Targets(projects []ManagedProject) []ManagedProject {
	switch p.Kind {
	case PlanAll:
		targets := make([]ManagedProject, len(projects))
		copy(targets, projects)
		return targets
	case PlanSingle:
		return []ManagedProject{p.Project}
	default:
		return nil
	}
}
