package fleet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/syrm/srvmaint/dto"
)

var (
	ErrUnknownProject   = errors.New("unknown project")
	ErrAmbiguousProject = errors.New("ambiguous project name")
)

// StaticSelector answers without asking, for --all and --project.
type StaticSelector struct {
	All     bool
	Project string
}

func (s StaticSelector) Select(_ context.Context, projects []dto.ManagedProject) (dto.UpdatePlan, error) {
	if s.All {
		return dto.AllProjects(), nil
	}

	project, err := FindProject(projects, s.Project)
	if err != nil {
		return dto.Cancelled(), err
	}

	return dto.SingleProject(project), nil
}

// FindProject matches a project by working directory or by name. A name shared
// by several directories is ambiguous.
func FindProject(projects []dto.ManagedProject, query string) (dto.ManagedProject, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return dto.ManagedProject{}, fmt.Errorf("%w: empty name", ErrUnknownProject)
	}

	dir := dto.NormalizeDir(query)
	if project, found := lo.Find(projects, func(p dto.ManagedProject) bool {
		return p.WorkingDirectory == dir
	}); found {
		return project, nil
	}

	matches := lo.Filter(projects, func(p dto.ManagedProject, _ int) bool {
		return p.Name == query
	})

	switch len(matches) {
	case 0:
		return dto.ManagedProject{}, fmt.Errorf("%w: %s", ErrUnknownProject, query)
	case 1:
		return matches[0], nil
	default:
		return dto.ManagedProject{}, fmt.Errorf("%w: %s matches %d directories", ErrAmbiguousProject, query, len(matches))
	}
}
