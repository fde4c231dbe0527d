package docker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/syrm/srvmaint/dto"
)

var composeFileNames = []string{
	"compose.yaml",
	"compose.yml",
	"docker-compose.yaml",
	"docker-compose.yml",
}

type composeFile struct {
	Name     string         `yaml:"name"`
	Services map[string]any `yaml:"services"`
}

// groupProjects collapses containers into projects keyed by working directory,
// sorted by name then directory.
func groupProjects(containers []dto.Container) []dto.ManagedProject {
	byDir := lo.GroupBy(containers, func(c dto.Container) string {
		return c.ProjectDir
	})

	projects := make([]dto.ManagedProject, 0, len(byDir))
	for dir, members := range byDir {
		slices.SortFunc(members, func(a, b dto.Container) int {
			return strings.Compare(a.Name, b.Name)
		})

		project := dto.NewManagedProject(dir)
		project.ContainersRunning = len(members)

		for _, c := range members {
			if project.ComposeName == "" {
				project.ComposeName = c.ComposeName
			}
			if len(project.ConfigFiles) == 0 {
				project.ConfigFiles = c.ConfigFiles
			}
		}

		services := lo.Uniq(lo.Map(members, func(c dto.Container, _ int) string {
			return c.Service
		}))
		services = lo.Filter(services, func(s string, _ int) bool {
			return s != ""
		})
		slices.Sort(services)
		project.Services = services

		projects = append(projects, project)
	}

	slices.SortFunc(projects, func(a, b dto.ManagedProject) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}

		return strings.Compare(a.WorkingDirectory, b.WorkingDirectory)
	})

	return projects
}

// Locate checks that the project's working directory still holds a readable
// compose definition and returns the declared service names.
func Locate(project dto.ManagedProject) ([]string, error) {
	dir := project.WorkingDirectory

	info, err := os.Stat(dir)
	if err != nil {
		return nil, locateError(dir, fmt.Errorf("working directory: %w", err))
	}
	if !info.IsDir() {
		return nil, locateError(dir, fmt.Errorf("working directory %s is not a directory", dir))
	}

	files := project.ConfigFiles
	if len(files) == 0 {
		file, found := findComposeFile(dir)
		if !found {
			return nil, locateError(dir, errors.New("no compose file"))
		}
		files = []string{file}
	}

	var services []string
	for _, file := range files {
		if !filepath.IsAbs(file) {
			file = filepath.Join(dir, file)
		}

		content, err := os.ReadFile(file)
		if err != nil {
			return nil, locateError(dir, err)
		}

		var definition composeFile
		if err := yaml.Unmarshal(content, &definition); err != nil {
			return nil, locateError(dir, fmt.Errorf("parse %s: %w", file, err))
		}

		for name := range definition.Services {
			services = append(services, name)
		}
	}

	services = lo.Uniq(services)
	slices.Sort(services)

	return services, nil
}

func findComposeFile(dir string) (string, bool) {
	for _, name := range composeFileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}

	return "", false
}

func locateError(dir string, err error) error {
	return &StepError{Step: dto.StepLocate, Dir: dir, Err: err}
}
