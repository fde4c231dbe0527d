package tui

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/syrm/srvmaint/dto"
)

var keyQuit = key.NewBinding(
	key.WithKeys("q", "esc", "ctrl+c"),
	key.WithHelp("q", "cancel"),
)

var keyAll = key.NewBinding(
	key.WithKeys("a"),
	key.WithHelp("a", "update all"),
)

var keySelect = key.NewBinding(
	key.WithKeys("enter"),
	key.WithHelp("enter", "update selected"),
)

// PickerModel is a full-screen project picker. It ends with the same plans as
// ProjectSelector.
type PickerModel struct {
	projects   []dto.ManagedProject
	table      table.Model
	tableStyle lipgloss.Style
	plan       dto.UpdatePlan
	done       bool
}

func NewPickerModel(projects []dto.ManagedProject) *PickerModel {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	columns := []table.Column{
		{Title: "Project", Width: 20},
		{Title: "Directory", Width: 40},
		{Title: "Cont.", Width: 6},
	}

	rows := make([]table.Row, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, table.Row{p.Name, p.WorkingDirectory, strconv.Itoa(p.ContainersRunning)})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows), 15)+1),
		table.WithStyles(s),
	)

	return &PickerModel{
		projects: projects,
		table:    t,
		tableStyle: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")),
		plan: dto.Cancelled(),
	}
}

func (pm *PickerModel) Plan() dto.UpdatePlan {
	return pm.plan
}

func (pm *PickerModel) Init() tea.Cmd {
	return nil
}

func (pm *PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		pm.table.SetWidth(msg.Width - pm.tableStyle.GetHorizontalFrameSize())
		return pm, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keyQuit):
			return pm.finish(dto.Cancelled())
		case key.Matches(msg, keyAll):
			return pm.finish(dto.AllProjects())
		case key.Matches(msg, keySelect):
			cursor := pm.table.Cursor()
			if cursor < 0 || cursor >= len(pm.projects) {
				return pm, nil
			}
			return pm.finish(dto.SingleProject(pm.projects[cursor]))
		}
	}

	var cmd tea.Cmd
	pm.table, cmd = pm.table.Update(msg)

	return pm, cmd
}

func (pm *PickerModel) finish(plan dto.UpdatePlan) (tea.Model, tea.Cmd) {
	pm.plan = plan
	pm.done = true

	return pm, tea.Quit
}

func (pm *PickerModel) View() string {
	if pm.done {
		return ""
	}

	help := fmt.Sprintf("%s • %s • %s",
		keySelect.Help().Key+" "+keySelect.Help().Desc,
		keyAll.Help().Key+" "+keyAll.Help().Desc,
		keyQuit.Help().Key+" "+keyQuit.Help().Desc,
	)

	return pm.tableStyle.Render(pm.table.View()) + "\n" + subtleStyle.Render(help) + "\n"
}

// PickerSelector runs PickerModel as a bubbletea program.
type PickerSelector struct {
	in  io.Reader
	out io.Writer
}

func NewPickerSelector(in io.Reader, out io.Writer) *PickerSelector {
	return &PickerSelector{in: in, out: out}
}

func (ps *PickerSelector) Select(ctx context.Context, projects []dto.ManagedProject) (dto.UpdatePlan, error) {
	program := tea.NewProgram(
		NewPickerModel(projects),
		tea.WithContext(ctx),
		tea.WithInput(ps.in),
		tea.WithOutput(ps.out),
	)

	final, err := program.Run()
	if err != nil {
		return dto.Cancelled(), err
	}

	model, ok := final.(*PickerModel)
	if !ok {
		return dto.Cancelled(), fmt.Errorf("unexpected picker model %T", final)
	}

	return model.Plan(), nil
}
