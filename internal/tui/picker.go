// Package tui provides terminal user interface components for arcrun
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"arcrun/internal/config"
)

// Action represents the action to take after picker selection
type Action int

const (
	ActionNone Action = iota
	ActionRun
	ActionSubmit
	ActionQuit
)

// PickerResult holds the result of the picker
type PickerResult struct {
	Action   Action
	Scenario *config.Scenario
}

// scenarioItem implements list.Item for scenario display
type scenarioItem struct {
	scenario config.Scenario
}

func (i scenarioItem) Title() string {
	return i.scenario.Name
}

func (i scenarioItem) Description() string {
	desc := i.scenario.Description
	if desc == "" {
		desc = "no description"
	}
	return fmt.Sprintf("%s | %d config layer(s) | %s",
		desc,
		len(i.scenario.ConfigFiles),
		truncatePath(i.scenario.Target, 40),
	)
}

func (i scenarioItem) FilterValue() string {
	return i.scenario.Name
}

func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	return "..." + path[len(path)-maxLen+3:]
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)
)

// Model is the bubbletea model for the scenario picker
type Model struct {
	list     list.Model
	result   PickerResult
	quitting bool
	width    int
	height   int
}

// NewPicker creates a new scenario picker
func NewPicker(scenarios []config.Scenario) Model {
	items := make([]list.Item, len(scenarios))
	for i, sc := range scenarios {
		items[i] = scenarioItem{scenario: sc}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = selectedStyle
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	l := list.New(items, delegate, 80, 20)
	l.Title = "arcrun - Select Scenario"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return Model{
		list: l,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		// Don't handle keys if filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(scenarioItem); ok {
				sc := item.scenario
				m.result = PickerResult{
					Action:   ActionRun,
					Scenario: &sc,
				}
				m.quitting = true
				return m, tea.Quit
			}

		case "s":
			if item, ok := m.list.SelectedItem().(scenarioItem); ok {
				sc := item.scenario
				m.result = PickerResult{
					Action:   ActionSubmit,
					Scenario: &sc,
				}
				m.quitting = true
				return m, tea.Quit
			}

		case "q", "esc":
			m.result = PickerResult{Action: ActionQuit}
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	help := helpStyle.Render("[enter] Run  [s] Submit  [/] Filter  [q] Quit")

	return m.list.View() + "\n" + help
}

// Result returns the picker result
func (m Model) Result() PickerResult {
	return m.result
}

// RunPicker runs the interactive scenario picker
func RunPicker(scenarios []config.Scenario) (PickerResult, error) {
	if len(scenarios) == 0 {
		return PickerResult{Action: ActionQuit}, nil
	}

	m := NewPicker(scenarios)
	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return PickerResult{}, err
	}

	return finalModel.(Model).Result(), nil
}

// SimplePicker is a non-interactive listing of scenarios
func SimplePicker(scenarios []config.Scenario) string {
	var sb strings.Builder

	sb.WriteString("arcrun - Scenarios\n")
	sb.WriteString(strings.Repeat("─", 60) + "\n\n")

	if len(scenarios) == 0 {
		sb.WriteString("No scenarios configured.\n")
		sb.WriteString("Declare one in arcrun.toml under [scenarios.<name>]\n")
		return sb.String()
	}

	for i, sc := range scenarios {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, sc.Name))
		if sc.Description != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", sc.Description))
		}
		sb.WriteString(fmt.Sprintf("   Configs: %s\n\n", strings.Join(sc.ConfigFiles, ", ")))
	}

	return sb.String()
}
