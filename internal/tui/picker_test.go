package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"arcrun/internal/config"
)

func TestTruncatePath(t *testing.T) {
	tests := []struct {
		path   string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"results/networks/elec.nc", 24, "results/networks/elec.nc"},
		{"results/networks/elec_s_10_ec_lcopt_24H.nc", 20, "...0_ec_lcopt_24H.nc"},
		{"", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := truncatePath(tt.path, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncatePath(%q, %d) = %q, want %q", tt.path, tt.maxLen, got, tt.want)
			}
		})
	}
}

func testScenarios() []config.Scenario {
	return []config.Scenario{
		{
			Name:        "baseline",
			Description: "Reference dispatch without ammonia assets",
			ConfigFiles: []string{"config.arc.yaml"},
			Target:      "results/networks/elec_s_10_ec_lcopt_24H.nc",
		},
		{
			Name:        "green-ammonia",
			Description: "Ammonia synthesis and re-electrification overlay",
			ConfigFiles: []string{"config.arc.yaml", "overrides/green-ammonia.yaml"},
			Target:      "results/networks/elec_s_10_ec_lcopt_24H.nc",
		},
	}
}

func TestScenarioItemMethods(t *testing.T) {
	item := scenarioItem{scenario: testScenarios()[1]}

	t.Run("Title", func(t *testing.T) {
		if got := item.Title(); got != "green-ammonia" {
			t.Errorf("Title() = %q, want %q", got, "green-ammonia")
		}
	})

	t.Run("FilterValue", func(t *testing.T) {
		if got := item.FilterValue(); got != "green-ammonia" {
			t.Errorf("FilterValue() = %q, want %q", got, "green-ammonia")
		}
	})

	t.Run("Description", func(t *testing.T) {
		desc := item.Description()
		if !strings.Contains(desc, "Ammonia synthesis") {
			t.Error("Description should contain scenario description")
		}
		if !strings.Contains(desc, "2 config layer(s)") {
			t.Error("Description should report the number of config layers")
		}
	})

	t.Run("Description with empty description", func(t *testing.T) {
		item := scenarioItem{scenario: config.Scenario{Name: "x"}}
		if !strings.Contains(item.Description(), "no description") {
			t.Error("Description should default to 'no description'")
		}
	})
}

func TestModelKeyHandling(t *testing.T) {
	t.Run("quit with q", func(t *testing.T) {
		m := NewPicker(testScenarios())
		newModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
		model := newModel.(Model)

		if model.result.Action != ActionQuit {
			t.Errorf("Action = %v, want ActionQuit", model.result.Action)
		}
		if !model.quitting {
			t.Error("Model should be quitting")
		}
		if cmd == nil {
			t.Error("Should return tea.Quit command")
		}
	})

	t.Run("quit with esc", func(t *testing.T) {
		m := NewPicker(testScenarios())
		newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		model := newModel.(Model)

		if model.result.Action != ActionQuit {
			t.Errorf("Action = %v, want ActionQuit", model.result.Action)
		}
	})

	t.Run("run with enter", func(t *testing.T) {
		m := NewPicker(testScenarios())
		newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		model := newModel.(Model)

		if model.result.Action != ActionRun {
			t.Errorf("Action = %v, want ActionRun", model.result.Action)
		}
		if model.result.Scenario == nil || model.result.Scenario.Name != "baseline" {
			t.Error("Enter should select the highlighted scenario")
		}
	})

	t.Run("submit with s", func(t *testing.T) {
		m := NewPicker(testScenarios())
		newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
		model := newModel.(Model)

		if model.result.Action != ActionSubmit {
			t.Errorf("Action = %v, want ActionSubmit", model.result.Action)
		}
	})

	t.Run("window size update", func(t *testing.T) {
		m := NewPicker(testScenarios())
		newModel, cmd := m.Update(tea.WindowSizeMsg{Width: 100, Height: 50})
		model := newModel.(Model)

		if model.width != 100 {
			t.Errorf("Width = %d, want 100", model.width)
		}
		if model.height != 50 {
			t.Errorf("Height = %d, want 50", model.height)
		}
		if cmd != nil {
			t.Error("Window size update should not return a command")
		}
	})
}

func TestModelInit(t *testing.T) {
	m := Model{}
	if cmd := m.Init(); cmd != nil {
		t.Error("Init() should return nil")
	}
}

func TestModelView(t *testing.T) {
	t.Run("normal view contains help", func(t *testing.T) {
		m := NewPicker(testScenarios())
		view := m.View()

		if !strings.Contains(view, "[enter] Run") {
			t.Error("View should contain run help")
		}
		if !strings.Contains(view, "[s] Submit") {
			t.Error("View should contain submit help")
		}
		if !strings.Contains(view, "[q] Quit") {
			t.Error("View should contain quit help")
		}
	})

	t.Run("quitting view is empty", func(t *testing.T) {
		m := NewPicker(testScenarios())
		m.quitting = true
		if view := m.View(); view != "" {
			t.Errorf("Quitting view should be empty, got %q", view)
		}
	})
}

func TestRunPickerEmptyScenarios(t *testing.T) {
	result, err := RunPicker(nil)
	if err != nil {
		t.Fatalf("RunPicker with no scenarios failed: %v", err)
	}
	if result.Action != ActionQuit {
		t.Errorf("Empty scenario list should return ActionQuit, got %v", result.Action)
	}
}

func TestSimplePicker(t *testing.T) {
	t.Run("empty scenarios", func(t *testing.T) {
		output := SimplePicker(nil)

		if !strings.Contains(output, "No scenarios configured") {
			t.Error("Should indicate no scenarios configured")
		}
		if !strings.Contains(output, "arcrun.toml") {
			t.Error("Should show where to declare scenarios")
		}
	})

	t.Run("with scenarios", func(t *testing.T) {
		output := SimplePicker(testScenarios())

		if !strings.Contains(output, "arcrun") {
			t.Error("Should contain title")
		}
		if !strings.Contains(output, "baseline") {
			t.Error("Should contain first scenario name")
		}
		if !strings.Contains(output, "green-ammonia") {
			t.Error("Should contain second scenario name")
		}
		if !strings.Contains(output, "overrides/green-ammonia.yaml") {
			t.Error("Should list scenario config files")
		}
	})
}

func TestActionConstants(t *testing.T) {
	// Verify action constants have distinct values
	actions := []Action{ActionNone, ActionRun, ActionSubmit, ActionQuit}
	seen := make(map[Action]bool)

	for _, a := range actions {
		if seen[a] {
			t.Errorf("Duplicate action value: %v", a)
		}
		seen[a] = true
	}
}
