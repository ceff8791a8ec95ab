package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/commands"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.StatusBar = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.closePalette()

	parsed, err := commands.Parse(raw)
	if err != nil {
		m.StatusBar = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var out tea.Cmd
	res, err := commands.Execute(parsed, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			out = m.AddTask(a.Text)
			return commands.Result{Message: fmt.Sprintf("adding task: %s", a.Text)}, nil
		},
		Show: func(s commands.ShowArgs) (commands.Result, error) {
			out = navigate(s.Status)
			label := s.Status
			if label == "" {
				label = "all"
			}
			return commands.Result{Message: fmt.Sprintf("showing %s tasks", label)}, nil
		},
		Clear: func() (commands.Result, error) {
			out = m.ClearCompleted()
			return commands.Result{Message: "clearing completed tasks"}, nil
		},
		MarkAll: func(a commands.MarkAllArgs) (commands.Result, error) {
			out = m.MarkAll(a.Done)
			state := "active"
			if a.Done {
				state = "completed"
			}
			return commands.Result{Message: fmt.Sprintf("marking all tasks %s", state)}, nil
		},
		Clone: func() (commands.Result, error) {
			task := m.SelectedTask()
			if task == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no task selected"}
			}
			out = m.CloneTask(task)
			return commands.Result{Message: fmt.Sprintf("cloning task: %s", task.Text)}, nil
		},
	})
	if err != nil {
		m.StatusBar = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.StatusBar = StatusBar{Text: res.Message}
	return m, out
}
