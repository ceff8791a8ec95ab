package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/views"
)

func (m Model) Init() tea.Cmd {
	if m.store == nil {
		return nil
	}
	return m.loadTasksCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case spinner.TickMsg:
		if m.Saving {
			var cmd tea.Cmd
			m.savingSpin, cmd = m.savingSpin.Update(typed)
			return m, cmd
		}
	case TasksLoadedMsg:
		m.onTasksLoaded(typed)
	case taskInsertedMsg:
		m.onTaskInserted(typed)
	case editSettledMsg:
		m.onEditSettled(typed)
	case taskRemovedMsg:
		m.onTaskRemoved(typed)
	case toggleSettledMsg:
		m.onToggleSettled(typed)
	case taskSavedMsg:
		m.onTaskSaved(typed)
	case completedClearedMsg:
		m.onCompletedCleared(typed)
	case taskClonedMsg:
		return m, m.onTaskCloned(typed)
	case clonePutSettledMsg:
		m.onClonePutSettled(typed)
	case RouteChangedMsg:
		m.SetStatus(typed.Status)
	case SetStatusMsg:
		m.StatusBar = StatusBar{Text: typed.Text, IsError: typed.IsError}
	case ClearStatusMsg:
		m.StatusBar = StatusBar{}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.Quitting = true
		return m, tea.Quit
	}
	if m.Palette.Active {
		return m.handlePaletteKey(msg)
	}
	switch m.Focus {
	case FocusEdit:
		return m.handleEditKey(msg)
	case FocusInput:
		return m.handleInputKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		cmd := m.AddTask(m.newInput.Value())
		if cmd == nil {
			return m, nil
		}
		return m, tea.Batch(cmd, m.savingSpin.Tick)
	case "esc", "tab":
		m.newInput.Blur()
		m.Focus = FocusList
		return m, nil
	}
	var cmd tea.Cmd
	m.newInput, cmd = m.newInput.Update(msg)
	m.Input = m.newInput.Value()
	return m, cmd
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	task := m.Edit.Task
	switch msg.String() {
	case "enter":
		return m, m.CommitEdit(task, TriggerSubmit)
	case "tab":
		return m, m.CommitEdit(task, TriggerBlur)
	case "esc":
		m.RevertEdit(task)
		return m, nil
	}
	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	m.setEditText(m.editInput.Value())
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	case "/":
		m.Palette.Active = true
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.StatusBar = StatusBar{Text: "command palette active"}
		return m, nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case m.Keys.ShowAll:
		return m, navigate("")
	case m.Keys.ShowActive:
		return m, navigate("active")
	case m.Keys.ShowCompleted:
		return m, navigate("completed")
	case m.Keys.NewTask, "i":
		m.Focus = FocusInput
		return m, m.newInput.Focus()
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.ViewState().Visible)-1 {
			m.Cursor++
		}
	case " ", "x":
		if task := m.SelectedTask(); task != nil {
			done := !task.Done
			return m, m.ToggleCompleted(task, &done)
		}
	case "enter", "e":
		if task := m.SelectedTask(); task != nil {
			m.BeginEdit(task)
		}
	case "d", "delete":
		return m, m.RemoveTask(m.SelectedTask())
	case "c":
		return m, m.CloneTask(m.SelectedTask())
	case "C":
		return m, m.ClearCompleted()
	case "a":
		return m, m.MarkAll(!m.ViewState().AllChecked)
	case "y":
		return m, m.CopyTask(m.SelectedTask())
	}
	return m, nil
}

func navigate(status string) tea.Cmd {
	return func() tea.Msg { return RouteChangedMsg{Status: status} }
}

func (m Model) View() string {
	vs := m.ViewState()

	rows := make([]views.TaskRowData, 0, len(vs.Visible))
	for i, task := range vs.Visible {
		row := views.TaskRowData{
			ID:       task.ID,
			Text:     task.Text,
			Done:     task.Done,
			Selected: i == m.Cursor && m.Focus == FocusList,
		}
		if vs.Editing == task {
			row.Editing = true
			row.EditView = m.editInput.View()
		}
		rows = append(rows, row)
	}

	status := ""
	if m.StatusBar.Text != "" {
		if m.StatusBar.IsError {
			status = fmt.Sprintf("status: error: %s", m.StatusBar.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.StatusBar.Text)
		}
	}

	header := fmt.Sprintf("tasklist | filter: %s", m.Filter)
	if m.Saving {
		header += " | saving " + m.savingSpin.View()
	}

	side := strings.TrimSpace(strings.Join([]string{
		views.RenderCommandPalette(m.Palette.Active, m.commandInput.Value()),
		m.renderHelpIfVisible(),
	}, "\n"))

	return views.RenderApp(views.AppData{
		Header:    header,
		InputLine: m.newInput.View(),
		MainPane: views.RenderTaskPanel(views.TaskPanelData{
			Filter:     string(m.Filter),
			Rows:       rows,
			Remaining:  vs.Remaining,
			Completed:  vs.Completed,
			AllChecked: vs.AllChecked,
			Total:      len(m.Tasks),
		}),
		SidePane:   side,
		StatusLine: status,
		Footer: fmt.Sprintf("keys: %s all | %s active | %s completed | %s new | / cmd | %s help | %s quit",
			m.Keys.ShowAll, m.Keys.ShowActive, m.Keys.ShowCompleted, m.Keys.NewTask, m.Keys.Help, m.Keys.Quit),
	})
}
