package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/tasklist/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range append(m.globalBindings(), m.focusBindings()...) {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		Bindings: plain,
		Markdown: m.markdownHelp,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.ShowAll, Action: "show all tasks"},
		{Key: m.Keys.ShowActive, Action: "show active tasks"},
		{Key: m.Keys.ShowCompleted, Action: "show completed tasks"},
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) focusBindings() []KeyBinding {
	switch m.Focus {
	case FocusInput:
		return []KeyBinding{
			{Key: "enter", Action: "add task"},
			{Key: "esc/tab", Action: "back to list"},
		}
	case FocusEdit:
		return []KeyBinding{
			{Key: "enter/tab", Action: "save edit (empty text deletes)"},
			{Key: "esc", Action: "revert edit"},
		}
	default:
		return []KeyBinding{
			{Key: m.Keys.NewTask + "/i", Action: "new task"},
			{Key: "j/k", Action: "move cursor"},
			{Key: "space/x", Action: "toggle completed"},
			{Key: "enter/e", Action: "edit task"},
			{Key: "d", Action: "delete task"},
			{Key: "c", Action: "clone task"},
			{Key: "y", Action: "copy task text"},
			{Key: "a", Action: "mark all complete / active"},
			{Key: "C", Action: "clear completed"},
		}
	}
}

func (m Model) helpBindings() []key.Binding {
	global := m.globalBindings()
	local := m.focusBindings()
	out := make([]key.Binding, 0, len(global)+len(local))
	for _, kb := range global {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range local {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
