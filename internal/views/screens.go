package views

import (
	"fmt"
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// rowTextWidth keeps a row inside the main panel.
const rowTextWidth = 48

type TaskRowData struct {
	ID       string
	Text     string
	Done     bool
	Selected bool
	Editing  bool
	EditView string
}

type TaskPanelData struct {
	Filter     string
	Rows       []TaskRowData
	Remaining  int
	Completed  int
	AllChecked bool
	Total      int
}

type HelpPanelData struct {
	Bindings []string
	HelpView string
	Markdown bool
}

func RenderTaskPanel(data TaskPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("tasks [%s]:\n", data.Filter))
	toggle := "[ ]"
	if data.AllChecked && data.Total > 0 {
		toggle = "[x]"
	}
	b.WriteString(fmt.Sprintf("%s mark all as complete\n", toggle))

	if len(data.Rows) == 0 {
		b.WriteString("  (no tasks)\n")
	}
	for _, row := range data.Rows {
		b.WriteString(renderTaskRow(row))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(RenderCounters(data.Remaining, data.Completed))
	return strings.TrimSpace(b.String())
}

func renderTaskRow(row TaskRowData) string {
	cursor := " "
	if row.Selected {
		cursor = cursorStyle.Render(">")
	}
	box := "[ ]"
	if row.Done {
		box = "[x]"
	}
	if row.Editing {
		return fmt.Sprintf("%s %s edit: %s", cursor, box, row.EditView)
	}
	text := fitWidth(row.Text, rowTextWidth)
	if row.Done {
		text = doneStyle.Render(text)
	}
	return fmt.Sprintf("%s %s %s", cursor, box, text)
}

func fitWidth(s string, width int) string {
	if xansi.StringWidth(s) <= width {
		return s
	}
	return xansi.Cut(s, 0, width-1) + "…"
}

// RenderCounters renders the footer counters, e.g. "2 items left · 1 completed".
func RenderCounters(remaining, completed int) string {
	noun := "items"
	if remaining == 1 {
		noun = "item"
	}
	out := fmt.Sprintf("%d %s left", remaining, noun)
	if completed > 0 {
		out += fmt.Sprintf(" · %d completed", completed)
	}
	return out
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	if data.Markdown {
		var md strings.Builder
		md.WriteString("## Keys\n\n")
		for _, line := range data.Bindings {
			md.WriteString(line + "\n")
		}
		return RenderMarkdown(md.String())
	}
	return fmt.Sprintf("help:\n%s\n%s", strings.Join(data.Bindings, "\n"), data.HelpView)
}
