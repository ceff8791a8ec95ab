package update

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/log"
	"github.com/sandeepkv93/tasklist/internal/model"
)

// Every operation below follows the same shape: mutate local state now,
// hand the store a copy inside a tea.Cmd, and settle (rollback, cleanup) in
// Update when the result message comes back. Commands never touch m.Tasks.

func (m Model) loadTasksCmd() tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		tasks, err := store.List(ctx, model.FilterAll)
		return TasksLoadedMsg{Tasks: tasks, Err: err}
	}
}

func (m *Model) onTasksLoaded(msg TasksLoadedMsg) {
	if msg.Err != nil {
		log.Errorf("load tasks: %v", msg.Err)
		m.LastError = msg.Err
		return
	}
	tasks := make([]*model.Task, 0, len(msg.Tasks))
	for i := range msg.Tasks {
		task := msg.Tasks[i]
		tasks = append(tasks, &task)
	}
	m.Tasks = tasks
	m.closeEdit()
	m.clampCursor()
	log.Infof("loaded %d task(s)", len(tasks))
}

// AddTask inserts a task with the trimmed text. Blank text is a no-op. The
// input buffer is cleared only once the store accepts the task.
func (m *Model) AddTask(text string) tea.Cmd {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	m.Saving = true
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		created, err := store.Insert(ctx, model.Task{Text: trimmed})
		return taskInsertedMsg{Task: created, Err: err}
	}
}

func (m *Model) onTaskInserted(msg taskInsertedMsg) {
	m.Saving = false
	if msg.Err != nil {
		m.storeFailed("add task", msg.Err)
		return
	}
	task := msg.Task
	m.Tasks = append(m.Tasks, &task)
	m.Input = ""
	m.newInput.SetValue("")
}

// BeginEdit opens the edit slot on task, replacing any session already open.
func (m *Model) BeginEdit(task *model.Task) {
	if task == nil {
		return
	}
	if m.Edit.Active() && m.Edit.Task != task {
		log.Debugf("edit of %s superseded by %s", m.Edit.Task.ID, task.ID)
	}
	m.Edit = EditSession{Phase: EditEditing, Task: task, Snapshot: task.Clone()}
	m.editInput.SetValue(task.Text)
	m.editInput.CursorEnd()
	m.editInput.Focus()
	m.Focus = FocusEdit
}

// setEditText is the live binding between the edit field and the task.
func (m *Model) setEditText(text string) {
	if m.Edit.Phase != EditEditing || m.Edit.Task == nil {
		return
	}
	m.Edit.Task.Text = text
}

// CommitEdit is the single commit intent for an edit; submit and blur are
// treated alike. Only the first commit of a session is honoured, so a blur
// that trails a submit, or any commit after RevertEdit, does nothing.
//
// Unchanged text closes the session without a store call. Empty text deletes
// the task instead of updating it.
func (m *Model) CommitEdit(task *model.Task, trigger Trigger) tea.Cmd {
	if task == nil || m.Edit.Phase != EditEditing || m.Edit.Task != task {
		log.Debugf("commit (%s) ignored in phase %s", trigger, m.Edit.Phase)
		return nil
	}
	snapshot := m.Edit.Snapshot
	task.Text = strings.TrimSpace(task.Text)
	if task.Text == snapshot.Text {
		m.closeEdit()
		return nil
	}

	m.Edit.Phase = EditCommitting
	m.editInput.Blur()
	m.Focus = FocusList

	payload := *task
	index := m.indexOf(task)
	store, ctx := m.store, m.ctx
	if payload.Text == "" {
		return func() tea.Msg {
			err := store.Delete(ctx, payload)
			return editSettledMsg{Task: task, Snapshot: snapshot, Deleted: true, Err: err}
		}
	}
	return func() tea.Msg {
		_, err := store.Put(ctx, payload, index)
		return editSettledMsg{Task: task, Snapshot: snapshot, Err: err}
	}
}

func (m *Model) onEditSettled(msg editSettledMsg) {
	switch {
	case msg.Err != nil:
		msg.Task.Text = msg.Snapshot.Text
		m.storeFailed("save edit", msg.Err)
	case msg.Deleted:
		m.dropTask(msg.Task)
	}
	if m.Edit.Phase == EditCommitting && m.Edit.Task == msg.Task {
		m.closeEdit()
	}
}

// RevertEdit swaps the snapshot back into the task's list slot and closes
// the session.
func (m *Model) RevertEdit(task *model.Task) {
	if task == nil || m.Edit.Phase != EditEditing || m.Edit.Task != task {
		return
	}
	if i := m.indexOf(task); i >= 0 {
		m.Tasks[i] = m.Edit.Snapshot
	}
	m.closeEdit()
}

func (m *Model) closeEdit() {
	m.Edit = EditSession{Phase: EditIdle}
	m.editInput.Blur()
	m.editInput.SetValue("")
	if m.Focus == FocusEdit {
		m.Focus = FocusList
	}
}

// RemoveTask deletes task. The list only changes once the store confirms.
func (m *Model) RemoveTask(task *model.Task) tea.Cmd {
	if task == nil {
		return nil
	}
	payload := *task
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		return taskRemovedMsg{Task: task, Err: store.Delete(ctx, payload)}
	}
}

func (m *Model) onTaskRemoved(msg taskRemovedMsg) {
	if msg.Err != nil {
		m.storeFailed("remove task", msg.Err)
		return
	}
	m.dropTask(msg.Task)
}

// ToggleCompleted persists task's done flag. A non-nil done is applied
// before the call; if the store rejects the put the flag goes back to what
// it was before the call.
func (m *Model) ToggleCompleted(task *model.Task, done *bool) tea.Cmd {
	if task == nil {
		return nil
	}
	prev := task.Done
	if done != nil {
		task.Done = *done
	}
	payload := *task
	index := m.indexOf(task)
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		_, err := store.Put(ctx, payload, index)
		return toggleSettledMsg{Task: task, Prev: prev, Err: err}
	}
}

func (m *Model) onToggleSettled(msg toggleSettledMsg) {
	if msg.Err == nil {
		return
	}
	msg.Task.Done = msg.Prev
	m.storeFailed("toggle task", msg.Err)
}

// SaveTask writes task as it stands. Nothing is rolled back on failure.
func (m *Model) SaveTask(task *model.Task) tea.Cmd {
	if task == nil {
		return nil
	}
	payload := *task
	index := m.indexOf(task)
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		_, err := store.Put(ctx, payload, index)
		return taskSavedMsg{Task: task, Err: err}
	}
}

func (m *Model) onTaskSaved(msg taskSavedMsg) {
	if msg.Err != nil {
		m.storeFailed("save task", msg.Err)
	}
}

func (m *Model) ClearCompleted() tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		ids, err := store.ClearCompleted(ctx)
		return completedClearedMsg{IDs: ids, Err: err}
	}
}

func (m *Model) onCompletedCleared(msg completedClearedMsg) {
	if msg.Err != nil {
		m.storeFailed("clear completed", msg.Err)
		return
	}
	gone := make(map[string]bool, len(msg.IDs))
	for _, id := range msg.IDs {
		gone[id] = true
	}
	m.Tasks = slices.DeleteFunc(m.Tasks, func(t *model.Task) bool { return gone[t.ID] })
	if m.Edit.Active() && gone[m.Edit.Task.ID] {
		m.closeEdit()
	}
	m.clampCursor()
}

// MarkAll toggles every task whose flag differs from done. Each task is its
// own put with its own rollback: a failure on one task leaves the others
// as the store accepted them.
func (m *Model) MarkAll(done bool) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.Tasks))
	for _, task := range m.Tasks {
		if task.Done == done {
			continue
		}
		target := done
		cmds = append(cmds, m.ToggleCompleted(task, &target))
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// CloneTask creates a new record with task's text, appends it and then
// copies the done flag onto it with a follow-up put. If the create fails the
// whole list is restored to what it was when the clone started.
func (m *Model) CloneTask(task *model.Task) tea.Cmd {
	if task == nil {
		return nil
	}
	snapshot := slices.Clone(m.Tasks)
	payload := *task
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		created, err := store.Save(ctx, payload)
		return taskClonedMsg{Source: task, Snapshot: snapshot, Created: created, Err: err}
	}
}

func (m *Model) onTaskCloned(msg taskClonedMsg) tea.Cmd {
	if msg.Err != nil {
		m.Tasks = msg.Snapshot
		m.clampCursor()
		m.storeFailed("clone task", msg.Err)
		return nil
	}
	created := msg.Created
	clone := &created
	m.Tasks = append(m.Tasks, clone)
	clone.Done = msg.Source.Done

	payload := *clone
	index := m.indexOf(clone)
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		_, err := store.Put(ctx, payload, index)
		return clonePutSettledMsg{Task: clone, Err: err}
	}
}

func (m *Model) onClonePutSettled(msg clonePutSettledMsg) {
	if msg.Err == nil {
		return
	}
	// the record exists but never received the flag
	msg.Task.Done = false
	m.storeFailed("copy done flag to clone", msg.Err)
}

// CopyTask puts task's text on the system clipboard.
func (m *Model) CopyTask(task *model.Task) tea.Cmd {
	if task == nil {
		return nil
	}
	text := task.Text
	write := m.clipboard
	return func() tea.Msg {
		if err := write(text); err != nil {
			return SetStatusMsg{Text: "copy failed: " + err.Error(), IsError: true}
		}
		return SetStatusMsg{Text: "copied: " + text}
	}
}

// SetStatus applies a navigation change.
func (m *Model) SetStatus(status string) {
	m.applyStatus(status)
}

func (m *Model) applyStatus(status string) {
	m.Status = strings.ToLower(strings.TrimSpace(status))
	m.Filter = model.FilterFromStatus(m.Status)
	m.clampCursor()
}

// storeFailed records a rejected store call. The rollback has already
// happened; the failure is logged, not shown.
func (m *Model) storeFailed(op string, err error) {
	m.LastError = err
	log.Warnf("%s: %v", op, err)
}

func (m *Model) dropTask(task *model.Task) {
	if i := m.indexOf(task); i >= 0 {
		m.Tasks = slices.Delete(m.Tasks, i, i+1)
	}
	if m.Edit.Task == task {
		m.closeEdit()
	}
	m.clampCursor()
}

func (m Model) indexOf(task *model.Task) int {
	return slices.Index(m.Tasks, task)
}

func (m *Model) clampCursor() {
	n := len(m.ViewState().Visible)
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

// SelectedTask is the visible task under the cursor, or nil.
func (m Model) SelectedTask() *model.Task {
	visible := m.ViewState().Visible
	if m.Cursor < 0 || m.Cursor >= len(visible) {
		return nil
	}
	return visible[m.Cursor]
}
