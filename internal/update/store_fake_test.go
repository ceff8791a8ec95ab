package update

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/model"
)

var errStoreDown = errors.New("store: unavailable")

type storeCall struct {
	Op    string
	Task  model.Task
	Index int
}

// fakeStore records calls and fails on demand.
type fakeStore struct {
	mu     sync.Mutex
	calls  []storeCall
	nextID int
	rows   []model.Task

	insertErr error
	deleteErr error
	clearErr  error
	saveErr   error
	putErr    func(model.Task) error
}

func (f *fakeStore) record(op string, t model.Task, index int) {
	f.calls = append(f.calls, storeCall{Op: op, Task: t, Index: index})
}

func (f *fakeStore) Insert(_ context.Context, t model.Task) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("insert", t, -1)
	if f.insertErr != nil {
		return model.Task{}, f.insertErr
	}
	f.nextID++
	t.ID = fmt.Sprintf("task-%d", f.nextID)
	f.rows = append(f.rows, t)
	return t, nil
}

func (f *fakeStore) Put(_ context.Context, t model.Task, index int) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("put", t, index)
	if f.putErr != nil {
		if err := f.putErr(t); err != nil {
			return model.Task{}, err
		}
	}
	for i := range f.rows {
		if f.rows[i].ID == t.ID {
			f.rows[i] = t
		}
	}
	return t, nil
}

func (f *fakeStore) Delete(_ context.Context, t model.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete", t, -1)
	return f.deleteErr
}

func (f *fakeStore) ClearCompleted(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("clear", model.Task{}, -1)
	if f.clearErr != nil {
		return nil, f.clearErr
	}
	ids := make([]string, 0)
	kept := f.rows[:0]
	for _, row := range f.rows {
		if row.Done {
			ids = append(ids, row.ID)
			continue
		}
		kept = append(kept, row)
	}
	f.rows = kept
	return ids, nil
}

func (f *fakeStore) Save(_ context.Context, t model.Task) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("save", t, -1)
	if f.saveErr != nil {
		return model.Task{}, f.saveErr
	}
	f.nextID++
	return model.Task{ID: fmt.Sprintf("task-%d", f.nextID), Text: t.Text}, nil
}

func (f *fakeStore) List(_ context.Context, filter model.StatusFilter) ([]model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Task, 0, len(f.rows))
	for _, row := range f.rows {
		if filter.Match(row) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeStore) ops() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.Op)
	}
	return out
}

func (f *fakeStore) count(op string) int {
	n := 0
	for _, got := range f.ops() {
		if got == op {
			n++
		}
	}
	return n
}

// settle runs cmd and every follow-up command to completion, feeding each
// message back into the model. Spinner ticks are dropped so the loop ends.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 100 {
			t.Fatal("command loop did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		switch typed := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, typed...)
			continue
		case spinner.TickMsg:
			continue
		}
		updated, follow := m.Update(msg)
		m = updated.(Model)
		queue = append(queue, follow)
	}
	return m
}

func newTestModel(store *fakeStore, tasks ...*model.Task) Model {
	m := NewModel(store)
	m.Tasks = append(m.Tasks, tasks...)
	for _, task := range tasks {
		store.rows = append(store.rows, *task)
	}
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}
