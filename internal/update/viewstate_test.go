package update

import (
	"testing"

	"github.com/sandeepkv93/tasklist/internal/model"
)

func TestDeriveViewStateCounters(t *testing.T) {
	tasks := []*model.Task{
		{ID: "1", Text: "a"},
		{ID: "2", Text: "b", Done: true},
		{ID: "3", Text: "c"},
	}

	cases := []struct {
		filter  model.StatusFilter
		visible []string
	}{
		{filter: model.FilterAll, visible: []string{"1", "2", "3"}},
		{filter: model.FilterActive, visible: []string{"1", "3"}},
		{filter: model.FilterCompleted, visible: []string{"2"}},
	}
	for _, tc := range cases {
		vs := DeriveViewState(tasks, tc.filter, EditSession{Phase: EditIdle})
		if vs.Remaining != 2 || vs.Completed != 1 || vs.AllChecked {
			t.Fatalf("%s: counters should ignore the filter, got %+v", tc.filter, vs)
		}
		if len(vs.Visible) != len(tc.visible) {
			t.Fatalf("%s: expected %d visible, got %d", tc.filter, len(tc.visible), len(vs.Visible))
		}
		for i, id := range tc.visible {
			if vs.Visible[i].ID != id {
				t.Fatalf("%s: expected %s at %d, got %s", tc.filter, id, i, vs.Visible[i].ID)
			}
		}
	}
}

func TestDeriveViewStateVisibleSharesPointers(t *testing.T) {
	task := &model.Task{ID: "1", Text: "a"}
	vs := DeriveViewState([]*model.Task{task}, model.FilterAll, EditSession{Phase: EditIdle})
	if vs.Visible[0] != task {
		t.Fatal("visible entries must be the list's own tasks")
	}
}

func TestDeriveViewStateEmptyListIsAllChecked(t *testing.T) {
	vs := DeriveViewState(nil, model.FilterAll, EditSession{Phase: EditIdle})
	if !vs.AllChecked || vs.Remaining != 0 || vs.Completed != 0 || len(vs.Visible) != 0 {
		t.Fatalf("unexpected empty view state: %+v", vs)
	}
}

func TestDeriveViewStateEditing(t *testing.T) {
	task := &model.Task{ID: "1", Text: "a"}
	tasks := []*model.Task{task}

	vs := DeriveViewState(tasks, model.FilterAll, EditSession{Phase: EditEditing, Task: task, Snapshot: task.Clone()})
	if vs.Editing != task {
		t.Fatal("expected editing task reported")
	}
	vs = DeriveViewState(tasks, model.FilterAll, EditSession{Phase: EditIdle})
	if vs.Editing != nil {
		t.Fatal("expected no editing task when idle")
	}
}

func TestRouteChangeFiltersWithoutTouchingList(t *testing.T) {
	store := &fakeStore{}
	m := newTestModel(store,
		&model.Task{ID: "1", Text: "a"},
		&model.Task{ID: "2", Text: "b", Done: true},
	)

	m, cmd := press(t, m, keyRunes("3"))
	m = settle(t, m, cmd)
	if m.Status != "completed" || m.Filter != model.FilterCompleted {
		t.Fatalf("unexpected route state: %q / %q", m.Status, m.Filter)
	}
	if vs := m.ViewState(); len(vs.Visible) != 1 || vs.Visible[0].ID != "2" {
		t.Fatalf("unexpected visible tasks: %+v", vs.Visible)
	}
	if len(m.Tasks) != 2 || len(store.ops()) != 0 {
		t.Fatal("navigation must not change the list or call the store")
	}

	m, cmd = press(t, m, keyRunes("2"))
	m = settle(t, m, cmd)
	if m.Filter != model.FilterActive {
		t.Fatalf("expected active filter, got %q", m.Filter)
	}

	m, cmd = press(t, m, keyRunes("1"))
	m = settle(t, m, cmd)
	if m.Status != "" || m.Filter != model.FilterAll {
		t.Fatalf("expected all filter for empty status, got %q / %q", m.Status, m.Filter)
	}
}

func TestSetStatusUnknownFallsBackToAll(t *testing.T) {
	m := newTestModel(&fakeStore{})
	m.SetStatus("archived")
	if m.Filter != model.FilterAll {
		t.Fatalf("expected all filter, got %q", m.Filter)
	}
}
