package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "tasklist-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func parseRFC3339(t *testing.T, value string) time.Time {
	t.Helper()
	out, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	return out
}

func TestTaskCRUDAndList(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	created := parseRFC3339(t, "2026-02-09T12:00:00Z")

	task := Task{
		ID:        "task-1",
		Text:      "buy milk",
		Position:  0,
		CreatedAt: created,
	}
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	got, err := repo.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Text != "buy milk" || got.Done || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected task get result: %#v", got)
	}

	task.Text = "buy oat milk"
	task.Done = true
	if err := repo.UpdateTask(ctx, task); err != nil {
		t.Fatalf("update task: %v", err)
	}

	done := true
	completed, err := repo.ListTasks(ctx, TaskListFilter{Done: &done})
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(completed) != 1 || completed[0].ID != task.ID || completed[0].Text != "buy oat milk" {
		t.Fatalf("unexpected completed list: %#v", completed)
	}

	if err := repo.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	_, err = repo.GetTask(ctx, task.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestMissingTaskReturnsNotFound(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.UpdateTask(ctx, Task{ID: "ghost", Text: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update: expected ErrNotFound, got %v", err)
	}
	if err := repo.DeleteTask(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete: expected ErrNotFound, got %v", err)
	}
}

func TestCreateRejectsBlankText(t *testing.T) {
	repo := setupRepo(t)
	err := repo.CreateTask(context.Background(), Task{ID: "blank", Text: "   ", CreatedAt: time.Now()})
	if err == nil {
		t.Fatal("expected check constraint failure for blank text")
	}
}

func TestListOrderingAndPagination(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	base := parseRFC3339(t, "2026-02-09T12:00:00Z")

	// inserted out of order; position decides display order
	seed := []Task{
		{ID: "c", Text: "third", Position: 2, CreatedAt: base},
		{ID: "a", Text: "first", Position: 0, CreatedAt: base.Add(time.Minute)},
		{ID: "b", Text: "second", Position: 1, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, task := range seed {
		if err := repo.CreateTask(ctx, task); err != nil {
			t.Fatalf("create %s: %v", task.ID, err)
		}
	}

	all, err := repo.ListTasks(ctx, TaskListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].ID != "a" || all[1].ID != "b" || all[2].ID != "c" {
		t.Fatalf("unexpected order: %#v", all)
	}

	page, err := repo.ListTasks(ctx, TaskListFilter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if len(page) != 1 || page[0].ID != "b" {
		t.Fatalf("unexpected page: %#v", page)
	}

	tail, err := repo.ListTasks(ctx, TaskListFilter{Offset: 2})
	if err != nil {
		t.Fatalf("list offset only: %v", err)
	}
	if len(tail) != 1 || tail[0].ID != "c" {
		t.Fatalf("unexpected tail: %#v", tail)
	}
}

func TestDeleteCompletedAndMaxPosition(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	now := parseRFC3339(t, "2026-02-09T12:00:00Z")

	pos, err := repo.MaxPosition(ctx)
	if err != nil {
		t.Fatalf("max position on empty table: %v", err)
	}
	if pos != -1 {
		t.Fatalf("expected -1 for empty table, got %d", pos)
	}

	seed := []Task{
		{ID: "t1", Text: "one", Done: true, Position: 0, CreatedAt: now},
		{ID: "t2", Text: "two", Done: false, Position: 1, CreatedAt: now},
		{ID: "t3", Text: "three", Done: true, Position: 5, CreatedAt: now},
	}
	for _, task := range seed {
		if err := repo.CreateTask(ctx, task); err != nil {
			t.Fatalf("create %s: %v", task.ID, err)
		}
	}

	pos, err = repo.MaxPosition(ctx)
	if err != nil || pos != 5 {
		t.Fatalf("expected max position 5, got %d (%v)", pos, err)
	}

	ids, err := repo.DeleteCompleted(ctx)
	if err != nil {
		t.Fatalf("delete completed: %v", err)
	}
	if len(ids) != 2 || ids[0] != "t1" || ids[1] != "t3" {
		t.Fatalf("unexpected removed ids: %v", ids)
	}

	left, err := repo.ListTasks(ctx, TaskListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(left) != 1 || left[0].ID != "t2" {
		t.Fatalf("unexpected remaining tasks: %#v", left)
	}

	ids, err = repo.DeleteCompleted(ctx)
	if err != nil || len(ids) != 0 {
		t.Fatalf("expected nothing left to clear, got %v (%v)", ids, err)
	}
}

func TestOpenSQLiteMigrates(t *testing.T) {
	repo, err := OpenSQLite(filepath.Join(t.TempDir(), "open.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	if err := repo.CreateTask(context.Background(), Task{ID: "x", Text: "ready", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("create after open: %v", err)
	}
}

func TestSetPositionLeavesContentAlone(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	now := parseRFC3339(t, "2026-02-09T12:00:00Z")

	if err := repo.CreateTask(ctx, Task{ID: "t1", Text: "one", Done: true, Position: 0, CreatedAt: now}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.SetPosition(ctx, "t1", 7); err != nil {
		t.Fatalf("set position: %v", err)
	}
	got, err := repo.GetTask(ctx, "t1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Position != 7 || got.Text != "one" || !got.Done {
		t.Fatalf("unexpected task after move: %#v", got)
	}
	if err := repo.SetPosition(ctx, "ghost", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestWithTxCommitsAndRollsBack(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	now := parseRFC3339(t, "2026-02-09T12:00:00Z")

	if err := repo.CreateTask(ctx, Task{ID: "t1", Text: "one", CreatedAt: now}); err != nil {
		t.Fatalf("create: %v", err)
	}

	boom := errors.New("boom")
	err := repo.WithTx(ctx, func(tx Repository) error {
		if err := tx.UpdateTask(ctx, Task{ID: "t1", Text: "changed", Done: true}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error returned, got %v", err)
	}
	got, _ := repo.GetTask(ctx, "t1")
	if got.Text != "one" || got.Done {
		t.Fatalf("expected rollback, got %#v", got)
	}

	err = repo.WithTx(ctx, func(tx Repository) error {
		// nested calls join the outer transaction
		return tx.WithTx(ctx, func(inner Repository) error {
			return inner.UpdateTask(ctx, Task{ID: "t1", Text: "changed", Done: true, Position: 3})
		})
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	got, _ = repo.GetTask(ctx, "t1")
	if got.Text != "changed" || !got.Done || got.Position != 3 {
		t.Fatalf("expected committed update, got %#v", got)
	}
}
