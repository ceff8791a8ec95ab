// Package store is the persistence-facing collaborator of the task list
// controller. It assigns ids, keeps display order and translates between
// domain tasks and repository rows.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/tasklist/internal/log"
	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/storage"
)

var ErrMissingID = errors.New("store: task id is required")

type Service struct {
	repo  storage.Repository
	now   func() time.Time
	newID func() string

	// serialises inserts and puts so position reads and writes never interleave
	mu sync.Mutex
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

func NewService(repo storage.Repository, opts ...Option) (*Service, error) {
	if repo == nil {
		return nil, errors.New("store: nil repository")
	}
	s := &Service{
		repo:  repo,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return "task-" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Insert stores a new task at the end of the list and returns it with its
// assigned id. Any id on the input is ignored.
func (s *Service) Insert(ctx context.Context, t model.Task) (model.Task, error) {
	t.Text = strings.TrimSpace(t.Text)
	if err := t.Validate(); err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	last, err := s.repo.MaxPosition(ctx)
	if err != nil {
		return model.Task{}, fmt.Errorf("store: next position: %w", err)
	}
	row := storage.Task{
		ID:        s.newID(),
		Text:      t.Text,
		Done:      t.Done,
		Position:  last + 1,
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateTask(ctx, row); err != nil {
		return model.Task{}, fmt.Errorf("store: insert: %w", err)
	}
	log.Debugf("store: inserted %s at position %d", row.ID, row.Position)
	return fromRow(row), nil
}

// Save is the raw creation primitive used for duplicates: only the text is
// copied, the new record always starts open.
func (s *Service) Save(ctx context.Context, t model.Task) (model.Task, error) {
	return s.Insert(ctx, model.Task{Text: t.Text})
}

// Put writes text and done for an existing task. A non-negative index also
// moves the row to that display position. The write and the move commit
// together or not at all.
func (s *Service) Put(ctx context.Context, t model.Task, index int) (model.Task, error) {
	if strings.TrimSpace(t.ID) == "" {
		return model.Task{}, ErrMissingID
	}
	t.Text = strings.TrimSpace(t.Text)
	if err := t.Validate(); err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var row storage.Task
	err := s.repo.WithTx(ctx, func(tx storage.Repository) error {
		var err error
		row, err = tx.GetTask(ctx, t.ID)
		if err != nil {
			return err
		}
		row.Text = t.Text
		row.Done = t.Done
		if err := tx.UpdateTask(ctx, row); err != nil {
			return err
		}
		if index >= 0 {
			return reorder(ctx, tx, row.ID, index)
		}
		return nil
	})
	if err != nil {
		return model.Task{}, fmt.Errorf("store: put %s: %w", t.ID, err)
	}
	log.Debugf("store: put %s done=%v index=%d", row.ID, row.Done, index)
	return fromRow(row), nil
}

// reorder renumbers positions so id sits at index in display order. Only
// positions are written; rows already in place are skipped.
func reorder(ctx context.Context, repo storage.Repository, id string, index int) error {
	rows, err := repo.ListTasks(ctx, storage.TaskListFilter{})
	if err != nil {
		return err
	}
	from := -1
	for i, row := range rows {
		if row.ID == id {
			from = i
			break
		}
	}
	if from < 0 {
		return storage.ErrNotFound
	}
	if index >= len(rows) {
		index = len(rows) - 1
	}
	moving := rows[from]
	rows = append(rows[:from], rows[from+1:]...)
	rows = append(rows[:index], append([]storage.Task{moving}, rows[index:]...)...)

	for pos, row := range rows {
		if row.Position == pos {
			continue
		}
		if err := repo.SetPosition(ctx, row.ID, pos); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, t model.Task) error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrMissingID
	}
	if err := s.repo.DeleteTask(ctx, t.ID); err != nil {
		return fmt.Errorf("store: delete %s: %w", t.ID, err)
	}
	log.Debugf("store: deleted %s", t.ID)
	return nil
}

// ClearCompleted removes every done task and returns the ids it removed.
func (s *Service) ClearCompleted(ctx context.Context) ([]string, error) {
	ids, err := s.repo.DeleteCompleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: clear completed: %w", err)
	}
	log.Infof("store: cleared %d completed task(s)", len(ids))
	return ids, nil
}

func (s *Service) List(ctx context.Context, filter model.StatusFilter) ([]model.Task, error) {
	var f storage.TaskListFilter
	if done, ok := filter.Done(); ok {
		f.Done = &done
	}
	rows, err := s.repo.ListTasks(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	out := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRow(row))
	}
	return out, nil
}

func fromRow(row storage.Task) model.Task {
	return model.Task{ID: row.ID, Text: row.Text, Done: row.Done}
}
