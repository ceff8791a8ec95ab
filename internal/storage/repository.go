package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

type Repository interface {
	CreateTask(ctx context.Context, in Task) error
	GetTask(ctx context.Context, id string) (Task, error)
	UpdateTask(ctx context.Context, in Task) error
	// SetPosition changes only the display position of a task.
	SetPosition(ctx context.Context, id string, position int) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error)
	// DeleteCompleted removes every done task and returns the removed ids.
	DeleteCompleted(ctx context.Context) ([]string, error)
	// MaxPosition returns the highest position in use, or -1 for an empty table.
	MaxPosition(ctx context.Context) (int, error)
	// WithTx runs fn inside one transaction, committing only if fn succeeds.
	WithTx(ctx context.Context, fn func(Repository) error) error
}
