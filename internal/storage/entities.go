package storage

import "time"

type Task struct {
	ID        string
	Text      string
	Done      bool
	Position  int
	CreatedAt time.Time
}

type TaskListFilter struct {
	Done   *bool
	Limit  int
	Offset int
}
