package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTextRequired  = errors.New("model: task text is required")
	ErrInvalidStatus = errors.New("model: invalid status filter")
)

type Task struct {
	ID   string
	Text string
	Done bool
}

// Clone returns a detached copy used as an edit snapshot.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	out := *t
	return &out
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.Text) == "" {
		return ErrTextRequired
	}
	return nil
}

type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterActive    StatusFilter = "active"
	FilterCompleted StatusFilter = "completed"
)

func (f StatusFilter) IsValid() bool {
	switch f {
	case FilterAll, FilterActive, FilterCompleted:
		return true
	default:
		return false
	}
}

// FilterFromStatus maps a navigation status to a filter. Anything other than
// "active" or "completed" shows every task.
func FilterFromStatus(status string) StatusFilter {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case string(FilterActive):
		return FilterActive
	case string(FilterCompleted):
		return FilterCompleted
	default:
		return FilterAll
	}
}

// ParseStatusFilter is the strict variant used for user-supplied flags.
func ParseStatusFilter(raw string) (StatusFilter, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return FilterAll, nil
	}
	f := StatusFilter(trimmed)
	if !f.IsValid() {
		return FilterAll, fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return f, nil
}

func (f StatusFilter) Match(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Done
	case FilterCompleted:
		return t.Done
	default:
		return true
	}
}

// Done reports the done value the filter selects on, if any.
func (f StatusFilter) Done() (bool, bool) {
	switch f {
	case FilterActive:
		return false, true
	case FilterCompleted:
		return true, true
	default:
		return false, false
	}
}
