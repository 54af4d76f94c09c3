package task

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type TaskOption func(*Task)

// новая задача: PENDING, режим FOCUS, нулевое время
func New(title string, options ...TaskOption) *Task {
	t := &Task{
		UUID:                uuid.New(),
		Title:               title,
		Description:         DefaultDescription,
		LearnTargetDuration: DefaultLearnTarget,
		ActiveMode:          ModeFocus,
		Status:              StatusPending,
		CreatedAt:           time.Now(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

func WithDescription(description string) TaskOption {
	if strings.TrimSpace(description) == "" {
		return nil
	}
	return func(task *Task) {
		task.Description = description
	}
}

func WithFocusTarget(seconds int) TaskOption {
	return func(task *Task) {
		task.TargetDuration = seconds
	}
}

// при нуле остаётся бюджет по умолчанию
func WithLearnTarget(seconds int) TaskOption {
	if seconds <= 0 {
		return nil
	}
	return func(task *Task) {
		task.LearnTargetDuration = seconds
	}
}

func WithCreatedAt(createdAt time.Time) TaskOption {
	if createdAt.IsZero() {
		return nil
	}
	return func(task *Task) {
		task.CreatedAt = createdAt
	}
}
