package handlers

import (
	"context"
	"focusFlow/internal/models/task"
	"focusFlow/internal/service"

	"github.com/google/uuid"
)

type Service interface {
	HealthCheck(context.Context) error
	CreateTask(ctx context.Context, title, description string, focusSeconds, learnSeconds int) (task.Task, error)
	ListTasks(context.Context) []task.Task
	GetTask(context.Context, uuid.UUID) (task.Task, error)
	StartOrPause(context.Context, uuid.UUID) (task.Task, error)
	ToggleMode(context.Context, uuid.UUID) (task.Task, error)
	MarkComplete(context.Context, uuid.UUID) (task.Task, error)
	ResetTask(context.Context, uuid.UUID) (task.Task, error)
	DeleteTask(context.Context, uuid.UUID) error
	Stats(context.Context) service.Stats
	Optimize(ctx context.Context, title, description string, minutes int) (service.Suggestion, error)
}

var _ Service = (*service.TaskService)(nil)
