package service

import (
	"context"
	"errors"
	"fmt"
	"focusFlow/internal/clock"
	"focusFlow/internal/logger"
	"focusFlow/internal/models/task"
	rep "focusFlow/internal/repository"
	"focusFlow/internal/snapshot"
	"focusFlow/internal/timer"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskService - единственный владелец коллекции задач.
// Все команды и тики выполняются под одним мьютексом: коллекция заменяется целиком
// результатом движка и после каждого изменения сохраняется снимком.
type TaskService struct {
	mu        sync.Mutex
	tasks     []task.Task
	store     SnapshotStore
	engine    timer.Engine
	clock     clock.Clock
	suggester Suggester
}

type Stats struct {
	Total     int
	Completed int
	Running   *task.Task
}

func NewTaskService(store SnapshotStore, engine timer.Engine, options ...ServiceOption) *TaskService {
	s := &TaskService{
		store:  store,
		engine: engine,
		clock:  clock.RealClock{},
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Load выполняет холодный старт из хранилища. Отсутствующий, битый или нечитаемый
// снимок означает пустую коллекцию.
func (s *TaskService) Load(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = nil

	data, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Снимок не найден, начинаем с пустого списка")
		} else {
			logger.Error("Service: Не удалось прочитать снимок", err)
		}
		return 0
	}

	tasks, err := snapshot.Decode(data)
	if err != nil {
		logger.Warn("Service: Снимок повреждён, начинаем с пустого списка", zap.Error(err))
		return 0
	}

	s.tasks = tasks
	logger.Info("Service: Снимок загружен", zap.Int("tasks", len(tasks)))
	return len(tasks)
}

func (s *TaskService) CreateTask(ctx context.Context, title, description string, focusSeconds, learnSeconds int) (task.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return task.Task{}, NewValidationError("title", "не может быть пустым")
	}
	if focusSeconds < 0 {
		return task.Task{}, NewValidationError("focus_seconds", "не может быть отрицательным")
	}
	if learnSeconds < 0 {
		return task.Task{}, NewValidationError("learn_seconds", "не может быть отрицательным")
	}
	if focusSeconds == 0 && learnSeconds == 0 {
		return task.Task{}, NewValidationError("focus_seconds", "нужен хотя бы один положительный бюджет")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created := task.New(title,
		task.WithDescription(strings.TrimSpace(description)),
		task.WithFocusTarget(focusSeconds),
		task.WithLearnTarget(learnSeconds),
		task.WithCreatedAt(s.clock.Now()),
	)

	// новые задачи идут первыми
	next := make([]task.Task, 0, len(s.tasks)+1)
	next = append(next, *created)
	next = append(next, s.tasks...)
	s.replace(ctx, next)

	logger.Info("Service: Задача создана", zap.String("task_id", created.UUID.String()))
	return created.Clone(), nil
}

func (s *TaskService) StartOrPause(ctx context.Context, id uuid.UUID) (task.Task, error) {
	return s.apply(ctx, timer.ActionStartOrPause, id)
}

func (s *TaskService) ToggleMode(ctx context.Context, id uuid.UUID) (task.Task, error) {
	return s.apply(ctx, timer.ActionToggleMode, id)
}

func (s *TaskService) MarkComplete(ctx context.Context, id uuid.UUID) (task.Task, error) {
	return s.apply(ctx, timer.ActionComplete, id)
}

func (s *TaskService) ResetTask(ctx context.Context, id uuid.UUID) (task.Task, error) {
	return s.apply(ctx, timer.ActionReset, id)
}

func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	_, err := s.apply(ctx, timer.ActionDelete, id)
	return err
}

func (s *TaskService) apply(ctx context.Context, action timer.Action, id uuid.UUID) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed, err := s.engine.Apply(s.tasks, timer.Command{Action: action, TaskID: id}, s.clock.Now())
	if err != nil {
		if errors.Is(err, timer.ErrTaskNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("task_id", id.String()))
			return task.Task{}, NewNotFound("задача", id.String(), err)
		}
		return task.Task{}, fmt.Errorf("команда %s: %w", action, err)
	}

	if changed {
		s.replace(ctx, next)
		logger.Debug("Service: Команда применена",
			zap.String("operation", string(action)),
			zap.String("task_id", id.String()))
	}

	if action == timer.ActionDelete {
		return task.Task{}, nil
	}
	t, _ := s.find(id)
	return t, nil
}

// Tick начисляет время запущенной задаче и сохраняет снимок, если что-то изменилось
func (s *TaskService) Tick(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed := s.engine.Tick(s.tasks, s.clock.Now())
	if !changed {
		return false
	}

	completedBefore := countCompleted(s.tasks)
	s.replace(ctx, next)
	if done := countCompleted(next); done > completedBefore {
		logger.Info("Service: Задача достигла цели", zap.Int("completed", done))
	}
	return true
}

func (s *TaskService) ListTasks(_ context.Context) []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]task.Task, len(s.tasks))
	for i := range s.tasks {
		out[i] = s.tasks[i].Clone()
	}
	return out
}

func (s *TaskService) GetTask(_ context.Context, id uuid.UUID) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.find(id)
	if !ok {
		logger.Info("Service: Задача не найдена", zap.String("task_id", id.String()))
		return task.Task{}, NewNotFound("задача", id.String(), timer.ErrTaskNotFound)
	}
	return t, nil
}

func (s *TaskService) Stats(_ context.Context) Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{Total: len(s.tasks), Completed: countCompleted(s.tasks)}
	for i := range s.tasks {
		if s.tasks[i].IsRunning() {
			running := s.tasks[i].Clone()
			stats.Running = &running
			break
		}
	}
	return stats
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.store.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

// replace подменяет коллекцию и пишет снимок. Ошибка записи не откатывает состояние в памяти.
func (s *TaskService) replace(ctx context.Context, next []task.Task) {
	s.tasks = next

	start := time.Now()
	data, err := snapshot.Encode(next, s.clock.Now())
	if err != nil {
		logger.Error("Service: Не удалось сериализовать снимок", err)
		return
	}
	if err := s.store.Save(ctx, data); err != nil {
		logger.Error("Service: Не удалось сохранить снимок", err, zap.Duration("ms", time.Since(start)))
	}
}

func (s *TaskService) find(id uuid.UUID) (task.Task, bool) {
	for i := range s.tasks {
		if s.tasks[i].UUID == id {
			return s.tasks[i].Clone(), true
		}
	}
	return task.Task{}, false
}

func countCompleted(tasks []task.Task) int {
	n := 0
	for i := range tasks {
		if tasks[i].IsCompleted() {
			n++
		}
	}
	return n
}
