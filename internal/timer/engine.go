package timer

import (
	"errors"
	"focusFlow/internal/models/task"
	"time"

	"github.com/google/uuid"
)

var ErrTaskNotFound = errors.New("task not found")

// минимальная значимая дельта по умолчанию: более мелкий джиттер не засчитывается
const DefaultMinDelta = 100 * time.Millisecond

type Action string

const (
	ActionStartOrPause Action = "start_or_pause"
	ActionStart        Action = "start"
	ActionPause        Action = "pause"
	ActionToggleMode   Action = "toggle_mode"
	ActionComplete     Action = "complete"
	ActionReset        Action = "reset"
	ActionDelete       Action = "delete"
)

type Command struct {
	Action Action
	TaskID uuid.UUID
}

// Engine - чистый редьюсер над коллекцией задач.
// Входной срез никогда не изменяется, результат - новая коллекция.
type Engine struct {
	MinDelta time.Duration
}

func NewEngine(minDelta time.Duration) Engine {
	if minDelta <= 0 {
		minDelta = DefaultMinDelta
	}
	return Engine{MinDelta: minDelta}
}

// Apply применяет команду к коллекции. changed == false означает no-op.
func (e Engine) Apply(tasks []task.Task, cmd Command, now time.Time) ([]task.Task, bool, error) {
	idx := indexOf(tasks, cmd.TaskID)
	if idx < 0 {
		return tasks, false, ErrTaskNotFound
	}

	switch cmd.Action {
	case ActionDelete:
		next := make([]task.Task, 0, len(tasks)-1)
		for i := range tasks {
			if i != idx {
				next = append(next, tasks[i].Clone())
			}
		}
		return next, true, nil
	case ActionStartOrPause:
		if tasks[idx].IsRunning() {
			return e.Apply(tasks, Command{Action: ActionPause, TaskID: cmd.TaskID}, now)
		}
		return e.Apply(tasks, Command{Action: ActionStart, TaskID: cmd.TaskID}, now)
	}

	next := cloneAll(tasks)
	changed := false

	switch cmd.Action {
	case ActionStart:
		changed = start(next, idx, now)
	case ActionPause:
		changed = pause(&next[idx])
	case ActionToggleMode:
		changed = toggleMode(&next[idx])
	case ActionComplete:
		changed = complete(&next[idx])
	case ActionReset:
		changed = reset(&next[idx])
	default:
		return tasks, false, errors.New("unknown action: " + string(cmd.Action))
	}

	if !changed {
		return tasks, false, nil
	}
	return next, true, nil
}

// Tick засчитывает прошедшее время запущенным задачам.
// Начисление идёт по разнице с LastProceededAt, а не по числу тиков,
// поэтому пропущенные и запоздавшие тики не теряют время.
func (e Engine) Tick(tasks []task.Task, now time.Time) ([]task.Task, bool) {
	var next []task.Task
	changed := false

	for i := range tasks {
		if !tasks[i].IsRunning() {
			continue
		}
		t := tasks[i].Clone()
		if !e.accrue(&t, now) {
			continue
		}
		if next == nil {
			next = cloneAll(tasks)
		}
		next[i] = t
		changed = true
	}

	if !changed {
		return tasks, false
	}
	return next, true
}

func (e Engine) accrue(t *task.Task, now time.Time) bool {
	// после загрузки метки может не быть - ставим её и начинаем считать со следующего тика
	if t.LastProceededAt == nil {
		t.LastProceededAt = stamp(now)
		return true
	}

	delta := now.Sub(*t.LastProceededAt)
	if delta < 0 {
		// часы ушли назад: ничего не начисляем, только переставляем метку
		t.LastProceededAt = stamp(now)
		return true
	}
	if delta < e.MinDelta {
		// метку не трогаем, дельта накопится к следующему тику
		return false
	}

	mode := t.ActiveMode
	target := float64(t.Target(mode))
	candidate := t.Elapsed(mode) + delta.Seconds()

	if candidate >= target {
		t.SetElapsed(mode, target)
		t.Status = task.StatusCompleted
		t.LastProceededAt = nil
		return true
	}

	t.SetElapsed(mode, candidate)
	t.LastProceededAt = stamp(now)
	return true
}

// запуск задачи ставит на паузу любую другую запущенную
func start(tasks []task.Task, idx int, now time.Time) bool {
	t := &tasks[idx]
	if t.IsCompleted() || t.IsRunning() {
		return false
	}
	for i := range tasks {
		if i != idx && tasks[i].IsRunning() {
			pause(&tasks[i])
		}
	}
	t.Status = task.StatusRunning
	t.LastProceededAt = stamp(now)
	return true
}

// пауза не засчитывает время с последнего тика, а только останавливает начисление
func pause(t *task.Task) bool {
	if !t.IsRunning() {
		return false
	}
	t.Status = task.StatusPaused
	t.LastProceededAt = nil
	return true
}

// смена режима всегда ставит задачу на паузу, чтобы не начислить время не тому бюджету
func toggleMode(t *task.Task) bool {
	t.ActiveMode = t.ActiveMode.Next()
	t.Status = task.StatusPaused
	t.LastProceededAt = nil
	return true
}

// завершение доводит до цели только активный режим
func complete(t *task.Task) bool {
	if t.IsCompleted() {
		return false
	}
	mode := t.ActiveMode
	t.SetElapsed(mode, float64(t.Target(mode)))
	t.Status = task.StatusCompleted
	t.LastProceededAt = nil
	return true
}

func reset(t *task.Task) bool {
	if t.Status == task.StatusPending && t.FocusElapsed == 0 && t.LearnElapsed == 0 && t.LastProceededAt == nil {
		return false
	}
	t.Status = task.StatusPending
	t.FocusElapsed = 0
	t.LearnElapsed = 0
	t.LastProceededAt = nil
	return true
}

func indexOf(tasks []task.Task, id uuid.UUID) int {
	for i := range tasks {
		if tasks[i].UUID == id {
			return i
		}
	}
	return -1
}

func cloneAll(tasks []task.Task) []task.Task {
	next := make([]task.Task, len(tasks))
	for i := range tasks {
		next[i] = tasks[i].Clone()
	}
	return next
}

func stamp(now time.Time) *time.Time {
	return &now
}
