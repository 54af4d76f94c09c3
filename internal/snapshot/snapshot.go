package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"focusFlow/internal/logger"
	"focusFlow/internal/models/task"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrMalformed = errors.New("malformed snapshot")

type envelope struct {
	Version int      `json:"version"`
	SavedAt int64    `json:"savedAt,omitempty"`
	Tasks   []Record `json:"tasks"`
}

// Encode сериализует всю коллекцию целиком в текущую версию формата
func Encode(tasks []task.Task, savedAt time.Time) ([]byte, error) {
	env := envelope{
		Version: CurrentVersion,
		SavedAt: savedAt.UnixMilli(),
		Tasks:   make([]Record, 0, len(tasks)),
	}
	for i := range tasks {
		env.Tasks = append(env.Tasks, fromTask(&tasks[i]))
	}

	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("сериализация снимка: %w", err)
	}
	return data, nil
}

// Decode читает снимок любой известной версии. Голый JSON-массив - это версия 1.
// Записи мигрируются, проверяются и проходят восстановление после холодного старта:
// RUNNING становится PAUSED без метки времени.
func Decode(data []byte) ([]task.Task, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var (
		version int
		records []Record
	)

	switch data[0] {
	case '[':
		version = 1
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	case '{':
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		version = env.Version
		records = env.Tasks
	default:
		return nil, ErrMalformed
	}

	records = Migrate(version, records)

	tasks := make([]task.Task, 0, len(records))
	seen := make(map[uuid.UUID]struct{}, len(records))
	for i, r := range records {
		t, err := toTask(r)
		if err != nil {
			logger.Warn("Snapshot: Запись пропущена",
				zap.Int("index", i),
				zap.String("task_id", r.ID),
				zap.Error(err))
			continue
		}
		if _, dup := seen[t.UUID]; dup {
			logger.Warn("Snapshot: Дубликат задачи пропущен", zap.String("task_id", r.ID))
			continue
		}
		seen[t.UUID] = struct{}{}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func toTask(r Record) (task.Task, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return task.Task{}, fmt.Errorf("неверный id: %w", err)
	}

	target := seconds(r.TargetDuration, 0)
	learnTarget := seconds(r.LearnTargetDuration, task.DefaultLearnTarget)
	if target < 0 || learnTarget < 0 || (target == 0 && learnTarget == 0) {
		return task.Task{}, errors.New("нет положительного бюджета времени")
	}

	t := task.Task{
		UUID:                id,
		Title:               r.Title,
		Description:         r.Description,
		TargetDuration:      target,
		LearnTargetDuration: learnTarget,
		FocusElapsed:        clamp(value(r.FocusElapsed), target),
		LearnElapsed:        clamp(value(r.LearnElapsed), learnTarget),
		ActiveMode:          task.Mode(r.ActiveMode),
		Status:              task.Status(r.Status),
		CreatedAt:           fromMillis(r.CreatedAt),
	}

	if !t.ActiveMode.Valid() {
		t.ActiveMode = task.ModeFocus
	}
	if !t.Status.Valid() {
		t.Status = task.StatusPending
	}
	// работающему таймеру нельзя доверять после неизвестного перерыва
	if t.Status == task.StatusRunning {
		t.Status = task.StatusPaused
	}
	return t, nil
}

func seconds(v *float64, def int) int {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return def
	}
	return int(math.Round(*v))
}

func value(v *float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0
	}
	return *v
}

func clamp(v float64, limit int) float64 {
	if v < 0 {
		return 0
	}
	if v > float64(limit) {
		return float64(limit)
	}
	return v
}
