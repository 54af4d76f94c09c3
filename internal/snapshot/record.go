package snapshot

import (
	"focusFlow/internal/models/task"
	"time"
)

// Record - формат задачи в снимке. Имена полей совпадают с исходным
// браузерным хранилищем, время хранится в миллисекундах Unix.
// Указатели отличают отсутствующее поле от нулевого значения.
type Record struct {
	ID                  string   `json:"id"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	TargetDuration      *float64 `json:"targetDuration,omitempty"`
	LearnTargetDuration *float64 `json:"learnTargetDuration,omitempty"`
	FocusElapsed        *float64 `json:"focusElapsed,omitempty"`
	LearnElapsed        *float64 `json:"learnElapsed,omitempty"`
	ElapsedSeconds      *float64 `json:"elapsedSeconds,omitempty"` // устаревшее поле версии 1
	ActiveMode          string   `json:"activeMode,omitempty"`
	Status              string   `json:"status"`
	CreatedAt           int64    `json:"createdAt"`
	LastProceededAt     *int64   `json:"lastProceededAt,omitempty"`
}

func fromTask(t *task.Task) Record {
	target := float64(t.TargetDuration)
	learnTarget := float64(t.LearnTargetDuration)
	focus := t.FocusElapsed
	learn := t.LearnElapsed

	r := Record{
		ID:                  t.UUID.String(),
		Title:               t.Title,
		Description:         t.Description,
		TargetDuration:      &target,
		LearnTargetDuration: &learnTarget,
		FocusElapsed:        &focus,
		LearnElapsed:        &learn,
		ActiveMode:          string(t.ActiveMode),
		Status:              string(t.Status),
		CreatedAt:           t.CreatedAt.UnixMilli(),
	}
	if t.LastProceededAt != nil {
		ms := t.LastProceededAt.UnixMilli()
		r.LastProceededAt = &ms
	}
	return r
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func floatPtr(v float64) *float64 {
	return &v
}
