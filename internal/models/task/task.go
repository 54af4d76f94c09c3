package task

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	UUID                uuid.UUID  `json:"uuid"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	TargetDuration      int        `json:"target_duration"`
	LearnTargetDuration int        `json:"learn_target_duration"`
	FocusElapsed        float64    `json:"focus_elapsed"`
	LearnElapsed        float64    `json:"learn_elapsed"`
	ActiveMode          Mode       `json:"active_mode"`
	Status              Status     `json:"status"`
	LastProceededAt     *time.Time `json:"last_proceeded_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

type Status string
type Mode string

const StatusPending Status = "PENDING"
const StatusRunning Status = "RUNNING"
const StatusPaused Status = "PAUSED"
const StatusCompleted Status = "COMPLETED"

const ModeFocus Mode = "FOCUS"
const ModeLearn Mode = "LEARN"

// бюджет обучения по умолчанию (1 час), если он не задан при создании или в снимке
const DefaultLearnTarget = 3600

const DefaultDescription = "No description provided."

// порядок переключения режимов
var modeCycle = []Mode{ModeFocus, ModeLearn}

func (m Mode) Valid() bool {
	for _, mode := range modeCycle {
		if mode == m {
			return true
		}
	}
	return false
}

// следующий режим в цикле переключения
func (m Mode) Next() Mode {
	for i, mode := range modeCycle {
		if mode == m {
			return modeCycle[(i+1)%len(modeCycle)]
		}
	}
	return ModeFocus
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusRunning, StatusPaused, StatusCompleted:
		return true
	}
	return false
}

// цель режима в секундах
func (t *Task) Target(m Mode) int {
	if m == ModeLearn {
		return t.LearnTargetDuration
	}
	return t.TargetDuration
}

func (t *Task) Elapsed(m Mode) float64 {
	if m == ModeLearn {
		return t.LearnElapsed
	}
	return t.FocusElapsed
}

func (t *Task) SetElapsed(m Mode, seconds float64) {
	if m == ModeLearn {
		t.LearnElapsed = seconds
		return
	}
	t.FocusElapsed = seconds
}

func (t *Task) IsRunning() bool {
	return t.Status == StatusRunning
}

func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// копия без общих указателей
func (t Task) Clone() Task {
	if t.LastProceededAt != nil {
		ts := *t.LastProceededAt
		t.LastProceededAt = &ts
	}
	return t
}
