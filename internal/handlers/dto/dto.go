package dto

import (
	"focusFlow/internal/models/task"
	"focusFlow/internal/service"
	"time"

	"github.com/google/uuid"
)

// CreateTaskRequest принимает бюджеты либо в секундах, либо парами часы/минуты
type CreateTaskRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	FocusSeconds *int   `json:"focus_seconds,omitempty"`
	LearnSeconds *int   `json:"learn_seconds,omitempty"`
	FocusHours   int    `json:"focus_hours"`
	FocusMinutes int    `json:"focus_minutes"`
	LearnHours   int    `json:"learn_hours"`
	LearnMinutes int    `json:"learn_minutes"`
}

func (r CreateTaskRequest) Budgets() (focus, learn int) {
	focus = r.FocusHours*3600 + r.FocusMinutes*60
	if r.FocusSeconds != nil {
		focus = *r.FocusSeconds
	}
	learn = r.LearnHours*3600 + r.LearnMinutes*60
	if r.LearnSeconds != nil {
		learn = *r.LearnSeconds
	}
	return focus, learn
}

type TaskResponse struct {
	UUID                uuid.UUID       `json:"id"`
	Title               string          `json:"title"`
	Description         string          `json:"description"`
	Status              string          `json:"status"`
	ActiveMode          string          `json:"active_mode"`
	TargetDuration      int             `json:"target_duration"`
	LearnTargetDuration int             `json:"learn_target_duration"`
	FocusElapsed        float64         `json:"focus_elapsed"`
	LearnElapsed        float64         `json:"learn_elapsed"`
	Elapsed             string          `json:"elapsed"`
	Target              string          `json:"target"`
	Progress            float64         `json:"progress"`
	Phases              []PhaseResponse `json:"phases"`
	CurrentPhase        int             `json:"current_phase"`
	PhaseRemaining      string          `json:"phase_remaining,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	LastProceededAt     *time.Time      `json:"last_proceeded_at,omitempty"`
}

type PhaseResponse struct {
	Label string  `json:"label"`
	Start int     `json:"start"`
	End   int     `json:"end"`
	Fill  float64 `json:"fill"`
}

func FromTask(t *task.Task) TaskResponse {
	mode := t.ActiveMode
	elapsed := t.Elapsed(mode)
	target := t.Target(mode)

	phases, current := Phases(elapsed, target)
	resp := TaskResponse{
		UUID:                t.UUID,
		Title:               t.Title,
		Description:         t.Description,
		Status:              string(t.Status),
		ActiveMode:          string(mode),
		TargetDuration:      t.TargetDuration,
		LearnTargetDuration: t.LearnTargetDuration,
		FocusElapsed:        t.FocusElapsed,
		LearnElapsed:        t.LearnElapsed,
		Elapsed:             FormatDuration(elapsed),
		Target:              FormatDuration(float64(target)),
		Progress:            percent(elapsed, float64(target)),
		Phases:              phases,
		CurrentPhase:        current,
		CreatedAt:           t.CreatedAt,
		LastProceededAt:     t.LastProceededAt,
	}
	if current >= 0 && !t.IsCompleted() {
		p := phases[current]
		resp.PhaseRemaining = FormatDuration(max(0, float64(p.End)-elapsed))
	}
	return resp
}

func FromTaskList(tasks []task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i := range tasks {
		result[i] = FromTask(&tasks[i])
	}
	return result
}

type StatsResponse struct {
	Total     int           `json:"total"`
	Completed int           `json:"completed"`
	Running   *TaskResponse `json:"running"`
}

func FromStats(s service.Stats) StatsResponse {
	resp := StatsResponse{Total: s.Total, Completed: s.Completed}
	if s.Running != nil {
		running := FromTask(s.Running)
		resp.Running = &running
	}
	return resp
}

type SuggestionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Minutes     int    `json:"minutes"`
}

type SuggestionResponse struct {
	Description  string `json:"description"`
	TotalMinutes int    `json:"total_minutes"`
	Hours        int    `json:"hours"`
	Minutes      int    `json:"minutes"`
	Applied      bool   `json:"applied"`
}

func FromSuggestion(s service.Suggestion) SuggestionResponse {
	return SuggestionResponse{
		Description:  s.Description,
		TotalMinutes: s.Minutes,
		Hours:        s.Minutes / 60,
		Minutes:      s.Minutes % 60,
		Applied:      s.Applied,
	}
}
