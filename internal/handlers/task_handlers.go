package handlers

import (
	"context"
	"focusFlow/internal/handlers/dto"
	"focusFlow/internal/logger"
	"focusFlow/internal/models/task"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaskHandler struct {
	service Service
}

func NewTaskHandler(service Service) *TaskHandler {
	return &TaskHandler{
		service: service,
	}
}

// Routes регистрирует маршруты задач на роутере
func (h *TaskHandler) Routes(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.GetTasks)  // GET /tasks
		r.Post("/", h.PostTask) // POST /tasks

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetTaskByID)       // GET /tasks/{id}
			r.Delete("/", h.DeleteTaskByID) // DELETE /tasks/{id}

			r.Post("/toggle", h.ToggleTimer)    // POST /tasks/{id}/toggle
			r.Post("/mode", h.ToggleMode)       // POST /tasks/{id}/mode
			r.Post("/complete", h.CompleteTask) // POST /tasks/{id}/complete
			r.Post("/reset", h.ResetTask)       // POST /tasks/{id}/reset
		})
	})

	r.Get("/stats", h.GetStats)
	r.Post("/suggestions", h.PostSuggestion)
	r.Get("/health", h.HealthCheck)
}

func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tasks := h.service.ListTasks(r.Context())

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, dto.FromTaskList(tasks))
}

func (h *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if !requireJSON(w, r) {
		return
	}

	var request dto.CreateTaskRequest
	if !decodeBody(w, r, &request) {
		return
	}

	focus, learn := request.Budgets()
	created, err := h.service.CreateTask(r.Context(), request.Title, request.Description, focus, learn)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "create_task"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", created.UUID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	writeJSON(w, http.StatusCreated, dto.FromTask(&created))
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	h.taskCommand(w, r, "get_task", h.service.GetTask)
}

func (h *TaskHandler) ToggleTimer(w http.ResponseWriter, r *http.Request) {
	h.taskCommand(w, r, "toggle_timer", h.service.StartOrPause)
}

func (h *TaskHandler) ToggleMode(w http.ResponseWriter, r *http.Request) {
	h.taskCommand(w, r, "toggle_mode", h.service.ToggleMode)
}

func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	h.taskCommand(w, r, "complete_task", h.service.MarkComplete)
}

func (h *TaskHandler) ResetTask(w http.ResponseWriter, r *http.Request) {
	h.taskCommand(w, r, "reset_task", h.service.ResetTask)
}

// taskCommand - общий путь для команд над одной задачей, отвечает её новым состоянием
func (h *TaskHandler) taskCommand(w http.ResponseWriter, r *http.Request, operation string,
	call func(context.Context, uuid.UUID) (task.Task, error)) {
	start := time.Now()

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	result, err := call(r.Context(), id)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка в Service", err,
			zap.String("operation", operation),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Команда выполнена",
		zap.String("operation", operation),
		zap.String("task_id", id.String()),
		zap.String("status", string(result.Status)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, dto.FromTask(&result))
}

func (h *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteTask(r.Context(), id); err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка в Service", err,
			zap.String("operation", "delete_task"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.FromStats(h.service.Stats(r.Context())))
}

func (h *TaskHandler) PostSuggestion(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if !requireJSON(w, r) {
		return
	}

	var request dto.SuggestionRequest
	if !decodeBody(w, r, &request) {
		return
	}

	suggestion, err := h.service.Optimize(r.Context(), request.Title, request.Description, request.Minutes)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err, zap.String("operation", "optimize"))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Подсказка готова",
		zap.Bool("applied", suggestion.Applied),
		zap.Duration("ms", time.Since(start)))

	writeJSON(w, http.StatusOK, dto.FromSuggestion(suggestion))
}

func (h *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := h.service.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Сервис нездоров", err)
		responseWithJSON(w, http.StatusServiceUnavailable,
			toPayload("status", "unhealthy"),
			toPayload("service", "focus-flow"),
			toPayload("error", err.Error()),
		)
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("status", "healthy"),
		toPayload("service", "focus-flow"),
		toPayload("time", time.Now().UTC()),
	)
}
