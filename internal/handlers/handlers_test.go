package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"focusFlow/internal/handlers"
	"focusFlow/internal/handlers/dto"
	"focusFlow/internal/models/task"
	"focusFlow/internal/service"
	"focusFlow/internal/timer"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTaskService - мок сервиса
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTaskService) CreateTask(ctx context.Context, title, description string, focusSeconds, learnSeconds int) (task.Task, error) {
	args := m.Called(ctx, title, description, focusSeconds, learnSeconds)
	return args.Get(0).(task.Task), args.Error(1)
}

func (m *MockTaskService) ListTasks(ctx context.Context) []task.Task {
	args := m.Called(ctx)
	return args.Get(0).([]task.Task)
}

func (m *MockTaskService) GetTask(ctx context.Context, id uuid.UUID) (task.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(task.Task), args.Error(1)
}

func (m *MockTaskService) StartOrPause(ctx context.Context, id uuid.UUID) (task.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(task.Task), args.Error(1)
}

func (m *MockTaskService) ToggleMode(ctx context.Context, id uuid.UUID) (task.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(task.Task), args.Error(1)
}

func (m *MockTaskService) MarkComplete(ctx context.Context, id uuid.UUID) (task.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(task.Task), args.Error(1)
}

func (m *MockTaskService) ResetTask(ctx context.Context, id uuid.UUID) (task.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(task.Task), args.Error(1)
}

func (m *MockTaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskService) Stats(ctx context.Context) service.Stats {
	args := m.Called(ctx)
	return args.Get(0).(service.Stats)
}

func (m *MockTaskService) Optimize(ctx context.Context, title, description string, minutes int) (service.Suggestion, error) {
	args := m.Called(ctx, title, description, minutes)
	return args.Get(0).(service.Suggestion), args.Error(1)
}

var _ handlers.Service = (*MockTaskService)(nil)

func newRouter(svc handlers.Service) http.Handler {
	r := chi.NewRouter()
	handlers.NewTaskHandler(svc).Routes(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func sampleTask() task.Task {
	return *task.New("Deep work", task.WithFocusTarget(1500))
}

// TestTaskHandler_HealthCheck тестирует HealthCheck
func TestTaskHandler_HealthCheck(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockTaskService)
		expectedStatus int
	}{
		{
			name: "success - healthy",
			setupMock: func(m *MockTaskService) {
				m.On("HealthCheck", mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "error - unhealthy",
			setupMock: func(m *MockTaskService) {
				m.On("HealthCheck", mock.Anything).Return(errors.New("storage unavailable"))
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTaskService)
			tt.setupMock(mockService)

			w := do(t, newRouter(mockService), http.MethodGet, "/health", "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), "focus-flow")
			mockService.AssertExpectations(t)
		})
	}
}

// TestTaskHandler_PostTask тестирует создание задачи
func TestTaskHandler_PostTask(t *testing.T) {
	created := sampleTask()

	tests := []struct {
		name           string
		requestBody    string
		contentType    string
		setupMock      func(*MockTaskService)
		expectedStatus int
	}{
		{
			name:        "success - seconds",
			requestBody: `{"title": "Deep work", "description": "chapter 2", "focus_seconds": 1500}`,
			contentType: "application/json",
			setupMock: func(m *MockTaskService) {
				m.On("CreateTask", mock.Anything, "Deep work", "chapter 2", 1500, 0).Return(created, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:        "success - hours and minutes",
			requestBody: `{"title": "Deep work", "focus_minutes": 25, "learn_hours": 1}`,
			contentType: "application/json; charset=utf-8",
			setupMock: func(m *MockTaskService) {
				m.On("CreateTask", mock.Anything, "Deep work", "", 1500, 3600).Return(created, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "error - invalid content type",
			requestBody:    `{}`,
			contentType:    "text/plain",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:           "error - invalid JSON",
			requestBody:    `{invalid json}`,
			contentType:    "application/json",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "error - body too large",
			requestBody:    `{"title": "Deep work", "description": "` + strings.Repeat("a", 80<<10) + `"}`,
			contentType:    "application/json",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusRequestEntityTooLarge,
		},
		{
			name:        "error - validation",
			requestBody: `{"title": "Deep work"}`,
			contentType: "application/json",
			setupMock: func(m *MockTaskService) {
				m.On("CreateTask", mock.Anything, "Deep work", "", 0, 0).
					Return(task.Task{}, service.NewValidationError("focus_seconds", "нужен хотя бы один положительный бюджет"))
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTaskService)
			tt.setupMock(mockService)

			req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(tt.requestBody))
			req.Header.Set("Content-Type", tt.contentType)
			w := httptest.NewRecorder()
			newRouter(mockService).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusCreated {
				var resp dto.TaskResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, created.UUID, resp.UUID)
				assert.Equal(t, "25m 00s", resp.Target)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestTaskHandler_GetTasks(t *testing.T) {
	mockService := new(MockTaskService)
	mockService.On("ListTasks", mock.Anything).Return([]task.Task{sampleTask(), sampleTask()})

	w := do(t, newRouter(mockService), http.MethodGet, "/tasks", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp []dto.TaskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
	mockService.AssertExpectations(t)
}

// TestTaskHandler_Commands тестирует команды над задачей
func TestTaskHandler_Commands(t *testing.T) {
	running := sampleTask()
	running.Status = task.StatusRunning

	tests := []struct {
		path   string
		method string
	}{
		{path: "/toggle", method: "StartOrPause"},
		{path: "/mode", method: "ToggleMode"},
		{path: "/complete", method: "MarkComplete"},
		{path: "/reset", method: "ResetTask"},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			mockService := new(MockTaskService)
			mockService.On(tt.method, mock.Anything, running.UUID).Return(running, nil)

			w := do(t, newRouter(mockService), http.MethodPost, "/tasks/"+running.UUID.String()+tt.path, "")

			require.Equal(t, http.StatusOK, w.Code)
			var resp dto.TaskResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "RUNNING", resp.Status)
			mockService.AssertExpectations(t)
		})
	}
}

func TestTaskHandler_GetTaskByID(t *testing.T) {
	existing := sampleTask()
	missing := uuid.New()

	tests := []struct {
		name           string
		path           string
		setupMock      func(*MockTaskService)
		expectedStatus int
	}{
		{
			name: "success",
			path: "/tasks/" + existing.UUID.String(),
			setupMock: func(m *MockTaskService) {
				m.On("GetTask", mock.Anything, existing.UUID).Return(existing, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "error - not found",
			path: "/tasks/" + missing.String(),
			setupMock: func(m *MockTaskService) {
				m.On("GetTask", mock.Anything, missing).
					Return(task.Task{}, service.NewNotFound("задача", missing.String(), timer.ErrTaskNotFound))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "error - invalid id",
			path:           "/tasks/not-a-uuid",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "error - nil id",
			path:           "/tasks/" + uuid.Nil.String(),
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "error - service failure",
			path: "/tasks/" + existing.UUID.String(),
			setupMock: func(m *MockTaskService) {
				m.On("GetTask", mock.Anything, existing.UUID).Return(task.Task{}, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTaskService)
			tt.setupMock(mockService)

			w := do(t, newRouter(mockService), http.MethodGet, tt.path, "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestTaskHandler_DeleteTask(t *testing.T) {
	id := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("DeleteTask", mock.Anything, id).Return(nil)

		w := do(t, newRouter(mockService), http.MethodDelete, "/tasks/"+id.String(), "")
		assert.Equal(t, http.StatusNoContent, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("DeleteTask", mock.Anything, id).
			Return(service.NewNotFound("задача", id.String(), timer.ErrTaskNotFound))

		w := do(t, newRouter(mockService), http.MethodDelete, "/tasks/"+id.String(), "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), service.CodeNotFound)
	})
}

func TestTaskHandler_GetStats(t *testing.T) {
	running := sampleTask()
	running.Status = task.StatusRunning

	mockService := new(MockTaskService)
	mockService.On("Stats", mock.Anything).Return(service.Stats{Total: 3, Completed: 1, Running: &running})

	w := do(t, newRouter(mockService), http.MethodGet, "/stats", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 1, resp.Completed)
	require.NotNil(t, resp.Running)
	assert.Equal(t, running.UUID, resp.Running.UUID)
}

func TestTaskHandler_PostSuggestion(t *testing.T) {
	mockService := new(MockTaskService)
	mockService.On("Optimize", mock.Anything, "Learn Go", "basics", 25).
		Return(service.Suggestion{Description: "Finish the tour of Go.", Minutes: 90, Applied: true}, nil)

	w := do(t, newRouter(mockService), http.MethodPost, "/suggestions",
		`{"title": "Learn Go", "description": "basics", "minutes": 25}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.SuggestionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Finish the tour of Go.", resp.Description)
	assert.Equal(t, 1, resp.Hours)
	assert.Equal(t, 30, resp.Minutes)
	assert.True(t, resp.Applied)
	mockService.AssertExpectations(t)
}

func TestTaskHandler_PostSuggestion_BodyTooLarge(t *testing.T) {
	mockService := new(MockTaskService)

	body := `{"title": "Learn Go", "description": "` + strings.Repeat("b", 80<<10) + `"}`
	w := do(t, newRouter(mockService), http.MethodPost, "/suggestions", body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	mockService.AssertNotCalled(t, "Optimize", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
