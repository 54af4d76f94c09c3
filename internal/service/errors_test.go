package service_test

import (
	"errors"
	"focusFlow/internal/service"
	"focusFlow/internal/timer"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBusinessError_Details(t *testing.T) {
	err := service.NewBusinessError(service.CodeValidation, "плохой ввод",
		service.ToDetail("field", "title"),
		service.ToDetail("limit", 3),
	)

	assert.Equal(t, service.CodeValidation, err.Code)
	assert.Equal(t, "[VALIDATION_ERROR] плохой ввод", err.Error())
	assert.Equal(t, map[string]any{"field": "title", "limit": 3}, err.Details)
	assert.Nil(t, err.Unwrap())
}

func TestNewNotFound(t *testing.T) {
	err := service.NewNotFound("task", "42", timer.ErrTaskNotFound)

	assert.Equal(t, service.CodeNotFound, err.Code)
	assert.Equal(t, map[string]any{"resource": "task", "id": "42"}, err.Details)
	assert.True(t, errors.Is(err, timer.ErrTaskNotFound))
	assert.Contains(t, err.Error(), "task 42")
}

func TestNewValidationError(t *testing.T) {
	err := service.NewValidationError("title", "не может быть пустым")

	assert.Equal(t, service.CodeValidation, err.Code)
	assert.Equal(t, map[string]any{"field": "title", "reason": "не может быть пустым"}, err.Details)
	assert.Contains(t, err.Error(), "'title'")
}
