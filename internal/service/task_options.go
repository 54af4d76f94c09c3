package service

import (
	"focusFlow/internal/clock"
)

// опции сервиса по образцу опций задачи
type ServiceOption func(*TaskService)

func WithClock(c clock.Clock) ServiceOption {
	return func(s *TaskService) {
		if c != nil {
			s.clock = c
		}
	}
}

func WithSuggester(suggester Suggester) ServiceOption {
	return func(s *TaskService) {
		s.suggester = suggester
	}
}
