package logger_test

import (
	"errors"
	"focusFlow/internal/logger"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := logger.Logger
	logger.Logger = zap.New(core)
	t.Cleanup(func() { logger.Logger = prev })
	return logs
}

func TestInit(t *testing.T) {
	prev := logger.Logger
	t.Cleanup(func() { logger.Logger = prev })

	require.NoError(t, logger.Init(true))
	assert.NotNil(t, logger.Logger)
	require.NoError(t, logger.Init(false))
}

func TestError_AttachesErr(t *testing.T) {
	logs := observe(t)

	logger.Error("Service: Ошибка", errors.New("boom"), zap.String("task_id", "1"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "boom", fields["error"])
	assert.Equal(t, "1", fields["task_id"])
}

func TestHttpRequestInfo(t *testing.T) {
	logs := observe(t)
	r := httptest.NewRequest("GET", "/tasks?limit=5", nil)

	logger.HttpRequestInfo(r, "HTTP_IN:")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/tasks", fields["path"])
	assert.Equal(t, "limit=5", fields["query"])
}
