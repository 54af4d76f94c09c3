package ai

import (
	"context"
	"encoding/json"
	"focusFlow/internal/config"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGemini struct {
	mu     sync.Mutex
	status int
	text   string
	paths  []string
	keys   []string
	bodies []string
}

func (f *fakeGemini) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	body, _ := io.ReadAll(r.Body)
	f.paths = append(f.paths, r.URL.Path)
	f.keys = append(f.keys, r.Header.Get("x-goog-api-key"))
	f.bodies = append(f.bodies, string(body))

	w.Header().Set("Content-Type", "application/json")
	if f.status != 0 && f.status != http.StatusOK {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"bad request","status":"INVALID_ARGUMENT"}}`))
		return
	}

	resp := map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": f.text}},
				},
			},
		},
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func newTestClient(t *testing.T, fake *fakeGemini) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := New(context.Background(), config.AIConfig{
		APIKey:   "test-key",
		Model:    "gemini-test",
		Timeout:  5 * time.Second,
		Endpoint: srv.URL,
	})
	require.NoError(t, err)
	return client
}

func TestNew_NoAPIKey(t *testing.T) {
	_, err := New(context.Background(), config.AIConfig{APIKey: "  "})
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestClient_RefineDescription(t *testing.T) {
	fake := &fakeGemini{text: "  Read chapter 3 and summarise key points.\n"}
	client := newTestClient(t, fake)

	got, err := client.RefineDescription(context.Background(), "Study", "read stuff")
	require.NoError(t, err)
	assert.Equal(t, "Read chapter 3 and summarise key points.", got)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.paths, 1)
	assert.True(t, strings.HasSuffix(fake.paths[0], "/models/gemini-test:generateContent"), fake.paths[0])
	assert.Equal(t, "test-key", fake.keys[0])
	assert.Contains(t, fake.bodies[0], "Task Title: Study")
	assert.Contains(t, fake.bodies[0], "Current Description: read stuff")
}

func TestClient_SuggestDuration(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{name: "json object", text: `{"minutes": 45}`, expected: 45},
		{name: "fractional minutes", text: `{"minutes": 44.6}`, expected: 45},
		{name: "bare number", text: `90`, expected: 90},
		{name: "fenced json", text: "```json\n{\"minutes\": 15}\n```", expected: 15},
		{name: "zero falls back", text: `{"minutes": 0}`, expected: DefaultMinutes},
		{name: "garbage falls back", text: `about an hour`, expected: DefaultMinutes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, &fakeGemini{text: tt.text})
			got, err := client.SuggestDuration(context.Background(), "Write report")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestClient_SuggestDuration_RequestsJSON(t *testing.T) {
	fake := &fakeGemini{text: `{"minutes": 30}`}
	client := newTestClient(t, fake)

	_, err := client.SuggestDuration(context.Background(), "Write report")
	require.NoError(t, err)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.bodies, 1)
	assert.Contains(t, fake.bodies[0], `"responseMimeType":"application/json"`)
	assert.True(t, strings.Contains(fake.bodies[0], `\"Write report\"`))
}

func TestClient_Errors(t *testing.T) {
	client := newTestClient(t, &fakeGemini{status: http.StatusBadRequest})

	_, err := client.RefineDescription(context.Background(), "Study", "")
	assert.Error(t, err)

	_, err = client.SuggestDuration(context.Background(), "Study")
	assert.Error(t, err)
}

func TestClient_EmptyResponse(t *testing.T) {
	client := newTestClient(t, &fakeGemini{text: ""})

	_, err := client.RefineDescription(context.Background(), "Study", "")
	assert.ErrorIs(t, err, ErrEmptyResponse)

	minutes, err := client.SuggestDuration(context.Background(), "Study")
	require.NoError(t, err)
	assert.Equal(t, DefaultMinutes, minutes)
}
