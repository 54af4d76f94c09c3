package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"focusFlow/internal/config"
	"focusFlow/internal/logger"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

var (
	ErrNoAPIKey      = errors.New("ai: api key not configured")
	ErrEmptyResponse = errors.New("ai: empty response")
)

const defaultModel = "gemini-3-flash-preview"

// Client - генератор подсказок поверх Gemini generateContent
type Client struct {
	models  *genai.Models
	model   string
	timeout time.Duration
}

func New(ctx context.Context, cfg config.AIConfig) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNoAPIKey
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Endpoint != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("создание клиента Gemini: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &Client{models: client.Models, model: model, timeout: cfg.Timeout}, nil
}

func (c *Client) RefineDescription(ctx context.Context, title, description string) (string, error) {
	text, err := c.generate(ctx, "refine", refinePrompt(title, description), nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// SuggestDuration возвращает оценку в минутах. Непонятный ответ модели даёт DefaultMinutes,
// ошибкой считается только сбой вызова.
func (c *Client) SuggestDuration(ctx context.Context, title string) (int, error) {
	text, err := c.generate(ctx, "duration", durationPrompt(title), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		if errors.Is(err, ErrEmptyResponse) {
			return DefaultMinutes, nil
		}
		return 0, err
	}
	return parseMinutes(text), nil
}

func (c *Client) generate(ctx context.Context, operation, prompt string, genCfg *genai.GenerateContentConfig) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), genCfg)
	if err != nil {
		logger.Error("AI: Ошибка запроса к модели", err,
			zap.String("operation", operation),
			zap.Duration("ms", time.Since(start)))
		return "", fmt.Errorf("generateContent %s: %w", operation, err)
	}

	logger.Debug("AI: Ответ модели получен",
		zap.String("operation", operation),
		zap.Duration("ms", time.Since(start)))

	if resp == nil || resp.Text() == "" {
		return "", ErrEmptyResponse
	}
	return resp.Text(), nil
}

// parseMinutes понимает {"minutes": N} или голое число
func parseMinutes(text string) int {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var payload struct {
		Minutes float64 `json:"minutes"`
	}
	value := 0.0
	if err := json.Unmarshal([]byte(text), &payload); err == nil {
		value = payload.Minutes
	} else if n, err := strconv.ParseFloat(text, 64); err == nil {
		value = n
	}

	minutes := int(math.Round(value))
	if minutes <= 0 {
		return DefaultMinutes
	}
	return minutes
}
