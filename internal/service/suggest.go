package service

import (
	"context"
	"focusFlow/internal/logger"
	"strings"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

// Suggestion - результат подсказки. Applied == false означает, что вернулись исходные значения.
type Suggestion struct {
	Description string
	Minutes     int
	Applied     bool
}

// Optimize параллельно уточняет описание и оценивает длительность.
// Если хотя бы один вызов завершился ошибкой, сохраняются оба исходных значения.
func (s *TaskService) Optimize(ctx context.Context, title, description string, minutes int) (Suggestion, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Suggestion{}, NewValidationError("title", "не может быть пустым")
	}

	prior := Suggestion{Description: description, Minutes: minutes}
	if s.suggester == nil {
		logger.Info("Service: Подсказки недоступны")
		return prior, nil
	}

	var (
		refined            string
		suggested          int
		refineErr, minsErr error
	)

	wg := conc.NewWaitGroup()
	wg.Go(func() {
		refined, refineErr = s.suggester.RefineDescription(ctx, title, description)
	})
	wg.Go(func() {
		suggested, minsErr = s.suggester.SuggestDuration(ctx, title)
	})
	wg.Wait()

	if refineErr != nil || minsErr != nil {
		logger.Warn("Service: Подсказка не удалась, оставляем исходные значения",
			zap.NamedError("refine", refineErr),
			zap.NamedError("duration", minsErr))
		return prior, nil
	}

	out := Suggestion{Description: strings.TrimSpace(refined), Minutes: suggested, Applied: true}
	if out.Description == "" {
		out.Description = description
	}
	if out.Minutes <= 0 {
		out.Minutes = minutes
	}
	return out, nil
}
