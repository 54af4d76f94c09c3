package dto

import (
	"fmt"
	"math"
	"strings"
)

// длина одной фазы на карточке задачи
const phaseSeconds = 3600

// FormatDuration печатает "1h 2m 03s"; часы и минуты опускаются, пока равны нулю
func FormatDuration(seconds float64) string {
	total := int(math.Floor(max(0, seconds)))
	hrs := total / 3600
	mins := (total % 3600) / 60
	secs := total % 60

	parts := make([]string, 0, 3)
	if hrs > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hrs))
	}
	if mins > 0 || hrs > 0 {
		parts = append(parts, fmt.Sprintf("%dm", mins))
	}
	parts = append(parts, fmt.Sprintf("%02ds", secs))
	return strings.Join(parts, " ")
}

func phaseLabel(seconds int) string {
	hrs := seconds / 3600
	mins := (seconds % 3600) / 60
	switch {
	case hrs > 0 && mins == 0:
		return fmt.Sprintf("%dh", hrs)
	case hrs > 0:
		return fmt.Sprintf("%dh %dm", hrs, mins)
	default:
		return fmt.Sprintf("%dm", mins)
	}
}

// Phases режет бюджет на часовые отрезки и возвращает индекс текущего.
// После достижения цели текущим считается последний, без бюджета индекс -1.
func Phases(elapsed float64, target int) ([]PhaseResponse, int) {
	phases := make([]PhaseResponse, 0, (target+phaseSeconds-1)/phaseSeconds)
	current := -1

	for start := 0; start < target; start += phaseSeconds {
		end := min(start+phaseSeconds, target)
		fill := 0.0
		switch {
		case elapsed >= float64(end):
			fill = 100
		case elapsed > float64(start):
			fill = percent(elapsed-float64(start), float64(end-start))
		}
		if current < 0 && elapsed >= float64(start) && elapsed < float64(end) {
			current = len(phases)
		}
		phases = append(phases, PhaseResponse{
			Label: phaseLabel(end - start),
			Start: start,
			End:   end,
			Fill:  fill,
		})
	}

	if current < 0 && len(phases) > 0 {
		if elapsed >= float64(target) {
			current = len(phases) - 1
		} else {
			current = 0
		}
	}
	return phases, current
}

func percent(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return math.Min(part/whole*100, 100)
}
