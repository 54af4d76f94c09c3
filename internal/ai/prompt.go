package ai

import "fmt"

// длительность по умолчанию, если модель не дала внятного ответа
const DefaultMinutes = 25

func refinePrompt(title, description string) string {
	return fmt.Sprintf(`Please refine this task description to be more actionable and professional.
Task Title: %s
Current Description: %s
Keep it under 30 words.`, title, description)
}

func durationPrompt(title string) string {
	return fmt.Sprintf(`How many minutes should a task titled %q realistically take? `+
		`Return ONLY a JSON object of the form {"minutes": <number>}.`, title)
}
