package generation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// extractPayload isolates the JSON object embedded in generated text:
// everything from the first '{' to the last '}'. Models often wrap the
// payload in prose or code fences, so the surrounding text is ignored.
func extractPayload(text string) (json.RawMessage, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrInvalidFormat)
	}
	return json.RawMessage(text[start : end+1]), nil
}

// parseQuizPayload extracts and checks the quiz structure: a "questions"
// list whose entries each carry "question", "type", and "correct_answer",
// with "options" additionally required for multiple choice. The payload
// is returned as-is so extra generated fields survive storage.
func parseQuizPayload(text string) (json.RawMessage, error) {
	payload, err := extractPayload(text)
	if err != nil {
		return nil, err
	}

	var data struct {
		Questions []map[string]any `json:"questions"`
	}
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if data.Questions == nil {
		return nil, fmt.Errorf("%w: missing %q key", ErrInvalidFormat, "questions")
	}

	for i, question := range data.Questions {
		for _, field := range []string{"question", "type", "correct_answer"} {
			if _, ok := question[field]; !ok {
				return nil, fmt.Errorf("%w: question %d missing required field %q",
					ErrInvalidFormat, i+1, field)
			}
		}
		if question["type"] == "multiple_choice" {
			if _, ok := question["options"]; !ok {
				return nil, fmt.Errorf("%w: multiple choice question %d missing options",
					ErrInvalidFormat, i+1)
			}
		}
	}

	return payload, nil
}

// parseFlashcardPayload extracts and checks the flashcard structure: a
// "flashcards" list whose entries each carry "question" and "answer".
func parseFlashcardPayload(text string) (json.RawMessage, error) {
	payload, err := extractPayload(text)
	if err != nil {
		return nil, err
	}

	var data struct {
		Flashcards []map[string]any `json:"flashcards"`
	}
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if data.Flashcards == nil {
		return nil, fmt.Errorf("%w: missing %q key", ErrInvalidFormat, "flashcards")
	}

	for i, card := range data.Flashcards {
		for _, field := range []string{"question", "answer"} {
			if _, ok := card[field]; !ok {
				return nil, fmt.Errorf("%w: flashcard %d missing required field %q",
					ErrInvalidFormat, i+1, field)
			}
		}
	}

	return payload, nil
}
