package domain

import "testing"

func TestParseServiceKind(t *testing.T) {
	t.Parallel() // Enable parallel execution
	tests := []struct {
		input    string
		expected ServiceKind
		wantErr  bool
	}{
		{"quiz_generation", ServiceQuizGeneration, false},
		{"lesson_summary", ServiceLessonSummary, false},
		{"flashcard_generation", ServiceFlashcardGeneration, false},
		{"QUIZ_GENERATION", ServiceQuizGeneration, false},
		{"essay_grading", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		kind, err := ParseServiceKind(tt.input)

		if tt.wantErr {
			if err != ErrInvalidServiceKind {
				t.Errorf("ParseServiceKind(%q): expected error %v, got %v", tt.input, ErrInvalidServiceKind, err)
			}
			continue
		}

		if err != nil {
			t.Errorf("ParseServiceKind(%q): expected no error, got %v", tt.input, err)
		}

		if kind != tt.expected {
			t.Errorf("ParseServiceKind(%q): expected %s, got %s", tt.input, tt.expected, kind)
		}
	}
}

func TestServiceKindContentType(t *testing.T) {
	t.Parallel() // Enable parallel execution
	tests := []struct {
		kind     ServiceKind
		expected ContentType
	}{
		{ServiceQuizGeneration, ContentTypeQuiz},
		{ServiceLessonSummary, ContentTypeSummary},
		{ServiceFlashcardGeneration, ContentTypeFlashcards},
		{ServiceKind("unknown"), ContentType("")},
	}

	for _, tt := range tests {
		if got := tt.kind.ContentType(); got != tt.expected {
			t.Errorf("%s.ContentType(): expected %q, got %q", tt.kind, tt.expected, got)
		}
	}
}

func TestServiceKindsCoversAllKnownKinds(t *testing.T) {
	t.Parallel() // Enable parallel execution
	kinds := ServiceKinds()

	if len(kinds) != 3 {
		t.Fatalf("Expected 3 service kinds, got %d", len(kinds))
	}

	for _, kind := range kinds {
		if !kind.Valid() {
			t.Errorf("ServiceKinds() returned invalid kind %s", kind)
		}

		if kind.ContentType() == "" {
			t.Errorf("Kind %s has no content type", kind)
		}
	}
}
