package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestNewGeneratedContent(t *testing.T) {
	t.Parallel() // Enable parallel execution
	userID := uuid.New()
	lessonID := uuid.New()
	data := json.RawMessage(`{"questions": [{"question": "What is recursion?"}]}`)

	content, err := NewGeneratedContent(userID, lessonID, ContentTypeQuiz, data, ReviewStatusPending)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if content.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if content.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, content.UserID)
	}

	if content.LessonID != lessonID {
		t.Errorf("Expected lesson ID %s, got %s", lessonID, content.LessonID)
	}

	if content.Status != ReviewStatusPending {
		t.Errorf("Expected status %s, got %s", ReviewStatusPending, content.Status)
	}

	if content.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	// Test invalid userID
	_, err = NewGeneratedContent(uuid.Nil, lessonID, ContentTypeQuiz, data, ReviewStatusPending)
	if err != ErrEmptyContentUserID {
		t.Errorf("Expected error %v, got %v", ErrEmptyContentUserID, err)
	}

	// Test invalid lessonID
	_, err = NewGeneratedContent(userID, uuid.Nil, ContentTypeQuiz, data, ReviewStatusPending)
	if err != ErrEmptyContentLessonID {
		t.Errorf("Expected error %v, got %v", ErrEmptyContentLessonID, err)
	}

	// Test invalid content type
	_, err = NewGeneratedContent(userID, lessonID, ContentType("essay"), data, ReviewStatusPending)
	if err != ErrInvalidContentType {
		t.Errorf("Expected error %v, got %v", ErrInvalidContentType, err)
	}

	// Test empty data
	_, err = NewGeneratedContent(userID, lessonID, ContentTypeQuiz, nil, ReviewStatusPending)
	if err != ErrEmptyGeneratedData {
		t.Errorf("Expected error %v, got %v", ErrEmptyGeneratedData, err)
	}

	// Test invalid JSON data
	badJSON := json.RawMessage(`{"questions": [`)
	_, err = NewGeneratedContent(userID, lessonID, ContentTypeQuiz, badJSON, ReviewStatusPending)
	if err != ErrInvalidGeneratedData {
		t.Errorf("Expected error %v, got %v", ErrInvalidGeneratedData, err)
	}

	// Test invalid review status
	_, err = NewGeneratedContent(userID, lessonID, ContentTypeQuiz, data, ReviewStatus("flagged"))
	if err != ErrInvalidReviewStatus {
		t.Errorf("Expected error %v, got %v", ErrInvalidReviewStatus, err)
	}
}

func TestGeneratedContentReview(t *testing.T) {
	t.Parallel() // Enable parallel execution
	data := json.RawMessage(`{"summary": "Recursion is a function calling itself."}`)
	content, err := NewGeneratedContent(uuid.New(), uuid.New(), ContentTypeSummary, data, ReviewStatusPending)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	reviewer := uuid.New()

	// Approve sets status, reviewer, and review time
	if err := content.Approve(reviewer, "looks accurate"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if content.Status != ReviewStatusApproved {
		t.Errorf("Expected status %s, got %s", ReviewStatusApproved, content.Status)
	}

	if content.ReviewedBy == nil || *content.ReviewedBy != reviewer {
		t.Errorf("Expected reviewer %s, got %v", reviewer, content.ReviewedBy)
	}

	if content.ReviewNotes != "looks accurate" {
		t.Errorf("Expected review notes to be set, got %q", content.ReviewNotes)
	}

	if content.ReviewedAt == nil || content.ReviewedAt.IsZero() {
		t.Error("Expected ReviewedAt to be set")
	}

	// Reject overrides a prior approval
	if err := content.Reject(reviewer, "factual error in question 2"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if content.Status != ReviewStatusRejected {
		t.Errorf("Expected status %s, got %s", ReviewStatusRejected, content.Status)
	}

	// Nil reviewer is rejected and leaves the record unchanged
	before := content.Status
	if err := content.Approve(uuid.Nil, ""); err != ErrEmptyReviewerID {
		t.Errorf("Expected error %v, got %v", ErrEmptyReviewerID, err)
	}

	if content.Status != before {
		t.Errorf("Expected status to remain %s, got %s", before, content.Status)
	}
}
