package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReviewStatus represents the moderation state of generated content
type ReviewStatus string

// Possible review status values
const (
	ReviewStatusPending      ReviewStatus = "pending"
	ReviewStatusApproved     ReviewStatus = "approved"
	ReviewStatusRejected     ReviewStatus = "rejected"
	ReviewStatusAutoApproved ReviewStatus = "auto_approved"
)

// Common validation errors for GeneratedContent
var (
	ErrEmptyContentID       = errors.New("generated content ID cannot be empty")
	ErrEmptyContentUserID   = errors.New("generated content user ID cannot be empty")
	ErrEmptyContentLessonID = errors.New("generated content lesson ID cannot be empty")
	ErrInvalidContentType   = errors.New("invalid content type")
	ErrEmptyGeneratedData   = errors.New("generated data cannot be empty")
	ErrInvalidGeneratedData = errors.New("generated data must be valid JSON")
	ErrInvalidReviewStatus  = errors.New("invalid review status")
	ErrEmptyReviewerID      = errors.New("reviewer ID cannot be empty")
)

// GeneratedContent is the stored result of a generation request together
// with its review state. Quizzes requested by students start pending;
// instructor-requested quizzes, summaries, and flashcards are
// auto-approved at creation.
type GeneratedContent struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	ContentType     ContentType     `json:"content_type"`
	LessonID        uuid.UUID       `json:"lesson_id"`
	SourceText      string          `json:"source_text"`
	GeneratedData   json.RawMessage `json:"generated_data"`
	PromptUsed      string          `json:"-"`
	UsageRecordID   uuid.UUID       `json:"usage_record_id"`
	Status          ReviewStatus    `json:"status"`
	ValidationScore int             `json:"validation_score"`
	ReviewedBy      *uuid.UUID      `json:"reviewed_by,omitempty"`
	ReviewNotes     string          `json:"review_notes,omitempty"`
	ReviewedAt      *time.Time      `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NewGeneratedContent creates a new GeneratedContent record for the given
// user, lesson, and content payload. It generates a new UUID for the
// record ID and sets the creation timestamp. Source text, prompt, usage
// record link, and validation score are filled in by the caller.
// Returns an error if validation fails.
func NewGeneratedContent(
	userID, lessonID uuid.UUID,
	contentType ContentType,
	data json.RawMessage,
	status ReviewStatus,
) (*GeneratedContent, error) {
	content := &GeneratedContent{
		ID:            uuid.New(),
		UserID:        userID,
		ContentType:   contentType,
		LessonID:      lessonID,
		GeneratedData: data,
		Status:        status,
		CreatedAt:     time.Now().UTC(),
	}

	if err := content.Validate(); err != nil {
		return nil, err
	}

	return content, nil
}

// Validate checks if the GeneratedContent has valid data.
// Returns an error if any field fails validation.
func (g *GeneratedContent) Validate() error {
	if g.ID == uuid.Nil {
		return ErrEmptyContentID
	}

	if g.UserID == uuid.Nil {
		return ErrEmptyContentUserID
	}

	if g.LessonID == uuid.Nil {
		return ErrEmptyContentLessonID
	}

	if !g.ContentType.Valid() {
		return ErrInvalidContentType
	}

	if len(g.GeneratedData) == 0 {
		return ErrEmptyGeneratedData
	}

	var js json.RawMessage
	if err := json.Unmarshal(g.GeneratedData, &js); err != nil {
		return ErrInvalidGeneratedData
	}

	if !isValidReviewStatus(g.Status) {
		return ErrInvalidReviewStatus
	}

	return nil
}

// Approve marks the content as approved by the given reviewer and
// records the review time. Returns an error if the reviewer ID is empty.
func (g *GeneratedContent) Approve(reviewer uuid.UUID, notes string) error {
	return g.review(ReviewStatusApproved, reviewer, notes)
}

// Reject marks the content as rejected by the given reviewer and
// records the review time. Returns an error if the reviewer ID is empty.
func (g *GeneratedContent) Reject(reviewer uuid.UUID, notes string) error {
	return g.review(ReviewStatusRejected, reviewer, notes)
}

func (g *GeneratedContent) review(status ReviewStatus, reviewer uuid.UUID, notes string) error {
	if reviewer == uuid.Nil {
		return ErrEmptyReviewerID
	}

	now := time.Now().UTC()
	g.Status = status
	g.ReviewedBy = &reviewer
	g.ReviewNotes = notes
	g.ReviewedAt = &now
	return nil
}

// isValidReviewStatus checks if the given status is a valid ReviewStatus.
func isValidReviewStatus(status ReviewStatus) bool {
	switch status {
	case ReviewStatusPending, ReviewStatusApproved, ReviewStatusRejected, ReviewStatusAutoApproved:
		return true
	default:
		return false
	}
}
