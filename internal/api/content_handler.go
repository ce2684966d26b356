package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/eduforge/aigen-api/internal/api/shared"
	"github.com/eduforge/aigen-api/internal/domain"
	"github.com/eduforge/aigen-api/internal/platform/logger"
	"github.com/eduforge/aigen-api/internal/redact"
	"github.com/eduforge/aigen-api/internal/store"
)

// ContentHandler handles generated content review HTTP requests
type ContentHandler struct {
	contents  store.GeneratedContentStore
	validator *validator.Validate
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(contents store.GeneratedContentStore) *ContentHandler {
	return &ContentHandler{
		contents:  contents,
		validator: validator.New(),
	}
}

// GetContent handles GET /api/content/{id} requests. The record is
// visible to its owner and to instructors; other users get a 403.
func (h *ContentHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	contentID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid content ID")
		return
	}

	content, err := h.contents.GetByID(r.Context(), contentID)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	if content.UserID != user.ID && !user.IsInstructor() {
		respondWithMappedError(w, r, domain.ErrUnauthorized)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, content)
}

// ReviewContent handles POST /api/content/{id}/review requests.
// Only instructors and admins may review; the updated record is
// returned on success.
func (h *ContentHandler) ReviewContent(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	user, ok := userFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	if !user.IsInstructor() {
		respondWithMappedError(w, r, domain.ErrUnauthorized)
		return
	}

	contentID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid content ID")
		return
	}

	var req ReviewContentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	content, err := h.contents.GetByID(r.Context(), contentID)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	switch req.Action {
	case "approve":
		err = content.Approve(user.ID, req.Notes)
	case "reject":
		err = content.Reject(user.ID, req.Notes)
	default:
		// The validator's oneof tag catches this before we get here.
		err = domain.ErrInvalidReviewStatus
	}
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	if err := h.contents.UpdateReview(r.Context(), content); err != nil {
		log.Error("failed to persist content review",
			"error", redact.Error(err),
			"content_id", contentID,
			"reviewer_id", user.ID,
			"action", req.Action)
		respondWithMappedError(w, r, err)
		return
	}

	log.Info("content reviewed",
		"content_id", contentID,
		"reviewer_id", user.ID,
		"action", req.Action,
		"status", content.Status)

	shared.RespondWithJSON(w, r, http.StatusOK, content)
}
