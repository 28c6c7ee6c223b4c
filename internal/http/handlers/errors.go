// Package handlers defines the HTTP-layer error taxonomy used across all API
// endpoints.
//
// Symbolic error codes give clients a stable, machine-readable string to
// branch on, supplementing the human-readable message. Generic codes mirror
// common HTTP status semantics; domain-specific codes cover business rules
// that a status alone cannot convey (duplicate_review, username_taken).
//
// failService maps service sentinel errors onto (status, code, message)
// triples so every handler translates the same business error the same way.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dreambooks/go-story-backend/internal/services"
)

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeDuplicateReview  = "duplicate_review"
	ErrCodeInvalidRating    = "invalid_rating"
	ErrCodeUsernameTaken    = "username_taken"
	ErrCodeWrongPassword    = "wrong_password"
	ErrCodeCreateFailed     = "create_failed"
	ErrCodeListFailed       = "list_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)

// failService translates a service error into the standard envelope. Unknown
// errors become 500 internal_error; the raw error text is not leaked to the
// client for those.
func failService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrStoryNotFound),
		errors.Is(err, services.ErrChapterNotFound),
		errors.Is(err, services.ErrReviewNotFound),
		errors.Is(err, services.ErrGenreNotFound),
		errors.Is(err, services.ErrContactNotFound),
		errors.Is(err, services.ErrUserNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, services.ErrForbidden):
		fail(c, http.StatusForbidden, ErrCodeForbidden, err.Error())
	case errors.Is(err, services.ErrDuplicateReview):
		fail(c, http.StatusConflict, ErrCodeDuplicateReview, err.Error())
	case errors.Is(err, services.ErrDuplicateGenre):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, services.ErrUsernameTaken):
		fail(c, http.StatusConflict, ErrCodeUsernameTaken, err.Error())
	case errors.Is(err, services.ErrInvalidRating):
		fail(c, http.StatusBadRequest, ErrCodeInvalidRating, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTooLong),
		errors.Is(err, services.ErrEmptyMessage):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrWrongPassword):
		fail(c, http.StatusForbidden, ErrCodeWrongPassword, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	}
}
