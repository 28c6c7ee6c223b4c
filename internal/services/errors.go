// Package services defines the business logic for stories, chapters,
// reviews, genres, accounts, and contact messages. This file centralizes
// common service-level error values so that they can be consistently
// returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler/controller layer.
package services

import "errors"

var (
	// ErrStoryNotFound indicates that the requested story does not exist.
	ErrStoryNotFound = errors.New("story not found")

	// ErrChapterNotFound indicates that the requested chapter does not exist
	// within the addressed story.
	ErrChapterNotFound = errors.New("chapter not found")

	// ErrReviewNotFound indicates that the requested review does not exist.
	ErrReviewNotFound = errors.New("review not found")

	// ErrGenreNotFound indicates that the requested genre does not exist.
	ErrGenreNotFound = errors.New("genre not found")

	// ErrContactNotFound indicates that the requested contact message does
	// not exist.
	ErrContactNotFound = errors.New("contact message not found")

	// ErrUserNotFound indicates that the requested account does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrForbidden is returned when an actor who is neither the owner of a
	// resource nor staff attempts a restricted mutation. Every restricted
	// path signals denial through this single error.
	ErrForbidden = errors.New("forbidden")

	// ErrDuplicateReview is returned when a user attempts a second review on
	// a story they have already reviewed.
	ErrDuplicateReview = errors.New("you have already posted a review for this story")

	// ErrInvalidRating is returned when a rating falls outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrTitleRequired is returned when a story or chapter is submitted
	// without a title.
	ErrTitleRequired = errors.New("title is required")

	// ErrTooLong is returned when a submitted field exceeds its configured
	// maximum length.
	ErrTooLong = errors.New("input too long")

	// ErrEmptyMessage is returned when a contact message body is blank.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrUsernameTaken is returned when signup or an account update collides
	// with an existing username.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrDuplicateGenre is returned when a genre with the same name exists.
	ErrDuplicateGenre = errors.New("genre already exists")

	// ErrWrongPassword is returned by password changes when the current
	// password does not verify.
	ErrWrongPassword = errors.New("current password is incorrect")
)
