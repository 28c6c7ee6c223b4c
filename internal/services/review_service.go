// Package services – ReviewService
//
// This file implements the ReviewService, which governs how users rate and
// comment on stories. It enforces business rules (story existence, rating
// domain, one review per author per story) and persists reviews atomically.
// Service-level errors (e.g. ErrInvalidRating, ErrStoryNotFound,
// ErrDuplicateReview, ErrForbidden) are returned for predictable cases so
// handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"math"
	"strings"

	"gorm.io/gorm"

	"github.com/dreambooks/go-story-backend/internal/domain"
	"github.com/dreambooks/go-story-backend/internal/repo"
)

// RatingSummary carries both forms of a story's mean rating: the unrounded
// mean for precision-sensitive rendering and the nearest-integer form for
// display. Average is nil and Rounded is 0 when the story has no reviews.
type RatingSummary struct {
	Average *float64 `json:"avg_rating"`
	Rounded int      `json:"avg_rating_rounded"`
	Count   int64    `json:"review_count"`
}

// ReviewService implements the use-cases around story reviews.
// It validates the operation (story existence, rating domain, uniqueness)
// and persists the review using the provided GORM handle. The service is
// context-aware and opens its own transaction per mutating call.
type ReviewService struct {
	// DB is the database handle used for all review operations.
	DB *gorm.DB
}

// Leave records a review of storySlug on behalf of the actor.
//
// Semantics and validation:
//   - rating must be within 1..5; otherwise ErrInvalidRating.
//   - the story must exist; otherwise ErrStoryNotFound.
//   - an author may review a story at most once; a second attempt yields
//     ErrDuplicateReview and leaves no trace.
//
// Concurrency & atomicity:
//   - The existence check and insert run inside a transaction, and the
//     (story_id, author_id) unique index is the authoritative guard, so two
//     racing submissions cannot both land: the loser's constraint violation
//     maps to ErrDuplicateReview.
func (s *ReviewService) Leave(ctx context.Context, actor Actor, storySlug string, rating int, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	var created *domain.Review
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st, err := repo.GetStoryBySlug(ctx, tx, storySlug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStoryNotFound
			}
			return err
		}

		// Advisory pre-check for a friendlier error; the unique index still
		// decides under concurrency.
		if already, err := repo.HasReviewed(ctx, tx, st.ID, actor.ID); err != nil {
			return err
		} else if already {
			return ErrDuplicateReview
		}

		r, err := repo.CreateReview(tx, st.ID, actor.ID, rating, strings.TrimSpace(comment))
		if err != nil {
			if repo.IsUniqueViolation(err) {
				return ErrDuplicateReview
			}
			return err
		}
		created = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update changes the rating and comment of an existing review. Only the
// review's author may edit it; staff cannot rewrite other people's opinions.
func (s *ReviewService) Update(ctx context.Context, actor Actor, reviewID string, rating int, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	r, err := repo.GetReview(ctx, s.DB, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if r.AuthorID != actor.ID {
		return nil, ErrForbidden
	}

	if err := repo.UpdateReview(ctx, s.DB, reviewID, rating, strings.TrimSpace(comment)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return repo.GetReview(ctx, s.DB, reviewID)
}

// Delete removes a review. The author may delete their own review; staff
// may delete anyone's. The story and its other reviews are unaffected.
func (s *ReviewService) Delete(ctx context.Context, actor Actor, reviewID string) error {
	r, err := repo.GetReview(ctx, s.DB, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	if r.AuthorID != actor.ID && !actor.Staff {
		return ErrForbidden
	}
	if err := repo.DeleteReview(ctx, s.DB, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	return nil
}

// ListForStory returns a story's reviews, newest first.
func (s *ReviewService) ListForStory(ctx context.Context, storyID string) ([]domain.Review, error) {
	return repo.ListReviewsByStory(ctx, s.DB, storyID)
}

// Summary computes the story's rating aggregate. The mean is the simple
// unweighted average over at most one rating per distinct author; display
// rounding is half-to-even, so a 4.5 mean shows 4 stars and a 3.5 mean
// shows 4.
func (s *ReviewService) Summary(ctx context.Context, storyID string) (RatingSummary, error) {
	avg, count, err := repo.StoryRating(ctx, s.DB, storyID)
	if err != nil {
		return RatingSummary{}, err
	}
	out := RatingSummary{Average: avg, Count: count}
	if avg != nil {
		out.Rounded = int(math.RoundToEven(*avg))
	}
	return out, nil
}
