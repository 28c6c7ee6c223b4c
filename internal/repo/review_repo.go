// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Review
// model. The (story_id, author_id) unique index is the authoritative guard
// for the one-review-per-author rule; IsUniqueViolation maps the driver's
// constraint errors so services can translate them into a stable sentinel.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dreambooks/go-story-backend/internal/domain"
)

// IsUniqueViolation reports whether err is a unique-constraint violation.
// glebarez/sqlite often returns plain-text errors for UNIQUE violations, so
// the gorm sentinel alone is not enough.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key")
}

// CreateReview inserts a review row. A second review by the same author for
// the same story trips the unique index; callers detect it with
// IsUniqueViolation.
func CreateReview(db *gorm.DB, storyID, authorID string, rating int, comment string) (*domain.Review, error) {
	r := &domain.Review{
		ID:        uuid.NewString(),
		StoryID:   storyID,
		AuthorID:  authorID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	}
	return r, db.Create(r).Error
}

// GetReview fetches a review by ID, or ErrNotFound.
func GetReview(ctx context.Context, db *gorm.DB, id string) (*domain.Review, error) {
	var r domain.Review
	if err := db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// HasReviewed reports whether the author already reviewed the story. This is
// an advisory pre-check only; the unique index decides under concurrency.
func HasReviewed(ctx context.Context, db *gorm.DB, storyID, authorID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Review{}).
		Where("story_id = ? AND author_id = ?", storyID, authorID).
		Count(&n).Error
	return n > 0, err
}

// ListReviewsByStory returns a story's reviews, newest first.
func ListReviewsByStory(ctx context.Context, db *gorm.DB, storyID string) ([]domain.Review, error) {
	var out []domain.Review
	err := db.WithContext(ctx).
		Where("story_id = ?", storyID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

// ListReviewsByAuthor returns every review an author has written, newest
// first (profile pages).
func ListReviewsByAuthor(ctx context.Context, db *gorm.DB, authorID string) ([]domain.Review, error) {
	var out []domain.Review
	err := db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

// UpdateReview persists rating and comment changes for a review.
// Returns ErrNotFound when no row matched.
func UpdateReview(ctx context.Context, db *gorm.DB, id string, rating int, comment string) error {
	res := db.WithContext(ctx).
		Model(&domain.Review{}).
		Where("id = ?", id).
		Updates(map[string]any{"rating": rating, "comment": comment})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteReview permanently removes a review. Other reviews and the parent
// story are untouched. Returns ErrNotFound when no row matched.
func DeleteReview(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountReviews returns the number of reviews for a story.
func CountReviews(ctx context.Context, db *gorm.DB, storyID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Review{}).
		Where("story_id = ?", storyID).
		Count(&total).Error
	return total, err
}
