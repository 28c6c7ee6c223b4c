// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer. Each function is context-aware and safe to call from services or
// handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dreambooks/go-story-backend/internal/domain"
)

// StoriesStats returns aggregate metadata for the story catalog: the total
// number of rows and the maximum UpdatedAt timestamp among them.
//
// The HTTP layer folds both values (together with review counts, which
// change the rating annotation without touching updated_at) into a weak ETag
// for the story listing. When there are no stories, the returned count is 0
// and maxUpdatedAt is nil.
//
// Return values:
//   - count:        total stories
//   - maxUpdatedAt: pointer to the greatest UpdatedAt, or nil if no rows
//   - err:          database error, if any
func StoriesStats(ctx context.Context, db *gorm.DB) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Story{})

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

// ChaptersStats returns aggregate metadata for chapters within a given
// story: the total number of rows and the maximum UpdatedAt timestamp among
// those rows. When the story has no chapters, the returned count is 0 and
// maxUpdatedAt is nil.
func ChaptersStats(ctx context.Context, db *gorm.DB, storyID string) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Chapter{}).Where("story_id = ?", storyID)

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

// TotalReviews returns the global review count, folded into the story-list
// ETag so new ratings invalidate cached listings.
func TotalReviews(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Review{}).Count(&total).Error
	return total, err
}
