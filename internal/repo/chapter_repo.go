// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Chapter
// model: ordered listing, pagination, append-position computation, and
// previous/next navigation lookups.
//
// Chapters are always ordered by (position ASC, created_at ASC, id ASC).
// Position carries the intent; the trailing keys make the order total and
// deterministic even if historical data ever held duplicate positions.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dreambooks/go-story-backend/internal/domain"
)

// chapterOrder is the canonical ordering clause for chapter sequences.
const chapterOrder = "position ASC, created_at ASC, id ASC"

// CreateChapter inserts a new chapter row at the given position. Callers
// compute the position (see MaxChapterPosition) inside the same transaction
// so concurrent appends serialize on the (story_id, position) unique index.
func CreateChapter(db *gorm.DB, storyID, title, content string, position int) (*domain.Chapter, error) {
	ch := &domain.Chapter{
		ID:        uuid.NewString(),
		StoryID:   storyID,
		Title:     title,
		Content:   content,
		Position:  position,
		CreatedAt: time.Now().UTC(),
	}
	return ch, db.Create(ch).Error
}

// MaxChapterPosition returns the greatest position currently used within a
// story, or 0 when the story has no chapters.
func MaxChapterPosition(db *gorm.DB, storyID string) (int, error) {
	var row struct {
		Max *int
	}
	err := db.Model(&domain.Chapter{}).
		Select("MAX(position) AS max").
		Where("story_id = ?", storyID).
		Scan(&row).Error
	if err != nil {
		return 0, err
	}
	if row.Max == nil {
		return 0, nil
	}
	return *row.Max, nil
}

// GetChapter fetches a chapter by ID, ensuring it belongs to the given
// story. A chapter reached through the wrong story yields ErrNotFound.
func GetChapter(ctx context.Context, db *gorm.DB, id, storyID string) (*domain.Chapter, error) {
	var ch domain.Chapter
	err := db.WithContext(ctx).
		Where("id = ? AND story_id = ?", id, storyID).
		First(&ch).Error
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

// CountChapters returns the total number of chapters in a story.
func CountChapters(ctx context.Context, db *gorm.DB, storyID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Chapter{}).
		Where("story_id = ?", storyID).
		Count(&total).Error
	return total, err
}

// ListChaptersPage returns a paginated slice of a story's chapters in
// canonical order. The caller computes offset and limit.
func ListChaptersPage(ctx context.Context, db *gorm.DB, storyID string, offset, limit int) ([]domain.Chapter, error) {
	var out []domain.Chapter
	err := db.WithContext(ctx).
		Where("story_id = ?", storyID).
		Order(chapterOrder).
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// PrevChapter returns the chapter with the greatest position strictly less
// than pos within the story, or nil at the start of the sequence.
func PrevChapter(ctx context.Context, db *gorm.DB, storyID string, pos int) (*domain.Chapter, error) {
	var ch domain.Chapter
	err := db.WithContext(ctx).
		Where("story_id = ? AND position < ?", storyID, pos).
		Order("position DESC").
		First(&ch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

// NextChapter returns the chapter with the smallest position strictly
// greater than pos within the story, or nil at the end of the sequence.
func NextChapter(ctx context.Context, db *gorm.DB, storyID string, pos int) (*domain.Chapter, error) {
	var ch domain.Chapter
	err := db.WithContext(ctx).
		Where("story_id = ? AND position > ?", storyID, pos).
		Order("position ASC").
		First(&ch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

// UpdateChapter persists title and content changes. Position is deliberately
// not updatable through this path; ordering stays append-only.
// Returns ErrNotFound when no row matched.
func UpdateChapter(ctx context.Context, db *gorm.DB, id, storyID, title, content string) error {
	res := db.WithContext(ctx).
		Model(&domain.Chapter{}).
		Where("id = ? AND story_id = ?", id, storyID).
		Updates(map[string]any{"title": title, "content": content})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteChapter permanently removes a chapter from a story.
// Returns ErrNotFound when no row matched.
func DeleteChapter(ctx context.Context, db *gorm.DB, id, storyID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND story_id = ?", id, storyID).
		Delete(&domain.Chapter{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
