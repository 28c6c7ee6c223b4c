// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Story model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a story is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// Listing queries annotate each story with the arithmetic mean of its review
// ratings (avg_rating) via a LEFT JOIN, so unrated stories surface with a
// NULL mean. Sorting by rating places NULL means after every rated story and
// breaks ties by newest creation time.
package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dreambooks/go-story-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// Story order modes accepted by ListStoriesPage.
const (
	OrderNewest  = "newest"  // created_at DESC (default)
	OrderOldest  = "oldest"  // created_at ASC
	OrderRating  = "rating"  // avg_rating DESC NULLS LAST, created_at DESC
	OrderUpdated = "updated" // updated_at DESC (home "newest updates" rail)
)

// StoryFilter narrows and orders a story listing. Zero values disable the
// corresponding clause.
type StoryFilter struct {
	// Query is matched case-insensitively as a substring of the title.
	Query string
	// Genre must equal the name of an associated genre exactly.
	Genre string
	// AuthorID restricts the listing to one author (profile pages).
	AuthorID string
	// Order is one of the Order* constants; anything else means newest.
	Order string
}

// StoryWithRating is a story annotated with its mean review rating.
// AvgRating is nil when the story has no reviews.
type StoryWithRating struct {
	domain.Story
	AvgRating *float64 `json:"avg_rating" gorm:"column:avg_rating"`
}

// CreateStory inserts a new Story row owned by authorID with a pre-allocated
// unique slug, and attaches the given genres. The story ID is a randomly
// generated UUID, and CreatedAt is set to UTC.
//
// Slug uniqueness is ultimately guarded by the unique index; callers resolve
// collisions before insert (see services.StoryService).
func CreateStory(ctx context.Context, db *gorm.DB, authorID, title, description, coverImage, slug string, genres []domain.Genre) (*domain.Story, error) {
	s := &domain.Story{
		ID:          uuid.NewString(),
		Title:       title,
		AuthorID:    authorID,
		Description: description,
		CoverImage:  coverImage,
		Slug:        slug,
		CreatedAt:   time.Now().UTC(),
		Genres:      genres,
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// GetStoryBySlug fetches a single story by its unique slug, with genres
// preloaded. If the record does not exist, it returns ErrNotFound.
func GetStoryBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Story, error) {
	var s domain.Story
	err := db.WithContext(ctx).
		Preload("Genres").
		Where("slug = ?", slug).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// StorySlugExists reports whether any story currently holds the given slug.
// Used by the slug allocator to probe candidate values.
func StorySlugExists(ctx context.Context, db *gorm.DB, slug string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Story{}).
		Where("slug = ?", slug).
		Count(&n).Error
	return n > 0, err
}

// UpdateStory persists title, description, and cover image changes and
// replaces the genre set when genres is non-nil. The slug is never touched.
// Returns ErrNotFound when the story vanished underneath the caller.
func UpdateStory(ctx context.Context, db *gorm.DB, s *domain.Story, genres []domain.Genre) error {
	res := db.WithContext(ctx).
		Model(&domain.Story{}).
		Where("id = ?", s.ID).
		Updates(map[string]any{
			"title":       s.Title,
			"description": s.Description,
			"cover_image": s.CoverImage,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	if genres != nil {
		if err := db.WithContext(ctx).Model(s).Association("Genres").Replace(genres); err != nil {
			return err
		}
	}
	return nil
}

// TouchStory refreshes a story's updated_at, mirroring the original
// behavior where appending a chapter re-saves the parent story.
func TouchStory(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).
		Model(&domain.Story{}).
		Where("id = ?", id).
		Update("updated_at", time.Now().UTC()).Error
}

// DeleteStory permanently removes a story. Chapters and reviews are removed
// by the ON DELETE CASCADE constraints on their foreign keys; the genre join
// rows are cleared explicitly. Returns ErrNotFound when nothing was deleted.
func DeleteStory(ctx context.Context, db *gorm.DB, id string) error {
	if err := db.WithContext(ctx).
		Model(&domain.Story{ID: id}).
		Association("Genres").Clear(); err != nil {
		return err
	}
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Story{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// storyListQuery composes the shared FROM/WHERE/ORDER BY for filtered story
// listings. Filters narrow the candidate set before ordering applies.
func storyListQuery(ctx context.Context, db *gorm.DB, f StoryFilter) *gorm.DB {
	q := db.WithContext(ctx).
		Model(&domain.Story{}).
		Select("stories.*, AVG(reviews.rating) AS avg_rating").
		Joins("LEFT JOIN reviews ON reviews.story_id = stories.id").
		Group("stories.id")

	if s := strings.TrimSpace(f.Query); s != "" {
		q = q.Where("LOWER(stories.title) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if g := strings.TrimSpace(f.Genre); g != "" {
		q = q.Joins("JOIN story_genres sg ON sg.story_id = stories.id").
			Joins("JOIN genres ON genres.id = sg.genre_id").
			Where("genres.name = ?", g)
	}
	if f.AuthorID != "" {
		q = q.Where("stories.author_id = ?", f.AuthorID)
	}

	switch f.Order {
	case OrderOldest:
		q = q.Order("stories.created_at ASC")
	case OrderRating:
		// Unrated stories sort after all rated ones; ties break newest first.
		q = q.Order("avg_rating DESC NULLS LAST, stories.created_at DESC")
	case OrderUpdated:
		q = q.Order("stories.updated_at DESC")
	default: // OrderNewest and anything unrecognized
		q = q.Order("stories.created_at DESC")
	}
	return q
}

// CountStories returns the number of stories matching the filter.
func CountStories(ctx context.Context, db *gorm.DB, f StoryFilter) (int64, error) {
	q := db.WithContext(ctx).Model(&domain.Story{})
	if s := strings.TrimSpace(f.Query); s != "" {
		q = q.Where("LOWER(stories.title) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if g := strings.TrimSpace(f.Genre); g != "" {
		q = q.Joins("JOIN story_genres sg ON sg.story_id = stories.id").
			Joins("JOIN genres ON genres.id = sg.genre_id").
			Where("genres.name = ?", g)
	}
	if f.AuthorID != "" {
		q = q.Where("stories.author_id = ?", f.AuthorID)
	}
	var total int64
	err := q.Distinct("stories.id").Count(&total).Error
	return total, err
}

// ListStoriesPage returns a page of stories matching the filter, each
// annotated with its mean rating, plus preloaded genres. An empty filter
// lists everything ordered newest first.
func ListStoriesPage(ctx context.Context, db *gorm.DB, f StoryFilter, offset, limit int) ([]StoryWithRating, error) {
	var out []StoryWithRating
	q := storyListQuery(ctx, db, f)
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	if err := attachGenres(ctx, db, out); err != nil {
		return nil, err
	}
	return out, nil
}

// attachGenres loads the genre sets for the listed stories in one query.
// Preload cannot follow the aggregate projection, so the join is explicit.
func attachGenres(ctx context.Context, db *gorm.DB, stories []StoryWithRating) error {
	if len(stories) == 0 {
		return nil
	}
	ids := make([]string, 0, len(stories))
	for i := range stories {
		ids = append(ids, stories[i].ID)
	}

	var rows []struct {
		domain.Genre
		StoryID string `gorm:"column:story_id"`
	}
	err := db.WithContext(ctx).
		Table("genres").
		Select("genres.*, sg.story_id AS story_id").
		Joins("JOIN story_genres sg ON sg.genre_id = genres.id").
		Where("sg.story_id IN ?", ids).
		Order("genres.name ASC").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	byStory := make(map[string][]domain.Genre, len(stories))
	for _, r := range rows {
		byStory[r.StoryID] = append(byStory[r.StoryID], r.Genre)
	}
	for i := range stories {
		stories[i].Genres = byStory[stories[i].ID]
	}
	return nil
}

// StoryRating returns the unrounded mean rating for one story and the number
// of reviews behind it. avg is nil when the story has no reviews.
func StoryRating(ctx context.Context, db *gorm.DB, storyID string) (avg *float64, count int64, err error) {
	var row struct {
		Avg   *float64
		Count int64
	}
	err = db.WithContext(ctx).
		Model(&domain.Review{}).
		Select("AVG(rating) AS avg, COUNT(*) AS count").
		Where("story_id = ?", storyID).
		Scan(&row).Error
	if err != nil {
		return nil, 0, err
	}
	return row.Avg, row.Count, nil
}
