// Package services – StoryService
//
// This file implements the StoryService, which manages the lifecycle of
// stories. It allocates unique slugs, normalizes and validates titles,
// enforces owner-or-staff mutation rules, and coordinates repository
// operations for creating, listing (filtered, sorted, paginated), updating,
// and deleting stories.
//
// Service-level errors (e.g., ErrStoryNotFound, ErrForbidden) are returned
// for predictable cases so handlers can map them to HTTP results
// consistently.
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/dreambooks/go-story-backend/internal/domain"
	"github.com/dreambooks/go-story-backend/internal/repo"
	"github.com/dreambooks/go-story-backend/internal/utils"
)

// Actor identifies the authenticated caller for authorization decisions.
// Staff actors bypass ownership checks.
type Actor struct {
	ID    string
	Staff bool
}

// canMutate reports whether the actor may modify a resource owned by ownerID.
func (a Actor) canMutate(ownerID string) bool {
	return a.Staff || (a.ID != "" && a.ID == ownerID)
}

// StoryRepo defines the repository contract required by StoryService.
// Implementations are responsible for persistence of story aggregates.
type StoryRepo interface {
	// CreateStory inserts a new story row with its genre associations.
	CreateStory(ctx context.Context, db *gorm.DB, authorID, title, description, coverImage, slug string, genres []domain.Genre) (*domain.Story, error)

	// GetStoryBySlug fetches a story by its unique slug.
	GetStoryBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Story, error)

	// StorySlugExists probes a candidate slug for the allocator.
	StorySlugExists(ctx context.Context, db *gorm.DB, slug string) (bool, error)

	// UpdateStory persists field changes and replaces genres when non-nil.
	UpdateStory(ctx context.Context, db *gorm.DB, s *domain.Story, genres []domain.Genre) error

	// DeleteStory removes a story and, via cascades, its children.
	DeleteStory(ctx context.Context, db *gorm.DB, id string) error

	// CountStories returns the number of stories matching a filter.
	CountStories(ctx context.Context, db *gorm.DB, f repo.StoryFilter) (int64, error)

	// ListStoriesPage returns a rating-annotated page of stories.
	ListStoriesPage(ctx context.Context, db *gorm.DB, f repo.StoryFilter, offset, limit int) ([]repo.StoryWithRating, error)

	// GenresByNames resolves genre names to rows.
	GenresByNames(ctx context.Context, db *gorm.DB, names []string) ([]domain.Genre, error)
}

// StoryInput carries the writable story fields for create and update.
type StoryInput struct {
	Title       string
	Description string
	CoverImage  string
	// Genres holds genre names; nil means "leave unchanged" on update.
	Genres []string
	// Slug optionally fixes the slug on create; derived from the title when
	// empty. Never consulted on update.
	Slug string
}

// StoryService provides story-level operations such as creating, listing,
// updating, and deleting stories. It owns slug allocation and ownership
// enforcement.
type StoryService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the story repository used by this service.
	Repo StoryRepo

	// TitleMaxLen caps story titles by rune length.
	TitleMaxLen int
}

// NewStoryService constructs a StoryService with sane defaults.
func NewStoryService(db *gorm.DB, r StoryRepo) *StoryService {
	return &StoryService{DB: db, Repo: r, TitleMaxLen: 200}
}

// Create inserts a new story owned by the actor. The slug is derived from
// the title unless supplied, probing base, base-1, base-2, … until free;
// collisions never surface to the caller. Genre names that do not exist are
// ignored.
func (s *StoryService) Create(ctx context.Context, actor Actor, in StoryInput) (*domain.Story, error) {
	title := normalizeTitle(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if s.TitleMaxLen > 0 && utf8.RuneCountInString(title) > s.TitleMaxLen {
		return nil, ErrTooLong
	}

	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		var err error
		slug, err = s.allocateSlug(ctx, title)
		if err != nil {
			return nil, err
		}
	}

	genres, err := s.Repo.GenresByNames(ctx, s.DB, in.Genres)
	if err != nil {
		return nil, err
	}

	return s.Repo.CreateStory(ctx, s.DB, actor.ID, title, strings.TrimSpace(in.Description), strings.TrimSpace(in.CoverImage), slug, genres)
}

// Get fetches a story by slug.
func (s *StoryService) Get(ctx context.Context, slug string) (*domain.Story, error) {
	st, err := s.Repo.GetStoryBySlug(ctx, s.DB, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoryNotFound
		}
		return nil, err
	}
	return st, nil
}

// List returns the filtered, sorted page of stories plus the total match
// count. Page indexes are 1-based; out-of-range pages clamp to the last
// valid page rather than erroring, and a filter that matches nothing yields
// an empty list.
func (s *StoryService) List(ctx context.Context, f repo.StoryFilter, page, pageSize int) ([]repo.StoryWithRating, int64, error) {
	if pageSize <= 0 {
		pageSize = 20
	}

	total, err := s.Repo.CountStories(ctx, s.DB, f)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []repo.StoryWithRating{}, 0, nil
	}

	page = utils.ClampPage(page, utils.TotalPages(total, pageSize))
	items, err := s.Repo.ListStoriesPage(ctx, s.DB, f, (page-1)*pageSize, pageSize)
	return items, total, err
}

// Update applies field changes to a story identified by slug. Only the
// owner or staff may mutate; the slug is never recomputed, even when the
// title changes.
func (s *StoryService) Update(ctx context.Context, actor Actor, slug string, in StoryInput) (*domain.Story, error) {
	st, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !actor.canMutate(st.AuthorID) {
		return nil, ErrForbidden
	}

	title := normalizeTitle(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if s.TitleMaxLen > 0 && utf8.RuneCountInString(title) > s.TitleMaxLen {
		return nil, ErrTooLong
	}
	st.Title = title
	st.Description = strings.TrimSpace(in.Description)
	st.CoverImage = strings.TrimSpace(in.CoverImage)

	var genres []domain.Genre
	if in.Genres != nil {
		if genres, err = s.Repo.GenresByNames(ctx, s.DB, in.Genres); err != nil {
			return nil, err
		}
		if genres == nil {
			genres = []domain.Genre{}
		}
	}

	if err := s.Repo.UpdateStory(ctx, s.DB, st, genres); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoryNotFound
		}
		return nil, err
	}
	return s.Get(ctx, slug)
}

// Delete removes a story and all of its chapters and reviews. Only the
// owner or staff may delete.
func (s *StoryService) Delete(ctx context.Context, actor Actor, slug string) error {
	st, err := s.Get(ctx, slug)
	if err != nil {
		return err
	}
	if !actor.canMutate(st.AuthorID) {
		return ErrForbidden
	}
	if err := s.Repo.DeleteStory(ctx, s.DB, st.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStoryNotFound
		}
		return err
	}
	return nil
}

// allocateSlug turns a title into a free slug. The base form is probed
// first, then base-1, base-2, … with no upper bound; a long run of
// same-titled stories degrades to a linear scan, which is acceptable at
// expected catalog sizes.
func (s *StoryService) allocateSlug(ctx context.Context, title string) (string, error) {
	base := utils.Slugify(title)
	if base == "" {
		base = "story"
	}
	candidate := base
	for counter := 1; ; counter++ {
		taken, err := s.Repo.StorySlugExists(ctx, s.DB, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}

// normalizeTitle trims whitespace and collapses multiple spaces to one.
func normalizeTitle(s string) string {
	s = whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
	return s
}

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)
