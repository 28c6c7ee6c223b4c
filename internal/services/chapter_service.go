// Package services – ChapterService
//
// This file implements ChapterService, the application-level component that
// owns chapter ordering and navigation. It validates inputs, checks story
// existence and ownership, computes append positions transactionally, and
// exposes paginated listings plus previous/next lookups.
//
// Ordering rules:
//   - Chapters are read in ascending position order (creation time and id
//     break any historical ties).
//   - A new chapter always receives max(position)+1 within its story, or 1
//     when the story is empty. The computation runs inside the insert
//     transaction; the (story_id, position) unique index turns a lost race
//     into a constraint error instead of a silent duplicate ordinal.
//   - Editing never changes position. Re-ordering is intentionally not
//     exposed.
//
// Observability: list and navigation methods are OpenTelemetry-instrumented;
// spans include story identifiers and pagination parameters.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dreambooks/go-story-backend/internal/domain"
	"github.com/dreambooks/go-story-backend/internal/repo"
	"github.com/dreambooks/go-story-backend/internal/utils"
)

// ChapterNav bundles a chapter with its neighbors in reading order.
// Prev is nil at the first chapter, Next at the last.
type ChapterNav struct {
	Chapter *domain.Chapter
	Prev    *domain.Chapter
	Next    *domain.Chapter
}

// ChapterService coordinates chapter persistence, ordering, and navigation.
type ChapterService struct {
	DB *gorm.DB

	// PageSize is the default chapters-per-page for listings (story detail
	// uses 10).
	PageSize int

	// Optional guards
	MaxTitleRunes int
}

// NewChapterService constructs a ChapterService with default limits.
func NewChapterService(db *gorm.DB) *ChapterService {
	return &ChapterService{DB: db, PageSize: 10, MaxTitleRunes: 200}
}

// story resolves a slug to its story row or ErrStoryNotFound.
func (s *ChapterService) story(ctx context.Context, slug string) (*domain.Story, error) {
	st, err := repo.GetStoryBySlug(ctx, s.DB, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoryNotFound
		}
		return nil, err
	}
	return st, nil
}

// Append validates and inserts a new chapter at the end of the story's
// sequence. Only the story owner or staff may append. The parent story's
// updated_at is refreshed in the same transaction so "newest updates"
// listings reflect chapter activity.
func (s *ChapterService) Append(ctx context.Context, actor Actor, storySlug, title, content string) (*domain.Chapter, error) {
	title = normalizeTitle(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if s.MaxTitleRunes > 0 && utf8.RuneCountInString(title) > s.MaxTitleRunes {
		return nil, ErrTooLong
	}

	st, err := s.story(ctx, storySlug)
	if err != nil {
		return nil, err
	}
	if !actor.canMutate(st.AuthorID) {
		return nil, ErrForbidden
	}

	var created *domain.Chapter
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		maxPos, err := repo.MaxChapterPosition(tx, st.ID)
		if err != nil {
			return err
		}
		ch, err := repo.CreateChapter(tx, st.ID, title, strings.TrimSpace(content), maxPos+1)
		if err != nil {
			return err
		}
		created = ch
		return repo.TouchStory(ctx, tx, st.ID)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ListPage returns one page of a story's chapters in reading order, the
// total chapter count, and the page index actually served. Non-positive
// pages resolve to 1 and pages past the end clamp to the last valid page.
func (s *ChapterService) ListPage(ctx context.Context, storySlug string, page, pageSize int) ([]domain.Chapter, int64, int, error) {
	tr := otel.Tracer("services/ChapterService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("story.slug", storySlug),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if pageSize <= 0 {
		pageSize = s.PageSize
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	st, err := s.story(ctx, storySlug)
	if err != nil {
		return nil, 0, 0, err
	}

	total, err := repo.CountChapters(ctx, s.DB, st.ID)
	if err != nil {
		return nil, 0, 0, err
	}
	if total == 0 {
		return []domain.Chapter{}, 0, 1, nil
	}

	page = utils.ClampPage(page, utils.TotalPages(total, pageSize))
	items, err := repo.ListChaptersPage(ctx, s.DB, st.ID, (page-1)*pageSize, pageSize)
	return items, total, page, err
}

// Get returns a chapter (addressed through its story's slug) together with
// its previous and next neighbors by position. A chapter id that exists but
// belongs to a different story yields ErrChapterNotFound.
func (s *ChapterService) Get(ctx context.Context, storySlug, chapterID string) (*ChapterNav, error) {
	tr := otel.Tracer("services/ChapterService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(
			attribute.String("story.slug", storySlug),
			attribute.String("chapter.id", chapterID),
		),
	)
	defer span.End()

	st, err := s.story(ctx, storySlug)
	if err != nil {
		return nil, err
	}

	ch, err := repo.GetChapter(ctx, s.DB, chapterID, st.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChapterNotFound
		}
		return nil, err
	}

	prev, err := repo.PrevChapter(ctx, s.DB, st.ID, ch.Position)
	if err != nil {
		return nil, err
	}
	next, err := repo.NextChapter(ctx, s.DB, st.ID, ch.Position)
	if err != nil {
		return nil, err
	}
	return &ChapterNav{Chapter: ch, Prev: prev, Next: next}, nil
}

// Update applies title and content changes to a chapter. Only the story
// owner or staff may edit, and position is never touched.
func (s *ChapterService) Update(ctx context.Context, actor Actor, storySlug, chapterID, title, content string) (*domain.Chapter, error) {
	title = normalizeTitle(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if s.MaxTitleRunes > 0 && utf8.RuneCountInString(title) > s.MaxTitleRunes {
		return nil, ErrTooLong
	}

	st, err := s.story(ctx, storySlug)
	if err != nil {
		return nil, err
	}
	if !actor.canMutate(st.AuthorID) {
		return nil, ErrForbidden
	}

	if err := repo.UpdateChapter(ctx, s.DB, chapterID, st.ID, title, strings.TrimSpace(content)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChapterNotFound
		}
		return nil, err
	}
	return repo.GetChapter(ctx, s.DB, chapterID, st.ID)
}

// Delete removes a chapter. Only the story owner or staff may delete.
// Positions of the remaining chapters are left as-is; sequences may carry
// gaps after deletion, which the ordering rules tolerate.
func (s *ChapterService) Delete(ctx context.Context, actor Actor, storySlug, chapterID string) error {
	st, err := s.story(ctx, storySlug)
	if err != nil {
		return err
	}
	if !actor.canMutate(st.AuthorID) {
		return ErrForbidden
	}
	if err := repo.DeleteChapter(ctx, s.DB, chapterID, st.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChapterNotFound
		}
		return err
	}
	return nil
}
