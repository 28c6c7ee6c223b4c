// Story HTTP handlers.
//
// This file exposes REST endpoints for story resources:
//   - GET    /home                 (landing rails)
//   - POST   /stories              (create)
//   - GET    /stories              (list, filtered + paginated, ETag support)
//   - GET    /stories/{slug}       (detail with first chapters + rating)
//   - PUT    /stories/{slug}       (update)
//   - DELETE /stories/{slug}       (delete)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses (including conditional
// responses). It also hosts the service contracts and the Handlers wiring
// shared by every handler file in this package.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dreambooks/go-story-backend/internal/domain"
	"github.com/dreambooks/go-story-backend/internal/repo"
	"github.com/dreambooks/go-story-backend/internal/services"
	"github.com/dreambooks/go-story-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// StoryService defines story lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type StoryService interface {
	// Create inserts a new story owned by the actor.
	Create(ctx context.Context, actor services.Actor, in services.StoryInput) (*domain.Story, error)
	// Get fetches a story by slug.
	Get(ctx context.Context, slug string) (*domain.Story, error)
	// List returns a filtered, sorted page of stories plus the total count.
	List(ctx context.Context, f repo.StoryFilter, page, pageSize int) ([]repo.StoryWithRating, int64, error)
	// Update applies field changes to a story the actor may mutate.
	Update(ctx context.Context, actor services.Actor, slug string, in services.StoryInput) (*domain.Story, error)
	// Delete removes a story and, via cascades, its chapters and reviews.
	Delete(ctx context.Context, actor services.Actor, slug string) error
}

// ChapterService defines chapter ordering and navigation operations.
type ChapterService interface {
	// Append adds a chapter at the end of the story's sequence.
	Append(ctx context.Context, actor services.Actor, storySlug, title, content string) (*domain.Chapter, error)
	// ListPage returns one page of chapters in reading order, the total
	// count, and the page index actually served.
	ListPage(ctx context.Context, storySlug string, page, pageSize int) ([]domain.Chapter, int64, int, error)
	// Get returns a chapter with its previous/next neighbors.
	Get(ctx context.Context, storySlug, chapterID string) (*services.ChapterNav, error)
	// Update edits a chapter's title and content; position never changes.
	Update(ctx context.Context, actor services.Actor, storySlug, chapterID, title, content string) (*domain.Chapter, error)
	// Delete removes a chapter, tolerating position gaps afterwards.
	Delete(ctx context.Context, actor services.Actor, storySlug, chapterID string) error
}

// ReviewService defines rating and review operations.
type ReviewService interface {
	// Leave records a review; one per author per story.
	Leave(ctx context.Context, actor services.Actor, storySlug string, rating int, comment string) (*domain.Review, error)
	// Update edits the actor's own review.
	Update(ctx context.Context, actor services.Actor, reviewID string, rating int, comment string) (*domain.Review, error)
	// Delete removes a review (author or staff).
	Delete(ctx context.Context, actor services.Actor, reviewID string) error
	// ListForStory returns a story's reviews, newest first.
	ListForStory(ctx context.Context, storyID string) ([]domain.Review, error)
	// Summary computes the story's mean rating and review count.
	Summary(ctx context.Context, storyID string) (services.RatingSummary, error)
}

// GenreService defines catalog operations for genres.
type GenreService interface {
	List(ctx context.Context) ([]domain.Genre, error)
	Create(ctx context.Context, actor services.Actor, name, slug string) (*domain.Genre, error)
}

// ContactService defines contact-message operations.
type ContactService interface {
	Create(ctx context.Context, actor services.Actor, message string) (*domain.ContactMessage, error)
	List(ctx context.Context, actor services.Actor) ([]domain.ContactMessage, error)
	Update(ctx context.Context, actor services.Actor, id, message string) (*domain.ContactMessage, error)
	Delete(ctx context.Context, actor services.Actor, id string) error
}

// AccountService defines signup, profile, and account maintenance.
type AccountService interface {
	Signup(ctx context.Context, username, email, password string) (*domain.User, error)
	GetProfile(ctx context.Context, username string) (*services.Profile, error)
	Update(ctx context.Context, actor services.Actor, username, email string) (*domain.User, error)
	ChangePassword(ctx context.Context, actor services.Actor, current, next string) error
	Delete(ctx context.Context, actor services.Actor) error
}

// CatalogStats reports catalog counters and freshness timestamps used to
// build weak ETags for list endpoints.
type CatalogStats interface {
	// Stories returns the story count and the newest updated_at.
	Stories(ctx context.Context) (int64, *time.Time, error)
	// Chapters returns the chapter count and newest updated_at for one story.
	Chapters(ctx context.Context, storyID string) (int64, *time.Time, error)
}

// ReplayStore persists idempotency records and resolves the resources they
// reference, so a retried POST can return its original result.
type ReplayStore interface {
	// Lookup returns the live record for (user, scope, key); a miss reports
	// an error.
	Lookup(ctx context.Context, userID, scope, key string, now time.Time) (*domain.Idempotency, error)
	// Record stores the created resource for (user, scope, key).
	Record(ctx context.Context, userID, scope, key, resourceID string, status int, ttl time.Duration) error
	ChapterByID(ctx context.Context, chapterID, storyID string) (*domain.Chapter, error)
	ReviewByID(ctx context.Context, reviewID string) (*domain.Review, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for stories, chapters, reviews, genres,
// contact messages, and accounts. It depends on abstract service interfaces
// to keep transport concerns separate from business logic.
type Handlers struct {
	storySvc   StoryService
	chapterSvc ChapterService
	reviewSvc  ReviewService
	genreSvc   GenreService
	contactSvc ContactService
	accountSvc AccountService

	// HomeSize caps each landing-page rail; defaults to 4.
	HomeSize int
	// StoryPageSize is the default page size for the catalog and for chapter
	// pages on the story detail; defaults to 10.
	StoryPageSize int

	// Stats, when set, enables weak ETags on list endpoints.
	Stats CatalogStats
	// Replay, when set, enables Idempotency-Key replay on POST endpoints.
	Replay ReplayStore
}

// New constructs a Handlers instance bound to the given services.
func New(story StoryService, chapter ChapterService, review ReviewService, genre GenreService, contact ContactService, account AccountService) *Handlers {
	return &Handlers{
		storySvc:      story,
		chapterSvc:    chapter,
		reviewSvc:     review,
		genreSvc:      genre,
		contactSvc:    contact,
		accountSvc:    account,
		HomeSize:      4,
		StoryPageSize: 10,
	}
}

// actor builds the authorization identity from the Gin context (set by the
// Identity middleware). An anonymous request yields a zero Actor.
func actor(c *gin.Context) services.Actor {
	a := services.Actor{}
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok {
			a.ID = s
		}
	}
	if v, ok := c.Get("isStaff"); ok {
		if b, ok := v.(bool); ok {
			a.Staff = b
		}
	}
	return a
}

// requireActor returns the caller's identity, failing with 401 when the
// request carries none. The bool result reports success.
func requireActor(c *gin.Context) (services.Actor, bool) {
	a := actor(c)
	if a.ID == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return a, false
	}
	return a, true
}

//
// DTOs
//

// StoryRequest is the JSON payload for creating or updating a story.
type StoryRequest struct {
	// Title is the story name (1–200 chars); the slug derives from it on create.
	Title string `json:"title" binding:"required,min=1,max=200" example:"The Lighthouse Keeper"`
	// Description is the blurb shown on listings.
	Description string `json:"description" example:"A drama in twelve chapters."`
	// CoverImage is an optional URL to cover art.
	CoverImage string `json:"cover_image" example:"https://cdn.example.com/covers/lighthouse.jpg"`
	// Genres holds genre names; omit to leave unchanged on update.
	Genres []string `json:"genres" example:"Drama,Mystery"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListStoriesResponse wraps a page of rating-annotated stories.
type ListStoriesResponse struct {
	Stories    []repo.StoryWithRating `json:"stories"`
	Pagination Pagination             `json:"pagination"`
}

// StoryDetailResponse is the full story page: the story, its rating
// aggregate, and the requested page of chapters in reading order.
type StoryDetailResponse struct {
	Story      *domain.Story          `json:"story"`
	Rating     services.RatingSummary `json:"rating"`
	Chapters   []domain.Chapter       `json:"chapters"`
	Pagination Pagination             `json:"pagination"`
}

// HomeResponse is the landing page payload: three short rails plus the
// genre catalog for the navigation bar.
type HomeResponse struct {
	Newest          []repo.StoryWithRating `json:"newest"`
	TopRated        []repo.StoryWithRating `json:"top_rated"`
	RecentlyUpdated []repo.StoryWithRating `json:"recently_updated"`
	Genres          []domain.Genre         `json:"genres"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params,
// returning (page, pageSize). Non-numeric values fall back to defaults.
func clampPagination(c *gin.Context, defaultPageSize int) (page, pageSize int) {
	const maxPageSize = 100
	page = utils.AtoiDefault(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// storyFilter builds the repository filter from list query params. Unknown
// order values fall back to newest-first.
func storyFilter(c *gin.Context) repo.StoryFilter {
	f := repo.StoryFilter{
		Query: strings.TrimSpace(c.Query("q")),
		Genre: strings.TrimSpace(c.Query("genre")),
	}
	switch c.Query("order") {
	case repo.OrderOldest:
		f.Order = repo.OrderOldest
	case repo.OrderRating:
		f.Order = repo.OrderRating
	case repo.OrderUpdated:
		f.Order = repo.OrderUpdated
	default:
		f.Order = repo.OrderNewest
	}
	return f
}

// defaultPageSize returns the configured catalog/chapter page size.
func (h *Handlers) defaultPageSize() int {
	if h.StoryPageSize > 0 {
		return h.StoryPageSize
	}
	return 10
}

// pagination assembles the metadata block for a list response.
func pagination(page, pageSize int, total int64) Pagination {
	totalPages := utils.TotalPages(total, pageSize)
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

//
// Handlers
//

// Home godoc
// @ID          home
// @Summary     Landing page rails
// @Description Returns the newest, top-rated, and recently updated stories plus the genre catalog.
// @Tags        Stories
// @Produce     json
//
// @Success     200  {object}  handlers.HomeResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /home [get]
func (h *Handlers) Home(c *gin.Context) {
	ctx := c.Request.Context()
	size := h.HomeSize
	if size <= 0 {
		size = 4
	}

	newest, _, err := h.storySvc.List(ctx, repo.StoryFilter{Order: repo.OrderNewest}, 1, size)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "listing stories failed")
		return
	}
	top, _, err := h.storySvc.List(ctx, repo.StoryFilter{Order: repo.OrderRating}, 1, size)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "listing stories failed")
		return
	}
	updated, _, err := h.storySvc.List(ctx, repo.StoryFilter{Order: repo.OrderUpdated}, 1, size)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "listing stories failed")
		return
	}
	genres, err := h.genreSvc.List(ctx)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "listing genres failed")
		return
	}

	ok(c, http.StatusOK, HomeResponse{
		Newest:          newest,
		TopRated:        top,
		RecentlyUpdated: updated,
		Genres:          genres,
	})
}

// CreateStory godoc
// @ID          createStory
// @Summary     Create a story
// @Description Creates a story owned by the current user. The slug derives from the title; collisions get numeric suffixes.
// @Tags        Stories
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  format(uuid)
// @Param       body       body    handlers.StoryRequest  true  "Story payload"
//
// @Success     201  {object}  domain.Story
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /stories [post]
func (h *Handlers) CreateStory(c *gin.Context) {
	a, authed := requireActor(c)
	if !authed {
		return
	}

	var req StoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	st, err := h.storySvc.Create(c.Request.Context(), a, services.StoryInput{
		Title:       req.Title,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		Genres:      req.Genres,
	})
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, st)
}

// ListStories godoc
// @ID          listStories
// @Summary     List stories (filtered, paginated)
// @Description Returns a page of stories with average ratings. Supports q (substring search), genre (name), order (newest|oldest|rating|updated), and weak ETag via If-None-Match.
// @Tags        Stories
// @Produce     json
//
// @Param       q              query   string  false "Title/description substring"
// @Param       genre          query   string  false "Genre name"
// @Param       order          query   string  false "Sort order"  Enums(newest, oldest, rating, updated)
// @Param       page           query   int     false "Page number"    minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page" minimum(1) maximum(100) default(10)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
//
// @Success     200  {object} handlers.ListStoriesResponse
// @Header      200  {string} ETag  "Weak ETag for current catalog state"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /stories [get]
func (h *Handlers) ListStories(c *gin.Context) {
	ctx := c.Request.Context()
	f := storyFilter(c)
	page, pageSize := clampPagination(c, h.defaultPageSize())

	// ETag pre-check (best effort): the catalog count plus the newest
	// updated_at invalidate on any story create/update/delete. The tag also
	// covers every input that shapes the page.
	if h.Stats != nil && f.Query == "" && f.Genre == "" {
		count, maxTS, err := h.Stats.Stories(ctx)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"stories:%s:%d:%d:%d:%d"`, f.Order, count, ts, page, pageSize)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.storySvc.List(ctx, f, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "listing stories failed")
		return
	}

	// The service clamps out-of-range pages; recompute the served index so
	// the metadata matches the payload.
	served := utils.ClampPage(page, utils.TotalPages(total, pageSize))
	ok(c, http.StatusOK, ListStoriesResponse{
		Stories:    items,
		Pagination: pagination(served, pageSize, total),
	})
}

// GetStory godoc
// @ID          getStory
// @Summary     Story detail
// @Description Returns the story, its rating aggregate, and a page of chapters in reading order (10 per page by default).
// @Tags        Stories
// @Produce     json
//
// @Param       slug  path   string  true  "Story slug"  example(the-lighthouse-keeper)
// @Param       page  query  int     false "Chapter page number"  minimum(1) default(1)
//
// @Success     200  {object} handlers.StoryDetailResponse
// @Failure     404  {object} handlers.ErrorResponse "Story not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /stories/{slug} [get]
func (h *Handlers) GetStory(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("slug")

	st, err := h.storySvc.Get(ctx, slug)
	if err != nil {
		failService(c, err)
		return
	}

	page := utils.AtoiDefault(c.Query("page"), 1)
	pageSize := h.defaultPageSize()
	chapters, total, served, err := h.chapterSvc.ListPage(ctx, slug, page, pageSize)
	if err != nil {
		failService(c, err)
		return
	}
	rating, err := h.reviewSvc.Summary(ctx, st.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "rating aggregation failed")
		return
	}

	ok(c, http.StatusOK, StoryDetailResponse{
		Story:      st,
		Rating:     rating,
		Chapters:   chapters,
		Pagination: pagination(served, pageSize, total),
	})
}

// UpdateStory godoc
// @ID          updateStory
// @Summary     Update a story
// @Description Edits a story's title, description, cover, and genres. Owner or staff only. The slug never changes.
// @Tags        Stories
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  format(uuid)
// @Param       slug       path    string  true  "Story slug"
// @Param       body       body    handlers.StoryRequest  true  "Story payload"
//
// @Success     200  {object} domain.Story
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object} handlers.ErrorResponse "Forbidden"
// @Failure     404  {object} handlers.ErrorResponse "Story not found"
// @Router      /stories/{slug} [put]
func (h *Handlers) UpdateStory(c *gin.Context) {
	a, authed := requireActor(c)
	if !authed {
		return
	}

	var req StoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	st, err := h.storySvc.Update(c.Request.Context(), a, c.Param("slug"), services.StoryInput{
		Title:       req.Title,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		Genres:      req.Genres,
	})
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, st)
}

// DeleteStory godoc
// @ID          deleteStory
// @Summary     Delete a story
// @Description Removes a story together with its chapters and reviews. Owner or staff only.
// @Tags        Stories
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  format(uuid)
// @Param       slug       path    string  true  "Story slug"
//
// @Success     204  {string} string "No Content"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object} handlers.ErrorResponse "Forbidden"
// @Failure     404  {object} handlers.ErrorResponse "Story not found"
// @Router      /stories/{slug} [delete]
func (h *Handlers) DeleteStory(c *gin.Context) {
	a, authed := requireActor(c)
	if !authed {
		return
	}
	if err := h.storySvc.Delete(c.Request.Context(), a, c.Param("slug")); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}
