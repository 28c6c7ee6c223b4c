package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dreambooks/go-story-backend/internal/domain"
	"github.com/dreambooks/go-story-backend/internal/repo"
	"github.com/dreambooks/go-story-backend/internal/services"
)

// ---------- test DB + repo shim ----------

func newHandlersDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Unique DSN per call to avoid cross-test contamination
	dsn := fmt.Sprintf("file:story_handlers_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Minimal shim implementing services.StoryRepo using the repo package
// (mirrors the wiring in router.go).
type testStoryRepo struct{}

func (testStoryRepo) CreateStory(ctx context.Context, db *gorm.DB, authorID, title, description, coverImage, slug string, genres []domain.Genre) (*domain.Story, error) {
	return repo.CreateStory(ctx, db, authorID, title, description, coverImage, slug, genres)
}
func (testStoryRepo) GetStoryBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Story, error) {
	return repo.GetStoryBySlug(ctx, db, slug)
}
func (testStoryRepo) StorySlugExists(ctx context.Context, db *gorm.DB, slug string) (bool, error) {
	return repo.StorySlugExists(ctx, db, slug)
}
func (testStoryRepo) UpdateStory(ctx context.Context, db *gorm.DB, s *domain.Story, genres []domain.Genre) error {
	return repo.UpdateStory(ctx, db, s, genres)
}
func (testStoryRepo) DeleteStory(ctx context.Context, db *gorm.DB, id string) error {
	return repo.DeleteStory(ctx, db, id)
}
func (testStoryRepo) CountStories(ctx context.Context, db *gorm.DB, f repo.StoryFilter) (int64, error) {
	return repo.CountStories(ctx, db, f)
}
func (testStoryRepo) ListStoriesPage(ctx context.Context, db *gorm.DB, f repo.StoryFilter, offset, limit int) ([]repo.StoryWithRating, error) {
	return repo.ListStoriesPage(ctx, db, f, offset, limit)
}
func (testStoryRepo) GenresByNames(ctx context.Context, db *gorm.DB, names []string) ([]domain.Genre, error) {
	return repo.GenresByNames(ctx, db, names)
}

// testStore implements CatalogStats and ReplayStore over the repo package
// (mirrors the dbStore wiring in router.go).
type testStore struct{ db *gorm.DB }

func (s testStore) Stories(ctx context.Context) (int64, *time.Time, error) {
	return repo.StoriesStats(ctx, s.db)
}
func (s testStore) Chapters(ctx context.Context, storyID string) (int64, *time.Time, error) {
	return repo.ChaptersStats(ctx, s.db, storyID)
}
func (s testStore) Lookup(ctx context.Context, userID, scope, key string, now time.Time) (*domain.Idempotency, error) {
	return repo.GetIdempotency(ctx, s.db, userID, scope, key, now)
}
func (s testStore) Record(ctx context.Context, userID, scope, key, resourceID string, status int, ttl time.Duration) error {
	_, err := repo.CreateIdempotency(ctx, s.db, userID, scope, key, resourceID, status, ttl)
	return err
}
func (s testStore) ChapterByID(ctx context.Context, chapterID, storyID string) (*domain.Chapter, error) {
	return repo.GetChapter(ctx, s.db, chapterID, storyID)
}
func (s testStore) ReviewByID(ctx context.Context, reviewID string) (*domain.Review, error) {
	return repo.GetReview(ctx, s.db, reviewID)
}

// newTestHandlers wires the real services against a fresh database.
func newTestHandlers(db *gorm.DB) *Handlers {
	h := New(
		services.NewStoryService(db, testStoryRepo{}),
		services.NewChapterService(db),
		&services.ReviewService{DB: db},
		&services.GenreService{DB: db},
		&services.ContactService{DB: db},
		&services.AccountService{DB: db, BcryptCost: bcrypt.MinCost},
	)
	h.Stats = testStore{db: db}
	h.Replay = testStore{db: db}
	return h
}

// asIdentity injects the context keys the Identity middleware would set.
func asIdentity(userID string, staff bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set("userID", userID)
			c.Set("isStaff", staff)
		}
		c.Next()
	}
}

func seedHandlerUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), db, username, username+"@example.com", "")
	if err != nil {
		t.Fatalf("seed user %q: %v", username, err)
	}
	return u
}

// ---------- helpers-only tests ----------

func Test_actor_clampPagination_storyFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// actor helper
	rc := gin.CreateTestContextOnly(httptest.NewRecorder(), gin.New())
	if a := actor(rc); a.ID != "" || a.Staff {
		t.Fatalf("anonymous actor = %+v", a)
	}
	rc.Set("userID", "u1")
	rc.Set("isStaff", true)
	if a := actor(rc); a.ID != "u1" || !a.Staff {
		t.Fatalf("ctx actor = %+v", a)
	}
	rc.Set("userID", 123) // wrong type degrades to anonymous
	rc.Set("isStaff", "yes")
	if a := actor(rc); a.ID != "" || a.Staff {
		t.Fatalf("wrong-type actor = %+v", a)
	}

	// clampPagination bounds
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=-5&page_size=9999", nil)
	p, ps := clampPagination(c, 10)
	if p != 1 || ps != 100 {
		t.Fatalf("clamp bounds got p=%d ps=%d", p, ps)
	}
	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=abc", nil)
	p, ps = clampPagination(c, 10)
	if p != 1 || ps != 10 {
		t.Fatalf("clamp defaults got p=%d ps=%d", p, ps)
	}

	// storyFilter order fallback
	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?q=%20dragons%20&order=bogus&genre=Fantasy", nil)
	f := storyFilter(c)
	if f.Query != "dragons" || f.Genre != "Fantasy" || f.Order != repo.OrderNewest {
		t.Fatalf("unexpected filter: %+v", f)
	}
	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?order=rating", nil)
	if f := storyFilter(c); f.Order != repo.OrderRating {
		t.Fatalf("order = %q", f.Order)
	}
}

// ---------- CreateStory ----------

func TestCreateStory_Unauthorized_BadJSON_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newHandlersDB(t)
	h := newTestHandlers(db)
	author := seedHandlerUser(t, db, "ursula")

	// Anonymous -> 401
	{
		r := gin.New()
		r.POST("/stories", asIdentity("", false), h.CreateStory)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/stories", bytes.NewBufferString(`{"title":"X"}`))
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("anonymous -> %d", w.Code)
		}
	}

	// Bad JSON -> 400
	{
		r := gin.New()
		r.POST("/stories", asIdentity(author.ID, false), h.CreateStory)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/stories", bytes.NewBufferString("{bad"))
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("bad json -> %d", w.Code)
		}
	}

	// Success -> 201 with derived slug
	{
		r := gin.New()
		r.POST("/stories", asIdentity(author.ID, false), h.CreateStory)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/stories",
			bytes.NewBufferString(`{"title":"The Winter Sea","description":"A voyage."}`))
		r.ServeHTTP(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("create -> %d body=%s", w.Code, w.Body.String())
		}
		var out domain.Story
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("json: %v", err)
		}
		if out.Slug != "the-winter-sea" || out.AuthorID != author.ID {
			t.Fatalf("unexpected story: %#v", out)
		}
	}
}

// ---------- ListStories ----------

func TestListStories_PaginationAndETag(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newHandlersDB(t)
	h := newTestHandlers(db)
	author := seedHandlerUser(t, db, "ursula")

	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		if _, err := repo.CreateStory(ctx, db, author.ID, fmt.Sprintf("Story %d", i), "d", "", fmt.Sprintf("story-%d", i), nil); err != nil {
			t.Fatalf("seed story %d: %v", i, err)
		}
	}

	r := gin.New()
	r.GET("/stories", h.ListStories)

	// Page 2 of size 2 -> one story, correct metadata.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stories?page=2&page_size=2", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list -> %d body=%s", w.Code, w.Body.String())
	}
	var out ListStoriesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(out.Stories) != 1 || out.Pagination.Page != 2 || out.Pagination.Total != 3 ||
		out.Pagination.TotalPages != 2 || out.Pagination.HasNext {
		t.Fatalf("pagination mismatch: %+v", out.Pagination)
	}

	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatal("expected an ETag on the unfiltered listing")
	}

	// Same request with If-None-Match -> 304.
	w2 := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stories?page=2&page_size=2", nil)
	req.Header.Set("If-None-Match", etag)
	r.ServeHTTP(w2, req)
	if w2.Code != http.StatusNotModified {
		t.Fatalf("if-none-match -> %d", w2.Code)
	}

	// A filtered listing carries no catalog ETag.
	w3 := httptest.NewRecorder()
	r.ServeHTTP(w3, httptest.NewRequest(http.MethodGet, "/stories?q=story", nil))
	if w3.Code != http.StatusOK || w3.Header().Get("ETag") != "" {
		t.Fatalf("filtered listing: code=%d etag=%q", w3.Code, w3.Header().Get("ETag"))
	}
}

func TestListStories_OutOfRangePageClampsToLast(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newHandlersDB(t)
	h := newTestHandlers(db)
	author := seedHandlerUser(t, db, "ursula")
	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		if _, err := repo.CreateStory(ctx, db, author.ID, fmt.Sprintf("Story %d", i), "d", "", fmt.Sprintf("story-%d", i), nil); err != nil {
			t.Fatalf("seed story %d: %v", i, err)
		}
	}

	r := gin.New()
	r.GET("/stories", h.ListStories)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stories?page=99&page_size=2", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list -> %d", w.Code)
	}
	var out ListStoriesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v", err)
	}
	if out.Pagination.Page != 2 || len(out.Stories) != 1 {
		t.Fatalf("expected clamp to last page: %+v len=%d", out.Pagination, len(out.Stories))
	}
}

func TestListStories_ETagCoversPageShape(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newHandlersDB(t)
	h := newTestHandlers(db)
	author := seedHandlerUser(t, db, "ursula")
	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		if _, err := repo.CreateStory(ctx, db, author.ID, fmt.Sprintf("Story %d", i), "d", "", fmt.Sprintf("story-%d", i), nil); err != nil {
			t.Fatalf("seed story %d: %v", i, err)
		}
	}

	r := gin.New()
	r.GET("/stories", h.ListStories)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stories?page=1&page_size=2", nil))
	etag := w.Header().Get("ETag")
	if w.Code != http.StatusOK || etag == "" {
		t.Fatalf("list -> %d etag=%q", w.Code, etag)
	}

	// The same catalog at a different page size is a different response; a
	// stale tag must not short-circuit it.
	w2 := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stories?page=1&page_size=1", nil)
	req.Header.Set("If-None-Match", etag)
	r.ServeHTTP(w2, req)
	if w2.Code != http.StatusOK {
		t.Fatalf("different page_size with stale tag -> %d, want 200", w2.Code)
	}
	if other := w2.Header().Get("ETag"); other == "" || other == etag {
		t.Fatalf("page_size should vary the tag: %q vs %q", other, etag)
	}
}

func TestListStories_NoStatsDisablesETag(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newHandlersDB(t)
	h := newTestHandlers(db)
	h.Stats = nil
	author := seedHandlerUser(t, db, "ursula")
	if _, err := repo.CreateStory(context.Background(), db, author.ID, "Story", "d", "", "story", nil); err != nil {
		t.Fatalf("seed story: %v", err)
	}

	r := gin.New()
	r.GET("/stories", h.ListStories)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stories", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list -> %d", w.Code)
	}
	if etag := w.Header().Get("ETag"); etag != "" {
		t.Fatalf("expected no ETag without a stats source, got %q", etag)
	}
	var out ListStoriesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil || len(out.Stories) != 1 {
		t.Fatalf("listing should still work: err=%v len=%d", err, len(out.Stories))
	}
}

// ---------- GetStory ----------

func TestGetStory_NotFound_And_Detail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newHandlersDB(t)
	h := newTestHandlers(db)
	author := seedHandlerUser(t, db, "ursula")
	reader := seedHandlerUser(t, db, "ged")
	ctx := context.Background()

	r := gin.New()
	r.GET("/stories/:slug", h.GetStory)

	// Missing -> 404 with envelope code
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stories/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing -> %d", w.Code)
	}
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil || er.Code != ErrCodeNotFound {
		t.Fatalf("error envelope: %+v err=%v", er, err)
	}

	// Detail: story + rating + first chapter page
	s, err := repo.CreateStory(ctx, db, author.ID, "Earthsea", "d", "", "earthsea", nil)
	if err != nil {
		t.Fatalf("seed story: %v", err)
	}
	for i := 1; i <= 12; i++ {
		if _, err := repo.CreateChapter(db, s.ID, fmt.Sprintf("Chapter %d", i), "b", i); err != nil {
			t.Fatalf("seed chapter %d: %v", i, err)
		}
	}
	if _, err := repo.CreateReview(db, s.ID, reader.ID, 4, ""); err != nil {
		t.Fatalf("seed review: %v", err)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stories/earthsea", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("detail -> %d body=%s", w.Code, w.Body.String())
	}
	var out StoryDetailResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v", err)
	}
	if out.Story.Slug != "earthsea" {
		t.Fatalf("story mismatch: %+v", out.Story)
	}
	if len(out.Chapters) != 10 || out.Chapters[0].Position != 1 {
		t.Fatalf("chapter page mismatch: len=%d", len(out.Chapters))
	}
	if out.Pagination.Total != 12 || out.Pagination.TotalPages != 2 || !out.Pagination.HasNext {
		t.Fatalf("chapter pagination mismatch: %+v", out.Pagination)
	}
	if out.Rating.Average == nil || *out.Rating.Average != 4 || out.Rating.Count != 1 {
		t.Fatalf("rating mismatch: %+v", out.Rating)
	}

	// Second chapter page via ?page=2
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stories/earthsea?page=2", nil))
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(out.Chapters) != 2 || out.Chapters[0].Position != 11 || out.Pagination.Page != 2 {
		t.Fatalf("page 2 mismatch: len=%d", len(out.Chapters))
	}
}

func TestGetStory_ChapterPageSizeFollowsConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newHandlersDB(t)
	h := newTestHandlers(db)
	h.StoryPageSize = 5
	author := seedHandlerUser(t, db, "ursula")
	ctx := context.Background()

	s, err := repo.CreateStory(ctx, db, author.ID, "Earthsea", "d", "", "earthsea", nil)
	if err != nil {
		t.Fatalf("seed story: %v", err)
	}
	for i := 1; i <= 12; i++ {
		if _, err := repo.CreateChapter(db, s.ID, fmt.Sprintf("Chapter %d", i), "b", i); err != nil {
			t.Fatalf("seed chapter %d: %v", i, err)
		}
	}

	r := gin.New()
	r.GET("/stories/:slug", h.GetStory)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stories/earthsea", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("detail -> %d body=%s", w.Code, w.Body.String())
	}
	var out StoryDetailResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v", err)
	}
	// The payload and its metadata both follow the configured size.
	if len(out.Chapters) != 5 {
		t.Fatalf("chapter page len = %d, want 5", len(out.Chapters))
	}
	if out.Pagination.PageSize != 5 || out.Pagination.TotalPages != 3 || !out.Pagination.HasNext {
		t.Fatalf("pagination mismatch: %+v", out.Pagination)
	}
}

// ---------- UpdateStory / DeleteStory ----------

func TestUpdateStory_ForbiddenAndSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newHandlersDB(t)
	h := newTestHandlers(db)
	author := seedHandlerUser(t, db, "ursula")
	stranger := seedHandlerUser(t, db, "ged")
	ctx := context.Background()

	if _, err := repo.CreateStory(ctx, db, author.ID, "Mine", "d", "", "mine", nil); err != nil {
		t.Fatalf("seed story: %v", err)
	}

	body := `{"title":"Renamed","description":"new"}`

	// Stranger -> 403
	{
		r := gin.New()
		r.PUT("/stories/:slug", asIdentity(stranger.ID, false), h.UpdateStory)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/stories/mine", bytes.NewBufferString(body)))
		if w.Code != http.StatusForbidden {
			t.Fatalf("stranger -> %d", w.Code)
		}
	}

	// Owner -> 200, slug unchanged
	{
		r := gin.New()
		r.PUT("/stories/:slug", asIdentity(author.ID, false), h.UpdateStory)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/stories/mine", bytes.NewBufferString(body)))
		if w.Code != http.StatusOK {
			t.Fatalf("owner -> %d body=%s", w.Code, w.Body.String())
		}
		var out domain.Story
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("json: %v", err)
		}
		if out.Title != "Renamed" || out.Slug != "mine" {
			t.Fatalf("unexpected story: %#v", out)
		}
	}
}

func TestDeleteStory_OwnerThenGone(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newHandlersDB(t)
	h := newTestHandlers(db)
	author := seedHandlerUser(t, db, "ursula")
	ctx := context.Background()

	if _, err := repo.CreateStory(ctx, db, author.ID, "Mine", "d", "", "mine", nil); err != nil {
		t.Fatalf("seed story: %v", err)
	}

	r := gin.New()
	r.DELETE("/stories/:slug", asIdentity(author.ID, false), h.DeleteStory)
	r.GET("/stories/:slug", h.GetStory)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/stories/mine", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete -> %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stories/mine", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("after delete -> %d", w.Code)
	}
}

// ---------- Home ----------

func TestHome_RailsAndGenres(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newHandlersDB(t)
	h := newTestHandlers(db)
	h.HomeSize = 2
	author := seedHandlerUser(t, db, "ursula")
	reader := seedHandlerUser(t, db, "ged")
	ctx := context.Background()

	if _, err := repo.CreateGenre(ctx, db, "Fantasy", "fantasy"); err != nil {
		t.Fatalf("seed genre: %v", err)
	}
	var rated *domain.Story
	for i := 1; i <= 3; i++ {
		s, err := repo.CreateStory(ctx, db, author.ID, fmt.Sprintf("Story %d", i), "d", "", fmt.Sprintf("story-%d", i), nil)
		if err != nil {
			t.Fatalf("seed story %d: %v", i, err)
		}
		if i == 1 {
			rated = s
		}
	}
	if _, err := repo.CreateReview(db, rated.ID, reader.ID, 5, ""); err != nil {
		t.Fatalf("seed review: %v", err)
	}

	r := gin.New()
	r.GET("/home", h.Home)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/home", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("home -> %d body=%s", w.Code, w.Body.String())
	}
	var out HomeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(out.Newest) != 2 || len(out.TopRated) != 2 || len(out.RecentlyUpdated) != 2 {
		t.Fatalf("rail sizes: newest=%d top=%d updated=%d", len(out.Newest), len(out.TopRated), len(out.RecentlyUpdated))
	}
	if out.TopRated[0].Slug != "story-1" {
		t.Fatalf("top rated should lead with the rated story: %q", out.TopRated[0].Slug)
	}
	if len(out.Genres) != 1 || out.Genres[0].Name != "Fantasy" {
		t.Fatalf("genres mismatch: %+v", out.Genres)
	}
}
