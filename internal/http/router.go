// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, identity resolution, idempotency, and rate
// limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/dreambooks/go-story-backend/internal/config"
	"github.com/dreambooks/go-story-backend/internal/domain"
	"github.com/dreambooks/go-story-backend/internal/http/handlers"
	"github.com/dreambooks/go-story-backend/internal/http/middleware"
	"github.com/dreambooks/go-story-backend/internal/repo"
	"github.com/dreambooks/go-story-backend/internal/services"
)

// storyRepoShim adapts the repository free functions to the
// services.StoryRepo interface expected by the StoryService. This keeps
// services decoupled from the concrete repo package while reusing existing
// functions.
type storyRepoShim struct{}

// CreateStory proxies repo.CreateStory.
func (storyRepoShim) CreateStory(ctx context.Context, db *gorm.DB, authorID, title, description, coverImage, slug string, genres []domain.Genre) (*domain.Story, error) {
	return repo.CreateStory(ctx, db, authorID, title, description, coverImage, slug, genres)
}

// GetStoryBySlug proxies repo.GetStoryBySlug.
func (storyRepoShim) GetStoryBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Story, error) {
	return repo.GetStoryBySlug(ctx, db, slug)
}

// StorySlugExists proxies repo.StorySlugExists (slug allocation support).
func (storyRepoShim) StorySlugExists(ctx context.Context, db *gorm.DB, slug string) (bool, error) {
	return repo.StorySlugExists(ctx, db, slug)
}

// UpdateStory proxies repo.UpdateStory.
func (storyRepoShim) UpdateStory(ctx context.Context, db *gorm.DB, s *domain.Story, genres []domain.Genre) error {
	return repo.UpdateStory(ctx, db, s, genres)
}

// DeleteStory proxies repo.DeleteStory.
func (storyRepoShim) DeleteStory(ctx context.Context, db *gorm.DB, id string) error {
	return repo.DeleteStory(ctx, db, id)
}

// CountStories proxies repo.CountStories (pagination support).
func (storyRepoShim) CountStories(ctx context.Context, db *gorm.DB, f repo.StoryFilter) (int64, error) {
	return repo.CountStories(ctx, db, f)
}

// ListStoriesPage proxies repo.ListStoriesPage (pagination support).
func (storyRepoShim) ListStoriesPage(ctx context.Context, db *gorm.DB, f repo.StoryFilter, offset, limit int) ([]repo.StoryWithRating, error) {
	return repo.ListStoriesPage(ctx, db, f, offset, limit)
}

// GenresByNames proxies repo.GenresByNames.
func (storyRepoShim) GenresByNames(ctx context.Context, db *gorm.DB, names []string) ([]domain.Genre, error) {
	return repo.GenresByNames(ctx, db, names)
}

// dbStore backs the handlers' stats and idempotency-replay lookups
// (handlers.CatalogStats and handlers.ReplayStore) with the repo package.
type dbStore struct{ db *gorm.DB }

// Stories reports the catalog count and newest updated_at.
func (s dbStore) Stories(ctx context.Context) (int64, *time.Time, error) {
	return repo.StoriesStats(ctx, s.db)
}

// Chapters reports a story's chapter count and newest updated_at.
func (s dbStore) Chapters(ctx context.Context, storyID string) (int64, *time.Time, error) {
	return repo.ChaptersStats(ctx, s.db, storyID)
}

// Lookup fetches a live idempotency record, nil on a miss.
func (s dbStore) Lookup(ctx context.Context, userID, scope, key string, now time.Time) (*domain.Idempotency, error) {
	return repo.GetIdempotency(ctx, s.db, userID, scope, key, now)
}

// Record stores the created resource for (user, scope, key).
func (s dbStore) Record(ctx context.Context, userID, scope, key, resourceID string, status int, ttl time.Duration) error {
	_, err := repo.CreateIdempotency(ctx, s.db, userID, scope, key, resourceID, status, ttl)
	return err
}

// ChapterByID resolves a recorded chapter within its story.
func (s dbStore) ChapterByID(ctx context.Context, chapterID, storyID string) (*domain.Chapter, error) {
	return repo.GetChapter(ctx, s.db, chapterID, storyID)
}

// ReviewByID resolves a recorded review.
func (s dbStore) ReviewByID(ctx context.Context, reviewID string) (*domain.Review, error) {
	return repo.GetReview(ctx, s.db, reviewID)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), identity
// resolution, idempotency and rate limiting, CORS and security headers,
// health and metrics endpoints, and then mounts the versioned public API
// under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter + gzip compression
//  6. Metrics
//  7. Identity: resolve X-User-ID to an account (before idempotency/rate)
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per user/IP, bypass on replay)
//  10. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB) and gzip for chapter-sized payloads
	r.Use(limitBody(1 << 20))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Identity resolution from the trusted X-User-ID header
	r.Use(middleware.Identity(func(ctx context.Context, userID string) (bool, string, bool, error) {
		u, err := repo.GetUser(ctx, db, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, "", false, nil
			}
			return false, "", false, err
		}
		return u.IsStaff, u.Username, true, nil
	}))

	// 8) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen:     200,
			ScopeParam: "slug",
		},
		func(ctx context.Context, userID, scope, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, userID, scope, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 9) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderUserID, middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderUserID, middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Swagger UI (opt-in)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db
	storySvc := services.NewStoryService(db, storyRepoShim{})
	chapterSvc := services.NewChapterService(db)
	chapterSvc.PageSize = cfg.StoryPageSize
	reviewSvc := &services.ReviewService{DB: db}
	genreSvc := &services.GenreService{DB: db}
	contactSvc := &services.ContactService{DB: db}
	accountSvc := &services.AccountService{DB: db, BcryptCost: cfg.BcryptCost}

	h := handlers.New(storySvc, chapterSvc, reviewSvc, genreSvc, contactSvc, accountSvc)
	h.HomeSize = cfg.HomePageSize
	h.StoryPageSize = cfg.StoryPageSize
	store := dbStore{db: db}
	h.Stats = store
	h.Replay = store

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Landing page
		api.GET("/home", h.Home)

		// Stories
		api.POST("/stories", h.CreateStory)
		api.GET("/stories", h.ListStories)
		api.GET("/stories/:slug", h.GetStory)
		api.PUT("/stories/:slug", h.UpdateStory)
		api.DELETE("/stories/:slug", h.DeleteStory)

		// Chapters
		api.POST("/stories/:slug/chapters", h.AppendChapter)
		api.GET("/stories/:slug/chapters", h.ListChapters)
		api.GET("/stories/:slug/chapters/:id", h.GetChapter)
		api.PUT("/stories/:slug/chapters/:id", h.UpdateChapter)
		api.DELETE("/stories/:slug/chapters/:id", h.DeleteChapter)

		// Reviews
		api.POST("/stories/:slug/reviews", h.LeaveReview)
		api.GET("/stories/:slug/reviews", h.ListReviews)
		api.PUT("/reviews/:id", h.UpdateReview)
		api.DELETE("/reviews/:id", h.DeleteReview)

		// Genres
		api.GET("/genres", h.ListGenres)
		api.POST("/genres", h.CreateGenre)

		// Contact
		api.POST("/contact", h.CreateContact)
		api.GET("/contact", h.ListContact)
		api.PUT("/contact/:id", h.UpdateContact)
		api.DELETE("/contact/:id", h.DeleteContact)

		// Accounts
		api.POST("/auth/signup", h.Signup)
		api.GET("/users/:username", h.GetProfile)
		api.PUT("/account", h.UpdateAccount)
		api.PUT("/account/password", h.ChangePassword)
		api.DELETE("/account", h.DeleteAccount)

		// About
		api.GET("/about", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"name":        "dreambooks",
				"description": "A home for serialized fiction: authors publish stories chapter by chapter, readers follow, rate, and review.",
			})
		})
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
