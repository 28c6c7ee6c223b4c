// Chapter HTTP handlers.
//
// This file exposes REST endpoints for chapters within a story:
//   - POST   /stories/{slug}/chapters        (append at the end of the sequence)
//   - GET    /stories/{slug}/chapters        (list, paginated, ETag support)
//   - GET    /stories/{slug}/chapters/{id}   (read with prev/next navigation)
//   - PUT    /stories/{slug}/chapters/{id}   (edit title/content)
//   - DELETE /stories/{slug}/chapters/{id}   (delete)
//
// Idempotency:
// Appends are the retry-prone write (a duplicate lands at the next position),
// so POST supports the Idempotency-Key header. When a previous successful
// append exists for (user, story, key), the handler returns the recorded
// chapter and sets `Idempotency-Replayed: true`.
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dreambooks/go-story-backend/internal/domain"
	"github.com/dreambooks/go-story-backend/internal/http/middleware"
)

//
// DTOs
//

// ChapterRequest is the JSON payload for appending or editing a chapter.
type ChapterRequest struct {
	// Title is the chapter heading (1–200 chars).
	Title string `json:"title" binding:"required,min=1,max=200" example:"Chapter One: The Storm"`
	// Content is the chapter body text.
	Content string `json:"content" example:"The rain had not stopped for three days..."`
}

// ChapterResponse wraps a chapter with its reading-order neighbors. Prev and
// Next are null at the boundaries.
type ChapterResponse struct {
	Chapter *domain.Chapter `json:"chapter"`
	Prev    *domain.Chapter `json:"prev"`
	Next    *domain.Chapter `json:"next"`
}

// ListChaptersResponse contains a page of chapters and pagination metadata.
type ListChaptersResponse struct {
	Chapters   []domain.Chapter `json:"chapters"`
	Pagination Pagination       `json:"pagination"`
}

//
// Handlers
//

// AppendChapter godoc
// @ID          appendChapter
// @Summary     Append a chapter
// @Description Adds a chapter at the end of the story's sequence (position max+1). Owner or staff only.
// @Description Supports idempotency via the Idempotency-Key header (same key → same chapter).
// @Tags        Chapters
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  true  "User ID"  format(uuid)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"
// @Param       slug             path    string  true  "Story slug"
// @Param       body             body    handlers.ChapterRequest  true  "Chapter payload"
//
// @Success     201  {object}  domain.Chapter
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     403  {object}  handlers.ErrorResponse  "Forbidden"
// @Failure     404  {object}  handlers.ErrorResponse  "Story not found"
// @Router      /stories/{slug}/chapters [post]
func (h *Handlers) AppendChapter(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("slug")

	a, authed := requireActor(c)
	if !authed {
		return
	}

	var req ChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title required (1–200 chars)")
		return
	}

	// Idempotency (replay path) – read validated key if present.
	idemKey, _ := middleware.GetIdempotencyKey(c)
	if idemKey != "" && h.Replay != nil {
		if rec, err := h.Replay.Lookup(ctx, a.ID, slug, idemKey, time.Now().UTC()); err == nil && rec != nil {
			if st, err2 := h.storySvc.Get(ctx, slug); err2 == nil {
				if prev, err3 := h.Replay.ChapterByID(ctx, rec.ResourceID, st.ID); err3 == nil {
					c.Header("Idempotency-Replayed", "true")
					ok(c, http.StatusOK, prev)
					return
				}
			}
		}
	}

	ch, err := h.chapterSvc.Append(ctx, a, slug, req.Title, req.Content)
	if err != nil {
		failService(c, err)
		return
	}

	// Idempotency (store path) – best effort.
	if idemKey != "" && h.Replay != nil {
		_ = h.Replay.Record(ctx, a.ID, slug, idemKey, ch.ID, http.StatusCreated, 24*time.Hour)
	}

	ok(c, http.StatusCreated, ch)
}

// ListChapters godoc
// @ID          listChapters
// @Summary     List chapters
// @Description Returns a page of the story's chapters in reading order (10 per page by default). Supports weak ETag via If-None-Match.
// @Tags        Chapters
// @Produce     json
//
// @Param       slug           path    string  true  "Story slug"
// @Param       page           query   int     false "Page number"    minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page" minimum(1) maximum(100) default(10)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
//
// @Success     200  {object} handlers.ListChaptersResponse
// @Header      200  {string} ETag  "Weak ETag for current chapter set"
// @Success     304  {string} string "Not Modified"
// @Failure     404  {object} handlers.ErrorResponse "Story not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /stories/{slug}/chapters [get]
func (h *Handlers) ListChapters(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("slug")
	page, pageSize := clampPagination(c, h.defaultPageSize())

	// ETag pre-check (best effort); the tag covers the chapter set and the
	// requested page shape.
	if h.Stats != nil {
		if st, err := h.storySvc.Get(ctx, slug); err == nil {
			count, maxTS, err := h.Stats.Chapters(ctx, st.ID)
			if err == nil {
				var ts int64
				if maxTS != nil {
					ts = maxTS.Unix()
				}
				etag := fmt.Sprintf(`W/"chapters:%s:%d:%d:%d:%d"`, st.ID, count, ts, page, pageSize)
				c.Header("ETag", etag)
				if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
					c.Status(http.StatusNotModified)
					return
				}
			}
		}
	}

	items, total, served, err := h.chapterSvc.ListPage(ctx, slug, page, pageSize)
	if err != nil {
		failService(c, err)
		return
	}

	ok(c, http.StatusOK, ListChaptersResponse{
		Chapters:   items,
		Pagination: pagination(served, pageSize, total),
	})
}

// GetChapter godoc
// @ID          getChapter
// @Summary     Read a chapter
// @Description Returns the chapter with its previous and next neighbors in reading order; prev/next are null at the boundaries.
// @Tags        Chapters
// @Produce     json
//
// @Param       slug  path  string  true  "Story slug"
// @Param       id    path  string  true  "Chapter ID (UUID)"  format(uuid)
//
// @Success     200  {object} handlers.ChapterResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Story or chapter not found"
// @Router      /stories/{slug}/chapters/{id} [get]
func (h *Handlers) GetChapter(c *gin.Context) {
	chapterID := c.Param("id")
	if _, err := uuid.Parse(chapterID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "chapter id must be a UUID")
		return
	}

	nav, err := h.chapterSvc.Get(c.Request.Context(), c.Param("slug"), chapterID)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, ChapterResponse{Chapter: nav.Chapter, Prev: nav.Prev, Next: nav.Next})
}

// UpdateChapter godoc
// @ID          updateChapter
// @Summary     Edit a chapter
// @Description Updates a chapter's title and content. The position never changes. Owner or staff only.
// @Tags        Chapters
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  format(uuid)
// @Param       slug       path    string  true  "Story slug"
// @Param       id         path    string  true  "Chapter ID (UUID)"  format(uuid)
// @Param       body       body    handlers.ChapterRequest  true  "Chapter payload"
//
// @Success     200  {object} domain.Chapter
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object} handlers.ErrorResponse "Forbidden"
// @Failure     404  {object} handlers.ErrorResponse "Story or chapter not found"
// @Router      /stories/{slug}/chapters/{id} [put]
func (h *Handlers) UpdateChapter(c *gin.Context) {
	chapterID := c.Param("id")
	if _, err := uuid.Parse(chapterID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "chapter id must be a UUID")
		return
	}

	a, authed := requireActor(c)
	if !authed {
		return
	}

	var req ChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title required (1–200 chars)")
		return
	}

	ch, err := h.chapterSvc.Update(c.Request.Context(), a, c.Param("slug"), chapterID, req.Title, req.Content)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, ch)
}

// DeleteChapter godoc
// @ID          deleteChapter
// @Summary     Delete a chapter
// @Description Removes a chapter. Remaining positions keep their values; gaps are tolerated. Owner or staff only.
// @Tags        Chapters
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  format(uuid)
// @Param       slug       path    string  true  "Story slug"
// @Param       id         path    string  true  "Chapter ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object} handlers.ErrorResponse "Forbidden"
// @Failure     404  {object} handlers.ErrorResponse "Story or chapter not found"
// @Router      /stories/{slug}/chapters/{id} [delete]
func (h *Handlers) DeleteChapter(c *gin.Context) {
	chapterID := c.Param("id")
	if _, err := uuid.Parse(chapterID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "chapter id must be a UUID")
		return
	}

	a, authed := requireActor(c)
	if !authed {
		return
	}

	if err := h.chapterSvc.Delete(c.Request.Context(), a, c.Param("slug"), chapterID); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}
