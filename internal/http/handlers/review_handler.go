// Review HTTP handlers.
//
// This file exposes REST endpoints for story reviews:
//   - POST   /stories/{slug}/reviews   (leave a review, one per author)
//   - GET    /stories/{slug}/reviews   (list with rating aggregate)
//   - PUT    /reviews/{id}             (edit own review)
//   - DELETE /reviews/{id}             (delete own review; staff any)
//
// Idempotency:
// A retried POST would trip the one-review-per-author rule and surface a
// confusing conflict, so submissions support the Idempotency-Key header: a
// previous successful result for (user, story, key) is returned with
// `Idempotency-Replayed: true`.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dreambooks/go-story-backend/internal/domain"
	"github.com/dreambooks/go-story-backend/internal/http/middleware"
	"github.com/dreambooks/go-story-backend/internal/services"
)

//
// DTOs
//

// ReviewRequest is the JSON payload for leaving or editing a review.
type ReviewRequest struct {
	// Rating is the star value, 1 through 5 inclusive.
	Rating int `json:"rating" binding:"required,min=1,max=5" example:"4"`
	// Comment is the optional free-text part of the review.
	Comment string `json:"comment" example:"Gripping from the first chapter."`
}

// ListReviewsResponse bundles a story's reviews with the rating aggregate.
type ListReviewsResponse struct {
	Reviews []domain.Review        `json:"reviews"`
	Rating  services.RatingSummary `json:"rating"`
}

//
// Handlers
//

// LeaveReview godoc
// @ID          leaveReview
// @Summary     Review a story
// @Description Records a rating (1–5) and optional comment. Each user may review a story once; a second attempt returns 409.
// @Description Supports idempotency via the Idempotency-Key header (same key → same review).
// @Tags        Reviews
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  true  "User ID"  format(uuid)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"
// @Param       slug             path    string  true  "Story slug"
// @Param       body             body    handlers.ReviewRequest  true  "Review payload"
//
// @Success     201  {object}  domain.Review
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "Story not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Already reviewed"
// @Router      /stories/{slug}/reviews [post]
func (h *Handlers) LeaveReview(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("slug")

	a, authed := requireActor(c)
	if !authed {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "rating required (1–5)")
		return
	}

	// Idempotency (replay path).
	idemKey, _ := middleware.GetIdempotencyKey(c)
	if idemKey != "" && h.Replay != nil {
		if rec, err := h.Replay.Lookup(ctx, a.ID, slug, idemKey, time.Now().UTC()); err == nil && rec != nil {
			if prev, err2 := h.Replay.ReviewByID(ctx, rec.ResourceID); err2 == nil {
				c.Header("Idempotency-Replayed", "true")
				ok(c, http.StatusOK, prev)
				return
			}
		}
	}

	r, err := h.reviewSvc.Leave(ctx, a, slug, req.Rating, req.Comment)
	if err != nil {
		failService(c, err)
		return
	}

	// Idempotency (store path) – best effort.
	if idemKey != "" && h.Replay != nil {
		_ = h.Replay.Record(ctx, a.ID, slug, idemKey, r.ID, http.StatusCreated, 24*time.Hour)
	}

	ok(c, http.StatusCreated, r)
}

// ListReviews godoc
// @ID          listReviews
// @Summary     List reviews for a story
// @Description Returns a story's reviews newest first, together with the mean rating (unrounded and rounded) and review count.
// @Tags        Reviews
// @Produce     json
//
// @Param       slug  path  string  true  "Story slug"
//
// @Success     200  {object} handlers.ListReviewsResponse
// @Failure     404  {object} handlers.ErrorResponse "Story not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /stories/{slug}/reviews [get]
func (h *Handlers) ListReviews(c *gin.Context) {
	ctx := c.Request.Context()

	st, err := h.storySvc.Get(ctx, c.Param("slug"))
	if err != nil {
		failService(c, err)
		return
	}

	reviews, err := h.reviewSvc.ListForStory(ctx, st.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "listing reviews failed")
		return
	}
	rating, err := h.reviewSvc.Summary(ctx, st.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "rating aggregation failed")
		return
	}

	ok(c, http.StatusOK, ListReviewsResponse{Reviews: reviews, Rating: rating})
}

// UpdateReview godoc
// @ID          updateReview
// @Summary     Edit a review
// @Description Changes the rating and comment of the caller's own review. Staff cannot edit other people's reviews.
// @Tags        Reviews
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  format(uuid)
// @Param       id         path    string  true  "Review ID (UUID)"  format(uuid)
// @Param       body       body    handlers.ReviewRequest  true  "Review payload"
//
// @Success     200  {object} domain.Review
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object} handlers.ErrorResponse "Forbidden"
// @Failure     404  {object} handlers.ErrorResponse "Review not found"
// @Router      /reviews/{id} [put]
func (h *Handlers) UpdateReview(c *gin.Context) {
	reviewID := c.Param("id")
	if _, err := uuid.Parse(reviewID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "review id must be a UUID")
		return
	}

	a, authed := requireActor(c)
	if !authed {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "rating required (1–5)")
		return
	}

	r, err := h.reviewSvc.Update(c.Request.Context(), a, reviewID, req.Rating, req.Comment)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, r)
}

// DeleteReview godoc
// @ID          deleteReview
// @Summary     Delete a review
// @Description Removes a review. Authors delete their own; staff may delete any.
// @Tags        Reviews
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  format(uuid)
// @Param       id         path    string  true  "Review ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object} handlers.ErrorResponse "Forbidden"
// @Failure     404  {object} handlers.ErrorResponse "Review not found"
// @Router      /reviews/{id} [delete]
func (h *Handlers) DeleteReview(c *gin.Context) {
	reviewID := c.Param("id")
	if _, err := uuid.Parse(reviewID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "review id must be a UUID")
		return
	}

	a, authed := requireActor(c)
	if !authed {
		return
	}

	if err := h.reviewSvc.Delete(c.Request.Context(), a, reviewID); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}
