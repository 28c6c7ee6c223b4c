package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/dreambooks/go-story-backend/internal/domain"
	"github.com/dreambooks/go-story-backend/internal/http/middleware"
	"github.com/dreambooks/go-story-backend/internal/repo"
)

func TestLeaveReview_ValidationAndConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newHandlersDB(t)
	h := newTestHandlers(db)
	author := seedHandlerUser(t, db, "ursula")
	reader := seedHandlerUser(t, db, "ged")
	seedHandlerStory(t, db, author.ID, "earthsea")

	r := gin.New()
	r.POST("/stories/:slug/reviews", asIdentity(reader.ID, false), h.LeaveReview)

	// Rating outside 1..5 never reaches the service (binding rejects it).
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/stories/earthsea/reviews",
		bytes.NewBufferString(`{"rating":9}`)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid rating -> %d", w.Code)
	}

	// Success -> 201
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/stories/earthsea/reviews",
		bytes.NewBufferString(`{"rating":4,"comment":"good"}`)))
	if w.Code != http.StatusCreated {
		t.Fatalf("leave -> %d body=%s", w.Code, w.Body.String())
	}
	var out domain.Review
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v", err)
	}
	if out.Rating != 4 || out.AuthorID != reader.ID {
		t.Fatalf("unexpected review: %+v", out)
	}

	// Second review by the same reader -> 409 duplicate_review
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/stories/earthsea/reviews",
		bytes.NewBufferString(`{"rating":5}`)))
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate -> %d", w.Code)
	}
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil || er.Code != ErrCodeDuplicateReview {
		t.Fatalf("error envelope: %+v err=%v", er, err)
	}

	// Unknown story -> 404
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/stories/missing/reviews",
		bytes.NewBufferString(`{"rating":3}`)))
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing story -> %d", w.Code)
	}
}

func TestLeaveReview_IdempotentReplay(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newHandlersDB(t)
	h := newTestHandlers(db)
	author := seedHandlerUser(t, db, "ursula")
	reader := seedHandlerUser(t, db, "ged")
	s := seedHandlerStory(t, db, author.ID, "earthsea")

	r := gin.New()
	idem := middleware.IdempotencyValidator(middleware.IdempotencyOptions{ScopeParam: "slug"}, nil)
	r.POST("/stories/:slug/reviews", asIdentity(reader.ID, false), idem, h.LeaveReview)

	send := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/stories/earthsea/reviews",
			bytes.NewBufferString(`{"rating":4,"comment":"good"}`))
		req.Header.Set(middleware.HeaderIdempotencyKey, "review-key-1")
		r.ServeHTTP(w, req)
		return w
	}

	w1 := send()
	if w1.Code != http.StatusCreated {
		t.Fatalf("first -> %d body=%s", w1.Code, w1.Body.String())
	}
	var first domain.Review
	if err := json.Unmarshal(w1.Body.Bytes(), &first); err != nil {
		t.Fatalf("json: %v", err)
	}

	// A retry replays the stored review instead of a 409.
	w2 := send()
	if w2.Code != http.StatusOK || w2.Header().Get("Idempotency-Replayed") != "true" {
		t.Fatalf("replay -> %d replayed=%q", w2.Code, w2.Header().Get("Idempotency-Replayed"))
	}
	var second domain.Review
	if err := json.Unmarshal(w2.Body.Bytes(), &second); err != nil {
		t.Fatalf("json: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("replay returned a different review: %s vs %s", second.ID, first.ID)
	}
	if n, _ := repo.CountReviews(context.Background(), db, s.ID); n != 1 {
		t.Fatalf("retry duplicated the review: %d", n)
	}
}

func TestListReviews_WithAggregate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newHandlersDB(t)
	h := newTestHandlers(db)
	author := seedHandlerUser(t, db, "ursula")
	r1 := seedHandlerUser(t, db, "ged")
	r2 := seedHandlerUser(t, db, "tenar")
	s := seedHandlerStory(t, db, author.ID, "earthsea")

	if _, err := repo.CreateReview(db, s.ID, r1.ID, 3, "ok"); err != nil {
		t.Fatalf("seed review: %v", err)
	}
	if _, err := repo.CreateReview(db, s.ID, r2.ID, 4, "better"); err != nil {
		t.Fatalf("seed review: %v", err)
	}

	r := gin.New()
	r.GET("/stories/:slug/reviews", h.ListReviews)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stories/earthsea/reviews", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list -> %d body=%s", w.Code, w.Body.String())
	}
	var out ListReviewsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(out.Reviews) != 2 {
		t.Fatalf("reviews len = %d", len(out.Reviews))
	}
	if out.Rating.Average == nil || *out.Rating.Average != 3.5 || out.Rating.Rounded != 4 || out.Rating.Count != 2 {
		t.Fatalf("aggregate mismatch: %+v", out.Rating)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stories/missing/reviews", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing story -> %d", w.Code)
	}
}

func TestUpdateReview_AuthorOnlyOverHTTP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newHandlersDB(t)
	h := newTestHandlers(db)
	author := seedHandlerUser(t, db, "ursula")
	reader := seedHandlerUser(t, db, "ged")
	other := seedHandlerUser(t, db, "tenar")
	s := seedHandlerStory(t, db, author.ID, "earthsea")
	rv, err := repo.CreateReview(db, s.ID, reader.ID, 3, "meh")
	if err != nil {
		t.Fatalf("seed review: %v", err)
	}

	body := `{"rating":5,"comment":"grew on me"}`

	// Malformed ID -> 400
	{
		r := gin.New()
		r.PUT("/reviews/:id", asIdentity(reader.ID, false), h.UpdateReview)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/reviews/not-a-uuid", bytes.NewBufferString(body)))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("bad id -> %d", w.Code)
		}
	}

	// Someone else (even staff) -> 403
	{
		r := gin.New()
		r.PUT("/reviews/:id", asIdentity(other.ID, true), h.UpdateReview)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/reviews/"+rv.ID, bytes.NewBufferString(body)))
		if w.Code != http.StatusForbidden {
			t.Fatalf("staff edit -> %d", w.Code)
		}
	}

	// Author -> 200
	{
		r := gin.New()
		r.PUT("/reviews/:id", asIdentity(reader.ID, false), h.UpdateReview)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/reviews/"+rv.ID, bytes.NewBufferString(body)))
		if w.Code != http.StatusOK {
			t.Fatalf("author edit -> %d body=%s", w.Code, w.Body.String())
		}
		var out domain.Review
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("json: %v", err)
		}
		if out.Rating != 5 {
			t.Fatalf("rating = %d", out.Rating)
		}
	}
}

func TestDeleteReview_StaffMay(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newHandlersDB(t)
	h := newTestHandlers(db)
	author := seedHandlerUser(t, db, "ursula")
	reader := seedHandlerUser(t, db, "ged")
	staff := seedHandlerUser(t, db, "admin")
	s := seedHandlerStory(t, db, author.ID, "earthsea")
	rv, err := repo.CreateReview(db, s.ID, reader.ID, 3, "")
	if err != nil {
		t.Fatalf("seed review: %v", err)
	}

	r := gin.New()
	r.DELETE("/reviews/:id", asIdentity(staff.ID, true), h.DeleteReview)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/reviews/"+rv.ID, nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("staff delete -> %d", w.Code)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/reviews/"+rv.ID, nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete -> %d", w.Code)
	}
}
