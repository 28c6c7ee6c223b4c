// Genre HTTP handlers: the catalog is read by everyone and written by staff.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dreambooks/go-story-backend/internal/domain"
)

// CreateGenreRequest is the JSON payload for adding a genre.
type CreateGenreRequest struct {
	// Name is the display name (unique).
	Name string `json:"name" binding:"required,min=1,max=100" example:"Science Fiction"`
	// Slug optionally fixes the URL form; derived from the name when empty.
	Slug string `json:"slug" example:"science-fiction"`
}

// ListGenresResponse wraps the genre catalog.
type ListGenresResponse struct {
	Genres []domain.Genre `json:"genres"`
}

// ListGenres godoc
// @ID          listGenres
// @Summary     List genres
// @Description Returns all genres ordered by name.
// @Tags        Genres
// @Produce     json
//
// @Success     200  {object}  handlers.ListGenresResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /genres [get]
func (h *Handlers) ListGenres(c *gin.Context) {
	genres, err := h.genreSvc.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "listing genres failed")
		return
	}
	ok(c, http.StatusOK, ListGenresResponse{Genres: genres})
}

// CreateGenre godoc
// @ID          createGenre
// @Summary     Add a genre
// @Description Creates a genre. Staff only; duplicate names return 409.
// @Tags        Genres
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  format(uuid)
// @Param       body       body    handlers.CreateGenreRequest  true  "Genre payload"
//
// @Success     201  {object}  domain.Genre
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     403  {object}  handlers.ErrorResponse  "Forbidden"
// @Failure     409  {object}  handlers.ErrorResponse  "Duplicate genre"
// @Router      /genres [post]
func (h *Handlers) CreateGenre(c *gin.Context) {
	a, authed := requireActor(c)
	if !authed {
		return
	}

	var req CreateGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required (1–100 chars)")
		return
	}

	g, err := h.genreSvc.Create(c.Request.Context(), a, req.Name, req.Slug)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, g)
}
