// Contact HTTP handlers.
//
// Messages are stored rather than relayed: users submit and manage their own,
// staff see everyone's through the same listing endpoint.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dreambooks/go-story-backend/internal/domain"
)

// ContactRequest is the JSON payload for sending or editing a contact message.
type ContactRequest struct {
	// Message is the free-text body; blank messages are rejected.
	Message string `json:"message" binding:"required,min=1" example:"The chapter ordering on my story looks wrong."`
}

// ListContactResponse wraps a list of contact messages.
type ListContactResponse struct {
	Messages []domain.ContactMessage `json:"messages"`
}

// CreateContact godoc
// @ID          createContact
// @Summary     Send a contact message
// @Description Stores a message from the current user for staff review.
// @Tags        Contact
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  format(uuid)
// @Param       body       body    handlers.ContactRequest  true  "Message payload"
//
// @Success     201  {object}  domain.ContactMessage
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Router      /contact [post]
func (h *Handlers) CreateContact(c *gin.Context) {
	a, authed := requireActor(c)
	if !authed {
		return
	}

	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message required")
		return
	}

	m, err := h.contactSvc.Create(c.Request.Context(), a, req.Message)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, m)
}

// ListContact godoc
// @ID          listContact
// @Summary     List contact messages
// @Description Returns messages newest first: all of them for staff, otherwise only the caller's own.
// @Tags        Contact
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  format(uuid)
//
// @Success     200  {object}  handlers.ListContactResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /contact [get]
func (h *Handlers) ListContact(c *gin.Context) {
	a, authed := requireActor(c)
	if !authed {
		return
	}

	msgs, err := h.contactSvc.List(c.Request.Context(), a)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "listing messages failed")
		return
	}
	ok(c, http.StatusOK, ListContactResponse{Messages: msgs})
}

// UpdateContact godoc
// @ID          updateContact
// @Summary     Edit a contact message
// @Description Replaces the text of a message the caller owns (staff may edit any).
// @Tags        Contact
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  format(uuid)
// @Param       id         path    string  true  "Message ID (UUID)"  format(uuid)
// @Param       body       body    handlers.ContactRequest  true  "Message payload"
//
// @Success     200  {object}  domain.ContactMessage
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     403  {object}  handlers.ErrorResponse  "Forbidden"
// @Failure     404  {object}  handlers.ErrorResponse  "Message not found"
// @Router      /contact/{id} [put]
func (h *Handlers) UpdateContact(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message id must be a UUID")
		return
	}

	a, authed := requireActor(c)
	if !authed {
		return
	}

	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message required")
		return
	}

	m, err := h.contactSvc.Update(c.Request.Context(), a, id, req.Message)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, m)
}

// DeleteContact godoc
// @ID          deleteContact
// @Summary     Delete a contact message
// @Description Removes a message the caller owns (staff may delete any).
// @Tags        Contact
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  format(uuid)
// @Param       id         path    string  true  "Message ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object} handlers.ErrorResponse "Forbidden"
// @Failure     404  {object} handlers.ErrorResponse "Message not found"
// @Router      /contact/{id} [delete]
func (h *Handlers) DeleteContact(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message id must be a UUID")
		return
	}

	a, authed := requireActor(c)
	if !authed {
		return
	}

	if err := h.contactSvc.Delete(c.Request.Context(), a, id); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}
