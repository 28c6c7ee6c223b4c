// Account HTTP handlers.
//
// This file exposes signup, public profiles, and self-service account
// maintenance:
//   - POST   /auth/signup        (register)
//   - GET    /users/{username}   (public profile: stories + reviews)
//   - PUT    /account            (update username/email)
//   - PUT    /account/password   (change password)
//   - DELETE /account            (delete account; owned content cascades)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

//
// DTOs
//

// SignupRequest is the JSON payload for registering an account.
type SignupRequest struct {
	// Username is the unique public handle (1–150 chars).
	Username string `json:"username" binding:"required,min=1,max=150" example:"marina"`
	// Email is the contact address.
	Email string `json:"email" binding:"omitempty,email" example:"marina@example.com"`
	// Password is the plaintext password; only its bcrypt hash is stored.
	Password string `json:"password" binding:"required,min=8" example:"correct horse battery staple"`
}

// UpdateAccountRequest is the JSON payload for editing account fields.
type UpdateAccountRequest struct {
	Username string `json:"username" binding:"required,min=1,max=150" example:"marina"`
	Email    string `json:"email" binding:"omitempty,email" example:"marina@example.com"`
}

// ChangePasswordRequest carries the current and replacement passwords.
type ChangePasswordRequest struct {
	Current string `json:"current_password" binding:"required"`
	Next    string `json:"new_password" binding:"required,min=8"`
}

//
// Handlers
//

// Signup godoc
// @ID          signup
// @Summary     Register an account
// @Description Creates an account; usernames are unique and collisions return 409. Only the bcrypt hash of the password is stored.
// @Tags        Accounts
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.SignupRequest  true  "Signup payload"
//
// @Success     201  {object}  domain.User
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse  "Username taken"
// @Router      /auth/signup [post]
func (h *Handlers) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username and password (min 8 chars) required")
		return
	}

	u, err := h.accountSvc.Signup(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, u)
}

// GetProfile godoc
// @ID          getProfile
// @Summary     Public profile
// @Description Returns a user's public profile: the account plus their stories (with ratings) and reviews, newest first.
// @Tags        Accounts
// @Produce     json
//
// @Param       username  path  string  true  "Username"  example(marina)
//
// @Success     200  {object}  services.Profile
// @Failure     404  {object}  handlers.ErrorResponse  "User not found"
// @Router      /users/{username} [get]
func (h *Handlers) GetProfile(c *gin.Context) {
	p, err := h.accountSvc.GetProfile(c.Request.Context(), c.Param("username"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

// UpdateAccount godoc
// @ID          updateAccount
// @Summary     Update the current account
// @Description Changes the caller's username and email. A username collision returns 409.
// @Tags        Accounts
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  format(uuid)
// @Param       body       body    handlers.UpdateAccountRequest  true  "Account payload"
//
// @Success     200  {object}  domain.User
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     409  {object}  handlers.ErrorResponse  "Username taken"
// @Router      /account [put]
func (h *Handlers) UpdateAccount(c *gin.Context) {
	a, authed := requireActor(c)
	if !authed {
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username required")
		return
	}

	u, err := h.accountSvc.Update(c.Request.Context(), a, req.Username, req.Email)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}

// ChangePassword godoc
// @ID          changePassword
// @Summary     Change password
// @Description Verifies the current password and stores a hash of the new one.
// @Tags        Accounts
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  format(uuid)
// @Param       body       body    handlers.ChangePasswordRequest  true  "Password payload"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object} handlers.ErrorResponse "Wrong current password"
// @Router      /account/password [put]
func (h *Handlers) ChangePassword(c *gin.Context) {
	a, authed := requireActor(c)
	if !authed {
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "current and new password (min 8 chars) required")
		return
	}

	if err := h.accountSvc.ChangePassword(c.Request.Context(), a, req.Current, req.Next); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}

// DeleteAccount godoc
// @ID          deleteAccount
// @Summary     Delete the current account
// @Description Removes the caller's account. Their stories, chapters, reviews, and contact messages are deleted with it.
// @Tags        Accounts
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     404  {object} handlers.ErrorResponse "User not found"
// @Router      /account [delete]
func (h *Handlers) DeleteAccount(c *gin.Context) {
	a, authed := requireActor(c)
	if !authed {
		return
	}
	if err := h.accountSvc.Delete(c.Request.Context(), a); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}
