// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file resolves the caller's identity. The API trusts an upstream
// gateway to authenticate users and forward the account ID in the X-User-ID
// header; this middleware validates the header, optionally resolves the
// account row to learn the staff flag, and stashes the result in the Gin
// context for handlers ("userID", "isStaff", "username").
//
// Requests without the header proceed anonymously; endpoints that require an
// identity reject them individually with 401.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderUserID is the trusted header carrying the authenticated account ID.
const HeaderUserID = "X-User-ID"

// IdentityResolver looks up an account by ID. found=false means the ID does
// not correspond to a known account (stale header, deleted user); errors are
// reserved for lookup failures.
type IdentityResolver func(ctx context.Context, userID string) (staff bool, username string, found bool, err error)

// Identity validates X-User-ID and populates the request context. A header
// that is not a well-formed UUID is ignored rather than rejected, so stale
// clients degrade to anonymous instead of being locked out of public pages.
// Resolver errors likewise degrade to anonymous; write endpoints will fail
// later with a clearer status.
func Identity(resolve IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderUserID)
		if raw == "" {
			c.Next()
			return
		}
		if _, err := uuid.Parse(raw); err != nil {
			c.Next()
			return
		}

		if resolve == nil {
			c.Set("userID", raw)
			c.Next()
			return
		}

		staff, username, found, err := resolve(c.Request.Context(), raw)
		if err != nil || !found {
			c.Next()
			return
		}
		c.Set("userID", raw)
		c.Set("isStaff", staff)
		c.Set("username", username)
		c.Next()
	}
}
