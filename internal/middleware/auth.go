package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/vidora/vidora-go/internal/apperr"
	"github.com/vidora/vidora-go/internal/respond"
	"github.com/vidora/vidora-go/pkg/token"
)

const (
	localUserID   = "userID"
	localUsername = "username"
)

// bearerToken pulls the access token from the Authorization header or,
// failing that, the accessToken cookie.
func bearerToken(c fiber.Ctx) string {
	auth := c.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return c.Cookies("accessToken")
}

// RequireAuth rejects requests without a valid access token and stores
// the caller's identity in the request locals.
func RequireAuth(tm *token.Manager) fiber.Handler {
	return func(c fiber.Ctx) error {
		raw := bearerToken(c)
		if raw == "" {
			return respond.Error(c, apperr.Unauthenticated("authentication required"))
		}

		claims, err := tm.Verify(raw, token.Access)
		if err != nil {
			return respond.Error(c, apperr.Unauthenticated("invalid or expired token"))
		}

		c.Locals(localUserID, claims.UserID)
		c.Locals(localUsername, claims.Username)
		return c.Next()
	}
}

// OptionalAuth stores the caller's identity when a valid access token is
// present and lets the request through anonymously otherwise. Responses
// on these routes vary by viewer (isLiked, isSubscribed, unpublished
// content visibility).
func OptionalAuth(tm *token.Manager) fiber.Handler {
	return func(c fiber.Ctx) error {
		if raw := bearerToken(c); raw != "" {
			if claims, err := tm.Verify(raw, token.Access); err == nil {
				c.Locals(localUserID, claims.UserID)
				c.Locals(localUsername, claims.Username)
			}
		}
		return c.Next()
	}
}

// UserID returns the authenticated user's ID. Only valid behind
// RequireAuth.
func UserID(c fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(localUserID).(uuid.UUID)
	return id
}

// OptionalUserID returns the viewer's ID, or nil for anonymous requests.
func OptionalUserID(c fiber.Ctx) *uuid.UUID {
	if id, ok := c.Locals(localUserID).(uuid.UUID); ok {
		return &id
	}
	return nil
}
