// Package middleware contains reusable Echo middleware: the access-token
// authentication gate, the admin authorization gate, and the Redis-backed
// rate limit and response cache.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"labtasks-backend/internal/auth"
)

// Context keys set by JWTAuth and read by RequireAdmin and handlers.
const (
	CtxUserID  = "user_id"
	CtxIsAdmin = "is_admin"
)

// JWTAuth validates a Bearer access token and injects the subject id and
// admin flag into the request context. Validation is signature + expiry
// only; access tokens are stateless, so no revocation list is consulted.
func JWTAuth(issuer *auth.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Unauthenticated"})
			}
			claims, err := issuer.ParseAccess(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Unauthenticated"})
			}
			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxIsAdmin, claims.IsAdmin)
			return next(c)
		}
	}
}

// UserID extracts the authenticated user id stored by JWTAuth.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(CtxUserID).(uint64)
	return id, ok
}
