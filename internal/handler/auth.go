package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"labtasks-backend/internal/auth"
	"labtasks-backend/internal/middleware"
	"labtasks-backend/internal/model"
	"labtasks-backend/internal/queue"
	"labtasks-backend/internal/repository"
)

// RefreshCookieName is the cookie carrying the refresh token. It is
// HTTP-only so page scripts can never read it.
const RefreshCookieName = "refresh_token"

// EventSink receives audit events. Implemented by service.EventPublisher;
// a nil-receiver publish is a no-op so handlers never check for a broker.
type EventSink interface {
	Publish(ctx context.Context, ev queue.Event)
}

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Auth       *auth.Service
	Users      auth.UserStore
	RefreshTTL time.Duration
	Events     EventSink
}

func NewAuthHandler(svc *auth.Service, users auth.UserStore, refreshTTL time.Duration, events EventSink) *AuthHandler {
	return &AuthHandler{Auth: svc, Users: users, RefreshTTL: refreshTTL, Events: events}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerReq struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password1 string `json:"password1"`
	Password2 string `json:"password2"`
}

type userOut struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}

// userToOut is the explicit mapping from the persisted user to its wire
// representation; the password hash never crosses this boundary.
func userToOut(u model.User) userOut {
	return userOut{ID: u.ID, Username: u.Username, Email: u.Email, IsAdmin: u.IsAdmin}
}

// Login verifies credentials, returns the access token in the body and
// sets the refresh cookie. Unknown users and wrong passwords produce the
// same response.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Invalid body"})
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Username and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sess, err := h.Auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Login failed"})
	}

	h.setRefreshCookie(c, sess.Refresh)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"user":    userToOut(sess.User),
		"access":  sess.Access,
	})
}

// Register creates the account and logs it in immediately, mirroring the
// login response shape.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Invalid body"})
	}
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" ||
		req.Password1 == "" || req.Password2 == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "All fields are required"})
	}
	if req.Password1 != req.Password2 {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Passwords do not match"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sess, err := h.Auth.Register(ctx, req.Username, req.Email, req.Password1)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Username already taken"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Registration failed"})
	}

	if h.Events != nil {
		h.Events.Publish(ctx, queue.Event{
			Kind:     queue.EventUserRegistered,
			ActorID:  sess.User.ID,
			Username: sess.User.Username,
		})
	}

	h.setRefreshCookie(c, sess.Refresh)
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"user":    userToOut(sess.User),
		"access":  sess.Access,
	})
}

// Refresh exchanges the cookie's refresh token for a new access token and,
// when rotation is enabled, replaces the cookie.
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(RefreshCookieName)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Refresh token missing"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Auth.Refresh(ctx, cookie.Value)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingToken):
			return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Refresh token missing"})
		case errors.Is(err, auth.ErrInvalidToken):
			return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Invalid refresh token"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Refresh failed"})
		}
	}

	if res.Rotated {
		h.setRefreshCookie(c, res.Refresh)
	}
	return c.JSON(http.StatusOK, echo.Map{"access": res.Access})
}

// Logout revokes the refresh token server-side and clears the cookie.
// Both must happen: deleting the cookie alone would leave the token
// usable. The endpoint is idempotent.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if cookie, err := c.Cookie(RefreshCookieName); err == nil && cookie.Value != "" {
		h.Auth.Logout(ctx, cookie.Value)
	}
	h.clearRefreshCookie(c)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Me returns the authenticated identity's public fields. A token whose
// user no longer exists is treated as unauthenticated.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Unauthenticated"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Unauthenticated"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Lookup failed"})
	}
	return c.JSON(http.StatusOK, userToOut(u))
}

func (h *AuthHandler) setRefreshCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.RefreshTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
