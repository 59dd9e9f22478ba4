// Package router wires HTTP routes to handlers and middleware.
package router

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"labtasks-backend/internal/auth"
	"labtasks-backend/internal/handler"
	"labtasks-backend/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication at all.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints. Login and register
// are rate limited per client IP; logout and me require a valid access
// token. Refresh authenticates through the cookie alone.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, issuer *auth.Issuer, rdb *redis.Client) {
	limit := middleware.RateLimit(rdb, 10, time.Minute)
	e.POST("/login", a.Login, limit)
	e.POST("/register", a.Register, limit)
	e.POST("/refresh", a.Refresh)

	protected := e.Group("")
	protected.Use(middleware.JWTAuth(issuer))
	protected.POST("/logout", a.Logout)
	protected.GET("/me", a.Me)
}

// RegisterLabs registers the topic and task endpoints. Read endpoints
// require authentication; mutations additionally require the admin role,
// applied explicitly per group rather than implied by authentication.
func RegisterLabs(e *echo.Echo, topics *handler.TopicHandler, tasks *handler.TaskHandler, admin *handler.AdminTaskHandler, issuer *auth.Issuer, rdb *redis.Client) {
	authed := e.Group("")
	authed.Use(middleware.JWTAuth(issuer))

	cached := middleware.Cache(rdb, 30*time.Second)
	authed.GET("/topics", topics.GetTopics, cached)
	authed.GET("/search", tasks.Search, cached)
	authed.GET("/tasks/:id", tasks.GetTask)
	authed.GET("/tasks/:id/download", tasks.Download)
	authed.GET("/tasks/:id/download-solution", tasks.DownloadSolution)

	adm := e.Group("/admin")
	adm.Use(middleware.JWTAuth(issuer))
	adm.Use(middleware.RequireAdmin())
	adm.POST("/tasks", admin.CreateTask)
	adm.PUT("/tasks/:id", admin.UpdateTask)
	adm.DELETE("/tasks/:id", admin.DeleteTask)
	adm.POST("/topics", admin.CreateTopic)
}
