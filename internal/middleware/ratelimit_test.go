package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"labtasks-backend/internal/middleware"
)

func limitedEcho(client *redis.Client) *echo.Echo {
	e := echo.New()
	e.POST("/login", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"success": true})
	}, middleware.RateLimit(client, 2, time.Minute))
	return e
}

func postLogin(e *echo.Echo) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_NilClientPassesThrough(t *testing.T) {
	e := limitedEcho(nil)

	for n := 0; n < 5; n++ {
		assert.Equal(t, http.StatusOK, postLogin(e).Code)
	}
}

// Redis being down must never lock users out of the credential endpoints.
func TestRateLimit_FailsOpenOnRedisError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	e := limitedEcho(client)
	for n := 0; n < 5; n++ {
		assert.Equal(t, http.StatusOK, postLogin(e).Code)
	}
}
