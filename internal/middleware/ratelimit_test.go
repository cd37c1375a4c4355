package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRateLimit_TestEnvBypass(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	allowed, err := CheckRateLimit(context.Background(), nil, "register", "ip:1.2.3.4", 1, time.Minute)
	assert.NoError(t, err)
	assert.True(t, allowed)
}

func TestCheckRateLimit_FailsOpenWithoutRedis(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	allowed, err := CheckRateLimit(context.Background(), nil, "register", "ip:1.2.3.4", 1, time.Minute)
	assert.NoError(t, err)
	assert.True(t, allowed, "no Redis means no rate limiting, never a hard failure")
}

func TestRateLimitMiddleware_PassesThrough(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	app := fiber.New()
	app.Post("/guarded", RateLimit(nil, 1, time.Minute, "register"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	// with a nil client every request is allowed
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/guarded", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()
	}
}
