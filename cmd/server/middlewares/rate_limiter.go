package middlewares

import (
	"fmt"
	"time"

	"notedeck/cmd/server/handlers/httperr"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// BuildRateLimiter returns a Fiber handler granting max requests per
// source per window. The 429 message names the window length. A max <= 0
// disables the limiter so callers don't need an if-statement.
func BuildRateLimiter(max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	minutes := int(window.Minutes())

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		LimitReached: func(c *fiber.Ctx) error {
			return httperr.Fail(httperr.E{
				Status:  429,
				Message: fmt.Sprintf("Too many requests, Try again after %d minutes", minutes),
			})
		},
	})
}
