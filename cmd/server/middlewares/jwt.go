package middlewares

import (
	"notedeck/cmd/server/handlers/httperr"
	"notedeck/internal/config"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JWT returns the identity-resolving middleware. It:
//
//   - validates the Bearer token signature using cfg.JWTSecret
//   - requires the token to carry "user_id" and "email" claims
//   - stores those values in ctx.Locals("userID") / ctx.Locals("userEmail")
//     so downstream handlers can trust them.
//
// Any problem short-circuits with the uniform 401 before handler logic
// runs; no handler ever sees an unauthenticated request.
func JWT(cfg config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		SuccessHandler: func(c *fiber.Ctx) error {
			// Token already verified at this point.
			token := c.Locals("user").(*jwt.Token)
			claims, _ := token.Claims.(jwt.MapClaims)

			userID, ok := claims["user_id"].(string)
			if !ok || userID == "" {
				return httperr.Fail(httperr.ErrUnauthorized)
			}

			userEmail, ok := claims["email"].(string)
			if !ok || userEmail == "" {
				return httperr.Fail(httperr.ErrUnauthorized)
			}

			c.Locals("userID", userID)
			c.Locals("userEmail", userEmail)
			return c.Next()
		},

		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return httperr.Fail(httperr.ErrUnauthorized)
		},
	})
}
