// middleware/auth.go
package middleware

import (
	"log"
	"strings"

	"trilha-do-cristo/services"

	"github.com/gofiber/fiber/v2"
)

const (
	UserIDKey   = "user_id"
	UserNameKey = "user_name"
)

// UserAuth verifies the Supabase access token in the Authorization header
// and attaches the user to the request.
func UserAuth(verifier services.TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing access token",
			})
		}

		user, err := verifier.Verify(c.UserContext(), token)
		if err != nil {
			log.Printf("🚫 [AUTH] Rejected token for %s: %v", c.Path(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid access token",
				"cause": err.Error(),
			})
		}

		c.Locals(UserIDKey, user.ID)
		c.Locals(UserNameKey, user.Name)
		return c.Next()
	}
}

// UserID returns the authenticated user id, empty outside UserAuth.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}

// UserName returns the display name from the token's metadata, if any.
func UserName(c *fiber.Ctx) string {
	name, _ := c.Locals(UserNameKey).(string)
	return name
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
