package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequireSelf only lets the request through when the route parameter names
// the authenticated business.
func RequireSelf(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		callerID := GetCurrentBusinessID(c)
		if callerID == uuid.Nil {
			return Unauthorized("Authentication required")
		}

		target, err := uuid.Parse(c.Params(param))
		if err != nil {
			return BadRequest("Invalid business ID")
		}

		if target != callerID {
			return Forbidden("Not authorized to access this business")
		}

		return c.Next()
	}
}
