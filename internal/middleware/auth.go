package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"locallink/internal/domain"
	"locallink/internal/service/auth"
)

const (
	BusinessContextKey   = "business"
	BusinessIDContextKey = "business_id"
)

// Authenticator resolves an access token to the business it was issued to.
type Authenticator interface {
	ValidateAccessToken(token string) (*auth.Claims, error)
	GetBusinessByID(ctx context.Context, id uuid.UUID) (*domain.Business, error)
}

// AuthRequired accepts a bearer token from the Authorization header, the
// token query parameter or the token cookie, in that order.
func AuthRequired(authenticator Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return Unauthorized("No token, authorization denied")
		}

		claims, err := authenticator.ValidateAccessToken(token)
		if err != nil {
			return Unauthorized("Invalid or expired token")
		}

		business, err := authenticator.GetBusinessByID(c.UserContext(), claims.UserID)
		if err != nil {
			return err
		}
		if business == nil {
			return Unauthorized("Business account not found")
		}

		c.Locals(BusinessContextKey, business)
		c.Locals(BusinessIDContextKey, business.ID)

		return c.Next()
	}
}

func extractToken(c *fiber.Ctx) string {
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		if token := strings.TrimSpace(parts[1]); token != "" {
			return token
		}
	}
	if token := c.Query("token"); token != "" {
		return token
	}
	return c.Cookies("token")
}

func GetCurrentBusiness(c *fiber.Ctx) *domain.Business {
	business, ok := c.Locals(BusinessContextKey).(*domain.Business)
	if !ok {
		return nil
	}
	return business
}

func GetCurrentBusinessID(c *fiber.Ctx) uuid.UUID {
	id, ok := c.Locals(BusinessIDContextKey).(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
