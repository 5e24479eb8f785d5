package handlers

import (
	"strings"

	"github.com/fogonims/stock-service/internal/domain"
	"github.com/fogonims/stock-service/internal/httpapi"
	"github.com/fogonims/stock-service/internal/service"
	"github.com/gofiber/fiber/v2"
)

const callerLocalKey = "caller"

// RequireAuth resolves the bearer token into a Caller and stores it in the
// request locals. Handlers read it back with CallerFromContext.
func RequireAuth(authService *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return httpapi.UnauthorizedResponse(c, "Authorization header required")
		}

		token := strings.TrimPrefix(header, "Bearer ")
		caller, err := authService.Resolve(token)
		if err != nil {
			return httpapi.UnauthorizedResponse(c, "Invalid or expired token")
		}

		c.Locals(callerLocalKey, caller)
		return c.Next()
	}
}

func CallerFromContext(c *fiber.Ctx) domain.Caller {
	caller, _ := c.Locals(callerLocalKey).(domain.Caller)
	return caller
}
