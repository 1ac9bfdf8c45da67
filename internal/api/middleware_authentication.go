package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/greifwand/systemboard/internal/services"
)

// AuthenticationGate classifies every request by its Authorization header
// and stores the resulting identity in the request context. Preflight
// requests carry no credential, so they are answered here instead.
func (handler *Handler) AuthenticationGate(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodOptions {
		c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
		c.Set(fiber.HeaderAccessControlAllowHeaders, "*")
		c.Set(fiber.HeaderAccessControlAllowMethods, "*")
		return c.SendStatus(fiber.StatusOK)
	}

	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return apiError(c, fiber.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.Fields(header)
	if len(parts) == 0 {
		return apiError(c, fiber.StatusUnauthorized, "missing authorization header")
	}

	switch strings.ToLower(parts[0]) {
	case "guest":
		c.Locals(contextIdentityKey, Identity{Role: RoleGuest})
		return c.Next()
	case "login":
		c.Locals(contextIdentityKey, Identity{Role: RoleLogin})
		return c.Next()
	case "bearer":
		if len(parts) != 2 {
			return apiError(c, fiber.StatusUnauthorized, "malformed bearer credential")
		}
		user, err := handler.sessionService.Validate(parts[1])
		if err != nil {
			if errors.Is(err, services.ErrNoSession) {
				return apiError(c, fiber.StatusUnauthorized, "invalid or expired session")
			}
			return apiError(c, fiber.StatusInternalServerError, "session lookup failed")
		}
		c.Locals(contextIdentityKey, Identity{Role: RoleUser, User: &user, SessionToken: parts[1]})
		return c.Next()
	}
	return apiError(c, fiber.StatusUnauthorized, "unsupported authorization scheme")
}

// requireUser reports whether the request carries an authenticated account.
// Callers answer a failed check with 403: the gate already classified the
// credential, the role is just not enough for the route.
func requireUser(c *fiber.Ctx) (Identity, bool) {
	identity := currentIdentity(c)
	if identity.Role != RoleUser || identity.User == nil {
		return identity, false
	}
	return identity, true
}
