package api

import "github.com/gofiber/fiber/v2"

const contextIdentityKey = "current_identity"

func currentIdentity(c *fiber.Ctx) Identity {
	identity, ok := c.Locals(contextIdentityKey).(Identity)
	if !ok {
		return Identity{Role: RoleGuest}
	}
	return identity
}
