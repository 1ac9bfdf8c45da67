package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func forbidden(c *fiber.Ctx) error {
	return apiError(c, fiber.StatusForbidden, "forbidden")
}

func uintParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}

func uintQuery(c *fiber.Ctx, name string) uint {
	value, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return uint(value)
}

func floatQuery(c *fiber.Ctx, name string) *float64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}

func boolQuery(c *fiber.Ctx, name string) bool {
	value, err := strconv.ParseBool(c.Query(name))
	if err != nil {
		return false
	}
	return value
}
