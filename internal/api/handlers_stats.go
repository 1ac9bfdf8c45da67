package api

import "github.com/gofiber/fiber/v2"

func (handler *Handler) GetSystemStats(c *fiber.Ctx) error {
	if currentIdentity(c).Role == RoleLogin {
		return forbidden(c)
	}

	stats, err := handler.statsService.System()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "stats lookup failed")
	}

	changelog := make([]changeLogPayload, 0, len(stats.ChangeLog))
	for _, entry := range stats.ChangeLog {
		changelog = append(changelog, changeLogPayload{
			Version:     entry.Version,
			Date:        entry.Date,
			Description: entry.Description,
			Changes:     entry.Changes,
		})
	}

	return c.JSON(systemStatsPayload{
		Version:   stats.Version,
		ChangeLog: changelog,
		Boulders:  stats.Boulders,
		Holds:     stats.Holds,
		Users:     stats.Users,
	})
}
