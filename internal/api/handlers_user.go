package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/greifwand/systemboard/internal/db"
	"github.com/greifwand/systemboard/internal/services"
)

// GetUser returns the account record; accounts can only read themselves.
func (handler *Handler) GetUser(c *fiber.Ctx) error {
	identity, ok := requireUser(c)
	if !ok {
		return forbidden(c)
	}
	userID, err := uintParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid user id")
	}
	if userID != identity.User.ID {
		return forbidden(c)
	}

	return c.JSON(userInfoPayload{
		ID:         identity.User.ID,
		Name:       identity.User.Name,
		Email:      identity.User.Email,
		Newsletter: identity.User.Newsletter,
	})
}

type userUpdateInput struct {
	ID         uint    `json:"id"`
	Name       *string `json:"name"`
	Password   *string `json:"password"`
	Newsletter *bool   `json:"newsletter"`
}

func (handler *Handler) UpdateUser(c *fiber.Ctx) error {
	identity, ok := requireUser(c)
	if !ok {
		return forbidden(c)
	}
	userID, err := uintParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid user id")
	}
	if userID != identity.User.ID {
		return forbidden(c)
	}

	var input userUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if input.ID != 0 && input.ID != userID {
		return apiError(c, fiber.StatusBadRequest, "body id does not match path id")
	}

	if err := handler.accountService.UpdateProfile(userID, input.Name, input.Password, input.Newsletter); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "profile update failed")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetProfile is the public profile view: name plus wall-scoped and all-time
// climbing statistics. The wall query parameter defaults to the current wall.
func (handler *Handler) GetProfile(c *fiber.Ctx) error {
	if currentIdentity(c).Role == RoleLogin {
		return forbidden(c)
	}
	userID, err := uintParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid user id")
	}

	wallID := uintQuery(c, "wall")
	if wallID == 0 {
		if wallID, err = handler.repositories.Walls.CurrentWallID(); err != nil {
			return apiError(c, fiber.StatusInternalServerError, "wall lookup failed")
		}
	}

	profile, err := handler.statsService.Profile(userID, wallID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return apiError(c, fiber.StatusNotFound, "unknown user")
		}
		return apiError(c, fiber.StatusInternalServerError, "profile lookup failed")
	}

	return c.JSON(profilePayload{
		ID:      profile.ID,
		Name:    profile.Name,
		Current: toUserStatsPayload(profile.Current),
		Total:   toUserStatsPayload(profile.Total),
	})
}

func toUserStatsPayload(stats services.UserStats) userStatsPayload {
	ascents := make([]ascentPayload, 0, len(stats.Ascents))
	for _, ascent := range stats.Ascents {
		ascents = append(ascents, ascentPayload{ID: ascent.ID, Name: ascent.Name, Wall: ascent.Wall})
	}
	return userStatsPayload{UserID: stats.UserID, Ascents: ascents, Points: stats.Points}
}

func (handler *Handler) GetRanking(c *fiber.Ctx) error {
	if currentIdentity(c).Role == RoleLogin {
		return forbidden(c)
	}
	rows, err := handler.statsService.Ranking()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "ranking lookup failed")
	}
	return c.JSON(toRankingPayload(rows))
}

func toRankingPayload(rows []db.RankingRow) []rankingPayload {
	ranking := make([]rankingPayload, 0, len(rows))
	for _, row := range rows {
		ranking = append(ranking, rankingPayload{ID: row.ID, Name: row.Name, Badge: row.Badge, Score: row.Score})
	}
	return ranking
}
