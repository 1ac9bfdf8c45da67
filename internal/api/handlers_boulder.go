package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/greifwand/systemboard/internal/services"
)

func toBoulderPayload(summary services.BoulderSummary) boulderPayload {
	payload := boulderPayload{
		ID:          summary.ID,
		Name:        summary.Name,
		Description: summary.Description,
		Ascents:     summary.Ascents,
		Climbed:     summary.Climbed,
		Botd:        summary.Botd,
		Creator:     creatorPayload{ID: summary.Creator.ID, Name: summary.Creator.Name},
		Grade:       summary.Grade,
		Rating:      summary.Rating,
	}
	if summary.Location != nil {
		payload.Location = &locationPayload{
			Min:  summary.Location.Min,
			Max:  summary.Location.Max,
			Main: summary.Location.Main,
		}
	}
	for _, hold := range summary.Holds {
		payload.Holds = append(payload.Holds, holdRefPayload{ID: hold.ID, Type: hold.Type})
	}
	return payload
}

func (handler *Handler) GetBoulder(c *fiber.Ctx) error {
	identity := currentIdentity(c)
	if identity.Role == RoleLogin {
		return forbidden(c)
	}
	boulderID, err := uintParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid boulder id")
	}

	summary, err := handler.boulderService.Summary(boulderID, identity.User)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return apiError(c, fiber.StatusNotFound, "unknown boulder")
		}
		return apiError(c, fiber.StatusInternalServerError, "boulder lookup failed")
	}
	return c.JSON(toBoulderPayload(summary))
}

type holdPlacementInput struct {
	ID   uint `json:"id"`
	Type int  `json:"type"`
}

type boulderCreateInput struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Holds       []holdPlacementInput `json:"holds"`
}

func (handler *Handler) CreateBoulder(c *fiber.Ctx) error {
	identity, ok := requireUser(c)
	if !ok {
		return forbidden(c)
	}

	var input boulderCreateInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	placements := make([]services.HoldPlacement, 0, len(input.Holds))
	for _, hold := range input.Holds {
		placements = append(placements, services.HoldPlacement{ID: hold.ID, Type: hold.Type})
	}

	summary, err := handler.boulderService.Create(identity.User, input.Name, input.Description, placements)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return apiError(c, fiber.StatusBadRequest, "name and at least one hold are required")
		}
		return apiError(c, fiber.StatusInternalServerError, "boulder creation failed")
	}
	return c.JSON(toBoulderPayload(summary))
}

type boulderUpdateInput struct {
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	Holds       []holdPlacementInput `json:"holds"`
}

func (handler *Handler) UpdateBoulder(c *fiber.Ctx) error {
	identity, ok := requireUser(c)
	if !ok {
		return forbidden(c)
	}
	boulderID, err := uintParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid boulder id")
	}

	var input boulderUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	var placements []services.HoldPlacement
	if input.Holds != nil {
		placements = make([]services.HoldPlacement, 0, len(input.Holds))
		for _, hold := range input.Holds {
			placements = append(placements, services.HoldPlacement{ID: hold.ID, Type: hold.Type})
		}
	}

	if err := handler.boulderService.Update(identity.User, boulderID, input.Name, input.Description, placements); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return apiError(c, fiber.StatusNotFound, "unknown boulder")
		case errors.Is(err, services.ErrNotOwner):
			return forbidden(c)
		case errors.Is(err, services.ErrInvalidInput):
			return apiError(c, fiber.StatusBadRequest, "invalid boulder update")
		}
		return apiError(c, fiber.StatusInternalServerError, "boulder update failed")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) DeleteBoulder(c *fiber.Ctx) error {
	identity, ok := requireUser(c)
	if !ok {
		return forbidden(c)
	}
	boulderID, err := uintParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid boulder id")
	}

	if err := handler.boulderService.Delete(identity.User, boulderID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return apiError(c, fiber.StatusNotFound, "unknown boulder")
		case errors.Is(err, services.ErrNotOwner):
			return forbidden(c)
		}
		return apiError(c, fiber.StatusInternalServerError, "boulder deletion failed")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type climbedInput struct {
	Climbed bool `json:"climbed"`
}

func (handler *Handler) SetClimbed(c *fiber.Ctx) error {
	identity, ok := requireUser(c)
	if !ok {
		return forbidden(c)
	}
	boulderID, err := uintParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid boulder id")
	}

	var input climbedInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := handler.boulderService.SetClimbed(identity.User, boulderID, input.Climbed); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return apiError(c, fiber.StatusNotFound, "unknown boulder")
		}
		return apiError(c, fiber.StatusInternalServerError, "climbed update failed")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type gradeInput struct {
	Grade int `json:"grade"`
}

func (handler *Handler) SubmitGrade(c *fiber.Ctx) error {
	identity, ok := requireUser(c)
	if !ok {
		return forbidden(c)
	}
	boulderID, err := uintParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid boulder id")
	}

	var input gradeInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := handler.boulderService.SubmitGrade(identity.User, boulderID, input.Grade); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return apiError(c, fiber.StatusNotFound, "unknown boulder")
		case errors.Is(err, services.ErrInvalidInput):
			return apiError(c, fiber.StatusBadRequest, "invalid grade")
		}
		return apiError(c, fiber.StatusInternalServerError, "grade submission failed")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type ratingInput struct {
	Rating int `json:"rating"`
}

func (handler *Handler) SubmitRating(c *fiber.Ctx) error {
	identity, ok := requireUser(c)
	if !ok {
		return forbidden(c)
	}
	boulderID, err := uintParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid boulder id")
	}

	var input ratingInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := handler.boulderService.SubmitRating(identity.User, boulderID, input.Rating); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return apiError(c, fiber.StatusNotFound, "unknown boulder")
		case errors.Is(err, services.ErrInvalidInput):
			return apiError(c, fiber.StatusBadRequest, "invalid rating")
		}
		return apiError(c, fiber.StatusInternalServerError, "rating submission failed")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BoulderOfTheDay draws or returns today's pick. With no boulders on the
// current wall there is nothing to pick and the day stays empty.
func (handler *Handler) BoulderOfTheDay(c *fiber.Ctx) error {
	identity := currentIdentity(c)
	if identity.Role == RoleLogin {
		return forbidden(c)
	}

	summary, err := handler.boulderService.BoulderOfTheDay(identity.User)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return apiError(c, fiber.StatusNotFound, "no boulder of the day")
		}
		return apiError(c, fiber.StatusInternalServerError, "boulder of the day lookup failed")
	}
	return c.JSON(toBoulderPayload(summary))
}
