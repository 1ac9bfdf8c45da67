package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/greifwand/systemboard/internal/models"
	"github.com/greifwand/systemboard/internal/services"
)

func (handler *Handler) GetCurrentWall(c *fiber.Ctx) error {
	return handler.respondWall(c, 0)
}

func (handler *Handler) GetWall(c *fiber.Ctx) error {
	wallID, err := uintParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid wall id")
	}
	return handler.respondWall(c, wallID)
}

func (handler *Handler) respondWall(c *fiber.Ctx, wallID uint) error {
	if currentIdentity(c).Role == RoleLogin {
		return forbidden(c)
	}

	wall, segments, err := handler.wallService.Wall(wallID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return apiError(c, fiber.StatusNotFound, "unknown wall")
		}
		return apiError(c, fiber.StatusInternalServerError, "wall lookup failed")
	}

	segmentPayloads := make([]wallSegmentPayload, 0, len(segments))
	for _, segment := range segments {
		segmentPayloads = append(segmentPayloads, wallSegmentPayload{Image: segment.Filename})
	}
	return c.JSON(wallPayload{ID: wall.ID, Name: wall.Name, WallSegments: segmentPayloads})
}

// GetWallHolds lists each segment of a wall with the holds placed on it,
// keyed by the segment image the frontend renders.
func (handler *Handler) GetWallHolds(c *fiber.Ctx) error {
	if currentIdentity(c).Role == RoleLogin {
		return forbidden(c)
	}
	wallID, err := uintParam(c, "wall")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid wall id")
	}

	listings, err := handler.wallService.HoldsByWall(wallID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return apiError(c, fiber.StatusNotFound, "unknown wall")
		}
		return apiError(c, fiber.StatusInternalServerError, "hold lookup failed")
	}

	payloads := make([]segmentHoldsPayload, 0, len(listings))
	for _, listing := range listings {
		holds := make([]holdPayload, 0, len(listing.Holds))
		for _, hold := range listing.Holds {
			holds = append(holds, holdPayload{ID: hold.ID, Tag: hold.Tag, Attr: hold.Attr})
		}
		payloads = append(payloads, segmentHoldsPayload{Filename: listing.Filename, Holds: holds})
	}
	return c.JSON(payloads)
}

// requireEditor resolves the identity to a privileged account. Hold editing
// changes the physical wall layout, so regular accounts are locked out.
func requireEditor(c *fiber.Ctx) (Identity, bool) {
	identity, ok := requireUser(c)
	if !ok {
		return identity, false
	}
	return identity, identity.User.Status >= models.StatusPrivileged
}

func (handler *Handler) GetHold(c *fiber.Ctx) error {
	if _, ok := requireEditor(c); !ok {
		return forbidden(c)
	}
	holdID, err := uintParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid hold id")
	}

	hold, err := handler.wallService.Hold(holdID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return apiError(c, fiber.StatusNotFound, "unknown hold")
		}
		return apiError(c, fiber.StatusInternalServerError, "hold lookup failed")
	}
	return c.JSON(holdPayload{ID: hold.ID, Tag: hold.Tag, Attr: hold.Attr})
}

type holdCreateInput struct {
	Filename string `json:"filename"`
	Tag      string `json:"tag"`
	Attr     string `json:"attr"`
}

func (handler *Handler) CreateHold(c *fiber.Ctx) error {
	if _, ok := requireEditor(c); !ok {
		return forbidden(c)
	}

	var input holdCreateInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	hold, err := handler.wallService.CreateHold(input.Filename, input.Tag, input.Attr)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidHoldTag):
			return apiError(c, fiber.StatusBadRequest, "unknown hold tag")
		case errors.Is(err, services.ErrInvalidInput):
			return apiError(c, fiber.StatusBadRequest, "unknown segment image")
		}
		return apiError(c, fiber.StatusInternalServerError, "hold creation failed")
	}
	return c.JSON(holdPayload{ID: hold.ID, Tag: hold.Tag, Attr: hold.Attr})
}

type holdUpdateInput struct {
	Tag  string `json:"tag"`
	Attr string `json:"attr"`
}

func (handler *Handler) UpdateHold(c *fiber.Ctx) error {
	if _, ok := requireEditor(c); !ok {
		return forbidden(c)
	}
	holdID, err := uintParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid hold id")
	}

	var input holdUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := handler.wallService.UpdateHold(holdID, input.Tag, input.Attr); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return apiError(c, fiber.StatusNotFound, "unknown hold")
		case errors.Is(err, services.ErrInvalidHoldTag):
			return apiError(c, fiber.StatusBadRequest, "unknown hold tag")
		}
		return apiError(c, fiber.StatusInternalServerError, "hold update failed")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) DeleteHold(c *fiber.Ctx) error {
	if _, ok := requireEditor(c); !ok {
		return forbidden(c)
	}
	holdID, err := uintParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid hold id")
	}

	if err := handler.wallService.DeleteHold(holdID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return apiError(c, fiber.StatusNotFound, "unknown hold")
		}
		return apiError(c, fiber.StatusInternalServerError, "hold deletion failed")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
