package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/greifwand/systemboard/internal/services"
)

// SearchBoulders answers GET /search. All query parameters are optional;
// the unclimbed filter only applies to authenticated callers.
func (handler *Handler) SearchBoulders(c *fiber.Ctx) error {
	identity := currentIdentity(c)
	if identity.Role == RoleLogin {
		return forbidden(c)
	}

	query := services.SearchQuery{
		Name:           c.Query("name"),
		CreatorName:    c.Query("creator"),
		CreatorID:      uintQuery(c, "creatorid"),
		MinGrade:       floatQuery(c, "mingrade"),
		MaxGrade:       floatQuery(c, "maxgrade"),
		MinRating:      floatQuery(c, "minrating"),
		MaxRating:      floatQuery(c, "maxrating"),
		ExcludeClimbed: boolQuery(c, "unclimbed"),
	}

	summaries, err := handler.boulderService.Search(query, identity.User)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "search failed")
	}

	results := make([]boulderPayload, 0, len(summaries))
	for _, summary := range summaries {
		results = append(results, toBoulderPayload(summary))
	}
	return c.JSON(results)
}
