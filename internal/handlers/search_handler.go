package handlers

import (
	"github.com/gofiber/fiber/v2"

	"hireflow/internal/models"
	"hireflow/internal/services"
)

type SearchHandler struct {
	searchService services.CandidateSearchService
}

func NewSearchHandler(searchService services.CandidateSearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// HandleSearch handles GET /admin/candidates/search
func (h *SearchHandler) HandleSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "q is required",
		})
	}

	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 50 {
		limit = 10
	}

	matches, err := h.searchService.Search(c.Context(), query, limit)
	if err != nil {
		return err
	}

	results := make([]models.CandidateSearchResponse, 0, len(matches))
	for _, m := range matches {
		results = append(results, models.CandidateSearchResponse{
			ApplicationID: m.ApplicationID,
			Name:          m.Name,
			Score:         m.Score,
			Excerpt:       m.Excerpt,
		})
	}

	return c.JSON(fiber.Map{
		"results": results,
	})
}
