package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hireflow/internal/models"
	"hireflow/internal/services"
)

type AnalyzeHandler struct {
	analyzer services.ResumeAnalyzerService
}

func NewAnalyzeHandler(analyzer services.ResumeAnalyzerService) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer}
}

// HandleAnalyze handles POST /analyze-resume. Scoring runs synchronously; the
// response carries the full analysis plus the eligibility gate outcome.
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req models.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.ApplicationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "application_id is required",
		})
	}

	appID, err := uuid.Parse(req.ApplicationID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid application_id format",
		})
	}

	analysis, err := h.analyzer.AnalyzeApplication(c.Context(), appID)
	if err != nil {
		return err
	}

	return c.JSON(models.AnalyzeResponse{
		ResumeText:    analysis.ExtractedText,
		MatchAnalysis: analysis,
		Eligible:      services.Admit(analysis.MatchScore),
	})
}
