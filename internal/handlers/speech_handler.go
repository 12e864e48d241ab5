package handlers

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"hireflow/internal/models"
	"hireflow/internal/services"
)

type SpeechHandler struct {
	speechService services.SpeechService
}

func NewSpeechHandler(speechService services.SpeechService) *SpeechHandler {
	return &SpeechHandler{speechService: speechService}
}

// HandleTranscribe handles POST /transcribe
func (h *SpeechHandler) HandleTranscribe(c *fiber.Ctx) error {
	file, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No audio file uploaded. Please upload 'audio'.",
		})
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open audio upload: %w", err)
	}
	defer src.Close()

	audio, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("failed to read audio upload: %w", err)
	}

	text, err := h.speechService.Transcribe(c.Context(), audio, file.Header.Get("Content-Type"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"transcript": text,
	})
}

// HandleSynthesize handles POST /synthesize. The response body is the
// raw audio; playback duration travels in a header so the client can drive
// word highlighting.
func (h *SpeechHandler) HandleSynthesize(c *fiber.Ctx) error {
	var req models.SynthesizeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	narration, err := h.speechService.Synthesize(c.Context(), req.Text)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, narration.MIMEType)
	c.Set("X-Audio-Duration-Ms", fmt.Sprintf("%d", narration.Duration.Milliseconds()))
	return c.Send(narration.Audio)
}
