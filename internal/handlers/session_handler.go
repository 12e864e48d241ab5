package handlers

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hireflow/internal/models"
	"hireflow/internal/services"
)

// SessionHandler exposes the server-side interview session: one live state
// machine per application, addressed by the application id.
type SessionHandler struct {
	sessions      *services.SessionManager
	speechService services.SpeechService
}

func NewSessionHandler(sessions *services.SessionManager, speechService services.SpeechService) *SessionHandler {
	return &SessionHandler{
		sessions:      sessions,
		speechService: speechService,
	}
}

// HandleStart handles POST /interview/sessions
func (h *SessionHandler) HandleStart(c *fiber.Ctx) error {
	var req models.StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	appID, err := uuid.Parse(req.ApplicationID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid application_id format",
		})
	}

	session, err := h.sessions.Start(c.Context(), appID)
	if err != nil && session == nil {
		return err
	}
	if err != nil {
		// Session exists but the first question fetch failed; the client
		// may retry against the same session.
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   "Failed to fetch the first question",
			"session": session.Snapshot(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(session.Snapshot())
}

// HandleGet handles GET /interview/sessions/:id
func (h *SessionHandler) HandleGet(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return err
	}
	return c.JSON(session.Snapshot())
}

// HandleAnswer handles POST /interview/sessions/:id/answer. A direct edit
// replaces the whole buffer.
func (h *SessionHandler) HandleAnswer(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return err
	}

	var req models.AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := session.EditAnswer(req.Answer); err != nil {
		return err
	}
	return c.JSON(session.Snapshot())
}

// HandleTranscript handles POST /interview/sessions/:id/transcript. Audio in
// the "audio" field is transcribed server-side; a JSON body with "text"
// carries a transcript produced on the client. Either way exactly one
// append lands in the answer buffer.
func (h *SessionHandler) HandleTranscript(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return err
	}

	text, err := h.transcriptText(c)
	if err != nil {
		return err
	}

	if err := session.AppendTranscript(text); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"transcript": text,
		"session":    session.Snapshot(),
	})
}

// HandleSubmit handles POST /interview/sessions/:id/submit
func (h *SessionHandler) HandleSubmit(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return err
	}

	if err := session.Submit(c.Context()); err != nil {
		return err
	}
	return c.JSON(session.Snapshot())
}

// HandleRetry handles POST /interview/sessions/:id/retry
func (h *SessionHandler) HandleRetry(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return err
	}

	if err := session.Retry(c.Context()); err != nil {
		return err
	}
	return c.JSON(session.Snapshot())
}

// HandleStopNarration handles POST /interview/sessions/:id/narration/stop
func (h *SessionHandler) HandleStopNarration(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return err
	}

	session.StopNarration()
	return c.JSON(session.Snapshot())
}

// HandleNarration handles GET /interview/sessions/:id/narration, serving
// the latest synthesized audio.
func (h *SessionHandler) HandleNarration(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return err
	}

	narration := session.CurrentNarration()
	if narration == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No narration available",
		})
	}

	c.Set(fiber.HeaderContentType, narration.MIMEType)
	c.Set("X-Audio-Duration-Ms", fmt.Sprintf("%d", narration.Duration.Milliseconds()))
	return c.Send(narration.Audio)
}

// HandleClose handles DELETE /interview/sessions/:id. An abandoned session
// persists nothing.
func (h *SessionHandler) HandleClose(c *fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session id",
		})
	}

	if err := h.sessions.Close(appID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Session closed",
	})
}

func (h *SessionHandler) session(c *fiber.Ctx) (*services.InterviewSession, error) {
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}
	return h.sessions.Get(appID)
}

func (h *SessionHandler) transcriptText(c *fiber.Ctx) (string, error) {
	file, err := c.FormFile("audio")
	if err != nil {
		// No audio part: fall back to a client-side transcript.
		var req models.TranscriptRequest
		if err := c.BodyParser(&req); err != nil || req.Text == "" {
			return "", fiber.NewError(fiber.StatusBadRequest, "Expected an 'audio' file or a 'text' field")
		}
		return req.Text, nil
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open audio upload: %w", err)
	}
	defer src.Close()

	audio, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("failed to read audio upload: %w", err)
	}

	return h.speechService.Transcribe(c.Context(), audio, file.Header.Get("Content-Type"))
}
