package handlers

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hireflow/internal/models"
	"hireflow/internal/repositories"
	"hireflow/internal/services"
)

// Dispatch actions for the raw interview gateway.
const (
	ActionGetQuestion     = "get-question"
	ActionProvideFeedback = "provide-feedback"
	ActionEvaluate        = "evaluate"
)

// InterviewHandler exposes the generative gateway directly, one action per
// request. The session endpoints drive the same gateway with server-side
// state; this surface serves clients that keep the transcript themselves.
type InterviewHandler struct {
	interviewService services.InterviewService
	appRepo          repositories.ApplicationRepository
}

func NewInterviewHandler(
	interviewService services.InterviewService,
	appRepo repositories.ApplicationRepository,
) *InterviewHandler {
	return &InterviewHandler{
		interviewService: interviewService,
		appRepo:          appRepo,
	}
}

// HandleInterview handles POST /interview
func (h *InterviewHandler) HandleInterview(c *fiber.Ctx) error {
	var req models.InterviewRequest
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

	app, err := h.appRepo.FindByID(appID)
	if err != nil {
		return err
	}

	resumeText := ""
	if app.ResumeText != nil {
		resumeText = *app.ResumeText
	}

	switch req.Action {
	case ActionGetQuestion:
		question, err := h.interviewService.NextQuestion(c.Context(), &models.InterviewContext{
			ResumeText:     resumeText,
			JobDescription: app.Job.Description,
			JobTitle:       app.Job.Title,
			QuestionNumber: req.QuestionNumber,
			PreviousQA:     req.PreviousQA,
		})
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"question":        question,
			"question_number": req.QuestionNumber,
		})

	case ActionProvideFeedback:
		if req.CurrentQuestion == "" || req.Answer == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "current_question and answer are required",
			})
		}
		feedback, err := h.interviewService.Feedback(c.Context(), &models.FeedbackContext{
			Question:       req.CurrentQuestion,
			Answer:         req.Answer,
			ResumeText:     resumeText,
			JobDescription: app.Job.Description,
			QuestionNumber: req.QuestionNumber,
		})
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"feedback": feedback,
		})

	case ActionEvaluate:
		evaluation, err := h.interviewService.Evaluate(c.Context(), &models.EvaluationContext{
			ResumeText:     resumeText,
			JobDescription: app.Job.Description,
			JobTitle:       app.Job.Title,
			AllQA:          req.AllQA,
		})
		if err != nil {
			return err
		}

		resultJSON, err := json.Marshal(evaluation)
		if err == nil {
			shortlisted := evaluation.Decision == models.DecisionSelected
			if err := h.appRepo.UpdateInterviewResult(appID, string(resultJSON), shortlisted); err != nil {
				log.Printf("⚠️  Failed to persist interview result for %s: %v\n", appID, err)
			}
		}

		return c.JSON(evaluation)

	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown action. Expected one of: get-question, provide-feedback, evaluate",
		})
	}
}
