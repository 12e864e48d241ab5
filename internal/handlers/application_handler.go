package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hireflow/internal/models"
	"hireflow/internal/repositories"
)

type ApplicationHandler struct {
	appRepo repositories.ApplicationRepository
	jobRepo repositories.JobRepository
}

func NewApplicationHandler(
	appRepo repositories.ApplicationRepository,
	jobRepo repositories.JobRepository,
) *ApplicationHandler {
	return &ApplicationHandler{
		appRepo: appRepo,
		jobRepo: jobRepo,
	}
}

// HandleCreate handles POST /applications. Every field is required; the
// resume must already be uploaded.
func (h *ApplicationHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name is required",
		})
	}
	if req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "email is required",
		})
	}
	if req.Phone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "phone is required",
		})
	}
	if req.CurrentCTC == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "current_ctc is required",
		})
	}
	if req.ExpectedCTC == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "expected_ctc is required",
		})
	}
	if req.ResumeURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume_url is required",
		})
	}

	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job_id format",
		})
	}

	if _, err := h.jobRepo.FindByID(jobID); err != nil {
		return err
	}

	app := &models.Application{
		ID:              uuid.New(),
		JobID:           jobID,
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		CurrentCTC:      req.CurrentCTC,
		ExpectedCTC:     req.ExpectedCTC,
		ResumeURL:       req.ResumeURL,
		InterviewStatus: models.InterviewStatusNone,
	}

	if err := h.appRepo.Create(app); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(app)
}

// HandleGet handles GET /applications/:id
func (h *ApplicationHandler) HandleGet(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid application id",
		})
	}

	app, err := h.appRepo.FindByID(id)
	if err != nil {
		return err
	}

	return c.JSON(app)
}

// HandleList handles GET /admin/applications, optionally filtered by job.
func (h *ApplicationHandler) HandleList(c *fiber.Ctx) error {
	var jobID *uuid.UUID
	if raw := c.Query("job_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid job_id format",
			})
		}
		jobID = &parsed
	}

	apps, err := h.appRepo.FindAll(jobID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"applications": apps,
	})
}

// HandleShortlist handles PATCH /admin/applications/:id
func (h *ApplicationHandler) HandleShortlist(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid application id",
		})
	}

	var req models.ShortlistRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}
	if req.Shortlisted == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "shortlisted is required",
		})
	}

	app, err := h.appRepo.UpdateShortlist(id, *req.Shortlisted)
	if err != nil {
		return err
	}

	return c.JSON(app)
}
