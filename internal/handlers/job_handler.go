package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hireflow/internal/models"
	"hireflow/internal/repositories"
)

type JobHandler struct {
	jobRepo repositories.JobRepository
}

func NewJobHandler(jobRepo repositories.JobRepository) *JobHandler {
	return &JobHandler{jobRepo: jobRepo}
}

// HandleCreate handles POST /admin/jobs
func (h *JobHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "title is required",
		})
	}
	if req.Description == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "description is required",
		})
	}

	jobType := models.JobType(req.Type)
	if !jobType.IsValid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "type must be one of: Full-time, Part-time, Contract, Internship",
		})
	}

	job := &models.Job{
		ID:           uuid.New(),
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		Location:     req.Location,
		Type:         jobType,
		SalaryRange:  req.SalaryRange,
	}

	if err := h.jobRepo.Create(job); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(job)
}

// HandleList handles GET /jobs
func (h *JobHandler) HandleList(c *fiber.Ctx) error {
	jobs, err := h.jobRepo.FindAll()
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"jobs": jobs,
	})
}

// HandleGet handles GET /jobs/:id
func (h *JobHandler) HandleGet(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job id",
		})
	}

	job, err := h.jobRepo.FindByID(id)
	if err != nil {
		return err
	}

	return c.JSON(job)
}

// HandleDelete handles DELETE /admin/jobs/:id. Applications for the job go
// with it.
func (h *JobHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job id",
		})
	}

	if err := h.jobRepo.Delete(id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Job deleted",
	})
}
