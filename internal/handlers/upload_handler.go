package handlers

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"hireflow/internal/models"
	"hireflow/internal/services"
)

type UploadHandler struct {
	storageService services.StorageService
	pdfParser      services.PDFParserService
	maxFileSize    int64
}

func NewUploadHandler(
	storageService services.StorageService,
	pdfParser services.PDFParserService,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		storageService: storageService,
		pdfParser:      pdfParser,
		maxFileSize:    maxFileSize,
	}
}

// HandleUpload handles POST /upload/resume. The file must arrive in the "resume"
// field and be a readable PDF; anything else is rejected and cleaned up.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No resume file uploaded. Please upload 'resume' as a PDF file.",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	filename, resumeURL, err := h.storageService.SaveResume(file)
	if err != nil {
		return err
	}

	path, err := h.storageService.ResumePath(filename)
	if err != nil {
		return err
	}

	if err := h.pdfParser.Validate(path); err != nil {
		// Never keep an unreadable upload around
		if delErr := h.storageService.DeleteResume(filename); delErr != nil {
			log.Printf("⚠️  Failed to delete invalid resume %s: %v\n", filename, delErr)
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Uploaded file is not a valid PDF",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(models.UploadResponse{
		Filename:     filename,
		OriginalName: file.Filename,
		ResumeURL:    resumeURL,
	})
}

// HandleDownload handles GET /resumes/:filename
func (h *UploadHandler) HandleDownload(c *fiber.Ctx) error {
	path, err := h.storageService.ResumePath(c.Params("filename"))
	if err != nil {
		return err
	}

	return c.SendFile(path)
}
