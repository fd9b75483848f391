package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"resume-screener/internal/models"
	"resume-screener/internal/services"
)

type ProcessHandler struct {
	screener    services.ScreenerService
	extractor   services.ExtractorService
	maxFileSize int64
}

func NewProcessHandler(
	screener services.ScreenerService,
	extractor services.ExtractorService,
	maxFileSize int64,
) *ProcessHandler {
	return &ProcessHandler{
		screener:    screener,
		extractor:   extractor,
		maxFileSize: maxFileSize,
	}
}

// HandleProcess handles POST /api/v1/process
func (h *ProcessHandler) HandleProcess(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	files := form.File["resumes"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No resume files uploaded. Please upload 'resumes' files.",
		})
	}

	jobDescription := c.FormValue("job_description")
	userID := c.FormValue("user_id")

	// A job description file wins over the inline field
	if jdFiles := form.File["job_description_file"]; len(jdFiles) > 0 {
		content, err := readUpload(jdFiles[0])
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to read job description file",
			})
		}
		jobDescription = h.extractor.ExtractText(
			models.NewRawDocument(jdFiles[0].Filename, content))
	}

	docs := make([]models.RawDocument, 0, len(files))
	for _, file := range files {
		if file.Size > h.maxFileSize {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("File %s too large. Max size: %d bytes", file.Filename, h.maxFileSize),
			})
		}
		content, err := readUpload(file)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to read file %s", file.Filename),
			})
		}
		docs = append(docs, models.NewRawDocument(file.Filename, content))
	}

	result, err := h.screener.ProcessBatch(c.UserContext(), docs, jobDescription, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoJobDescription):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "job_description is required",
			})
		case errors.Is(err, services.ErrInsufficientTokens):
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
				"error": "Insufficient tokens. Please purchase more tokens to continue.",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to process resumes",
			})
		}
	}

	return c.JSON(result)
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
