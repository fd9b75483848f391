package handlers

import (
	"github.com/gofiber/fiber/v2"

	"resume-screener/internal/models"
	"resume-screener/internal/services"
)

type EmailHandler struct {
	notify services.NotifyService
}

func NewEmailHandler(notify services.NotifyService) *EmailHandler {
	return &EmailHandler{notify: notify}
}

// HandleGenerate handles POST /emails/generate
func (h *EmailHandler) HandleGenerate(c *fiber.Ctx) error {
	var req models.EmailGenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	category, err := models.ParseCategory(req.Category)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid category. Must be selected, considered, or rejected.",
		})
	}

	jobCtx := h.notify.ExtractJobContext(c.UserContext(), req.JobDescription)
	content := h.notify.Compose(c.UserContext(), req.Candidate, jobCtx, category)

	return c.JSON(models.EmailGenerateResponse{EmailContent: content})
}

// HandleSend handles POST /emails/send
func (h *EmailHandler) HandleSend(c *fiber.Ctx) error {
	var req models.EmailSendRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	category, err := models.ParseCategory(req.Category)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid category. Must be selected, considered, or rejected.",
		})
	}

	if len(req.Resumes) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No candidates provided",
		})
	}

	report, err := h.notify.SendBatch(c.UserContext(), req.Resumes, req.JobDescription, category)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to send emails",
		})
	}

	return c.JSON(fiber.Map{
		"message":    "Email batch processed",
		"sent_count": report.SentCount,
		"failed":     report.Failed,
	})
}
