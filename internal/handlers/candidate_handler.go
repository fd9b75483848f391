package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"resume-screener/internal/models"
	"resume-screener/internal/repositories"
	"resume-screener/internal/services"
)

type CandidateHandler struct {
	candidates repositories.CandidateRepository
	index      services.CandidateIndex
}

func NewCandidateHandler(candidates repositories.CandidateRepository, index services.CandidateIndex) *CandidateHandler {
	return &CandidateHandler{
		candidates: candidates,
		index:      index,
	}
}

// HandleList handles GET /candidates
func (h *CandidateHandler) HandleList(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id is required",
		})
	}

	limit := c.QueryInt("limit", 50)
	records, err := h.candidates.FindByOwner(c.UserContext(), userID, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch candidates",
		})
	}

	return c.JSON(fiber.Map{
		"candidates": records,
		"count":      len(records),
	})
}

// HandleStats handles GET /candidates/stats
func (h *CandidateHandler) HandleStats(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id is required",
		})
	}

	stats, err := h.candidates.Stats(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch candidate stats",
		})
	}
	return c.JSON(stats)
}

// HandleSearch handles GET /candidates/search
func (h *CandidateHandler) HandleSearch(c *fiber.Ctx) error {
	if h.index == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Candidate search is not configured",
		})
	}

	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "q is required",
		})
	}

	userID := c.Query("user_id")
	limit := c.QueryInt("limit", 10)

	matches, err := h.index.Search(c.UserContext(), userID, query, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to search candidates",
		})
	}

	return c.JSON(fiber.Map{
		"matches": matches,
		"count":   len(matches),
	})
}

// HandleUpdateCategory handles PUT /candidates/:id/category
func (h *CandidateHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate ID format",
		})
	}

	var req struct {
		Category string `json:"category"`
	}
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

	if err := h.candidates.UpdateCategory(c.UserContext(), id, category); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update candidate category",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Category updated",
		"id":       id.String(),
		"category": string(category),
	})
}
