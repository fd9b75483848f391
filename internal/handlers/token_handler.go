package handlers

import (
	"github.com/gofiber/fiber/v2"

	"resume-screener/internal/models"
	"resume-screener/internal/services"
)

// tokenPackages maps purchasable package names to token amounts.
var tokenPackages = map[string]int{
	"standard": 100,
}

type TokenHandler struct {
	ledger services.UsageLedger
}

func NewTokenHandler(ledger services.UsageLedger) *TokenHandler {
	return &TokenHandler{ledger: ledger}
}

// HandleGetBalance handles GET /tokens/:user_id
func (h *TokenHandler) HandleGetBalance(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id is required",
		})
	}

	balance, err := h.ledger.GetBalance(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch token balance",
		})
	}
	return c.JSON(balance)
}

// HandleInitialize handles POST /tokens/:user_id/initialize
func (h *TokenHandler) HandleInitialize(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id is required",
		})
	}

	if err := h.ledger.EnsureInitialized(c.UserContext(), userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to initialize token balance",
		})
	}

	balance, err := h.ledger.GetBalance(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch token balance",
		})
	}
	return c.JSON(balance)
}

// HandlePurchase handles POST /tokens/:user_id/purchase
func (h *TokenHandler) HandlePurchase(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id is required",
		})
	}

	var req models.TokenPurchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	amount, ok := tokenPackages[req.Package]
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid token package",
		})
	}

	balance, err := h.ledger.Credit(c.UserContext(), userID, amount)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to credit tokens",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Tokens purchased successfully",
		"balance": balance,
	})
}
