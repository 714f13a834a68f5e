package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ryvynn-app/ryvynn/app/models"
	"github.com/ryvynn-app/ryvynn/internal/pkg/database"
	"github.com/ryvynn-app/ryvynn/internal/pkg/entitlements"
	"github.com/ryvynn-app/ryvynn/internal/pkg/flame"
	"github.com/ryvynn-app/ryvynn/internal/pkg/metrics"
	"github.com/ryvynn-app/ryvynn/internal/pkg/usercontext"
)

type flameRequest struct {
	Message string `json:"message"`
}

// HandleFlameMessage runs one companion exchange. The message itself is
// never persisted or logged; only structural outcomes are.
func HandleFlameMessage(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req flameRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid JSON body"})
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Message is required"})
	}

	ents := entitlements.NewDefault()
	snap, err := ents.GetForUser(userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Entitlement lookup failed"})
	}

	settings, err := models.GetOrCreateUserSettings(database.GetDB(), userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load settings"})
	}

	result, err := newFlameService().Respond(userCtx.UserID, message, flame.ProfileForUser(settings, snap))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Companion unavailable"})
	}
	if !result.Allowed {
		return limitReached(c, result.Decision)
	}

	level := "none"
	if result.IsCrisis {
		level = string(result.CrisisLevel)
	}
	metrics.FlameCalls.WithLabelValues(level).Inc()

	return c.JSON(fiber.Map{
		"message":      result.Message,
		"is_crisis":    result.IsCrisis,
		"crisis_level": result.CrisisLevel,
		"emotion":      result.Emotion,
		"usage": fiber.Map{
			"current":   result.Decision.Current,
			"limit":     result.Decision.Limit,
			"remaining": result.Decision.Remaining(),
		},
	})
}
