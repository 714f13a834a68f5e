package middleware

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ryvynn-app/ryvynn/app/models"
	"github.com/ryvynn-app/ryvynn/app/repository"
	"github.com/ryvynn-app/ryvynn/internal/pkg/database"
	"github.com/ryvynn-app/ryvynn/internal/pkg/entitlements"
	"github.com/ryvynn-app/ryvynn/internal/pkg/metrics"
	"github.com/ryvynn-app/ryvynn/internal/pkg/tiers"
	"github.com/ryvynn-app/ryvynn/internal/pkg/usage"
	"github.com/ryvynn-app/ryvynn/internal/pkg/usercontext"
)

// APIKeyAuthMiddleware authenticates requests carrying a user API key,
// gates them on the api_access feature and meters api_calls. Each
// accepted request consumes one call from the daily quota.
func APIKeyAuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		apiKey := extractAPIKeyFromHeader(c)
		if apiKey == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing API key"})
		}

		db := database.GetDB()
		if db == nil {
			log.Print("api key middleware: database unavailable")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Database unavailable"})
		}

		hash := models.HashAPIKey(apiKey)
		repo := repository.GetGlobalFactory().GetUserRepository()
		user, settings, err := repo.GetByAPIKeyHash(hash)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid API key"})
			}
			log.Printf("api key lookup failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "API key verification failed"})
		}

		ents := entitlements.NewDefault()
		snap, err := ents.GetForUser(user.ID)
		if err != nil {
			log.Printf("entitlement lookup failed for user %d: %v", user.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Entitlement lookup failed"})
		}
		if !snap.HasFeature(tiers.FeatureAPIAccess) {
			required, _ := tiers.MinimumTierFor(tiers.FeatureAPIAccess)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":         "feature_not_available",
				"message":       "API access requires a higher tier",
				"required_tier": int(required),
			})
		}

		meter := usage.NewMeter(repository.GetGlobalFactory().GetUsageRepository())
		decision, err := meter.CheckAndIncrement(user.ID, tiers.CounterAPICalls, snap.Limits.APICallsPerDay)
		if err != nil {
			log.Printf("api call metering failed for user %d: %v", user.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Usage metering failed"})
		}
		if !decision.Allowed {
			metrics.UsageDenials.WithLabelValues(string(tiers.CounterAPICalls)).Inc()
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":   "limit_reached",
				"kind":    decision.Kind,
				"current": decision.Current,
				"limit":   decision.Limit,
			})
		}

		// Refresh last-used timestamp best-effort.
		now := time.Now()
		if err := db.Model(&models.UserSettings{}).
			Where("id = ?", settings.ID).
			Updates(map[string]any{"api_key_last_used_at": now}).Error; err != nil {
			log.Printf("failed to update api key usage timestamp for user %d: %v", user.ID, err)
		}

		usercontext.SetUserContext(c, usercontext.UserContext{
			UserID:     user.ID,
			Username:   user.Name,
			IsLoggedIn: true,
			IsAdmin:    user.Role == models.ROLE_ADMIN,
			Tier:       int(snap.Tier),
		})

		return c.Next()
	}
}

func extractAPIKeyFromHeader(c *fiber.Ctx) string {
	apiKey := strings.TrimSpace(c.Get("X-API-Key"))
	if apiKey != "" {
		return apiKey
	}
	auth := strings.TrimSpace(c.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
