package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/ryvynn-app/ryvynn/app/models"
	"github.com/ryvynn-app/ryvynn/app/repository"
	"github.com/ryvynn-app/ryvynn/internal/pkg/database"
	"github.com/ryvynn-app/ryvynn/internal/pkg/entitlements"
	"github.com/ryvynn-app/ryvynn/internal/pkg/tiers"
	"github.com/ryvynn-app/ryvynn/internal/pkg/usage"
	"github.com/ryvynn-app/ryvynn/internal/pkg/usercontext"
)

// HandleGetAccount returns the caller's profile, resolved entitlements,
// today's usage and the soul token balance in one payload.
func HandleGetAccount(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	repos := repository.GetGlobalRepositories()

	user, err := repos.User.GetByID(userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Could not load user",
		})
	}

	snap, err := entitlements.NewDefault().GetForUser(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Could not resolve entitlements",
		})
	}

	meter := newMeter()
	peek := func(kind tiers.CounterKind) fiber.Map {
		limit, err := snap.Limits.For(kind)
		if err != nil {
			return nil
		}
		d, err := meter.Peek(user.ID, kind, limit)
		if err != nil {
			d = usage.Decision{Kind: kind, Limit: limit}
		}
		return fiber.Map{"current": d.Current, "limit": d.Limit, "remaining": d.Remaining()}
	}

	account, err := repos.SoulToken.GetOrCreate(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Could not load token balance",
		})
	}

	settings, err := models.GetOrCreateUserSettings(database.GetDB(), user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Could not load settings",
		})
	}

	return c.JSON(fiber.Map{
		"user": fiber.Map{
			"id":            user.ID,
			"name":          user.Name,
			"email":         user.Email,
			"created_at":    user.CreatedAt,
			"last_login_at": formatTimePtr(user.LastLoginAt),
		},
		"entitlements": fiber.Map{
			"tier":                 int(snap.Tier),
			"tier_version":         snap.TierVersion,
			"limits":               snap.Limits,
			"features":             snap.Features,
			"soul_token_earn_rate": snap.SoulTokenEarnRate,
		},
		"usage": fiber.Map{
			"flame_calls": peek(tiers.CounterFlameCalls),
			"truth_posts": peek(tiers.CounterTruthPosts),
			"truth_reads": peek(tiers.CounterTruthReads),
			"api_calls":   peek(tiers.CounterAPICalls),
		},
		"soul_tokens": fiber.Map{
			"balance":             account.CurrentBalance,
			"total_earned":        account.TotalEarned,
			"earned_from_reading": account.EarnedFromReading,
			"earned_from_sharing": account.EarnedFromSharing,
		},
		"settings": settings,
	})
}

type settingsRequest struct {
	AvatarName *string `json:"avatar_name"`
	Persona    *string `json:"persona"`
	AgeTier    *string `json:"age_tier"`
	Warmth     *int    `json:"personality_warmth"`
	Directness *int    `json:"personality_directness"`
	Humor      *int    `json:"personality_humor"`
	Formality  *int    `json:"personality_formality"`
}

var validPersonas = map[string]bool{"gentle": true, "direct": true, "bright": true}
var validAgeTiers = map[string]bool{"youth": true, "young_adult": true, "adult": true, "mature": true}

// HandleUpdateSettings applies a partial settings update. Slider values
// are stored for every tier; they only take effect once the tier carries
// the personality_sliders feature.
func HandleUpdateSettings(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req settingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_request",
			"message": "Request body could not be parsed",
		})
	}

	settings, err := models.GetOrCreateUserSettings(database.GetDB(), userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Could not load settings",
		})
	}

	if req.Persona != nil {
		if !validPersonas[*req.Persona] {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":   "invalid_persona",
				"message": "Persona must be gentle, direct or bright",
			})
		}
		settings.Persona = *req.Persona
	}
	if req.AgeTier != nil {
		if !validAgeTiers[*req.AgeTier] {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":   "invalid_age_tier",
				"message": "Age tier must be youth, young_adult, adult or mature",
			})
		}
		settings.AgeTier = *req.AgeTier
	}
	if req.AvatarName != nil {
		settings.AvatarName = *req.AvatarName
	}
	for _, s := range []struct {
		val *int
		dst *int
	}{
		{req.Warmth, &settings.PersonalityWarmth},
		{req.Directness, &settings.PersonalityDirectness},
		{req.Humor, &settings.PersonalityHumor},
		{req.Formality, &settings.PersonalityFormality},
	} {
		if s.val == nil {
			continue
		}
		if *s.val < 0 || *s.val > 10 {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":   "invalid_slider",
				"message": "Slider values must be between 0 and 10",
			})
		}
		*s.dst = *s.val
	}

	if err := database.GetDB().Save(settings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Could not save settings",
		})
	}

	return c.JSON(fiber.Map{"settings": settings})
}

// HandleIssueAPIKey mints a new API key. The raw secret is returned
// exactly once; only its hash is stored.
func HandleIssueAPIKey(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	ok, err := entitlements.NewDefault().CheckFeature(userCtx.UserID, tiers.FeatureAPIAccess)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Could not resolve entitlements",
		})
	}
	if !ok {
		required, _ := tiers.MinimumTierFor(tiers.FeatureAPIAccess)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":         "feature_not_available",
			"message":       "API access requires a higher tier",
			"required_tier": int(required),
		})
	}

	settings, err := models.GetOrCreateUserSettings(database.GetDB(), userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Could not load settings",
		})
	}

	rawKey, err := settings.IssueAPIKey()
	if err != nil {
		log.Printf("[Account] api key generation failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Could not generate API key",
		})
	}
	if err := database.GetDB().Save(settings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Could not save API key",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"api_key":    rawKey,
		"prefix":     settings.APIKeyPrefix,
		"created_at": formatTimePtr(settings.APIKeyCreatedAt),
	})
}

// HandleRevokeAPIKey invalidates the current API key.
func HandleRevokeAPIKey(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	settings, err := models.GetOrCreateUserSettings(database.GetDB(), userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Could not load settings",
		})
	}
	if !settings.HasActiveAPIKey() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "no_api_key",
			"message": "No active API key to revoke",
		})
	}

	settings.RevokeAPIKey()
	if err := database.GetDB().Save(settings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Could not revoke API key",
		})
	}

	return c.JSON(fiber.Map{"revoked": true})
}
