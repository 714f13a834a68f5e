package controllers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ryvynn-app/ryvynn/app/repository"
	"github.com/ryvynn-app/ryvynn/internal/pkg/billing"
	"github.com/ryvynn-app/ryvynn/internal/pkg/entitlements"
	"github.com/ryvynn-app/ryvynn/internal/pkg/env"
	"github.com/ryvynn-app/ryvynn/internal/pkg/metrics"
	"github.com/ryvynn-app/ryvynn/internal/pkg/tiers"
	"github.com/ryvynn-app/ryvynn/internal/pkg/usercontext"
)

// HandleListTiers returns the active tier matrix. Public so the pricing
// page can render without a session.
func HandleListTiers(c *fiber.Ctx) error {
	matrix := entitlements.ActiveMatrix()
	return c.JSON(fiber.Map{
		"version": matrix.Version(),
		"tiers":   matrix.All(),
	})
}

type checkoutRequest struct {
	Tier       string `json:"tier"`
	Cadence    string `json:"cadence"`
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`
}

// HandleCreateCheckout starts a hosted checkout for a paid tier and
// returns the payment URL.
func HandleCreateCheckout(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_request",
			"message": "Request body could not be parsed",
		})
	}

	tierID, ok := parseTierName(req.Tier)
	if !ok || tierID == tiers.TierFree {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "invalid_tier",
			"message": "Unknown or non-purchasable tier",
		})
	}

	cadence := billing.Cadence(strings.ToLower(strings.TrimSpace(req.Cadence)))
	if cadence == "" {
		cadence = billing.CadenceMonthly
	}
	if cadence != billing.CadenceMonthly && cadence != billing.CadenceAnnual {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "invalid_cadence",
			"message": "Cadence must be monthly or annual",
		})
	}

	baseURL := env.GetEnv("PUBLIC_URL", "http://localhost:8080")
	successURL := req.SuccessURL
	if successURL == "" {
		successURL = baseURL + "/billing/success"
	}
	cancelURL := req.CancelURL
	if cancelURL == "" {
		cancelURL = baseURL + "/billing/cancel"
	}

	user, err := repository.GetGlobalRepositories().User.GetByID(userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Could not load user",
		})
	}

	url, err := newBillingService().CreateCheckoutSession(user, tierID, cadence, successURL, cancelURL)
	if err != nil {
		if errors.Is(err, billing.ErrUnknownPrice) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":   "price_not_configured",
				"message": "No price is configured for this tier and cadence",
			})
		}
		log.Printf("[Billing] checkout session failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   "checkout_failed",
			"message": "Checkout could not be started",
		})
	}

	return c.JSON(fiber.Map{"checkout_url": url})
}

// HandleGetSubscription returns the caller's entitling subscriptions and
// resolved entitlement snapshot.
func HandleGetSubscription(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	snap, err := entitlements.NewDefault().GetForUser(userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Could not resolve entitlements",
		})
	}

	subs, err := repository.GetGlobalRepositories().Subscription.GetEntitlingByUserID(userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Could not load subscriptions",
		})
	}

	list := make([]fiber.Map, 0, len(subs))
	for _, sub := range subs {
		list = append(list, fiber.Map{
			"tier":                 sub.Tier,
			"status":               sub.Status,
			"cancel_at_period_end": sub.CancelAtPeriodEnd,
			"current_period_end":   formatTimePtr(sub.CurrentPeriodEnd),
		})
	}

	return c.JSON(fiber.Map{
		"tier":                 int(snap.Tier),
		"tier_version":         snap.TierVersion,
		"limits":               snap.Limits,
		"soul_token_earn_rate": snap.SoulTokenEarnRate,
		"features":             snap.Features,
		"subscriptions":        list,
	})
}

// HandleStripeWebhook verifies and applies one provider delivery. Any
// error after signature verification returns a non-2xx status without a
// ledger row, so the provider redelivers.
func HandleStripeWebhook(c *fiber.Ctx) error {
	secret := env.GetEnv("STRIPE_WEBHOOK_SECRET", "")
	signature := c.Get("Stripe-Signature")

	event, err := billing.ParseEvent(c.Body(), signature, secret)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("unknown", "rejected").Inc()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_signature",
			"message": "Webhook signature verification failed",
		})
	}

	outcome, err := newBillingService().Apply(event)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues(event.Type, "error").Inc()
		log.Printf("[Billing] webhook %s (%s) failed: %v", event.ID, event.Type, err)
		// structural failures keep retrying until a price mapping or a
		// customer backfill lands
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "apply_failed",
			"message": "Event could not be applied",
		})
	}

	result := "applied"
	switch {
	case outcome.Duplicate:
		result = "duplicate"
	case outcome.Ignored:
		result = "ignored"
	}
	metrics.WebhookEvents.WithLabelValues(event.Type, result).Inc()

	return c.JSON(fiber.Map{"received": true, "result": result})
}

// parseTierName maps a tier name or numeric id from the request to a
// matrix entry.
func parseTierName(raw string) (tiers.TierID, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return 0, false
	}
	for _, def := range entitlements.ActiveMatrix().All() {
		if strings.ToLower(def.Name) == name {
			return def.ID, true
		}
	}
	// numeric form used by the mobile client
	if len(name) == 1 && name[0] >= '0' && name[0] <= '5' {
		id := tiers.TierID(name[0] - '0')
		if _, err := entitlements.ActiveMatrix().Resolve(id); err == nil {
			return id, true
		}
	}
	return 0, false
}
