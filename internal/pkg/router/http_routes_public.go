package router

import (
	"time"

	"github.com/ryvynn-app/ryvynn/app/controllers"
	"github.com/ryvynn-app/ryvynn/internal/pkg/metrics"
	"github.com/ryvynn-app/ryvynn/internal/pkg/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Credential endpoints get a tighter rate limit than the rest of
	// the surface.
	authLimiter := limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Minute,
	})

	// Webhook limit state is shared across instances via redis; a
	// flood must not fill one instance's memory either.
	webhookLimiter := limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		Storage:    session.NewLimiterStorage(),
	})

	app.Post("/register", authLimiter, controllers.HandleRegister)
	app.Post("/login", authLimiter, controllers.HandleLogin)
	app.Post("/logout", controllers.HandleLogout)
	app.Get("/activate", controllers.HandleActivate)

	// The feed and the tier matrix are readable without an account
	app.Get("/truths", controllers.HandleTruthFeed)
	app.Get("/tiers", controllers.HandleListTiers)

	// Provider webhooks authenticate by signature, not by session
	app.Post("/webhooks/stripe", webhookLimiter, controllers.HandleStripeWebhook)

	app.Get("/metrics", metrics.Handler())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
