package router

import (
	"github.com/ryvynn-app/ryvynn/app/controllers"
	"github.com/ryvynn-app/ryvynn/internal/pkg/middleware"

	"github.com/gofiber/fiber/v2"
)

func (h HttpRouter) registerUserRoutes(app *fiber.App) {
	user := app.Group("/user", middleware.RequireAuth)

	// Companion
	user.Post("/flame/message", controllers.HandleFlameMessage)

	// Truth feed writes and rewarded reads
	user.Post("/truths", controllers.HandleCreateTruth)
	user.Post("/truths/:uuid/read", controllers.HandleReadTruth)

	// Encrypted journal
	user.Post("/journal", controllers.HandleCreateJournalEntry)
	user.Get("/journal", controllers.HandleListJournalEntries)
	user.Get("/journal/:uuid", controllers.HandleGetJournalEntry)
	user.Put("/journal/:uuid", controllers.HandleUpdateJournalEntry)
	user.Delete("/journal/:uuid", controllers.HandleDeleteJournalEntry)

	// Account, settings, API keys
	user.Get("/account", controllers.HandleGetAccount)
	user.Patch("/settings", controllers.HandleUpdateSettings)
	user.Post("/api-key", controllers.HandleIssueAPIKey)
	user.Delete("/api-key", controllers.HandleRevokeAPIKey)

	// Billing
	user.Post("/billing/checkout", controllers.HandleCreateCheckout)
	user.Get("/billing/subscription", controllers.HandleGetSubscription)
}
