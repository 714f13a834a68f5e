package router

import (
	"github.com/ryvynn-app/ryvynn/app/controllers"
	"github.com/ryvynn-app/ryvynn/internal/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type ApiRouter struct {
}

// InstallRouter registers the headless API. Every route authenticates
// with a per-user API key, which also meters api_calls per day; the IP
// limiter in front only blunts credential scanning.
func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"name":    "ryvynn api",
			"version": "v1",
		})
	})

	v1 := api.Group("/v1", middleware.APIKeyAuthMiddleware())
	v1.Post("/flame/message", controllers.HandleFlameMessage)
	v1.Get("/truths", controllers.HandleTruthFeed)
	v1.Post("/truths", controllers.HandleCreateTruth)
	v1.Post("/truths/:uuid/read", controllers.HandleReadTruth)
	v1.Post("/journal", controllers.HandleCreateJournalEntry)
	v1.Get("/journal", controllers.HandleListJournalEntries)
	v1.Get("/journal/:uuid", controllers.HandleGetJournalEntry)
	v1.Get("/account", controllers.HandleGetAccount)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
