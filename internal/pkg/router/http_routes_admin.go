package router

import (
	"github.com/ryvynn-app/ryvynn/app/controllers"
	"github.com/ryvynn-app/ryvynn/internal/pkg/middleware"

	"github.com/gofiber/fiber/v2"
)

func (h HttpRouter) registerAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.RequireAdmin)

	adminGroup.Get("/stats", controllers.HandleAdminStats)

	// Crisis-held post moderation
	adminGroup.Get("/truths/held", controllers.HandleAdminHeldPosts)
	adminGroup.Post("/truths/:uuid/review", controllers.HandleAdminReviewPost)
}
