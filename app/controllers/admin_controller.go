package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ryvynn-app/ryvynn/app/repository"
	"github.com/ryvynn-app/ryvynn/internal/pkg/statistics"
	"github.com/ryvynn-app/ryvynn/internal/pkg/usercontext"
)

// HandleAdminStats returns the cached platform counters.
func HandleAdminStats(c *fiber.Ctx) error {
	stats := statistics.GetStatisticsData()
	return c.JSON(fiber.Map{
		"total_users":  stats.TotalUsers,
		"total_truths": stats.TotalTruths,
		"today_truths": stats.TodayTruths,
	})
}

// HandleAdminHeldPosts lists crisis-held posts awaiting review, oldest
// first. The author id is included here; moderators need it to spot
// repeated crisis signals from the same account.
func HandleAdminHeldPosts(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	posts, err := repository.GetGlobalRepositories().Truth.ListHeld(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Held posts could not be loaded",
		})
	}

	list := make([]fiber.Map, 0, len(posts))
	for _, p := range posts {
		list = append(list, fiber.Map{
			"id":           p.UUID,
			"user_id":      p.UserID,
			"content":      p.Content,
			"emotion_tag":  p.EmotionTag,
			"crisis_level": p.CrisisLevel,
			"created_at":   p.CreatedAt,
		})
	}

	return c.JSON(fiber.Map{"posts": list, "count": len(list)})
}

type reviewRequest struct {
	Approve bool `json:"approve"`
}

// HandleAdminReviewPost records the moderation decision for a held post.
// Approval publishes the post; rejection keeps it hidden permanently.
func HandleAdminReviewPost(c *fiber.Ctx) error {
	var req reviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_request",
			"message": "Request body could not be parsed",
		})
	}

	repos := repository.GetGlobalRepositories()
	post, err := repos.Truth.GetPostByUUID(c.Params("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":   "not_found",
				"message": "Post not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Post could not be loaded",
		})
	}
	if post.ReviewedAt != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   "already_reviewed",
			"message": "Post has already been reviewed",
		})
	}

	if err := repos.Truth.MarkReviewed(post.ID, req.Approve); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Review could not be saved",
		})
	}

	adminCtx := usercontext.GetUserContext(c)
	log.Printf("[Admin] user %d reviewed post %s: approve=%t", adminCtx.UserID, post.UUID, req.Approve)

	return c.JSON(fiber.Map{"id": post.UUID, "approved": req.Approve})
}
