package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ryvynn-app/ryvynn/internal/pkg/metrics"
	"github.com/ryvynn-app/ryvynn/internal/pkg/truthfeed"
	"github.com/ryvynn-app/ryvynn/internal/pkg/usercontext"
)

type truthPostRequest struct {
	Content    string `json:"content"`
	EmotionTag string `json:"emotion_tag"`
}

// HandleCreateTruth publishes an anonymous post. Held posts get the
// same response shape as published ones; the author sees "received",
// never "flagged".
func HandleCreateTruth(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req truthPostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid JSON body"})
	}

	result, err := newTruthService().CreatePost(userCtx.UserID, req.Content, req.EmotionTag)
	switch {
	case errors.Is(err, truthfeed.ErrInvalidContent), errors.Is(err, truthfeed.ErrInvalidTag):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create post"})
	}
	if !result.Allowed {
		return limitReached(c, result.Decision)
	}

	outcome := "published"
	if result.Held {
		outcome = "held"
	}
	metrics.TruthPosts.WithLabelValues(outcome).Inc()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":             result.Post.UUID,
		"emotion_tag":    result.Post.EmotionTag,
		"created_at":     result.Post.CreatedAt,
		"tokens_awarded": result.TokensAwarded,
	})
}

// HandleTruthFeed returns the balanced feed. Anonymous readers are
// welcome; reading posts from the feed listing is not metered, only
// individual reads are.
func HandleTruthFeed(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}

	svc := newTruthService()
	posts, err := svc.GetFeed(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load feed"})
	}

	resp := fiber.Map{
		"posts": posts,
		"count": len(posts),
	}

	// logged-in readers also see how many rewarded reads they have left
	userCtx := usercontext.GetUserContext(c)
	if userCtx.IsLoggedIn {
		if d, err := svc.PeekReadQuota(userCtx.UserID); err == nil {
			resp["reads_remaining"] = d.Remaining()
		}
	}

	return c.JSON(resp)
}

// HandleReadTruth records a metered read and returns the post.
func HandleReadTruth(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	postID := c.Params("uuid")

	result, err := newTruthService().ReadPost(userCtx.UserID, postID)
	switch {
	case errors.Is(err, truthfeed.ErrPostNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Post not found"})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to read post"})
	}
	if !result.Allowed {
		return limitReached(c, result.Decision)
	}

	return c.JSON(fiber.Map{
		"post":           result.Post,
		"tokens_awarded": result.TokensAwarded,
	})
}
