package controllers

import (
	"math/rand"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ryvynn-app/ryvynn/app/repository"
	"github.com/ryvynn-app/ryvynn/internal/pkg/billing"
	"github.com/ryvynn-app/ryvynn/internal/pkg/entitlements"
	"github.com/ryvynn-app/ryvynn/internal/pkg/flame"
	"github.com/ryvynn-app/ryvynn/internal/pkg/journal"
	"github.com/ryvynn-app/ryvynn/internal/pkg/metrics"
	"github.com/ryvynn-app/ryvynn/internal/pkg/truthfeed"
	"github.com/ryvynn-app/ryvynn/internal/pkg/usage"
)

const (
	AUTH_KEY      string = "authenticated"
	USER_ID       string = "user_id"
	USER_NAME     string = "username"
	USER_IS_ADMIN string = "isAdmin"
)

// Services are stateless wrappers over the global repositories, so
// building them per request is cheap and keeps handlers testable.

func newMeter() *usage.Meter {
	return usage.NewMeter(repository.GetGlobalRepositories().Usage)
}

func newFlameService() *flame.Service {
	repos := repository.GetGlobalRepositories()
	composer := flame.NewComposer(rand.NewSource(time.Now().UnixNano()))
	return flame.NewService(composer, newMeter(), entitlements.NewDefault(), repos.EventLog)
}

func newTruthService() *truthfeed.Service {
	repos := repository.GetGlobalRepositories()
	return truthfeed.NewService(repos.Truth, repos.SoulToken, repos.EventLog, newMeter(), entitlements.NewDefault())
}

func newJournalService() *journal.Service {
	return journal.NewService(repository.GetGlobalRepositories().Journal, entitlements.NewDefault())
}

func newBillingService() *billing.Service {
	repos := repository.GetGlobalRepositories()
	return billing.NewService(
		repos.User,
		repos.Subscription,
		repos.WebhookEvent,
		repos.PaymentEvent,
		entitlements.NewDefault(),
		billing.NewPriceMapFromEnv(),
	)
}

// limitReached writes the standard 429 payload and bumps the denial metric
func limitReached(c *fiber.Ctx, d usage.Decision) error {
	metrics.UsageDenials.WithLabelValues(string(d.Kind)).Inc()
	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"error":   "limit_reached",
		"kind":    d.Kind,
		"current": d.Current,
		"limit":   d.Limit,
	})
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
