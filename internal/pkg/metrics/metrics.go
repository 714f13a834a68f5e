// Package metrics exposes the Prometheus instrumentation for the app.
package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// WebhookEvents counts billing webhook deliveries by type and result
	// (applied, duplicate, ignored, rejected, failed).
	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ryvynn_webhook_events_total",
		Help: "Billing webhook deliveries by event type and apply result.",
	}, []string{"type", "result"})

	// UsageDenials counts limit denials by counter kind.
	UsageDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ryvynn_usage_denials_total",
		Help: "Metered actions denied because the daily limit was reached.",
	}, []string{"kind"})

	// FlameCalls counts companion exchanges by crisis level ("none" when
	// no crisis language was detected).
	FlameCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ryvynn_flame_calls_total",
		Help: "Companion exchanges by detected crisis level.",
	}, []string{"crisis_level"})

	// TruthPosts counts feed posts by visibility outcome.
	TruthPosts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ryvynn_truth_posts_total",
		Help: "Truth feed posts by outcome (published, held).",
	}, []string{"outcome"})
)

// Handler serves the Prometheus scrape endpoint inside fiber.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
