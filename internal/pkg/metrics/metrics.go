// Package metrics defines and registers all custom Prometheus metrics for the
// job board API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry at package init and
// are exposed on /metrics by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "jobboard"

// ── Application metrics ───────────────────────────────────────────────────────

// ApplicationsCreatedTotal counts applications that were persisted.
var ApplicationsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_created_total",
		Help:      "Total number of applications created.",
	},
)

// ApplicationsWithdrawnTotal counts applications removed by their owner.
var ApplicationsWithdrawnTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_withdrawn_total",
		Help:      "Total number of applications withdrawn by the applicant.",
	},
)

// ApplicationReviewsTotal counts accept/reject calls.
// Labels:
//   - status: the requested status ("accepted" or "rejected")
//   - changed: "true" when the stored status moved, "false" for a repeat call
var ApplicationReviewsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "application_reviews_total",
		Help:      "Total number of accept/reject calls, by requested status and whether the state changed.",
	},
	[]string{"status", "changed"},
)

// ── Capacity metrics ──────────────────────────────────────────────────────────

// CapacityConflictsTotal counts apply attempts refused because the post was full.
var CapacityConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "capacity_conflicts_total",
		Help:      "Total number of slot reservations refused for lack of capacity.",
	},
)

// CapacityOverReleaseTotal counts slot releases blocked because the post was
// already back at its original capacity.
var CapacityOverReleaseTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "capacity_over_release_total",
		Help:      "Total number of slot releases blocked by the capacity ceiling.",
	},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsTotal counts notification outcomes.
// Labels:
//   - template: the notification template name
//   - result: "sent", "failed" (retries exhausted) or "dropped" (queue full)
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of notifications by template and outcome.",
	},
	[]string{"template", "result"},
)

// NotificationQueueDepth tracks the number of notifications waiting in each worker channel.
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// NotificationDeliveryDuration measures a delivery including retries.
var NotificationDeliveryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_delivery_duration_seconds",
		Help:      "Duration of notification delivery from dequeue to final outcome.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"template"},
)

// ── Admin metrics ─────────────────────────────────────────────────────────────

// StatsCacheTotal counts admin stats cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var StatsCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stats_cache_total",
		Help:      "Total number of admin stats cache lookups by result.",
	},
	[]string{"result"},
)
