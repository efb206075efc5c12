// Package metrics exposes Prometheus counters for the item API and the
// reminder sweep.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ItemsCreated counts items created through the API.
	ItemsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bytecart_items_created_total",
		Help: "Number of items created.",
	})

	// ReminderSweeps counts completed reminder sweep runs.
	ReminderSweeps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bytecart_reminder_sweeps_total",
		Help: "Number of reminder sweep runs.",
	})

	// ReminderEmailsSent counts successfully delivered reminder emails.
	ReminderEmailsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bytecart_reminder_emails_sent_total",
		Help: "Number of reminder emails sent.",
	})

	// ReminderEmailsFailed counts reminder emails that could not be sent.
	ReminderEmailsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bytecart_reminder_emails_failed_total",
		Help: "Number of reminder emails that failed to send.",
	})
)

// Handler returns the HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
