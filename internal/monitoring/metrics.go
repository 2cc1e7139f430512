// Package monitoring exposes the bot's prometheus counters and the HTTP
// surface that serves them.
package monitoring

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// DiscordEvents is the total number of gateway events dispatched.
	DiscordEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedium_discord_events_total",
			Help: "Total number of gateway events dispatched",
		},
		[]string{"event"},
	)

	// CommandsHandled is the total number of prefix commands executed.
	CommandsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedium_commands_total",
			Help: "Total number of prefix commands executed",
		},
		[]string{"command"},
	)

	// GateDenials is the total number of command invocations refused by a gate.
	GateDenials = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedium_gate_denials_total",
			Help: "Total number of command invocations refused by a gate",
		},
		[]string{"gate"},
	)

	// TicketsOpened is the total number of ticket channels created.
	TicketsOpened = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "embedium_tickets_opened_total",
			Help: "Total number of ticket channels created",
		},
	)

	// TicketsClosed is the total number of tickets closed.
	TicketsClosed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "embedium_tickets_closed_total",
			Help: "Total number of tickets closed",
		},
	)
)

// Router serves /health and /metrics.
func Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}
