package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by route, status and method.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "code", "method"},
	)

	// TicketSavesTotal counts persisted ticket saves.
	TicketSavesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pos_ticket_saves_total",
			Help: "Total number of ticket saves",
		},
	)

	// ConcurrencyConflictsTotal counts rejected saves by the rule that
	// rejected them.
	ConcurrencyConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_concurrency_conflicts_total",
			Help: "Total number of concurrency conflicts by rule",
		},
		[]string{"rule"},
	)

	// StoreSaveDuration observes ticket save latency against the store.
	StoreSaveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pos_store_save_seconds",
			Help:    "Duration of ticket saves",
			Buckets: prometheus.DefBuckets,
		},
	)

	// FreeTagsRegisteredTotal counts lazily registered free tags.
	FreeTagsRegisteredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_free_tags_registered_total",
			Help: "Total number of free tags registered by kind",
		},
		[]string{"kind"},
	)
)
