// Package metrics exposes the prometheus collectors shared across the bot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpdatesTotal counts received Telegram updates by kind.
	UpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tunebot",
		Name:      "updates_total",
		Help:      "Telegram updates received, by update kind.",
	}, []string{"kind"})

	// SearchesTotal counts search requests by outcome (ok, empty).
	SearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tunebot",
		Name:      "searches_total",
		Help:      "Search queries processed, by outcome.",
	}, []string{"outcome"})

	// DownloadsTotal counts delivery workflow runs by terminal state.
	DownloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tunebot",
		Name:      "downloads_total",
		Help:      "Download workflow runs, by terminal state.",
	}, []string{"status"})

	// ActiveSessions tracks the number of live search sessions.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tunebot",
		Name:      "active_sessions",
		Help:      "Search sessions currently held in memory.",
	})

	// DownloadDuration observes end-to-end fetch latency.
	DownloadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tunebot",
		Name:      "download_duration_seconds",
		Help:      "Audio fetch duration in seconds.",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
	})
)
