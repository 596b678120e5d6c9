// Package telemetry holds the Prometheus metrics exposed on GET /metrics by "driftbot serve".
//
// All metrics are registered against the default registry at package init, so any
// importer can record into them without further setup.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultSuccess = "success"
	ResultEmpty   = "empty"
	ResultFailure = "failure"
)

var (
	// ScansTotal counts drift scans by result (success, empty, failure).
	ScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "driftbot_scans_total",
			Help: "Total number of step template drift scans, by result.",
		},
		[]string{"result"},
	)

	// StaleUsages is the number of stale usages found by the last successful scan.
	StaleUsages = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "driftbot_stale_usages",
			Help: "Number of projects pinned to an outdated step template version at the last scan.",
		},
	)

	// UpstreamRequestsTotal counts outbound API calls by api and HTTP status code.
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "driftbot_upstream_requests_total",
			Help: "Total number of requests sent to upstream APIs, by api and status code.",
		},
		[]string{"api", "status"},
	)

	// ChatCommandsTotal counts dispatched chat commands by command name and result.
	ChatCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "driftbot_chat_commands_total",
			Help: "Total number of chat commands handled, by command and result.",
		},
		[]string{"command", "result"},
	)
)
