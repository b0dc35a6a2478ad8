package monitoring

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// appName prefixes every metric emitted by the data access layer.
const appName = "porter"

var (
	// StoreTotalRequests is the total number of settings store operations.
	StoreTotalRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_store_total_requests", appName),
			Help: "Total number of settings store operations",
		},
		[]string{"dal", "operation"},
	)

	// StoreLatency is the latency of settings store operations.
	StoreLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: fmt.Sprintf("%s_store_latency", appName),
			Help: "Latency of settings store operations",
		},
		[]string{"dal", "operation"},
	)

	// StoreReloads is the number of times the settings document was
	// reloaded after an external edit.
	StoreReloads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_store_reloads", appName),
			Help: "Number of settings document reloads triggered by external edits",
		},
	)
)
