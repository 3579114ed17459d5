package lockservice

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	lockGrantTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lockservice_grant_total",
			Help: "Total number of lease grant attempts by outcome",
		},
		[]string{"dataSource", "lockType", "status"},
	)

	activePosseGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lockservice_active_posses",
			Help: "Current number of active lock posses per data source",
		},
		[]string{"dataSource"},
	)

	allocationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lockservice_allocation_total",
			Help: "Total number of segment allocation attempts by outcome",
		},
		[]string{"dataSource", "status"},
	)
)

// metrics is a thin per-Lockbox facade over the package's shared prometheus
// collectors, mirroring the scheduler package's record* helper functions.
type metrics struct{}

func newMetrics() *metrics { return &metrics{} }

func (m *metrics) recordGrant(dataSource, lockType, status string) {
	lockGrantTotal.WithLabelValues(normalizeLabel(dataSource), normalizeLabel(lockType), normalizeLabel(status)).Inc()
}

func (m *metrics) setActivePosses(dataSource string, n int) {
	activePosseGauge.WithLabelValues(normalizeLabel(dataSource)).Set(float64(n))
}

func (m *metrics) recordAllocation(dataSource, status string) {
	allocationTotal.WithLabelValues(normalizeLabel(dataSource), normalizeLabel(status)).Inc()
}

func normalizeLabel(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "unknown"
	}
	return trimmed
}
