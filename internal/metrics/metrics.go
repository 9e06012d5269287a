package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "marigunting"

var (
	once sync.Once

	discoveryRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discovery_runs_total",
			Help:      "Count of filter-and-rank runs by ranking mode.",
		},
		[]string{"mode"},
	)

	discoveryExcluded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discovery_excluded_total",
			Help:      "Count of businesses excluded, by the filter that dropped them.",
		},
		[]string{"filter"},
	)

	bookingTransition = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_transition_total",
			Help:      "Count of booking step transitions.",
		},
		[]string{"from", "to"},
	)

	bookingRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_rejected_total",
			Help:      "Count of blocked forward transitions by reason.",
		},
		[]string{"reason"},
	)

	quotes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_total",
			Help:      "Count of price breakdowns computed by channel.",
		},
		[]string{"channel"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(discoveryRuns, discoveryExcluded, bookingTransition, bookingRejected, quotes)
	})
}

func IncDiscoveryRun(mode string) {
	discoveryRuns.WithLabelValues(mode).Inc()
}

func AddExcluded(filter string, n int) {
	if n <= 0 {
		return
	}
	discoveryExcluded.WithLabelValues(filter).Add(float64(n))
}

func IncTransition(from, to string) {
	bookingTransition.WithLabelValues(from, to).Inc()
}

func IncRejected(reason string) {
	bookingRejected.WithLabelValues(reason).Inc()
}

func IncQuote(channel string) {
	quotes.WithLabelValues(channel).Inc()
}
