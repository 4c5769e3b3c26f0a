package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus counters of the admission engine.
type Metrics struct {
	AdmissionsTotal     prometheus.Counter
	AdmissionRejections *prometheus.CounterVec
	ZoneConflicts       prometheus.Counter
	CreditsIssued       prometheus.Counter
}

func New(namespace string) *Metrics {
	return &Metrics{
		AdmissionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admissions_total",
			Help:      "The total number of admitted flight plans",
		}),
		AdmissionRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admission_rejections_total",
			Help:      "The total number of rejected admission attempts",
		}, []string{"cause"}),
		ZoneConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "zone_conflicts_total",
			Help:      "The total number of zone registrations refused for overlap",
		}),
		CreditsIssued: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "credits_issued_total",
			Help:      "The total amount of credit issued by top-ups and refunds",
		}),
	}
}
