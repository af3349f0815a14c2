package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	SubmissionsAccepted  prometheus.Counter
	SubmissionsRejected  prometheus.Counter
	UncheckedSubmissions prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		SubmissionsAccepted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "opus_submission_accepted_total",
			Help: "Total number of accepted submissions (papers and versions)",
		}),
		SubmissionsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "opus_submission_rejected_total",
			Help: "Total number of submissions rejected by the plagiarism gate",
		}),
		UncheckedSubmissions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "opus_submission_unchecked_total",
			Help: "Total number of submissions accepted without a similarity verdict under the outage policy",
		}),
	}
}

func (m *Metrics) IncrementAccepted() {
	if m != nil {
		m.SubmissionsAccepted.Inc()
	}
}

func (m *Metrics) IncrementRejected() {
	if m != nil {
		m.SubmissionsRejected.Inc()
	}
}

func (m *Metrics) IncrementUnchecked() {
	if m != nil {
		m.UncheckedSubmissions.Inc()
	}
}
